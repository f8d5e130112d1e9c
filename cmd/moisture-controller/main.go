// Command moisture-controller samples a soil-moisture sensor and drives a
// pump relay and indicator LED with hysteresis.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/sweeney/moisture-controller/internal/config"
	"github.com/sweeney/moisture-controller/internal/controller"
	"github.com/sweeney/moisture-controller/internal/gpio"
	"github.com/sweeney/moisture-controller/internal/sensor"
	"github.com/sweeney/moisture-controller/internal/status"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "Path to YAML config file (missing file uses defaults)")
	printState := flag.Bool("print-state", false, "Take one reading, print status JSON and exit")
	logLevel := flag.String("log-level", "", "Override log level (debug, info, warn, error)")

	flag.Parse()

	if err := run(*configPath, *printState, *logLevel); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(configPath string, printState bool, logLevel string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	logger, err := newLogger(cfg.Logging, os.Stderr)
	if err != nil {
		return err
	}

	reader, err := sensor.NewI2CReader(cfg.Sensor.Bus, cfg.Sensor.Address, cfg.Sensor.Channel)
	if err != nil {
		return fmt.Errorf("init sensor: %w", err)
	}
	defer reader.Close()

	lc := cfg.Controller()
	outputs, err := gpio.NewRealWriter(cfg.Outputs.Chip, cfg.Outputs.PumpPin, cfg.Outputs.LEDPin, lc.ActiveLow)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	// Close drives both lines OFF before releasing them.
	defer outputs.Close()

	ctrl := controller.New(lc, reader, outputs, status.NewLogReporter(logger), logger, time.Now())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	if s := primeUntilSignal(ctrl, sigCh); s != nil {
		logger.Info().Str("signal", signalName(s)).Msg("shutting down during priming")
		ctrl.Shutdown()
		return nil
	}

	if printState {
		ctrl.Step(time.Now())
		ctrl.Shutdown()
		fmt.Println(string(status.FormatJSON(ctrl.Snapshot())))
		return nil
	}

	poll := pollInterval(lc.SampleInterval)
	logger.Info().
		Dur("sample_interval", lc.SampleInterval).
		Dur("poll", poll).
		Dur("min_run", lc.MinRun).
		Dur("cooldown", lc.Cooldown).
		Int("window", lc.WindowSize).
		Int("dry_pct", lc.DryThreshold).
		Int("wet_pct", lc.WetThreshold).
		Bool("active_low", lc.ActiveLow).
		Msg("started")

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	return runLoop(ctrl, logger, time.Now, ticker.C, sigCh)
}

func runLoop(ctrl *controller.Controller, logger zerolog.Logger, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			logger.Info().Str("signal", signalName(s)).Msg("shutting down")
			ctrl.Shutdown()
			return nil

		case <-tick:
			ctrl.Tick(now())
		}
	}
}

// primeUntilSignal primes the sample window, abandoning it when a signal
// arrives on sig. It returns that signal, or nil when priming completed.
// A signal arriving just as priming finishes stays on sig for runLoop.
func primeUntilSignal(ctrl *controller.Controller, sig <-chan os.Signal) os.Signal {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got os.Signal
	done := make(chan struct{})
	go func() {
		defer close(done)
		select {
		case s := <-sig:
			got = s
			cancel()
		case <-ctx.Done():
		}
	}()

	ctrl.Prime(ctx, func(d time.Duration) { sleepCtx(ctx, d) })
	cancel()
	<-done
	return got
}

// sleepCtx waits for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// pollInterval is how often the loop wakes to check whether a sample is due.
func pollInterval(sample time.Duration) time.Duration {
	poll := sample / 10
	if poll < 10*time.Millisecond {
		poll = 10 * time.Millisecond
	}
	return poll
}

func newLogger(cfg config.LoggingConfig, out io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level %q: %w", cfg.Level, err)
	}
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}
