package logic

// SampleWindow is a fixed-capacity circular buffer of raw samples.
// Not safe for concurrent use; the controller is its only owner.
type SampleWindow struct {
	buf    []int
	cursor int // next write position
	count  int
	filled bool
}

// NewSampleWindow allocates a window of the given size. Sizes below 1 are
// treated as 1, which makes the average follow the latest sample.
func NewSampleWindow(size int) *SampleWindow {
	if size < 1 {
		size = 1
	}
	return &SampleWindow{buf: make([]int, size)}
}

// Add writes raw at the cursor and advances it, wrapping at capacity.
func (w *SampleWindow) Add(raw int) {
	w.buf[w.cursor] = raw
	w.cursor = (w.cursor + 1) % len(w.buf)
	if w.cursor == 0 {
		w.filled = true
	}
	if w.count < len(w.buf) {
		w.count++
	}
}

// Average returns the truncated mean of the stored samples.
// ok is false when no sample has been added yet.
func (w *SampleWindow) Average() (avg int, ok bool) {
	n := w.count
	if w.filled {
		n = len(w.buf)
	}
	if n == 0 {
		return 0, false
	}

	sum := 0
	for i := 0; i < n; i++ {
		sum += w.buf[i]
	}
	return sum / n, true
}

// Len returns the number of samples currently contributing to the average.
func (w *SampleWindow) Len() int {
	return w.count
}

// Cap returns the window capacity.
func (w *SampleWindow) Cap() int {
	return len(w.buf)
}

// Filled reports whether the cursor has wrapped at least once.
func (w *SampleWindow) Filled() bool {
	return w.filled
}
