package reindex

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker reports reindexing progress to a writer. Progress lines are
// emitted at most once per reportEvery processed records, plus once on
// completion, so a terminal is not flooded when batches are small.
type ProgressTracker struct {
	out         io.Writer
	total       int
	reportEvery int

	mu        sync.Mutex
	done      int
	lastShown int
	begun     time.Time
	running   bool
}

// NewProgressTracker creates a tracker for total records, reporting every
// reportEvery records. A reportEvery below 1 is treated as 1.
func NewProgressTracker(out io.Writer, total, reportEvery int) *ProgressTracker {
	if reportEvery < 1 {
		reportEvery = 1
	}
	return &ProgressTracker{out: out, total: total, reportEvery: reportEvery}
}

// Start records the starting time. Updates before Start are ignored.
func (pt *ProgressTracker) Start() {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.begun = time.Now()
	pt.running = true
}

// Update sets the absolute number of processed records.
func (pt *ProgressTracker) Update(done int) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.advance(done)
}

// Increment adds n to the number of processed records.
func (pt *ProgressTracker) Increment(n int) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.advance(pt.done + n)
}

// advance moves the counter to position to and reports when due.
// Callers hold pt.mu.
func (pt *ProgressTracker) advance(to int) {
	if !pt.running {
		return
	}
	pt.done = to
	if pt.done-pt.lastShown < pt.reportEvery && pt.done < pt.total {
		return
	}
	pt.lastShown = pt.done
	pt.report()
}

// report writes the current progress line. Callers hold pt.mu.
func (pt *ProgressTracker) report() {
	percent := 0.0
	if pt.total > 0 {
		percent = float64(pt.done) / float64(pt.total) * 100
	}
	rate := 0.0
	if secs := time.Since(pt.begun).Seconds(); secs > 0 {
		rate = float64(pt.done) / secs
	}
	fmt.Fprintf(pt.out, "\rReindexing %d/%d (%.1f%%) %.1f records/s",
		pt.done, pt.total, percent, rate)
}

// Finish writes a final progress line and terminates it with a newline.
// The tracker stops accepting updates afterwards.
func (pt *ProgressTracker) Finish() {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	if !pt.running {
		return
	}
	pt.report()
	fmt.Fprintln(pt.out)
	pt.running = false
}

// Elapsed returns the time since Start, or zero when never started.
func (pt *ProgressTracker) Elapsed() time.Duration {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	if pt.begun.IsZero() {
		return 0
	}
	return time.Since(pt.begun)
}
