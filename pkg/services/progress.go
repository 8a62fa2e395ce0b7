package services

import "sync"

// Progress represents the state of one chapter run
type Progress struct {
	ChapterURL  string
	Title       string
	CurrentPage int // Pages finished so far, successful or not
	TotalPages  int
	Failed      int
	Status      string // "resolving", "downloading", "archiving", "complete", "partial", "skipped", "error"
	Error       error
}

// Done reports whether no further updates will follow for the chapter.
func (p Progress) Done() bool {
	switch p.Status {
	case "complete", "partial", "skipped", "error":
		return true
	}
	return false
}

// ProgressReporter fans progress updates out to a single listener. A nil
// reporter drops every update.
type ProgressReporter struct {
	ch   chan Progress
	once sync.Once
	mu   sync.RWMutex
	done bool
}

func NewProgressReporter(buffer int) *ProgressReporter {
	return &ProgressReporter{ch: make(chan Progress, buffer)}
}

// Channel returns the channel for receiving progress updates
func (r *ProgressReporter) Channel() <-chan Progress {
	return r.ch
}

// Send publishes an update without blocking. Updates are dropped when the
// listener falls behind or after Close.
func (r *ProgressReporter) Send(p Progress) {
	if r == nil {
		return
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.done {
		return
	}
	select {
	case r.ch <- p:
	default:
	}
}

// Close closes the channel. It is safe to call more than once.
func (r *ProgressReporter) Close() {
	if r == nil {
		return
	}
	r.once.Do(func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.done = true
		close(r.ch)
	})
}
