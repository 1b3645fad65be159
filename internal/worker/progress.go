package worker

import (
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/ppiankov/tripparse/internal/model"
)

// Progress counts finished inquiries and logs at most once per interval
type Progress struct {
	total     int
	done      atomic.Int64
	failed    atomic.Int64
	sometimes *rate.Sometimes
	log       *slog.Logger
	start     time.Time
}

// NewProgress creates a progress reporter that logs at most once per second
func NewProgress(log *slog.Logger, total int) *Progress {
	return NewProgressEvery(log, total, time.Second)
}

// NewProgressEvery creates a progress reporter with a custom interval
func NewProgressEvery(log *slog.Logger, total int, interval time.Duration) *Progress {
	return &Progress{
		total:     total,
		sometimes: &rate.Sometimes{Interval: interval},
		log:       log,
		start:     time.Now(),
	}
}

// Record counts one result. Safe for concurrent use.
func (p *Progress) Record(res model.Result) {
	done := p.done.Add(1)
	failed := p.failed.Load()
	if res.Failure != nil {
		failed = p.failed.Add(1)
	}
	p.sometimes.Do(func() {
		p.log.Info("progress", "done", done, "total", p.total, "failed", failed)
	})
}

// Done returns the number of recorded results
func (p *Progress) Done() int {
	return int(p.done.Load())
}

// Finish logs the final count
func (p *Progress) Finish() {
	p.log.Info("batch complete",
		"done", p.done.Load(),
		"total", p.total,
		"failed", p.failed.Load(),
		"duration", time.Since(p.start).Round(time.Millisecond))
}
