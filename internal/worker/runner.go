package worker

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/ppiankov/tripparse/internal/logging"
	"github.com/ppiankov/tripparse/internal/model"
)

// InquiryProcessor turns one inquiry into a result
type InquiryProcessor interface {
	ProcessInquiry(ctx context.Context, inq model.Inquiry) model.Result
}

// inquiryJob processes one inquiry under an optional watchdog
type inquiryJob struct {
	index     int
	inquiry   model.Inquiry
	processor InquiryProcessor
	timeout   time.Duration
	progress  *Progress
}

func (j *inquiryJob) Index() int { return j.index }

// Execute runs the processor. A panic or an expired watchdog becomes a failure.
func (j *inquiryJob) Execute(ctx context.Context) Result {
	res := j.run(ctx)
	res.Index = j.index
	res.InquiryID = j.inquiry.ID
	if j.progress != nil {
		j.progress.Record(res)
	}
	return res
}

func (j *inquiryJob) run(ctx context.Context) model.Result {
	if j.timeout <= 0 {
		return j.safeProcess(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	done := make(chan model.Result, 1)
	go func() {
		done <- j.safeProcess(ctx)
	}()

	select {
	case res := <-done:
		return res
	case <-ctx.Done():
		err := fmt.Errorf("no result after %s: %w", j.timeout, model.ErrTimeout)
		return model.Result{Failure: model.NewFailure(j.inquiry.ID, j.inquiry.Path, err)}
	}
}

func (j *inquiryJob) safeProcess(ctx context.Context) (res model.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = model.Result{Failure: model.NewFailure(j.inquiry.ID, j.inquiry.Path, fmt.Errorf("internal error: %v", r))}
		}
	}()
	return j.processor.ProcessInquiry(ctx, j.inquiry)
}

// Runner processes a batch of inquiries on a bounded pool
type Runner struct {
	processor InquiryProcessor
	workers   int
	timeout   time.Duration
	log       *slog.Logger
}

// NewRunner creates a runner. workers <= 0 uses one worker per CPU; timeout 0 disables the watchdog.
func NewRunner(processor InquiryProcessor, workers int, timeout time.Duration) *Runner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Runner{
		processor: processor,
		workers:   workers,
		timeout:   timeout,
		log:       logging.New("runner"),
	}
}

// Batch is the outcome of one run
type Batch struct {
	Results []model.Result
	Elapsed time.Duration // Wall time from first submission to last result
}

// RunAll processes every inquiry and returns exactly one result per input, in
// input order. After cancellation, inquiries never started are reported as aborted.
func (r *Runner) RunAll(ctx context.Context, inquiries []model.Inquiry) Batch {
	if len(inquiries) == 0 {
		return Batch{Results: []model.Result{}}
	}

	start := time.Now()
	progress := NewProgress(r.log, len(inquiries))

	pool := NewPool(ctx, r.workers)
	pool.Start()

	submitted := 0
	for i, inq := range inquiries {
		job := &inquiryJob{
			index:     i,
			inquiry:   inq,
			processor: r.processor,
			timeout:   r.timeout,
			progress:  progress,
		}
		if !pool.Submit(job) {
			break
		}
		submitted++
	}

	// Cancelled mid-submission: drop queued jobs, let running ones finish
	if ctx.Err() != nil {
		pool.Shutdown()
	}
	collected := pool.Wait()

	results := make([]model.Result, len(inquiries))
	aborted := 0
	for i, inq := range inquiries {
		if res, ok := collected[i]; ok {
			results[i] = res.(model.Result)
			continue
		}
		aborted++
		results[i] = model.Result{
			Index:     i,
			InquiryID: inq.ID,
			Failure:   model.NewFailure(inq.ID, inq.Path, model.ErrAborted),
		}
	}

	elapsed := time.Since(start)
	progress.Finish()
	if aborted > 0 {
		r.log.Warn("batch cancelled", "aborted", aborted, "submitted", submitted, "total", len(inquiries))
	}
	r.log.Debug("batch finished", "total", len(inquiries), "duration", elapsed)

	return Batch{Results: results, Elapsed: elapsed}
}
