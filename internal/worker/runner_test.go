package worker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ppiankov/tripparse/internal/model"
)

// fakeProcessor returns a record named after the inquiry after an optional delay
type fakeProcessor struct {
	delay   func(id string) time.Duration
	onStart func(id string)
	fail    map[string]bool
}

func (f *fakeProcessor) ProcessInquiry(ctx context.Context, inq model.Inquiry) model.Result {
	if f.onStart != nil {
		f.onStart(inq.ID)
	}
	if f.delay != nil {
		time.Sleep(f.delay(inq.ID))
	}
	if ctx.Err() != nil {
		return model.Result{Failure: model.NewFailure(inq.ID, inq.Path, ctx.Err())}
	}
	if f.fail[inq.ID] {
		return model.Result{Failure: model.NewFailure(inq.ID, inq.Path, model.ErrDecode)}
	}
	return model.Result{Record: &model.ExtractedRecord{InquiryID: inq.ID, SourceFile: inq.Path}}
}

func inquiries(n int) []model.Inquiry {
	out := make([]model.Inquiry, n)
	for i := range out {
		id := fmt.Sprintf("inquiry_%03d.txt", i+1)
		out[i] = model.Inquiry{ID: id, Path: "in/" + id, Raw: []byte(id)}
	}
	return out
}

func TestRunner_PreservesOrder(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	delays := make(map[string]time.Duration)
	in := inquiries(40)
	for _, inq := range in {
		delays[inq.ID] = time.Duration(r.Intn(5)) * time.Millisecond
	}
	proc := &fakeProcessor{
		delay: func(id string) time.Duration { return delays[id] },
		fail:  map[string]bool{"inquiry_007.txt": true},
	}

	results := NewRunner(proc, 8, 0).RunAll(context.Background(), in).Results

	if len(results) != len(in) {
		t.Fatalf("expected %d results, got %d", len(in), len(results))
	}
	for i, res := range results {
		if res.Index != i {
			t.Errorf("result %d has index %d", i, res.Index)
		}
		if res.InquiryID != in[i].ID {
			t.Errorf("result %d: expected %s, got %s", i, in[i].ID, res.InquiryID)
		}
		if (res.Record == nil) == (res.Failure == nil) {
			t.Errorf("result %d must hold exactly one of record or failure", i)
		}
	}
	if results[6].Failure == nil || !errors.Is(results[6].Failure, model.ErrDecode) {
		t.Errorf("expected decode failure for inquiry_007, got %+v", results[6])
	}
}

func TestRunner_RecordsElapsed(t *testing.T) {
	proc := &fakeProcessor{
		delay: func(string) time.Duration { return 20 * time.Millisecond },
	}

	batch := NewRunner(proc, 1, 0).RunAll(context.Background(), inquiries(3))

	if len(batch.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(batch.Results))
	}
	if batch.Elapsed < 60*time.Millisecond {
		t.Errorf("expected elapsed of at least 60ms for three serial inquiries, got %v", batch.Elapsed)
	}
}

func TestRunner_EmptyBatch(t *testing.T) {
	results := NewRunner(&fakeProcessor{}, 2, 0).RunAll(context.Background(), nil).Results
	if results == nil || len(results) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", results)
	}
}

func TestRunner_CancellationAbortsUnstarted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	proc := &fakeProcessor{
		onStart: func(id string) {
			if id == "inquiry_001.txt" {
				cancel()
			}
		},
	}

	in := inquiries(6)
	results := NewRunner(proc, 1, 0).RunAll(ctx, in).Results

	if len(results) != len(in) {
		t.Fatalf("expected %d results, got %d", len(in), len(results))
	}
	if results[0].Record == nil {
		t.Errorf("expected in-flight inquiry to finish, got %+v", results[0].Failure)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Failure == nil || !errors.Is(results[i].Failure, model.ErrAborted) {
			t.Errorf("result %d: expected aborted failure, got %+v", i, results[i])
		}
		if results[i].InquiryID != in[i].ID {
			t.Errorf("result %d: expected id %s, got %s", i, in[i].ID, results[i].InquiryID)
		}
	}
}

func TestRunner_Timeout(t *testing.T) {
	proc := &fakeProcessor{
		delay: func(id string) time.Duration {
			if id == "inquiry_002.txt" {
				return 300 * time.Millisecond
			}
			return 0
		},
	}

	results := NewRunner(proc, 2, 50*time.Millisecond).RunAll(context.Background(), inquiries(3)).Results

	if !errors.Is(results[1].Failure, model.ErrTimeout) {
		t.Errorf("expected timeout failure, got %+v", results[1])
	}
	if results[0].Record == nil || results[2].Record == nil {
		t.Error("expected fast inquiries to succeed")
	}
}

type panickingProcessor struct{}

func (panickingProcessor) ProcessInquiry(context.Context, model.Inquiry) model.Result {
	panic("boom")
}

func TestRunner_PanicBecomesFailure(t *testing.T) {
	results := NewRunner(panickingProcessor{}, 2, 0).RunAll(context.Background(), inquiries(2)).Results

	for i, res := range results {
		if res.Failure == nil || !strings.Contains(res.Failure.Reason, "boom") {
			t.Errorf("result %d: expected panic failure, got %+v", i, res)
		}
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestProgress_Throttled(t *testing.T) {
	var buf syncBuffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	p := NewProgressEvery(log, 100, time.Hour)
	for i := 0; i < 100; i++ {
		p.Record(model.Result{})
	}
	p.Record(model.Result{Failure: &model.ExtractionFailure{}})

	if got := strings.Count(buf.String(), "msg=progress"); got != 1 {
		t.Errorf("expected 1 progress line within the interval, got %d", got)
	}
	if p.Done() != 101 {
		t.Errorf("expected 101 recorded, got %d", p.Done())
	}

	p.Finish()
	if !strings.Contains(buf.String(), "failed=1") {
		t.Errorf("expected failure count in final line, got %s", buf.String())
	}
}
