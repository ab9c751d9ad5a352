package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/dgallion1/docstruct/internal/config"
	"github.com/dgallion1/docstruct/internal/scoring"
)

func waitDone(t *testing.T, job *Job) JobSnapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		snap := job.Snapshot()
		if snap.Status.Done() {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish", job.ID)
	return JobSnapshot{}
}

func TestOrchestrator_SubmitAndCache(t *testing.T) {
	cfg := config.Defaults()
	cfg.WorkerCount = 2
	o := NewOrchestrator(cfg, discardLogger())
	o.Start(context.Background())
	defer o.Stop()

	first := NewJob("guide.md", []byte(sampleMarkdown), o.DefaultWeights())
	if err := o.Submit(first); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if snap := waitDone(t, first); snap.Status != StatusCompleted {
		t.Fatalf("expected status %q, got %q", StatusCompleted, snap.Status)
	}
	if o.GetJob(first.ID) != first {
		t.Error("expected job to be retrievable by id")
	}

	second := NewJob("copy.md", []byte(sampleMarkdown), o.DefaultWeights())
	if err := o.Submit(second); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := second.Snapshot().Status; got != StatusCached {
		t.Fatalf("expected status %q, got %q", StatusCached, got)
	}
	if second.Result() != first.Result() {
		t.Error("expected cached job to share the first result")
	}
	if o.Stats().Snapshot().Count != 1 {
		t.Errorf("expected a single recorded build, got %d", o.Stats().Snapshot().Count)
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	cfg := config.Defaults()
	cfg.MaxQueueSize = 1
	o := NewOrchestrator(cfg, discardLogger())
	defer o.Stop()

	if err := o.Submit(NewJob("a.txt", []byte("a"), scoring.DefaultWeights())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	overflow := NewJob("b.txt", []byte("b"), scoring.DefaultWeights())
	if err := o.Submit(overflow); err == nil {
		t.Fatal("expected queue full error")
	}
	if got := overflow.Snapshot().Status; got != StatusFailed {
		t.Errorf("expected status %q, got %q", StatusFailed, got)
	}
	if o.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", o.QueueDepth())
	}
}

func TestOrchestrator_DefaultWeights(t *testing.T) {
	o := NewOrchestrator(config.Defaults(), discardLogger())
	defer o.Stop()

	w := o.DefaultWeights()
	if w != scoring.DefaultWeights() {
		t.Errorf("expected default weights, got %+v", w)
	}
	w.UpperBonus = 3
	o.SetDefaultWeights(w)
	if o.DefaultWeights().UpperBonus != 3 {
		t.Errorf("expected updated weights, got %+v", o.DefaultWeights())
	}
}
