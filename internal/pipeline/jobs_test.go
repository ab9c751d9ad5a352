package pipeline

import (
	"testing"
	"time"

	"github.com/dgallion1/docstruct/internal/scoring"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_DifferentInputs(t *testing.T) {
	h1 := ContentHashHex([]byte("aaa"))
	h2 := ContentHashHex([]byte("bbb"))
	if h1 == h2 {
		t.Error("expected different hashes for different inputs")
	}
}

func TestContentHashHex_EmptyInput(t *testing.T) {
	h := ContentHashHex([]byte{})
	// SHA-256 of empty input is well-known.
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if h != want {
		t.Errorf("expected hash %q, got %q", want, h)
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{
		ID:        "test-1",
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusExtracting, "reading spans"},
		{StatusStructuring, "building outline"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJob_SetStatusFailed(t *testing.T) {
	job := &Job{
		ID:        "test-fail",
		Status:    StatusStructuring,
		UpdatedAt: time.Now(),
	}
	job.SetStatus(StatusFailed, "structure error")
	if job.Status != StatusFailed {
		t.Errorf("expected status %q, got %q", StatusFailed, job.Status)
	}
}

func TestJob_AddError(t *testing.T) {
	job := &Job{ID: "err-test", UpdatedAt: time.Now()}
	job.AddError("extract spans: bad page")
	job.AddError("structure: span has no style")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "extract spans: bad page" {
		t.Errorf("expected first error %q, got %q", "extract spans: bad page", snap.Progress.Errors[0])
	}
}

func TestJob_SetSpanCount(t *testing.T) {
	job := &Job{ID: "spans-test", UpdatedAt: time.Now()}
	job.SetSpanCount(42)

	snap := job.Snapshot()
	if snap.Progress.Spans != 42 {
		t.Errorf("expected 42 spans, got %d", snap.Progress.Spans)
	}
}

func TestJob_SetResult(t *testing.T) {
	job := NewJob("doc.txt", []byte("HEADING\nbody"), scoring.DefaultWeights())
	doc := loadDoc(t)
	job.SetResult(doc)

	if job.Result() != doc {
		t.Fatal("expected stored document")
	}
	if job.FileData() != nil {
		t.Error("expected file data released after result")
	}
	snap := job.Snapshot()
	if snap.Progress.Spans != doc.Len() || snap.Progress.Levels != doc.Levels() {
		t.Errorf("expected progress %d spans %d levels, got %+v", doc.Len(), doc.Levels(), snap.Progress)
	}
}

func TestJob_CacheKey(t *testing.T) {
	w := scoring.DefaultWeights()
	a := NewJob("a.txt", []byte("same"), w)
	b := NewJob("b.txt", []byte("same"), w)
	if a.ID == b.ID {
		t.Error("expected distinct job ids")
	}
	if a.CacheKey() != b.CacheKey() {
		t.Errorf("expected equal cache keys, got %q and %q", a.CacheKey(), b.CacheKey())
	}
	w.BoldBonus = 2
	c := NewJob("a.txt", []byte("same"), w)
	if a.CacheKey() == c.CacheKey() {
		t.Error("expected weights to change the cache key")
	}
}

func TestJob_FileData(t *testing.T) {
	job := &Job{ID: "data-test"}
	data := []byte("file content here")
	job.SetFileData(data)
	got := job.FileData()
	if string(got) != string(data) {
		t.Errorf("expected file data %q, got %q", data, got)
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return non-nil errors slice.
	job := &Job{ID: "snap-test", UpdatedAt: time.Now()}
	snap := job.Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if len(snap.Progress.Errors) != 0 {
		t.Errorf("expected empty errors, got %d", len(snap.Progress.Errors))
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "store-1", UpdatedAt: time.Now()}
	store.Put(job)

	got := store.Get("store-1")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != "store-1" {
		t.Errorf("expected ID %q, got %q", "store-1", got.ID)
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := &Job{ID: "old", UpdatedAt: time.Now()}
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	// Add a fresh job.
	fresh := &Job{ID: "new", UpdatedAt: time.Now()}
	store.Put(fresh)

	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get("new") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	// Should not panic on empty store.
	store.Cleanup()
}

func TestJobStore_FindCompleted(t *testing.T) {
	store := NewJobStore(time.Hour)
	pending := NewJob("a.txt", []byte("x"), scoring.DefaultWeights())
	store.Put(pending)
	if store.FindCompleted(pending.CacheKey()) != nil {
		t.Fatal("expected no completed job yet")
	}

	pending.SetResult(loadDoc(t))
	if got := store.FindCompleted(pending.CacheKey()); got != pending {
		t.Errorf("expected completed job %q, got %v", pending.ID, got)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 job, got %d", store.Len())
	}
}
