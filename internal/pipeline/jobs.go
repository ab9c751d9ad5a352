package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/docstruct/internal/outline"
	"github.com/dgallion1/docstruct/internal/scoring"
)

// JobStatus represents the state of a structuring job.
type JobStatus string

const (
	StatusQueued      JobStatus = "queued"
	StatusExtracting  JobStatus = "extracting"
	StatusStructuring JobStatus = "structuring"
	StatusCompleted   JobStatus = "completed"
	StatusFailed      JobStatus = "failed"
	StatusCached      JobStatus = "cached"
)

// Done reports whether the job has a final status.
func (s JobStatus) Done() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCached
}

// Job tracks the state of a single document structuring run.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`

	Progress Progress `json:"progress"`

	ContentHash string          `json:"content_hash,omitempty"`
	Weights     scoring.Weights `json:"weights"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	doc      *outline.Document
	errors   []string
}

// Progress tracks what the job has produced so far.
type Progress struct {
	Spans  int      `json:"spans"`
	Styles int      `json:"styles"`
	Levels int      `json:"levels"`
	Roots  int      `json:"roots"`
	Errors []string `json:"errors"`
}

// NewJobID returns a random job identifier.
func NewJobID() string {
	return uuid.New().String()
}

// NewJob creates a queued job for an uploaded file.
func NewJob(filename string, data []byte, w scoring.Weights) *Job {
	now := time.Now()
	return &Job{
		ID:          NewJobID(),
		Status:      StatusQueued,
		Phase:       "queued",
		Filename:    filename,
		ContentHash: ContentHashHex(data),
		Weights:     w,
		CreatedAt:   now,
		UpdatedAt:   now,
		fileData:    data,
	}
}

// CacheKey identifies jobs whose results are interchangeable: the same
// bytes structured under the same weights.
func (j *Job) CacheKey() string {
	w := j.Weights
	return fmt.Sprintf("%s:%g:%g:%g:%g:%g", j.ContentHash, w.FontFactor, w.ColorFactor, w.SizeFactor, w.BoldBonus, w.UpperBonus)
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// FindCompleted returns a completed job with the given cache key, if any.
func (s *JobStore) FindCompleted(key string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, job := range s.jobs {
		if job.CacheKey() == key && job.Result() != nil {
			return job
		}
	}
	return nil
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.updatedAt()) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

func (j *Job) updatedAt() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetSpanCount records how many spans the source produced.
func (j *Job) SetSpanCount(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Spans = n
	j.UpdatedAt = time.Now()
}

// SetResult stores the structured document and releases the upload bytes.
func (j *Job) SetResult(doc *outline.Document) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.doc = doc
	j.fileData = nil
	j.Progress.Spans = doc.Len()
	j.Progress.Styles = len(doc.Styles())
	j.Progress.Levels = doc.Levels()
	j.Progress.Roots = len(doc.Roots())
	j.UpdatedAt = time.Now()
}

// Result returns the structured document, or nil until the job completes.
func (j *Job) Result() *outline.Document {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.doc
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string          `json:"job_id"`
	Status      JobStatus       `json:"status"`
	Phase       string          `json:"phase"`
	Filename    string          `json:"filename"`
	ContentHash string          `json:"content_hash,omitempty"`
	Weights     scoring.Weights `json:"weights"`
	Progress    Progress        `json:"progress"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	progress := j.Progress
	progress.Errors = append([]string{}, j.Progress.Errors...)
	return JobSnapshot{
		ID:          j.ID,
		Status:      j.Status,
		Phase:       j.Phase,
		Filename:    j.Filename,
		ContentHash: j.ContentHash,
		Weights:     j.Weights,
		Progress:    progress,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
