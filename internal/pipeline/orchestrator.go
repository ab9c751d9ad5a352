package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docstruct/internal/config"
	"github.com/dgallion1/docstruct/internal/scoring"
	"github.com/dgallion1/docstruct/internal/spansource"
)

// Orchestrator manages the document structuring pipeline.
type Orchestrator struct {
	jobs  *JobStore
	queue chan *Job
	stats *BuildStats
	log   *slog.Logger
	cfg   config.Config

	mu      sync.RWMutex
	weights scoring.Weights

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:    NewJobStore(cfg.JobTTL),
		queue:   make(chan *Job, cfg.MaxQueueSize),
		stats:   NewBuildStats(time.Hour),
		log:     log,
		cfg:     cfg,
		weights: cfg.Weights,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	srcOpts := spansource.Options{PDFFallbackPdftotext: o.cfg.PDFFallbackPdftotext}
	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.log, o.stats, srcOpts)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing. A job matching an earlier
// completed one is answered from that result without being queued.
func (o *Orchestrator) Submit(job *Job) error {
	if prev := o.jobs.FindCompleted(job.CacheKey()); prev != nil {
		job.SetResult(prev.Result())
		job.SetStatus(StatusCached, "cached")
		o.jobs.Put(job)
		o.log.Info("reused cached outline", "job_id", job.ID, "source_job_id", prev.ID)
		return nil
	}

	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Stats returns the outline build latency tracker.
func (o *Orchestrator) Stats() *BuildStats {
	return o.stats
}

// DefaultWeights are the weights applied when a request sets none.
func (o *Orchestrator) DefaultWeights() scoring.Weights {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.weights
}

// SetDefaultWeights replaces the default weights, e.g. on config reload.
func (o *Orchestrator) SetDefaultWeights(w scoring.Weights) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.weights = w
}

// SourceOptions returns the span source options for synchronous requests.
func (o *Orchestrator) SourceOptions() spansource.Options {
	return spansource.Options{PDFFallbackPdftotext: o.cfg.PDFFallbackPdftotext}
}
