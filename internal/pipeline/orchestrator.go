package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/blockview/blockview/internal/cache"
	"github.com/blockview/blockview/internal/config"
	"github.com/blockview/blockview/internal/marker"
	"github.com/blockview/blockview/internal/metrics"
	"github.com/blockview/blockview/internal/session"
)

// Orchestrator manages the document processing pipeline: a bounded job
// queue, a worker pool, and background eviction of expired jobs,
// sessions and cache entries.
type Orchestrator struct {
	jobs     *JobStore
	queue    chan *Job
	marker   *marker.Client
	cache    *cache.Store
	sessions *session.Store
	metrics  *metrics.Metrics
	log      *slog.Logger
	cfg      config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewOrchestrator(cfg config.Config, mc *marker.Client, cs *cache.Store, ss *session.Store, m *metrics.Metrics, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:     NewJobStore(cfg.JobTTL),
		queue:    make(chan *Job, cfg.MaxQueueSize),
		marker:   mc,
		cache:    cs,
		sessions: ss,
		metrics:  m,
		log:      log,
		cfg:      cfg,
	}
}

// Start launches worker goroutines and the cleanup ticker.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.marker, o.cache, o.sessions, o.metrics, o.log, o.cfg.ForceOCRAuto)
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
				o.sessions.Cleanup()
				o.cache.Cleanup()
				o.metrics.SessionsLive.Set(float64(o.sessions.Len()))
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

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.Fail("queued", "queue full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// Sessions returns the session store for direct use by API handlers.
func (o *Orchestrator) Sessions() *session.Store {
	return o.sessions
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}
