package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/blockview/blockview/internal/block"
	"github.com/blockview/blockview/internal/cache"
	"github.com/blockview/blockview/internal/marker"
	"github.com/blockview/blockview/internal/metrics"
	"github.com/blockview/blockview/internal/pdfinfo"
	"github.com/blockview/blockview/internal/session"
)

// Worker processes a single document job: validate, extract (or hit the
// cache), flatten, and register the resulting session.
type Worker struct {
	marker   *marker.Client
	cache    *cache.Store
	sessions *session.Store
	metrics  *metrics.Metrics
	log      *slog.Logger

	forceOCRAuto bool
}

func NewWorker(mc *marker.Client, cs *cache.Store, ss *session.Store, m *metrics.Metrics, log *slog.Logger, forceOCRAuto bool) *Worker {
	return &Worker{
		marker:       mc,
		cache:        cs,
		sessions:     ss,
		metrics:      m,
		log:          log,
		forceOCRAuto: forceOCRAuto,
	}
}

// Process runs the full pipeline for a job. A failed job never touches
// the session store; previously processed documents stay viewable.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	data := job.FileData()
	defer job.ReleaseFileData()

	// Phase 1: Validate the upload and probe for a text layer.
	job.SetStatus(StatusValidating, "validating")
	info, err := pdfinfo.Inspect(data)
	if err != nil {
		log.Error("pdf validation failed", "error", err)
		job.Fail("validating", err.Error())
		w.metrics.DocumentsProcessed.WithLabelValues("invalid").Inc()
		return
	}

	hash := ContentHashHex(data)
	sessionID := hash[:16]

	// A session for identical content may already exist; reuse it.
	if existing := w.sessions.Get(sessionID); existing != nil {
		log.Info("session already live for content", "session_id", sessionID)
		job.Complete(sessionID, existing.Doc.PageCount(), existing.Doc.Len(), true)
		return
	}

	// Phase 2: Extraction, served from cache when possible.
	result, fromCache := w.cache.Get(hash)
	if fromCache {
		w.metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
		log.Info("extraction cache hit", "hash", hash)
	} else {
		w.metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		job.SetStatus(StatusExtracting, "extracting")

		opts := marker.DefaultSubmitOptions()
		if w.forceOCRAuto && !info.HasTextLayer {
			log.Info("no text layer detected, forcing ocr")
			opts.ForceOCR = true
		}

		result, err = w.extractWithRetry(ctx, job.Filename, data, opts, log)
		if err != nil {
			log.Error("extraction failed", "error", err)
			job.Fail("extracting", err.Error())
			w.metrics.MarkerSubmissionsTotal.WithLabelValues("failed").Inc()
			w.metrics.DocumentsProcessed.WithLabelValues("failed").Inc()
			return
		}
		w.metrics.MarkerSubmissionsTotal.WithLabelValues("ok").Inc()

		if err := w.cache.Put(hash, result); err != nil {
			// Cache failures cost a future round-trip, nothing else.
			log.Warn("cache write failed", "error", err)
		}
	}

	// Phase 3: Flatten into the page-indexed collection.
	job.SetStatus(StatusFlattening, "flattening")
	roots, err := block.DecodeStructure(result.Blocks)
	if err != nil {
		log.Error("block decode failed", "error", err)
		job.Fail("flattening", fmt.Sprintf("decode blocks: %s", err))
		w.metrics.DocumentsProcessed.WithLabelValues("failed").Inc()
		return
	}
	doc := block.NewDocument(roots)

	sess := session.New(sessionID, job.Filename, job.Title, hash, doc)
	if sess.Title == "" {
		sess.Title = strings.TrimSuffix(job.Filename, ".pdf")
	}
	w.sessions.Put(sess)

	w.metrics.DocumentsProcessed.WithLabelValues("ok").Inc()
	w.metrics.BlocksPerDocument.Observe(float64(doc.Len()))
	w.metrics.PagesPerDocument.Observe(float64(doc.PageCount()))

	job.Complete(sessionID, doc.PageCount(), doc.Len(), fromCache)
	log.Info("document ready",
		"session_id", sessionID,
		"pages", doc.PageCount(),
		"blocks", doc.Len(),
		"pdf_pages", info.PageCount,
		"from_cache", fromCache,
	)
}

// extractWithRetry retries transient Marker failures with backoff.
func (w *Worker) extractWithRetry(ctx context.Context, filename string, data []byte, opts marker.SubmitOptions, log *slog.Logger) (*marker.Result, error) {
	var result *marker.Result
	var lastErr error
	for attempt := range MaxRetries {
		result, lastErr = w.marker.Process(ctx, filename, data, opts)
		if lastErr == nil || !IsRetryable(lastErr) {
			break
		}
		log.Warn("retryable extraction error", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return result, lastErr
}
