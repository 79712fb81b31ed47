package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// JobStatus represents the state of a document processing job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusValidating JobStatus = "validating"
	StatusExtracting JobStatus = "extracting"
	StatusFlattening JobStatus = "flattening"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Job tracks one uploaded document from intake to a live session.
type Job struct {
	mu sync.Mutex

	ID       string `json:"job_id"`
	Filename string `json:"filename"`
	Title    string `json:"title"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	// Set when the job completes.
	SessionID  string `json:"session_id,omitempty"`
	PageCount  int    `json:"page_count,omitempty"`
	BlockCount int    `json:"block_count,omitempty"`
	FromCache  bool   `json:"from_cache,omitempty"`

	Error string `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
}

// NewJob creates a queued job holding the uploaded bytes.
func NewJob(filename, title string, data []byte) *Job {
	now := time.Now()
	return &Job{
		ID:        generateULID(),
		Filename:  filename,
		Title:     title,
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
		fileData:  data,
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// Fail marks the job failed with a message.
func (j *Job) Fail(phase, msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = StatusFailed
	j.Phase = phase
	j.Error = msg
	j.UpdatedAt = time.Now()
}

// Complete records the session the job produced.
func (j *Job) Complete(sessionID string, pageCount, blockCount int, fromCache bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = StatusCompleted
	j.Phase = "done"
	j.SessionID = sessionID
	j.PageCount = pageCount
	j.BlockCount = blockCount
	j.FromCache = fromCache
	j.UpdatedAt = time.Now()
}

// FileData returns the raw upload bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// ReleaseFileData frees the upload bytes once processing is done.
func (j *Job) ReleaseFileData() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = nil
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID         string    `json:"job_id"`
	Filename   string    `json:"filename"`
	Title      string    `json:"title"`
	Status     JobStatus `json:"status"`
	Phase      string    `json:"phase"`
	SessionID  string    `json:"session_id,omitempty"`
	PageCount  int       `json:"page_count,omitempty"`
	BlockCount int       `json:"block_count,omitempty"`
	FromCache  bool      `json:"from_cache,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	return JobSnapshot{
		ID:         j.ID,
		Filename:   j.Filename,
		Title:      j.Title,
		Status:     j.Status,
		Phase:      j.Phase,
		SessionID:  j.SessionID,
		PageCount:  j.PageCount,
		BlockCount: j.BlockCount,
		FromCache:  j.FromCache,
		Error:      j.Error,
	}
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

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
