package pipeline

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/dgallion1/textprep/internal/article"
	"github.com/dgallion1/textprep/internal/clean"
)

// JobStatus represents the state of an async batch job.
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusPartial   JobStatus = "partial"
	StatusFailed    JobStatus = "failed"
)

// Terminal reports whether a job in this status will not change again.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusPartial || s == StatusFailed
}

// Job tracks one submitted batch through the worker pool.
type Job struct {
	mu sync.Mutex

	ID       string    `json:"task_id"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename,omitempty"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	docs      []*article.Document
	overrides *clean.Overrides
	results   []Result
	errors    []string
}

// Progress tracks batch completion counts.
type Progress struct {
	TotalDocuments int      `json:"total_documents"`
	Processed      int      `json:"processed"`
	Succeeded      int      `json:"succeeded"`
	Failed         int      `json:"failed"`
	Errors         []string `json:"errors"`
}

// NewJob builds a pending job wrapping one batch of documents and the
// cleaning overrides they were submitted with.
func NewJob(docs []*article.Document, over *clean.Overrides) *Job {
	now := time.Now()
	return &Job{
		ID:        ulid.Make().String(),
		Status:    StatusPending,
		Phase:     "queued",
		Progress:  Progress{TotalDocuments: len(docs)},
		CreatedAt: now,
		UpdatedAt: now,
		docs:      docs,
		overrides: over,
	}
}

// Batch returns the documents and cleaning overrides this job carries.
func (j *Job) Batch() ([]*article.Document, *clean.Overrides) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.docs, j.overrides
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records a per-document or storage error.
func (j *Job) AddError(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, msg)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// IncrProcessed counts one finished document.
func (j *Job) IncrProcessed(succeeded bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Processed++
	if succeeded {
		j.Progress.Succeeded++
	} else {
		j.Progress.Failed++
	}
	j.UpdatedAt = time.Now()
}

// SetResults stores the per-document outcomes in input order.
func (j *Job) SetResults(results []Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.results = results
	j.UpdatedAt = time.Now()
}

// ResultView is the JSON form of one document outcome.
type ResultView struct {
	DocumentID string                  `json:"document_id"`
	Status     string                  `json:"status"`
	Record     *article.EnrichedRecord `json:"record,omitempty"`
	Error      string                  `json:"error,omitempty"`
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string    `json:"task_id"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename,omitempty"`
	Progress Progress  `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Results []ResultView `json:"results,omitempty"`
}

// Snapshot returns a JSON-safe copy of the job state. Per-document results
// appear once the worker has recorded them.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.Progress.Errors))
	copy(errs, j.Progress.Errors)
	snap := JobSnapshot{
		ID:       j.ID,
		Status:   j.Status,
		Phase:    j.Phase,
		Filename: j.Filename,
		Progress: Progress{
			TotalDocuments: j.Progress.TotalDocuments,
			Processed:      j.Progress.Processed,
			Succeeded:      j.Progress.Succeeded,
			Failed:         j.Progress.Failed,
			Errors:         errs,
		},
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
	if j.results != nil {
		snap.Results = make([]ResultView, 0, len(j.results))
		for _, r := range j.results {
			rv := ResultView{DocumentID: r.DocumentID, Status: "ok", Record: r.Record}
			if r.Err != nil {
				rv.Status = "error"
				rv.Error = r.Err.Error()
				rv.Record = nil
			}
			snap.Results = append(snap.Results, rv)
		}
	}
	return snap
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
		job.mu.Lock()
		expired := now.Sub(job.UpdatedAt) > s.ttl
		job.mu.Unlock()
		if expired {
			delete(s.jobs, id)
		}
	}
}

// CountByStatus tallies stored jobs by state.
func (s *JobStore) CountByStatus() map[JobStatus]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[JobStatus]int)
	for _, job := range s.jobs {
		job.mu.Lock()
		st := job.Status
		job.mu.Unlock()
		counts[st]++
	}
	return counts
}
