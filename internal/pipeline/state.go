package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// RunStatus is the overall status of one pipeline run.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// StepStatus is the status of a single step inside a run.
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusActive    StepStatus = "active"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
)

// StepState is the runtime record of one step.
type StepState struct {
	mu        sync.RWMutex
	ID        string
	Status    StepStatus
	StartTime *time.Time
	EndTime   *time.Time
	Error     error
}

func newStepState(id string) *StepState {
	return &StepState{ID: id, Status: StepStatusPending}
}

func (s *StepState) start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.StartTime = &now
	s.Status = StepStatusActive
}

func (s *StepState) complete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusCompleted
}

func (s *StepState) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusFailed
	s.Error = err
}

// Duration returns how long the step ran, or has been running.
func (s *StepState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.StartTime == nil {
		return 0
	}
	if s.EndTime != nil {
		return s.EndTime.Sub(*s.StartTime)
	}
	return time.Since(*s.StartTime)
}

// RunState tracks one pipeline run: its identity, overall status and the
// per-step records in execution order.
type RunState struct {
	mu        sync.RWMutex
	ID        string
	Operation string
	Status    RunStatus
	StartTime time.Time
	EndTime   *time.Time
	Steps     []*StepState
	Error     error
}

// NewRunState creates a pending run with a fresh run ID.
func NewRunState(operation string) *RunState {
	return &RunState{
		ID:        uuid.New().String(),
		Operation: operation,
		Status:    RunStatusPending,
	}
}

func (r *RunState) start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Status = RunStatusRunning
	r.StartTime = time.Now()
}

func (r *RunState) complete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusCompleted
}

func (r *RunState) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusFailed
	r.Error = err
}

// Duration returns how long the run took, or has been running.
func (r *RunState) Duration() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.EndTime != nil {
		return r.EndTime.Sub(r.StartTime)
	}
	if r.StartTime.IsZero() {
		return 0
	}
	return time.Since(r.StartTime)
}

func (r *RunState) addStep(s *StepState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Steps = append(r.Steps, s)
}
