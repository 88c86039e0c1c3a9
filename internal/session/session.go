// Package session keeps the per-browser-session state: the feature selection,
// the jobs submitted from it and the event stream the UI listens on.
//
// Every session has its own mutex. Nothing here is shared between sessions.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/codebuildervaibhav/audio-intelligence/internal/features"
	"github.com/codebuildervaibhav/audio-intelligence/internal/request"
	"github.com/codebuildervaibhav/audio-intelligence/internal/selection"
	"github.com/codebuildervaibhav/audio-intelligence/internal/transform"
	"github.com/codebuildervaibhav/audio-intelligence/internal/types"
)

var (
	// ErrSubmissionInFlight is returned when a session already has a running job
	ErrSubmissionInFlight = errors.New("a submission is already in progress for this session")
	// ErrJobNotFound is returned for an unknown job id
	ErrJobNotFound = errors.New("job not found")
	// ErrNoDashboard is returned when no job of the session has completed yet
	ErrNoDashboard = errors.New("no completed job")
)

// Job is the status of one submission as shown to the UI
type Job struct {
	ID        string               `json:"job_id"`
	Source    string               `json:"source"`
	Name      string               `json:"name"`
	Status    string               `json:"status"`
	Stage     string               `json:"stage,omitempty"`
	Error     string               `json:"error,omitempty"`
	Code      string               `json:"code,omitempty"`
	Flags     request.Flags        `json:"flags"`
	Dashboard *transform.Dashboard `json:"dashboard,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// Session is one user's dashboard state
type Session struct {
	ID     string
	Events *EventBus

	mu         sync.Mutex
	state      *selection.State
	jobs       map[string]*Job
	inFlight   string
	last       *transform.Dashboard
	lastActive time.Time
}

// New creates a session with the given selection state (a fresh one when nil)
func New(id string, state *selection.State) *Session {
	if state == nil {
		state = selection.NewState()
	}
	return &Session{
		ID:         id,
		Events:     NewEventBus(0),
		state:      state,
		jobs:       make(map[string]*Job),
		lastActive: time.Now(),
	}
}

func (s *Session) touch() { s.lastActive = time.Now() }

// Touch marks the session as in use
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
}

// LastActive is the time of the last call that read or changed the session
// or of the last progress of its job
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Busy reports whether a job is in flight
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight != ""
}

// State returns a copy of the selection state
func (s *Session) State() *selection.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// View renders the current selection
func (s *Session) View() selection.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.state.View()
}

// ChangeLanguage applies a language change
func (s *Session) ChangeLanguage(lang features.Language) selection.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.state.ChangeLanguage(lang)
}

// ChangeTranscription applies the checked transcription features
func (s *Session) ChangeTranscription(checked features.Set) selection.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.state.ChangeTranscription(checked)
}

// ChangeIntelligence applies the checked intelligence features
func (s *Session) ChangeIntelligence(checked features.Set) selection.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.state.ChangeIntelligence(checked)
}

// Begin reserves the session for a new job and builds its flags from the
// effective selection at this instant. Later selection changes do not
// affect the job.
func (s *Session) Begin(jobID, source, name string) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.inFlight != "" {
		return nil, ErrSubmissionInFlight
	}

	var lang *features.Language
	if !s.state.Effective.DetectionEnabled() {
		l := s.state.Language
		lang = &l
	}
	flags, err := request.Build(s.state.Effective, lang)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	job := &Job{
		ID:        jobID,
		Source:    source,
		Name:      name,
		Status:    types.JobQueued,
		Flags:     flags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.jobs[jobID] = job
	s.inFlight = jobID
	s.Events.Publish(Event{JobID: jobID, Type: EventTypeStatus, Stage: types.JobQueued})

	cp := *job
	return &cp, nil
}

// Progress records a pipeline stage of a running job
func (s *Session) Progress(jobID, stage, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return
	}
	job.Status = types.JobProcessing
	job.Stage = stage
	job.UpdatedAt = time.Now()
	s.touch()
	s.Events.Publish(Event{JobID: jobID, Type: EventTypeStatus, Stage: stage, Message: detail})
}

// Complete stores the dashboard of a finished job and releases the session
func (s *Session) Complete(jobID string, d *transform.Dashboard) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return
	}
	job.Status = types.JobCompleted
	job.Stage = ""
	job.Dashboard = d
	job.UpdatedAt = time.Now()
	s.touch()
	s.last = d
	s.release(jobID)
	s.Events.Publish(Event{JobID: jobID, Type: EventTypeResult, Message: "dashboard ready"})
}

// Fail marks a job as failed and releases the session
func (s *Session) Fail(jobID, code string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return
	}
	job.Status = types.JobFailed
	job.Error = err.Error()
	job.Code = code
	job.UpdatedAt = time.Now()
	s.touch()
	s.release(jobID)
	s.Events.Publish(Event{JobID: jobID, Type: EventTypeError, Stage: job.Stage, Message: job.Error, Code: code})
}

// Abort drops a job that never reached the worker pool
func (s *Session) Abort(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, jobID)
	s.release(jobID)
}

func (s *Session) release(jobID string) {
	if s.inFlight == jobID {
		s.inFlight = ""
	}
}

// Job returns a copy of a job's status
func (s *Session) Job(jobID string) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil, ErrJobNotFound
	}
	cp := *job
	return &cp, nil
}

// Dashboard returns the dashboard of the last completed job
func (s *Session) Dashboard() (*transform.Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.last == nil {
		return nil, ErrNoDashboard
	}
	return s.last, nil
}
