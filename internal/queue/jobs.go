package queue

import (
	"time"

	"github.com/codebuildervaibhav/audio-intelligence/internal/audio"
	"github.com/codebuildervaibhav/audio-intelligence/internal/request"
	"github.com/codebuildervaibhav/audio-intelligence/internal/session"
)

// Job is one submission waiting for a worker
type Job struct {
	ID         string
	Session    *session.Session
	Audio      audio.Source
	Flags      request.Flags
	Credential string
	// TempPath is removed once the job ends, whatever the outcome
	TempPath  string
	CreatedAt time.Time
}

// NewJob creates a job for a session whose Begin already reserved jobID
func NewJob(id string, sess *session.Session, src audio.Source, flags request.Flags, credential string) *Job {
	return &Job{
		ID:         id,
		Session:    sess,
		Audio:      src,
		Flags:      flags,
		Credential: credential,
		TempPath:   src.Path,
		CreatedAt:  time.Now(),
	}
}
