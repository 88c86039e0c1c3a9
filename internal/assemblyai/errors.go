package assemblyai

import (
	"errors"
	"fmt"
)

// ErrPollLimit is returned when MaxPollAttempts is set and the job is still running
var ErrPollLimit = errors.New("poll attempt limit reached")

// UploadError is returned when the audio upload fails
type UploadError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upload failed: %v", e.Err)
	}
	return fmt.Sprintf("upload failed with status %d: %s", e.StatusCode, e.Body)
}

func (e *UploadError) Unwrap() error { return e.Err }

// SubmissionError is returned when the transcript request is rejected or unreadable
type SubmissionError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transcript request failed: %v", e.Err)
	}
	return fmt.Sprintf("transcript request failed with status %d: %s", e.StatusCode, e.Body)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// ProcessingError carries the message of a transcript that ended in status error
type ProcessingError struct {
	TranscriptID string
	Message      string
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("transcript %s failed: %s", e.TranscriptID, e.Message)
}

// PollError is returned when the status or paragraphs of a transcript cannot
// be fetched or decoded
type PollError struct {
	TranscriptID string
	Op           string
	StatusCode   int
	Body         string
	Err          error
}

func (e *PollError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s of transcript %s failed: %v", e.Op, e.TranscriptID, e.Err)
	}
	return fmt.Sprintf("%s of transcript %s failed with status %d: %s", e.Op, e.TranscriptID, e.StatusCode, e.Body)
}

func (e *PollError) Unwrap() error { return e.Err }
