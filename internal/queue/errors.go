package queue

import (
	"context"
	"errors"

	"github.com/codebuildervaibhav/audio-intelligence/internal/assemblyai"
	"github.com/codebuildervaibhav/audio-intelligence/internal/transform"
)

var (
	// ErrQueueFull is returned by Enqueue when every slot is taken
	ErrQueueFull = errors.New("job queue is full")
	// ErrPoolStopped is returned by Enqueue after Stop
	ErrPoolStopped = errors.New("worker pool stopped")
)

// Error codes reported on failed jobs
const (
	CodeUploadFailed     = "ERR_UPLOAD_FAILED"
	CodeSubmissionFailed = "ERR_SUBMISSION_FAILED"
	CodeProcessingFailed = "ERR_PROCESSING_FAILED"
	CodeTransformFailed  = "ERR_TRANSFORM_FAILED"
	CodePollFailed       = "ERR_POLL_FAILED"
	CodePollLimit        = "ERR_POLL_LIMIT"
	CodeCancelled        = "ERR_CANCELLED"
	CodeInternal         = "ERR_INTERNAL"
)

// ErrorCode classifies a job error
func ErrorCode(err error) string {
	var (
		uploadErr     *assemblyai.UploadError
		submissionErr *assemblyai.SubmissionError
		processingErr *assemblyai.ProcessingError
		pollErr       *assemblyai.PollError
		transformErr  *transform.TransformError
	)
	switch {
	case errors.As(err, &uploadErr):
		return CodeUploadFailed
	case errors.As(err, &submissionErr):
		return CodeSubmissionFailed
	case errors.As(err, &processingErr):
		return CodeProcessingFailed
	case errors.As(err, &transformErr):
		return CodeTransformFailed
	case errors.Is(err, assemblyai.ErrPollLimit):
		return CodePollLimit
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CodeCancelled
	case errors.As(err, &pollErr):
		return CodePollFailed
	default:
		return CodeInternal
	}
}
