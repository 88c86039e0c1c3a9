package queue

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/codebuildervaibhav/audio-intelligence/internal/assemblyai"
	"github.com/codebuildervaibhav/audio-intelligence/internal/audio"
	"github.com/codebuildervaibhav/audio-intelligence/internal/request"
	"github.com/codebuildervaibhav/audio-intelligence/internal/storage"
	"github.com/codebuildervaibhav/audio-intelligence/internal/transform"
)

// Submitter runs one job against the remote API
type Submitter interface {
	Submit(ctx context.Context, src audio.Source, credential string, flags request.Flags, onStatus assemblyai.StatusFunc) (*assemblyai.JobResult, error)
}

// WorkerPool runs submissions off the request goroutines
type WorkerPool struct {
	jobQueue    chan *Job
	workerCount int
	client      Submitter
	tmp         *storage.TempAudio
	transform   transform.Options
	logger      logrus.FieldLogger

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.RWMutex
	stopped bool
}

// NewWorkerPool creates a new worker pool
func NewWorkerPool(workerCount, queueSize int, client Submitter, tmp *storage.TempAudio, opts transform.Options, logger logrus.FieldLogger) *WorkerPool {
	if workerCount <= 0 {
		workerCount = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		jobQueue:    make(chan *Job, queueSize),
		workerCount: workerCount,
		client:      client,
		tmp:         tmp,
		transform:   opts,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start initializes all workers
func (wp *WorkerPool) Start() {
	wp.logger.WithField("workers", wp.workerCount).Info("Starting worker pool")
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop cancels running jobs and waits for the workers to exit
func (wp *WorkerPool) Stop() {
	wp.mu.Lock()
	if wp.stopped {
		wp.mu.Unlock()
		return
	}
	wp.stopped = true
	wp.cancel()
	close(wp.jobQueue)
	wp.mu.Unlock()

	wp.wg.Wait()
	wp.logger.Info("Worker pool stopped")
}

// Enqueue adds a job to the queue without blocking
func (wp *WorkerPool) Enqueue(job *Job) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.stopped {
		return ErrPoolStopped
	}

	select {
	case wp.jobQueue <- job:
		wp.logger.WithFields(logrus.Fields{
			"job_id":     job.ID,
			"session_id": job.Session.ID,
			"source":     job.Audio.Describe(),
		}).Info("Job enqueued")
		return nil
	default:
		return ErrQueueFull
	}
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()
	log := wp.logger.WithField("worker", id)
	log.Debug("Worker started")

	for job := range wp.jobQueue {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(logrus.Fields{
						"job_id": job.ID,
						"panic":  r,
						"stack":  string(debug.Stack()),
					}).Error("Panic while processing job")
					job.Session.Fail(job.ID, CodeInternal, fmt.Errorf("worker panic: %v", r))
					wp.cleanupTempFile(job.TempPath)
				}
			}()

			wp.processJob(log, job)
		}()
	}
}

// processJob runs the pipeline: submit, poll, transform
func (wp *WorkerPool) processJob(log logrus.FieldLogger, job *Job) {
	log = log.WithFields(logrus.Fields{"job_id": job.ID, "session_id": job.Session.ID})
	log.Info("Processing job")
	defer wp.cleanupTempFile(job.TempPath)

	if wp.ctx.Err() != nil {
		job.Session.Fail(job.ID, CodeCancelled, wp.ctx.Err())
		return
	}

	result, err := wp.client.Submit(wp.ctx, job.Audio, job.Credential, job.Flags, func(stage, detail string) {
		job.Session.Progress(job.ID, stage, detail)
	})
	if err != nil {
		code := ErrorCode(err)
		log.WithError(err).WithField("code", code).Warn("Job failed")
		job.Session.Fail(job.ID, code, err)
		return
	}

	dashboard, err := transform.BuildDashboard(result.Transcript, result.Paragraphs, job.Flags, wp.transform)
	if err != nil {
		log.WithError(err).Warn("Result could not be rendered")
		job.Session.Fail(job.ID, ErrorCode(err), err)
		return
	}

	job.Session.Complete(job.ID, dashboard)
	log.WithField("transcript_id", result.ID).Info("Job completed")
}

func (wp *WorkerPool) cleanupTempFile(path string) {
	if wp.tmp == nil || path == "" {
		return
	}
	if err := wp.tmp.Remove(path); err != nil {
		wp.logger.WithError(err).WithField("path", path).Warn("Failed to cleanup temp file")
	}
}
