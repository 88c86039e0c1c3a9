package handlers

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/codebuildervaibhav/audio-intelligence/internal/audio"
	"github.com/codebuildervaibhav/audio-intelligence/internal/queue"
	"github.com/codebuildervaibhav/audio-intelligence/internal/session"
	"github.com/codebuildervaibhav/audio-intelligence/internal/storage"
	"github.com/codebuildervaibhav/audio-intelligence/internal/types"
)

// CredentialHeader carries the caller's API key
const CredentialHeader = "X-AssemblyAI-Key"

// Enqueuer accepts jobs for the worker pool
type Enqueuer interface {
	Enqueue(job *queue.Job) error
}

// DriveFetcher downloads audio linked from Google Drive
type DriveFetcher interface {
	Fetch(ctx context.Context, link, jobID string, tmp *storage.TempAudio) (string, string, error)
}

// SubmitHandler accepts audio for a session and hands it to the worker pool
type SubmitHandler struct {
	sessions   *session.Manager
	pool       Enqueuer
	tmp        *storage.TempAudio
	drive      DriveFetcher
	credential string
	maxSizeMB  int
	logger     logrus.FieldLogger
}

// NewSubmitHandler creates a new submit handler. credential is used when the
// caller does not send one.
func NewSubmitHandler(sessions *session.Manager, pool Enqueuer, tmp *storage.TempAudio, drive DriveFetcher, credential string, maxSizeMB int, logger logrus.FieldLogger) *SubmitHandler {
	return &SubmitHandler{
		sessions:   sessions,
		pool:       pool,
		tmp:        tmp,
		drive:      drive,
		credential: credential,
		maxSizeMB:  maxSizeMB,
		logger:     logger,
	}
}

func (h *SubmitHandler) resolveCredential(supplied string) string {
	if supplied != "" {
		return supplied
	}
	return h.credential
}

// saveUpload copies an uploaded file into temp storage. A partly written
// file is removed on failure.
func (h *SubmitHandler) saveUpload(file *multipart.FileHeader, jobID string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	return h.tmp.Save(jobID, filepath.Ext(file.Filename), src)
}

// Upload processes a multipart upload: POST /api/v1/sessions/:id/submit
func (h *SubmitHandler) Upload(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondSessionError(c, h.logger, err)
	}

	credential := h.resolveCredential(c.Get(CredentialHeader))
	if credential == "" {
		return respondError(c, fiber.StatusBadRequest, "API key is required", "ERR_NO_CREDENTIAL")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "No file uploaded", "ERR_NO_FILE")
	}

	maxSize := int64(h.maxSizeMB) * 1024 * 1024
	if file.Size > maxSize {
		return respondError(c, fiber.StatusBadRequest, fmt.Sprintf("File too large (max %dMB)", h.maxSizeMB), "ERR_FILE_TOO_LARGE")
	}
	if !audio.ValidateAudioFormat(file.Filename) {
		return respondError(c, fiber.StatusBadRequest, "Unsupported audio format", "ERR_INVALID_FORMAT")
	}

	name := c.FormValue("name")
	if name == "" {
		name = file.Filename
	}

	job, err := h.begin(sess, types.SourceUpload, name)
	if err != nil {
		return h.respondBeginError(c, err)
	}

	tempPath, err := h.saveUpload(file, job.ID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to save uploaded file")
		sess.Fail(job.ID, "ERR_SAVE_FAILED", err)
		return respondError(c, fiber.StatusInternalServerError, "Failed to save file", "ERR_SAVE_FAILED")
	}

	return h.enqueue(c, sess, job, audio.FromFile(tempPath), credential)
}

// GDriveRequest is the body of a Google Drive submission
type GDriveRequest struct {
	URL  string `json:"url" validate:"required"`
	Name string `json:"name"`
}

// GDrive processes a Drive link: POST /api/v1/sessions/:id/gdrive
func (h *SubmitHandler) GDrive(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondSessionError(c, h.logger, err)
	}

	var req GDriveRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body", "ERR_INVALID_BODY")
	}
	if err := validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}
	if storage.ExtractDriveFileID(req.URL) == "" {
		return respondError(c, fiber.StatusBadRequest, "Invalid Google Drive URL", "ERR_INVALID_URL")
	}

	credential := h.resolveCredential(c.Get(CredentialHeader))
	if credential == "" {
		return respondError(c, fiber.StatusBadRequest, "API key is required", "ERR_NO_CREDENTIAL")
	}

	if req.Name == "" {
		req.Name = "gdrive_file"
	}

	job, err := h.begin(sess, types.SourceGDrive, req.Name)
	if err != nil {
		return h.respondBeginError(c, err)
	}

	path, _, err := h.drive.Fetch(c.UserContext(), req.URL, job.ID, h.tmp)
	if err != nil {
		h.logger.WithError(err).WithField("job_id", job.ID).Warn("Google Drive download failed")
		sess.Fail(job.ID, "ERR_DOWNLOAD_FAILED", err)
		if errors.Is(err, storage.ErrDriveFileNotAccessible) {
			return respondError(c, fiber.StatusBadRequest, err.Error(), "ERR_FILE_NOT_ACCESSIBLE")
		}
		return respondError(c, fiber.StatusBadGateway, "Failed to download file from Google Drive", "ERR_DOWNLOAD_FAILED")
	}
	if !audio.ValidateAudioFormat(path) {
		h.tmp.Remove(path)
		sess.Fail(job.ID, "ERR_INVALID_FORMAT", fmt.Errorf("unsupported audio format"))
		return respondError(c, fiber.StatusBadRequest, "Unsupported audio format", "ERR_INVALID_FORMAT")
	}

	return h.enqueue(c, sess, job, audio.FromFile(path), credential)
}

func (h *SubmitHandler) begin(sess *session.Session, source, name string) (*session.Job, error) {
	return sess.Begin(uuid.NewString(), source, name)
}

func beginErrorCode(err error) (int, string) {
	if errors.Is(err, session.ErrSubmissionInFlight) {
		return fiber.StatusConflict, "ERR_SUBMISSION_IN_FLIGHT"
	}
	return fiber.StatusBadRequest, "ERR_INVALID_SELECTION"
}

func (h *SubmitHandler) respondBeginError(c *fiber.Ctx, err error) error {
	status, code := beginErrorCode(err)
	return respondError(c, status, err.Error(), code)
}

// dispatch hands a begun job to the pool, undoing the reservation on failure
func (h *SubmitHandler) dispatch(sess *session.Session, job *session.Job, src audio.Source, credential string) error {
	if err := h.pool.Enqueue(queue.NewJob(job.ID, sess, src, job.Flags, credential)); err != nil {
		sess.Abort(job.ID)
		h.tmp.Remove(src.Path)
		return err
	}
	return nil
}

func (h *SubmitHandler) enqueue(c *fiber.Ctx, sess *session.Session, job *session.Job, src audio.Source, credential string) error {
	if err := h.dispatch(sess, job, src, credential); err != nil {
		h.logger.WithError(err).WithField("job_id", job.ID).Warn("Job rejected by worker pool")
		return respondError(c, fiber.StatusServiceUnavailable, "Server is busy, try again later", "ERR_QUEUE_FULL")
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"job_id":  job.ID,
		"status":  job.Status,
		"flags":   job.Flags,
		"message": "Audio received, processing started",
	})
}
