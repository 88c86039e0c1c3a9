package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/codebuildervaibhav/audio-intelligence/internal/features"
	"github.com/codebuildervaibhav/audio-intelligence/internal/selection"
	"github.com/codebuildervaibhav/audio-intelligence/internal/session"
)

// SessionHandler serves the selection events of a session
type SessionHandler struct {
	sessions *session.Manager
	logger   logrus.FieldLogger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *session.Manager, logger logrus.FieldLogger) *SessionHandler {
	return &SessionHandler{sessions: sessions, logger: logger}
}

// LanguageRequest is the body of a language change
type LanguageRequest struct {
	Language string `json:"language" validate:"required"`
}

// FeaturesRequest carries the checkboxes of one group as currently checked
type FeaturesRequest struct {
	Features []string `json:"features" validate:"dive,required"`
}

// Create starts a new session
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	sess, err := h.sessions.Create(c.UserContext())
	if err != nil {
		h.logger.WithError(err).Error("Failed to create session")
		return respondError(c, fiber.StatusInternalServerError, "Failed to create session", "ERR_SESSION_CREATE")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"session_id": sess.ID,
		"view":       sess.View(),
	})
}

// Get returns the current view of a session
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondSessionError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"session_id": sess.ID,
		"view":       sess.View(),
	})
}

// ChangeLanguage handles the language dropdown
func (h *SessionHandler) ChangeLanguage(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondSessionError(c, h.logger, err)
	}

	var req LanguageRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body", "ERR_INVALID_BODY")
	}
	if err := validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	lang, err := features.ParseLanguage(req.Language)
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error(), "ERR_UNKNOWN_LANGUAGE")
	}
	return h.respondView(c, sess, sess.ChangeLanguage(lang))
}

// ChangeTranscription handles the transcription checkbox group
func (h *SessionHandler) ChangeTranscription(c *fiber.Ctx) error {
	return h.changeFeatures(c, features.FamilyTranscription, (*session.Session).ChangeTranscription)
}

// ChangeIntelligence handles the intelligence checkbox group
func (h *SessionHandler) ChangeIntelligence(c *fiber.Ctx) error {
	return h.changeFeatures(c, features.FamilyIntelligence, (*session.Session).ChangeIntelligence)
}

func (h *SessionHandler) changeFeatures(c *fiber.Ctx, family features.Family, apply func(*session.Session, features.Set) selection.View) error {
	sess, err := h.sessions.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondSessionError(c, h.logger, err)
	}

	var req FeaturesRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body", "ERR_INVALID_BODY")
	}
	if err := validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	checked, err := features.ParseSet(family, req.Features)
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error(), "ERR_UNKNOWN_FEATURE")
	}
	return h.respondView(c, sess, apply(sess, checked))
}

// Job returns the status of one job, with its dashboard once completed
func (h *SessionHandler) Job(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondSessionError(c, h.logger, err)
	}

	job, err := sess.Job(c.Params("jobId"))
	if err != nil {
		return respondError(c, fiber.StatusNotFound, "Job not found", "ERR_JOB_NOT_FOUND")
	}
	return c.JSON(job)
}

func (h *SessionHandler) respondView(c *fiber.Ctx, sess *session.Session, view selection.View) error {
	if err := h.sessions.Save(c.UserContext(), sess); err != nil {
		h.logger.WithError(err).WithField("session_id", sess.ID).Warn("Failed to persist selection")
	}
	return c.JSON(fiber.Map{
		"session_id": sess.ID,
		"view":       view,
	})
}
