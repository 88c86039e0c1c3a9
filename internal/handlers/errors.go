package handlers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/codebuildervaibhav/audio-intelligence/internal/session"
)

var validate = validator.New()

// respondError writes the {"error", "code"} body every handler uses
func respondError(c *fiber.Ctx, status int, message, code string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
		"code":  code,
	})
}

// respondValidation writes a 400 listing the failed validation rules
func respondValidation(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   "Validation failed",
		"code":    "ERR_VALIDATION",
		"details": formatValidationErrors(err),
	})
}

// respondSessionError maps a session lookup failure
func respondSessionError(c *fiber.Ctx, logger logrus.FieldLogger, err error) error {
	if errors.Is(err, session.ErrSessionNotFound) {
		return respondError(c, fiber.StatusNotFound, "Session not found", "ERR_SESSION_NOT_FOUND")
	}
	logger.WithError(err).Error("Failed to load session")
	return respondError(c, fiber.StatusInternalServerError, "Failed to load session", "ERR_SESSION_LOAD")
}

// formatValidationErrors formats validation errors from validator/v10
func formatValidationErrors(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msg := fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		if e.Param() != "" {
			msg = fmt.Sprintf("%s (value: %s)", msg, e.Param())
		}
		out = append(out, msg)
	}
	return out
}
