package handlers

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/codebuildervaibhav/audio-intelligence/internal/report"
	"github.com/codebuildervaibhav/audio-intelligence/internal/session"
)

// PDFPrinter turns an HTML page into a PDF document
type PDFPrinter interface {
	PDF(ctx context.Context, content string) ([]byte, error)
}

// ReportHandler exports the last dashboard of a session
type ReportHandler struct {
	sessions *session.Manager
	printer  PDFPrinter
	logger   logrus.FieldLogger
}

// NewReportHandler creates a new report handler
func NewReportHandler(sessions *session.Manager, printer PDFPrinter, logger logrus.FieldLogger) *ReportHandler {
	return &ReportHandler{sessions: sessions, printer: printer, logger: logger}
}

// PDF serves GET /api/v1/sessions/:id/report.pdf
func (h *ReportHandler) PDF(c *fiber.Ctx) error {
	page, sessionID, err := h.render(c)
	if err != nil || page == "" {
		return err
	}

	pdf, err := h.printer.PDF(c.UserContext(), page)
	if err != nil {
		h.logger.WithError(err).WithField("session_id", sessionID).Error("PDF export failed")
		return respondError(c, fiber.StatusInternalServerError, "Failed to export report", "ERR_EXPORT_FAILED")
	}

	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="report-%s.pdf"`, sessionID))
	c.Type("pdf")
	return c.Send(pdf)
}

// HTML serves GET /api/v1/sessions/:id/report.html
func (h *ReportHandler) HTML(c *fiber.Ctx) error {
	page, _, err := h.render(c)
	if err != nil || page == "" {
		return err
	}
	c.Type("html", "utf-8")
	return c.SendString(page)
}

// render returns an empty page when an error response has been written
func (h *ReportHandler) render(c *fiber.Ctx) (string, string, error) {
	sess, err := h.sessions.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return "", "", respondSessionError(c, h.logger, err)
	}

	d, err := sess.Dashboard()
	if err != nil {
		return "", "", respondError(c, fiber.StatusNotFound, "No completed job to export", "ERR_NO_DASHBOARD")
	}

	page, err := report.HTML(d, c.Query("title"))
	if err != nil {
		return "", "", respondError(c, fiber.StatusInternalServerError, "Failed to render report", "ERR_RENDER_FAILED")
	}
	return page, sess.ID, nil
}
