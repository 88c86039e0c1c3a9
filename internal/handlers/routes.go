package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"

	"github.com/codebuildervaibhav/audio-intelligence/internal/session"
)

// Version is reported by the health check
const Version = "1.0.0"

// Routes bundles the handlers mounted on the app
type Routes struct {
	Sessions *session.Manager
	Session  *SessionHandler
	Submit   *SubmitHandler
	Report   *ReportHandler
	Events   *EventsHandler
	Logs     *LogBuffer
	Logger   logrus.FieldLogger
}

// Register mounts every endpoint on app
func (r *Routes) Register(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "healthy",
			"version":  Version,
			"sessions": r.Sessions.Len(),
		})
	})
	if r.Logs != nil {
		app.Get("/logs", r.Logs.Handle)
	}

	api := app.Group("/api/v1")
	api.Get("/options", Options)

	api.Post("/sessions", r.Session.Create)
	api.Get("/sessions/:id", r.Session.Get)
	api.Put("/sessions/:id/language", r.Session.ChangeLanguage)
	api.Put("/sessions/:id/transcription", r.Session.ChangeTranscription)
	api.Put("/sessions/:id/intelligence", r.Session.ChangeIntelligence)
	api.Get("/sessions/:id/jobs/:jobId", r.Session.Job)

	api.Post("/sessions/:id/submit", r.Submit.Upload)
	api.Post("/sessions/:id/gdrive", r.Submit.GDrive)

	api.Get("/sessions/:id/report.pdf", r.Report.PDF)
	api.Get("/sessions/:id/report.html", r.Report.HTML)

	ws := app.Group("/ws/sessions/:id", RequireSessionUpgrade(r.Sessions, r.Logger))
	ws.Get("/events", websocket.New(r.Events.Handle))
	ws.Get("/record", websocket.New(r.Submit.Record))
}
