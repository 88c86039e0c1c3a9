package handlers

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"

	"github.com/codebuildervaibhav/audio-intelligence/internal/audio"
	"github.com/codebuildervaibhav/audio-intelligence/internal/session"
	"github.com/codebuildervaibhav/audio-intelligence/internal/types"
)

const sessionLocal = "session"

// RequireSessionUpgrade rejects non-WebSocket requests and unknown sessions
// before the connection is upgraded
func RequireSessionUpgrade(sessions *session.Manager, logger logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return respondError(c, fiber.StatusUpgradeRequired, "WebSocket upgrade required", "ERR_UPGRADE_REQUIRED")
		}
		sess, err := sessions.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return respondSessionError(c, logger, err)
		}
		c.Locals(sessionLocal, sess)
		return c.Next()
	}
}

// EventsHandler streams job events of a session
type EventsHandler struct {
	pingInterval time.Duration
	logger       logrus.FieldLogger
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(pingInterval time.Duration, logger logrus.FieldLogger) *EventsHandler {
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &EventsHandler{pingInterval: pingInterval, logger: logger}
}

// Handle replays the events after ?since=<seq> and then follows new ones
func (h *EventsHandler) Handle(c *websocket.Conn) {
	defer c.Close()

	sess := c.Locals(sessionLocal).(*session.Session)
	since, _ := strconv.ParseInt(c.Query("since", "0"), 10, 64)
	log := h.logger.WithField("session_id", sess.ID)
	log.Debug("Event stream opened")

	unsubscribe := sess.Events.Subscribe()
	defer unsubscribe()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(h.pingInterval)
	defer ping.Stop()

	for {
		changed := sess.Events.Changed()
		for _, event := range sess.Events.Since(since) {
			if err := c.WriteJSON(event); err != nil {
				log.WithError(err).Debug("Event stream write failed")
				return
			}
			since = event.Seq
		}

		select {
		case <-changed:
		case <-ping.C:
			if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
			sess.Touch()
		case <-closed:
			log.Debug("Event stream closed")
			return
		}
	}
}

// RecordStart is the first message of a recording stream
type RecordStart struct {
	SampleRate int    `json:"sample_rate" validate:"required,min=8000,max=48000"`
	Channels   int    `json:"channels" validate:"omitempty,min=1,max=2"`
	Name       string `json:"name" validate:"max=200"`
	APIKey     string `json:"api_key"`
}

// Record receives microphone audio: one JSON RecordStart text message,
// binary frames of 16-bit little-endian PCM, then the text message END.
func (h *SubmitHandler) Record(c *websocket.Conn) {
	defer c.Close()

	sess := c.Locals(sessionLocal).(*session.Session)
	log := h.logger.WithField("session_id", sess.ID)

	var (
		start   *RecordStart
		buffer  bytes.Buffer
		maxSize = h.maxSizeMB * 1024 * 1024
	)

	fail := func(message, code string) {
		c.WriteJSON(fiber.Map{"error": message, "code": code})
	}

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.WithError(err).Debug("Recording stream closed before END")
			return
		}

		if messageType == websocket.TextMessage {
			if string(message) == "END" {
				break
			}
			var req RecordStart
			if err := json.Unmarshal(message, &req); err != nil {
				fail("Invalid start message", "ERR_INVALID_BODY")
				return
			}
			if err := validate.Struct(req); err != nil {
				fail("Invalid start message: "+err.Error(), "ERR_VALIDATION")
				return
			}
			start = &req
			continue
		}

		if messageType == websocket.BinaryMessage {
			if start == nil {
				fail("Send the start message before audio", "ERR_NO_START")
				return
			}
			if buffer.Len()+len(message) > maxSize {
				fail("Recording too large", "ERR_FILE_TOO_LARGE")
				return
			}
			buffer.Write(message)
		}
	}

	if start == nil || buffer.Len() == 0 {
		fail("No audio data received", "ERR_NO_AUDIO")
		return
	}

	credential := h.resolveCredential(start.APIKey)
	if credential == "" {
		fail("API key is required", "ERR_NO_CREDENTIAL")
		return
	}
	if start.Channels == 0 {
		start.Channels = 1
	}
	if start.Name == "" {
		start.Name = "recording"
	}

	job, err := h.begin(sess, types.SourceRecord, start.Name)
	if err != nil {
		_, code := beginErrorCode(err)
		fail(err.Error(), code)
		return
	}

	src := audio.FromSamples(start.SampleRate, start.Channels, audio.PCMFromBytes(buffer.Bytes()))
	if err := h.dispatch(sess, job, src, credential); err != nil {
		fail("Server is busy, try again later", "ERR_QUEUE_FULL")
		return
	}

	log.WithFields(logrus.Fields{"job_id": job.ID, "bytes": buffer.Len()}).Info("Recording queued")
	c.WriteJSON(fiber.Map{"job_id": job.ID, "status": job.Status})
}
