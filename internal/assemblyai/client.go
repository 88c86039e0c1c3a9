// Package assemblyai talks to the speech-intelligence API: upload audio,
// request a transcript, poll it until it settles and fetch its paragraphs.
//
// Nothing here retries. Polling has no attempt limit unless
// WithMaxPollAttempts is used; the remote service is trusted to finish every
// job, and ctx is the only other way out of the loop.
package assemblyai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/codebuildervaibhav/audio-intelligence/internal/audio"
	"github.com/codebuildervaibhav/audio-intelligence/internal/request"
	"github.com/codebuildervaibhav/audio-intelligence/internal/types"
)

const (
	DefaultBaseURL      = "https://api.assemblyai.com/v2"
	DefaultPollInterval = 5 * time.Second
)

// Progress stages reported through StatusFunc
const (
	StageUploading = "uploading"
	StageSubmitted = "submitted"
	StagePolling   = "polling"
	StageFetching  = "fetching"
	StageCompleted = "completed"
)

// Operations named by PollError
const (
	OpPoll       = "poll"
	OpParagraphs = "paragraphs"
)

// StatusFunc receives progress updates. detail is the remote status while polling.
type StatusFunc func(stage, detail string)

// JobResult is a completed transcript with its paragraphs
type JobResult struct {
	ID         string
	Transcript *types.Transcript
	Paragraphs []types.Paragraph
	Raw        json.RawMessage
}

// Client is an API client. It holds no per-request state and is safe for concurrent use.
type Client struct {
	baseURL         string
	httpClient      *http.Client
	pollInterval    time.Duration
	maxPollAttempts int
	sleep           func(ctx context.Context, d time.Duration) error
	logger          logrus.FieldLogger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithPollInterval sets the delay between status checks
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithMaxPollAttempts caps the number of status checks. Zero means unbounded.
func WithMaxPollAttempts(n int) Option {
	return func(c *Client) { c.maxPollAttempts = n }
}

// WithLogger sets the logger
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for baseURL (DefaultBaseURL when empty)
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{},
		pollInterval: DefaultPollInterval,
		sleep:        sleepContext,
		logger:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit runs the whole pipeline: upload, request, poll, paragraphs
func (c *Client) Submit(ctx context.Context, src audio.Source, credential string, flags request.Flags, onStatus StatusFunc) (*JobResult, error) {
	if onStatus == nil {
		onStatus = func(string, string) {}
	}

	onStatus(StageUploading, src.Describe())
	uploadURL, err := c.Upload(ctx, src, credential)
	if err != nil {
		return nil, err
	}

	id, err := c.RequestTranscript(ctx, request.NewJobRequest(uploadURL, flags), credential)
	if err != nil {
		return nil, err
	}
	onStatus(StageSubmitted, id)

	transcript, raw, err := c.WaitForCompletion(ctx, id, credential, func(status string) {
		onStatus(StagePolling, status)
	})
	if err != nil {
		return nil, err
	}

	onStatus(StageFetching, id)
	paragraphs, err := c.Paragraphs(ctx, id, credential)
	if err != nil {
		return nil, err
	}

	onStatus(StageCompleted, id)
	return &JobResult{
		ID:         id,
		Transcript: transcript,
		Paragraphs: paragraphs,
		Raw:        raw,
	}, nil
}

// Upload streams the audio to the ingestion endpoint and returns its upload URL
func (c *Client) Upload(ctx context.Context, src audio.Source, credential string) (string, error) {
	body, err := src.Open()
	if err != nil {
		return "", &UploadError{Err: err}
	}
	defer body.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", body)
	if err != nil {
		return "", &UploadError{Err: err}
	}
	req.Header.Set("authorization", credential)
	req.Header.Set("content-type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &UploadError{Err: err}
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		return "", &UploadError{StatusCode: resp.StatusCode, Body: readBody(resp.Body)}
	}

	var out struct {
		UploadURL string `json:"upload_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &UploadError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if out.UploadURL == "" {
		return "", &UploadError{StatusCode: resp.StatusCode, Err: fmt.Errorf("response has no upload_url")}
	}

	c.logger.WithField("source", src.Describe()).Info("Audio uploaded")
	return out.UploadURL, nil
}

// RequestTranscript posts the analysis request and returns the transcript id
func (c *Client) RequestTranscript(ctx context.Context, jr request.JobRequest, credential string) (string, error) {
	payload, err := json.Marshal(jr.Body())
	if err != nil {
		return "", &SubmissionError{Err: err}
	}

	resp, err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/transcript", credential, payload)
	if err != nil {
		return "", &SubmissionError{Err: err}
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		return "", &SubmissionError{StatusCode: resp.StatusCode, Body: readBody(resp.Body)}
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &SubmissionError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if out.ID == "" {
		return "", &SubmissionError{StatusCode: resp.StatusCode, Err: fmt.Errorf("response has no id")}
	}

	c.logger.WithField("transcript_id", out.ID).Info("Transcript requested")
	return out.ID, nil
}

// WaitForCompletion polls the transcript until it is completed or has failed
func (c *Client) WaitForCompletion(ctx context.Context, id, credential string, onStatus func(status string)) (*types.Transcript, json.RawMessage, error) {
	log := c.logger.WithField("transcript_id", id)

	for attempt := 1; ; attempt++ {
		transcript, raw, err := c.Transcript(ctx, id, credential)
		if err != nil {
			return nil, nil, err
		}
		if onStatus != nil {
			onStatus(transcript.Status)
		}

		switch transcript.Status {
		case types.StatusCompleted:
			log.WithField("attempts", attempt).Info("Transcript completed")
			return transcript, raw, nil
		case types.StatusError:
			log.WithField("error", transcript.Error).Warn("Transcript failed")
			return nil, nil, &ProcessingError{TranscriptID: id, Message: transcript.Error}
		}

		if c.maxPollAttempts > 0 && attempt >= c.maxPollAttempts {
			return nil, nil, fmt.Errorf("transcript %s still %s after %d checks: %w", id, transcript.Status, attempt, ErrPollLimit)
		}

		log.WithFields(logrus.Fields{"status": transcript.Status, "attempt": attempt}).Debug("Transcript not ready")
		if err := c.sleep(ctx, c.pollInterval); err != nil {
			return nil, nil, err
		}
	}
}

// Transcript fetches the current transcript document once
func (c *Client) Transcript(ctx context.Context, id, credential string) (*types.Transcript, json.RawMessage, error) {
	raw, err := c.getJSON(ctx, c.baseURL+"/transcript/"+id, credential, id, OpPoll)
	if err != nil {
		return nil, nil, err
	}

	var transcript types.Transcript
	if err := json.Unmarshal(raw, &transcript); err != nil {
		return nil, nil, &PollError{TranscriptID: id, Op: OpPoll, Err: fmt.Errorf("decode response: %w", err)}
	}
	return &transcript, raw, nil
}

// Paragraphs fetches the paragraph breakdown of a completed transcript
func (c *Client) Paragraphs(ctx context.Context, id, credential string) ([]types.Paragraph, error) {
	raw, err := c.getJSON(ctx, c.baseURL+"/transcript/"+id+"/paragraphs", credential, id, OpParagraphs)
	if err != nil {
		return nil, err
	}

	var out struct {
		Paragraphs []types.Paragraph `json:"paragraphs"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &PollError{TranscriptID: id, Op: OpParagraphs, Err: fmt.Errorf("decode response: %w", err)}
	}
	return out.Paragraphs, nil
}

func (c *Client) getJSON(ctx context.Context, url, credential, id, op string) (json.RawMessage, error) {
	resp, err := c.doJSON(ctx, http.MethodGet, url, credential, nil)
	if err != nil {
		return nil, &PollError{TranscriptID: id, Op: op, Err: err}
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		return nil, &PollError{TranscriptID: id, Op: op, StatusCode: resp.StatusCode, Body: readBody(resp.Body)}
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &PollError{TranscriptID: id, Op: op, StatusCode: resp.StatusCode, Err: err}
	}
	return raw, nil
}

func (c *Client) doJSON(ctx context.Context, method, url, credential string, payload []byte) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("authorization", credential)
	req.Header.Set("content-type", "application/json")
	return c.httpClient.Do(req)
}

func success(code int) bool { return code >= 200 && code < 300 }

func readBody(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 4096))
	return strings.TrimSpace(string(b))
}
