package queue

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/codebuildervaibhav/audio-intelligence/internal/assemblyai"
	"github.com/codebuildervaibhav/audio-intelligence/internal/audio"
	"github.com/codebuildervaibhav/audio-intelligence/internal/request"
	"github.com/codebuildervaibhav/audio-intelligence/internal/session"
	"github.com/codebuildervaibhav/audio-intelligence/internal/storage"
	"github.com/codebuildervaibhav/audio-intelligence/internal/transform"
	"github.com/codebuildervaibhav/audio-intelligence/internal/types"
)

type fakeSubmitter struct {
	result *assemblyai.JobResult
	err    error
	panics bool
}

func (f *fakeSubmitter) Submit(ctx context.Context, src audio.Source, credential string, flags request.Flags, onStatus assemblyai.StatusFunc) (*assemblyai.JobResult, error) {
	if f.panics {
		panic("boom")
	}
	onStatus(assemblyai.StageUploading, src.Describe())
	onStatus(assemblyai.StagePolling, types.StatusProcessing)
	return f.result, f.err
}

func waitIdle(t *testing.T, s *session.Session) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for s.Busy() {
		if time.Now().After(deadline) {
			t.Fatal("job did not finish")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func runJob(t *testing.T, sub Submitter) (*session.Session, *session.Job, string) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	tmp, err := storage.NewTempAudio(t.TempDir())
	if err != nil {
		t.Fatalf("NewTempAudio() error = %v", err)
	}
	path := filepath.Join(tmp.Dir(), "j1.wav")
	os.WriteFile(path, []byte("RIFF"), 0644)

	wp := NewWorkerPool(1, 4, sub, tmp, transform.Options{}, logger)
	wp.Start()
	defer wp.Stop()

	sess := session.New("s1", nil)
	job, err := sess.Begin("j1", types.SourceUpload, "talk")
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if err := wp.Enqueue(NewJob(job.ID, sess, audio.FromFile(path), job.Flags, "key")); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	waitIdle(t, sess)

	got, err := sess.Job("j1")
	if err != nil {
		t.Fatalf("Job() error = %v", err)
	}
	return sess, got, path
}

func TestWorkerCompletesJob(t *testing.T) {
	sub := &fakeSubmitter{result: &assemblyai.JobResult{
		ID:         "tx1",
		Transcript: &types.Transcript{ID: "tx1", Status: types.StatusCompleted, Text: "hello"},
	}}
	sess, job, path := runJob(t, sub)

	if job.Status != types.JobCompleted || job.Dashboard == nil || job.Dashboard.Text != "hello" {
		t.Fatalf("job = %+v", job)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("temp file was not removed")
	}

	var stages []string
	for _, e := range sess.Events.Since(0) {
		stages = append(stages, e.Stage)
	}
	if len(stages) != 4 || stages[1] != assemblyai.StageUploading || stages[2] != assemblyai.StagePolling {
		t.Fatalf("stages = %v", stages)
	}
}

func TestWorkerReportsErrorCode(t *testing.T) {
	sub := &fakeSubmitter{err: &assemblyai.ProcessingError{TranscriptID: "tx1", Message: "bad audio"}}
	sess, job, path := runJob(t, sub)

	if job.Status != types.JobFailed || job.Code != CodeProcessingFailed {
		t.Fatalf("job = %+v", job)
	}
	events := sess.Events.Since(0)
	last := events[len(events)-1]
	if last.Type != session.EventTypeError || last.Code != CodeProcessingFailed {
		t.Fatalf("last event = %+v", last)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("temp file was not removed after failure")
	}
}

func TestWorkerRecoversFromPanic(t *testing.T) {
	_, job, _ := runJob(t, &fakeSubmitter{panics: true})
	if job.Status != types.JobFailed || job.Code != CodeInternal {
		t.Fatalf("job = %+v", job)
	}
}

func TestEnqueueAfterStop(t *testing.T) {
	logger, _ := test.NewNullLogger()
	wp := NewWorkerPool(1, 1, &fakeSubmitter{}, nil, transform.Options{}, logger)
	wp.Start()
	wp.Stop()
	wp.Stop()

	err := wp.Enqueue(NewJob("j", session.New("s", nil), audio.FromSamples(8000, 1, []int16{1}), nil, ""))
	if !errors.Is(err, ErrPoolStopped) {
		t.Fatalf("err = %v, want ErrPoolStopped", err)
	}
}

func TestErrorCode(t *testing.T) {
	cases := map[string]error{
		CodeUploadFailed:     &assemblyai.UploadError{StatusCode: 401},
		CodeSubmissionFailed: fmt.Errorf("wrapped: %w", &assemblyai.SubmissionError{StatusCode: 400}),
		CodeTransformFailed:  &transform.TransformError{Transform: "topics"},
		CodePollLimit:        fmt.Errorf("x: %w", assemblyai.ErrPollLimit),
		CodePollFailed:       &assemblyai.PollError{TranscriptID: "tx", Op: assemblyai.OpPoll, StatusCode: 500},
		CodeCancelled:        &assemblyai.PollError{TranscriptID: "tx", Op: assemblyai.OpPoll, Err: context.Canceled},
		CodeInternal:         errors.New("other"),
	}
	for want, err := range cases {
		if got := ErrorCode(err); got != want {
			t.Fatalf("ErrorCode(%v) = %s, want %s", err, got, want)
		}
	}
}
