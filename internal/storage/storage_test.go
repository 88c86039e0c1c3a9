package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/codebuildervaibhav/audio-intelligence/internal/features"
	"github.com/codebuildervaibhav/audio-intelligence/internal/selection"
)

func TestSessionDBRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := NewSessionDB(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("NewSessionDB() error = %v", err)
	}
	defer db.Close()

	state := selection.NewState()
	state.ChangeIntelligence(features.NewSet(features.Summarization, features.EntityDetection))
	state.ChangeLanguage(features.French)

	if err := db.SaveState(ctx, "s1", state); err != nil {
		t.Fatalf("SaveState() error = %v", err)
	}

	got, found, err := db.LoadState(ctx, "s1")
	if err != nil || !found {
		t.Fatalf("LoadState() = %v, %v", found, err)
	}
	if got.Language != features.French {
		t.Fatalf("language = %v", got.Language)
	}
	if !got.Desired.Equal(state.Desired) {
		t.Fatalf("desired = %+v, want %+v", got.Desired, state.Desired)
	}
	if got.Effective.Intelligence.Has(features.Summarization) {
		t.Fatal("effective selection must be resolved against the stored language")
	}
}

func TestSessionDBMissingAndDelete(t *testing.T) {
	ctx := context.Background()
	db, err := NewSessionDB(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("NewSessionDB() error = %v", err)
	}
	defer db.Close()

	if _, found, err := db.LoadState(ctx, "nope"); err != nil || found {
		t.Fatalf("LoadState() = %v, %v", found, err)
	}

	db.SaveState(ctx, "s1", selection.NewState())
	db.SaveState(ctx, "s1", selection.NewState())
	if err := db.DeleteState(ctx, "s1"); err != nil {
		t.Fatalf("DeleteState() error = %v", err)
	}
	if _, found, _ := db.LoadState(ctx, "s1"); found {
		t.Fatal("session still stored after delete")
	}
}

func TestSessionDBPrune(t *testing.T) {
	ctx := context.Background()
	db, err := NewSessionDB(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("NewSessionDB() error = %v", err)
	}
	defer db.Close()

	db.SaveState(ctx, "old", selection.NewState())
	n, err := db.PruneBefore(ctx, time.Now().Add(time.Minute))
	if err != nil || n != 1 {
		t.Fatalf("PruneBefore() = %d, %v", n, err)
	}
}

func TestExtractDriveFileID(t *testing.T) {
	id := "1AbCdEfGhIjKlMnOpQrStUvWxYz0"
	for _, link := range []string{
		"https://drive.google.com/file/d/" + id + "/view?usp=sharing",
		"https://drive.google.com/open?id=" + id,
		id,
	} {
		if got := ExtractDriveFileID(link); got != id {
			t.Fatalf("ExtractDriveFileID(%q) = %q", link, got)
		}
	}
	if got := ExtractDriveFileID("https://example.com/audio.mp3"); got != "" {
		t.Fatalf("got %q for a non-Drive link", got)
	}
}

func TestFetchPublic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") != "private" {
			w.Header().Set("Content-Disposition", `attachment; filename="talk.m4a"`)
			w.Write([]byte("audio-bytes"))
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	logger, _ := test.NewNullLogger()
	ds := NewPublicDriveSource(logger)
	ds.publicURL = srv.URL + "/uc?id=%s"

	tmp, err := NewTempAudio(t.TempDir())
	if err != nil {
		t.Fatalf("NewTempAudio() error = %v", err)
	}

	path, name, err := ds.Fetch(context.Background(), "https://drive.google.com/open?id=abc", "job1", tmp)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if name != "talk.m4a" || filepath.Base(path) != "job1.m4a" {
		t.Fatalf("path = %s, name = %s", path, name)
	}
	if b, _ := os.ReadFile(path); string(b) != "audio-bytes" {
		t.Fatalf("content = %q", b)
	}

	if _, _, err := ds.Fetch(context.Background(), "https://drive.google.com/open?id=private", "job2", tmp); err != ErrDriveFileNotAccessible {
		t.Fatalf("err = %v, want ErrDriveFileNotAccessible", err)
	}
	if _, _, err := ds.Fetch(context.Background(), "not a link", "job3", tmp); err != ErrInvalidDriveLink {
		t.Fatalf("err = %v, want ErrInvalidDriveLink", err)
	}
}

func TestTempAudioSanitizesAndRemoves(t *testing.T) {
	tmp, err := NewTempAudio(t.TempDir())
	if err != nil {
		t.Fatalf("NewTempAudio() error = %v", err)
	}

	if got := filepath.Base(tmp.Path("../../etc/passwd", "WAV")); got != "passwd.wav" {
		t.Fatalf("Path() = %s", got)
	}
	if err := tmp.Remove(filepath.Join(tmp.Dir(), "missing.wav")); err != nil {
		t.Fatalf("Remove() of missing file error = %v", err)
	}
}

func TestTempAudioSaveRemovesPartialFile(t *testing.T) {
	tmp, err := NewTempAudio(t.TempDir())
	if err != nil {
		t.Fatalf("NewTempAudio() error = %v", err)
	}

	r := io.MultiReader(strings.NewReader("partial"), iotest.ErrReader(errors.New("connection reset")))
	if _, err := tmp.Save("job1", ".mp3", r); err == nil {
		t.Fatal("Save() succeeded on a failing reader")
	}
	if _, err := os.Stat(tmp.Path("job1", ".mp3")); !os.IsNotExist(err) {
		t.Fatalf("partial file left behind: %v", err)
	}

	path, err := tmp.Save("job2", "wav", strings.NewReader("RIFF"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if b, _ := os.ReadFile(path); string(b) != "RIFF" {
		t.Fatalf("saved %q", b)
	}
}
