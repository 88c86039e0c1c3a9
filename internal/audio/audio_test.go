package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteWAVHeader(t *testing.T) {
	var buf bytes.Buffer
	samples := []int16{0, 1000, -1000, 32767}
	if err := WriteWAV(&buf, 16000, 1, samples); err != nil {
		t.Fatalf("WriteWAV() error = %v", err)
	}

	b := buf.Bytes()
	if len(b) != wavHeaderSize+len(samples)*2 {
		t.Fatalf("len = %d", len(b))
	}
	if string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" || string(b[36:40]) != "data" {
		t.Fatalf("bad chunk ids: %q", b[:40])
	}
	if rate := binary.LittleEndian.Uint32(b[24:28]); rate != 16000 {
		t.Fatalf("sample rate = %d", rate)
	}
	if size := binary.LittleEndian.Uint32(b[40:44]); size != 8 {
		t.Fatalf("data size = %d", size)
	}
	if got := PCMFromBytes(b[44:]); got[2] != -1000 || got[3] != 32767 {
		t.Fatalf("samples = %v", got)
	}
}

func TestSourceOpenSamples(t *testing.T) {
	rc, err := FromSamples(8000, 0, []int16{1, 2, 3}).Open()
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(b) != wavHeaderSize+6 {
		t.Fatalf("len = %d", len(b))
	}
	if ch := binary.LittleEndian.Uint16(b[22:24]); ch != 1 {
		t.Fatalf("channels = %d, want 1", ch)
	}
}

func TestSourceOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mp3")
	if err := os.WriteFile(path, []byte("mp3"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	rc, err := FromFile(path).Open()
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()
	b, _ := io.ReadAll(rc)
	if string(b) != "mp3" {
		t.Fatalf("body = %q", b)
	}
}

func TestSourceOpenRejectsEmpty(t *testing.T) {
	if _, err := (Source{}).Open(); !errors.Is(err, ErrEmptySource) {
		t.Fatalf("err = %v, want ErrEmptySource", err)
	}
	if _, err := FromSamples(0, 1, []int16{1}).Open(); err == nil {
		t.Fatal("expected sample rate error")
	}
}

func TestValidateAudioFormat(t *testing.T) {
	for name, want := range map[string]bool{
		"talk.MP3":  true,
		"a.flac":    true,
		"notes.txt": false,
		"noext":     false,
	} {
		if got := ValidateAudioFormat(name); got != want {
			t.Fatalf("ValidateAudioFormat(%q) = %v, want %v", name, got, want)
		}
	}
}
