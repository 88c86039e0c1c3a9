package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrEmptySource is returned for a Source with neither a path nor samples
var ErrEmptySource = errors.New("audio source has no file and no samples")

// Source is audio to upload: either a file on disk or raw PCM samples
type Source struct {
	Path       string
	SampleRate int
	Channels   int
	Samples    []int16
}

// FromFile returns a file-backed source
func FromFile(path string) Source {
	return Source{Path: path}
}

// FromSamples returns a source holding interleaved 16-bit PCM samples
func FromSamples(sampleRate, channels int, samples []int16) Source {
	return Source{SampleRate: sampleRate, Channels: channels, Samples: samples}
}

// Open returns a reader over the upload body. Samples are encoded as WAV while being read.
func (s Source) Open() (io.ReadCloser, error) {
	if s.Path != "" {
		return os.Open(s.Path)
	}
	if len(s.Samples) == 0 {
		return nil, ErrEmptySource
	}
	if s.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", s.SampleRate)
	}

	channels := s.Channels
	if channels <= 0 {
		channels = 1
	}

	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(WriteWAV(pw, s.SampleRate, channels, s.Samples))
	}()
	return pr, nil
}

// Describe returns a short label for logs
func (s Source) Describe() string {
	if s.Path != "" {
		return filepath.Base(s.Path)
	}
	return fmt.Sprintf("%d samples @ %dHz", len(s.Samples), s.SampleRate)
}

// ValidateAudioFormat checks if the file format is supported
func ValidateAudioFormat(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	supportedFormats := []string{".mp3", ".wav", ".m4a", ".ogg", ".flac", ".webm", ".aac", ".wma", ".mp4", ".opus"}

	for _, format := range supportedFormats {
		if ext == format {
			return true
		}
	}
	return false
}
