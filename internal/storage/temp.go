package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// TempAudio holds incoming audio files until their job has uploaded them
type TempAudio struct {
	dir string
}

// NewTempAudio creates the directory if needed
func NewTempAudio(dir string) (*TempAudio, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	return &TempAudio{dir: dir}, nil
}

// Dir is the directory files are written to
func (t *TempAudio) Dir() string { return t.dir }

// Path returns the file path for a job, e.g. temp/<job>.wav
func (t *TempAudio) Path(jobID, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return filepath.Join(t.dir, sanitizeFilename(jobID)+strings.ToLower(ext))
}

// Save copies r into the job's file and returns its path
func (t *TempAudio) Save(jobID, ext string, r io.Reader) (string, error) {
	path := t.Path(jobID, ext)
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}

	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// Remove deletes a file; a missing file is not an error
func (t *TempAudio) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// sanitizeFilename keeps only the last path element and caps the length
func sanitizeFilename(name string) string {
	result := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if result == "." || result == "/" {
		result = "audio"
	}
	if len(result) > 100 {
		result = result[:100]
	}
	return result
}
