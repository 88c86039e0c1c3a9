package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"regexp"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

var (
	// ErrInvalidDriveLink is returned when no file id can be found in a link
	ErrInvalidDriveLink = errors.New("invalid Google Drive URL")
	// ErrDriveFileNotAccessible is returned for private or missing files
	ErrDriveFileNotAccessible = errors.New("file not accessible (may be private or doesn't exist)")
)

const publicDownloadURL = "https://drive.google.com/uc?export=download&id=%s"

var (
	driveFilePattern = regexp.MustCompile(`/file/d/([a-zA-Z0-9_-]+)`)
	driveIDPattern   = regexp.MustCompile(`[?&]id=([a-zA-Z0-9_-]+)`)
	driveBarePattern = regexp.MustCompile(`^([a-zA-Z0-9_-]{25,40})$`)
)

// ExtractDriveFileID extracts the file ID from the usual Google Drive link formats
func ExtractDriveFileID(link string) string {
	// https://drive.google.com/file/d/{ID}/view
	if m := driveFilePattern.FindStringSubmatch(link); len(m) > 1 {
		return m[1]
	}
	// https://drive.google.com/open?id={ID}
	if m := driveIDPattern.FindStringSubmatch(link); len(m) > 1 {
		return m[1]
	}
	if m := driveBarePattern.FindStringSubmatch(link); len(m) > 1 {
		return m[1]
	}
	return ""
}

// DriveSource downloads audio linked from Google Drive. With OAuth
// credentials private files are read through the Drive API; without them
// only publicly shared files work.
type DriveSource struct {
	service    *drive.Service
	httpClient *http.Client
	publicURL  string
	logger     logrus.FieldLogger
}

// NewPublicDriveSource returns a source limited to publicly shared files
func NewPublicDriveSource(logger logrus.FieldLogger) *DriveSource {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &DriveSource{
		httpClient: &http.Client{},
		publicURL:  publicDownloadURL,
		logger:     logger,
	}
}

// NewDriveSource authorizes with an OAuth client file and a previously saved
// token. A missing credentials file yields a public-only source.
func NewDriveSource(ctx context.Context, credentialsFile, tokenFile string, logger logrus.FieldLogger) (*DriveSource, error) {
	ds := NewPublicDriveSource(logger)
	if credentialsFile == "" {
		return ds, nil
	}

	b, err := os.ReadFile(credentialsFile)
	if errors.Is(err, os.ErrNotExist) {
		ds.logger.WithField("file", credentialsFile).Info("Google Drive credentials not found, public links only")
		return ds, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, drive.DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}

	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read token file %s (authorize once and save the token there): %w", tokenFile, err)
	}

	srv, err := drive.NewService(ctx, option.WithHTTPClient(config.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("unable to create Drive service: %w", err)
	}

	ds.service = srv
	ds.logger.Info("Google Drive integration enabled")
	return ds, nil
}

// tokenFromFile retrieves a token from a local file
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

// Fetch downloads the linked file into tmp under jobID and returns its path
// and original file name
func (ds *DriveSource) Fetch(ctx context.Context, link, jobID string, tmp *TempAudio) (string, string, error) {
	fileID := ExtractDriveFileID(link)
	if fileID == "" {
		return "", "", ErrInvalidDriveLink
	}

	log := ds.logger.WithField("file_id", fileID)
	log.Info("Downloading from Google Drive")

	if ds.service != nil {
		return ds.fetchPrivate(ctx, fileID, jobID, tmp)
	}
	return ds.fetchPublic(ctx, fileID, jobID, tmp)
}

func (ds *DriveSource) fetchPrivate(ctx context.Context, fileID, jobID string, tmp *TempAudio) (string, string, error) {
	meta, err := ds.service.Files.Get(fileID).Fields("id, name, mimeType, size").Context(ctx).Do()
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrDriveFileNotAccessible, err)
	}

	resp, err := ds.service.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return "", "", fmt.Errorf("failed to download %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	path, err := tmp.Save(jobID, filepath.Ext(meta.Name), resp.Body)
	if err != nil {
		return "", "", err
	}
	return path, meta.Name, nil
}

func (ds *DriveSource) fetchPublic(ctx context.Context, fileID, jobID string, tmp *TempAudio) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(ds.publicURL, fileID), nil)
	if err != nil {
		return "", "", err
	}

	resp, err := ds.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("failed to download %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", ErrDriveFileNotAccessible
	}

	name := "gdrive_file.mp3"
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		name = params["filename"]
	}

	path, err := tmp.Save(jobID, filepath.Ext(name), resp.Body)
	if err != nil {
		return "", "", err
	}
	return path, name, nil
}
