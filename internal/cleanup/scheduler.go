package cleanup

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// SessionSweeper unloads idle sessions from memory
type SessionSweeper interface {
	Sweep(maxIdle time.Duration) int
}

// SessionPruner deletes stored sessions last saved before cutoff
type SessionPruner interface {
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Config controls what the scheduler removes and how often
type Config struct {
	TempDir       string
	Interval      time.Duration
	MaxFileAge    time.Duration
	SessionIdle   time.Duration
	SessionRetain time.Duration
}

// Scheduler periodically removes stale temp audio and idle sessions
type Scheduler struct {
	cfg      Config
	sessions SessionSweeper
	store    SessionPruner
	logger   logrus.FieldLogger
	stopChan chan struct{}
	now      func() time.Time
}

// NewScheduler creates a new cleanup scheduler. sessions and store may be nil.
func NewScheduler(cfg Config, sessions SessionSweeper, store SessionPruner, logger logrus.FieldLogger) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Minute
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Scheduler{
		cfg:      cfg,
		sessions: sessions,
		store:    store,
		logger:   logger,
		stopChan: make(chan struct{}),
		now:      time.Now,
	}
}

// Start runs one sweep immediately, then one per interval
func (s *Scheduler) Start() {
	s.logger.Info("Running initial cleanup")
	s.RunOnce()

	ticker := time.NewTicker(s.cfg.Interval)
	go func() {
		for {
			select {
			case <-ticker.C:
				s.RunOnce()
			case <-s.stopChan:
				ticker.Stop()
				return
			}
		}
	}()

	s.logger.WithFields(logrus.Fields{
		"interval":     s.cfg.Interval.String(),
		"max_file_age": s.cfg.MaxFileAge.String(),
		"session_idle": s.cfg.SessionIdle.String(),
	}).Info("Cleanup scheduler started")
}

// Stop stops the cleanup scheduler
func (s *Scheduler) Stop() {
	close(s.stopChan)
	s.logger.Info("Cleanup scheduler stopped")
}

// RunOnce performs a single sweep
func (s *Scheduler) RunOnce() {
	if s.cfg.MaxFileAge > 0 {
		s.cleanOldFiles()
	}
	if s.sessions != nil && s.cfg.SessionIdle > 0 {
		s.sessions.Sweep(s.cfg.SessionIdle)
	}
	if s.store != nil && s.cfg.SessionRetain > 0 {
		n, err := s.store.PruneBefore(context.Background(), s.now().Add(-s.cfg.SessionRetain))
		if err != nil {
			s.logger.WithError(err).Warn("Failed to prune stored sessions")
		} else if n > 0 {
			s.logger.WithField("count", n).Info("Stored sessions pruned")
		}
	}
}

// cleanOldFiles removes files older than MaxFileAge from the temp directory
func (s *Scheduler) cleanOldFiles() {
	now := s.now()

	var deletedCount int
	var deletedSize int64

	err := filepath.Walk(s.cfg.TempDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return nil
		}

		age := now.Sub(info.ModTime())
		if age <= s.cfg.MaxFileAge {
			return nil
		}
		size := info.Size()
		if err := os.Remove(path); err != nil {
			s.logger.WithError(err).WithField("path", path).Warn("Failed to delete old file")
			return nil
		}
		deletedCount++
		deletedSize += size
		s.logger.WithFields(logrus.Fields{
			"file": filepath.Base(path),
			"age":  age.Round(time.Minute).String(),
		}).Debug("Deleted old temp file")
		return nil
	})
	if err != nil {
		s.logger.WithError(err).Warn("Error during cleanup")
	}

	if deletedCount > 0 {
		s.logger.WithFields(logrus.Fields{
			"files":    deletedCount,
			"freed_mb": float64(deletedSize) / (1024 * 1024),
		}).Info("Cleanup complete")
	}
}
