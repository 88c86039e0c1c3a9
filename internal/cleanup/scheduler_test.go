package cleanup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
)

type fakeSweeper struct{ idle time.Duration }

func (f *fakeSweeper) Sweep(maxIdle time.Duration) int {
	f.idle = maxIdle
	return 0
}

type fakePruner struct{ cutoff time.Time }

func (f *fakePruner) PruneBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return 2, nil
}

func TestRunOnceRemovesOldFilesOnly(t *testing.T) {
	dir := t.TempDir()
	oldFile := filepath.Join(dir, "old.wav")
	newFile := filepath.Join(dir, "new.wav")
	os.WriteFile(oldFile, []byte("x"), 0644)
	os.WriteFile(newFile, []byte("x"), 0644)
	past := time.Now().Add(-3 * time.Hour)
	os.Chtimes(oldFile, past, past)

	logger, _ := test.NewNullLogger()
	sweeper := &fakeSweeper{}
	pruner := &fakePruner{}
	s := NewScheduler(Config{
		TempDir:       dir,
		MaxFileAge:    time.Hour,
		SessionIdle:   10 * time.Minute,
		SessionRetain: 24 * time.Hour,
	}, sweeper, pruner, logger)

	fixed := time.Now()
	s.now = func() time.Time { return fixed }
	s.RunOnce()

	if _, err := os.Stat(oldFile); !os.IsNotExist(err) {
		t.Fatal("old file still present")
	}
	if _, err := os.Stat(newFile); err != nil {
		t.Fatalf("new file removed: %v", err)
	}
	if sweeper.idle != 10*time.Minute {
		t.Fatalf("sweep idle = %v", sweeper.idle)
	}
	if !pruner.cutoff.Equal(fixed.Add(-24 * time.Hour)) {
		t.Fatalf("prune cutoff = %v", pruner.cutoff)
	}
}

func TestStartStop(t *testing.T) {
	logger, _ := test.NewNullLogger()
	s := NewScheduler(Config{TempDir: t.TempDir(), Interval: time.Millisecond}, nil, nil, logger)
	s.Start()
	time.Sleep(5 * time.Millisecond)
	s.Stop()
}
