package config

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger. out defaults to stdout.
func NewLogger(cfg LogConfig, out io.Writer) *logrus.Logger {
	log := logrus.New()

	if cfg.Format == "text" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	if out == nil {
		out = os.Stdout
	}
	log.SetOutput(out)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
		defer log.WithField("level", cfg.Level).Warn("Unknown log level, using info")
	}
	log.SetLevel(level)

	return log
}
