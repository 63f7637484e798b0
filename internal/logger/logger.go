// Package logger builds the process-wide logrus logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing to stdout.  Production deployments get JSON
// lines; everything else gets human readable text.  An unknown level falls
// back to info.
func New(env, level string) *logrus.Logger {
	return NewWithOutput(env, level, os.Stdout)
}

// NewWithOutput is New with an explicit destination.
func NewWithOutput(env, level string, out io.Writer) *logrus.Logger {
	log := logrus.New()
	if env == "prod" || env == "production" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	log.SetOutput(out)
	return log
}

// Discard returns a logger that drops everything; handy in tests.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
