// Package logging builds the logrus logger shared by all commands
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing to stderr at Info, or Debug when verbose
func New(verbose bool) *logrus.Logger {
	level := logrus.InfoLevel
	if verbose {
		level = logrus.DebugLevel
	}
	return NewWithOutput(os.Stderr, level)
}

// NewWithOutput returns a text-formatted logger writing to w at level
func NewWithOutput(w io.Writer, level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return logger
}

// Discard returns a logger that drops everything
func Discard() *logrus.Logger {
	return NewWithOutput(io.Discard, logrus.PanicLevel)
}
