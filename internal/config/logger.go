package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a logrus logger with millisecond timestamps. LOG_LEVEL
// wins over verbose; without either the level is info.
func NewLogger(verbose bool) *logrus.Logger {
	logger := logrus.New()

	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		if level, err := logrus.ParseLevel(levelStr); err == nil {
			logger.SetLevel(level)
			return logger
		}
	}
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
	return logger
}
