// Package logging owns the process-wide logrus logger. Init configures it once at startup;
// every other package logs through the helpers below.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

var log *logrus.Logger

// Init configures the logger. An unparsable level falls back to info. With neither console nor
// file output selected, log lines are discarded.
//
// Parameters:
//   - level: a logrus level name such as "debug" or "info"
//   - logFile: path of a file to append to, or "" for none
//   - console: true to also write to stderr
//
// Returns:
//   - error: an error if the log file cannot be created
func Init(level, logFile string, console bool) error {
	l := logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	var writers []io.Writer
	if console {
		writers = append(writers, os.Stderr)
	}

	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
			return err
		}
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return err
		}
		writers = append(writers, file)
	}

	switch len(writers) {
	case 0:
		l.SetOutput(io.Discard)
	case 1:
		l.SetOutput(writers[0])
	default:
		l.SetOutput(io.MultiWriter(writers...))
	}

	log = l
	return nil
}

// Get returns the logger instance, creating a default one if Init was never called.
func Get() *logrus.Logger {
	if log == nil {
		log = logrus.New()
	}
	return log
}

// SetOutput redirects the logger, mostly for tests.
func SetOutput(w io.Writer) {
	Get().SetOutput(w)
}

// WithFields starts an entry carrying structured fields.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return Get().WithFields(fields)
}

func Debugf(format string, args ...any) {
	Get().Debugf(format, args...)
}

func Infof(format string, args ...any) {
	Get().Infof(format, args...)
}

func Warnf(format string, args ...any) {
	Get().Warnf(format, args...)
}

func Errorf(format string, args ...any) {
	Get().Errorf(format, args...)
}
