// Package log wraps logrus so the rest of the tree logs through one place.
package log

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// ErrorLevel level. Logs. Used for errors that should definitely be noted.
	ErrorLevel = logrus.ErrorLevel
	// WarnLevel level. Non-critical entries that deserve eyes.
	WarnLevel = logrus.WarnLevel
	// InfoLevel level. General operational entries about what's going on.
	InfoLevel = logrus.InfoLevel
	// DebugLevel level. Usually only enabled when debugging.
	DebugLevel = logrus.DebugLevel
)

// Fields defines the field map to pass to WithFields.
type Fields = logrus.Fields

// Entry is a log entry carrying fields.
type Entry = logrus.Entry

// Init configures the standard logger. format is "text" or "json".
func Init(level, format string) error {
	lvl := InfoLevel
	if level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return errors.Wrapf(err, "log: invalid level %q", level)
		}
		lvl = parsed
	}

	switch strings.ToLower(format) {
	case "", "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return errors.Errorf("log: invalid format %q", format)
	}

	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(lvl)
	return nil
}

// SetOutput sets the standard logger output.
func SetOutput(out io.Writer) { logrus.SetOutput(out) }

// SetLevel sets the standard logger level.
func SetLevel(level logrus.Level) { logrus.SetLevel(level) }

// GetLevel returns the standard logger level.
func GetLevel() logrus.Level { return logrus.GetLevel() }

// WithError creates an entry from the standard logger and adds an error to it.
func WithError(err error) *Entry { return logrus.WithError(err) }

// WithField creates an entry from the standard logger and adds a field to it.
func WithField(key string, value interface{}) *Entry { return logrus.WithField(key, value) }

// WithFields creates an entry from the standard logger and adds multiple fields to it.
func WithFields(fields Fields) *Entry { return logrus.WithFields(fields) }

// Debugf logs a message at level Debug on the standard logger.
func Debugf(format string, args ...interface{}) { logrus.Debugf(format, args...) }

// Infof logs a message at level Info on the standard logger.
func Infof(format string, args ...interface{}) { logrus.Infof(format, args...) }

// Warnf logs a message at level Warn on the standard logger.
func Warnf(format string, args ...interface{}) { logrus.Warnf(format, args...) }

// Errorf logs a message at level Error on the standard logger.
func Errorf(format string, args ...interface{}) { logrus.Errorf(format, args...) }

// Info logs a message at level Info on the standard logger.
func Info(args ...interface{}) { logrus.Info(args...) }

// Error logs a message at level Error on the standard logger.
func Error(args ...interface{}) { logrus.Error(args...) }
