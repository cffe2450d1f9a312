// Package ods is the debug output used across imgview.
// It writes through a shared logrus logger so that the command line can redirect
// or silence it in one place.
package ods

import (
	"io"
	"runtime/debug"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return l
}

// Logger returns the shared logger.
func Logger() *logrus.Logger {
	return logger
}

// WithField is a shortcut for Logger().WithField.
func WithField(key string, value interface{}) *logrus.Entry {
	return logger.WithField(key, value)
}

// ODS writes a debug message.
func ODS(format string, a ...interface{}) {
	logger.Debugf(format, a...)
}

// Recover logs a recovered panic value together with the current stack.
func Recover(v interface{}) {
	logger.WithField("stack", string(debug.Stack())).Errorf("panic: %v", v)
}

// SetLevel parses and applies a level name such as "debug" or "warn".
func SetLevel(level string) error {
	lv, err := logrus.ParseLevel(level)
	if err != nil {
		return errors.Wrap(err, "ods: invalid log level")
	}
	logger.SetLevel(lv)
	return nil
}

// SetOutput redirects all output.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}
