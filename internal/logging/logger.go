// Package logging adapts logrus and the transport libraries' logger
// interfaces to vra.Logger.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/fivetwenty-io/vra-client/pkg/vra"
	"github.com/sirupsen/logrus"
)

// Logger implements vra.Logger on top of logrus.
type Logger struct {
	*logrus.Logger
}

// New wraps an existing logrus logger.
func New(log *logrus.Logger) *Logger {
	return &Logger{log}
}

// NewDefault returns a text logger writing to stderr at the given level.
func NewDefault(level logrus.Level) *Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter returns a text logger writing to w at the given level.
func NewWithWriter(w io.Writer, level logrus.Level) *Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	return &Logger{log}
}

// Debug implements vra.Logger.
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.WithFields(fields).Debug(msg)
}

// Info implements vra.Logger.
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.WithFields(fields).Info(msg)
}

// Warn implements vra.Logger.
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.WithFields(fields).Warn(msg)
}

// Error implements vra.Logger.
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.WithFields(fields).Error(msg)
}

var _ vra.Logger = (*Logger)(nil)

// Leveled adapts vra.Logger to retryablehttp.LeveledLogger.
type Leveled struct {
	logger vra.Logger
}

// NewLeveled returns a retryablehttp leveled logger writing to logger.
func NewLeveled(logger vra.Logger) *Leveled {
	return &Leveled{logger: logger}
}

// Error logs at error level.
func (l *Leveled) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, pairs(keysAndValues))
}

// Info logs at info level.
func (l *Leveled) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, pairs(keysAndValues))
}

// Debug logs at debug level.
func (l *Leveled) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, pairs(keysAndValues))
}

// Warn logs at warn level.
func (l *Leveled) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, pairs(keysAndValues))
}

// pairs turns alternating keys and values into fields. A dangling key is
// kept with a nil value.
func pairs(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, (len(keysAndValues)+1)/2)

	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprint(keysAndValues[i])

		if i+1 < len(keysAndValues) {
			fields[key] = keysAndValues[i+1]
		} else {
			fields[key] = nil
		}
	}

	return fields
}

// Resty adapts vra.Logger to resty.Logger.
type Resty struct {
	logger vra.Logger
}

// NewResty returns a resty logger writing to logger.
func NewResty(logger vra.Logger) *Resty {
	return &Resty{logger: logger}
}

// Errorf logs at error level.
func (r *Resty) Errorf(format string, v ...interface{}) {
	r.logger.Error(fmt.Sprintf(format, v...), nil)
}

// Warnf logs at warn level.
func (r *Resty) Warnf(format string, v ...interface{}) {
	r.logger.Warn(fmt.Sprintf(format, v...), nil)
}

// Debugf logs at debug level.
func (r *Resty) Debugf(format string, v ...interface{}) {
	r.logger.Debug(fmt.Sprintf(format, v...), nil)
}
