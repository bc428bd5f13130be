package logger

import (
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// Init configures the package logger with the specified level
func Init(level string) error {
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)

	return nil
}

// Debug logs a debug message
func Debug(msg string, fields ...map[string]interface{}) {
	entry(fields).Debug(msg)
}

// Info logs an info message
func Info(msg string, fields ...map[string]interface{}) {
	entry(fields).Info(msg)
}

// Warn logs a warning message
func Warn(msg string, fields ...map[string]interface{}) {
	entry(fields).Warn(msg)
}

// Error logs an error message with the underlying error attached
func Error(msg string, err error, fields ...map[string]interface{}) {
	entry(fields).WithError(err).Error(msg)
}

func entry(fields []map[string]interface{}) *logrus.Entry {
	if len(fields) > 0 {
		return log.WithFields(fields[0])
	}
	return logrus.NewEntry(log)
}
