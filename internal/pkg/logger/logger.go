package logger

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Fields = logrus.Fields

type Logger struct {
	entry *logrus.Entry
}

type Options struct {
	Level      string
	JSONFormat bool
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
}

func New(opts Options) *Logger {
	base := logrus.New()

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	base.SetLevel(level)

	if opts.JSONFormat {
		base.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if opts.FilePath != "" {
		rotated := &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			Compress:   true,
		}
		base.SetOutput(io.MultiWriter(os.Stdout, rotated))
	} else {
		base.SetOutput(os.Stdout)
	}

	return &Logger{entry: logrus.NewEntry(base)}
}

func (logger *Logger) WithFields(fields Fields) *Logger {
	return &Logger{entry: logger.entry.WithFields(fields)}
}

func (logger *Logger) WithError(err error) *Logger {
	return &Logger{entry: logger.entry.WithError(err)}
}

func (logger *Logger) Debug(message string, keyValues ...interface{}) {
	logger.entry.WithFields(fieldsFromKeyValues(keyValues)).Debug(message)
}

func (logger *Logger) Info(message string, keyValues ...interface{}) {
	logger.entry.WithFields(fieldsFromKeyValues(keyValues)).Info(message)
}

func (logger *Logger) Warn(message string, keyValues ...interface{}) {
	logger.entry.WithFields(fieldsFromKeyValues(keyValues)).Warn(message)
}

func (logger *Logger) Error(message string, keyValues ...interface{}) {
	logger.entry.WithFields(fieldsFromKeyValues(keyValues)).Error(message)
}

// LogStage records one pipeline stage completion with its prompt version tag.
func (logger *Logger) LogStage(stage string, promptVersion string, duration time.Duration, cached bool, err error) {
	entry := logger.entry.WithFields(Fields{
		"stage":          stage,
		"prompt_version": promptVersion,
		"duration_ms":    duration.Milliseconds(),
		"cache_hit":      cached,
	})

	if err != nil {
		entry.WithError(err).Error("Stage failed")
		return
	}
	entry.Info("Stage completed")
}

func (logger *Logger) LogAgent(sessionID string, agent string, operation string, duration time.Duration, fields Fields, err error) {
	entry := logger.entry.WithFields(Fields{
		"session_id":  sessionID,
		"agent":       agent,
		"operation":   operation,
		"duration_ms": duration.Milliseconds(),
	}).WithFields(fields)

	if err != nil {
		entry.WithError(err).Error("Agent operation failed")
		return
	}
	entry.Info("Agent operation completed")
}

func (logger *Logger) LogService(service string, operation string, duration time.Duration, fields Fields, err error) {
	entry := logger.entry.WithFields(Fields{
		"service":     service,
		"operation":   operation,
		"duration_ms": duration.Milliseconds(),
	}).WithFields(fields)

	if err != nil {
		entry.WithError(err).Error("Service operation failed")
		return
	}
	entry.Info("Service operation completed")
}

func fieldsFromKeyValues(keyValues []interface{}) Fields {
	fields := Fields{}
	for i := 0; i+1 < len(keyValues); i += 2 {
		key, ok := keyValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keyValues[i+1]
	}
	return fields
}
