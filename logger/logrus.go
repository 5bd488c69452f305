package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

// LogrusLogger implements the Logger interface on top of logrus. The CLI uses it when
// log.backend is "logrus" for leveled, structured output.
type LogrusLogger struct {
	logger *logrus.Logger
}

func (l *LogrusLogger) Debugf(msg string, args ...any) {
	l.logger.Debugf(msg, args...)
}

func (l *LogrusLogger) Infof(msg string, args ...any) {
	l.logger.Infof(msg, args...)
}

func (l *LogrusLogger) Warnf(msg string, args ...any) {
	l.logger.Warnf(msg, args...)
}

func (l *LogrusLogger) Errorf(msg string, args ...any) {
	l.logger.Errorf(msg, args...)
}

func (l *LogrusLogger) Fatalf(msg string, args ...any) {
	l.logger.Fatalf(msg, args...)
}

// NewLogrusLogger writes text formatted entries at logLevel or above to out.
func NewLogrusLogger(out io.Writer, logLevel string) (Logger, error) {
	l := logrus.New()
	l.SetOutput(out)

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})

	return &LogrusLogger{logger: l}, nil
}
