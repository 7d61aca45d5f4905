package jobs

import (
	"context"
	"log/slog"
)

// CronLogger routes cron's own messages to slog. Cron logs every schedule
// tick at Info, so those go to Debug.
type CronLogger struct {
	logger *slog.Logger
}

func NewCronLogger(logger *slog.Logger) CronLogger {
	return CronLogger{logger: logger}
}

func (l CronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Log(context.Background(), slog.LevelDebug, "cron: "+msg, keysAndValues...)
}

func (l CronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Log(context.Background(), slog.LevelError, "cron: "+msg, append(keysAndValues, "error", err)...)
}
