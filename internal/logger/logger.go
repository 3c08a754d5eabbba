package logger

import (
	"context"
	"log/slog"
	"os"
)

var log *slog.Logger

// Init инициализирует глобальный логгер.
// env: "development" - текстовый вывод с debug, иначе JSON.
func Init(env string) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
	}

	if env == "development" {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	log = slog.New(handler)
	slog.SetDefault(log)
}

// GetLogger возвращает глобальный логгер
func GetLogger() *slog.Logger {
	if log == nil {
		Init("development")
	}
	return log
}

func Info(msg string, args ...any) {
	GetLogger().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	GetLogger().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	GetLogger().Error(msg, args...)
}

// Fatal логирует ошибку и завершает процесс
func Fatal(msg string, args ...any) {
	GetLogger().Error(msg, args...)
	os.Exit(1)
}

// StatusLog логирует пересчет статуса профиля
func StatusLog(ctx context.Context, userID, role, trigger, previous, current string) {
	fields := []any{
		"user_id", userID,
		"role", role,
		"trigger", trigger,
		"previous_status", previous,
		"status", current,
	}

	l := FromContext(ctx)
	if previous != current {
		l.Info("profile status changed", fields...)
	} else {
		l.Debug("profile status unchanged", fields...)
	}
}
