package logger

import (
	"log/slog"
	"os"
)

// Loggerはアプリ共通のロガー（slogの薄いラッパー）
type Logger struct {
	*slog.Logger
}

// Newは指定レベルのLoggerを作る
func New(level slog.Level) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})),
	}
}

// FatalはErrorを出してos.Exit(1)する
func (l *Logger) Fatal(msg string, args ...any) {
	l.Logger.Error(msg, args...)
	os.Exit(1)
}
