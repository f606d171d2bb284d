package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

func slogLevel() slog.Level {
	if os.Getenv("DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// newLogger logs JSON to w and, if logFile is set, text to logFile.
func newLogger(w io.Writer, logFile string) (*slog.Logger, func() error, error) {
	opts := &slog.HandlerOptions{Level: slogLevel()}
	handlers := []slog.Handler{slog.NewJSONHandler(w, opts)}
	closeLog := func() error { return nil }
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open log file: %w", err)
		}
		handlers = append(handlers, slog.NewTextHandler(f, opts))
		closeLog = f.Close
	}
	return slog.New(slogmulti.Fanout(handlers...)), closeLog, nil
}
