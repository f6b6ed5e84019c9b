// Package testutil holds helpers shared by the package tests.
package testutil

import (
	"log/slog"
	"testing"
)

// NewLogger returns a debug-level logger writing to t.Log, so table
// activity shows up with -v or when a test fails.
func NewLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}
