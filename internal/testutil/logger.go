package testutil

import (
	"io"
	"log/slog"
)

// testLogger returns a logger that discards everything. Tests inspecting
// log output use a SafeBuffer-backed app logger instead.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
