package httpx

import (
	"io"
	"log/slog"
)

// testLogger returns a logger that discards output, keeping test logs quiet.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
