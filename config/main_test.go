package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"
)

// TestMain refuses to run the config tests outside GO_ENV=test, since they open databases
// and rewrite environment variables
func TestMain(m *testing.M) {
	if env := os.Getenv("GO_ENV"); env != "test" {
		fmt.Fprintf(os.Stderr, "config tests require GO_ENV=test (got %q); run `GO_ENV=test go test ./...`\n", env)
		os.Exit(1)
	}

	// ConnectDatabase logs through the default logger
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	os.Exit(m.Run())
}
