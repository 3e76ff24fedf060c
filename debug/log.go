package debug

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu      sync.Mutex
	sink    io.WriteCloser
	logger  = slog.New(slog.NewTextHandler(io.Discard, nil))
	enabled bool
	runID   = uuid.NewString()
)

// DefaultPath is ~/.config/go-melody/debug.log
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "go-melody", "debug.log")
}

// Enable starts debug logging to path (DefaultPath if empty). The file is
// rotated once it grows past a few megabytes.
func Enable(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return EnableWriter(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
	})
}

// EnableWriter logs to an arbitrary writer. Closing is left to Disable.
func EnableWriter(w io.WriteCloser) error {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		return nil
	}

	sink = w
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})).
		With(slog.String("run", runID))
	enabled = true

	logger.Info("=== Debug logging started ===", slog.String("category", "debug"))
	return nil
}

// Disable stops debug logging
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if sink != nil {
		sink.Close()
		sink = nil
	}
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	enabled = false
}

// Enabled reports whether Enable has been called
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// RunID identifies this process in the log and in exported files
func RunID() string { return runID }

// Logger returns the current structured logger (discarding when disabled)
func Logger() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// Log writes a message to the debug log
func Log(category, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled {
		return
	}
	logger.Debug(fmt.Sprintf(format, args...), slog.String("category", category))
}

// LogEvery logs only every N calls (use for per-step events)
var counters = make(map[string]int)

func LogEvery(n int, category, format string, args ...any) {
	mu.Lock()
	key := category + format
	counters[key]++
	count := counters[key]
	mu.Unlock()

	if count%n == 0 {
		Log(category, format+" (every %d, count=%d)", append(args, n, count)...)
	}
}
