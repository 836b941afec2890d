package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go-firewatch/internal/config"
)

func TestBufferNewestFirstAndCapped(t *testing.T) {
	t.Parallel()

	b := NewBuffer()
	for i := 0; i < bufferLines+10; i++ {
		fmt.Fprintf(b, "line %d\n", i)
	}

	lines := b.Lines()
	if len(lines) != bufferLines {
		t.Fatalf("len(lines) = %d, want %d", len(lines), bufferLines)
	}
	if lines[0] != fmt.Sprintf("line %d", bufferLines+9) {
		t.Fatalf("newest line first, got %q", lines[0])
	}
}

func TestBufferSplitsMultiline(t *testing.T) {
	t.Parallel()

	b := NewBuffer()
	_, _ = b.Write([]byte("a\nb\n\n"))
	lines := b.Lines()
	if len(lines) != 2 || lines[0] != "b" || lines[1] != "a" {
		t.Fatalf("unexpected lines: %q", lines)
	}
}

func TestNewWritesFileAndBuffer(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "fw.log")
	cfg := config.Config{AppEnv: "prod", LogLevel: slog.LevelInfo, LogFile: path}
	buf := NewBuffer()

	logger, closer, err := New(cfg, "1.2.3", buf)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("monitor data loaded", "points", 3)
	logger.Debug("hidden")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	blob, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(blob), `"msg":"monitor data loaded"`) || !strings.Contains(string(blob), `"version":"1.2.3"`) {
		t.Fatalf("unexpected log file content: %s", blob)
	}
	if strings.Contains(string(blob), "hidden") {
		t.Fatalf("debug record should be filtered at info level")
	}

	lines := buf.Lines()
	if len(lines) != 1 || !strings.Contains(lines[0], "monitor data loaded") {
		t.Fatalf("unexpected buffer lines: %q", lines)
	}
}

func TestTeeKeepsBuffersApart(t *testing.T) {
	t.Parallel()

	shared := NewBuffer()
	base := slog.New(NewBufferHandler(shared, slog.LevelInfo))
	first, second := NewBuffer(), NewBuffer()
	one := Tee(base, first, slog.LevelInfo).With("profile", "one")
	two := Tee(base, second, slog.LevelInfo)

	one.Info("first session record")
	two.Debug("below level")

	if got := strings.Join(first.Lines(), "\n"); !strings.Contains(got, "first session record") {
		t.Fatalf("first buffer = %q", got)
	}
	if got := second.Lines(); len(got) != 0 {
		t.Fatalf("second buffer = %q, want empty", got)
	}
	if got := strings.Join(shared.Lines(), "\n"); !strings.Contains(got, "first session record") {
		t.Fatalf("base buffer = %q", got)
	}
}
