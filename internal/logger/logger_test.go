package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWritesPlainLinesToCustomOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stdout) })

	Warn("store %s failed", "file")

	line := buf.String()
	if !strings.Contains(line, "[WARN] store file failed") {
		t.Fatalf("expected warn line, got %q", line)
	}
	if strings.Contains(line, "\033[") {
		t.Fatalf("expected no color codes, got %q", line)
	}
}

func TestInitWritesDailyFile(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stdout) })

	dir := t.TempDir()
	if err := Init(dir); err != nil {
		t.Fatalf("init: %v", err)
	}
	Info("hello %d", 42)
	Close()

	name := filepath.Join(dir, filePrefix+time.Now().Format("2006-01-02")+".log")
	b, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(b), "[INFO] hello 42") {
		t.Fatalf("expected info line in file, got %q", string(b))
	}
}

func TestInitEmptyDirIsNoop(t *testing.T) {
	if err := Init(""); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
