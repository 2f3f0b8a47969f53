package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

const filePrefix = "edupulse-"

var (
	mu          sync.Mutex
	out         io.Writer = os.Stdout
	colored               = true
	logFile     *os.File
	logDir      string
	currentDay  string
	fileLogging bool
)

// Init enables daily log files under dir. An empty dir keeps stdout-only logging.
func Init(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	logDir = dir
	fileLogging = true
	if err := rotateLocked(time.Now()); err != nil {
		fileLogging = false
		return err
	}
	return nil
}

// SetOutput redirects console output. Colors are only emitted on os.Stdout.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	colored = w == os.Stdout
}

func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	fileLogging = false
	currentDay = ""
}

func Info(format string, args ...any) {
	write(LevelInfo, format, args...)
}

func Warn(format string, args ...any) {
	write(LevelWarn, format, args...)
}

func Error(format string, args ...any) {
	write(LevelError, format, args...)
}

func write(lvl Level, format string, args ...any) {
	nowTime := time.Now()
	now := nowTime.Format("2006/01/02 15:04:05")
	msg := fmt.Sprintf(format, args...)

	var label, color string
	switch lvl {
	case LevelInfo:
		color = "\033[32m"
		label = "[INFO]"
	case LevelWarn:
		color = "\033[33m"
		label = "[WARN]"
	case LevelError:
		color = "\033[31m"
		label = "[EROR]"
	}

	mu.Lock()
	defer mu.Unlock()

	if fileLogging {
		if err := rotateLocked(nowTime); err == nil && logFile != nil {
			_, _ = fmt.Fprintf(logFile, "%s %s %s\n", now, label, msg)
		}
	}

	if colored {
		fmt.Fprintf(out, "%s %s%s\033[0m %s\n", now, color, label, msg)
		return
	}
	fmt.Fprintf(out, "%s %s %s\n", now, label, msg)
}

func rotateLocked(t time.Time) error {
	if logDir == "" {
		return nil
	}
	day := t.Format("2006-01-02")
	if logFile != nil && currentDay == day {
		return nil
	}
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	f, err := os.OpenFile(filepath.Join(logDir, filePrefix+day+".log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	logFile = f
	currentDay = day
	return nil
}
