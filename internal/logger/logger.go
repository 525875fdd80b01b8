package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sirupsen/logrus"
)

var (
	baseDir  = "./logs"
	level    = logrus.InfoLevel
	mu       sync.Mutex
	registry = map[string]*logrus.Logger{}
)

// Init sets the root directory and level used by every logger created afterwards.
func Init(dir, lvl string) {
	mu.Lock()
	defer mu.Unlock()
	if dir != "" {
		baseDir = dir
	}
	if l, err := logrus.ParseLevel(lvl); err == nil {
		level = l
	}
}

// NewLogger returns the daily-rotated logger for logType, e.g. ./logs/info/info.log.
// Loggers are shared per type.
func NewLogger(logType string) *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()
	if l, ok := registry[logType]; ok {
		return l
	}

	log := logrus.New()
	logPath := filepath.Join(baseDir, logType)
	_ = os.MkdirAll(logPath, 0755)

	writer, err := rotatelogs.New(
		filepath.Join(logPath, logType+".log.%Y-%m-%d"),
		rotatelogs.WithLinkName(filepath.Join(logPath, logType+".log")),
		rotatelogs.WithRotationTime(24*time.Hour),
		rotatelogs.WithMaxAge(7*24*time.Hour),
	)
	if err != nil {
		log.SetOutput(os.Stdout)
	} else {
		log.SetOutput(writer)
	}
	log.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			return f.Function, fmt.Sprintf("%s:%d", f.File, f.Line)
		},
	})
	log.SetLevel(level)

	registry[logType] = log
	return log
}

// Discard is a logger that writes nowhere, for tests.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
