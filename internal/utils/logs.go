package utils

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

// LogsManager wraps logrus for the wallet tools. Diagnostics go to stderr so
// stdout stays reserved for machine-readable output (address, tx hash, JSON).
// When a log directory is available the same entries are mirrored to a file.
type LogsManager struct {
	logger *log.Logger
	file   *os.File
	mutex  sync.Mutex
}

// NewLogsManager creates a logger writing to stderr and, best-effort, to
// logDir/<name>.log. Pass an empty logDir to skip the file sink (tests).
func NewLogsManager(logDir, name, level string) *LogsManager {
	lm := &LogsManager{
		logger: log.New(),
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	lm.logger.SetLevel(lvl)
	lm.logger.SetFormatter(&log.TextFormatter{
		DisableTimestamp: false,
		FullTimestamp:    true,
	})

	out := io.Writer(os.Stderr)
	if logDir != "" {
		path := logDir + string(os.PathSeparator) + name + ".log"
		if file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
			lm.file = file
			out = io.MultiWriter(os.Stderr, file)
		}
	}
	lm.logger.SetOutput(out)

	return lm
}

func (lm *LogsManager) fileInfo(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		file = "<???>"
		line = 1
	} else {
		slash := strings.LastIndex(file, "/")
		if slash >= 0 {
			file = file[slash+1:]
		}
	}
	return fmt.Sprintf("%s:%d", file, line)
}

func (lm *LogsManager) Log(level string, message string, category string) {
	lm.mutex.Lock()
	defer lm.mutex.Unlock()

	entry := lm.logger.WithFields(log.Fields{
		"category": category,
		"file":     lm.fileInfo(3),
	})

	switch level {
	case "trace":
		entry.Trace(message)
	case "debug":
		entry.Debug(message)
	case "info":
		entry.Info(message)
	case "warn":
		entry.Warn(message)
	case "error":
		entry.Error(message)
	default:
		entry.Info(message)
	}
}

// Convenience methods for different log levels
func (lm *LogsManager) Debug(message string, category string) {
	lm.Log("debug", message, category)
}

func (lm *LogsManager) Info(message string, category string) {
	lm.Log("info", message, category)
}

func (lm *LogsManager) Warn(message string, category string) {
	lm.Log("warn", message, category)
}

func (lm *LogsManager) Error(message string, category string) {
	lm.Log("error", message, category)
}

// Close closes the log file sink if one was opened.
func (lm *LogsManager) Close() error {
	lm.mutex.Lock()
	defer lm.mutex.Unlock()

	if lm.file != nil {
		err := lm.file.Close()
		lm.file = nil
		return err
	}
	return nil
}
