// Package logger wraps op/go-logging with a console backend and a
// DEBUG-level file backend.
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/op/go-logging"
	"github.com/resalelab/carprice/config"
)

const (
	module      = "carprice"
	logFileName = "carprice.log"
	timeFormat  = "2006/01/02 15:04:05"
)

var (
	logger  *logging.Logger
	logFile *os.File
)

// Until InitLogger runs, messages go to stderr at INFO so that packages
// used from tests can log without setup.
func init() {
	l := logging.MustGetLogger(module)
	backend := logging.AddModuleLevel(logging.NewBackendFormatter(
		logging.NewLogBackend(os.Stderr, "", 0), newFormatter(true)))
	backend.SetLevel(logging.INFO, module)
	l.SetBackend(backend)
	logger = l
}

// InitLogger installs the console backend at level and, when the log
// folder is writable, a file backend that always records DEBUG.
func InitLogger(level logging.Level) {
	newLogger := logging.MustGetLogger(module)
	backends := make([]logging.Backend, 0, 2)

	console := logging.AddModuleLevel(logging.NewBackendFormatter(
		logging.NewLogBackend(os.Stderr, "", 0), newFormatter(true)))
	console.SetLevel(level, module)
	backends = append(backends, console)

	if fileBackend := initFileBackend(); fileBackend != nil {
		leveled := logging.AddModuleLevel(fileBackend)
		leveled.SetLevel(logging.DEBUG, module)
		backends = append(backends, leveled)
	}

	newLogger.SetBackend(logging.MultiLogger(backends...))
	logger = newLogger
}

// ParseLevel maps a config level name to a go-logging level, defaulting to INFO.
func ParseLevel(level config.LogLevel) logging.Level {
	switch level {
	case config.Debug:
		return logging.DEBUG
	case config.Notice:
		return logging.NOTICE
	case config.Warn:
		return logging.WARNING
	case config.Error:
		return logging.ERROR
	default:
		return logging.INFO
	}
}

// LogFilePath is where the file backend writes.
func LogFilePath() string {
	return filepath.Join(config.GetLogFolder(), logFileName)
}

func initFileBackend() logging.Backend {
	logDir := config.GetLogFolder()
	if err := os.MkdirAll(logDir, 0o750); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log folder %s: %v\n", logDir, err)
		return nil
	}

	logPath := LogFilePath()
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file %s: %v\n", logPath, err)
		return nil
	}

	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = file

	return logging.NewBackendFormatter(logging.NewLogBackend(file, "", 0), newFormatter(true))
}

func newFormatter(withTime bool) logging.Formatter {
	format := `%{level} - %{message}`
	if withTime {
		format = `%{time:` + timeFormat + `} %{level} - %{message}`
	}
	return logging.MustStringFormatter(format)
}

// CloseLogger closes the log file. Call it during shutdown.
func CloseLogger() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

func Debug(args ...any) {
	logger.Debug(args...)
}

func Debugf(format string, args ...any) {
	logger.Debugf(format, args...)
}

func Info(args ...any) {
	logger.Info(args...)
}

func Infof(format string, args ...any) {
	logger.Infof(format, args...)
}

func Notice(args ...any) {
	logger.Notice(args...)
}

func Noticef(format string, args ...any) {
	logger.Noticef(format, args...)
}

func Warning(args ...any) {
	logger.Warning(args...)
}

func Warningf(format string, args ...any) {
	logger.Warningf(format, args...)
}

func Error(args ...any) {
	logger.Error(args...)
}

func Errorf(format string, args ...any) {
	logger.Errorf(format, args...)
}
