package utils

import (
	"fmt"
	"log"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger represents the backend log. Messages go only to the rotating log
// file; user-facing output is printed by the commands themselves.
type Logger struct {
	logger  *log.Logger
	verbose bool
}

var (
	globalLogger *Logger
	once         sync.Once
)

// GetLogger returns the singleton instance of Logger. It initializes the
// logger with a file handler that rotates logs. The verbose parameter can be
// overridden on subsequent calls.
func GetLogger(verbose bool) *Logger {
	once.Do(func() {
		logFile := &lumberjack.Logger{
			Filename:   ".agentcoder/agentcoder.log",
			MaxSize:    15, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		globalLogger = &Logger{
			logger: log.New(logFile, "", log.LstdFlags),
		}
	})
	globalLogger.verbose = verbose
	return globalLogger
}

// Close closes the logger resources.
func (w *Logger) Close() error {
	if logFile, ok := w.logger.Writer().(*lumberjack.Logger); ok {
		return logFile.Close()
	}
	return nil
}

// Log logs a general message only to the log file.
func (w *Logger) Log(message string) {
	w.logger.Print(message)
}

// Logf logs a formatted general message only to the log file.
func (w *Logger) Logf(format string, v ...interface{}) {
	w.logger.Printf(format, v...)
}

// LogError logs an error to the log file, and to stderr in verbose mode.
func (w *Logger) LogError(err error) {
	if err == nil {
		return
	}
	w.logger.Printf("Error: %v", err)
	if w.verbose {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}

// LogChatRequest records a dispatched chat request. Credentials are never
// written to the log.
func (w *Logger) LogChatRequest(provider, model string, historyLen int) {
	w.logger.Printf("Chat request - provider: %s, model: %s, history: %d messages", provider, model, historyLen)
}
