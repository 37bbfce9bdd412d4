// Package logging provides categorized file-based logging for sourcerer.
// Logs are written to .sourcerer/logs/ with separate files per category.
// Logging is a silent no-op unless debug mode is enabled (SOURCERER_DEBUG=1
// or logging.SetDebug from the loaded config).
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Category represents a log category/system.
type Category string

const (
	CategoryBoot      Category = "boot"      // Startup and shutdown
	CategorySession   Category = "session"   // Session state and persistence
	CategoryKnowledge Category = "knowledge" // Knowledge base loading and lookup
	CategoryStore     Category = "store"     // SQLite store operations
	CategoryLoop      Category = "loop"      // Interactive read-eval-print loop
)

// Log levels.
const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

// Logger wraps a standard logger with category and file output.
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex
	logsDir   string
	configMu  sync.RWMutex
	debugMode bool
	logLevel  = LevelInfo
)

// Initialize sets up the logging directory. Should be called once at
// startup with the workspace path. Honors SOURCERER_DEBUG and
// SOURCERER_LOG_LEVEL so logging works before config is loaded.
func Initialize(workspace string) error {
	if workspace == "" {
		return fmt.Errorf("workspace path required")
	}

	logsDir = filepath.Join(workspace, ".sourcerer", "logs")

	if v := os.Getenv("SOURCERER_DEBUG"); v == "1" || v == "true" {
		SetDebug(true)
	}
	if lvl := os.Getenv("SOURCERER_LOG_LEVEL"); lvl != "" {
		SetLevel(lvl)
	}

	if !IsDebugMode() {
		return nil // Silent no-op in production mode
	}

	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	boot := Get(CategoryBoot)
	boot.Info("=== sourcerer logging initialized ===")
	boot.Info("Workspace: %s", workspace)
	boot.Info("Logs directory: %s", logsDir)
	return nil
}

// SetDebug toggles debug mode. Called from config wiring after load.
func SetDebug(on bool) {
	configMu.Lock()
	defer configMu.Unlock()
	debugMode = on
}

// SetLevel sets the minimum level by name. Unknown names fall back to info.
func SetLevel(level string) {
	configMu.Lock()
	defer configMu.Unlock()
	switch level {
	case "debug":
		logLevel = LevelDebug
	case "info":
		logLevel = LevelInfo
	case "warn", "warning":
		logLevel = LevelWarn
	case "error":
		logLevel = LevelError
	default:
		logLevel = LevelInfo
	}
}

// IsDebugMode returns whether debug logging is enabled.
func IsDebugMode() bool {
	configMu.RLock()
	defer configMu.RUnlock()
	return debugMode
}

func currentLevel() int {
	configMu.RLock()
	defer configMu.RUnlock()
	return logLevel
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if debug mode is disabled.
func Get(category Category) *Logger {
	if !IsDebugMode() || logsDir == "" {
		return &Logger{category: category}
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()

	// Double-check after acquiring write lock
	if l, ok := loggers[category]; ok {
		return l
	}

	// Date prefix for easy rotation
	date := time.Now().Format("2006-01-02")
	logPath := filepath.Join(logsDir, fmt.Sprintf("%s_%s.log", date, category))

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] Warning: could not open log file %s: %v\n", logPath, err)
		return &Logger{category: category}
	}

	l := &Logger{
		category: category,
		file:     file,
		logger:   log.New(file, "", log.Ldate|log.Ltime|log.Lmicroseconds),
	}
	loggers[category] = l
	return l
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.logger == nil || currentLevel() > LevelDebug {
		return
	}
	l.logger.Printf("[DEBUG] %s", fmt.Sprintf(format, args...))
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...interface{}) {
	if l.logger == nil || currentLevel() > LevelInfo {
		return
	}
	l.logger.Printf("[INFO] %s", fmt.Sprintf(format, args...))
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.logger == nil || currentLevel() > LevelWarn {
		return
	}
	l.logger.Printf("[WARN] %s", fmt.Sprintf(format, args...))
}

// Error logs an error message (always logged if the logger exists).
func (l *Logger) Error(format string, args ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Printf("[ERROR] %s", fmt.Sprintf(format, args...))
}

// CloseAll closes all open log files (call at shutdown).
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	for _, l := range loggers {
		if l.file != nil {
			l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
}

// =============================================================================
// CONVENIENCE FUNCTIONS - Quick logging without getting a logger first
// =============================================================================

// Boot logs to the boot category.
func Boot(format string, args ...interface{}) {
	Get(CategoryBoot).Info(format, args...)
}

// Session logs to the session category.
func Session(format string, args ...interface{}) {
	Get(CategorySession).Info(format, args...)
}

// SessionDebug logs debug to the session category.
func SessionDebug(format string, args ...interface{}) {
	Get(CategorySession).Debug(format, args...)
}

// Knowledge logs to the knowledge category.
func Knowledge(format string, args ...interface{}) {
	Get(CategoryKnowledge).Info(format, args...)
}

// KnowledgeDebug logs debug to the knowledge category.
func KnowledgeDebug(format string, args ...interface{}) {
	Get(CategoryKnowledge).Debug(format, args...)
}

// Store logs to the store category.
func Store(format string, args ...interface{}) {
	Get(CategoryStore).Info(format, args...)
}

// StoreDebug logs debug to the store category.
func StoreDebug(format string, args ...interface{}) {
	Get(CategoryStore).Debug(format, args...)
}

// Loop logs to the loop category.
func Loop(format string, args ...interface{}) {
	Get(CategoryLoop).Info(format, args...)
}

// LoopDebug logs debug to the loop category.
func LoopDebug(format string, args ...interface{}) {
	Get(CategoryLoop).Debug(format, args...)
}

// =============================================================================
// TIMING HELPERS
// =============================================================================

// Timer helps measure operation duration.
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation.
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, op: operation, start: time.Now()}
}

// Stop ends the timer and logs the duration.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}
