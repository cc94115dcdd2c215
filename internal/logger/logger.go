package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
)

// Level represents the logging level
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger handles dual-output logging (console + file).
// Parse workers log concurrently, so every method is goroutine safe.
type Logger struct {
	consoleLogger *log.Logger
	fileLogger    *log.Logger // nil when logging to the console only
	logFile       *os.File
	verbose       bool
	minLevel      Level
	counts        [LevelError + 1]atomic.Int64
}

var (
	mu           sync.RWMutex
	globalLogger *Logger
)

// Init initializes the global logger
// consoleOutput: where to write INFO and above (typically os.Stdout)
// logFilePath: every level is appended there with a timestamp
// verbose: if true, show DEBUG logs on console as well
func Init(consoleOutput io.Writer, logFilePath string, verbose bool) error {
	if err := os.MkdirAll(filepath.Dir(logFilePath), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	l := newLogger(consoleOutput, verbose)
	l.logFile = logFile
	l.fileLogger = log.New(logFile, "", log.LstdFlags)
	swap(l)
	return nil
}

// InitConsole initializes the global logger without a log file
func InitConsole(consoleOutput io.Writer, verbose bool) {
	swap(newLogger(consoleOutput, verbose))
}

func newLogger(console io.Writer, verbose bool) *Logger {
	minLevel := LevelInfo
	if verbose {
		minLevel = LevelDebug
	}
	return &Logger{
		consoleLogger: log.New(console, "", 0), // No prefix for clean console output
		verbose:       verbose,
		minLevel:      minLevel,
	}
}

// swap installs l and closes the previous logger's file
func swap(l *Logger) {
	mu.Lock()
	prev := globalLogger
	globalLogger = l
	mu.Unlock()
	if prev != nil && prev.logFile != nil {
		prev.logFile.Close()
	}
}

func current() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

// Close closes the log file
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if globalLogger != nil && globalLogger.logFile != nil {
		globalLogger.logFile.Close()
	}
}

// Debug logs a debug message (file only, unless verbose)
func Debug(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.log(LevelDebug, format, args...)
	}
}

// Info logs an info message (console + file)
func Info(format string, args ...interface{}) {
	l := current()
	if l == nil {
		fmt.Printf(format+"\n", args...)
		return
	}
	l.log(LevelInfo, format, args...)
}

// Warn logs a warning message (console + file)
func Warn(format string, args ...interface{}) {
	l := current()
	if l == nil {
		fmt.Printf("WARN: "+format+"\n", args...)
		return
	}
	l.log(LevelWarn, format, args...)
}

// Error logs an error message (console + file)
func Error(format string, args ...interface{}) {
	l := current()
	if l == nil {
		fmt.Printf("ERROR: "+format+"\n", args...)
		return
	}
	l.log(LevelError, format, args...)
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	l.counts[level].Add(1)

	// Every level goes to the file
	if l.fileLogger != nil {
		l.fileLogger.Printf("[%s] %s", level, message)
	}

	if level < l.minLevel {
		return
	}

	switch level {
	case LevelDebug:
		l.consoleLogger.Printf("[DEBUG] %s", message)
	case LevelInfo:
		l.consoleLogger.Printf("%s", message)
	case LevelWarn:
		l.consoleLogger.Printf("⚠️  %s", message)
	case LevelError:
		l.consoleLogger.Printf("❌ %s", message)
	}
}

// LogParseError records a source that could not be parsed cleanly (file only).
// The console gets a DEBUG line so verbose runs still see it.
func LogParseError(filePath string, err error, context string) {
	l := current()
	if l == nil {
		return
	}
	if l.fileLogger != nil {
		l.fileLogger.Printf("[PARSE_ERROR] File: %s, Context: %s, Error: %v", filePath, context, err)
	}
	Debug("Parse error in %s: %v", filePath, err)
}

// Count returns how many messages of a level were logged since Init
func Count(level Level) int {
	l := current()
	if l == nil || level < LevelDebug || level > LevelError {
		return 0
	}
	return int(l.counts[level].Load())
}

// GetLogFilePath returns the path to the current log file
func GetLogFilePath() string {
	mu.RLock()
	defer mu.RUnlock()
	if globalLogger != nil && globalLogger.logFile != nil {
		return globalLogger.logFile.Name()
	}
	return ""
}

// IsVerbose returns whether verbose logging is enabled
func IsVerbose() bool {
	l := current()
	return l != nil && l.verbose
}
