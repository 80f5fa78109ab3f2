package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

// Level is a logging threshold.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps "debug", "info", "warn" and "error" to a Level.
// Anything else yields LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger provides leveled console logging throughout the pipeline.
type Logger struct {
	level Level
	info  *log.Logger
	warn  *log.Logger
	err   *log.Logger
	debug *log.Logger
}

// NewLogger creates a Logger at LevelInfo writing to stdout/stderr.
func NewLogger() *Logger {
	return NewLoggerWithLevel(LevelInfo)
}

// NewLoggerWithLevel creates a Logger that drops messages below level.
func NewLoggerWithLevel(level Level) *Logger {
	return newLogger(level, os.Stdout, os.Stderr)
}

func newLogger(level Level, out, errOut io.Writer) *Logger {
	flags := 0
	return &Logger{
		level: level,
		info:  log.New(out, "", flags),
		warn:  log.New(out, "", flags),
		err:   log.New(errOut, "", flags),
		debug: log.New(out, "", flags),
	}
}

func (l *Logger) timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

func (l *Logger) printf(lg *log.Logger, tag, format string, args ...any) {
	lg.Print(fmt.Sprintf("[%s] %s %s\n", l.timestamp(), tag, fmt.Sprintf(format, args...)))
}

func (l *Logger) Info(format string, args ...any) {
	if l.level <= LevelInfo {
		l.printf(l.info, "\033[32mINFO\033[0m ", format, args...)
	}
}

func (l *Logger) Warn(format string, args ...any) {
	if l.level <= LevelWarn {
		l.printf(l.warn, "\033[33mWARN\033[0m ", format, args...)
	}
}

func (l *Logger) Error(format string, args ...any) {
	l.printf(l.err, "\033[31mERROR\033[0m", format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	if l.level <= LevelDebug {
		l.printf(l.debug, "\033[36mDEBUG\033[0m", format, args...)
	}
}
