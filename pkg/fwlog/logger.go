// Copyright 2025 The fawa Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package fwlog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a logger interface that output logs.
type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
	Fatalf(format string, v ...any)

	Debug(v ...any)
	Info(v ...any)
	Warn(v ...any)
	Error(v ...any)
	Fatal(v ...any)

	SetLevel(Level)
	SetOutput(io.Writer)
}

// Level defines the priority of a log message.
// When a logger is configured with a level, any log message with a lower
// log level (smaller by integer comparison) will not be output.
type Level int

// The levels of logs.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

func (lv Level) String() string {
	switch lv {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	}
	return fmt.Sprintf("level(%d)", int(lv))
}

func (lv Level) toZapLevel() zapcore.Level {
	switch lv {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	case LevelFatal:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// ParseLevel maps a case-insensitive level name to a Level.
func ParseLevel(levelStr string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "fatal":
		return LevelFatal, nil
	}

	return LevelInfo, fmt.Errorf("invalid log level: '%s'", levelStr)
}

var defaultLogger Logger = newZapLogger(os.Stderr, LevelInfo)

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

type zapLogger struct {
	mu     sync.RWMutex
	level  zap.AtomicLevel
	logger *zap.SugaredLogger
}

func newZapLogger(w io.Writer, lv Level) *zapLogger {
	l := &zapLogger{level: zap.NewAtomicLevelAt(lv.toZapLevel())}
	l.build(w)
	return l
}

func (l *zapLogger) build(w io.Writer) {
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(w), l.level)
	l.logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2)).Sugar()
}

func (l *zapLogger) sugar() *zap.SugaredLogger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.logger
}

func (l *zapLogger) Debugf(format string, v ...any) {
	l.sugar().Debugf(format, v...)
}

func (l *zapLogger) Infof(format string, v ...any) {
	l.sugar().Infof(format, v...)
}

func (l *zapLogger) Warnf(format string, v ...any) {
	l.sugar().Warnf(format, v...)
}

func (l *zapLogger) Errorf(format string, v ...any) {
	l.sugar().Errorf(format, v...)
}

func (l *zapLogger) Fatalf(format string, v ...any) {
	l.sugar().Fatalf(format, v...)
}

func (l *zapLogger) Debug(v ...any) {
	l.sugar().Debug(v...)
}

func (l *zapLogger) Info(v ...any) {
	l.sugar().Info(v...)
}

func (l *zapLogger) Warn(v ...any) {
	l.sugar().Warn(v...)
}

func (l *zapLogger) Error(v ...any) {
	l.sugar().Error(v...)
}

func (l *zapLogger) Fatal(v ...any) {
	l.sugar().Fatal(v...)
}

// SetLevel is safe to call while other goroutines are logging.
func (l *zapLogger) SetLevel(level Level) {
	l.level.SetLevel(level.toZapLevel())
}

func (l *zapLogger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.build(w)
}

// DefaultLogger return the default logger.
func DefaultLogger() Logger {
	return defaultLogger
}

// SetLogger sets the default logger.
// Note that this method is not concurrent-safe and must not be called
// after the use of DefaultLogger and global functions in this package.
func SetLogger(v Logger) {
	defaultLogger = v
}

// Global functions
func Debugf(format string, v ...any) {
	defaultLogger.Debugf(format, v...)
}

func Infof(format string, v ...any) {
	defaultLogger.Infof(format, v...)
}

func Warnf(format string, v ...any) {
	defaultLogger.Warnf(format, v...)
}

func Errorf(format string, v ...any) {
	defaultLogger.Errorf(format, v...)
}

// Fatalf logs and then calls os.Exit(1).
func Fatalf(format string, v ...any) {
	defaultLogger.Fatalf(format, v...)
}

func Debug(v ...any) {
	defaultLogger.Debug(v...)
}

func Info(v ...any) {
	defaultLogger.Info(v...)
}

func Warn(v ...any) {
	defaultLogger.Warn(v...)
}

func Error(v ...any) {
	defaultLogger.Error(v...)
}

// Fatal logs and then calls os.Exit(1).
func Fatal(v ...any) {
	defaultLogger.Fatal(v...)
}

func SetLevel(level Level) {
	defaultLogger.SetLevel(level)
}

func SetOutput(w io.Writer) {
	defaultLogger.SetOutput(w)
}
