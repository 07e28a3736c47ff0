// Copyright 2026 The hkx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// license that can be found in the LICENSE file.

// Package log is the small structured-logging seam the parser logs
// through. It mirrors the shape of the teacher's own logging subpackage
// (a Logger/Helper/Filter split with leveled key-value records) rather than
// calling the standard library's log package directly, so that callers can
// supply their own Logger via Options without the parser caring how log
// lines are ultimately rendered.
package log

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Level is a log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

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

// Logger logs a leveled record as alternating key-value pairs.
type Logger interface {
	Log(level Level, keyvals ...interface{}) error
}

// stdLogger writes "time level k=v k=v ..." lines to an io.Writer.
type stdLogger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewStdLogger returns a Logger that writes plain text lines to w.
func NewStdLogger(w io.Writer) Logger {
	return &stdLogger{w: w}
}

func (l *stdLogger) Log(level Level, keyvals ...interface{}) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.w, "%s %s", time.Now().Format(time.RFC3339), level)
	for i := 0; i+1 < len(keyvals); i += 2 {
		fmt.Fprintf(l.w, " %v=%v", keyvals[i], keyvals[i+1])
	}
	fmt.Fprintln(l.w)
	return nil
}

// filter wraps a Logger and drops records below a minimum level.
type filter struct {
	Logger
	level Level
}

// FilterOption configures a filtering Logger built by NewFilter.
type FilterOption func(*filter)

// FilterLevel sets the minimum level that passes through the filter.
func FilterLevel(level Level) FilterOption {
	return func(f *filter) { f.level = level }
}

// NewFilter returns a Logger that forwards to logger only records at or
// above the configured minimum level.
func NewFilter(logger Logger, opts ...FilterOption) Logger {
	f := &filter{Logger: logger, level: LevelDebug}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *filter) Log(level Level, keyvals ...interface{}) error {
	if level < f.level {
		return nil
	}
	return f.Logger.Log(level, keyvals...)
}

// Helper adds printf-style convenience methods over a Logger.
type Helper struct {
	logger Logger
}

// NewHelper wraps logger with Debugf/Infof/Warnf/Errorf helpers.
func NewHelper(logger Logger) *Helper {
	return &Helper{logger: logger}
}

func (h *Helper) log(level Level, format string, args ...interface{}) {
	if h == nil || h.logger == nil {
		return
	}
	h.logger.Log(level, "msg", fmt.Sprintf(format, args...))
}

func (h *Helper) Debugf(format string, args ...interface{}) { h.log(LevelDebug, format, args...) }
func (h *Helper) Infof(format string, args ...interface{})  { h.log(LevelInfo, format, args...) }
func (h *Helper) Warnf(format string, args ...interface{})  { h.log(LevelWarn, format, args...) }
func (h *Helper) Errorf(format string, args ...interface{}) { h.log(LevelError, format, args...) }

func (h *Helper) Warn(args ...interface{}) {
	if h == nil || h.logger == nil {
		return
	}
	h.logger.Log(LevelWarn, "msg", fmt.Sprint(args...))
}
