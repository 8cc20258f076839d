/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package logger provides the structured logging facade used across the control
// client, the connection manager and the command dispatcher.
//
// It wraps logrus with the entry/fields/level sub-packages kept from the ambient
// stack: every log line carries a level, an optional call site and a set of
// structured fields, and can be checked or routed through a debug sink the way
// the manager routes protocol-level diagnostics (async replies that could not
// be matched to a waiter, interceptor errors, reconnect attempts).
package logger

import (
	"context"
	"io"

	logent "github.com/nabbar/gotorctl/logger/entry"
	logfld "github.com/nabbar/gotorctl/logger/fields"
	loglvl "github.com/nabbar/gotorctl/logger/level"
)

// FuncLog is a function type that returns a Logger instance.
// Used for dependency injection and lazy initialization of loggers.
type FuncLog func() Logger

// Options configures the logger output.
//
// Unlike the teacher's file/syslog-backed Options, this is a single io.Writer
// sink: the control client never needs log rotation or syslog forwarding, it
// only needs a predictable, structured stream a caller can redirect.
type Options struct {
	// Writer is the destination of log entries. Defaults to os.Stderr.
	Writer io.Writer

	// DisableColor disables ANSI colors in the text formatter.
	DisableColor bool

	// DisableTimestamp omits the timestamp field (useful for golden-file tests).
	DisableTimestamp bool

	// DisableStack omits the caller, file and line fields; the goroutine id is still set.
	DisableStack bool
}

// Logger is the main interface for structured logging operations.
// It extends io.WriteCloser to allow using the logger as a standard Go writer,
// notably as the sink for anything that only knows how to Write(p []byte).
type Logger interface {
	io.WriteCloser

	// SetLevel changes the minimal level of log message accepted.
	SetLevel(lvl loglvl.Level)

	// GetLevel returns the minimal level of log message accepted.
	GetLevel() loglvl.Level

	// SetOptions updates the output options of the logger.
	SetOptions(opt *Options) error

	// GetOptions returns a copy of the current output options.
	GetOptions() *Options

	// SetFields sets the default fields merged into every entry.
	SetFields(field logfld.Fields)

	// GetFields returns the default fields merged into every entry.
	GetFields() logfld.Fields

	// Clone duplicates the logger, keeping level, fields and options.
	Clone() (Logger, error)

	// Debug adds an entry at DebugLevel.
	Debug(message string, data interface{}, args ...interface{})

	// Info adds an entry at InfoLevel.
	Info(message string, data interface{}, args ...interface{})

	// Warning adds an entry at WarnLevel.
	Warning(message string, data interface{}, args ...interface{})

	// Error adds an entry at ErrorLevel.
	Error(message string, data interface{}, args ...interface{})

	// Fatal adds an entry at FatalLevel then terminates the process.
	Fatal(message string, data interface{}, args ...interface{})

	// Panic adds an entry at PanicLevel then panics.
	Panic(message string, data interface{}, args ...interface{})

	// LogDetails adds a fully specified entry to the logger.
	LogDetails(lvl loglvl.Level, message string, data interface{}, err []error, fields logfld.Fields, args ...interface{})

	// CheckError logs err at lvlKO if non-nil, otherwise at lvlOK (unless NilLevel). Returns true if err was non-nil.
	CheckError(lvlKO, lvlOK loglvl.Level, message string, err ...error) bool

	// Entry returns an entry builder at the given level.
	Entry(lvl loglvl.Level, message string, args ...interface{}) logent.Entry
}

// New returns a new Logger instance with the given context, defaulting to InfoLevel
// and writing to os.Stderr.
func New(ctx context.Context) Logger {
	l := newLogger(ctx)
	l.SetLevel(loglvl.InfoLevel)
	_ = l.SetOptions(nil)
	return l
}

// NewFrom creates a new Logger, optionally cloning level/fields/options from other.
//
// other entries are inspected in order; the first one that is a Logger created by this
// package (directly or as a FuncLog result) is used as the base to copy level, fields
// and options from.
func NewFrom(ctx context.Context, opt *Options, other ...any) (Logger, error) {
	var base *lgr

	for _, i := range other {
		if i == nil {
			continue
		}

		var h Logger

		if f, k := i.(FuncLog); k && f != nil {
			h = f()
		} else if g, c := i.(Logger); c && g != nil {
			h = g
		}

		if h == nil {
			continue
		}

		if g, k := h.(*lgr); k {
			base = g
			break
		}
	}

	n := newLogger(ctx)
	n.SetLevel(loglvl.InfoLevel)

	if base != nil {
		n.SetLevel(base.GetLevel())
		n.SetFields(base.GetFields())
	}

	var e error
	if opt != nil {
		if base != nil {
			if ptr := base.GetOptions(); ptr != nil {
				merged := *ptr
				merged.merge(opt)
				*opt = merged
			}
		}
		e = n.SetOptions(opt)
	}

	return n, e
}
