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

package logger

import (
	"bytes"
	"context"
	"io"
	"os"
	"path"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	libctx "github.com/nabbar/gotorctl/context"
	logfld "github.com/nabbar/gotorctl/logger/fields"
	loglvl "github.com/nabbar/gotorctl/logger/level"
)

const (
	keyLevel = iota
	keyOptions
	keyLogrus
)

var self = path.Base(reflect.TypeOf(lgr{}).PkgPath())

type lgr struct {
	m sync.RWMutex
	x libctx.Config[uint8]
	f logfld.Fields
	c *atomic.Value
}

func newLogger(ctx context.Context) *lgr {
	return &lgr{
		m: sync.RWMutex{},
		x: libctx.New[uint8](ctx),
		f: logfld.New(ctx),
		c: new(atomic.Value),
	}
}

func (o *Options) merge(n *Options) {
	if n == nil {
		return
	}
	if n.Writer != nil {
		o.Writer = n.Writer
	}
	o.DisableColor = n.DisableColor
	o.DisableTimestamp = n.DisableTimestamp
	o.DisableStack = n.DisableStack
}

func defaultFormatter(opt *Options) logrus.Formatter {
	f := logrus.TextFormatter{
		ForceQuote:             true,
		QuoteEmptyFields:       true,
		DisableTimestamp:       true,
		FullTimestamp:          false,
		TimestampFormat:        time.RFC3339,
		DisableLevelTruncation: true,
		PadLevelText:           true,
	}

	if opt != nil {
		f.DisableTimestamp = opt.DisableTimestamp
		if opt.DisableColor {
			f.DisableColors = true
		} else {
			f.ForceColors = true
		}
	}

	return &f
}

func (o *lgr) getLogrus() *logrus.Logger {
	if i, l := o.x.Load(keyLogrus); !l {
		return nil
	} else if v, k := i.(*logrus.Logger); !k {
		return nil
	} else {
		return v
	}
}

func (o *lgr) buildLogrus(opt *Options) *logrus.Logger {
	var out io.Writer = os.Stderr
	if opt != nil && opt.Writer != nil {
		out = opt.Writer
	}

	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(defaultFormatter(opt))
	l.SetLevel(o.GetLevel().Logrus())
	return l
}

func (o *lgr) getStack() uint64 {
	b := make([]byte, 64)
	b = b[:runtime.Stack(b, false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	b = b[:bytes.IndexByte(b, ' ')]

	n, _ := strconv.ParseUint(string(b), 10, 64)
	return n
}

func (o *lgr) getCaller() runtime.Frame {
	programCounters := make([]uintptr, 10, 255)
	n := runtime.Callers(1, programCounters)

	if n > 0 {
		frames := runtime.CallersFrames(programCounters[:n])
		more := true

		for more {
			var frame runtime.Frame
			frame, more = frames.Next()

			if strings.Contains(frame.Function, self) {
				continue
			}

			return frame
		}
	}

	return runtime.Frame{Function: "unknown", File: "unknown", Line: 0}
}

func (o *lgr) SetLevel(lvl loglvl.Level) {
	o.x.Store(keyLevel, lvl)

	if l := o.getLogrus(); l != nil {
		l.SetLevel(lvl.Logrus())
	}
}

func (o *lgr) GetLevel() loglvl.Level {
	if i, l := o.x.Load(keyLevel); !l {
		return loglvl.InfoLevel
	} else if v, k := i.(loglvl.Level); !k {
		return loglvl.InfoLevel
	} else {
		return v
	}
}

func (o *lgr) SetOptions(opt *Options) error {
	o.x.Store(keyOptions, opt)
	o.x.Store(keyLogrus, o.buildLogrus(opt))
	return nil
}

func (o *lgr) GetOptions() *Options {
	if i, l := o.x.Load(keyOptions); !l {
		return &Options{}
	} else if v, k := i.(*Options); !k || v == nil {
		return &Options{}
	} else {
		cp := *v
		return &cp
	}
}

func (o *lgr) SetFields(field logfld.Fields) {
	o.m.Lock()
	defer o.m.Unlock()
	o.f = field
}

func (o *lgr) GetFields() logfld.Fields {
	o.m.RLock()
	defer o.m.RUnlock()
	return o.f
}

func (o *lgr) Clone() (Logger, error) {
	n := newLogger(context.Background())
	n.SetLevel(o.GetLevel())
	n.SetFields(o.GetFields().Clone())
	if err := n.SetOptions(o.GetOptions()); err != nil {
		return nil, err
	}
	return n, nil
}

func (o *lgr) Write(p []byte) (n int, err error) {
	if l := o.getLogrus(); l != nil {
		l.Info(strings.TrimRight(string(p), "\n"))
	}
	return len(p), nil
}

func (o *lgr) Close() error {
	return nil
}
