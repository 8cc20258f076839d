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
	"fmt"
	"os"
	"time"

	logent "github.com/nabbar/gotorctl/logger/entry"
	logfld "github.com/nabbar/gotorctl/logger/fields"
	loglvl "github.com/nabbar/gotorctl/logger/level"
)

func (o *lgr) newEntry(lvl loglvl.Level, message string, args ...interface{}) logent.Entry {
	if len(args) > 0 {
		message = fmt.Sprintf(message, args...)
	}

	e := logent.New(lvl)
	e = e.SetLogger(o.getLogrus)
	e = e.SetLevel(lvl)
	e = e.SetEntryContext(time.Now(), o.getStack(), o.callerName(), o.callerFile(), o.callerLine(), message)
	e = e.FieldMerge(o.GetFields())

	return e
}

func (o *lgr) callerName() string {
	if o.GetOptions().DisableStack {
		return ""
	}
	return o.getCaller().Function
}

func (o *lgr) callerFile() string {
	if o.GetOptions().DisableStack {
		return ""
	}
	return o.getCaller().File
}

func (o *lgr) callerLine() uint64 {
	if o.GetOptions().DisableStack {
		return 0
	}
	return uint64(o.getCaller().Line)
}

func (o *lgr) Entry(lvl loglvl.Level, message string, args ...interface{}) logent.Entry {
	return o.newEntry(lvl, message, args...)
}

func (o *lgr) LogDetails(lvl loglvl.Level, message string, data interface{}, err []error, fields logfld.Fields, args ...interface{}) {
	e := o.newEntry(lvl, message, args...)
	e = e.DataSet(data)
	e = e.ErrorSet(err)
	if fields != nil {
		e = e.FieldMerge(fields)
	}
	e.Log()
}

func (o *lgr) CheckError(lvlKO, lvlOK loglvl.Level, message string, err ...error) bool {
	e := o.newEntry(lvlKO, message)
	e = e.ErrorAdd(true, err...)
	return e.Check(lvlOK)
}

func (o *lgr) Debug(message string, data interface{}, args ...interface{}) {
	o.LogDetails(loglvl.DebugLevel, message, data, nil, nil, args...)
}

func (o *lgr) Info(message string, data interface{}, args ...interface{}) {
	o.LogDetails(loglvl.InfoLevel, message, data, nil, nil, args...)
}

func (o *lgr) Warning(message string, data interface{}, args ...interface{}) {
	o.LogDetails(loglvl.WarnLevel, message, data, nil, nil, args...)
}

func (o *lgr) Error(message string, data interface{}, args ...interface{}) {
	o.LogDetails(loglvl.ErrorLevel, message, data, nil, nil, args...)
}

func (o *lgr) Fatal(message string, data interface{}, args ...interface{}) {
	o.LogDetails(loglvl.FatalLevel, message, data, nil, nil, args...)
	os.Exit(1)
}

func (o *lgr) Panic(message string, data interface{}, args ...interface{}) {
	o.LogDetails(loglvl.PanicLevel, message, data, nil, nil, args...)
	panic(message)
}
