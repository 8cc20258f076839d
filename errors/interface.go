/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error extends the standard error with a numeric code, a parent chain and
// substring search, and stays compatible with errors.Is/errors.As via Unwrap.
type Error interface {
	error

	// IsCode reports whether this error's own code equals code; parents aren't checked.
	IsCode(code CodeError) bool
	// ContainsString reports whether s appears in this error's message or any parent's.
	ContainsString(s string) bool
	// Code returns the numeric code of this error.
	Code() uint16

	// Add appends each non-nil parent to this error's parent chain.
	Add(parent ...error)
	// Unwrap exposes the parent chain to errors.Is/errors.As.
	Unwrap() []error
}

// Is reports whether e can be treated as an Error (see errors.As).
func Is(e error) bool {
	var err Error
	return errors.As(e, &err)
}

// Get returns e as an Error if it is one, nil otherwise.
func Get(e error) Error {
	var err Error
	if errors.As(e, &err) {
		return err
	}
	return nil
}

// ContainsString reports whether e's message, or any parent's, contains s.
// e need not be an Error: a plain error falls back to a substring match on
// its own Error() text.
func ContainsString(e error, s string) bool {
	if e == nil {
		return false
	}
	if err := Get(e); err != nil {
		return err.ContainsString(s)
	}
	return strings.Contains(e.Error(), s)
}

// IsCode reports whether e is an Error whose own code equals code.
func IsCode(e error, code CodeError) bool {
	if err := Get(e); err != nil {
		return err.IsCode(code)
	}
	return false
}

// Make returns e as an Error, wrapping it with code 0 if it is not already one.
// Make(nil) returns nil.
func Make(e error) Error {
	if e == nil {
		return nil
	}
	if err := Get(e); err != nil {
		return err
	}
	return &ers{c: 0, e: e.Error()}
}

// New builds an Error with the given code, message and parent errors.
func New(code uint16, message string, parent ...error) Error {
	e := &ers{c: code, e: message}
	e.Add(parent...)
	return e
}

// Newf builds an Error with the given code and a message formatted via fmt.Sprintf.
func Newf(code uint16, pattern string, args ...interface{}) Error {
	return New(code, fmt.Sprintf(pattern, args...))
}
