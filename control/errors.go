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

package control

import (
	liberr "github.com/nabbar/gotorctl/errors"
)

// Error codes registered in the control package's range (see errors.MinPkgControl).
const (
	// ErrorShutdown is returned when a command is submitted on a connection that
	// is not Ready, or when the connection leaves Ready before a reply arrives.
	ErrorShutdown liberr.CodeError = liberr.MinPkgControl + iota
	// ErrorProtocol is returned when a reply batch carries a non-success status line.
	ErrorProtocol
	// ErrorParse is returned when an expected reply-line shape was not met
	// (e.g. ADD_ONION without ServiceID=).
	ErrorParse
	// ErrorCancelled is returned when the caller's context is cancelled while
	// awaiting a waiter or the write-gate.
	ErrorCancelled
	// ErrorInterceptorRewrite is returned when an interceptor hook returns an
	// error for a command.
	ErrorInterceptorRewrite
	// ErrorInvalidArgument is returned when a command's request-builder arguments
	// fail validation before being encoded onto the wire.
	ErrorInvalidArgument
)

func init() {
	liberr.RegisterIdFctMessage(liberr.MinPkgControl, controlMessage)
}

func controlMessage(code liberr.CodeError) string {
	switch code {
	case ErrorShutdown:
		return "control connection is not ready: %s"
	case ErrorProtocol:
		return "control-protocol command %s failed: %s"
	case ErrorParse:
		return "control-protocol reply for command %s could not be parsed: %s"
	case ErrorCancelled:
		return "control-protocol command %s was cancelled before its reply arrived"
	case ErrorInterceptorRewrite:
		return "interceptor rejected for command %s: %s"
	case ErrorInvalidArgument:
		return "command %s has invalid arguments: %s"
	default:
		return liberr.NullMessage
	}
}
