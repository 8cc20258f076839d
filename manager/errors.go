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

package manager

import (
	liberr "github.com/nabbar/gotorctl/errors"
)

// Error codes registered in the manager package's range (see errors.MinPkgManager).
const (
	// ErrorCancelled is returned when a caller's context is cancelled while
	// awaiting the action-queue mutex (§4.8).
	ErrorCancelled liberr.CodeError = liberr.MinPkgManager + iota
	// ErrorInterrupted is returned when a competing action (a user Stop
	// arriving while a Restart is in flight) pre-empts the current one.
	ErrorInterrupted
	// ErrorDestroyed is returned when an operation is requested on a manager
	// that has already been torn down.
	ErrorDestroyed
	// ErrorLaunch is returned when the ProcessLauncher fails to start tor.
	ErrorLaunch
)

func init() {
	liberr.RegisterIdFctMessage(liberr.MinPkgManager, managerMessage)
}

func managerMessage(code liberr.CodeError) string {
	switch code {
	case ErrorCancelled:
		return "manager action %s was cancelled before it reached the front of the queue"
	case ErrorInterrupted:
		return "manager action %s was pre-empted by %s"
	case ErrorDestroyed:
		return "manager has been destroyed, %s is no longer available"
	case ErrorLaunch:
		return "process launcher failed to start tor: %s"
	default:
		return liberr.NullMessage
	}
}
