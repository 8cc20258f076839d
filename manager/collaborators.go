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
	"context"

	"github.com/nabbar/gotorctl/control"
)

// ProcessLauncher starts and stops the tor daemon process itself (§1,
// "deliberately out of scope"). Launch returns an already-connected,
// already-authenticated Connection plus an optional LOADCONF payload the
// manager should apply before taking ownership.
type ProcessLauncher interface {
	// Launch starts tor with the given rendered config and returns a
	// connected, authenticated Connection and an optional config payload
	// to LOADCONF once TAKEOWNERSHIP has succeeded.
	Launch(ctx context.Context, renderedConfig string) (con *control.Connection, loadConf string, err error)

	// Cancel signals the launcher to abandon a running tor job without
	// waiting for its natural exit, used by an in-flight Restart (§4.7,
	// "Restart algorithm").
	Cancel()

	// Close tears the launcher down and releases any resources tied to the
	// tor process it started.
	Close() error
}

// ConfigRenderer turns the manager's desired configuration into the textual
// tor config the ProcessLauncher hands to the tor binary. File-system paths
// and serialization format are entirely its concern (§1, "deliberately out
// of scope").
type ConfigRenderer interface {
	Render() (string, error)
}

// NetworkObserver reports connectivity changes so the manager can reconcile
// tor's DisableNetwork setting (§4.7, "Network state tracking"). A nil
// NetworkObserver is valid: the manager then always assumes connectivity.
type NetworkObserver interface {
	// Connected reports whether outbound network connectivity is currently
	// believed to be available.
	Connected() bool

	// Subscribe registers fn to be invoked whenever connectivity flips; it
	// returns an unsubscribe function.
	Subscribe(fn func(connected bool)) (unsubscribe func())
}

// AddressCodec formats and parses onion-service addresses for callers that
// never want to see tor's raw wire representation (§1, "deliberately out of
// scope" — no cryptographic validation is performed here or anywhere in the core).
type AddressCodec interface {
	Format(raw string) (string, error)
	Parse(formatted string) (string, error)
}

// KeyCodec formats and parses onion-service and client-auth keys for hosts
// that store them in a representation other than tor's raw "<type>:<base64>".
type KeyCodec interface {
	Format(keyType, raw string) (string, error)
	Parse(formatted string) (keyType, raw string, err error)
}
