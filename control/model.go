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

// State is the lifecycle state of a Connection.
type State uint8

const (
	// StateConnecting is the state right after the transport is wrapped, before
	// AUTHENTICATE has completed.
	StateConnecting State = iota
	// StateReady is the state in which Execute accepts new commands.
	StateReady
	// StateClosing is entered on an explicit Close or a signalled shutdown;
	// Execute fails immediately with ErrorShutdown in this state.
	StateClosing
	// StateClosed is terminal: the reader observed EOF or a transport error, or
	// Close completed. It is idempotent and is the only state a connection can
	// be in twice over its lifetime (once entered, it never leaves it).
	StateClosed
)

// String renders the state for logging.
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "Connecting"
	case StateReady:
		return "Ready"
	case StateClosing:
		return "Closing"
	case StateClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// Kind identifies a control-protocol command, independent of its encoded bytes.
// It is the tag C10's interceptor chain matches hooks on, and the blacklist
// that forbids interceptor rewrites of ADD_ONION/DEL_ONION.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindAuthenticate
	KindGetConf
	KindSetConf
	KindResetConf
	KindLoadConf
	KindSaveConf
	KindGetInfo
	KindSetEvents
	KindSignal
	KindAddOnion
	KindDelOnion
	KindOnionClientAuthAdd
	KindOnionClientAuthRemove
	KindOnionClientAuthView
	KindMapAddress
	KindHSFetch
	KindTakeOwnership
	KindDropOwnership
	KindDropGuards
)

// String renders the command kind as the keyword tor expects on the wire.
func (k Kind) String() string {
	switch k {
	case KindAuthenticate:
		return "AUTHENTICATE"
	case KindGetConf:
		return "GETCONF"
	case KindSetConf:
		return "SETCONF"
	case KindResetConf:
		return "RESETCONF"
	case KindLoadConf:
		return "LOADCONF"
	case KindSaveConf:
		return "SAVECONF"
	case KindGetInfo:
		return "GETINFO"
	case KindSetEvents:
		return "SETEVENTS"
	case KindSignal:
		return "SIGNAL"
	case KindAddOnion:
		return "ADD_ONION"
	case KindDelOnion:
		return "DEL_ONION"
	case KindOnionClientAuthAdd:
		return "ONION_CLIENT_AUTH_ADD"
	case KindOnionClientAuthRemove:
		return "ONION_CLIENT_AUTH_REMOVE"
	case KindOnionClientAuthView:
		return "ONION_CLIENT_AUTH_VIEW"
	case KindMapAddress:
		return "MAPADDRESS"
	case KindHSFetch:
		return "HSFETCH"
	case KindTakeOwnership:
		return "TAKEOWNERSHIP"
	case KindDropOwnership:
		return "DROPOWNERSHIP"
	case KindDropGuards:
		return "DROPGUARDS"
	default:
		return "UNKNOWN"
	}
}

// Command is an opaque, already-encoded control-protocol request plus the kind
// tag used for interceptor matching, blacklisting and logging. Wire is the
// exact byte sequence Execute hands to the Codec: CRLF-terminated for
// single-line commands, or a '+'-prefixed, '.'-terminated data block for
// multi-line ones (LOADCONF).
type Command struct {
	Kind Kind
	Wire []byte
}

// blacklistedKinds lists the commands C10's interceptor chain may never
// replace with a command of a different kind or body: user-intent critical
// hidden-service lifecycle operations.
var blacklistedKinds = map[Kind]bool{
	KindAddOnion: true,
	KindDelOnion: true,
}

// IsInterceptBlacklisted reports whether k may never be rewritten by an
// interceptor hook.
func IsInterceptBlacklisted(k Kind) bool {
	return blacklistedKinds[k]
}
