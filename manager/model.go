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

// RunState is the coarse lifecycle phase of the managed tor process (§3,
// "Tor state (derived, held by C7)").
type RunState uint8

const (
	StateOff RunState = iota
	StateStarting
	StateOn
	StateStopping
)

func (s RunState) String() string {
	switch s {
	case StateOff:
		return "Off"
	case StateStarting:
		return "Starting"
	case StateOn:
		return "On"
	case StateStopping:
		return "Stopping"
	default:
		return "Unknown"
	}
}

// ListenerKind identifies one of the four listener families the manager
// tracks addresses for.
type ListenerKind string

const (
	ListenerDNS         ListenerKind = "dns"
	ListenerHTTP        ListenerKind = "http"
	ListenerSOCKS       ListenerKind = "socks"
	ListenerTransparent ListenerKind = "transparent"
)

// TorState is the manager's derived, read-only snapshot of the tor process:
// run phase, bootstrap percent (monotonically non-decreasing while On),
// network-enabled flag and currently open listener addresses.
type TorState struct {
	Run               RunState
	Bootstrap         int
	NetworkEnabled    bool
	ListenerAddresses map[ListenerKind]string
}

func newTorState() TorState {
	return TorState{
		Run:               StateOff,
		ListenerAddresses: make(map[ListenerKind]string),
	}
}

func (s TorState) clone() TorState {
	out := s
	out.ListenerAddresses = make(map[ListenerKind]string, len(s.ListenerAddresses))
	for k, v := range s.ListenerAddresses {
		out.ListenerAddresses[k] = v
	}
	return out
}

// actionKind identifies the four action families C8's queue arbitrates
// between (§4.8).
type actionKind uint8

const (
	actionStart actionKind = iota
	actionStop
	actionRestart
	actionController
)

func (a actionKind) String() string {
	switch a {
	case actionStart:
		return "Start"
	case actionStop:
		return "Stop"
	case actionRestart:
		return "Restart"
	case actionController:
		return "Controller"
	default:
		return "Unknown"
	}
}

// EventFunc is a callback the manager invokes for a lifecycle notification
// (Start/Stop/Restart begun, StartUpComplete, WAITING_ON_NETWORK, listener
// address changes). Kind identifies the notification, Detail carries any
// associated value (a TorState, a bootstrap percent, the listener address map).
type EventFunc func(kind string, detail interface{})

// Notification kind tags published through EventFunc.
const (
	NotifyStart            = "Start"
	NotifyStop             = "Stop"
	NotifyRestart          = "Restart"
	NotifyStartUpComplete  = "StartUpComplete"
	NotifyWaitingOnNetwork = "WAITING_ON_NETWORK"
	NotifyListenerAddress  = "ListenerAddress"
)
