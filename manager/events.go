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
	"strconv"
	"strings"
	"time"

	"github.com/nabbar/gotorctl/control"
)

// subscribeEvents wires the manager as a listener on con for the notice-log
// and config-change events §4.7's bootstrap, network and listener-address
// tracking are derived from.
func (m *Manager) subscribeEvents(con *control.Connection) {
	_, _ = con.Subscribe("NOTICE", m.onNotice)
	_, _ = con.Subscribe("CONF_CHANGED", m.onConfChanged)
}

// onDisconnect clears the held connection and tears down the launcher, but
// only if the disconnecting handle is still the one the manager holds: a
// Restart already cleared it before issuing the shutdown signal (§4.7, "Stop
// algorithm").
func (m *Manager) onDisconnect(con *control.Connection) control.DisconnectFunc {
	return func(err error) {
		m.mu.Lock()
		held := m.con == con
		unsub := m.netUnsubscribe
		if held {
			m.con = nil
			m.netUnsubscribe = nil
			m.state.Run = StateOff
			m.state.NetworkEnabled = false
			m.state.ListenerAddresses = make(map[ListenerKind]string)
		}
		m.mu.Unlock()

		if held && unsub != nil {
			unsub()
		}
		if held && m.opt.Launcher != nil {
			_ = m.opt.Launcher.Close()
		}
	}
}

// onNotice implements the "Bootstrap tracking" and "Listener-address
// tracking" rules of §4.7.
func (m *Manager) onNotice(ev control.Event) {
	for _, line := range ev.Lines {
		switch {
		case strings.HasPrefix(line, "Bootstrapped "):
			m.onBootstrapLine(line)
		case strings.HasPrefix(line, "Opened "):
			m.onListenerLine(line, true)
		case strings.HasPrefix(line, "Closing no-longer-configured "):
			m.onListenerLine(line, false)
		}
	}
}

func (m *Manager) onBootstrapLine(line string) {
	rest := strings.TrimPrefix(line, "Bootstrapped ")
	pct, _, _ := strings.Cut(rest, " ")
	pct = strings.TrimSuffix(pct, "%")

	n, err := strconv.Atoi(pct)
	if err != nil {
		return
	}

	m.mu.Lock()
	if n < m.state.Bootstrap {
		n = m.state.Bootstrap
	}
	m.state.Run = StateOn
	m.state.Bootstrap = n
	networked := m.state.NetworkEnabled
	m.mu.Unlock()

	m.logDebug("bootstrap at %d%%", n)

	if n == 100 && networked {
		m.notify(NotifyStartUpComplete, n)
	}
}

// onListenerLine parses:
//
//	Opened <kind> listener connection (ready) on <addr>
//	Closing no-longer-configured <kind> listener on <addr>
//
// A socks listener whose address begins with '/' is a unix socket and is
// tracked as a single coalesced slot like every other kind.
func (m *Manager) onListenerLine(line string, opened bool) {
	fields := strings.Fields(line)

	var kindStr, addr string
	if opened {
		// "Opened <kind> listener connection (ready) on <addr>"
		if len(fields) < 7 {
			return
		}
		kindStr = fields[1]
		addr = fields[len(fields)-1]
	} else {
		// "Closing no-longer-configured <kind> listener on <addr>"
		if len(fields) < 6 {
			return
		}
		kindStr = fields[2]
		addr = fields[len(fields)-1]
	}

	kind := ListenerKind(strings.ToLower(kindStr))

	m.mu.Lock()
	if opened {
		m.pendingAddr[kind] = addr
	} else {
		m.pendingAddr[kind] = ""
	}
	m.scheduleAddressPublishLocked()
	m.mu.Unlock()
}

// scheduleAddressPublishLocked (re)starts the 100ms address-publication
// debounce timer so a burst of listener open/close lines collapses to one
// observable update. Caller must hold m.mu.
func (m *Manager) scheduleAddressPublishLocked() {
	if m.addrTimer != nil {
		m.addrTimer.Stop()
	}
	m.addrTimer = time.AfterFunc(m.opt.AddressDebounce, m.publishAddresses)
}

func (m *Manager) publishAddresses() {
	m.mu.Lock()
	for k, v := range m.pendingAddr {
		if v == "" {
			delete(m.state.ListenerAddresses, k)
		} else {
			m.state.ListenerAddresses[k] = v
		}
	}
	m.pendingAddr = make(map[ListenerKind]string)
	snapshot := m.state.clone()
	m.mu.Unlock()

	m.logDebug("listener addresses updated")
	m.notify(NotifyListenerAddress, snapshot.ListenerAddresses)
}

// onConfChanged implements the first half of "Network state tracking": a
// CONF_CHANGED payload beginning with DisableNetwork toggles the
// network-enabled flag directly, independent of any NetworkObserver.
func (m *Manager) onConfChanged(ev control.Event) {
	for _, line := range ev.Lines {
		if !strings.HasPrefix(line, "DisableNetwork") {
			continue
		}
		_, v, _ := strings.Cut(line, "=")
		enabled := strings.TrimSpace(v) != "1"

		m.mu.Lock()
		m.state.NetworkEnabled = enabled
		m.mu.Unlock()

		m.logDebug("network enabled=%t (CONF_CHANGED)", enabled)
	}
}

// subscribeNetworkObserver wires the second half of "Network state
// tracking": connectivity changes reported by opt.Network are debounced by
// NetworkDebounce and then pushed to tor as SETCONF/RESETCONF DisableNetwork.
func (m *Manager) subscribeNetworkObserver(con *control.Connection) {
	if m.opt.Network == nil {
		return
	}

	m.netUnsubscribe = m.opt.Network.Subscribe(func(connected bool) {
		m.mu.Lock()
		if m.netTimer != nil {
			m.netTimer.Stop()
		}
		m.netTimer = time.AfterFunc(m.opt.NetworkDebounce, func() {
			m.applyNetworkChange(con, connected)
		})
		m.mu.Unlock()
	})
}

func (m *Manager) applyNetworkChange(con *control.Connection, connected bool) {
	var err error
	if connected {
		err = con.ResetConf(context.Background(), control.KeyValue{Key: "DisableNetwork"})
	} else {
		err = con.SetConf(context.Background(), control.KeyValue{Key: "DisableNetwork", Value: ptr("1")})
	}

	if err != nil {
		m.logWarn("failed to apply debounced network change: %s", err.Error())
		return
	}

	m.mu.Lock()
	m.state.NetworkEnabled = connected
	m.mu.Unlock()
}
