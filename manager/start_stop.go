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

	liberr "github.com/nabbar/gotorctl/errors"
	"github.com/nabbar/gotorctl/control"
)

func ptr(s string) *string { return &s }

// startLocked runs the body of §4.7's Start algorithm. The caller must hold
// the action queue's ticket for actionStart (directly, or as Restart's
// second phase).
func (m *Manager) startLocked(ctx context.Context, isRestart bool) error {
	m.mu.Lock()
	if m.con != nil && m.con.State() == control.StateReady && m.state.Run == StateOn {
		m.mu.Unlock()
		return nil
	}
	m.state.Run = StateStarting
	m.state.NetworkEnabled = false
	m.mu.Unlock()

	m.notify(NotifyStart, m.State())
	m.logInfo("manager starting tor (restart=%t)", isRestart)

	var rendered string
	if m.opt.Renderer != nil {
		r, err := m.opt.Renderer.Render()
		if err != nil {
			m.setRun(StateOff)
			return liberr.Make(ErrorLaunch.Errorf(err.Error()))
		}
		rendered = r
	}

	if m.opt.Launcher == nil {
		m.setRun(StateOff)
		return liberr.Make(ErrorLaunch.Errorf("no ProcessLauncher configured"))
	}

	con, loadConf, err := m.opt.Launcher.Launch(ctx, rendered)
	if err != nil {
		m.setRun(StateOff)
		return liberr.Make(ErrorLaunch.Errorf(err.Error()))
	}

	con.OnDisconnect(m.onDisconnect(con))

	if err := con.TakeOwnership(ctx); err != nil {
		_ = con.Close()
		m.setRun(StateOff)
		return err
	}

	if loadConf != "" {
		if err := con.LoadConf(ctx, loadConf); err != nil {
			_ = con.Close()
			m.setRun(StateOff)
			return err
		}
	}

	// SETEVENTS follows TAKEOWNERSHIP/LOADCONF (§4.7 Start algorithm, steps
	// 6-8): subscribing any earlier would reconcile the event set on a
	// connection that hasn't taken ownership of the daemon yet.
	m.subscribeEvents(con)

	connected := m.opt.Network == nil || m.opt.Network.Connected()
	if connected {
		if err := con.ResetConf(ctx, control.KeyValue{Key: "DisableNetwork"}, control.KeyValue{Key: "OwningControllerProcess"}); err != nil {
			_ = con.Close()
			m.setRun(StateOff)
			return err
		}
	} else {
		if err := con.ResetConf(ctx, control.KeyValue{Key: "OwningControllerProcess"}); err != nil {
			_ = con.Close()
			m.setRun(StateOff)
			return err
		}
		m.notify(NotifyWaitingOnNetwork, nil)
	}

	m.subscribeNetworkObserver(con)

	m.mu.Lock()
	m.con = con
	m.state.Run = StateOn
	m.state.Bootstrap = 0
	m.state.NetworkEnabled = connected
	m.mu.Unlock()

	return nil
}

// stopLocked runs the body of §4.7's Stop algorithm. The caller must hold
// the action queue's ticket for actionStop (directly, or as Restart's first
// phase).
func (m *Manager) stopLocked(ctx context.Context, isRestart bool) error {
	m.mu.Lock()
	con := m.con
	networked := m.state.NetworkEnabled
	m.state.Run = StateStopping
	if isRestart {
		// Clear the held connection now so the disconnect callback fired by
		// the signal below does not also close the launcher out from under
		// the pending Start phase.
		m.con = nil
	}
	m.mu.Unlock()

	if isRestart {
		m.notify(NotifyRestart, m.State())
	} else {
		m.notify(NotifyStop, m.State())
	}
	m.logInfo("manager stopping tor (restart=%t)", isRestart)

	if con == nil {
		m.setRun(StateOff)
		return nil
	}

	if networked {
		_ = con.SetConf(ctx, control.KeyValue{Key: "DisableNetwork", Value: ptr("1")})
	}

	shutdownOK := m.signalDown(ctx, con, "SHUTDOWN")
	if !shutdownOK {
		shutdownOK = m.signalDown(ctx, con, "HALT")
		if !shutdownOK {
			m.logWarn("manager forcing transport close after SHUTDOWN and HALT both failed")
			_ = con.Close()
		}
	}

	if !isRestart {
		if m.opt.Launcher != nil {
			_ = m.opt.Launcher.Close()
		}
	} else if m.opt.Launcher != nil {
		m.opt.Launcher.Cancel()
	}

	m.setRun(StateOff)
	return nil
}

// signalDown sends SIGNAL name and reports whether it should be treated as a
// successful shutdown step: an explicit success, an already-shutdown
// controller, or a connection that left Ready while the signal was in
// flight are all treated as success (§4.7, §7 "idempotent").
func (m *Manager) signalDown(ctx context.Context, con *control.Connection, name string) bool {
	_, err := con.Signal(ctx, name)
	if err == nil {
		return true
	}
	return liberr.ContainsString(err, "already shutdown") ||
		liberr.IsCode(err, control.ErrorShutdown) ||
		con.State() != control.StateReady
}
