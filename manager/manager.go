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
	"sync"
	"time"

	liberr "github.com/nabbar/gotorctl/errors"
	"github.com/nabbar/gotorctl/control"
	"github.com/nabbar/gotorctl/logger"
)

// Default debounce/window durations; see DESIGN NOTES §9's open question on
// the NEWNYM window and §4.7's 100ms/300ms debounce figures. Hosts override
// these through Options rather than the library guessing a longer default.
const (
	DefaultAddressDebounce = 100 * time.Millisecond
	DefaultNetworkDebounce = 300 * time.Millisecond
	DefaultNewnymWindow    = 100 * time.Millisecond
)

// Options configures a Manager. Launcher is required; Renderer and Network
// are optional (a nil Renderer sends an empty config payload, a nil Network
// is treated as "always connected").
type Options struct {
	Logger   logger.Logger
	Launcher ProcessLauncher
	Renderer ConfigRenderer
	Network  NetworkObserver

	// OnEvent receives every lifecycle notification the manager publishes
	// (Start, Stop, Restart, StartUpComplete, WAITING_ON_NETWORK, listener
	// address changes). May be nil.
	OnEvent EventFunc

	AddressDebounce time.Duration
	NetworkDebounce time.Duration
	NewnymWindow    time.Duration
}

func (o *Options) setDefaults() {
	if o.AddressDebounce <= 0 {
		o.AddressDebounce = DefaultAddressDebounce
	}
	if o.NetworkDebounce <= 0 {
		o.NetworkDebounce = DefaultNetworkDebounce
	}
	if o.NewnymWindow <= 0 {
		o.NewnymWindow = DefaultNewnymWindow
	}
}

// Manager is C7: it holds at most one control.Connection at a time and
// arbitrates Start/Stop/Restart through the C8 action queue, while deriving
// TorState from the connection's events.
type Manager struct {
	opt Options
	log logger.Logger

	queue *actionQueue

	mu        sync.Mutex
	con       *control.Connection
	state     TorState
	destroyed bool

	pendingAddr map[ListenerKind]string
	addrTimer   *time.Timer

	netUnsubscribe func()
	netTimer       *time.Timer
}

// New builds a Manager from opt. Launcher must be non-nil; Start returns
// ErrorLaunch-wrapped failures otherwise.
func New(opt Options) *Manager {
	opt.setDefaults()

	return &Manager{
		opt:         opt,
		log:         opt.Logger,
		queue:       newActionQueue(),
		state:       newTorState(),
		pendingAddr: make(map[ListenerKind]string),
	}
}

// State returns a snapshot of the manager's current derived tor state.
func (m *Manager) State() TorState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// Connection returns the currently held connection, or nil when tor is Off.
func (m *Manager) Connection() *control.Connection {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.con
}

func (m *Manager) isDestroyed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.destroyed
}

// Destroy tears the manager down: it stops tor if running and rejects every
// subsequent action with ErrorDestroyed.
func (m *Manager) Destroy(ctx context.Context) error {
	m.mu.Lock()
	if m.destroyed {
		m.mu.Unlock()
		return nil
	}
	m.destroyed = true
	m.mu.Unlock()

	t, err := m.queue.enter(ctx, actionStop)
	if err != nil {
		return err
	}
	defer m.queue.leave(t)

	return m.stopLocked(ctx, false)
}

func (m *Manager) notify(kind string, detail interface{}) {
	if m.opt.OnEvent != nil {
		m.opt.OnEvent(kind, detail)
	}
}

func (m *Manager) logInfo(message string, args ...interface{}) {
	if m.log != nil {
		m.log.Info(message, nil, args...)
	}
}

func (m *Manager) logDebug(message string, args ...interface{}) {
	if m.log != nil {
		m.log.Debug(message, nil, args...)
	}
}

func (m *Manager) logWarn(message string, args ...interface{}) {
	if m.log != nil {
		m.log.Warning(message, nil, args...)
	}
}

func (m *Manager) setRun(run RunState) {
	m.mu.Lock()
	m.state.Run = run
	m.mu.Unlock()
}

// Start implements §4.7's Start algorithm.
func (m *Manager) Start(ctx context.Context) error {
	if m.isDestroyed() {
		return liberr.Make(ErrorDestroyed.Errorf(actionStart.String()))
	}

	t, err := m.queue.enter(ctx, actionStart)
	if err != nil {
		return err
	}
	defer m.queue.leave(t)

	return m.startLocked(ctx, false)
}

// Stop implements §4.7's Stop algorithm for a user-initiated stop.
func (m *Manager) Stop(ctx context.Context) error {
	if m.isDestroyed() {
		return liberr.Make(ErrorDestroyed.Errorf(actionStop.String()))
	}

	t, err := m.queue.enter(ctx, actionStop)
	if err != nil {
		return err
	}
	defer m.queue.leave(t)

	return m.stopLocked(ctx, false)
}

// Restart implements §4.7's Restart algorithm: Stop(isRestart=true) followed
// by Start(isRestart=true), aborting with ErrorInterrupted if a user Stop was
// queued while the stop phase ran.
func (m *Manager) Restart(ctx context.Context) error {
	if m.isDestroyed() {
		return liberr.Make(ErrorDestroyed.Errorf(actionRestart.String()))
	}

	t, err := m.queue.enter(ctx, actionRestart)
	if err != nil {
		return err
	}
	defer m.queue.leave(t)

	if err := m.stopLocked(ctx, true); err != nil {
		return err
	}

	if m.queue.preempted(t, actionStop) {
		if m.opt.Launcher != nil {
			_ = m.opt.Launcher.Close()
		}
		return liberr.Make(ErrorInterrupted.Errorf(actionRestart.String(), actionStop.String()))
	}

	return m.startLocked(ctx, true)
}
