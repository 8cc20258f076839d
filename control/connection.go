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
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	liberr "github.com/nabbar/gotorctl/errors"
	"github.com/nabbar/gotorctl/logger"
	"github.com/nabbar/gotorctl/wire"
)

// shutdownSleep is the delay §4.5/§4.6 prescribe after a successful HALT or
// SHUTDOWN reply, to let the daemon close its side before the caller moves on.
// Open Question in DESIGN NOTES §9 ("HALT vs SHUTDOWN ordering"): the sleep
// applies after whichever of the two succeeds, and a transport EOF observed
// during the sleep is treated as success, not as a race to be resolved.
const shutdownSleep = 500 * time.Millisecond

// DisconnectFunc is invoked exactly once, when a Connection enters StateClosed,
// with the error that caused the transition (nil for a clean, caller-requested
// Close). It is a one-shot slot: cleared once fired (§3, "Ownership").
type DisconnectFunc func(err error)

// Options configures a Connection.
type Options struct {
	// Logger receives lifecycle transitions, protocol-error debug context and
	// listener panics. A nil Logger disables logging without affecting behavior.
	Logger logger.Logger
}

// Connection is C5: it owns the wire.Codec, runs the reader loop, and gates
// the dispatcher (C3) and event registry (C4) on its lifecycle state.
//
//	Connecting -> Ready -> Closing -> Closed
//
// Closed is terminal and idempotent; every waiter pending at that transition,
// and every one created afterwards, resolves with ErrorShutdown exactly once
// (Testable property 4).
type Connection struct {
	state int32 // atomic State

	codec wire.Codec
	disp  *dispatcher
	ev    *eventRegistry
	log   logger.Logger

	grp *errgroup.Group

	closeOnce sync.Once
	closeErr  error

	onDisconnect atomic.Value // DisconnectFunc
}

// New wraps rwc with the control-protocol codec and starts its reader loop.
// The connection begins in StateConnecting; call Authenticate to move it to
// StateReady.
func New(rwc io.ReadWriteCloser, opt Options) *Connection {
	grp, _ := errgroup.WithContext(context.Background())

	c := &Connection{
		codec: wire.New(rwc),
		log:   opt.Logger,
		grp:   grp,
	}
	atomic.StoreInt32(&c.state, int32(StateConnecting))

	c.disp = newDispatcher(c.codec, c.log, c.liveness)
	c.ev = newEventRegistry(c.log, c.setEvents)

	c.grp.Go(c.readLoop)

	return c
}

// State returns the connection's current lifecycle state.
func (c *Connection) State() State {
	return State(atomic.LoadInt32(&c.state))
}

func (c *Connection) setState(s State) {
	old := State(atomic.SwapInt32(&c.state, int32(s)))
	if old == s {
		return
	}
	if c.log != nil {
		c.log.Info("connection %s -> %s", nil, old.String(), s.String())
	}
}

// liveness is the dispatcher's gate: commands are accepted while the
// connection is still establishing (StateConnecting, to let Authenticate
// submit AUTHENTICATE) or fully Ready; StateClosing/StateClosed reject
// immediately with ErrorShutdown (§4.5, "After entering Closing, new
// execute() calls fail immediately").
func (c *Connection) liveness() error {
	switch c.State() {
	case StateConnecting, StateReady:
		return nil
	default:
		return liberr.Make(ErrorShutdown.Errorf("connection is " + c.State().String()))
	}
}

// OnDisconnect registers the one-shot callback fired when the connection
// enters StateClosed. Registering after the connection is already Closed
// fires fn immediately with the error that closed it.
func (c *Connection) OnDisconnect(fn DisconnectFunc) {
	if c.State() == StateClosed {
		if fn != nil {
			fn(c.closeErr)
		}
		return
	}
	c.onDisconnect.Store(fn)
}

// Authenticate sends AUTHENTICATE with the given credential bytes (hashed
// password, cookie bytes, or empty for NULL auth) and moves the connection to
// StateReady on success.
func (c *Connection) Authenticate(ctx context.Context, secret []byte) error {
	if c.State() != StateConnecting {
		return liberr.Make(ErrorShutdown.Errorf("connection is " + c.State().String()))
	}

	if _, err := c.disp.execute(ctx, encodeAuthenticate(secret)); err != nil {
		return err
	}

	c.setState(StateReady)
	return nil
}

// Execute submits cmd and returns its reply batch, or a typed error
// (ErrorShutdown, ErrorProtocol, ErrorCancelled) per §4.3.
func (c *Connection) Execute(ctx context.Context, cmd Command) (*wire.Batch, error) {
	return c.disp.execute(ctx, cmd)
}

// Intercept appends hook to the command interceptor chain (C10).
func (c *Connection) Intercept(hook Interceptor) {
	c.disp.intercept.Append(hook)
}

// Subscribe registers fn for kind and reconciles the SETEVENTS union.
func (c *Connection) Subscribe(kind string, fn Listener) (Handle, error) {
	return c.ev.Subscribe(kind, fn)
}

// Unsubscribe removes a single subscription.
func (c *Connection) Unsubscribe(h Handle) error {
	return c.ev.Unsubscribe(h)
}

// UnsubscribeAll removes every listener for kind.
func (c *Connection) UnsubscribeAll(kind string) error {
	return c.ev.UnsubscribeAll(kind)
}

func (c *Connection) setEvents(kinds []string) error {
	if c.State() != StateReady {
		return nil
	}
	_, err := c.disp.execute(context.Background(), encodeSetEvents(false, kinds))
	return err
}

// Signal sends SIGNAL <name> and, for HALT/SHUTDOWN, sleeps shutdownSleep
// after a successful reply so the daemon has time to close its side (§4.6).
func (c *Connection) Signal(ctx context.Context, name string) (*wire.Batch, error) {
	batch, err := c.disp.execute(ctx, encodeSignal(name))
	if err == nil && (name == "HALT" || name == "SHUTDOWN") {
		time.Sleep(shutdownSleep)
	}
	return batch, err
}

// GracefulShutdown implements §4.5's shutdown path: SIGNAL SHUTDOWN, falling
// back to SIGNAL HALT if SHUTDOWN is rejected, falling back to a forced
// transport close if both fail. An already-shut-down controller, or a
// connection that is no longer Ready, is treated as success (idempotent).
func (c *Connection) GracefulShutdown(ctx context.Context) error {
	if c.State() != StateReady {
		return nil
	}

	if _, err := c.Signal(ctx, "SHUTDOWN"); err == nil {
		return nil
	} else if isAlreadyShutdown(err) || c.State() != StateReady {
		return nil
	}

	if _, err := c.Signal(ctx, "HALT"); err == nil {
		return nil
	} else if isAlreadyShutdown(err) || c.State() != StateReady {
		return nil
	}

	if c.log != nil {
		c.log.Warning("graceful shutdown failed, forcing transport close", nil)
	}
	return c.Close()
}

func isAlreadyShutdown(err error) bool {
	if err == nil {
		return false
	}
	return liberr.ContainsString(err, "already shutdown") || liberr.IsCode(err, ErrorShutdown)
}

// Close tears the connection down: the transport is closed, which causes the
// reader's next read to observe EOF and drive the Closed transition. Calling
// Close on an already-Closed connection is a no-op (Testable property 6).
func (c *Connection) Close() error {
	if c.State() == StateClosed {
		return nil
	}
	c.setState(StateClosing)
	err := c.codec.Close()
	c.finish(err)
	return nil
}

// Wait blocks until the reader loop has returned. Events are dispatched on the
// reader goroutine itself, so there are no other supervised goroutines; the
// reader loop always returns nil, so Wait returns nil. Panics are not recovered
// here (listener panics are recovered inside the event registry).
func (c *Connection) Wait() error {
	return c.grp.Wait()
}

// readLoop is C5's supervised reader task: it owns the only ReadBatch call on
// the codec, routes each assembled batch through C2's classification, and
// drives the Closed transition on EOF or any transport/parse error.
func (c *Connection) readLoop() error {
	for {
		batch, err := c.codec.ReadBatch()
		if err != nil {
			c.finish(err)
			return nil
		}

		if batch.IsEvent() {
			// Dispatched synchronously, in the reader's own goroutine: events
			// must be delivered to listeners in the order they appear on the
			// wire (§5), which a per-batch goroutine cannot guarantee. A
			// listener panic is still isolated inside Dispatch and never
			// reaches here.
			c.ev.Dispatch(batch)
			continue
		}

		if !c.disp.deliver(batch) {
			if c.log != nil {
				c.log.Warning("reply batch %s arrived with no waiter", nil, batch.Status)
			}
			c.finish(liberr.Make(ErrorProtocol.Errorf("<none>", "unsolicited reply "+batch.Status)))
			return nil
		}
	}
}

// finish drives the StateClosed transition exactly once: it fails every
// pending waiter with ErrorShutdown, evicts the event registry, closes the
// transport if not already closed, and fires the disconnect callback.
func (c *Connection) finish(cause error) {
	c.closeOnce.Do(func() {
		c.setState(StateClosed)
		c.closeErr = cause

		shutdownErr := liberr.Make(ErrorShutdown.Errorf(shutdownCause(cause)))
		c.disp.shutdown(shutdownErr)
		c.ev.Clear()

		_ = c.codec.Close()

		if fn, ok := c.onDisconnect.Load().(DisconnectFunc); ok && fn != nil {
			c.onDisconnect.Store(DisconnectFunc(nil))
			fn(cause)
		}
	})
}

func shutdownCause(cause error) string {
	if cause == nil {
		return "connection closed"
	}
	return cause.Error()
}
