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
	"sync"

	liberr "github.com/nabbar/gotorctl/errors"
	"github.com/nabbar/gotorctl/logger"
	"github.com/nabbar/gotorctl/wire"
)

// livenessFunc reports ErrorShutdown if the connection is not currently able
// to accept a new command exchange.
type livenessFunc func() error

// dispatcher is C3: it serialises outbound commands under a single write-gate,
// parks each caller behind a waiter and maps non-success replies to a typed
// ErrorProtocol. At most one command is ever in flight on the wire; additional
// callers queue for the write-gate in arrival order, which is also the order
// their waiters are enqueued in, which is the order the reader resolves them
// in (Ordering guarantees, §4.3; Testable properties 1-2).
type dispatcher struct {
	writeGate sync.Mutex
	codec     wire.Codec
	waiters   *waiterQueue
	intercept *interceptorChain
	log       logger.Logger
	live      livenessFunc
}

func newDispatcher(codec wire.Codec, log logger.Logger, live livenessFunc) *dispatcher {
	return &dispatcher{
		codec:     codec,
		waiters:   newWaiterQueue(),
		intercept: newInterceptorChain(),
		log:       log,
		live:      live,
	}
}

// execute writes cmd to the wire and blocks until its reply batch arrives, the
// connection shuts down, or ctx is cancelled. On success the full batch is
// returned even if it failed (ErrorProtocol carries it as the caller may still
// want to inspect the offending line); on ErrorShutdown/ErrorCancelled the
// returned batch is nil.
func (d *dispatcher) execute(ctx context.Context, cmd Command) (*wire.Batch, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if err := d.live(); err != nil {
		return nil, err
	}

	cmd, err := d.intercept.Apply(cmd)
	if err != nil {
		return nil, err
	}

	w, err := d.submit(cmd)
	if err != nil {
		return nil, err
	}

	select {
	case res := <-w.slot:
		return d.finish(cmd, res)
	case <-ctx.Done():
		// w stays queued, marked abandoned: tor still replies to every
		// command in write order, and that reply must pop w (and be
		// discarded) rather than be matched to the next caller.
		cancelErr := ErrorCancelled.Errorf(cmd.Kind.String())
		if w.resolve(waiterResult{err: cancelErr}) {
			return nil, cancelErr
		}
		// Lost the race: the reader resolved w concurrently, so its result is
		// already sitting in the channel. Take it rather than report a spurious
		// cancellation for a command that actually completed.
		return d.finish(cmd, <-w.slot)
	}
}

func (d *dispatcher) submit(cmd Command) (*waiter, error) {
	d.writeGate.Lock()
	defer d.writeGate.Unlock()

	if err := d.live(); err != nil {
		return nil, err
	}

	if err := d.codec.Write(cmd.Wire); err != nil {
		return nil, err
	}

	return d.waiters.enqueue(cmd.Kind), nil
}

func (d *dispatcher) finish(cmd Command, res waiterResult) (*wire.Batch, error) {
	if res.err != nil {
		return nil, res.err
	}

	if !res.batch.IsSuccess() {
		if d.log != nil {
			d.log.Debug("command %s failed with reply %s", res.batch, cmd.Kind.String(), res.batch.Status)
		}
		return res.batch, buildProtocolError(cmd, res.batch)
	}

	return res.batch, nil
}

// deliver hands a non-event batch to the head waiter; called by the
// connection's reader loop. Returns false if no waiter was queued, which is a
// protocol violation the reader treats as fatal (§4.2).
func (d *dispatcher) deliver(batch *wire.Batch) bool {
	_, ok := d.waiters.resolveHead(waiterResult{batch: batch})
	return ok
}

// shutdown fails every currently-queued waiter with err. Rejecting commands
// submitted afterwards is the connection's liveness gate's job; shutdown here
// only drains what is queued right now.
func (d *dispatcher) shutdown(err error) {
	d.waiters.drain(err)
}

// buildProtocolError renders the status + first offending payload line as
// context for ErrorProtocol. batch is always non-success here: execute/finish
// only calls this once IsSuccess() has already been checked false.
func buildProtocolError(cmd Command, batch *wire.Batch) error {
	offending := batch.Status + " " + batch.FirstPayload()
	return liberr.Make(ErrorProtocol.Errorf(cmd.Kind.String(), offending))
}
