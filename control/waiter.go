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
	"sync"
	"sync/atomic"

	"github.com/nabbar/gotorctl/wire"
)

// waiterResult is the one-shot payload delivered to a waiting caller: either
// the reply batch the reader assembled for it, or the error that resolved it
// (ErrorShutdown on teardown, ErrorCancelled on cooperative cancellation).
type waiterResult struct {
	batch *wire.Batch
	err   error
}

// waiter is a suspended request awaiting its reply batch (see DATA MODEL,
// "Waiter"). It is resolved exactly once, either by the reader delivering a
// batch or by the connection failing it on teardown/cancellation.
type waiter struct {
	id       uint64
	kind     Kind
	resolved int32 // atomic: CompareAndSwap guards the single resolution
	slot     chan waiterResult
}

func newWaiter(id uint64, kind Kind) *waiter {
	return &waiter{
		id:   id,
		kind: kind,
		slot: make(chan waiterResult, 1),
	}
}

// resolve delivers res to the waiter's slot, exactly once. A reply arriving
// for an already-resolved (abandoned/cancelled) waiter is reported back to the
// caller via ok=false so it can be logged and discarded, per §4.3.
func (w *waiter) resolve(res waiterResult) (ok bool) {
	if !atomic.CompareAndSwapInt32(&w.resolved, 0, 1) {
		return false
	}

	w.slot <- res
	return true
}

// waiterQueue is the FIFO of waiters shared between callers (who enqueue) and
// the reader (who resolves the head waiter in queue order). This is the
// "vector-indexed slab" of DESIGN NOTES §9: a plain mutex-guarded slice play
// the role of the arena, waiter identity is its id, and the reader never holds
// a reference back to the connection beyond the queue itself.
type waiterQueue struct {
	mu   sync.Mutex
	next uint64
	q    []*waiter
}

func newWaiterQueue() *waiterQueue {
	return &waiterQueue{}
}

// enqueue appends a fresh waiter for kind and returns it. Must be called
// while still holding the write-gate so that write order and enqueue order
// match (Ordering guarantees, §4.3).
func (q *waiterQueue) enqueue(kind Kind) *waiter {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.next++
	w := newWaiter(q.next, kind)
	q.q = append(q.q, w)
	return w
}

// resolveHead pops the head waiter and resolves it with res. Returns false if
// the queue was empty (a protocol violation the caller should fail the
// connection for, per §4.2).
func (q *waiterQueue) resolveHead(res waiterResult) (*waiter, bool) {
	q.mu.Lock()
	if len(q.q) == 0 {
		q.mu.Unlock()
		return nil, false
	}
	w := q.q[0]
	q.q = q.q[1:]
	q.mu.Unlock()

	w.resolve(res)
	return w, true
}

// remove drops w from the queue without resolving it. Cooperative
// cancellation does not use it: a cancelled waiter is resolved with
// ErrorCancelled and left queued, so resolveHead pops it when tor's reply to
// it arrives and that reply is discarded instead of matching the next caller.
func (q *waiterQueue) remove(w *waiter) {
	q.mu.Lock()
	for i, c := range q.q {
		if c == w {
			q.q = append(q.q[:i], q.q[i+1:]...)
			break
		}
	}
	q.mu.Unlock()
}

// drain empties the queue, resolving every remaining waiter with err. Used on
// the Closed transition so every waiter present at that moment resolves with
// ErrorShutdown exactly once (Shutdown completeness, §8 property 4).
func (q *waiterQueue) drain(err error) {
	q.mu.Lock()
	pending := q.q
	q.q = nil
	q.mu.Unlock()

	for _, w := range pending {
		w.resolve(waiterResult{err: err})
	}
}

// len reports the number of waiters currently queued.
func (q *waiterQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.q)
}
