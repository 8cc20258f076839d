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

	"golang.org/x/sync/semaphore"

	liberr "github.com/nabbar/gotorctl/errors"
)

// actionQueue is C8: a single weighted semaphore of size 1 stands for
// "currently processing action" (§4.8). Before awaiting the semaphore each
// caller records its intent; once admitted, a long-running action (Restart,
// internally a Stop phase followed by a Start phase) can inspect the queue
// for a competing intent that arrived while it ran and abort with
// ErrorInterrupted instead of letting the two actions race.
type actionQueue struct {
	sem *semaphore.Weighted

	mu      sync.Mutex
	next    uint64
	pending map[uint64]actionKind
}

func newActionQueue() *actionQueue {
	return &actionQueue{
		sem:     semaphore.NewWeighted(1),
		pending: make(map[uint64]actionKind),
	}
}

// ticket identifies one caller's recorded intent while it holds, or awaits,
// the queue's semaphore.
type ticket struct {
	id   uint64
	kind actionKind
}

// enter records kind's intent then blocks until the semaphore is free or ctx
// is cancelled. Cancellation while waiting yields ErrorCancelled, never
// ErrorInterrupted (the action never started running).
func (q *actionQueue) enter(ctx context.Context, kind actionKind) (ticket, error) {
	t := ticket{id: q.register(kind), kind: kind}

	if err := q.sem.Acquire(ctx, 1); err != nil {
		q.unregister(t.id)
		return ticket{}, liberr.Make(ErrorCancelled.Errorf(kind.String()))
	}

	return t, nil
}

// leave releases t's hold on the semaphore and removes its recorded intent.
func (q *actionQueue) leave(t ticket) {
	q.unregister(t.id)
	q.sem.Release(1)
}

// preempted reports whether some ticket other than t has recorded intent to
// run kind, i.e. whether t should abort in kind's favor.
func (q *actionQueue) preempted(t ticket, kind actionKind) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for id, k := range q.pending {
		if id != t.id && k == kind {
			return true
		}
	}
	return false
}

func (q *actionQueue) register(kind actionKind) uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.next++
	q.pending[q.next] = kind
	return q.next
}

func (q *actionQueue) unregister(id uint64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.pending, id)
}
