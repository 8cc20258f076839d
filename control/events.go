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
	"sort"
	"strings"
	"sync"

	"github.com/nabbar/gotorctl/logger"
	"github.com/nabbar/gotorctl/wire"
)

// mandatoryEventKinds is the library's always-on event set (§3, "Event
// subscription" invariant): every SETEVENTS sent to tor is the union of all
// active listener kinds plus this set, regardless of what the host subscribes to.
var mandatoryEventKinds = []string{"NOTICE", "CONF_CHANGED"}

// Event is the decoded payload of one asynchronous 6xx batch, handed to every
// listener subscribed to Kind.
//
// Lines holds one entry for a single-line event, the dot-unstuffed block
// content as one entry for a data-block event, or one entry per '-'-separated
// line for a multi-line status event such as CONF_CHANGED (§4.4).
type Event struct {
	Kind  string
	Lines []string
}

// Listener receives decoded events for the kind it was subscribed to.
type Listener func(Event)

// Handle identifies one subscription for Unsubscribe.
type Handle struct {
	id   uint64
	kind string
}

// reconcileFunc is invoked whenever the active kind set changes; the
// Connection wires this to issue SETEVENTS through the dispatcher.
type reconcileFunc func(kinds []string) error

type subscription struct {
	id  uint64
	fn  Listener
}

// eventRegistry is C4: it owns the kind -> listeners mapping and decodes
// batches into Events for dispatch. Listener invocation happens outside the
// registry's lock (§4.4 isolation) and a panicking listener is recovered and
// routed to the logger instead of aborting delivery to the others or
// propagating to the reader loop.
type eventRegistry struct {
	mu   sync.Mutex
	next uint64
	subs map[string][]subscription

	log       logger.Logger
	reconcile reconcileFunc
}

func newEventRegistry(log logger.Logger, reconcile reconcileFunc) *eventRegistry {
	return &eventRegistry{
		subs:      make(map[string][]subscription),
		log:       log,
		reconcile: reconcile,
	}
}

// Subscribe registers fn for kind and pushes the updated SETEVENTS union to tor.
func (r *eventRegistry) Subscribe(kind string, fn Listener) (Handle, error) {
	r.mu.Lock()
	r.next++
	h := Handle{id: r.next, kind: kind}
	r.subs[kind] = append(r.subs[kind], subscription{id: h.id, fn: fn})
	kinds := r.activeKindsLocked()
	r.mu.Unlock()

	return h, r.push(kinds)
}

// Unsubscribe removes the single subscription identified by h.
func (r *eventRegistry) Unsubscribe(h Handle) error {
	r.mu.Lock()
	list := r.subs[h.kind]
	for i, s := range list {
		if s.id == h.id {
			r.subs[h.kind] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(r.subs[h.kind]) == 0 {
		delete(r.subs, h.kind)
	}
	kinds := r.activeKindsLocked()
	r.mu.Unlock()

	return r.push(kinds)
}

// UnsubscribeAll drops every listener registered for kind.
func (r *eventRegistry) UnsubscribeAll(kind string) error {
	r.mu.Lock()
	delete(r.subs, kind)
	kinds := r.activeKindsLocked()
	r.mu.Unlock()

	return r.push(kinds)
}

// Clear drops every subscription without issuing SETEVENTS; used when the
// connection transitions to Closed and evicts the registry (§4.5).
func (r *eventRegistry) Clear() {
	r.mu.Lock()
	r.subs = make(map[string][]subscription)
	r.mu.Unlock()
}

// activeKindsLocked returns the union of active listener kinds and the
// mandatory set, sorted for a deterministic SETEVENTS line. Caller must hold r.mu.
func (r *eventRegistry) activeKindsLocked() []string {
	set := make(map[string]bool, len(r.subs)+len(mandatoryEventKinds))
	for _, k := range mandatoryEventKinds {
		set[k] = true
	}
	for k, list := range r.subs {
		if len(list) > 0 {
			set[k] = true
		}
	}

	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (r *eventRegistry) push(kinds []string) error {
	if r.reconcile == nil {
		return nil
	}
	return r.reconcile(kinds)
}

// Dispatch decodes batch into an Event and invokes every listener subscribed
// to its kind. Invocation happens outside r.mu; a listener panic is recovered
// and routed to the debug sink, never re-panicked and never blocking delivery
// to the remaining listeners (§4.4, Testable property 3).
func (r *eventRegistry) Dispatch(batch *wire.Batch) {
	ev := decodeEvent(batch)
	if ev.Kind == "" {
		return
	}

	r.mu.Lock()
	list := make([]subscription, len(r.subs[ev.Kind]))
	copy(list, r.subs[ev.Kind])
	r.mu.Unlock()

	for _, s := range list {
		r.invoke(s, ev)
	}
}

func (r *eventRegistry) invoke(s subscription, ev Event) {
	defer func() {
		if rec := recover(); rec != nil {
			if r.log != nil {
				r.log.Error("event listener panicked for kind %s", rec, ev.Kind)
			}
		}
	}()
	s.fn(ev)
}

// decodeEvent turns a 6xx batch into an Event, per §4.4:
//   - the first line's payload is "<EVENT> <single-line data>" for a simple event;
//   - a data-block line (from a '+' separator) is a multi-line event whose
//     accumulated block is the payload;
//   - several '-'-separated lines (e.g. CONF_CHANGED) deliver as a line list,
//     with the terminal "OK" framing line swallowed.
func decodeEvent(batch *wire.Batch) Event {
	if batch == nil || len(batch.Lines) == 0 {
		return Event{}
	}

	first := batch.Lines[0]

	// The "+"-line's own text carries "<event> <data>", not the assembled
	// block that replaced it as Payload; the block is the event's data
	// verbatim, not something to split on the first space.
	var name, rest string
	if first.Sep == wire.SepData {
		name, _, _ = strings.Cut(first.Keyword, " ")
	} else {
		name, rest, _ = strings.Cut(first.Payload, " ")
	}

	if len(batch.Lines) == 1 {
		if first.Sep == wire.SepData {
			return Event{Kind: name, Lines: []string{first.Payload}}
		}
		if rest == "" {
			return Event{Kind: name}
		}
		return Event{Kind: name, Lines: []string{rest}}
	}

	lines := make([]string, 0, len(batch.Lines))
	if first.Sep == wire.SepData {
		lines = append(lines, first.Payload)
	} else if rest != "" {
		lines = append(lines, rest)
	}
	for i, l := range batch.Lines[1:] {
		isTerminal := i == len(batch.Lines)-2
		if isTerminal && (l.Payload == "OK" || l.Payload == "") {
			continue
		}
		lines = append(lines, l.Payload)
	}

	return Event{Kind: name, Lines: lines}
}
