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

package wire

// Separator is the character following the three-digit status code on a reply line.
type Separator byte

const (
	// SepMore marks a non-terminal reply line ('-'): more lines follow in the batch.
	SepMore Separator = '-'
	// SepData marks a line introducing a data block ('+'): a dot-terminated block follows.
	SepData Separator = '+'
	// SepEnd marks the terminal line of a batch (' '): the batch is complete.
	SepEnd Separator = ' '
)

// Line is a single decoded reply line. For SepData lines, Payload holds the
// fully assembled, dot-unstuffed data block content (interior lines joined by "\n"),
// while Keyword holds the "+"-line's own text verbatim (e.g. "ns/all=" or an
// event name) — the block replaces the line's payload on the wire, but callers
// still need what the "+"-line itself said. For every other separator, Keyword
// equals Payload.
type Line struct {
	Sep     Separator
	Keyword string
	Payload string
}

// Batch is a maximal, non-empty sequence of reply lines sharing one status code,
// terminated by the first line whose separator is SepEnd.
type Batch struct {
	Status string
	Lines  []Line
}

// IsEvent reports whether the batch's status starts with '6' (an asynchronous event).
func (b *Batch) IsEvent() bool {
	return b != nil && len(b.Status) > 0 && b.Status[0] == '6'
}

// IsSuccess reports whether the batch's status starts with "25" (a successful command reply).
func (b *Batch) IsSuccess() bool {
	return b != nil && len(b.Status) >= 2 && b.Status[0] == '2' && b.Status[1] == '5'
}

// FirstPayload returns the payload of the first line, or "" if the batch is empty.
func (b *Batch) FirstPayload() string {
	if b == nil || len(b.Lines) == 0 {
		return ""
	}
	return b.Lines[0].Payload
}

// Payloads returns the payload of every line in the batch, in wire order.
func (b *Batch) Payloads() []string {
	if b == nil {
		return nil
	}
	out := make([]string, 0, len(b.Lines))
	for _, l := range b.Lines {
		out = append(out, l.Payload)
	}
	return out
}
