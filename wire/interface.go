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

import (
	"io"
)

// Codec reads reply batches from, and writes commands to, a byte-stream transport.
//
// ReadBatch blocks until a full batch has been assembled or the transport/parser
// fails; a parser failure is terminal for the Codec (the caller should treat it
// the same as a transport error and tear down the connection).
//
// Write is atomic per call: a single buffered write followed by a flush, so two
// goroutines calling Write concurrently can never interleave their bytes (callers
// are still expected to serialize their calls — e.g. via the command dispatcher's
// write-gate — Write only guarantees the bytes of one call are contiguous on the
// wire).
type Codec interface {
	// ReadBatch reads and assembles the next reply batch from the transport.
	ReadBatch() (*Batch, error)

	// Write sends p to the transport as a single write+flush.
	Write(p []byte) error

	// Close closes the underlying transport.
	Close() error
}

// New wraps rwc with the control-protocol line/batch codec.
func New(rwc io.ReadWriteCloser) Codec {
	return newCodec(rwc)
}
