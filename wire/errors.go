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
	liberr "github.com/nabbar/gotorctl/errors"
)

// Error codes registered in the wire package's range (see errors.MinPkgWire).
const (
	// ErrorLineTooShort is raised when a physical line is shorter than the minimal
	// "NNNx" reply-line shape (status + separator).
	ErrorLineTooShort liberr.CodeError = liberr.MinPkgWire + iota
	// ErrorStatusMismatch is raised when a batch's lines do not all share one status.
	ErrorStatusMismatch
	// ErrorUnterminatedDataBlock is raised when the transport closes mid data-block.
	ErrorUnterminatedDataBlock
)

func init() {
	liberr.RegisterIdFctMessage(liberr.MinPkgWire, wireMessage)
}

func wireMessage(code liberr.CodeError) string {
	switch code {
	case ErrorLineTooShort:
		return "control-protocol reply line shorter than the minimal status+separator shape: %s"
	case ErrorStatusMismatch:
		return "control-protocol reply batch mixes more than one status code: %s"
	case ErrorUnterminatedDataBlock:
		return "control-protocol data block was not terminated before the stream ended"
	default:
		return liberr.NullMessage
	}
}
