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
	"bufio"
	"io"
	"strings"
	"sync"

	liberr "github.com/nabbar/gotorctl/errors"
)

// dotTerminator is the line that ends a data block on the wire.
const dotTerminator = "."

type codec struct {
	rwc io.ReadWriteCloser
	r   *bufio.Reader

	wm sync.Mutex // write-gate: guarantees a single Write() call is one contiguous write+flush
}

func newCodec(rwc io.ReadWriteCloser) *codec {
	return &codec{
		rwc: rwc,
		r:   bufio.NewReader(rwc),
	}
}

// readPhysicalLine reads one CRLF- (or bare-LF-) terminated line, with the
// terminator stripped.
func (c *codec) readPhysicalLine() (string, error) {
	raw, err := c.r.ReadString('\n')
	if err != nil {
		return "", err
	}
	raw = strings.TrimSuffix(raw, "\n")
	raw = strings.TrimSuffix(raw, "\r")
	return raw, nil
}

func (c *codec) readDataBlock() (string, error) {
	var lines []string

	for {
		line, err := c.readPhysicalLine()
		if err != nil {
			return "", liberr.Make(ErrorUnterminatedDataBlock.Error(err))
		}

		if line == dotTerminator {
			return strings.Join(lines, "\n"), nil
		}

		if strings.HasPrefix(line, dotTerminator) {
			line = line[1:]
		}

		lines = append(lines, line)
	}
}

func (c *codec) ReadBatch() (*Batch, error) {
	var batch Batch

	for {
		raw, err := c.readPhysicalLine()
		if err != nil {
			return nil, err
		}

		if len(raw) < 4 {
			return nil, ErrorLineTooShort.Errorf(raw)
		}

		status := raw[0:3]
		sep := Separator(raw[3])
		payload := raw[4:]

		if len(batch.Lines) == 0 {
			batch.Status = status
		} else if status != batch.Status {
			return nil, ErrorStatusMismatch.Errorf(raw)
		}

		if sep == SepData {
			block, derr := c.readDataBlock()
			if derr != nil {
				return nil, derr
			}
			batch.Lines = append(batch.Lines, Line{Sep: SepData, Keyword: payload, Payload: block})
			continue
		}

		batch.Lines = append(batch.Lines, Line{Sep: sep, Keyword: payload, Payload: payload})

		if sep == SepEnd {
			return &batch, nil
		}
	}
}

func (c *codec) Write(p []byte) error {
	c.wm.Lock()
	defer c.wm.Unlock()

	if _, err := c.rwc.Write(p); err != nil {
		return err
	}

	if f, ok := c.rwc.(interface{ Flush() error }); ok {
		return f.Flush()
	}

	return nil
}

func (c *codec) Close() error {
	return c.rwc.Close()
}
