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

package transport

import (
	"context"
	"io"
	"net"

	liberr "github.com/nabbar/gotorctl/errors"
)

// DialTCP opens a TCP connection to addr ("host:port"), typically a loopback
// control port such as "127.0.0.1:9051".
func DialTCP(ctx context.Context, addr string) (io.ReadWriteCloser, error) {
	return dial(ctx, "tcp", addr)
}

// DialUnix opens a Unix domain socket connection to path, a control socket
// such as "/var/run/tor/control".
func DialUnix(ctx context.Context, path string) (io.ReadWriteCloser, error) {
	return dial(ctx, "unix", path)
}

func dial(ctx context.Context, network, addr string) (io.ReadWriteCloser, error) {
	d := net.Dialer{}

	con, err := d.DialContext(ctx, network, addr)
	if err != nil {
		return nil, liberr.Make(ErrorDial.Errorf(addr, err.Error()))
	}

	return con, nil
}
