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
	"strings"
	"time"

	liberr "github.com/nabbar/gotorctl/errors"
	"github.com/nabbar/gotorctl/control"
)

// rateLimitPrefix is the notice-log substring tor emits when a NEWNYM
// request is throttled.
const rateLimitPrefix = "Rate limiting NEWNYM"

// NewNym sends SIGNAL NEWNYM and, for up to Options.NewnymWindow, watches
// incoming NOTICE events for a rate-limit notice (§4.7, "NEWNYM rate-limit
// detection" and DESIGN NOTES §9's open question on the window length). It
// returns the rate-limit message when seen, or a generic success message
// when the window elapses without one.
func (m *Manager) NewNym(ctx context.Context) (string, error) {
	con := m.Connection()
	if con == nil {
		return "", liberr.Make(ErrorDestroyed.Errorf("NEWNYM"))
	}

	lines := make(chan string, 16)
	handle, err := con.Subscribe("NOTICE", func(ev control.Event) {
		for _, l := range ev.Lines {
			select {
			case lines <- l:
			default:
			}
		}
	})
	if err != nil {
		return "", err
	}
	defer func() { _ = con.Unsubscribe(handle) }()

	if _, err := con.Signal(ctx, "NEWNYM"); err != nil {
		return "", err
	}

	deadline := time.NewTimer(m.opt.NewnymWindow)
	defer deadline.Stop()

	for {
		select {
		case l := <-lines:
			if strings.Contains(l, rateLimitPrefix) {
				return l, nil
			}
		case <-deadline.C:
			return "NEWNYM request sent", nil
		case <-ctx.Done():
			return "", liberr.Make(ErrorCancelled.Errorf("NEWNYM"))
		}
	}
}
