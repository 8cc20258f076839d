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

	liberr "github.com/nabbar/gotorctl/errors"
)

// Interceptor rewrites a command before it is encoded and submitted. Returning
// (nil, nil) leaves cmd unchanged. An Interceptor must never change cmd.Kind;
// doing so is rejected by the chain and the original command is used instead.
type Interceptor func(cmd Command) (rewritten *Command, err error)

// interceptorChain is C10: an ordered list of pre-submission rewrite hooks,
// with a fixed blacklist (IsInterceptBlacklisted) that can never be rewritten
// regardless of what hooks are registered.
type interceptorChain struct {
	mu    sync.RWMutex
	hooks []Interceptor
}

func newInterceptorChain() *interceptorChain {
	return &interceptorChain{}
}

// Append adds hook to the end of the chain.
func (c *interceptorChain) Append(hook Interceptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, hook)
}

// Apply runs every hook in order over cmd. A blacklisted kind is returned
// unchanged without invoking any hook. A hook that returns a command of a
// different kind is rejected and the chain keeps running with the pre-hook
// command. A hook that returns an error stops the chain with
// ErrorInterceptorRewrite.
func (c *interceptorChain) Apply(cmd Command) (Command, error) {
	if IsInterceptBlacklisted(cmd.Kind) {
		return cmd, nil
	}

	c.mu.RLock()
	hooks := make([]Interceptor, len(c.hooks))
	copy(hooks, c.hooks)
	c.mu.RUnlock()

	cur := cmd
	for _, h := range hooks {
		if h == nil {
			continue
		}

		next, err := h(cur)
		if err != nil {
			return cur, liberr.Make(ErrorInterceptorRewrite.Error(err))
		}
		if next == nil {
			continue
		}
		if next.Kind != cur.Kind {
			continue
		}
		cur = *next
	}

	return cur, nil
}
