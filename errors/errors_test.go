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

package errors_test

import (
	goerrors "errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	liberr "github.com/nabbar/gotorctl/errors"
)

var _ = Describe("New/Make", func() {
	It("IsCode matches only the error's own code, not a parent's", func() {
		parent := liberr.New(1, "parent")
		err := liberr.New(2, "child", parent)

		Expect(liberr.IsCode(err, 2)).To(BeTrue())
		Expect(liberr.IsCode(err, 1)).To(BeFalse())
	})

	It("ContainsString searches the message and every parent's message", func() {
		parent := liberr.New(1, "connection refused")
		err := liberr.New(2, "dial failed", parent)

		Expect(liberr.ContainsString(err, "refused")).To(BeTrue())
		Expect(liberr.ContainsString(err, "timeout")).To(BeFalse())
	})

	It("ContainsString falls back to a plain substring match for a non-Error", func() {
		plain := goerrors.New("boom: disk full")
		Expect(liberr.ContainsString(plain, "disk full")).To(BeTrue())
	})

	It("Make wraps a plain error under code 0 instead of rejecting it", func() {
		plain := goerrors.New("opaque failure")
		wrapped := liberr.Make(plain)

		Expect(wrapped).ToNot(BeNil())
		Expect(wrapped.Code()).To(BeEquivalentTo(0))
		Expect(wrapped.Error()).To(Equal("opaque failure"))
	})

	It("Make returns an already-Error value unchanged", func() {
		err := liberr.New(5, "already typed")
		Expect(liberr.Make(err)).To(BeIdenticalTo(err))
	})

	It("Make(nil) returns nil", func() {
		Expect(liberr.Make(nil)).To(BeNil())
	})

	It("Is/Get recognize an Error wrapped by the standard fmt/errors chain", func() {
		err := liberr.New(7, "root")
		wrapped := fmt.Errorf("while dialing: %w", err)

		Expect(liberr.Is(wrapped)).To(BeTrue())
		Expect(liberr.Get(wrapped).Code()).To(BeEquivalentTo(7))
		Expect(goerrors.Is(wrapped, err)).To(BeTrue())
	})
})
