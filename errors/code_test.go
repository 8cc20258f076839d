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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	liberr "github.com/nabbar/gotorctl/errors"
)

const (
	testMinPkgA liberr.CodeError = 9100
	testMinPkgB liberr.CodeError = 9200

	testCodeA1 = testMinPkgA
	testCodeB1 = testMinPkgB
)

func init() {
	liberr.RegisterIdFctMessage(testMinPkgA, func(code liberr.CodeError) string {
		switch code {
		case testCodeA1:
			return "package a failure: %s"
		default:
			return liberr.NullMessage
		}
	})
	liberr.RegisterIdFctMessage(testMinPkgB, func(code liberr.CodeError) string {
		switch code {
		case testCodeB1:
			return "package b failure"
		default:
			return liberr.NullMessage
		}
	})
}

var _ = Describe("CodeError", func() {
	It("resolves Message by range, not by exact code lookup", func() {
		Expect(testCodeA1.Message()).To(Equal("package a failure: %s"))
		Expect(testCodeB1.Message()).To(Equal("package b failure"))
	})

	It("falls back to UnknownMessage for a code with no registered range", func() {
		Expect(liberr.CodeError(1).Message()).To(Equal(liberr.UnknownMessage))
	})

	It("Errorf formats the registered message with the given arguments", func() {
		err := testCodeA1.Errorf("disk full")
		Expect(err.Error()).To(Equal("package a failure: disk full"))
		Expect(err.IsCode(testCodeA1)).To(BeTrue())
	})

	It("Errorf leaves a message with no verb untouched, ignoring extra arguments", func() {
		err := testCodeB1.Errorf("ignored")
		Expect(err.Error()).To(Equal("package b failure"))
	})

	It("Error attaches the given parents", func() {
		parent := liberr.New(1, "root cause")
		err := testCodeA1.Error(parent)
		Expect(err.ContainsString("root cause")).To(BeTrue())
	})
})
