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

package atomic_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libatm "github.com/nabbar/gotorctl/atomic"
)

var _ = Describe("MapAny[K]", func() {
	It("supports Store/Load/Delete/LoadOrStore/Swap/CompareAndSwap/CompareAndDelete/Range", func() {
		m := libatm.NewMapAny[string]()

		m.Store("a", 1)
		v, ok := m.Load("a")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(1))

		act, loaded := m.LoadOrStore("a", 2)
		Expect(loaded).To(BeTrue())
		Expect(act).To(Equal(1))

		act, loaded = m.LoadOrStore("b", 3)
		Expect(loaded).To(BeFalse())
		Expect(act).To(Equal(3))

		Expect(m.CompareAndSwap("a", 1, 10)).To(BeTrue())
		v, _ = m.Load("a")
		Expect(v).To(Equal(10))

		prev, loaded := m.Swap("b", 30)
		Expect(loaded).To(BeTrue())
		Expect(prev).To(Equal(3))

		Expect(m.CompareAndDelete("b", 30)).To(BeTrue())
		_, ok = m.Load("b")
		Expect(ok).To(BeFalse())

		seen := map[string]any{}
		m.Range(func(key string, value any) bool {
			seen[key] = value
			return true
		})
		Expect(seen).To(HaveKey("a"))

		m.Delete("a")
		_, ok = m.Load("a")
		Expect(ok).To(BeFalse())
	})

	It("visits every entry whose key casts to K during Range", func() {
		m := libatm.NewMapAny[int]()
		m.Store(1, "one")
		m.Store(2, "two")

		var visited int
		m.Range(func(key int, value any) bool {
			visited++
			return true
		})
		Expect(visited).To(Equal(2))
	})
})
