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

package control_test

import (
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/gotorctl/control"
)

var _ = Describe("Event dispatch", func() {
	It("reconciles SETEVENTS to the union of active and mandatory kinds (property 7)", func() {
		con, srv := newHarness(control.Options{})
		defer srv.close()
		authenticate(con, srv)

		done := make(chan struct{})
		go func() {
			defer close(done)
			line := srv.readLine()
			Expect(line).To(Equal("SETEVENTS BW CONF_CHANGED NOTICE"))
			srv.sendOK()
		}()

		_, err := con.Subscribe("BW", func(control.Event) {})
		Expect(err).ToNot(HaveOccurred())
		<-done

		done2 := make(chan struct{})
		go func() {
			defer close(done2)
			line := srv.readLine()
			Expect(line).To(Equal("SETEVENTS CONF_CHANGED NOTICE"))
			srv.sendOK()
		}()

		Expect(con.UnsubscribeAll("BW")).To(Succeed())
		<-done2
	})

	It("delivers CONF_CHANGED as a line list with the terminal OK swallowed (S3)", func() {
		con, srv := newHarness(control.Options{})
		defer srv.close()
		authenticate(con, srv)

		sub := make(chan struct{})
		go func() {
			defer close(sub)
			Expect(srv.readLine()).To(Equal("SETEVENTS CONF_CHANGED NOTICE"))
			srv.sendOK()
		}()

		received := make(chan control.Event, 1)
		_, err := con.Subscribe("CONF_CHANGED", func(ev control.Event) {
			received <- ev
		})
		Expect(err).ToNot(HaveOccurred())
		<-sub

		srv.send("650-CONF_CHANGED\r\n650-SocksPort=9055\r\n650-DNSPort=1080\r\n650 OK\r\n")

		ev := <-received
		Expect(ev.Kind).To(Equal("CONF_CHANGED"))
		Expect(ev.Lines).To(Equal([]string{"SocksPort=9055", "DNSPort=1080"}))
	})

	It("decodes a data-block event using the +-line's own name, not the block content", func() {
		con, srv := newHarness(control.Options{})
		defer srv.close()
		authenticate(con, srv)

		sub := make(chan struct{})
		go func() {
			defer close(sub)
			Expect(srv.readLine()).To(Equal("SETEVENTS CONF_CHANGED NOTICE STREAM_BW_DATA"))
			srv.sendOK()
		}()

		received := make(chan control.Event, 1)
		_, err := con.Subscribe("STREAM_BW_DATA", func(ev control.Event) {
			received <- ev
		})
		Expect(err).ToNot(HaveOccurred())
		<-sub

		srv.send("650+STREAM_BW_DATA\r\nT 1000\r\nR 2048\r\nW 512\r\n.\r\n650 OK\r\n")

		ev := <-received
		Expect(ev.Kind).To(Equal("STREAM_BW_DATA"))
		Expect(ev.Lines).To(Equal([]string{"T 1000\nR 2048\nW 512"}))
	})

	It("isolates a panicking listener from the others subscribed to the same kind (property 3)", func() {
		con, srv := newHarness(control.Options{})
		defer srv.close()
		authenticate(con, srv)

		sub := make(chan struct{})
		go func() {
			defer close(sub)
			Expect(srv.readLine()).To(Equal("SETEVENTS CONF_CHANGED NOTICE"))
			srv.sendOK()
		}()

		var wg sync.WaitGroup
		wg.Add(1)
		survived := false

		_, err := con.Subscribe("NOTICE", func(control.Event) {
			panic("boom")
		})
		Expect(err).ToNot(HaveOccurred())
		<-sub

		sub2 := make(chan struct{})
		go func() {
			defer close(sub2)
			Expect(srv.readLine()).To(Equal("SETEVENTS CONF_CHANGED NOTICE"))
			srv.sendOK()
		}()
		_, err = con.Subscribe("NOTICE", func(control.Event) {
			survived = true
			wg.Done()
		})
		Expect(err).ToNot(HaveOccurred())
		<-sub2

		srv.send("650 NOTICE Bootstrapped 10% starting\r\n")
		wg.Wait()
		Expect(survived).To(BeTrue())
	})
})
