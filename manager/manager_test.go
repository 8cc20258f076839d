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

package manager_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	liberr "github.com/nabbar/gotorctl/errors"
	"github.com/nabbar/gotorctl/manager"
)

func indexOf(lines []string, target string) int {
	for i, l := range lines {
		if l == target {
			return i
		}
	}
	return -1
}

var _ = Describe("Manager Start/Stop/Restart", func() {
	It("takes ownership and resets DisableNetwork+OwningControllerProcess when the network is up", func() {
		launcher := &fakeLauncher{}
		m := manager.New(manager.Options{Launcher: launcher})

		Expect(m.Start(context.Background())).To(Succeed())

		state := m.State()
		Expect(state.Run).To(Equal(manager.StateOn))
		Expect(state.NetworkEnabled).To(BeTrue())

		lines := launcher.server().recordedLines()
		Expect(lines).To(ContainElements(
			"TAKEOWNERSHIP",
			"SETEVENTS CONF_CHANGED NOTICE",
			"RESETCONF DisableNetwork OwningControllerProcess",
		))

		// §4.7's Start algorithm runs TAKEOWNERSHIP, then LOADCONF, then
		// SETEVENTS, then RESETCONF, in that order.
		ownIdx := indexOf(lines, "TAKEOWNERSHIP")
		eventsIdx := indexOf(lines, "SETEVENTS CONF_CHANGED NOTICE")
		resetIdx := indexOf(lines, "RESETCONF DisableNetwork OwningControllerProcess")
		Expect(ownIdx).To(BeNumerically(">=", 0))
		Expect(ownIdx).To(BeNumerically("<", eventsIdx))
		Expect(eventsIdx).To(BeNumerically("<", resetIdx))
	})

	It("leaves the manager Off and reports ErrorLaunch when the launcher fails", func() {
		launcher := &fakeLauncher{launchErr: errors.New("tor binary not found")}
		m := manager.New(manager.Options{Launcher: launcher})

		err := m.Start(context.Background())
		Expect(liberr.IsCode(err, manager.ErrorLaunch)).To(BeTrue())
		Expect(m.State().Run).To(Equal(manager.StateOff))
	})

	It("publishes only OwningControllerProcess when the network observer reports disconnected", func() {
		launcher := &fakeLauncher{}
		net := &fakeNetwork{connected: false}

		var notified []string
		m := manager.New(manager.Options{
			Launcher: launcher,
			Network:  net,
			OnEvent:  func(kind string, _ interface{}) { notified = append(notified, kind) },
		})

		Expect(m.Start(context.Background())).To(Succeed())
		Expect(m.State().NetworkEnabled).To(BeFalse())
		Expect(launcher.server().recordedLines()).To(ContainElement("RESETCONF OwningControllerProcess"))
		Expect(notified).To(ContainElement(manager.NotifyWaitingOnNetwork))
	})

	It("stops tor with SHUTDOWN and closes the launcher", func() {
		launcher := &fakeLauncher{}
		m := manager.New(manager.Options{Launcher: launcher})
		Expect(m.Start(context.Background())).To(Succeed())

		Expect(m.Stop(context.Background())).To(Succeed())
		Expect(m.State().Run).To(Equal(manager.StateOff))
		Expect(launcher.wasClosed()).To(BeTrue())
		Expect(launcher.server().recordedLines()).To(ContainElement("SIGNAL SHUTDOWN"))
	})

	It("cancels the launcher instead of closing it on a Restart", func() {
		launcher := &fakeLauncher{}
		m := manager.New(manager.Options{Launcher: launcher})
		Expect(m.Start(context.Background())).To(Succeed())

		Expect(m.Restart(context.Background())).To(Succeed())
		Expect(m.State().Run).To(Equal(manager.StateOn))
		Expect(launcher.wasCancelled()).To(BeTrue())
		Expect(launcher.wasClosed()).To(BeFalse())
	})

	It("rejects every action after Destroy with ErrorDestroyed", func() {
		launcher := &fakeLauncher{}
		m := manager.New(manager.Options{Launcher: launcher})
		Expect(m.Start(context.Background())).To(Succeed())

		Expect(m.Destroy(context.Background())).To(Succeed())
		Expect(m.State().Run).To(Equal(manager.StateOff))

		err := m.Start(context.Background())
		Expect(liberr.IsCode(err, manager.ErrorDestroyed)).To(BeTrue())
	})
})

var _ = Describe("Manager event-driven state", func() {
	It("keeps the published bootstrap percent non-decreasing (property 8)", func() {
		launcher := &fakeLauncher{}
		m := manager.New(manager.Options{Launcher: launcher})
		Expect(m.Start(context.Background())).To(Succeed())

		srv := launcher.server()
		srv.push("650 NOTICE Bootstrapped 10% starting\r\n")
		Eventually(func() int { return m.State().Bootstrap }).Should(Equal(10))

		srv.push("650 NOTICE Bootstrapped 5% regressed\r\n")
		srv.push("650 NOTICE Bootstrapped 50% loading\r\n")
		Eventually(func() int { return m.State().Bootstrap }).Should(Equal(50))
		Consistently(func() int { return m.State().Bootstrap }, 50*time.Millisecond).Should(Equal(50))
	})

	It("publishes a debounced listener address after an Opened notice line", func() {
		launcher := &fakeLauncher{}
		m := manager.New(manager.Options{Launcher: launcher})
		Expect(m.Start(context.Background())).To(Succeed())

		srv := launcher.server()
		srv.push("650 NOTICE Opened socks listener connection (ready) on 127.0.0.1:9050\r\n")

		Eventually(func() string {
			return m.State().ListenerAddresses[manager.ListenerSOCKS]
		}, time.Second).Should(Equal("127.0.0.1:9050"))
	})

	It("toggles NetworkEnabled from a CONF_CHANGED DisableNetwork line", func() {
		launcher := &fakeLauncher{}
		m := manager.New(manager.Options{Launcher: launcher})
		Expect(m.Start(context.Background())).To(Succeed())
		Expect(m.State().NetworkEnabled).To(BeTrue())

		srv := launcher.server()
		srv.push("650-CONF_CHANGED\r\n650-DisableNetwork=1\r\n650 OK\r\n")

		Eventually(func() bool { return m.State().NetworkEnabled }).Should(BeFalse())
	})

	It("reports a rate-limited NEWNYM within the configured window", func() {
		launcher := &fakeLauncher{}
		m := manager.New(manager.Options{Launcher: launcher, NewnymWindow: 150 * time.Millisecond})
		Expect(m.Start(context.Background())).To(Succeed())

		srv := launcher.server()
		result := make(chan string, 1)
		go func() {
			msg, err := m.NewNym(context.Background())
			Expect(err).ToNot(HaveOccurred())
			result <- msg
		}()

		// Give NewNym time to subscribe and send SIGNAL NEWNYM before the
		// rate-limit notice arrives, well inside the 150ms window.
		time.Sleep(30 * time.Millisecond)
		srv.push("650 NOTICE Rate limiting NEWNYM request: exceeds 10 per 10 seconds\r\n")

		Eventually(result, time.Second).Should(Receive(ContainSubstring("Rate limiting NEWNYM")))
	})

	It("reports generic success once the NEWNYM window elapses with no rate-limit notice", func() {
		launcher := &fakeLauncher{}
		m := manager.New(manager.Options{Launcher: launcher, NewnymWindow: 30 * time.Millisecond})
		Expect(m.Start(context.Background())).To(Succeed())

		msg, err := m.NewNym(context.Background())
		Expect(err).ToNot(HaveOccurred())
		Expect(msg).To(Equal("NEWNYM request sent"))
	})
})
