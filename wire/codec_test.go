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

package wire_test

import (
	"bytes"
	"errors"
	"io"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/gotorctl/wire"
)

// fakeRWC feeds ReadBatch from a fixed byte buffer and captures Write calls,
// standing in for the transport the codec wraps.
type fakeRWC struct {
	r       *bytes.Reader
	written bytes.Buffer
	closed  bool
}

func newFakeRWC(serverBytes string) *fakeRWC {
	return &fakeRWC{r: bytes.NewReader([]byte(serverBytes))}
}

func (f *fakeRWC) Read(p []byte) (int, error) {
	if f.r.Len() == 0 {
		return 0, io.EOF
	}
	return f.r.Read(p)
}

func (f *fakeRWC) Write(p []byte) (int, error) {
	return f.written.Write(p)
}

func (f *fakeRWC) Close() error {
	f.closed = true
	return nil
}

var _ = Describe("Codec.ReadBatch", func() {
	It("assembles a single-line success batch (S1)", func() {
		c := wire.New(newFakeRWC("250 OK\r\n"))
		batch, err := c.ReadBatch()
		Expect(err).ToNot(HaveOccurred())
		Expect(batch.Status).To(Equal("250"))
		Expect(batch.IsSuccess()).To(BeTrue())
		Expect(batch.FirstPayload()).To(Equal("OK"))
	})

	It("assembles a multi-line reply ending on the space separator (S2)", func() {
		c := wire.New(newFakeRWC("250-SocksPort=9050\r\n250 ORPort\r\n"))
		batch, err := c.ReadBatch()
		Expect(err).ToNot(HaveOccurred())
		Expect(batch.Payloads()).To(Equal([]string{"SocksPort=9050", "ORPort"}))
	})

	It("assembles a multi-line event batch (S3, CONF_CHANGED)", func() {
		raw := "650-CONF_CHANGED\r\n650-SocksPort=9055\r\n650-DNSPort=1080\r\n650 OK\r\n"
		c := wire.New(newFakeRWC(raw))
		batch, err := c.ReadBatch()
		Expect(err).ToNot(HaveOccurred())
		Expect(batch.IsEvent()).To(BeTrue())
		Expect(batch.Payloads()).To(Equal([]string{"CONF_CHANGED", "SocksPort=9055", "DNSPort=1080", "OK"}))
	})

	It("tolerates a bare LF terminator", func() {
		c := wire.New(newFakeRWC("250 OK\n"))
		batch, err := c.ReadBatch()
		Expect(err).ToNot(HaveOccurred())
		Expect(batch.Status).To(Equal("250"))
	})

	It("assembles a data block and reverses dot-stuffing (property 5)", func() {
		raw := "250+config/text\r\nSocksPort 9050\r\n..leading-dot-comment\r\n.\r\n250 OK\r\n"
		c := wire.New(newFakeRWC(raw))
		batch, err := c.ReadBatch()
		Expect(err).ToNot(HaveOccurred())
		Expect(batch.Lines).To(HaveLen(2))
		Expect(batch.Lines[0].Sep).To(Equal(wire.SepData))
		Expect(batch.Lines[0].Keyword).To(Equal("config/text"))
		Expect(batch.Lines[0].Payload).To(Equal("SocksPort 9050\n.leading-dot-comment"))
		Expect(batch.Lines[1].Payload).To(Equal("OK"))
	})

	It("keeps the +-line's own text in Keyword for a GETINFO-style data block", func() {
		raw := "250+ns/all=\r\nr Unnamed AAAA\r\nr Unnamed BBBB\r\n.\r\n250 OK\r\n"
		c := wire.New(newFakeRWC(raw))
		batch, err := c.ReadBatch()
		Expect(err).ToNot(HaveOccurred())
		Expect(batch.Lines[0].Keyword).To(Equal("ns/all="))
		Expect(batch.Lines[0].Payload).To(Equal("r Unnamed AAAA\nr Unnamed BBBB"))
	})

	It("rejects a line shorter than the minimal status+separator shape", func() {
		c := wire.New(newFakeRWC("25\r\n"))
		_, err := c.ReadBatch()
		Expect(err).To(HaveOccurred())
	})

	It("rejects a batch whose lines mix status codes", func() {
		c := wire.New(newFakeRWC("250-one\r\n251 two\r\n"))
		_, err := c.ReadBatch()
		Expect(err).To(HaveOccurred())
	})

	It("fails when the transport closes mid data-block", func() {
		raw := "250+config/text\r\nSocksPort 9050\r\n"
		c := wire.New(newFakeRWC(raw))
		_, err := c.ReadBatch()
		Expect(err).To(HaveOccurred())
	})

	It("surfaces the underlying transport error unchanged when the stream ends before a batch starts", func() {
		c := wire.New(newFakeRWC(""))
		_, err := c.ReadBatch()
		Expect(errors.Is(err, io.EOF)).To(BeTrue())
	})
})

var _ = Describe("Codec.Write", func() {
	It("writes the exact bytes given, once per call", func() {
		f := newFakeRWC("")
		c := wire.New(f)

		Expect(c.Write([]byte("GETCONF SocksPort\r\n"))).To(Succeed())
		Expect(f.written.String()).To(Equal("GETCONF SocksPort\r\n"))
	})
})

var _ = Describe("Codec.Close", func() {
	It("closes the underlying transport", func() {
		f := newFakeRWC("")
		c := wire.New(f)
		Expect(c.Close()).To(Succeed())
		Expect(f.closed).To(BeTrue())
	})
})
