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

// Package control's reply decoders, the other half of §4.6's table: each
// decodeX turns a successful *wire.Batch into the command's typed result.
package control

import (
	"strconv"
	"strings"

	liberr "github.com/nabbar/gotorctl/errors"
	"github.com/nabbar/gotorctl/wire"
)

// decodeGetConf splits each payload "k=v" at the first '='; a payload with no
// '=' yields a ConfigEntry with a nil Value (§4.6, tie-break policy).
func decodeGetConf(batch *wire.Batch) []ConfigEntry {
	out := make([]ConfigEntry, 0, len(batch.Lines))
	for _, payload := range batch.Payloads() {
		k, v, ok := strings.Cut(payload, "=")
		if !ok {
			out = append(out, ConfigEntry{Key: k})
			continue
		}
		val := v
		out = append(out, ConfigEntry{Key: k, Value: &val})
	}
	return out
}

// decodeGetInfo builds the ordered key -> value map; a terminal "OK" line, if
// present, is dropped rather than added as a spurious entry. A data-block
// line's key comes from the "+"-line's own Keyword ("ns/all="), not the
// assembled block, and its value is the block content preserved verbatim
// (§4.6, "multi-line values (data blocks) are preserved verbatim").
func decodeGetInfo(batch *wire.Batch) []ConfigEntry {
	out := make([]ConfigEntry, 0, len(batch.Lines))
	for _, l := range batch.Lines {
		if l.Sep == wire.SepData {
			k, _, _ := strings.Cut(l.Keyword, "=")
			val := l.Payload
			out = append(out, ConfigEntry{Key: k, Value: &val})
			continue
		}

		if l.Payload == "OK" {
			continue
		}
		k, v, ok := strings.Cut(l.Payload, "=")
		if !ok {
			out = append(out, ConfigEntry{Key: k})
			continue
		}
		val := v
		out = append(out, ConfigEntry{Key: k, Value: &val})
	}
	return out
}

// decodeAddOnion reads ServiceID= and PrivateKey= (case-insensitive on the
// key side) plus any Port= echoes. Absence of PrivateKey= is legitimate when
// the caller set the DiscardPK flag.
func decodeAddOnion(batch *wire.Batch) (HiddenServiceEntry, error) {
	var entry HiddenServiceEntry

	for _, payload := range batch.Payloads() {
		k, v, ok := strings.Cut(payload, "=")
		if !ok {
			continue
		}
		switch strings.ToLower(k) {
		case "serviceid":
			entry.Address = v
		case "privatekey":
			pk := v
			entry.PrivateKey = &pk
		case "port":
			if p, ok := parsePortMapping(v); ok {
				entry.Ports = append(entry.Ports, p)
			}
		}
	}

	if entry.Address == "" {
		return entry, liberr.Make(ErrorParse.Errorf(KindAddOnion.String(), "missing ServiceID="))
	}

	return entry, nil
}

func parsePortMapping(v string) (PortMapping, bool) {
	virt, target, ok := strings.Cut(v, ",")
	if !ok {
		return PortMapping{}, false
	}
	n, err := strconv.Atoi(virt)
	if err != nil {
		return PortMapping{}, false
	}
	return PortMapping{Virtual: n, Target: target}, true
}

// decodeOnionClientAuthView parses "CLIENT <address> <keyType>:<keyBlob>
// [ClientName=… | Flags=…]*" lines; the reply order of ClientName= and
// Flags= is not fixed, so positions 3 and 4 are matched by prefix rather
// than by fixed index semantics (§4.6, tie-break policy).
func decodeOnionClientAuthView(batch *wire.Batch) []ClientAuthEntry {
	out := make([]ClientAuthEntry, 0, len(batch.Lines))

	for _, payload := range batch.Payloads() {
		if !strings.HasPrefix(payload, "CLIENT ") {
			continue
		}
		fields := strings.Fields(payload)
		if len(fields) < 3 {
			continue
		}

		keyType, keyBlob, _ := strings.Cut(fields[2], ":")
		entry := ClientAuthEntry{
			Address:    fields[1],
			KeyType:    keyType,
			PrivateKey: keyBlob,
		}

		for _, f := range fields[3:] {
			switch {
			case strings.HasPrefix(f, "ClientName="):
				name := strings.TrimPrefix(f, "ClientName=")
				entry.ClientName = &name
			case strings.HasPrefix(f, "Flags="):
				entry.Flags = strings.Split(strings.TrimPrefix(f, "Flags="), ",")
			}
		}

		out = append(out, entry)
	}

	return out
}

// decodeMapAddress pairs each "from=to" payload into a result; from == to
// marks an unmapping rather than a new mapping.
func decodeMapAddress(batch *wire.Batch) []AddressMappingResult {
	out := make([]AddressMappingResult, 0, len(batch.Lines))
	for _, payload := range batch.Payloads() {
		from, to, ok := strings.Cut(payload, "=")
		if !ok {
			continue
		}
		out = append(out, AddressMappingResult{From: from, To: to})
	}
	return out
}
