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

// Package control's request encoders: §4.6 fixes the wire form for every
// supported command. Each encodeX function here builds the exact CRLF- or
// data-block-terminated byte sequence Execute hands to the Codec.
package control

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

const crlf = "\r\n"

// excludedSetConfKeys are stripped from SETCONF/LOADCONF payloads: tor
// rejects changes to the control port itself at runtime (§6, "Config
// protocol excerpt").
var excludedSetConfKeys = map[string]bool{
	"controlport":            true,
	"controlportwritetofile": true,
}

func encodeAuthenticate(secret []byte) Command {
	line := "AUTHENTICATE " + hex.EncodeToString(secret) + crlf
	return Command{Kind: KindAuthenticate, Wire: []byte(line)}
}

func encodeGetConf(keywords []string) Command {
	var b strings.Builder
	b.WriteString("GETCONF")
	for _, k := range keywords {
		b.WriteString(" ")
		b.WriteString(k)
	}
	b.WriteString(crlf)
	return Command{Kind: KindGetConf, Wire: []byte(b.String())}
}

func encodeSetConf(kind Kind, verb string, kvs []KeyValue) Command {
	var b strings.Builder
	b.WriteString(verb)
	for _, kv := range kvs {
		if excludedSetConfKeys[strings.ToLower(kv.Key)] {
			continue
		}
		b.WriteString(" ")
		b.WriteString(kv.Key)
		if kv.Value != nil {
			b.WriteString("=")
			b.WriteString(*kv.Value)
		}
	}
	b.WriteString(crlf)
	return Command{Kind: kind, Wire: []byte(b.String())}
}

func encodeResetConf(kvs []KeyValue) Command {
	return encodeSetConf(KindResetConf, "RESETCONF", kvs)
}

// encodeLoadConf builds a '+'-prefixed data block. configText is dot-stuffed
// line by line (a leading '.' doubled) so it can never be mistaken for the
// terminator, and the excluded keys are dropped before stuffing.
func encodeLoadConf(configText string) Command {
	var b strings.Builder
	b.WriteString("+LOADCONF" + crlf)

	for _, line := range strings.Split(configText, "\n") {
		if isExcludedConfLine(line) {
			continue
		}
		if strings.HasPrefix(line, ".") {
			line = "." + line
		}
		b.WriteString(line)
		b.WriteString(crlf)
	}

	b.WriteString("." + crlf)
	return Command{Kind: KindLoadConf, Wire: []byte(b.String())}
}

func isExcludedConfLine(line string) bool {
	key, _, _ := strings.Cut(strings.TrimSpace(line), " ")
	key, _, _ = strings.Cut(key, "=")
	return excludedSetConfKeys[strings.ToLower(key)]
}

func encodeSaveConf(force bool) Command {
	line := "SAVECONF"
	if force {
		line += " FORCE"
	}
	return Command{Kind: KindSaveConf, Wire: []byte(line + crlf)}
}

func encodeGetInfo(keywords []string) Command {
	var b strings.Builder
	b.WriteString("GETINFO")
	for _, k := range keywords {
		b.WriteString(" ")
		b.WriteString(k)
	}
	b.WriteString(crlf)
	return Command{Kind: KindGetInfo, Wire: []byte(b.String())}
}

func encodeSetEvents(extended bool, kinds []string) Command {
	var b strings.Builder
	b.WriteString("SETEVENTS")
	if extended {
		b.WriteString(" EXTENDED")
	}
	for _, k := range kinds {
		b.WriteString(" ")
		b.WriteString(k)
	}
	b.WriteString(crlf)
	return Command{Kind: KindSetEvents, Wire: []byte(b.String())}
}

func encodeSignal(name string) Command {
	return Command{Kind: KindSignal, Wire: []byte("SIGNAL " + name + crlf)}
}

// encodeAddOnion builds ADD_ONION for both the existing-key form
// ("<keyType>:<base64key>") and the new-key form ("NEW:<keyType>"), selected
// by req.NewKey.
func encodeAddOnion(req AddOnionRequest) Command {
	var b strings.Builder
	b.WriteString("ADD_ONION ")

	if req.NewKey {
		b.WriteString("NEW:" + req.KeyType)
	} else {
		b.WriteString(req.KeyType + ":" + req.KeyBlob)
	}

	if len(req.Flags) > 0 {
		b.WriteString(" Flags=" + strings.Join(req.Flags, ","))
	}
	if req.MaxStreams > 0 {
		b.WriteString(" MaxStreams=" + strconv.Itoa(req.MaxStreams))
	}
	for _, p := range req.Ports {
		b.WriteString(fmt.Sprintf(" Port=%d,%s", p.Virtual, p.Target))
	}

	b.WriteString(crlf)
	return Command{Kind: KindAddOnion, Wire: []byte(b.String())}
}

func encodeDelOnion(address string) Command {
	return Command{Kind: KindDelOnion, Wire: []byte("DEL_ONION " + address + crlf)}
}

func encodeOnionClientAuthAdd(req OnionClientAuthAddRequest) Command {
	var b strings.Builder
	b.WriteString("ONION_CLIENT_AUTH_ADD " + req.Address + " " + req.KeyType + ":" + req.KeyBlob)

	if req.ClientName != "" {
		b.WriteString(" ClientName=" + req.ClientName)
	}
	if len(req.Flags) > 0 {
		b.WriteString(" Flags=" + strings.Join(req.Flags, ","))
	}

	b.WriteString(crlf)
	return Command{Kind: KindOnionClientAuthAdd, Wire: []byte(b.String())}
}

func encodeOnionClientAuthRemove(address string) Command {
	return Command{Kind: KindOnionClientAuthRemove, Wire: []byte("ONION_CLIENT_AUTH_REMOVE " + address + crlf)}
}

func encodeOnionClientAuthView(address string) Command {
	line := "ONION_CLIENT_AUTH_VIEW"
	if address != "" {
		line += " " + address
	}
	return Command{Kind: KindOnionClientAuthView, Wire: []byte(line + crlf)}
}

func encodeHSFetch(address string, servers []string) Command {
	var b strings.Builder
	b.WriteString("HSFETCH " + address)
	for _, s := range servers {
		b.WriteString(" SERVER=" + s)
	}
	b.WriteString(crlf)
	return Command{Kind: KindHSFetch, Wire: []byte(b.String())}
}

func encodeMapAddress(mappings []AddressMappingResult) Command {
	var b strings.Builder
	b.WriteString("MAPADDRESS")
	for _, m := range mappings {
		b.WriteString(" " + m.From + "=" + m.To)
	}
	b.WriteString(crlf)
	return Command{Kind: KindMapAddress, Wire: []byte(b.String())}
}

func encodeTakeOwnership() Command {
	return Command{Kind: KindTakeOwnership, Wire: []byte("TAKEOWNERSHIP" + crlf)}
}

func encodeDropOwnership() Command {
	return Command{Kind: KindDropOwnership, Wire: []byte("DROPOWNERSHIP" + crlf)}
}

func encodeDropGuards() Command {
	return Command{Kind: KindDropGuards, Wire: []byte("DROPGUARDS" + crlf)}
}
