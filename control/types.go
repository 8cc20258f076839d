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
	"fmt"

	libval "github.com/go-playground/validator/v10"
	liberr "github.com/nabbar/gotorctl/errors"
)

var validate = libval.New()

// ConfigEntry is one GETCONF result line: a keyword and its optional value
// (absent when tor replied with the bare keyword, no "=").
type ConfigEntry struct {
	Key   string
	Value *string
}

// KeyValue is one SETCONF/RESETCONF argument. Value == nil means the bare
// "keyword" form (RESETCONF's setDefault semantics, or SETCONF's reset-to-null).
type KeyValue struct {
	Key   string
	Value *string
}

// PortMapping is one ADD_ONION "Port=<virtual>,<target>" argument.
type PortMapping struct {
	Virtual int
	Target  string
}

// AddOnionRequest describes an ADD_ONION command. KeyType/KeyBlob identify an
// existing key ("ED25519-V3:<base64>") or request a fresh one via KeyType with
// KeyBlob == "" and NewKey == true ("NEW:ED25519-V3").
type AddOnionRequest struct {
	KeyType    string `validate:"required"`
	KeyBlob    string
	NewKey     bool
	Flags      []string
	MaxStreams int
	Ports      []PortMapping `validate:"required,min=1,dive"`
}

func (r AddOnionRequest) validateRequest() error {
	if err := validate.Struct(r); err != nil {
		return invalidArgument(KindAddOnion, err)
	}
	for _, p := range r.Ports {
		if p.Virtual <= 0 || p.Virtual > 65535 {
			return ErrorInvalidArgument.Errorf(KindAddOnion.String(), fmt.Sprintf("invalid virtual port %d", p.Virtual))
		}
	}
	return nil
}

// HiddenServiceEntry is the decoded result of ADD_ONION: the new or existing
// service address, its private key (absent when DiscardPK was set), and the
// ports tor echoed back (the requested ports when the reply echoes none).
type HiddenServiceEntry struct {
	Address    string
	PrivateKey *string
	Ports      []PortMapping
}

// OnionClientAuthAddRequest describes ONION_CLIENT_AUTH_ADD.
type OnionClientAuthAddRequest struct {
	Address    string `validate:"required"`
	KeyType    string `validate:"required"`
	KeyBlob    string `validate:"required"`
	ClientName string
	Flags      []string
}

func (r OnionClientAuthAddRequest) validateRequest() error {
	if err := validate.Struct(r); err != nil {
		return invalidArgument(KindOnionClientAuthAdd, err)
	}
	return nil
}

// ClientAuthEntry is one ONION_CLIENT_AUTH_VIEW result line.
type ClientAuthEntry struct {
	Address    string
	KeyType    string
	PrivateKey string
	ClientName *string
	Flags      []string
}

// AddressMappingResult is one MAPADDRESS result pair. From == To marks an
// unmapping (the request removed a previously mapped address).
type AddressMappingResult struct {
	From string
	To   string
}

func invalidArgument(k Kind, err error) error {
	if e, ok := err.(*libval.InvalidValidationError); ok {
		return liberr.Make(ErrorInvalidArgument.Errorf(k.String(), e.Error()))
	}

	detail := err.Error()
	if ve, ok := err.(libval.ValidationErrors); ok {
		msgs := make([]string, 0, len(ve))
		for _, fe := range ve {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed constraint '%s'", fe.StructNamespace(), fe.ActualTag()))
		}
		detail = fmt.Sprint(msgs)
	}

	return liberr.Make(ErrorInvalidArgument.Errorf(k.String(), detail))
}
