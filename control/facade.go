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

// Package control's ergonomic façade: one method per §4.6 command, each
// encoding the request, running it through Execute and decoding the reply.
// AUTHENTICATE, SETEVENTS and SIGNAL already have dedicated methods on
// Connection (connection.go) since they also drive lifecycle state.
package control

import "context"

// GetConf sends GETCONF for the given keywords and returns the decoded
// key/value entries.
func (c *Connection) GetConf(ctx context.Context, keywords ...string) ([]ConfigEntry, error) {
	batch, err := c.Execute(ctx, encodeGetConf(keywords))
	if err != nil {
		return nil, err
	}
	return decodeGetConf(batch), nil
}

// SetConf sends SETCONF for the given key/value pairs. ControlPort and
// ControlPortWriteToFile are silently dropped from kvs before encoding.
func (c *Connection) SetConf(ctx context.Context, kvs ...KeyValue) error {
	_, err := c.Execute(ctx, encodeSetConf(KindSetConf, "SETCONF", kvs))
	return err
}

// ResetConf sends RESETCONF for the given key/value pairs; a nil Value
// applies RESETCONF's setDefault semantics for that keyword.
func (c *Connection) ResetConf(ctx context.Context, kvs ...KeyValue) error {
	_, err := c.Execute(ctx, encodeResetConf(kvs))
	return err
}

// LoadConf sends configText as a LOADCONF data block, dot-stuffed and with
// ControlPort/ControlPortWriteToFile lines stripped.
func (c *Connection) LoadConf(ctx context.Context, configText string) error {
	_, err := c.Execute(ctx, encodeLoadConf(configText))
	return err
}

// SaveConf sends SAVECONF, optionally with FORCE.
func (c *Connection) SaveConf(ctx context.Context, force bool) error {
	_, err := c.Execute(ctx, encodeSaveConf(force))
	return err
}

// GetInfo sends GETINFO for the given keywords and returns the ordered
// key/value entries, with any terminal "OK" framing line dropped.
func (c *Connection) GetInfo(ctx context.Context, keywords ...string) ([]ConfigEntry, error) {
	batch, err := c.Execute(ctx, encodeGetInfo(keywords))
	if err != nil {
		return nil, err
	}
	return decodeGetInfo(batch), nil
}

// AddOnion sends ADD_ONION, validating req first, and decodes the resulting
// service address, private key (if any) and port echoes. When the reply
// echoes no Port= lines, the entry carries the requested ports.
func (c *Connection) AddOnion(ctx context.Context, req AddOnionRequest) (HiddenServiceEntry, error) {
	if err := req.validateRequest(); err != nil {
		return HiddenServiceEntry{}, err
	}
	batch, err := c.Execute(ctx, encodeAddOnion(req))
	if err != nil {
		return HiddenServiceEntry{}, err
	}
	entry, err := decodeAddOnion(batch)
	if err == nil && len(entry.Ports) == 0 {
		entry.Ports = req.Ports
	}
	return entry, err
}

// DelOnion sends DEL_ONION for address.
func (c *Connection) DelOnion(ctx context.Context, address string) error {
	_, err := c.Execute(ctx, encodeDelOnion(address))
	return err
}

// OnionClientAuthAdd sends ONION_CLIENT_AUTH_ADD, validating req first.
func (c *Connection) OnionClientAuthAdd(ctx context.Context, req OnionClientAuthAddRequest) error {
	if err := req.validateRequest(); err != nil {
		return err
	}
	_, err := c.Execute(ctx, encodeOnionClientAuthAdd(req))
	return err
}

// OnionClientAuthRemove sends ONION_CLIENT_AUTH_REMOVE for address.
func (c *Connection) OnionClientAuthRemove(ctx context.Context, address string) error {
	_, err := c.Execute(ctx, encodeOnionClientAuthRemove(address))
	return err
}

// OnionClientAuthView sends ONION_CLIENT_AUTH_VIEW, scoped to address when
// non-empty, and decodes every "CLIENT " reply line.
func (c *Connection) OnionClientAuthView(ctx context.Context, address string) ([]ClientAuthEntry, error) {
	batch, err := c.Execute(ctx, encodeOnionClientAuthView(address))
	if err != nil {
		return nil, err
	}
	return decodeOnionClientAuthView(batch), nil
}

// HSFetch sends HSFETCH for address, optionally scoped to the given
// directory server fingerprints.
func (c *Connection) HSFetch(ctx context.Context, address string, servers ...string) error {
	_, err := c.Execute(ctx, encodeHSFetch(address, servers))
	return err
}

// MapAddress sends MAPADDRESS for the given from=to pairs and decodes the
// resulting mappings; a pair where From == To in the reply is an unmapping.
func (c *Connection) MapAddress(ctx context.Context, mappings ...AddressMappingResult) ([]AddressMappingResult, error) {
	batch, err := c.Execute(ctx, encodeMapAddress(mappings))
	if err != nil {
		return nil, err
	}
	return decodeMapAddress(batch), nil
}

// TakeOwnership sends TAKEOWNERSHIP, binding tor's lifetime to this
// controller connection.
func (c *Connection) TakeOwnership(ctx context.Context) error {
	_, err := c.Execute(ctx, encodeTakeOwnership())
	return err
}

// DropOwnership sends DROPOWNERSHIP, releasing a prior TAKEOWNERSHIP.
func (c *Connection) DropOwnership(ctx context.Context) error {
	_, err := c.Execute(ctx, encodeDropOwnership())
	return err
}

// DropGuards sends DROPGUARDS, discarding the current persistent guard set.
func (c *Connection) DropGuards(ctx context.Context) error {
	_, err := c.Execute(ctx, encodeDropGuards())
	return err
}
