// Copyright (c) The go-efi authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

import (
	"io"
	"unicode/utf16"
)

// EFI Simple Text Input/Output Protocol GUIDs
var (
	EFI_SIMPLE_TEXT_INPUT_PROTOCOL_GUID  = MustParseGUID("387477c1-69c7-11d2-8e39-00a0c969723b")
	EFI_SIMPLE_TEXT_OUTPUT_PROTOCOL_GUID = MustParseGUID("387477c2-69c7-11d2-8e39-00a0c969723b")
)

const (
	// EFI ConOut offsets
	outputString = 0x08
	clearScreen  = 0x30
	// EFI ConIn offset for ReadKeyStroke
	readKeyStroke = 0x08
)

// SimpleTextInput represents the EFI Simple Text Input Protocol fixed layout.
type SimpleTextInput struct {
	Reset         uint64
	ReadKeyStroke uint64
	WaitForKey    uint64
}

// GUID returns the EFI Simple Text Input Protocol GUID.
func (SimpleTextInput) GUID() GUID {
	return EFI_SIMPLE_TEXT_INPUT_PROTOCOL_GUID
}

// SimpleTextOutput represents the EFI Simple Text Output Protocol fixed
// layout.
type SimpleTextOutput struct {
	Reset             uint64
	OutputString      uint64
	TestString        uint64
	QueryMode         uint64
	SetMode           uint64
	SetAttribute      uint64
	ClearScreen       uint64
	SetCursorPosition uint64
	EnableCursor      uint64
	Mode              uint64
}

// GUID returns the EFI Simple Text Output Protocol GUID.
func (SimpleTextOutput) GUID() GUID {
	return EFI_SIMPLE_TEXT_OUTPUT_PROTOCOL_GUID
}

// InputKey represents an EFI Input Key descriptor.
type InputKey struct {
	ScanCode    uint16
	UnicodeChar [2]byte
}

// Console implements the [io.ReadWriter] interface over the EFI Simple Text
// Input/Output protocol instances referenced by the EFI System Table.
type Console struct {
	io.ReadWriter

	// ForceLine controls whether line feeds (LF) should be supplemented
	// with a carriage return (CR).
	ForceLine bool

	// ReplaceTabs controls whether Console I/O output should have Tab
	// characters replaced with a number of spaces.
	ReplaceTabs int

	// In is the EFI Simple Text Input Protocol instance pointer.
	In uint64

	// Out is the EFI Simple Text Output Protocol instance pointer.
	Out uint64

	call callFn
}

// gate returns the console firmware call gate, a zero value Console is
// usable for early output before Bootstrap() and goes straight to firmware.
func (c *Console) gate() callFn {
	if c.call == nil {
		return firmwareCall
	}

	return c.call
}

// Input calls EFI_SIMPLE_TEXT_INPUT_PROTOCOL.ReadKeyStroke(), returning its
// raw status.
func (c *Console) Input(k *InputKey) (status Status) {
	if c.In == 0 {
		return
	}

	return c.gate()(c.In+readKeyStroke,
		[]uint64{
			c.In,
			ptrval(k),
		},
	)
}

// Output calls EFI_SIMPLE_TEXT_OUTPUT_PROTOCOL.OutputString(), returning its
// raw status, the argument buffer must hold a NUL terminated UTF-16 string
// and is terminated when it is not.
func (c *Console) Output(p []byte) (status Status) {
	if len(p) < 2 || p[len(p)-2] != 0x00 || p[len(p)-1] != 0x00 {
		p = append(p, []byte{0x00, 0x00}...)
	}

	if c.Out == 0 {
		return
	}

	return c.gate()(c.Out+outputString,
		[]uint64{
			c.Out,
			ptrval(&p[0]),
		},
	)
}

// ClearScreen calls EFI_SIMPLE_TEXT_OUTPUT_PROTOCOL.ClearScreen().
func (c *Console) ClearScreen() (err error) {
	if c.Out == 0 {
		return
	}

	status := c.gate()(c.Out+clearScreen,
		[]uint64{
			c.Out,
		},
	)

	return parseStatus(status)
}

// Read available data to buffer from console, a read on an idle console
// returns zero bytes rather than blocking.
//
// Keystrokes are 16-bit units, a buffer without room for a full unit is left
// untouched.
func (c *Console) Read(p []byte) (n int, err error) {
	k := &InputKey{}

	for n = 0; n+1 < len(p); n += 2 {
		status := c.Input(k)

		switch status {
		case EFI_SUCCESS:
			copy(p[n:], k.UnicodeChar[:])
		case EFI_NOT_READY:
			return
		default:
			return n, parseStatus(status)
		}
	}

	return
}

// Write data from buffer to console.
func (c *Console) Write(p []byte) (n int, err error) {
	var s []byte

	if len(p) == 0 {
		return
	}

	// we receive an UTF-8 string but can output only UTF-16 ones
	b := utf16.Encode([]rune(string(p)))

	for _, r := range b {
		if r == 0x09 && c.ReplaceTabs > 0 { // Tab
			for i := 0; i < c.ReplaceTabs; i++ {
				s = append(s, []byte{0x20, 0x00}...) // Space
			}
			continue
		}

		s = append(s, byte(r&0xff))
		s = append(s, byte(r>>8))

		if r == 0x0a && c.ForceLine { // LF
			s = append(s, []byte{0x0d, 0x00}...) // CR
		}
	}

	if status := c.Output(s); status != EFI_SUCCESS {
		return n, parseStatus(status)
	}

	return len(p), nil
}
