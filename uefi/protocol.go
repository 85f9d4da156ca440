// Copyright (c) The go-efi authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

import (
	"encoding/binary"
)

// EFI Boot Services offsets
const (
	handleProtocol = 0x098
	locateHandle   = 0x0b0
	locateProtocol = 0x140
)

// EFI_LOCATE_SEARCH_TYPE
const (
	allHandles = iota
	byRegisterNotify
	byProtocol
)

// size of an EFI_HANDLE within firmware returned handle buffers
const handleSize = 8

// Protocol is implemented by fixed layout structures which declare the
// single constant GUID they are resolvable through.
type Protocol interface {
	GUID() GUID
}

// Proto associates a firmware interface pointer with its declared layout P,
// it is only constructed by resolution calls, the pointee remains firmware
// owned.
type Proto[P Protocol] struct {
	addr   uint64
	layout P

	call callFn
}

// Addr returns the protocol interface pointer.
func (p *Proto[P]) Addr() uint64 {
	return p.addr
}

// Interface returns the decoded protocol interface layout.
func (p *Proto[P]) Interface() *P {
	return &p.layout
}

// bindProtocol is the single point reinterpreting an untyped interface
// pointer as a declared layout, the firmware association between GUID and
// layout is trusted and not verified.
func bindProtocol[P Protocol](s *BootServices, addr uint64) (p *Proto[P], err error) {
	p = &Proto[P]{
		addr: addr,
		call: s.call,
	}

	if err = decode(&p.layout, addr); err != nil {
		return nil, err
	}

	return
}

// HandleProtocol calls EFI_BOOT_SERVICES.HandleProtocol(), resolving the
// interface implementing guid on a specific handle.
//
// ErrUnsupported is returned when the handle does not implement guid.
func (s *BootServices) HandleProtocol(handle Handle, guid GUID) (addr uint64, err error) {
	status := s.call(s.base+handleProtocol,
		[]uint64{
			uint64(handle),
			guid.ptrval(),
			ptrval(&addr),
		},
	)

	return addr, parseStatus(status)
}

// LocateProtocol calls EFI_BOOT_SERVICES.LocateProtocol(), resolving a
// system wide interface implementing guid.
//
// ErrNotFound is returned when no handle implements guid.
func (s *BootServices) LocateProtocol(guid GUID) (addr uint64, err error) {
	status := s.call(s.base+locateProtocol,
		[]uint64{
			guid.ptrval(),
			0,
			ptrval(&addr),
		},
	)

	return addr, parseStatus(status)
}

// HandlesByProtocol calls EFI_BOOT_SERVICES.LocateHandle() with a ByProtocol
// search, enumerating all handles implementing guid in firmware order.
//
// The enumeration probes the required buffer size first, ErrNotFound is
// returned when no handle implements guid, ErrBufferTooSmall when the handle
// set grows between probe and fill, the latter condition is transient and
// callers may simply retry.
func (s *BootServices) HandlesByProtocol(guid GUID) (handles []Handle, err error) {
	var size uint64

	status := s.call(s.base+locateHandle,
		[]uint64{
			byProtocol,
			guid.ptrval(),
			0,
			ptrval(&size),
			0,
		},
	)

	switch status {
	case EFI_BUFFER_TOO_SMALL:
		// expected, size now holds the required buffer size
	case EFI_SUCCESS:
		// a successful probe on a zero sized buffer is a firmware bug
		panic("uefi: LocateHandle() succeeded on a zero sized buffer")
	default:
		return nil, parseStatus(status)
	}

	if size%handleSize != 0 {
		size += handleSize - size%handleSize
	}

	buf := make([]byte, size)

	status = s.call(s.base+locateHandle,
		[]uint64{
			byProtocol,
			guid.ptrval(),
			0,
			ptrval(&size),
			ptrval(&buf[0]),
		},
	)

	if status == EFI_BUFFER_TOO_SMALL {
		return nil, ErrBufferTooSmall
	}

	if err = parseStatus(status); err != nil {
		return
	}

	for i := uint64(0); i+handleSize <= size; i += handleSize {
		handles = append(handles, Handle(binary.LittleEndian.Uint64(buf[i:])))
	}

	return
}

// ProtocolForHandle resolves the interface implementing the layout GUID on a
// specific handle and binds it to its declared layout.
func ProtocolForHandle[P Protocol](s *BootServices, handle Handle) (p *Proto[P], err error) {
	var zero P

	addr, err := s.HandleProtocol(handle, zero.GUID())

	if err != nil {
		return
	}

	return bindProtocol[P](s, addr)
}

// FirstProtocol resolves one system wide interface implementing the layout
// GUID and binds it to its declared layout.
//
// Boot services tables at revision 1.10 or later resolve through
// EFI_BOOT_SERVICES.LocateProtocol(), older firmware lacks it and falls back
// to enumerating the implementing handles and resolving the first one, in
// either case the choice among multiple implementing handles follows
// firmware order and is otherwise unspecified.
func FirstProtocol[P Protocol](s *BootServices) (p *Proto[P], err error) {
	var zero P

	guid := zero.GUID()

	if s.revision >= revisionEFI_1_10 {
		addr, err := s.LocateProtocol(guid)

		if err != nil {
			return nil, err
		}

		return bindProtocol[P](s, addr)
	}

	handles, err := s.HandlesByProtocol(guid)

	if err != nil {
		return
	}

	return ProtocolForHandle[P](s, handles[0])
}
