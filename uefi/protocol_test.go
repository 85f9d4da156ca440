// Copyright (c) The go-efi authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

import (
	"bytes"
	"encoding/binary"
	"runtime"
	"testing"
)

var echoGUID = MustParseGUID("c9e5c9a2-6c35-4c5e-9a0f-6f1d55f05a11")

// echoProto is a minimal protocol layout for resolution tests.
type echoProto struct {
	Ping  uint64
	Magic uint64
}

func (echoProto) GUID() GUID {
	return echoGUID
}

func (f *fakeEFI) serveHandles(guid GUID, handles []Handle) {
	f.handleBoot(locateHandle, func(args []uint64) Status {
		if args[0] != byProtocol {
			return EFI_INVALID_PARAMETER
		}

		if got := peekBytes(args[1], 16); !bytes.Equal(got, guid[:]) {
			return EFI_NOT_FOUND
		}

		if len(handles) == 0 {
			return EFI_NOT_FOUND
		}

		need := uint64(len(handles) * handleSize)
		size := peek64(args[3])

		poke64(args[3], need)

		if args[4] == 0 || size < need {
			return EFI_BUFFER_TOO_SMALL
		}

		var buf []byte

		for _, h := range handles {
			buf = binary.LittleEndian.AppendUint64(buf, uint64(h))
		}

		pokeBytes(args[4], buf)

		return EFI_SUCCESS
	})
}

func (f *fakeEFI) serveInterface(guid GUID, handle Handle, addr uint64) {
	f.handleBoot(handleProtocol, func(args []uint64) Status {
		if Handle(args[0]) != handle {
			return EFI_INVALID_PARAMETER
		}

		if got := peekBytes(args[1], 16); !bytes.Equal(got, guid[:]) {
			return EFI_UNSUPPORTED
		}

		poke64(args[2], addr)

		return EFI_SUCCESS
	})

	f.handleBoot(locateProtocol, func(args []uint64) Status {
		if got := peekBytes(args[0], 16); !bytes.Equal(got, guid[:]) {
			return EFI_NOT_FOUND
		}

		poke64(args[2], addr)

		return EFI_SUCCESS
	})
}

func TestHandlesByProtocol(t *testing.T) {
	f := newFakeEFI((2 << 16) | 100)

	expected := []Handle{0x1000, 0x2000, 0x3000}
	f.serveHandles(echoGUID, expected)

	s := f.services(t)

	handles, err := s.Boot.HandlesByProtocol(echoGUID)

	if err != nil {
		t.Fatal(err)
	}

	if len(handles) != len(expected) {
		t.Fatalf("expected %d handles, got %d", len(expected), len(handles))
	}

	for i, h := range handles {
		if h != expected[i] {
			t.Errorf("handle %d: expected %#x, got %#x", i, uint64(expected[i]), uint64(h))
		}
	}
}

func TestHandlesByProtocolZeroSize(t *testing.T) {
	f := newFakeEFI((2 << 16) | 100)

	// a firmware claiming success on the zero sized sizing call is broken
	f.handleBoot(locateHandle, func(args []uint64) Status {
		return EFI_SUCCESS
	})

	s := f.services(t)

	defer func() {
		if recover() == nil {
			t.Errorf("expected panic on zero sized buffer success")
		}
	}()

	s.Boot.HandlesByProtocol(echoGUID)
}

func TestHandlesByProtocolNotFound(t *testing.T) {
	f := newFakeEFI((2 << 16) | 100)
	f.serveHandles(echoGUID, nil)

	s := f.services(t)

	if _, err := s.Boot.HandlesByProtocol(echoGUID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestHandleProtocolUnsupported(t *testing.T) {
	f := newFakeEFI((2 << 16) | 100)
	f.serveInterface(echoGUID, 0x1000, 0xdead0000)

	s := f.services(t)

	// an implementing handle resolves, a foreign one fails distinctly
	other := MustParseGUID("00000000-0000-0000-0000-000000000001")

	if _, err := s.Boot.HandleProtocol(0x1000, other); err != ErrUnsupported {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestFirstProtocol(t *testing.T) {
	f := newFakeEFI((2 << 16) | 100)

	iface, _ := marshalBinary(&echoProto{Ping: 0xdeadbeef, Magic: 0x1234})
	addr := ptrval(&iface[0])

	f.serveInterface(echoGUID, 0x1000, addr)

	s := f.services(t)

	p, err := FirstProtocol[echoProto](s.Boot)

	if err != nil {
		t.Fatal(err)
	}

	if p.Addr() != addr {
		t.Errorf("expected interface pointer %#x, got %#x", addr, p.Addr())
	}

	if e := p.Interface(); e.Ping != 0xdeadbeef || e.Magic != 0x1234 {
		t.Errorf("unexpected decoded layout %+v", e)
	}

	// revision 2.x resolves through LocateProtocol(), not enumeration
	if f.calls[f.bootAddr()+locateProtocol] == 0 {
		t.Errorf("expected LocateProtocol() dispatch")
	}

	if f.calls[f.bootAddr()+locateHandle] != 0 {
		t.Errorf("unexpected LocateHandle() dispatch")
	}

	runtime.KeepAlive(iface)
}

func TestFirstProtocolFallback(t *testing.T) {
	// boot services predating revision 1.10 lack LocateProtocol()
	f := newFakeEFI((1 << 16) | 2)

	iface, _ := marshalBinary(&echoProto{Ping: 0xcafe, Magic: 0x5678})
	addr := ptrval(&iface[0])

	f.serveHandles(echoGUID, []Handle{0x1000, 0x2000})
	f.serveInterface(echoGUID, 0x1000, addr)

	// fallback must never reach the LocateProtocol() slot
	f.handleBoot(locateProtocol, func(args []uint64) Status {
		t.Errorf("unexpected LocateProtocol() dispatch on revision 1.02")
		return EFI_UNSUPPORTED
	})

	s := f.services(t)

	p, err := FirstProtocol[echoProto](s.Boot)

	if err != nil {
		t.Fatal(err)
	}

	if e := p.Interface(); e.Ping != 0xcafe {
		t.Errorf("unexpected decoded layout %+v", e)
	}

	// the fallback resolves the first handle in firmware order
	direct, err := ProtocolForHandle[echoProto](s.Boot, 0x1000)

	if err != nil {
		t.Fatal(err)
	}

	if direct.Addr() != p.Addr() || *direct.Interface() != *p.Interface() {
		t.Errorf("fallback and direct resolution disagree")
	}

	runtime.KeepAlive(iface)
}

func TestFirstProtocolNotFound(t *testing.T) {
	f := newFakeEFI((2 << 16) | 100)

	f.handleBoot(locateProtocol, func(args []uint64) Status {
		return EFI_NOT_FOUND
	})

	s := f.services(t)

	if _, err := FirstProtocol[echoProto](s.Boot); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
