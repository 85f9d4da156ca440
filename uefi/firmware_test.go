// Copyright (c) The go-efi authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

import (
	"testing"
	"unsafe"
)

// The following helpers access memory handed to the emulated firmware
// through raw pointers, as real firmware would.

func peek64(addr uint64) uint64 {
	return *(*uint64)(unsafe.Pointer(uintptr(addr)))
}

func poke64(addr uint64, val uint64) {
	*(*uint64)(unsafe.Pointer(uintptr(addr))) = val
}

func poke32(addr uint64, val uint32) {
	*(*uint32)(unsafe.Pointer(uintptr(addr))) = val
}

func peekBytes(addr uint64, n int) []byte {
	return append([]byte{}, unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr))), n)...)
}

func pokeBytes(addr uint64, buf []byte) {
	copy(unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr))), len(buf)), buf)
}

type serviceFn func(args []uint64) Status

// fakeEFI emulates the firmware side of the EFI service tables, dispatching
// calls on the address of the invoked function pointer slot as the call gate
// does.
type fakeEFI struct {
	sys  []byte
	boot []byte
	run  []byte

	calls    map[uint64]int
	handlers map[uint64]serviceFn
}

func newFakeEFI(bootRevision uint32) *fakeEFI {
	f := &fakeEFI{
		boot:     make([]byte, 0x200),
		run:      make([]byte, 0x100),
		calls:    make(map[uint64]int),
		handlers: make(map[uint64]serviceFn),
	}

	hdr, _ := marshalBinary(&TableHeader{
		Signature: bootServicesSignature,
		Revision:  bootRevision,
	})
	copy(f.boot, hdr)

	f.sys, _ = marshalBinary(&SystemTable{
		Header: TableHeader{
			Signature: systemTableSignature,
			Revision:  (2 << 16) | 100,
		},
		RuntimeServices: f.runAddr(),
		BootServices:    f.bootAddr(),
	})

	return f
}

func (f *fakeEFI) sysAddr() uint64 {
	return ptrval(&f.sys[0])
}

func (f *fakeEFI) bootAddr() uint64 {
	return ptrval(&f.boot[0])
}

func (f *fakeEFI) runAddr() uint64 {
	return ptrval(&f.run[0])
}

func (f *fakeEFI) handle(slot uint64, fn serviceFn) {
	f.handlers[slot] = fn
}

func (f *fakeEFI) handleBoot(off uint64, fn serviceFn) {
	f.handle(f.bootAddr()+off, fn)
}

func (f *fakeEFI) handleRuntime(off uint64, fn serviceFn) {
	f.handle(f.runAddr()+off, fn)
}

func (f *fakeEFI) call(fn uint64, args []uint64) Status {
	f.calls[fn]++

	if h, ok := f.handlers[fn]; ok {
		return h(args)
	}

	return EFI_UNSUPPORTED
}

func (f *fakeEFI) services(t *testing.T) *Services {
	t.Helper()

	s := &Services{}

	if err := s.init(0x8000, f.sysAddr(), f.call); err != nil {
		t.Fatalf("could not initialize services, %v", err)
	}

	return s
}

// descBytes serializes a memory descriptor at the argument stride, which may
// exceed the nominal structure size as it does on real firmware.
func descBytes(typ uint32, start uint64, pages uint64, stride int) []byte {
	buf, _ := marshalBinary(&MemoryDescriptor{
		Type:          typ,
		PhysicalStart: start,
		NumberOfPages: pages,
		Attribute:     0xf,
	})

	for len(buf) < stride {
		buf = append(buf, 0x00)
	}

	return buf
}

// serveMemoryMap registers a GetMemoryMap() handler over the argument
// serialized map, honoring the probe and fill contract.
func (f *fakeEFI) serveMemoryMap(m func() []byte, stride uint64, key func() uint64) {
	f.handleBoot(getMemoryMap, func(args []uint64) Status {
		buf := m()
		size := peek64(args[0])

		poke64(args[0], uint64(len(buf)))
		poke64(args[2], key())
		poke64(args[3], stride)
		poke32(args[4], 1)

		if args[1] == 0 || size < uint64(len(buf)) {
			return EFI_BUFFER_TOO_SMALL
		}

		pokeBytes(args[1], buf)

		return EFI_SUCCESS
	})
}
