// Copyright (c) The go-efi authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

import (
	"encoding/binary"
	"testing"
)

func TestInit(t *testing.T) {
	f := newFakeEFI((2 << 16) | 100)
	s := f.services(t)

	if s.Boot.Revision() != (2<<16)|100 {
		t.Errorf("unexpected boot services revision %#x", s.Boot.Revision())
	}

	if s.Boot.base != f.bootAddr() {
		t.Errorf("boot services table pointer mismatch")
	}

	if s.Runtime.base != f.runAddr() {
		t.Errorf("runtime services table pointer mismatch")
	}

	if s.ImageHandle() != 0x8000 {
		t.Errorf("unexpected image handle %#x", uint64(s.ImageHandle()))
	}

	if s.Address() != f.sysAddr() {
		t.Errorf("unexpected system table pointer %#x", s.Address())
	}

	if s.Console == nil || !s.Console.ForceLine {
		t.Errorf("console must be initialized with line forcing")
	}
}

func TestInitInvalidSystemTable(t *testing.T) {
	f := newFakeEFI((2 << 16) | 100)

	binary.LittleEndian.PutUint64(f.sys[0:], 0xbadc0ffee)

	s := &Services{}

	if err := s.init(0x8000, f.sysAddr(), f.call); err == nil {
		t.Errorf("expected error on invalid system table signature")
	}
}

func TestInitInvalidBootServices(t *testing.T) {
	f := newFakeEFI((2 << 16) | 100)

	binary.LittleEndian.PutUint64(f.boot[0:], 0xbadc0ffee)

	s := &Services{}

	if err := s.init(0x8000, f.sysAddr(), f.call); err == nil {
		t.Errorf("expected error on invalid boot services signature")
	}
}

func TestBootstrapState(t *testing.T) {
	defer func() {
		services = nil
	}()

	services = nil

	func() {
		defer func() {
			if recover() == nil {
				t.Errorf("accessors must panic before Bootstrap()")
			}
		}()

		Boot()
	}()

	f := newFakeEFI((2 << 16) | 100)

	s, err := Bootstrap(0x8000, f.sysAddr())

	if err != nil {
		t.Fatal(err)
	}

	if System() != s.SystemTable || Boot() != s.Boot || Runtime() != s.Runtime {
		t.Errorf("accessors must return the bootstrapped instance")
	}

	if ImageHandle() != 0x8000 {
		t.Errorf("unexpected image handle %#x", uint64(ImageHandle()))
	}

	func() {
		defer func() {
			if recover() == nil {
				t.Errorf("second Bootstrap() must panic")
			}
		}()

		Bootstrap(0x8000, f.sysAddr())
	}()
}
