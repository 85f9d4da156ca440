// Copyright (c) The go-efi authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

import (
	"testing"
)

func TestAllocatePages(t *testing.T) {
	f := newFakeEFI((2 << 16) | 100)

	f.handleBoot(allocatePages, func(args []uint64) Status {
		if args[0] != AllocateAnyPages || args[1] != EfiLoaderData {
			t.Errorf("unexpected allocation arguments %#x, %#x", args[0], args[1])
		}

		// sizes are expressed in bytes, firmware takes pages
		if args[2] != 16 {
			t.Errorf("expected 16 pages, got %d", args[2])
		}

		poke64(args[3], 0x10000000)

		return EFI_SUCCESS
	})

	s := f.services(t)

	addr, err := s.Boot.AllocatePages(AllocateAnyPages, EfiLoaderData, 16*PageSize, 0)

	if err != nil {
		t.Fatal(err)
	}

	if addr != 0x10000000 {
		t.Errorf("unexpected allocation address %#x", addr)
	}
}

func TestAllocatePagesAddress(t *testing.T) {
	f := newFakeEFI((2 << 16) | 100)

	f.handleBoot(allocatePages, func(args []uint64) Status {
		// fixed allocations pass the requested address in
		if got := peek64(args[3]); got != 0x20000000 {
			t.Errorf("expected requested address %#x, got %#x", 0x20000000, got)
		}

		return EFI_SUCCESS
	})

	s := f.services(t)

	addr, err := s.Boot.AllocatePages(AllocateAddress, EfiLoaderData, PageSize, 0x20000000)

	if err != nil {
		t.Fatal(err)
	}

	if addr != 0x20000000 {
		t.Errorf("unexpected allocation address %#x", addr)
	}
}

func TestAllocatePagesExhausted(t *testing.T) {
	f := newFakeEFI((2 << 16) | 100)

	f.handleBoot(allocatePages, func(args []uint64) Status {
		return EFI_OUT_OF_RESOURCES
	})

	s := f.services(t)

	if _, err := s.Boot.AllocatePages(AllocateAnyPages, EfiLoaderData, PageSize, 0); err != ErrOutOfResources {
		t.Errorf("expected ErrOutOfResources, got %v", err)
	}
}

func TestAllocatePool(t *testing.T) {
	f := newFakeEFI((2 << 16) | 100)

	f.handleBoot(allocatePool, func(args []uint64) Status {
		if args[0] != EfiBootServicesData || args[1] != 0x1000 {
			t.Errorf("unexpected pool arguments %#x, %#x", args[0], args[1])
		}

		poke64(args[2], 0x30000000)

		return EFI_SUCCESS
	})

	f.handleBoot(freePool, func(args []uint64) Status {
		if args[0] != 0x30000000 {
			t.Errorf("unexpected pool address %#x", args[0])
		}

		return EFI_SUCCESS
	})

	s := f.services(t)

	addr, err := s.Boot.AllocatePool(EfiBootServicesData, 0x1000)

	if err != nil {
		t.Fatal(err)
	}

	if addr != 0x30000000 {
		t.Errorf("unexpected pool address %#x", addr)
	}

	if err = s.Boot.FreePool(addr); err != nil {
		t.Fatal(err)
	}
}
