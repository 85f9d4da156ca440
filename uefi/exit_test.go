// Copyright (c) The go-efi authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

import (
	"testing"
)

func TestExitBootServices(t *testing.T) {
	f := newFakeEFI((2 << 16) | 100)

	m := testMap(4)
	f.serveMemoryMap(func() []byte { return m }, testStride, func() uint64 { return 0x42 })

	f.handleBoot(exitBootServices, func(args []uint64) Status {
		if args[0] != 0x8000 {
			t.Errorf("unexpected image handle %#x", args[0])
		}

		if args[1] != 0x42 {
			t.Errorf("unexpected map key %#x", args[1])
		}

		return EFI_SUCCESS
	})

	s := f.services(t)

	memoryMap, err := s.Boot.ExitBootServices()

	if err != nil {
		t.Fatal(err)
	}

	if len(memoryMap.Descriptors) != 4 {
		t.Errorf("expected 4 descriptors, got %d", len(memoryMap.Descriptors))
	}
}

func TestExitBootServicesRetry(t *testing.T) {
	f := newFakeEFI((2 << 16) | 100)

	// the map key changes between retrieval and termination
	key := uint64(0x42)
	attempts := 0

	m := testMap(4)
	f.serveMemoryMap(func() []byte { return m }, testStride, func() uint64 { return key })

	f.handleBoot(exitBootServices, func(args []uint64) Status {
		attempts++

		if args[1] != key {
			t.Errorf("attempt %d: unexpected map key %#x", attempts, args[1])
		}

		if attempts == 1 {
			key = 0x43
			return EFI_INVALID_PARAMETER
		}

		return EFI_SUCCESS
	})

	s := f.services(t)

	memoryMap, err := s.Boot.ExitBootServices()

	if err != nil {
		t.Fatal(err)
	}

	if attempts != 2 {
		t.Errorf("expected a single retry, got %d attempts", attempts)
	}

	if memoryMap.MapKey != 0x43 {
		t.Errorf("expected fresh map key 0x43, got %#x", memoryMap.MapKey)
	}
}

func TestExitBootServicesFailure(t *testing.T) {
	f := newFakeEFI((2 << 16) | 100)

	m := testMap(4)
	f.serveMemoryMap(func() []byte { return m }, testStride, func() uint64 { return 0x42 })

	f.handleBoot(exitBootServices, func(args []uint64) Status {
		return EFI_OUT_OF_RESOURCES
	})

	s := f.services(t)

	if _, err := s.Boot.ExitBootServices(); err != ErrOutOfResources {
		t.Errorf("expected ErrOutOfResources, got %v", err)
	}

	if f.calls[f.bootAddr()+exitBootServices] != 1 {
		t.Errorf("hard failures must not be retried")
	}
}
