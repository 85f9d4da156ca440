// Copyright (c) The go-efi authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build tamago && amd64

package uefi

import (
	"sync"
)

// Firmware assumes a single caller at boot services time, serialize calls
// across goroutines.
var mux sync.Mutex

// defined in efi.s
func efiCall(fn uint64, n int, args []uint64) (status uint64)

// firmwareCall invokes EFI services through the x64 calling convention
// trampoline.
func firmwareCall(fn uint64, args []uint64) Status {
	mux.Lock()
	defer mux.Unlock()

	return Status(efiCall(fn, len(args), args))
}
