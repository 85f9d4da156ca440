// Copyright (c) The go-efi authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

import (
	"unsafe"
)

// callFn invokes the EFI service function pointer stored at the 64-bit slot
// pointed by fn, with the given arguments, returning its EFI Status Code.
//
// The slot indirection allows both table dispatch (table base + fixed byte
// offset) and dispatch through decoded protocol structures (address of a
// decoded function pointer field).
type callFn func(fn uint64, args []uint64) Status

// This function helps preparing callFn arguments, allowing a single call
// for all EFI services.
//
// Obtaining a pointer in this fashion is typically unsafe and tamago/dma
// package would be best to handle this. However, as arguments are prepared
// right before invoking the service, it is considered safe as it is identical
// as having *uint64 as callFn prototype.
func ptrval(ptr any) uint64 {
	var p unsafe.Pointer

	switch v := ptr.(type) {
	case *uint64:
		p = unsafe.Pointer(v)
	case *uint32:
		p = unsafe.Pointer(v)
	case *uint16:
		p = unsafe.Pointer(v)
	case *byte:
		p = unsafe.Pointer(v)
	case *InputKey:
		p = unsafe.Pointer(v)
	default:
		panic("internal error, invalid ptrval")
	}

	return uint64(uintptr(p))
}
