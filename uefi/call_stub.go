// Copyright (c) The go-efi authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build !tamago || !amd64

package uefi

// Firmware services can only be invoked when running as an UEFI application
// under `GOOS=tamago`, reaching this gate anywhere else is a programming
// error.
func firmwareCall(fn uint64, args []uint64) Status {
	panic("uefi: EFI services are unavailable on this platform")
}
