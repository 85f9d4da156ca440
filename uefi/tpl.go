// Copyright (c) The go-efi authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

// EFI Boot Services offsets
const (
	raiseTPL   = 0x18
	restoreTPL = 0x20
)

// TPL represents an EFI Task Priority Level.
type TPL uint64

// EFI_TPL levels
const (
	TPLApplication TPL = 4
	TPLCallback    TPL = 8
	TPLNotify      TPL = 16
	TPLHighLevel   TPL = 31
)

// RaiseTPL calls EFI_BOOT_SERVICES.RaiseTPL(), the previous task priority
// level is returned rather than a status code.
//
// Raise and restore operations must be paired in strictly nested order,
// restoring out of order corrupts the firmware internal priority stack with
// undefined results, no nesting discipline is enforced at this layer.
func (s *BootServices) RaiseTPL(tpl TPL) (previous TPL) {
	return TPL(s.call(s.base+raiseTPL,
		[]uint64{
			uint64(tpl),
		},
	))
}

// RestoreTPL calls EFI_BOOT_SERVICES.RestoreTPL().
func (s *BootServices) RestoreTPL(tpl TPL) {
	s.call(s.base+restoreTPL,
		[]uint64{
			uint64(tpl),
		},
	)
}
