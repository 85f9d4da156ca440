// Copyright (c) The go-efi authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

// EFI Runtime Services offset for ResetSystem
const resetSystem = 0x68

// EFI_RESET_TYPE
const (
	EfiResetCold = iota
	EfiResetWarm
	EfiResetShutdown
	EfiResetPlatformSpecific
)

// ResetSystem calls EFI_RUNTIME_SERVICES.ResetSystem(), the call does not
// return on success.
func (s *RuntimeServices) ResetSystem(resetType int) (err error) {
	status := s.call(s.base+resetSystem,
		[]uint64{
			uint64(resetType),
			uint64(EFI_SUCCESS),
			0,
			0,
		},
	)

	return parseStatus(status)
}
