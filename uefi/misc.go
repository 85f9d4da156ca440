// Copyright (c) The go-efi authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

// EFI Boot Services offsets
const (
	getNextMonotonicCount = 0xf0
	stall                 = 0xf8
	setWatchdogTimer      = 0x100
)

const watchdogCode = 0xba3e5e7a1

// Stall calls EFI_BOOT_SERVICES.Stall(), pausing execution for the argument
// number of microseconds.
func (s *BootServices) Stall(microseconds int) (err error) {
	status := s.call(s.base+stall,
		[]uint64{
			uint64(microseconds),
		},
	)

	return parseStatus(status)
}

// SetWatchdogTimer calls EFI_BOOT_SERVICES.SetWatchdogTimer(), a zero
// timeout disables the firmware watchdog.
func (s *BootServices) SetWatchdogTimer(sec int) (err error) {
	status := s.call(s.base+setWatchdogTimer,
		[]uint64{
			uint64(sec),
			watchdogCode,
			0,
			0,
		},
	)

	return parseStatus(status)
}

// GetNextMonotonicCount calls EFI_BOOT_SERVICES.GetNextMonotonicCount().
func (s *BootServices) GetNextMonotonicCount() (count uint64, err error) {
	status := s.call(s.base+getNextMonotonicCount,
		[]uint64{
			ptrval(&count),
		},
	)

	return count, parseStatus(status)
}
