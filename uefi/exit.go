// Copyright (c) The go-efi authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

// EFI Boot Services offsets
const (
	exit             = 0xd8
	unloadImage      = 0xe0
	exitBootServices = 0xe8
)

// Exit calls EFI_BOOT_SERVICES.Exit() on the running image.
func (s *BootServices) Exit(code uint64) (err error) {
	status := s.call(s.base+exit,
		[]uint64{
			uint64(s.imageHandle),
			code,
			0,
			0,
		},
	)

	return parseStatus(status)
}

// UnloadImage calls EFI_BOOT_SERVICES.UnloadImage().
func (s *BootServices) UnloadImage(imageHandle Handle) (err error) {
	status := s.call(s.base+unloadImage,
		[]uint64{
			uint64(imageHandle),
		},
	)

	return parseStatus(status)
}

// ExitBootServices calls EFI_BOOT_SERVICES.ExitBootServices() with a freshly
// retrieved memory map key, returning the final memory map on success.
//
// The map key invalidates whenever firmware bookkeeping changes the memory
// map between retrieval and termination, in which case firmware answers
// EFI_INVALID_PARAMETER, the sequence is retried once with a fresh map as
// the UEFI specification allows.
//
// On success firmware boot services are permanently terminated and any
// further use of them is undefined.
func (s *BootServices) ExitBootServices() (m *MemoryMap, err error) {
	for i := 0; i < 2; i++ {
		if m, err = s.GetMemoryMap(); err != nil {
			if err == ErrBufferTooSmall {
				continue
			}

			return nil, err
		}

		status := s.call(s.base+exitBootServices,
			[]uint64{
				uint64(s.imageHandle),
				m.MapKey,
			},
		)

		switch status {
		case EFI_SUCCESS:
			return m, nil
		case EFI_INVALID_PARAMETER:
			// stale map key, re-probe and retry
			err = parseStatus(status)
		default:
			return nil, parseStatus(status)
		}
	}

	return nil, err
}
