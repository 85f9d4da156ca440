// Copyright (c) The go-efi authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

import (
	"errors"
)

// EFI Boot Services offsets
const (
	loadImage  = 0xc8
	startImage = 0xd0
)

// LoadImage calls EFI_BOOT_SERVICES.LoadImage() with a memory source buffer,
// the loaded image is parented to the running one.
func (s *BootServices) LoadImage(bootPolicy bool, image []byte) (imageHandle Handle, err error) {
	var policy uint64
	var handle uint64

	if len(image) == 0 {
		return 0, errors.New("empty image")
	}

	if bootPolicy {
		policy = 1
	}

	status := s.call(s.base+loadImage,
		[]uint64{
			policy,
			uint64(s.imageHandle),
			0,
			ptrval(&image[0]),
			uint64(len(image)),
			ptrval(&handle),
		},
	)

	return Handle(handle), parseStatus(status)
}

// StartImage calls EFI_BOOT_SERVICES.StartImage().
func (s *BootServices) StartImage(imageHandle Handle) (err error) {
	status := s.call(s.base+startImage,
		[]uint64{
			uint64(imageHandle),
			0,
			0,
		},
	)

	return parseStatus(status)
}
