// Copyright (c) The go-efi authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

import (
	"errors"
)

var EFI_LOADED_IMAGE_PROTOCOL_GUID = MustParseGUID("5b1b31a1-9562-11d2-8e3f-00a0c969723b")

const EFI_LOADED_IMAGE_PROTOCOL_REVISION = 0x00001000

// LoadedImage represents the EFI Loaded Image Protocol fixed layout.
type LoadedImage struct {
	Revision        uint32
	_               uint32
	ParentHandle    uint64
	SystemTable     uint64
	DeviceHandle    uint64
	FilePath        uint64
	_               uint64
	LoadOptionsSize uint32
	_               uint32
	LoadOptions     uint64
	ImageBase       uint64
	ImageSize       uint64
	ImageCodeType   uint64
	ImageDataType   uint64
	Unload          uint64
}

// GUID returns the EFI Loaded Image Protocol GUID.
func (LoadedImage) GUID() GUID {
	return EFI_LOADED_IMAGE_PROTOCOL_GUID
}

// LoadedImage resolves the EFI Loaded Image Protocol instance of an image
// handle.
func (s *BootServices) LoadedImage(imageHandle Handle) (image *LoadedImage, err error) {
	p, err := ProtocolForHandle[LoadedImage](s, imageHandle)

	if err != nil {
		return
	}

	image = p.Interface()

	if image.Revision != EFI_LOADED_IMAGE_PROTOCOL_REVISION {
		return nil, errors.New("invalid protocol revision")
	}

	return
}

// LoadedImage resolves the EFI Loaded Image Protocol instance of the running
// image.
func (s *Services) LoadedImage() (image *LoadedImage, err error) {
	return s.Boot.LoadedImage(s.ImageHandle())
}
