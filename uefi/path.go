// Copyright (c) The go-efi authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/usbarmory/tamago/dma"
)

const (
	pathBufferSize = (1 << 16)
	maxPathDepth   = 16
)

// DevicePathNode represents an EFI Generic Device Path Node structure.
type DevicePathNode struct {
	Type    uint8
	SubType uint8
	Length  uint16
}

// Bytes converts the descriptor structure to byte array format.
func (d *DevicePathNode) Bytes() []byte {
	buf := new(bytes.Buffer)

	binary.Write(buf, binary.LittleEndian, d.Type)
	binary.Write(buf, binary.LittleEndian, d.SubType)
	binary.Write(buf, binary.LittleEndian, d.Length)

	return buf.Bytes()
}

// DevicePath represents an EFI Device Path Protocol node.
type DevicePath struct {
	DevicePathNode
	Data []byte
}

// ParseDevicePath parses the EFI Device Path at the argument pointer up to
// its terminator node, returning the parsed nodes along with their raw
// serialization.
//
// Parsing is performed locally rather than through firmware device path
// utilities as UEFI firmware does not handle invalid pointers gracefully
// (e.g. DoS condition).
func ParseDevicePath(addr uint64) (devicePath []*DevicePath, desc []byte, err error) {
	off := uint(0)

	r, err := dma.NewRegion(uint(addr), pathBufferSize, false)

	if err != nil {
		return
	}

	ptr, buf := r.Reserve(pathBufferSize, 0)
	defer r.Release(ptr)

	d := &DevicePath{}

	for i := 0; i <= maxPathDepth; i++ {
		if i == maxPathDepth {
			return nil, nil, errors.New("device path nodes limit exceeded")
		}

		node := &DevicePathNode{}

		if err = unmarshalBinary(buf[off:off+4], node); err != nil {
			return nil, nil, err
		}

		if node.Type == 0x7f && // End of Hardware Device Path
			node.SubType == 0xff { // End Entire Device Path
			break
		}

		if node.Length < 4 || node.Length > 0xff {
			return nil, nil, errors.New("invalid length")
		}

		off += 4

		d.Type = node.Type
		d.SubType = node.SubType
		d.Length = node.Length

		dataSize := uint(d.Length - 4)
		d.Data = make([]byte, dataSize)

		copy(d.Data, buf[off:off+dataSize])
		off += dataSize

		devicePath = append(devicePath, d)
		d = &DevicePath{}
	}

	desc = make([]byte, off)
	copy(desc, buf)

	return
}

// DevicePath returns the parsed EFI Device Path of the loaded image source
// medium.
func (image *LoadedImage) DevicePath() (devicePath []*DevicePath, desc []byte, err error) {
	if image.FilePath == 0 {
		return nil, nil, errors.New("loaded image carries no device path")
	}

	return ParseDevicePath(image.FilePath)
}

// FilePath represents an EFI File Path Media Device Path instance.
type FilePath struct {
	DevicePathNode
	PathName []byte
}

// Bytes converts the descriptor structure to byte array format.
func (d *FilePath) Bytes() []byte {
	return append(d.DevicePathNode.Bytes(), d.PathName...)
}

// NewFilePath builds a single node EFI File Path Media Device Path for the
// argument path, terminated as a complete device path.
func NewFilePath(name string) (filePath *FilePath, desc []byte) {
	pathName := toUTF16(name)

	filePath = &FilePath{
		PathName: pathName,
	}

	filePath.Type = 0x04    // Media Device Path
	filePath.SubType = 0x04 // File Path
	filePath.Length = uint16(4 + len(pathName))

	devicePathEnd := &DevicePathNode{
		Type:    0x7f, // End of Hardware Device Path
		SubType: 0xff, // End Entire Device Path
		Length:  4,
	}

	desc = append(desc, filePath.Bytes()...)
	desc = append(desc, devicePathEnd.Bytes()...)

	return
}
