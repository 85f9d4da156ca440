// Copyright (c) The go-efi authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

import (
	"errors"

	"github.com/u-root/u-root/pkg/boot/bzimage"
)

// EFI Boot Services offsets
const getMemoryMap = 0x38

// headroom, in descriptors, added over the probed size to absorb map growth
// caused by firmware bookkeeping between the two calls
const mapSlack = 2

// Advanced Configuration and Power Interface Specification (ACPI)
// Version 6.0 - Table 15-312 Address Range Types12
const AddressRangePersistentMemory = 7

// PageSize represents the EFI page size in bytes
const PageSize = 4096 // 4 KiB

// MemoryDescriptor represents an EFI Memory Descriptor.
//
// The in-memory stride of firmware returned descriptors is the one reported
// by the firmware, which can exceed the nominal structure size, descriptors
// must therefore never be indexed by the size of this type.
type MemoryDescriptor struct {
	Type          uint32
	_             uint32
	PhysicalStart uint64
	VirtualStart  uint64
	NumberOfPages uint64
	Attribute     uint64
}

// PhysicalEnd returns the descriptor physical end address.
func (d *MemoryDescriptor) PhysicalEnd() uint64 {
	return d.PhysicalStart + d.NumberOfPages*PageSize
}

// Size returns the descriptor size.
func (d *MemoryDescriptor) Size() int {
	return int(d.NumberOfPages * PageSize)
}

// E820 converts an EFI Memory Map entry to an x86 E820 one suitable for use
// after exiting EFI Boot Services.
func (d *MemoryDescriptor) E820() (bzimage.E820Entry, error) {
	e := bzimage.E820Entry{
		Addr: d.PhysicalStart,
		Size: d.NumberOfPages * PageSize,
	}

	// Unified Extensible Firmware Interface (UEFI) Specification
	// Version 2.10 - Table 7.10: Memory Type Usage after ExitBootServices()
	switch d.Type {
	case EfiLoaderCode, EfiLoaderData, EfiBootServicesCode, EfiBootServicesData, EfiConventionalMemory:
		e.MemType = bzimage.RAM
	case EfiPersistentMemory:
		e.MemType = AddressRangePersistentMemory
	case EfiACPIReclaimMemory:
		e.MemType = bzimage.ACPI
	case EfiACPIMemoryNVS:
		e.MemType = bzimage.NVS
	default:
		e.MemType = bzimage.Reserved
	}

	return e, nil
}

// MemoryMapInfo represents the result of an EFI Memory Map size probe.
type MemoryMapInfo struct {
	MapSize           uint64
	MapKey            uint64
	DescriptorSize    uint64
	DescriptorVersion uint32
}

// MemoryMap represents an EFI Memory Map
type MemoryMap struct {
	MapSize           uint64
	Descriptors       []*MemoryDescriptor
	MapKey            uint64
	DescriptorSize    uint64
	DescriptorVersion uint32

	buf []byte
}

// Address returns the EFI Memory Map pointer.
func (m *MemoryMap) Address() uint64 {
	return ptrval(&m.buf[0])
}

// GetMemoryMapInfo calls EFI_BOOT_SERVICES.GetMemoryMap() with a zero sized
// buffer, probing the required buffer size, descriptor stride and current map
// key without transferring any descriptor.
//
// The probe succeeds on EFI_BUFFER_TOO_SMALL, which is the expected firmware
// answer to an undersized buffer, any other error is returned as such.
func (s *BootServices) GetMemoryMapInfo() (info *MemoryMapInfo, err error) {
	info = &MemoryMapInfo{}

	status := s.call(s.base+getMemoryMap,
		[]uint64{
			ptrval(&info.MapSize),
			0,
			ptrval(&info.MapKey),
			ptrval(&info.DescriptorSize),
			ptrval(&info.DescriptorVersion),
		},
	)

	switch status {
	case EFI_BUFFER_TOO_SMALL:
		return info, nil
	case EFI_SUCCESS:
		// a zero sized map violates the firmware memory contract
		panic("uefi: GetMemoryMap() succeeded on a zero sized buffer")
	default:
		return nil, parseStatus(status)
	}
}

// GetMemoryMap calls EFI_BOOT_SERVICES.GetMemoryMap(), probing the required
// size first and then filling a caller allocated buffer sized with headroom
// for map growth occurring between the two calls.
//
// ErrBufferTooSmall is returned when the map outgrows the headroom as well,
// the condition is transient and callers may simply retry.
//
// Descriptors are parsed at the firmware reported stride, which takes
// precedence over the nominal descriptor size.
func (s *BootServices) GetMemoryMap() (m *MemoryMap, err error) {
	info, err := s.GetMemoryMapInfo()

	if err != nil {
		return
	}

	if info.DescriptorSize == 0 {
		return nil, errors.New("invalid descriptor size")
	}

	size := info.MapSize + mapSlack*info.DescriptorSize

	m = &MemoryMap{
		MapSize:        size,
		DescriptorSize: info.DescriptorSize,
		buf:            make([]byte, size),
	}

	status := s.call(s.base+getMemoryMap,
		[]uint64{
			ptrval(&m.MapSize),
			ptrval(&m.buf[0]),
			ptrval(&m.MapKey),
			ptrval(&m.DescriptorSize),
			ptrval(&m.DescriptorVersion),
		},
	)

	switch {
	case status == EFI_BUFFER_TOO_SMALL:
		return nil, ErrBufferTooSmall
	case status != EFI_SUCCESS:
		return nil, parseStatus(status)
	}

	if m.MapSize == 0 || m.DescriptorSize == 0 {
		panic("uefi: GetMemoryMap() returned an empty memory map")
	}

	for i := uint64(0); i+m.DescriptorSize <= m.MapSize; i += m.DescriptorSize {
		d := &MemoryDescriptor{}

		if err = unmarshalBinary(m.buf[i:], d); err != nil {
			return nil, err
		}

		m.Descriptors = append(m.Descriptors, d)
	}

	return
}
