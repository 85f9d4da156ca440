// Copyright (c) The go-efi authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package uefi implements a driver for the Unified Extensible Firmware
// Interface (UEFI) following the specifications at:
//
//	https://uefi.org/specs/UEFI/2.10/
//
// The package provides service table resolution and enumeration: locating
// protocol interfaces by GUID, sized firmware queries through caller
// allocated buffers (canonically the memory map) and EFI Status Code
// classification for every firmware call.
//
// Firmware calls are only meant to be used with `GOOS=tamago` as supported by
// the TamaGo framework for bare metal Go, see
// https://github.com/usbarmory/tamago.
package uefi

import (
	"errors"
	"fmt"

	"github.com/usbarmory/tamago/dma"
)

// upper bound for firmware vendor string reads
const maxVendorSize = 64

// EFI Table Header Signatures
const (
	systemTableSignature  = 0x5453595320494249 // IBI SYST
	bootServicesSignature = 0x56524553544f4f42 // BOOTSERV
)

// Boot services table revision introducing EFI_BOOT_SERVICES.LocateProtocol()
const revisionEFI_1_10 = (1 << 16) | 10

// Handle represents an opaque reference to a firmware managed object, it is
// always borrowed from firmware and only meaningful for equality.
type Handle uint64

// Event represents an EFI Event handle.
type Event uint64

// TableHeader represents the data structure that precedes all of the standard
// EFI table types.
type TableHeader struct {
	Signature  uint64
	Revision   uint32
	HeaderSize uint32
	CRC32      uint32
	Reserved   uint32
}

// SystemTable represents the EFI System Table, containing pointers to the
// runtime and boot services tables.
type SystemTable struct {
	Header               TableHeader
	FirmwareVendor       uint64
	FirmwareRevision     uint32
	_                    uint32
	ConsoleInHandle      uint64
	ConIn                uint64
	ConsoleOutHandle     uint64
	ConOut               uint64
	StandardErrorHandle  uint64
	StdErr               uint64
	RuntimeServices      uint64
	BootServices         uint64
	NumberOfTableEntries uint64
	ConfigurationTable   uint64
}

// Vendor returns the firmware vendor string.
func (d *SystemTable) Vendor() (s string, err error) {
	if d.FirmwareVendor == 0 {
		return "", errors.New("invalid firmware vendor pointer")
	}

	r, err := dma.NewRegion(uint(d.FirmwareVendor), maxVendorSize, false)

	if err != nil {
		return
	}

	ptr, buf := r.Reserve(maxVendorSize, 0)
	defer r.Release(ptr)

	return fromUTF16(buf), nil
}

// BootServices represents an EFI Boot Services instance.
type BootServices struct {
	base        uint64
	revision    uint32
	imageHandle Handle

	call callFn
}

// Revision returns the boot services table revision.
func (s *BootServices) Revision() uint32 {
	return s.revision
}

// RuntimeServices represents an EFI Runtime Services instance.
type RuntimeServices struct {
	base uint64

	call callFn
}

// Services represents the UEFI services instance.
type Services struct {
	// EFI System Table instance
	SystemTable *SystemTable

	// UEFI services
	Console *Console
	Boot    *BootServices
	Runtime *RuntimeServices

	imageHandle uint64
	systemTable uint64
}

// Init initializes an UEFI services instance using the argument pointers.
func (s *Services) Init(imageHandle uint64, systemTable uint64) (err error) {
	return s.init(imageHandle, systemTable, firmwareCall)
}

func (s *Services) init(imageHandle uint64, systemTable uint64, call callFn) (err error) {
	s.imageHandle = imageHandle
	s.systemTable = systemTable

	s.SystemTable = &SystemTable{}

	if err = decode(s.SystemTable, systemTable); err != nil {
		return
	}

	if s.SystemTable.Header.Signature != systemTableSignature {
		return errors.New("EFI System Table pointer is invalid")
	}

	bootHeader := &TableHeader{}

	if err = decode(bootHeader, s.SystemTable.BootServices); err != nil {
		return
	}

	if bootHeader.Signature != bootServicesSignature {
		return fmt.Errorf("EFI Boot Services signature is invalid (%#x)", bootHeader.Signature)
	}

	s.Console = &Console{
		ForceLine:   true,
		ReplaceTabs: 8,
		In:          s.SystemTable.ConIn,
		Out:         s.SystemTable.ConOut,
		call:        call,
	}

	s.Boot = &BootServices{
		base:        s.SystemTable.BootServices,
		revision:    bootHeader.Revision,
		imageHandle: Handle(imageHandle),
		call:        call,
	}

	s.Runtime = &RuntimeServices{
		base: s.SystemTable.RuntimeServices,
		call: call,
	}

	return
}

// ImageHandle returns the UEFI image handle pointer.
func (s *Services) ImageHandle() Handle {
	return Handle(s.imageHandle)
}

// Address returns the EFI System Table pointer.
func (s *Services) Address() uint64 {
	return s.systemTable
}

// process-wide services instance, set once by Bootstrap()
var services *Services

// Bootstrap captures the image handle and EFI System Table pointers handed
// over by firmware at process entry, it must be invoked exactly once before
// any package level accessor is used.
func Bootstrap(imageHandle uint64, systemTable uint64) (s *Services, err error) {
	if services != nil {
		panic("uefi: Bootstrap() invoked twice")
	}

	s = &Services{}

	if err = s.Init(imageHandle, systemTable); err != nil {
		return nil, err
	}

	services = s

	return
}

func active() *Services {
	if services == nil {
		panic("uefi: Bootstrap() has not been called")
	}

	return services
}

// System returns the process-wide EFI System Table instance, it panics if
// Bootstrap() has not been called.
func System() *SystemTable {
	return active().SystemTable
}

// Boot returns the process-wide EFI Boot Services instance, it panics if
// Bootstrap() has not been called.
func Boot() *BootServices {
	return active().Boot
}

// Runtime returns the process-wide EFI Runtime Services instance, it panics
// if Bootstrap() has not been called.
func Runtime() *RuntimeServices {
	return active().Runtime
}

// ImageHandle returns the process-wide UEFI image handle, it panics if
// Bootstrap() has not been called.
func ImageHandle() Handle {
	return active().ImageHandle()
}
