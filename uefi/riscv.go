// Copyright (c) The go-efi authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

var EFI_RISCV_BOOT_PROTOCOL_GUID = MustParseGUID("ccd15fec-6f73-4eec-8395-3e69e4b940bf")

// RiscvBoot represents the RISC-V Boot Protocol fixed layout.
type RiscvBoot struct {
	Revision      uint64
	GetBootHartID uint64
}

// GUID returns the RISC-V Boot Protocol GUID.
func (RiscvBoot) GUID() GUID {
	return EFI_RISCV_BOOT_PROTOCOL_GUID
}

// GetBootHartID resolves the RISC-V Boot Protocol and calls
// RISCV_EFI_BOOT_PROTOCOL.GetBootHartId(), returning the hart the firmware
// booted on.
func (s *BootServices) GetBootHartID() (hartID uint64, err error) {
	p, err := FirstProtocol[RiscvBoot](s)

	if err != nil {
		return
	}

	r := p.Interface()

	status := p.call(ptrval(&r.GetBootHartID),
		[]uint64{
			p.Addr(),
			ptrval(&hartID),
		},
	)

	return hartID, parseStatus(status)
}
