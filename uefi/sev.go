// Copyright (c) The go-efi authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

import (
	"errors"
)

// Confidential Computing blob header signature ("AMDE")
const snpSignature = 0x45444d41

// SEV-SNP boot firmware publishes its Confidential Computing blob through the
// EFI Configuration Table under this GUID (see AMD SEV-ES Guest-Hypervisor
// Communication Block Standardization).
var EFI_SEV_SNP_CC_BLOB_GUID = MustParseGUID("067b1f5f-cf26-44c5-8554-93d777912d42")

// SNPConfigurationTable represents the fixed layout of the AMD SEV-SNP
// Confidential Computing blob, locating the guest secrets and CPUID pages
// measured at launch.
type SNPConfigurationTable struct {
	Header                     uint32
	Version                    uint16
	_                          uint16
	SecretsPagePhysicalAddress uint64
	SecretsPageSize            uint32
	_                          uint32
	CPUIDPagePhysicalAddress   uint64
	CPUIDPageSize              uint32
	_                          uint32
}

// GetSNPConfiguration locates and decodes the AMD SEV-SNP Confidential
// Computing blob from the EFI Configuration Table, blobs with an unknown
// header signature or predating version 2 of the layout are rejected.
func (s *Services) GetSNPConfiguration() (snp *SNPConfigurationTable, err error) {
	if s.SystemTable == nil {
		return nil, errors.New("EFI System Table is invalid")
	}

	t, err := s.SystemTable.LocateConfiguration(EFI_SEV_SNP_CC_BLOB_GUID)

	if err != nil {
		return
	}

	snp = &SNPConfigurationTable{}

	if err = decode(snp, t.VendorTable); err != nil {
		return nil, err
	}

	if snp.Header != snpSignature || snp.Version < 2 {
		return snp, errors.New("EFI SNP Configuration Table is invalid")
	}

	return
}
