// Copyright (c) The go-efi authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

import (
	"runtime"
	"testing"
)

func testSNPTable(t *testing.T, snp *SNPConfigurationTable) (*Services, []byte, []byte) {
	t.Helper()

	blob, err := marshalBinary(snp)

	if err != nil {
		t.Fatal(err)
	}

	st, buf := testConfigTable(t, []*ConfigurationTable{
		{GUID: EFI_ACPI_TABLE_GUID, VendorTable: 0x1000},
		{GUID: EFI_SEV_SNP_CC_BLOB_GUID, VendorTable: ptrval(&blob[0])},
	})

	return &Services{SystemTable: st}, blob, buf
}

func TestGetSNPConfiguration(t *testing.T) {
	s, blob, buf := testSNPTable(t, &SNPConfigurationTable{
		Header:                     snpSignature,
		Version:                    2,
		SecretsPagePhysicalAddress: 0x8000e000,
		SecretsPageSize:            0x1000,
		CPUIDPagePhysicalAddress:   0x8000f000,
		CPUIDPageSize:              0x1000,
	})

	snp, err := s.GetSNPConfiguration()

	if err != nil {
		t.Fatal(err)
	}

	if snp.SecretsPagePhysicalAddress != 0x8000e000 || snp.SecretsPageSize != 0x1000 {
		t.Errorf("unexpected secrets page %#x (%d bytes)", snp.SecretsPagePhysicalAddress, snp.SecretsPageSize)
	}

	if snp.CPUIDPagePhysicalAddress != 0x8000f000 || snp.CPUIDPageSize != 0x1000 {
		t.Errorf("unexpected CPUID page %#x (%d bytes)", snp.CPUIDPagePhysicalAddress, snp.CPUIDPageSize)
	}

	runtime.KeepAlive(blob)
	runtime.KeepAlive(buf)
}

func TestGetSNPConfigurationVersion(t *testing.T) {
	// a valid signature predating version 2 of the layout is rejected
	s, blob, buf := testSNPTable(t, &SNPConfigurationTable{
		Header:  snpSignature,
		Version: 1,
	})

	if _, err := s.GetSNPConfiguration(); err == nil {
		t.Errorf("expected error on version 1 blob")
	}

	runtime.KeepAlive(blob)
	runtime.KeepAlive(buf)
}

func TestGetSNPConfigurationSignature(t *testing.T) {
	s, blob, buf := testSNPTable(t, &SNPConfigurationTable{
		Header:  0xdeadbeef,
		Version: 2,
	})

	if _, err := s.GetSNPConfiguration(); err == nil {
		t.Errorf("expected error on unknown header signature")
	}

	runtime.KeepAlive(blob)
	runtime.KeepAlive(buf)
}

func TestGetSNPConfigurationNotFound(t *testing.T) {
	st, buf := testConfigTable(t, []*ConfigurationTable{
		{GUID: EFI_ACPI_TABLE_GUID, VendorTable: 0x1000},
	})

	s := &Services{SystemTable: st}

	if _, err := s.GetSNPConfiguration(); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	runtime.KeepAlive(buf)
}
