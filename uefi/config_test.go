// Copyright (c) The go-efi authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

import (
	"runtime"
	"testing"
)

func testConfigTable(t *testing.T, entries []*ConfigurationTable) (*SystemTable, []byte) {
	t.Helper()

	var buf []byte

	for _, e := range entries {
		b, err := marshalBinary(e)

		if err != nil {
			t.Fatal(err)
		}

		buf = append(buf, b...)
	}

	st := &SystemTable{
		NumberOfTableEntries: uint64(len(entries)),
		ConfigurationTable:   ptrval(&buf[0]),
	}

	return st, buf
}

func TestConfigurationTables(t *testing.T) {
	entries := []*ConfigurationTable{
		{GUID: EFI_ACPI_TABLE_GUID, VendorTable: 0x1000},
		{GUID: EFI_SMBIOS3_TABLE_GUID, VendorTable: 0x2000},
		{GUID: EFI_DEVICE_TREE_TABLE_GUID, VendorTable: 0x3000},
	}

	st, buf := testConfigTable(t, entries)

	c, err := st.ConfigurationTables()

	if err != nil {
		t.Fatal(err)
	}

	if len(c) != len(entries) {
		t.Fatalf("expected %d entries, got %d", len(entries), len(c))
	}

	for i, e := range c {
		if e.GUID != entries[i].GUID || e.VendorTable != entries[i].VendorTable {
			t.Errorf("entry %d mismatch, %+v", i, e)
		}
	}

	runtime.KeepAlive(buf)
}

func TestLocateConfiguration(t *testing.T) {
	entries := []*ConfigurationTable{
		{GUID: EFI_ACPI_TABLE_GUID, VendorTable: 0x1000},
		{GUID: EFI_SMBIOS3_TABLE_GUID, VendorTable: 0x2000},
		{GUID: EFI_SMBIOS3_TABLE_GUID, VendorTable: 0x2800},
	}

	st, buf := testConfigTable(t, entries)

	// the first match in table order wins
	e, err := st.LocateConfiguration(EFI_SMBIOS3_TABLE_GUID)

	if err != nil {
		t.Fatal(err)
	}

	if e.VendorTable != 0x2000 {
		t.Errorf("expected first match at %#x, got %#x", 0x2000, e.VendorTable)
	}

	if _, err = st.LocateConfiguration(EFI_MPS_TABLE_GUID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	runtime.KeepAlive(buf)
}

func TestConfigurationTablesInvalid(t *testing.T) {
	st := &SystemTable{}

	if _, err := st.ConfigurationTables(); err == nil {
		t.Errorf("expected error on empty configuration table")
	}
}
