// Copyright (c) The go-efi authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

import (
	"errors"

	"github.com/usbarmory/tamago/dma"
)

// Well-known EFI Configuration Table GUIDs
var (
	EFI_ACPI_TABLE_GUID                = MustParseGUID("8868e871-e4f1-11d3-bc22-0080c73c8881")
	EFI_ACPI_10_TABLE_GUID             = MustParseGUID("eb9d2d30-2d88-11d3-9a16-0090273fc14d")
	EFI_SMBIOS_TABLE_GUID              = MustParseGUID("eb9d2d31-2d88-11d3-9a16-0090273fc14d")
	EFI_SMBIOS3_TABLE_GUID             = MustParseGUID("f2fd1544-9794-4a2c-992e-e5bbcf20e394")
	EFI_SAL_SYSTEM_TABLE_GUID          = MustParseGUID("eb9d2d32-2d88-11d3-9a16-0090273fc14d")
	EFI_MPS_TABLE_GUID                 = MustParseGUID("eb9d2d2f-2d88-11d3-9a16-0090273fc14d")
	EFI_DEVICE_TREE_TABLE_GUID         = MustParseGUID("b1b621d5-f19c-41a5-830b-d9152c69aae0")
	EFI_RT_PROPERTIES_TABLE_GUID       = MustParseGUID("eb66918a-7eef-402a-842e-931d21c38ae9")
	EFI_MEMORY_ATTRIBUTES_TABLE_GUID   = MustParseGUID("dcfa911d-26eb-469f-a220-38b7dc461220")
	EFI_JSON_CONFIG_DATA_TABLE_GUID    = MustParseGUID("87367f87-1119-41ce-aaec-8be0111f558a")
	EFI_JSON_CAPSULE_DATA_TABLE_GUID   = MustParseGUID("35e7a725-8dd2-4cac-8011-33cda8109056")
	EFI_JSON_CAPSULE_RESULT_TABLE_GUID = MustParseGUID("dbc461c3-b3de-422a-b9b4-9886fd49a1e5")
)

// ConfigurationTable represents an EFI Configuration Table entry, the vendor
// table pointer is opaque at this layer as its layout depends on the entry
// GUID.
type ConfigurationTable struct {
	GUID        GUID
	VendorTable uint64
}

// ConfigurationTables returns the EFI Configuration Table entries.
func (d *SystemTable) ConfigurationTables() (c []*ConfigurationTable, err error) {
	t := &ConfigurationTable{}

	if d.NumberOfTableEntries == 0 || d.ConfigurationTable == 0 {
		return nil, errors.New("EFI Configuration Table is invalid")
	}

	buf, _ := marshalBinary(t)
	entrySize := len(buf)
	tableSize := entrySize * int(d.NumberOfTableEntries)

	r, err := dma.NewRegion(uint(d.ConfigurationTable), tableSize, false)

	if err != nil {
		return
	}

	addr, buf := r.Reserve(tableSize, 0)
	defer r.Release(addr)

	for i := 0; i < tableSize; i += entrySize {
		if err = unmarshalBinary(buf[i:i+entrySize], t); err != nil {
			return
		}

		c = append(c, t)
		t = &ConfigurationTable{}
	}

	return
}

// LocateConfiguration returns the first EFI Configuration Table entry
// matching guid in table order.
//
// ErrNotFound is returned when no entry matches.
func (d *SystemTable) LocateConfiguration(guid GUID) (t *ConfigurationTable, err error) {
	var c []*ConfigurationTable

	if c, err = d.ConfigurationTables(); err != nil {
		return
	}

	for _, t := range c {
		if t.GUID == guid {
			return t, nil
		}
	}

	return nil, ErrNotFound
}
