// Copyright (c) The go-efi authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

import (
	"unicode/utf16"
)

var EFI_GLOBAL_VARIABLE_GUID = MustParseGUID("8be4df61-93ca-11d2-aa0d-00e098032b8c")

// EFI Runtime Services offsets for Variable Services
const (
	getVariable         = 0x48
	getNextVariableName = 0x50
)

// EFI Variable Attributes
const (
	EFI_VARIABLE_NON_VOLATILE                          = 0x01
	EFI_VARIABLE_BOOTSERVICE_ACCESS                    = 0x02
	EFI_VARIABLE_RUNTIME_ACCESS                        = 0x04
	EFI_VARIABLE_HARDWARE_ERROR_RECORD                 = 0x08
	EFI_VARIABLE_AUTHENTICATED_WRITE_ACCESS            = 0x10
	EFI_VARIABLE_TIME_BASED_AUTHENTICATED_WRITE_ACCESS = 0x20
	EFI_VARIABLE_APPEND_WRITE                          = 0x40
	EFI_VARIABLE_ENHANCED_AUTHENTICATED_ACCESS         = 0x80
)

// toUTF16 converts a string to its NUL terminated UTF-16LE representation.
func toUTF16(s string) (buf []byte) {
	for _, r := range utf16.Encode([]rune(s)) {
		buf = append(buf, byte(r&0xff), byte(r>>8))
	}

	return append(buf, 0x00, 0x00)
}

// fromUTF16 converts a NUL terminated UTF-16LE buffer to a string.
func fromUTF16(buf []byte) string {
	var s []uint16

	for i := 0; i+1 < len(buf); i += 2 {
		r := uint16(buf[i]) | uint16(buf[i+1])<<8

		if r == 0x0000 {
			break
		}

		s = append(s, r)
	}

	return string(utf16.Decode(s))
}

// GetVariable calls EFI_RUNTIME_SERVICES.GetVariable(), probing the variable
// attributes and data size first and filling a caller allocated buffer when
// withData is set.
//
// ErrNotFound is returned when the variable does not exist.
func (s *RuntimeServices) GetVariable(name string, guid GUID, withData bool) (attributes uint32, data []byte, err error) {
	var dataSize uint64

	nameUTF16 := toUTF16(name)

	status := s.call(s.base+getVariable,
		[]uint64{
			ptrval(&nameUTF16[0]),
			guid.ptrval(),
			ptrval(&attributes),
			ptrval(&dataSize),
			0,
		},
	)

	if status != EFI_SUCCESS && status != EFI_BUFFER_TOO_SMALL {
		return 0, nil, parseStatus(status)
	}

	if !withData || dataSize == 0 {
		return
	}

	data = make([]byte, dataSize)

	status = s.call(s.base+getVariable,
		[]uint64{
			ptrval(&nameUTF16[0]),
			guid.ptrval(),
			ptrval(&attributes),
			ptrval(&dataSize),
			ptrval(&data[0]),
		},
	)

	if status == EFI_BUFFER_TOO_SMALL {
		return 0, nil, ErrBufferTooSmall
	}

	if err = parseStatus(status); err != nil {
		return 0, nil, err
	}

	return attributes, data[:dataSize], nil
}

// GetNextVariableName calls EFI_RUNTIME_SERVICES.GetNextVariableName(),
// advancing the enumeration from the argument name and GUID, an empty name
// starts the enumeration.
//
// ErrNotFound is returned at the end of the enumeration.
func (s *RuntimeServices) GetNextVariableName(name *string, guid *GUID) (err error) {
	lastName := toUTF16(*name)

	size := uint64(1024)

	if n := uint64(len(lastName)); n > size {
		size = n
	}

	buf := make([]byte, size)
	copy(buf, lastName)

	status := s.call(s.base+getNextVariableName,
		[]uint64{
			ptrval(&size),
			ptrval(&buf[0]),
			guid.ptrval(),
		},
	)

	if err = parseStatus(status); err != nil {
		return
	}

	*name = fromUTF16(buf)

	return
}

// Variables enumerates all EFI variables, returning their names indexed by
// vendor GUID.
func (s *RuntimeServices) Variables() (vars map[GUID][]string, err error) {
	var name string
	var guid GUID

	vars = make(map[GUID][]string)

	for {
		if err = s.GetNextVariableName(&name, &guid); err != nil {
			if err == ErrNotFound {
				return vars, nil
			}

			return nil, err
		}

		vars[guid] = append(vars[guid], name)
	}
}
