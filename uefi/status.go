// Copyright (c) The go-efi authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

import (
	"fmt"
)

// Status represents an EFI Status Code as returned by every UEFI service
// call.
//
// The most significant bit marks error codes, warning codes have the bit
// clear with a nonzero value, EFI_SUCCESS is all zeroes. Error and warning
// codes share the same numeric space but remain disjoint through the high
// bit.
type Status uint64

// EFI_STATUS error bit
const statusErrorBit = 1 << 63

// EFI Status Codes
// https://uefi.org/specs/UEFI/2.10/Apx_D_Status_Codes.html
const (
	EFI_SUCCESS Status = 0

	EFI_LOAD_ERROR           = Status(statusErrorBit | 1)
	EFI_INVALID_PARAMETER    = Status(statusErrorBit | 2)
	EFI_UNSUPPORTED          = Status(statusErrorBit | 3)
	EFI_BAD_BUFFER_SIZE      = Status(statusErrorBit | 4)
	EFI_BUFFER_TOO_SMALL     = Status(statusErrorBit | 5)
	EFI_NOT_READY            = Status(statusErrorBit | 6)
	EFI_DEVICE_ERROR         = Status(statusErrorBit | 7)
	EFI_WRITE_PROTECTED      = Status(statusErrorBit | 8)
	EFI_OUT_OF_RESOURCES     = Status(statusErrorBit | 9)
	EFI_VOLUME_CORRUPTED     = Status(statusErrorBit | 10)
	EFI_VOLUME_FULL          = Status(statusErrorBit | 11)
	EFI_NO_MEDIA             = Status(statusErrorBit | 12)
	EFI_MEDIA_CHANGED        = Status(statusErrorBit | 13)
	EFI_NOT_FOUND            = Status(statusErrorBit | 14)
	EFI_ACCESS_DENIED        = Status(statusErrorBit | 15)
	EFI_NO_RESPONSE          = Status(statusErrorBit | 16)
	EFI_NO_MAPPING           = Status(statusErrorBit | 17)
	EFI_TIMEOUT              = Status(statusErrorBit | 18)
	EFI_NOT_STARTED          = Status(statusErrorBit | 19)
	EFI_ALREADY_STARTED      = Status(statusErrorBit | 20)
	EFI_ABORTED              = Status(statusErrorBit | 21)
	EFI_ICMP_ERROR           = Status(statusErrorBit | 22)
	EFI_TFTP_ERROR           = Status(statusErrorBit | 23)
	EFI_PROTOCOL_ERROR       = Status(statusErrorBit | 24)
	EFI_INCOMPATIBLE_VERSION = Status(statusErrorBit | 25)
	EFI_SECURITY_VIOLATION   = Status(statusErrorBit | 26)
	EFI_CRC_ERROR            = Status(statusErrorBit | 27)
	EFI_END_OF_MEDIA         = Status(statusErrorBit | 28)
	EFI_END_OF_FILE          = Status(statusErrorBit | 31)
	EFI_INVALID_LANGUAGE     = Status(statusErrorBit | 32)
	EFI_COMPROMISED_DATA     = Status(statusErrorBit | 33)
	EFI_IP_ADDRESS_CONFLICT  = Status(statusErrorBit | 34)
	EFI_HTTP_ERROR           = Status(statusErrorBit | 35)

	EFI_WARN_UNKNOWN_GLYPH    = Status(1)
	EFI_WARN_DELETE_FAILURE   = Status(2)
	EFI_WARN_WRITE_FAILURE    = Status(3)
	EFI_WARN_BUFFER_TOO_SMALL = Status(4)
	EFI_WARN_STALE_DATA       = Status(5)
	EFI_WARN_FILE_SYSTEM      = Status(6)
	EFI_WARN_RESET_REQUIRED   = Status(7)
)

var statusErrors = make(map[Status]*StatusError)

var (
	ErrLoadError           = registerStatus(EFI_LOAD_ERROR, "EFI_LOAD_ERROR", "image failed to load")
	ErrInvalidParameter    = registerStatus(EFI_INVALID_PARAMETER, "EFI_INVALID_PARAMETER", "a parameter was incorrect")
	ErrUnsupported         = registerStatus(EFI_UNSUPPORTED, "EFI_UNSUPPORTED", "operation not supported")
	ErrBadBufferSize       = registerStatus(EFI_BAD_BUFFER_SIZE, "EFI_BAD_BUFFER_SIZE", "buffer size incorrect for request")
	ErrBufferTooSmall      = registerStatus(EFI_BUFFER_TOO_SMALL, "EFI_BUFFER_TOO_SMALL", "buffer too small, required size returned in parameter")
	ErrNotReady            = registerStatus(EFI_NOT_READY, "EFI_NOT_READY", "no data pending")
	ErrDeviceError         = registerStatus(EFI_DEVICE_ERROR, "EFI_DEVICE_ERROR", "physical device reported an error")
	ErrWriteProtected      = registerStatus(EFI_WRITE_PROTECTED, "EFI_WRITE_PROTECTED", "device is write protected")
	ErrOutOfResources      = registerStatus(EFI_OUT_OF_RESOURCES, "EFI_OUT_OF_RESOURCES", "resource exhausted")
	ErrVolumeCorrupted     = registerStatus(EFI_VOLUME_CORRUPTED, "EFI_VOLUME_CORRUPTED", "file system inconsistency detected")
	ErrVolumeFull          = registerStatus(EFI_VOLUME_FULL, "EFI_VOLUME_FULL", "no more space on file system")
	ErrNoMedia             = registerStatus(EFI_NO_MEDIA, "EFI_NO_MEDIA", "device contains no medium")
	ErrMediaChanged        = registerStatus(EFI_MEDIA_CHANGED, "EFI_MEDIA_CHANGED", "medium changed since last access")
	ErrNotFound            = registerStatus(EFI_NOT_FOUND, "EFI_NOT_FOUND", "item not found")
	ErrAccessDenied        = registerStatus(EFI_ACCESS_DENIED, "EFI_ACCESS_DENIED", "access denied")
	ErrNoResponse          = registerStatus(EFI_NO_RESPONSE, "EFI_NO_RESPONSE", "server not found or no response")
	ErrNoMapping           = registerStatus(EFI_NO_MAPPING, "EFI_NO_MAPPING", "no device mapping exists")
	ErrTimeout             = registerStatus(EFI_TIMEOUT, "EFI_TIMEOUT", "timeout expired")
	ErrNotStarted          = registerStatus(EFI_NOT_STARTED, "EFI_NOT_STARTED", "protocol not started")
	ErrAlreadyStarted      = registerStatus(EFI_ALREADY_STARTED, "EFI_ALREADY_STARTED", "protocol already started")
	ErrAborted             = registerStatus(EFI_ABORTED, "EFI_ABORTED", "operation aborted")
	ErrICMPError           = registerStatus(EFI_ICMP_ERROR, "EFI_ICMP_ERROR", "ICMP error during network operation")
	ErrTFTPError           = registerStatus(EFI_TFTP_ERROR, "EFI_TFTP_ERROR", "TFTP error during network operation")
	ErrProtocolError       = registerStatus(EFI_PROTOCOL_ERROR, "EFI_PROTOCOL_ERROR", "protocol error during network operation")
	ErrIncompatibleVersion = registerStatus(EFI_INCOMPATIBLE_VERSION, "EFI_INCOMPATIBLE_VERSION", "requested version incompatible")
	ErrSecurityViolation   = registerStatus(EFI_SECURITY_VIOLATION, "EFI_SECURITY_VIOLATION", "security violation")
	ErrCRCError            = registerStatus(EFI_CRC_ERROR, "EFI_CRC_ERROR", "CRC error detected")
	ErrEndOfMedia          = registerStatus(EFI_END_OF_MEDIA, "EFI_END_OF_MEDIA", "beginning or end of media reached")
	ErrEndOfFile           = registerStatus(EFI_END_OF_FILE, "EFI_END_OF_FILE", "end of file reached")
	ErrInvalidLanguage     = registerStatus(EFI_INVALID_LANGUAGE, "EFI_INVALID_LANGUAGE", "invalid language specified")
	ErrCompromisedData     = registerStatus(EFI_COMPROMISED_DATA, "EFI_COMPROMISED_DATA", "data security status unknown or compromised")
	ErrIPAddressConflict   = registerStatus(EFI_IP_ADDRESS_CONFLICT, "EFI_IP_ADDRESS_CONFLICT", "IP address conflict detected")
	ErrHTTPError           = registerStatus(EFI_HTTP_ERROR, "EFI_HTTP_ERROR", "HTTP error during network operation")

	ErrWarnUnknownGlyph   = registerStatus(EFI_WARN_UNKNOWN_GLYPH, "EFI_WARN_UNKNOWN_GLYPH", "unknown glyph skipped")
	ErrWarnDeleteFailure  = registerStatus(EFI_WARN_DELETE_FAILURE, "EFI_WARN_DELETE_FAILURE", "handle closed but file not deleted")
	ErrWarnWriteFailure   = registerStatus(EFI_WARN_WRITE_FAILURE, "EFI_WARN_WRITE_FAILURE", "handle closed but data not flushed")
	ErrWarnBufferTooSmall = registerStatus(EFI_WARN_BUFFER_TOO_SMALL, "EFI_WARN_BUFFER_TOO_SMALL", "buffer too small, data truncated")
	ErrWarnStaleData      = registerStatus(EFI_WARN_STALE_DATA, "EFI_WARN_STALE_DATA", "data is stale")
	ErrWarnFileSystem     = registerStatus(EFI_WARN_FILE_SYSTEM, "EFI_WARN_FILE_SYSTEM", "file system UTF-8 buffer warning")
	ErrWarnResetRequired  = registerStatus(EFI_WARN_RESET_REQUIRED, "EFI_WARN_RESET_REQUIRED", "operation requires a system reset")
)

// StatusError represents a non-success EFI Status Code as a Go error.
type StatusError struct {
	Status Status

	name string
	msg  string
}

func registerStatus(status Status, name string, msg string) *StatusError {
	err := &StatusError{
		Status: status,
		name:   name,
		msg:    msg,
	}
	statusErrors[status] = err
	return err
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s", e.name, e.msg)
}

// IsError returns whether the status represents an error code.
func (s Status) IsError() bool {
	return s&statusErrorBit != 0
}

// IsWarning returns whether the status represents a warning code.
func (s Status) IsWarning() bool {
	return s != EFI_SUCCESS && s&statusErrorBit == 0
}

// Code returns the status numeric code without its class bit.
func (s Status) Code() uint64 {
	return uint64(s) &^ uint64(statusErrorBit)
}

// String returns the specification name of known status codes.
func (s Status) String() string {
	if s == EFI_SUCCESS {
		return "EFI_SUCCESS"
	}

	if err, ok := statusErrors[s]; ok {
		return err.name
	}

	return fmt.Sprintf("EFI_STATUS(%#x)", uint64(s))
}

// Err converts the status to a Go error, nil is returned only for
// EFI_SUCCESS.
//
// Warning codes are surfaced as failures as well, callers which can make use
// of warning tolerant results must compare against the specific warning
// status.
func (s Status) Err() error {
	return parseStatus(s)
}

func parseStatus(status Status) (err error) {
	if status == EFI_SUCCESS {
		return
	}

	if err, ok := statusErrors[status]; ok {
		return err
	}

	return fmt.Errorf("EFI_STATUS error %#x (%d)", uint64(status), status.Code())
}
