// Copyright (c) The go-efi authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

var EFI_GRAPHICS_OUTPUT_PROTOCOL_GUID = MustParseGUID("9042a9de-23dc-4a38-96fb-7aded080516a")

type BltOperation int

// EFI_GRAPHICS_OUTPUT_BLT_OPERATION
const (
	EfiBltVideoFill = iota
	EfiBltVideoToBltBuffer
	EfiBltBufferToVideo
	EfiBltVideoToVideo
	EfiGraphicsOutputBltOperationMax
)

// GraphicsOutput represents the EFI Graphics Output Protocol fixed layout.
type GraphicsOutput struct {
	QueryMode uint64
	SetMode   uint64
	Blt       uint64
	Mode      uint64
}

// GUID returns the EFI Graphics Output Protocol GUID.
func (GraphicsOutput) GUID() GUID {
	return EFI_GRAPHICS_OUTPUT_PROTOCOL_GUID
}

// ModeInformation represents an EFI Graphics Output Mode Information instance.
type ModeInformation struct {
	Version              uint32
	HorizontalResolution uint32
	VerticalResolution   uint32
	PixelFormat          uint32
	RedMask              uint32
	GreenMask            uint32
	BlueMask             uint32
	ReservedMask         uint32
	PixelsPerScanLine    uint32
}

// ProtocolMode represents an EFI Graphics Output Protocol Mode instance.
type ProtocolMode struct {
	MaxMode         uint32
	Mode            uint32
	Info            uint64
	SizeOfInfo      uint64
	FrameBufferBase uint64
	FrameBufferSize uint64
}

// GetInfo returns the EFI Graphics Output Mode information instance.
func (d *ProtocolMode) GetInfo() (m *ModeInformation, err error) {
	m = &ModeInformation{}
	err = decode(m, d.Info)
	return
}

// GOP provides access to a resolved EFI Graphics Output Protocol instance.
type GOP struct {
	proto *Proto[GraphicsOutput]
}

// GetMode returns the EFI Graphics Output Mode instance.
func (gop *GOP) GetMode() (pm *ProtocolMode, err error) {
	pm = &ProtocolMode{}
	err = decode(pm, gop.proto.Interface().Mode)
	return
}

// QueryMode calls EFI_GRAPHICS_OUTPUT_PROTOCOL.QueryMode(), the firmware
// reported information size is asserted against the declared layout before
// decoding.
func (gop *GOP) QueryMode(mode uint32) (m *ModeInformation, err error) {
	var size uint64
	var info uint64

	g := gop.proto.Interface()

	status := gop.proto.call(ptrval(&g.QueryMode),
		[]uint64{
			gop.proto.Addr(),
			uint64(mode),
			ptrval(&size),
			ptrval(&info),
		},
	)

	if err = parseStatus(status); err != nil {
		return
	}

	if nominal, _ := marshalBinary(&ModeInformation{}); size < uint64(len(nominal)) {
		panic("uefi: invalid EFI Graphics Output Mode Information size")
	}

	m = &ModeInformation{}
	err = decode(m, info)

	return
}

// SetMode calls EFI_GRAPHICS_OUTPUT_PROTOCOL.SetMode().
func (gop *GOP) SetMode(mode uint32) (err error) {
	g := gop.proto.Interface()

	status := gop.proto.call(ptrval(&g.SetMode),
		[]uint64{
			gop.proto.Addr(),
			uint64(mode),
		},
	)

	return parseStatus(status)
}

// Blt calls EFI_GRAPHICS_OUTPUT_PROTOCOL.Blt().
func (gop *GOP) Blt(buf []byte, op BltOperation, srcX, srcY, dstX, dstY, width, height, delta uint64) (err error) {
	g := gop.proto.Interface()

	status := gop.proto.call(ptrval(&g.Blt),
		[]uint64{
			gop.proto.Addr(),
			ptrval(&buf[0]),
			uint64(op),
			srcX,
			srcY,
			dstX,
			dstY,
			width,
			height,
			delta,
		},
	)

	return parseStatus(status)
}

// GetGraphicsOutput resolves the EFI Graphics Output Protocol instance.
func (s *BootServices) GetGraphicsOutput() (gop *GOP, err error) {
	p, err := FirstProtocol[GraphicsOutput](s)

	if err != nil {
		return
	}

	return &GOP{proto: p}, nil
}
