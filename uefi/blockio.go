// Copyright (c) The go-efi authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

var EFI_BLOCK_IO_PROTOCOL_GUID = MustParseGUID("964e5b21-6459-11d2-8e39-00a0c969723b")

// BlockIO represents the EFI Block I/O Protocol fixed layout.
type BlockIO struct {
	Revision    uint64
	Media       uint64
	Reset       uint64
	ReadBlocks  uint64
	WriteBlocks uint64
	FlushBlocks uint64
}

// GUID returns the EFI Block I/O Protocol GUID.
func (BlockIO) GUID() GUID {
	return EFI_BLOCK_IO_PROTOCOL_GUID
}

// BlockIOMedia represents the EFI Block I/O Media structure.
type BlockIOMedia struct {
	MediaID                          uint32
	RemovableMedia                   uint8
	MediaPresent                     uint8
	LogicalPartition                 uint8
	ReadOnly                         uint8
	WriteCaching                     uint8
	_                                [3]uint8
	BlockSize                        uint32
	IoAlign                          uint32
	_                                uint32
	LastBlock                        uint64
	LowestAlignedLBA                 uint64
	LogicalBlocksPerPhysicalBlock    uint32
	OptimalTransferLengthGranularity uint32
}

// BlockDevice provides access to a resolved EFI Block I/O Protocol instance.
type BlockDevice struct {
	// Handle is the device handle the instance was resolved on.
	Handle Handle

	proto *Proto[BlockIO]
}

// Media returns the EFI Block I/O Media structure.
func (d *BlockDevice) Media() (m *BlockIOMedia, err error) {
	m = &BlockIOMedia{}
	err = decode(m, d.proto.Interface().Media)
	return
}

// Reset calls EFI_BLOCK_IO_PROTOCOL.Reset().
func (d *BlockDevice) Reset(verify bool) (err error) {
	var extended uint64

	if verify {
		extended = 1
	}

	b := d.proto.Interface()

	status := d.proto.call(ptrval(&b.Reset),
		[]uint64{
			d.proto.Addr(),
			extended,
		},
	)

	return parseStatus(status)
}

// ReadBlocks calls EFI_BLOCK_IO_PROTOCOL.ReadBlocks(), the buffer length
// must be a multiple of the media block size.
func (d *BlockDevice) ReadBlocks(mediaID uint32, lba uint64, buf []byte) (err error) {
	b := d.proto.Interface()

	status := d.proto.call(ptrval(&b.ReadBlocks),
		[]uint64{
			d.proto.Addr(),
			uint64(mediaID),
			lba,
			uint64(len(buf)),
			ptrval(&buf[0]),
		},
	)

	return parseStatus(status)
}

// WriteBlocks calls EFI_BLOCK_IO_PROTOCOL.WriteBlocks(), the buffer length
// must be a multiple of the media block size.
func (d *BlockDevice) WriteBlocks(mediaID uint32, lba uint64, buf []byte) (err error) {
	b := d.proto.Interface()

	status := d.proto.call(ptrval(&b.WriteBlocks),
		[]uint64{
			d.proto.Addr(),
			uint64(mediaID),
			lba,
			uint64(len(buf)),
			ptrval(&buf[0]),
		},
	)

	return parseStatus(status)
}

// Flush calls EFI_BLOCK_IO_PROTOCOL.FlushBlocks().
func (d *BlockDevice) Flush() (err error) {
	b := d.proto.Interface()

	status := d.proto.call(ptrval(&b.FlushBlocks),
		[]uint64{
			d.proto.Addr(),
		},
	)

	return parseStatus(status)
}

// GetBlockDevices enumerates all handles implementing the EFI Block I/O
// protocol, resolving an instance on each.
func (s *BootServices) GetBlockDevices() (devices []*BlockDevice, err error) {
	handles, err := s.HandlesByProtocol(EFI_BLOCK_IO_PROTOCOL_GUID)

	if err != nil {
		return
	}

	for _, h := range handles {
		p, err := ProtocolForHandle[BlockIO](s, h)

		if err != nil {
			return nil, err
		}

		devices = append(devices, &BlockDevice{
			Handle: h,
			proto:  p,
		})
	}

	return
}
