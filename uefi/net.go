// Copyright (c) The go-efi authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

var EFI_SIMPLE_NETWORK_PROTOCOL_GUID = MustParseGUID("a19832b9-ac25-11d3-9a2d-0090273fc14d")

const EFI_SIMPLE_NETWORK_TRANSMIT_INTERRUPT = 0x02

// SimpleNetwork represents the EFI Simple Network Protocol fixed layout.
type SimpleNetwork struct {
	Revision       uint64
	Start          uint64
	Stop           uint64
	Initialize     uint64
	Reset          uint64
	Shutdown       uint64
	ReceiveFilters uint64
	StationAddress uint64
	Statistics     uint64
	MCastIPToMAC   uint64
	NVData         uint64
	GetStatus      uint64
	Transmit       uint64
	Receive        uint64
	WaitForPacket  uint64
	Mode           uint64
}

// GUID returns the EFI Simple Network Protocol GUID.
func (SimpleNetwork) GUID() GUID {
	return EFI_SIMPLE_NETWORK_PROTOCOL_GUID
}

// NIC provides access to a resolved EFI Simple Network Protocol instance.
type NIC struct {
	proto *Proto[SimpleNetwork]
}

// Start calls EFI_SIMPLE_NETWORK.Start()
func (nic *NIC) Start() (err error) {
	n := nic.proto.Interface()

	status := nic.proto.call(ptrval(&n.Start),
		[]uint64{
			nic.proto.Addr(),
		},
	)

	return parseStatus(status)
}

// Stop calls EFI_SIMPLE_NETWORK.Stop()
func (nic *NIC) Stop() (err error) {
	n := nic.proto.Interface()

	status := nic.proto.call(ptrval(&n.Stop),
		[]uint64{
			nic.proto.Addr(),
		},
	)

	return parseStatus(status)
}

// Initialize calls EFI_SIMPLE_NETWORK.Initialize()
func (nic *NIC) Initialize() (err error) {
	n := nic.proto.Interface()

	status := nic.proto.call(ptrval(&n.Initialize),
		[]uint64{
			nic.proto.Addr(),
			0,
			0,
		},
	)

	return parseStatus(status)
}

// GetStatus calls EFI_SIMPLE_NETWORK.GetStatus()
func (nic *NIC) GetStatus() (interruptStatus uint32, txBuf uint64, err error) {
	n := nic.proto.Interface()

	status := nic.proto.call(ptrval(&n.GetStatus),
		[]uint64{
			nic.proto.Addr(),
			ptrval(&interruptStatus),
			ptrval(&txBuf),
		},
	)

	err = parseStatus(status)

	return
}

// Transmit calls EFI_SIMPLE_NETWORK.Transmit(), the function waits for
// EFI_SIMPLE_NETWORK.GetStatus() to report a transmit interrupt before
// returning.
func (nic *NIC) Transmit(buf []byte) (err error) {
	var interruptStatus uint32

	n := nic.proto.Interface()

	status := nic.proto.call(ptrval(&n.Transmit),
		[]uint64{
			nic.proto.Addr(),
			0,
			uint64(len(buf)),
			ptrval(&buf[0]),
			0,
			0,
			0,
		},
	)

	if err = parseStatus(status); err != nil {
		return
	}

	for {
		if interruptStatus, _, err = nic.GetStatus(); err != nil {
			return
		}

		if interruptStatus&EFI_SIMPLE_NETWORK_TRANSMIT_INTERRUPT != 0 {
			break
		}
	}

	return
}

// Receive calls EFI_SIMPLE_NETWORK.Receive(), a receive on an idle interface
// returns zero bytes rather than blocking.
func (nic *NIC) Receive(buf []byte) (n int, err error) {
	size := uint64(len(buf))

	p := nic.proto.Interface()

	status := nic.proto.call(ptrval(&p.Receive),
		[]uint64{
			nic.proto.Addr(),
			0,
			ptrval(&size),
			ptrval(&buf[0]),
			0,
			0,
			0,
		},
	)

	if status == EFI_NOT_READY {
		return 0, nil
	}

	return int(size), parseStatus(status)
}

// GetNetwork resolves the EFI Simple Network Protocol instance.
func (s *BootServices) GetNetwork() (nic *NIC, err error) {
	p, err := FirstProtocol[SimpleNetwork](s)

	if err != nil {
		return
	}

	return &NIC{proto: p}, nil
}
