// Copyright (c) The go-efi authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

// EFI Boot Services offsets
const (
	createEvent  = 0x50
	setTimer     = 0x58
	waitForEvent = 0x60
	signalEvent  = 0x68
	closeEvent   = 0x70
	checkEvent   = 0x78
)

// EFI Event Types
const (
	EVT_TIMER         = 0x80000000
	EVT_RUNTIME       = 0x40000000
	EVT_NOTIFY_WAIT   = 0x00000100
	EVT_NOTIFY_SIGNAL = 0x00000200
)

// EFI_TIMER_DELAY
const (
	TimerCancel = iota
	TimerPeriodic
	TimerRelative
)

// CreateEvent calls EFI_BOOT_SERVICES.CreateEvent().
//
// Notification functions are not supported at this layer as firmware cannot
// call back into Go code, only events waited upon or polled with CheckEvent()
// can be created.
func (s *BootServices) CreateEvent(kind uint32, notifyTPL TPL) (e Event, err error) {
	var event uint64

	status := s.call(s.base+createEvent,
		[]uint64{
			uint64(kind),
			uint64(notifyTPL),
			0,
			0,
			ptrval(&event),
		},
	)

	return Event(event), parseStatus(status)
}

// SetTimer calls EFI_BOOT_SERVICES.SetTimer(), the trigger time is expressed
// in 100ns units.
func (s *BootServices) SetTimer(e Event, kind int, triggerTime uint64) (err error) {
	status := s.call(s.base+setTimer,
		[]uint64{
			uint64(e),
			uint64(kind),
			triggerTime,
		},
	)

	return parseStatus(status)
}

// WaitForEvent calls EFI_BOOT_SERVICES.WaitForEvent(), blocking until one of
// the argument events is signaled and returning its index.
//
// The wait is a synchronous firmware call returning only once satisfied,
// no cancellation is available beyond what firmware itself provides.
func (s *BootServices) WaitForEvent(events []Event) (index int, err error) {
	var idx uint64

	evs := make([]uint64, len(events))

	for i, e := range events {
		evs[i] = uint64(e)
	}

	status := s.call(s.base+waitForEvent,
		[]uint64{
			uint64(len(evs)),
			ptrval(&evs[0]),
			ptrval(&idx),
		},
	)

	return int(idx), parseStatus(status)
}

// SignalEvent calls EFI_BOOT_SERVICES.SignalEvent().
func (s *BootServices) SignalEvent(e Event) (err error) {
	status := s.call(s.base+signalEvent,
		[]uint64{
			uint64(e),
		},
	)

	return parseStatus(status)
}

// CloseEvent calls EFI_BOOT_SERVICES.CloseEvent().
func (s *BootServices) CloseEvent(e Event) (err error) {
	status := s.call(s.base+closeEvent,
		[]uint64{
			uint64(e),
		},
	)

	return parseStatus(status)
}

// CheckEvent calls EFI_BOOT_SERVICES.CheckEvent(), returning whether the
// event is in the signaled state.
func (s *BootServices) CheckEvent(e Event) (signaled bool, err error) {
	status := s.call(s.base+checkEvent,
		[]uint64{
			uint64(e),
		},
	)

	switch status {
	case EFI_SUCCESS:
		return true, nil
	case EFI_NOT_READY:
		return false, nil
	default:
		return false, parseStatus(status)
	}
}
