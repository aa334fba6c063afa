// Package transport defines the narrow interfaces the dispatch core uses to
// reach the two out-of-scope HID transports (the USB-bridge I2C chip and the
// BLE GATT stack) and the debug/raw sink. Per spec §1 these transports'
// internals are external collaborators; only their interface with the core
// is specified here.
package transport

import "context"

// HidSink accepts 3-byte HID cmd opcodes (spec §4.6) for delivery to one
// transport. Send is best-effort: non-HID emitters use a 0-tick send and the
// HID emitter's I2C write uses a 1s timeout (spec §5); a failure is logged
// and the frame is dropped, never propagated to the dispatcher.
type HidSink interface {
	// Send enqueues cmd for delivery. Returns false if the sink's queue is
	// full within the caller's timeout budget (TransportFailed, spec §7).
	Send(ctx context.Context, cmd [3]byte) bool
	// Enabled reports whether this transport is currently active
	// (ble_active/usb_active in GeneralConfig, spec §3.1).
	Enabled() bool
}

// RawSink receives a copy of every frame crossing a transport, for debug
// hex-dump logging (spec §4.1 "report_raw").
type RawSink interface {
	Log(deviceToHost bool, data []byte)
}
