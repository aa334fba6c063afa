package transport

import (
	"context"
	"log/slog"
)

// NoopBleSink is a placeholder for the BLE GATT HID input-report channel
// (spec §1: the BLE stack is an external collaborator; only this interface
// is specified). It accepts cmds and logs them at debug level without
// touching any radio, so the dispatch core can be exercised without BLE
// hardware present.
type NoopBleSink struct {
	enabled func() bool
	logger  *slog.Logger
}

// NewNoopBleSink returns a HidSink stub gated by enabled.
func NewNoopBleSink(enabled func() bool, logger *slog.Logger) *NoopBleSink {
	return &NoopBleSink{enabled: enabled, logger: logger}
}

func (s *NoopBleSink) Enabled() bool { return s.enabled() }

func (s *NoopBleSink) Send(ctx context.Context, cmd [3]byte) bool {
	if !s.Enabled() {
		return false
	}
	s.logger.Debug("ble hid cmd", "cmd", cmd)
	return true
}
