package usbbridge

import (
	"context"
	"log/slog"
	"time"

	"github.com/asterics/flipcore/internal/log"
)

// I2CHidSink adapts an I2CBridge to transport.HidSink for the USB-bridge
// chip. Writes use a bounded timeout (spec §5: "the HID emitter's I2C write
// uses 1s; failure logs a warning and drops the frame").
type I2CHidSink struct {
	bridge   *I2CBridge
	enabled  func() bool
	logger   *slog.Logger
	raw      log.RawLogger
	writeTmo time.Duration
}

// NewI2CHidSink wraps bridge. enabled is polled on every Send and should
// reflect GeneralConfig.USBActive.
func NewI2CHidSink(bridge *I2CBridge, enabled func() bool, logger *slog.Logger, raw log.RawLogger) *I2CHidSink {
	return &I2CHidSink{bridge: bridge, enabled: enabled, logger: logger, raw: raw, writeTmo: time.Second}
}

func (s *I2CHidSink) Enabled() bool { return s.enabled() }

// Send writes cmd to the bridge, bounded by writeTmo regardless of ctx.
func (s *I2CHidSink) Send(ctx context.Context, cmd [3]byte) bool {
	if !s.Enabled() {
		return false
	}
	done := make(chan error, 1)
	go func() { done <- s.bridge.WriteCmd(cmd) }()

	select {
	case err := <-done:
		if err != nil {
			s.logger.Warn("usb hid write failed", "error", err)
			return false
		}
		if s.raw != nil {
			s.raw.Log(false, cmd[:])
		}
		return true
	case <-time.After(s.writeTmo):
		s.logger.Warn("usb hid write timed out")
		return false
	}
}
