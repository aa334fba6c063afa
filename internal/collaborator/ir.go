package collaborator

import (
	"context"
	"log/slog"
)

// NoopIRTransmitter logs the IR code it would send without touching any
// hardware, for the same reason transport.NoopBleSink exists: IR emission is
// an external collaborator this repo doesn't own (spec §1).
type NoopIRTransmitter struct {
	Logger *slog.Logger
}

func (t *NoopIRTransmitter) Transmit(ctx context.Context, code string) error {
	if t.Logger != nil {
		t.Logger.Debug("ir transmit (noop)", "code", code)
	}
	return nil
}
