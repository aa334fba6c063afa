// Package dispatch is the pipeline glue between the debounced VbEvent stream
// and the two binding tables: for every event it tests each table's
// active-mask, acquires the table's bounded-wait lock, and emits each
// matching entry's payload (spec §4.3's dispatch algorithm).
package dispatch

import (
	"context"
	"log/slog"

	"github.com/asterics/flipcore/internal/binding"
	"github.com/asterics/flipcore/internal/eventgroup"
	"github.com/asterics/flipcore/internal/transport"
	"github.com/asterics/flipcore/internal/vbmodel"
)

// Collaborator executes a non-HID VbCmd action dispatched from the VB
// binding table. Declared locally (rather than importing internal/atcmd or
// internal/collaborator) so this package stays a narrow consumer of the
// tables it dispatches against, matching cmd/server.go's own style of
// wiring concrete types together only at the orchestration layer.
type Collaborator interface {
	Execute(ctx context.Context, cmdType binding.VbCmdType, param string) error
}

// Dispatcher reads debounced VbEvents and drives the HID/VB binding tables.
// One instance exists per running daemon.
type Dispatcher struct {
	Hid    *binding.HidBindingTable
	Vb     *binding.VbBindingTable
	Events *eventgroup.Group
	Sinks  []transport.HidSink
	Collab Collaborator
	Logger *slog.Logger
}

// New wires a Dispatcher to the shared binding tables, event group, HID
// sinks, and non-HID action collaborator.
func New(hid *binding.HidBindingTable, vb *binding.VbBindingTable, events *eventgroup.Group, sinks []transport.HidSink, collab Collaborator, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{Hid: hid, Vb: vb, Events: events, Sinks: sinks, Collab: collab, Logger: logger}
}

// Run consumes in until it is closed or ctx is cancelled, dispatching each
// debounced VbEvent in turn. Meant to run in its own goroutine for the
// daemon's lifetime (spec §5's task table).
func (d *Dispatcher) Run(ctx context.Context, in <-chan vbmodel.VbEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-in:
			if !ok {
				return
			}
			d.Dispatch(ctx, ev)
		}
	}
}

// Dispatch runs the spec §4.3 algorithm for one debounced VbEvent.
func (d *Dispatcher) Dispatch(ctx context.Context, ev vbmodel.VbEvent) {
	// Step 1: gate on STABLECONFIG or EMPTY_CMD_QUEUE; neither set means the
	// config is mid-reload and events must be dropped, not queued.
	if !d.Events.HasAny(eventgroup.SystemStableConfig | eventgroup.SystemEmptyCmdQueue) {
		return
	}

	d.dispatchHid(ctx, ev)
	d.dispatchVb(ctx, ev)
}

func (d *Dispatcher) dispatchHid(ctx context.Context, ev vbmodel.VbEvent) {
	if d.Hid == nil || !d.Hid.IsActive(ev.VB, ev.Kind) {
		return
	}
	// Lookup itself acquires the table's bounded-wait lock (spec §4.3 step 3);
	// a nil return here means the lock timed out, logged inside Lookup's
	// EnterCritical caller chain already, so nothing further to do.
	for _, cmd := range d.Hid.Lookup(ev.VB, ev.Kind) {
		for _, sink := range d.Sinks {
			if !sink.Enabled() {
				continue
			}
			if !sink.Send(ctx, cmd.Cmd) {
				d.Logger.Warn("dispatch: hid sink send failed", "vb", ev.VB, "half", ev.Kind)
			}
		}
	}
}

func (d *Dispatcher) dispatchVb(ctx context.Context, ev vbmodel.VbEvent) {
	if d.Vb == nil || !d.Vb.IsActive(ev.VB, ev.Kind) {
		return
	}
	if d.Collab == nil {
		d.Logger.Warn("dispatch: vb binding active with no collaborator wired", "vb", ev.VB, "half", ev.Kind)
		return
	}
	for _, cmd := range d.Vb.Lookup(ev.VB, ev.Kind) {
		if err := d.Collab.Execute(ctx, cmd.CmdType, cmd.CmdParam); err != nil {
			d.Logger.Warn("dispatch: collaborator execute failed", "vb", ev.VB, "half", ev.Kind, "type", cmd.CmdType, "error", err)
		}
	}
}
