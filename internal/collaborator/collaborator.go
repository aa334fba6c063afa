// Package collaborator implements the non-HID VbCmd actions the AT parser
// stages for singleshot or bound dispatch: macro replay, calibration
// triggers, IR transmission, MQTT publish, and REST calls (spec §4.3's
// "collaborator" VB actions, SPEC_FULL supplement).
package collaborator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/asterics/flipcore/internal/adcengine"
	"github.com/asterics/flipcore/internal/atcmd"
	"github.com/asterics/flipcore/internal/binding"
	"github.com/asterics/flipcore/internal/hidreport"
	"github.com/asterics/flipcore/internal/transport"
)

// IRTransmitter sends a raw IR code, implemented by hardware this repo does
// not own (spec §1: out-of-scope external collaborator).
type IRTransmitter interface {
	Transmit(ctx context.Context, code string) error
}

// Dispatcher implements atcmd.Collaborator, routing each VbCmdType to the
// concrete action behind it.
type Dispatcher struct {
	Parser *atcmd.Parser
	Engine *adcengine.Engine
	IR     IRTransmitter
	MQTT   *MqttClient
	REST   *RestClient
	Sinks  []transport.HidSink
	Logger *slog.Logger
}

// Execute dispatches one non-HID VB action (spec §4.3 dispatch: "VB table
// entries invoke the bound collaborator").
func (d *Dispatcher) Execute(ctx context.Context, cmdType binding.VbCmdType, param string) error {
	switch cmdType {
	case binding.MacroExec:
		return d.execMacro(ctx, param)
	case binding.Calibrate:
		return d.execCalibrate(ctx)
	case binding.SendIR:
		return d.execIR(ctx, param)
	case binding.MqttPublish:
		return d.execMqtt(ctx, param)
	case binding.RestCall:
		return d.execRest(ctx, param)
	case binding.ConfigChange:
		return nil // handled directly by the AT parser's Store path, never staged
	default:
		return fmt.Errorf("collaborator: unknown VbCmdType %d", cmdType)
	}
}

// execMacro replays a staged MacroExec VbCmd. A "KW:"-tagged param (staged by
// the KW AT handler) is text to type, not an AT line: it is routed straight
// to the keystroke path rather than re-tokenized, since tokenize() requires
// an "AT " prefix that typed text never has. Any other param is one or more
// newline-joined AT command lines, replayed through the singleshot path one
// line at a time (SPEC_FULL supplement "macro expansion detail").
func (d *Dispatcher) execMacro(ctx context.Context, param string) error {
	if tag, text, ok := strings.Cut(param, ":"); ok && tag == "KW" {
		return d.typeText(ctx, text)
	}

	if d.Parser == nil {
		return fmt.Errorf("collaborator: macro replay requires a parser")
	}
	for _, line := range strings.Split(param, "\n") {
		if line == "" {
			continue
		}
		outcome := d.Parser.HandleLine(ctx, line)
		if outcome != atcmd.Success {
			return fmt.Errorf("collaborator: macro line %q: %s", line, outcome)
		}
	}
	return nil
}

// typeText sends one HID cmd per keystroke (and per shift press/release) to
// every enabled sink, in order.
func (d *Dispatcher) typeText(ctx context.Context, text string) error {
	for _, sink := range d.Sinks {
		if !sink.Enabled() {
			continue
		}
		for _, cmd := range hidreport.TypeText(text) {
			sink.Send(ctx, cmd)
		}
	}
	return nil
}

func (d *Dispatcher) execCalibrate(ctx context.Context) error {
	if d.Engine == nil {
		return fmt.Errorf("collaborator: calibration requires an engine")
	}
	return d.Engine.Calibrate()
}

func (d *Dispatcher) execIR(ctx context.Context, code string) error {
	if d.IR == nil {
		d.logWarn("ir transmit has no backend, dropping", "code", code)
		return nil
	}
	return d.IR.Transmit(ctx, code)
}

func (d *Dispatcher) logWarn(msg string, args ...any) {
	if d.Logger != nil {
		d.Logger.Warn(msg, args...)
	}
}
