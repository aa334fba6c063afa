package atcmd

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/asterics/flipcore/internal/binding"
	"github.com/asterics/flipcore/internal/eventgroup"
	"github.com/asterics/flipcore/internal/slotcfg"
	"github.com/asterics/flipcore/internal/transport"
	"github.com/asterics/flipcore/internal/vbmodel"
)

// Collaborator executes a non-HID VbCmd action immediately (singleshot path)
// or on behalf of a dispatched VB event. Implemented by internal/collaborator;
// declared here so this package never imports it back (macro expansion
// re-enters the parser, so the dependency must run the other way).
type Collaborator interface {
	Execute(ctx context.Context, cmdType binding.VbCmdType, param string) error
}

// Parser holds the per-connection AT parsing state: the staged HidCmd/VbCmd
// builders, the singleshot/bind-mode state machine, and handles to the
// tables/config/sinks a command line can affect (spec §4.4).
type Parser struct {
	Hid      *binding.HidBindingTable
	Vb       *binding.VbBindingTable
	Switcher *slotcfg.Switcher
	Events   *eventgroup.Group
	Sinks    []transport.HidSink
	Collab   Collaborator
	Store    slotcfg.Store
	Logger   *slog.Logger

	// Writer, if set, receives the extra structured text info commands emit
	// (spec §6: "info commands write structured text ending with END").
	Writer func(line string)

	requestVB vbmodel.VB
	requestBM bool

	stagedHid *binding.HidCmd
	stagedVb  *binding.VbCmd

	ctx context.Context
}

// NewParser returns a Parser with request_vb defaulted to VB_SINGLESHOT.
func NewParser(hid *binding.HidBindingTable, vb *binding.VbBindingTable, sw *slotcfg.Switcher, events *eventgroup.Group, sinks []transport.HidSink, collab Collaborator, store slotcfg.Store, logger *slog.Logger) *Parser {
	return &Parser{
		Hid: hid, Vb: vb, Switcher: sw, Events: events, Sinks: sinks, Collab: collab, Store: store, Logger: logger,
		requestVB: vbmodel.VBSingleshot,
	}
}

func (p *Parser) writeLine(s string) {
	if p.Writer != nil {
		p.Writer(s)
	}
}

// HandleLine tokenizes, validates, and dispatches one AT command line,
// returning the outcome to report on the serial surface (spec §7: "the AT
// parser propagates per-command outcome to the serial surface exactly once
// per line").
func (p *Parser) HandleLine(ctx context.Context, line string) Outcome {
	p.ctx = ctx
	tok, heartbeat, outcome := tokenize(line)
	if heartbeat {
		return Success
	}
	if outcome != Success {
		return outcome
	}

	spec, ok := commandTable[tok.name]
	if !ok {
		return UnknownCommand
	}

	params, outcome := splitParams(tok.raw, spec.Params)
	if outcome != Success {
		return outcome
	}

	p.stagedHid = nil
	p.stagedVb = nil

	var result Outcome
	if spec.Store != nil {
		result = p.applyStore(spec, params)
	} else {
		result = spec.Handler(p, line, params)
	}

	if result != Success {
		p.afterLine(tok.name)
		return result
	}

	p.flush(ctx, line)
	p.afterLine(tok.name)
	return Success
}

func (p *Parser) applyStore(spec CommandSpec, params []Param) Outcome {
	if len(params) != 1 || params[0].Kind != ParamNumber {
		return ParamError
	}
	if p.Switcher == nil {
		return HandlerError
	}
	spec.Store(p.Switcher.Staging(), params[0].Num)
	return Success
}

// afterLine advances the BM staging state machine: request_vb resets to
// VB_SINGLESHOT after every non-BM line; BM itself sets it via its handler
// and must not be reset here.
func (p *Parser) afterLine(name string) {
	if name == "BM" {
		return
	}
	p.requestVB = vbmodel.VBSingleshot
	p.requestBM = false
}

// flush routes whatever this line staged into a binding table (if
// request_vb is bound) or executes it immediately (singleshot), per spec
// §4.4 "post-dispatch flush".
func (p *Parser) flush(ctx context.Context, line string) {
	bound := p.requestVB != vbmodel.VBSingleshot

	if p.stagedHid != nil {
		cmd := *p.stagedHid
		if bound {
			cmd.VBID = p.requestVB
			cmd.HalfVal = vbmodel.Press
			cmd.OriginalAT = line
			if err := p.Hid.Add(cmd, true); err != nil {
				p.Logger.Warn("atcmd: add hid binding failed", "error", err)
			}
			p.Vb.Delete(p.requestVB)
		} else {
			for _, sink := range p.Sinks {
				if sink.Enabled() {
					sink.Send(ctx, cmd.Cmd)
				}
			}
		}
	}

	if p.stagedVb != nil {
		cmd := *p.stagedVb
		if bound {
			cmd.VBID = p.requestVB
			cmd.HalfVal = vbmodel.Press
			cmd.OriginalAT = line
			if err := p.Vb.Add(cmd, true); err != nil {
				p.Logger.Warn("atcmd: add vb binding failed", "error", err)
			}
			p.Hid.Delete(p.requestVB)
		} else if p.Collab != nil {
			if err := p.Collab.Execute(ctx, cmd.CmdType, cmd.CmdParam); err != nil {
				p.Logger.Warn("atcmd: singleshot collaborator failed", "error", err)
			}
		}
	}
}

// splitParams divides a token's raw remainder into validated Params per the
// matched CommandSpec's declared shape.
func splitParams(raw string, specs []ParamSpec) ([]Param, Outcome) {
	if len(specs) == 0 {
		return nil, Success
	}
	if len(specs) == 1 {
		p, outcome := parseOne(raw, specs[0])
		if outcome != Success {
			return nil, outcome
		}
		return []Param{p}, Success
	}

	// Two declared params: the first is always whitespace-delimited: a
	// string param never occupies the first of two slots in this table.
	first, rest, ok := cutSpace(raw)
	if !ok {
		return nil, FormatError
	}
	p0, outcome := parseOne(first, specs[0])
	if outcome != Success {
		return nil, outcome
	}
	p1, outcome := parseOne(rest, specs[1])
	if outcome != Success {
		return nil, outcome
	}
	return []Param{p0, p1}, Success
}

func cutSpace(s string) (before, after string, ok bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			return s[:i], s[i+1:], true
		}
	}
	return s, "", s != ""
}

func parseOne(raw string, spec ParamSpec) (Param, Outcome) {
	switch spec.Kind {
	case ParamNone:
		return Param{Kind: ParamNone}, Success
	case ParamNumber:
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return Param{}, FormatError
		}
		if int32(n) < spec.Min || int32(n) > spec.Max {
			return Param{}, ParamError
		}
		return Param{Kind: ParamNumber, Num: int32(n)}, Success
	case ParamString:
		if len(raw) < spec.MinLen || len(raw) > spec.MaxLen {
			return Param{}, ParamError
		}
		return Param{Kind: ParamString, Str: raw}, Success
	default:
		return Param{}, FormatError
	}
}
