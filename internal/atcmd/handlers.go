package atcmd

import (
	"strings"

	"github.com/asterics/flipcore/internal/binding"
	"github.com/asterics/flipcore/internal/hidreport"
	"github.com/asterics/flipcore/internal/slotcfg"
	"github.com/asterics/flipcore/internal/vbmodel"
)

// stageHid records cmd as this line's candidate HidCmd; flush() decides
// whether it gets bound or fired immediately.
func (p *Parser) stageHid(cmd [3]byte) {
	p.stagedHid = &binding.HidCmd{Cmd: cmd}
}

func (p *Parser) stageVb(cmdType binding.VbCmdType, param string) {
	p.stagedVb = &binding.VbCmd{CmdType: cmdType, CmdParam: param}
}

// --- mouse click/press/release/toggle -------------------------------------

func clickHandler(btn hidreport.MouseButton) HandlerFunc {
	return func(p *Parser, line string, params []Param) Outcome {
		p.stageHid(hidreport.MouseClick(btn))
		return Success
	}
}

func pressHandler(btn hidreport.MouseButton) HandlerFunc {
	return func(p *Parser, line string, params []Param) Outcome {
		p.stageHid(hidreport.MousePress(btn))
		return Success
	}
}

func releaseHandler(btn hidreport.MouseButton) HandlerFunc {
	return func(p *Parser, line string, params []Param) Outcome {
		p.stageHid(hidreport.MouseRelease(btn))
		return Success
	}
}

func toggleHandler(btn hidreport.MouseButton) HandlerFunc {
	return func(p *Parser, line string, params []Param) Outcome {
		p.stageHid(hidreport.MouseToggle(btn))
		return Success
	}
}

// doubleClickHandler approximates "CD" (click-double) as a single click:
// there is no dedicated double-click opcode (spec §4.6), and stagedHid only
// holds one HidCmd per line, so a true double-click would need a second
// binding-table entry at the same (VB, half) rather than a second opcode.
func doubleClickHandler(btn hidreport.MouseButton) HandlerFunc {
	return func(p *Parser, line string, params []Param) Outcome {
		p.stageHid(hidreport.MouseClick(btn))
		return Success
	}
}

func mouseMoveXHandler(p *Parser, line string, params []Param) Outcome {
	p.stageHid(hidreport.MouseMove(hidreport.AxisXOnly, int8(params[0].Num)))
	return Success
}

func mouseMoveYHandler(p *Parser, line string, params []Param) Outcome {
	p.stageHid(hidreport.MouseMove(hidreport.AxisYOnly, int8(params[0].Num)))
	return Success
}

func wheelHandler(sign int8) HandlerFunc {
	return func(p *Parser, line string, params []Param) Outcome {
		p.stageHid(hidreport.MouseWheelStep(sign))
		return Success
	}
}

// --- keyboard --------------------------------------------------------------

func keyHandler(build func(byte) [3]byte) HandlerFunc {
	return func(p *Parser, line string, params []Param) Outcome {
		p.stageHid(build(byte(params[0].Num)))
		return Success
	}
}

// keyWriteHandler (AT KW) stages a macro-style multi-key text entry as a
// series of keyboard HidCmds is out of scope for a single 3-byte staged
// cmd; instead it stages a MacroExec VbCmd so the collaborator expands the
// text key-by-key (SPEC_FULL supplement: "macro expansion detail").
func keyWriteHandler(p *Parser, line string, params []Param) Outcome {
	p.stageVb(binding.MacroExec, "KW:"+params[0].Str)
	return Success
}

// --- joystick ----------------------------------------------------------

func joyAxisHandler(axis hidreport.JoystickAxis) HandlerFunc {
	return func(p *Parser, line string, params []Param) Outcome {
		raw := uint16(int32(hidreport.AxisCenter) + params[0].Num)
		p.stageHid(hidreport.AxisCmd(axis, raw))
		return Success
	}
}

func joyClickHandler(p *Parser, line string, params []Param) Outcome {
	p.stageHid([3]byte{hidreport.JoyClickButton, byte(params[0].Num) & 0x7F, 0})
	return Success
}

func joyPressHandler(p *Parser, line string, params []Param) Outcome {
	p.stageHid([3]byte{hidreport.JoyPressButton, byte(params[0].Num) & 0x7F, 0})
	return Success
}

func joyReleaseHandler(p *Parser, line string, params []Param) Outcome {
	p.stageHid([3]byte{hidreport.JoyReleaseButton, byte(params[0].Num) & 0x7F, 0})
	return Success
}

func joyHatHandler(p *Parser, line string, params []Param) Outcome {
	p.stageHid([3]byte{hidreport.JoyReleaseButton, 0x80 | (byte(params[0].Num) & 0x0F), 0})
	return Success
}

// --- bind mode / macro / IR / calibration / slot switch ---------------

func bmHandler(p *Parser, line string, params []Param) Outcome {
	vb := vbmodel.VB(params[0].Num)
	p.requestVB = vb
	p.requestBM = true
	return Success
}

// blHandler (AT BL, button-learn) is unimplemented in the firmware this was
// ported from; kept as a no-op accepted command (spec §9 open question 3).
func blHandler(p *Parser, line string, params []Param) Outcome {
	return Success
}

func reservedNoop(p *Parser, line string, params []Param) Outcome {
	return Success
}

// maHandler (AT MA <at line>) stages a macro whose body is the remainder of
// the line, re-dispatched through the parser's singleshot path one AT line
// at a time when invoked.
func maHandler(p *Parser, line string, params []Param) Outcome {
	p.stageVb(binding.MacroExec, params[0].Str)
	return Success
}

// waHandler (AT WA <ms>) stages a macro-step delay; only meaningful inside a
// macro body expanded by the collaborator, a no-op as a standalone command.
func waHandler(p *Parser, line string, params []Param) Outcome {
	return Success
}

func caHandler(p *Parser, line string, params []Param) Outcome {
	p.stageVb(binding.Calibrate, "")
	return Success
}

// saHandler (AT SA <name>) renders the staged binding tables and general
// config to AT-reverse text and persists it under name (spec §4.4 save_slot).
func saHandler(p *Parser, line string, params []Param) Outcome {
	name := params[0].Str
	if p.Switcher == nil || p.Store == nil {
		return HandlerError
	}
	p.Switcher.Staging().SlotName = name
	text := RenderSlot(p, name)
	if err := p.Store.Save(name, text); err != nil {
		p.Logger.Warn("atcmd: save slot failed", "slot", name, "error", err)
		return HandlerError
	}
	return Success
}

func irHandler(p *Parser, line string, params []Param) Outcome {
	p.stageVb(binding.SendIR, params[0].Str)
	return Success
}

// mqttHandler stages one of IP/IH/IC (set broker host / set topic / publish
// the parameter as the message payload to the configured topic): the
// collaborator reads the tag prefix off CmdParam to know which of the three
// this line performs.
func mqttHandler(tag string) HandlerFunc {
	return func(p *Parser, line string, params []Param) Outcome {
		p.stageVb(binding.MqttPublish, tag+":"+params[0].Str)
		return Success
	}
}

// restHandler stages one of IW/IT/IL (set base url / set bearer token / call
// the configured endpoint with the parameter as the request body), tagged
// the same way as mqttHandler.
func restHandler(tag string) HandlerFunc {
	return func(p *Parser, line string, params []Param) Outcome {
		p.stageVb(binding.RestCall, tag+":"+params[0].Str)
		return Success
	}
}

// --- delete / clear ------------------------------------------------------

// deHandler (AT DE) clears both binding tables and resets staging config to
// factory defaults, per the "delete everything" convention the reverse
// parser's NE/DE/DL/DN family implies.
func deHandler(p *Parser, line string, params []Param) Outcome {
	p.Hid.Clear()
	p.Vb.Clear()
	if p.Switcher != nil {
		p.Switcher.LoadDefault()
	}
	return Success
}

// dlHandler (AT DL n) deletes every binding at vb=n from both tables,
// resolving spec §9 open question 1's tautology in favour of filtering on
// the argument VB rather than deleting unconditionally.
func dlHandler(p *Parser, line string, params []Param) Outcome {
	vb := vbmodel.VB(params[0].Num)
	p.Hid.Delete(vb)
	p.Vb.Delete(vb)
	return Success
}

// --- slot management (AT LO/LA/LI/NE/DN/ID/FR) -----------------------------

// loHandler (AT LO <name>) loads a persisted (or built-in __DEFAULT /
// __RESTOREFACTORY / __NEXT / __PREVIOUS / __UPDATE) slot: it clears both
// binding tables, replays the slot's AT-reverse text back through HandleLine
// line by line to rebuild them and the staging config, then commits (spec
// §4.5 load_slot).
func loHandler(p *Parser, line string, params []Param) Outcome {
	if p.Switcher == nil {
		return HandlerError
	}
	name, err := p.Switcher.ResolveSelector(params[0].Str)
	if err != nil {
		p.Logger.Warn("atcmd: resolve slot selector failed", "selector", params[0].Str, "error", err)
		return HandlerError
	}

	p.Hid.Clear()
	p.Vb.Clear()

	if name == "" {
		*p.Switcher.Staging() = slotcfg.DefaultConfig()
		p.Switcher.Commit()
		return Success
	}

	if p.Store == nil {
		return HandlerError
	}
	text, err := p.Store.Load(name)
	if err != nil {
		p.Logger.Warn("atcmd: load slot failed", "slot", name, "error", err)
		return HandlerError
	}

	*p.Switcher.Staging() = slotcfg.DefaultConfig()
	p.Switcher.Staging().SlotName = name
	for _, l := range strings.Split(text, "\n") {
		l = strings.TrimRight(l, "\r")
		if l == "" {
			continue
		}
		p.HandleLine(p.ctx, l)
	}
	p.Switcher.Commit()
	return Success
}

// laHandler (AT LA) lists every persisted slot name, one per line, ending
// with END (spec §6: "info commands write structured text ending with END").
func laHandler(p *Parser, line string, params []Param) Outcome {
	if p.Store == nil {
		p.writeLine("END")
		return Success
	}
	names, err := p.Store.List()
	if err != nil {
		p.Logger.Warn("atcmd: list slots failed", "error", err)
		p.writeLine("END")
		return Success
	}
	if p.Switcher != nil {
		p.Switcher.SetSlotNames(names)
	}
	for _, n := range names {
		p.writeLine(n)
	}
	p.writeLine("END")
	return Success
}

// liHandler (AT LI) reports the currently-loaded slot's name and transport
// activity flags, ending END.
func liHandler(p *Parser, line string, params []Param) Outcome {
	if p.Switcher == nil {
		p.writeLine("END")
		return Success
	}
	cfg := p.Switcher.Current()
	p.writeLine("SLOT:" + cfg.SlotName)
	p.writeLine("USB:" + boolFlag(cfg.USBActive))
	p.writeLine("BLE:" + boolFlag(cfg.BLEActive))
	p.writeLine("END")
	return Success
}

// neHandler (AT NE <name>) stages a brand-new, empty slot: both binding
// tables cleared and the staging config reset to factory defaults under the
// given name. The slot is not persisted until AT SA.
func neHandler(p *Parser, line string, params []Param) Outcome {
	if p.Switcher == nil {
		return HandlerError
	}
	p.Hid.Clear()
	p.Vb.Clear()
	*p.Switcher.Staging() = slotcfg.DefaultConfig()
	p.Switcher.Staging().SlotName = params[0].Str
	return Success
}

// dnHandler (AT DN <name>) deletes a persisted slot by name.
func dnHandler(p *Parser, line string, params []Param) Outcome {
	if p.Store == nil {
		return HandlerError
	}
	if err := p.Store.Delete(params[0].Str); err != nil {
		p.Logger.Warn("atcmd: delete slot failed", "slot", params[0].Str, "error", err)
		return HandlerError
	}
	return Success
}

// idHandler (AT ID) reports device identification, ending END.
func idHandler(p *Parser, line string, params []Param) Outcome {
	p.writeLine("DEVICE:flipcore")
	p.writeLine("END")
	return Success
}

// frHandler (AT FR) reports free/available resources, ending END. The
// binding tables here are map-backed rather than the firmware's fixed-size
// arena, so there is no meaningful "slots remaining" count to report.
func frHandler(p *Parser, line string, params []Param) Outcome {
	p.writeLine("END")
	return Success
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

