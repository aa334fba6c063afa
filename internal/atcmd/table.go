package atcmd

import (
	"github.com/asterics/flipcore/internal/adcengine"
	"github.com/asterics/flipcore/internal/hidreport"
	"github.com/asterics/flipcore/internal/slotcfg"
	"github.com/asterics/flipcore/internal/vbmodel"
)

func numParam(min, max int32) []ParamSpec {
	return []ParamSpec{{Kind: ParamNumber, Min: min, Max: max}}
}

func strParam(maxLen int) []ParamSpec {
	return []ParamSpec{{Kind: ParamString, MinLen: 0, MaxLen: maxLen}}
}

// commandTable is the ~70-entry AT command dispatch table (spec §6). Entries
// with neither domain meaning nor firmware behaviour to port (TT/AP/AR/AI/
// PW/FW/RA/KL/ER/SR/SW) are accepted but routed to reservedNoop rather than
// rejected outright, matching how unrecognised-but-harmless AT lines are
// tolerated on the serial surface the original firmware exposes. MH/ML/MR
// (standalone modifier-key press/hold/release) are not part of spec §6's
// mnemonic list and were dropped rather than kept as an invented extension.
var commandTable = map[string]CommandSpec{
	// --- identification / info -------------------------------------------
	"ID": {Name: "ID", Handler: idHandler},
	"FR": {Name: "FR", Handler: frHandler},
	"LI": {Name: "LI", Handler: liHandler},
	"LA": {Name: "LA", Handler: laHandler},

	// --- bind mode / button-learn -----------------------------------------
	"BM": {Name: "BM", Params: numParam(0, 1<<20), Handler: bmHandler},
	"BL": {Name: "BL", Handler: blHandler},

	// --- mouse --------------------------------------------------------------
	"CL": {Name: "CL", Handler: clickHandler(hidreport.ButtonLeft)},
	"CR": {Name: "CR", Handler: clickHandler(hidreport.ButtonRight)},
	"CM": {Name: "CM", Handler: clickHandler(hidreport.ButtonMiddle)},
	"CD": {Name: "CD", Handler: doubleClickHandler(hidreport.ButtonLeft)},

	"HL": {Name: "HL", Handler: pressHandler(hidreport.ButtonLeft)},
	"HR": {Name: "HR", Handler: pressHandler(hidreport.ButtonRight)},
	"HM": {Name: "HM", Handler: pressHandler(hidreport.ButtonMiddle)},
	"PL": {Name: "PL", Handler: pressHandler(hidreport.ButtonLeft)},
	"PR": {Name: "PR", Handler: pressHandler(hidreport.ButtonRight)},
	"PM": {Name: "PM", Handler: pressHandler(hidreport.ButtonMiddle)},

	"RL": {Name: "RL", Handler: releaseHandler(hidreport.ButtonLeft)},
	"RR": {Name: "RR", Handler: releaseHandler(hidreport.ButtonRight)},
	"RM": {Name: "RM", Handler: releaseHandler(hidreport.ButtonMiddle)},

	"TL": {Name: "TL", Handler: toggleHandler(hidreport.ButtonLeft)},
	"TR": {Name: "TR", Handler: toggleHandler(hidreport.ButtonRight)},
	"TM": {Name: "TM", Handler: toggleHandler(hidreport.ButtonMiddle)},

	"WU": {Name: "WU", Handler: wheelHandler(1)},
	"WD": {Name: "WD", Handler: wheelHandler(-1)},

	"MX": {Name: "MX", Params: numParam(-127, 127), Handler: mouseMoveXHandler},
	"MY": {Name: "MY", Params: numParam(-127, 127), Handler: mouseMoveYHandler},

	// --- keyboard -------------------------------------------------------
	"KP": {Name: "KP", Params: numParam(0, 255), Handler: keyHandler(hidreport.KeyPressReleaseCmd)},
	"KH": {Name: "KH", Params: numParam(0, 255), Handler: keyHandler(hidreport.KeyPressCmd)},
	"KR": {Name: "KR", Params: numParam(0, 255), Handler: keyHandler(hidreport.KeyReleaseCmd)},
	"KT": {Name: "KT", Params: numParam(0, 255), Handler: keyHandler(hidreport.KeyToggleCmd)},
	"KW": {Name: "KW", Params: strParam(MaxFrameLen), Handler: keyWriteHandler},

	// --- joystick ---------------------------------------------------------
	"JX": {Name: "JX", Params: numParam(-511, 511), Handler: joyAxisHandler(hidreport.AxisX)},
	"JY": {Name: "JY", Params: numParam(-511, 511), Handler: joyAxisHandler(hidreport.AxisY)},
	"JZ": {Name: "JZ", Params: numParam(-511, 511), Handler: joyAxisHandler(hidreport.AxisZ)},
	"JT": {Name: "JT", Params: numParam(-511, 511), Handler: joyAxisHandler(hidreport.AxisZRotate)},
	"JS": {Name: "JS", Params: numParam(-511, 511), Handler: joyAxisHandler(hidreport.AxisSliderLeft)},
	"JU": {Name: "JU", Params: numParam(-511, 511), Handler: joyAxisHandler(hidreport.AxisSliderRight)},
	"JC": {Name: "JC", Params: numParam(0, 127), Handler: joyClickHandler},
	"JP": {Name: "JP", Params: numParam(0, 127), Handler: joyPressHandler},
	"JR": {Name: "JR", Params: numParam(0, 127), Handler: joyReleaseHandler},
	"JH": {Name: "JH", Params: numParam(0, 15), Handler: joyHatHandler},

	// --- non-HID actions ---------------------------------------------------
	// IP/IH/IC (MQTT host/topic/credential) and IW/IT/IL (REST url/token/
	// payload) all stage the same VbCmd type: the collaborator that expands
	// it at dispatch time distinguishes sub-command by the CmdParam prefix,
	// not by a separate VbCmdType per AT mnemonic.
	"MA": {Name: "MA", Params: strParam(MaxFrameLen), Handler: maHandler},
	"WA": {Name: "WA", Params: numParam(0, 60000), Handler: waHandler},
	"CA": {Name: "CA", Handler: caHandler},
	"IR": {Name: "IR", Params: strParam(MaxFrameLen), Handler: irHandler},
	"IP": {Name: "IP", Params: strParam(MaxFrameLen), Handler: mqttHandler("host")},
	"IH": {Name: "IH", Params: strParam(MaxFrameLen), Handler: mqttHandler("topic")},
	"IC": {Name: "IC", Params: strParam(MaxFrameLen), Handler: mqttHandler("publish")},
	"IW": {Name: "IW", Params: strParam(MaxFrameLen), Handler: restHandler("url")},
	"IT": {Name: "IT", Params: strParam(MaxFrameLen), Handler: restHandler("token")},
	"IL": {Name: "IL", Params: strParam(MaxFrameLen), Handler: restHandler("call")},
	"IX": {Name: "IX", Handler: reservedNoop},

	// --- slot management --------------------------------------------------
	"SA": {Name: "SA", Params: strParam(slotcfg.MaxSlotNameLen), Handler: saHandler},
	"LO": {Name: "LO", Params: strParam(slotcfg.MaxSlotNameLen), Handler: loHandler},
	"NE": {Name: "NE", Params: strParam(slotcfg.MaxSlotNameLen), Handler: neHandler},
	"DN": {Name: "DN", Params: strParam(slotcfg.MaxSlotNameLen), Handler: dnHandler},
	"DE": {Name: "DE", Handler: deHandler},
	"DL": {Name: "DL", Params: numParam(0, 1<<20), Handler: dlHandler},
	"NC": {Name: "NC", Handler: reservedNoop},

	// --- general config (direct Config field stores) -----------------------
	"AX": {Name: "AX", Params: numParam(0, 1023), Store: func(c *slotcfg.Config, v int32) { c.Adc.DeadzoneX = int(v) }},
	"AY": {Name: "AY", Params: numParam(0, 1023), Store: func(c *slotcfg.Config, v int32) { c.Adc.DeadzoneY = int(v) }},
	"DX": {Name: "DX", Params: numParam(1, 100), Store: func(c *slotcfg.Config, v int32) { c.Adc.SensitivityX = float64(v) }},
	"DY": {Name: "DY", Params: numParam(1, 100), Store: func(c *slotcfg.Config, v int32) { c.Adc.SensitivityY = float64(v) }},
	"MS": {Name: "MS", Params: numParam(1, 127), Store: func(c *slotcfg.Config, v int32) { c.Adc.MaxSpeed = int(v) }},
	"AC": {Name: "AC", Params: numParam(0, adcengine.AccelTimeMax), Store: func(c *slotcfg.Config, v int32) { c.Adc.Accel = int(v) }},
	"TS": {Name: "TS", Params: numParam(0, 1023), Store: func(c *slotcfg.Config, v int32) { c.Adc.ThresholdSip = uint16(v) }},
	"TP": {Name: "TP", Params: numParam(0, 1023), Store: func(c *slotcfg.Config, v int32) { c.Adc.ThresholdPuff = uint16(v) }},
	"WS": {Name: "WS", Params: numParam(1, 127), Store: func(c *slotcfg.Config, v int32) { c.WheelStepSize = int8(v) }},
	"SP": {Name: "SP", Params: numParam(0, 1023), Store: func(c *slotcfg.Config, v int32) { c.Adc.ThresholdStrongPuff = uint16(v) }},
	"SS": {Name: "SS", Params: numParam(0, 1023), Store: func(c *slotcfg.Config, v int32) { c.Adc.ThresholdStrongSip = uint16(v) }},
	"MM": {Name: "MM", Params: numParam(0, 3), Store: func(c *slotcfg.Config, v int32) { c.Adc.Mode = adcengine.MouthpieceMode(v) }},
	"RO": {Name: "RO", Params: numParam(0, 270), Store: func(c *slotcfg.Config, v int32) { c.Adc.Orientation = vbmodel.Orientation(v) }},
	"FB": {Name: "FB", Params: numParam(0, 1), Store: func(c *slotcfg.Config, v int32) { c.Adc.ReportRaw = v != 0 }},
	"BT": {Name: "BT", Params: numParam(0, 1), Store: func(c *slotcfg.Config, v int32) { c.BLEActive = v != 0 }},

	// --- reserved / no firmware behaviour to port --------------------------
	"TT": {Name: "TT", Handler: reservedNoop},
	"AP": {Name: "AP", Handler: reservedNoop},
	"AR": {Name: "AR", Handler: reservedNoop},
	"AI": {Name: "AI", Handler: reservedNoop},
	"PW": {Name: "PW", Handler: reservedNoop},
	"FW": {Name: "FW", Handler: reservedNoop},
	"RA": {Name: "RA", Handler: reservedNoop},
	"KL": {Name: "KL", Handler: reservedNoop},
	"ER": {Name: "ER", Handler: reservedNoop},
	"SR": {Name: "SR", Handler: reservedNoop},
	"SW": {Name: "SW", Handler: reservedNoop},
}
