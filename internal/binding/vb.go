package binding

import "github.com/asterics/flipcore/internal/vbmodel"

// VbCmdType distinguishes the non-HID action a VbCmd invokes.
type VbCmdType uint8

const (
	MacroExec VbCmdType = iota
	ConfigChange
	Calibrate
	SendIR
	MqttPublish
	RestCall
)

func (t VbCmdType) String() string {
	switch t {
	case MacroExec:
		return "macro"
	case ConfigChange:
		return "config-change"
	case Calibrate:
		return "calibrate"
	case SendIR:
		return "send-ir"
	case MqttPublish:
		return "mqtt-publish"
	case RestCall:
		return "rest-call"
	default:
		return "unknown"
	}
}

// VbCmd is one non-HID action bound to a (VB, half) trigger (spec §3.1).
type VbCmd struct {
	VBID       vbmodel.VB
	HalfVal    vbmodel.Half
	CmdType    VbCmdType
	CmdParam   string
	OriginalAT string
}

func (c VbCmd) Key() Key   { return Key{VB: c.VBID, Half: c.HalfVal} }
func (c VbCmd) AT() string { return c.OriginalAT }

// VbBindingTable is the ordered multimap from (VB, half) to VbCmd.
type VbBindingTable struct {
	*Table[VbCmd]
}

// NewVbBindingTable returns an empty table accepting VBs in [0, vbMax).
func NewVbBindingTable(vbMax int) *VbBindingTable {
	return &VbBindingTable{Table: NewTable[VbCmd](vbMax)}
}
