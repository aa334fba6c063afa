package binding

import "github.com/asterics/flipcore/internal/vbmodel"

// HidCmd is one HID emission bound to a (VB, half) trigger: a 3-byte opcode
// consumed by the USB/BLE HID transport (spec §4.6), plus the original AT
// text used by the reverse parser.
type HidCmd struct {
	VBID       vbmodel.VB
	HalfVal    vbmodel.Half
	Cmd        [3]byte
	OriginalAT string
}

func (c HidCmd) Key() Key  { return Key{VB: c.VBID, Half: c.HalfVal} }
func (c HidCmd) AT() string { return c.OriginalAT }

// HidBindingTable is the ordered multimap from (VB, half) to HidCmd.
type HidBindingTable struct {
	*Table[HidCmd]
}

// NewHidBindingTable returns an empty table accepting VBs in [0, vbMax).
func NewHidBindingTable(vbMax int) *HidBindingTable {
	return &HidBindingTable{Table: NewTable[HidCmd](vbMax)}
}
