package atcmd

import (
	"fmt"
	"strings"

	"github.com/asterics/flipcore/internal/slotcfg"
	"github.com/asterics/flipcore/internal/vbmodel"
)

// RenderSlot renders the general config (staged under name) and every bound
// VB into AT-reverse text: a fixed-order sequence of general-config AT
// lines, then for each VB in [0, VB_MAX) one "AT BM nn" followed by its
// bound AT line (HID table first, falling back to the VB table, falling
// back to "AT NC" for an unbound VB), per spec §4.4's save_slot description.
func RenderSlot(p *Parser, name string) string {
	var b strings.Builder
	cfg := p.Switcher.Staging()

	for _, line := range generalConfigLines(cfg) {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	vbMax := 0
	if p.Hid != nil {
		vbMax = p.Hid.VBMax()
	}
	if p.Vb != nil && p.Vb.VBMax() > vbMax {
		vbMax = p.Vb.VBMax()
	}

	for vb := 0; vb < vbMax; vb++ {
		fmt.Fprintf(&b, "AT BM %d\n", vb)
		b.WriteString(boundLine(p, vbmodel.VB(vb)))
		b.WriteByte('\n')
	}

	return b.String()
}

// boundLine resolves the AT text to replay for vb: the HID table's press
// half first, falling back to the VB table's, falling back to "AT NC".
func boundLine(p *Parser, vb vbmodel.VB) string {
	if p.Hid != nil {
		if at, err := p.Hid.GetAT(vb); err == nil && at != "" {
			return at
		}
	}
	if p.Vb != nil {
		if at, err := p.Vb.GetAT(vb); err == nil && at != "" {
			return at
		}
	}
	return "AT NC"
}

// generalConfigLines emits the general-config AT lines in the fixed mnemonic
// order spec §4.4 names: AX, AY, DX, DY, MS, AC, TS, TP, WS, SP, SS, MM, RO,
// FB, BT. The mnemonic-to-field mapping is not pinned by the spec beyond
// this order; AX/AY=deadzone, DX/DY=sensitivity, MS=max speed, AC=accel,
// TS/TP=sip/puff threshold, WS=wheel step, SP/SS=strong puff/sip threshold,
// MM=mouthpiece mode, RO=orientation, FB=report-raw, BT=BLE active.
func generalConfigLines(cfg *slotcfg.Config) []string {
	a := cfg.Adc
	bleBit := 0
	if cfg.BLEActive {
		bleBit = 1
	}
	reportRaw := 0
	if a.ReportRaw {
		reportRaw = 1
	}
	return []string{
		fmt.Sprintf("AT AX %d", a.DeadzoneX),
		fmt.Sprintf("AT AY %d", a.DeadzoneY),
		fmt.Sprintf("AT DX %d", int(a.SensitivityX)),
		fmt.Sprintf("AT DY %d", int(a.SensitivityY)),
		fmt.Sprintf("AT MS %d", a.MaxSpeed),
		fmt.Sprintf("AT AC %d", a.Accel),
		fmt.Sprintf("AT TS %d", a.ThresholdSip),
		fmt.Sprintf("AT TP %d", a.ThresholdPuff),
		fmt.Sprintf("AT WS %d", cfg.WheelStepSize),
		fmt.Sprintf("AT SP %d", a.ThresholdStrongPuff),
		fmt.Sprintf("AT SS %d", a.ThresholdStrongSip),
		fmt.Sprintf("AT MM %d", int(a.Mode)),
		fmt.Sprintf("AT RO %d", int(a.Orientation)),
		fmt.Sprintf("AT FB %d", reportRaw),
		fmt.Sprintf("AT BT %d", bleBit),
	}
}
