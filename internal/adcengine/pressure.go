package adcengine

import (
	"time"

	"github.com/asterics/flipcore/internal/vbmodel"
)

// pressureMachine tracks the plain sip/puff press-release edges and the
// strong-sip/strong-puff sub-state machine described in spec §4.1 and §9:
// crossing the strong threshold arms a delay window; a direction sampled
// inside [delay, timeout) resolves to the matching strong-direction VB;
// nothing sampled before the timeout falls back to the bare VBStrongSip /
// VBStrongPuff VB; crossing delay/timeout is driven by wall-clock ticks
// rather than the firmware's original OS timers + semaphore.
type pressureMachine struct {
	sipHeld  bool
	puffHeld bool

	state       vbmodel.PressureState
	enteredAt   time.Time
	hasBindings func(state vbmodel.PressureState) bool
}

func newPressureMachine(hasBindings func(vbmodel.PressureState) bool) *pressureMachine {
	if hasBindings == nil {
		hasBindings = func(vbmodel.PressureState) bool { return false }
	}
	return &pressureMachine{hasBindings: hasBindings}
}

func emit(out chan<- vbmodel.VbEvent, vb vbmodel.VB, kind vbmodel.Half) {
	if out == nil {
		return
	}
	select {
	case out <- vbmodel.VbEvent{VB: vb, Kind: kind}:
	default:
	}
}

// step advances the machine by one sample. x, y are the post-deadzone axis
// values, used to resolve a strong direction once the delay window opens.
func (p *pressureMachine) step(cfg Config, pressure uint16, x, y int, now time.Time, out chan<- vbmodel.VbEvent) {
	sipActive := pressure < cfg.ThresholdSip && pressure > cfg.ThresholdStrongSip
	if sipActive && !p.sipHeld {
		emit(out, vbmodel.VBSip, vbmodel.Press)
		p.sipHeld = true
	} else if !sipActive && p.sipHeld {
		emit(out, vbmodel.VBSip, vbmodel.Release)
		p.sipHeld = false
	}

	puffActive := pressure > cfg.ThresholdPuff && pressure < cfg.ThresholdStrongPuff
	if puffActive && !p.puffHeld {
		emit(out, vbmodel.VBPuff, vbmodel.Press)
		p.puffHeld = true
	} else if !puffActive && p.puffHeld {
		emit(out, vbmodel.VBPuff, vbmodel.Release)
		p.puffHeld = false
	}

	switch p.state {
	case vbmodel.PressureNormal:
		if pressure <= cfg.ThresholdStrongSip {
			p.enterStrong(vbmodel.PressureStrongSip, now, out)
		} else if pressure >= cfg.ThresholdStrongPuff {
			p.enterStrong(vbmodel.PressureStrongPuff, now, out)
		}
	case vbmodel.PressureStrongSip, vbmodel.PressureStrongPuff:
		elapsed := now.Sub(p.enteredAt)
		delay := time.Duration(cfg.StrongDelay) * time.Millisecond
		timeout := time.Duration(cfg.StrongTimeout) * time.Millisecond
		switch {
		case elapsed < delay:
			// still arming
		case elapsed >= timeout:
			p.state = vbmodel.PressureNormal
		case x != 0 || y != 0:
			emit(out, p.direction(x, y), vbmodel.Press)
			p.state = vbmodel.PressureNormal
		}
	}
}

// enterStrong is called on the rising edge into the strong-sip/puff
// threshold. If no strong-direction VB is bound, it skips the delay window
// entirely and fires the bare VBStrongSip/VBStrongPuff VB immediately.
func (p *pressureMachine) enterStrong(state vbmodel.PressureState, now time.Time, out chan<- vbmodel.VbEvent) {
	if !p.hasBindings(state) {
		vb := vbmodel.VBStrongSip
		if state == vbmodel.PressureStrongPuff {
			vb = vbmodel.VBStrongPuff
		}
		emit(out, vb, vbmodel.Press)
		return
	}
	p.state = state
	p.enteredAt = now
}

func (p *pressureMachine) direction(x, y int) vbmodel.VB {
	ax, ay := x, y
	if ax < 0 {
		ax = -ax
	}
	if ay < 0 {
		ay = -ay
	}
	horizontal := ax >= ay

	switch p.state {
	case vbmodel.PressureStrongSip:
		switch {
		case horizontal && x > 0:
			return vbmodel.VBStrongSipRight
		case horizontal:
			return vbmodel.VBStrongSipLeft
		case y > 0:
			return vbmodel.VBStrongSipDown
		default:
			return vbmodel.VBStrongSipUp
		}
	default:
		switch {
		case horizontal && x > 0:
			return vbmodel.VBStrongPuffRight
		case horizontal:
			return vbmodel.VBStrongPuffLeft
		case y > 0:
			return vbmodel.VBStrongPuffDown
		default:
			return vbmodel.VBStrongPuffUp
		}
	}
}
