package adcengine

import (
	"github.com/asterics/flipcore/internal/hidreport"
	"github.com/asterics/flipcore/internal/vbmodel"
)

// accelState carries the per-axis acceleration-time counters and sub-pixel
// accumulators mouse mode needs across ticks (spec §4.1: "acceleration time
// counters, sub-pixel accumulators").
type accelState struct {
	timeX, timeY   int
	accumX, accumY float64
}

func (a *accelState) reset() {
	*a = accelState{}
}

// mouseDelta computes the next relative-move delta for one axis, advancing
// accelTime while the axis is deflected and resetting it once the axis
// returns to zero.
func mouseDelta(v int, sensitivity float64, accel, maxSpeed int, accelTime *int, accum *float64) int8 {
	if v == 0 {
		*accelTime = 0
		*accum = 0
		return 0
	}
	*accelTime += accel
	if *accelTime > AccelTimeMax {
		*accelTime = AccelTimeMax
	}
	factor := 1.0 + float64(*accelTime)/float64(AccelTimeMax)
	movement := float64(v) * sensitivity * factor / 64.0
	if movement > float64(maxSpeed) {
		movement = float64(maxSpeed)
	} else if movement < -float64(maxSpeed) {
		movement = -float64(maxSpeed)
	}

	*accum += movement
	whole := int(*accum)
	*accum -= float64(whole)

	if whole > 127 {
		whole = 127
	} else if whole < -127 {
		whole = -127
	}
	return int8(whole)
}

// joystickRaw rescales a signed deadzone-adjusted axis value (roughly
// -512..511) into the unsigned 0..1023 range AxisUpdate expects, centered on
// hidreport.AxisCenter.
func joystickRaw(v int) uint16 {
	raw := int(hidreport.AxisCenter) + v
	if raw < 0 {
		raw = 0
	} else if raw > 1023 {
		raw = 1023
	}
	return uint16(raw)
}

// thresholdEdges tracks which directional VBs the threshold-mode translation
// currently holds pressed, so returning to center (or reversing direction)
// emits the matching release.
type thresholdEdges struct {
	up, down, left, right bool
}

func (t *thresholdEdges) step(x, y int, out chan<- vbmodel.VbEvent) {
	wantRight := x > 0
	wantLeft := x < 0
	wantDown := y > 0
	wantUp := y < 0

	transition(&t.right, wantRight, vbmodel.VBRight, out)
	transition(&t.left, wantLeft, vbmodel.VBLeft, out)
	transition(&t.down, wantDown, vbmodel.VBDown, out)
	transition(&t.up, wantUp, vbmodel.VBUp, out)
}

func transition(held *bool, want bool, vb vbmodel.VB, out chan<- vbmodel.VbEvent) {
	if want && !*held {
		emit(out, vb, vbmodel.Press)
		*held = true
	} else if !want && *held {
		emit(out, vb, vbmodel.Release)
		*held = false
	}
}
