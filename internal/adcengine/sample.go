package adcengine

import (
	"math"

	"github.com/asterics/flipcore/internal/vbmodel"
)

// spuriousDeviation is the maximum per-channel jump between two consecutive
// raw samples before the later one is rejected (spec §4.1: "reject >200
// deviation").
const spuriousDeviation = 200

// isSpurious reports whether cur deviates from prev by more than
// spuriousDeviation on any channel. prevValid is false for the first sample
// after startup or calibration, when there is nothing to compare against.
func isSpurious(prev, cur vbmodel.AdcSample, prevValid bool) bool {
	if !prevValid {
		return false
	}
	return absDelta(prev.Up, cur.Up) > spuriousDeviation ||
		absDelta(prev.Down, cur.Down) > spuriousDeviation ||
		absDelta(prev.Left, cur.Left) > spuriousDeviation ||
		absDelta(prev.Right, cur.Right) > spuriousDeviation
}

func absDelta(a, b uint16) int {
	d := int(a) - int(b)
	if d < 0 {
		return -d
	}
	return d
}

// rotate applies the configured mouthpiece orientation to the four
// directional channels, returning a sample as if the sensor were mounted at
// Orientation0 (spec §4.1: "orientation rotation").
func rotate(s vbmodel.AdcSample, o vbmodel.Orientation) vbmodel.AdcSample {
	switch o {
	case vbmodel.Orientation90:
		return vbmodel.AdcSample{Up: s.Left, Right: s.Up, Down: s.Right, Left: s.Down, Pressure: s.Pressure}
	case vbmodel.Orientation180:
		return vbmodel.AdcSample{Up: s.Down, Right: s.Left, Down: s.Up, Left: s.Right, Pressure: s.Pressure}
	case vbmodel.Orientation270:
		return vbmodel.AdcSample{Up: s.Right, Right: s.Down, Down: s.Left, Left: s.Up, Pressure: s.Pressure}
	default:
		return s
	}
}

// axes reduces a rotated sample to a signed (x, y) pair around the
// calibration offsets (spec §4.1: "x_raw = left-right - offset_x, y_raw =
// up-down - offset_y"). Positive x is right, positive y is down.
func axes(s vbmodel.AdcSample, offsetX, offsetY int) (x, y int) {
	x = (int(s.Left) - int(s.Right)) - offsetX
	y = (int(s.Up) - int(s.Down)) - offsetY
	return x, y
}

// deadzone applies the configured deadzone shape and returns the adjusted
// (x, y) pair (spec §4.1: rectangular subtracts per axis, elliptical scales
// by distance from the deadzone radius).
func deadzone(cfg Config, x, y int) (int, int) {
	if cfg.DeadzoneShape == DeadzoneRectangular {
		return deadzoneAxis(x, cfg.DeadzoneX), deadzoneAxis(y, cfg.DeadzoneY)
	}
	return deadzoneElliptical(x, y, cfg.DeadzoneX, cfg.DeadzoneY)
}

func deadzoneAxis(v, dz int) int {
	if v > dz {
		return v - dz
	}
	if v < -dz {
		return v + dz
	}
	return 0
}

// deadzoneElliptical treats (a, b) as the semi-axes of an ellipse centered on
// the origin: a sample inside the ellipse is zeroed; a sample outside has the
// ellipse-boundary point in its own direction subtracted from it, magnitude-
// wise, so the transition at the boundary is continuous (spec §4.1).
func deadzoneElliptical(x, y, a, b int) (int, int) {
	if a <= 0 {
		a = 1
	}
	if b <= 0 {
		b = 1
	}
	fx, fy := float64(x), float64(y)
	af, bf := float64(a), float64(b)

	if (fx*fx)/(af*af)+(fy*fy)/(bf*bf) <= 1 {
		return 0, 0
	}

	var dx, dy float64
	if fx == 0 {
		dx, dy = 0, bf
	} else {
		tan := fy / fx
		dx = af * bf / math.Sqrt(bf*bf+af*af*tan*tan)
		if tan == 0 {
			dy = bf
		} else {
			dy = af * bf / math.Sqrt(af*af+bf*bf/(tan*tan))
		}
	}

	newX := fx - math.Copysign(dx, fx)
	newY := fy - math.Copysign(dy, fy)
	return int(math.Round(newX)), int(math.Round(newY))
}
