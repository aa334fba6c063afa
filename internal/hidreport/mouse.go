package hidreport

// MouseAxis selects which single axis a move command targets: the wire
// format has no combined-XY opcode (spec §4.6), so a tick that moves on both
// axes is sent as one MouseMove per axis.
type MouseAxis uint8

const (
	AxisXOnly MouseAxis = iota
	AxisYOnly
)

// MouseMove builds the cmd for a relative pointer delta on one axis, clamped
// by the caller to +/-127 before this is called (spec §4.1).
func MouseMove(axis MouseAxis, delta int8) [3]byte {
	if axis == AxisYOnly {
		return [3]byte{MouseMoveY, byte(delta), 0}
	}
	return [3]byte{MouseMoveX, byte(delta), 0}
}

// MouseWheelStep builds the cmd for a wheel scroll. steps is canonicalized to
// -127..127 per spec §9 open question 2.
func MouseWheelStep(steps int8) [3]byte {
	return [3]byte{MouseWheel, byte(steps), 0}
}

// MouseButton identifies one of the three primary mouse buttons.
type MouseButton uint8

const (
	ButtonLeft MouseButton = iota
	ButtonRight
	ButtonMiddle
)

// MouseClick builds a click (press+release) cmd for the given button.
func MouseClick(b MouseButton) [3]byte {
	switch b {
	case ButtonRight:
		return [3]byte{MouseClickRight, 0, 0}
	case ButtonMiddle:
		return [3]byte{MouseClickMiddle, 0, 0}
	default:
		return [3]byte{MouseClickLeft, 0, 0}
	}
}

// MousePress builds a press-and-hold cmd for the given button.
func MousePress(b MouseButton) [3]byte {
	switch b {
	case ButtonRight:
		return [3]byte{MousePressRight, 0, 0}
	case ButtonMiddle:
		return [3]byte{MousePressMiddle, 0, 0}
	default:
		return [3]byte{MousePressLeft, 0, 0}
	}
}

// MouseRelease builds a release cmd for the given button.
func MouseRelease(b MouseButton) [3]byte {
	switch b {
	case ButtonRight:
		return [3]byte{MouseReleaseRight, 0, 0}
	case ButtonMiddle:
		return [3]byte{MouseReleaseMid, 0, 0}
	default:
		return [3]byte{MouseReleaseLeft, 0, 0}
	}
}

// MouseToggle builds a toggle cmd for the given button.
func MouseToggle(b MouseButton) [3]byte {
	switch b {
	case ButtonRight:
		return [3]byte{MouseToggleRight, 0, 0}
	case ButtonMiddle:
		return [3]byte{MouseToggleMiddle, 0, 0}
	default:
		return [3]byte{MouseToggleLeft, 0, 0}
	}
}
