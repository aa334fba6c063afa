// Package vbmodel defines the virtual-button address space and the event and
// sample types that flow through the sampling, debounce, and dispatch stages.
package vbmodel

// VB is a virtual-button identifier. Physical buttons, mouthpiece directions,
// sip/puff thresholds, and derived strong-direction combinations all fold onto
// this space.
type VB int16

// VBSingleshot is never stored in a binding table; it denotes "execute this
// action now" rather than "bind this action to a VB".
const VBSingleshot VB = -1

// Device-model VB counts. Changing these breaks saved slots.
const (
	VBMaxFLipMouse = 20
	VBMaxFABI      = 14
)

// DeviceModel selects which VB numbering a running instance uses.
type DeviceModel int

const (
	ModelFLipMouse DeviceModel = iota
	ModelFABI
)

// VBMax returns the number of virtual buttons for a device model.
func (m DeviceModel) VBMax() int {
	switch m {
	case ModelFABI:
		return VBMaxFABI
	default:
		return VBMaxFLipMouse
	}
}

// Fixed VB numbering shared by both device models (directions, pressure and
// strong-pressure combinations). Button VBs beyond these fill the remaining
// range up to VBMax and are purely positional (VB_EXT1, VB_EXT2, ...).
const (
	VBUp VB = iota
	VBDown
	VBLeft
	VBRight
	VBSip
	VBPuff
	VBStrongSip
	VBStrongPuff
	VBStrongSipUp
	VBStrongSipDown
	VBStrongSipLeft
	VBStrongSipRight
	VBStrongPuffUp
	VBStrongPuffDown
	VBStrongPuffLeft
	VBStrongPuffRight
)

// Half distinguishes the press and release stream of a VB.
type Half uint8

const (
	Press Half = iota
	Release
)

func (h Half) String() string {
	if h == Release {
		return "release"
	}
	return "press"
}

// VbEvent is a single press/release transition for one virtual button.
type VbEvent struct {
	VB   VB
	Kind Half
}

// AdcSample is one read of the five 10-bit sensor channels, in the wire order
// the USB-bridge I2C peripheral uses (down, left, up, right, pressure).
type AdcSample struct {
	Up       uint16
	Down     uint16
	Left     uint16
	Right    uint16
	Pressure uint16
}

// MouthpieceMode governs how AdcSamples are translated by the mode engine.
type MouthpieceMode int

const (
	ModeNone MouthpieceMode = iota
	ModeMouse
	ModeJoystick
	ModeThreshold
)

// PressureState is the pressure sub-state machine's current state.
type PressureState int

const (
	PressureNormal PressureState = iota
	PressureStrongSip
	PressureStrongPuff
)

// Orientation is one of the four supported mouthpiece rotations, in degrees.
type Orientation int

const (
	Orientation0 Orientation = 0
	Orientation90 Orientation = 90
	Orientation180 Orientation = 180
	Orientation270 Orientation = 270
)
