// Package adcengine implements the ADC sampling and mode engine: spurious
// sample rejection, orientation rotation, deadzone, the mouse/joystick/
// threshold mode translations, the strong-sip/puff pressure sub-state
// machine, and calibration (spec §4.1).
package adcengine

import (
	"github.com/asterics/flipcore/internal/hidreport"
	"github.com/asterics/flipcore/internal/vbmodel"
)

// DeadzoneShape selects the deadzone policy (spec §4.1).
type DeadzoneShape uint8

const (
	DeadzoneElliptical DeadzoneShape = iota
	DeadzoneRectangular
)

// AccelTimeMax caps the per-axis acceleration time counter (spec §4.1:
// "capped at ACCELTIME_MAX"). Not otherwise pinned by spec; chosen so one
// second of continuous deflection (100 samples/s) reaches full acceleration.
const AccelTimeMax = 100

// Config is the AdcConfig record from spec §3.1, condensed to the fields the
// sampling and mode engine consume directly.
type Config struct {
	Mode MouthpieceMode

	Accel    int
	MaxSpeed int

	DeadzoneShape DeadzoneShape
	DeadzoneX     int
	DeadzoneY     int

	SensitivityX float64
	SensitivityY float64

	ThresholdSip        uint16
	ThresholdPuff       uint16
	ThresholdStrongSip  uint16
	ThresholdStrongPuff uint16

	ReportRaw bool

	Orientation vbmodel.Orientation

	OtfIdleCount int
	OtfIdleLevel int

	// JoystickAxisX/Y select which joystick axis x/y map to in joystick mode.
	JoystickAxisX hidreport.JoystickAxis
	JoystickAxisY hidreport.JoystickAxis

	// StrongDelay/StrongTimeout are the delay/timeout windows of the
	// strong-sip/puff sub-state machine (spec §4.1: "~750ms"/"~2.5s"; spec
	// §9 leaves the exact values to the implementation).
	StrongDelay   durationMillis
	StrongTimeout durationMillis
}

// MouthpieceMode is a local alias kept distinct from vbmodel.MouthpieceMode
// so this package's zero value ("None") is explicit at every call site.
type MouthpieceMode = vbmodel.MouthpieceMode

const (
	ModeNone      = vbmodel.ModeNone
	ModeMouse     = vbmodel.ModeMouse
	ModeJoystick  = vbmodel.ModeJoystick
	ModeThreshold = vbmodel.ModeThreshold
)

// durationMillis avoids pulling time.Duration into the config-field-offset
// table the AT command parser builds over Config (spec §9: offsets are
// validated at table-construction time against plain integer widths).
type durationMillis int32

// DefaultConfig returns sane defaults matching spec §4.1's stated constants.
func DefaultConfig() Config {
	return Config{
		Mode:                ModeMouse,
		Accel:               4,
		MaxSpeed:            40,
		DeadzoneShape:       DeadzoneElliptical,
		DeadzoneX:           50,
		DeadzoneY:           50,
		SensitivityX:        1.0,
		SensitivityY:        1.0,
		ThresholdSip:        400,
		ThresholdPuff:       600,
		ThresholdStrongSip:  200,
		ThresholdStrongPuff: 800,
		Orientation:         vbmodel.Orientation0,
		JoystickAxisX:       hidreport.AxisX,
		JoystickAxisY:       hidreport.AxisY,
		StrongDelay:         750,
		StrongTimeout:       2500,
	}
}
