// Package hidreport assembles the fixed 3-byte HID cmd opcodes consumed by
// the USB-bridge and BLE HID transports (spec §4.6). It does not define a new
// wire format: the byte layouts below are bit-exact to spec §4.6 and are
// owned by the external USB-bridge firmware, not by this repo.
package hidreport

// Mouse opcodes. The wire format has no combined-XY opcode (spec §4.6's byte
// table defines only 0x10 X-only and 0x11 Y-only); a combined move is sent as
// two single-axis commands, one per axis.
const (
	MouseMoveX        byte = 0x10
	MouseMoveY        byte = 0x11
	MouseWheel        byte = 0x12
	MouseClickLeft    byte = 0x13
	MouseClickRight   byte = 0x14
	MouseClickMiddle  byte = 0x15
	MousePressLeft    byte = 0x16
	MousePressRight   byte = 0x17
	MousePressMiddle  byte = 0x18
	MouseReleaseLeft  byte = 0x19
	MouseReleaseRight byte = 0x1A
	MouseReleaseMid   byte = 0x1B
	MouseToggleLeft   byte = 0x1C
	MouseToggleRight  byte = 0x1D
	MouseToggleMiddle byte = 0x1E
)

// Keyboard opcodes. 0x25-0x27 carry a modifier bitmask rather than a keycode
// in byte 1 (spec §4.6); no AT mnemonic stages them directly, but the KW
// type-text path uses them to shift individual characters.
const (
	KeyPressRelease byte = 0x20
	KeyPress        byte = 0x21
	KeyRelease      byte = 0x22
	KeyToggle       byte = 0x23
	ModPressRelease byte = 0x25
	ModPress        byte = 0x26
	ModRelease      byte = 0x27
)

// Joystick opcodes.
const (
	JoyClickButton   byte = 0x30
	JoyPressButton   byte = 0x31
	JoyReleaseButton byte = 0x32 // high bit of byte1 distinguishes hat-set vs button-release
	JoyAxisX         byte = 0x34
	JoyAxisY         byte = 0x35
	JoyAxisZ         byte = 0x36
	JoyAxisZRotate   byte = 0x37
	JoyAxisSliderL   byte = 0x38
	JoyAxisSliderR   byte = 0x39
)

// Reset opcodes.
const (
	ResetAll      byte = 0x00
	ResetMouse    byte = 0x1F
	ResetKeyboard byte = 0x2F
	ResetJoystick byte = 0x3F
)

// ResetAllCmd releases everything across all three HID device classes, used
// by the slot switcher and on loss-of-config to prevent stuck keys (§4.6).
func ResetAllCmd() [3]byte { return [3]byte{ResetAll, 0, 0} }

// ResetMouseCmd resets only the mouse device state.
func ResetMouseCmd() [3]byte { return [3]byte{ResetMouse, 0, 0} }

// ResetKeyboardCmd resets only the keyboard device state.
func ResetKeyboardCmd() [3]byte { return [3]byte{ResetKeyboard, 0, 0} }

// ResetJoystickCmd resets only the joystick device state.
func ResetJoystickCmd() [3]byte { return [3]byte{ResetJoystick, 0, 0} }
