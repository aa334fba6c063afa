package hidreport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMouseMove(t *testing.T) {
	assert.Equal(t, [3]byte{MouseMoveX, 0x0A, 0}, MouseMove(AxisXOnly, 10))
	assert.Equal(t, [3]byte{MouseMoveY, 0xF6, 0}, MouseMove(AxisYOnly, -10))
}

func TestMouseClick(t *testing.T) {
	assert.Equal(t, [3]byte{MouseClickLeft, 0, 0}, MouseClick(ButtonLeft))
	assert.Equal(t, [3]byte{MouseClickRight, 0, 0}, MouseClick(ButtonRight))
}

func TestKeyPressRelease(t *testing.T) {
	assert.Equal(t, [3]byte{KeyPressRelease, 0x04, 0}, KeyPressReleaseCmd(0x04))
	assert.Equal(t, [3]byte{KeyToggle, 0x04, 0}, KeyToggleCmd(0x04))
}

func TestJoystickAxisUpdateTracksState(t *testing.T) {
	js := NewJoystickState()
	assert.Equal(t, AxisCenter, js.Axis(AxisX))

	cmd := js.AxisUpdate(AxisX, 900)
	assert.Equal(t, JoyAxisX, cmd[0])
	assert.Equal(t, uint16(900), js.Axis(AxisX))

	js.PressButton(3)
	assert.Equal(t, uint32(1<<3), js.Buttons())
	js.ReleaseButton(3)
	assert.Equal(t, uint32(0), js.Buttons())
}

func TestJoystickSetHatSharesOpcodeWithRelease(t *testing.T) {
	js := NewJoystickState()
	release := js.ReleaseButton(5)
	hat := js.SetHat(2)

	assert.Equal(t, release[0], hat[0])
	assert.Equal(t, byte(5), release[1]&0x7F)
	assert.True(t, hat[1]&0x80 != 0)
	assert.Equal(t, uint8(2), js.Hat())
}

func TestTypeTextShiftsUppercaseAndSymbols(t *testing.T) {
	cmds := TypeText("Hi!")
	assert.Equal(t, [][3]byte{
		{ModPressRelease, ModLeftShift, 0},
		{KeyPressRelease, 0x0B, 0}, // H
		{KeyPressRelease, 0x0C, 0}, // i
		{ModPressRelease, ModLeftShift, 0},
		{KeyPressRelease, 0x1E, 0}, // !
	}, cmds)
}

func TestTypeTextSkipsUnmapped(t *testing.T) {
	assert.Empty(t, TypeText("\x01"))
}

func TestResetCmds(t *testing.T) {
	assert.Equal(t, [3]byte{0x00, 0, 0}, ResetAllCmd())
	assert.Equal(t, [3]byte{0x1F, 0, 0}, ResetMouseCmd())
	assert.Equal(t, [3]byte{0x2F, 0, 0}, ResetKeyboardCmd())
	assert.Equal(t, [3]byte{0x3F, 0, 0}, ResetJoystickCmd())
}
