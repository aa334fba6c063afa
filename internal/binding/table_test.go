package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asterics/flipcore/internal/vbmodel"
)

func TestHidBindingTable_AddIsActive(t *testing.T) {
	tbl := NewHidBindingTable(vbmodel.VBMaxFLipMouse)

	require.False(t, tbl.IsActive(2, vbmodel.Press))
	require.NoError(t, tbl.Add(HidCmd{VBID: 2, HalfVal: vbmodel.Press, Cmd: [3]byte{0x13, 0, 0}, OriginalAT: "AT CL"}, true))
	assert.True(t, tbl.IsActive(2, vbmodel.Press))
	assert.False(t, tbl.IsActive(2, vbmodel.Release))

	entries := tbl.Lookup(2, vbmodel.Press)
	require.Len(t, entries, 1)
	assert.Equal(t, [3]byte{0x13, 0, 0}, entries[0].Cmd)
}

func TestHidBindingTable_MultipleBindingsFireInOrder(t *testing.T) {
	tbl := NewHidBindingTable(vbmodel.VBMaxFLipMouse)
	require.NoError(t, tbl.Add(HidCmd{VBID: 1, HalfVal: vbmodel.Press, Cmd: [3]byte{0x21, 0x04, 0}}, false))
	require.NoError(t, tbl.Add(HidCmd{VBID: 1, HalfVal: vbmodel.Press, Cmd: [3]byte{0x21, 0x05, 0}}, false))

	entries := tbl.Lookup(1, vbmodel.Press)
	require.Len(t, entries, 2)
	assert.Equal(t, byte(0x04), entries[0].Cmd[1])
	assert.Equal(t, byte(0x05), entries[1].Cmd[1])
}

func TestHidBindingTable_AddReplace(t *testing.T) {
	tbl := NewHidBindingTable(vbmodel.VBMaxFLipMouse)
	require.NoError(t, tbl.Add(HidCmd{VBID: 1, HalfVal: vbmodel.Press, Cmd: [3]byte{0x21, 1, 0}}, false))
	require.NoError(t, tbl.Add(HidCmd{VBID: 1, HalfVal: vbmodel.Press, Cmd: [3]byte{0x21, 2, 0}}, true))

	entries := tbl.Lookup(1, vbmodel.Press)
	require.Len(t, entries, 1)
	assert.Equal(t, byte(2), entries[0].Cmd[1])
}

func TestHidBindingTable_OutOfRange(t *testing.T) {
	tbl := NewHidBindingTable(4)
	err := tbl.Add(HidCmd{VBID: 10, HalfVal: vbmodel.Press}, false)
	assert.ErrorIs(t, err, ErrOutOfRange)

	err = tbl.Add(HidCmd{VBID: vbmodel.VBSingleshot, HalfVal: vbmodel.Press}, false)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestHidBindingTable_DeleteClearsActiveMask(t *testing.T) {
	tbl := NewHidBindingTable(vbmodel.VBMaxFLipMouse)
	require.NoError(t, tbl.Add(HidCmd{VBID: 3, HalfVal: vbmodel.Press}, false))
	require.NoError(t, tbl.Add(HidCmd{VBID: 3, HalfVal: vbmodel.Release}, false))

	removed := tbl.Delete(3)
	assert.Equal(t, 2, removed)
	assert.False(t, tbl.IsActive(3, vbmodel.Press))
	assert.False(t, tbl.IsActive(3, vbmodel.Release))
}

func TestHidBindingTable_ClearZeroesActiveMask(t *testing.T) {
	tbl := NewHidBindingTable(vbmodel.VBMaxFLipMouse)
	for vb := vbmodel.VB(0); vb < 5; vb++ {
		require.NoError(t, tbl.Add(HidCmd{VBID: vb, HalfVal: vbmodel.Press}, false))
	}
	tbl.Clear()
	for vb := vbmodel.VB(0); vb < 5; vb++ {
		assert.False(t, tbl.IsActive(vb, vbmodel.Press))
	}
}

func TestHidBindingTable_GetAT(t *testing.T) {
	tbl := NewHidBindingTable(vbmodel.VBMaxFLipMouse)
	_, err := tbl.GetAT(1)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, tbl.Add(HidCmd{VBID: 1, HalfVal: vbmodel.Press, OriginalAT: "AT CL"}, false))
	at, err := tbl.GetAT(1)
	require.NoError(t, err)
	assert.Equal(t, "AT CL", at)
}

func TestVbBindingTable_SetChainRebuildsActiveMask(t *testing.T) {
	tbl := NewVbBindingTable(vbmodel.VBMaxFLipMouse)
	require.NoError(t, tbl.Add(VbCmd{VBID: 1, HalfVal: vbmodel.Press, CmdType: MacroExec}, false))

	err := tbl.SetChain([]VbCmd{
		{VBID: 4, HalfVal: vbmodel.Press, CmdType: MacroExec, OriginalAT: "AT MA AT KW hi"},
	})
	require.NoError(t, err)

	assert.False(t, tbl.IsActive(1, vbmodel.Press))
	assert.True(t, tbl.IsActive(4, vbmodel.Press))
	at, err := tbl.GetAT(4)
	require.NoError(t, err)
	assert.Equal(t, "AT MA AT KW hi", at)
}
