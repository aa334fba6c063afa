package slotcfg

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asterics/flipcore/internal/adcengine"
	"github.com/asterics/flipcore/internal/eventgroup"
	"github.com/asterics/flipcore/internal/transport"
	"github.com/asterics/flipcore/internal/vbbus"
	"github.com/asterics/flipcore/internal/vbmodel"
)

type nilSource struct{}

func (nilSource) ReadSample() (vbmodel.AdcSample, error) { return vbmodel.AdcSample{}, nil }

func newTestSwitcher() (*Switcher, *eventgroup.Group) {
	events := eventgroup.New()
	engine := adcengine.New(nilSource{}, []transport.HidSink{}, slog.Default(), nil)
	debouncer := vbbus.New(vbbus.DebounceConfig{}, 4, slog.Default())
	return NewSwitcher(events, engine, debouncer, slog.Default()), events
}

func TestCommitCyclesStableConfigBit(t *testing.T) {
	sw, events := newTestSwitcher()
	events.Set(eventgroup.SystemStableConfig)

	sw.Staging().SlotName = "work"
	sw.Commit()

	assert.True(t, events.Has(eventgroup.SystemStableConfig))
	assert.Equal(t, "work", sw.Current().SlotName)
}

func TestCloneIsIndependentOfStaging(t *testing.T) {
	sw, _ := newTestSwitcher()
	sw.Staging().Debounce.PressVB = append(sw.Staging().Debounce.PressVB, 5)
	sw.Commit()

	published := sw.Current().Debounce.PressVB
	sw.Staging().Debounce.PressVB[0] = 99
	assert.Equal(t, time.Duration(5), published[0])
}

func TestResolveSelectorNextWraps(t *testing.T) {
	sw, _ := newTestSwitcher()
	sw.Staging().SlotName = "a"
	sw.Commit()
	sw.SetSlotNames([]string{"a", "b", "c"})

	next, err := sw.ResolveSelector(SelectNext)
	require.NoError(t, err)
	assert.Equal(t, "b", next)

	prev, err := sw.ResolveSelector(SelectPrevious)
	require.NoError(t, err)
	assert.Equal(t, "c", prev)
}

func TestResolveSelectorDefaultIsEmptyName(t *testing.T) {
	sw, _ := newTestSwitcher()
	name, err := sw.ResolveSelector(SelectDefault)
	require.NoError(t, err)
	assert.Equal(t, "", name)
}

func TestLoadDefaultResetsStaging(t *testing.T) {
	sw, _ := newTestSwitcher()
	sw.Staging().SlotName = "custom"
	sw.Commit()

	sw.LoadDefault()
	assert.Equal(t, DefaultConfig().SlotName, sw.Current().SlotName)
}
