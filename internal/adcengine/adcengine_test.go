package adcengine

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asterics/flipcore/internal/transport"
	"github.com/asterics/flipcore/internal/vbmodel"
)

type fakeSource struct {
	samples []vbmodel.AdcSample
	i       int
	err     error
}

func (f *fakeSource) ReadSample() (vbmodel.AdcSample, error) {
	if f.err != nil {
		return vbmodel.AdcSample{}, f.err
	}
	if f.i >= len(f.samples) {
		return f.samples[len(f.samples)-1], nil
	}
	s := f.samples[f.i]
	f.i++
	return s, nil
}

type fakeSink struct {
	enabled bool
	sent    [][3]byte
}

func (f *fakeSink) Enabled() bool { return f.enabled }
func (f *fakeSink) Send(ctx context.Context, cmd [3]byte) bool {
	f.sent = append(f.sent, cmd)
	return true
}

func rest() vbmodel.AdcSample {
	return vbmodel.AdcSample{Up: 512, Down: 512, Left: 512, Right: 512, Pressure: 512}
}

func TestIsSpuriousRejectsLargeJump(t *testing.T) {
	prev := rest()
	cur := prev
	cur.Up += 500
	assert.True(t, isSpurious(prev, cur, true))
	assert.False(t, isSpurious(prev, prev, true))
	assert.False(t, isSpurious(prev, cur, false))
}

func TestRotate90DegreesCycles(t *testing.T) {
	s := vbmodel.AdcSample{Up: 1, Right: 2, Down: 3, Left: 4}
	r := rotate(s, vbmodel.Orientation90)
	assert.Equal(t, uint16(4), r.Up)
	assert.Equal(t, uint16(1), r.Right)
	assert.Equal(t, uint16(2), r.Down)
	assert.Equal(t, uint16(3), r.Left)
}

func TestDeadzoneRectangularClampsToZero(t *testing.T) {
	x, y := deadzoneAxis(10, 50), deadzoneAxis(-10, 50)
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)
	assert.Equal(t, 10, deadzoneAxis(60, 50))
}

func TestDeadzoneEllipticalInsideIsZero(t *testing.T) {
	x, y := deadzoneElliptical(10, 10, 50, 50)
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)
}

func TestEngineMouseModeMovesOnDeflection(t *testing.T) {
	s := rest()
	s.Right += 400
	src := &fakeSource{samples: []vbmodel.AdcSample{s}}
	sink := &fakeSink{enabled: true}
	logger := slog.Default()
	e := New(src, []transport.HidSink{sink}, logger, nil)
	cfg := DefaultConfig()
	cfg.DeadzoneX, cfg.DeadzoneY = 10, 10
	e.SetConfig(cfg)

	e.Tick(context.Background(), nil)
	require.NotEmpty(t, sink.sent)
}

func TestEngineThresholdModeEmitsPressAndRelease(t *testing.T) {
	pressed := rest()
	pressed.Left += 400
	neutral := rest()
	src := &fakeSource{samples: []vbmodel.AdcSample{pressed, neutral}}
	logger := slog.Default()
	e := New(src, nil, logger, nil)
	cfg := DefaultConfig()
	cfg.Mode = ModeThreshold
	cfg.DeadzoneX, cfg.DeadzoneY = 10, 10
	e.SetConfig(cfg)

	out := make(chan vbmodel.VbEvent, 8)
	e.Tick(context.Background(), out)
	e.Tick(context.Background(), out)
	close(out)

	var events []vbmodel.VbEvent
	for ev := range out {
		events = append(events, ev)
	}
	require.Len(t, events, 2)
	assert.Equal(t, vbmodel.VBRight, events[0].VB)
	assert.Equal(t, vbmodel.Press, events[0].Kind)
	assert.Equal(t, vbmodel.VBRight, events[1].VB)
	assert.Equal(t, vbmodel.Release, events[1].Kind)
}

func TestEngineSkipsCooldownAfterReadFailure(t *testing.T) {
	src := &fakeSource{err: assertErr{}}
	logger := slog.Default()
	e := New(src, nil, logger, nil)
	e.Tick(context.Background(), nil)
	assert.False(t, e.cooldownUntil.IsZero())
}

type assertErr struct{}

func (assertErr) Error() string { return "i2c failure" }

func TestCalibrateRateLimited(t *testing.T) {
	src := &fakeSource{samples: []vbmodel.AdcSample{rest()}}
	e := New(src, nil, slog.Default(), nil)
	require.NoError(t, e.Calibrate())
	first := e.offsetX
	src.samples[0].Right += 900
	require.NoError(t, e.Calibrate())
	assert.Equal(t, first, e.offsetX)
}
