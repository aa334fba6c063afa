package adcengine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/asterics/flipcore/internal/hidreport"
	"github.com/asterics/flipcore/internal/transport"
	"github.com/asterics/flipcore/internal/vbmodel"
)

// ErrConfigBusy is returned (and only logged, never fatal) when a sampling
// cycle cannot acquire the config read lock within maxLockAttempts ticks
// (spec §4.1: "inability to take the sampling lock in 30 ticks is logged and
// the cycle skipped").
var ErrConfigBusy = errors.New("adcengine: config lock busy, cycle skipped")

// ErrCalibrationFailed is returned by Calibrate when no attempt out of the
// retry budget produced offsets inside the accepted range.
var ErrCalibrationFailed = errors.New("adcengine: calibration did not converge")

const (
	maxLockAttempts  = 30
	maxReadAttempts  = 10
	readCooldown     = time.Second
	calibLockTime    = 3 * time.Second
	calibSamples     = 8
	calibMaxAttempts = 10
	calibMaxOffset   = 1000
)

// SampleSource reads one ADC sample. Production wiring is *usbbridge.I2CBridge.
type SampleSource interface {
	ReadSample() (vbmodel.AdcSample, error)
}

// Engine is the per-instance ADC sampling and mode translation state machine.
// One Engine exists per running daemon; its configuration is swapped as a
// whole on slot load/commit (spec §4.5).
type Engine struct {
	source SampleSource
	sinks  []transport.HidSink
	logger *slog.Logger

	cfgMu sync.RWMutex
	cfg   Config

	lastSample    vbmodel.AdcSample
	haveLastSample bool
	cooldownUntil time.Time

	offsetMu       sync.Mutex
	offsetX        int
	offsetY        int
	lastCalibrate  time.Time

	joystick *hidreport.JoystickState
	accelX   accelState
	accelY   accelState
	edges    thresholdEdges
	pressure *pressureMachine
}

// New builds an Engine. hasStrongBinding lets the pressure sub-state machine
// ask whether any of the eight strong-direction VBs currently have a binding,
// without this package importing the binding tables directly.
func New(source SampleSource, sinks []transport.HidSink, logger *slog.Logger, hasStrongBinding func(vbmodel.PressureState) bool) *Engine {
	return &Engine{
		source:   source,
		sinks:    sinks,
		logger:   logger,
		cfg:      DefaultConfig(),
		joystick: hidreport.NewJoystickState(),
		pressure: newPressureMachine(hasStrongBinding),
	}
}

// SetConfig atomically replaces the engine's live configuration (called on
// slot load/commit, spec §4.5).
func (e *Engine) SetConfig(cfg Config) {
	e.cfgMu.Lock()
	e.cfg = cfg
	e.cfgMu.Unlock()
	e.accelX.reset()
	e.accelY.reset()
	e.joystick.Reset()
}

func (e *Engine) tryConfig() (Config, bool) {
	for i := 0; i < maxLockAttempts; i++ {
		if e.cfgMu.TryRLock() {
			cfg := e.cfg
			e.cfgMu.RUnlock()
			return cfg, true
		}
		time.Sleep(time.Millisecond)
	}
	return Config{}, false
}

// Tick runs one sampling cycle: read, filter, translate, and push any HID
// cmds or VB events it produces. It never blocks longer than the read/lock
// budgets described in spec §4.1's failure semantics.
func (e *Engine) Tick(ctx context.Context, vbOut chan<- vbmodel.VbEvent) {
	cfg, ok := e.tryConfig()
	if !ok {
		e.logger.Warn("adc: config lock busy, skipping cycle")
		return
	}
	if time.Now().Before(e.cooldownUntil) {
		return
	}

	var sample vbmodel.AdcSample
	var err error
	for attempt := 0; attempt < maxReadAttempts; attempt++ {
		sample, err = e.source.ReadSample()
		if err == nil {
			break
		}
	}
	if err != nil {
		e.logger.Warn("adc: i2c read failed after retries, dropping cycle", "error", err)
		e.cooldownUntil = time.Now().Add(readCooldown)
		return
	}

	if isSpurious(e.lastSample, sample, e.haveLastSample) {
		e.logger.Debug("adc: rejecting spurious sample")
		return
	}
	e.lastSample = sample
	e.haveLastSample = true

	rotated := rotate(sample, cfg.Orientation)

	e.offsetMu.Lock()
	offX, offY := e.offsetX, e.offsetY
	e.offsetMu.Unlock()

	rawX, rawY := axes(rotated, offX, offY)
	x, y := deadzone(cfg, rawX, rawY)

	e.pressure.step(cfg, rotated.Pressure, x, y, time.Now(), vbOut)

	switch cfg.Mode {
	case ModeMouse:
		e.runMouse(ctx, cfg, x, y)
	case ModeJoystick:
		e.runJoystick(ctx, cfg, x, y)
	case ModeThreshold:
		e.edges.step(x, y, vbOut)
	case ModeNone:
		// mouthpiece movement ignored; pressure sub-machine above still runs.
	}
}

// runMouse ships at most one HID cmd per axis per tick: the wire format has
// no combined-XY opcode (spec §4.6), so a tick that moves on both axes sends
// two separate single-axis commands, the same way the singleshot MX/MY AT
// handlers already do.
func (e *Engine) runMouse(ctx context.Context, cfg Config, x, y int) {
	dx := mouseDelta(x, cfg.SensitivityX, cfg.Accel, cfg.MaxSpeed, &e.accelX.timeX, &e.accelX.accumX)
	dy := mouseDelta(y, cfg.SensitivityY, cfg.Accel, cfg.MaxSpeed, &e.accelY.timeY, &e.accelY.accumY)
	if dx != 0 {
		e.sendToAll(ctx, hidreport.MouseMove(hidreport.AxisXOnly, dx))
	}
	if dy != 0 {
		e.sendToAll(ctx, hidreport.MouseMove(hidreport.AxisYOnly, dy))
	}
}

func (e *Engine) runJoystick(ctx context.Context, cfg Config, x, y int) {
	cmdX := e.joystick.AxisUpdate(cfg.JoystickAxisX, joystickRaw(x))
	cmdY := e.joystick.AxisUpdate(cfg.JoystickAxisY, joystickRaw(y))
	e.sendToAll(ctx, cmdX)
	e.sendToAll(ctx, cmdY)
}

func (e *Engine) sendToAll(ctx context.Context, cmd [3]byte) {
	for _, sink := range e.sinks {
		if sink.Enabled() {
			sink.Send(ctx, cmd)
		}
	}
}
