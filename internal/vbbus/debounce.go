// Package vbbus is the virtual-button event bus and debouncer (spec §4.2):
// every event source pushes to a single DebouncerIn channel, and the
// debouncer is the sole consumer of that channel and sole producer of the
// debounced stream the dispatcher reads.
package vbbus

import (
	"log/slog"
	"sync"
	"time"

	"github.com/asterics/flipcore/internal/vbmodel"
)

// DebounceConfig holds the global fallback and per-VB override timings (spec
// §4.2, §3.1). A zero entry in a per-VB slice means "use the global value".
type DebounceConfig struct {
	Press   time.Duration
	Release time.Duration
	Idle    time.Duration

	PressVB   []time.Duration
	ReleaseVB []time.Duration
	IdleVB    []time.Duration
}

func (c DebounceConfig) pressFor(vb vbmodel.VB) time.Duration {
	return pick(c.PressVB, vb, c.Press)
}

func (c DebounceConfig) releaseFor(vb vbmodel.VB) time.Duration {
	return pick(c.ReleaseVB, vb, c.Release)
}

func (c DebounceConfig) idleFor(vb vbmodel.VB) time.Duration {
	return pick(c.IdleVB, vb, c.Idle)
}

func pick(overrides []time.Duration, vb vbmodel.VB, fallback time.Duration) time.Duration {
	if int(vb) >= 0 && int(vb) < len(overrides) && overrides[vb] != 0 {
		return overrides[vb]
	}
	return fallback
}

// vbState is the per-(VB) timer bookkeeping the debouncer keeps. pressTimer
// and releaseTimer are mutually exclusive with idleTimer: while a VB is
// idle-locked out, new press/release arrivals are dropped entirely (spec
// §4.2: "disables retriggering for that VB until elapsed").
type vbState struct {
	pressTimer   *time.Timer
	releaseTimer *time.Timer
	idleTimer    *time.Timer
	idleLocked   bool
}

// Debouncer is the sole consumer of DebouncerIn and sole producer of the
// debounced output stream. One Debouncer instance exists per running daemon.
type Debouncer struct {
	in     chan vbmodel.VbEvent
	out    chan vbmodel.VbEvent
	logger *slog.Logger

	mu     sync.Mutex
	cfg    DebounceConfig
	states map[vbmodel.VB]*vbState
}

// New returns a Debouncer with the given input channel buffer depth. Callers
// obtain the input side via In() and should push every VbEvent there,
// regardless of origin (ADC engine, GPIO, AT singleshot).
func New(cfg DebounceConfig, bufSize int, logger *slog.Logger) *Debouncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Debouncer{
		in:     make(chan vbmodel.VbEvent, bufSize),
		out:    make(chan vbmodel.VbEvent, bufSize),
		logger: logger,
		cfg:    cfg,
		states: make(map[vbmodel.VB]*vbState),
	}
}

// In returns the single shared input channel (DebouncerIn in spec §4.2).
func (d *Debouncer) In() chan<- vbmodel.VbEvent { return d.in }

// Out returns the debounced output stream consumed by the dispatcher.
func (d *Debouncer) Out() <-chan vbmodel.VbEvent { return d.out }

// SetConfig replaces the debounce timing configuration. It does not itself
// cancel in-flight timers; call CancelAll on config commit per spec §4.2.
func (d *Debouncer) SetConfig(cfg DebounceConfig) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cfg = cfg
}

// CancelAll stops every pending press/release/idle timer without delivering
// the events they were guarding (spec §4.2: "on a config commit, all
// debounce timers are cancelled").
func (d *Debouncer) CancelAll() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, st := range d.states {
		stopTimer(st.pressTimer)
		stopTimer(st.releaseTimer)
		stopTimer(st.idleTimer)
	}
	d.states = make(map[vbmodel.VB]*vbState)
}

func stopTimer(t *time.Timer) {
	if t != nil {
		t.Stop()
	}
}

// Run drains In() until it is closed, applying the debounce rules to each
// event. It is meant to run in its own goroutine for the daemon's lifetime.
// Per-VB events preserve submission order since each VB's timers only ever
// run against that VB's own state under the Debouncer mutex; cross-VB
// ordering is not guaranteed, matching spec §4.2.
func (d *Debouncer) Run() {
	for ev := range d.in {
		d.handle(ev)
	}
	close(d.out)
}

func (d *Debouncer) handle(ev vbmodel.VbEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	st, ok := d.states[ev.VB]
	if !ok {
		st = &vbState{}
		d.states[ev.VB] = st
	}
	if st.idleLocked {
		d.logger.Debug("vbbus: dropping event, vb idle-locked", "vb", ev.VB, "kind", ev.Kind)
		return
	}

	switch ev.Kind {
	case vbmodel.Press:
		d.armPress(st, ev.VB)
	case vbmodel.Release:
		d.armRelease(st, ev.VB)
	}
}

func (d *Debouncer) armPress(st *vbState, vb vbmodel.VB) {
	stopTimer(st.releaseTimer)
	st.releaseTimer = nil

	delay := d.cfg.pressFor(vb)
	st.pressTimer = time.AfterFunc(delay, func() {
		d.commit(vb, vbmodel.Press)
	})
}

func (d *Debouncer) armRelease(st *vbState, vb vbmodel.VB) {
	if st.pressTimer != nil {
		// release arrived before the press timer fired: cancel the press
		// entirely, per spec §4.2.
		st.pressTimer.Stop()
		st.pressTimer = nil
		return
	}

	delay := d.cfg.releaseFor(vb)
	st.releaseTimer = time.AfterFunc(delay, func() {
		d.commit(vb, vbmodel.Release)
	})
}

// commit delivers a debounced event to Out() and, on press, arms the idle
// lockout timer that blocks retriggering until it elapses.
func (d *Debouncer) commit(vb vbmodel.VB, kind vbmodel.Half) {
	d.mu.Lock()
	st, ok := d.states[vb]
	if !ok {
		d.mu.Unlock()
		return
	}
	switch kind {
	case vbmodel.Press:
		st.pressTimer = nil
	case vbmodel.Release:
		st.releaseTimer = nil
	}

	idle := d.cfg.idleFor(vb)
	if idle > 0 {
		st.idleLocked = true
		stopTimer(st.idleTimer)
		st.idleTimer = time.AfterFunc(idle, func() {
			d.mu.Lock()
			if s, ok := d.states[vb]; ok {
				s.idleLocked = false
			}
			d.mu.Unlock()
		})
	}
	d.mu.Unlock()

	d.out <- vbmodel.VbEvent{VB: vb, Kind: kind}
}
