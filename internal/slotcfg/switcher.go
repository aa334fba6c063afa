package slotcfg

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/asterics/flipcore/internal/adcengine"
	"github.com/asterics/flipcore/internal/eventgroup"
	"github.com/asterics/flipcore/internal/vbbus"
)

// Selector values accepted by LoadSlot beyond a plain slot name (spec §4.5).
const (
	SelectNext           = "__NEXT"
	SelectPrevious       = "__PREVIOUS"
	SelectDefault        = "__DEFAULT"
	SelectRestoreFactory = "__RESTOREFACTORY"
	SelectUpdate         = "__UPDATE"
)

var ErrNoSlots = errors.New("slotcfg: no slots available")

// Switcher owns the published Config handle and a staging copy (spec §3.2,
// §4.5). AT command handlers mutate Staging() directly; Commit publishes it.
type Switcher struct {
	mu      sync.RWMutex
	current Config
	staging Config

	events    *eventgroup.Group
	engine    *adcengine.Engine
	debouncer *vbbus.Debouncer
	logger    *slog.Logger

	// CompatAutoSlot0 gates the "v2.5 compatibility" behaviour of implicitly
	// creating slot 0 on AT LI after AT DE (spec §9 open question 4). Off by
	// default; a re-implementation should not inherit legacy behaviour
	// silently.
	CompatAutoSlot0 bool

	slotNames   []string
	currentIdx  int
}

// NewSwitcher wires a Switcher to the shared event-group, ADC engine, and
// debouncer it must reload/cancel on commit.
func NewSwitcher(events *eventgroup.Group, engine *adcengine.Engine, debouncer *vbbus.Debouncer, logger *slog.Logger) *Switcher {
	cfg := DefaultConfig()
	return &Switcher{
		current: cfg,
		staging: cfg.Clone(),
		events:  events,
		engine:  engine,
		debouncer: debouncer,
		logger:  logger,
	}
}

// Current returns a snapshot of the published config. Safe for concurrent
// readers; the returned value is independent of subsequent staging edits.
func (s *Switcher) Current() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Staging returns a pointer to the staging copy AT command handlers mutate.
// Callers must hold no external lock; Staging itself is only ever touched by
// the single AT-parser task (spec §3.2: "the AT parser holds a write handle").
func (s *Switcher) Staging() *Config {
	return &s.staging
}

// Commit publishes the staging copy (spec §4.5 commit()): clears
// STABLECONFIG, swaps staging over published, cancels all debounce timers,
// reloads the ADC engine's config, then sets STABLECONFIG.
func (s *Switcher) Commit() {
	s.events.Clear(eventgroup.SystemStableConfig)

	s.mu.Lock()
	s.current = s.staging.Clone()
	s.mu.Unlock()

	s.debouncer.SetConfig(s.current.Debounce)
	s.debouncer.CancelAll()
	s.engine.SetConfig(s.current.Adc)

	s.events.Set(eventgroup.SystemStableConfig)
}

// registerSlotName records name in the switcher's in-memory slot ordering,
// used by the __NEXT/__PREVIOUS selectors. Callers refresh this list from
// the Store whenever a slot is saved or deleted.
func (s *Switcher) SetSlotNames(names []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slotNames = names
	for i, n := range names {
		if n == s.current.SlotName {
			s.currentIdx = i
			return
		}
	}
	s.currentIdx = 0
}

// ResolveSelector turns a load_slot selector into a concrete slot name.
// Plain names pass through unchanged.
func (s *Switcher) ResolveSelector(selector string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch selector {
	case SelectDefault, SelectRestoreFactory:
		return "", nil // caller loads DefaultConfig() directly, no Store read
	case SelectUpdate:
		return s.current.SlotName, nil
	case SelectNext:
		if len(s.slotNames) == 0 {
			return "", ErrNoSlots
		}
		return s.slotNames[(s.currentIdx+1)%len(s.slotNames)], nil
	case SelectPrevious:
		if len(s.slotNames) == 0 {
			return "", ErrNoSlots
		}
		return s.slotNames[(s.currentIdx-1+len(s.slotNames))%len(s.slotNames)], nil
	default:
		return selector, nil
	}
}

// LoadDefault resets the staging copy to factory defaults, preserving
// nothing from the previously published config, and commits it.
func (s *Switcher) LoadDefault() {
	s.mu.Lock()
	s.staging = DefaultConfig()
	s.mu.Unlock()
	s.Commit()
}

func (s *Switcher) String() string {
	return fmt.Sprintf("slotcfg.Switcher{current=%q}", s.Current().SlotName)
}
