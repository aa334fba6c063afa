// Package gpio is the auxiliary button event source feeding the VB bus
// (spec §2 step 3, "button GPIOs"): a handful of discrete GPIO lines, each
// bound to one VB, polled for level changes and translated into the same
// VbEvent the ADC engine and AT singleshot path push onto the debouncer's
// input channel.
package gpio

import (
	"context"
	"log/slog"
	"time"

	"github.com/asterics/flipcore/internal/vbmodel"
)

// Line describes one physical button GPIO bound to a VB (spec §3.1's
// per-device VB assignment, extended to hardware buttons).
type Line struct {
	VB        vbmodel.VB
	Chip      string // e.g. "/dev/gpiochip0"
	Offset    uint32
	ActiveLow bool
}

// lineHandle is the platform-specific open line; see gpio_linux.go for the
// chardev ioctl implementation and gpio_other.go for the non-Linux stub.
type lineHandle interface {
	read() (bool, error)
	close() error
}

// openLine is a var (rather than a direct call to openLineHandle) so tests
// can substitute a fake line without touching real hardware or ioctls.
var openLine = openLineHandle

// Source polls a fixed set of Lines and pushes Press/Release VbEvents to Out
// whenever a line's level changes, following the same "single shared
// producer, debouncer is the consumer" contract as the ADC engine (spec
// §4.2).
type Source struct {
	lines        []Line
	out          chan<- vbmodel.VbEvent
	logger       *slog.Logger
	pollInterval time.Duration
}

// DefaultPollInterval matches the teacher's own tick-loop cadence for
// device input state sampling.
const DefaultPollInterval = 10 * time.Millisecond

// New returns a Source that will emit to out once Run is called.
func New(lines []Line, out chan<- vbmodel.VbEvent, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{lines: lines, out: out, logger: logger, pollInterval: DefaultPollInterval}
}

// SetPollInterval overrides DefaultPollInterval; must be called before Run.
func (s *Source) SetPollInterval(d time.Duration) {
	s.pollInterval = d
}

// Run opens every configured line, polls them at pollInterval, and pushes a
// VbEvent to Out each time a line's level flips, until ctx is cancelled. Any
// line that fails to open is logged and skipped rather than aborting the
// whole source — a daemon with one broken GPIO shouldn't lose the ADC path.
func (s *Source) Run(ctx context.Context) error {
	type openedLine struct {
		line   Line
		handle lineHandle
		state  bool
	}

	var open []*openedLine
	defer func() {
		for _, o := range open {
			if err := o.handle.close(); err != nil {
				s.logger.Warn("gpio: close line failed", "vb", o.line.VB, "error", err)
			}
		}
	}()

	for _, l := range s.lines {
		h, err := openLine(l)
		if err != nil {
			s.logger.Warn("gpio: open line failed, skipping", "vb", l.VB, "chip", l.Chip, "offset", l.Offset, "error", err)
			continue
		}
		initial, err := h.read()
		if err != nil {
			s.logger.Warn("gpio: initial read failed, skipping", "vb", l.VB, "error", err)
			_ = h.close()
			continue
		}
		open = append(open, &openedLine{line: l, handle: h, state: initial})
	}

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			for _, o := range open {
				pressed, err := o.handle.read()
				if err != nil {
					s.logger.Warn("gpio: read failed", "vb", o.line.VB, "error", err)
					continue
				}
				if pressed == o.state {
					continue
				}
				o.state = pressed
				kind := vbmodel.Release
				if pressed {
					kind = vbmodel.Press
				}
				select {
				case s.out <- vbmodel.VbEvent{VB: o.line.VB, Kind: kind}:
				case <-ctx.Done():
					return nil
				}
			}
		}
	}
}
