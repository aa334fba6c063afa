// Package binding implements the HID and non-HID (VB) binding tables: ordered
// multimaps keyed by (VB, half) with an O(1) active-mask, described in
// spec §4.3 and §9 ("Intrusive linked lists -> safer collections").
//
// Both HidBindingTable and VbBindingTable are instantiations of the same
// generic Table, which keeps the active-mask/ordering/locking logic in one
// place while giving each table a distinctly-typed payload.
package binding

import (
	"time"

	"github.com/asterics/flipcore/internal/vbmodel"
)

// Key identifies one trigger slot in a binding table.
type Key struct {
	VB   vbmodel.VB
	Half vbmodel.Half
}

// Entry is the shape a payload type must have to live in a Table.
type Entry interface {
	Key() Key
	AT() string
}

// chanMutex is a channel-backed mutex supporting a bounded-wait Lock, modeling
// the firmware's bounded-wait table lock (spec §5: "Max blocking time bounded
// at 50 ticks; exceeding is logged and the operation fails").
type chanMutex chan struct{}

func newChanMutex() chanMutex {
	m := make(chanMutex, 1)
	m <- struct{}{}
	return m
}

func (m chanMutex) Lock(timeout time.Duration) bool {
	select {
	case <-m:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (m chanMutex) Unlock() {
	m <- struct{}{}
}

// DefaultLockTimeout is the bounded wait used by EnterCritical/ExitCritical
// callers that don't specify one explicitly.
const DefaultLockTimeout = 50 * time.Millisecond

// Table is an ordered multimap from (VB, half) to entries of type E, with an
// O(1) active-mask query per half.
type Table[E Entry] struct {
	lock       chanMutex
	vbMax      int
	entries    map[Key][]E
	activeMask [2]uint64
}

// NewTable returns a Table accepting VBs in [0, vbMax).
func NewTable[E Entry](vbMax int) *Table[E] {
	return &Table[E]{
		lock:    newChanMutex(),
		vbMax:   vbMax,
		entries: make(map[Key][]E),
	}
}

// VBMax returns the exclusive upper bound on VB ids this table accepts.
func (t *Table[E]) VBMax() int {
	return t.vbMax
}

// EnterCritical acquires the table's lock with the default bounded wait.
// Returns ErrBusy if the lock could not be acquired in time.
func (t *Table[E]) EnterCritical() error {
	if !t.lock.Lock(DefaultLockTimeout) {
		return ErrBusy
	}
	return nil
}

// ExitCritical releases the lock acquired by EnterCritical.
func (t *Table[E]) ExitCritical() {
	t.lock.Unlock()
}

func (t *Table[E]) validateVB(vb vbmodel.VB) error {
	if vb == vbmodel.VBSingleshot {
		return ErrOutOfRange
	}
	if int(vb) < 0 || int(vb) >= t.vbMax {
		return ErrOutOfRange
	}
	return nil
}

// Add appends entry e. If replace is true, every existing entry with the same
// (VB, half) is removed first (the parser's standard "rebind" convention).
func (t *Table[E]) Add(e E, replace bool) error {
	k := e.Key()
	if err := t.validateVB(k.VB); err != nil {
		return err
	}
	if err := t.EnterCritical(); err != nil {
		return err
	}
	defer t.ExitCritical()

	if replace {
		delete(t.entries, k)
	}
	t.entries[k] = append(t.entries[k], e)
	t.activeMask[k.Half] |= 1 << uint(k.VB)
	return nil
}

// Delete removes every entry bound to vb, across both halves. Returns the
// number of entries removed.
func (t *Table[E]) Delete(vb vbmodel.VB) int {
	if err := t.validateVB(vb); err != nil {
		return 0
	}
	if err := t.EnterCritical(); err != nil {
		return 0
	}
	defer t.ExitCritical()

	removed := 0
	for _, half := range []vbmodel.Half{vbmodel.Press, vbmodel.Release} {
		k := Key{VB: vb, Half: half}
		removed += len(t.entries[k])
		delete(t.entries, k)
		t.activeMask[half] &^= 1 << uint(vb)
	}
	return removed
}

// Clear drops every binding in the table; the active-mask is zeroed.
func (t *Table[E]) Clear() {
	if err := t.EnterCritical(); err != nil {
		return
	}
	defer t.ExitCritical()
	t.entries = make(map[Key][]E)
	t.activeMask = [2]uint64{}
}

// GetAT returns the stored original AT text for vb, press half first, falling
// back to the release half. Returns ErrNotFound if neither half is bound.
func (t *Table[E]) GetAT(vb vbmodel.VB) (string, error) {
	if err := t.EnterCritical(); err != nil {
		return "", err
	}
	defer t.ExitCritical()

	for _, half := range []vbmodel.Half{vbmodel.Press, vbmodel.Release} {
		entries := t.entries[Key{VB: vb, Half: half}]
		if len(entries) > 0 {
			if at := entries[0].AT(); at != "" {
				return at, nil
			}
		}
	}
	return "", ErrNotFound
}

// IsActive is the O(1) active-mask lookup used by the dispatcher.
func (t *Table[E]) IsActive(vb vbmodel.VB, half vbmodel.Half) bool {
	if int(vb) < 0 || int(vb) >= 64 {
		return false
	}
	return t.activeMask[half]&(1<<uint(vb)) != 0
}

// Lookup returns the entries bound to (vb, half), in insertion order.
// The returned slice must not be mutated by the caller.
func (t *Table[E]) Lookup(vb vbmodel.VB, half vbmodel.Half) []E {
	if err := t.EnterCritical(); err != nil {
		return nil
	}
	defer t.ExitCritical()
	return t.entries[Key{VB: vb, Half: half}]
}

// SetChain atomically replaces the table's contents with entries and
// recomputes the active-mask. Used by slot load (§4.5 load_slot).
func (t *Table[E]) SetChain(entries []E) error {
	if err := t.EnterCritical(); err != nil {
		return err
	}
	defer t.ExitCritical()

	m := make(map[Key][]E)
	var mask [2]uint64
	for _, e := range entries {
		k := e.Key()
		if err := t.validateVB(k.VB); err != nil {
			continue
		}
		m[k] = append(m[k], e)
		mask[k.Half] |= 1 << uint(k.VB)
	}
	t.entries = m
	t.activeMask = mask
	return nil
}

// All returns a flat, insertion-stable-per-key snapshot of every entry
// currently bound, for the reverse parser and for slot persistence.
func (t *Table[E]) All() []E {
	if err := t.EnterCritical(); err != nil {
		return nil
	}
	defer t.ExitCritical()

	var out []E
	for _, es := range t.entries {
		out = append(out, es...)
	}
	return out
}
