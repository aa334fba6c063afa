package binding

import "errors"

// Sentinel errors surfaced by binding-table operations (spec §7).
var (
	ErrOutOfRange  = errors.New("binding: vb out of range")
	ErrOutOfMemory = errors.New("binding: allocation failed")
	ErrNotFound    = errors.New("binding: not found")
	ErrBusy        = errors.New("binding: table lock not acquired in time")
)
