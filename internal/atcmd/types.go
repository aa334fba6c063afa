package atcmd

import "github.com/asterics/flipcore/internal/slotcfg"

// ParamKind is one of the three AT parameter shapes (spec §4.4).
type ParamKind int

const (
	ParamNone ParamKind = iota
	ParamNumber
	ParamString
)

// ParamSpec describes one declared parameter slot of a CommandSpec. For
// ParamNumber, Min/Max bound the decimal signed integer; for ParamString,
// MinLen/MaxLen bound its length.
type ParamSpec struct {
	Kind           ParamKind
	Min, Max       int32
	MinLen, MaxLen int
}

// Param is one parsed-and-validated argument.
type Param struct {
	Kind ParamKind
	Num  int32
	Str  string
}

// HandlerFunc processes a fully tokenized and type-checked command. line is
// the original text (for original_at bookkeeping); params has exactly as
// many entries as the matched CommandSpec declares.
type HandlerFunc func(p *Parser, line string, params []Param) Outcome

// StoreFunc writes one validated numeric parameter directly into the
// parser's staging Config. Kept value-typed (no offset/width table) since Go
// already gives field-level type safety; the spec's "validate at
// table-construction time" intent is satisfied by each StoreFunc closing
// over a single concrete field.
type StoreFunc func(cfg *slotcfg.Config, v int32)

// CommandSpec is one entry of the AT command table (spec §4.4, §9: "keep the
// tagged-enum shape: Action::Store{offset,width} or Action::Handler(fn)").
// Exactly one of Store or Handler is set.
type CommandSpec struct {
	Name   string
	Params []ParamSpec

	Store   StoreFunc
	Handler HandlerFunc
}
