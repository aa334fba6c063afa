// Package atcmd implements the serial AT-command parser: tokenizer, the
// ~70-entry command table, singleshot/bind-mode staging, dispatch outcomes,
// and the reverse (save_slot) parser (spec §4.4).
package atcmd

import "strings"

// MaxFrameLen is the wire frame length bound (spec §4.4: "Maximum frame
// length 256 bytes; longer is FormatError").
const MaxFrameLen = 256

// atPrefix is matched case-insensitively (spec §4.4).
const atPrefix = "AT "

// token is one parsed AT command line: a two-letter name plus the raw,
// unsplit parameter text. How that text divides into one or two parameters
// depends on the matched CommandSpec's declared ParamSpecs, so splitting
// happens in parser.go rather than here.
type token struct {
	name string
	raw  string
}

// tokenize splits a single already-frame-delimited line into a token, or
// reports why it cannot. A line of length 2-3 equal to the bare prefix ("AT"
// or "AT ") is a heartbeat; heartbeat is reported via the ok=false,
// heartbeat=true return so the caller can reply "OK" without a table lookup.
func tokenize(line string) (tok token, heartbeat bool, outcome Outcome) {
	if len(line) > MaxFrameLen {
		return token{}, false, FormatError
	}

	trimmed := strings.TrimRight(line, "\r\n")
	if len(trimmed) == 2 && strings.EqualFold(trimmed, "AT") {
		return token{}, true, Success
	}
	if len(trimmed) == 3 && strings.EqualFold(trimmed, "AT ") {
		return token{}, true, Success
	}

	if len(trimmed) < 3 || !strings.EqualFold(trimmed[:3], atPrefix) {
		return token{}, false, PrefixOnly
	}

	rest := trimmed[3:]
	if len(rest) < 2 {
		return token{}, false, FormatError
	}

	name := strings.ToUpper(rest[:2])
	remainder := strings.TrimPrefix(rest[2:], " ")
	return token{name: name, raw: remainder}, false, Success
}
