package hidreport

// KeyPressReleaseCmd builds a tap (press-then-release) cmd for a USB HID
// keycode.
func KeyPressReleaseCmd(keycode byte) [3]byte { return [3]byte{KeyPressRelease, keycode, 0} }

// KeyPressCmd builds a press-and-hold cmd for a USB HID keycode.
func KeyPressCmd(keycode byte) [3]byte { return [3]byte{KeyPress, keycode, 0} }

// KeyReleaseCmd builds a release cmd for a USB HID keycode.
func KeyReleaseCmd(keycode byte) [3]byte { return [3]byte{KeyRelease, keycode, 0} }

// KeyToggleCmd builds a toggle cmd for a USB HID keycode.
func KeyToggleCmd(keycode byte) [3]byte { return [3]byte{KeyToggle, keycode, 0} }

// ModPressReleaseCmd builds a tap cmd for a modifier bitmask (ctrl/shift/alt/gui).
func ModPressReleaseCmd(mask byte) [3]byte { return [3]byte{ModPressRelease, mask, 0} }

// ModPressCmd builds a press-and-hold cmd for a modifier bitmask.
func ModPressCmd(mask byte) [3]byte { return [3]byte{ModPress, mask, 0} }

// ModReleaseCmd builds a release cmd for a modifier bitmask.
func ModReleaseCmd(mask byte) [3]byte { return [3]byte{ModRelease, mask, 0} }

// ModLeftShift is the USB HID keyboard modifier bitmask for the left Shift
// key, the only modifier TypeText needs to produce uppercase letters and
// shifted symbols.
const ModLeftShift byte = 0x02

// charToKey maps the ASCII characters KW accepts to their USB HID usage
// code, and shiftChars marks which of them need the Shift modifier held.
// Grounded on the common USB HID keyboard usage table.
var charToKey = map[byte]byte{
	'a': 0x04, 'b': 0x05, 'c': 0x06, 'd': 0x07, 'e': 0x08, 'f': 0x09, 'g': 0x0A,
	'h': 0x0B, 'i': 0x0C, 'j': 0x0D, 'k': 0x0E, 'l': 0x0F, 'm': 0x10, 'n': 0x11,
	'o': 0x12, 'p': 0x13, 'q': 0x14, 'r': 0x15, 's': 0x16, 't': 0x17, 'u': 0x18,
	'v': 0x19, 'w': 0x1A, 'x': 0x1B, 'y': 0x1C, 'z': 0x1D,

	'A': 0x04, 'B': 0x05, 'C': 0x06, 'D': 0x07, 'E': 0x08, 'F': 0x09, 'G': 0x0A,
	'H': 0x0B, 'I': 0x0C, 'J': 0x0D, 'K': 0x0E, 'L': 0x0F, 'M': 0x10, 'N': 0x11,
	'O': 0x12, 'P': 0x13, 'Q': 0x14, 'R': 0x15, 'S': 0x16, 'T': 0x17, 'U': 0x18,
	'V': 0x19, 'W': 0x1A, 'X': 0x1B, 'Y': 0x1C, 'Z': 0x1D,

	'1': 0x1E, '2': 0x1F, '3': 0x20, '4': 0x21, '5': 0x22,
	'6': 0x23, '7': 0x24, '8': 0x25, '9': 0x26, '0': 0x27,
	'!': 0x1E, '@': 0x1F, '#': 0x20, '$': 0x21, '%': 0x22,
	'^': 0x23, '&': 0x24, '*': 0x25, '(': 0x26, ')': 0x27,

	'-': 0x2D, '_': 0x2D, '=': 0x2E, '+': 0x2E,
	'[': 0x2F, '{': 0x2F, ']': 0x30, '}': 0x30,
	'\\': 0x31, '|': 0x31, ';': 0x33, ':': 0x33,
	'\'': 0x34, '"': 0x34, '`': 0x35, '~': 0x35,
	',': 0x36, '<': 0x36, '.': 0x37, '>': 0x37, '/': 0x38, '?': 0x38,

	' ': 0x2C, '\n': 0x28, '\r': 0x28, '\t': 0x2B,
}

var shiftChars = map[byte]bool{
	'A': true, 'B': true, 'C': true, 'D': true, 'E': true, 'F': true, 'G': true,
	'H': true, 'I': true, 'J': true, 'K': true, 'L': true, 'M': true, 'N': true,
	'O': true, 'P': true, 'Q': true, 'R': true, 'S': true, 'T': true, 'U': true,
	'V': true, 'W': true, 'X': true, 'Y': true, 'Z': true,
	'!': true, '@': true, '#': true, '$': true, '%': true,
	'^': true, '&': true, '*': true, '(': true, ')': true,
	'_': true, '+': true, '{': true, '}': true, '|': true,
	':': true, '"': true, '~': true, '<': true, '>': true, '?': true,
}

// TypeText renders text as a flat sequence of HID cmds: a ModPressReleaseCmd
// around each character that needs Shift, a KeyPressReleaseCmd per character,
// in source order. Unmapped characters are skipped. Used by the KW AT command
// (spec §9 supplement "macro expansion detail": KW stages multi-key text
// entry, out of scope for the single staged 3-byte HidCmd the rest of the
// table uses).
func TypeText(text string) [][3]byte {
	var cmds [][3]byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		keycode, ok := charToKey[c]
		if !ok {
			continue
		}
		if shiftChars[c] {
			cmds = append(cmds, ModPressReleaseCmd(ModLeftShift))
		}
		cmds = append(cmds, KeyPressReleaseCmd(keycode))
	}
	return cmds
}
