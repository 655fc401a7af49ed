package termui

import (
	"bytes"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

// escDelay is how long a trailing escape prefix waits for the rest of its
// sequence before it is decoded as typed.
const escDelay = 50 * time.Millisecond

// Key is one key press, named the way bubbletea names keys ("up",
// "pgdown", "shift+tab", "ctrl+c", "q") so one key map serves both
// drivers.
type Key string

func (k Key) String() string { return string(k) }

// escape sequences sent by common terminals in raw mode
var sequences = map[string]Key{
	"\x1b[A":    "up",
	"\x1b[B":    "down",
	"\x1b[C":    "right",
	"\x1b[D":    "left",
	"\x1bOA":    "up",
	"\x1bOB":    "down",
	"\x1bOC":    "right",
	"\x1bOD":    "left",
	"\x1b[H":    "home",
	"\x1b[F":    "end",
	"\x1bOH":    "home",
	"\x1bOF":    "end",
	"\x1b[1~":   "home",
	"\x1b[4~":   "end",
	"\x1b[7~":   "home",
	"\x1b[8~":   "end",
	"\x1b[5~":   "pgup",
	"\x1b[6~":   "pgdown",
	"\x1b[2~":   "insert",
	"\x1b[3~":   "delete",
	"\x1b[Z":    "shift+tab",
	"\x1b[1;5A": "ctrl+up",
	"\x1b[1;5B": "ctrl+down",
	"\x1b[1;5C": "ctrl+right",
	"\x1b[1;5D": "ctrl+left",
	"\x1b[1;2A": "shift+up",
	"\x1b[1;2B": "shift+down",
}

var controls = map[byte]Key{
	0x00: "ctrl+@",
	0x08: "ctrl+h",
	0x09: "tab",
	0x0a: "ctrl+j",
	0x0d: "enter",
	0x1b: "esc",
	0x1c: "ctrl+\\",
	0x1d: "ctrl+]",
	0x1e: "ctrl+^",
	0x1f: "ctrl+_",
	0x7f: "backspace",
}

// DecodeKeys splits raw terminal input into key presses. Unknown escape
// sequences are dropped whole so their tail is not read as typed text.
func DecodeKeys(data []byte) []Key {
	var keys []Key

	for len(data) > 0 {
		k, n := decodeOne(data)
		if k != "" {
			keys = append(keys, k)
		}

		data = data[n:]
	}

	return keys
}

func decodeOne(data []byte) (Key, int) {
	b := data[0]

	if b == 0x1b && len(data) > 1 {
		return decodeEscape(data)
	}

	if k, ok := controls[b]; ok {
		return k, 1
	}

	if b < 0x20 {
		return Key("ctrl+" + string(rune('a'+b-1))), 1
	}

	r, n := utf8.DecodeRune(data)
	if r == utf8.RuneError {
		return "", max(n, 1)
	}

	if r == ' ' {
		return " ", n
	}

	return Key(string(r)), n
}

func decodeEscape(data []byte) (Key, int) {
	// longest known sequence first
	best, bestLen := Key(""), 0
	for seq, k := range sequences {
		if len(seq) > bestLen && strings.HasPrefix(string(data), seq) {
			best, bestLen = k, len(seq)
		}
	}

	if bestLen > 0 {
		return best, bestLen
	}

	switch data[1] {
	case '[', 'O':
		// CSI or SS3 we do not know: skip to the final byte
		for i := 2; i < len(data); i++ {
			if data[i] >= 0x40 && data[i] <= 0x7e {
				return "", i + 1
			}
		}

		return "", len(data)
	case 0x1b:
		return "esc", 1
	}

	k, n := decodeOne(data[1:])
	if k == "" {
		return "esc", 1
	}

	return "alt+" + k, n + 1
}

// keyDecoder decodes a stream of reads. A sequence split across two reads
// is held back until the rest arrives or Flush is called.
type keyDecoder struct {
	pending []byte
}

// Feed decodes data after the bytes held back by the previous call.
func (d *keyDecoder) Feed(data []byte) []Key {
	buf := append(d.pending, data...)
	n := completeLen(buf)
	d.pending = slices.Clone(buf[n:])

	return DecodeKeys(buf[:n])
}

func (d *keyDecoder) Pending() bool {
	return len(d.pending) > 0
}

// Flush decodes whatever is held back as it stands; a lone escape byte
// becomes "esc".
func (d *keyDecoder) Flush() []Key {
	keys := DecodeKeys(d.pending)
	d.pending = nil

	return keys
}

// completeLen is the length of the prefix of buf that holds no unfinished
// escape sequence.
func completeLen(buf []byte) int {
	i := bytes.LastIndexByte(buf, 0x1b)
	if i < 0 || !partialEscape(buf[i:]) {
		return len(buf)
	}

	return i
}

func partialEscape(tail []byte) bool {
	if len(tail) == 1 {
		return true
	}

	for seq := range sequences {
		if len(tail) < len(seq) && strings.HasPrefix(seq, string(tail)) {
			return true
		}
	}

	if tail[1] != '[' {
		return false
	}

	// CSI without its final byte yet
	for _, b := range tail[2:] {
		if b >= 0x40 && b <= 0x7e {
			return false
		}
	}

	return true
}
