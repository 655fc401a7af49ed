package termui

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeKeys(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Key
	}{
		{name: "arrow", in: "\x1b[A", want: []Key{"up"}},
		{name: "application arrow", in: "\x1bOB", want: []Key{"down"}},
		{name: "runes", in: "jk", want: []Key{"j", "k"}},
		{name: "paging", in: "\x1b[5~\x1b[6~", want: []Key{"pgup", "pgdown"}},
		{name: "home end", in: "\x1b[H\x1b[4~", want: []Key{"home", "end"}},
		{name: "shift tab", in: "\x1b[Z", want: []Key{"shift+tab"}},
		{name: "ctrl c", in: "\x03", want: []Key{"ctrl+c"}},
		{name: "tab enter", in: "\t\r", want: []Key{"tab", "enter"}},
		{name: "lone escape", in: "\x1b", want: []Key{"esc"}},
		{name: "alt rune", in: "\x1bx", want: []Key{"alt+x"}},
		{name: "unknown csi dropped", in: "\x1b[99;9Xq", want: []Key{"q"}},
		{name: "multibyte rune", in: "é", want: []Key{"é"}},
		{name: "space", in: " ", want: []Key{" "}},
		{name: "backspace", in: "\x7f", want: []Key{"backspace"}},
		{name: "empty", in: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, DecodeKeys([]byte(tt.in)))
		})
	}
}

func TestKeyDecoder_SplitSequences(t *testing.T) {
	tests := []struct {
		name    string
		reads   []string
		want    []Key
		pending bool
	}{
		{name: "arrow split after esc", reads: []string{"\x1b", "[A"}, want: []Key{"up"}},
		{name: "arrow split after bracket", reads: []string{"j\x1b[", "B"}, want: []Key{"j", "down"}},
		{name: "csi split in params", reads: []string{"\x1b[1;", "5C"}, want: []Key{"ctrl+right"}},
		{name: "ss3 split", reads: []string{"\x1bO", "D"}, want: []Key{"left"}},
		{name: "whole sequence", reads: []string{"\x1b[6~q"}, want: []Key{"pgdown", "q"}},
		{name: "alt key is complete", reads: []string{"\x1bj"}, want: []Key{"alt+j"}},
		{name: "trailing esc held", reads: []string{"k\x1b"}, want: []Key{"k"}, pending: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d keyDecoder

			var got []Key
			for _, r := range tt.reads {
				got = append(got, d.Feed([]byte(r))...)
			}

			require.Equal(t, tt.want, got)
			require.Equal(t, tt.pending, d.Pending())
		})
	}
}

func TestKeyDecoder_FlushLoneEsc(t *testing.T) {
	var d keyDecoder

	require.Empty(t, d.Feed([]byte("\x1b")))
	require.True(t, d.Pending())

	require.Equal(t, []Key{"esc"}, d.Flush())
	require.False(t, d.Pending())
	require.Empty(t, d.Flush())
}
