package frontend

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tcassar-diss/ebelt/blueprint"
	"github.com/tcassar-diss/ebelt/termui"
)

// scriptedTerminal presses keys in order and keeps every frame drawn.
type scriptedTerminal struct {
	keys   []termui.Key
	starts int
	stops  int
	frames []string
}

func (s *scriptedTerminal) Start() error            { s.starts++; return nil }
func (s *scriptedTerminal) Stop() error             { s.stops++; return nil }
func (s *scriptedTerminal) Size() (int, int, error) { return 160, 30, nil }

func (s *scriptedTerminal) ReadEvent(ctx context.Context) (termui.Event, error) {
	if len(s.keys) == 0 {
		return termui.Event{}, io.EOF
	}

	k := s.keys[0]
	s.keys = s.keys[1:]

	return termui.Event{Kind: termui.KeyEvent, Key: k}, nil
}

func (s *scriptedTerminal) Draw(frame string) error {
	s.frames = append(s.frames, frame)
	return nil
}

func viewerCfg(t *testing.T, path string, term termui.Terminal, conf string) *ViewerCfg {
	t.Helper()
	isolate(t)

	body := "[log]\npath = \"" + filepath.ToSlash(filepath.Join(t.TempDir(), "ebelt.log")) + "\"\n" + conf

	return &ViewerCfg{
		BlueprintPath: path,
		Terminal:      term,
		Options: &GlobalFlags{
			ConfigPath: writeConfig(t, filepath.Join(t.TempDir(), "config.toml"), body),
		},
	}
}

func TestRunViewer(t *testing.T) {
	term := &scriptedTerminal{keys: []termui.Key{"j", "enter", "q"}}

	err := RunViewer(context.Background(), viewerCfg(t, "testdata/sample.toml", term, ""))
	require.NoError(t, err)

	require.Equal(t, 1, term.starts)
	require.Equal(t, 1, term.stops)
	require.Len(t, term.frames, 3)
	require.Contains(t, term.frames[2], "Detail: license")
	require.Contains(t, term.frames[2], "|GPL.|")
}

func TestRunViewer_KeyOverrides(t *testing.T) {
	term := &scriptedTerminal{keys: []termui.Key{"q", "x"}}

	err := RunViewer(context.Background(), viewerCfg(t, "testdata/sample.toml", term, "[ui.keys]\nquit = [\"x\"]\ndown = [\"q\"]\n"))
	require.NoError(t, err)

	// q moved the cursor, x quit
	require.Len(t, term.frames, 2)
	require.Contains(t, term.frames[1], "Sections 2/3")
	require.Equal(t, 1, term.stops)
}

func TestRunViewer_FailsBeforeTerminal(t *testing.T) {
	tests := []struct {
		name string
		path string
		conf string
		err  error
	}{
		{name: "invalid blueprint", path: "testdata/broken.toml", err: blueprint.ErrInvalidBlueprint},
		{name: "bad key binding", path: "testdata/sample.toml", conf: "[ui.keys]\nlaunch = [\"x\"]\n", err: ErrBadConfig},
		{name: "bad colour", path: "testdata/sample.toml", conf: "[ui.theme]\naccent = \"red\"\n", err: ErrBadConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term := &scriptedTerminal{keys: []termui.Key{"q"}}

			err := RunViewer(context.Background(), viewerCfg(t, tt.path, term, tt.conf))
			require.ErrorIs(t, err, tt.err)
			require.Zero(t, term.starts)
			require.Empty(t, term.frames)
		})
	}
}
