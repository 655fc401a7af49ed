package termui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tcassar-diss/ebelt/blueprint/blueprinttest"
	"github.com/tcassar-diss/ebelt/render"
	"github.com/tcassar-diss/ebelt/view"
	"go.uber.org/zap"
)

var errBrokenPipe = errors.New("broken pipe")

// fakeTerminal replays events and records what the loop did to it.
type fakeTerminal struct {
	width, height int
	events        []Event

	startErr  error
	stopErr   error
	readErr   error
	failDraw  int // 1-based draw that fails, 0 for never
	panicDraw int

	starts int
	stops  int
	frames []string
}

func (f *fakeTerminal) Start() error {
	f.starts++
	return f.startErr
}

func (f *fakeTerminal) Stop() error {
	f.stops++
	return f.stopErr
}

func (f *fakeTerminal) Size() (int, int, error) {
	return f.width, f.height, nil
}

func (f *fakeTerminal) ReadEvent(ctx context.Context) (Event, error) {
	if err := ctx.Err(); err != nil {
		return Event{}, err
	}

	if len(f.events) == 0 {
		if f.readErr != nil {
			return Event{}, f.readErr
		}

		return Event{}, io.EOF
	}

	ev := f.events[0]
	f.events = f.events[1:]

	return ev, nil
}

func (f *fakeTerminal) Draw(frame string) error {
	n := len(f.frames) + 1

	if n == f.panicDraw {
		panic("renderer blew up")
	}

	if n == f.failDraw {
		return errBrokenPipe
	}

	f.frames = append(f.frames, frame)

	return nil
}

func keys(names ...string) []Event {
	evs := make([]Event, 0, len(names))
	for _, n := range names {
		evs = append(evs, Event{Kind: KeyEvent, Key: Key(n)})
	}

	return evs
}

func newLoop(term Terminal) (*Loop, *view.State) {
	st := view.NewState(view.NewIndex(blueprinttest.Sample()))
	km := DefaultKeyMap()

	return NewLoop(zap.NewNop().Sugar(), term, st, render.New(render.DefaultTheme(), km), km), st
}

func TestLoop_QuitReleasesOnce(t *testing.T) {
	term := &fakeTerminal{width: 80, height: 24, events: keys("j", "enter", "l", "q", "j")}
	loop, st := newLoop(term)

	require.NoError(t, loop.Run(context.Background()))

	require.Equal(t, 1, term.starts)
	require.Equal(t, 1, term.stops)

	// one frame up front, then one per event before quit
	require.Len(t, term.frames, 4)
	require.Equal(t, view.Detail, st.Focus())
	require.Len(t, term.events, 1)

	last := term.frames[len(term.frames)-1]
	require.Len(t, strings.Split(last, "\n"), 24)
	require.Contains(t, last, "Detail: maps")
}

func TestLoop_DrawFailureMidSession(t *testing.T) {
	term := &fakeTerminal{width: 80, height: 24, events: keys("j", "j", "j"), failDraw: 3}
	loop, _ := newLoop(term)

	err := loop.Run(context.Background())
	require.ErrorIs(t, err, ErrTerminalIO)
	require.ErrorIs(t, err, errBrokenPipe)
	require.Equal(t, 1, term.stops)
	require.Len(t, term.frames, 2)
}

func TestLoop_ReadFailure(t *testing.T) {
	term := &fakeTerminal{width: 80, height: 24, readErr: errBrokenPipe}
	loop, _ := newLoop(term)

	err := loop.Run(context.Background())
	require.ErrorIs(t, err, ErrTerminalIO)
	require.Equal(t, 1, term.stops)
}

func TestLoop_StartFailure(t *testing.T) {
	term := &fakeTerminal{startErr: errors.New("not a tty")}
	loop, _ := newLoop(term)

	err := loop.Run(context.Background())
	require.ErrorIs(t, err, ErrTerminalIO)
	require.Equal(t, 1, term.stops)
	require.Empty(t, term.frames)
}

func TestLoop_RestoreFailureIsReported(t *testing.T) {
	term := &fakeTerminal{width: 80, height: 24, events: keys("q"), stopErr: errBrokenPipe}
	loop, _ := newLoop(term)

	err := loop.Run(context.Background())
	require.ErrorIs(t, err, ErrTerminalIO)
	require.ErrorIs(t, err, errBrokenPipe)
	require.Equal(t, 1, term.stops)
}

func TestLoop_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	term := &fakeTerminal{width: 80, height: 24, events: keys("j")}
	loop, _ := newLoop(term)

	require.NoError(t, loop.Run(ctx))
	require.Equal(t, 1, term.stops)
	require.Len(t, term.frames, 1)
}

func TestLoop_PanicReleasesOnce(t *testing.T) {
	term := &fakeTerminal{width: 80, height: 24, events: keys("j"), panicDraw: 2}
	loop, _ := newLoop(term)

	require.Panics(t, func() {
		_ = loop.Run(context.Background())
	})
	require.Equal(t, 1, term.stops)
}

func TestLoop_Resize(t *testing.T) {
	term := &fakeTerminal{
		width:  80,
		height: 24,
		events: append([]Event{{Kind: ResizeEvent, Width: 30, Height: 6}}, keys("q")...),
	}
	loop, st := newLoop(term)

	require.NoError(t, loop.Run(context.Background()))
	require.Len(t, term.frames, 2)
	require.Len(t, strings.Split(term.frames[1], "\n"), 6)

	// compact layout: the active pane gets the whole screen minus borders
	require.Equal(t, 4, st.Pane(view.Sections).Viewport())
}
