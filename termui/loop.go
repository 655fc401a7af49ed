package termui

import (
	"context"
	"errors"
	"fmt"

	"github.com/tcassar-diss/ebelt/render"
	"github.com/tcassar-diss/ebelt/view"
	"go.uber.org/zap"
)

// ErrTerminalIO wraps every failure to read from, draw on or restore the
// terminal. It is the only error the loop returns.
var ErrTerminalIO = errors.New("terminal i/o")

// Loop owns the viewer state for one session. It waits for an event,
// applies it, draws one full frame and waits again.
type Loop struct {
	logger   *zap.SugaredLogger
	term     Terminal
	state    *view.State
	renderer *render.Renderer
	keys     *KeyMap

	width  int
	height int
}

func NewLoop(logger *zap.SugaredLogger, term Terminal, state *view.State, renderer *render.Renderer, keys *KeyMap) *Loop {
	return &Loop{
		logger:   logger,
		term:     term,
		state:    state,
		renderer: renderer,
		keys:     keys,
	}
}

// Run acquires the terminal and processes events until quit, ctx
// cancellation or a terminal failure. The terminal is released exactly
// once on every way out, panics included.
func (l *Loop) Run(ctx context.Context) (err error) {
	defer func() {
		p := recover()

		if stopErr := l.term.Stop(); stopErr != nil {
			err = errors.Join(err, fmt.Errorf("%w: restore: %w", ErrTerminalIO, stopErr))
		}

		if p != nil {
			panic(p)
		}
	}()

	if err := l.term.Start(); err != nil {
		return fmt.Errorf("%w: acquire: %w", ErrTerminalIO, err)
	}

	w, h, err := l.term.Size()
	if err != nil {
		return fmt.Errorf("%w: size: %w", ErrTerminalIO, err)
	}

	l.resize(w, h)

	if err := l.draw(); err != nil {
		return err
	}

	for {
		ev, err := l.term.ReadEvent(ctx)
		if err != nil {
			if ctx.Err() != nil {
				l.logger.Infow("viewer interrupted", "reason", ctx.Err())
				return nil
			}

			return fmt.Errorf("%w: read: %w", ErrTerminalIO, err)
		}

		if quit := l.handle(ev); quit {
			l.logger.Infow("viewer quit")
			return nil
		}

		if err := l.draw(); err != nil {
			return err
		}
	}
}

// handle applies one event and reports whether it asked to quit.
func (l *Loop) handle(ev Event) bool {
	switch ev.Kind {
	case ResizeEvent:
		l.resize(ev.Width, ev.Height)
	case KeyEvent:
		a := l.keys.Lookup(ev.Key)
		if a == view.Quit {
			return true
		}

		changed := l.state.Apply(a)
		l.logger.Debugw("key", "key", ev.Key, "action", a, "changed", changed, "focus", l.state.Focus())
	}

	return false
}

func (l *Loop) resize(w, h int) {
	l.width, l.height = w, h
	l.state.SetViewports(render.NewLayout(w, h).Viewports())
	l.logger.Debugw("resize", "width", w, "height", h)
}

func (l *Loop) draw() error {
	if err := l.term.Draw(l.renderer.Frame(l.state, l.width, l.height)); err != nil {
		return fmt.Errorf("%w: %w", ErrTerminalIO, err)
	}

	return nil
}
