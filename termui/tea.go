package termui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tcassar-diss/ebelt/render"
	"github.com/tcassar-diss/ebelt/view"
	"go.uber.org/zap"
)

// teaModel runs the same state and renderer as Loop under bubbletea.
type teaModel struct {
	logger   *zap.SugaredLogger
	state    *view.State
	renderer *render.Renderer
	keys     *KeyMap

	width  int
	height int
}

func (m teaModel) Init() tea.Cmd {
	return nil
}

func (m teaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.state.SetViewports(render.NewLayout(msg.Width, msg.Height).Viewports())
	case tea.KeyMsg:
		a := m.keys.Lookup(msg)
		if a == view.Quit {
			return m, tea.Quit
		}

		changed := m.state.Apply(a)
		m.logger.Debugw("key", "key", msg.String(), "action", a, "changed", changed, "focus", m.state.Focus())
	}

	return m, nil
}

func (m teaModel) View() string {
	return m.renderer.Frame(m.state, m.width, m.height)
}

// RunTea drives the viewer with bubbletea on the alternate screen. Extra
// options are passed to the program, e.g. for input and output in tests.
func RunTea(ctx context.Context, logger *zap.SugaredLogger, state *view.State, renderer *render.Renderer, keys *KeyMap, opts ...tea.ProgramOption) error {
	m := teaModel{
		logger:   logger,
		state:    state,
		renderer: renderer,
		keys:     keys,
	}

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)

	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			logger.Infow("viewer interrupted", "reason", ctx.Err())
			return nil
		}

		return fmt.Errorf("%w: %w", ErrTerminalIO, err)
	}

	logger.Infow("viewer quit")

	return nil
}
