package frontend

import (
	"context"
	"fmt"
	"io"

	"github.com/tcassar-diss/ebelt/blueprint"
	"github.com/tcassar-diss/ebelt/render"
	"github.com/tcassar-diss/ebelt/termui"
	"github.com/tcassar-diss/ebelt/view"
)

type SnapshotCfg struct {
	BlueprintPath string
	Width         int
	Height        int
	Keys          []string // pressed in order before the frame is drawn
	Options       *GlobalFlags
}

// RunSnapshot prints one frame of the viewer without touching the
// terminal mode.
func RunSnapshot(ctx context.Context, w io.Writer, cfg *SnapshotCfg) error {
	if cfg.Options == nil {
		cfg.Options = &GlobalFlags{}
	}

	conf, err := LoadConfig(cfg.Options.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := initLogger(LogConfig{Path: "stderr", Level: conf.Log.Level}, cfg.Options.Verbose)
	if err != nil {
		return fmt.Errorf("failed to get a logger: %w", err)
	}
	defer logger.Sync()

	if err := ctx.Err(); err != nil {
		return err
	}

	bp, err := LoadBlueprint(logger, cfg.BlueprintPath)
	if err != nil {
		return fmt.Errorf("failed to load blueprint: %w", err)
	}

	keys := termui.DefaultKeyMap()
	if err := keys.Override(conf.UI.Keys); err != nil {
		return fmt.Errorf("%w: %w", ErrBadConfig, err)
	}

	theme, err := initTheme(conf.UI.Theme)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBadConfig, err)
	}

	return Snapshot(w, bp, render.New(theme, keys), keys, cfg.Width, cfg.Height, cfg.Keys)
}

// Snapshot replays pressed against a fresh state and writes the resulting
// frame. Replay stops at the first quit key.
func Snapshot(w io.Writer, bp *blueprint.Blueprint, r *render.Renderer, keys *termui.KeyMap, width, height int, pressed []string) error {
	st := view.NewState(view.NewIndex(bp))
	st.SetViewports(render.NewLayout(width, height).Viewports())

	for _, k := range pressed {
		a := keys.Lookup(termui.Key(k))
		if a == view.Quit {
			break
		}

		st.Apply(a)
	}

	if _, err := fmt.Fprintln(w, r.Frame(st, width, height)); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}

	return nil
}
