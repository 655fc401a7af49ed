package frontend

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/tcassar-diss/ebelt/blueprint"
	"github.com/tcassar-diss/ebelt/render"
	"github.com/tcassar-diss/ebelt/termui"
	"github.com/tcassar-diss/ebelt/view"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type GlobalFlags struct {
	Verbose    bool   // debug level logging
	ConfigPath string // overrides $EBELT_CONFIG
}

type ViewerCfg struct {
	BlueprintPath string
	Driver        string // overrides ui.driver when set
	Options       *GlobalFlags

	// Terminal replaces the process tty for the raw driver.
	Terminal termui.Terminal
}

// RunViewer loads the blueprint and runs the viewer until the user quits.
// A blueprint that fails to load is reported before the terminal is
// touched.
func RunViewer(ctx context.Context, cfg *ViewerCfg) error {
	if cfg.Options == nil {
		cfg.Options = &GlobalFlags{}
	}

	conf, err := LoadConfig(cfg.Options.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Driver != "" {
		conf.UI.Driver = cfg.Driver
		if err := conf.validate(); err != nil {
			return err
		}
	}

	logger, err := initLogger(conf.Log, cfg.Options.Verbose)
	if err != nil {
		return fmt.Errorf("failed to get a logger: %w", err)
	}

	logger.Infoln("=== Launching ebelt ===")
	defer logger.Sync()

	bp, err := LoadBlueprint(logger, cfg.BlueprintPath)
	if err != nil {
		logger.Warnw("failed to load blueprint", "path", cfg.BlueprintPath, "error", err)
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

	logStats(logger, bp)

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	state := view.NewState(view.NewIndex(bp))
	renderer := render.New(theme, keys)

	switch conf.UI.Driver {
	case DriverTea:
		err = termui.RunTea(ctx, logger, state, renderer, keys)
	default:
		term := cfg.Terminal
		if term == nil {
			term = termui.NewProcessTerminal(os.Stdin, os.Stdout)
		}

		err = termui.NewLoop(logger, term, state, renderer, keys).Run(ctx)
	}

	if err != nil {
		logger.Warnw("viewer stopped with error", "error", err)
		return fmt.Errorf("viewer failed: %w", err)
	}

	return nil
}

func initLogger(conf LogConfig, verbose bool) (*zap.SugaredLogger, error) {
	level, err := zapcore.ParseLevel(conf.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	if verbose {
		level = zapcore.DebugLevel
	}

	// the terminal belongs to the UI, so logs only go to a file
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{conf.Path}
	zc.ErrorOutputPaths = []string{conf.Path}

	l, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build zap logger: %w", err)
	}

	return l.Sugar(), nil
}

func initTheme(overrides map[string]string) (render.Theme, error) {
	theme := render.DefaultTheme()

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}

	slices.Sort(names)

	for _, name := range names {
		if err := theme.Set(name, overrides[name]); err != nil {
			return render.Theme{}, err
		}
	}

	return theme, nil
}

func logStats(logger *zap.SugaredLogger, bp *blueprint.Blueprint) {
	if bp.Empty() {
		logger.Warnw("blueprint has no sections, maps or probes", "name", bp.Name)
		return
	}

	instructions := 0
	for _, s := range bp.Sections {
		instructions += len(s.Instructions)
	}

	logger.Infow("blueprint loaded",
		"name", bp.Name,
		"sections", len(bp.Sections),
		"maps", len(bp.Maps),
		"probes", len(bp.Probes),
		"instructions", instructions,
	)
}
