package frontend

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/tcassar-diss/ebelt/blueprint"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrUnknownFormat = errors.New("unknown document format")

const (
	FormatTOML = "toml"
	FormatJSON = "json"
)

type ExportCfg struct {
	ObjectPaths []string
	OutDir      string // next to each object when empty
	Format      string
	Jobs        int // concurrent conversions, GOMAXPROCS when < 1
	Options     *GlobalFlags
}

// RunExport converts each object into a blueprint document. Objects are
// converted concurrently; the first failure cancels the rest.
func RunExport(ctx context.Context, cfg *ExportCfg) error {
	if cfg.Options == nil {
		cfg.Options = &GlobalFlags{}
	}

	format := strings.ToLower(cfg.Format)
	if format == "" {
		format = FormatTOML
	}

	if format != FormatTOML && format != FormatJSON {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, cfg.Format)
	}

	conf, err := LoadConfig(cfg.Options.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// no UI here, so log to stderr like any other command line tool
	logger, err := initLogger(LogConfig{Path: "stderr", Level: conf.Log.Level}, cfg.Options.Verbose)
	if err != nil {
		return fmt.Errorf("failed to get a logger: %w", err)
	}
	defer logger.Sync()

	jobs := cfg.Jobs
	if jobs < 1 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for _, path := range cfg.ObjectPaths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			return exportOne(logger, path, cfg.OutDir, format)
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	logger.Infow("exported blueprints", "count", len(cfg.ObjectPaths), "format", format)

	return nil
}

func exportOne(logger *zap.SugaredLogger, path, outDir, format string) error {
	bp, err := LoadBlueprint(logger, path)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}

	dest := DocumentPath(path, outDir, format)

	if err := saveBlueprint(bp, dest, format); err != nil {
		return fmt.Errorf("failed to save %s: %w", dest, err)
	}

	logger.Infow("saved blueprint", "object", path, "document", dest)

	return nil
}

// DocumentPath is where the document for the object at path is written.
func DocumentPath(path, outDir, format string) string {
	dir := outDir
	if dir == "" {
		dir = filepath.Dir(path)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	return filepath.Join(dir, base+"."+format)
}

func saveBlueprint(bp *blueprint.Blueprint, path, format string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file for blueprint: %w", err)
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	switch format {
	case FormatJSON:
		err = MarshalJSONBlueprint(f, bp)
	default:
		err = MarshalTOMLBlueprint(f, bp)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal blueprint: %w", err)
	}

	return nil
}
