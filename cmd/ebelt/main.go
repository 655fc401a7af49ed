package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/tcassar-diss/ebelt/frontend"
	"github.com/urfave/cli/v2"
)

func main() {
	vCfg := &frontend.ViewerCfg{
		Options: &frontend.GlobalFlags{},
	}

	app := &cli.App{
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "verbose",
				Aliases:     []string{"v"},
				Usage:       "log at debug level",
				Destination: &vCfg.Options.Verbose,
			}, &cli.StringFlag{
				Name:        "config",
				Usage:       "path to a TOML config file (default $EBELT_CONFIG or ~/.config/ebelt/config.toml)",
				Destination: &vCfg.Options.ConfigPath,
			}, &cli.StringFlag{
				Name:        "driver",
				Usage:       "terminal driver: raw or tea (overrides ui.driver)",
				Destination: &vCfg.Driver,
			},
		},
		Name:      "ebelt",
		ArgsUsage: "<object.o | blueprint.toml | blueprint.json>",
		Usage:     "eBPF & ELF terminal meddler: browse the sections, maps and probes of an eBPF object",
		Action: func(cCtx *cli.Context) error {
			if nArgs := cCtx.Args().Len(); nArgs != 1 {
				_ = cli.ShowAppHelp(cCtx)

				return cli.Exit(
					fmt.Sprintf("\nERROR: Wrong number of arguments! Expected 1, got %d", nArgs),
					1,
				)
			}

			vCfg.BlueprintPath = cCtx.Args().First()

			if err := frontend.RunViewer(cCtx.Context, vCfg); err != nil {
				return cli.Exit(fmt.Sprintf("ebelt: %v", err), 2)
			}

			return nil
		},
	}

	if err := app.RunContext(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
