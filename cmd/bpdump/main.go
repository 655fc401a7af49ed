package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/tcassar-diss/ebelt/frontend"
	"github.com/urfave/cli/v2"
)

func main() {
	eCfg := &frontend.ExportCfg{
		Options: &frontend.GlobalFlags{},
	}

	app := &cli.App{
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "directory to write documents to (default: next to each object)",
				Destination: &eCfg.OutDir,
			}, &cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Value:       frontend.FormatTOML,
				Usage:       "document format: toml or json",
				Destination: &eCfg.Format,
			}, &cli.IntFlag{
				Name:        "jobs",
				Aliases:     []string{"j"},
				Usage:       "objects converted at once (default: number of CPUs)",
				Destination: &eCfg.Jobs,
			}, &cli.BoolFlag{
				Name:        "verbose",
				Aliases:     []string{"v"},
				Usage:       "log at debug level",
				Destination: &eCfg.Options.Verbose,
			}, &cli.StringFlag{
				Name:        "config",
				Usage:       "path to a TOML config file",
				Destination: &eCfg.Options.ConfigPath,
			},
		},
		Name:      "bpdump",
		ArgsUsage: "<object.o> [object.o...]",
		Usage:     "export eBPF objects as blueprint documents ebelt can open",
		Action: func(cCtx *cli.Context) error {
			if nArgs := cCtx.Args().Len(); nArgs < 1 {
				_ = cli.ShowAppHelp(cCtx)

				return cli.Exit(
					fmt.Sprintf("\nERROR: Too few arguments! Expected >=1, got %d", nArgs),
					1,
				)
			}

			eCfg.ObjectPaths = cCtx.Args().Slice()

			ctx, cancel := signal.NotifyContext(cCtx.Context, os.Interrupt)
			defer cancel()

			if err := frontend.RunExport(ctx, eCfg); err != nil {
				return cli.Exit(fmt.Sprintf("bpdump: %v", err), 2)
			}

			return nil
		},
	}

	if err := app.RunContext(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
