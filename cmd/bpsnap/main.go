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
	sCfg := &frontend.SnapshotCfg{
		Options: &frontend.GlobalFlags{},
	}

	var keys cli.StringSlice

	app := &cli.App{
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "width",
				Aliases:     []string{"W"},
				Value:       120,
				Usage:       "frame width in cells",
				Destination: &sCfg.Width,
			}, &cli.IntFlag{
				Name:        "height",
				Aliases:     []string{"H"},
				Value:       40,
				Usage:       "frame height in lines",
				Destination: &sCfg.Height,
			}, &cli.StringSliceFlag{
				Name:        "key",
				Aliases:     []string{"k"},
				Usage:       "key to press before drawing, repeatable (e.g. -k j -k enter)",
				Destination: &keys,
			}, &cli.StringFlag{
				Name:        "config",
				Usage:       "path to a TOML config file",
				Destination: &sCfg.Options.ConfigPath,
			},
		},
		Name:      "bpsnap",
		ArgsUsage: "<object.o | blueprint.toml | blueprint.json>",
		Usage:     "print one ebelt frame without taking over the terminal",
		Action: func(cCtx *cli.Context) error {
			if nArgs := cCtx.Args().Len(); nArgs != 1 {
				_ = cli.ShowAppHelp(cCtx)

				return cli.Exit(
					fmt.Sprintf("\nERROR: Wrong number of arguments! Expected 1, got %d", nArgs),
					1,
				)
			}

			sCfg.BlueprintPath = cCtx.Args().First()
			sCfg.Keys = keys.Value()

			if err := frontend.RunSnapshot(cCtx.Context, os.Stdout, sCfg); err != nil {
				return cli.Exit(fmt.Sprintf("bpsnap: %v", err), 2)
			}

			return nil
		},
	}

	if err := app.RunContext(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
