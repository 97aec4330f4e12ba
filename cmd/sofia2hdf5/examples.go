package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/robert-malhotra/sofia2hdf5/internal/config"
)

func examplesCmd() *cli.Command {
	return &cli.Command{
		Name:      "examples",
		Usage:     "Write an example configuration file",
		UsageText: "sofia2hdf5 examples [path]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return writeExamples(cmd, cmd.Args().First())
		},
	}
}

func writeExamples(cmd *cli.Command, path string) error {
	written, err := config.WriteExample(path)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(written)
	if err != nil {
		abs = written
	}
	fmt.Fprintf(cmd.Root().Writer, "We have printed the file %s.\n", abs)
	return nil
}
