package main

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"
)

// Version and CreationDate identify the build.
const (
	Version      = "1.0.0"
	CreationDate = "2025-09-29"
)

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "This is version %s of sofia2hdf5.\n", Version)
	fmt.Fprintf(w, "Created on %s\n", CreationDate)
}

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			printVersion(cmd.Root().Writer)
			return nil
		},
	}
}
