// Command sofia2hdf5 collects the products of a SoFiA run into one HDF5
// file.
//
//	sofia2hdf5 sofia_input=cube.par
//	sofia2hdf5 convert --input cube.par --overwrite
//	sofia2hdf5 inspect cube.hdf5
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/robert-malhotra/sofia2hdf5/internal/config"
)

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cli.VersionPrinter = func(cmd *cli.Command) {
		printVersion(cmd.Root().Writer)
	}

	var opts convertOptions
	app := &cli.Command{
		Name:      "sofia2hdf5",
		Usage:     "Convert the output of a SoFiA run to HDF5",
		UsageText: "sofia2hdf5 [options] sofia_input=<file.par> [key=value ...]",
		Version:   Version,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     convertFlags(&opts),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() == 0 && !cmd.IsSet("input") {
				return cli.ShowAppHelp(cmd)
			}
			return runConvert(ctx, cmd, &opts)
		},
		Commands: []*cli.Command{
			convertCmd(),
			inspectCmd(),
			examplesCmd(),
			versionCmd(),
		},
		OnUsageError: usageError,
		ExitErrHandler: func(context.Context, *cli.Command, error) {
			// Exit codes are mapped by run.
		},
	}

	if err := app.Run(ctx, args); err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return exitCode(err)
	}
	return 0
}

func usageError(ctx context.Context, cmd *cli.Command, err error, isSubcommand bool) error {
	return fmt.Errorf("%v: %w", err, config.ErrUsage)
}
