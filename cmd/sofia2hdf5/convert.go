package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/robert-malhotra/sofia2hdf5/internal/config"
	"github.com/robert-malhotra/sofia2hdf5/internal/convert"
	"github.com/robert-malhotra/sofia2hdf5/internal/logging"
)

type convertOptions struct {
	input      string
	catalog    string
	configFile string
	directory  string
	overwrite  bool
	parquet    bool
	verbose    bool
	logFormat  string
}

func convertFlags(o *convertOptions) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "SoFiA parameter file of the run",
			Destination: &o.input,
		},
		&cli.StringFlag{
			Name:        "catalog",
			Usage:       "catalog file, instead of the one derived from the parameters",
			Destination: &o.catalog,
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "YAML configuration file",
			Destination: &o.configFile,
		},
		&cli.StringFlag{
			Name:        "directory",
			Aliases:     []string{"d"},
			Usage:       "directory the parameter file paths are relative to",
			Destination: &o.directory,
		},
		&cli.BoolFlag{Name: "overwrite", Usage: "replace an existing output file", Destination: &o.overwrite},
		&cli.BoolFlag{Name: "parquet", Usage: "also write the catalog as Parquet", Destination: &o.parquet},
		&cli.BoolFlag{Name: "verbose", Usage: "log debug detail", Destination: &o.verbose},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log output format (console, json)",
			Destination: &o.logFormat,
		},
	}
}

func convertCmd() *cli.Command {
	var opts convertOptions
	return &cli.Command{
		Name:      "convert",
		Usage:     "Collect the products of a SoFiA run into one HDF5 file",
		UsageText: "sofia2hdf5 convert [options] [key=value ...]",
		Flags:     convertFlags(&opts),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runConvert(ctx, cmd, &opts)
		},
	}
}

// resolveConfig layers flags that were set explicitly over the file and
// key=value configuration.
func resolveConfig(cmd *cli.Command, o *convertOptions) (config.Config, error) {
	cfg, err := config.FromArgs(o.configFile, cmd.Args().Slice())
	if err != nil {
		return cfg, err
	}
	if cmd.IsSet("input") {
		cfg.SofiaInput = o.input
	}
	if cmd.IsSet("catalog") {
		cfg.SofiaCatalog = o.catalog
	}
	if cmd.IsSet("directory") {
		cfg.General.Directory = o.directory
	}
	if cmd.IsSet("overwrite") {
		cfg.General.Overwrite = o.overwrite
	}
	if cmd.IsSet("parquet") {
		cfg.General.ParquetCatalog = o.parquet
	}
	if cmd.IsSet("verbose") {
		cfg.General.Verbose = o.verbose
	}
	if cmd.IsSet("log-format") {
		cfg.General.LogFormat = o.logFormat
	}
	return cfg, nil
}

func runConvert(ctx context.Context, cmd *cli.Command, o *convertOptions) error {
	cfg, err := resolveConfig(cmd, o)
	if err != nil {
		return err
	}
	if cfg.PrintExamples {
		return writeExamples(cmd, "")
	}

	config.Finalize(&cfg)
	if cfg.SofiaInput == "" {
		return fmt.Errorf("no SoFiA parameter file given (sofia_input= or --input): %w", config.ErrUsage)
	}

	switch cfg.General.LogFormat {
	case "console", "":
		logging.Init(cmd.Root().ErrWriter, cfg.General.Verbose, true)
	case "json":
		logging.Init(cmd.Root().ErrWriter, cfg.General.Verbose, false)
	default:
		return fmt.Errorf("unknown log format %q: %w", cfg.General.LogFormat, config.ErrUsage)
	}
	ctx = logging.WithRun(ctx)

	res, err := convert.Run(ctx, cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Root().Writer, "Output file: %s\n", res.Output)
	return nil
}
