package main

import (
	"errors"
	"io/fs"

	"github.com/robert-malhotra/sofia2hdf5/internal/config"
	"github.com/robert-malhotra/sofia2hdf5/internal/convert"
)

// Process exit codes.
const (
	exitSuccess    = 0
	exitFailure    = 1
	exitFileAccess = 5
	exitUserInput  = 7
)

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, config.ErrUsage), errors.Is(err, convert.ErrNoInputData):
		return exitUserInput
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission),
		errors.Is(err, convert.ErrOutputExists):
		return exitFileAccess
	}
	return exitFailure
}
