package stash

import (
	"errors"

	"github.com/aASDa213ASD/noiseless/pkg/artifacts"
	"github.com/aASDa213ASD/noiseless/pkg/filterspec"
)

var (
	// ErrNotFound marks a missing log or filter file.
	ErrNotFound = errors.New("file not found")

	// ErrInvalidFilter and ErrEmptyFilter re-export the filterspec sentinels
	// so front ends can classify every failure with a single import.
	ErrInvalidFilter = filterspec.ErrInvalidFormat
	ErrEmptyFilter   = filterspec.ErrEmpty

	// ErrOutputConflict re-exports the artifacts sentinel for the same
	// reason.
	ErrOutputConflict = artifacts.ErrOutputConflict
)
