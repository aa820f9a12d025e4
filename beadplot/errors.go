package beadplot

import "errors"

var (
	ErrMissingColumn     = errors.New("required column missing")
	ErrFileNotFound      = errors.New("raw data file not found")
	ErrNoDataFiles       = errors.New("no csv files found")
	ErrUnknownModel      = errors.New("unknown prediction column")
	ErrSegmentOutOfRange = errors.New("segment outside raw series")
	ErrTooFewColumns     = errors.New("raw series needs at least two columns")
)
