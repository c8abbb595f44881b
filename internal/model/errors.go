package model

import "errors"

// ErrInvalidInput signals that a required input collection was absent or not
// a list at all. Data-quality problems inside individual records never raise
// it; those records are skipped where they are read.
var ErrInvalidInput = errors.New("invalid input")

// ErrNotFound signals a lookup by id that matched nothing.
var ErrNotFound = errors.New("not found")
