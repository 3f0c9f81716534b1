package repository

import "errors"

var (
	ErrNotFound   = errors.New("resource not found")
	ErrValidation = errors.New("invalid input data")
	ErrStoreWrite = errors.New("store write failed")
	ErrConflict   = errors.New("resource was modified concurrently")
)
