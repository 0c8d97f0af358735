package store

import "errors"

var (
	ErrGet    = errors.New("unable to retrieve item from cache store")
	ErrSet    = errors.New("unable to store item in cache store")
	ErrDelete = errors.New("unable to delete item from cache store")
	ErrClear  = errors.New("unable to clear cache store")
)
