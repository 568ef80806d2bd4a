package store

import "errors"

// ErrNotFound is returned when a requested row or artifact does not exist.
// A partially persisted model bundle also reports ErrNotFound: an
// incomplete artifact set must never surface as a trained model.
var ErrNotFound = errors.New("not found")
