package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by stores and repositories when a key does not
// exist. Lookups surface absence to the caller, never a panic.
var ErrNotFound = errors.New("not found")

var (
	errNegativeScore   = errors.New("negative score")
	errQuarterMismatch = errors.New("quarter scores exceed final score")
)

func errEmpty(what string) error {
	return fmt.Errorf("missing %s", what)
}
