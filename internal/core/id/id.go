// Package id provides the surrogate key type shared by all entities.
// Keys are assigned by storage (identity columns), are monotonic and never reused.
package id

import (
	"fmt"
	"strconv"
)

// ID is a storage-assigned surrogate key.
type ID int64

// Parse converts a path or body value to ID with validation.
func Parse(s string) (ID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse id %q: %w", s, err)
	}
	return ID(v), nil
}

// String returns the decimal representation.
func (i ID) String() string {
	return strconv.FormatInt(int64(i), 10)
}

// Int64 returns the raw value.
func (i ID) Int64() int64 {
	return int64(i)
}

// IsNil reports whether the ID has not been assigned yet.
func IsNil(i ID) bool {
	return i == 0
}
