// Package domain holds the store-level failures shared by the domain
// repositories.
package domain

import "errors"

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)
