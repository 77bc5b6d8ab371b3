// Package apperr holds sentinel errors shared by the service and its edges.
package apperr

import "errors"

var (
	// ErrNotFound means no article is registered under the requested slug.
	ErrNotFound = errors.New("not found")
	// ErrInvalidContent wraps content that fails to parse or validate.
	ErrInvalidContent = errors.New("invalid content")
	// ErrBadRequest marks caller input the service rejects.
	ErrBadRequest = errors.New("bad request")
)
