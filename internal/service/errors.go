// Package service holds the business operations behind the HTTP API and
// the CLI: room and tenant lifecycle with atomic occupancy updates,
// marking rent paid, maintenance tickets and the rent ledger.
//
// Services return the repository sentinels (repository.ErrNotFound,
// repository.ErrConflict) or ErrValidation, always wrapped so callers
// can use errors.Is.
package service

import (
	"errors"
	"fmt"
)

// ErrValidation marks input that was rejected before touching storage.
// Handlers translate it into an HTTP 400 response.
var ErrValidation = errors.New("validation failed")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}
