package app

import (
	"errors"

	"github.com/hylla/flowboard/internal/domain"
)

// ErrNotFound and related errors describe validation and runtime failures.
var (
	ErrNotFound                   = domain.ErrNotFound
	ErrUnsupportedSnapshotVersion = errors.New("unsupported snapshot version")
)

// IsRejection reports whether err is one of the quiet outcomes a user action
// can produce: empty text or title, or an address that no longer exists. The
// board is unchanged after a rejection and callers usually show no error.
func IsRejection(err error) bool {
	return errors.Is(err, domain.ErrInvalidText) ||
		errors.Is(err, domain.ErrInvalidTitle) ||
		errors.Is(err, domain.ErrNotFound)
}
