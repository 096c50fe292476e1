package repository

import (
	"errors"

	"gorm.io/gorm"
)

// Store-agnostic error taxonomy. Services and the submission pipeline depend on
// these, never on driver-specific errors.
var (
	// ErrConflict is a uniqueness-constraint violation. Recoverable: the
	// taxonomy resolver retries its lookup, the sub-record attacher reports a
	// per-item failure.
	ErrConflict = errors.New("record already exists")

	// ErrNotFound is returned by Get-style lookups that miss.
	ErrNotFound = errors.New("record not found")
)

// translate maps gorm errors onto the store-agnostic taxonomy. Requires
// TranslateError on the gorm config so duplicate keys are normalized across
// postgres and sqlite.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	}
	return err
}
