package accounts

import (
	"errors"
	"fmt"
)

// errUnchanged aborts a store update that found nothing to write.
var errUnchanged = errors.New("unchanged")

func isDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateEmail)
}

// wrapStoreErr passes domain errors through and labels everything else as a store failure.
func wrapStoreErr(err error) error {
	switch {
	case errors.Is(err, ErrDuplicateEmail), errors.Is(err, ErrInvalidInput):
		return err
	default:
		return fmt.Errorf("update store: %w", err)
	}
}
