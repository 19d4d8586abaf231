package usecase

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrForbidden       = errors.New("user not authorized to perform this action")
)

// ValidationError carries every violated rule, not just the first one, so a
// caller can fix a request in a single round trip.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// MediaError reports a failed object-store batch. RolledBack tells whether
// the objects uploaded before the failure were all removed again; Orphans
// lists the object keys left behind when they were not.
type MediaError struct {
	Err        error
	RolledBack bool
	Orphans    []string
}

func (e *MediaError) Error() string {
	if e.RolledBack {
		return fmt.Sprintf("media upload failed (rolled back): %v", e.Err)
	}
	return fmt.Sprintf("media upload failed (%d orphaned objects): %v", len(e.Orphans), e.Err)
}

func (e *MediaError) Unwrap() error { return e.Err }

// StorageError reports a record-store failure. When the failure happened
// after a successful media attach, RolledBack and Orphans describe the
// outcome of compensating for that attach.
type StorageError struct {
	Err        error
	RolledBack bool
	Orphans    []string
}

func (e *StorageError) Error() string {
	if len(e.Orphans) > 0 {
		return fmt.Sprintf("record store failure (%d orphaned objects after rollback): %v", len(e.Orphans), e.Err)
	}
	return fmt.Sprintf("record store failure: %v", e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
