package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStoreUnavailable marks connectivity and timeout failures of the document store.
	ErrStoreUnavailable = errors.New("document store unavailable")
	ErrSeedInProgress   = errors.New("seed already in progress")
)

// PartialSeedFailure is returned when a seed run stops after its first write attempt.
type PartialSeedFailure struct {
	Written    []Collection // collections filled by this run
	Skipped    []Collection // collections that already held documents
	Failed     Collection
	FailedDocs int  // documents of Failed that landed before the error
	RolledBack bool // the batch ran in a transaction and nothing was kept
	Err        error
}

func (e *PartialSeedFailure) Error() string {
	names := make([]string, 0, len(e.Written))
	for _, c := range e.Written {
		names = append(names, c.String())
	}
	state := "written=[" + strings.Join(names, ",") + "]"
	if e.RolledBack {
		state = "rolled back"
	}
	failed := e.Failed.String()
	if failed == "" {
		failed = "commit"
	}
	return fmt.Sprintf("partial seed failure on %s (%s): %v", failed, state, e.Err)
}

func (e *PartialSeedFailure) Unwrap() error {
	return e.Err
}

// StoreUnavailable wraps err so that errors.Is(err, ErrStoreUnavailable) holds.
func StoreUnavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
