package deduplication

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned when a registration carries no usable field at
// all. Querying the vector index with an empty string would return an
// unrelated nearest-neighbour set, so the check fails fast instead.
var ErrInvalidInput = errors.New("registration is empty: provide at least one of full name, email, address or phone")

// RetrievalError wraps a failure of the external similarity-search
// collaborator. It is a hard failure: no partial or degraded result is
// produced from it.
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("similarity search failed: %v", e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// ComparisonError marks a single candidate whose stored fields could not be
// processed. It fails that pair only; the rest of the check proceeds.
type ComparisonError struct {
	CandidateID string
	Err         error
}

func (e *ComparisonError) Error() string {
	return fmt.Sprintf("candidate %s could not be compared: %v", e.CandidateID, e.Err)
}

func (e *ComparisonError) Unwrap() error { return e.Err }
