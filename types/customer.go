package types

import "time"

// CustomerRecord is a stored customer row from the corpus. The four identity
// fields are optional; an empty string means the field is absent. Details is
// derived from the other four fields and is never authored directly.
type CustomerRecord struct {
	ID       string `json:"id"`
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Details  string `json:"details,omitempty"`
}

// RegistrationInput is the raw registration form payload. All fields are
// optional individually, but at least one must be non-empty.
type RegistrationInput struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

// MatchedCustomer is one flagged duplicate, shaped for display. Ordering in a
// result slice is retrieval score descending.
type MatchedCustomer struct {
	ID             string  `json:"id"`
	FullName       string  `json:"full_name,omitempty"`
	Email          string  `json:"email,omitempty"`
	Address        string  `json:"address,omitempty"`
	Phone          string  `json:"phone,omitempty"`
	RetrievalScore float32 `json:"retrieval_score"`
	CompositeScore float64 `json:"composite_score"`
}

// CheckResult is the outcome of one registration duplicate check.
type CheckResult struct {
	IsDuplicate   bool              `json:"is_duplicate"`
	Matches       []MatchedCustomer `json:"matches,omitempty"`
	ComparedCount int               `json:"compared_count"`
	ExactPrecheck bool              `json:"exact_precheck,omitempty"`
	CheckedAt     time.Time         `json:"checked_at"`
}
