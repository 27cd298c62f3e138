package config

import "time"

// Matching defaults
const (
	// DefaultTopK is the number of nearest neighbours fetched per check
	DefaultTopK = 5

	// DefaultFieldThreshold binarizes fuzzy per-field similarity scores
	DefaultFieldThreshold = 0.85

	// DefaultDecisionThreshold is the composite score at or above which a
	// candidate is flagged as a duplicate. With 1.0 a single matching field
	// is enough; see DESIGN.md before treating this as more than a placeholder.
	DefaultDecisionThreshold = 1.0

	// DefaultComparator is the string comparison method for fuzzy fields
	DefaultComparator = "jarowinkler"
)

// Vector search constants
const (
	// DefaultEmbeddingModel must match the model the corpus was indexed with
	DefaultEmbeddingModel = "all-MiniLM-L6-v2"

	// DefaultCollection is the vector collection holding customer records
	DefaultCollection = "customer_details"

	// IndexBackend names the vector backend in the index identifier
	// convention "<backend>-docs-<model>"
	IndexBackend = "chroma"
)

// Retrieval resilience constants
const (
	// RetrievalTimeout bounds a single duplicate check's retrieval call
	RetrievalTimeout = 5 * time.Second

	// RetrievalRetries is the number of retries after a failed retrieval
	RetrievalRetries = 2

	// RetrievalBackoff is the initial retry delay, doubled per attempt
	RetrievalBackoff = 200 * time.Millisecond
)
