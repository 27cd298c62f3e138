package deduplication

import (
	"context"
	"fmt"
	"log"
	"time"

	"dedupgate/types"
)

// VectorClient describes the minimal vector search functionality the engine
// requires from the external similarity-search collaborator.
type VectorClient interface {
	QuerySimilar(ctx context.Context, queryText string, nResults int) (*QueryResults, error)
	AddDocument(ctx context.Context, doc Document) error
	AddDocuments(ctx context.Context, docs []Document) error
	Count(ctx context.Context) (int, error)
	ClearCollection(ctx context.Context) error
	EmbeddingModel() string
	Close() error
}

// Document is a corpus entry as stored by the vector collaborator. Content
// carries the canonical details text that gets embedded; the identity fields
// ride along as metadata so retrieval can project them back.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]interface{}
}

// QueryResults is the collaborator's response to a similarity query. The
// outer slices are indexed per query; this engine always issues one query.
type QueryResults struct {
	IDs       [][]string                 `json:"ids"`
	Distances [][]float32                `json:"distances"`
	Metadatas [][]map[string]interface{} `json:"metadatas"`
	Documents [][]string                 `json:"documents"`
}

// RetrievalHit pairs one retrieved candidate with its similarity score.
type RetrievalHit struct {
	Record types.CustomerRecord
	Score  float32
}

// IndexName returns the index identifier for a backend/model pair, e.g.
// "chroma-docs-all-MiniLM-L6-v2". An index is only valid for the model it
// was built with.
func IndexName(backend, model string) string {
	return fmt.Sprintf("%s-docs-%s", backend, model)
}

// DocumentFromRecord shapes a customer record for indexing. Details is
// recomputed here so a stored document can never carry an independently
// authored details text.
func DocumentFromRecord(rec *types.CustomerRecord) Document {
	return Document{
		ID:      rec.ID,
		Content: RecordDetails(rec),
		Metadata: map[string]interface{}{
			"full_name":  rec.FullName,
			"email":      rec.Email,
			"address":    rec.Address,
			"phone":      rec.Phone,
			"indexed_at": time.Now().Format(time.RFC3339),
		},
	}
}

// Retriever adapts the vector collaborator into the candidate retrieval
// stage: it bounds the expensive pairwise comparison to at most k candidates
// regardless of corpus size.
type Retriever struct {
	vector  VectorClient
	retries int
	backoff time.Duration
}

// NewRetriever wraps a vector client with retry behaviour. retries is the
// number of attempts after the first failure; backoff doubles per attempt.
func NewRetriever(vector VectorClient, retries int, backoff time.Duration) *Retriever {
	return &Retriever{vector: vector, retries: retries, backoff: backoff}
}

// Retrieve returns up to k candidates ordered by similarity score
// descending. An empty corpus yields an empty slice, not an error. A failure
// of the collaborator (after retries) surfaces as a RetrievalError.
func (r *Retriever) Retrieve(ctx context.Context, queryText string, k int) ([]RetrievalHit, error) {
	if k <= 0 {
		return nil, nil
	}

	results, err := r.querySimilar(ctx, queryText, k)
	if err != nil {
		return nil, &RetrievalError{Err: err}
	}

	if len(results.IDs) == 0 || len(results.IDs[0]) == 0 {
		return nil, nil
	}

	ids := results.IDs[0]
	hits := make([]RetrievalHit, 0, len(ids))
	for i, id := range ids {
		if len(results.Distances) == 0 || len(results.Distances[0]) <= i {
			return nil, &RetrievalError{Err: fmt.Errorf("malformed response: %d ids but no distance for index %d", len(ids), i)}
		}

		var metadata map[string]interface{}
		if len(results.Metadatas) > 0 && len(results.Metadatas[0]) > i {
			metadata = results.Metadatas[0][i]
		}
		var details string
		if len(results.Documents) > 0 && len(results.Documents[0]) > i {
			details = results.Documents[0][i]
		}

		rec, err := recordFromMetadata(id, details, metadata)
		if err != nil {
			// Fails this pair only; the candidate drops out of the decision set.
			log.Printf("Warning: %v", &ComparisonError{CandidateID: id, Err: err})
			continue
		}

		// Cosine distance = 1 - cosine similarity
		hits = append(hits, RetrievalHit{Record: rec, Score: 1 - results.Distances[0][i]})
	}

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// querySimilar calls the collaborator with bounded retries. Comparison and
// aggregation are local and never retried; this is the only I/O stage.
func (r *Retriever) querySimilar(ctx context.Context, queryText string, k int) (*QueryResults, error) {
	backoff := r.backoff
	var lastErr error

	for attempt := 0; attempt <= r.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		results, err := r.vector.QuerySimilar(ctx, queryText, k)
		if err == nil {
			return results, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Printf("Warning: similarity query attempt %d/%d failed: %v", attempt+1, r.retries+1, err)
	}

	return nil, lastErr
}

// recordFromMetadata projects a retrieved document back into a customer
// record. Metadata values must be text (or absent); anything else is a
// comparison failure for that candidate.
func recordFromMetadata(id, details string, metadata map[string]interface{}) (types.CustomerRecord, error) {
	rec := types.CustomerRecord{ID: id, Details: details}

	fields := []struct {
		key string
		dst *string
	}{
		{"full_name", &rec.FullName},
		{"email", &rec.Email},
		{"address", &rec.Address},
		{"phone", &rec.Phone},
	}

	for _, f := range fields {
		value, ok := metadata[f.key]
		if !ok || value == nil {
			continue
		}
		s, ok := value.(string)
		if !ok {
			return types.CustomerRecord{}, fmt.Errorf("field %s has non-text value of type %T", f.key, value)
		}
		*f.dst = s
	}

	return rec, nil
}
