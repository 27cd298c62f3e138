package corpus

import (
	"context"
	"fmt"
	"log"

	"dedupgate/deduplication"
	"dedupgate/types"
)

// DefaultBatchSize is how many records go into one embed+add round trip.
const DefaultBatchSize = 64

// Indexer writes customer records into the vector collaborator in batches.
type Indexer struct {
	vector    deduplication.VectorClient
	batchSize int
}

// NewIndexer creates an indexer. batchSize <= 0 selects DefaultBatchSize.
func NewIndexer(vector deduplication.VectorClient, batchSize int) *Indexer {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Indexer{vector: vector, batchSize: batchSize}
}

// Index pushes all records, batch by batch, and returns the number indexed.
func (ix *Indexer) Index(ctx context.Context, records []types.CustomerRecord) (int, error) {
	indexed := 0
	for start := 0; start < len(records); start += ix.batchSize {
		end := start + ix.batchSize
		if end > len(records) {
			end = len(records)
		}

		docs := make([]deduplication.Document, 0, end-start)
		for i := start; i < end; i++ {
			docs = append(docs, deduplication.DocumentFromRecord(&records[i]))
		}

		if err := ix.vector.AddDocuments(ctx, docs); err != nil {
			return indexed, fmt.Errorf("failed to index batch starting at %d: %w", start, err)
		}
		indexed += len(docs)
		log.Printf("Indexed %d/%d customer records", indexed, len(records))
	}
	return indexed, nil
}
