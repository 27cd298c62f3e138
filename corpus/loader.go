// Package corpus loads customer chunk files and pushes them into the vector
// index. A chunk is a JSON array of customer rows in the export format the
// registration system produces.
package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"dedupgate/common"
	"dedupgate/deduplication"
	"dedupgate/types"
)

// chunkRow mirrors one row of an exported chunk file. The export uses
// spreadsheet-style column headers rather than snake_case, and null for
// absent fields.
type chunkRow struct {
	ID       string  `json:"_id"`
	FullName *string `json:"Full Name"`
	Email    *string `json:"Email"`
	Address  *string `json:"Address"`
	Phone    *string `json:"Phone Number"`
}

// LoadChunk reads a chunk from a local path or an s3:// URL and returns the
// records with their canonical details text derived.
func LoadChunk(ctx context.Context, source string) ([]types.CustomerRecord, error) {
	var reader io.ReadCloser

	if strings.HasPrefix(source, "s3://") {
		bucket, key, err := common.ParseS3URL(source)
		if err != nil {
			return nil, err
		}
		store, err := common.NewS3(ctx, common.S3Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 client: %w", err)
		}
		reader, err = store.Get(ctx, bucket, key)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch chunk %s: %w", source, err)
		}
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open chunk %s: %w", source, err)
		}
		reader = f
	}
	defer reader.Close()

	return ParseChunk(reader)
}

// ParseChunk decodes a chunk stream into customer records. Rows without an
// _id get a generated one; rows with no populated field at all are dropped.
func ParseChunk(r io.Reader) ([]types.CustomerRecord, error) {
	var rows []chunkRow
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode chunk: %w", err)
	}

	records := make([]types.CustomerRecord, 0, len(rows))
	for _, row := range rows {
		rec := types.CustomerRecord{
			ID:       row.ID,
			FullName: deref(row.FullName),
			Email:    deref(row.Email),
			Address:  deref(row.Address),
			Phone:    deref(row.Phone),
		}

		rec.Details = deduplication.RecordDetails(&rec)
		if rec.Details == "" {
			continue
		}
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		records = append(records, rec)
	}
	return records, nil
}

// WriteChunk encodes records back into the export format, with null for
// absent fields and the derived details text included.
func WriteChunk(w io.Writer, records []types.CustomerRecord) error {
	type outRow struct {
		ID       string  `json:"_id"`
		FullName *string `json:"Full Name"`
		Email    *string `json:"Email"`
		Address  *string `json:"Address"`
		Phone    *string `json:"Phone Number"`
		Details  string  `json:"details"`
	}

	rows := make([]outRow, len(records))
	for i := range records {
		rec := &records[i]
		rows[i] = outRow{
			ID:       rec.ID,
			FullName: ref(rec.FullName),
			Email:    ref(rec.Email),
			Address:  ref(rec.Address),
			Phone:    ref(rec.Phone),
			Details:  deduplication.RecordDetails(rec),
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ref(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
