// Command seed generates synthetic customer corpora and loads chunk files
// into the vector index.
//
// Generate a chunk file:
//
//	seed -count 100 -variants 20 -seed 42 -out corpus.json
//
// Index a chunk file (local path or s3:// URL):
//
//	seed -load corpus.json
//
// Generate and index directly:
//
//	seed -count 100 -variants 20
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"dedupgate/corpus"
	"dedupgate/deduplication"
	"dedupgate/synth"
	"dedupgate/types"
)

func main() {
	_ = godotenv.Load()

	count := flag.Int("count", 100, "number of independent customer records to generate")
	variants := flag.Int("variants", 20, "number of near-duplicate variants to generate")
	seed := flag.Int64("seed", 1, "random seed; the same seed reproduces the same corpus")
	out := flag.String("out", "", "write the generated corpus to this chunk file instead of indexing")
	load := flag.String("load", "", "index an existing chunk file (local path or s3:// URL)")
	batch := flag.Int("batch", corpus.DefaultBatchSize, "records per indexing batch")
	flag.Parse()

	ctx := context.Background()

	var records []types.CustomerRecord
	if *load != "" {
		loaded, err := corpus.LoadChunk(ctx, *load)
		if err != nil {
			log.Fatalf("failed to load chunk: %v", err)
		}
		records = loaded
		log.Printf("Loaded %d records from %s", len(records), *load)
	} else {
		gen := synth.NewGenerator(*seed)
		records = gen.CorpusWithVariants(*count, *variants)
		log.Printf("Generated %d records (%d base, %d variants) with seed %d",
			len(records), *count, *variants, *seed)
	}

	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatalf("failed to create %s: %v", *out, err)
		}
		defer f.Close()

		if err := corpus.WriteChunk(f, records); err != nil {
			log.Fatalf("failed to write chunk: %v", err)
		}
		log.Printf("Wrote %d records to %s", len(records), *out)
		return
	}

	cfg := deduplication.ConfigFromEnv()
	chroma, err := deduplication.NewChroma(ctx, cfg.ChromaConfig)
	if err != nil {
		log.Fatalf("failed to connect to Chroma: %v", err)
	}
	defer chroma.Close()

	indexer := corpus.NewIndexer(chroma, *batch)
	indexed, err := indexer.Index(ctx, records)
	if err != nil {
		log.Fatalf("indexing stopped after %d records: %v", indexed, err)
	}
	log.Printf("Indexed %d records into collection %s", indexed, cfg.ChromaConfig.CollectionName)
}
