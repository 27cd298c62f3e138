package deduplication

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"dedupgate/config"
	"dedupgate/types"
)

// MatchDecision is the aggregated verdict for one (target, candidate) pair.
// CompositeScore is the sum of the comparison vector's indicators; ranking
// among duplicates uses RetrievalScore, never CompositeScore.
type MatchDecision struct {
	Candidate      types.CustomerRecord `json:"candidate"`
	Fields         ComparisonVector     `json:"fields"`
	CompositeScore float64              `json:"composite_score"`
	RetrievalScore float32              `json:"retrieval_score"`
	IsDuplicate    bool                 `json:"is_duplicate"`
}

// CheckOptions override matching parameters for a single call. Zero values
// fall back to the configured defaults.
type CheckOptions struct {
	TopK              int
	Method            Method
	FieldThreshold    float64
	DecisionThreshold float64
}

// Deduplicator decides whether a registration duplicates an existing
// customer: it normalizes the input, retrieves the nearest candidates from
// the vector collaborator, compares fields pairwise, aggregates, and ranks.
type Deduplicator struct {
	vector    VectorClient
	retriever *Retriever
	bloom     *RedisBloom
	defaults  CheckOptions
}

// DeduplicatorConfig holds configuration for the deduplicator.
type DeduplicatorConfig struct {
	ChromaConfig      ChromaConfig
	TopK              int     // Default: 5
	Comparator        string  // Default: "jarowinkler"
	FieldThreshold    float64 // Default: 0.85
	DecisionThreshold float64 // Default: 1.0
	// Optional Bloom filter configuration. If nil, the exact pre-check is disabled.
	BloomConfig *BloomConfig
}

// NewDeduplicator creates a deduplicator backed by a Chroma connection.
func NewDeduplicator(ctx context.Context, cfg DeduplicatorConfig) (*Deduplicator, error) {
	chroma, err := NewChroma(ctx, cfg.ChromaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Chroma: %w", err)
	}
	return NewDeduplicatorWithClient(chroma, cfg)
}

// NewDeduplicatorWithClient constructs a deduplicator from a preconfigured
// vector client.
func NewDeduplicatorWithClient(client VectorClient, cfg DeduplicatorConfig) (*Deduplicator, error) {
	if client == nil {
		return nil, fmt.Errorf("vector client cannot be nil")
	}

	defaults, err := resolveDefaults(cfg)
	if err != nil {
		return nil, err
	}

	var bloomClient *RedisBloom
	if cfg.BloomConfig != nil {
		b, err := NewRedisBloom(*cfg.BloomConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize RedisBloom: %w", err)
		}
		bloomClient = b
	}

	return &Deduplicator{
		vector:    client,
		retriever: NewRetriever(client, config.RetrievalRetries, config.RetrievalBackoff),
		bloom:     bloomClient,
		defaults:  defaults,
	}, nil
}

// CheckRegistration runs the full pipeline for one registration: normalize,
// retrieve, compare each candidate, aggregate, rank. It returns
// ErrInvalidInput when every field is absent and a RetrievalError when the
// collaborator fails.
func (d *Deduplicator) CheckRegistration(ctx context.Context, input *types.RegistrationInput, opts CheckOptions) (*types.CheckResult, error) {
	checkTime := time.Now()

	query := InputDetails(input)
	if query == "" {
		return nil, ErrInvalidInput
	}

	opts = d.applyDefaults(opts)

	// Advisory fast-path: a bloom hit means this exact identity was probably
	// registered before. The full pipeline still runs so the colliding record
	// can be shown, and so a false positive cannot reject anyone by itself.
	exactHit := false
	if d.bloom != nil {
		if hash, err := IdentityHash(input.Email, input.Phone); err == nil {
			exists, err := d.bloom.Exists(ctx, hash)
			if err != nil {
				log.Printf("Warning: bloom check failed: %v", err)
			} else {
				exactHit = exists
			}
		}
	}

	retrievalCtx, cancel := context.WithTimeout(ctx, config.RetrievalTimeout)
	defer cancel()

	hits, err := d.retriever.Retrieve(retrievalCtx, query, opts.TopK)
	if err != nil {
		return nil, err
	}

	target := recordFromInput(input)
	decisions := d.decideAll(&target, hits, opts)

	matches := FormatMatches(decisions)
	return &types.CheckResult{
		IsDuplicate:   len(matches) > 0,
		Matches:       matches,
		ComparedCount: len(hits),
		ExactPrecheck: exactHit,
		CheckedAt:     checkTime,
	}, nil
}

// Decide aggregates one pair: composite score is the sum of field
// indicators, the duplicate flag is composite >= decision threshold. Pure
// function of (target, hit) and the options.
func Decide(target *types.CustomerRecord, hit RetrievalHit, opts CheckOptions) MatchDecision {
	cmp := Comparator{Method: opts.Method, Threshold: opts.FieldThreshold}
	vec := cmp.Compare(target, &hit.Record)
	composite := vec.Sum()

	return MatchDecision{
		Candidate:      hit.Record,
		Fields:         vec,
		CompositeScore: composite,
		RetrievalScore: hit.Score,
		IsDuplicate:    composite >= opts.DecisionThreshold,
	}
}

// decideAll compares the target against every retrieved candidate. The
// comparisons are independent and CPU-bound, so they run in parallel, each
// writing only its own slot.
func (d *Deduplicator) decideAll(target *types.CustomerRecord, hits []RetrievalHit, opts CheckOptions) []MatchDecision {
	decisions := make([]MatchDecision, len(hits))

	var wg sync.WaitGroup
	for i, hit := range hits {
		wg.Add(1)
		go func(i int, hit RetrievalHit) {
			defer wg.Done()
			decisions[i] = Decide(target, hit, opts)
		}(i, hit)
	}
	wg.Wait()

	return decisions
}

// FormatMatches keeps the flagged duplicates, ordered by retrieval score
// descending. The sort is stable: candidates with equal retrieval scores
// keep the retriever's original order.
func FormatMatches(decisions []MatchDecision) []types.MatchedCustomer {
	matches := make([]types.MatchedCustomer, 0, len(decisions))
	for _, dec := range decisions {
		if !dec.IsDuplicate {
			continue
		}
		matches = append(matches, types.MatchedCustomer{
			ID:             dec.Candidate.ID,
			FullName:       dec.Candidate.FullName,
			Email:          dec.Candidate.Email,
			Address:        dec.Candidate.Address,
			Phone:          dec.Candidate.Phone,
			RetrievalScore: dec.RetrievalScore,
			CompositeScore: dec.CompositeScore,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].RetrievalScore > matches[j].RetrievalScore
	})
	return matches
}

// AddCustomer indexes a customer record into the corpus. Details is derived
// here; any authored value is discarded. The record also enters the bloom
// filter when it carries an identity field.
func (d *Deduplicator) AddCustomer(ctx context.Context, rec *types.CustomerRecord) error {
	rec.Details = RecordDetails(rec)
	if rec.Details == "" {
		return fmt.Errorf("no content to embed for customer %s", rec.ID)
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	if err := d.vector.AddDocument(ctx, DocumentFromRecord(rec)); err != nil {
		return fmt.Errorf("failed to add customer to vector database: %w", err)
	}

	if d.bloom != nil {
		if hash, err := RecordIdentityHash(rec); err == nil {
			if err := d.bloom.Add(ctx, hash); err != nil {
				log.Printf("Warning: failed to add customer to bloom filter: %v", err)
			}
		}
	}

	log.Printf("Added customer %s to vector database", rec.ID)
	return nil
}

// ProcessRegistration checks a registration and, when no duplicate is found,
// admits the new customer into the corpus. The created record is returned
// alongside the check result on acceptance.
func (d *Deduplicator) ProcessRegistration(ctx context.Context, input *types.RegistrationInput, opts CheckOptions) (*types.CheckResult, *types.CustomerRecord, error) {
	result, err := d.CheckRegistration(ctx, input, opts)
	if err != nil {
		return nil, nil, err
	}

	if result.IsDuplicate {
		return result, nil, nil
	}

	rec := recordFromInput(input)
	rec.ID = uuid.NewString()
	if err := d.AddCustomer(ctx, &rec); err != nil {
		return nil, nil, fmt.Errorf("failed to add new customer: %w", err)
	}

	return result, &rec, nil
}

// Count reports the number of records in the corpus.
func (d *Deduplicator) Count(ctx context.Context) (int, error) {
	return d.vector.Count(ctx)
}

// Clear removes every record from the corpus.
func (d *Deduplicator) Clear(ctx context.Context) error {
	return d.vector.ClearCollection(ctx)
}

// Close closes the deduplicator and releases its clients.
func (d *Deduplicator) Close() error {
	var vectorErr error
	if d.vector != nil {
		vectorErr = d.vector.Close()
	}
	if d.bloom != nil {
		if err := d.bloom.Close(); err != nil {
			if vectorErr != nil {
				return fmt.Errorf("vector close error: %v; bloom close error: %w", vectorErr, err)
			}
			return err
		}
	}
	return vectorErr
}

func (d *Deduplicator) applyDefaults(opts CheckOptions) CheckOptions {
	if opts.TopK <= 0 {
		opts.TopK = d.defaults.TopK
	}
	if opts.Method == "" {
		opts.Method = d.defaults.Method
	}
	if opts.FieldThreshold <= 0 {
		opts.FieldThreshold = d.defaults.FieldThreshold
	}
	if opts.DecisionThreshold <= 0 {
		opts.DecisionThreshold = d.defaults.DecisionThreshold
	}
	return opts
}

func resolveDefaults(cfg DeduplicatorConfig) (CheckOptions, error) {
	method, err := ParseMethod(cfg.Comparator)
	if err != nil {
		return CheckOptions{}, err
	}

	defaults := CheckOptions{
		TopK:              cfg.TopK,
		Method:            method,
		FieldThreshold:    cfg.FieldThreshold,
		DecisionThreshold: cfg.DecisionThreshold,
	}
	if defaults.TopK <= 0 {
		defaults.TopK = config.DefaultTopK
	}
	if defaults.FieldThreshold <= 0 {
		defaults.FieldThreshold = config.DefaultFieldThreshold
	}
	if defaults.DecisionThreshold <= 0 {
		defaults.DecisionThreshold = config.DefaultDecisionThreshold
	}
	return defaults, nil
}

func recordFromInput(input *types.RegistrationInput) types.CustomerRecord {
	return types.CustomerRecord{
		FullName: input.FullName,
		Email:    input.Email,
		Address:  input.Address,
		Phone:    input.Phone,
		Details:  InputDetails(input),
	}
}
