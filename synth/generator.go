// Package synth generates synthetic German-flavoured customer records plus
// realistic near-duplicate variants for seeding and testing the matcher. All
// randomness flows through an explicit seeded source, so a fixed seed always
// yields the same corpus.
package synth

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"dedupgate/deduplication"
	"dedupgate/types"
)

var (
	firstNames = []string{
		"Anna", "Ben", "Clara", "David", "Emilia", "Felix", "Gesche", "Hannes",
		"Ida", "Jonas", "Katharina", "Lukas", "Marie", "Niklas", "Ottilie",
		"Paul", "Ronja", "Sebastian", "Theresa", "Ulrich", "Viktoria", "Wolfgang",
	}
	lastNames = []string{
		"Becker", "Fischer", "Herrmann", "Hoffmann", "Keller", "Krause",
		"Lehmann", "Meier", "Neumann", "Richter", "Schmidt", "Schneider",
		"Schulz", "Vogel", "Wagner", "Weber", "Winkler", "Zimmermann",
	}
	streets = []string{
		"Hauptstrasse", "Bahnhofstrasse", "Gartenweg", "Lindenallee",
		"Schillerstrasse", "Goethestrasse", "Am Markt", "Kirchplatz",
		"Berliner Ring", "Rosenweg",
	}
	cities = []string{
		"Berlin", "Hamburg", "Muenchen", "Koeln", "Frankfurt", "Leipzig",
		"Dresden", "Bremen", "Hannover", "Stuttgart",
	}
	emailDomains = []string{
		"gmail.com", "web.de", "gmx.de", "yahoo.com", "t-online.de", "outlook.de",
	}
)

// Generator produces customer records from a dedicated random source. It is
// not safe for concurrent use; give each goroutine its own instance.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator with its own seeded source.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

func (g *Generator) pick(items []string) string {
	return items[g.rng.Intn(len(items))]
}

// Customer generates one fully populated customer record. The email is
// derived from the name, lowercased with dots for spaces; the phone is a
// bare digit string.
func (g *Generator) Customer() types.CustomerRecord {
	fullName := g.pick(firstNames) + " " + g.pick(lastNames)

	rec := types.CustomerRecord{
		ID:       uuid.NewString(),
		FullName: fullName,
		Email:    strings.ReplaceAll(strings.ToLower(fullName), " ", ".") + "@" + g.pick(emailDomains),
		Address:  g.address(),
		Phone:    g.phone(),
	}
	rec.Details = deduplication.RecordDetails(&rec)
	return rec
}

func (g *Generator) address() string {
	return fmt.Sprintf("%s %d %05d %s",
		g.pick(streets), 1+g.rng.Intn(120), 10000+g.rng.Intn(89999), g.pick(cities))
}

func (g *Generator) phone() string {
	digits := make([]byte, 0, 11)
	digits = append(digits, '0')
	for i := 0; i < 10; i++ {
		digits = append(digits, byte('0'+g.rng.Intn(10)))
	}
	return string(digits)
}

// Corpus generates n independent customer records.
func (g *Generator) Corpus(n int) []types.CustomerRecord {
	records := make([]types.CustomerRecord, n)
	for i := range records {
		records[i] = g.Customer()
	}
	return records
}

// Variant derives a plausible re-registration of base: one to three fields
// get mutated with realistic anomalies, every other field is either dropped
// or replaced with fresh unrelated data. The result gets its own ID and a
// rederived details text.
func (g *Generator) Variant(base types.CustomerRecord) types.CustomerRecord {
	kinds := []deduplication.FieldKind{
		deduplication.FieldName,
		deduplication.FieldEmail,
		deduplication.FieldAddress,
		deduplication.FieldPhone,
	}
	g.rng.Shuffle(len(kinds), func(i, j int) { kinds[i], kinds[j] = kinds[j], kinds[i] })
	mutateCount := 1 + g.rng.Intn(3)

	out := types.CustomerRecord{ID: uuid.NewString()}
	for i, kind := range kinds {
		if i < mutateCount {
			g.setField(&out, kind, g.mutate(kind, g.getField(base, kind)))
		} else {
			g.setField(&out, kind, g.backfill(kind))
		}
	}
	out.Details = deduplication.RecordDetails(&out)
	return out
}

// CorpusWithVariants generates mainCount independent records followed by
// variantCount variants of randomly chosen main records. Returns the
// combined corpus and the indexes of the variant bases.
func (g *Generator) CorpusWithVariants(mainCount, variantCount int) []types.CustomerRecord {
	records := g.Corpus(mainCount)
	for i := 0; i < variantCount; i++ {
		base := records[g.rng.Intn(mainCount)]
		records = append(records, g.Variant(base))
	}
	return records
}

func (g *Generator) getField(rec types.CustomerRecord, kind deduplication.FieldKind) string {
	switch kind {
	case deduplication.FieldName:
		return rec.FullName
	case deduplication.FieldEmail:
		return rec.Email
	case deduplication.FieldAddress:
		return rec.Address
	case deduplication.FieldPhone:
		return rec.Phone
	}
	return ""
}

func (g *Generator) setField(rec *types.CustomerRecord, kind deduplication.FieldKind, value string) {
	switch kind {
	case deduplication.FieldName:
		rec.FullName = value
	case deduplication.FieldEmail:
		rec.Email = value
	case deduplication.FieldAddress:
		rec.Address = value
	case deduplication.FieldPhone:
		rec.Phone = value
	}
}

// backfill fills a non-mutated field with either nothing or fresh data that
// has no relation to the base record.
func (g *Generator) backfill(kind deduplication.FieldKind) string {
	if g.rng.Intn(2) == 0 {
		return ""
	}
	switch kind {
	case deduplication.FieldName:
		return g.pick(firstNames) + " " + g.pick(lastNames)
	case deduplication.FieldEmail:
		return strings.ToLower(g.pick(firstNames) + "." + g.pick(lastNames) + "@" + g.pick(emailDomains))
	case deduplication.FieldAddress:
		return g.address()
	case deduplication.FieldPhone:
		return g.phone()
	}
	return ""
}
