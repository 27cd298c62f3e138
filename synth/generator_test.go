package synth

import (
	"strings"
	"testing"

	"dedupgate/deduplication"
	"dedupgate/types"
)

// sameIdentity compares everything except the generated ID.
func sameIdentity(a, b types.CustomerRecord) bool {
	return a.FullName == b.FullName &&
		a.Email == b.Email &&
		a.Address == b.Address &&
		a.Phone == b.Phone &&
		a.Details == b.Details
}

func TestCorpusIsReproducibleForSameSeed(t *testing.T) {
	a := NewGenerator(42).Corpus(50)
	b := NewGenerator(42).Corpus(50)

	if len(a) != len(b) {
		t.Fatalf("corpus sizes differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if !sameIdentity(a[i], b[i]) {
			t.Fatalf("record %d differs:\n%+v\n%+v", i, a[i], b[i])
		}
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := NewGenerator(1).Corpus(20)
	b := NewGenerator(2).Corpus(20)

	same := 0
	for i := range a {
		if sameIdentity(a[i], b[i]) {
			same++
		}
	}
	if same == len(a) {
		t.Fatal("different seeds produced an identical corpus")
	}
}

func TestCustomerRecordIsConsistent(t *testing.T) {
	gen := NewGenerator(7)

	for i := 0; i < 25; i++ {
		rec := gen.Customer()

		if rec.ID == "" {
			t.Fatal("record must carry an ID")
		}
		if rec.FullName == "" || rec.Email == "" || rec.Address == "" || rec.Phone == "" {
			t.Fatalf("base record must be fully populated: %+v", rec)
		}
		if !strings.Contains(rec.Email, "@") {
			t.Fatalf("malformed email: %q", rec.Email)
		}
		if rec.Email != strings.ToLower(rec.Email) {
			t.Fatalf("email must be lowercase: %q", rec.Email)
		}
		if rec.Details != deduplication.RecordDetails(&rec) {
			t.Fatalf("details not derived from fields: %q", rec.Details)
		}
	}
}

func TestVariantKeepsATraceOfTheBase(t *testing.T) {
	gen := NewGenerator(11)
	base := gen.Customer()

	for i := 0; i < 50; i++ {
		variant := gen.Variant(base)

		if variant.ID == base.ID {
			t.Fatal("variant must get its own ID")
		}
		if variant.Details != deduplication.RecordDetails(&variant) {
			t.Fatalf("variant details not derived: %q", variant.Details)
		}
	}
}

func TestTypoChangesAtMostOneEditStep(t *testing.T) {
	gen := NewGenerator(3)

	for i := 0; i < 100; i++ {
		original := "herrmann"
		typoed := gen.typo(original)

		diff := len(typoed) - len(original)
		if diff < -1 || diff > 1 {
			t.Fatalf("typo changed length by %d: %q -> %q", diff, original, typoed)
		}
	}
}

func TestTypoHandlesShortAndEmptyInput(t *testing.T) {
	gen := NewGenerator(5)

	if got := gen.typo(""); got != "" {
		t.Fatalf("typo on empty string = %q", got)
	}
	for i := 0; i < 20; i++ {
		got := gen.typo("a")
		if len(got) > 2 {
			t.Fatalf("typo on single char = %q", got)
		}
	}
}

func TestMutatePhoneIsIdentity(t *testing.T) {
	gen := NewGenerator(9)

	phone := "0301234567"
	for i := 0; i < 20; i++ {
		if got := gen.mutate(deduplication.FieldPhone, phone); got != phone {
			t.Fatalf("phone must pass through unchanged, got %q", got)
		}
	}
}

func TestCorpusWithVariantsSize(t *testing.T) {
	records := NewGenerator(13).CorpusWithVariants(30, 10)
	if len(records) != 40 {
		t.Fatalf("got %d records, want 40", len(records))
	}
}
