package deduplication

import (
	"testing"

	"dedupgate/types"
)

func TestIdentityHashIsDeterministic(t *testing.T) {
	a, err := IdentityHash("anna.schmidt@gmx.de", "040 987654")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	b, err := IdentityHash("anna.schmidt@gmx.de", "040 987654")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if a != b {
		t.Fatalf("same identity hashed differently: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected sha256 hex digest, got %d chars", len(a))
	}
}

func TestIdentityHashNormalizesCaseAndWhitespace(t *testing.T) {
	a, err := IdentityHash("Anna.Schmidt@GMX.de", "040 987654")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	b, err := IdentityHash("anna.schmidt@gmx.de", "040987654")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if a != b {
		t.Fatal("case and whitespace variants must hash identically")
	}
}

func TestIdentityHashDistinguishesFieldOrder(t *testing.T) {
	// The separator keeps (email, phone) distinct from a phone that happens
	// to contain the email text, and email-only from phone-only.
	a, err := IdentityHash("x", "")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	b, err := IdentityHash("", "x")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if a == b {
		t.Fatal("email-only and phone-only identities must differ")
	}
}

func TestIdentityHashRequiresAnIdentityField(t *testing.T) {
	if _, err := IdentityHash("", "   "); err == nil {
		t.Fatal("expected error for record with no identity fields")
	}
}

func TestRecordIdentityHashMatchesInputHash(t *testing.T) {
	rec := types.CustomerRecord{
		FullName: "Anna Schmidt",
		Email:    "anna.schmidt@gmx.de",
		Phone:    "040 987654",
	}

	fromRecord, err := RecordIdentityHash(&rec)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	fromFields, err := IdentityHash(rec.Email, rec.Phone)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if fromRecord != fromFields {
		t.Fatal("record hash must equal field hash")
	}
}
