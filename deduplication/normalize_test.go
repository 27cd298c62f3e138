package deduplication

import (
	"testing"

	"dedupgate/types"
)

func TestDetailsTextLowercasesAndJoins(t *testing.T) {
	got := DetailsText("Gesche Herrmann", "g.herrmann@web.de", "Gartenweg 3 10115 Berlin", "030 1234567")
	want := "gesche herrmann g.herrmann@web.de gartenweg 3 10115 berlin 030 1234567"
	if got != want {
		t.Fatalf("DetailsText = %q, want %q", got, want)
	}
}

func TestDetailsTextTrimsOuterWhitespaceOnly(t *testing.T) {
	// Absent leading/trailing fields must not leave stray spaces, but gaps
	// between present fields stay as-is.
	got := DetailsText("", "anna@web.de", "", "0301234567")
	want := "anna@web.de  0301234567"
	if got != want {
		t.Fatalf("DetailsText = %q, want %q", got, want)
	}
}

func TestDetailsTextAllFieldsAbsent(t *testing.T) {
	if got := DetailsText("", "", "", ""); got != "" {
		t.Fatalf("DetailsText of empty fields = %q, want empty", got)
	}
}

func TestQueryAndDocumentTextsAgree(t *testing.T) {
	// The same person indexed as a record and queried as a registration must
	// produce byte-identical canonical text.
	rec := types.CustomerRecord{
		FullName: "Anna Schmidt",
		Email:    "anna.schmidt@gmx.de",
		Address:  "Lindenallee 7 20095 Hamburg",
		Phone:    "040 987654",
	}
	in := types.RegistrationInput{
		FullName: rec.FullName,
		Email:    rec.Email,
		Address:  rec.Address,
		Phone:    rec.Phone,
	}

	if RecordDetails(&rec) != InputDetails(&in) {
		t.Fatalf("document text %q != query text %q", RecordDetails(&rec), InputDetails(&in))
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"+49 30 1234567", "+49301234567"},
		{"0301234567", "0301234567"},
		{" 030\t123 ", "030123"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := NormalizePhone(tc.in); got != tc.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
