package deduplication

import (
	"testing"

	"dedupgate/types"
)

func defaultComparator() Comparator {
	return Comparator{Method: MethodJaroWinkler, Threshold: 0.85}
}

func TestCompareIdenticalRecords(t *testing.T) {
	rec := types.CustomerRecord{
		FullName: "Gesche Herrmann",
		Email:    "g.herrmann@web.de",
		Address:  "Gartenweg 3 10115 Berlin",
		Phone:    "030 1234567",
	}

	vec := defaultComparator().Compare(&rec, &rec)
	if vec.Sum() != 4 {
		t.Fatalf("identical records scored %.1f, want 4: %+v", vec.Sum(), vec)
	}
}

func TestCompareAbsentFieldsNeverMatch(t *testing.T) {
	target := types.CustomerRecord{FullName: "Anna Schmidt"}
	candidate := types.CustomerRecord{FullName: "Anna Schmidt"}

	vec := defaultComparator().Compare(&target, &candidate)
	if vec.Name != 1 {
		t.Errorf("name indicator = %.0f, want 1", vec.Name)
	}
	if vec.Email != 0 || vec.Address != 0 || vec.Phone != 0 {
		t.Errorf("absent fields must score 0, got %+v", vec)
	}
	if vec.Sum() != 1 {
		t.Errorf("composite = %.1f, want 1", vec.Sum())
	}
}

func TestCompareBothRecordsFullyEmpty(t *testing.T) {
	vec := defaultComparator().Compare(&types.CustomerRecord{}, &types.CustomerRecord{})
	if vec.Sum() != 0 {
		t.Fatalf("empty records scored %.1f, want 0", vec.Sum())
	}
}

func TestComparePhoneIsExactAfterNormalization(t *testing.T) {
	cmp := defaultComparator()

	cases := []struct {
		a, b string
		want float64
	}{
		{"+49 30 1234567", "+49301234567", 1},
		{"0301234567", "0301234567", 1},
		{"0301234567", "0301234568", 0}, // one digit off: near is not enough
		{"", "0301234567", 0},
	}

	for _, tc := range cases {
		target := types.CustomerRecord{Phone: tc.a}
		candidate := types.CustomerRecord{Phone: tc.b}
		if got := cmp.Compare(&target, &candidate).Phone; got != tc.want {
			t.Errorf("phone %q vs %q = %.0f, want %.0f", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestCompareThresholdBinarizes(t *testing.T) {
	target := types.CustomerRecord{FullName: "Gesche Herr"}
	candidate := types.CustomerRecord{FullName: "Gesche Herrmann"}

	sim := JaroWinkler("gesche herr", "gesche herrmann")

	low := Comparator{Method: MethodJaroWinkler, Threshold: sim - 0.01}
	if got := low.Compare(&target, &candidate).Name; got != 1 {
		t.Errorf("below-similarity threshold: indicator = %.0f, want 1", got)
	}

	high := Comparator{Method: MethodJaroWinkler, Threshold: sim + 0.01}
	if got := high.Compare(&target, &candidate).Name; got != 0 {
		t.Errorf("above-similarity threshold: indicator = %.0f, want 0", got)
	}
}

func TestCompareIsCaseInsensitive(t *testing.T) {
	target := types.CustomerRecord{FullName: "ANNA SCHMIDT", Email: "Anna@Web.DE"}
	candidate := types.CustomerRecord{FullName: "anna schmidt", Email: "anna@web.de"}

	vec := defaultComparator().Compare(&target, &candidate)
	if vec.Name != 1 || vec.Email != 1 {
		t.Fatalf("case variants must match, got %+v", vec)
	}
}

func TestParseMethod(t *testing.T) {
	for _, name := range []string{"", "jarowinkler", "jaro", "levenshtein"} {
		if _, err := ParseMethod(name); err != nil {
			t.Errorf("ParseMethod(%q) unexpected error: %v", name, err)
		}
	}

	if _, err := ParseMethod("soundex"); err == nil {
		t.Error("ParseMethod(soundex) expected error")
	}
}

func TestFieldKindNames(t *testing.T) {
	want := map[FieldKind]string{
		FieldPhone:   "phone",
		FieldName:    "full_name",
		FieldEmail:   "email",
		FieldAddress: "address",
	}
	for kind, name := range want {
		if kind.String() != name {
			t.Errorf("FieldKind %d = %q, want %q", kind, kind.String(), name)
		}
	}
}
