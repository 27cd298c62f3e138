package deduplication

import (
	"fmt"

	"dedupgate/types"
)

// FieldKind enumerates the compared identity fields. The set is closed: each
// kind is bound to its comparator at compile time, there is no runtime
// field-name dispatch.
type FieldKind int

const (
	FieldPhone FieldKind = iota
	FieldName
	FieldEmail
	FieldAddress
)

func (k FieldKind) String() string {
	switch k {
	case FieldPhone:
		return "phone"
	case FieldName:
		return "full_name"
	case FieldEmail:
		return "email"
	case FieldAddress:
		return "address"
	default:
		return "unknown"
	}
}

// Method selects the string similarity scorer for fuzzy fields.
type Method string

const (
	MethodJaroWinkler Method = "jarowinkler"
	MethodJaro        Method = "jaro"
	MethodLevenshtein Method = "levenshtein"
)

// ParseMethod validates a comparator method name.
func ParseMethod(name string) (Method, error) {
	switch Method(name) {
	case MethodJaroWinkler, MethodJaro, MethodLevenshtein:
		return Method(name), nil
	case "":
		return MethodJaroWinkler, nil
	default:
		return "", fmt.Errorf("unknown comparator method %q", name)
	}
}

func (m Method) score(a, b string) float64 {
	switch m {
	case MethodJaro:
		return Jaro(a, b)
	case MethodLevenshtein:
		return Levenshtein(a, b)
	default:
		return JaroWinkler(a, b)
	}
}

// ComparisonVector holds one binary indicator per identity field for a
// single (target, candidate) pair.
type ComparisonVector struct {
	Phone   float64 `json:"phone_match"`
	Name    float64 `json:"name_match"`
	Email   float64 `json:"email_match"`
	Address float64 `json:"address_match"`
}

// Sum returns the composite score, the plain sum of the four indicators.
func (v ComparisonVector) Sum() float64 {
	return v.Phone + v.Name + v.Email + v.Address
}

// Comparator computes per-field match indicators between a target record and
// one retrieved candidate. Phone is compared exactly after normalization;
// name, email and address are compared with the configured fuzzy method and
// binarized against Threshold. An absent field on either side yields 0 for
// that field, never an error.
type Comparator struct {
	Method    Method
	Threshold float64
}

// Compare produces the comparison vector for one pair.
func (c Comparator) Compare(target, candidate *types.CustomerRecord) ComparisonVector {
	return ComparisonVector{
		Phone:   c.exactPhone(target.Phone, candidate.Phone),
		Name:    c.fuzzy(target.FullName, candidate.FullName),
		Email:   c.fuzzy(target.Email, candidate.Email),
		Address: c.fuzzy(target.Address, candidate.Address),
	}
}

func (c Comparator) exactPhone(a, b string) float64 {
	na := NormalizePhone(a)
	nb := NormalizePhone(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}
	return 0
}

func (c Comparator) fuzzy(a, b string) float64 {
	na := normField(a)
	nb := normField(b)
	// Absent means non-match; similarity against an empty string is never computed.
	if na == "" || nb == "" {
		return 0
	}
	if c.Method.score(na, nb) >= c.Threshold {
		return 1
	}
	return 0
}
