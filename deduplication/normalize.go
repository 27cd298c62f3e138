package deduplication

import (
	"strings"
	"unicode"

	"dedupgate/types"
)

// DetailsText builds the canonical comparison string for a record: each field
// lowercased (absent fields become empty strings), all four joined with a
// single space, leading/trailing whitespace trimmed. The exact same function
// is used when indexing corpus records and when building a query string;
// query/document symmetry is what keeps retrieval recall intact.
func DetailsText(fullName, email, address, phone string) string {
	parts := []string{
		strings.ToLower(fullName),
		strings.ToLower(email),
		strings.ToLower(address),
		strings.ToLower(phone),
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// RecordDetails returns the canonical details text for a stored record.
func RecordDetails(rec *types.CustomerRecord) string {
	return DetailsText(rec.FullName, rec.Email, rec.Address, rec.Phone)
}

// InputDetails returns the canonical query text for a registration input.
func InputDetails(in *types.RegistrationInput) string {
	return DetailsText(in.FullName, in.Email, in.Address, in.Phone)
}

// NormalizePhone lowercases a phone value and strips all whitespace, making
// the exact phone comparison whitespace-insensitive.
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, phone)
}

// normField prepares a field value for fuzzy comparison. An empty result
// means the field is absent.
func normField(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
