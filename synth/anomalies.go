package synth

import (
	"strings"

	"dedupgate/deduplication"
)

// replacementChars maps a character to the one a hurried typist plausibly
// hits instead. Characters without an entry are left alone.
var replacementChars = map[rune]rune{
	'a': 'i', 'b': 'f', 'c': '2', 'd': '0', 'e': 'a', 'f': 'v', 'g': 'y', 'h': 'r',
	'i': 'o', 'j': 'x', 'k': 'g', 'l': 'u', 'm': '5', 'n': 'q', 'o': 'e', 'p': 'h',
	'q': 'a', 'r': '6', 's': 'b', 't': 'n', 'u': 'l', 'v': 'm', 'w': '1', 'x': 't',
	'y': '9', 'z': '7', '0': '4', '1': 'c', '2': 'p', '3': 's', '4': '8', '5': '3',
	'6': 'z', '7': 'w', '8': 'd', '9': 'k',
}

// mutate applies a field-appropriate anomaly. Phone numbers pass through
// unchanged: a typo in the phone breaks the exact match that field relies on,
// which is a different scenario than a near-duplicate.
func (g *Generator) mutate(kind deduplication.FieldKind, value string) string {
	if value == "" {
		return value
	}
	switch kind {
	case deduplication.FieldName:
		return g.mutateName(value)
	case deduplication.FieldEmail:
		return g.mutateEmail(value)
	case deduplication.FieldAddress:
		return g.mutateAddress(value)
	case deduplication.FieldPhone:
		return value
	}
	return value
}

// typo applies one of four edit anomalies at a random position: swap two
// adjacent characters, drop one, repeat one, or replace one via
// replacementChars.
func (g *Generator) typo(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	pos := g.rng.Intn(len(runes))

	switch g.rng.Intn(4) {
	case 0: // swap
		swapWith := pos + 1
		if pos == len(runes)-1 {
			swapWith = pos - 1
		}
		if swapWith >= 0 {
			runes[pos], runes[swapWith] = runes[swapWith], runes[pos]
		}
	case 1: // drop
		runes = append(runes[:pos], runes[pos+1:]...)
	case 2: // repeat
		runes = append(runes[:pos+1], runes[pos:]...)
	case 3: // replace
		if r, ok := replacementChars[runes[pos]]; ok {
			runes[pos] = r
		}
	}
	return string(runes)
}

// mutateName swaps name parts, abbreviates, typos, omits a part, or leaves
// the name alone.
func (g *Generator) mutateName(fullName string) string {
	words := strings.Fields(fullName)
	if len(words) == 0 {
		return fullName
	}

	switch g.rng.Intn(5) {
	case 0: // swap first and last
		words[0], words[len(words)-1] = words[len(words)-1], words[0]
	case 1: // abbreviate
		switch g.rng.Intn(3) {
		case 0:
			words[0] = abbreviate(words[0])
		case 1:
			words[len(words)-1] = abbreviate(words[len(words)-1])
		default:
			for i, w := range words {
				words[i] = abbreviate(w)
			}
		}
	case 2: // typo in one part
		i := g.rng.Intn(len(words))
		words[i] = g.typo(words[i])
	case 3: // omit a part
		i := g.rng.Intn(len(words))
		words = append(words[:i], words[i+1:]...)
	case 4: // no change
	}
	return strings.Join(words, " ")
}

func abbreviate(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	return string(runes[0]) + "."
}

// mutateEmail typos either the local part or the domain.
func (g *Generator) mutateEmail(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at < 0 {
		return g.typo(email)
	}
	local, domain := email[:at], email[at+1:]

	if g.rng.Intn(2) == 0 {
		local = g.typo(local)
	} else {
		domain = g.typo(domain)
	}
	return local + "@" + domain
}

// mutateAddress omits a part, typos a part, or leaves the address alone.
func (g *Generator) mutateAddress(address string) string {
	words := strings.Fields(address)
	if len(words) == 0 {
		return address
	}

	switch g.rng.Intn(3) {
	case 0: // omit
		i := g.rng.Intn(len(words))
		words = append(words[:i], words[i+1:]...)
	case 1: // typo
		i := g.rng.Intn(len(words))
		words[i] = g.typo(words[i])
	case 2: // no change
	}
	return strings.Join(words, " ")
}
