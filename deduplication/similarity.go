package deduplication

// String similarity scorers used by the fuzzy field comparator. All operate
// on runes so umlauts and other multi-byte characters count as single
// characters, and all return a normalized score in [0, 1].

// Jaro computes the Jaro similarity between two strings.
func Jaro(a, b string) float64 {
	if a == b {
		if a == "" {
			return 0
		}
		return 1
	}

	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	matchDist := max(len(ra), len(rb))/2 - 1
	if matchDist < 0 {
		matchDist = 0
	}

	aMatched := make([]bool, len(ra))
	bMatched := make([]bool, len(rb))

	matches := 0
	for i := range ra {
		start := max(0, i-matchDist)
		end := min(len(rb), i+matchDist+1)
		for j := start; j < end; j++ {
			if bMatched[j] || ra[i] != rb[j] {
				continue
			}
			aMatched[i] = true
			bMatched[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0
	}

	transpositions := 0
	k := 0
	for i := range ra {
		if !aMatched[i] {
			continue
		}
		for !bMatched[k] {
			k++
		}
		if ra[i] != rb[k] {
			transpositions++
		}
		k++
	}

	m := float64(matches)
	t := float64(transpositions) / 2
	return (m/float64(len(ra)) + m/float64(len(rb)) + (m-t)/m) / 3
}

// JaroWinkler computes the Jaro-Winkler similarity: Jaro boosted by up to
// four characters of common prefix with the standard 0.1 scaling factor.
func JaroWinkler(a, b string) float64 {
	jaro := Jaro(a, b)
	if jaro == 1 {
		return 1
	}

	ra := []rune(a)
	rb := []rune(b)
	prefix := 0
	for i := 0; i < len(ra) && i < len(rb) && i < 4; i++ {
		if ra[i] != rb[i] {
			break
		}
		prefix++
	}

	return jaro + float64(prefix)*0.1*(1-jaro)
}

// Levenshtein returns an edit-distance similarity: 1 minus the distance
// normalized by the longer string's length.
func Levenshtein(a, b string) float64 {
	if a == b {
		if a == "" {
			return 0
		}
		return 1
	}

	ra := []rune(a)
	rb := []rune(b)
	maxLen := max(len(ra), len(rb))
	if maxLen == 0 {
		return 0
	}
	return 1 - float64(levenshteinDistance(ra, rb))/float64(maxLen)
}

func levenshteinDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	row := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			row[j] = min(min(row[j-1]+1, prev[j]+1), prev[j-1]+cost)
		}
		row, prev = prev, row
	}

	return prev[len(b)]
}
