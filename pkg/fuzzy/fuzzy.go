package fuzzy

import (
	"sort"
	"strings"
	"unicode"
)

// LevenshteinDistance calculates the edit distance between two strings
// after normalization. It counts single-rune insertions, deletions and
// substitutions.
func LevenshteinDistance(s1, s2 string) int {
	r1 := []rune(normalizeString(s1))
	r2 := []rune(normalizeString(s2))

	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	// two rolling rows are enough
	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}

// Similarity returns 1 - distance/maxLen in [0,1]. Two empty strings are
// not considered similar.
func Similarity(a, b string) float64 {
	na, nb := normalizeString(a), normalizeString(b)
	longest := len([]rune(na))
	if l := len([]rune(nb)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}
	return 1 - float64(LevenshteinDistance(na, nb))/float64(longest)
}

// NameSimilarity compares two person names, ignoring token order so that
// "Doe, Jane" and "jane doe" are treated alike.
func NameSimilarity(a, b string) float64 {
	direct := Similarity(a, b)
	sorted := Similarity(sortedTokens(a), sortedTokens(b))
	if sorted > direct {
		return sorted
	}
	return direct
}

// BestMatch returns the index of the candidate most similar to name and its
// score. Ties keep the earliest candidate. Returns -1 when candidates is empty.
func BestMatch(name string, candidates []string) (int, float64) {
	best, score := -1, 0.0
	for i, c := range candidates {
		if s := NameSimilarity(name, c); best == -1 || s > score {
			best, score = i, s
		}
	}
	return best, score
}

// Helper functions

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}

// normalizeString lower-cases, strips accents and punctuation, and collapses
// whitespace
func normalizeString(s string) string {
	s = removeAccents(strings.ToLower(s))
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

func sortedTokens(s string) string {
	tokens := strings.Fields(normalizeString(s))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// removeAccents folds common Latin diacritics to ASCII
func removeAccents(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.Is(unicode.Mn, r) { // Mn: Mark, nonspacing
			continue
		}
		switch r {
		case 'á', 'à', 'â', 'ä', 'ã', 'å', 'ā', 'ă', 'ą':
			result.WriteRune('a')
		case 'ç', 'ć', 'č':
			result.WriteRune('c')
		case 'é', 'è', 'ê', 'ë', 'ē', 'ę', 'ě':
			result.WriteRune('e')
		case 'í', 'ì', 'î', 'ï', 'ī':
			result.WriteRune('i')
		case 'ñ', 'ń', 'ň':
			result.WriteRune('n')
		case 'ó', 'ò', 'ô', 'ö', 'õ', 'ø', 'ō', 'ő':
			result.WriteRune('o')
		case 'ś', 'š', 'ş':
			result.WriteRune('s')
		case 'ú', 'ù', 'û', 'ü', 'ū', 'ů', 'ű':
			result.WriteRune('u')
		case 'ý', 'ÿ':
			result.WriteRune('y')
		case 'ź', 'ż', 'ž':
			result.WriteRune('z')
		case 'đ', 'ď':
			result.WriteRune('d')
		case 'ł':
			result.WriteRune('l')
		default:
			result.WriteRune(r)
		}
	}
	return result.String()
}
