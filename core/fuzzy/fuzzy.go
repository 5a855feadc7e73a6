package fuzzy

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/gosimple/unidecode"
)

// Match is the best scoring choice returned by ExtractBest.
type Match struct {
	Choice string
	Index  int
	Score  int
}

// Normalize lowercases, folds accents to ASCII and collapses whitespace.
func Normalize(s string) string {
	s = unidecode.Unidecode(s)
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Ratio is the edit distance similarity of two strings on a 0..100 scale.
func Ratio(a, b string) int {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := max(la, lb)
	if longest == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	return int(math.Round(100 * (1 - float64(dist)/float64(longest))))
}

// TokenSortRatio compares the strings after sorting their words.
func TokenSortRatio(a, b string) int {
	return Ratio(sortTokens(a), sortTokens(b))
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// Score normalizes both inputs and returns the better of Ratio and TokenSortRatio.
func Score(a, b string) int {
	na, nb := Normalize(a), Normalize(b)
	return max(Ratio(na, nb), TokenSortRatio(na, nb))
}

// ExtractBest returns the highest scoring choice at or above cutoff.
// Ties keep the earliest choice so results do not depend on map order upstream.
func ExtractBest(query string, choices []string, cutoff int) (Match, bool) {
	best := Match{Index: -1, Score: -1}
	for i, choice := range choices {
		score := Score(query, choice)
		if score > best.Score {
			best = Match{Choice: choice, Index: i, Score: score}
		}
	}
	if best.Index < 0 || best.Score < cutoff {
		return Match{}, false
	}
	return best, true
}
