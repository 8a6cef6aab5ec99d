package common

import "strings"

// maxSuggestDistance bounds how far a typo may be from a known value.
const maxSuggestDistance = 2

// Suggest returns the candidate closest to input, ignoring case, when it is
// within a small edit distance.
func Suggest(input string, candidates []string) (string, bool) {
	in := strings.ToUpper(strings.TrimSpace(input))
	if in == "" {
		return "", false
	}

	best, bestDist := "", maxSuggestDistance+1

	for _, c := range candidates {
		if d := editDistance(in, strings.ToUpper(c)); d < bestDist {
			best, bestDist = c, d
		}
	}

	return best, best != ""
}

// editDistance is the Levenshtein distance between a and b.
func editDistance(a, b string) int {
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}

		prev, curr = curr, prev
	}

	return prev[len(a)]
}
