package session

import (
	"fmt"
	"regexp"
)

// Fingerprint is the request context captured when a session chain is
// created and compared on every validation to detect hijacking indicators.
// Empty fields mean the value was unknown at creation and its check is
// skipped.
type Fingerprint struct {
	IP        string
	UserAgent string
}

// Verdict is the outcome of a fingerprint comparison. Warnings are collected
// for every detected drift regardless of the strict flags; Valid only turns
// false when a drifted check runs in strict mode.
type Verdict struct {
	Valid    bool
	Warnings []string
}

// uaSimilarityThreshold separates routine user-agent churn from a meaningful
// change. Below it the user agent is treated as a different client.
const uaSimilarityThreshold = 0.8

// maxEditDistanceLen bounds the Levenshtein comparison; longer strings fall
// back to character-overlap similarity.
const maxEditDistanceLen = 255

// uaVersionPattern matches "/major.minor[.patch...]" version tails so that
// browser point releases do not register as client changes.
var uaVersionPattern = regexp.MustCompile(`/(\d+)(?:\.\d+)+`)

// ValidateFingerprint compares the stored fingerprint against the current
// request's. The IP and User-Agent checks are independent: both run and both
// may contribute warnings before the verdict is returned.
func ValidateFingerprint(stored, current Fingerprint, strictIP, strictUA bool) Verdict {
	v := Verdict{Valid: true}

	if stored.IP != "" && stored.IP != current.IP {
		v.Warnings = append(v.Warnings, fmt.Sprintf("IP address changed from %s to %s", stored.IP, current.IP))
		if strictIP {
			v.Valid = false
		}
	}

	if stored.UserAgent != "" && stored.UserAgent != current.UserAgent {
		if UserAgentSimilarity(stored.UserAgent, current.UserAgent) < uaSimilarityThreshold {
			v.Warnings = append(v.Warnings, fmt.Sprintf("user agent changed from %q to %q", stored.UserAgent, current.UserAgent))
			if strictUA {
				v.Valid = false
			}
		}
	}

	return v
}

// UserAgentSimilarity returns a normalized similarity score in [0, 1] for
// two user-agent strings. Version tails are reduced to their major component
// first, then similarity is 1 - editDistance/maxLen for strings up to
// maxEditDistanceLen characters, or a character-overlap ratio beyond that.
func UserAgentSimilarity(a, b string) float64 {
	a = uaVersionPattern.ReplaceAllString(a, "/$1")
	b = uaVersionPattern.ReplaceAllString(b, "/$1")

	if a == b {
		return 1.0
	}

	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	longest := max(len(ra), len(rb))
	if longest <= maxEditDistanceLen {
		return 1.0 - float64(editDistance(ra, rb))/float64(longest)
	}
	return overlapSimilarity(ra, rb)
}

// editDistance computes the Levenshtein distance with a rolling two-row
// matrix, O(len(a)*len(b)) time and O(len(b)) space.
func editDistance(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

// overlapSimilarity is the order-insensitive fallback for very long strings:
// the share of characters the two strings have in common, relative to the
// longer one.
func overlapSimilarity(a, b []rune) float64 {
	freq := make(map[rune]int, len(a))
	for _, r := range a {
		freq[r]++
	}

	common := 0
	for _, r := range b {
		if freq[r] > 0 {
			freq[r]--
			common++
		}
	}

	return float64(common) / float64(max(len(a), len(b)))
}
