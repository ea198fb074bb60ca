package review

import "strings"

// Terms that disqualify a review outright, matched case-insensitively as
// substrings so inflected forms are caught too.
var disallowedTerms = []string{
	"shit",
	"bullshit",
	"fuck",
	"asshole",
	"crap",
	"lorem ipsum",
}

const (
	minWords          = 5
	maxWordRepetition = 3
)

// Verifier is the synchronous quality gate on the review write path: pure,
// deterministic, no I/O. The term list is shared immutable state, so a
// single instance is safe for concurrent use.
type Verifier struct {
	terms []string
}

func NewVerifier() *Verifier {
	return &Verifier{terms: disallowedTerms}
}

// MeetsQualityStandards reports whether the content is acceptable. Any one
// violation fails the review: a disallowed term, too few words, a repeated
// sentence, or the same word hammered over and over.
func (v *Verifier) MeetsQualityStandards(content string) bool {
	lowered := strings.ToLower(content)

	for _, term := range v.terms {
		if strings.Contains(lowered, term) {
			return false
		}
	}

	words := strings.Fields(lowered)
	if len(words) < minWords {
		return false
	}

	counts := make(map[string]int, len(words))
	for _, w := range words {
		w = strings.Trim(w, ".,!?;:\"'()")
		if len(w) <= 3 {
			continue
		}
		counts[w]++
		if counts[w] > maxWordRepetition {
			return false
		}
	}

	return !hasDuplicatedSentence(lowered)
}

func hasDuplicatedSentence(content string) bool {
	sentences := strings.FieldsFunc(content, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	seen := make(map[string]struct{}, len(sentences))
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			return true
		}
		seen[s] = struct{}{}
	}
	return false
}
