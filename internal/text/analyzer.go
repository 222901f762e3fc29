package text

import "unicode/utf8"

// Analyzer turns text into index terms: tokens minus stop words and
// tokens shorter than MinLen runes.
type Analyzer struct {
	Stop   StopSet
	MinLen int
}

// Terms returns the analyzed terms of s in order.
func (a Analyzer) Terms(s string) []string {
	var out []string
	for tok := range Tokens(s) {
		if utf8.RuneCountInString(tok) < a.MinLen {
			continue
		}
		if a.Stop.Contains(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// NGrams returns all contiguous n-grams of terms for n in [lo, hi],
// space-joined, unigrams first.
func NGrams(terms []string, lo, hi int) []string {
	if lo < 1 {
		lo = 1
	}
	var out []string
	for n := lo; n <= hi; n++ {
		for i := 0; i+n <= len(terms); i++ {
			if n == 1 {
				out = append(out, terms[i])
				continue
			}
			g := terms[i]
			for _, t := range terms[i+1 : i+n] {
				g += " " + t
			}
			out = append(out, g)
		}
	}
	return out
}
