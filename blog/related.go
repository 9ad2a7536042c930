package blog

import "slices"

// Score measures how related a candidate is to a reference by their tags.
//
// Sharing the reference's first tag is worth 2, every later shared reference
// tag 1. Without any overlap the score is exactly 0; otherwise each candidate
// tag found in the reference adds 0.1 to break near-ties.
func Score(candidate, reference []string) float64 {
	if len(candidate) == 0 || len(reference) == 0 {
		return 0
	}

	var score float64
	for i, tag := range reference {
		if !slices.Contains(candidate, tag) {
			continue
		}
		if i == 0 {
			score += 2
		} else {
			score++
		}
	}
	if score == 0 {
		return 0
	}

	var extras int
	for _, tag := range candidate {
		if slices.Contains(reference, tag) {
			extras++
		}
	}
	return score + float64(extras)*0.1
}
