// Package evaluate decides whether a submitted answer is correct.
// The same disambiguation order is used on the live check path and on
// result recomputation, so both agree on every answer given the same
// stored answer map.
package evaluate

import "strings"

// Choice is the minimal view of a stored answer the evaluator needs.
// Services map their lesson or training answer rows into it.
type Choice struct {
	ID      string
	Text    string
	Correct bool
}

// Evaluate checks a submitted value against a question's choices.
//
// Disambiguation order: if submitted is the ID of one of this
// question's choices, correctness is that choice's stored flag and the
// normalized value is the ID. Otherwise the text is trimmed and
// lowercased and tested for membership against the normalized texts of
// the choices flagged correct. A question with no correct choice on
// record can never be answered correctly; that is a valid state, not
// an error.
func Evaluate(choices []Choice, submitted string) (correct bool, normalized string) {
	for _, c := range choices {
		if c.ID == submitted {
			return c.Correct, c.ID
		}
	}

	normalized = Normalize(submitted)
	for _, c := range choices {
		if c.Correct && Normalize(c.Text) == normalized {
			return true, normalized
		}
	}
	return false, normalized
}

// Normalize trims surrounding whitespace and lowercases free text
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
