// Package content exposes a lesson's play units: theory pages by rank
// followed by questions in storage order, numbered 1..total. Training
// modules are questions only, numbered 1..N.
package content

// PageKind classifies what a 1-indexed page number points at
type PageKind int

const (
	// PageOutOfRange means the page number has no matching band and the
	// caller should recover by redirecting to page 1.
	PageOutOfRange PageKind = iota
	PageTheory
	PageQuestion
)

// Page locates a play unit within a lesson. Index is the zero-based
// position into the theory-page or question slice, depending on Kind.
type Page struct {
	Kind  PageKind
	Index int
}

// Locate maps a 1-indexed page number onto the lesson's play units.
// Pages 1..theoryCount are theory; theoryCount+1..total are questions;
// anything else is out of range.
func Locate(theoryCount, questionCount, page int) Page {
	if page >= 1 && page <= theoryCount {
		return Page{Kind: PageTheory, Index: page - 1}
	}
	if page > theoryCount && page <= theoryCount+questionCount {
		return Page{Kind: PageQuestion, Index: page - theoryCount - 1}
	}
	return Page{Kind: PageOutOfRange}
}

// TotalPages is the stable page count of a lesson
func TotalPages(theoryCount, questionCount int) int {
	return theoryCount + questionCount
}

// ProgressPercent computes the displayed progress from the count of
// answered questions, truncated to an integer percent. Theory pages
// contribute nothing; raw page numbers are never used.
func ProgressPercent(answered, questionCount int) int {
	if questionCount <= 0 {
		return 0
	}
	return answered * 100 / questionCount
}
