package models

// QuestionKind distinguishes how a question is presented and answered
type QuestionKind string

const (
	// KindSelection questions offer a fixed set of choices
	KindSelection QuestionKind = "selection"
	// KindTypeIn questions take free text
	KindTypeIn QuestionKind = "type_in"
)

// Question belongs to exactly one lesson. Position fixes the storage
// order within the lesson.
type Question struct {
	ID       string
	LessonID string
	Text     string
	Kind     QuestionKind
	Position int
}

// Answer is one of a question's recorded answers. A selection question
// should have exactly one answer flagged correct, but this is not
// enforced here.
type Answer struct {
	ID         string
	QuestionID string
	Text       string
	IsCorrect  bool
}
