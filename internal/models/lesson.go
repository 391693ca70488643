package models

// Lesson is an ordered unit of the course, made up of theory pages
// followed by quiz questions.
type Lesson struct {
	ID    string
	Title string
	Rank  int
}

// TheoryPage belongs to exactly one lesson and is read-only during play
type TheoryPage struct {
	ID       string
	LessonID string
	Rank     int
	Content  string
}
