package service

import (
	"fmt"
	"log"

	"codelingo/internal/models"
	"codelingo/internal/repository"
)

type seedAnswer struct {
	text    string
	correct bool
}

type seedQuestion struct {
	text    string
	kind    models.QuestionKind
	answers []seedAnswer
}

type seedLesson struct {
	title     string
	theory    []string
	questions []seedQuestion
}

type seedTraining struct {
	title     string
	questions []seedQuestion
}

var demoLessons = []seedLesson{
	{
		title: "Variables and Types",
		theory: []string{
			"A variable is a named slot that holds a value. Every variable has a type, such as an integer, a string of text, or a boolean true/false flag.",
			"You create a variable by declaring its name and giving it an initial value. The value can change later, but the type stays the same.",
		},
		questions: []seedQuestion{
			{
				text: "Which of these is a boolean value?",
				kind: models.KindSelection,
				answers: []seedAnswer{
					{text: "true", correct: true},
					{text: "42", correct: false},
					{text: "\"hello\"", correct: false},
				},
			},
			{
				text: "What do we call a named slot that holds a value?",
				kind: models.KindTypeIn,
				answers: []seedAnswer{
					{text: "variable", correct: true},
					{text: "a variable", correct: true},
				},
			},
			{
				text: "A variable's type can change after it is declared.",
				kind: models.KindSelection,
				answers: []seedAnswer{
					{text: "False", correct: true},
					{text: "True", correct: false},
				},
			},
		},
	},
	{
		title: "Conditionals",
		theory: []string{
			"An if statement runs a block of code only when its condition is true. An optional else block runs when the condition is false.",
		},
		questions: []seedQuestion{
			{
				text: "When does the else block of an if/else statement run?",
				kind: models.KindSelection,
				answers: []seedAnswer{
					{text: "When the condition is false", correct: true},
					{text: "When the condition is true", correct: false},
					{text: "Always", correct: false},
				},
			},
			{
				text: "What keyword starts a conditional statement?",
				kind: models.KindTypeIn,
				answers: []seedAnswer{
					{text: "if", correct: true},
				},
			},
		},
	},
	{
		title: "Loops",
		theory: []string{
			"A loop repeats a block of code. A counted loop runs a fixed number of times; a conditional loop runs while its condition stays true.",
			"Every loop needs a way to stop. A loop whose condition never becomes false is an infinite loop.",
		},
		questions: []seedQuestion{
			{
				text: "What do we call a loop that never stops?",
				kind: models.KindTypeIn,
				answers: []seedAnswer{
					{text: "infinite loop", correct: true},
					{text: "an infinite loop", correct: true},
				},
			},
			{
				text: "A conditional loop keeps running while its condition is...",
				kind: models.KindSelection,
				answers: []seedAnswer{
					{text: "true", correct: true},
					{text: "false", correct: false},
				},
			},
		},
	},
}

var demoTrainings = []seedTraining{
	{
		title: "Syntax Sprint",
		questions: []seedQuestion{
			{
				text: "Which symbol usually ends a statement in C-style languages?",
				kind: models.KindSelection,
				answers: []seedAnswer{
					{text: ";", correct: true},
					{text: ":", correct: false},
					{text: ".", correct: false},
				},
			},
			{
				text: "What do we call text enclosed in quotes?",
				kind: models.KindTypeIn,
				answers: []seedAnswer{
					{text: "string", correct: true},
					{text: "a string", correct: true},
				},
			},
		},
	},
	{
		title: "Logic Drills",
		questions: []seedQuestion{
			{
				text: "NOT true evaluates to...",
				kind: models.KindSelection,
				answers: []seedAnswer{
					{text: "false", correct: true},
					{text: "true", correct: false},
				},
			},
			{
				text: "true AND false evaluates to...",
				kind: models.KindSelection,
				answers: []seedAnswer{
					{text: "false", correct: true},
					{text: "true", correct: false},
				},
			},
		},
	},
}

// SeedDemoContent populates the database with a small built-in course
// when no content exists yet. It is safe to call on every startup.
func SeedDemoContent(lessons *repository.LessonRepository, training *repository.TrainingRepository) error {
	lessonCount, err := lessons.CountLessons()
	if err != nil {
		return err
	}

	if lessonCount == 0 {
		for i, sl := range demoLessons {
			lesson, err := lessons.CreateLesson(sl.title, i+1)
			if err != nil {
				return fmt.Errorf("failed to seed lesson %q: %w", sl.title, err)
			}
			for j, text := range sl.theory {
				if _, err := lessons.CreateTheoryPage(lesson.ID, j+1, text); err != nil {
					return err
				}
			}
			for j, sq := range sl.questions {
				question, err := lessons.CreateQuestion(lesson.ID, sq.text, sq.kind, j+1)
				if err != nil {
					return err
				}
				for _, sa := range sq.answers {
					if _, err := lessons.CreateAnswer(question.ID, sa.text, sa.correct); err != nil {
						return err
					}
				}
			}
		}
		log.Printf("Seeded %d demo lessons", len(demoLessons))
	}

	trainingCount, err := training.CountModules()
	if err != nil {
		return err
	}

	if trainingCount == 0 {
		for _, st := range demoTrainings {
			module, err := training.CreateModule(st.title)
			if err != nil {
				return fmt.Errorf("failed to seed training %q: %w", st.title, err)
			}
			for j, sq := range st.questions {
				question, err := training.CreateQuestion(module.ID, sq.text, sq.kind, j+1)
				if err != nil {
					return err
				}
				for _, sa := range sq.answers {
					if _, err := training.CreateAnswer(question.ID, sa.text, sa.correct); err != nil {
						return err
					}
				}
			}
		}
		log.Printf("Seeded %d demo training modules", len(demoTrainings))
	}

	return nil
}
