package session

import (
	"context"
	"testing"
)

func TestMemoryStoreAnswers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	key := AnswersKey(1, ScopeLesson, "lesson-a")

	answers, err := store.Answers(ctx, key)
	if err != nil {
		t.Fatalf("Answers() error: %v", err)
	}
	if len(answers) != 0 {
		t.Errorf("missing key should yield an empty map, got %v", answers)
	}

	if err := store.SetAnswer(ctx, key, "q1", "a1"); err != nil {
		t.Fatalf("SetAnswer() error: %v", err)
	}
	if err := store.SetAnswer(ctx, key, "q2", "free text"); err != nil {
		t.Fatalf("SetAnswer() error: %v", err)
	}

	answers, err = store.Answers(ctx, key)
	if err != nil {
		t.Fatalf("Answers() error: %v", err)
	}
	if len(answers) != 2 || answers["q1"] != "a1" || answers["q2"] != "free text" {
		t.Errorf("answers = %v, want both recorded values", answers)
	}

	// Mutating the returned map must not leak into the store
	answers["q3"] = "sneaky"
	again, _ := store.Answers(ctx, key)
	if _, ok := again["q3"]; ok {
		t.Error("returned map should be a copy")
	}
}

func TestMemoryStoreKeysAreScoped(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_ = store.SetAnswer(ctx, AnswersKey(1, ScopeLesson, "l1"), "q1", "x")
	_ = store.SetAnswer(ctx, AnswersKey(2, ScopeLesson, "l1"), "q1", "y")
	_ = store.SetAnswer(ctx, AnswersKey(1, ScopeTraining, "l1"), "q1", "z")

	answers, _ := store.Answers(ctx, AnswersKey(1, ScopeLesson, "l1"))
	if answers["q1"] != "x" {
		t.Errorf("user 1 lesson answers = %v, want q1=x", answers)
	}
}

func TestMemoryStoreValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	key := StartKey(7, ScopeLesson, "l1")

	if _, ok, _ := store.Value(ctx, key); ok {
		t.Error("missing value should report not present")
	}

	if err := store.SetValue(ctx, key, "2025-06-01T12:00:00Z"); err != nil {
		t.Fatalf("SetValue() error: %v", err)
	}

	value, ok, _ := store.Value(ctx, key)
	if !ok || value != "2025-06-01T12:00:00Z" {
		t.Errorf("Value() = %q, %v", value, ok)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	answersKey := AnswersKey(1, ScopeLesson, "l1")
	startKey := StartKey(1, ScopeLesson, "l1")
	_ = store.SetAnswer(ctx, answersKey, "q1", "v")
	_ = store.SetValue(ctx, startKey, "t")

	if err := store.Delete(ctx, answersKey, startKey, "never-existed"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	if answers, _ := store.Answers(ctx, answersKey); len(answers) != 0 {
		t.Error("answer map should be gone after delete")
	}
	if _, ok, _ := store.Value(ctx, startKey); ok {
		t.Error("value should be gone after delete")
	}
}
