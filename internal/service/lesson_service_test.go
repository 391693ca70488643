package service

import (
	"testing"
	"time"

	"codelingo/internal/models"
)

func TestPointsForAccuracy(t *testing.T) {
	tests := []struct {
		name     string
		accuracy int
		expected int
	}{
		{name: "zero accuracy", accuracy: 0, expected: 4},
		{name: "top of lowest band", accuracy: 15, expected: 4},
		{name: "bottom of second band", accuracy: 16, expected: 6},
		{name: "top of second band", accuracy: 45, expected: 6},
		{name: "bottom of third band", accuracy: 46, expected: 8},
		{name: "top of third band", accuracy: 90, expected: 8},
		{name: "bottom of top band", accuracy: 91, expected: 10},
		{name: "perfect accuracy", accuracy: 100, expected: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pointsForAccuracy(tt.accuracy); got != tt.expected {
				t.Errorf("pointsForAccuracy(%d) = %d, want %d", tt.accuracy, got, tt.expected)
			}
		})
	}
}

func TestApplyStreak(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	lastWeek := now.AddDate(0, 0, -7)

	tests := []struct {
		name           string
		lastLessonDate *time.Time
		currentStreak  int
		expectedStreak int
	}{
		{name: "first ever lesson", lastLessonDate: nil, currentStreak: 0, expectedStreak: 1},
		{name: "second lesson same day", lastLessonDate: &now, currentStreak: 3, expectedStreak: 3},
		{name: "consecutive day extends", lastLessonDate: &yesterday, currentStreak: 3, expectedStreak: 4},
		{name: "gap resets to one", lastLessonDate: &lastWeek, currentStreak: 9, expectedStreak: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := &models.Profile{CurrentStreak: tt.currentStreak}
			if tt.lastLessonDate != nil {
				d := dateOnly(*tt.lastLessonDate)
				profile.LastLessonDate = &d
			}

			applyStreak(profile, now)

			if profile.CurrentStreak != tt.expectedStreak {
				t.Errorf("CurrentStreak = %d, want %d", profile.CurrentStreak, tt.expectedStreak)
			}
			if profile.LastLessonDate == nil || !profile.LastLessonDate.Equal(dateOnly(now)) {
				t.Errorf("LastLessonDate = %v, want %v", profile.LastLessonDate, dateOnly(now))
			}
		})
	}
}
