package hearts

import (
	"testing"
	"time"

	"codelingo/internal/models"
)

func TestRegenerate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		hearts      int
		lastUpdate  *time.Time
		wantHearts  int
		wantChanged bool
	}{
		{
			name:        "below cap with no last update",
			hearts:      2,
			lastUpdate:  nil,
			wantHearts:  3,
			wantChanged: true,
		},
		{
			name:        "below cap after interval elapsed",
			hearts:      0,
			lastUpdate:  timePtr(now.Add(-5 * time.Minute)),
			wantHearts:  1,
			wantChanged: true,
		},
		{
			name:        "below cap inside interval",
			hearts:      3,
			lastUpdate:  timePtr(now.Add(-4 * time.Minute)),
			wantHearts:  3,
			wantChanged: false,
		},
		{
			name:        "at cap regardless of elapsed time",
			hearts:      5,
			lastUpdate:  timePtr(now.Add(-24 * time.Hour)),
			wantHearts:  5,
			wantChanged: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &models.Profile{Hearts: tt.hearts, LastHeartUpdate: tt.lastUpdate}
			changed := Regenerate(p, now)

			if changed != tt.wantChanged {
				t.Errorf("Regenerate() changed = %v, want %v", changed, tt.wantChanged)
			}
			if p.Hearts != tt.wantHearts {
				t.Errorf("hearts = %d, want %d", p.Hearts, tt.wantHearts)
			}
			if tt.wantChanged {
				if p.LastHeartUpdate == nil || !p.LastHeartUpdate.Equal(now) {
					t.Errorf("last heart update not set to now: %v", p.LastHeartUpdate)
				}
			}
		})
	}
}

func TestRegenerateIdempotentWithinWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := &models.Profile{Hearts: 1}

	if !Regenerate(p, now) {
		t.Fatal("first call should regenerate")
	}
	if Regenerate(p, now) {
		t.Error("second call with the same now should be a no-op")
	}
	if p.Hearts != 2 {
		t.Errorf("hearts = %d, want 2", p.Hearts)
	}
}

func TestDeduct(t *testing.T) {
	p := &models.Profile{Hearts: 1}

	if !Deduct(p) {
		t.Error("expected deduction at 1 heart")
	}
	if p.Hearts != 0 {
		t.Errorf("hearts = %d, want 0", p.Hearts)
	}

	// At zero the deduction is a silent no-op, never negative
	if Deduct(p) {
		t.Error("deduction at 0 hearts should be a no-op")
	}
	if p.Hearts != 0 {
		t.Errorf("hearts = %d, want 0", p.Hearts)
	}
}

func TestGrant(t *testing.T) {
	p := &models.Profile{Hearts: 4}

	if !Grant(p) {
		t.Error("expected grant below cap")
	}
	if p.Hearts != 5 {
		t.Errorf("hearts = %d, want 5", p.Hearts)
	}
	if Grant(p) {
		t.Error("grant at cap should report nothing granted")
	}
	if p.Hearts != 5 {
		t.Errorf("hearts = %d, want 5", p.Hearts)
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
