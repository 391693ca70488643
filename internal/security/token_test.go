package security

import (
	"errors"
	"testing"
	"time"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := SignSessionToken(secret, 42, time.Hour)
	if err != nil {
		t.Fatalf("SignSessionToken failed: %v", err)
	}

	userID, err := ParseSessionToken(secret, token)
	if err != nil {
		t.Fatalf("ParseSessionToken failed: %v", err)
	}
	if userID != 42 {
		t.Errorf("userID = %d, want 42", userID)
	}
}

func TestParseSessionTokenRejectsBadInput(t *testing.T) {
	secret := []byte("test-secret")

	token, err := SignSessionToken(secret, 7, time.Hour)
	if err != nil {
		t.Fatalf("SignSessionToken failed: %v", err)
	}

	tests := []struct {
		name   string
		secret []byte
		token  string
	}{
		{name: "wrong secret", secret: []byte("other-secret"), token: token},
		{name: "malformed token", secret: secret, token: "not-a-token"},
		{name: "empty token", secret: secret, token: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSessionToken(tt.secret, tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestParseSessionTokenRejectsExpired(t *testing.T) {
	secret := []byte("test-secret")

	token, err := SignSessionToken(secret, 7, -time.Minute)
	if err != nil {
		t.Fatalf("SignSessionToken failed: %v", err)
	}
	if _, err := ParseSessionToken(secret, token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("error = %v, want ErrInvalidToken", err)
	}
}
