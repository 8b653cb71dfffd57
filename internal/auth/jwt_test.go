package auth

import (
	"strings"
	"testing"
	"time"
)

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

func TestNewTokenService_ShortSecret(t *testing.T) {
	if _, err := NewTokenService("short"); err == nil {
		t.Fatal("NewTokenService() should reject secrets under 16 characters")
	}
}

func TestIssueAndValidate_RoundTrip(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Issue("a@x.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if token == "" {
		t.Fatal("Issue() returned empty token")
	}

	email, err := ts.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if email != "a@x.com" {
		t.Errorf("Validate() = %q, want %q", email, "a@x.com")
	}
}

func TestValidate_ExpiredToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.IssueWithDuration("a@x.com", -time.Minute)
	if err != nil {
		t.Fatalf("IssueWithDuration() error = %v", err)
	}

	if _, err := ts.Validate(token); err == nil {
		t.Fatal("Validate() should reject an expired token")
	}
}

func TestValidate_TamperedToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Issue("a@x.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// Flip a character in the payload segment.
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token format: %q", token)
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := ts.Validate(tampered); err == nil {
		t.Fatal("Validate() should reject a tampered token")
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	ts := newTestTokenService(t)

	other, err := NewTokenService("a-completely-different-secret!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	token, err := other.Issue("a@x.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := ts.Validate(token); err == nil {
		t.Fatal("Validate() should reject a token signed with another secret")
	}
}

func TestValidate_Garbage(t *testing.T) {
	ts := newTestTokenService(t)

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := ts.Validate(tok); err == nil {
			t.Errorf("Validate(%q) should fail", tok)
		}
	}
}

func TestIssue_SevenDayExpiry(t *testing.T) {
	if TokenTTL != 7*24*time.Hour {
		t.Fatalf("TokenTTL = %v, want 7 days", TokenTTL)
	}

	ts := newTestTokenService(t)

	// A token issued now must still validate; one issued 7 days plus a
	// minute "ago" must not.
	token, err := ts.IssueWithDuration("a@x.com", TokenTTL)
	if err != nil {
		t.Fatalf("IssueWithDuration() error = %v", err)
	}
	if _, err := ts.Validate(token); err != nil {
		t.Errorf("fresh 7-day token should validate, got %v", err)
	}

	stale, err := ts.IssueWithDuration("a@x.com", -TokenTTL)
	if err != nil {
		t.Fatalf("IssueWithDuration() error = %v", err)
	}
	if _, err := ts.Validate(stale); err == nil {
		t.Error("token past its expiry should be rejected")
	}
}
