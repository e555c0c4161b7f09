package session

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := signToken("42", "sid-abc", time.Hour)
	if err != nil {
		t.Fatalf("signToken: %v", err)
	}

	claims, err := parseToken(token)
	if err != nil {
		t.Fatalf("parseToken: %v", err)
	}
	if claims.Subject != "42" {
		t.Errorf("subject = %q, want %q", claims.Subject, "42")
	}
	if claims.ID != "sid-abc" {
		t.Errorf("jti = %q, want %q", claims.ID, "sid-abc")
	}
}

func TestParseToken_Expired(t *testing.T) {
	skew := tcfg.ClockSkew
	token, err := signToken("42", "sid-abc", -(skew + time.Hour))
	if err != nil {
		t.Fatalf("signToken: %v", err)
	}
	if _, err := parseToken(token); err == nil {
		t.Error("expected an error for an expired token")
	}
}

func TestParseToken_Tampered(t *testing.T) {
	token, err := signToken("42", "sid-abc", time.Hour)
	if err != nil {
		t.Fatalf("signToken: %v", err)
	}
	// Flip a character in the signature segment.
	b := []byte(token)
	last := len(b) - 1
	if b[last] == 'A' {
		b[last] = 'B'
	} else {
		b[last] = 'A'
	}
	if _, err := parseToken(string(b)); err == nil {
		t.Error("expected an error for a tampered signature")
	}
}

func TestParseToken_Garbage(t *testing.T) {
	if _, err := parseToken("not-a-jwt"); err == nil {
		t.Error("expected an error for a malformed token")
	}
}
