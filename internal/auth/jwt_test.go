package auth

import (
	"testing"
	"time"
)

func TestIssueAndParse(t *testing.T) {
	pair, err := Issue("kiosk-1", "facetrack", "secret", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := Parse(pair.AccessToken, "secret", "facetrack")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "kiosk-1" {
		t.Errorf("expected subject kiosk-1, got %q", claims.Subject)
	}
	if claims.Role != "device" {
		t.Errorf("expected role device, got %q", claims.Role)
	}
}

func TestParseWrongKey(t *testing.T) {
	pair, err := Issue("kiosk-1", "facetrack", "secret", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := Parse(pair.AccessToken, "other-secret", "facetrack"); err == nil {
		t.Fatal("expected signature failure")
	}
}

func TestParseIssuerMismatch(t *testing.T) {
	pair, err := Issue("kiosk-1", "someone-else", "secret", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := Parse(pair.AccessToken, "secret", "facetrack"); err == nil {
		t.Fatal("expected issuer mismatch")
	}
}

func TestParseExpired(t *testing.T) {
	pair, err := Issue("kiosk-1", "facetrack", "secret", -time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := Parse(pair.AccessToken, "secret", "facetrack"); err == nil {
		t.Fatal("expected expired token to fail")
	}
}
