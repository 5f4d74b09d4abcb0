package services

import (
	"strings"
	"testing"
	"time"
)

func TestUnsubscribeToken_RoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	token, err := NewUnsubscribeToken(secret, "sub123", "ada@example.com", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("NewUnsubscribeToken() error = %v", err)
	}

	claims, err := ParseUnsubscribeToken(secret, token)
	if err != nil {
		t.Fatalf("ParseUnsubscribeToken() error = %v", err)
	}
	if claims.SubscriberID != "sub123" || claims.Subject != "ada@example.com" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestUnsubscribeToken_Rejects(t *testing.T) {
	secret := []byte("test-secret")
	token, _ := NewUnsubscribeToken(secret, "sub123", "ada@example.com", time.Now())

	tests := []struct {
		name   string
		secret []byte
		token  string
	}{
		{"wrong secret", []byte("other"), token},
		{"tampered", secret, token[:strings.LastIndex(token, ".")+1] + "c2lnbmF0dXJl"},
		{"garbage", secret, "not.a.token"},
		{"empty secret", nil, token},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseUnsubscribeToken(tt.secret, tt.token); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := NewUnsubscribeToken(nil, "x", "y", time.Now()); err == nil || !strings.Contains(err.Error(), "secret") {
		t.Errorf("expected secret error, got %v", err)
	}
}
