package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndParse(t *testing.T) {
	issuer := NewIssuer("s3cret", "vigat-bahee", time.Hour)

	token, err := issuer.Issue("user-1", "ramesh", "r@example.com")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	claims, err := issuer.Parse(token.Value)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if claims.UserID != "user-1" || claims.Username != "ramesh" || claims.Subject != "user-1" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := NewIssuer("one", "vigat-bahee", time.Hour).Issue("user-1", "ramesh", "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	_, err = NewIssuer("two", "vigat-bahee", time.Hour).Parse(token.Value)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseRejectsExpired(t *testing.T) {
	issuer := NewIssuer("s3cret", "vigat-bahee", time.Minute)
	issued := time.Now().Add(-time.Hour)
	issuer.now = func() time.Time { return issued }

	token, err := issuer.Issue("user-1", "ramesh", "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	issuer.now = time.Now
	if _, err := issuer.Parse(token.Value); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	issuer := NewIssuer("s3cret", "vigat-bahee", time.Hour)
	if _, err := issuer.Parse("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestIssueWithoutSecret(t *testing.T) {
	if _, err := NewIssuer("", "vigat-bahee", time.Hour).Issue("user-1", "", ""); err == nil {
		t.Fatalf("expected error without secret")
	}
}
