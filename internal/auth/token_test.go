package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundtrip(t *testing.T) {
	token, err := NewToken("user-1", "asha@example.com", "Asha", "secret", time.Hour)
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}

	claims, err := VerifyToken(token, "secret")
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("subject = %q, want user-1", claims.Subject)
	}
	if claims.Email != "asha@example.com" || claims.Name != "Asha" {
		t.Errorf("claims = %q/%q, want email and name preserved", claims.Email, claims.Name)
	}
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewToken("user-1", "asha@example.com", "", "secret", time.Hour)
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}
	if _, err := VerifyToken(token, "other-secret"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("got %v, want ErrInvalidToken", err)
	}
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	token, err := NewToken("user-1", "asha@example.com", "", "secret", -time.Minute)
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}
	if _, err := VerifyToken(token, "secret"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("got %v, want ErrInvalidToken", err)
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := VerifyToken(token, "secret"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("VerifyToken(%q) = %v, want ErrInvalidToken", token, err)
		}
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("password stored in plaintext")
	}
	if !CheckPassword(hash, "correct horse battery staple") {
		t.Error("matching password rejected")
	}
	if CheckPassword(hash, "wrong password") {
		t.Error("wrong password accepted")
	}
}
