package utils

import (
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret" || !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected bcrypt hash, got %q", hash)
	}
	if !CheckPasswordHash("s3cret", hash) {
		t.Fatalf("expected password to match")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Fatalf("expected wrong password to be rejected")
	}
	if CheckPasswordHash("", "") {
		t.Fatalf("empty hash must never match")
	}
}

func TestJWTRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	tok, err := GenerateJWT(secret, "user-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	sub, err := ParseJWT(secret, tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sub != "user-1" {
		t.Fatalf("expected subject user-1, got %q", sub)
	}
	if _, err := ParseJWT([]byte("other"), tok); err == nil {
		t.Fatalf("expected signature mismatch to fail")
	}
}

func TestParseJWTRejectsNoneAlg(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "user-1"})
	s, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseJWT([]byte("test-secret"), s); err == nil {
		t.Fatalf("expected unsigned token to be rejected")
	}
}
