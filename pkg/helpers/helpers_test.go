package helpers

import (
	"strings"
	"testing"
	"time"
)

func TestHashAndCompare(t *testing.T) {
	hash, err := HashPassword("Secret1")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "Secret1" {
		t.Fatal("Expected the hash to differ from the plain password")
	}
	if !CompareHashAndPassword(hash, "Secret1") {
		t.Error("Expected matching password to compare true")
	}
	if CompareHashAndPassword(hash, "secret1") {
		t.Error("Expected wrong password to compare false")
	}
}

func TestHashLongPassword(t *testing.T) {
	long := "Aa" + strings.Repeat("x", 80)
	hash, err := HashPassword(long)
	if err != nil {
		t.Fatalf("HashPassword failed for %d bytes: %v", len(long), err)
	}
	if !CompareHashAndPassword(hash, long) {
		t.Error("Expected the long password to compare true")
	}
	// same first 72 bytes, different tail
	if CompareHashAndPassword(hash, long[:81]+"y") {
		t.Error("Expected a password differing past byte 72 to compare false")
	}
	if CompareHashAndPassword(hash, long[:72]) {
		t.Error("Expected the 72 byte prefix to compare false")
	}
}

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour, "taskmaster")
	tok, exp, err := m.GenerateToken("user-1", "alice", "sid-1")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if tok == "" {
		t.Fatal("Expected a non-empty token")
	}
	if time.Until(exp) <= 0 {
		t.Errorf("Expected expiry in the future, got %v", exp)
	}

	claims, err := m.ParseToken(tok)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.UserID != "user-1" || claims.Username != "alice" || claims.SessionID != "sid-1" {
		t.Errorf("Unexpected claims: %+v", claims)
	}
	if DefaultJWT() != m {
		t.Error("Expected DefaultJWT to return the last manager")
	}
}

func TestJWTRejectsForeignSecret(t *testing.T) {
	a := NewJWTManager("secret-a", time.Hour, "taskmaster")
	b := NewJWTManager("secret-b", time.Hour, "taskmaster")
	tok, _, _ := a.GenerateToken("user-1", "alice", "sid")
	if _, err := b.ParseToken(tok); err == nil {
		t.Error("Expected a token signed with another secret to be rejected")
	}
	if _, err := b.ParseToken(strings.Repeat("x", 10)); err == nil {
		t.Error("Expected garbage to be rejected")
	}
}

func TestJWTWithoutExpiry(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute, "taskmaster")
	// negative TTL is treated as no expiry
	tok, exp, err := m.GenerateToken("u", "n", "s")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if !exp.IsZero() {
		t.Errorf("Expected zero expiry, got %v", exp)
	}
	if _, err := m.ParseToken(tok); err != nil {
		t.Errorf("Expected token without expiry to parse, got %v", err)
	}
}
