package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	tokenStr, err := GenerateJWT("merch@example.com")
	if err != nil {
		t.Fatalf("GenerateJWT error: %v", err)
	}

	token, err := ValidateJWT(tokenStr)
	if err != nil {
		t.Fatalf("ValidateJWT error: %v", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("claims are not MapClaims")
	}
	if claims["email"] != "merch@example.com" {
		t.Errorf("email claim = %v, want merch@example.com", claims["email"])
	}
	if claims["type"] != "access" {
		t.Errorf("type claim = %v, want access", claims["type"])
	}
}

func TestGenerateRefreshTokenBindsSession(t *testing.T) {
	tokenStr, err := GenerateRefreshToken("merch@example.com", "session-abc")
	if err != nil {
		t.Fatalf("GenerateRefreshToken error: %v", err)
	}

	token, err := ValidateJWT(tokenStr)
	if err != nil {
		t.Fatalf("ValidateJWT error: %v", err)
	}

	claims := token.Claims.(jwt.MapClaims)
	if claims["type"] != "refresh" {
		t.Errorf("type claim = %v, want refresh", claims["type"])
	}
	if claims["sessionId"] != "session-abc" {
		t.Errorf("sessionId claim = %v, want session-abc", claims["sessionId"])
	}
}

func TestValidateJWT_Garbage(t *testing.T) {
	if _, err := ValidateJWT("not.a.token"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestHashAndValidatePassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !ValidatePassword(hash, "s3cret") {
		t.Error("correct password rejected")
	}
	if ValidatePassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}
