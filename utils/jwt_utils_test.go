package utils

import "testing"

func TestGenerateAndValidateToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")

	token, err := GenerateToken("ana@example.com", "member")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v, want nil", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v, want nil", err)
	}
	if claims.Email != "ana@example.com" {
		t.Errorf("claims.Email = %q, want %q", claims.Email, "ana@example.com")
	}
	if claims.Role != "member" {
		t.Errorf("claims.Role = %q, want %q", claims.Role, "member")
	}

	if _, err := ValidateToken(token + "tampered"); err == nil {
		t.Error("ValidateToken(tampered) error = nil, want error")
	}
	if _, err := ValidateToken("not-a-token"); err == nil {
		t.Error("ValidateToken(garbage) error = nil, want error")
	}
}
