package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Sup3rSecret!")
	if err != nil {
		t.Fatalf("HashPassword() error = %v, want nil", err)
	}
	if hash == "Sup3rSecret!" {
		t.Fatal("HashPassword() returned the plaintext")
	}

	if !CheckPassword(hash, "Sup3rSecret!") {
		t.Error("CheckPassword() = false for the right password, want true")
	}
	if CheckPassword(hash, "wrong-password") {
		t.Error("CheckPassword() = true for the wrong password, want false")
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Sup3rSecret!", false},
		{"too short", "Ab1!", true},
		{"no uppercase", "sup3rsecret!", true},
		{"no digit", "SuperSecret!", true},
		{"no special", "Sup3rSecret", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
		})
	}
}

func TestGenerateResetCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		code, err := GenerateResetCode()
		if err != nil {
			t.Fatalf("GenerateResetCode() error = %v, want nil", err)
		}
		if len(code) != 6 {
			t.Fatalf("GenerateResetCode() length = %d, want 6", len(code))
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				t.Fatalf("GenerateResetCode() = %q, want digits only", code)
			}
		}
		seen[code] = true
	}
	// Twenty draws from a million-value space collapsing to one code would
	// mean the source is not random at all.
	if len(seen) == 1 {
		t.Error("GenerateResetCode() returned the same code 20 times")
	}
}
