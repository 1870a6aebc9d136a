package token

import (
	"strings"
	"testing"
)

// TestGenerate tests credential generation.
func TestGenerate(t *testing.T) {
	t.Run("generate unique credentials", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			plaintext, digest, err := Generate()
			if err != nil {
				t.Fatalf("Generate failed: %v", err)
			}

			if len(plaintext) != Length {
				t.Errorf("credential length = %d, want %d", len(plaintext), Length)
			}
			if len(digest) != HashLength {
				t.Errorf("digest length = %d, want %d", len(digest), HashLength)
			}

			if seen[plaintext] {
				t.Error("duplicate credential generated")
			}
			seen[plaintext] = true
		}
	})

	t.Run("credential prefix", func(t *testing.T) {
		plaintext, _, err := Generate()
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if !strings.HasPrefix(plaintext, Prefix) {
			t.Errorf("credential prefix = %s, want %s", plaintext[:9], Prefix)
		}
	})

	t.Run("digest matches full string", func(t *testing.T) {
		plaintext, digest, err := Generate()
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if Hash(plaintext) != digest {
			t.Error("digest does not match Hash(plaintext)")
		}
		// The digest must cover the prefix, not just the random body.
		if Hash(plaintext[len(Prefix):]) == digest {
			t.Error("digest ignores the credential prefix")
		}
	})
}

// TestHash tests digest computation.
func TestHash(t *testing.T) {
	t.Run("consistent hashing", func(t *testing.T) {
		cred := "amp_live_testcredential1234567890123456789012345"
		h1 := Hash(cred)
		h2 := Hash(cred)
		if h1 != h2 {
			t.Error("Hash is not deterministic")
		}
	})

	t.Run("distinct inputs distinct digests", func(t *testing.T) {
		if Hash("amp_live_a") == Hash("amp_live_b") {
			t.Error("distinct credentials produced equal digests")
		}
	})
}

// TestValidFormat tests the cheap shape filter.
func TestValidFormat(t *testing.T) {
	valid, _, err := Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"generated credential", valid, true},
		{"empty", "", false},
		{"wrong prefix", "amp_test_" + valid[len(Prefix):], false},
		{"too short", valid[:Length-1], false},
		{"too long", valid + "A", false},
		{"invalid alphabet", Prefix + strings.Repeat("+", BodyLength), false},
		{"bare prefix", Prefix, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidFormat(tt.input); got != tt.want {
				t.Errorf("ValidFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// TestValidHashFormat tests digest shape validation.
func TestValidHashFormat(t *testing.T) {
	_, digest, err := Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !ValidHashFormat(digest) {
		t.Error("ValidHashFormat rejected a real digest")
	}
	if ValidHashFormat("zz" + digest[2:]) {
		t.Error("ValidHashFormat accepted non-hex input")
	}
	if ValidHashFormat(digest[:HashLength-2]) {
		t.Error("ValidHashFormat accepted a short digest")
	}
}

// TestMask tests safe logging output.
func TestMask(t *testing.T) {
	plaintext, _, err := Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	masked := Mask(plaintext)
	if strings.Contains(masked, plaintext[len(Prefix):]) {
		t.Error("Mask leaked the credential body")
	}
	if !strings.HasPrefix(masked, Prefix) {
		t.Errorf("Mask output %q lost the prefix", masked)
	}

	if got := Mask("short"); got != "***REDACTED***" {
		t.Errorf("Mask(short) = %q, want full redaction", got)
	}
	if got := Mask(strings.Repeat("x", Length)); got != "***REDACTED***" {
		t.Errorf("Mask(non-credential) = %q, want full redaction", got)
	}
}
