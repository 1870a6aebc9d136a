package domain

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestNewTokenID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := NewTokenID()
		if err != nil {
			t.Fatalf("NewTokenID failed: %v", err)
		}
		if len(id) != TokenIDLength {
			t.Errorf("id length = %d, want %d", len(id), TokenIDLength)
		}
		if !strings.HasPrefix(id, TokenIDPrefix) {
			t.Errorf("id %q missing prefix %q", id, TokenIDPrefix)
		}
		if id != strings.ToLower(id) {
			t.Errorf("id %q is not lowercase", id)
		}
		if seen[id] {
			t.Errorf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestValidTokenID(t *testing.T) {
	id, err := NewTokenID()
	if err != nil {
		t.Fatalf("NewTokenID failed: %v", err)
	}

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"generated id", id, true},
		{"empty", "", false},
		{"wrong prefix", "ampxx-" + id[len(TokenIDPrefix):], false},
		{"truncated", id[:TokenIDLength-1], false},
		{"not a ulid", TokenIDPrefix + strings.Repeat("!", 26), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidTokenID(tt.input); got != tt.want {
				t.Errorf("ValidTokenID(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenRecordStatusAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		rec  TokenRecord
		want Status
	}{
		{"no expiry", TokenRecord{}, StatusActive},
		{"future expiry", TokenRecord{ExpiresAt: &future}, StatusActive},
		{"past expiry", TokenRecord{ExpiresAt: &past}, StatusExpired},
		{"expiry exactly now", TokenRecord{ExpiresAt: &now}, StatusExpired},
		{"revoked", TokenRecord{RevokedAt: &past}, StatusRevoked},
		{"revoked beats expired", TokenRecord{RevokedAt: &past, ExpiresAt: &past}, StatusRevoked},
		{"revoked beats active", TokenRecord{RevokedAt: &past, ExpiresAt: &future}, StatusRevoked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.StatusAt(now); got != tt.want {
				t.Errorf("StatusAt = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTokenRecordStatusNoExpiryFarFuture(t *testing.T) {
	// A token without expiry stays active over an arbitrarily long
	// simulated clock advance.
	rec := TokenRecord{CreatedAt: time.Now()}
	farFuture := time.Now().AddDate(100, 0, 0)
	if got := rec.StatusAt(farFuture); got != StatusActive {
		t.Errorf("StatusAt(+100y) = %v, want active", got)
	}
}

func TestTokenRecordHasScopes(t *testing.T) {
	rec := TokenRecord{Scopes: []string{"read", "write"}}

	tests := []struct {
		name     string
		required []string
		want     bool
	}{
		{"no required scopes", nil, true},
		{"empty required scopes", []string{}, true},
		{"subset", []string{"read"}, true},
		{"exact set", []string{"read", "write"}, true},
		{"missing scope", []string{"read", "admin"}, false},
		{"disjoint", []string{"admin"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rec.HasScopes(tt.required); got != tt.want {
				t.Errorf("HasScopes(%v) = %v, want %v", tt.required, got, tt.want)
			}
		})
	}
}

func TestNormalizeScopes(t *testing.T) {
	t.Run("dedupe and sort", func(t *testing.T) {
		got, err := NormalizeScopes([]string{"write", "read", "write", " read "})
		if err != nil {
			t.Fatalf("NormalizeScopes failed: %v", err)
		}
		if !reflect.DeepEqual(got, []string{"read", "write"}) {
			t.Errorf("NormalizeScopes = %v, want [read write]", got)
		}
	})

	t.Run("rejects empty scope", func(t *testing.T) {
		if _, err := NormalizeScopes([]string{"read", "  "}); err == nil {
			t.Error("expected error for empty scope")
		}
	})

	t.Run("rejects embedded whitespace", func(t *testing.T) {
		if _, err := NormalizeScopes([]string{"read write"}); err == nil {
			t.Error("expected error for scope with whitespace")
		}
	})

	t.Run("rejects comma", func(t *testing.T) {
		if _, err := NormalizeScopes([]string{"read,write"}); err == nil {
			t.Error("expected error for scope with comma")
		}
	})

	t.Run("rejects too many", func(t *testing.T) {
		scopes := make([]string, MaxScopes+1)
		for i := range scopes {
			scopes[i] = "s" + strings.Repeat("x", i%8)
		}
		if _, err := NormalizeScopes(scopes); err == nil {
			t.Error("expected error for oversized scope list")
		}
	})

	t.Run("empty list is valid", func(t *testing.T) {
		got, err := NormalizeScopes(nil)
		if err != nil {
			t.Fatalf("NormalizeScopes(nil) failed: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("NormalizeScopes(nil) = %v, want empty", got)
		}
	})
}

func TestTokenRecordClone(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	rec := &TokenRecord{
		ID:         "amptk-01jj0000000000000000000000",
		Name:       "ci",
		SecretHash: "abc",
		Scopes:     []string{"read"},
		ExpiresAt:  &exp,
	}

	clone := rec.Clone()
	clone.Scopes[0] = "mutated"
	*clone.ExpiresAt = clone.ExpiresAt.Add(time.Hour)

	if rec.Scopes[0] != "read" {
		t.Error("Clone shares the scopes slice")
	}
	if !rec.ExpiresAt.Equal(exp) {
		t.Error("Clone shares the expiry pointer")
	}
}
