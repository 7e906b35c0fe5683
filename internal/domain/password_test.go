package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	if err := ValidatePassword("Sturdy-Harbor-42!"); err != nil {
		t.Fatalf("strong password rejected: %v", err)
	}

	cases := map[string]string{
		"too short":     "Ab1!short",
		"no upper":      "lowercase-only-42!",
		"no digit":      "Lowercase-Upper-!!",
		"no symbol":     "LowercaseUpper4242",
		"weak pattern":  "MyPassword1234!!",
		"over max size": "Aa1!" + strings.Repeat("x", 130),
	}
	for name, pw := range cases {
		if err := ValidatePassword(pw); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected rejection for %q, got %v", name, pw, err)
		}
	}
}
