package domain

import (
	"errors"
	"testing"
)

func TestValidateABN(t *testing.T) {
	t.Parallel()

	if err := ValidateABN("51824753556"); err != nil {
		t.Fatalf("valid abn rejected: %v", err)
	}
	if err := ValidateABN("51 824 753 556"); err != nil {
		t.Fatalf("spaced abn rejected: %v", err)
	}
	if err := ValidateABN("51824753557"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected checksum failure, got %v", err)
	}
	if err := ValidateABN("1234"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected shape failure, got %v", err)
	}
}

func TestValidateName(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{"Aoife", "O'Brien", "Anne-Marie", "van der Berg", "José", "Müller", "Ngô"} {
		if err := ValidateName("first_name", ok); err != nil {
			t.Fatalf("valid name %q rejected: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "1234", "name!"} {
		if err := ValidateName("first_name", bad); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("invalid name %q accepted", bad)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{"0412345678", "+61412345678", "02 9876 5432"} {
		if err := ValidatePhone(ok); err != nil {
			t.Fatalf("valid phone %q rejected: %v", ok, err)
		}
	}
	for _, bad := range []string{"12345", "0112345678", "+1415555000"} {
		if err := ValidatePhone(bad); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("invalid phone %q accepted", bad)
		}
	}
}

func TestValidatePostcode(t *testing.T) {
	t.Parallel()

	if err := ValidatePostcode("2000"); err != nil {
		t.Fatalf("valid postcode rejected: %v", err)
	}
	if err := ValidatePostcode("20000"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("5-digit postcode accepted")
	}
}

func TestValidateDocumentTypeCode(t *testing.T) {
	t.Parallel()

	// Human-entered codes normalize to canonical snake case.
	cases := map[string]string{
		"  Police_Check ":         "police_check",
		"Police Check":            "police_check",
		"Working With Children":   "working_with_children",
		"First  Aid\tCertificate": "first_aid_certificate",
	}
	for in, want := range cases {
		if got := NormalizeDocumentTypeCode(in); got != want {
			t.Fatalf("normalize %q = %q, want %q", in, got, want)
		}
		if err := ValidateDocumentTypeCode(in); err != nil {
			t.Fatalf("normalizable code %q rejected: %v", in, err)
		}
	}
	for _, bad := range []string{"", "a", "_leading", "bad!code"} {
		if err := ValidateDocumentTypeCode(bad); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("invalid code %q accepted", bad)
		}
	}
}
