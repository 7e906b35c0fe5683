package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	namePattern     = regexp.MustCompile(`^[\p{L}][\p{L} '\-]{0,49}$`)
	phonePattern    = regexp.MustCompile(`^(\+61|0)[2-478]\d{8}$`)
	postcodePattern = regexp.MustCompile(`^\d{4}$`)
	abnPattern      = regexp.MustCompile(`^\d{11}$`)
	docCodePattern  = regexp.MustCompile(`^[a-z0-9][a-z0-9_\-]{1,63}$`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
)

func ValidateName(field, v string) error {
	if !namePattern.MatchString(strings.TrimSpace(v)) {
		return fmt.Errorf("%w: %s must be 1-50 letters, spaces, hyphens or apostrophes", ErrInvalidInput, field)
	}
	return nil
}

func ValidatePhone(v string) error {
	if !phonePattern.MatchString(strings.ReplaceAll(strings.TrimSpace(v), " ", "")) {
		return fmt.Errorf("%w: phone must be a valid AU number", ErrInvalidInput)
	}
	return nil
}

func ValidatePostcode(v string) error {
	if !postcodePattern.MatchString(strings.TrimSpace(v)) {
		return fmt.Errorf("%w: postcode must be 4 digits", ErrInvalidInput)
	}
	return nil
}

// ValidateABN checks the 11-digit shape plus the ATO weighted checksum.
func ValidateABN(v string) error {
	abn := strings.ReplaceAll(strings.TrimSpace(v), " ", "")
	if !abnPattern.MatchString(abn) {
		return fmt.Errorf("%w: abn must be 11 digits", ErrInvalidInput)
	}
	weights := []int{10, 1, 3, 5, 7, 9, 11, 13, 15, 17, 19}
	sum := 0
	for i, r := range abn {
		digit := int(r - '0')
		if i == 0 {
			digit--
		}
		sum += digit * weights[i]
	}
	if sum%89 != 0 {
		return fmt.Errorf("%w: abn checksum failed", ErrInvalidInput)
	}
	return nil
}

func ValidateBio(v string) error {
	if len(v) > 1000 {
		return fmt.Errorf("%w: bio must be <= 1000 chars", ErrInvalidInput)
	}
	return nil
}

// NormalizeDocumentTypeCode lowercases an incoming type code and collapses
// whitespace runs to underscores; "Police Check" and "police_check" compare
// equal after normalization.
func NormalizeDocumentTypeCode(v string) string {
	return whitespaceRuns.ReplaceAllString(strings.ToLower(strings.TrimSpace(v)), "_")
}

func ValidateDocumentTypeCode(v string) error {
	if !docCodePattern.MatchString(NormalizeDocumentTypeCode(v)) {
		return fmt.Errorf("%w: document type code must match %s", ErrInvalidInput, docCodePattern.String())
	}
	return nil
}
