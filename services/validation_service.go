package services

import (
	"strings"
	"unicode"
)

// ValidationService holds the free-text acceptance rules for the few states
// that read raw input instead of button tokens.
type ValidationService struct{}

func NewValidationService() *ValidationService {
	return &ValidationService{}
}

// IsDiscountRequest reports whether free text looks like the customer is
// asking to apply a discount code mid-flow.
func (v *ValidationService) IsDiscountRequest(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return false
	}
	for _, phrase := range []string{"discount", "promo code", "coupon", "voucher"} {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// IsValidAddress accepts any free text of at least ten characters.
func (v *ValidationService) IsValidAddress(text string) bool {
	return len(strings.TrimSpace(text)) >= 10
}

// NormalizeContactPhone strips formatting from a phone number and validates
// it. A single leading "+" is kept; everything else must be digits; seven to
// fifteen digits are accepted.
func (v *ValidationService) NormalizeContactPhone(text string) (string, bool) {
	text = strings.TrimSpace(text)
	var b strings.Builder
	for i, r := range text {
		switch {
		case r == '+' && i == 0:
			b.WriteRune(r)
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
			// formatting, dropped
		default:
			return "", false
		}
	}
	normalized := b.String()
	digits := strings.TrimPrefix(normalized, "+")
	if len(digits) < 7 || len(digits) > 15 {
		return "", false
	}
	return normalized, true
}

// IsSystemMessage reports whether free text is a bare greeting that should
// not be captured as order notes.
func (v *ValidationService) IsSystemMessage(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	switch lower {
	case "hi", "hello", "hey", "hi there", "hello there",
		"good morning", "good afternoon", "good evening", "start", "menu":
		return true
	}
	return false
}
