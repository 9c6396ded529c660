package usecase

import (
	"errors"
	"strings"
)

var (
	ErrInvalidPhone    = errors.New("invalid payer phone number")
	ErrInvalidAmount   = errors.New("amount must be a positive whole number")
	ErrMissingUser     = errors.New("user id is required")
	ErrMissingIntentID = errors.New("intent id is required")
)

// NormalizePhone accepts the local and international spellings of a Kenyan
// mobile number and returns the 12 digit 2547XXXXXXXX / 2541XXXXXXXX form the
// gateway expects.
func NormalizePhone(raw string) (string, error) {
	s := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "+")

	switch {
	case len(s) == 12 && strings.HasPrefix(s, "254"):
		s = s[3:]
	case len(s) == 10 && strings.HasPrefix(s, "0"):
		s = s[1:]
	case len(s) == 9:
	default:
		return "", ErrInvalidPhone
	}

	if s[0] != '7' && s[0] != '1' {
		return "", ErrInvalidPhone
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", ErrInvalidPhone
		}
	}
	return "254" + s, nil
}

func validateAmount(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
