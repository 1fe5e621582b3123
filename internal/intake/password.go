package intake

import "unicode/utf8"

// Password requirement names, reported in this order.
const (
	RequirementMinLength = "at least 8 characters"
	RequirementUppercase = "an uppercase letter"
	RequirementLowercase = "a lowercase letter"
	RequirementDigit     = "a number"
	RequirementSpecial   = "a special character"
)

const minPasswordLength = 8

// ValidatePasswordPolicy returns every unmet requirement; empty means compliant.
// Letters and digits are ASCII; any other character counts as special.
func ValidatePasswordPolicy(password string) []string {
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			special = true
		}
	}

	unmet := []string{}
	if utf8.RuneCountInString(password) < minPasswordLength {
		unmet = append(unmet, RequirementMinLength)
	}
	if !upper {
		unmet = append(unmet, RequirementUppercase)
	}
	if !lower {
		unmet = append(unmet, RequirementLowercase)
	}
	if !digit {
		unmet = append(unmet, RequirementDigit)
	}
	if !special {
		unmet = append(unmet, RequirementSpecial)
	}
	return unmet
}

// CheckPasswordConfirmation fails with ErrPasswordMismatch when the two differ.
func CheckPasswordConfirmation(password, confirmation string) error {
	if password != confirmation {
		return ErrPasswordMismatch
	}
	return nil
}
