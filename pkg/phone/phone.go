// Package phone provides display formatting for patient phone numbers.
// Formatting is cosmetic only; identity comparisons elsewhere always use
// the raw stored digit string.
package phone

import "strings"

// DefaultCountryCode is the fixed prefix the clinic serves.
const DefaultCountryCode = "91"

// Format renders a phone number as "+CC XXXXX XXXXX" when the digits match
// a recognised shape: exactly ten digits, or the country code followed by
// ten digits. Anything else comes back unchanged, not even digit-stripped,
// so unrecognised formats are never mangled.
func Format(raw, countryCode string) string {
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}

	cleaned := digitsOf(raw)

	if len(cleaned) == 10 {
		return "+" + countryCode + " " + cleaned[:5] + " " + cleaned[5:]
	}

	if len(cleaned) == len(countryCode)+10 && strings.HasPrefix(cleaned, countryCode) {
		rest := cleaned[len(countryCode):]
		return "+" + countryCode + " " + rest[:5] + " " + rest[5:]
	}

	return raw
}

func digitsOf(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
