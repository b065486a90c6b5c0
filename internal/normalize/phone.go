package normalize

import "regexp"

// DefaultPhoneDigits is the number of trailing digits compared by
// PhoneFuzzyMatch. Trailing-digit comparison tolerates country codes and
// formatting at the cost of rare collisions.
const DefaultPhoneDigits = 4

var phoneRe = regexp.MustCompile(`(?:\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)

// PhoneDigits strips every non-digit rune.
func PhoneDigits(s string) string {
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b = append(b, s[i])
		}
	}
	return string(b)
}

// PhoneFuzzyMatch compares the trailing minDigits digits of a and b. It is
// false when either side has fewer digits. minDigits <= 0 means
// DefaultPhoneDigits.
func PhoneFuzzyMatch(a, b string, minDigits int) bool {
	if minDigits <= 0 {
		minDigits = DefaultPhoneDigits
	}
	da, db := PhoneDigits(a), PhoneDigits(b)
	if len(da) < minDigits || len(db) < minDigits {
		return false
	}
	return da[len(da)-minDigits:] == db[len(db)-minDigits:]
}

// ExtractPhones returns phone-number-looking substrings of text.
func ExtractPhones(text string) []string {
	return phoneRe.FindAllString(text, 10)
}
