package helpers

import (
	"strconv"
	"strings"
	"unicode"
)

// DigitsOnly strips every non-digit rune from a string.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParsePriceKRW extracts an integer KRW price from free-form text such as
// "33,900원". Matches with fewer than minDigits digits are rejected (truncated
// or garbage markup below the origin's minimum unit) and reported as 0.
func ParsePriceKRW(text string, minDigits int) int {
	digits := DigitsOnly(text)
	if len(digits) < minDigits {
		return 0
	}
	price, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return price
}
