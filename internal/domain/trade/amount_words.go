package trade

import "strings"

var (
	onesWords = []string{
		"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
		"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
		"Seventeen", "Eighteen", "Nineteen",
	}
	tensWords = []string{
		"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
	}
)

// indianScale lists the place values of the Indian numbering scheme, largest first.
// Crore is the top unit; larger counts of crore are spelled recursively.
var indianScale = []struct {
	value int64
	name  string
}{
	{10_000_000, "Crore"},
	{100_000, "Lakh"},
	{1_000, "Thousand"},
	{100, "Hundred"},
}

// AmountInWords spells a whole rupee amount, e.g. 885 -> "Eight Hundred Eighty Five Rupees Only"
func AmountInWords(n int64) string {
	if n == 0 {
		return "Zero Rupees Only"
	}
	prefix := ""
	if n < 0 {
		prefix = "Minus "
		n = -n
	}
	return prefix + strings.Join(spell(n), " ") + " Rupees Only"
}

func spell(n int64) []string {
	var words []string
	for _, s := range indianScale {
		if n >= s.value {
			words = append(words, spell(n/s.value)...)
			words = append(words, s.name)
			n %= s.value
		}
	}
	if n >= 20 {
		words = append(words, tensWords[n/10])
		n %= 10
	}
	if n > 0 {
		words = append(words, onesWords[n])
	}
	return words
}
