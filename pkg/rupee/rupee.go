// Package rupee formats amounts the way a bahee is read aloud: Indian digit
// grouping (1,23,456) and words in lakh and crore.
package rupee

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const Symbol = "₹"

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen",
	"Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// Format renders amount with two decimals, e.g. ₹1,23,456.50.
func Format(amount float64) string {
	value := decimal.NewFromFloat(amount).Round(2)
	sign := ""
	if value.IsNegative() {
		sign = "-"
		value = value.Abs()
	}

	fixed := value.StringFixed(2)
	whole, fraction, _ := strings.Cut(fixed, ".")
	return sign + Symbol + Group(whole) + "." + fraction
}

// Group inserts Indian separators into a string of digits: the last three
// digits, then pairs.
func Group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}

func NumberToWords(num int64) string {
	switch {
	case num <= 0:
		return ""
	case num < 20:
		return ones[num]
	case num < 100:
		return strings.TrimSpace(tens[num/10] + " " + ones[num%10])
	case num < 1000:
		return join(ones[num/100]+" Hundred", num%100)
	case num < 100000:
		return join(NumberToWords(num/1000)+" Thousand", num%1000)
	case num < 10000000:
		return join(NumberToWords(num/100000)+" Lakh", num%100000)
	default:
		return join(NumberToWords(num/10000000)+" Crore", num%10000000)
	}
}

func join(prefix string, remainder int64) string {
	if remainder == 0 {
		return prefix
	}
	return prefix + " " + NumberToWords(remainder)
}

// Words spells amount as rupees and paise, e.g. "One Lakh Rupees and Fifty
// Paise Only". Negative amounts are spelled by magnitude.
func Words(amount float64) string {
	value := decimal.NewFromFloat(amount).Abs().Round(2)
	rupees := value.Truncate(0)
	paise := value.Sub(rupees).Shift(2).IntPart()

	var parts []string
	if r := rupees.IntPart(); r > 0 {
		parts = append(parts, fmt.Sprintf("%s Rupees", NumberToWords(r)))
	}
	if paise > 0 {
		parts = append(parts, fmt.Sprintf("%s Paise", NumberToWords(paise)))
	}
	if len(parts) == 0 {
		return "Zero Rupees Only"
	}
	return strings.Join(parts, " and ") + " Only"
}
