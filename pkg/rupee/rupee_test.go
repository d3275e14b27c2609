package rupee

import "testing"

func TestFormat(t *testing.T) {
	cases := []struct {
		amount float64
		want   string
	}{
		{0, "₹0.00"},
		{51, "₹51.00"},
		{1000, "₹1,000.00"},
		{123456.5, "₹1,23,456.50"},
		{12345678.999, "₹1,23,45,679.00"},
		{-2100, "-₹2,100.00"},
	}
	for _, tc := range cases {
		if got := Format(tc.amount); got != tc.want {
			t.Fatalf("Format(%v): expected %q, got %q", tc.amount, tc.want, got)
		}
	}
}

func TestGroup(t *testing.T) {
	cases := map[string]string{
		"1":         "1",
		"999":       "999",
		"1000":      "1,000",
		"100000":    "1,00,000",
		"123456789": "12,34,56,789",
	}
	for in, want := range cases {
		if got := Group(in); got != want {
			t.Fatalf("Group(%s): expected %s, got %s", in, want, got)
		}
	}
}

func TestWords(t *testing.T) {
	cases := []struct {
		amount float64
		want   string
	}{
		{0, "Zero Rupees Only"},
		{425, "Four Hundred Twenty Five Rupees Only"},
		{100000, "One Lakh Rupees Only"},
		{25000000.5, "Two Crore Fifty Lakh Rupees and Fifty Paise Only"},
		{0.05, "Five Paise Only"},
	}
	for _, tc := range cases {
		if got := Words(tc.amount); got != tc.want {
			t.Fatalf("Words(%v): expected %q, got %q", tc.amount, tc.want, got)
		}
	}
}
