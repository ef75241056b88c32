// Package utils provides shared utility functions.
package utils

import (
	"fmt"
	"strings"
)

// FormatRupees formats an amount in Indian currency format with
// lakh/crore digit grouping.
func FormatRupees(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	str := fmt.Sprintf("%.2f", amount)
	parts := strings.Split(str, ".")
	result := "₹" + formatIndianNumber(parts[0]) + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}

// formatIndianNumber groups an integer string Indian-style: the last
// three digits, then pairs.
func formatIndianNumber(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]
	for len(remaining) > 2 {
		result = remaining[len(remaining)-2:] + "," + result
		remaining = remaining[:len(remaining)-2]
	}
	if len(remaining) > 0 {
		result = remaining + "," + result
	}
	return result
}

// FormatPercent formats a fraction as a percentage with one decimal.
func FormatPercent(fraction float64) string {
	return fmt.Sprintf("%.1f%%", fraction*100)
}

// FormatSigned formats a PnL figure with an explicit sign.
func FormatSigned(amount float64) string {
	if amount >= 0 {
		return "+" + FormatRupees(amount)
	}
	return FormatRupees(amount)
}
