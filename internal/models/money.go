package models

import "fmt"

// FormatUSD renders a monetary amount as a 2-decimal dollar string,
// e.g. 12.5 -> "$12.50".
func FormatUSD(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}
