package dashboard

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer renders numbers with en-US grouping, e.g. 1500 -> "1,500".
var printer = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders a minor-unit amount as a display currency string,
// e.g. 150000 -> "$1,500.00".
func FormatCurrency(cents int64) string {
	return printer.Sprintf("$%.2f", float64(cents)/100)
}

// CentsToMajor converts minor units to major units for form display.
func CentsToMajor(cents int64) float64 {
	return float64(cents) / 100
}
