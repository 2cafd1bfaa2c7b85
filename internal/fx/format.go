package fx

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	usdPrinter   = message.NewPrinter(language.English)
	localPrinter = message.NewPrinter(language.Spanish)
)

// FormatUSD renders a USD amount for receipts and summaries: "$1,234.56".
func FormatUSD(amount float64) string {
	return usdPrinter.Sprintf("$%.2f", amount)
}

// FormatLocal renders a local-currency amount: "Bs. 1.234,56".
func FormatLocal(amount float64) string {
	return localPrinter.Sprintf("Bs. %.2f", amount)
}
