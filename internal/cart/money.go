package cart

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.MustParse("es-AR"))

// FormatAmount renders an amount the way Argentine storefronts do:
// "$ 12.345,5". Up to two decimals are kept and trailing zeros dropped.
func FormatAmount(amount decimal.Decimal, currency string) string {
	symbol := "$"
	if currency == "USD" {
		symbol = "US$"
	}
	f := amount.Round(2).InexactFloat64()
	return symbol + " " + printer.Sprintf("%v", number.Decimal(f, number.MaxFractionDigits(2)))
}
