package helpers

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatDecimal renders a decimal with exactly two fraction digits,
// matching the notification body format.
func FormatDecimal(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatDecimalUS renders a decimal with two fraction digits and US
// thousand separators, for logs and API responses.
func FormatDecimalUS(d decimal.Decimal) string {
	f, _ := d.Float64()

	thousandSeparator := ","

	p := message.NewPrinter(language.English)
	withCommaThousandSep := p.Sprintf("%.2f", f)
	return strings.ReplaceAll(withCommaThousandSep, ",", thousandSeparator)
}
