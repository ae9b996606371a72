// Package format holds display formatting shared by the HTTP layer and
// user-facing messages.
package format

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Price renders an amount the way listing cards do: rounded to a whole
// number (half away from zero) and comma-grouped, no decimals. 1234.5 →
// "1,235".
func Price(v float64) string {
	return printer.Sprintf("%d", int64(math.Round(v)))
}

// PricePtr handles server payloads where price may be absent; missing prices
// render as "0".
func PricePtr(v *float64) string {
	if v == nil {
		return "0"
	}
	return Price(*v)
}
