package invoice

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DateLayout is the ISO 8601 calendar date layout used by QuickBooks
const DateLayout = "2006-01-02"

const displayDateLayout = "1/2/2006"

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatAmount renders an amount as US dollars, e.g. "$1,250.00"
func FormatAmount(amount float64) string {
	return printer.Sprintf("$%.2f", amount)
}

// FormatDate renders an ISO date as M/D/YYYY. Values that do not start
// with an ISO date are returned unchanged.
func FormatDate(value string) string {
	if len(value) < len(DateLayout) {
		return value
	}
	t, err := time.Parse(DateLayout, value[:len(DateLayout)])
	if err != nil {
		return value
	}
	return t.Format(displayDateLayout)
}
