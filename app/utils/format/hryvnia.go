package format

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

var uah = accounting.Accounting{Symbol: "₴", Precision: 2, Thousand: " ", Decimal: ","}

// Hryvnia formats a decimal amount for display: "₴1 250,00".
func Hryvnia(amount decimal.Decimal) string {
	return uah.FormatMoneyDecimal(amount)
}

// HryvniaInt formats a whole-hryvnia price: "₴300,00".
func HryvniaInt(amount int) string {
	return uah.FormatMoneyDecimal(decimal.NewFromInt(int64(amount)))
}
