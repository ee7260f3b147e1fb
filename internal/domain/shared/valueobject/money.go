package valueobject

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Money is a rupee amount as shown to merchants and customers
type Money struct {
	amount decimal.Decimal
}

// NewMoneyINR creates Money in rupees
func NewMoneyINR(amount decimal.Decimal) Money {
	return Money{amount: amount}
}

var indianEnglish = language.MustParse("en-IN")

// Format renders the amount rounded to paise with en-IN digit grouping, e.g. ₹1,234.50
func (m Money) Format() string {
	f, _ := m.amount.Round(2).Float64()
	return "₹" + message.NewPrinter(indianEnglish).Sprint(number.Decimal(f, number.Scale(2)))
}
