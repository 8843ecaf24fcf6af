package receipt

import (
	"strings"

	"github.com/divan/num2words"
	"github.com/shopspring/decimal"
)

var currencyNames = map[string][2]string{ // code: {unit, cents}
	"USD": {"US dollars", "cents"},
	"KES": {"Kenyan shillings", "cents"},
	"UGX": {"Ugandan shillings", "cents"},
	"TZS": {"Tanzanian shillings", "cents"},
	"RWF": {"Rwandan francs", "centimes"},
	"CDF": {"Congolese francs", "centimes"},
	"EUR": {"euros", "cents"},
	"GBP": {"pounds", "pence"},
	"ZAR": {"rand", "cents"},
}

// AmountInWords spells out amount for the receipt, e.g.
// "One hundred and twenty US dollars and fifty cents only".
func AmountInWords(amount decimal.Decimal, currency string) string {
	amount = amount.Abs().Round(2)
	whole := amount.IntPart()
	cents := amount.Sub(decimal.NewFromInt(whole)).Mul(decimal.NewFromInt(100)).IntPart()

	unit, sub := strings.ToUpper(currency), "cents"
	if names, ok := currencyNames[unit]; ok {
		unit, sub = names[0], names[1]
	}

	var b strings.Builder
	b.WriteString(num2words.ConvertAnd(int(whole)))
	if unit != "" {
		b.WriteString(" " + unit)
	}
	if cents > 0 {
		b.WriteString(" and " + num2words.Convert(int(cents)) + " " + sub)
	}
	b.WriteString(" only")

	s := b.String()
	return strings.ToUpper(s[:1]) + s[1:]
}
