package currency

import "fmt"

// Currency describes one supported proposal currency.
type Currency struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol,omitempty"`
}

// DefaultCode is used for fresh drafts until the user picks a currency.
const DefaultCode = "USD"

var currencies = []Currency{
	{Code: "USD", Name: "US Dollar", Symbol: "$"},
	{Code: "EUR", Name: "Euro", Symbol: "€"},
	{Code: "GBP", Name: "British Pound", Symbol: "£"},
	{Code: "INR", Name: "Indian Rupee", Symbol: "₹"},
	{Code: "JPY", Name: "Japanese Yen", Symbol: "¥"},
	{Code: "AUD", Name: "Australian Dollar", Symbol: "A$"},
	{Code: "CAD", Name: "Canadian Dollar", Symbol: "C$"},
	{Code: "SGD", Name: "Singapore Dollar", Symbol: "S$"},
	{Code: "AED", Name: "UAE Dirham"},
}

// List returns the supported currencies in display order.
func List() []Currency {
	out := make([]Currency, len(currencies))
	copy(out, currencies)
	return out
}

// Lookup finds a currency by code.
func Lookup(code string) (Currency, bool) {
	for _, c := range currencies {
		if c.Code == code {
			return c, true
		}
	}
	return Currency{}, false
}

// Format renders an amount with two decimals, prefixed by the currency
// symbol when one is known and by the code otherwise. Unknown codes fall
// back to "CODE amount".
func Format(amount float64, code string) string {
	c, ok := Lookup(code)
	if !ok {
		return fmt.Sprintf("%s %.2f", code, amount)
	}
	if c.Symbol != "" {
		return fmt.Sprintf("%s%.2f", c.Symbol, amount)
	}
	return fmt.Sprintf("%s %.2f", c.Code, amount)
}
