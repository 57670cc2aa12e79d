package cart

import (
	"math"

	"github.com/rogerio-castellano/storefront/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	shippingFlat = decimal.NewFromInt(5)
	taxRate      = decimal.RequireFromString("0.082")

	usd = message.NewPrinter(language.AmericanEnglish)
)

// Summarize prices an order: flat shipping for non-empty carts and a single
// flat tax rate on the subtotal, rounded to cents.
func Summarize(subtotal float64) models.OrderSummary {
	sub := decimal.NewFromFloat(subtotal).Round(2)

	shipping := decimal.Zero
	if sub.IsPositive() {
		shipping = shippingFlat
	}
	taxes := sub.Mul(taxRate).Round(2)

	return models.OrderSummary{
		Subtotal: sub.InexactFloat64(),
		Shipping: shipping.InexactFloat64(),
		Taxes:    taxes.InexactFloat64(),
		Total:    sub.Add(shipping).Add(taxes).InexactFloat64(),
	}
}

// FormatCurrency renders v as US dollars, e.g. $1,234.50 or -$5.00.
func FormatCurrency(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	f, _ := d.Float64()
	return sign + "$" + usd.Sprintf("%.2f", math.Abs(f))
}
