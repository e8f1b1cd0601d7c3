// Package calculator derives receipt totals, taxes and settlement figures.
// Every function is pure: it reads a snapshot and never mutates it.
package calculator

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/mmynk/receiptsplit/internal/models"
)

// TaxRates holds the two Quebec sales tax rates applied to a receipt subtotal.
type TaxRates struct {
	TPS float64 // federal GST (TPS)
	TVQ float64 // provincial QST (TVQ)
}

// DefaultTaxRates are 5% TPS and 9.975% TVQ.
var DefaultTaxRates = TaxRates{TPS: 0.05, TVQ: 0.09975}

// TaxBreakdown is the per-line view of a tax-inclusive receipt.
type TaxBreakdown struct {
	Subtotal float64
	TPS      float64
	TVQ      float64
	Total    float64
}

// Finite returns v, or 0 when v is NaN or infinite.
// Partially typed input must never poison an aggregate.
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(Finite(v))
}

// Subtotal sums item prices, counting non-finite prices as zero.
func Subtotal(items []models.ReceiptItem) float64 {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(dec(item.Price))
	}
	return sum.InexactFloat64()
}

// TaxInclusiveTotal applies both taxes on the subtotal:
// subtotal × (1 + TPS) + subtotal × TVQ.
// It is a presentation transform; it never touches a stored total.
func TaxInclusiveTotal(subtotal float64, rates TaxRates) float64 {
	return Taxes(subtotal, rates).Total
}

// Taxes returns the subtotal, each tax line and the tax-inclusive total.
func Taxes(subtotal float64, rates TaxRates) TaxBreakdown {
	base := dec(subtotal)
	tps := base.Mul(dec(rates.TPS))
	tvq := base.Mul(dec(rates.TVQ))
	return TaxBreakdown{
		Subtotal: base.InexactFloat64(),
		TPS:      tps.InexactFloat64(),
		TVQ:      tvq.InexactFloat64(),
		Total:    base.Add(tps).Add(tvq).InexactFloat64(),
	}
}
