package calculator

import (
	"math"
	"testing"

	"github.com/mmynk/receiptsplit/internal/models"
)

func TestSubtotal(t *testing.T) {
	tests := []struct {
		name  string
		items []models.ReceiptItem
		want  float64
	}{
		{
			name: "no items",
			want: 0,
		},
		{
			name: "two items",
			items: []models.ReceiptItem{
				{ID: "0-1", Name: "Pizza", Price: 20},
				{ID: "0-2", Name: "Salad", Price: 10},
			},
			want: 30,
		},
		{
			name: "NaN price counts as zero",
			items: []models.ReceiptItem{
				{ID: "0-1", Price: 12.5},
				{ID: "0-2", Price: math.NaN()},
			},
			want: 12.5,
		},
		{
			name: "infinite price counts as zero",
			items: []models.ReceiptItem{
				{ID: "0-1", Price: math.Inf(1)},
				{ID: "0-2", Price: 4},
			},
			want: 4,
		},
		{
			name: "cents add up exactly",
			items: []models.ReceiptItem{
				{ID: "0-1", Price: 0.1},
				{ID: "0-2", Price: 0.2},
			},
			want: 0.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Subtotal(tt.items); got != tt.want {
				t.Errorf("Subtotal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTaxes(t *testing.T) {
	tests := []struct {
		name     string
		subtotal float64
		rates    TaxRates
		want     TaxBreakdown
	}{
		{
			name:     "default rates on 100",
			subtotal: 100,
			rates:    DefaultTaxRates,
			// 100 * 1.05 + 100 * 0.09975
			want: TaxBreakdown{Subtotal: 100, TPS: 5, TVQ: 9.975, Total: 114.975},
		},
		{
			name:     "zero subtotal",
			subtotal: 0,
			rates:    DefaultTaxRates,
			want:     TaxBreakdown{},
		},
		{
			name:     "NaN subtotal is zero",
			subtotal: math.NaN(),
			rates:    DefaultTaxRates,
			want:     TaxBreakdown{},
		},
		{
			name:     "custom rates",
			subtotal: 50,
			rates:    TaxRates{TPS: 0.1, TVQ: 0},
			want:     TaxBreakdown{Subtotal: 50, TPS: 5, TVQ: 0, Total: 55},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Taxes(tt.subtotal, tt.rates)
			if math.Abs(got.Subtotal-tt.want.Subtotal) > 1e-9 {
				t.Errorf("Subtotal = %v, want %v", got.Subtotal, tt.want.Subtotal)
			}
			if math.Abs(got.TPS-tt.want.TPS) > 1e-9 {
				t.Errorf("TPS = %v, want %v", got.TPS, tt.want.TPS)
			}
			if math.Abs(got.TVQ-tt.want.TVQ) > 1e-9 {
				t.Errorf("TVQ = %v, want %v", got.TVQ, tt.want.TVQ)
			}
			if math.Abs(got.Total-tt.want.Total) > 1e-9 {
				t.Errorf("Total = %v, want %v", got.Total, tt.want.Total)
			}
			if total := TaxInclusiveTotal(tt.subtotal, tt.rates); total != got.Total {
				t.Errorf("TaxInclusiveTotal = %v, want %v", total, got.Total)
			}
		})
	}
}

func TestFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got := Finite(v); got != 0 {
			t.Errorf("Finite(%v) = %v, want 0", v, got)
		}
	}
	if got := Finite(-3.25); got != -3.25 {
		t.Errorf("Finite(-3.25) = %v", got)
	}
}
