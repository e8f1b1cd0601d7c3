package service

import (
	"maps"
	"slices"

	"github.com/mmynk/receiptsplit/internal/calculator"
	"github.com/mmynk/receiptsplit/internal/models"
	"github.com/mmynk/receiptsplit/pkg/api"
)

// JSON cannot carry NaN or Inf, so every amount goes through calculator.Finite.

func toAPIItem(item models.ReceiptItem) api.ReceiptItem {
	return api.ReceiptItem{
		ID:    item.ID,
		Name:  item.Name,
		Price: calculator.Finite(item.Price),
	}
}

func toAPIReceipt(r *models.Receipt) api.Receipt {
	items := make([]api.ReceiptItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = toAPIItem(item)
	}
	return api.Receipt{
		ID:       r.ID,
		PayerID:  r.PayerID,
		Name:     r.Name,
		Items:    items,
		Total:    calculator.Finite(r.Total),
		Itemized: r.Itemized(),
	}
}

func toAPIPayer(p *models.Payer) api.Payer {
	receipts := make([]api.Receipt, len(p.Receipts))
	for i := range p.Receipts {
		receipts[i] = toAPIReceipt(&p.Receipts[i])
	}
	return api.Payer{
		ID:        p.ID,
		Name:      p.Name,
		Receipts:  receipts,
		AmountDue: calculator.Finite(p.AmountDue),
	}
}

func toAPIPayers(payers map[int64]*models.Payer) []api.Payer {
	out := make([]api.Payer, 0, len(payers))
	for _, id := range slices.Sorted(maps.Keys(payers)) {
		out = append(out, toAPIPayer(payers[id]))
	}
	return out
}

func toAPISettlement(s calculator.Settlement) api.Settlement {
	balances := make([]api.Balance, len(s.Balances))
	for i, b := range s.Balances {
		balances[i] = api.Balance{
			PayerID:     b.PayerID,
			Name:        b.Name,
			Contributed: b.Contributed,
			AmountDue:   b.AmountDue,
		}
	}
	transfers := make([]api.Transfer, len(s.Transfers))
	for i, t := range s.Transfers {
		transfers[i] = api.Transfer{From: t.From, To: t.To, Amount: t.Amount}
	}
	return api.Settlement{
		GroupTotal: s.GroupTotal,
		EqualShare: s.EqualShare,
		Balances:   balances,
		Transfers:  transfers,
	}
}

func toAPITaxes(t calculator.TaxBreakdown) api.TaxBreakdown {
	return api.TaxBreakdown{
		Subtotal: t.Subtotal,
		TPS:      t.TPS,
		TVQ:      t.TVQ,
		Total:    t.Total,
	}
}
