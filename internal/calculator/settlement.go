package calculator

import (
	"maps"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/mmynk/receiptsplit/internal/models"
)

// settleThreshold is the smallest amount worth a transfer (one cent).
var settleThreshold = decimal.New(1, -2)

// PayerBalance represents the settlement position of one payer.
type PayerBalance struct {
	PayerID     int64
	Name        string
	Contributed float64 // Sum of the payer's receipt totals
	AmountDue   float64 // Positive = owed money, Negative = owes money
}

// Transfer represents a suggested payment from one payer to another.
type Transfer struct {
	From   int64 // Payer who owes
	To     int64 // Payer who is owed
	Amount float64
}

// Settlement is a consistent snapshot of every settlement figure for a group.
type Settlement struct {
	GroupTotal float64
	EqualShare float64
	Balances   []PayerBalance // Ordered by payer ID
	Transfers  []Transfer
}

// Balance returns the balance of the given payer, if present.
func (s Settlement) Balance(payerID int64) (PayerBalance, bool) {
	for _, b := range s.Balances {
		if b.PayerID == payerID {
			return b, true
		}
	}
	return PayerBalance{}, false
}

func contributed(payer *models.Payer) decimal.Decimal {
	sum := decimal.Zero
	if payer == nil {
		return sum
	}
	for _, r := range payer.Receipts {
		sum = sum.Add(dec(r.Total))
	}
	return sum
}

func groupTotal(payers map[int64]*models.Payer) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payers {
		sum = sum.Add(contributed(p))
	}
	return sum
}

// headcount skips nil entries so the share matches the balances Settle reports.
func headcount(payers map[int64]*models.Payer) int64 {
	var n int64
	for _, p := range payers {
		if p != nil {
			n++
		}
	}
	return n
}

func equalShare(payers map[int64]*models.Payer) decimal.Decimal {
	n := headcount(payers)
	if n == 0 {
		return decimal.Zero
	}
	return groupTotal(payers).Div(decimal.NewFromInt(n))
}

// ContributedAmount sums the payer's receipt totals, counting non-finite totals as zero.
func ContributedAmount(payer *models.Payer) float64 {
	return contributed(payer).InexactFloat64()
}

// GroupTotal sums ContributedAmount across all payers.
func GroupTotal(payers map[int64]*models.Payer) float64 {
	return groupTotal(payers).InexactFloat64()
}

// EqualShare divides the group total evenly. Zero when there are no payers.
func EqualShare(payers map[int64]*models.Payer) float64 {
	return equalShare(payers).InexactFloat64()
}

// AmountDue is ContributedAmount(payer) - EqualShare(payers).
// Positive means the payer overpaid and is owed money; negative means the payer owes.
func AmountDue(payer *models.Payer, payers map[int64]*models.Payer) float64 {
	return contributed(payer).Sub(equalShare(payers)).InexactFloat64()
}

// Settle computes every settlement figure for the given payers in one pass.
//
// Algorithm:
// - contributed = sum of receipt totals
// - share = group total / payer count
// - amount due = contributed - share
// - transfers: greedy matching of debtors against creditors, in payer ID order
func Settle(payers map[int64]*models.Payer) Settlement {
	total := groupTotal(payers)
	share := equalShare(payers)

	ids := slices.DeleteFunc(slices.Sorted(maps.Keys(payers)), func(id int64) bool {
		return payers[id] == nil
	})
	balances := make([]PayerBalance, 0, len(ids))
	due := make(map[int64]decimal.Decimal, len(ids))
	for _, id := range ids {
		p := payers[id]
		c := contributed(p)
		due[id] = c.Sub(share)
		balances = append(balances, PayerBalance{
			PayerID:     id,
			Name:        p.Name,
			Contributed: c.InexactFloat64(),
			AmountDue:   due[id].InexactFloat64(),
		})
	}

	return Settlement{
		GroupTotal: total.InexactFloat64(),
		EqualShare: share.InexactFloat64(),
		Balances:   balances,
		Transfers:  transfers(ids, due),
	}
}

// transfers matches debtors with creditors to settle every balance.
func transfers(ids []int64, due map[int64]decimal.Decimal) []Transfer {
	var debtors, creditors []int64
	remaining := make(map[int64]decimal.Decimal, len(ids))
	for _, id := range ids {
		switch {
		case due[id].IsNegative():
			debtors = append(debtors, id)
			remaining[id] = due[id].Neg() // Make positive
		case due[id].IsPositive():
			creditors = append(creditors, id)
			remaining[id] = due[id]
		}
	}

	var out []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor, creditor := debtors[i], creditors[j]

		// Amount to settle is minimum of what debtor owes and creditor is owed
		amount := decimal.Min(remaining[debtor], remaining[creditor])
		if amount.GreaterThanOrEqual(settleThreshold) {
			out = append(out, Transfer{
				From:   debtor,
				To:     creditor,
				Amount: amount.InexactFloat64(),
			})
		}

		remaining[debtor] = remaining[debtor].Sub(amount)
		remaining[creditor] = remaining[creditor].Sub(amount)

		if remaining[debtor].LessThan(settleThreshold) {
			i++
		}
		if remaining[creditor].LessThan(settleThreshold) {
			j++
		}
	}
	return out
}
