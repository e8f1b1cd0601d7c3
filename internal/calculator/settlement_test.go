package calculator

import (
	"math"
	"testing"

	"github.com/mmynk/receiptsplit/internal/models"
)

// payerWith builds a payer whose receipts carry the given manual totals.
func payerWith(id int64, totals ...float64) *models.Payer {
	p := &models.Payer{ID: id, Name: models.DefaultPayerName(id)}
	for i, total := range totals {
		p.Receipts = append(p.Receipts, models.Receipt{
			ID:      id*100 + int64(i),
			PayerID: id,
			Total:   total,
		})
	}
	return p
}

func group(payers ...*models.Payer) map[int64]*models.Payer {
	out := make(map[int64]*models.Payer, len(payers))
	for _, p := range payers {
		out[p.ID] = p
	}
	return out
}

func TestSettle_ThreePayers(t *testing.T) {
	// A paid 100, B paid 50, C paid nothing
	payers := group(payerWith(0, 60, 40), payerWith(1, 50), payerWith(2))

	s := Settle(payers)

	if s.GroupTotal != 150 {
		t.Errorf("GroupTotal = %v, want 150", s.GroupTotal)
	}
	if s.EqualShare != 50 {
		t.Errorf("EqualShare = %v, want 50", s.EqualShare)
	}

	want := map[int64]float64{0: 50, 1: 0, 2: -50}
	if len(s.Balances) != 3 {
		t.Fatalf("expected 3 balances, got %d", len(s.Balances))
	}
	for i, b := range s.Balances {
		if b.PayerID != int64(i) {
			t.Errorf("balance %d has payer %d, want ordering by id", i, b.PayerID)
		}
		if math.Abs(b.AmountDue-want[b.PayerID]) > 0.001 {
			t.Errorf("payer %d AmountDue = %v, want %v", b.PayerID, b.AmountDue, want[b.PayerID])
		}
		if got := AmountDue(payers[b.PayerID], payers); got != b.AmountDue {
			t.Errorf("AmountDue(%d) = %v, snapshot has %v", b.PayerID, got, b.AmountDue)
		}
	}

	if len(s.Transfers) != 1 {
		t.Fatalf("expected 1 transfer, got %+v", s.Transfers)
	}
	tr := s.Transfers[0]
	if tr.From != 2 || tr.To != 0 || tr.Amount != 50 {
		t.Errorf("transfer = %+v, want 2 -> 0 for 50", tr)
	}
}

func TestEqualShare_NoPayers(t *testing.T) {
	share := EqualShare(map[int64]*models.Payer{})
	if share != 0 || math.IsNaN(share) || math.IsInf(share, 0) {
		t.Errorf("EqualShare(empty) = %v, want 0", share)
	}

	s := Settle(nil)
	if s.GroupTotal != 0 || s.EqualShare != 0 || len(s.Balances) != 0 || len(s.Transfers) != 0 {
		t.Errorf("Settle(nil) = %+v, want zero settlement", s)
	}
}

func TestGroupTotal_IsSumOfContributions(t *testing.T) {
	tests := []struct {
		name   string
		payers map[int64]*models.Payer
	}{
		{"single payer", group(payerWith(0, 12.34))},
		{"uneven cents", group(payerWith(0, 0.1, 0.2), payerWith(1, 33.33), payerWith(2, 0.01))},
		{"NaN total", group(payerWith(0, math.NaN(), 5), payerWith(1, 7))},
		{"negative refund", group(payerWith(0, 100, -20), payerWith(1, 10), payerWith(2, 10), payerWith(3))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sum float64
			for _, p := range tt.payers {
				sum += ContributedAmount(p)
			}
			if got := GroupTotal(tt.payers); math.Abs(got-sum) > 1e-9 {
				t.Errorf("GroupTotal = %v, sum of contributions = %v", got, sum)
			}
		})
	}
}

func TestAmountDue_NetsToZero(t *testing.T) {
	tests := []struct {
		name   string
		payers map[int64]*models.Payer
	}{
		{"two payers", group(payerWith(0, 10), payerWith(1))},
		{"thirds", group(payerWith(0, 100), payerWith(1), payerWith(2))},
		{"seven payers", group(
			payerWith(0, 13.37), payerWith(1, 0.99), payerWith(2, 250),
			payerWith(3), payerWith(4, 1, 2, 3), payerWith(5, 42.42), payerWith(6, math.NaN()),
		)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var net float64
			for _, p := range tt.payers {
				net += AmountDue(p, tt.payers)
			}
			if math.Abs(net) > 1e-9 {
				t.Errorf("sum of AmountDue = %v, want 0", net)
			}
		})
	}
}

func TestSettle_TransfersClearBalances(t *testing.T) {
	payers := group(
		payerWith(0, 90), payerWith(1, 30), payerWith(2, 0),
		payerWith(3, 60), payerWith(4, 20),
	)
	s := Settle(payers)

	net := make(map[int64]float64)
	for _, b := range s.Balances {
		net[b.PayerID] = b.AmountDue
	}
	for _, tr := range s.Transfers {
		if tr.Amount <= 0 {
			t.Errorf("transfer %+v has non-positive amount", tr)
		}
		net[tr.From] += tr.Amount
		net[tr.To] -= tr.Amount
	}
	for id, v := range net {
		if math.Abs(v) > 0.01 {
			t.Errorf("payer %d left with %v after transfers", id, v)
		}
	}
}

func TestSettlement_Balance(t *testing.T) {
	s := Settle(group(payerWith(3, 10), payerWith(7)))
	if b, ok := s.Balance(7); !ok || b.AmountDue != -5 {
		t.Errorf("Balance(7) = %+v, %v", b, ok)
	}
	if _, ok := s.Balance(99); ok {
		t.Error("Balance(99) should be absent")
	}
}

func TestSettle_SkipsNilPayers(t *testing.T) {
	payers := group(payerWith(0, 30), payerWith(1, 10))
	payers[5] = nil

	s := Settle(payers)

	if s.GroupTotal != 40 || s.EqualShare != 20 {
		t.Errorf("GroupTotal = %v, EqualShare = %v, want 40 and 20", s.GroupTotal, s.EqualShare)
	}
	if len(s.Balances) != 2 {
		t.Fatalf("expected 2 balances, got %+v", s.Balances)
	}
	if _, ok := s.Balance(5); ok {
		t.Error("nil payer should have no balance")
	}
	if got := EqualShare(payers); got != 20 {
		t.Errorf("EqualShare = %v, want 20", got)
	}
	if len(s.Transfers) != 1 || s.Transfers[0].From != 1 || s.Transfers[0].To != 0 || s.Transfers[0].Amount != 10 {
		t.Errorf("transfers = %+v, want 1 -> 0 for 10", s.Transfers)
	}
}
