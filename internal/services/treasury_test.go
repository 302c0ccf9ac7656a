package services

import (
	"context"
	"errors"
	"testing"

	"forgequest/internal/models"
)

func TestSplitEquity(t *testing.T) {
	shareholders := []models.Shareholder{
		{Recipient: "founder-a", Percent: 35},
		{Recipient: "founder-b", Percent: 35},
		{Recipient: "guild", Percent: 20},
		{Recipient: "ops", Percent: 10},
	}

	payouts, err := SplitEquity(1000, shareholders)
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]int64{
		"founder-a": 350,
		"founder-b": 350,
		"guild":     200,
		"ops":       100,
	}
	if len(payouts) != len(want) {
		t.Fatalf("got %d payouts, want %d", len(payouts), len(want))
	}
	for _, p := range payouts {
		if want[p.Recipient] != p.Amount {
			t.Fatalf("payout to %s = %d, want %d", p.Recipient, p.Amount, want[p.Recipient])
		}
	}
}

func TestSplitEquityFloorsAndSkipsZero(t *testing.T) {
	shareholders := []models.Shareholder{
		{Recipient: "a", Percent: 33},
		{Recipient: "b", Percent: 1},
	}

	payouts, err := SplitEquity(10, shareholders)
	if err != nil {
		t.Fatal(err)
	}

	// 10*33/100 floors to 3; 10*1/100 floors to 0 and is dropped
	if len(payouts) != 1 || payouts[0].Recipient != "a" || payouts[0].Amount != 3 {
		t.Fatalf("payouts = %+v", payouts)
	}
}

func TestSplitEquityRejectsOverAllocation(t *testing.T) {
	shareholders := []models.Shareholder{
		{Recipient: "a", Percent: 60},
		{Recipient: "b", Percent: 41},
	}

	if _, err := SplitEquity(100, shareholders); err != ErrSharesExceed {
		t.Fatalf("err = %v, want ErrSharesExceed", err)
	}
}

func TestSplitEquityPartialAllocation(t *testing.T) {
	// under 100% is fine, the remainder stays in the treasury
	payouts, err := SplitEquity(100, []models.Shareholder{{Recipient: "a", Percent: 40}})
	if err != nil {
		t.Fatal(err)
	}
	if len(payouts) != 1 || payouts[0].Amount != 40 {
		t.Fatalf("payouts = %+v", payouts)
	}
}

type recordingTransfer struct {
	failFor string
	sent    []Payout
}

func (r *recordingTransfer) Send(ctx context.Context, recipient string, amount int64) error {
	if recipient == r.failFor {
		return errors.New("endpoint down")
	}
	r.sent = append(r.sent, Payout{Recipient: recipient, Amount: amount})
	return nil
}

func TestFanOutContinuesPastFailure(t *testing.T) {
	vt := &recordingTransfer{failFor: "b"}
	payouts := []Payout{
		{Recipient: "a", Amount: 10},
		{Recipient: "b", Amount: 20},
		{Recipient: "c", Amount: 30},
	}

	fanOut(context.Background(), vt, payouts)

	if len(vt.sent) != 2 {
		t.Fatalf("delivered %d payouts, want 2", len(vt.sent))
	}
	if vt.sent[0].Recipient != "a" || vt.sent[1].Recipient != "c" {
		t.Fatalf("delivered = %+v", vt.sent)
	}
}
