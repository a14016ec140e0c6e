package services

import (
	"testing"
	"time"

	"backend/repository"

	"github.com/shopspring/decimal"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestReconcile_BalanceAndRolling(t *testing.T) {
	months := repository.MonthSequence(month(2026, time.January), 3)

	reserved := map[time.Time]decimal.Decimal{
		months[0]: dec(1000),
		months[1]: dec(1000),
		months[2]: dec(1000),
	}
	confirmed := map[time.Time]decimal.Decimal{
		months[0]: dec(600),
		months[1]: dec(900),
	}
	projected := map[time.Time]decimal.Decimal{
		months[0]: dec(200),
		months[1]: dec(400),
		months[2]: dec(100),
	}

	out, recovery := Reconcile(months, reserved, confirmed, projected, nil, nil)

	if len(out) != 3 {
		t.Fatalf("got %d months, want 3", len(out))
	}

	wantBalance := []int64{200, -300, 900}
	wantRolling := []int64{200, -100, 800}
	for i, cm := range out {
		if !cm.Balance.Equal(dec(wantBalance[i])) {
			t.Errorf("month %d: balance = %s, want %d", i, cm.Balance, wantBalance[i])
		}
		if !cm.Rolling.Equal(dec(wantRolling[i])) {
			t.Errorf("month %d: rolling = %s, want %d", i, cm.Rolling, wantRolling[i])
		}
	}

	// Rolling went negative in month 1 and recovered in month 2.
	if recovery == nil || !recovery.Equal(months[2]) {
		t.Errorf("recovery = %v, want %v", recovery, months[2])
	}
}

func TestReconcile_NoRecoveryWhileNegative(t *testing.T) {
	months := repository.MonthSequence(month(2026, time.January), 2)

	reserved := map[time.Time]decimal.Decimal{months[0]: dec(100), months[1]: dec(100)}
	confirmed := map[time.Time]decimal.Decimal{months[0]: dec(500), months[1]: dec(50)}

	out, recovery := Reconcile(months, reserved, confirmed, nil, nil, nil)

	if recovery != nil {
		t.Errorf("recovery = %v, want nil while rolling stays negative", recovery)
	}
	if !out[1].Rolling.Equal(dec(-350)) {
		t.Errorf("final rolling = %s, want -350", out[1].Rolling)
	}
}

func TestReconcile_NoRecoveryWhenNeverNegative(t *testing.T) {
	months := repository.MonthSequence(month(2026, time.January), 2)

	reserved := map[time.Time]decimal.Decimal{months[0]: dec(100), months[1]: dec(100)}

	_, recovery := Reconcile(months, reserved, nil, nil, nil, nil)
	if recovery != nil {
		t.Errorf("recovery = %v, want nil when rolling never went negative", recovery)
	}
}

func TestRollingGoesNegative(t *testing.T) {
	months := repository.MonthSequence(month(2026, time.January), 3)

	reserved := map[time.Time]decimal.Decimal{
		months[0]: dec(1000),
		months[1]: dec(1000),
		months[2]: dec(1000),
	}
	confirmed := map[time.Time]decimal.Decimal{
		months[0]: dec(600),
		months[1]: dec(1500),
	}

	// Rolling dips to -100 in month 1 and recovers in month 2; the dip
	// still counts.
	out, _ := Reconcile(months, reserved, confirmed, nil, nil, nil)
	if !RollingGoesNegative(out) {
		t.Error("expected a negative rolling balance to be reported")
	}

	healthy, _ := Reconcile(months, reserved, nil, nil, nil, nil)
	if RollingGoesNegative(healthy) {
		t.Error("rolling balance never dips, want false")
	}
}

func TestReconcile_Utilization(t *testing.T) {
	months := repository.MonthSequence(month(2026, time.January), 1)
	m := months[0]

	out, _ := Reconcile(months,
		map[time.Time]decimal.Decimal{m: dec(400)},
		map[time.Time]decimal.Decimal{m: dec(300)},
		map[time.Time]decimal.Decimal{m: dec(200)},
		nil, nil)

	if got := out[0].Utilization; got != 1.25 {
		t.Errorf("utilization = %v, want 1.25", got)
	}
	if !out[0].OverAllocated {
		t.Error("expected over-allocated when demand exceeds reserved")
	}
}

func TestReconcile_ZeroReservedWithDemand(t *testing.T) {
	months := repository.MonthSequence(month(2026, time.January), 1)
	m := months[0]

	out, _ := Reconcile(months, nil,
		map[time.Time]decimal.Decimal{m: dec(50)},
		nil, nil, nil)

	if out[0].Utilization != 0 {
		t.Errorf("utilization = %v, want 0 with no reserved capacity", out[0].Utilization)
	}
	if !out[0].OverAllocated {
		t.Error("expected over-allocated flag when demand exists with zero reserved")
	}
}

func TestReconcile_MTOSPOOutsideStandardPool(t *testing.T) {
	months := repository.MonthSequence(month(2026, time.January), 1)
	m := months[0]

	out, _ := Reconcile(months,
		map[time.Time]decimal.Decimal{m: dec(100)},
		map[time.Time]decimal.Decimal{m: dec(40)},
		nil,
		map[time.Time]decimal.Decimal{m: dec(999)},
		map[time.Time]decimal.Decimal{m: dec(7)})

	if !out[0].Balance.Equal(dec(60)) {
		t.Errorf("balance = %s, want 60; MTO/SPO and expired must not affect it", out[0].Balance)
	}
	if !out[0].MTOSPO.Equal(dec(999)) || !out[0].Expired.Equal(dec(7)) {
		t.Error("MTO/SPO and expired volumes should be carried through for display")
	}
}
