package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"backend/models"
	"backend/repository"

	"github.com/shopspring/decimal"
)

// CapacityService builds the vendor capacity reconciliation report:
// confirmed orders and projections subtracted from reserved capacity per
// month, with a rolling balance accumulated across the 12-month horizon.
type CapacityService struct {
	db *sql.DB
}

func NewCapacityService(db *sql.DB) *CapacityService {
	return &CapacityService{db: db}
}

// CapacityHorizonMonths is the fixed number of buckets in the report.
const CapacityHorizonMonths = 12

type CapacityMonth struct {
	Month         time.Time       `json:"month"`
	Reserved      decimal.Decimal `json:"reserved"`
	Confirmed     decimal.Decimal `json:"confirmed"`
	Projected     decimal.Decimal `json:"projected"`
	MTOSPO        decimal.Decimal `json:"mto_spo"`
	Expired       decimal.Decimal `json:"expired"`
	Balance       decimal.Decimal `json:"balance"`
	Rolling       decimal.Decimal `json:"rolling_balance"`
	Utilization   float64         `json:"utilization"`
	OverAllocated bool            `json:"over_allocated"`
}

type CapacityReport struct {
	VendorID      int             `json:"vendor_id"`
	Brand         string          `json:"brand"`
	Months        []CapacityMonth `json:"months"`
	RecoveryMonth *time.Time      `json:"recovery_month,omitempty"`
}

// Reconcile runs the month-by-month arithmetic over pre-bucketed sums.
// Missing buckets default to zero. balance = reserved − (confirmed +
// projected); MTO/SPO and expired volumes are carried for display but stay
// outside the standard pool. The recovery month is the first month where a
// previously negative rolling balance returns to non-negative.
func Reconcile(months []time.Time, reserved, confirmed, projected, mtoSpo, expired map[time.Time]decimal.Decimal) ([]CapacityMonth, *time.Time) {
	get := func(m map[time.Time]decimal.Decimal, k time.Time) decimal.Decimal {
		if v, ok := m[k]; ok {
			return v
		}
		return decimal.Zero
	}

	out := make([]CapacityMonth, 0, len(months))
	rolling := decimal.Zero
	wasNegative := false
	var recovery *time.Time

	for _, month := range months {
		cm := CapacityMonth{
			Month:     month,
			Reserved:  get(reserved, month),
			Confirmed: get(confirmed, month),
			Projected: get(projected, month),
			MTOSPO:    get(mtoSpo, month),
			Expired:   get(expired, month),
		}

		demand := cm.Confirmed.Add(cm.Projected)
		cm.Balance = cm.Reserved.Sub(demand)
		rolling = rolling.Add(cm.Balance)
		cm.Rolling = rolling

		if cm.Reserved.IsPositive() {
			util, _ := demand.Div(cm.Reserved).Float64()
			cm.Utilization = util
			cm.OverAllocated = demand.GreaterThan(cm.Reserved)
		} else {
			cm.OverAllocated = demand.IsPositive()
		}

		if rolling.IsNegative() {
			wasNegative = true
		} else if wasNegative && recovery == nil {
			m := month
			recovery = &m
		}

		out = append(out, cm)
	}

	return out, recovery
}

// RollingGoesNegative reports whether the rolling balance dips below zero at
// any point in the reconciled series.
func RollingGoesNegative(months []CapacityMonth) bool {
	for _, m := range months {
		if m.Rolling.IsNegative() {
			return true
		}
	}
	return false
}

// Report loads the bucketed sums for one vendor/brand and reconciles them
// across CapacityHorizonMonths starting at from.
func (s *CapacityService) Report(ctx context.Context, vendorID int, brand string, from time.Time) (*CapacityReport, error) {
	months := repository.MonthSequence(from, CapacityHorizonMonths)
	horizonStart := months[0]
	horizonEnd := months[len(months)-1].AddDate(0, 1, 0)

	reserved, err := s.bucketQuery(ctx, `
		SELECT date_trunc('month', month), SUM(reserved)
		FROM vendor_capacity
		WHERE vendor_id = $1 AND brand = $2 AND month >= $3 AND month < $4
		GROUP BY 1`, vendorID, brand, horizonStart, horizonEnd)
	if err != nil {
		return nil, fmt.Errorf("reserved capacity: %w", err)
	}

	confirmed, err := s.bucketQuery(ctx, `
		SELECT date_trunc('month', po.hod), SUM(li.quantity)
		FROM purchase_orders po
		JOIN po_line_items li ON li.po_id = po.po_id
		WHERE po.vendor_id = $1 AND po.brand = $2
		  AND po.order_type = 'standard' AND po.status <> 'cancelled'
		  AND po.hod >= $3 AND po.hod < $4
		GROUP BY 1`, vendorID, brand, horizonStart, horizonEnd)
	if err != nil {
		return nil, fmt.Errorf("confirmed orders: %w", err)
	}

	projected, err := s.bucketQuery(ctx, `
		SELECT date_trunc('month', order_month), SUM(quantity)
		FROM active_projections
		WHERE vendor_id = $1 AND brand = $2
		  AND order_type = 'standard' AND status = 'active'
		  AND order_month >= $3 AND order_month < $4
		GROUP BY 1`, vendorID, brand, horizonStart, horizonEnd)
	if err != nil {
		return nil, fmt.Errorf("active projections: %w", err)
	}

	mtoSpo, err := s.bucketQuery(ctx, `
		SELECT date_trunc('month', order_month), SUM(quantity)
		FROM active_projections
		WHERE vendor_id = $1 AND brand = $2
		  AND order_type IN ('MTO', 'SPO') AND status = 'active'
		  AND order_month >= $3 AND order_month < $4
		GROUP BY 1`, vendorID, brand, horizonStart, horizonEnd)
	if err != nil {
		return nil, fmt.Errorf("MTO/SPO projections: %w", err)
	}

	expired, err := s.bucketQuery(ctx, `
		SELECT date_trunc('month', order_month), SUM(quantity)
		FROM active_projections
		WHERE vendor_id = $1 AND brand = $2 AND status = 'expired'
		  AND order_month >= $3 AND order_month < $4
		GROUP BY 1`, vendorID, brand, horizonStart, horizonEnd)
	if err != nil {
		return nil, fmt.Errorf("expired projections: %w", err)
	}

	lines, recovery := Reconcile(months, reserved, confirmed, projected, mtoSpo, expired)
	return &CapacityReport{
		VendorID:      vendorID,
		Brand:         brand,
		Months:        lines,
		RecoveryMonth: recovery,
	}, nil
}

// bucketQuery runs a month/sum aggregate and returns it keyed by normalized
// month start.
func (s *CapacityService) bucketQuery(ctx context.Context, query string, args ...interface{}) (map[time.Time]decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[time.Time]decimal.Decimal)
	for rows.Next() {
		var month time.Time
		var sum decimal.Decimal
		if err := rows.Scan(&month, &sum); err != nil {
			return nil, err
		}
		out[models.MonthStart(month)] = sum
	}
	return out, rows.Err()
}
