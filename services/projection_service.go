package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"backend/models"
)

// ProjectionService covers projection lifecycle work: matching projections
// against confirmed orders, drift across upload batches, and expiry of stale
// rows past the grace window.
type ProjectionService struct {
	db *sql.DB
}

func NewProjectionService(db *sql.DB) *ProjectionService {
	return &ProjectionService{db: db}
}

// ExpiryGraceDays is how long past its order month a projection stays active
// before the nightly job expires it.
const ExpiryGraceDays = 30

type AccuracyBucket struct {
	VendorID   int       `json:"vendor_id"`
	VendorName string    `json:"vendor_name"`
	Brand      string    `json:"brand"`
	SKU        string    `json:"sku"`
	OrderMonth time.Time `json:"order_month"`
	Projected  int       `json:"projected"`
	Ordered    int       `json:"ordered"`
	Matched    int       `json:"matched"`
	Accuracy   float64   `json:"accuracy"`
}

// MatchedQuantity caps the matched volume at the projected volume. Ordering
// more than projected never yields accuracy above 100%.
func MatchedQuantity(projected, ordered int) int {
	if ordered < projected {
		return ordered
	}
	return projected
}

// Accuracy is matched over projected. Zero projected means nothing to
// measure against, reported as 0.
func Accuracy(matched, projected int) float64 {
	if projected <= 0 {
		return 0
	}
	return float64(matched) / float64(projected)
}

// AccuracyReport joins projections against confirmed order volume by
// vendor, SKU and order month. Orders are bucketed by the month the PO was
// placed, which is what a projection forecasts.
func (s *ProjectionService) AccuracyReport(ctx context.Context, vendorID int, from, to time.Time) ([]AccuracyBucket, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.vendor_id, v.name, p.brand, p.sku, date_trunc('month', p.order_month),
		       SUM(p.quantity) AS projected,
		       COALESCE(o.ordered, 0) AS ordered
		FROM active_projections p
		JOIN vendors v ON v.vendor_id = p.vendor_id
		LEFT JOIN (
			SELECT po.vendor_id, li.sku, date_trunc('month', po.order_date) AS order_month,
			       SUM(li.quantity) AS ordered
			FROM purchase_orders po
			JOIN po_line_items li ON li.po_id = po.po_id
			WHERE po.status <> 'cancelled'
			GROUP BY po.vendor_id, li.sku, date_trunc('month', po.order_date)
		) o ON o.vendor_id = p.vendor_id AND o.sku = p.sku
		   AND o.order_month = date_trunc('month', p.order_month)
		WHERE p.status IN ('active', 'matched')
		  AND ($1 = 0 OR p.vendor_id = $1)
		  AND p.order_month >= $2 AND p.order_month < $3
		GROUP BY p.vendor_id, v.name, p.brand, p.sku, date_trunc('month', p.order_month), o.ordered
		ORDER BY p.vendor_id, p.order_month, p.sku`,
		vendorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("accuracy query: %w", err)
	}
	defer rows.Close()

	var buckets []AccuracyBucket
	for rows.Next() {
		var b AccuracyBucket
		if err := rows.Scan(&b.VendorID, &b.VendorName, &b.Brand, &b.SKU, &b.OrderMonth, &b.Projected, &b.Ordered); err != nil {
			return nil, err
		}
		b.Matched = MatchedQuantity(b.Projected, b.Ordered)
		b.Accuracy = Accuracy(b.Matched, b.Projected)
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// MarkMatched flips active projections to matched where confirmed order
// volume fully covers the projected quantity. Returns how many rows changed.
func (s *ProjectionService) MarkMatched(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE active_projections p
		SET status = 'matched', updated_at = NOW()
		FROM (
			SELECT po.vendor_id, li.sku, date_trunc('month', po.order_date) AS order_month,
			       SUM(li.quantity) AS ordered
			FROM purchase_orders po
			JOIN po_line_items li ON li.po_id = po.po_id
			WHERE po.status <> 'cancelled'
			GROUP BY po.vendor_id, li.sku, date_trunc('month', po.order_date)
		) o
		WHERE p.status = 'active'
		  AND o.vendor_id = p.vendor_id AND o.sku = p.sku
		  AND o.order_month = date_trunc('month', p.order_month)
		  AND o.ordered >= p.quantity`)
	if err != nil {
		return 0, fmt.Errorf("mark matched: %w", err)
	}
	return res.RowsAffected()
}

type DriftPoint struct {
	BatchID    string    `json:"batch_id"`
	RecordedAt time.Time `json:"recorded_at"`
	Quantity   int       `json:"quantity"`
}

type DriftRow struct {
	VendorID   int          `json:"vendor_id"`
	VendorName string       `json:"vendor_name"`
	SKU        string       `json:"sku"`
	OrderMonth time.Time    `json:"order_month"`
	Points     []DriftPoint `json:"points"`
	Deltas     []int        `json:"deltas"`
	Net        int          `json:"net_change"`
}

// ComputeDeltas returns the quantity change between each consecutive pair of
// batches, oldest first.
func ComputeDeltas(points []DriftPoint) []int {
	if len(points) < 2 {
		return nil
	}
	deltas := make([]int, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		deltas = append(deltas, points[i].Quantity-points[i-1].Quantity)
	}
	return deltas
}

// DriftReport shows, per vendor/SKU/order month, how the projected quantity
// moved across upload batches. Rows with a single batch are skipped since
// they have no drift to show.
func (s *ProjectionService) DriftReport(ctx context.Context, vendorID int) ([]DriftRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT h.vendor_id, v.name, h.sku, date_trunc('month', h.order_month),
		       h.batch_id, h.recorded_at, h.quantity
		FROM projection_history h
		JOIN vendors v ON v.vendor_id = h.vendor_id
		WHERE $1 = 0 OR h.vendor_id = $1
		ORDER BY h.vendor_id, h.sku, date_trunc('month', h.order_month), h.recorded_at`,
		vendorID)
	if err != nil {
		return nil, fmt.Errorf("drift query: %w", err)
	}
	defer rows.Close()

	var out []DriftRow
	var cur *DriftRow
	flush := func() {
		if cur != nil && len(cur.Points) > 1 {
			cur.Deltas = ComputeDeltas(cur.Points)
			cur.Net = cur.Points[len(cur.Points)-1].Quantity - cur.Points[0].Quantity
			out = append(out, *cur)
		}
		cur = nil
	}

	for rows.Next() {
		var vendor int
		var name, sku string
		var month time.Time
		var p DriftPoint
		if err := rows.Scan(&vendor, &name, &sku, &month, &p.BatchID, &p.RecordedAt, &p.Quantity); err != nil {
			return nil, err
		}
		if cur == nil || cur.VendorID != vendor || cur.SKU != sku || !cur.OrderMonth.Equal(month) {
			flush()
			cur = &DriftRow{VendorID: vendor, VendorName: name, SKU: sku, OrderMonth: month}
		}
		cur.Points = append(cur.Points, p)
	}
	flush()
	return out, rows.Err()
}

// ExpireStale marks active projections expired once the grace window past
// their order month has elapsed. Locked vendor/month buckets are left alone.
func (s *ProjectionService) ExpireStale(ctx context.Context, today time.Time) (int64, error) {
	cutoff := today.AddDate(0, 0, -ExpiryGraceDays)
	res, err := s.db.ExecContext(ctx, `
		UPDATE active_projections p
		SET status = 'expired', updated_at = NOW()
		WHERE p.status = 'active'
		  AND (p.order_month + INTERVAL '1 month') <= $1
		  AND NOT EXISTS (
			SELECT 1 FROM projection_locks l
			WHERE l.vendor_id = p.vendor_id
			  AND date_trunc('month', l.month) = date_trunc('month', p.order_month)
		  )`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("expire stale projections: %w", err)
	}
	return res.RowsAffected()
}

// IsLocked reports whether a vendor/month bucket is protected from overwrite
// and expiry.
func (s *ProjectionService) IsLocked(ctx context.Context, vendorID int, month time.Time) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM projection_locks
		WHERE vendor_id = $1 AND date_trunc('month', month) = date_trunc('month', $2::timestamptz)`,
		vendorID, models.MonthStart(month)).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
