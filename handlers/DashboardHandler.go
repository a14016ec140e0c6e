package handlers

import (
	"backend/models"
	"backend/repository"
	"backend/services"
	"backend/utils"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GetDashboardHandler godoc
// @Summary      Dashboard KPIs
// @Description  Headline numbers for the landing page: open orders, OTD rate, inspection pass rate, alerts, vendors with a negative rolling capacity balance and projection accuracy
// @Tags         dashboard
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Success      200  {object}  object
// @Failure      401  {object}  models.ErrorResponse
// @Router       /api/dashboard [get]
func GetDashboardHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if _, _, err := GetSessionDetails(db, sessionID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		ctx, cancel := utils.GetSlowQueryContext(c.Request.Context())
		defer cancel()

		now := time.Now().UTC()

		// Open orders.
		var openPOCount int
		var openPOValue float64
		err := db.QueryRowContext(ctx, `
			SELECT COUNT(*), COALESCE(SUM(total_value), 0)
			FROM purchase_orders WHERE status = 'open'`).Scan(&openPOCount, &openPOValue)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch PO counts", "details": err.Error()})
			return
		}

		// OTD over the trailing 90 days, handed-over shipments only.
		var onTime, delivered int
		err = db.QueryRowContext(ctx, `
			SELECT COUNT(*) FILTER (WHERE handover_at <= hod), COUNT(*)
			FROM shipments
			WHERE handover_at IS NOT NULL AND hod >= $1`, now.AddDate(0, 0, -90)).Scan(&onTime, &delivered)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch OTD", "details": err.Error()})
			return
		}
		otdRate := 0.0
		if delivered > 0 {
			otdRate = float64(onTime) / float64(delivered)
		}

		// At-risk bookings: not handed over, HOD inside the risk window.
		var atRisk int
		err = db.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM shipments
			WHERE handover_at IS NULL AND hod >= $1 AND hod <= $2`,
			now, now.AddDate(0, 0, models.AtRiskWindowDays)).Scan(&atRisk)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch at-risk shipments", "details": err.Error()})
			return
		}

		// Inspection pass rate across completed inspections.
		var passed, completed int
		err = db.QueryRowContext(ctx, `
			SELECT COUNT(*) FILTER (WHERE result = 'pass'), COUNT(*)
			FROM inspections WHERE result IN ('pass', 'fail')`).Scan(&passed, &completed)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inspection stats", "details": err.Error()})
			return
		}
		passRate := 0.0
		if completed > 0 {
			passRate = float64(passed) / float64(completed)
		}

		// Open compliance alerts by level.
		alertCounts := map[string]int{}
		alertRows, err := db.QueryContext(ctx, `SELECT level, COUNT(*) FROM compliance_alerts GROUP BY level`)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch alert counts", "details": err.Error()})
			return
		}
		defer alertRows.Close()
		for alertRows.Next() {
			var level string
			var count int
			if err := alertRows.Scan(&level, &count); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan alert count", "details": err.Error()})
				return
			}
			alertCounts[level] = count
		}

		// Vendors whose rolling capacity balance dips negative somewhere in
		// the next 12 months, per the same reconciliation the capacity
		// report runs. The dashboard only carries the count; the report has
		// the month-by-month detail.
		horizonStart := models.MonthStart(now)
		months := repository.MonthSequence(horizonStart, services.CapacityHorizonMonths)
		horizonEnd := horizonStart.AddDate(0, services.CapacityHorizonMonths, 0)

		type vendorBrand struct {
			vendorID int
			brand    string
		}
		reservedBuckets := map[vendorBrand]map[time.Time]decimal.Decimal{}
		confirmedBuckets := map[vendorBrand]map[time.Time]decimal.Decimal{}
		projectedBuckets := map[vendorBrand]map[time.Time]decimal.Decimal{}

		loadBuckets := func(dest map[vendorBrand]map[time.Time]decimal.Decimal, query string) error {
			rows, err := db.QueryContext(ctx, query, horizonStart, horizonEnd)
			if err != nil {
				return err
			}
			defer rows.Close()
			for rows.Next() {
				var key vendorBrand
				var month time.Time
				var sum decimal.Decimal
				if err := rows.Scan(&key.vendorID, &key.brand, &month, &sum); err != nil {
					return err
				}
				if dest[key] == nil {
					dest[key] = map[time.Time]decimal.Decimal{}
				}
				dest[key][models.MonthStart(month)] = sum
			}
			return rows.Err()
		}

		err = loadBuckets(reservedBuckets, `
			SELECT vendor_id, brand, date_trunc('month', month), SUM(reserved)
			FROM vendor_capacity
			WHERE month >= $1 AND month < $2
			GROUP BY 1, 2, 3`)
		if err == nil {
			err = loadBuckets(confirmedBuckets, `
				SELECT po.vendor_id, po.brand, date_trunc('month', po.hod), SUM(li.quantity)
				FROM purchase_orders po
				JOIN po_line_items li ON li.po_id = po.po_id
				WHERE po.order_type = 'standard' AND po.status <> 'cancelled'
				  AND po.hod >= $1 AND po.hod < $2
				GROUP BY 1, 2, 3`)
		}
		if err == nil {
			err = loadBuckets(projectedBuckets, `
				SELECT vendor_id, brand, date_trunc('month', order_month), SUM(quantity)
				FROM active_projections
				WHERE order_type = 'standard' AND status = 'active'
				  AND order_month >= $1 AND order_month < $2
				GROUP BY 1, 2, 3`)
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch capacity buckets", "details": err.Error()})
			return
		}

		pairs := map[vendorBrand]bool{}
		for key := range reservedBuckets {
			pairs[key] = true
		}
		for key := range confirmedBuckets {
			pairs[key] = true
		}
		for key := range projectedBuckets {
			pairs[key] = true
		}

		negativeVendors := map[int]bool{}
		for key := range pairs {
			lines, _ := services.Reconcile(months,
				reservedBuckets[key], confirmedBuckets[key], projectedBuckets[key], nil, nil)
			if services.RollingGoesNegative(lines) {
				negativeVendors[key.vendorID] = true
			}
		}

		// Aggregate projection accuracy over the last 3 closed months. The
		// current month stays out until it closes.
		var projectedTotal, matchedTotal int
		err = db.QueryRowContext(ctx, `
			SELECT COALESCE(SUM(p.quantity), 0),
			       COALESCE(SUM(LEAST(p.quantity, COALESCE(o.ordered, 0))), 0)
			FROM active_projections p
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
			  AND p.order_month >= $1 AND p.order_month < $2`,
			horizonStart.AddDate(0, -3, 0), horizonStart).Scan(&projectedTotal, &matchedTotal)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projection accuracy", "details": err.Error()})
			return
		}
		projectionAccuracy := 0.0
		if projectedTotal > 0 {
			projectionAccuracy = float64(matchedTotal) / float64(projectedTotal)
		}

		c.JSON(http.StatusOK, gin.H{
			"open_po_count":       openPOCount,
			"open_po_value":       openPOValue,
			"otd_rate_90d":        otdRate,
			"at_risk_shipments":   atRisk,
			"inspection_passrate": passRate,
			"alerts": gin.H{
				"critical": alertCounts[models.AlertCritical],
				"warning":  alertCounts[models.AlertWarning],
				"notice":   alertCounts[models.AlertNotice],
			},
			"negative_rolling_vendors": len(negativeVendors),
			"projection_accuracy":      projectionAccuracy,
		})
	}
}

// GetDashboardTrendsHandler godoc
// @Summary      Dashboard monthly trends
// @Description  Ordered units, shipped units and OTD rate per month over the trailing year
// @Tags         dashboard
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Success      200  {array}   object
// @Failure      401  {object}  models.ErrorResponse
// @Router       /api/dashboard/trends [get]
func GetDashboardTrendsHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if _, _, err := GetSessionDetails(db, sessionID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		ctx, cancel := utils.GetSlowQueryContext(c.Request.Context())
		defer cancel()

		start := models.MonthStart(time.Now().UTC()).AddDate(0, -11, 0)

		type monthTrend struct {
			Month        string  `json:"month"`
			OrderedUnits int     `json:"ordered_units"`
			ShippedUnits int     `json:"shipped_units"`
			OTDRate      float64 `json:"otd_rate"`
		}
		trends := map[string]*monthTrend{}
		keys := []string{}
		for i := 0; i < 12; i++ {
			key := start.AddDate(0, i, 0).Format("2006-01")
			trends[key] = &monthTrend{Month: key}
			keys = append(keys, key)
		}

		orderRows, err := db.QueryContext(ctx, `
			SELECT to_char(date_trunc('month', po.order_date), 'YYYY-MM'), SUM(li.quantity)
			FROM purchase_orders po
			JOIN po_line_items li ON li.po_id = po.po_id
			WHERE po.order_date >= $1 AND po.status <> 'cancelled'
			GROUP BY 1`, start)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order trend", "details": err.Error()})
			return
		}
		defer orderRows.Close()
		for orderRows.Next() {
			var key string
			var units int
			if err := orderRows.Scan(&key, &units); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan order trend", "details": err.Error()})
				return
			}
			if t, ok := trends[key]; ok {
				t.OrderedUnits = units
			}
		}

		shipRows, err := db.QueryContext(ctx, `
			SELECT to_char(date_trunc('month', handover_at), 'YYYY-MM'),
			       SUM(quantity),
			       COUNT(*) FILTER (WHERE handover_at <= hod),
			       COUNT(*)
			FROM shipments
			WHERE handover_at IS NOT NULL AND handover_at >= $1
			GROUP BY 1`, start)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch shipment trend", "details": err.Error()})
			return
		}
		defer shipRows.Close()
		for shipRows.Next() {
			var key string
			var units, onTime, total int
			if err := shipRows.Scan(&key, &units, &onTime, &total); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan shipment trend", "details": err.Error()})
				return
			}
			if t, ok := trends[key]; ok {
				t.ShippedUnits = units
				if total > 0 {
					t.OTDRate = float64(onTime) / float64(total)
				}
			}
		}

		out := make([]monthTrend, 0, len(keys))
		for _, key := range keys {
			out = append(out, *trends[key])
		}
		c.JSON(http.StatusOK, out)
	}
}
