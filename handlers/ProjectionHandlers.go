package handlers

import (
	"backend/models"
	"backend/repository"
	"backend/services"
	"backend/utils"
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// GetProjectionsHandler godoc
// @Summary      List projections
// @Tags         projections
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        vendor_id  query  int     false  "Filter by vendor"
// @Param        status     query  string  false  "active, matched or expired"
// @Param        month      query  string  false  "Order month (YYYY-MM)"
// @Success      200  {array}   models.Projection
// @Failure      401  {object}  models.ErrorResponse
// @Router       /api/projections [get]
func GetProjectionsHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if _, _, err := GetSessionDetails(db, sessionID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		query := `
			SELECT p.projection_id, p.vendor_id, v.name, p.brand, p.sku, p.client_id,
			       p.order_month, p.quantity, p.order_type, p.batch_id, p.status,
			       p.created_at, p.updated_at
			FROM active_projections p
			JOIN vendors v ON v.vendor_id = p.vendor_id
			WHERE 1=1`
		args := []interface{}{}
		argPos := 1

		if v := c.Query("vendor_id"); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				query += fmt.Sprintf(" AND p.vendor_id = $%d", argPos)
				args = append(args, id)
				argPos++
			}
		}
		if v := c.Query("status"); v != "" {
			query += fmt.Sprintf(" AND p.status = $%d", argPos)
			args = append(args, v)
			argPos++
		}
		if v := c.Query("month"); v != "" {
			if t, err := repository.ParseDateCell(v); err == nil {
				query += fmt.Sprintf(" AND date_trunc('month', p.order_month) = $%d", argPos)
				args = append(args, models.MonthStart(t))
				argPos++
			}
		}
		query += " ORDER BY p.order_month, v.name, p.sku"

		rows, err := db.Query(query, args...)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projections", "details": err.Error()})
			return
		}
		defer rows.Close()

		projections := []models.Projection{}
		for rows.Next() {
			var p models.Projection
			var clientID sql.NullInt64
			if err := rows.Scan(&p.ProjectionID, &p.VendorID, &p.VendorName, &p.Brand, &p.SKU, &clientID,
				&p.OrderMonth, &p.Quantity, &p.OrderType, &p.BatchID, &p.Status,
				&p.CreatedAt, &p.UpdatedAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan projection", "details": err.Error()})
				return
			}
			p.ClientID = int(clientID.Int64)
			projections = append(projections, p)
		}

		c.JSON(http.StatusOK, projections)
	}
}

// GetProjectionAccuracyHandler godoc
// @Summary      Projection accuracy report
// @Description  Matched order volume against projected volume per vendor/SKU/month
// @Tags         projections
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        vendor_id  query  int     false  "Filter by vendor"
// @Param        from       query  string  false  "Order month from (YYYY-MM), default 6 months back"
// @Param        to         query  string  false  "Order month to (YYYY-MM)"
// @Success      200  {array}   services.AccuracyBucket
// @Failure      401  {object}  models.ErrorResponse
// @Router       /api/projections/accuracy [get]
func GetProjectionAccuracyHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if _, _, err := GetSessionDetails(db, sessionID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		vendorID := 0
		if v := c.Query("vendor_id"); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				vendorID = id
			}
		}

		now := time.Now().UTC()
		from := models.MonthStart(now).AddDate(0, -6, 0)
		to := models.MonthStart(now).AddDate(0, 1, 0)
		if v := c.Query("from"); v != "" {
			if t, err := repository.ParseDateCell(v); err == nil {
				from = models.MonthStart(t)
			}
		}
		if v := c.Query("to"); v != "" {
			if t, err := repository.ParseDateCell(v); err == nil {
				to = models.MonthStart(t).AddDate(0, 1, 0)
			}
		}

		ctx, cancel := utils.GetSlowQueryContext(c.Request.Context())
		defer cancel()

		buckets, err := services.NewProjectionService(db).AccuracyReport(ctx, vendorID, from, to)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build accuracy report", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, buckets)
	}
}

// GetProjectionDriftHandler godoc
// @Summary      Projection drift report
// @Description  How projected quantities moved across upload batches
// @Tags         projections
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        vendor_id  query  int  false  "Filter by vendor"
// @Success      200  {array}   services.DriftRow
// @Failure      401  {object}  models.ErrorResponse
// @Router       /api/projections/drift [get]
func GetProjectionDriftHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if _, _, err := GetSessionDetails(db, sessionID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		vendorID := 0
		if v := c.Query("vendor_id"); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				vendorID = id
			}
		}

		ctx, cancel := utils.GetSlowQueryContext(c.Request.Context())
		defer cancel()

		drift, err := services.NewProjectionService(db).DriftReport(ctx, vendorID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build drift report", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, drift)
	}
}

// LockProjectionMonthHandler godoc
// @Summary      Lock a projection month
// @Description  Lock a vendor/month bucket so imports and expiry cannot touch it
// @Tags         projections
// @Accept       json
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        lock  body      models.ProjectionLock  true  "Lock"
// @Success      201  {object}  models.ProjectionLock
// @Failure      409  {object}  models.ErrorResponse
// @Router       /api/projections/locks [post]
func LockProjectionMonthHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		session, userName, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		var lock models.ProjectionLock
		if err := c.ShouldBindJSON(&lock); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}
		if lock.VendorID == 0 || lock.Month.IsZero() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "vendor_id and month are required"})
			return
		}
		lock.Month = models.MonthStart(lock.Month)
		lock.LockedBy = userName

		err = db.QueryRow(`
			INSERT INTO projection_locks (vendor_id, month, locked_by, reason, created_at)
			VALUES ($1, $2, $3, $4, NOW())
			ON CONFLICT (vendor_id, month) DO NOTHING
			RETURNING lock_id, created_at`,
			lock.VendorID, lock.Month, lock.LockedBy, lock.Reason).Scan(&lock.LockID, &lock.CreatedAt)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusConflict, gin.H{"error": "Month is already locked"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to lock month", "details": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, lock)

		log := models.ActivityLog{
			EventContext: "Projection",
			EventName:    "Lock",
			Description:  fmt.Sprintf("Locked projections for %s", lock.Month.Format("Jan 2006")),
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
			VendorID:     lock.VendorID,
		}
		_ = SaveActivityLog(db, log)
	}
}

// UnlockProjectionMonthHandler godoc
// @Summary      Unlock a projection month
// @Tags         projections
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        id   path      int  true  "Lock ID"
// @Success      200  {object}  models.MessageResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/projections/locks/{id} [delete]
func UnlockProjectionMonthHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		session, userName, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lock ID"})
			return
		}

		var vendorID int
		var month time.Time
		err = db.QueryRow(`DELETE FROM projection_locks WHERE lock_id = $1 RETURNING vendor_id, month`, id).Scan(&vendorID, &month)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lock not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unlock month", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Month unlocked"})

		log := models.ActivityLog{
			EventContext: "Projection",
			EventName:    "Unlock",
			Description:  fmt.Sprintf("Unlocked projections for %s", month.Format("Jan 2006")),
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
			VendorID:     vendorID,
		}
		_ = SaveActivityLog(db, log)
	}
}

// GetProjectionLocksHandler godoc
// @Summary      List projection locks
// @Tags         projections
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Success      200  {array}   models.ProjectionLock
// @Failure      401  {object}  models.ErrorResponse
// @Router       /api/projections/locks [get]
func GetProjectionLocksHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if _, _, err := GetSessionDetails(db, sessionID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		rows, err := db.Query(`
			SELECT lock_id, vendor_id, month, locked_by, reason, created_at
			FROM projection_locks ORDER BY month, vendor_id`)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch locks", "details": err.Error()})
			return
		}
		defer rows.Close()

		locks := []models.ProjectionLock{}
		for rows.Next() {
			var l models.ProjectionLock
			var reason sql.NullString
			if err := rows.Scan(&l.LockID, &l.VendorID, &l.Month, &l.LockedBy, &reason, &l.CreatedAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan lock", "details": err.Error()})
				return
			}
			l.Reason = reason.String
			locks = append(locks, l)
		}

		c.JSON(http.StatusOK, locks)
	}
}
