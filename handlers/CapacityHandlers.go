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

// GetCapacityAllocationsHandler godoc
// @Summary      List capacity allocations
// @Tags         capacity
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        vendor_id  query  int     false  "Filter by vendor"
// @Param        brand      query  string  false  "Filter by brand"
// @Success      200  {array}   models.CapacityAllocation
// @Failure      401  {object}  models.ErrorResponse
// @Router       /api/capacity [get]
func GetCapacityAllocationsHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if _, _, err := GetSessionDetails(db, sessionID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		query := `
			SELECT allocation_id, vendor_id, brand, month, reserved, created_at, updated_at
			FROM vendor_capacity WHERE 1=1`
		args := []interface{}{}
		argPos := 1

		if v := c.Query("vendor_id"); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				query += fmt.Sprintf(" AND vendor_id = $%d", argPos)
				args = append(args, id)
				argPos++
			}
		}
		if v := c.Query("brand"); v != "" {
			query += fmt.Sprintf(" AND brand = $%d", argPos)
			args = append(args, v)
			argPos++
		}
		query += " ORDER BY vendor_id, brand, month"

		rows, err := db.Query(query, args...)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch allocations", "details": err.Error()})
			return
		}
		defer rows.Close()

		allocations := []models.CapacityAllocation{}
		for rows.Next() {
			var a models.CapacityAllocation
			if err := rows.Scan(&a.AllocationID, &a.VendorID, &a.Brand, &a.Month, &a.Reserved,
				&a.CreatedAt, &a.UpdatedAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan allocation", "details": err.Error()})
				return
			}
			allocations = append(allocations, a)
		}

		c.JSON(http.StatusOK, allocations)
	}
}

// UpsertCapacityAllocationHandler godoc
// @Summary      Set reserved capacity
// @Description  Create or update the reserved units for a vendor/brand/month bucket
// @Tags         capacity
// @Accept       json
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        allocation  body      models.CapacityAllocation  true  "Allocation"
// @Success      200  {object}  models.CapacityAllocation
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/capacity [post]
func UpsertCapacityAllocationHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		session, userName, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		var a models.CapacityAllocation
		if err := c.ShouldBindJSON(&a); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}
		if a.VendorID == 0 || a.Brand == "" || a.Month.IsZero() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "vendor_id, brand and month are required"})
			return
		}
		if a.Reserved < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "reserved must not be negative"})
			return
		}
		a.Month = models.MonthStart(a.Month)

		err = db.QueryRow(`
			INSERT INTO vendor_capacity (vendor_id, brand, month, reserved, created_at, updated_at)
			VALUES ($1, $2, $3, $4, NOW(), NOW())
			ON CONFLICT (vendor_id, brand, month)
			DO UPDATE SET reserved = EXCLUDED.reserved, updated_at = NOW()
			RETURNING allocation_id, created_at, updated_at`,
			a.VendorID, a.Brand, a.Month, a.Reserved).Scan(&a.AllocationID, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save allocation", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, a)

		log := models.ActivityLog{
			EventContext: "Capacity",
			EventName:    "Upsert",
			Description:  fmt.Sprintf("Set %s capacity for %s to %d units", a.Month.Format("Jan 2006"), a.Brand, a.Reserved),
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
			VendorID:     a.VendorID,
		}
		_ = SaveActivityLog(db, log)
	}
}

// DeleteCapacityAllocationHandler godoc
// @Summary      Delete a capacity allocation
// @Tags         capacity
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        id   path      int  true  "Allocation ID"
// @Success      200  {object}  models.MessageResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/capacity/{id} [delete]
func DeleteCapacityAllocationHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if _, _, err := GetSessionDetails(db, sessionID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid allocation ID"})
			return
		}

		res, err := db.Exec(`DELETE FROM vendor_capacity WHERE allocation_id = $1`, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete allocation", "details": err.Error()})
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Allocation not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Allocation deleted successfully"})
	}
}

// GetCapacityReportHandler godoc
// @Summary      Capacity reconciliation report
// @Description  12-month view of reserved capacity against confirmed orders and projections, with rolling balance and recovery month
// @Tags         capacity
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        vendor_id  query  int     true   "Vendor"
// @Param        brand      query  string  true   "Brand"
// @Param        from       query  string  false  "Start month (YYYY-MM), default current month"
// @Success      200  {object}  services.CapacityReport
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/capacity/report [get]
func GetCapacityReportHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if _, _, err := GetSessionDetails(db, sessionID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		vendorID, err := strconv.Atoi(c.Query("vendor_id"))
		if err != nil || vendorID < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "vendor_id is required"})
			return
		}
		brand := c.Query("brand")
		if brand == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "brand is required"})
			return
		}

		from := time.Now().UTC()
		if v := c.Query("from"); v != "" {
			t, err := repository.ParseDateCell(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from month", "details": err.Error()})
				return
			}
			from = t
		}

		ctx, cancel := utils.GetSlowQueryContext(c.Request.Context())
		defer cancel()

		report, err := services.NewCapacityService(db).Report(ctx, vendorID, brand, from)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build capacity report", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, report)
	}
}
