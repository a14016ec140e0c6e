package handlers

import (
	"backend/models"
	"backend/services"
	"backend/utils"
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// GetInspectionsHandler godoc
// @Summary      List inspections
// @Tags         inspections
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        vendor_id  query  int     false  "Filter by vendor"
// @Param        po_number  query  string  false  "Filter by PO number"
// @Param        result     query  string  false  "pending, pass or fail"
// @Success      200  {array}   models.Inspection
// @Failure      401  {object}  models.ErrorResponse
// @Router       /api/inspections [get]
func GetInspectionsHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if _, _, err := GetSessionDetails(db, sessionID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		query := `
			SELECT i.inspection_id, i.po_number, i.vendor_id, v.name, i.type,
			       i.scheduled_date, i.actual_date, i.result, i.inspector,
			       i.defects_major, i.defects_minor, i.created_at, i.updated_at
			FROM inspections i
			JOIN vendors v ON v.vendor_id = i.vendor_id
			WHERE 1=1`
		args := []interface{}{}
		argPos := 1

		if v := c.Query("vendor_id"); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				query += fmt.Sprintf(" AND i.vendor_id = $%d", argPos)
				args = append(args, id)
				argPos++
			}
		}
		if v := c.Query("po_number"); v != "" {
			query += fmt.Sprintf(" AND i.po_number = $%d", argPos)
			args = append(args, v)
			argPos++
		}
		if v := c.Query("result"); v != "" {
			query += fmt.Sprintf(" AND i.result = $%d", argPos)
			args = append(args, v)
			argPos++
		}
		query += " ORDER BY i.scheduled_date DESC"

		rows, err := db.Query(query, args...)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inspections", "details": err.Error()})
			return
		}
		defer rows.Close()

		inspections := []models.Inspection{}
		for rows.Next() {
			var ins models.Inspection
			var inspector sql.NullString
			if err := rows.Scan(&ins.InspectionID, &ins.PONumber, &ins.VendorID, &ins.VendorName, &ins.Type,
				&ins.ScheduledDate, &ins.ActualDate, &ins.Result, &inspector,
				&ins.DefectsMajor, &ins.DefectsMinor, &ins.CreatedAt, &ins.UpdatedAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan inspection", "details": err.Error()})
				return
			}
			ins.Inspector = inspector.String
			inspections = append(inspections, ins)
		}

		c.JSON(http.StatusOK, inspections)
	}
}

// CreateInspectionHandler godoc
// @Summary      Schedule an inspection
// @Tags         inspections
// @Accept       json
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        inspection  body      models.Inspection  true  "Inspection"
// @Success      201  {object}  models.Inspection
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/inspections [post]
func CreateInspectionHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		session, userName, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		var ins models.Inspection
		if err := c.ShouldBindJSON(&ins); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}
		if ins.PONumber == "" || ins.ScheduledDate.IsZero() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "po_number and scheduled_date are required"})
			return
		}
		if ins.Type == "" {
			ins.Type = "final"
		}
		if ins.Type != "inline" && ins.Type != "final" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "type must be inline or final"})
			return
		}
		if ins.Result == "" {
			ins.Result = "pending"
		}

		var vendorID int
		err = db.QueryRow(`SELECT vendor_id FROM purchase_orders WHERE po_number = $1`, ins.PONumber).Scan(&vendorID)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown PO number"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up PO", "details": err.Error()})
			return
		}
		ins.VendorID = vendorID

		err = db.QueryRow(`
			INSERT INTO inspections (po_number, vendor_id, type, scheduled_date, actual_date,
				result, inspector, defects_major, defects_minor, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
			RETURNING inspection_id, created_at, updated_at`,
			ins.PONumber, ins.VendorID, ins.Type, ins.ScheduledDate, ins.ActualDate,
			ins.Result, ins.Inspector, ins.DefectsMajor, ins.DefectsMinor).
			Scan(&ins.InspectionID, &ins.CreatedAt, &ins.UpdatedAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create inspection", "details": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, ins)

		log := models.ActivityLog{
			EventContext: "Inspection",
			EventName:    "Create",
			Description:  fmt.Sprintf("Scheduled %s inspection for %s", ins.Type, ins.PONumber),
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
			VendorID:     ins.VendorID,
		}
		_ = SaveActivityLog(db, log)
	}
}

// UpdateInspectionHandler godoc
// @Summary      Update an inspection
// @Description  Record the actual date, result and defect counts
// @Tags         inspections
// @Accept       json
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        id          path      int                true  "Inspection ID"
// @Param        inspection  body      models.Inspection  true  "Inspection"
// @Success      200  {object}  models.MessageResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/inspections/{id} [put]
func UpdateInspectionHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		session, userName, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid inspection ID"})
			return
		}

		var ins models.Inspection
		if err := c.ShouldBindJSON(&ins); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}
		if ins.Result != "pending" && ins.Result != "pass" && ins.Result != "fail" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "result must be pending, pass or fail"})
			return
		}

		res, err := db.Exec(`
			UPDATE inspections
			SET scheduled_date = $1, actual_date = $2, result = $3, inspector = $4,
			    defects_major = $5, defects_minor = $6, updated_at = NOW()
			WHERE inspection_id = $7`,
			ins.ScheduledDate, ins.ActualDate, ins.Result, ins.Inspector,
			ins.DefectsMajor, ins.DefectsMinor, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update inspection", "details": err.Error()})
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Inspection not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Inspection updated successfully"})

		log := models.ActivityLog{
			EventContext: "Inspection",
			EventName:    "Update",
			Description:  fmt.Sprintf("Updated inspection %d (%s)", id, ins.Result),
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
			VendorID:     ins.VendorID,
		}
		_ = SaveActivityLog(db, log)
	}
}

// GetInspectionSummaryHandler godoc
// @Summary      Inspection compliance summary
// @Description  Pass rate per vendor plus open orders near HOD without a passed final inspection
// @Tags         inspections
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Success      200  {object}  object
// @Failure      401  {object}  models.ErrorResponse
// @Router       /api/inspections/summary [get]
func GetInspectionSummaryHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if _, _, err := GetSessionDetails(db, sessionID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		ctx, cancel := utils.GetSlowQueryContext(c.Request.Context())
		defer cancel()

		rows, err := db.QueryContext(ctx, `
			SELECT i.vendor_id, v.name,
			       COUNT(*) FILTER (WHERE i.result = 'pass') AS passed,
			       COUNT(*) FILTER (WHERE i.result = 'fail') AS failed,
			       COUNT(*) FILTER (WHERE i.result = 'pending') AS pending
			FROM inspections i
			JOIN vendors v ON v.vendor_id = i.vendor_id
			GROUP BY i.vendor_id, v.name
			ORDER BY v.name`)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch summary", "details": err.Error()})
			return
		}
		defer rows.Close()

		type vendorSummary struct {
			VendorID   int     `json:"vendor_id"`
			VendorName string  `json:"vendor_name"`
			Passed     int     `json:"passed"`
			Failed     int     `json:"failed"`
			Pending    int     `json:"pending"`
			PassRate   float64 `json:"pass_rate"`
		}
		summaries := []vendorSummary{}
		for rows.Next() {
			var vs vendorSummary
			if err := rows.Scan(&vs.VendorID, &vs.VendorName, &vs.Passed, &vs.Failed, &vs.Pending); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan summary", "details": err.Error()})
				return
			}
			if done := vs.Passed + vs.Failed; done > 0 {
				vs.PassRate = float64(vs.Passed) / float64(done)
			}
			summaries = append(summaries, vs)
		}

		// Open orders close to HOD without a passed final inspection.
		windowEnd := time.Now().UTC().AddDate(0, 0, services.InspectionDueWindowDays)
		overdueRows, err := db.QueryContext(ctx, `
			SELECT po.po_number, po.vendor_id, v.name, po.hod
			FROM purchase_orders po
			JOIN vendors v ON v.vendor_id = po.vendor_id
			WHERE po.status = 'open' AND po.hod <= $1
			  AND NOT EXISTS (
				SELECT 1 FROM inspections i
				WHERE i.po_number = po.po_number AND i.type = 'final' AND i.result = 'pass'
			  )
			ORDER BY po.hod`, windowEnd)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch overdue orders", "details": err.Error()})
			return
		}
		defer overdueRows.Close()

		type overdueOrder struct {
			PONumber   string    `json:"po_number"`
			VendorID   int       `json:"vendor_id"`
			VendorName string    `json:"vendor_name"`
			HOD        time.Time `json:"hod"`
		}
		overdue := []overdueOrder{}
		for overdueRows.Next() {
			var o overdueOrder
			if err := overdueRows.Scan(&o.PONumber, &o.VendorID, &o.VendorName, &o.HOD); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan overdue order", "details": err.Error()})
				return
			}
			overdue = append(overdue, o)
		}

		c.JSON(http.StatusOK, gin.H{
			"vendors": summaries,
			"overdue": overdue,
		})
	}
}
