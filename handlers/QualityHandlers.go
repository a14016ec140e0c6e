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

// GetQualityTestsHandler godoc
// @Summary      List quality tests
// @Tags         quality
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        vendor_id  query  int     false  "Filter by vendor"
// @Param        sku        query  string  false  "Filter by SKU"
// @Param        result     query  string  false  "pending, pass or fail"
// @Success      200  {array}   models.QualityTest
// @Failure      401  {object}  models.ErrorResponse
// @Router       /api/quality-tests [get]
func GetQualityTestsHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if _, _, err := GetSessionDetails(db, sessionID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		query := `
			SELECT test_id, vendor_id, sku, material, test_type, lab, issue_date, expiry, result, created_at
			FROM quality_tests WHERE 1=1`
		args := []interface{}{}
		argPos := 1

		if v := c.Query("vendor_id"); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				query += fmt.Sprintf(" AND vendor_id = $%d", argPos)
				args = append(args, id)
				argPos++
			}
		}
		if v := c.Query("sku"); v != "" {
			query += fmt.Sprintf(" AND sku = $%d", argPos)
			args = append(args, v)
			argPos++
		}
		if v := c.Query("result"); v != "" {
			query += fmt.Sprintf(" AND result = $%d", argPos)
			args = append(args, v)
			argPos++
		}
		query += " ORDER BY issue_date DESC"

		rows, err := db.Query(query, args...)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch quality tests", "details": err.Error()})
			return
		}
		defer rows.Close()

		tests := []models.QualityTest{}
		for rows.Next() {
			var t models.QualityTest
			var sku, material, lab sql.NullString
			if err := rows.Scan(&t.TestID, &t.VendorID, &sku, &material, &t.TestType, &lab,
				&t.IssueDate, &t.Expiry, &t.Result, &t.CreatedAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan quality test", "details": err.Error()})
				return
			}
			t.SKU = sku.String
			t.Material = material.String
			t.Lab = lab.String
			tests = append(tests, t)
		}

		c.JSON(http.StatusOK, tests)
	}
}

// CreateQualityTestHandler godoc
// @Summary      Record a quality test
// @Tags         quality
// @Accept       json
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        test  body      models.QualityTest  true  "Quality test"
// @Success      201  {object}  models.QualityTest
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/quality-tests [post]
func CreateQualityTestHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		session, userName, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		var t models.QualityTest
		if err := c.ShouldBindJSON(&t); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}
		if t.VendorID == 0 || t.TestType == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "vendor_id and test_type are required"})
			return
		}
		if t.Result == "" {
			t.Result = "pending"
		}
		if t.IssueDate.IsZero() {
			t.IssueDate = time.Now().UTC()
		}

		err = db.QueryRow(`
			INSERT INTO quality_tests (vendor_id, sku, material, test_type, lab, issue_date, expiry, result, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
			RETURNING test_id, created_at`,
			t.VendorID, t.SKU, t.Material, t.TestType, t.Lab, t.IssueDate, t.Expiry, t.Result).
			Scan(&t.TestID, &t.CreatedAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create quality test", "details": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, t)

		log := models.ActivityLog{
			EventContext: "QualityTest",
			EventName:    "Create",
			Description:  fmt.Sprintf("Recorded %s test for %s", t.TestType, t.SKU),
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
			VendorID:     t.VendorID,
		}
		_ = SaveActivityLog(db, log)
	}
}

// UpdateQualityTestHandler godoc
// @Summary      Update a quality test
// @Tags         quality
// @Accept       json
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        id    path      int                 true  "Test ID"
// @Param        test  body      models.QualityTest  true  "Quality test"
// @Success      200  {object}  models.MessageResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/quality-tests/{id} [put]
func UpdateQualityTestHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if _, _, err := GetSessionDetails(db, sessionID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid test ID"})
			return
		}

		var t models.QualityTest
		if err := c.ShouldBindJSON(&t); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		res, err := db.Exec(`
			UPDATE quality_tests
			SET sku = $1, material = $2, test_type = $3, lab = $4, issue_date = $5, expiry = $6, result = $7
			WHERE test_id = $8`,
			t.SKU, t.Material, t.TestType, t.Lab, t.IssueDate, t.Expiry, t.Result, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update quality test", "details": err.Error()})
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Quality test not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Quality test updated successfully"})
	}
}

// GetComplianceAlertsHandler godoc
// @Summary      List compliance alerts
// @Description  Open alerts ordered by severity then due date
// @Tags         quality
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        level      query  string  false  "critical, warning or notice"
// @Param        vendor_id  query  int     false  "Filter by vendor"
// @Success      200  {array}   models.ComplianceAlert
// @Failure      401  {object}  models.ErrorResponse
// @Router       /api/compliance-alerts [get]
func GetComplianceAlertsHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if _, _, err := GetSessionDetails(db, sessionID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		query := `
			SELECT alert_id, level, kind, vendor_id, reference, message, due_date, created_at
			FROM compliance_alerts WHERE 1=1`
		args := []interface{}{}
		argPos := 1

		if v := c.Query("level"); v != "" {
			query += fmt.Sprintf(" AND level = $%d", argPos)
			args = append(args, v)
			argPos++
		}
		if v := c.Query("vendor_id"); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				query += fmt.Sprintf(" AND vendor_id = $%d", argPos)
				args = append(args, id)
				argPos++
			}
		}
		query += `
			ORDER BY CASE level WHEN 'critical' THEN 0 WHEN 'warning' THEN 1 ELSE 2 END,
			         due_date`

		rows, err := db.Query(query, args...)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch alerts", "details": err.Error()})
			return
		}
		defer rows.Close()

		alerts := []models.ComplianceAlert{}
		for rows.Next() {
			var a models.ComplianceAlert
			var reference, message sql.NullString
			if err := rows.Scan(&a.AlertID, &a.Level, &a.Kind, &a.VendorID, &reference, &message,
				&a.DueDate, &a.CreatedAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan alert", "details": err.Error()})
				return
			}
			a.Reference = reference.String
			a.Message = message.String
			alerts = append(alerts, a)
		}

		c.JSON(http.StatusOK, alerts)
	}
}

// RefreshComplianceAlertsHandler godoc
// @Summary      Rebuild compliance alerts
// @Description  Force a rebuild of the alert table outside the nightly schedule
// @Tags         quality
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Success      200  {object}  object
// @Failure      401  {object}  models.ErrorResponse
// @Router       /api/compliance-alerts/refresh [post]
func RefreshComplianceAlertsHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if _, _, err := GetSessionDetails(db, sessionID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		ctx, cancel := utils.GetSlowQueryContext(c.Request.Context())
		defer cancel()

		count, err := services.NewAlertService(db).Refresh(ctx, time.Now().UTC())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh alerts", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Alerts refreshed", "open_alerts": count})
	}
}
