package handlers

import (
	"backend/models"
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetStaffHandler godoc
// @Summary      List staff
// @Description  List merchandisers and other staff, optionally filtered by role
// @Tags         staff
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        role    query  string  false  "Filter by role"
// @Param        active  query  bool    false  "Only active staff"
// @Success      200  {array}   models.Staff
// @Failure      401  {object}  models.ErrorResponse
// @Router       /api/staff [get]
func GetStaffHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if _, _, err := GetSessionDetails(db, sessionID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		query := `SELECT staff_id, name, email, role, active, created_at, updated_at FROM staff WHERE 1=1`
		args := []interface{}{}
		argPos := 1

		if role := c.Query("role"); role != "" {
			query += ` AND role = $` + strconv.Itoa(argPos)
			args = append(args, role)
			argPos++
		}
		if c.Query("active") == "true" {
			query += ` AND active = true`
		}
		query += ` ORDER BY name`

		rows, err := db.Query(query, args...)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch staff", "details": err.Error()})
			return
		}
		defer rows.Close()

		staff := []models.Staff{}
		for rows.Next() {
			var s models.Staff
			var email sql.NullString
			if err := rows.Scan(&s.StaffID, &s.Name, &email, &s.Role, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan staff", "details": err.Error()})
				return
			}
			s.Email = email.String
			staff = append(staff, s)
		}

		c.JSON(http.StatusOK, staff)
	}
}

// CreateStaffHandler godoc
// @Summary      Create a staff member
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        staff  body      models.Staff  true  "Staff"
// @Success      201  {object}  models.Staff
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/staff [post]
func CreateStaffHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if _, _, err := GetSessionDetails(db, sessionID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		var s models.Staff
		if err := c.ShouldBindJSON(&s); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}
		if strings.TrimSpace(s.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Staff name is required"})
			return
		}
		if s.Role == "" {
			s.Role = "merchandiser"
		}
		s.Active = true

		err := db.QueryRow(`
			INSERT INTO staff (name, email, role, active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, NOW(), NOW())
			RETURNING staff_id, created_at, updated_at`,
			s.Name, s.Email, s.Role, s.Active).Scan(&s.StaffID, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create staff", "details": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, s)
	}
}

// UpdateStaffHandler godoc
// @Summary      Update a staff member
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        id     path      int           true  "Staff ID"
// @Param        staff  body      models.Staff  true  "Staff"
// @Success      200  {object}  models.MessageResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/staff/{id} [put]
func UpdateStaffHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if _, _, err := GetSessionDetails(db, sessionID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid staff ID"})
			return
		}

		var s models.Staff
		if err := c.ShouldBindJSON(&s); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		res, err := db.Exec(`
			UPDATE staff SET name = $1, email = $2, role = $3, active = $4, updated_at = NOW()
			WHERE staff_id = $5`,
			s.Name, s.Email, s.Role, s.Active, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update staff", "details": err.Error()})
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Staff not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Staff updated successfully"})
	}
}

// DeleteStaffHandler godoc
// @Summary      Deactivate a staff member
// @Description  Staff are never hard-deleted, only marked inactive
// @Tags         staff
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        id   path      int  true  "Staff ID"
// @Success      200  {object}  models.MessageResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/staff/{id} [delete]
func DeleteStaffHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if _, _, err := GetSessionDetails(db, sessionID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid staff ID"})
			return
		}

		res, err := db.Exec(`UPDATE staff SET active = false, updated_at = NOW() WHERE staff_id = $1`, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate staff", "details": err.Error()})
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Staff not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Staff deactivated"})
	}
}
