package handlers

import (
	"backend/models"
	"backend/storage"
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
)

// GetVendorsHandler godoc
// @Summary      List vendors
// @Description  List vendors with their aliases, optionally filtered by status or name search
// @Tags         vendors
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        status  query  string  false  "Filter by status"
// @Param        search  query  string  false  "Name search"
// @Success      200  {array}   models.Vendor
// @Failure      401  {object}  models.ErrorResponse
// @Router       /api/vendors [get]
func GetVendorsHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if _, _, err := GetSessionDetails(db, sessionID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		query := `
			SELECT v.vendor_id, v.name, v.country, v.default_brand, v.status,
			       v.created_at, v.updated_at,
			       COALESCE(array_agg(va.alias) FILTER (WHERE va.alias IS NOT NULL), '{}')
			FROM vendors v
			LEFT JOIN vendor_aliases va ON va.vendor_id = v.vendor_id
			WHERE 1=1`
		args := []interface{}{}
		argPos := 1

		if status := c.Query("status"); status != "" {
			query += fmt.Sprintf(" AND v.status = $%d", argPos)
			args = append(args, status)
			argPos++
		}
		if search := c.Query("search"); search != "" {
			query += fmt.Sprintf(" AND v.name ILIKE $%d", argPos)
			args = append(args, "%"+search+"%")
			argPos++
		}
		query += " GROUP BY v.vendor_id ORDER BY v.name"

		rows, err := db.Query(query, args...)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch vendors", "details": err.Error()})
			return
		}
		defer rows.Close()

		vendors := []models.Vendor{}
		for rows.Next() {
			var v models.Vendor
			var country, brand sql.NullString
			if err := rows.Scan(&v.VendorID, &v.Name, &country, &brand, &v.Status,
				&v.CreatedAt, &v.UpdatedAt, pq.Array(&v.Aliases)); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan vendor", "details": err.Error()})
				return
			}
			v.Country = country.String
			v.DefaultBrand = brand.String
			vendors = append(vendors, v)
		}

		c.JSON(http.StatusOK, vendors)
	}
}

// GetVendorHandler godoc
// @Summary      Get a vendor
// @Tags         vendors
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        id   path      int  true  "Vendor ID"
// @Success      200  {object}  models.Vendor
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/vendors/{id} [get]
func GetVendorHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if _, _, err := GetSessionDetails(db, sessionID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vendor ID"})
			return
		}

		var v models.Vendor
		var country, brand sql.NullString
		err = db.QueryRow(`
			SELECT v.vendor_id, v.name, v.country, v.default_brand, v.status,
			       v.created_at, v.updated_at,
			       COALESCE(array_agg(va.alias) FILTER (WHERE va.alias IS NOT NULL), '{}')
			FROM vendors v
			LEFT JOIN vendor_aliases va ON va.vendor_id = v.vendor_id
			WHERE v.vendor_id = $1
			GROUP BY v.vendor_id`, id).Scan(
			&v.VendorID, &v.Name, &country, &brand, &v.Status,
			&v.CreatedAt, &v.UpdatedAt, pq.Array(&v.Aliases))
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Vendor not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch vendor", "details": err.Error()})
			return
		}
		v.Country = country.String
		v.DefaultBrand = brand.String

		c.JSON(http.StatusOK, v)
	}
}

// CreateVendorHandler godoc
// @Summary      Create a vendor
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        vendor  body      models.Vendor  true  "Vendor"
// @Success      201  {object}  models.Vendor
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/vendors [post]
func CreateVendorHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		session, userName, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		var v models.Vendor
		if err := c.ShouldBindJSON(&v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}
		if strings.TrimSpace(v.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Vendor name is required"})
			return
		}
		if v.Status == "" {
			v.Status = "active"
		}

		err = db.QueryRow(`
			INSERT INTO vendors (name, country, default_brand, status, created_by, updated_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5, NOW(), NOW())
			RETURNING vendor_id, created_at, updated_at`,
			v.Name, v.Country, v.DefaultBrand, v.Status, userName).Scan(&v.VendorID, &v.CreatedAt, &v.UpdatedAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create vendor", "details": err.Error()})
			return
		}

		for _, alias := range v.Aliases {
			alias = strings.TrimSpace(alias)
			if alias == "" {
				continue
			}
			if _, err := db.Exec(`INSERT INTO vendor_aliases (vendor_id, alias) VALUES ($1, $2)`, v.VendorID, alias); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save alias", "details": err.Error()})
				return
			}
		}

		c.JSON(http.StatusCreated, v)

		log := models.ActivityLog{
			EventContext: "Vendor",
			EventName:    "Create",
			Description:  fmt.Sprintf("Created vendor %s", v.Name),
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
			VendorID:     v.VendorID,
		}
		_ = SaveActivityLog(db, log)
	}
}

// UpdateVendorHandler godoc
// @Summary      Update a vendor
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        id      path      int            true  "Vendor ID"
// @Param        vendor  body      models.Vendor  true  "Vendor"
// @Success      200  {object}  models.MessageResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/vendors/{id} [put]
func UpdateVendorHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		session, userName, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vendor ID"})
			return
		}

		var v models.Vendor
		if err := c.ShouldBindJSON(&v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		res, err := db.Exec(`
			UPDATE vendors
			SET name = $1, country = $2, default_brand = $3, status = $4, updated_by = $5, updated_at = NOW()
			WHERE vendor_id = $6`,
			v.Name, v.Country, v.DefaultBrand, v.Status, userName, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update vendor", "details": err.Error()})
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Vendor not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Vendor updated successfully"})

		log := models.ActivityLog{
			EventContext: "Vendor",
			EventName:    "Update",
			Description:  fmt.Sprintf("Updated vendor %s", v.Name),
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
			VendorID:     id,
		}
		_ = SaveActivityLog(db, log)
	}
}

// DeleteVendorHandler godoc
// @Summary      Delete a vendor
// @Description  Delete a vendor that has no purchase orders
// @Tags         vendors
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        id   path      int  true  "Vendor ID"
// @Success      200  {object}  models.MessageResponse
// @Failure      409  {object}  models.ErrorResponse
// @Router       /api/vendors/{id} [delete]
func DeleteVendorHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		session, userName, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vendor ID"})
			return
		}

		var poCount int
		if err := db.QueryRow(`SELECT COUNT(*) FROM purchase_orders WHERE vendor_id = $1`, id).Scan(&poCount); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check vendor usage", "details": err.Error()})
			return
		}
		if poCount > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Vendor has purchase orders and cannot be deleted"})
			return
		}

		if _, err := db.Exec(`DELETE FROM vendor_aliases WHERE vendor_id = $1`, id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete aliases", "details": err.Error()})
			return
		}
		res, err := db.Exec(`DELETE FROM vendors WHERE vendor_id = $1`, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete vendor", "details": err.Error()})
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Vendor not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Vendor deleted successfully"})

		log := models.ActivityLog{
			EventContext: "Vendor",
			EventName:    "Delete",
			Description:  fmt.Sprintf("Deleted vendor %d", id),
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
			VendorID:     id,
		}
		_ = SaveActivityLog(db, log)
	}
}

// AddVendorAliasHandler godoc
// @Summary      Add a vendor alias
// @Description  Register an alternate spelling used in vendor spreadsheets
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        id     path      int                 true  "Vendor ID"
// @Param        alias  body      models.VendorAlias  true  "Alias"
// @Success      201  {object}  models.VendorAlias
// @Failure      409  {object}  models.ErrorResponse
// @Router       /api/vendors/{id}/aliases [post]
func AddVendorAliasHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if _, _, err := GetSessionDetails(db, sessionID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vendor ID"})
			return
		}

		var alias models.VendorAlias
		if err := c.ShouldBindJSON(&alias); err != nil || strings.TrimSpace(alias.Alias) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Alias is required"})
			return
		}
		alias.VendorID = id
		alias.Alias = strings.TrimSpace(alias.Alias)

		// An alias that already resolves to some vendor would make imports
		// ambiguous.
		if existing, err := storage.ResolveVendorID(db, alias.Alias); err == nil && existing != id {
			c.JSON(http.StatusConflict, gin.H{"error": "Alias already resolves to another vendor"})
			return
		}

		err = db.QueryRow(`INSERT INTO vendor_aliases (vendor_id, alias) VALUES ($1, $2) RETURNING id`,
			alias.VendorID, alias.Alias).Scan(&alias.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save alias", "details": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, alias)
	}
}

// DeleteVendorAliasHandler godoc
// @Summary      Delete a vendor alias
// @Tags         vendors
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        id        path  int  true  "Vendor ID"
// @Param        alias_id  path  int  true  "Alias ID"
// @Success      200  {object}  models.MessageResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/vendors/{id}/aliases/{alias_id} [delete]
func DeleteVendorAliasHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if _, _, err := GetSessionDetails(db, sessionID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		vendorID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vendor ID"})
			return
		}
		aliasID, err := strconv.Atoi(c.Param("alias_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid alias ID"})
			return
		}

		res, err := db.Exec(`DELETE FROM vendor_aliases WHERE id = $1 AND vendor_id = $2`, aliasID, vendorID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete alias", "details": err.Error()})
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Alias not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Alias deleted successfully"})
	}
}
