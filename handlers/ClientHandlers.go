package handlers

import (
	"backend/models"
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Brands are stored as a comma-joined string column.
func splitBrands(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func joinBrands(brands []string) string {
	out := make([]string, 0, len(brands))
	for _, b := range brands {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return strings.Join(out, ",")
}

// GetClientsHandler godoc
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        status  query  string  false  "Filter by status"
// @Success      200  {array}   models.Client
// @Failure      401  {object}  models.ErrorResponse
// @Router       /api/clients [get]
func GetClientsHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if _, _, err := GetSessionDetails(db, sessionID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		query := `SELECT client_id, name, brands, region, status, created_at, updated_at FROM clients`
		args := []interface{}{}
		if status := c.Query("status"); status != "" {
			query += ` WHERE status = $1`
			args = append(args, status)
		}
		query += ` ORDER BY name`

		rows, err := db.Query(query, args...)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch clients", "details": err.Error()})
			return
		}
		defer rows.Close()

		clients := []models.Client{}
		for rows.Next() {
			var cl models.Client
			var brands, region sql.NullString
			if err := rows.Scan(&cl.ClientID, &cl.Name, &brands, &region, &cl.Status, &cl.CreatedAt, &cl.UpdatedAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan client", "details": err.Error()})
				return
			}
			cl.Brands = splitBrands(brands.String)
			cl.Region = region.String
			clients = append(clients, cl)
		}

		c.JSON(http.StatusOK, clients)
	}
}

// CreateClientHandler godoc
// @Summary      Create a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        client  body      models.Client  true  "Client"
// @Success      201  {object}  models.Client
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/clients [post]
func CreateClientHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		session, userName, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		var cl models.Client
		if err := c.ShouldBindJSON(&cl); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}
		if strings.TrimSpace(cl.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Client name is required"})
			return
		}
		if cl.Status == "" {
			cl.Status = "active"
		}

		err = db.QueryRow(`
			INSERT INTO clients (name, brands, region, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, NOW(), NOW())
			RETURNING client_id, created_at, updated_at`,
			cl.Name, joinBrands(cl.Brands), cl.Region, cl.Status).Scan(&cl.ClientID, &cl.CreatedAt, &cl.UpdatedAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create client", "details": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, cl)

		log := models.ActivityLog{
			EventContext: "Client",
			EventName:    "Create",
			Description:  fmt.Sprintf("Created client %s", cl.Name),
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
		}
		_ = SaveActivityLog(db, log)
	}
}

// UpdateClientHandler godoc
// @Summary      Update a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        id      path      int            true  "Client ID"
// @Param        client  body      models.Client  true  "Client"
// @Success      200  {object}  models.MessageResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/clients/{id} [put]
func UpdateClientHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		session, userName, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID"})
			return
		}

		var cl models.Client
		if err := c.ShouldBindJSON(&cl); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		res, err := db.Exec(`
			UPDATE clients SET name = $1, brands = $2, region = $3, status = $4, updated_at = NOW()
			WHERE client_id = $5`,
			cl.Name, joinBrands(cl.Brands), cl.Region, cl.Status, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update client", "details": err.Error()})
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Client updated successfully"})

		log := models.ActivityLog{
			EventContext: "Client",
			EventName:    "Update",
			Description:  fmt.Sprintf("Updated client %s", cl.Name),
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
		}
		_ = SaveActivityLog(db, log)
	}
}

// DeleteClientHandler godoc
// @Summary      Delete a client
// @Tags         clients
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        id   path      int  true  "Client ID"
// @Success      200  {object}  models.MessageResponse
// @Failure      409  {object}  models.ErrorResponse
// @Router       /api/clients/{id} [delete]
func DeleteClientHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if _, _, err := GetSessionDetails(db, sessionID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID"})
			return
		}

		var poCount int
		if err := db.QueryRow(`SELECT COUNT(*) FROM purchase_orders WHERE client_id = $1`, id).Scan(&poCount); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check client usage", "details": err.Error()})
			return
		}
		if poCount > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Client has purchase orders and cannot be deleted"})
			return
		}

		res, err := db.Exec(`DELETE FROM clients WHERE client_id = $1`, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete client", "details": err.Error()})
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Client deleted successfully"})
	}
}
