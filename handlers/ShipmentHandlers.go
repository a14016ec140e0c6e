package handlers

import (
	"backend/models"
	"backend/repository"
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// fetchShipmentsForPO loads shipments for one PO with derived statuses.
func fetchShipmentsForPO(db *sql.DB, poNumber string) ([]models.Shipment, error) {
	rows, err := db.Query(`
		SELECT s.shipment_id, s.po_number, s.vendor_id, v.name, s.carrier, s.pts_status,
		       s.hod, s.handover_at, s.etd, s.eta, s.destination, s.quantity,
		       s.created_at, s.updated_at
		FROM shipments s
		JOIN vendors v ON v.vendor_id = s.vendor_id
		WHERE s.po_number = $1
		ORDER BY s.hod`, poNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanShipments(rows)
}

func scanShipments(rows *sql.Rows) ([]models.Shipment, error) {
	today := time.Now().UTC()
	shipments := []models.Shipment{}
	for rows.Next() {
		var s models.Shipment
		var carrier, ptsStatus, destination sql.NullString
		if err := rows.Scan(&s.ShipmentID, &s.PONumber, &s.VendorID, &s.VendorName, &carrier, &ptsStatus,
			&s.HOD, &s.HandoverAt, &s.ETD, &s.ETA, &destination, &s.Quantity,
			&s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.Carrier = carrier.String
		s.PTSStatus = ptsStatus.String
		s.Destination = destination.String
		s.Status = models.DeriveShipmentStatus(s.HOD, s.HandoverAt, today)
		shipments = append(shipments, s)
	}
	return shipments, rows.Err()
}

// GetShipmentsHandler godoc
// @Summary      List shipments
// @Description  List shipments with statuses derived from HOD and handover date
// @Tags         shipments
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        vendor_id  query  int     false  "Filter by vendor"
// @Param        po_number  query  string  false  "Filter by PO number"
// @Param        status     query  string  false  "on-time, late, at-risk or pending"
// @Success      200  {array}   models.Shipment
// @Failure      401  {object}  models.ErrorResponse
// @Router       /api/shipments [get]
func GetShipmentsHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if _, _, err := GetSessionDetails(db, sessionID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		query := `
			SELECT s.shipment_id, s.po_number, s.vendor_id, v.name, s.carrier, s.pts_status,
			       s.hod, s.handover_at, s.etd, s.eta, s.destination, s.quantity,
			       s.created_at, s.updated_at
			FROM shipments s
			JOIN vendors v ON v.vendor_id = s.vendor_id
			WHERE 1=1`
		args := []interface{}{}
		argPos := 1

		if v := c.Query("vendor_id"); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				query += fmt.Sprintf(" AND s.vendor_id = $%d", argPos)
				args = append(args, id)
				argPos++
			}
		}
		if v := c.Query("po_number"); v != "" {
			query += fmt.Sprintf(" AND s.po_number = $%d", argPos)
			args = append(args, v)
			argPos++
		}
		query += " ORDER BY s.hod"

		rows, err := db.Query(query, args...)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch shipments", "details": err.Error()})
			return
		}
		defer rows.Close()

		shipments, err := scanShipments(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan shipments", "details": err.Error()})
			return
		}

		// Status is derived, so the filter is applied after the scan.
		if status := c.Query("status"); status != "" {
			filtered := shipments[:0]
			for _, s := range shipments {
				if s.Status == status {
					filtered = append(filtered, s)
				}
			}
			shipments = filtered
		}

		c.JSON(http.StatusOK, shipments)
	}
}

// CreateShipmentHandler godoc
// @Summary      Create a shipment
// @Description  Book a shipment against a PO. The vendor is taken from the PO.
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        shipment  body      models.Shipment  true  "Shipment"
// @Success      201  {object}  models.Shipment
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/shipments [post]
func CreateShipmentHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		session, userName, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		var s models.Shipment
		if err := c.ShouldBindJSON(&s); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}
		if s.PONumber == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "po_number is required"})
			return
		}

		var vendorID int
		var poHOD time.Time
		err = db.QueryRow(`SELECT vendor_id, hod FROM purchase_orders WHERE po_number = $1`, s.PONumber).Scan(&vendorID, &poHOD)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown PO number"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up PO", "details": err.Error()})
			return
		}
		s.VendorID = vendorID
		if s.HOD.IsZero() {
			s.HOD = poHOD
		}
		if s.PTSStatus == "" {
			s.PTSStatus = "booked"
		}

		err = db.QueryRow(`
			INSERT INTO shipments (po_number, vendor_id, carrier, pts_status, hod, handover_at,
				etd, eta, destination, quantity, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
			RETURNING shipment_id, created_at, updated_at`,
			s.PONumber, s.VendorID, s.Carrier, s.PTSStatus, s.HOD, s.HandoverAt,
			s.ETD, s.ETA, s.Destination, s.Quantity).Scan(&s.ShipmentID, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create shipment", "details": err.Error()})
			return
		}
		s.Status = models.DeriveShipmentStatus(s.HOD, s.HandoverAt, time.Now().UTC())

		c.JSON(http.StatusCreated, s)

		log := models.ActivityLog{
			EventContext: "Shipment",
			EventName:    "Create",
			Description:  fmt.Sprintf("Booked shipment for %s", s.PONumber),
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
			VendorID:     s.VendorID,
		}
		_ = SaveActivityLog(db, log)
	}
}

// UpdateShipmentHandler godoc
// @Summary      Update a shipment
// @Description  Update booking details or record the actual handover date
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        id        path      int              true  "Shipment ID"
// @Param        shipment  body      models.Shipment  true  "Shipment"
// @Success      200  {object}  models.MessageResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/shipments/{id} [put]
func UpdateShipmentHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		session, userName, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shipment ID"})
			return
		}

		var s models.Shipment
		if err := c.ShouldBindJSON(&s); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		res, err := db.Exec(`
			UPDATE shipments
			SET carrier = $1, pts_status = $2, hod = $3, handover_at = $4,
			    etd = $5, eta = $6, destination = $7, quantity = $8, updated_at = NOW()
			WHERE shipment_id = $9`,
			s.Carrier, s.PTSStatus, s.HOD, s.HandoverAt,
			s.ETD, s.ETA, s.Destination, s.Quantity, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update shipment", "details": err.Error()})
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shipment not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Shipment updated successfully"})

		log := models.ActivityLog{
			EventContext: "Shipment",
			EventName:    "Update",
			Description:  fmt.Sprintf("Updated shipment %d", id),
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
		}
		_ = SaveActivityLog(db, log)
	}
}

// DeleteShipmentHandler godoc
// @Summary      Delete a shipment
// @Tags         shipments
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        id   path      int  true  "Shipment ID"
// @Success      200  {object}  models.MessageResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/shipments/{id} [delete]
func DeleteShipmentHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if _, _, err := GetSessionDetails(db, sessionID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shipment ID"})
			return
		}

		res, err := db.Exec(`DELETE FROM shipments WHERE shipment_id = $1`, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete shipment", "details": err.Error()})
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shipment not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Shipment deleted successfully"})
	}
}

// GetOTDSummaryHandler godoc
// @Summary      On-time delivery summary
// @Description  Counts of shipments per derived status over a date window, with OTD rate
// @Tags         shipments
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        from  query  string  false  "HOD from (YYYY-MM-DD), default 90 days back"
// @Param        to    query  string  false  "HOD to (YYYY-MM-DD)"
// @Param        vendor_id  query  int  false  "Filter by vendor"
// @Success      200  {object}  object
// @Failure      401  {object}  models.ErrorResponse
// @Router       /api/otd-summary [get]
func GetOTDSummaryHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if _, _, err := GetSessionDetails(db, sessionID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		from := time.Now().UTC().AddDate(0, 0, -90)
		to := time.Now().UTC().AddDate(0, 0, 1)
		if v := c.Query("from"); v != "" {
			if t, err := repository.ParseDateCell(v); err == nil {
				from = t
			}
		}
		if v := c.Query("to"); v != "" {
			if t, err := repository.ParseDateCell(v); err == nil {
				to = t
			}
		}

		query := `
			SELECT s.shipment_id, s.po_number, s.vendor_id, v.name, s.carrier, s.pts_status,
			       s.hod, s.handover_at, s.etd, s.eta, s.destination, s.quantity,
			       s.created_at, s.updated_at
			FROM shipments s
			JOIN vendors v ON v.vendor_id = s.vendor_id
			WHERE s.hod >= $1 AND s.hod < $2`
		args := []interface{}{from, to}
		if v := c.Query("vendor_id"); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				query += " AND s.vendor_id = $3"
				args = append(args, id)
			}
		}

		rows, err := db.Query(query, args...)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch shipments", "details": err.Error()})
			return
		}
		defer rows.Close()

		shipments, err := scanShipments(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan shipments", "details": err.Error()})
			return
		}

		counts := map[string]int{
			models.ShipmentOnTime:  0,
			models.ShipmentLate:    0,
			models.ShipmentAtRisk:  0,
			models.ShipmentPending: 0,
		}
		for _, s := range shipments {
			counts[s.Status]++
		}

		// OTD rate only counts shipments that have actually been handed over.
		delivered := counts[models.ShipmentOnTime] + counts[models.ShipmentLate]
		otdRate := 0.0
		if delivered > 0 {
			otdRate = float64(counts[models.ShipmentOnTime]) / float64(delivered)
		}

		type vendorOTD struct {
			VendorID   int     `json:"vendor_id"`
			VendorName string  `json:"vendor_name"`
			OnTime     int     `json:"on_time"`
			Late       int     `json:"late"`
			OTDRate    float64 `json:"otd_rate"`
		}
		byVendorMap := map[int]*vendorOTD{}
		vendorOrder := []int{}
		for _, s := range shipments {
			v, ok := byVendorMap[s.VendorID]
			if !ok {
				v = &vendorOTD{VendorID: s.VendorID, VendorName: s.VendorName}
				byVendorMap[s.VendorID] = v
				vendorOrder = append(vendorOrder, s.VendorID)
			}
			switch s.Status {
			case models.ShipmentOnTime:
				v.OnTime++
			case models.ShipmentLate:
				v.Late++
			}
		}
		byVendor := make([]vendorOTD, 0, len(vendorOrder))
		for _, id := range vendorOrder {
			v := byVendorMap[id]
			if d := v.OnTime + v.Late; d > 0 {
				v.OTDRate = float64(v.OnTime) / float64(d)
			}
			byVendor = append(byVendor, *v)
		}

		c.JSON(http.StatusOK, gin.H{
			"from":      from.Format("2006-01-02"),
			"to":        to.Format("2006-01-02"),
			"total":     len(shipments),
			"on_time":   counts[models.ShipmentOnTime],
			"late":      counts[models.ShipmentLate],
			"at_risk":   counts[models.ShipmentAtRisk],
			"pending":   counts[models.ShipmentPending],
			"delivered": delivered,
			"otd_rate":  otdRate,
			"by_vendor": byVendor,
		})
	}
}
