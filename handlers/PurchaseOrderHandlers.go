package handlers

import (
	"backend/models"
	"backend/repository"
	"database/sql"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// GetPurchaseOrdersHandler godoc
// @Summary      List purchase orders
// @Description  List PO headers with vendor and client names, filtered and paginated
// @Tags         purchase-orders
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        vendor_id     query  int     false  "Filter by vendor"
// @Param        client_id     query  int     false  "Filter by client"
// @Param        brand         query  string  false  "Filter by brand"
// @Param        merchandiser  query  string  false  "Filter by merchandiser"
// @Param        order_type    query  string  false  "standard, MTO or SPO"
// @Param        status        query  string  false  "Filter by status"
// @Param        from          query  string  false  "Order date from (YYYY-MM-DD)"
// @Param        to            query  string  false  "Order date to (YYYY-MM-DD)"
// @Param        page          query  int     false  "Page"
// @Param        limit         query  int     false  "Limit"
// @Success      200  {object}  object
// @Failure      401  {object}  models.ErrorResponse
// @Router       /api/purchase-orders [get]
func GetPurchaseOrdersHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if _, _, err := GetSessionDetails(db, sessionID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		where := " WHERE 1=1"
		args := []interface{}{}
		argPos := 1

		addFilter := func(clause string, value interface{}) {
			where += fmt.Sprintf(clause, argPos)
			args = append(args, value)
			argPos++
		}

		if v := c.Query("vendor_id"); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				addFilter(" AND po.vendor_id = $%d", id)
			}
		}
		if v := c.Query("client_id"); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				addFilter(" AND po.client_id = $%d", id)
			}
		}
		if v := c.Query("brand"); v != "" {
			addFilter(" AND po.brand = $%d", v)
		}
		if v := c.Query("merchandiser"); v != "" {
			addFilter(" AND po.merchandiser = $%d", v)
		}
		if v := c.Query("order_type"); v != "" {
			addFilter(" AND po.order_type = $%d", v)
		}
		if v := c.Query("status"); v != "" {
			addFilter(" AND po.status = $%d", v)
		}
		if v := c.Query("from"); v != "" {
			if t, err := repository.ParseDateCell(v); err == nil {
				addFilter(" AND po.order_date >= $%d", t)
			}
		}
		if v := c.Query("to"); v != "" {
			if t, err := repository.ParseDateCell(v); err == nil {
				addFilter(" AND po.order_date <= $%d", t)
			}
		}

		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil || page < 1 {
			page = 1
		}
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "25"))
		if err != nil || limit < 1 {
			limit = 25
		}
		offset := (page - 1) * limit

		var totalRecords int
		countQuery := `SELECT COUNT(*) FROM purchase_orders po` + where
		if err := db.QueryRow(countQuery, args...).Scan(&totalRecords); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count purchase orders", "details": err.Error()})
			return
		}

		query := `
			SELECT po.po_id, po.po_number, po.vendor_id, v.name, po.client_id, COALESCE(cl.name, ''),
			       po.brand, po.merchandiser, po.order_date, po.hod, po.order_type, po.status,
			       po.total_units, po.total_value, po.created_at, po.updated_at
			FROM purchase_orders po
			JOIN vendors v ON v.vendor_id = po.vendor_id
			LEFT JOIN clients cl ON cl.client_id = po.client_id` + where +
			fmt.Sprintf(" ORDER BY po.order_date DESC, po.po_number LIMIT $%d OFFSET $%d", argPos, argPos+1)
		args = append(args, limit, offset)

		rows, err := db.Query(query, args...)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch purchase orders", "details": err.Error()})
			return
		}
		defer rows.Close()

		orders := []models.PurchaseOrder{}
		for rows.Next() {
			var po models.PurchaseOrder
			var clientID sql.NullInt64
			if err := rows.Scan(&po.POID, &po.PONumber, &po.VendorID, &po.VendorName, &clientID, &po.ClientName,
				&po.Brand, &po.Merchandiser, &po.OrderDate, &po.HOD, &po.OrderType, &po.Status,
				&po.TotalUnits, &po.TotalValue, &po.CreatedAt, &po.UpdatedAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan purchase order", "details": err.Error()})
				return
			}
			po.ClientID = int(clientID.Int64)
			orders = append(orders, po)
		}

		totalPages := int(math.Ceil(float64(totalRecords) / float64(limit)))
		c.JSON(http.StatusOK, gin.H{
			"data": orders,
			"pagination": gin.H{
				"page":          page,
				"limit":         limit,
				"total_records": totalRecords,
				"total_pages":   totalPages,
				"has_next":      page < totalPages,
				"has_prev":      page > 1,
			},
		})
	}
}

// GetPurchaseOrderHandler godoc
// @Summary      Get a purchase order
// @Description  Full PO detail with line items, shipments and inspections
// @Tags         purchase-orders
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        id   path      int  true  "PO ID"
// @Success      200  {object}  object
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/purchase-orders/{id} [get]
func GetPurchaseOrderHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if _, _, err := GetSessionDetails(db, sessionID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid PO ID"})
			return
		}

		var po models.PurchaseOrder
		var clientID sql.NullInt64
		err = db.QueryRow(`
			SELECT po.po_id, po.po_number, po.vendor_id, v.name, po.client_id, COALESCE(cl.name, ''),
			       po.brand, po.merchandiser, po.order_date, po.hod, po.order_type, po.status,
			       po.total_units, po.total_value, po.created_at, po.updated_at
			FROM purchase_orders po
			JOIN vendors v ON v.vendor_id = po.vendor_id
			LEFT JOIN clients cl ON cl.client_id = po.client_id
			WHERE po.po_id = $1`, id).Scan(
			&po.POID, &po.PONumber, &po.VendorID, &po.VendorName, &clientID, &po.ClientName,
			&po.Brand, &po.Merchandiser, &po.OrderDate, &po.HOD, &po.OrderType, &po.Status,
			&po.TotalUnits, &po.TotalValue, &po.CreatedAt, &po.UpdatedAt)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Purchase order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch purchase order", "details": err.Error()})
			return
		}
		po.ClientID = int(clientID.Int64)

		lineRows, err := db.Query(`
			SELECT item_id, po_id, sku, description, quantity, unit_price, line_total
			FROM po_line_items WHERE po_id = $1 ORDER BY item_id`, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch line items", "details": err.Error()})
			return
		}
		defer lineRows.Close()
		for lineRows.Next() {
			var li models.POLineItem
			var desc sql.NullString
			if err := lineRows.Scan(&li.ItemID, &li.POID, &li.SKU, &desc, &li.Quantity, &li.UnitPrice, &li.LineTotal); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan line item", "details": err.Error()})
				return
			}
			li.Description = desc.String
			po.LineItems = append(po.LineItems, li)
		}

		shipments, err := fetchShipmentsForPO(db, po.PONumber)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch shipments", "details": err.Error()})
			return
		}

		inspections := []models.Inspection{}
		inspRows, err := db.Query(`
			SELECT inspection_id, po_number, vendor_id, type, scheduled_date, actual_date,
			       result, inspector, defects_major, defects_minor, created_at, updated_at
			FROM inspections WHERE po_number = $1 ORDER BY scheduled_date`, po.PONumber)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inspections", "details": err.Error()})
			return
		}
		defer inspRows.Close()
		for inspRows.Next() {
			var ins models.Inspection
			var inspector sql.NullString
			if err := inspRows.Scan(&ins.InspectionID, &ins.PONumber, &ins.VendorID, &ins.Type,
				&ins.ScheduledDate, &ins.ActualDate, &ins.Result, &inspector,
				&ins.DefectsMajor, &ins.DefectsMinor, &ins.CreatedAt, &ins.UpdatedAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan inspection", "details": err.Error()})
				return
			}
			ins.Inspector = inspector.String
			inspections = append(inspections, ins)
		}

		c.JSON(http.StatusOK, gin.H{
			"purchase_order": po,
			"shipments":      shipments,
			"inspections":    inspections,
		})
	}
}

// CreatePurchaseOrderHandler godoc
// @Summary      Create a purchase order
// @Description  Create a PO header with line items. Totals are computed from the lines.
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        po   body      models.PurchaseOrder  true  "Purchase order"
// @Success      201  {object}  models.PurchaseOrder
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/purchase-orders [post]
func CreatePurchaseOrderHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		session, userName, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		var po models.PurchaseOrder
		if err := c.ShouldBindJSON(&po); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}
		if po.VendorID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "vendor_id is required"})
			return
		}
		if po.HOD.IsZero() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "hod is required"})
			return
		}
		if po.PONumber == "" {
			po.PONumber = repository.GeneratePONumber()
		}
		if po.OrderType == "" {
			po.OrderType = "standard"
		}
		if po.OrderType != "standard" && po.OrderType != "MTO" && po.OrderType != "SPO" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "order_type must be standard, MTO or SPO"})
			return
		}
		if po.Status == "" {
			po.Status = "open"
		}
		if po.OrderDate.IsZero() {
			po.OrderDate = time.Now().UTC()
		}

		// Totals come from the lines, never from the client.
		po.TotalUnits = 0
		po.TotalValue = 0
		for i := range po.LineItems {
			li := &po.LineItems[i]
			if strings.TrimSpace(li.SKU) == "" || li.Quantity <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "each line item needs a SKU and a positive quantity"})
				return
			}
			li.LineTotal = float64(li.Quantity) * li.UnitPrice
			po.TotalUnits += li.Quantity
			po.TotalValue += li.LineTotal
		}

		tx, err := db.Begin()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction", "details": err.Error()})
			return
		}
		defer tx.Rollback()

		err = tx.QueryRow(`
			INSERT INTO purchase_orders (po_number, vendor_id, client_id, brand, merchandiser,
				order_date, hod, order_type, status, total_units, total_value,
				created_by, updated_by, created_at, updated_at)
			VALUES ($1, $2, NULLIF($3, 0), $4, $5, $6, $7, $8, $9, $10, $11, $12, $12, NOW(), NOW())
			RETURNING po_id, created_at, updated_at`,
			po.PONumber, po.VendorID, po.ClientID, po.Brand, po.Merchandiser,
			po.OrderDate, po.HOD, po.OrderType, po.Status, po.TotalUnits, po.TotalValue,
			userName).Scan(&po.POID, &po.CreatedAt, &po.UpdatedAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create purchase order", "details": err.Error()})
			return
		}

		for i := range po.LineItems {
			li := &po.LineItems[i]
			li.POID = po.POID
			err = tx.QueryRow(`
				INSERT INTO po_line_items (po_id, sku, description, quantity, unit_price, line_total)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING item_id`,
				li.POID, li.SKU, li.Description, li.Quantity, li.UnitPrice, li.LineTotal).Scan(&li.ItemID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create line item", "details": err.Error()})
				return
			}
		}

		if err := tx.Commit(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit purchase order", "details": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, po)

		log := models.ActivityLog{
			EventContext: "PurchaseOrder",
			EventName:    "Create",
			Description:  fmt.Sprintf("Created purchase order %s", po.PONumber),
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
			VendorID:     po.VendorID,
		}
		_ = SaveActivityLog(db, log)
	}
}

// UpdatePurchaseOrderHandler godoc
// @Summary      Update a purchase order
// @Description  Update the PO header. Line items are replaced when provided.
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        id   path      int                   true  "PO ID"
// @Param        po   body      models.PurchaseOrder  true  "Purchase order"
// @Success      200  {object}  models.MessageResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/purchase-orders/{id} [put]
func UpdatePurchaseOrderHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		session, userName, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid PO ID"})
			return
		}

		var po models.PurchaseOrder
		if err := c.ShouldBindJSON(&po); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		tx, err := db.Begin()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction", "details": err.Error()})
			return
		}
		defer tx.Rollback()

		if len(po.LineItems) > 0 {
			po.TotalUnits = 0
			po.TotalValue = 0
			for i := range po.LineItems {
				li := &po.LineItems[i]
				li.LineTotal = float64(li.Quantity) * li.UnitPrice
				po.TotalUnits += li.Quantity
				po.TotalValue += li.LineTotal
			}
			if _, err := tx.Exec(`DELETE FROM po_line_items WHERE po_id = $1`, id); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to replace line items", "details": err.Error()})
				return
			}
			for _, li := range po.LineItems {
				if _, err := tx.Exec(`
					INSERT INTO po_line_items (po_id, sku, description, quantity, unit_price, line_total)
					VALUES ($1, $2, $3, $4, $5, $6)`,
					id, li.SKU, li.Description, li.Quantity, li.UnitPrice, li.LineTotal); err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to insert line item", "details": err.Error()})
					return
				}
			}
		}

		res, err := tx.Exec(`
			UPDATE purchase_orders
			SET client_id = NULLIF($1, 0), brand = $2, merchandiser = $3, order_date = $4, hod = $5,
			    order_type = $6, status = $7,
			    total_units = CASE WHEN $8 > 0 THEN $8 ELSE total_units END,
			    total_value = CASE WHEN $9 > 0 THEN $9 ELSE total_value END,
			    updated_by = $10, updated_at = NOW()
			WHERE po_id = $11`,
			po.ClientID, po.Brand, po.Merchandiser, po.OrderDate, po.HOD,
			po.OrderType, po.Status, po.TotalUnits, po.TotalValue, userName, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update purchase order", "details": err.Error()})
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Purchase order not found"})
			return
		}

		if err := tx.Commit(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit update", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Purchase order updated successfully"})

		log := models.ActivityLog{
			EventContext: "PurchaseOrder",
			EventName:    "Update",
			Description:  fmt.Sprintf("Updated purchase order %d", id),
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
			VendorID:     po.VendorID,
		}
		_ = SaveActivityLog(db, log)
	}
}

// DeletePurchaseOrderHandler godoc
// @Summary      Delete a purchase order
// @Description  Delete a PO and its line items. POs with shipments cannot be deleted.
// @Tags         purchase-orders
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        id   path      int  true  "PO ID"
// @Success      200  {object}  models.MessageResponse
// @Failure      409  {object}  models.ErrorResponse
// @Router       /api/purchase-orders/{id} [delete]
func DeletePurchaseOrderHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		session, userName, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid PO ID"})
			return
		}

		var poNumber string
		var vendorID int
		err = db.QueryRow(`SELECT po_number, vendor_id FROM purchase_orders WHERE po_id = $1`, id).Scan(&poNumber, &vendorID)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Purchase order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch purchase order", "details": err.Error()})
			return
		}

		var shipmentCount int
		if err := db.QueryRow(`SELECT COUNT(*) FROM shipments WHERE po_number = $1`, poNumber).Scan(&shipmentCount); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check shipments", "details": err.Error()})
			return
		}
		if shipmentCount > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Purchase order has shipments and cannot be deleted"})
			return
		}

		tx, err := db.Begin()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction", "details": err.Error()})
			return
		}
		defer tx.Rollback()

		if _, err := tx.Exec(`DELETE FROM po_line_items WHERE po_id = $1`, id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete line items", "details": err.Error()})
			return
		}
		if _, err := tx.Exec(`DELETE FROM purchase_orders WHERE po_id = $1`, id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete purchase order", "details": err.Error()})
			return
		}
		if err := tx.Commit(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit delete", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Purchase order deleted successfully"})

		log := models.ActivityLog{
			EventContext: "PurchaseOrder",
			EventName:    "Delete",
			Description:  fmt.Sprintf("Deleted purchase order %s", poNumber),
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
			VendorID:     vendorID,
		}
		_ = SaveActivityLog(db, log)
	}
}
