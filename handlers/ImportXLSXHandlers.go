package handlers

import (
	"backend/models"
	"backend/repository"
	"backend/storage"
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// readWorkbookRows pulls the rows of the first sheet of an uploaded xlsx.
func readWorkbookRows(c *gin.Context) ([][]string, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("file not found")
	}
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("unable to open file")
	}
	defer src.Close()

	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("not a valid xlsx file: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %v", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet has no data rows")
	}
	return rows, nil
}

// columnIndices maps normalized header names to their positions. Vendor
// spreadsheets are inconsistent about case and spacing.
func columnIndices(header []string) map[string]int {
	indices := make(map[string]int)
	for i, col := range header {
		key := strings.ToLower(strings.TrimSpace(col))
		key = strings.ReplaceAll(key, " ", "_")
		if key != "" {
			indices[key] = i
		}
	}
	return indices
}

func requireColumns(indices map[string]int, required ...string) error {
	for _, col := range required {
		if _, ok := indices[col]; !ok {
			return fmt.Errorf("missing required column: %s", col)
		}
	}
	return nil
}

// cellValue returns the trimmed cell at idx, tolerating short rows.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func optionalCell(row []string, indices map[string]int, name string) string {
	idx, ok := indices[name]
	if !ok {
		return ""
	}
	return cellValue(row, idx)
}

// ImportPurchaseOrdersHandler godoc
// @Summary      Import purchase orders from xlsx
// @Description  Rows sharing a PO number become one PO with multiple lines. Unknown vendors and duplicate PO numbers are skipped with warnings.
// @Tags         imports
// @Accept       multipart/form-data
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        file  formData  file  true  "xlsx file"
// @Success      200  {object}  models.ImportResult
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/imports/purchase-orders [post]
func ImportPurchaseOrdersHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		session, userName, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		rows, err := readWorkbookRows(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		indices := columnIndices(rows[0])
		if err := requireColumns(indices, "po_number", "vendor", "hod", "sku", "quantity"); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		type poGroup struct {
			po    models.PurchaseOrder
			valid bool
		}
		groups := map[string]*poGroup{}
		order := []string{}
		result := models.ImportResult{Warnings: []string{}}

		for i, row := range rows[1:] {
			rowNum := i + 2
			poNumber := cellValue(row, indices["po_number"])
			vendorName := cellValue(row, indices["vendor"])
			sku := cellValue(row, indices["sku"])
			if poNumber == "" || vendorName == "" || sku == "" {
				result.Skipped++
				result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: missing po_number, vendor or sku", rowNum))
				continue
			}

			qty, err := strconv.Atoi(cellValue(row, indices["quantity"]))
			if err != nil || qty <= 0 {
				result.Skipped++
				result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: invalid quantity", rowNum))
				continue
			}

			group, seen := groups[poNumber]
			if !seen {
				vendorID, err := storage.ResolveVendorID(db, vendorName)
				if err != nil {
					result.Skipped++
					result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: unknown vendor %q", rowNum, vendorName))
					groups[poNumber] = &poGroup{valid: false}
					continue
				}

				hod, err := repository.ParseDateCell(cellValue(row, indices["hod"]))
				if err != nil {
					result.Skipped++
					result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: %v", rowNum, err))
					groups[poNumber] = &poGroup{valid: false}
					continue
				}

				po := models.PurchaseOrder{
					PONumber:     poNumber,
					VendorID:     vendorID,
					Brand:        optionalCell(row, indices, "brand"),
					Merchandiser: optionalCell(row, indices, "merchandiser"),
					HOD:          hod,
					OrderType:    optionalCell(row, indices, "order_type"),
					Status:       "open",
					OrderDate:    time.Now().UTC(),
				}
				if po.OrderType == "" {
					po.OrderType = "standard"
				}
				if v := optionalCell(row, indices, "order_date"); v != "" {
					if t, err := repository.ParseDateCell(v); err == nil {
						po.OrderDate = t
					}
				}
				if clientName := optionalCell(row, indices, "client"); clientName != "" {
					var clientID int
					if err := db.QueryRow(`SELECT client_id FROM clients WHERE LOWER(name) = LOWER($1)`, clientName).Scan(&clientID); err == nil {
						po.ClientID = clientID
					} else {
						result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: unknown client %q", rowNum, clientName))
					}
				}

				group = &poGroup{po: po, valid: true}
				groups[poNumber] = group
				order = append(order, poNumber)
			}
			if !group.valid {
				result.Skipped++
				continue
			}

			unitPrice := 0.0
			if v := optionalCell(row, indices, "unit_price"); v != "" {
				if p, err := strconv.ParseFloat(v, 64); err == nil {
					unitPrice = p
				}
			}
			group.po.LineItems = append(group.po.LineItems, models.POLineItem{
				SKU:         sku,
				Description: optionalCell(row, indices, "description"),
				Quantity:    qty,
				UnitPrice:   unitPrice,
				LineTotal:   float64(qty) * unitPrice,
			})
		}

		tx, err := db.Begin()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start transaction"})
			return
		}
		defer tx.Rollback()

		for _, poNumber := range order {
			group := groups[poNumber]
			if !group.valid || len(group.po.LineItems) == 0 {
				continue
			}
			po := group.po

			var exists bool
			if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM purchase_orders WHERE po_number = $1)`, po.PONumber).Scan(&exists); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check for duplicates", "details": err.Error()})
				return
			}
			if exists {
				result.Skipped += len(po.LineItems)
				result.Warnings = append(result.Warnings, fmt.Sprintf("PO %s already exists", po.PONumber))
				continue
			}

			for _, li := range po.LineItems {
				po.TotalUnits += li.Quantity
				po.TotalValue += li.LineTotal
			}

			var poID int
			err = tx.QueryRow(`
				INSERT INTO purchase_orders (po_number, vendor_id, client_id, brand, merchandiser,
					order_date, hod, order_type, status, total_units, total_value,
					created_by, updated_by, created_at, updated_at)
				VALUES ($1, $2, NULLIF($3, 0), $4, $5, $6, $7, $8, $9, $10, $11, $12, $12, NOW(), NOW())
				RETURNING po_id`,
				po.PONumber, po.VendorID, po.ClientID, po.Brand, po.Merchandiser,
				po.OrderDate, po.HOD, po.OrderType, po.Status, po.TotalUnits, po.TotalValue,
				userName).Scan(&poID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to insert PO", "details": err.Error()})
				return
			}
			for _, li := range po.LineItems {
				if _, err := tx.Exec(`
					INSERT INTO po_line_items (po_id, sku, description, quantity, unit_price, line_total)
					VALUES ($1, $2, $3, $4, $5, $6)`,
					poID, li.SKU, li.Description, li.Quantity, li.UnitPrice, li.LineTotal); err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to insert line item", "details": err.Error()})
					return
				}
				result.Imported++
			}
		}

		if err := tx.Commit(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to commit import", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, result)

		log := models.ActivityLog{
			EventContext: "Import",
			EventName:    "PurchaseOrders",
			Description:  fmt.Sprintf("Imported %d PO lines, skipped %d", result.Imported, result.Skipped),
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
		}
		_ = SaveActivityLog(db, log)
	}
}

// ImportShipmentsHandler godoc
// @Summary      Import shipments from xlsx
// @Description  Booking rows keyed by PO number. Rows for unknown POs are skipped with warnings.
// @Tags         imports
// @Accept       multipart/form-data
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        file  formData  file  true  "xlsx file"
// @Success      200  {object}  models.ImportResult
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/imports/shipments [post]
func ImportShipmentsHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		session, userName, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		rows, err := readWorkbookRows(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		indices := columnIndices(rows[0])
		if err := requireColumns(indices, "po_number", "quantity"); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result := models.ImportResult{Warnings: []string{}}

		tx, err := db.Begin()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start transaction"})
			return
		}
		defer tx.Rollback()

		for i, row := range rows[1:] {
			rowNum := i + 2
			poNumber := cellValue(row, indices["po_number"])
			if poNumber == "" {
				result.Skipped++
				result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: missing po_number", rowNum))
				continue
			}

			var vendorID int
			var poHOD time.Time
			err := tx.QueryRow(`SELECT vendor_id, hod FROM purchase_orders WHERE po_number = $1`, poNumber).Scan(&vendorID, &poHOD)
			if err == sql.ErrNoRows {
				result.Skipped++
				result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: unknown PO %q", rowNum, poNumber))
				continue
			}
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to look up PO", "details": err.Error()})
				return
			}

			qty, err := strconv.Atoi(cellValue(row, indices["quantity"]))
			if err != nil || qty <= 0 {
				result.Skipped++
				result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: invalid quantity", rowNum))
				continue
			}

			hod := poHOD
			if v := optionalCell(row, indices, "hod"); v != "" {
				if t, err := repository.ParseDateCell(v); err == nil {
					hod = t
				}
			}
			parseOptionalDate := func(name string) *time.Time {
				if v := optionalCell(row, indices, name); v != "" {
					if t, err := repository.ParseDateCell(v); err == nil {
						return &t
					}
					result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: unparseable %s", rowNum, name))
				}
				return nil
			}
			handoverAt := parseOptionalDate("handover_date")
			etd := parseOptionalDate("etd")
			eta := parseOptionalDate("eta")

			ptsStatus := optionalCell(row, indices, "pts_status")
			if ptsStatus == "" {
				ptsStatus = "booked"
			}

			_, err = tx.Exec(`
				INSERT INTO shipments (po_number, vendor_id, carrier, pts_status, hod, handover_at,
					etd, eta, destination, quantity, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())`,
				poNumber, vendorID, optionalCell(row, indices, "carrier"), ptsStatus, hod, handoverAt,
				etd, eta, optionalCell(row, indices, "destination"), qty)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to insert shipment", "details": err.Error()})
				return
			}
			result.Imported++
		}

		if err := tx.Commit(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to commit import", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, result)

		log := models.ActivityLog{
			EventContext: "Import",
			EventName:    "Shipments",
			Description:  fmt.Sprintf("Imported %d shipments, skipped %d", result.Imported, result.Skipped),
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
		}
		_ = SaveActivityLog(db, log)
	}
}

// ImportQualityTestsHandler godoc
// @Summary      Import quality tests from xlsx
// @Tags         imports
// @Accept       multipart/form-data
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        file  formData  file  true  "xlsx file"
// @Success      200  {object}  models.ImportResult
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/imports/quality-tests [post]
func ImportQualityTestsHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		session, userName, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		rows, err := readWorkbookRows(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		indices := columnIndices(rows[0])
		if err := requireColumns(indices, "vendor", "test_type", "issue_date"); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result := models.ImportResult{Warnings: []string{}}

		tx, err := db.Begin()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start transaction"})
			return
		}
		defer tx.Rollback()

		for i, row := range rows[1:] {
			rowNum := i + 2
			vendorName := cellValue(row, indices["vendor"])
			testType := cellValue(row, indices["test_type"])
			if vendorName == "" || testType == "" {
				result.Skipped++
				result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: missing vendor or test_type", rowNum))
				continue
			}

			vendorID, err := storage.ResolveVendorID(db, vendorName)
			if err != nil {
				result.Skipped++
				result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: unknown vendor %q", rowNum, vendorName))
				continue
			}

			issueDate, err := repository.ParseDateCell(cellValue(row, indices["issue_date"]))
			if err != nil {
				result.Skipped++
				result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: %v", rowNum, err))
				continue
			}

			var expiry *time.Time
			if v := optionalCell(row, indices, "expiry"); v != "" {
				if t, err := repository.ParseDateCell(v); err == nil {
					expiry = &t
				} else {
					result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: unparseable expiry", rowNum))
				}
			}

			testResult := strings.ToLower(optionalCell(row, indices, "result"))
			if testResult == "" {
				testResult = "pending"
			}
			if testResult != "pending" && testResult != "pass" && testResult != "fail" {
				result.Skipped++
				result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: invalid result %q", rowNum, testResult))
				continue
			}

			_, err = tx.Exec(`
				INSERT INTO quality_tests (vendor_id, sku, material, test_type, lab, issue_date, expiry, result, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())`,
				vendorID, optionalCell(row, indices, "sku"), optionalCell(row, indices, "material"),
				testType, optionalCell(row, indices, "lab"), issueDate, expiry, testResult)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to insert quality test", "details": err.Error()})
				return
			}
			result.Imported++
		}

		if err := tx.Commit(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to commit import", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, result)

		log := models.ActivityLog{
			EventContext: "Import",
			EventName:    "QualityTests",
			Description:  fmt.Sprintf("Imported %d quality tests, skipped %d", result.Imported, result.Skipped),
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
		}
		_ = SaveActivityLog(db, log)
	}
}

// ImportCapacityHandler godoc
// @Summary      Import capacity allocations from xlsx
// @Description  Upserts reserved units per vendor/brand/month bucket
// @Tags         imports
// @Accept       multipart/form-data
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        file  formData  file  true  "xlsx file"
// @Success      200  {object}  models.ImportResult
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/imports/capacity [post]
func ImportCapacityHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		session, userName, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		rows, err := readWorkbookRows(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		indices := columnIndices(rows[0])
		if err := requireColumns(indices, "vendor", "brand", "month", "reserved"); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result := models.ImportResult{Warnings: []string{}}

		tx, err := db.Begin()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start transaction"})
			return
		}
		defer tx.Rollback()

		for i, row := range rows[1:] {
			rowNum := i + 2
			vendorName := cellValue(row, indices["vendor"])
			brand := cellValue(row, indices["brand"])
			if vendorName == "" || brand == "" {
				result.Skipped++
				result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: missing vendor or brand", rowNum))
				continue
			}

			vendorID, err := storage.ResolveVendorID(db, vendorName)
			if err != nil {
				result.Skipped++
				result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: unknown vendor %q", rowNum, vendorName))
				continue
			}

			month, err := repository.ParseDateCell(cellValue(row, indices["month"]))
			if err != nil {
				result.Skipped++
				result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: %v", rowNum, err))
				continue
			}

			reserved, err := strconv.Atoi(cellValue(row, indices["reserved"]))
			if err != nil || reserved < 0 {
				result.Skipped++
				result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: invalid reserved units", rowNum))
				continue
			}

			_, err = tx.Exec(`
				INSERT INTO vendor_capacity (vendor_id, brand, month, reserved, created_at, updated_at)
				VALUES ($1, $2, $3, $4, NOW(), NOW())
				ON CONFLICT (vendor_id, brand, month)
				DO UPDATE SET reserved = EXCLUDED.reserved, updated_at = NOW()`,
				vendorID, brand, models.MonthStart(month), reserved)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upsert allocation", "details": err.Error()})
				return
			}
			result.Imported++
		}

		if err := tx.Commit(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to commit import", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, result)

		log := models.ActivityLog{
			EventContext: "Import",
			EventName:    "Capacity",
			Description:  fmt.Sprintf("Imported %d capacity buckets, skipped %d", result.Imported, result.Skipped),
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
		}
		_ = SaveActivityLog(db, log)
	}
}

// ImportProjectionsHandler godoc
// @Summary      Import projections from xlsx
// @Description  Each upload gets a batch id. Replaced rows are copied to history first, and every imported value is recorded in history for the drift report. Locked vendor/month buckets are left untouched and counted separately.
// @Tags         imports
// @Accept       multipart/form-data
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        file  formData  file  true  "xlsx file"
// @Success      200  {object}  models.ImportResult
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/imports/projections [post]
func ImportProjectionsHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		session, userName, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		rows, err := readWorkbookRows(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		indices := columnIndices(rows[0])
		if err := requireColumns(indices, "vendor", "sku", "order_month", "quantity"); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		batchID := repository.GenerateBatchID()
		result := models.ImportResult{BatchID: batchID, Warnings: []string{}}
		now := time.Now().UTC()

		tx, err := db.Begin()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start transaction"})
			return
		}
		defer tx.Rollback()

		for i, row := range rows[1:] {
			rowNum := i + 2
			vendorName := cellValue(row, indices["vendor"])
			sku := cellValue(row, indices["sku"])
			if vendorName == "" || sku == "" {
				result.Skipped++
				result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: missing vendor or sku", rowNum))
				continue
			}

			vendorID, err := storage.ResolveVendorID(db, vendorName)
			if err != nil {
				result.Skipped++
				result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: unknown vendor %q", rowNum, vendorName))
				continue
			}

			orderMonth, err := repository.ParseDateCell(cellValue(row, indices["order_month"]))
			if err != nil {
				result.Skipped++
				result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: %v", rowNum, err))
				continue
			}
			orderMonth = models.MonthStart(orderMonth)

			qty, err := strconv.Atoi(cellValue(row, indices["quantity"]))
			if err != nil || qty < 0 {
				result.Skipped++
				result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: invalid quantity", rowNum))
				continue
			}

			var locked bool
			err = tx.QueryRow(`
				SELECT EXISTS(SELECT 1 FROM projection_locks
					WHERE vendor_id = $1 AND date_trunc('month', month) = $2)`,
				vendorID, orderMonth).Scan(&locked)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check lock", "details": err.Error()})
				return
			}
			if locked {
				result.Locked++
				result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: %s is locked for vendor %d", rowNum, orderMonth.Format("Jan 2006"), vendorID))
				continue
			}

			orderType := optionalCell(row, indices, "order_type")
			if orderType == "" {
				orderType = "standard"
			}

			var clientID int
			if clientName := optionalCell(row, indices, "client"); clientName != "" {
				if err := db.QueryRow(`SELECT client_id FROM clients WHERE LOWER(name) = LOWER($1)`, clientName).Scan(&clientID); err != nil {
					result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: unknown client %q", rowNum, clientName))
				}
			}

			// Snapshot the row being replaced before overwriting it.
			var existingID, existingQty int
			err = tx.QueryRow(`
				SELECT projection_id, quantity FROM active_projections
				WHERE vendor_id = $1 AND sku = $2 AND date_trunc('month', order_month) = $3`,
				vendorID, sku, orderMonth).Scan(&existingID, &existingQty)
			switch {
			case err == sql.ErrNoRows:
				err = tx.QueryRow(`
					INSERT INTO active_projections (vendor_id, brand, sku, client_id, order_month,
						quantity, order_type, batch_id, status, created_at, updated_at)
					VALUES ($1, $2, $3, NULLIF($4, 0), $5, $6, $7, $8, 'active', NOW(), NOW())
					RETURNING projection_id`,
					vendorID, optionalCell(row, indices, "brand"), sku, clientID, orderMonth,
					qty, orderType, batchID).Scan(&existingID)
				if err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to insert projection", "details": err.Error()})
					return
				}
			case err != nil:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check projection", "details": err.Error()})
				return
			default:
				_, err = tx.Exec(`
					UPDATE active_projections
					SET quantity = $1, order_type = $2, batch_id = $3, client_id = NULLIF($4, 0),
					    status = 'active', updated_at = NOW()
					WHERE projection_id = $5`,
					qty, orderType, batchID, clientID, existingID)
				if err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update projection", "details": err.Error()})
					return
				}
			}

			// Every batch value lands in history so the drift report can
			// compare consecutive uploads.
			_, err = tx.Exec(`
				INSERT INTO projection_history (projection_id, vendor_id, sku, order_month, quantity, batch_id, recorded_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				existingID, vendorID, sku, orderMonth, qty, batchID, now)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record history", "details": err.Error()})
				return
			}
			result.Imported++
		}

		if err := tx.Commit(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to commit import", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, result)

		log := models.ActivityLog{
			EventContext: "Import",
			EventName:    "Projections",
			Description:  fmt.Sprintf("Imported %d projections (batch %s), skipped %d, locked %d", result.Imported, batchID, result.Skipped, result.Locked),
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
		}
		_ = SaveActivityLog(db, log)
	}
}

// ImportInspectionsHandler godoc
// @Summary      Import inspections from xlsx
// @Description  Rows reference existing POs by PO number; the vendor comes from the PO
// @Tags         imports
// @Accept       multipart/form-data
// @Produce      json
// @Param        Authorization header string true "Session token"
// @Param        file  formData  file  true  "xlsx file"
// @Success      200  {object}  models.ImportResult
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/imports/inspections [post]
func ImportInspectionsHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		session, userName, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		rows, err := readWorkbookRows(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		indices := columnIndices(rows[0])
		if err := requireColumns(indices, "po_number", "type", "scheduled_date"); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result := models.ImportResult{Warnings: []string{}}

		tx, err := db.Begin()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start transaction"})
			return
		}
		defer tx.Rollback()

		for i, row := range rows[1:] {
			rowNum := i + 2
			poNumber := cellValue(row, indices["po_number"])
			insType := strings.ToLower(cellValue(row, indices["type"]))
			if poNumber == "" {
				result.Skipped++
				result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: missing po_number", rowNum))
				continue
			}
			if insType != "inline" && insType != "final" {
				result.Skipped++
				result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: type must be inline or final", rowNum))
				continue
			}

			var vendorID int
			err := db.QueryRow(`SELECT vendor_id FROM purchase_orders WHERE po_number = $1`, poNumber).Scan(&vendorID)
			if err == sql.ErrNoRows {
				result.Skipped++
				result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: unknown PO %q", rowNum, poNumber))
				continue
			}
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to look up PO", "details": err.Error()})
				return
			}

			scheduled, err := repository.ParseDateCell(cellValue(row, indices["scheduled_date"]))
			if err != nil {
				result.Skipped++
				result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: %v", rowNum, err))
				continue
			}

			var actual *time.Time
			if v := optionalCell(row, indices, "actual_date"); v != "" {
				if t, err := repository.ParseDateCell(v); err == nil {
					actual = &t
				} else {
					result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: unparseable actual_date", rowNum))
				}
			}

			insResult := strings.ToLower(optionalCell(row, indices, "result"))
			if insResult == "" {
				insResult = "pending"
			}
			if insResult != "pending" && insResult != "pass" && insResult != "fail" {
				result.Skipped++
				result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: invalid result %q", rowNum, insResult))
				continue
			}

			defectsMajor, _ := strconv.Atoi(optionalCell(row, indices, "defects_major"))
			defectsMinor, _ := strconv.Atoi(optionalCell(row, indices, "defects_minor"))

			_, err = tx.Exec(`
				INSERT INTO inspections (po_number, vendor_id, type, scheduled_date, actual_date,
					result, inspector, defects_major, defects_minor, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())`,
				poNumber, vendorID, insType, scheduled, actual,
				insResult, optionalCell(row, indices, "inspector"), defectsMajor, defectsMinor)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to insert inspection", "details": err.Error()})
				return
			}
			result.Imported++
		}

		if err := tx.Commit(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to commit import", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, result)

		log := models.ActivityLog{
			EventContext: "Import",
			EventName:    "Inspections",
			Description:  fmt.Sprintf("Imported %d inspections, skipped %d", result.Imported, result.Skipped),
			UserName:     userName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
		}
		_ = SaveActivityLog(db, log)
	}
}
