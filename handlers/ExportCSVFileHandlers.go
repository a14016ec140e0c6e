package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"backend/models"
	"backend/repository"
	"backend/services"
	"backend/storage"
	"backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// DownloadPOTemplate godoc
// @Summary      Download PO import template
// @Description  Empty xlsx with the columns the PO import expects
// @Tags         export
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  file  "xlsx file"
// @Router       /api/templates/purchase-orders [get]
func DownloadPOTemplate(c *gin.Context) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []interface{}{"PO Number", "Vendor", "Client", "Brand", "Merchandiser", "Order Date", "HOD", "Order Type", "SKU", "Description", "Quantity", "Unit Price"}
	_ = f.SetSheetRow(sheet, "A1", &header)
	sample := []interface{}{"PO-88412", "Sunrise Apparel Co", "Harbor Home", "Northwind", "Priya Nair", "2024-01-05", "2024-03-20", "standard", "NW-TEE-0042", "Crew neck tee, navy", 2400, 7.20}
	_ = f.SetSheetRow(sheet, "A2", &sample)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment;filename=po_import_template.xlsx")
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing template"})
	}
}

// DownloadProjectionTemplate godoc
// @Summary      Download projection import template
// @Tags         export
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  file  "xlsx file"
// @Router       /api/templates/projections [get]
func DownloadProjectionTemplate(c *gin.Context) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []interface{}{"Vendor", "Client", "Brand", "SKU", "Order Month", "Quantity", "Order Type"}
	_ = f.SetSheetRow(sheet, "A1", &header)
	sample := []interface{}{"Sunrise Apparel Co", "Harbor Home", "Northwind", "NW-TEE-0042", "2024-03", 15000, "standard"}
	_ = f.SetSheetRow(sheet, "A2", &sample)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment;filename=projection_import_template.xlsx")
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing template"})
	}
}

// poExportFilter builds the WHERE tail for the PO export from the query
// string. It accepts the same filters as the purchase order list so an export
// reflects exactly what the list screen shows.
func poExportFilter(values url.Values) (string, []interface{}) {
	where := ""
	args := []interface{}{}
	argPos := 1

	addFilter := func(clause string, value interface{}) {
		where += fmt.Sprintf(clause, argPos)
		args = append(args, value)
		argPos++
	}

	if v := values.Get("vendor_id"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			addFilter(" AND po.vendor_id = $%d", id)
		}
	}
	if v := values.Get("client_id"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			addFilter(" AND po.client_id = $%d", id)
		}
	}
	if v := values.Get("brand"); v != "" {
		addFilter(" AND po.brand = $%d", v)
	}
	if v := values.Get("merchandiser"); v != "" {
		addFilter(" AND po.merchandiser = $%d", v)
	}
	if v := values.Get("order_type"); v != "" {
		addFilter(" AND po.order_type = $%d", v)
	}
	if v := values.Get("status"); v != "" {
		addFilter(" AND po.status = $%d", v)
	}
	if v := values.Get("from"); v != "" {
		if t, err := repository.ParseDateCell(v); err == nil {
			addFilter(" AND po.order_date >= $%d", t)
		}
	}
	if v := values.Get("to"); v != "" {
		if t, err := repository.ParseDateCell(v); err == nil {
			addFilter(" AND po.order_date <= $%d", t)
		}
	}
	return where, args
}

// ExportCSVPurchaseOrders godoc
// @Summary      Export purchase orders as CSV
// @Description  One row per line item, with PO header fields repeated. Accepts the same filters as the purchase order list.
// @Tags         export
// @Produce      text/csv
// @Param        vendor_id     query  int     false  "Filter by vendor"
// @Param        client_id     query  int     false  "Filter by client"
// @Param        brand         query  string  false  "Filter by brand"
// @Param        merchandiser  query  string  false  "Filter by merchandiser"
// @Param        order_type    query  string  false  "standard, mto or spo"
// @Param        status        query  string  false  "Filter by status"
// @Param        from          query  string  false  "Order date from (YYYY-MM-DD)"
// @Param        to            query  string  false  "Order date to (YYYY-MM-DD)"
// @Success      200  {file}  file  "CSV file"
// @Router       /api/export/purchase-orders [get]
func ExportCSVPurchaseOrders(c *gin.Context) {
	db := storage.GetDB()

	where, args := poExportFilter(c.Request.URL.Query())
	query := `
		SELECT po.po_number, v.name, COALESCE(cl.name, ''), po.brand, po.merchandiser,
		       po.order_date, po.hod, po.order_type, po.status,
		       li.sku, COALESCE(li.description, ''), li.quantity, li.unit_price, li.line_total
		FROM purchase_orders po
		JOIN vendors v ON v.vendor_id = po.vendor_id
		LEFT JOIN clients cl ON cl.client_id = po.client_id
		JOIN po_line_items li ON li.po_id = po.po_id
		WHERE 1=1` + where +
		" ORDER BY po.order_date DESC, po.po_number, li.item_id"

	rows, err := db.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching purchase orders"})
		return
	}
	defer rows.Close()

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment;filename=purchase_orders_export.csv")

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	header := []string{"PO Number", "Vendor", "Client", "Brand", "Merchandiser", "Order Date", "HOD", "Order Type", "Status", "SKU", "Description", "Quantity", "Unit Price", "Line Total"}
	if err := writer.Write(header); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing CSV header"})
		return
	}

	for rows.Next() {
		var poNumber, vendor, client, brand, merchandiser, orderType, status, sku, description string
		var orderDate, hod time.Time
		var quantity int
		var unitPrice, lineTotal float64
		if err := rows.Scan(&poNumber, &vendor, &client, &brand, &merchandiser,
			&orderDate, &hod, &orderType, &status,
			&sku, &description, &quantity, &unitPrice, &lineTotal); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning purchase order"})
			return
		}
		row := []string{
			poNumber, vendor, client, brand, merchandiser,
			orderDate.Format("2006-01-02"), hod.Format("2006-01-02"), orderType, status,
			sku, description, strconv.Itoa(quantity),
			fmt.Sprintf("%.2f", unitPrice), fmt.Sprintf("%.2f", lineTotal),
		}
		if err := writer.Write(row); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing CSV row"})
			return
		}
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating purchase orders"})
	}
}

// shipmentExportFilter builds the WHERE tail for the shipment export. The
// status filter is not part of it: status is derived, so callers apply it
// after scanning, the same way the shipment list does.
func shipmentExportFilter(values url.Values) (string, []interface{}) {
	where := ""
	args := []interface{}{}
	argPos := 1

	if v := values.Get("vendor_id"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			where += fmt.Sprintf(" AND s.vendor_id = $%d", argPos)
			args = append(args, id)
			argPos++
		}
	}
	if v := values.Get("po_number"); v != "" {
		where += fmt.Sprintf(" AND s.po_number = $%d", argPos)
		args = append(args, v)
		argPos++
	}
	return where, args
}

// ExportCSVShipments godoc
// @Summary      Export shipments as CSV
// @Description  Includes the derived on-time/late/at-risk/pending status. Accepts the same filters as the shipment list.
// @Tags         export
// @Produce      text/csv
// @Param        vendor_id  query  int     false  "Filter by vendor"
// @Param        po_number  query  string  false  "Filter by PO number"
// @Param        status     query  string  false  "on-time, late, at-risk or pending"
// @Success      200  {file}  file  "CSV file"
// @Router       /api/export/shipments [get]
func ExportCSVShipments(c *gin.Context) {
	db := storage.GetDB()

	where, args := shipmentExportFilter(c.Request.URL.Query())
	rows, err := db.Query(`
		SELECT s.po_number, v.name, COALESCE(s.carrier, ''), COALESCE(s.pts_status, ''),
		       s.hod, s.handover_at, COALESCE(s.destination, ''), s.quantity
		FROM shipments s
		JOIN vendors v ON v.vendor_id = s.vendor_id
		WHERE 1=1`+where+`
		ORDER BY s.hod`, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching shipments"})
		return
	}
	defer rows.Close()

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment;filename=shipments_export.csv")

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	header := []string{"PO Number", "Vendor", "Carrier", "PTS Status", "HOD", "Handover Date", "Destination", "Quantity", "Status"}
	if err := writer.Write(header); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing CSV header"})
		return
	}

	today := time.Now().UTC()
	statusFilter := c.Query("status")
	for rows.Next() {
		var poNumber, vendor, carrier, ptsStatus, destination string
		var hod time.Time
		var handoverAt *time.Time
		var quantity int
		if err := rows.Scan(&poNumber, &vendor, &carrier, &ptsStatus, &hod, &handoverAt, &destination, &quantity); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning shipment"})
			return
		}
		status := models.DeriveShipmentStatus(hod, handoverAt, today)
		// Status is derived, so the filter is applied after the scan.
		if statusFilter != "" && status != statusFilter {
			continue
		}
		handover := ""
		if handoverAt != nil {
			handover = handoverAt.Format("2006-01-02")
		}
		row := []string{
			poNumber, vendor, carrier, ptsStatus,
			hod.Format("2006-01-02"), handover, destination, strconv.Itoa(quantity),
			status,
		}
		if err := writer.Write(row); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing CSV row"})
			return
		}
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating shipments"})
	}
}

// ExportCSVProjections godoc
// @Summary      Export projections as CSV
// @Tags         export
// @Produce      text/csv
// @Param        status  query  string  false  "active, matched or expired"
// @Success      200  {file}  file  "CSV file"
// @Router       /api/export/projections [get]
func ExportCSVProjections(c *gin.Context) {
	db := storage.GetDB()

	query := `
		SELECT v.name, p.brand, p.sku, p.order_month, p.quantity, p.order_type, p.batch_id, p.status
		FROM active_projections p
		JOIN vendors v ON v.vendor_id = p.vendor_id
		WHERE 1=1`
	args := []interface{}{}
	if v := c.Query("status"); v != "" {
		query += " AND p.status = $1"
		args = append(args, v)
	}
	query += " ORDER BY p.order_month, v.name, p.sku"

	rows, err := db.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching projections"})
		return
	}
	defer rows.Close()

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment;filename=projections_export.csv")

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	header := []string{"Vendor", "Brand", "SKU", "Order Month", "Quantity", "Order Type", "Batch", "Status"}
	if err := writer.Write(header); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing CSV header"})
		return
	}

	for rows.Next() {
		var vendor, brand, sku, orderType, batchID, status string
		var orderMonth time.Time
		var quantity int
		if err := rows.Scan(&vendor, &brand, &sku, &orderMonth, &quantity, &orderType, &batchID, &status); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning projection"})
			return
		}
		row := []string{vendor, brand, sku, orderMonth.Format("2006-01"), strconv.Itoa(quantity), orderType, batchID, status}
		if err := writer.Write(row); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing CSV row"})
			return
		}
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating projections"})
	}
}

// ExportCSVCapacityReport godoc
// @Summary      Export the capacity reconciliation report as CSV
// @Tags         export
// @Produce      text/csv
// @Param        vendor_id  query  int     true   "Vendor"
// @Param        brand      query  string  true   "Brand"
// @Param        from       query  string  false  "Start month (YYYY-MM)"
// @Success      200  {file}  file  "CSV file"
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/export/capacity-report [get]
func ExportCSVCapacityReport(c *gin.Context) {
	db := storage.GetDB()

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
		if t, err := repository.ParseDateCell(v); err == nil {
			from = t
		}
	}

	ctx, cancel := utils.GetSlowQueryContext(c.Request.Context())
	defer cancel()

	report, err := services.NewCapacityService(db).Report(ctx, vendorID, brand, from)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error building capacity report"})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment;filename=capacity_report.csv")

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	header := []string{"Month", "Reserved", "Confirmed", "Projected", "MTO/SPO", "Expired", "Balance", "Rolling Balance", "Utilization", "Over-allocated"}
	if err := writer.Write(header); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing CSV header"})
		return
	}

	for _, m := range report.Months {
		row := []string{
			m.Month.Format("2006-01"),
			m.Reserved.String(), m.Confirmed.String(), m.Projected.String(),
			m.MTOSPO.String(), m.Expired.String(),
			m.Balance.String(), m.Rolling.String(),
			fmt.Sprintf("%.2f", m.Utilization),
			strconv.FormatBool(m.OverAllocated),
		}
		if err := writer.Write(row); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing CSV row"})
			return
		}
	}
}

// DownloadShipmentTemplate godoc
// @Summary      Download shipment import template
// @Tags         export
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  file  "xlsx file"
// @Router       /api/templates/shipments [get]
func DownloadShipmentTemplate(c *gin.Context) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []interface{}{"PO Number", "Carrier", "PTS Status", "Handover Date", "ETD", "ETA", "Destination", "Quantity"}
	_ = f.SetSheetRow(sheet, "A1", &header)
	sample := []interface{}{"PO-88412", "Maersk", "booked", "2024-03-18", "2024-03-22", "2024-04-19", "Rotterdam", 2400}
	_ = f.SetSheetRow(sheet, "A2", &sample)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment;filename=shipment_import_template.xlsx")
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing template"})
	}
}

// DownloadInspectionTemplate godoc
// @Summary      Download inspection import template
// @Tags         export
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  file  "xlsx file"
// @Router       /api/templates/inspections [get]
func DownloadInspectionTemplate(c *gin.Context) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []interface{}{"PO Number", "Type", "Scheduled Date", "Actual Date", "Result", "Inspector", "Defects Major", "Defects Minor"}
	_ = f.SetSheetRow(sheet, "A1", &header)
	sample := []interface{}{"PO-88412", "final", "2024-03-10", "2024-03-10", "pass", "R. Mehta", 0, 3}
	_ = f.SetSheetRow(sheet, "A2", &sample)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment;filename=inspection_import_template.xlsx")
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing template"})
	}
}

// DownloadQualityTestTemplate godoc
// @Summary      Download quality test import template
// @Tags         export
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  file  "xlsx file"
// @Router       /api/templates/quality-tests [get]
func DownloadQualityTestTemplate(c *gin.Context) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []interface{}{"Vendor", "SKU", "Material", "Test Type", "Lab", "Issue Date", "Expiry", "Result"}
	_ = f.SetSheetRow(sheet, "A1", &header)
	sample := []interface{}{"Sunrise Apparel Co", "NW-TEE-0042", "cotton jersey 180gsm", "AZO dyes", "SGS Shanghai", "2024-01-08", "2025-01-08", "pass"}
	_ = f.SetSheetRow(sheet, "A2", &sample)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment;filename=quality_test_import_template.xlsx")
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing template"})
	}
}

// DownloadCapacityTemplate godoc
// @Summary      Download capacity import template
// @Tags         export
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  file  "xlsx file"
// @Router       /api/templates/capacity [get]
func DownloadCapacityTemplate(c *gin.Context) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []interface{}{"Vendor", "Brand", "Month", "Reserved"}
	_ = f.SetSheetRow(sheet, "A1", &header)
	sample := []interface{}{"Sunrise Apparel Co", "Northwind", "2024-03", 30000}
	_ = f.SetSheetRow(sheet, "A2", &sample)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment;filename=capacity_import_template.xlsx")
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing template"})
	}
}

// ExportCSVInspections godoc
// @Summary      Export inspections as CSV
// @Tags         export
// @Produce      text/csv
// @Param        result  query  string  false  "pending, pass or fail"
// @Success      200  {file}  file  "CSV file"
// @Router       /api/export/inspections [get]
func ExportCSVInspections(c *gin.Context) {
	db := storage.GetDB()

	query := `
		SELECT i.po_number, v.name, i.type, i.scheduled_date, i.actual_date,
		       i.result, COALESCE(i.inspector, ''), i.defects_major, i.defects_minor
		FROM inspections i
		JOIN vendors v ON v.vendor_id = i.vendor_id
		WHERE 1=1`
	args := []interface{}{}
	if v := c.Query("result"); v != "" {
		query += " AND i.result = $1"
		args = append(args, v)
	}
	query += " ORDER BY i.scheduled_date DESC"

	rows, err := db.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching inspections"})
		return
	}
	defer rows.Close()

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment;filename=inspections_export.csv")

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	header := []string{"PO Number", "Vendor", "Type", "Scheduled Date", "Actual Date", "Result", "Inspector", "Defects Major", "Defects Minor"}
	if err := writer.Write(header); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing CSV header"})
		return
	}

	for rows.Next() {
		var poNumber, insType, result, inspector string
		var scheduled time.Time
		var actual *time.Time
		var vendor string
		var major, minor int
		if err := rows.Scan(&poNumber, &vendor, &insType, &scheduled, &actual, &result, &inspector, &major, &minor); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning inspection"})
			return
		}
		actualStr := ""
		if actual != nil {
			actualStr = actual.Format("2006-01-02")
		}
		row := []string{
			poNumber, vendor, insType, scheduled.Format("2006-01-02"), actualStr,
			result, inspector, strconv.Itoa(major), strconv.Itoa(minor),
		}
		if err := writer.Write(row); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing CSV row"})
			return
		}
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating inspections"})
	}
}

// ExportCSVQualityTests godoc
// @Summary      Export quality tests as CSV
// @Tags         export
// @Produce      text/csv
// @Param        vendor_id  query  int  false  "Filter by vendor"
// @Success      200  {file}  file  "CSV file"
// @Router       /api/export/quality-tests [get]
func ExportCSVQualityTests(c *gin.Context) {
	db := storage.GetDB()

	query := `
		SELECT v.name, COALESCE(q.sku, ''), COALESCE(q.material, ''), q.test_type,
		       COALESCE(q.lab, ''), q.issue_date, q.expiry, q.result
		FROM quality_tests q
		JOIN vendors v ON v.vendor_id = q.vendor_id
		WHERE 1=1`
	args := []interface{}{}
	if v := c.Query("vendor_id"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			query += " AND q.vendor_id = $1"
			args = append(args, id)
		}
	}
	query += " ORDER BY q.issue_date DESC"

	rows, err := db.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching quality tests"})
		return
	}
	defer rows.Close()

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment;filename=quality_tests_export.csv")

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	header := []string{"Vendor", "SKU", "Material", "Test Type", "Lab", "Issue Date", "Expiry", "Result"}
	if err := writer.Write(header); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing CSV header"})
		return
	}

	for rows.Next() {
		var vendor, sku, material, testType, lab, result string
		var issueDate time.Time
		var expiry *time.Time
		if err := rows.Scan(&vendor, &sku, &material, &testType, &lab, &issueDate, &expiry, &result); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning quality test"})
			return
		}
		expiryStr := ""
		if expiry != nil {
			expiryStr = expiry.Format("2006-01-02")
		}
		row := []string{vendor, sku, material, testType, lab, issueDate.Format("2006-01-02"), expiryStr, result}
		if err := writer.Write(row); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing CSV row"})
			return
		}
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating quality tests"})
	}
}
