package handlers

import (
	"bytes"
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"backend/models"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// GeneratePOSummaryPDF godoc
// @Summary      Generate a PO summary PDF
// @Description  One-page summary of a PO with its line items and shipment statuses
// @Tags         pdf
// @Produce      application/pdf
// @Param        Authorization header string true "Session token"
// @Param        id   path      int  true  "PO ID"
// @Success      200  {file}    file  "PDF file"
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/purchase-orders/{id}/pdf [get]
func GeneratePOSummaryPDF(db *sql.DB) gin.HandlerFunc {
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

		titleCaser := cases.Title(language.Und)

		var po models.PurchaseOrder
		err = db.QueryRow(`
			SELECT po.po_number, v.name, COALESCE(cl.name, ''), po.brand, po.merchandiser,
			       po.order_date, po.hod, po.order_type, po.status, po.total_units, po.total_value
			FROM purchase_orders po
			JOIN vendors v ON v.vendor_id = po.vendor_id
			LEFT JOIN clients cl ON cl.client_id = po.client_id
			WHERE po.po_id = $1`, id).Scan(
			&po.PONumber, &po.VendorName, &po.ClientName, &po.Brand, &po.Merchandiser,
			&po.OrderDate, &po.HOD, &po.OrderType, &po.Status, &po.TotalUnits, &po.TotalValue)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Purchase order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch purchase order", "details": err.Error()})
			return
		}

		lineRows, err := db.Query(`
			SELECT sku, COALESCE(description, ''), quantity, unit_price, line_total
			FROM po_line_items WHERE po_id = $1 ORDER BY item_id`, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch line items", "details": err.Error()})
			return
		}
		defer lineRows.Close()

		var lines []models.POLineItem
		for lineRows.Next() {
			var li models.POLineItem
			if err := lineRows.Scan(&li.SKU, &li.Description, &li.Quantity, &li.UnitPrice, &li.LineTotal); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan line item", "details": err.Error()})
				return
			}
			lines = append(lines, li)
		}

		shipments, err := fetchShipmentsForPO(db, po.PONumber)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch shipments", "details": err.Error()})
			return
		}

		// --- Generate PDF ---
		pdf := gofpdf.New("P", "mm", "A4", "")
		pdf.AddPage()
		pdf.SetMargins(10, 10, 10)

		pdf.SetFont("Arial", "B", 18)
		pdf.Cell(190, 10, "PURCHASE ORDER SUMMARY")
		pdf.Ln(12)

		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(95, 6, fmt.Sprintf("PO Number: %s", po.PONumber))
		pdf.Cell(95, 6, fmt.Sprintf("HOD: %s", po.HOD.Format("02-Jan-2006")))
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(95, 6, fmt.Sprintf("Vendor: %s", po.VendorName))
		pdf.Cell(95, 6, fmt.Sprintf("Order Date: %s", po.OrderDate.Format("02-Jan-2006")))
		pdf.Ln(6)
		pdf.Cell(95, 6, fmt.Sprintf("Client: %s", po.ClientName))
		pdf.Cell(95, 6, fmt.Sprintf("Brand: %s", po.Brand))
		pdf.Ln(6)
		pdf.Cell(95, 6, fmt.Sprintf("Merchandiser: %s", po.Merchandiser))
		pdf.Cell(95, 6, fmt.Sprintf("Type: %s / Status: %s", po.OrderType, titleCaser.String(po.Status)))
		pdf.Ln(10)

		// --- Line items ---
		pdf.SetFont("Arial", "B", 11)
		pdf.SetFillColor(240, 240, 240)
		pdf.CellFormat(45, 8, "SKU", "1", 0, "L", true, 0, "")
		pdf.CellFormat(70, 8, "Description", "1", 0, "L", true, 0, "")
		pdf.CellFormat(25, 8, "Qty", "1", 0, "C", true, 0, "")
		pdf.CellFormat(25, 8, "Unit Price", "1", 0, "C", true, 0, "")
		pdf.CellFormat(25, 8, "Total", "1", 1, "C", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		for _, li := range lines {
			desc := li.Description
			if len(desc) > 40 {
				desc = desc[:37] + "..."
			}
			pdf.CellFormat(45, 8, li.SKU, "1", 0, "L", false, 0, "")
			pdf.CellFormat(70, 8, desc, "1", 0, "L", false, 0, "")
			pdf.CellFormat(25, 8, strconv.Itoa(li.Quantity), "1", 0, "C", false, 0, "")
			pdf.CellFormat(25, 8, fmt.Sprintf("%.2f", li.UnitPrice), "1", 0, "C", false, 0, "")
			pdf.CellFormat(25, 8, fmt.Sprintf("%.2f", li.LineTotal), "1", 1, "R", false, 0, "")
		}

		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(140, 8, fmt.Sprintf("Total Units: %d", po.TotalUnits))
		pdf.CellFormat(50, 8, fmt.Sprintf("Total: %.2f", po.TotalValue), "1", 1, "R", false, 0, "")
		pdf.Ln(8)

		// --- Shipments ---
		if len(shipments) > 0 {
			pdf.SetFont("Arial", "B", 12)
			pdf.Cell(190, 8, "Shipments")
			pdf.Ln(8)

			pdf.SetFont("Arial", "B", 10)
			pdf.SetFillColor(240, 240, 240)
			pdf.CellFormat(45, 8, "Carrier", "1", 0, "L", true, 0, "")
			pdf.CellFormat(35, 8, "HOD", "1", 0, "C", true, 0, "")
			pdf.CellFormat(35, 8, "Handover", "1", 0, "C", true, 0, "")
			pdf.CellFormat(40, 8, "Destination", "1", 0, "L", true, 0, "")
			pdf.CellFormat(35, 8, "Status", "1", 1, "C", true, 0, "")

			pdf.SetFont("Arial", "", 10)
			for _, s := range shipments {
				handover := "-"
				if s.HandoverAt != nil {
					handover = s.HandoverAt.Format("02-Jan-2006")
				}
				pdf.CellFormat(45, 8, s.Carrier, "1", 0, "L", false, 0, "")
				pdf.CellFormat(35, 8, s.HOD.Format("02-Jan-2006"), "1", 0, "C", false, 0, "")
				pdf.CellFormat(35, 8, handover, "1", 0, "C", false, 0, "")
				pdf.CellFormat(40, 8, s.Destination, "1", 0, "L", false, 0, "")
				pdf.CellFormat(35, 8, titleCaser.String(s.Status), "1", 1, "C", false, 0, "")
			}
		}

		pdf.Ln(10)
		pdf.SetFont("Arial", "I", 8)
		pdf.Cell(190, 6, fmt.Sprintf("Generated %s", time.Now().Format("02-Jan-2006 15:04")))

		var buf bytes.Buffer
		if err := pdf.Output(&buf); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF", "details": err.Error()})
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment;filename=%s_summary.pdf", po.PONumber))
		c.Data(http.StatusOK, "application/pdf", buf.Bytes())
	}
}
