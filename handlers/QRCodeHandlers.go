package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"net/http"
	"strconv"
	"time"

	"backend/models"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
)

// addLabel draws regular text onto the image at the given position.
func addLabel(img *image.RGBA, x, y int, label string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{0, 0, 0, 255}),
		Face: inconsolata.Regular8x16,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(x * 64),
			Y: fixed.Int26_6(y * 64),
		},
	}
	d.DrawString(label)
}

// addLabelBold draws bold label text onto the image.
func addLabelBold(img *image.RGBA, x, y int, label string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{30, 30, 30, 255}),
		Face: inconsolata.Bold8x16,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(x * 64),
			Y: fixed.Int26_6(y * 64),
		},
	}
	d.DrawString(label)
}

// GenerateShipmentQRHandler godoc
// @Summary      Generate shipment tracking QR as JPEG
// @Description  QR payload carries the shipment id, PO number and derived status; carton labels scan it at handover
// @Tags         qr
// @Produce      image/jpeg
// @Param        Authorization header string true "Session token"
// @Param        id   path      int  true  "Shipment ID"
// @Success      200  {file}    file  "JPEG image"
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/shipments/{id}/qr [get]
func GenerateShipmentQRHandler(db *sql.DB) gin.HandlerFunc {
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

		var poNumber, vendorName, destination string
		var hod time.Time
		var handoverAt *time.Time
		var quantity int
		err = db.QueryRow(`
			SELECT s.po_number, v.name, COALESCE(s.destination, ''), s.hod, s.handover_at, s.quantity
			FROM shipments s
			JOIN vendors v ON v.vendor_id = s.vendor_id
			WHERE s.shipment_id = $1`, id).Scan(&poNumber, &vendorName, &destination, &hod, &handoverAt, &quantity)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shipment not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch shipment", "details": err.Error()})
			return
		}

		status := models.DeriveShipmentStatus(hod, handoverAt, time.Now().UTC())

		qrData := struct {
			ShipmentID int    `json:"shipment_id"`
			PONumber   string `json:"po_number"`
			HOD        string `json:"hod"`
			Status     string `json:"status"`
		}{
			ShipmentID: id,
			PONumber:   poNumber,
			HOD:        hod.Format("2006-01-02"),
			Status:     status,
		}

		jsonData, err := json.Marshal(qrData)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to marshal shipment data"})
			return
		}

		qr, err := qrcode.New(string(jsonData), qrcode.Medium)
		if err != nil {
			c.String(http.StatusInternalServerError, "QR code generation failed")
			return
		}

		qrImg := qr.Image(512)
		qrSize := qrImg.Bounds().Dy()
		padding := 30
		lineHeight := 28
		textAreaHeight := 4*lineHeight + padding
		totalHeight := qrSize + padding + textAreaHeight

		combinedImg := image.NewRGBA(image.Rect(0, 0, qrSize, totalHeight))
		draw.Draw(combinedImg, combinedImg.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)
		draw.Draw(combinedImg, image.Rect(0, 0, qrSize, qrSize), qrImg, image.Point{}, draw.Src)

		separatorY := qrSize + padding/2
		for x := 0; x < qrSize; x++ {
			combinedImg.Set(x, separatorY, color.RGBA{200, 200, 200, 255})
		}

		startY := qrSize + padding + lineHeight
		xPos := 20

		vendorDisplay := vendorName
		if len(vendorDisplay) > 30 {
			vendorDisplay = vendorDisplay[:27] + "..."
		}
		destDisplay := destination
		if len(destDisplay) > 30 {
			destDisplay = destDisplay[:27] + "..."
		}

		addLabelBold(combinedImg, xPos, startY, "PO Number:")
		addLabel(combinedImg, xPos+120, startY, poNumber)

		addLabelBold(combinedImg, xPos, startY+lineHeight, "Vendor:")
		addLabel(combinedImg, xPos+120, startY+lineHeight, vendorDisplay)

		addLabelBold(combinedImg, xPos, startY+2*lineHeight, "HOD:")
		addLabel(combinedImg, xPos+120, startY+2*lineHeight, hod.Format("2006-01-02"))

		addLabelBold(combinedImg, xPos, startY+3*lineHeight, "Dest:")
		addLabel(combinedImg, xPos+120, startY+3*lineHeight, destDisplay)

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, combinedImg, nil); err != nil {
			c.String(http.StatusInternalServerError, "JPEG encoding failed")
			return
		}

		c.Data(http.StatusOK, "image/jpeg", buf.Bytes())
	}
}
