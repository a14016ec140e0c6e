package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

func TestPOExportFilter(t *testing.T) {
	values := url.Values{}
	values.Set("vendor_id", "3")
	values.Set("client_id", "11")
	values.Set("brand", "Northwind")
	values.Set("merchandiser", "Priya Nair")
	values.Set("order_type", "mto")
	values.Set("status", "open")
	values.Set("from", "2024-01-01")
	values.Set("to", "2024-06-30")

	where, args := poExportFilter(values)

	for _, clause := range []string{
		"po.vendor_id = $1",
		"po.client_id = $2",
		"po.brand = $3",
		"po.merchandiser = $4",
		"po.order_type = $5",
		"po.status = $6",
		"po.order_date >= $7",
		"po.order_date <= $8",
	} {
		if !strings.Contains(where, clause) {
			t.Errorf("where %q missing clause %q", where, clause)
		}
	}
	if len(args) != 8 {
		t.Errorf("len(args) = %d, want 8", len(args))
	}
	if args[0] != 3 || args[1] != 11 {
		t.Errorf("args[0:2] = %v, want [3 11]", args[:2])
	}
}

func TestPOExportFilter_IgnoresBadValues(t *testing.T) {
	values := url.Values{}
	values.Set("vendor_id", "nope")
	values.Set("from", "not-a-date")

	where, args := poExportFilter(values)
	if where != "" || len(args) != 0 {
		t.Errorf("where = %q args = %v, want no filters", where, args)
	}
}

func TestShipmentExportFilter(t *testing.T) {
	values := url.Values{}
	values.Set("vendor_id", "5")
	values.Set("po_number", "PO-88412")

	where, args := shipmentExportFilter(values)

	if !strings.Contains(where, "s.vendor_id = $1") || !strings.Contains(where, "s.po_number = $2") {
		t.Errorf("where = %q, want vendor and po_number clauses", where)
	}
	if len(args) != 2 || args[0] != 5 || args[1] != "PO-88412" {
		t.Errorf("args = %v, want [5 PO-88412]", args)
	}
}

func TestDownloadProjectionTemplate_HasClientColumn(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/templates/projections", nil)

	DownloadProjectionTemplate(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("open template workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil || len(rows) == 0 {
		t.Fatalf("read template rows: %v", err)
	}
	found := false
	for _, h := range rows[0] {
		if h == "Client" {
			found = true
		}
	}
	if !found {
		t.Errorf("template header = %v, want a Client column", rows[0])
	}
}
