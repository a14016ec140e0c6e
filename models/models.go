package models

import (
	"time"

	_ "github.com/lib/pq"
)

type User struct {
	ID          int       `json:"id" example:"1"`
	Email       string    `json:"email" example:"user@example.com"`
	Password    string    `json:"password" example:""`
	FirstName   string    `json:"first_name" example:"Priya"`
	LastName    string    `json:"last_name" example:"Nair"`
	CreatedAt   time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt   time.Time `json:"updated_at" example:"2024-01-15T10:30:00Z"`
	FirstAccess time.Time `json:"first_access,omitempty" example:"2024-01-15T10:30:00Z"`
	LastAccess  time.Time `json:"last_access,omitempty" example:"2024-01-15T10:30:00Z"`
	IsAdmin     bool      `json:"is_admin" example:"false"`
	RoleID      int       `json:"role_id" example:"1"`
	RoleName    string    `json:"role_name" example:"Merchandiser"`
	Suspended   bool      `json:"suspended" example:"false"`
}

type Session struct {
	UserID                int       `json:"user_id" example:"1"`
	SessionID             string    `json:"session_id" example:"abc123"`
	HostName              string    `json:"host_name" example:"user@example.com"`
	IPAddress             string    `json:"ip_address" example:"192.168.1.1"`
	Timestamp             time.Time `json:"timestamp" example:"2024-01-15T10:30:00Z"`
	ExpiresAt             time.Time `json:"expires_at" example:"2024-01-15T10:45:00Z"`
	RefreshToken          string    `json:"refresh_token,omitempty" example:""`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at,omitempty" example:"2024-01-30T10:30:00Z"`
}

type LoginRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"secret"`
	IP       string `json:"ip" example:"192.168.1.1"`
}

type ActivityLog struct {
	ID           int       `json:"id" example:"1"`
	EventContext string    `json:"event_context" example:"PurchaseOrder"`
	EventName    string    `json:"event_name" example:"Create"`
	Description  string    `json:"description" example:"Created purchase order PO-88412"`
	UserName     string    `json:"user_name" example:"Priya Nair"`
	HostName     string    `json:"host_name" example:"user@example.com"`
	IPAddress    string    `json:"ip_address" example:"192.168.1.1"`
	CreatedAt    time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
	VendorID     int       `json:"vendor_id" example:"0"`
}

// Vendor represents the vendors table. Aliases are alternate spellings seen
// in vendor-submitted spreadsheets; alias resolution runs on every import.
type Vendor struct {
	VendorID     int       `json:"vendor_id" example:"1"`
	Name         string    `json:"name" example:"Sunrise Apparel Co"`
	Country      string    `json:"country" example:"Vietnam"`
	DefaultBrand string    `json:"default_brand" example:"Northwind"`
	Status       string    `json:"status" example:"active"`
	CreatedAt    time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt    time.Time `json:"updated_at" example:"2024-01-15T10:30:00Z"`
	CreatedBy    string    `json:"created_by" example:"admin"`
	UpdatedBy    string    `json:"updated_by" example:"admin"`
	Aliases      []string  `json:"aliases,omitempty"`
}

type VendorAlias struct {
	ID       int    `json:"id" example:"1"`
	VendorID int    `json:"vendor_id" example:"1"`
	Alias    string `json:"alias" example:"Sunrise Apparel Company Ltd"`
}

type Client struct {
	ClientID  int       `json:"client_id" example:"1"`
	Name      string    `json:"name" example:"Harbor Home"`
	Brands    []string  `json:"brands" example:"Northwind,Coastline"`
	Region    string    `json:"region" example:"North America"`
	Status    string    `json:"status" example:"active"`
	CreatedAt time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt time.Time `json:"updated_at" example:"2024-01-15T10:30:00Z"`
}

type Staff struct {
	StaffID   int       `json:"staff_id" example:"1"`
	Name      string    `json:"name" example:"Priya Nair"`
	Email     string    `json:"email" example:"priya@example.com"`
	Role      string    `json:"role" example:"merchandiser"`
	Active    bool      `json:"active" example:"true"`
	CreatedAt time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt time.Time `json:"updated_at" example:"2024-01-15T10:30:00Z"`
}

// PurchaseOrder is a PO header. Line items live in po_line_items.
// OrderType is one of standard/MTO/SPO; MTO and SPO are excluded from the
// standard capacity pool.
type PurchaseOrder struct {
	POID         int          `json:"po_id" example:"1"`
	PONumber     string       `json:"po_number" example:"PO-88412"`
	VendorID     int          `json:"vendor_id" example:"1"`
	VendorName   string       `json:"vendor_name,omitempty" example:"Sunrise Apparel Co"`
	ClientID     int          `json:"client_id" example:"1"`
	ClientName   string       `json:"client_name,omitempty" example:"Harbor Home"`
	Brand        string       `json:"brand" example:"Northwind"`
	Merchandiser string       `json:"merchandiser" example:"Priya Nair"`
	OrderDate    time.Time    `json:"order_date" example:"2024-01-05T00:00:00Z"`
	HOD          time.Time    `json:"hod" example:"2024-03-20T00:00:00Z"`
	OrderType    string       `json:"order_type" example:"standard"`
	Status       string       `json:"status" example:"open"`
	TotalUnits   int          `json:"total_units" example:"12000"`
	TotalValue   float64      `json:"total_value" example:"86400.00"`
	CreatedAt    time.Time    `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt    time.Time    `json:"updated_at" example:"2024-01-15T10:30:00Z"`
	CreatedBy    string       `json:"created_by" example:"admin"`
	UpdatedBy    string       `json:"updated_by" example:"admin"`
	LineItems    []POLineItem `json:"line_items,omitempty"`
}

type POLineItem struct {
	ItemID      int     `json:"item_id" example:"1"`
	POID        int     `json:"po_id" example:"1"`
	SKU         string  `json:"sku" example:"NW-TEE-0042"`
	Description string  `json:"description" example:"Crew neck tee, navy"`
	Quantity    int     `json:"quantity" example:"2400"`
	UnitPrice   float64 `json:"unit_price" example:"7.20"`
	LineTotal   float64 `json:"line_total" example:"17280.00"`
}

// Shipment tracks one booking against a PO. Status is never stored; it is
// derived from HOD and the actual handover date at read time.
type Shipment struct {
	ShipmentID  int        `json:"shipment_id" example:"1"`
	PONumber    string     `json:"po_number" example:"PO-88412"`
	VendorID    int        `json:"vendor_id" example:"1"`
	VendorName  string     `json:"vendor_name,omitempty" example:"Sunrise Apparel Co"`
	Carrier     string     `json:"carrier" example:"Maersk"`
	PTSStatus   string     `json:"pts_status" example:"booked"`
	HOD         time.Time  `json:"hod" example:"2024-03-20T00:00:00Z"`
	HandoverAt  *time.Time `json:"handover_at,omitempty" example:"2024-03-18T00:00:00Z"`
	ETD         *time.Time `json:"etd,omitempty" example:"2024-03-22T00:00:00Z"`
	ETA         *time.Time `json:"eta,omitempty" example:"2024-04-15T00:00:00Z"`
	Destination string     `json:"destination" example:"Long Beach"`
	Quantity    int        `json:"quantity" example:"12000"`
	Status      string     `json:"status" example:"on-time"`
	CreatedAt   time.Time  `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt   time.Time  `json:"updated_at" example:"2024-01-15T10:30:00Z"`
}

type Inspection struct {
	InspectionID  int        `json:"inspection_id" example:"1"`
	PONumber      string     `json:"po_number" example:"PO-88412"`
	VendorID      int        `json:"vendor_id" example:"1"`
	VendorName    string     `json:"vendor_name,omitempty" example:"Sunrise Apparel Co"`
	Type          string     `json:"type" example:"final"`
	ScheduledDate time.Time  `json:"scheduled_date" example:"2024-03-10T00:00:00Z"`
	ActualDate    *time.Time `json:"actual_date,omitempty" example:"2024-03-10T00:00:00Z"`
	Result        string     `json:"result" example:"pass"`
	Inspector     string     `json:"inspector" example:"R. Mehta"`
	DefectsMajor  int        `json:"defects_major" example:"2"`
	DefectsMinor  int        `json:"defects_minor" example:"11"`
	CreatedAt     time.Time  `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt     time.Time  `json:"updated_at" example:"2024-01-15T10:30:00Z"`
}

type QualityTest struct {
	TestID    int        `json:"test_id" example:"1"`
	VendorID  int        `json:"vendor_id" example:"1"`
	SKU       string     `json:"sku" example:"NW-TEE-0042"`
	Material  string     `json:"material" example:"100% cotton jersey"`
	TestType  string     `json:"test_type" example:"AZO"`
	Lab       string     `json:"lab" example:"SGS"`
	IssueDate time.Time  `json:"issue_date" example:"2023-11-01T00:00:00Z"`
	Expiry    *time.Time `json:"expiry,omitempty" example:"2024-11-01T00:00:00Z"`
	Result    string     `json:"result" example:"pass"`
	CreatedAt time.Time  `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

type ComplianceAlert struct {
	AlertID   int       `json:"alert_id" example:"1"`
	Level     string    `json:"level" example:"critical"`
	Kind      string    `json:"kind" example:"cert-expiring"`
	VendorID  int       `json:"vendor_id" example:"1"`
	Reference string    `json:"reference" example:"NW-TEE-0042 / AZO"`
	Message   string    `json:"message" example:"AZO certificate expires in 12 days"`
	DueDate   time.Time `json:"due_date" example:"2024-02-01T00:00:00Z"`
	CreatedAt time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// CapacityAllocation is the units a vendor has reserved for a brand in a
// month. Month is always normalized to the first of the month.
type CapacityAllocation struct {
	AllocationID int       `json:"allocation_id" example:"1"`
	VendorID     int       `json:"vendor_id" example:"1"`
	Brand        string    `json:"brand" example:"Northwind"`
	Month        time.Time `json:"month" example:"2024-03-01T00:00:00Z"`
	Reserved     int       `json:"reserved" example:"50000"`
	CreatedAt    time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt    time.Time `json:"updated_at" example:"2024-01-15T10:30:00Z"`
}

// Projection is one active forecast row from a vendor upload. Replaced rows
// are copied to projection_history before being overwritten, which is what
// the drift report reads.
type Projection struct {
	ProjectionID int       `json:"projection_id" example:"1"`
	VendorID     int       `json:"vendor_id" example:"1"`
	VendorName   string    `json:"vendor_name,omitempty" example:"Sunrise Apparel Co"`
	Brand        string    `json:"brand" example:"Northwind"`
	SKU          string    `json:"sku" example:"NW-TEE-0042"`
	ClientID     int       `json:"client_id" example:"1"`
	OrderMonth   time.Time `json:"order_month" example:"2024-03-01T00:00:00Z"`
	Quantity     int       `json:"quantity" example:"15000"`
	OrderType    string    `json:"order_type" example:"standard"`
	BatchID      string    `json:"batch_id" example:"b7c1f3e2"`
	Status       string    `json:"status" example:"active"`
	CreatedAt    time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt    time.Time `json:"updated_at" example:"2024-01-15T10:30:00Z"`
}

type ProjectionHistory struct {
	HistoryID    int       `json:"history_id" example:"1"`
	ProjectionID int       `json:"projection_id" example:"1"`
	VendorID     int       `json:"vendor_id" example:"1"`
	SKU          string    `json:"sku" example:"NW-TEE-0042"`
	OrderMonth   time.Time `json:"order_month" example:"2024-03-01T00:00:00Z"`
	Quantity     int       `json:"quantity" example:"12000"`
	BatchID      string    `json:"batch_id" example:"a91d22c0"`
	RecordedAt   time.Time `json:"recorded_at" example:"2024-01-15T10:30:00Z"`
}

type ProjectionLock struct {
	LockID    int       `json:"lock_id" example:"1"`
	VendorID  int       `json:"vendor_id" example:"1"`
	Month     time.Time `json:"month" example:"2024-03-01T00:00:00Z"`
	LockedBy  string    `json:"locked_by" example:"Priya Nair"`
	Reason    string    `json:"reason" example:"capacity committed"`
	CreatedAt time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// EmailData carries substitution variables for alert digest templates.
type EmailData struct {
	RecipientName string `json:"recipient_name"`
	AlertCount    int    `json:"alert_count"`
	CriticalCount int    `json:"critical_count"`
	DashboardURL  string `json:"dashboard_url"`
}
