package models

import (
	"time"
)

// GORM-compatible models used for schema migration. Query code scans into
// the plain structs in models.go; these exist so AutoMigrate owns the DDL.

// UserGorm represents the users table with GORM tags
type UserGorm struct {
	ID          int        `gorm:"primaryKey;column:id" json:"id"`
	Email       string     `gorm:"column:email;uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"column:password;not null" json:"-"`
	FirstName   string     `gorm:"column:first_name" json:"first_name"`
	LastName    string     `gorm:"column:last_name" json:"last_name"`
	RoleID      int        `gorm:"column:role_id;default:0" json:"role_id"`
	IsAdmin     bool       `gorm:"column:is_admin;default:false" json:"is_admin"`
	Suspended   bool       `gorm:"column:suspended;default:false" json:"suspended"`
	FirstAccess *time.Time `gorm:"column:first_access" json:"first_access,omitempty"`
	LastAccess  *time.Time `gorm:"column:last_access" json:"last_access,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (UserGorm) TableName() string { return "users" }

// RoleGorm represents the roles table with GORM tags
type RoleGorm struct {
	RoleID   int    `gorm:"primaryKey;column:role_id" json:"role_id"`
	RoleName string `gorm:"column:role_name;uniqueIndex;not null" json:"role_name"`
}

func (RoleGorm) TableName() string { return "roles" }

// SessionGorm represents the session table with GORM tags
type SessionGorm struct {
	UserID                int        `gorm:"column:user_id;index;not null" json:"user_id"`
	SessionID             string     `gorm:"primaryKey;column:session_id" json:"session_id"`
	HostName              string     `gorm:"column:host_name" json:"host_name"`
	IPAddress             string     `gorm:"column:ip_address" json:"ip_address"`
	Timestamp             time.Time  `gorm:"column:timestp" json:"timestamp"`
	ExpiresAt             time.Time  `gorm:"column:expires_at;index" json:"expires_at"`
	RefreshToken          *string    `gorm:"column:refresh_token" json:"-"`
	RefreshTokenExpiresAt *time.Time `gorm:"column:refresh_token_expires_at" json:"-"`
}

func (SessionGorm) TableName() string { return "session" }

// ActivityLogGorm represents the activity_logs table with GORM tags
type ActivityLogGorm struct {
	ID           int       `gorm:"primaryKey;column:id" json:"id"`
	EventContext string    `gorm:"column:event_context" json:"event_context"`
	EventName    string    `gorm:"column:event_name" json:"event_name"`
	Description  string    `gorm:"column:description" json:"description"`
	UserName     string    `gorm:"column:user_name" json:"user_name"`
	HostName     string    `gorm:"column:host_name" json:"host_name"`
	IPAddress    string    `gorm:"column:ip_address" json:"ip_address"`
	VendorID     int       `gorm:"column:vendor_id;default:0" json:"vendor_id"`
	CreatedAt    time.Time `gorm:"column:created_at;index" json:"created_at"`
}

func (ActivityLogGorm) TableName() string { return "activity_logs" }

// VendorGorm represents the vendors table with GORM tags
type VendorGorm struct {
	VendorID     int       `gorm:"primaryKey;column:vendor_id" json:"vendor_id"`
	Name         string    `gorm:"column:name;uniqueIndex;not null" json:"name"`
	Country      string    `gorm:"column:country" json:"country"`
	DefaultBrand string    `gorm:"column:default_brand" json:"default_brand"`
	Status       string    `gorm:"column:status;default:'active'" json:"status"`
	CreatedBy    string    `gorm:"column:created_by" json:"created_by"`
	UpdatedBy    string    `gorm:"column:updated_by" json:"updated_by"`
	CreatedAt    time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (VendorGorm) TableName() string { return "vendors" }

// VendorAliasGorm represents the vendor_aliases table with GORM tags
type VendorAliasGorm struct {
	ID       int    `gorm:"primaryKey;column:id" json:"id"`
	VendorID int    `gorm:"column:vendor_id;index;not null" json:"vendor_id"`
	Alias    string `gorm:"column:alias;uniqueIndex;not null" json:"alias"`
}

func (VendorAliasGorm) TableName() string { return "vendor_aliases" }

// ClientGorm represents the clients table with GORM tags
type ClientGorm struct {
	ClientID  int       `gorm:"primaryKey;column:client_id" json:"client_id"`
	Name      string    `gorm:"column:name;uniqueIndex;not null" json:"name"`
	Brands    string    `gorm:"column:brands" json:"brands"`
	Region    string    `gorm:"column:region" json:"region"`
	Status    string    `gorm:"column:status;default:'active'" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (ClientGorm) TableName() string { return "clients" }

// StaffGorm represents the staff table with GORM tags
type StaffGorm struct {
	StaffID   int       `gorm:"primaryKey;column:staff_id" json:"staff_id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Email     string    `gorm:"column:email;uniqueIndex" json:"email"`
	Role      string    `gorm:"column:role;default:'merchandiser'" json:"role"`
	Active    bool      `gorm:"column:active;default:true" json:"active"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (StaffGorm) TableName() string { return "staff" }

// PurchaseOrderGorm represents the purchase_orders table with GORM tags
type PurchaseOrderGorm struct {
	POID         int       `gorm:"primaryKey;column:po_id" json:"po_id"`
	PONumber     string    `gorm:"column:po_number;uniqueIndex;not null" json:"po_number"`
	VendorID     int       `gorm:"column:vendor_id;index;not null" json:"vendor_id"`
	ClientID     int       `gorm:"column:client_id;index" json:"client_id"`
	Brand        string    `gorm:"column:brand;index" json:"brand"`
	Merchandiser string    `gorm:"column:merchandiser;index" json:"merchandiser"`
	OrderDate    time.Time `gorm:"column:order_date;index" json:"order_date"`
	HOD          time.Time `gorm:"column:hod;index" json:"hod"`
	OrderType    string    `gorm:"column:order_type;default:'standard'" json:"order_type"`
	Status       string    `gorm:"column:status;default:'open'" json:"status"`
	TotalUnits   int       `gorm:"column:total_units;default:0" json:"total_units"`
	TotalValue   float64   `gorm:"column:total_value;type:numeric(15,2);default:0" json:"total_value"`
	CreatedBy    string    `gorm:"column:created_by" json:"created_by"`
	UpdatedBy    string    `gorm:"column:updated_by" json:"updated_by"`
	CreatedAt    time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (PurchaseOrderGorm) TableName() string { return "purchase_orders" }

// POLineItemGorm represents the po_line_items table with GORM tags
type POLineItemGorm struct {
	ItemID      int     `gorm:"primaryKey;column:item_id" json:"item_id"`
	POID        int     `gorm:"column:po_id;index;not null" json:"po_id"`
	SKU         string  `gorm:"column:sku;index;not null" json:"sku"`
	Description string  `gorm:"column:description" json:"description"`
	Quantity    int     `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice   float64 `gorm:"column:unit_price;type:numeric(12,4);default:0" json:"unit_price"`
	LineTotal   float64 `gorm:"column:line_total;type:numeric(15,2);default:0" json:"line_total"`
}

func (POLineItemGorm) TableName() string { return "po_line_items" }

// ShipmentGorm represents the shipments table with GORM tags
type ShipmentGorm struct {
	ShipmentID  int        `gorm:"primaryKey;column:shipment_id" json:"shipment_id"`
	PONumber    string     `gorm:"column:po_number;index;not null" json:"po_number"`
	VendorID    int        `gorm:"column:vendor_id;index;not null" json:"vendor_id"`
	Carrier     string     `gorm:"column:carrier" json:"carrier"`
	PTSStatus   string     `gorm:"column:pts_status" json:"pts_status"`
	HOD         time.Time  `gorm:"column:hod;index;not null" json:"hod"`
	HandoverAt  *time.Time `gorm:"column:handover_at" json:"handover_at,omitempty"`
	ETD         *time.Time `gorm:"column:etd" json:"etd,omitempty"`
	ETA         *time.Time `gorm:"column:eta" json:"eta,omitempty"`
	Destination string     `gorm:"column:destination" json:"destination"`
	Quantity    int        `gorm:"column:quantity;default:0" json:"quantity"`
	CreatedAt   time.Time  `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (ShipmentGorm) TableName() string { return "shipments" }

// InspectionGorm represents the inspections table with GORM tags
type InspectionGorm struct {
	InspectionID  int        `gorm:"primaryKey;column:inspection_id" json:"inspection_id"`
	PONumber      string     `gorm:"column:po_number;index;not null" json:"po_number"`
	VendorID      int        `gorm:"column:vendor_id;index" json:"vendor_id"`
	Type          string     `gorm:"column:type;default:'final'" json:"type"`
	ScheduledDate time.Time  `gorm:"column:scheduled_date;index" json:"scheduled_date"`
	ActualDate    *time.Time `gorm:"column:actual_date" json:"actual_date,omitempty"`
	Result        string     `gorm:"column:result;default:'pending'" json:"result"`
	Inspector     string     `gorm:"column:inspector" json:"inspector"`
	DefectsMajor  int        `gorm:"column:defects_major;default:0" json:"defects_major"`
	DefectsMinor  int        `gorm:"column:defects_minor;default:0" json:"defects_minor"`
	CreatedAt     time.Time  `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (InspectionGorm) TableName() string { return "inspections" }

// QualityTestGorm represents the quality_tests table with GORM tags
type QualityTestGorm struct {
	TestID    int        `gorm:"primaryKey;column:test_id" json:"test_id"`
	VendorID  int        `gorm:"column:vendor_id;index;not null" json:"vendor_id"`
	SKU       string     `gorm:"column:sku;index" json:"sku"`
	Material  string     `gorm:"column:material" json:"material"`
	TestType  string     `gorm:"column:test_type;not null" json:"test_type"`
	Lab       string     `gorm:"column:lab" json:"lab"`
	IssueDate time.Time  `gorm:"column:issue_date" json:"issue_date"`
	Expiry    *time.Time `gorm:"column:expiry;index" json:"expiry,omitempty"`
	Result    string     `gorm:"column:result;default:'pending'" json:"result"`
	CreatedAt time.Time  `gorm:"column:created_at;not null" json:"created_at"`
}

func (QualityTestGorm) TableName() string { return "quality_tests" }

// ComplianceAlertGorm represents the compliance_alerts table with GORM tags.
// Rebuilt wholesale by the nightly refresh, so no updated_at.
type ComplianceAlertGorm struct {
	AlertID   int       `gorm:"primaryKey;column:alert_id" json:"alert_id"`
	Level     string    `gorm:"column:level;index;not null" json:"level"`
	Kind      string    `gorm:"column:kind;index;not null" json:"kind"`
	VendorID  int       `gorm:"column:vendor_id;index" json:"vendor_id"`
	Reference string    `gorm:"column:reference" json:"reference"`
	Message   string    `gorm:"column:message" json:"message"`
	DueDate   time.Time `gorm:"column:due_date" json:"due_date"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (ComplianceAlertGorm) TableName() string { return "compliance_alerts" }

// CapacityAllocationGorm represents the vendor_capacity table with GORM tags
type CapacityAllocationGorm struct {
	AllocationID int       `gorm:"primaryKey;column:allocation_id" json:"allocation_id"`
	VendorID     int       `gorm:"column:vendor_id;index:idx_capacity_bucket,unique;not null" json:"vendor_id"`
	Brand        string    `gorm:"column:brand;index:idx_capacity_bucket,unique;not null" json:"brand"`
	Month        time.Time `gorm:"column:month;index:idx_capacity_bucket,unique;not null" json:"month"`
	Reserved     int       `gorm:"column:reserved;default:0" json:"reserved"`
	CreatedAt    time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (CapacityAllocationGorm) TableName() string { return "vendor_capacity" }

// ProjectionGorm represents the active_projections table with GORM tags
type ProjectionGorm struct {
	ProjectionID int       `gorm:"primaryKey;column:projection_id" json:"projection_id"`
	VendorID     int       `gorm:"column:vendor_id;index:idx_projection_key,unique;not null" json:"vendor_id"`
	Brand        string    `gorm:"column:brand" json:"brand"`
	SKU          string    `gorm:"column:sku;index:idx_projection_key,unique;not null" json:"sku"`
	ClientID     int       `gorm:"column:client_id" json:"client_id"`
	OrderMonth   time.Time `gorm:"column:order_month;index:idx_projection_key,unique;not null" json:"order_month"`
	Quantity     int       `gorm:"column:quantity;not null" json:"quantity"`
	OrderType    string    `gorm:"column:order_type;default:'standard'" json:"order_type"`
	BatchID      string    `gorm:"column:batch_id;index" json:"batch_id"`
	Status       string    `gorm:"column:status;index;default:'active'" json:"status"`
	CreatedAt    time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (ProjectionGorm) TableName() string { return "active_projections" }

// ProjectionHistoryGorm represents the projection_history table with GORM tags
type ProjectionHistoryGorm struct {
	HistoryID    int       `gorm:"primaryKey;column:history_id" json:"history_id"`
	ProjectionID int       `gorm:"column:projection_id;index" json:"projection_id"`
	VendorID     int       `gorm:"column:vendor_id;index" json:"vendor_id"`
	SKU          string    `gorm:"column:sku;index" json:"sku"`
	OrderMonth   time.Time `gorm:"column:order_month;index" json:"order_month"`
	Quantity     int       `gorm:"column:quantity;not null" json:"quantity"`
	BatchID      string    `gorm:"column:batch_id" json:"batch_id"`
	RecordedAt   time.Time `gorm:"column:recorded_at;index" json:"recorded_at"`
}

func (ProjectionHistoryGorm) TableName() string { return "projection_history" }

// ProjectionLockGorm represents the projection_locks table with GORM tags
type ProjectionLockGorm struct {
	LockID    int       `gorm:"primaryKey;column:lock_id" json:"lock_id"`
	VendorID  int       `gorm:"column:vendor_id;index:idx_lock_bucket,unique;not null" json:"vendor_id"`
	Month     time.Time `gorm:"column:month;index:idx_lock_bucket,unique;not null" json:"month"`
	LockedBy  string    `gorm:"column:locked_by" json:"locked_by"`
	Reason    string    `gorm:"column:reason" json:"reason"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

func (ProjectionLockGorm) TableName() string { return "projection_locks" }
