package models

import "time"

// Shipment statuses derived from date comparisons. These are never stored;
// every read recomputes them so the table can never go stale.
const (
	ShipmentOnTime  = "on-time"
	ShipmentLate    = "late"
	ShipmentAtRisk  = "at-risk"
	ShipmentPending = "pending"
)

// AtRiskWindowDays is how close to the HOD an unshipped booking turns at-risk.
const AtRiskWindowDays = 7

// Compliance alert levels.
const (
	AlertCritical = "critical"
	AlertWarning  = "warning"
	AlertNotice   = "notice"
)

// Alert kinds.
const (
	AlertKindCertExpiring      = "cert-expiring"
	AlertKindTestFailed        = "test-failed"
	AlertKindInspectionOverdue = "inspection-overdue"
)

// Projection statuses.
const (
	ProjectionActive  = "active"
	ProjectionMatched = "matched"
	ProjectionExpired = "expired"
)

// DeriveShipmentStatus classifies a shipment from its HOD and actual
// handover date. handover is nil while the cargo has not been handed to the
// carrier. Dates are compared at day granularity in UTC.
func DeriveShipmentStatus(hod time.Time, handover *time.Time, today time.Time) string {
	day := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	hodDay := day(hod)
	todayDay := day(today)

	if handover != nil {
		if day(*handover).After(hodDay) {
			return ShipmentLate
		}
		return ShipmentOnTime
	}
	if todayDay.After(hodDay) {
		return ShipmentLate
	}
	if !hodDay.After(todayDay.AddDate(0, 0, AtRiskWindowDays)) {
		return ShipmentAtRisk
	}
	return ShipmentPending
}

// CertAlertLevel maps a certificate expiry date to an alert level. The
// second return is false when the expiry is more than 90 days out and no
// alert applies. An already expired certificate is critical.
func CertAlertLevel(expiry, today time.Time) (string, bool) {
	days := int(expiry.Sub(today).Hours() / 24)
	switch {
	case days < 30:
		return AlertCritical, true
	case days < 60:
		return AlertWarning, true
	case days < 90:
		return AlertNotice, true
	default:
		return "", false
	}
}

// MonthStart normalizes a date to the first of its month at midnight UTC.
// Capacity buckets and projection order months are always keyed this way.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
