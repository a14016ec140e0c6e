package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"backend/models"
)

// AlertService maintains the compliance_alerts table. The table is a derived
// view over quality tests and inspections, rebuilt wholesale by the nightly
// job so levels track the calendar without per-row updates.
type AlertService struct {
	db *sql.DB
}

func NewAlertService(db *sql.DB) *AlertService {
	return &AlertService{db: db}
}

// InspectionDueWindowDays is how close to the HOD an order must be before a
// missing passed final inspection raises an alert.
const InspectionDueWindowDays = 14

type pendingAlert struct {
	level     string
	kind      string
	vendorID  int
	reference string
	message   string
	dueDate   time.Time
}

// Refresh rebuilds every compliance alert from current data and returns the
// number of alerts now open. Runs in one transaction so readers never see a
// half-built table.
func (s *AlertService) Refresh(ctx context.Context, today time.Time) (int, error) {
	var alerts []pendingAlert

	certAlerts, err := s.certExpiryAlerts(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("certificate alerts: %w", err)
	}
	alerts = append(alerts, certAlerts...)

	failedAlerts, err := s.failedTestAlerts(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed test alerts: %w", err)
	}
	alerts = append(alerts, failedAlerts...)

	overdueAlerts, err := s.overdueInspectionAlerts(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("overdue inspection alerts: %w", err)
	}
	alerts = append(alerts, overdueAlerts...)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM compliance_alerts`); err != nil {
		return 0, fmt.Errorf("clear alerts: %w", err)
	}
	for _, a := range alerts {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO compliance_alerts (level, kind, vendor_id, reference, message, due_date, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, NOW())`,
			a.level, a.kind, a.vendorID, a.reference, a.message, a.dueDate)
		if err != nil {
			return 0, fmt.Errorf("insert alert: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(alerts), nil
}

// certExpiryAlerts raises one alert per passed certificate whose expiry falls
// inside the 90-day horizon.
func (s *AlertService) certExpiryAlerts(ctx context.Context, today time.Time) ([]pendingAlert, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT qt.test_id, qt.vendor_id, qt.test_type, qt.sku, qt.expiry
		FROM quality_tests qt
		WHERE qt.result = 'pass' AND qt.expiry IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []pendingAlert
	for rows.Next() {
		var testID, vendorID int
		var testType, sku string
		var expiry time.Time
		if err := rows.Scan(&testID, &vendorID, &testType, &sku, &expiry); err != nil {
			return nil, err
		}
		level, ok := models.CertAlertLevel(expiry, today)
		if !ok {
			continue
		}
		out = append(out, pendingAlert{
			level:     level,
			kind:      models.AlertKindCertExpiring,
			vendorID:  vendorID,
			reference: fmt.Sprintf("test:%d", testID),
			message:   fmt.Sprintf("%s certificate for %s expires %s", testType, sku, expiry.Format("2006-01-02")),
			dueDate:   expiry,
		})
	}
	return out, rows.Err()
}

// failedTestAlerts raises a critical alert for every failed quality test.
func (s *AlertService) failedTestAlerts(ctx context.Context) ([]pendingAlert, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT qt.test_id, qt.vendor_id, qt.test_type, qt.sku, qt.issue_date
		FROM quality_tests qt
		WHERE qt.result = 'fail'`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []pendingAlert
	for rows.Next() {
		var testID, vendorID int
		var testType, sku string
		var issueDate time.Time
		if err := rows.Scan(&testID, &vendorID, &testType, &sku, &issueDate); err != nil {
			return nil, err
		}
		out = append(out, pendingAlert{
			level:     models.AlertCritical,
			kind:      models.AlertKindTestFailed,
			vendorID:  vendorID,
			reference: fmt.Sprintf("test:%d", testID),
			message:   fmt.Sprintf("%s test failed for %s", testType, sku),
			dueDate:   issueDate,
		})
	}
	return out, rows.Err()
}

// overdueInspectionAlerts flags open orders whose HOD is inside the due
// window but which still lack a passed final inspection. Orders already past
// their HOD escalate to critical.
func (s *AlertService) overdueInspectionAlerts(ctx context.Context, today time.Time) ([]pendingAlert, error) {
	windowEnd := today.AddDate(0, 0, InspectionDueWindowDays)
	rows, err := s.db.QueryContext(ctx, `
		SELECT po.po_number, po.vendor_id, po.hod
		FROM purchase_orders po
		WHERE po.status = 'open' AND po.hod <= $1
		  AND NOT EXISTS (
			SELECT 1 FROM inspections i
			WHERE i.po_number = po.po_number
			  AND i.type = 'final' AND i.result = 'pass'
		  )`, windowEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []pendingAlert
	for rows.Next() {
		var poNumber string
		var vendorID int
		var hod time.Time
		if err := rows.Scan(&poNumber, &vendorID, &hod); err != nil {
			return nil, err
		}
		level := models.AlertWarning
		if hod.Before(today) {
			level = models.AlertCritical
		}
		out = append(out, pendingAlert{
			level:     level,
			kind:      models.AlertKindInspectionOverdue,
			vendorID:  vendorID,
			reference: fmt.Sprintf("po:%s", poNumber),
			message:   fmt.Sprintf("PO %s has no passed final inspection ahead of HOD %s", poNumber, hod.Format("2006-01-02")),
			dueDate:   hod,
		})
	}
	return out, rows.Err()
}

const digestTemplate = `<html><body>
<p>Hi {{recipient_name}},</p>
<p>There are <b>{{alert_count}}</b> open compliance alerts, <b>{{critical_count}}</b> of them critical.</p>
<p>Review them on the dashboard: {{dashboard_url}}</p>
</body></html>`

// SendDigest emails a summary of open alerts to every active merchandiser.
// Individual send failures are logged and skipped so one bad mailbox does
// not block the rest.
func (s *AlertService) SendDigest(ctx context.Context, emails *EmailService) error {
	var total, critical int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE level = 'critical')
		FROM compliance_alerts`).Scan(&total, &critical)
	if err != nil {
		return fmt.Errorf("alert counts: %w", err)
	}
	if total == 0 {
		return nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, email FROM staff
		WHERE role = 'merchandiser' AND active = true AND email <> ''`)
	if err != nil {
		return fmt.Errorf("digest recipients: %w", err)
	}
	defer rows.Close()

	dashboardURL := "https://sourcing-ops.local/dashboard"
	for rows.Next() {
		var name, email string
		if err := rows.Scan(&name, &email); err != nil {
			return err
		}
		data := models.EmailData{
			RecipientName: name,
			AlertCount:    total,
			CriticalCount: critical,
			DashboardURL:  dashboardURL,
		}
		if err := emails.SendDigest(email, data, digestTemplate); err != nil {
			log.Printf("alert digest to %s failed: %v", email, err)
		}
	}
	return rows.Err()
}
