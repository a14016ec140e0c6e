package models

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDeriveShipmentStatus(t *testing.T) {
	today := date(2026, time.March, 10)

	tests := []struct {
		name     string
		hod      time.Time
		handover *time.Time
		want     string
	}{
		{
			name:     "handed over before hod",
			hod:      date(2026, time.March, 15),
			handover: ptr(date(2026, time.March, 12)),
			want:     ShipmentOnTime,
		},
		{
			name:     "handed over on hod",
			hod:      date(2026, time.March, 15),
			handover: ptr(date(2026, time.March, 15)),
			want:     ShipmentOnTime,
		},
		{
			name:     "handed over after hod",
			hod:      date(2026, time.March, 15),
			handover: ptr(date(2026, time.March, 16)),
			want:     ShipmentLate,
		},
		{
			name:     "same day different hours still on time",
			hod:      date(2026, time.March, 15),
			handover: ptr(time.Date(2026, time.March, 15, 23, 30, 0, 0, time.UTC)),
			want:     ShipmentOnTime,
		},
		{
			name: "not shipped and hod passed",
			hod:  date(2026, time.March, 9),
			want: ShipmentLate,
		},
		{
			name: "not shipped with hod today",
			hod:  date(2026, time.March, 10),
			want: ShipmentAtRisk,
		},
		{
			name: "not shipped inside risk window",
			hod:  date(2026, time.March, 17),
			want: ShipmentAtRisk,
		},
		{
			name: "not shipped just outside risk window",
			hod:  date(2026, time.March, 18),
			want: ShipmentPending,
		},
		{
			name: "not shipped far out",
			hod:  date(2026, time.June, 1),
			want: ShipmentPending,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveShipmentStatus(tt.hod, tt.handover, today)
			if got != tt.want {
				t.Errorf("DeriveShipmentStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCertAlertLevel(t *testing.T) {
	today := date(2026, time.January, 1)

	tests := []struct {
		name      string
		expiry    time.Time
		wantLevel string
		wantAlert bool
	}{
		{"already expired", date(2025, time.November, 1), AlertCritical, true},
		{"expires tomorrow", date(2026, time.January, 2), AlertCritical, true},
		{"expires in 29 days", today.AddDate(0, 0, 29), AlertCritical, true},
		{"expires in 30 days", today.AddDate(0, 0, 30), AlertWarning, true},
		{"expires in 59 days", today.AddDate(0, 0, 59), AlertWarning, true},
		{"expires in 60 days", today.AddDate(0, 0, 60), AlertNotice, true},
		{"expires in 89 days", today.AddDate(0, 0, 89), AlertNotice, true},
		{"expires in 90 days", today.AddDate(0, 0, 90), "", false},
		{"expires next year", today.AddDate(1, 0, 0), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, alert := CertAlertLevel(tt.expiry, today)
			if level != tt.wantLevel || alert != tt.wantAlert {
				t.Errorf("CertAlertLevel() = (%q, %t), want (%q, %t)", level, alert, tt.wantLevel, tt.wantAlert)
			}
		})
	}
}

func TestMonthStart(t *testing.T) {
	in := time.Date(2026, time.July, 23, 14, 55, 12, 0, time.UTC)
	want := date(2026, time.July, 1)
	if got := MonthStart(in); !got.Equal(want) {
		t.Errorf("MonthStart() = %v, want %v", got, want)
	}

	// Already a month start stays put.
	if got := MonthStart(want); !got.Equal(want) {
		t.Errorf("MonthStart(month start) = %v, want %v", got, want)
	}
}

func ptr(t time.Time) *time.Time { return &t }
