package repository

import (
	"regexp"
	"testing"
	"time"
)

func TestGeneratePONumber(t *testing.T) {
	re := regexp.MustCompile(`^PO-\d{5}$`)
	got := GeneratePONumber()
	if !re.MatchString(got) {
		t.Errorf("GeneratePONumber() = %q, want format PO-NNNNN", got)
	}
}

func TestGenerateBatchID(t *testing.T) {
	got := GenerateBatchID()
	if len(got) != 8 {
		t.Errorf("GenerateBatchID() = %q, want 8 hex chars", got)
	}
}

func TestMonthSequence(t *testing.T) {
	got := MonthSequence(time.Date(2026, time.November, 17, 9, 30, 0, 0, time.UTC), 4)

	want := []time.Time{
		time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2027, time.February, 1, 0, 0, 0, 0, time.UTC),
	}
	if len(got) != len(want) {
		t.Fatalf("got %d months, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("month %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestParseDateCell(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2026-03-15", time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)},
		{"03/15/2026", time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)},
		{"2026/03/15", time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)},
		{"Mar 2026", time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)},
		{"March 2026", time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)},
		{"2026-03", time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)},
		{"  2026-03-15  ", time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDateCell(tt.in)
			if err != nil {
				t.Fatalf("ParseDateCell(%q) error: %v", tt.in, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDateCell(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseDateCell_Invalid(t *testing.T) {
	for _, in := range []string{"", "not a date", "15-03-2026", "2026.03.15"} {
		if _, err := ParseDateCell(in); err == nil {
			t.Errorf("ParseDateCell(%q) expected error", in)
		}
	}
}
