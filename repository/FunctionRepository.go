package repository

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

func GenerateRandomNumber() int {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	return rng.Intn(900000000) + 100000000
}

// GeneratePONumber builds a PO number in the format PO-NNNNN. Used when a
// created PO does not carry one from the buyer's system.
func GeneratePONumber() string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return fmt.Sprintf("PO-%05d", rng.Intn(90000)+10000)
}

// GenerateBatchID returns a short id tagging all projection rows from a
// single upload. Drift reporting groups history rows by this id.
func GenerateBatchID() string {
	return strings.Split(uuid.NewString(), "-")[0]
}

// MonthSequence returns n consecutive month starts beginning at from,
// normalized to the first of the month. The capacity report always renders
// 12 of these.
func MonthSequence(from time.Time, n int) []time.Time {
	start := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	months := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		months = append(months, start.AddDate(0, i, 0))
	}
	return months
}

// ParseDateCell parses the date formats that show up in vendor spreadsheets:
// ISO dates, slash dates and month-year cells.
func ParseDateCell(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	layouts := []string{"2006-01-02", "01/02/2006", "2006/01/02", "Jan 2006", "January 2006", "2006-01"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
