package handlers

import (
	"database/sql"
	"database/sql/driver"
	"io"
	"testing"
	"time"
)

// A minimal driver serving canned rows so the session gate can be exercised
// without a live database.
type stubResult struct {
	cols []string
	rows [][]driver.Value
}

var stubNext *stubResult

type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) { return stubConn{}, nil }

type stubConn struct{}

func (stubConn) Prepare(string) (driver.Stmt, error) { return stubStmt{}, nil }
func (stubConn) Close() error                        { return nil }
func (stubConn) Begin() (driver.Tx, error)           { return nil, driver.ErrSkip }

type stubStmt struct{}

func (stubStmt) Close() error  { return nil }
func (stubStmt) NumInput() int { return -1 }
func (stubStmt) Exec([]driver.Value) (driver.Result, error) {
	return driver.RowsAffected(0), nil
}
func (stubStmt) Query([]driver.Value) (driver.Rows, error) {
	return &stubRows{res: stubNext}, nil
}

type stubRows struct {
	res *stubResult
	i   int
}

func (r *stubRows) Columns() []string {
	if r.res == nil {
		return nil
	}
	return r.res.cols
}

func (r *stubRows) Close() error { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.res == nil || r.i >= len(r.res.rows) {
		return io.EOF
	}
	copy(dest, r.res.rows[r.i])
	r.i++
	return nil
}

func init() {
	sql.Register("stubhandlers", stubDriver{})
}

var sessionCols = []string{"user_id", "user_name", "host_name", "ip_address", "expires_at"}

func sessionRow(expiresAt time.Time) []driver.Value {
	return []driver.Value{int64(7), "Priya Nair", "laptop-01", "10.0.0.12", expiresAt}
}

func TestGetSessionDetails_Valid(t *testing.T) {
	db, err := sql.Open("stubhandlers", "")
	if err != nil {
		t.Fatalf("open stub db: %v", err)
	}
	defer db.Close()

	stubNext = &stubResult{cols: sessionCols, rows: [][]driver.Value{sessionRow(time.Now().Add(10 * time.Minute))}}

	session, userName, err := GetSessionDetails(db, "sess-1")
	if err != nil {
		t.Fatalf("GetSessionDetails error: %v", err)
	}
	if session.UserID != 7 || userName != "Priya Nair" {
		t.Errorf("session = %+v user = %q, want user 7 / Priya Nair", session, userName)
	}
}

func TestGetSessionDetails_Expired(t *testing.T) {
	db, err := sql.Open("stubhandlers", "")
	if err != nil {
		t.Fatalf("open stub db: %v", err)
	}
	defer db.Close()

	stubNext = &stubResult{cols: sessionCols, rows: [][]driver.Value{sessionRow(time.Now().Add(-time.Minute))}}

	if _, _, err := GetSessionDetails(db, "sess-stale"); err == nil {
		t.Fatal("expected an error for an expired session")
	}
}

func TestGetSessionDetails_Unknown(t *testing.T) {
	db, err := sql.Open("stubhandlers", "")
	if err != nil {
		t.Fatalf("open stub db: %v", err)
	}
	defer db.Close()

	stubNext = &stubResult{cols: sessionCols}

	if _, _, err := GetSessionDetails(db, "sess-gone"); err == nil {
		t.Fatal("expected an error for an unknown session")
	}
}
