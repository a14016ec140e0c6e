package storage

import (
	"database/sql"
	"database/sql/driver"
	"io"
	"testing"
	"time"
)

// A minimal driver serving canned rows so session lookups can be exercised
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
	sql.Register("stubstorage", stubDriver{})
}

var userCols = []string{
	"id", "email", "first_name", "last_name",
	"created_at", "updated_at", "first_access", "last_access",
	"is_admin", "role_name", "suspended",
}

func userRow(suspended bool) []driver.Value {
	now := time.Now()
	return []driver.Value{
		int64(7), "priya@example.com", "Priya", "Nair",
		now, now, nil, nil,
		false, "merchandiser", suspended,
	}
}

func TestGetUserBySessionID_Suspended(t *testing.T) {
	db, err := sql.Open("stubstorage", "")
	if err != nil {
		t.Fatalf("open stub db: %v", err)
	}
	defer db.Close()

	stubNext = &stubResult{cols: userCols, rows: [][]driver.Value{userRow(true)}}

	user, err := GetUserBySessionID(db, "sess-1")
	if err == nil {
		t.Fatal("expected an error for a suspended account")
	}
	if user != nil {
		t.Errorf("user = %+v, want nil for a suspended account", user)
	}
}

func TestGetUserBySessionID_Active(t *testing.T) {
	db, err := sql.Open("stubstorage", "")
	if err != nil {
		t.Fatalf("open stub db: %v", err)
	}
	defer db.Close()

	stubNext = &stubResult{cols: userCols, rows: [][]driver.Value{userRow(false)}}

	user, err := GetUserBySessionID(db, "sess-1")
	if err != nil {
		t.Fatalf("GetUserBySessionID error: %v", err)
	}
	if user == nil || user.ID != 7 || user.Email != "priya@example.com" {
		t.Errorf("user = %+v, want id 7 / priya@example.com", user)
	}
}

func TestGetUserBySessionID_NoRow(t *testing.T) {
	db, err := sql.Open("stubstorage", "")
	if err != nil {
		t.Fatalf("open stub db: %v", err)
	}
	defer db.Close()

	stubNext = &stubResult{cols: userCols}

	user, err := GetUserBySessionID(db, "sess-gone")
	if err == nil {
		t.Fatal("expected an error when the session does not exist")
	}
	if user != nil {
		t.Errorf("user = %+v, want nil", user)
	}
}
