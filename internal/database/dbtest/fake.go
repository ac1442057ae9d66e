// Package dbtest provides an in-memory stand-in for the pgx DBTX interface.
// It understands exactly the statements issued by package database.
package dbtest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is a fake database. Zero value is usable: every table is empty and no
// table exists in information_schema.
type DB struct {
	// Counts maps a table name to the number returned by count queries.
	Counts map[string]int64
	// Columns maps a table name to the columns information_schema reports.
	Columns map[string][]string

	CountErr error
	QueryErr error
	PingErr  error

	mu  sync.Mutex
	sql []string
}

// Statements returns every SQL statement received, in order.
func (db *DB) Statements() []string {
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]string(nil), db.sql...)
}

func (db *DB) record(sql string) {
	db.mu.Lock()
	db.sql = append(db.sql, sql)
	db.mu.Unlock()
}

// Ping satisfies the readiness check.
func (db *DB) Ping(context.Context) error { return db.PingErr }

// Exec is never used by read-only code and always fails.
func (db *DB) Exec(_ context.Context, sql string, _ ...interface{}) (pgconn.CommandTag, error) {
	db.record(sql)
	return pgconn.CommandTag{}, errors.New("dbtest: writes are not supported")
}

// QueryRow answers "SELECT count(*) FROM ..." statements.
func (db *DB) QueryRow(_ context.Context, sql string, _ ...interface{}) pgx.Row {
	db.record(sql)
	if db.CountErr != nil {
		return row{err: db.CountErr}
	}
	if !strings.HasPrefix(sql, "SELECT count(*)") {
		return row{err: fmt.Errorf("dbtest: unexpected statement %q", sql)}
	}
	for table, n := range db.Counts {
		if strings.Contains(sql, `"`+table+`"`) {
			return row{n: n}
		}
	}
	return row{}
}

// Query answers the information_schema column lookup. The second argument
// must be the []string of requested tables.
func (db *DB) Query(_ context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	db.record(sql)
	if db.QueryErr != nil {
		return nil, db.QueryErr
	}
	if !strings.Contains(sql, "information_schema.columns") || len(args) != 2 {
		return nil, fmt.Errorf("dbtest: unexpected statement %q", sql)
	}
	tables, ok := args[1].([]string)
	if !ok {
		return nil, fmt.Errorf("dbtest: tables argument is %T", args[1])
	}

	r := &rows{idx: -1}
	for _, table := range tables {
		for _, col := range db.Columns[table] {
			r.data = append(r.data, [2]string{table, col})
		}
	}
	return r, nil
}

type row struct {
	n   int64
	err error
}

func (r row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != 1 {
		return fmt.Errorf("dbtest: scan into %d values", len(dest))
	}
	p, ok := dest[0].(*int64)
	if !ok {
		return fmt.Errorf("dbtest: scan into %T", dest[0])
	}
	*p = r.n
	return nil
}

type rows struct {
	data   [][2]string
	idx    int
	closed bool
}

func (r *rows) Close()                                       { r.closed = true }
func (r *rows) Err() error                                   { return nil }
func (r *rows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *rows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *rows) RawValues() [][]byte                          { return nil }
func (r *rows) Conn() *pgx.Conn                              { return nil }

func (r *rows) Next() bool {
	if r.closed {
		return false
	}
	r.idx++
	return r.idx < len(r.data)
}

func (r *rows) Scan(dest ...any) error {
	if len(dest) != 2 {
		return fmt.Errorf("dbtest: scan into %d values", len(dest))
	}
	for i, d := range dest {
		p, ok := d.(*string)
		if !ok {
			return fmt.Errorf("dbtest: scan into %T", d)
		}
		*p = r.data[r.idx][i]
	}
	return nil
}

func (r *rows) Values() ([]any, error) {
	return []any{r.data[r.idx][0], r.data[r.idx][1]}, nil
}
