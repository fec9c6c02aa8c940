// Package scripteddb is a database/sql driver that replays an ordered list of
// expected statements. Tests open it through the gorm mysql dialector.
package scripteddb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sync"
	"sync/atomic"
	"testing"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stepKind int

const (
	kindQuery stepKind = iota
	kindExec
)

func (k stepKind) String() string {
	if k == kindExec {
		return "exec"
	}
	return "query"
}

type anyArgType struct{}

// AnyArg matches any value in Step.WithArgs.
var AnyArg = anyArgType{}

// Step is one expected statement.
type Step struct {
	kind    stepKind
	pattern *regexp.Regexp
	// args is checked only when set; argCount only when > 0.
	args     []driver.Value
	argCount int
	columns  []string
	rows     [][]driver.Value
	err      error
	result   driver.Result

	// Seen receives the actual arguments once the step has run.
	Seen []driver.Value
}

// ExpectQuery expects a SELECT matching pattern and answers with rows.
func ExpectQuery(pattern string, columns []string, rows ...[]driver.Value) *Step {
	return &Step{kind: kindQuery, pattern: regexp.MustCompile(pattern), columns: columns, rows: rows}
}

// ExpectExec expects an INSERT/UPDATE/DELETE matching pattern.
func ExpectExec(pattern string, lastInsertID, rowsAffected int64) *Step {
	return &Step{
		kind:    kindExec,
		pattern: regexp.MustCompile(pattern),
		result:  result{lastInsertID: lastInsertID, rowsAffected: rowsAffected},
	}
}

func (s *Step) WithArgs(args ...driver.Value) *Step {
	s.args = args
	return s
}

func (s *Step) WithArgCount(n int) *Step {
	s.argCount = n
	return s
}

// WithError makes the step fail with err.
func (s *Step) WithError(err error) *Step {
	s.err = err
	return s
}

// DB holds the remaining steps and the transaction counters.
type DB struct {
	mu        sync.Mutex
	steps     []*Step
	begins    int
	commits   int
	rollbacks int
}

func (db *DB) next(kind stepKind, query string, args []driver.NamedValue) (*Step, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if len(db.steps) == 0 {
		return nil, fmt.Errorf("unexpected %s: %s", kind, query)
	}
	step := db.steps[0]
	if step.kind != kind {
		return nil, fmt.Errorf("unexpected kind for query %s: got %v want %v", query, kind, step.kind)
	}
	if !step.pattern.MatchString(query) {
		return nil, fmt.Errorf("unexpected query: %s (want %s)", query, step.pattern)
	}
	if step.argCount > 0 && step.argCount != len(args) {
		return nil, fmt.Errorf("unexpected arg count for %s: got %d want %d", query, len(args), step.argCount)
	}
	if step.args != nil {
		if len(step.args) != len(args) {
			return nil, fmt.Errorf("unexpected arg count for %s: got %d want %d", query, len(args), len(step.args))
		}
		for i := range args {
			if step.args[i] == AnyArg {
				continue
			}
			if args[i].Value != step.args[i] {
				return nil, fmt.Errorf("unexpected arg %d for %s: got %v (%T) want %v (%T)",
					i, query, args[i].Value, args[i].Value, step.args[i], step.args[i])
			}
		}
	}
	step.Seen = make([]driver.Value, len(args))
	for i := range args {
		step.Seen[i] = args[i].Value
	}
	db.steps = db.steps[1:]
	return step, nil
}

// VerifyComplete fails when expected steps did not run.
func (db *DB) VerifyComplete() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if len(db.steps) != 0 {
		return fmt.Errorf("unmet expectations: %d, next %s", len(db.steps), db.steps[0].pattern)
	}
	return nil
}

func (db *DB) Begins() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.begins
}

func (db *DB) Commits() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.commits
}

func (db *DB) Rollbacks() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.rollbacks
}

type scriptedDriver struct {
	db *DB
}

func (d *scriptedDriver) Open(string) (driver.Conn, error) {
	return &conn{db: d.db}, nil
}

type conn struct {
	db *DB
}

func (c *conn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

func (c *conn) Close() error { return nil }

func (c *conn) Begin() (driver.Tx, error) {
	c.db.mu.Lock()
	c.db.begins++
	c.db.mu.Unlock()
	return &tx{db: c.db}, nil
}

func (c *conn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	step, err := c.db.next(kindQuery, query, args)
	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if step.err != nil {
		return nil, step.err
	}
	return &rows{columns: step.columns, rows: step.rows}, nil
}

func (c *conn) Query(query string, args []driver.Value) (driver.Rows, error) {
	return c.QueryContext(context.Background(), query, named(args))
}

func (c *conn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	step, err := c.db.next(kindExec, query, args)
	if err != nil {
		return nil, err
	}
	if step.err != nil {
		return nil, step.err
	}
	if step.result != nil {
		return step.result, nil
	}
	return result{}, nil
}

func (c *conn) Exec(query string, args []driver.Value) (driver.Result, error) {
	return c.ExecContext(context.Background(), query, named(args))
}

func named(args []driver.Value) []driver.NamedValue {
	out := make([]driver.NamedValue, len(args))
	for i, v := range args {
		out[i] = driver.NamedValue{Ordinal: i + 1, Value: v}
	}
	return out
}

type tx struct {
	db *DB
}

func (t *tx) Commit() error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	t.db.commits++
	return nil
}

func (t *tx) Rollback() error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	t.db.rollbacks++
	return nil
}

type result struct {
	lastInsertID int64
	rowsAffected int64
}

func (r result) LastInsertId() (int64, error) { return r.lastInsertID, nil }

func (r result) RowsAffected() (int64, error) { return r.rowsAffected, nil }

type rows struct {
	columns []string
	rows    [][]driver.Value
	idx     int
}

func (r *rows) Columns() []string { return r.columns }

func (r *rows) Close() error { return nil }

func (r *rows) Next(dest []driver.Value) error {
	if r.idx >= len(r.rows) {
		return io.EOF
	}
	row := r.rows[r.idx]
	for i := range dest {
		dest[i] = nil
	}
	for i := range row {
		dest[i] = row[i]
	}
	r.idx++
	return nil
}

var driverSeq atomic.Int64

// Open registers a fresh driver for steps and returns a gorm handle on it.
func Open(t *testing.T, steps []*Step) (*gorm.DB, *DB, func()) {
	t.Helper()
	state := &DB{steps: steps}
	driverName := fmt.Sprintf("scripted_%d", driverSeq.Add(1))
	sql.Register(driverName, &scriptedDriver{db: state})

	sqlDB, err := sql.Open(driverName, "")
	if err != nil {
		t.Fatalf("failed to open sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("failed to create gorm db: %v", err)
	}

	cleanup := func() {
		_ = sqlDB.Close()
	}
	return gormDB, state, cleanup
}
