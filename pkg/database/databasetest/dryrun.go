// Package databasetest opens gorm against postgres in DryRun mode so tests
// can inspect the SQL a repository builds without a running server.
package databasetest

import (
	"reflect"
	"strings"
	"sync"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Statement is one built SQL statement and its bind variables.
type Statement struct {
	SQL  string
	Vars []interface{}
}

// HasVar reports whether v was bound to the statement.
func (s Statement) HasVar(v interface{}) bool {
	for _, got := range s.Vars {
		if reflect.DeepEqual(got, v) {
			return true
		}
	}
	return false
}

// Contains reports whether the SQL contains every fragment.
func (s Statement) Contains(fragments ...string) bool {
	for _, f := range fragments {
		if !strings.Contains(s.SQL, f) {
			return false
		}
	}
	return true
}

// Recorder collects every statement built through its DB.
type Recorder struct {
	DB *gorm.DB

	mu         sync.Mutex
	statements []Statement
}

// NewRecorder opens a DryRun postgres session. Nothing is ever sent to a server.
func NewRecorder(t *testing.T) *Recorder {
	t.Helper()

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=governance password=governance dbname=governance port=5432 sslmode=disable",
	}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}

	rec := &Recorder{DB: db}
	capture := rec.capture
	if err := db.Callback().Create().After("gorm:create").Register("databasetest:capture", capture); err != nil {
		t.Fatalf("register create callback: %v", err)
	}
	if err := db.Callback().Query().After("gorm:query").Register("databasetest:capture", capture); err != nil {
		t.Fatalf("register query callback: %v", err)
	}
	if err := db.Callback().Update().After("gorm:update").Register("databasetest:capture", capture); err != nil {
		t.Fatalf("register update callback: %v", err)
	}
	if err := db.Callback().Delete().After("gorm:delete").Register("databasetest:capture", capture); err != nil {
		t.Fatalf("register delete callback: %v", err)
	}
	return rec
}

func (r *Recorder) capture(db *gorm.DB) {
	vars := make([]interface{}, len(db.Statement.Vars))
	copy(vars, db.Statement.Vars)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.statements = append(r.statements, Statement{SQL: db.Statement.SQL.String(), Vars: vars})
}

// Last returns the most recent statement and fails the test if there is none.
func (r *Recorder) Last(t *testing.T) Statement {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.statements) == 0 {
		t.Fatal("no SQL statement was built")
	}
	return r.statements[len(r.statements)-1]
}
