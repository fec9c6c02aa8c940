package services

import (
	"database/sql/driver"
	"testing"

	"energy-center-checklist/internal/scripteddb"

	"gorm.io/gorm"
)

type queryStep = scripteddb.Step

var anyArg = scripteddb.AnyArg

func expectQuery(pattern string, columns []string, rows ...[]driver.Value) *queryStep {
	return scripteddb.ExpectQuery(pattern, columns, rows...)
}

func expectExec(pattern string, lastInsertID, rowsAffected int64) *queryStep {
	return scripteddb.ExpectExec(pattern, lastInsertID, rowsAffected)
}

func newScriptedGormDB(t *testing.T, steps []*queryStep) (*gorm.DB, *scripteddb.DB, func()) {
	t.Helper()
	return scripteddb.Open(t, steps)
}
