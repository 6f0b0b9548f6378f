package repository

import (
	"strings"
	"testing"

	"go-umkm-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

// The stock ledger relies on this query taking a row lock so two concurrent
// mutations of the same product cannot both read the same counter.
func TestFindForUpdateEmitsRowLock(t *testing.T) {
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	if err != nil {
		t.Fatalf("open dry-run session: %v", err)
	}

	repo := NewProductRepo(db)
	tx := db.Model(&model.Product{})
	if _, err := repo.FindForUpdate(tx, uuid.New(), uuid.New()); err != nil {
		t.Fatalf("FindForUpdate: %v", err)
	}

	sql := tx.Statement.SQL.String()
	if !strings.Contains(sql, "FOR UPDATE") {
		t.Errorf("locking clause missing from query: %s", sql)
	}
}
