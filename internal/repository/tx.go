package repository

import (
	"database/sql"

	"gorm.io/gorm"
)

// Transactor runs a function inside a database transaction. *gorm.DB satisfies
// it directly; tests substitute a fake that simply invokes the callback.
type Transactor interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}
