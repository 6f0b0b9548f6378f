package repository

import (
	"time"

	"github.com/google/uuid"
)

// ReportFilter narrows report queries by date range and free-text search, with
// page/per-page pagination. Dates apply to the movement date column.
type ReportFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Search    string
	Page      int
	PerPage   int
}

func (f ReportFilter) Offset() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.PerPage
}

// ProductTotal is one row of a top-products aggregation.
type ProductTotal struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Total       int64     `json:"total"`
}

// MovementTotals aggregates a movement table over a period.
type MovementTotals struct {
	TotalTransactions int64 `json:"total_transactions"`
	TotalQuantity     int64 `json:"total_quantity"`
}
