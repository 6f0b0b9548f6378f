package service

import (
	"fmt"
	"strconv"
	"time"

	"go-umkm-inventory/internal/auth"
	"go-umkm-inventory/internal/model"
	"go-umkm-inventory/internal/repository"
	"go-umkm-inventory/pkg/apperr"
)

const (
	movementDateLayout = "2006-01-02"
	defaultPerPage     = 15
	maxPerPage         = 100
	topProductLimit    = 5
)

type ReportService interface {
	StockInReport(caller auth.Caller, query ReportQuery) (*StockInReport, error)
	StockOutReport(caller auth.Caller, query ReportQuery) (*StockOutReport, error)
	StockSummary(caller auth.Caller, query ReportQuery) (*StockSummary, error)
	ExportStockIn(caller auth.Caller, query ReportQuery) (*CSVExport, error)
	ExportStockOut(caller auth.Caller, query ReportQuery) (*CSVExport, error)
}

// ReportQuery holds the raw query parameters before normalization.
type ReportQuery struct {
	StartDate string
	EndDate   string
	Search    string
	Page      string
	PerPage   string
}

type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type StockInReport struct {
	Items      []model.StockIn `json:"items"`
	Pagination Pagination      `json:"pagination"`
	Summary    MovementSummary `json:"summary"`
}

type StockOutReport struct {
	Items      []model.StockOut `json:"items"`
	Pagination Pagination       `json:"pagination"`
	Summary    MovementSummary  `json:"summary"`
}

type MovementSummary struct {
	TotalTransactions int64 `json:"total_transactions"`
	TotalQuantity     int64 `json:"total_quantity"`
}

type StockSummary struct {
	Period           SummaryPeriod              `json:"period"`
	StockIn          repository.MovementTotals  `json:"stock_in"`
	StockOut         repository.MovementTotals  `json:"stock_out"`
	NetStockChange   int64                      `json:"net_stock_change"`
	Inventory        repository.InventoryTotals `json:"inventory"`
	LowStockCount    int                        `json:"low_stock_count"`
	LowStockProducts []model.Product            `json:"low_stock_products"`
	TopStockIn       []repository.ProductTotal  `json:"top_stock_in_products"`
	TopStockOut      []repository.ProductTotal  `json:"top_stock_out_products"`
}

type SummaryPeriod struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Days      int    `json:"days"`
}

// CSVExport is a rendered export: header + data rows plus a generated filename.
type CSVExport struct {
	Filename string
	Rows     [][]string
}

type reportService struct {
	productRepo  repository.ProductRepository
	stockInRepo  repository.StockInRepository
	stockOutRepo repository.StockOutRepository
}

func NewReportService(
	productRepo repository.ProductRepository,
	stockInRepo repository.StockInRepository,
	stockOutRepo repository.StockOutRepository,
) ReportService {
	return &reportService{
		productRepo:  productRepo,
		stockInRepo:  stockInRepo,
		stockOutRepo: stockOutRepo,
	}
}

// normalizeQuery parses and bounds the raw parameters. End date must not
// precede start date; per_page is clamped to 1..100 with a default of 15.
func normalizeQuery(query ReportQuery) (repository.ReportFilter, error) {
	filter := repository.ReportFilter{
		Search:  query.Search,
		Page:    1,
		PerPage: defaultPerPage,
	}
	fields := map[string]string{}

	if query.StartDate != "" {
		start, err := time.Parse(movementDateLayout, query.StartDate)
		if err != nil {
			fields["start_date"] = "The start_date must be a valid date in YYYY-MM-DD format."
		} else {
			filter.StartDate = &start
		}
	}
	if query.EndDate != "" {
		end, err := time.Parse(movementDateLayout, query.EndDate)
		if err != nil {
			fields["end_date"] = "The end_date must be a valid date in YYYY-MM-DD format."
		} else {
			filter.EndDate = &end
		}
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		fields["end_date"] = "The end_date must be a date after or equal to start_date."
	}

	if query.Page != "" {
		page, err := strconv.Atoi(query.Page)
		if err != nil || page < 1 {
			fields["page"] = "The page must be a positive integer."
		} else {
			filter.Page = page
		}
	}
	if query.PerPage != "" {
		perPage, err := strconv.Atoi(query.PerPage)
		if err != nil {
			fields["per_page"] = "The per_page must be an integer."
		} else {
			if perPage < 1 {
				perPage = 1
			}
			if perPage > maxPerPage {
				perPage = maxPerPage
			}
			filter.PerPage = perPage
		}
	}

	if len(fields) > 0 {
		return repository.ReportFilter{}, apperr.Validation(fields)
	}
	return filter, nil
}

func paginate(filter repository.ReportFilter, total int64) Pagination {
	totalPages := int(total) / filter.PerPage
	if int(total)%filter.PerPage != 0 {
		totalPages++
	}
	return Pagination{
		Page:       filter.Page,
		PerPage:    filter.PerPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

func (s *reportService) StockInReport(caller auth.Caller, query ReportQuery) (*StockInReport, error) {
	orgID, err := caller.Organization()
	if err != nil {
		return nil, err
	}
	filter, err := normalizeQuery(query)
	if err != nil {
		return nil, err
	}

	items, total, err := s.stockInRepo.Report(orgID, filter)
	if err != nil {
		return nil, apperr.Internal("Failed to generate stock-in report", err)
	}
	sum, err := s.stockInRepo.SumQuantity(orgID, filter)
	if err != nil {
		return nil, apperr.Internal("Failed to generate stock-in report", err)
	}
	return &StockInReport{
		Items:      items,
		Pagination: paginate(filter, total),
		Summary:    MovementSummary{TotalTransactions: total, TotalQuantity: sum},
	}, nil
}

func (s *reportService) StockOutReport(caller auth.Caller, query ReportQuery) (*StockOutReport, error) {
	orgID, err := caller.Organization()
	if err != nil {
		return nil, err
	}
	filter, err := normalizeQuery(query)
	if err != nil {
		return nil, err
	}

	items, total, err := s.stockOutRepo.Report(orgID, filter)
	if err != nil {
		return nil, apperr.Internal("Failed to generate stock-out report", err)
	}
	sum, err := s.stockOutRepo.SumQuantity(orgID, filter)
	if err != nil {
		return nil, apperr.Internal("Failed to generate stock-out report", err)
	}
	return &StockOutReport{
		Items:      items,
		Pagination: paginate(filter, total),
		Summary:    MovementSummary{TotalTransactions: total, TotalQuantity: sum},
	}, nil
}

// StockSummary aggregates both movement tables over a period, defaulting to
// the current month when no range is given.
func (s *reportService) StockSummary(caller auth.Caller, query ReportQuery) (*StockSummary, error) {
	orgID, err := caller.Organization()
	if err != nil {
		return nil, err
	}
	filter, err := normalizeQuery(query)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := now
	if filter.StartDate != nil {
		start = *filter.StartDate
	}
	if filter.EndDate != nil {
		end = *filter.EndDate
	}

	inTotals, err := s.stockInRepo.Totals(orgID, start, end)
	if err != nil {
		return nil, apperr.Internal("Failed to generate stock summary", err)
	}
	outTotals, err := s.stockOutRepo.Totals(orgID, start, end)
	if err != nil {
		return nil, apperr.Internal("Failed to generate stock summary", err)
	}
	inventory, err := s.productRepo.Totals(orgID)
	if err != nil {
		return nil, apperr.Internal("Failed to generate stock summary", err)
	}
	lowStock, err := s.productRepo.FindLowStockByOrg(orgID)
	if err != nil {
		return nil, apperr.Internal("Failed to generate stock summary", err)
	}
	topIn, err := s.stockInRepo.TopProducts(orgID, start, end, topProductLimit)
	if err != nil {
		return nil, apperr.Internal("Failed to generate stock summary", err)
	}
	topOut, err := s.stockOutRepo.TopProducts(orgID, start, end, topProductLimit)
	if err != nil {
		return nil, apperr.Internal("Failed to generate stock summary", err)
	}

	days := int(end.Sub(start).Hours()/24) + 1
	return &StockSummary{
		Period: SummaryPeriod{
			StartDate: start.Format(movementDateLayout),
			EndDate:   end.Format(movementDateLayout),
			Days:      days,
		},
		StockIn:          *inTotals,
		StockOut:         *outTotals,
		NetStockChange:   inTotals.TotalQuantity - outTotals.TotalQuantity,
		Inventory:        *inventory,
		LowStockCount:    len(lowStock),
		LowStockProducts: lowStock,
		TopStockIn:       topIn,
		TopStockOut:      topOut,
	}, nil
}

func (s *reportService) ExportStockIn(caller auth.Caller, query ReportQuery) (*CSVExport, error) {
	orgID, err := caller.Organization()
	if err != nil {
		return nil, err
	}
	filter, err := normalizeQuery(query)
	if err != nil {
		return nil, err
	}

	movements, err := s.stockInRepo.FindForExport(orgID, filter)
	if err != nil {
		return nil, apperr.Internal("Failed to export stock-in report", err)
	}

	rows := [][]string{{"Date", "Product", "Category", "Supplier", "Quantity", "Unit", "Recorded By"}}
	for i := range movements {
		m := &movements[i]
		supplier := ""
		if m.Supplier != nil {
			supplier = m.Supplier.Name
		}
		recordedBy := ""
		if m.User != nil {
			recordedBy = m.User.Name
		}
		rows = append(rows, []string{
			m.Date.Format(movementDateLayout),
			movementProductName(m.Product),
			movementCategoryName(m.Product),
			supplier,
			strconv.Itoa(m.Quantity),
			movementUnit(m.Product),
			recordedBy,
		})
	}
	return &CSVExport{
		Filename: fmt.Sprintf("stock_in_report_%s.csv", time.Now().Format("20060102_150405")),
		Rows:     rows,
	}, nil
}

func (s *reportService) ExportStockOut(caller auth.Caller, query ReportQuery) (*CSVExport, error) {
	orgID, err := caller.Organization()
	if err != nil {
		return nil, err
	}
	filter, err := normalizeQuery(query)
	if err != nil {
		return nil, err
	}

	movements, err := s.stockOutRepo.FindForExport(orgID, filter)
	if err != nil {
		return nil, apperr.Internal("Failed to export stock-out report", err)
	}

	rows := [][]string{{"Date", "Product", "Category", "Destination", "Quantity", "Unit", "Recorded By"}}
	for i := range movements {
		m := &movements[i]
		recordedBy := ""
		if m.User != nil {
			recordedBy = m.User.Name
		}
		rows = append(rows, []string{
			m.Date.Format(movementDateLayout),
			movementProductName(m.Product),
			movementCategoryName(m.Product),
			m.Destination,
			strconv.Itoa(m.Quantity),
			movementUnit(m.Product),
			recordedBy,
		})
	}
	return &CSVExport{
		Filename: fmt.Sprintf("stock_out_report_%s.csv", time.Now().Format("20060102_150405")),
		Rows:     rows,
	}, nil
}

func movementProductName(p *model.Product) string {
	if p == nil {
		return ""
	}
	return p.Name
}

func movementCategoryName(p *model.Product) string {
	if p == nil || p.Category == nil {
		return ""
	}
	return p.Category.Name
}

func movementUnit(p *model.Product) string {
	if p == nil {
		return ""
	}
	return p.Unit
}

