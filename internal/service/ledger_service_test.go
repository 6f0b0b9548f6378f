package service

import (
	"errors"
	"strings"
	"testing"

	"go-umkm-inventory/internal/auth"
	"go-umkm-inventory/internal/model"
	"go-umkm-inventory/pkg/apperr"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ledgerFixture struct {
	svc        LedgerService
	tx         *fakeTransactor
	products   *fakeProductRepo
	suppliers  *fakeSupplierRepo
	stockIn    *fakeStockInRepo
	stockOut   *fakeStockOutRepo
	monitor    *fakeMonitor
	dispatcher *fakeDispatcher
	caller     auth.Caller
	orgID      uuid.UUID
	product    *model.Product
	supplier   *model.Supplier
}

func newLedgerFixture(t *testing.T, initialStock, minimumStock int) *ledgerFixture {
	t.Helper()

	orgID := uuid.New()
	product := &model.Product{
		Name:           "Arabica Beans",
		Unit:           "kg",
		Stock:          initialStock,
		MinimumStock:   minimumStock,
		OrganizationID: orgID,
	}
	product.ID = uuid.New()

	supplier := &model.Supplier{Name: "Bean Co", OrganizationID: orgID}
	supplier.ID = uuid.New()

	products := newFakeProductRepo(product)
	suppliers := newFakeSupplierRepo(supplier)
	stockIn := newFakeStockInRepo(products)
	stockOut := newFakeStockOutRepo(products)
	tx := &fakeTransactor{}
	monitor := &fakeMonitor{}
	dispatcher := &fakeDispatcher{}

	svc := NewLedgerService(tx, products, suppliers, stockIn, stockOut, monitor, dispatcher, zap.NewNop())

	return &ledgerFixture{
		svc:        svc,
		tx:         tx,
		products:   products,
		suppliers:  suppliers,
		stockIn:    stockIn,
		stockOut:   stockOut,
		monitor:    monitor,
		dispatcher: dispatcher,
		caller: auth.Caller{
			UserID:         uuid.New(),
			Name:           "Budi",
			Role:           model.RoleAdmin,
			OrganizationID: &orgID,
		},
		orgID:    orgID,
		product:  product,
		supplier: supplier,
	}
}

func wantErrCode(t *testing.T, err error, code apperr.Code) *apperr.Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %v, got nil", code)
	}
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperr.Error, got %T: %v", err, err)
	}
	if appErr.Code != code {
		t.Fatalf("expected code %v, got %v (%s)", code, appErr.Code, appErr.Message)
	}
	return appErr
}

func TestRecordStockInIncrementsStock(t *testing.T) {
	f := newLedgerFixture(t, 10, 2)

	movement, err := f.svc.RecordStockIn(f.caller, &StockInRequest{
		ProductID:  f.product.ID,
		SupplierID: f.supplier.ID,
		Quantity:   5,
		Date:       "2026-08-01",
	})
	if err != nil {
		t.Fatalf("RecordStockIn: %v", err)
	}

	if got := f.products.stock(f.product.ID); got != 15 {
		t.Errorf("stock = %d, want 15", got)
	}
	if movement.Quantity != 5 {
		t.Errorf("movement quantity = %d, want 5", movement.Quantity)
	}
	if movement.UserID != f.caller.UserID {
		t.Errorf("movement user = %s, want caller", movement.UserID)
	}
	if f.tx.calls != 1 {
		t.Errorf("transactions = %d, want 1", f.tx.calls)
	}

	if len(f.monitor.checked) != 1 || f.monitor.checked[0] != f.product.ID {
		t.Errorf("monitor not invoked for product, got %v", f.monitor.checked)
	}
	if len(f.dispatcher.stockEvents) != 1 {
		t.Fatalf("dispatched events = %d, want 1", len(f.dispatcher.stockEvents))
	}
	event := f.dispatcher.stockEvents[0]
	if event.Direction != DirectionIncrease || event.OldStock != 10 || event.NewStock != 15 {
		t.Errorf("unexpected event: %+v", event)
	}
	if !strings.Contains(event.Reason, "Bean Co") {
		t.Errorf("event reason should name the supplier, got %q", event.Reason)
	}
}

func TestRecordStockInUnknownProduct(t *testing.T) {
	f := newLedgerFixture(t, 10, 2)

	_, err := f.svc.RecordStockIn(f.caller, &StockInRequest{
		ProductID:  uuid.New(),
		SupplierID: f.supplier.ID,
		Quantity:   5,
		Date:       "2026-08-01",
	})
	wantErrCode(t, err, apperr.CodeNotFound)

	if len(f.dispatcher.stockEvents) != 0 {
		t.Error("no event should be dispatched on failure")
	}
}

func TestRecordStockInCrossTenantProduct(t *testing.T) {
	f := newLedgerFixture(t, 10, 2)

	// A product that exists but belongs to another organization must be
	// indistinguishable from one that does not exist.
	other := &model.Product{Name: "Foreign", Unit: "pcs", OrganizationID: uuid.New()}
	other.ID = uuid.New()
	f.products.products[other.ID] = other

	_, err := f.svc.RecordStockIn(f.caller, &StockInRequest{
		ProductID:  other.ID,
		SupplierID: f.supplier.ID,
		Quantity:   5,
		Date:       "2026-08-01",
	})
	wantErrCode(t, err, apperr.CodeNotFound)
}

func TestRecordStockInUnknownSupplier(t *testing.T) {
	f := newLedgerFixture(t, 10, 2)

	_, err := f.svc.RecordStockIn(f.caller, &StockInRequest{
		ProductID:  f.product.ID,
		SupplierID: uuid.New(),
		Quantity:   5,
		Date:       "2026-08-01",
	})
	wantErrCode(t, err, apperr.CodeNotFound)

	if got := f.products.stock(f.product.ID); got != 10 {
		t.Errorf("stock changed to %d on failed record", got)
	}
}

func TestRecordStockInValidation(t *testing.T) {
	f := newLedgerFixture(t, 10, 2)

	_, err := f.svc.RecordStockIn(f.caller, &StockInRequest{
		ProductID:  f.product.ID,
		SupplierID: f.supplier.ID,
		Quantity:   0,
		Date:       "2026-08-01",
	})
	appErr := wantErrCode(t, err, apperr.CodeValidation)
	if _, ok := appErr.Fields["quantity"]; !ok {
		t.Errorf("expected quantity field error, got %v", appErr.Fields)
	}
}

func TestRecordStockInBadDate(t *testing.T) {
	f := newLedgerFixture(t, 10, 2)

	_, err := f.svc.RecordStockIn(f.caller, &StockInRequest{
		ProductID:  f.product.ID,
		SupplierID: f.supplier.ID,
		Quantity:   5,
		Date:       "01-08-2026",
	})
	wantErrCode(t, err, apperr.CodeValidation)
}

func TestRecordStockInWithoutOrganization(t *testing.T) {
	f := newLedgerFixture(t, 10, 2)
	caller := f.caller
	caller.OrganizationID = nil

	_, err := f.svc.RecordStockIn(caller, &StockInRequest{
		ProductID:  f.product.ID,
		SupplierID: f.supplier.ID,
		Quantity:   5,
		Date:       "2026-08-01",
	})
	wantErrCode(t, err, apperr.CodeTenantRequired)
}

func TestRecordStockOutDecrementsStock(t *testing.T) {
	f := newLedgerFixture(t, 10, 2)

	_, err := f.svc.RecordStockOut(f.caller, &StockOutRequest{
		ProductID:   f.product.ID,
		Quantity:    4,
		Destination: "Warung Sari",
		Date:        "2026-08-02",
	})
	if err != nil {
		t.Fatalf("RecordStockOut: %v", err)
	}

	if got := f.products.stock(f.product.ID); got != 6 {
		t.Errorf("stock = %d, want 6", got)
	}
	event := f.dispatcher.stockEvents[0]
	if event.Direction != DirectionDecrease || event.NewStock != 6 {
		t.Errorf("unexpected event: %+v", event)
	}
	if !strings.Contains(event.Reason, "Warung Sari") {
		t.Errorf("event reason should name the destination, got %q", event.Reason)
	}
}

func TestRecordStockOutInsufficientStock(t *testing.T) {
	f := newLedgerFixture(t, 3, 2)

	_, err := f.svc.RecordStockOut(f.caller, &StockOutRequest{
		ProductID:   f.product.ID,
		Quantity:    5,
		Destination: "Warung Sari",
		Date:        "2026-08-02",
	})
	appErr := wantErrCode(t, err, apperr.CodeConflict)
	if !strings.Contains(appErr.Message, "Available: 3") || !strings.Contains(appErr.Message, "Requested: 5") {
		t.Errorf("conflict message should carry available/requested, got %q", appErr.Message)
	}

	if got := f.products.stock(f.product.ID); got != 3 {
		t.Errorf("stock changed to %d on refused record", got)
	}
	if len(f.stockOut.movements) != 0 {
		t.Error("movement must not persist when the mutation is refused")
	}
	if len(f.monitor.checked) != 0 || len(f.dispatcher.stockEvents) != 0 {
		t.Error("post-mutation hooks must not run on failure")
	}
}

func TestDeleteStockInReversesMovement(t *testing.T) {
	f := newLedgerFixture(t, 10, 2)

	movement, err := f.svc.RecordStockIn(f.caller, &StockInRequest{
		ProductID:  f.product.ID,
		SupplierID: f.supplier.ID,
		Quantity:   5,
		Date:       "2026-08-01",
	})
	if err != nil {
		t.Fatalf("RecordStockIn: %v", err)
	}

	if err := f.svc.DeleteStockIn(f.caller, movement.ID); err != nil {
		t.Fatalf("DeleteStockIn: %v", err)
	}

	if got := f.products.stock(f.product.ID); got != 10 {
		t.Errorf("stock = %d, want 10 after reversal", got)
	}
	if len(f.stockIn.movements) != 0 {
		t.Error("movement should be deleted")
	}
	last := f.dispatcher.stockEvents[len(f.dispatcher.stockEvents)-1]
	if last.Direction != DirectionDecrease {
		t.Errorf("reversal direction = %v, want decrease", last.Direction)
	}
	if !strings.Contains(last.Reason, movement.ID.String()) {
		t.Errorf("reversal reason should carry the movement id, got %q", last.Reason)
	}
}

func TestDeleteStockInRefusedWhenStockTooLow(t *testing.T) {
	f := newLedgerFixture(t, 10, 2)

	movement, err := f.svc.RecordStockIn(f.caller, &StockInRequest{
		ProductID:  f.product.ID,
		SupplierID: f.supplier.ID,
		Quantity:   5,
		Date:       "2026-08-01",
	})
	if err != nil {
		t.Fatalf("RecordStockIn: %v", err)
	}

	// Ship most of it out, so reversing the inbound 5 would go negative.
	if _, err := f.svc.RecordStockOut(f.caller, &StockOutRequest{
		ProductID:   f.product.ID,
		Quantity:    12,
		Destination: "Warung Sari",
		Date:        "2026-08-02",
	}); err != nil {
		t.Fatalf("RecordStockOut: %v", err)
	}

	err = f.svc.DeleteStockIn(f.caller, movement.ID)
	wantErrCode(t, err, apperr.CodeConflict)

	if got := f.products.stock(f.product.ID); got != 3 {
		t.Errorf("stock = %d, want 3 unchanged", got)
	}
	if len(f.stockIn.movements) != 1 {
		t.Error("refused delete must keep the movement")
	}
}

func TestDeleteStockOutRestoresStock(t *testing.T) {
	f := newLedgerFixture(t, 10, 2)

	movement, err := f.svc.RecordStockOut(f.caller, &StockOutRequest{
		ProductID:   f.product.ID,
		Quantity:    4,
		Destination: "Warung Sari",
		Date:        "2026-08-02",
	})
	if err != nil {
		t.Fatalf("RecordStockOut: %v", err)
	}

	if err := f.svc.DeleteStockOut(f.caller, movement.ID); err != nil {
		t.Fatalf("DeleteStockOut: %v", err)
	}

	if got := f.products.stock(f.product.ID); got != 10 {
		t.Errorf("stock = %d, want 10 after reversal", got)
	}
	last := f.dispatcher.stockEvents[len(f.dispatcher.stockEvents)-1]
	if last.Direction != DirectionIncrease || last.NewStock != 10 {
		t.Errorf("unexpected reversal event: %+v", last)
	}
}

func TestDeleteStockInCrossTenant(t *testing.T) {
	f := newLedgerFixture(t, 10, 2)

	movement, err := f.svc.RecordStockIn(f.caller, &StockInRequest{
		ProductID:  f.product.ID,
		SupplierID: f.supplier.ID,
		Quantity:   5,
		Date:       "2026-08-01",
	})
	if err != nil {
		t.Fatalf("RecordStockIn: %v", err)
	}

	otherOrg := uuid.New()
	intruder := auth.Caller{
		UserID:         uuid.New(),
		Role:           model.RoleAdmin,
		OrganizationID: &otherOrg,
	}
	err = f.svc.DeleteStockIn(intruder, movement.ID)
	wantErrCode(t, err, apperr.CodeNotFound)

	if got := f.products.stock(f.product.ID); got != 15 {
		t.Errorf("stock = %d, cross-tenant delete must not change it", got)
	}
}

func TestDeleteStockInRowAlreadyGone(t *testing.T) {
	f := newLedgerFixture(t, 10, 2)

	movement, err := f.svc.RecordStockIn(f.caller, &StockInRequest{
		ProductID:  f.product.ID,
		SupplierID: f.supplier.ID,
		Quantity:   5,
		Date:       "2026-08-01",
	})
	if err != nil {
		t.Fatalf("RecordStockIn: %v", err)
	}

	// A delete that loses the race still sees the row in its lookup, but
	// by the time it soft-deletes there is nothing left to match.
	f.stockIn.stale = movement
	delete(f.stockIn.movements, movement.ID)

	events := len(f.dispatcher.stockEvents)
	checks := len(f.monitor.checked)

	err = f.svc.DeleteStockIn(f.caller, movement.ID)
	wantErrCode(t, err, apperr.CodeNotFound)

	if len(f.dispatcher.stockEvents) != events {
		t.Error("aborted delete must not dispatch a stock change")
	}
	if len(f.monitor.checked) != checks {
		t.Error("aborted delete must not run the low-stock check")
	}
}

func TestDeleteStockOutRowAlreadyGone(t *testing.T) {
	f := newLedgerFixture(t, 10, 2)

	movement, err := f.svc.RecordStockOut(f.caller, &StockOutRequest{
		ProductID:   f.product.ID,
		Quantity:    4,
		Destination: "Warung Sari",
		Date:        "2026-08-01",
	})
	if err != nil {
		t.Fatalf("RecordStockOut: %v", err)
	}

	f.stockOut.stale = movement
	delete(f.stockOut.movements, movement.ID)

	events := len(f.dispatcher.stockEvents)

	err = f.svc.DeleteStockOut(f.caller, movement.ID)
	wantErrCode(t, err, apperr.CodeNotFound)

	if len(f.dispatcher.stockEvents) != events {
		t.Error("aborted delete must not dispatch a stock change")
	}
}

// The ledger invariant: after any sequence of accepted mutations, stock equals
// the initial value plus live inbound minus live outbound quantities.
func TestLedgerInvariantAcrossMutations(t *testing.T) {
	f := newLedgerFixture(t, 20, 5)

	in1, err := f.svc.RecordStockIn(f.caller, &StockInRequest{
		ProductID: f.product.ID, SupplierID: f.supplier.ID, Quantity: 30, Date: "2026-08-01",
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.RecordStockIn(f.caller, &StockInRequest{
		ProductID: f.product.ID, SupplierID: f.supplier.ID, Quantity: 10, Date: "2026-08-02",
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.RecordStockOut(f.caller, &StockOutRequest{
		ProductID: f.product.ID, Quantity: 25, Destination: "Toko A", Date: "2026-08-03",
	}); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.DeleteStockIn(f.caller, in1.ID); err != nil {
		t.Fatal(err)
	}

	// 20 + 30 + 10 - 25 - 30 = 5
	if got := f.products.stock(f.product.ID); got != 5 {
		t.Errorf("stock = %d, want 5", got)
	}
}
