package service

import (
	"testing"

	"go-umkm-inventory/internal/auth"
	"go-umkm-inventory/internal/model"
	"go-umkm-inventory/pkg/apperr"

	"github.com/google/uuid"
)

func newCatalogCaller(orgID uuid.UUID) auth.Caller {
	return auth.Caller{
		UserID:         uuid.New(),
		Role:           model.RoleStaff,
		OrganizationID: &orgID,
	}
}

func TestCategoryNameUniquePerOrganization(t *testing.T) {
	orgID := uuid.New()
	categories := newFakeCategoryRepo()
	products := newFakeProductRepo()
	svc := NewCategoryService(categories, products)
	caller := newCatalogCaller(orgID)

	if _, err := svc.Create(caller, &CategoryRequest{Name: "Beverages"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := svc.Create(caller, &CategoryRequest{Name: "Beverages"})
	wantErrCode(t, err, apperr.CodeConflict)

	// The same name is fine in a different organization.
	otherOrg := uuid.New()
	if _, err := svc.Create(newCatalogCaller(otherOrg), &CategoryRequest{Name: "Beverages"}); err != nil {
		t.Errorf("same name in another org: %v", err)
	}
}

func TestCategoryDeleteGuardedByProducts(t *testing.T) {
	orgID := uuid.New()
	categories := newFakeCategoryRepo()
	products := newFakeProductRepo()
	svc := NewCategoryService(categories, products)
	caller := newCatalogCaller(orgID)

	category, err := svc.Create(caller, &CategoryRequest{Name: "Beverages"})
	if err != nil {
		t.Fatal(err)
	}

	product := &model.Product{Name: "Arabica", CategoryID: category.ID, OrganizationID: orgID}
	product.ID = uuid.New()
	products.products[product.ID] = product

	err = svc.Delete(caller, category.ID)
	wantErrCode(t, err, apperr.CodeConflict)

	// With the product gone, deletion is allowed.
	delete(products.products, product.ID)
	if err := svc.Delete(caller, category.ID); err != nil {
		t.Errorf("Delete after removing products: %v", err)
	}
}

func TestSupplierDeleteGuardedByStockIn(t *testing.T) {
	orgID := uuid.New()
	suppliers := newFakeSupplierRepo()
	products := newFakeProductRepo()
	stockIn := newFakeStockInRepo(products)
	svc := NewSupplierService(suppliers, stockIn)
	caller := newCatalogCaller(orgID)

	supplier, err := svc.Create(caller, &SupplierRequest{Name: "Bean Co"})
	if err != nil {
		t.Fatal(err)
	}

	movement := &model.StockIn{ProductID: uuid.New(), SupplierID: supplier.ID, Quantity: 5}
	if err := stockIn.Create(nil, movement); err != nil {
		t.Fatal(err)
	}

	err = svc.Delete(caller, supplier.ID)
	wantErrCode(t, err, apperr.CodeConflict)
}

func TestCategoryGetCrossTenant(t *testing.T) {
	orgID := uuid.New()
	categories := newFakeCategoryRepo()
	svc := NewCategoryService(categories, newFakeProductRepo())
	caller := newCatalogCaller(orgID)

	category, err := svc.Create(caller, &CategoryRequest{Name: "Beverages"})
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.Get(newCatalogCaller(uuid.New()), category.ID)
	wantErrCode(t, err, apperr.CodeNotFound)
}
