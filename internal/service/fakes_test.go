package service

import (
	"database/sql"
	"errors"
	"time"

	"go-umkm-inventory/internal/model"
	"go-umkm-inventory/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// fakeTransactor invokes the callback directly; repositories under test take
// the tx handle but the fakes ignore it.
type fakeTransactor struct {
	calls int
}

func (f *fakeTransactor) Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error {
	f.calls++
	return fc(nil)
}

type fakeProductRepo struct {
	products map[uuid.UUID]*model.Product
	err      error
}

func newFakeProductRepo(products ...*model.Product) *fakeProductRepo {
	repo := &fakeProductRepo{products: make(map[uuid.UUID]*model.Product)}
	for _, p := range products {
		repo.products[p.ID] = p
	}
	return repo
}

func (f *fakeProductRepo) find(orgID, id uuid.UUID) (*model.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.products[id]
	if !ok || p.OrganizationID != orgID {
		return nil, gorm.ErrRecordNotFound
	}
	copy := *p
	return &copy, nil
}

func (f *fakeProductRepo) FindAllByOrg(orgID uuid.UUID) ([]model.Product, error) {
	var out []model.Product
	for _, p := range f.products {
		if p.OrganizationID == orgID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) FindByIDForOrg(orgID, id uuid.UUID) (*model.Product, error) {
	return f.find(orgID, id)
}

func (f *fakeProductRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copy := *p
	return &copy, nil
}

func (f *fakeProductRepo) NameExists(orgID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	for _, p := range f.products {
		if p.OrganizationID == orgID && p.Name == name && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProductRepo) Create(product *model.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	copy := *product
	f.products[product.ID] = &copy
	return nil
}

func (f *fakeProductRepo) Update(product *model.Product) error {
	copy := *product
	f.products[product.ID] = &copy
	return nil
}

func (f *fakeProductRepo) Delete(product *model.Product) error {
	delete(f.products, product.ID)
	return nil
}

func (f *fakeProductRepo) CountByCategory(categoryID uuid.UUID) (int64, error) {
	var count int64
	for _, p := range f.products {
		if p.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (f *fakeProductRepo) FindForUpdate(tx *gorm.DB, orgID, id uuid.UUID) (*model.Product, error) {
	return f.find(orgID, id)
}

func (f *fakeProductRepo) UpdateStock(tx *gorm.DB, id uuid.UUID, newStock int) error {
	p, ok := f.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock = newStock
	return nil
}

func (f *fakeProductRepo) FindLowStockByOrg(orgID uuid.UUID) ([]model.Product, error) {
	var out []model.Product
	for _, p := range f.products {
		if p.OrganizationID == orgID && p.LowStock() {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) Totals(orgID uuid.UUID) (*repository.InventoryTotals, error) {
	totals := &repository.InventoryTotals{}
	for _, p := range f.products {
		if p.OrganizationID == orgID {
			totals.TotalProducts++
			totals.TotalStock += int64(p.Stock)
		}
	}
	return totals, nil
}

func (f *fakeProductRepo) stock(id uuid.UUID) int {
	return f.products[id].Stock
}

type fakeCategoryRepo struct {
	categories map[uuid.UUID]*model.Category
}

func newFakeCategoryRepo(categories ...*model.Category) *fakeCategoryRepo {
	repo := &fakeCategoryRepo{categories: make(map[uuid.UUID]*model.Category)}
	for _, c := range categories {
		repo.categories[c.ID] = c
	}
	return repo
}

func (f *fakeCategoryRepo) FindAllByOrg(orgID uuid.UUID) ([]model.Category, error) {
	var out []model.Category
	for _, c := range f.categories {
		if c.OrganizationID == orgID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCategoryRepo) FindByIDForOrg(orgID, id uuid.UUID) (*model.Category, error) {
	c, ok := f.categories[id]
	if !ok || c.OrganizationID != orgID {
		return nil, gorm.ErrRecordNotFound
	}
	copy := *c
	return &copy, nil
}

func (f *fakeCategoryRepo) NameExists(orgID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	for _, c := range f.categories {
		if c.OrganizationID == orgID && c.Name == name && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCategoryRepo) Create(category *model.Category) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	copy := *category
	f.categories[category.ID] = &copy
	return nil
}

func (f *fakeCategoryRepo) Update(category *model.Category) error {
	copy := *category
	f.categories[category.ID] = &copy
	return nil
}

func (f *fakeCategoryRepo) Delete(category *model.Category) error {
	delete(f.categories, category.ID)
	return nil
}

type fakeSupplierRepo struct {
	suppliers map[uuid.UUID]*model.Supplier
}

func newFakeSupplierRepo(suppliers ...*model.Supplier) *fakeSupplierRepo {
	repo := &fakeSupplierRepo{suppliers: make(map[uuid.UUID]*model.Supplier)}
	for _, s := range suppliers {
		repo.suppliers[s.ID] = s
	}
	return repo
}

func (f *fakeSupplierRepo) FindAllByOrg(orgID uuid.UUID) ([]model.Supplier, error) {
	var out []model.Supplier
	for _, s := range f.suppliers {
		if s.OrganizationID == orgID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSupplierRepo) FindByIDForOrg(orgID, id uuid.UUID) (*model.Supplier, error) {
	s, ok := f.suppliers[id]
	if !ok || s.OrganizationID != orgID {
		return nil, gorm.ErrRecordNotFound
	}
	copy := *s
	return &copy, nil
}

func (f *fakeSupplierRepo) Create(supplier *model.Supplier) error {
	if supplier.ID == uuid.Nil {
		supplier.ID = uuid.New()
	}
	copy := *supplier
	f.suppliers[supplier.ID] = &copy
	return nil
}

func (f *fakeSupplierRepo) Update(supplier *model.Supplier) error {
	copy := *supplier
	f.suppliers[supplier.ID] = &copy
	return nil
}

func (f *fakeSupplierRepo) Delete(supplier *model.Supplier) error {
	delete(f.suppliers, supplier.ID)
	return nil
}

type fakeStockInRepo struct {
	movements map[uuid.UUID]*model.StockIn
	products  *fakeProductRepo
	// stale, when set, is returned by FindByIDForOrg even after the row is
	// gone from movements, mimicking a lookup that raced a delete.
	stale *model.StockIn
}

func newFakeStockInRepo(products *fakeProductRepo) *fakeStockInRepo {
	return &fakeStockInRepo{movements: make(map[uuid.UUID]*model.StockIn), products: products}
}

func (f *fakeStockInRepo) orgOf(m *model.StockIn) uuid.UUID {
	if p, ok := f.products.products[m.ProductID]; ok {
		return p.OrganizationID
	}
	return uuid.Nil
}

func (f *fakeStockInRepo) Create(tx *gorm.DB, movement *model.StockIn) error {
	if movement.ID == uuid.Nil {
		movement.ID = uuid.New()
	}
	copy := *movement
	f.movements[movement.ID] = &copy
	return nil
}

func (f *fakeStockInRepo) Delete(tx *gorm.DB, movement *model.StockIn) error {
	if _, ok := f.movements[movement.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.movements, movement.ID)
	return nil
}

func (f *fakeStockInRepo) FindAllByOrg(orgID uuid.UUID) ([]model.StockIn, error) {
	var out []model.StockIn
	for _, m := range f.movements {
		if f.orgOf(m) == orgID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeStockInRepo) FindByIDForOrg(orgID, id uuid.UUID) (*model.StockIn, error) {
	if f.stale != nil && f.stale.ID == id {
		copy := *f.stale
		return &copy, nil
	}
	m, ok := f.movements[id]
	if !ok || f.orgOf(m) != orgID {
		return nil, gorm.ErrRecordNotFound
	}
	copy := *m
	return &copy, nil
}

func (f *fakeStockInRepo) CountByProduct(productID uuid.UUID) (int64, error) {
	var count int64
	for _, m := range f.movements {
		if m.ProductID == productID {
			count++
		}
	}
	return count, nil
}

func (f *fakeStockInRepo) CountBySupplier(supplierID uuid.UUID) (int64, error) {
	var count int64
	for _, m := range f.movements {
		if m.SupplierID == supplierID {
			count++
		}
	}
	return count, nil
}

func (f *fakeStockInRepo) Report(orgID uuid.UUID, filter repository.ReportFilter) ([]model.StockIn, int64, error) {
	items, _ := f.FindAllByOrg(orgID)
	return items, int64(len(items)), nil
}

func (f *fakeStockInRepo) SumQuantity(orgID uuid.UUID, filter repository.ReportFilter) (int64, error) {
	var sum int64
	for _, m := range f.movements {
		if f.orgOf(m) == orgID {
			sum += int64(m.Quantity)
		}
	}
	return sum, nil
}

func (f *fakeStockInRepo) FindForExport(orgID uuid.UUID, filter repository.ReportFilter) ([]model.StockIn, error) {
	return f.FindAllByOrg(orgID)
}

func (f *fakeStockInRepo) Totals(orgID uuid.UUID, start, end time.Time) (*repository.MovementTotals, error) {
	totals := &repository.MovementTotals{}
	for _, m := range f.movements {
		if f.orgOf(m) == orgID {
			totals.TotalTransactions++
			totals.TotalQuantity += int64(m.Quantity)
		}
	}
	return totals, nil
}

func (f *fakeStockInRepo) TopProducts(orgID uuid.UUID, start, end time.Time, limit int) ([]repository.ProductTotal, error) {
	return nil, nil
}

type fakeStockOutRepo struct {
	movements map[uuid.UUID]*model.StockOut
	products  *fakeProductRepo
	stale     *model.StockOut
}

func newFakeStockOutRepo(products *fakeProductRepo) *fakeStockOutRepo {
	return &fakeStockOutRepo{movements: make(map[uuid.UUID]*model.StockOut), products: products}
}

func (f *fakeStockOutRepo) orgOf(m *model.StockOut) uuid.UUID {
	if p, ok := f.products.products[m.ProductID]; ok {
		return p.OrganizationID
	}
	return uuid.Nil
}

func (f *fakeStockOutRepo) Create(tx *gorm.DB, movement *model.StockOut) error {
	if movement.ID == uuid.Nil {
		movement.ID = uuid.New()
	}
	copy := *movement
	f.movements[movement.ID] = &copy
	return nil
}

func (f *fakeStockOutRepo) Delete(tx *gorm.DB, movement *model.StockOut) error {
	if _, ok := f.movements[movement.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.movements, movement.ID)
	return nil
}

func (f *fakeStockOutRepo) FindAllByOrg(orgID uuid.UUID) ([]model.StockOut, error) {
	var out []model.StockOut
	for _, m := range f.movements {
		if f.orgOf(m) == orgID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeStockOutRepo) FindByIDForOrg(orgID, id uuid.UUID) (*model.StockOut, error) {
	if f.stale != nil && f.stale.ID == id {
		copy := *f.stale
		return &copy, nil
	}
	m, ok := f.movements[id]
	if !ok || f.orgOf(m) != orgID {
		return nil, gorm.ErrRecordNotFound
	}
	copy := *m
	return &copy, nil
}

func (f *fakeStockOutRepo) CountByProduct(productID uuid.UUID) (int64, error) {
	var count int64
	for _, m := range f.movements {
		if m.ProductID == productID {
			count++
		}
	}
	return count, nil
}

func (f *fakeStockOutRepo) Report(orgID uuid.UUID, filter repository.ReportFilter) ([]model.StockOut, int64, error) {
	items, _ := f.FindAllByOrg(orgID)
	return items, int64(len(items)), nil
}

func (f *fakeStockOutRepo) SumQuantity(orgID uuid.UUID, filter repository.ReportFilter) (int64, error) {
	var sum int64
	for _, m := range f.movements {
		if f.orgOf(m) == orgID {
			sum += int64(m.Quantity)
		}
	}
	return sum, nil
}

func (f *fakeStockOutRepo) FindForExport(orgID uuid.UUID, filter repository.ReportFilter) ([]model.StockOut, error) {
	return f.FindAllByOrg(orgID)
}

func (f *fakeStockOutRepo) Totals(orgID uuid.UUID, start, end time.Time) (*repository.MovementTotals, error) {
	totals := &repository.MovementTotals{}
	for _, m := range f.movements {
		if f.orgOf(m) == orgID {
			totals.TotalTransactions++
			totals.TotalQuantity += int64(m.Quantity)
		}
	}
	return totals, nil
}

func (f *fakeStockOutRepo) TopProducts(orgID uuid.UUID, start, end time.Time, limit int) ([]repository.ProductTotal, error) {
	return nil, nil
}

type fakeAlertRepo struct {
	alerts    map[uuid.UUID]*model.StockAlert
	createErr error
	findErr   error
}

func newFakeAlertRepo() *fakeAlertRepo {
	return &fakeAlertRepo{alerts: make(map[uuid.UUID]*model.StockAlert)}
}

func (f *fakeAlertRepo) Create(alert *model.StockAlert) error {
	if f.createErr != nil {
		return f.createErr
	}
	if alert.ID == uuid.Nil {
		alert.ID = uuid.New()
	}
	copy := *alert
	f.alerts[alert.ID] = &copy
	return nil
}

func (f *fakeAlertRepo) FindAllByOrg(orgID uuid.UUID) ([]model.StockAlert, error) {
	var out []model.StockAlert
	for _, a := range f.alerts {
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeAlertRepo) FindUnreadByOrg(orgID uuid.UUID) ([]model.StockAlert, error) {
	var out []model.StockAlert
	for _, a := range f.alerts {
		if a.Status == model.AlertUnread {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAlertRepo) FindByIDForOrg(orgID, id uuid.UUID) (*model.StockAlert, error) {
	a, ok := f.alerts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copy := *a
	return &copy, nil
}

func (f *fakeAlertRepo) FindUnreadByProduct(productID uuid.UUID) (*model.StockAlert, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, a := range f.alerts {
		if a.ProductID == productID && a.Status == model.AlertUnread {
			copy := *a
			return &copy, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAlertRepo) Update(alert *model.StockAlert) error {
	copy := *alert
	f.alerts[alert.ID] = &copy
	return nil
}

func (f *fakeAlertRepo) MarkAllReadByOrg(orgID uuid.UUID) (int64, error) {
	var updated int64
	for _, a := range f.alerts {
		if a.Status == model.AlertUnread {
			a.Status = model.AlertRead
			updated++
		}
	}
	return updated, nil
}

func (f *fakeAlertRepo) MarkAllReadByProduct(productID uuid.UUID) error {
	for _, a := range f.alerts {
		if a.ProductID == productID && a.Status == model.AlertUnread {
			a.Status = model.AlertRead
		}
	}
	return nil
}

func (f *fakeAlertRepo) Delete(alert *model.StockAlert) error {
	delete(f.alerts, alert.ID)
	return nil
}

func (f *fakeAlertRepo) unreadCount(productID uuid.UUID) int {
	count := 0
	for _, a := range f.alerts {
		if a.ProductID == productID && a.Status == model.AlertUnread {
			count++
		}
	}
	return count
}

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) Create(user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	copy := *user
	f.users[user.ID] = &copy
	return nil
}

func (f *fakeUserRepo) FindByID(id uuid.UUID) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copy := *u
	return &copy, nil
}

func (f *fakeUserRepo) FindByEmail(email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByUsername(username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			copy := *u
			return &copy, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Update(user *model.User) error {
	copy := *user
	f.users[user.ID] = &copy
	return nil
}

func (f *fakeUserRepo) Delete(user *model.User) error {
	delete(f.users, user.ID)
	return nil
}

func (f *fakeUserRepo) FindStaffByOrg(orgID uuid.UUID) ([]model.User, error) {
	var out []model.User
	for _, u := range f.users {
		if u.Role == model.RoleStaff && u.OrganizationID != nil && *u.OrganizationID == orgID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) FindStaffByIDForOrg(orgID, id uuid.UUID) (*model.User, error) {
	u, ok := f.users[id]
	if !ok || u.Role != model.RoleStaff || u.OrganizationID == nil || *u.OrganizationID != orgID {
		return nil, gorm.ErrRecordNotFound
	}
	copy := *u
	return &copy, nil
}

func (f *fakeUserRepo) FindAdminsByOrg(orgID uuid.UUID) ([]model.User, error) {
	var out []model.User
	for _, u := range f.users {
		if u.Role == model.RoleAdmin && u.OrganizationID != nil && *u.OrganizationID == orgID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) AssignOrganization(tx *gorm.DB, userID, orgID uuid.UUID) error {
	u, ok := f.users[userID]
	if !ok || u.OrganizationID != nil {
		return gorm.ErrRecordNotFound
	}
	id := orgID
	u.OrganizationID = &id
	return nil
}

type fakeOrgRepo struct {
	orgs map[uuid.UUID]*model.Organization
}

func newFakeOrgRepo(orgs ...*model.Organization) *fakeOrgRepo {
	repo := &fakeOrgRepo{orgs: make(map[uuid.UUID]*model.Organization)}
	for _, o := range orgs {
		repo.orgs[o.ID] = o
	}
	return repo
}

func (f *fakeOrgRepo) Create(tx *gorm.DB, org *model.Organization) error {
	if org.ID == uuid.Nil {
		org.ID = uuid.New()
	}
	copy := *org
	f.orgs[org.ID] = &copy
	return nil
}

func (f *fakeOrgRepo) FindByID(id uuid.UUID) (*model.Organization, error) {
	o, ok := f.orgs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copy := *o
	return &copy, nil
}

func (f *fakeOrgRepo) Update(org *model.Organization) error {
	copy := *org
	f.orgs[org.ID] = &copy
	return nil
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	sent    []sentMail
	failFor map[string]error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{failFor: make(map[string]error)}
}

func (f *fakeMailer) Send(to, subject, body string) error {
	if err, ok := f.failFor[to]; ok {
		return err
	}
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

type fakeMonitor struct {
	checked []uuid.UUID
}

func (f *fakeMonitor) CheckLowStock(productID uuid.UUID) {
	f.checked = append(f.checked, productID)
}

type fakeDispatcher struct {
	stockEvents []StockChangeEvent
	lowStock    []model.Product
}

func (f *fakeDispatcher) DispatchStockChange(event StockChangeEvent) {
	f.stockEvents = append(f.stockEvents, event)
}

func (f *fakeDispatcher) DispatchLowStock(product model.Product) {
	f.lowStock = append(f.lowStock, product)
}

type publishedEvent struct {
	Type    string
	Payload interface{}
}

type fakeBroadcaster struct {
	events []publishedEvent
}

func (f *fakeBroadcaster) Publish(eventType string, payload interface{}) {
	f.events = append(f.events, publishedEvent{Type: eventType, Payload: payload})
}

var errBoom = errors.New("boom")
