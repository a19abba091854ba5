package workflow

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"localmart/models"
	"localmart/notify"
	"localmart/store"
)

type mockOrderStore struct {
	m      sync.Mutex
	orders map[primitive.ObjectID]*models.Order
	err    error
}

func newMockOrderStore() *mockOrderStore {
	return &mockOrderStore{orders: make(map[primitive.ObjectID]*models.Order)}
}

func (m *mockOrderStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	order, ok := m.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *order
	return &cp, nil
}

func (m *mockOrderStore) Create(_ context.Context, order *models.Order) (primitive.ObjectID, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return primitive.NilObjectID, m.err
	}
	id := primitive.NewObjectID()
	cp := *order
	cp.ID = id
	m.orders[id] = &cp
	return id, nil
}

func (m *mockOrderStore) ListByCustomer(_ context.Context, customerID primitive.ObjectID) ([]models.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	var out []models.Order
	for _, o := range m.orders {
		if o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *mockOrderStore) ListByShop(_ context.Context, shopID primitive.ObjectID) ([]models.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	var out []models.Order
	for _, o := range m.orders {
		if o.ContainsShop(shopID) {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *mockOrderStore) SetStatusFromActive(_ context.Context, id primitive.ObjectID, status models.OrderStatus) (bool, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return false, m.err
	}
	order, ok := m.orders[id]
	if !ok || order.Status.Terminal() {
		return false, nil
	}
	order.Status = status
	return true, nil
}

func (m *mockOrderStore) CancelActive(_ context.Context, id primitive.ObjectID, notes string) (bool, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return false, m.err
	}
	order, ok := m.orders[id]
	if !ok || !order.Status.Cancellable() {
		return false, nil
	}
	order.Status = models.OrderCancelled
	order.Notes = notes
	return true, nil
}

func (m *mockOrderStore) put(order *models.Order) primitive.ObjectID {
	m.m.Lock()
	defer m.m.Unlock()
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	m.orders[order.ID] = order
	return order.ID
}

type mockShopStore struct {
	m     sync.Mutex
	shops map[primitive.ObjectID]*models.Shop
	err   error
}

func newMockShopStore() *mockShopStore {
	return &mockShopStore{shops: make(map[primitive.ObjectID]*models.Shop)}
}

func (m *mockShopStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Shop, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	shop, ok := m.shops[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *shop
	return &cp, nil
}

func (m *mockShopStore) Create(_ context.Context, shop *models.Shop) (primitive.ObjectID, error) {
	m.m.Lock()
	defer m.m.Unlock()
	id := primitive.NewObjectID()
	cp := *shop
	cp.ID = id
	cp.Status = models.ShopPending
	m.shops[id] = &cp
	return id, nil
}

func (m *mockShopStore) Update(_ context.Context, id primitive.ObjectID, name, description string, location *models.GeoPoint) error {
	m.m.Lock()
	defer m.m.Unlock()
	shop, ok := m.shops[id]
	if !ok {
		return store.ErrNotFound
	}
	shop.Name = name
	shop.Description = description
	if location != nil {
		shop.Location = location
	}
	return nil
}

func (m *mockShopStore) ListByStatus(_ context.Context, status models.ShopStatus) ([]models.Shop, error) {
	m.m.Lock()
	defer m.m.Unlock()
	var out []models.Shop
	for _, s := range m.shops {
		if s.Status == status {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockShopStore) Near(context.Context, float64, float64, float64) ([]models.Shop, error) {
	return nil, nil
}

func (m *mockShopStore) DecideFromPending(_ context.Context, id primitive.ObjectID, status models.ShopStatus, reason string) (bool, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return false, m.err
	}
	shop, ok := m.shops[id]
	if !ok || shop.Status != models.ShopPending {
		return false, nil
	}
	shop.Status = status
	if status == models.ShopRejected {
		shop.RejectionReason = reason
	} else {
		shop.RejectionReason = ""
	}
	return true, nil
}

func (m *mockShopStore) ResubmitRejected(_ context.Context, id, ownerID primitive.ObjectID) (bool, error) {
	m.m.Lock()
	defer m.m.Unlock()
	shop, ok := m.shops[id]
	if !ok || shop.OwnerID != ownerID || shop.Status != models.ShopRejected {
		return false, nil
	}
	shop.Status = models.ShopPending
	shop.RejectionReason = ""
	return true, nil
}

func (m *mockShopStore) IncProductCount(_ context.Context, id primitive.ObjectID, delta int) error {
	m.m.Lock()
	defer m.m.Unlock()
	if shop, ok := m.shops[id]; ok {
		shop.ProductCount += delta
	}
	return nil
}

func (m *mockShopStore) put(shop *models.Shop) primitive.ObjectID {
	m.m.Lock()
	defer m.m.Unlock()
	if shop.ID.IsZero() {
		shop.ID = primitive.NewObjectID()
	}
	m.shops[shop.ID] = shop
	return shop.ID
}

type mockAccountStore struct {
	m        sync.Mutex
	accounts map[primitive.ObjectID]*models.User
	roleErr  error
}

func newMockAccountStore() *mockAccountStore {
	return &mockAccountStore{accounts: make(map[primitive.ObjectID]*models.User)}
}

func (m *mockAccountStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.m.Lock()
	defer m.m.Unlock()
	user, ok := m.accounts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (m *mockAccountStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.m.Lock()
	defer m.m.Unlock()
	for _, u := range m.accounts {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockAccountStore) Create(_ context.Context, user *models.User) (primitive.ObjectID, error) {
	m.m.Lock()
	defer m.m.Unlock()
	id := primitive.NewObjectID()
	cp := *user
	cp.ID = id
	m.accounts[id] = &cp
	return id, nil
}

func (m *mockAccountStore) SetRole(_ context.Context, id primitive.ObjectID, role models.Role) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.roleErr != nil {
		return m.roleErr
	}
	user, ok := m.accounts[id]
	if !ok {
		return store.ErrNotFound
	}
	user.Role = role
	return nil
}

func (m *mockAccountStore) SetShop(_ context.Context, id, shopID primitive.ObjectID) error {
	m.m.Lock()
	defer m.m.Unlock()
	user, ok := m.accounts[id]
	if !ok {
		return store.ErrNotFound
	}
	user.ShopID = &shopID
	return nil
}

func (m *mockAccountStore) put(user *models.User) primitive.ObjectID {
	m.m.Lock()
	defer m.m.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	m.accounts[user.ID] = user
	return user.ID
}

func (m *mockAccountStore) role(id primitive.ObjectID) models.Role {
	m.m.Lock()
	defer m.m.Unlock()
	return m.accounts[id].Role
}

type mockNotifier struct {
	m     sync.Mutex
	calls []notify.Kind
	res   notify.Result
}

func (m *mockNotifier) Notify(_ context.Context, kind notify.Kind, _ *models.Shop, _ *models.User, _ string) notify.Result {
	m.m.Lock()
	defer m.m.Unlock()
	m.calls = append(m.calls, kind)
	return m.res
}

func (m *mockNotifier) kinds() []notify.Kind {
	m.m.Lock()
	defer m.m.Unlock()
	out := make([]notify.Kind, len(m.calls))
	copy(out, m.calls)
	return out
}
