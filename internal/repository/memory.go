package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"tienda/internal/domain"
)

// MemoryStore объединённое in-memory хранилище магазина
type MemoryStore struct {
	mu             sync.RWMutex
	accountsByName map[string]domain.Account
	accountEmails  map[string]string
	usersByID      map[uuid.UUID]domain.User
	productsByID   map[uuid.UUID]domain.Product
	orders         []domain.Order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accountsByName: make(map[string]domain.Account),
		accountEmails:  make(map[string]string),
		usersByID:      make(map[uuid.UUID]domain.User),
		productsByID:   make(map[uuid.UUID]domain.Product),
	}
}

// transaction-aware locking helpers
type txKey struct{}

func isTx(ctx context.Context) bool {
	v := ctx.Value(txKey{})
	if v == nil {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

func (m *MemoryStore) rlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RLock()
	}
}
func (m *MemoryStore) runlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RUnlock()
	}
}
func (m *MemoryStore) wlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Lock()
	}
}
func (m *MemoryStore) wunlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Unlock()
	}
}

// Ensure interfaces
var _ ProductRepository = (*MemoryStore)(nil)

// Остальные репозитории реализованы отдельными типами-обёртками

// ProductRepository implementation
func (m *MemoryStore) Create(ctx context.Context, p *domain.Product) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	p.ID = uuid.New()
	m.productsByID[p.ID] = *p
	return nil
}

func (m *MemoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	p, ok := m.productsByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	// return copy
	cp := p
	return &cp, nil
}

func (m *MemoryStore) Update(ctx context.Context, p *domain.Product) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if _, ok := m.productsByID[p.ID]; !ok {
		return ErrNotFound
	}
	m.productsByID[p.ID] = *p
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if _, ok := m.productsByID[id]; !ok {
		return ErrNotFound
	}
	delete(m.productsByID, id)
	return nil
}

func (m *MemoryStore) List(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	out := make([]domain.Product, 0)
	for _, p := range m.productsByID {
		if !containsIgnoreCase(p.Name, f.NameSubstring) {
			continue
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// AccountRepository implementation on wrapper type
type MemoryAccounts struct{ store *MemoryStore }

func NewMemoryAccounts(store *MemoryStore) *MemoryAccounts { return &MemoryAccounts{store: store} }

var _ AccountRepository = (*MemoryAccounts)(nil)

func (ma *MemoryAccounts) Create(ctx context.Context, a *domain.Account) error {
	ma.store.wlock(ctx)
	defer ma.store.wunlock(ctx)
	// username и email проверяются независимо, с точным совпадением
	if _, ok := ma.store.accountsByName[a.Username]; ok {
		return ErrDuplicate
	}
	if _, ok := ma.store.accountEmails[a.Email]; ok {
		return ErrDuplicate
	}
	a.ID = uuid.New()
	a.CreatedAt = time.Now().UTC()
	ma.store.accountsByName[a.Username] = *a
	ma.store.accountEmails[a.Email] = a.Username
	return nil
}

func (ma *MemoryAccounts) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	ma.store.rlock(ctx)
	defer ma.store.runlock(ctx)
	a, ok := ma.store.accountsByName[username]
	if !ok {
		return nil, ErrNotFound
	}
	cp := a
	return &cp, nil
}

// UserRepository implementation on wrapper type
type MemoryUsers struct{ store *MemoryStore }

func NewMemoryUsers(store *MemoryStore) *MemoryUsers { return &MemoryUsers{store: store} }

var _ UserRepository = (*MemoryUsers)(nil)

func (mu *MemoryUsers) Create(ctx context.Context, u *domain.User) error {
	mu.store.wlock(ctx)
	defer mu.store.wunlock(ctx)
	u.ID = uuid.New()
	mu.store.usersByID[u.ID] = *u
	return nil
}

func (mu *MemoryUsers) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	mu.store.rlock(ctx)
	defer mu.store.runlock(ctx)
	u, ok := mu.store.usersByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := u
	return &cp, nil
}

func (mu *MemoryUsers) List(ctx context.Context) ([]domain.User, error) {
	mu.store.rlock(ctx)
	defer mu.store.runlock(ctx)
	out := make([]domain.User, 0, len(mu.store.usersByID))
	for _, u := range mu.store.usersByID {
		out = append(out, u)
	}
	return out, nil
}

// OrderRepository implementation on wrapper type
type MemoryOrders struct{ store *MemoryStore }

func NewMemoryOrders(store *MemoryStore) *MemoryOrders { return &MemoryOrders{store: store} }

var _ OrderRepository = (*MemoryOrders)(nil)

func (mo *MemoryOrders) Create(ctx context.Context, o *domain.Order) error {
	mo.store.wlock(ctx)
	defer mo.store.wunlock(ctx)
	o.ID = uuid.New()
	o.CreatedAt = time.Now().UTC()
	cp := *o
	cp.Items = append([]domain.OrderItem(nil), o.Items...)
	mo.store.orders = append(mo.store.orders, cp)
	return nil
}

// ListByClient линейный проход по всем заказам; индекса нет
func (mo *MemoryOrders) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Order, error) {
	mo.store.rlock(ctx)
	defer mo.store.runlock(ctx)
	out := make([]domain.Order, 0)
	for _, o := range mo.store.orders {
		if o.ClientID != clientID {
			continue
		}
		cp := o
		cp.Items = append([]domain.OrderItem(nil), o.Items...)
		out = append(out, cp)
	}
	return out, nil
}

// Tx manager using write lock to emulate transaction boundary
type MemoryTx struct{ store *MemoryStore }

func NewMemoryTx(store *MemoryStore) *MemoryTx { return &MemoryTx{store: store} }

func (tx *MemoryTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// Для in-memory используем блокировку записи и помечаем контекст, чтобы репозитории пропускали внутренние локи
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	ctx = context.WithValue(ctx, txKey{}, true)
	return fn(ctx)
}
