package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"tienda/internal/domain"
)

func TestMemoryStore_ProductCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	p := domain.Product{Kind: domain.KindGeneric, Name: "A", Price: 10, Stock: 5}
	if err := store.Create(ctx, &p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Fatalf("no id")
	}

	got, err := store.GetByID(ctx, p.ID)
	if err != nil || got.ID != p.ID {
		t.Fatalf("get: %v", err)
	}

	p.Price = 12
	if err := store.Update(ctx, &p); err != nil {
		t.Fatalf("update: %v", err)
	}

	if err := store.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetByID(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found")
	}
	if err := store.Delete(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete expected not found, got %v", err)
	}
}

func TestMemoryAccounts_UniqueIndexes(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	accounts := NewMemoryAccounts(store)

	a := domain.Account{Username: "maria", Email: "maria@tienda.es", PasswordHash: "h", IsActive: true}
	if err := accounts.Create(ctx, &a); err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.ID == uuid.Nil || a.CreatedAt.IsZero() {
		t.Fatalf("id/created_at not set: %+v", a)
	}

	dupName := domain.Account{Username: "maria", Email: "otra@tienda.es", PasswordHash: "h"}
	if err := accounts.Create(ctx, &dupName); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate username: %v", err)
	}
	dupMail := domain.Account{Username: "maria2", Email: "maria@tienda.es", PasswordHash: "h"}
	if err := accounts.Create(ctx, &dupMail); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate email: %v", err)
	}

	got, err := accounts.GetByUsername(ctx, "maria")
	if err != nil || got.Email != "maria@tienda.es" {
		t.Fatalf("get: %v", err)
	}
	if _, err := accounts.GetByUsername(ctx, "nadie"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMemoryOrders_ListByClient(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	orders := NewMemoryOrders(store)

	c1, c2 := uuid.New(), uuid.New()
	p := uuid.New()
	for _, o := range []domain.Order{
		{ClientID: c1, Items: []domain.OrderItem{{ProductID: p, Quantity: 1}}},
		{ClientID: c2, Items: []domain.OrderItem{{ProductID: p, Quantity: 2}}},
		{ClientID: c1, Items: []domain.OrderItem{{ProductID: p, Quantity: 3}}},
	} {
		cp := o
		if err := orders.Create(ctx, &cp); err != nil {
			t.Fatalf("create: %v", err)
		}
		if cp.ID == uuid.Nil || cp.CreatedAt.IsZero() {
			t.Fatalf("id/created_at not set")
		}
	}

	list, err := orders.ListByClient(ctx, c1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(list))
	}

	// returned orders are copies
	list[0].Items[0].Quantity = 99
	again, _ := orders.ListByClient(ctx, c1)
	if again[0].Items[0].Quantity == 99 {
		t.Fatalf("stored order mutated through returned copy")
	}
}

func TestMemoryTx_TransactionalUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	tx := NewMemoryTx(store)
	orders := NewMemoryOrders(store)

	// seed product
	p := domain.Product{Kind: domain.KindGeneric, Name: "A", Price: 10, Stock: 5}
	if err := store.Create(ctx, &p); err != nil {
		t.Fatal(err)
	}

	// emulate atomic create order with stock decrease
	err := tx.WithTransaction(ctx, func(ctx context.Context) error {
		pp, err := store.GetByID(ctx, p.ID)
		if err != nil {
			return err
		}
		if pp.Stock < 3 {
			t.Fatalf("stock precondition")
		}
		pp.Stock -= 3
		if err := store.Update(ctx, pp); err != nil {
			return err
		}
		o := domain.Order{ClientID: uuid.New(), Items: []domain.OrderItem{{ProductID: p.ID, Quantity: 3}}}
		return orders.Create(ctx, &o)
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}

	// check stock after
	pp, _ := store.GetByID(context.Background(), p.ID)
	if pp.Stock != 2 {
		t.Fatalf("stock expected 2, got %v", pp.Stock)
	}
}

func TestList_Filtering(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	add := func(n string, price float64) {
		p := domain.Product{Kind: domain.KindGeneric, Name: n, Price: price, Stock: 1}
		if err := store.Create(ctx, &p); err != nil {
			t.Fatal(err)
		}
	}
	add("Camiseta", 100)
	add("Pantalón", 50)
	add("Camisa", 150)

	// name contains
	list, _ := store.List(ctx, ProductFilter{NameSubstring: "camis"})
	if len(list) != 2 {
		t.Fatalf("name filter expected 2, got %d", len(list))
	}

	// min
	min := 100.0
	list, _ = store.List(ctx, ProductFilter{MinPrice: &min})
	for _, p := range list {
		if p.Price < min {
			t.Fatalf("min filter fail")
		}
	}

	// max
	max := 100.0
	list, _ = store.List(ctx, ProductFilter{MaxPrice: &max})
	for _, p := range list {
		if p.Price > max {
			t.Fatalf("max filter fail")
		}
	}
}
