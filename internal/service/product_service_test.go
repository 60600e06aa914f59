package service

import (
	"context"
	"errors"
	"testing"

	"tienda/internal/domain"
	"tienda/internal/repository"
)

func TestProductCreate_Variants(t *testing.T) {
	ctx := context.Background()
	_, _, ps, _ := setup(t)

	if _, err := ps.Create(ctx, domain.Product{Kind: domain.KindGeneric, Name: "Libro", Price: 15, Stock: 3}); err != nil {
		t.Fatalf("generic: %v", err)
	}

	warranty := int64(24)
	if _, err := ps.Create(ctx, domain.Product{Kind: domain.KindElectronic, Name: "Portátil", Price: 900, Stock: 2, WarrantyMonths: &warranty}); err != nil {
		t.Fatalf("electronic: %v", err)
	}
	if _, err := ps.Create(ctx, domain.Product{Kind: domain.KindElectronic, Name: "Portátil", Price: 900, Stock: 2}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("electronic without warranty: %v", err)
	}

	if _, err := ps.Create(ctx, domain.Product{Kind: domain.KindApparel, Name: "Camiseta", Price: 20, Stock: 10, Size: "M", Color: "rojo"}); err != nil {
		t.Fatalf("apparel: %v", err)
	}
	if _, err := ps.Create(ctx, domain.Product{Kind: domain.KindApparel, Name: "Camiseta", Price: 20, Stock: 10, Size: "M"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("apparel without color: %v", err)
	}

	if _, err := ps.Create(ctx, domain.Product{Kind: "comida", Name: "Pan", Price: 1, Stock: 1}); !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("unknown kind: %v", err)
	}
}

func TestProductCreate_CommonFields(t *testing.T) {
	ctx := context.Background()
	_, _, ps, _ := setup(t)

	if _, err := ps.Create(ctx, domain.Product{Kind: domain.KindGeneric, Name: "", Price: 1, Stock: 1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty name: %v", err)
	}
	if _, err := ps.Create(ctx, domain.Product{Kind: domain.KindGeneric, Name: "A", Price: -1, Stock: 1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("negative price: %v", err)
	}
	if _, err := ps.Create(ctx, domain.Product{Kind: domain.KindGeneric, Name: "A", Price: 1, Stock: -1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("negative stock: %v", err)
	}
}

func TestProductDelete_NotIdempotent(t *testing.T) {
	ctx := context.Background()
	_, _, ps, _ := setup(t)

	p, err := ps.Create(ctx, domain.Product{Kind: domain.KindGeneric, Name: "A", Price: 1, Stock: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := ps.Delete(ctx, p.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := ps.Delete(ctx, p.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("second delete expected not found, got %v", err)
	}
}

func TestProductList_Filtering(t *testing.T) {
	ctx := context.Background()
	_, _, ps, _ := setup(t)

	add := func(n string, price float64) {
		if _, err := ps.Create(ctx, domain.Product{Kind: domain.KindGeneric, Name: n, Price: price, Stock: 1}); err != nil {
			t.Fatal(err)
		}
	}
	add("Camiseta", 20)
	add("Camisa", 35)
	add("Pantalón", 50)

	list, _ := ps.List(ctx, repository.ProductFilter{NameSubstring: "camis"})
	if len(list) != 2 {
		t.Fatalf("name filter expected 2, got %d", len(list))
	}

	min := 30.0
	list, _ = ps.List(ctx, repository.ProductFilter{MinPrice: &min})
	for _, p := range list {
		if p.Price < min {
			t.Fatalf("min filter fail")
		}
	}

	max := 30.0
	list, _ = ps.List(ctx, repository.ProductFilter{MaxPrice: &max})
	for _, p := range list {
		if p.Price > max {
			t.Fatalf("max filter fail")
		}
	}
}
