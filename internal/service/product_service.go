package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"tienda/internal/domain"
	"tienda/internal/repository"
)

// ProductService инкапсулирует бизнес-логику вокруг товаров
type ProductService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidKind  = errors.New("invalid product kind")
)

func (s *ProductService) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	cp := p
	if err := s.repo.Create(ctx, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Delete не идемпотентен: повторное удаление того же id — ошибка
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *ProductService) List(ctx context.Context, f repository.ProductFilter) ([]domain.Product, error) {
	return s.repo.List(ctx, f)
}

// validateProduct проверяет общие поля и обязательные поля варианта
// до сохранения товара
func validateProduct(p domain.Product) error {
	if p.Name == "" || p.Price < 0 || p.Stock < 0 {
		return ErrInvalidInput
	}
	switch p.Kind {
	case domain.KindGeneric:
	case domain.KindElectronic:
		if p.WarrantyMonths == nil || *p.WarrantyMonths < 0 {
			return ErrInvalidInput
		}
	case domain.KindApparel:
		if p.Size == "" || p.Color == "" {
			return ErrInvalidInput
		}
	default:
		return ErrInvalidKind
	}
	return nil
}
