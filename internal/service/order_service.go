package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"tienda/internal/domain"
	"tienda/internal/repository"
)

// OrderService реализует логику заказов: резервирование остатков и выборки по клиенту
type OrderService struct {
	users    repository.UserRepository
	products repository.ProductRepository
	orders   repository.OrderRepository
	tx       repository.TxManager
}

func NewOrderService(users repository.UserRepository, products repository.ProductRepository, orders repository.OrderRepository, tx repository.TxManager) *OrderService {
	return &OrderService{users: users, products: products, orders: orders, tx: tx}
}

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNotAClient        = errors.New("user is not a client")
)

// OrderLine позиция заказа, развёрнутая по актуальному каталогу
type OrderLine struct {
	ProductID   uuid.UUID
	ProductName string
	UnitPrice   float64
	Quantity    int64
	Subtotal    float64
}

// PlaceOrder проверяет клиента и остатки всех позиций и атомарно списывает запас.
// Сначала валидируются все позиции, и только потом применяются все списания:
// при отказе любой позиции ни один остаток не меняется.
func (s *OrderService) PlaceOrder(ctx context.Context, clientID uuid.UUID, items []domain.OrderItem) (*domain.Order, error) {
	if clientID == uuid.Nil || len(items) == 0 {
		return nil, ErrInvalidInput
	}
	for _, it := range items {
		if it.ProductID == uuid.Nil || it.Quantity <= 0 {
			return nil, ErrInvalidInput
		}
	}

	var created *domain.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		u, err := s.users.GetByID(ctx, clientID)
		if err != nil {
			return err
		}
		if u.IsAdmin() {
			return ErrNotAClient
		}

		// load and check stock
		// accumulate updates to avoid partial state
		productCopies := make(map[uuid.UUID]*domain.Product, len(items))
		seen := make([]uuid.UUID, 0, len(items))
		for _, it := range items {
			p, ok := productCopies[it.ProductID]
			if !ok {
				p, err = s.products.GetByID(ctx, it.ProductID)
				if err != nil {
					return err
				}
				productCopies[it.ProductID] = p
				seen = append(seen, it.ProductID)
			}
			if p.Stock < it.Quantity {
				return fmt.Errorf("%w: %s", ErrInsufficientStock, p.Name)
			}
			// reserve
			p.Stock -= it.Quantity
		}
		// persist product stock updates, in request order
		for _, id := range seen {
			if err := s.products.Update(ctx, productCopies[id]); err != nil {
				return err
			}
		}

		// create order
		o := domain.Order{
			ClientID: clientID,
			Items:    append([]domain.OrderItem(nil), items...),
		}
		if err := s.orders.Create(ctx, &o); err != nil {
			return err
		}
		created = &o
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Stringer("order_id", created.ID).Stringer("client_id", clientID).Int("items", len(items)).Msg("order placed")
	return created, nil
}

// OrdersForClient возвращает заказы клиента линейным проходом по хранилищу
func (s *OrderService) OrdersForClient(ctx context.Context, clientID uuid.UUID) ([]domain.Order, error) {
	if clientID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	u, err := s.users.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if u.IsAdmin() {
		return nil, ErrNotAClient
	}
	return s.orders.ListByClient(ctx, clientID)
}

// Lines разворачивает позиции заказа по текущему каталогу и считает сумму.
// Цены берутся живые: итог отражает цену на момент чтения, не на момент
// оформления. Позиция удалённого товара остаётся с нулевой ценой.
func (s *OrderService) Lines(ctx context.Context, o *domain.Order) ([]OrderLine, float64, error) {
	lines := make([]OrderLine, 0, len(o.Items))
	var total float64
	for _, it := range o.Items {
		line := OrderLine{ProductID: it.ProductID, Quantity: it.Quantity}
		p, err := s.products.GetByID(ctx, it.ProductID)
		if err == nil {
			line.ProductName = p.Name
			line.UnitPrice = p.Price
			line.Subtotal = p.Price * float64(it.Quantity)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, 0, err
		}
		total += line.Subtotal
		lines = append(lines, line)
	}
	return lines, total, nil
}

// Total сумма заказа по актуальным ценам каталога
func (s *OrderService) Total(ctx context.Context, o *domain.Order) (float64, error) {
	_, total, err := s.Lines(ctx, o)
	return total, err
}
