package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"tienda/internal/domain"
	"tienda/internal/repository"
)

var ErrInvalidRole = errors.New("invalid role")

// UserService регистрация и чтение пользователей магазина
type UserService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Register создаёт пользователя; клиенту обязателен почтовый адрес
func (s *UserService) Register(ctx context.Context, role domain.Role, name, email, address string) (*domain.User, error) {
	if name == "" || email == "" {
		return nil, ErrInvalidInput
	}
	switch role {
	case domain.RoleClient:
		if address == "" {
			return nil, ErrInvalidInput
		}
	case domain.RoleAdmin:
		address = ""
	default:
		return nil, ErrInvalidRole
	}
	u := domain.User{Name: name, Email: email, Role: role, Address: address}
	if err := s.repo.Create(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}
