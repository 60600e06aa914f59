package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"tienda/internal/domain"
	"tienda/internal/repository"
	"tienda/internal/token"
)

var ErrAuthFailed = errors.New("invalid credentials")

// dummyHash участвует в сравнении при неизвестном username, чтобы отказ
// стоил столько же, сколько несовпадение пароля
var dummyHash = func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("no-such-user"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return h
}()

// AuthService хранит учётные записи и выпускает сессионные токены
type AuthService struct {
	accounts repository.AccountRepository
	signer   *token.Signer
}

func NewAuthService(accounts repository.AccountRepository, signer *token.Signer) *AuthService {
	return &AuthService{accounts: accounts, signer: signer}
}

// Register создаёт учётную запись с bcrypt-хешем пароля.
// Пароль в открытом виде нигде не сохраняется.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.Account, error) {
	if username == "" || email == "" || password == "" {
		return nil, ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")
		return nil, err
	}
	a := domain.Account{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.accounts.Create(ctx, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Authenticate проверяет пару username/password. Неизвестный username и
// несовпавший пароль внешне неразличимы.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.Account, error) {
	a, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrAuthFailed
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return nil, ErrAuthFailed
	}
	return a, nil
}

// Login аутентифицирует и выпускает токен со стандартным сроком действия
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	a, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}
	return s.signer.Issue(a.Username, token.DefaultTTL)
}

// VerifyToken возвращает username из действительного токена
func (s *AuthService) VerifyToken(raw string) (string, error) {
	return s.signer.Verify(raw)
}

// Me загружает учётную запись по предъявленному токену
func (s *AuthService) Me(ctx context.Context, raw string) (*domain.Account, error) {
	username, err := s.signer.Verify(raw)
	if err != nil {
		return nil, err
	}
	a, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAuthFailed
		}
		return nil, err
	}
	return a, nil
}
