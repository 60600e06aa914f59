package token

import (
	"errors"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

// ErrInvalid возвращается при неверной подписи или повреждённом токене
var ErrInvalid = errors.New("token invalid")

// ErrExpired возвращается, когда срок действия токена истёк
var ErrExpired = errors.New("token expired")

// DefaultTTL срок действия сессионного токена по умолчанию
const DefaultTTL = 30 * time.Minute

// Signer выпускает и проверяет подписанные HS256 токены.
// Проверка stateless: ни списка отзыва, ни серверного хранилища сессий нет.
type Signer struct {
	key []byte
}

func NewSigner(key []byte) *Signer { return &Signer{key: key} }

// Issue выпускает токен с subject и сроком действия ttl
func (s *Signer) Issue(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	tok, err := jwt.NewBuilder().
		Subject(subject).
		IssuedAt(now).
		Expiration(now.Add(ttl)).
		Build()
	if err != nil {
		return "", err
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256(), s.key))
	if err != nil {
		return "", err
	}
	return string(signed), nil
}

// Verify проверяет подпись и срок действия и возвращает subject
func (s *Signer) Verify(raw string) (string, error) {
	tok, err := jwt.Parse([]byte(raw), jwt.WithKey(jwa.HS256(), s.key), jwt.WithValidate(true))
	if err != nil {
		if errors.Is(err, jwt.TokenExpiredError()) {
			return "", ErrExpired
		}
		return "", ErrInvalid
	}
	sub, ok := tok.Subject()
	if !ok || sub == "" {
		return "", ErrInvalid
	}
	return sub, nil
}
