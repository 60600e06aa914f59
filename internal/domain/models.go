package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role тип роли пользователя магазина
type Role string

const (
	RoleClient Role = "cliente"
	RoleAdmin  Role = "admin"
)

// User представляет пользователя магазина
type User struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"nombre"`
	Email   string    `json:"email"`
	Role    Role      `json:"tipo"`
	Address string    `json:"direccion_postal,omitempty"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Account учётная запись для входа; хранится отдельно от пользователей магазина
type Account struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	IsActive     bool      `json:"is_active"`
}

// ProductKind тип разновидности товара
type ProductKind string

const (
	KindGeneric    ProductKind = "generico"
	KindElectronic ProductKind = "electronico"
	KindApparel    ProductKind = "ropa"
)

// Product представляет товар; поля варианта заполняются по Kind
type Product struct {
	ID             uuid.UUID   `json:"id"`
	Kind           ProductKind `json:"tipo"`
	Name           string      `json:"nombre"`
	Price          float64     `json:"precio"`
	Stock          int64       `json:"stock"`
	WarrantyMonths *int64      `json:"meses_garantia,omitempty"`
	Size           string      `json:"talla,omitempty"`
	Color          string      `json:"color,omitempty"`
}

// OrderItem позиция в заказе
type OrderItem struct {
	ProductID uuid.UUID `json:"id_producto"`
	Quantity  int64     `json:"cantidad"`
}

// Order сущность заказа; после создания не изменяется
type Order struct {
	ID        uuid.UUID   `json:"id"`
	ClientID  uuid.UUID   `json:"id_cliente"`
	Items     []OrderItem `json:"items"`
	CreatedAt time.Time   `json:"fecha"`
}
