package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"tienda/internal/domain"
	"tienda/internal/repository"
	"tienda/internal/service"
	"tienda/internal/token"
)

type Server struct {
	engine   *gin.Engine
	auth     *service.AuthService
	users    *service.UserService
	products *service.ProductService
	orders   *service.OrderService
}

func NewServer(auth *service.AuthService, users *service.UserService, products *service.ProductService, orders *service.OrderService) *Server {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	s := &Server{engine: r, auth: auth, users: users, products: products, orders: orders}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	auth := s.engine.Group("/auth")
	{
		auth.POST("/register", s.register)
		auth.POST("/login", s.login)
		auth.GET("/me", s.me)
	}

	s.engine.POST("/usuarios", s.createUser)
	s.engine.GET("/usuarios", s.listUsers)
	s.engine.GET("/usuarios/:id", s.getUser)
	s.engine.GET("/usuarios/:id/pedidos", s.listUserOrders)

	s.engine.POST("/productos", s.authRequired, s.createProduct)
	s.engine.GET("/productos", s.listProducts)
	s.engine.GET("/productos/:id", s.getProduct)
	s.engine.DELETE("/productos/:id", s.deleteProduct)

	s.engine.POST("/pedidos", s.authRequired, s.createOrder)
}

// authRequired проверяет заголовок Authorization: Bearer <token>
func (s *Server) authRequired(c *gin.Context) {
	const prefix = "Bearer "
	h := c.GetHeader("Authorization")
	if !strings.HasPrefix(h, prefix) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}
	username, err := s.auth.VerifyToken(strings.TrimPrefix(h, prefix))
	if err != nil {
		c.AbortWithStatusJSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.Set("username", username)
	c.Next()
}

// Auth handlers
type registerReq struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type tokenResp struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// @Summary Register account
// @Tags auth
// @Accept json
// @Produce json
// @Param input body registerReq true "Credentials"
// @Success 201 {object} domain.Account
// @Failure 400 {object} map[string]string
// @Router /auth/register [post]
func (s *Server) register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	a, err := s.auth.Register(c, req.Username, req.Email, req.Password)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, a)
}

// @Summary Login with form credentials
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Success 200 {object} tokenResp
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (s *Server) login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	tkn, err := s.auth.Login(c, username, password)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tokenResp{AccessToken: tkn, TokenType: "bearer"})
}

// @Summary Current account
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.Account
// @Failure 401 {object} map[string]string
// @Router /auth/me [get]
func (s *Server) me(c *gin.Context) {
	const prefix = "Bearer "
	h := c.GetHeader("Authorization")
	if !strings.HasPrefix(h, prefix) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}
	a, err := s.auth.Me(c, strings.TrimPrefix(h, prefix))
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, a)
}

// User handlers
type createUserReq struct {
	Name    string `json:"nombre" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Role    string `json:"tipo" binding:"required"`
	Address string `json:"direccion_postal"`
}

// @Summary Create user
// @Tags usuarios
// @Accept json
// @Produce json
// @Param input body createUserReq true "User"
// @Success 201 {object} domain.User
// @Failure 400 {object} map[string]string
// @Router /usuarios [post]
func (s *Server) createUser(c *gin.Context) {
	var req createUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	u, err := s.users.Register(c, domain.Role(req.Role), req.Name, req.Email, req.Address)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, u)
}

// @Summary Get user by id
// @Tags usuarios
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} domain.User
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /usuarios/{id} [get]
func (s *Server) getUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	u, err := s.users.GetByID(c, id)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, u)
}

// @Summary List users
// @Tags usuarios
// @Produce json
// @Success 200 {array} domain.User
// @Router /usuarios [get]
func (s *Server) listUsers(c *gin.Context) {
	list, err := s.users.List(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

// Product handlers
type createProductReq struct {
	Kind           string  `json:"tipo" binding:"required"`
	Name           string  `json:"nombre" binding:"required"`
	Price          float64 `json:"precio"`
	Stock          int64   `json:"stock"`
	WarrantyMonths *int64  `json:"meses_garantia"`
	Size           string  `json:"talla"`
	Color          string  `json:"color"`
}

// @Summary Create product
// @Tags productos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body createProductReq true "Product"
// @Success 201 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /productos [post]
func (s *Server) createProduct(c *gin.Context) {
	var req createProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p, err := s.products.Create(c, domain.Product{
		Kind:           domain.ProductKind(req.Kind),
		Name:           req.Name,
		Price:          req.Price,
		Stock:          req.Stock,
		WarrantyMonths: req.WarrantyMonths,
		Size:           req.Size,
		Color:          req.Color,
	})
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, p)
}

// @Summary Get product by id
// @Tags productos
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /productos/{id} [get]
func (s *Server) getProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	p, err := s.products.GetByID(c, id)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary Delete product
// @Tags productos
// @Param id path string true "Product ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /productos/{id} [delete]
func (s *Server) deleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := s.products.Delete(c, id); err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary List products
// @Tags productos
// @Produce json
// @Param q query string false "Name contains"
// @Param min_precio query number false "Min price"
// @Param max_precio query number false "Max price"
// @Success 200 {array} domain.Product
// @Router /productos [get]
func (s *Server) listProducts(c *gin.Context) {
	var f repository.ProductFilter
	if q := c.Query("q"); q != "" {
		f.NameSubstring = q
	}
	if v, ok := parsePrice(c.Query("min_precio")); ok {
		f.MinPrice = &v
	}
	if v, ok := parsePrice(c.Query("max_precio")); ok {
		f.MaxPrice = &v
	}
	list, err := s.products.List(c, f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

// Order handlers
type orderItemReq struct {
	ProductID uuid.UUID `json:"id_producto" binding:"required"`
	Quantity  int64     `json:"cantidad" binding:"required,gt=0"`
}

type createOrderReq struct {
	ClientID uuid.UUID      `json:"id_cliente" binding:"required"`
	Items    []orderItemReq `json:"items" binding:"required,min=1,dive"`
}

type pedidoItemRead struct {
	ProductID   uuid.UUID `json:"id_producto"`
	ProductName string    `json:"nombre_producto"`
	UnitPrice   float64   `json:"precio_unitario"`
	Quantity    int64     `json:"cantidad"`
	Subtotal    float64   `json:"subtotal"`
}

type pedidoRead struct {
	ID     uuid.UUID        `json:"id"`
	Date   time.Time        `json:"fecha"`
	Client string           `json:"cliente"`
	Total  float64          `json:"total"`
	Items  []pedidoItemRead `json:"items"`
}

// @Summary Place order
// @Tags pedidos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body createOrderReq true "Order"
// @Success 201 {object} pedidoRead
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /pedidos [post]
func (s *Server) createOrder(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, domain.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	o, err := s.orders.PlaceOrder(c, req.ClientID, items)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	out, err := s.renderOrder(c, o)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, out)
}

// @Summary List client orders
// @Tags pedidos
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {array} pedidoRead
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /usuarios/{id}/pedidos [get]
func (s *Server) listUserOrders(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	list, err := s.orders.OrdersForClient(c, id)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	out := make([]pedidoRead, 0, len(list))
	for i := range list {
		r, err := s.renderOrder(c, &list[i])
		if err != nil {
			c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
			return
		}
		out = append(out, r)
	}
	c.JSON(http.StatusOK, out)
}

// renderOrder разворачивает заказ по текущему каталогу; цены и итог живые
func (s *Server) renderOrder(c *gin.Context, o *domain.Order) (pedidoRead, error) {
	u, err := s.users.GetByID(c, o.ClientID)
	if err != nil {
		return pedidoRead{}, err
	}
	lines, total, err := s.orders.Lines(c, o)
	if err != nil {
		return pedidoRead{}, err
	}
	items := make([]pedidoItemRead, 0, len(lines))
	for _, l := range lines {
		items = append(items, pedidoItemRead{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			UnitPrice:   l.UnitPrice,
			Quantity:    l.Quantity,
			Subtotal:    l.Subtotal,
		})
	}
	return pedidoRead{ID: o.ID, Date: o.CreatedAt, Client: u.Name, Total: total, Items: items}, nil
}

func parsePrice(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidKind),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrNotAClient),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, repository.ErrDuplicate):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrAuthFailed),
		errors.Is(err, token.ErrInvalid),
		errors.Is(err, token.ErrExpired):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
