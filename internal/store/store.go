package store

import (
	"context"
	"errors"
	"time"

	"aquamanager/backend/internal/domain"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmailInUse        = errors.New("email already in use")
)

type Repository interface {
	GetSettings(ctx context.Context) (*domain.Settings, error)
	UpdateSettings(ctx context.Context, settings domain.Settings) (*domain.Settings, error)

	CreatePreBudget(ctx context.Context, budget domain.PreBudget) (*domain.PreBudget, error)
	GetPreBudgetByID(ctx context.Context, id string) (*domain.PreBudget, error)
	ListPreBudgets(ctx context.Context, status string, limit int) ([]domain.PreBudget, error)
	UpdatePreBudgetStatus(ctx context.Context, id string, status string) (*domain.PreBudget, error)

	CreateClient(ctx context.Context, client domain.Client) (*domain.Client, error)
	GetClientByID(ctx context.Context, id string) (*domain.Client, error)
	GetClientByUID(ctx context.Context, uid string) (*domain.Client, error)
	ListClients(ctx context.Context) ([]domain.Client, error)
	UpdateClient(ctx context.Context, client domain.Client) (*domain.Client, error)
	DeleteClient(ctx context.Context, id string) error
	UpdateClientStock(ctx context.Context, clientID string, stock []domain.ClientProduct) (*domain.Client, error)
	UpdateClientPayment(ctx context.Context, clientID string, payment domain.PaymentInfo) (*domain.Client, error)

	GetRoutes(ctx context.Context) (map[string]domain.RouteDay, error)
	SaveRouteDay(ctx context.Context, day domain.RouteDay) error
	RemoveClientFromRoutes(ctx context.Context, clientID string) error

	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	GetProductsByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	AdjustProductStock(ctx context.Context, id string, delta int) (*domain.Product, error)

	CreateOrder(ctx context.Context, order domain.Order) (*domain.Order, error)
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, clientID string, limit int) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status string) (*domain.Order, error)

	CreateReplenishmentQuote(ctx context.Context, quote domain.ReplenishmentQuote) (*domain.ReplenishmentQuote, error)
	GetReplenishmentQuoteByID(ctx context.Context, id string) (*domain.ReplenishmentQuote, error)
	ListReplenishmentQuotes(ctx context.Context, clientID string, limit int) ([]domain.ReplenishmentQuote, error)
	UpdateReplenishmentQuoteStatus(ctx context.Context, id string, status string, at time.Time) (*domain.ReplenishmentQuote, error)

	CreateUser(ctx context.Context, user domain.UserAccount) error
	GetUserByEmail(ctx context.Context, email string) (*domain.UserAccount, error)
	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	UpdateUserPassword(ctx context.Context, email string, password string) error
	CountUsersByRole(ctx context.Context, role string) (int, error)

	CreateAuditLog(ctx context.Context, entry domain.AuditLog) error
	ListAuditLogs(ctx context.Context, from time.Time, to time.Time, limit int) ([]domain.AuditLog, error)

	ResetData(ctx context.Context, scope string) error
}
