package memory

import (
	"context"
	"log"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"aquamanager/backend/internal/domain"
	"aquamanager/backend/internal/store"
	"aquamanager/backend/internal/xid"
)

type Store struct {
	mu           sync.RWMutex
	settings     *domain.Settings
	preBudgets   map[string]domain.PreBudget
	clients      map[string]domain.Client
	routes       map[string]domain.RouteDay
	products     map[string]domain.Product
	orders       map[string]domain.Order
	quotes       map[string]domain.ReplenishmentQuote
	usersByEmail map[string]domain.UserAccount
	auditLogs    []domain.AuditLog
}

func New() *Store {
	return &Store{
		preBudgets:   make(map[string]domain.PreBudget),
		clients:      make(map[string]domain.Client),
		routes:       domain.DefaultRoutes(),
		products:     make(map[string]domain.Product),
		orders:       make(map[string]domain.Order),
		quotes:       make(map[string]domain.ReplenishmentQuote),
		usersByEmail: make(map[string]domain.UserAccount),
		auditLogs:    make([]domain.AuditLog, 0, 128),
	}
}

// seedUsers builds the initial in-memory accounts for dev/demo mode.
// Credentials are read from SEED_ADMIN_PASSWORD and SEED_CLIENT_PASSWORD
// environment variables. If unset, hardcoded dev defaults are used with a
// warning printed to stdout. These credentials are never used in production
// (the backend uses PostgreSQL when DATABASE_URL is set).
func seedUsers() map[string]domain.UserAccount {
	adminPwd := envOr("SEED_ADMIN_PASSWORD", "admin123")
	clientPwd := envOr("SEED_CLIENT_PASSWORD", "client123")
	if os.Getenv("SEED_ADMIN_PASSWORD") == "" || os.Getenv("SEED_CLIENT_PASSWORD") == "" {
		log.Println("[memory-store] WARNING: using default dev credentials. Set SEED_ADMIN_PASSWORD and SEED_CLIENT_PASSWORD to override.")
	}

	now := time.Now().UTC()
	users := map[string]domain.UserAccount{}
	for _, u := range []struct {
		email    string
		password string
		role     string
		clientID string
	}{
		{"admin@aquamanager.dev", adminPwd, domain.RoleAdmin, ""},
		{"maria@exemplo.com", clientPwd, domain.RoleClient, "cli-maria"},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("[memory-store] failed to hash seed password for %s: %v", u.email, err)
		}
		users[u.email] = domain.UserAccount{
			ID:        xid.New("usr"),
			Email:     u.email,
			Password:  string(hash),
			Role:      u.role,
			ClientID:  u.clientID,
			Active:    true,
			CreatedAt: now,
		}
	}
	return users
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func NewSeeded() *Store {
	s := New()
	s.usersByEmail = seedUsers()

	products := []domain.Product{
		{ID: "prd-cloro", Name: "Cloro Granulado 2kg", Description: "Hipoclorito de cálcio para tratamento semanal", PriceCents: 8900, Stock: 60},
		{ID: "prd-algicida", Name: "Algicida Manutenção 1L", Description: "Previne o surgimento de algas", PriceCents: 4500, Stock: 35},
		{ID: "prd-clarificante", Name: "Clarificante 1L", Description: "Agrupa partículas para filtragem", PriceCents: 3900, Stock: 28},
		{ID: "prd-ph-mais", Name: "Elevador de pH 1kg", Description: "Corrige pH abaixo de 7,0", PriceCents: 3200, Stock: 40},
		{ID: "prd-ph-menos", Name: "Redutor de pH 1kg", Description: "Corrige pH acima de 7,6", PriceCents: 3400, Stock: 0},
		{ID: "prd-peneira", Name: "Peneira com Cabo", Description: "Remoção de folhas e detritos", PriceCents: 5600, Stock: 15},
	}
	for _, p := range products {
		s.products[p.ID] = p
	}

	now := time.Now().UTC()
	client := domain.Client{
		ID:              "cli-maria",
		UID:             "cli-maria",
		Name:            "Maria Oliveira",
		Email:           "maria@exemplo.com",
		Phone:           "+55 11 98888-0001",
		Address:         "Rua das Acácias, 120 - São Paulo",
		PoolDimensions:  domain.PoolDimensions{WidthMeters: 4, LengthMeters: 8, DepthMeters: 1.4},
		PoolVolume:      44800,
		HasWellWater:    true,
		IncludeProducts: false,
		Plan:            domain.PlanVIP,
		ClientStatus:    domain.ClientStatusActive,
		PoolStatus:      domain.DefaultPoolStatus(),
		Payment: domain.PaymentInfo{
			Status:          domain.PaymentStatusPending,
			DueDate:         now.AddDate(0, 1, 0),
			MonthlyFeeCents: 27000,
		},
		Stock: []domain.ClientProduct{
			{ProductID: "prd-cloro", Name: "Cloro Granulado 2kg", Quantity: 1},
			{ProductID: "prd-algicida", Name: "Algicida Manutenção 1L", Quantity: 4},
		},
		CreatedAt: now,
	}
	s.clients[client.ID] = client

	segunda := s.routes["Segunda"]
	segunda.ClientIDs = []string{client.ID}
	segunda.Active = true
	s.routes["Segunda"] = segunda

	return s
}

func (s *Store) GetSettings(_ context.Context) (*domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.settings == nil {
		return nil, store.ErrNotFound
	}
	copySettings := cloneSettings(*s.settings)
	return &copySettings, nil
}

func (s *Store) UpdateSettings(_ context.Context, settings domain.Settings) (*domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := cloneSettings(settings)
	s.settings = &saved
	result := cloneSettings(saved)
	return &result, nil
}

func (s *Store) CreatePreBudget(_ context.Context, budget domain.PreBudget) (*domain.PreBudget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(budget.Name) == "" || strings.TrimSpace(budget.Email) == "" {
		return nil, store.ErrInvalidInput
	}
	if budget.ID == "" {
		budget.ID = xid.New("pb")
	}
	if budget.CreatedAt.IsZero() {
		budget.CreatedAt = time.Now().UTC()
	}
	if budget.Status == "" {
		budget.Status = domain.PreBudgetStatusPending
	}

	s.preBudgets[budget.ID] = budget
	created := budget
	return &created, nil
}

func (s *Store) GetPreBudgetByID(_ context.Context, id string) (*domain.PreBudget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	budget, exists := s.preBudgets[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyBudget := budget
	return &copyBudget, nil
}

func (s *Store) ListPreBudgets(_ context.Context, status string, limit int) ([]domain.PreBudget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.PreBudget, 0, len(s.preBudgets))
	for _, budget := range s.preBudgets {
		if status != "" && budget.Status != status {
			continue
		}
		result = append(result, budget)
	}
	slices.SortFunc(result, func(a, b domain.PreBudget) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return cmpString(b.ID, a.ID)
		}
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *Store) UpdatePreBudgetStatus(_ context.Context, id string, status string) (*domain.PreBudget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	budget, exists := s.preBudgets[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	budget.Status = status
	s.preBudgets[id] = budget
	copyBudget := budget
	return &copyBudget, nil
}

func (s *Store) CreateClient(_ context.Context, client domain.Client) (*domain.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(client.Name) == "" {
		return nil, store.ErrInvalidInput
	}
	if client.ID == "" {
		client.ID = xid.New("cli")
	}
	if client.CreatedAt.IsZero() {
		client.CreatedAt = time.Now().UTC()
	}

	s.clients[client.ID] = cloneClient(client)
	created := cloneClient(client)
	return &created, nil
}

func (s *Store) GetClientByID(_ context.Context, id string) (*domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	client, exists := s.clients[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyClient := cloneClient(client)
	return &copyClient, nil
}

func (s *Store) GetClientByUID(_ context.Context, uid string) (*domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, client := range s.clients {
		if client.UID == uid {
			copyClient := cloneClient(client)
			return &copyClient, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListClients(_ context.Context) ([]domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Client, 0, len(s.clients))
	for _, client := range s.clients {
		result = append(result, cloneClient(client))
	}
	slices.SortFunc(result, func(a, b domain.Client) int {
		return cmpString(a.Name, b.Name)
	})
	return result, nil
}

func (s *Store) UpdateClient(_ context.Context, client domain.Client) (*domain.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.clients[client.ID]; !exists {
		return nil, store.ErrNotFound
	}
	s.clients[client.ID] = cloneClient(client)
	updated := cloneClient(client)
	return &updated, nil
}

func (s *Store) DeleteClient(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.clients[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.clients, id)
	for day, route := range s.routes {
		route.ClientIDs = removeID(route.ClientIDs, id)
		s.routes[day] = route
	}
	return nil
}

func (s *Store) UpdateClientStock(_ context.Context, clientID string, stock []domain.ClientProduct) (*domain.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, exists := s.clients[clientID]
	if !exists {
		return nil, store.ErrNotFound
	}
	client.Stock = make([]domain.ClientProduct, len(stock))
	copy(client.Stock, stock)
	s.clients[clientID] = client
	updated := cloneClient(client)
	return &updated, nil
}

func (s *Store) UpdateClientPayment(_ context.Context, clientID string, payment domain.PaymentInfo) (*domain.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, exists := s.clients[clientID]
	if !exists {
		return nil, store.ErrNotFound
	}
	client.Payment = payment
	s.clients[clientID] = client
	updated := cloneClient(client)
	return &updated, nil
}

func (s *Store) GetRoutes(_ context.Context) (map[string]domain.RouteDay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]domain.RouteDay, len(s.routes))
	for day, route := range s.routes {
		result[day] = cloneRouteDay(route)
	}
	return result, nil
}

func (s *Store) SaveRouteDay(_ context.Context, day domain.RouteDay) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.routes[day.Day]; !exists {
		return store.ErrInvalidInput
	}
	s.routes[day.Day] = cloneRouteDay(day)
	return nil
}

func (s *Store) RemoveClientFromRoutes(_ context.Context, clientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for day, route := range s.routes {
		route.ClientIDs = removeID(route.ClientIDs, clientID)
		s.routes[day] = route
	}
	return nil
}

func (s *Store) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Product, 0, len(s.products))
	for _, product := range s.products {
		result = append(result, product)
	}
	slices.SortFunc(result, func(a, b domain.Product) int {
		return cmpString(a.Name, b.Name)
	})
	return result, nil
}

func (s *Store) GetProductByID(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, exists := s.products[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyProduct := product
	return &copyProduct, nil
}

func (s *Store) GetProductsByIDs(_ context.Context, ids []string) (map[string]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]domain.Product, len(ids))
	for _, id := range ids {
		if product, ok := s.products[id]; ok {
			result[id] = product
		}
	}
	return result, nil
}

func (s *Store) CreateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(product.Name) == "" || product.PriceCents < 1 || product.Stock < 0 {
		return nil, store.ErrInvalidInput
	}
	if product.ID == "" {
		product.ID = xid.New("prd")
	}
	if _, exists := s.products[product.ID]; exists {
		return nil, store.ErrInvalidInput
	}

	s.products[product.ID] = product
	created := product
	return &created, nil
}

func (s *Store) UpdateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(product.Name) == "" || product.PriceCents < 1 || product.Stock < 0 {
		return nil, store.ErrInvalidInput
	}
	if _, exists := s.products[product.ID]; !exists {
		return nil, store.ErrNotFound
	}

	s.products[product.ID] = product
	updated := product
	return &updated, nil
}

func (s *Store) DeleteProduct(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *Store) AdjustProductStock(_ context.Context, id string, delta int) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, exists := s.products[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	next := product.Stock + delta
	if next < 0 {
		return nil, store.ErrInsufficientStock
	}
	product.Stock = next
	s.products[id] = product
	updated := product
	return &updated, nil
}

func (s *Store) CreateOrder(_ context.Context, order domain.Order) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if order.ClientID == "" || len(order.Items) == 0 {
		return nil, store.ErrInvalidInput
	}
	if order.ID == "" {
		order.ID = xid.New("ord")
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	if order.Status == "" {
		order.Status = domain.OrderStatusPending
	}

	s.orders[order.ID] = cloneOrder(order)
	created := cloneOrder(order)
	return &created, nil
}

func (s *Store) GetOrderByID(_ context.Context, id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, exists := s.orders[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyOrder := cloneOrder(order)
	return &copyOrder, nil
}

func (s *Store) ListOrders(_ context.Context, clientID string, limit int) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Order, 0, len(s.orders))
	for _, order := range s.orders {
		if clientID != "" && order.ClientID != clientID {
			continue
		}
		result = append(result, cloneOrder(order))
	}
	slices.SortFunc(result, func(a, b domain.Order) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return cmpString(b.ID, a.ID)
		}
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *Store) UpdateOrderStatus(_ context.Context, id string, status string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, exists := s.orders[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	order.Status = status
	s.orders[id] = order
	updated := cloneOrder(order)
	return &updated, nil
}

func (s *Store) CreateReplenishmentQuote(_ context.Context, quote domain.ReplenishmentQuote) (*domain.ReplenishmentQuote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quote.ClientID == "" || len(quote.Items) == 0 {
		return nil, store.ErrInvalidInput
	}
	if quote.ID == "" {
		quote.ID = xid.New("rq")
	}
	if quote.CreatedAt.IsZero() {
		quote.CreatedAt = time.Now().UTC()
	}
	if quote.UpdatedAt.IsZero() {
		quote.UpdatedAt = quote.CreatedAt
	}
	if quote.Status == "" {
		quote.Status = domain.QuoteStatusSuggested
	}

	s.quotes[quote.ID] = cloneQuote(quote)
	created := cloneQuote(quote)
	return &created, nil
}

func (s *Store) GetReplenishmentQuoteByID(_ context.Context, id string) (*domain.ReplenishmentQuote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	quote, exists := s.quotes[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyQuote := cloneQuote(quote)
	return &copyQuote, nil
}

func (s *Store) ListReplenishmentQuotes(_ context.Context, clientID string, limit int) ([]domain.ReplenishmentQuote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.ReplenishmentQuote, 0, len(s.quotes))
	for _, quote := range s.quotes {
		if clientID != "" && quote.ClientID != clientID {
			continue
		}
		result = append(result, cloneQuote(quote))
	}
	slices.SortFunc(result, func(a, b domain.ReplenishmentQuote) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return cmpString(b.ID, a.ID)
		}
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *Store) UpdateReplenishmentQuoteStatus(_ context.Context, id string, status string, at time.Time) (*domain.ReplenishmentQuote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	quote, exists := s.quotes[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	quote.Status = status
	if at.IsZero() {
		at = time.Now().UTC()
	}
	quote.UpdatedAt = at
	s.quotes[id] = quote
	updated := cloneQuote(quote)
	return &updated, nil
}

func (s *Store) CreateUser(_ context.Context, user domain.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(user.Email))
	if email == "" || strings.TrimSpace(user.Password) == "" {
		return store.ErrInvalidInput
	}
	if _, exists := s.usersByEmail[email]; exists {
		return store.ErrEmailInUse
	}
	user.Email = email
	if user.ID == "" {
		user.ID = xid.New("usr")
	}
	if user.Role == "" {
		user.Role = domain.RoleClient
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.Active = true
	s.usersByEmail[user.Email] = user
	return nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.usersByEmail[strings.ToLower(strings.TrimSpace(email))]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyUser := user
	return &copyUser, nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.UserAccount, 0, len(s.usersByEmail))
	for _, user := range s.usersByEmail {
		users = append(users, user)
	}
	slices.SortFunc(users, func(a, b domain.UserAccount) int {
		return cmpString(a.Email, b.Email)
	})
	return users, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, email string, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return store.ErrInvalidInput
	}
	user, exists := s.usersByEmail[email]
	if !exists {
		return store.ErrNotFound
	}
	user.Password = password
	s.usersByEmail[email] = user
	return nil
}

func (s *Store) CountUsersByRole(_ context.Context, role string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, user := range s.usersByEmail {
		if user.Role == role && user.Active {
			count++
		}
	}
	return count, nil
}

func (s *Store) CreateAuditLog(_ context.Context, entry domain.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = xid.New("audit")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	s.auditLogs = append(s.auditLogs, entry)
	return nil
}

func (s *Store) ListAuditLogs(_ context.Context, from time.Time, to time.Time, limit int) ([]domain.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.AuditLog, 0, 64)
	for _, entry := range s.auditLogs {
		if entry.CreatedAt.Before(from) || !entry.CreatedAt.Before(to) {
			continue
		}
		result = append(result, entry)
	}
	slices.SortFunc(result, func(a, b domain.AuditLog) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return cmpString(b.ID, a.ID)
		}
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *Store) ResetData(_ context.Context, scope string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch scope {
	case domain.ResetScopeReports:
		s.orders = make(map[string]domain.Order)
		s.quotes = make(map[string]domain.ReplenishmentQuote)
		s.auditLogs = s.auditLogs[:0]
	case domain.ResetScopeAll:
		s.preBudgets = make(map[string]domain.PreBudget)
		s.clients = make(map[string]domain.Client)
		s.routes = domain.DefaultRoutes()
		s.orders = make(map[string]domain.Order)
		s.quotes = make(map[string]domain.ReplenishmentQuote)
		s.auditLogs = s.auditLogs[:0]
		for email, user := range s.usersByEmail {
			if user.Role != domain.RoleAdmin {
				delete(s.usersByEmail, email)
			}
		}
	default:
		return store.ErrInvalidInput
	}
	return nil
}

func removeID(ids []string, id string) []string {
	result := ids[:0]
	for _, candidate := range ids {
		if candidate != id {
			result = append(result, candidate)
		}
	}
	return result
}

func cmpString(a string, b string) int {
	if a == b {
		return 0
	}
	if a < b {
		return -1
	}
	return 1
}

func cloneSettings(src domain.Settings) domain.Settings {
	dup := src
	tiers := make([]domain.VolumeTier, len(src.Pricing.VolumeTiers))
	copy(tiers, src.Pricing.VolumeTiers)
	dup.Pricing.VolumeTiers = tiers
	dup.Plans.Simple.Benefits = append([]string(nil), src.Plans.Simple.Benefits...)
	dup.Plans.VIP.Benefits = append([]string(nil), src.Plans.VIP.Benefits...)
	return dup
}

func cloneClient(src domain.Client) domain.Client {
	dup := src
	stock := make([]domain.ClientProduct, len(src.Stock))
	copy(stock, src.Stock)
	dup.Stock = stock
	return dup
}

func cloneRouteDay(src domain.RouteDay) domain.RouteDay {
	dup := src
	dup.ClientIDs = append([]string(nil), src.ClientIDs...)
	return dup
}

func cloneOrder(src domain.Order) domain.Order {
	dup := src
	items := make([]domain.QuoteItem, len(src.Items))
	copy(items, src.Items)
	dup.Items = items
	return dup
}

func cloneQuote(src domain.ReplenishmentQuote) domain.ReplenishmentQuote {
	dup := src
	items := make([]domain.QuoteItem, len(src.Items))
	copy(items, src.Items)
	dup.Items = items
	return dup
}
