package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"aquamanager/backend/internal/cache"
	"aquamanager/backend/internal/domain"
	"aquamanager/backend/internal/pricing"
	"aquamanager/backend/internal/replenishment"
	"aquamanager/backend/internal/store"
	"aquamanager/backend/internal/xid"
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

type Service struct {
	repo      store.Repository
	runMarker cache.RunMarker
}

func New(repo store.Repository, runMarker cache.RunMarker) *Service {
	if runMarker == nil {
		runMarker = cache.NewMemoryRunMarker()
	}

	return &Service{
		repo:      repo,
		runMarker: runMarker,
	}
}

func (s *Service) Settings(ctx context.Context) (domain.Settings, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.DefaultSettings(), nil
		}
		return domain.Settings{}, err
	}
	return *settings, nil
}

func (s *Service) PublicSettings(ctx context.Context) (domain.PublicSettings, error) {
	settings, err := s.Settings(ctx)
	if err != nil {
		return domain.PublicSettings{}, err
	}
	return domain.PublicSettings{
		CompanyName:  settings.CompanyName,
		MainTitle:    settings.MainTitle,
		MainSubtitle: settings.MainSubtitle,
		Plans:        settings.Plans,
		Features:     settings.Features,
	}, nil
}

func (s *Service) UpdateSettings(ctx context.Context, settings domain.Settings) (domain.Settings, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.Settings{}, fmt.Errorf("admin role required")
	}

	if err := validatePricing(settings.Pricing); err != nil {
		return domain.Settings{}, err
	}
	sort.Slice(settings.Pricing.VolumeTiers, func(i, j int) bool {
		return settings.Pricing.VolumeTiers[i].UpToLiters < settings.Pricing.VolumeTiers[j].UpToLiters
	})
	if settings.Automation.ReplenishmentStockThreshold < 0 {
		return domain.Settings{}, store.ErrInvalidInput
	}

	saved, err := s.repo.UpdateSettings(ctx, settings)
	if err != nil {
		return domain.Settings{}, err
	}

	s.logAudit(ctx, "settings_update", "settings", "global", fmt.Sprintf("tiers=%d,vip_enabled=%t", len(saved.Pricing.VolumeTiers), saved.Features.VIPPlanEnabled))
	return *saved, nil
}

func (s *Service) PreviewQuote(ctx context.Context, req domain.QuotePreviewRequest) (domain.QuotePreviewResponse, error) {
	settings, err := s.Settings(ctx)
	if err != nil {
		return domain.QuotePreviewResponse{}, err
	}

	dims := pricing.ParseDimensions(req.Width, req.Length, req.Depth)
	opts := pricing.Options{HasWellWater: req.HasWellWater, IncludeProducts: req.IncludeProducts}
	quote, err := pricing.Compute(dims, opts, normalizePlan(req.Plan), settings)
	if err != nil {
		return domain.QuotePreviewResponse{}, err
	}

	return domain.QuotePreviewResponse{
		VolumeLiters:    quote.VolumeLiters,
		MonthlyFeeCents: quote.MonthlyFeeCents,
		Valid:           quote.MonthlyFeeCents > 0,
	}, nil
}

func (s *Service) CreatePreBudget(ctx context.Context, req domain.PreBudgetCreateRequest) (domain.PreBudget, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	req.Address = strings.TrimSpace(req.Address)
	if req.Name == "" || req.Email == "" || !strings.Contains(req.Email, "@") {
		return domain.PreBudget{}, store.ErrInvalidInput
	}

	settings, err := s.Settings(ctx)
	if err != nil {
		return domain.PreBudget{}, err
	}

	plan := normalizePlan(req.Plan)
	dims := pricing.ParseDimensions(req.Width, req.Length, req.Depth)
	opts := pricing.Options{HasWellWater: req.HasWellWater, IncludeProducts: req.IncludeProducts}
	quote, err := pricing.Compute(dims, opts, plan, settings)
	if err != nil {
		return domain.PreBudget{}, err
	}
	if quote.VolumeLiters <= 0 || quote.MonthlyFeeCents <= 0 {
		return domain.PreBudget{}, store.ErrInvalidInput
	}

	budget := domain.PreBudget{
		ID:              xid.New("pb"),
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Address:         req.Address,
		PoolDimensions:  dims,
		PoolVolume:      quote.VolumeLiters,
		HasWellWater:    req.HasWellWater,
		IncludeProducts: req.IncludeProducts,
		Plan:            plan,
		MonthlyFeeCents: quote.MonthlyFeeCents,
		Status:          domain.PreBudgetStatusPending,
		CreatedAt:       time.Now().UTC(),
	}

	created, err := s.repo.CreatePreBudget(ctx, budget)
	if err != nil {
		return domain.PreBudget{}, err
	}
	return *created, nil
}

func (s *Service) ListPreBudgets(ctx context.Context, status string, limit int) ([]domain.PreBudget, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("admin role required")
	}
	if limit < 1 {
		limit = 100
	}
	return s.repo.ListPreBudgets(ctx, status, limit)
}

// ApprovePreBudget converts a pending budget into a real client account.
// If the email already belongs to a user the budget flips to rejected so
// the back office does not keep re-approving the same request.
func (s *Service) ApprovePreBudget(ctx context.Context, budgetID string, req domain.ApproveBudgetRequest) (domain.Client, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.Client{}, fmt.Errorf("admin role required")
	}
	if len(req.Password) < 8 {
		return domain.Client{}, store.ErrInvalidInput
	}

	budget, err := s.repo.GetPreBudgetByID(ctx, budgetID)
	if err != nil {
		return domain.Client{}, err
	}
	if budget.Status != domain.PreBudgetStatusPending {
		return domain.Client{}, store.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Client{}, err
	}

	clientID := xid.New("cli")
	user := domain.UserAccount{
		ID:        xid.New("usr"),
		Email:     budget.Email,
		Password:  string(hash),
		Role:      domain.RoleClient,
		ClientID:  clientID,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailInUse) {
			if _, rejectErr := s.repo.UpdatePreBudgetStatus(ctx, budget.ID, domain.PreBudgetStatusRejected); rejectErr != nil {
				log.Printf("[service] WARN: failed to reject budget %s after email conflict: %v", budget.ID, rejectErr)
			}
			return domain.Client{}, store.ErrEmailInUse
		}
		return domain.Client{}, err
	}

	now := time.Now().UTC()
	client := domain.Client{
		ID:              clientID,
		UID:             user.ID,
		Name:            budget.Name,
		Email:           budget.Email,
		Phone:           budget.Phone,
		Address:         budget.Address,
		PoolDimensions:  budget.PoolDimensions,
		PoolVolume:      budget.PoolVolume,
		HasWellWater:    budget.HasWellWater,
		IncludeProducts: budget.IncludeProducts,
		Plan:            budget.Plan,
		ClientStatus:    domain.ClientStatusActive,
		PoolStatus:      domain.DefaultPoolStatus(),
		Payment: domain.PaymentInfo{
			Status:          domain.PaymentStatusPending,
			DueDate:         now.AddDate(0, 1, 0),
			MonthlyFeeCents: budget.MonthlyFeeCents,
		},
		Stock:     []domain.ClientProduct{},
		CreatedAt: now,
	}

	created, err := s.repo.CreateClient(ctx, client)
	if err != nil {
		return domain.Client{}, err
	}
	if _, err := s.repo.UpdatePreBudgetStatus(ctx, budget.ID, domain.PreBudgetStatusApproved); err != nil {
		return domain.Client{}, err
	}

	s.logAudit(ctx, "budget_approve", "pre_budget", budget.ID, fmt.Sprintf("client=%s,fee=%d", created.ID, budget.MonthlyFeeCents))
	return *created, nil
}

func (s *Service) RejectPreBudget(ctx context.Context, budgetID string) (domain.PreBudget, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.PreBudget{}, fmt.Errorf("admin role required")
	}

	budget, err := s.repo.GetPreBudgetByID(ctx, budgetID)
	if err != nil {
		return domain.PreBudget{}, err
	}
	if budget.Status != domain.PreBudgetStatusPending {
		return domain.PreBudget{}, store.ErrInvalidInput
	}

	updated, err := s.repo.UpdatePreBudgetStatus(ctx, budgetID, domain.PreBudgetStatusRejected)
	if err != nil {
		return domain.PreBudget{}, err
	}
	s.logAudit(ctx, "budget_reject", "pre_budget", budgetID, "")
	return *updated, nil
}

func (s *Service) ListClients(ctx context.Context) ([]domain.Client, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("admin role required")
	}
	return s.repo.ListClients(ctx)
}

func (s *Service) GetClient(ctx context.Context, clientID string) (domain.Client, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return domain.Client{}, fmt.Errorf("authentication required")
	}
	if actor.Role != domain.RoleAdmin && actor.ClientID != clientID {
		return domain.Client{}, fmt.Errorf("admin role required")
	}

	client, err := s.repo.GetClientByID(ctx, clientID)
	if err != nil {
		return domain.Client{}, err
	}
	return *client, nil
}

func (s *Service) UpdateClient(ctx context.Context, clientID string, req domain.ClientUpdateRequest) (domain.Client, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.Client{}, fmt.Errorf("admin role required")
	}

	existing, err := s.repo.GetClientByID(ctx, clientID)
	if err != nil {
		return domain.Client{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Client{}, store.ErrInvalidInput
		}
		updated.Name = name
	}
	if req.Phone != nil {
		updated.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		updated.Address = strings.TrimSpace(*req.Address)
	}
	if req.Plan != nil {
		plan := normalizePlan(*req.Plan)
		if plan != domain.PlanSimple && plan != domain.PlanVIP {
			return domain.Client{}, store.ErrInvalidInput
		}
		updated.Plan = plan
	}
	if req.ClientStatus != nil {
		if *req.ClientStatus != domain.ClientStatusActive && *req.ClientStatus != domain.ClientStatusPending {
			return domain.Client{}, store.ErrInvalidInput
		}
		updated.ClientStatus = *req.ClientStatus
	}
	if req.PoolStatus != nil {
		updated.PoolStatus = *req.PoolStatus
	}
	if req.PixKey != nil {
		updated.PixKey = strings.TrimSpace(*req.PixKey)
	}

	saved, err := s.repo.UpdateClient(ctx, updated)
	if err != nil {
		return domain.Client{}, err
	}
	s.logAudit(ctx, "client_update", "client", saved.ID, fmt.Sprintf("status=%s,plan=%s", saved.ClientStatus, saved.Plan))
	return *saved, nil
}

func (s *Service) DeleteClient(ctx context.Context, clientID string) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return fmt.Errorf("admin role required")
	}

	if err := s.repo.DeleteClient(ctx, clientID); err != nil {
		return err
	}
	s.logAudit(ctx, "client_delete", "client", clientID, "")
	return nil
}

// MarkAsPaid settles the current month and pushes the due date one month out.
func (s *Service) MarkAsPaid(ctx context.Context, clientID string) (domain.Client, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.Client{}, fmt.Errorf("admin role required")
	}

	client, err := s.repo.GetClientByID(ctx, clientID)
	if err != nil {
		return domain.Client{}, err
	}

	payment := client.Payment
	payment.Status = domain.PaymentStatusPaid
	payment.DueDate = payment.DueDate.AddDate(0, 1, 0)

	updated, err := s.repo.UpdateClientPayment(ctx, clientID, payment)
	if err != nil {
		return domain.Client{}, err
	}
	s.logAudit(ctx, "payment_mark_paid", "client", clientID, fmt.Sprintf("due=%s", payment.DueDate.Format("2006-01-02")))
	return *updated, nil
}

func (s *Service) UpdateClientStock(ctx context.Context, clientID string, stock []domain.ClientProduct) (domain.Client, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.Client{}, fmt.Errorf("admin role required")
	}

	for _, item := range stock {
		if strings.TrimSpace(item.ProductID) == "" || item.Quantity < 0 {
			return domain.Client{}, store.ErrInvalidInput
		}
	}

	updated, err := s.repo.UpdateClientStock(ctx, clientID, stock)
	if err != nil {
		return domain.Client{}, err
	}
	s.logAudit(ctx, "client_stock_update", "client", clientID, fmt.Sprintf("items=%d", len(stock)))
	return *updated, nil
}

// Routes resolves the weekly schedule into client summaries and derives
// the unscheduled set: active clients assigned to no day. The derived set
// is never persisted.
func (s *Service) Routes(ctx context.Context) (domain.RoutesResponse, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.RoutesResponse{}, fmt.Errorf("admin role required")
	}

	routes, err := s.repo.GetRoutes(ctx)
	if err != nil {
		return domain.RoutesResponse{}, err
	}
	clients, err := s.repo.ListClients(ctx)
	if err != nil {
		return domain.RoutesResponse{}, err
	}

	byID := make(map[string]domain.Client, len(clients))
	for _, client := range clients {
		byID[client.ID] = client
	}

	scheduled := make(map[string]bool)
	resp := domain.RoutesResponse{Days: make([]domain.RouteDayView, 0, len(domain.WeekDays))}
	for _, day := range domain.WeekDays {
		route := routes[day]
		view := domain.RouteDayView{Day: day, Active: route.Active, Clients: make([]domain.RouteClient, 0, len(route.ClientIDs))}
		for _, id := range route.ClientIDs {
			client, exists := byID[id]
			if !exists {
				continue
			}
			scheduled[id] = true
			view.Clients = append(view.Clients, domain.RouteClient{ID: client.ID, Name: client.Name, Address: client.Address})
		}
		resp.Days = append(resp.Days, view)
	}

	resp.Unscheduled = make([]domain.RouteClient, 0, 8)
	for _, client := range clients {
		if client.ClientStatus != domain.ClientStatusActive || scheduled[client.ID] {
			continue
		}
		resp.Unscheduled = append(resp.Unscheduled, domain.RouteClient{ID: client.ID, Name: client.Name, Address: client.Address})
	}
	sort.Slice(resp.Unscheduled, func(i, j int) bool { return resp.Unscheduled[i].Name < resp.Unscheduled[j].Name })

	return resp, nil
}

// ScheduleClient moves a client onto the given day. A client lives on at
// most one day, so any previous assignment is dropped first.
func (s *Service) ScheduleClient(ctx context.Context, day string, clientID string) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return fmt.Errorf("admin role required")
	}
	if !isWeekDay(day) {
		return store.ErrInvalidInput
	}
	if _, err := s.repo.GetClientByID(ctx, clientID); err != nil {
		return err
	}

	if err := s.repo.RemoveClientFromRoutes(ctx, clientID); err != nil {
		return err
	}
	routes, err := s.repo.GetRoutes(ctx)
	if err != nil {
		return err
	}
	route := routes[day]
	route.Day = day
	route.ClientIDs = append(route.ClientIDs, clientID)
	if err := s.repo.SaveRouteDay(ctx, route); err != nil {
		return err
	}

	s.logAudit(ctx, "route_schedule", "route", day, fmt.Sprintf("client=%s", clientID))
	return nil
}

func (s *Service) UnscheduleClient(ctx context.Context, clientID string) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return fmt.Errorf("admin role required")
	}

	if err := s.repo.RemoveClientFromRoutes(ctx, clientID); err != nil {
		return err
	}
	s.logAudit(ctx, "route_unschedule", "route", "all", fmt.Sprintf("client=%s", clientID))
	return nil
}

func (s *Service) SetRouteActive(ctx context.Context, day string, active bool) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return fmt.Errorf("admin role required")
	}
	if !isWeekDay(day) {
		return store.ErrInvalidInput
	}

	routes, err := s.repo.GetRoutes(ctx)
	if err != nil {
		return err
	}
	route := routes[day]
	route.Day = day
	route.Active = active
	if err := s.repo.SaveRouteDay(ctx, route); err != nil {
		return err
	}

	s.logAudit(ctx, "route_toggle", "route", day, fmt.Sprintf("active=%t", active))
	return nil
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

// SaveProduct creates or updates a catalog product depending on whether
// the request carries an id.
func (s *Service) SaveProduct(ctx context.Context, req domain.ProductSaveRequest) (domain.Product, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.Product{}, fmt.Errorf("admin role required")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	if req.Name == "" || req.PriceCents < 1 || req.Stock < 0 {
		return domain.Product{}, store.ErrInvalidInput
	}

	product := domain.Product{
		ID:          strings.TrimSpace(req.ID),
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
		ImageURL:    strings.TrimSpace(req.ImageURL),
	}

	var saved *domain.Product
	var err error
	action := "product_update"
	if product.ID == "" {
		product.ID = xid.New("prd")
		saved, err = s.repo.CreateProduct(ctx, product)
		action = "product_create"
	} else {
		saved, err = s.repo.UpdateProduct(ctx, product)
	}
	if err != nil {
		return domain.Product{}, err
	}

	s.logAudit(ctx, action, "product", saved.ID, fmt.Sprintf("name=%s,price=%d,stock=%d", saved.Name, saved.PriceCents, saved.Stock))
	return *saved, nil
}

func (s *Service) DeleteProduct(ctx context.Context, productID string) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return fmt.Errorf("admin role required")
	}

	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return err
	}
	s.logAudit(ctx, "product_delete", "product", productID, "")
	return nil
}

// CreateOrder is the shop checkout. Totals are recomputed server side
// from the catalog, never trusted from the request.
func (s *Service) CreateOrder(ctx context.Context, req domain.OrderCreateRequest) (domain.Order, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleClient || actor.ClientID == "" {
		return domain.Order{}, fmt.Errorf("client role required")
	}

	settings, err := s.Settings(ctx)
	if err != nil {
		return domain.Order{}, err
	}
	if !settings.Features.StoreEnabled {
		return domain.Order{}, fmt.Errorf("store is disabled")
	}

	client, err := s.repo.GetClientByID(ctx, actor.ClientID)
	if err != nil {
		return domain.Order{}, err
	}

	items, total, err := s.buildOrderItems(ctx, req.Items)
	if err != nil {
		return domain.Order{}, err
	}

	order := domain.Order{
		ID:         xid.New("ord"),
		ClientID:   client.ID,
		ClientName: client.Name,
		Items:      items,
		TotalCents: total,
		Status:     domain.OrderStatusPending,
		CreatedAt:  time.Now().UTC(),
	}

	created, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		return domain.Order{}, err
	}

	for _, item := range items {
		if _, err := s.repo.AdjustProductStock(ctx, item.ProductID, -item.Quantity); err != nil {
			log.Printf("[service] WARN: failed to decrement stock product=%s order=%s: %v", item.ProductID, created.ID, err)
		}
	}

	s.logAudit(ctx, "order_create", "order", created.ID, fmt.Sprintf("client=%s,total=%d,items=%d", client.ID, total, len(items)))
	return *created, nil
}

func (s *Service) ListOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("authentication required")
	}
	if limit < 1 {
		limit = 100
	}
	if actor.Role == domain.RoleAdmin {
		return s.repo.ListOrders(ctx, "", limit)
	}
	return s.repo.ListOrders(ctx, actor.ClientID, limit)
}

func (s *Service) UpdateOrderStatus(ctx context.Context, orderID string, status string) (domain.Order, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.Order{}, fmt.Errorf("admin role required")
	}
	if status != domain.OrderStatusPending && status != domain.OrderStatusShipped && status != domain.OrderStatusDelivered {
		return domain.Order{}, store.ErrInvalidInput
	}

	updated, err := s.repo.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		return domain.Order{}, err
	}
	s.logAudit(ctx, "order_status", "order", orderID, status)
	return *updated, nil
}

// RunReplenishment is the daily suggestion sweep. The run marker keyed by
// the UTC date makes a second trigger on the same day a reported no-op.
func (s *Service) RunReplenishment(ctx context.Context) (domain.ReplenishmentRunResponse, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.ReplenishmentRunResponse{}, fmt.Errorf("admin role required")
	}

	runDate := time.Now().UTC().Format("2006-01-02")
	acquired, err := s.runMarker.TryAcquire(ctx, runDate)
	if err != nil {
		return domain.ReplenishmentRunResponse{}, err
	}
	if !acquired {
		resp := domain.ReplenishmentRunResponse{RunDate: runDate, AlreadyRan: true}
		stamp, found, err := s.runMarker.LastRun(ctx, runDate)
		if err != nil {
			log.Printf("[service] WARN: failed to read last replenishment run for %s: %v", runDate, err)
		} else if found {
			resp.LastRunAt = stamp
		}
		return resp, nil
	}

	settings, err := s.Settings(ctx)
	if err != nil {
		return domain.ReplenishmentRunResponse{}, err
	}

	clients, err := s.repo.ListClients(ctx)
	if err != nil {
		return domain.ReplenishmentRunResponse{}, err
	}
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return domain.ReplenishmentRunResponse{}, err
	}
	productMap := make(map[string]domain.Product, len(products))
	for _, product := range products {
		productMap[product.ID] = product
	}
	existing, err := s.repo.ListReplenishmentQuotes(ctx, "", 0)
	if err != nil {
		return domain.ReplenishmentRunResponse{}, err
	}

	result := replenishment.Generate(clients, productMap, existing, settings.Automation.ReplenishmentStockThreshold, time.Now().UTC())

	created := 0
	for _, quote := range result.Quotes {
		quote.ID = xid.New("rq")
		if _, err := s.repo.CreateReplenishmentQuote(ctx, quote); err != nil {
			log.Printf("[service] WARN: failed to persist replenishment quote client=%s: %v", quote.ClientID, err)
			continue
		}
		created++
	}

	s.logAudit(ctx, "replenishment_run", "replenishment", runDate, fmt.Sprintf("checked=%d,created=%d", result.ClientsChecked, created))
	return domain.ReplenishmentRunResponse{
		RunDate:        runDate,
		QuotesCreated:  created,
		ClientsChecked: result.ClientsChecked,
	}, nil
}

func (s *Service) ListReplenishmentQuotes(ctx context.Context, limit int) ([]domain.ReplenishmentQuote, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("authentication required")
	}
	if limit < 1 {
		limit = 100
	}
	if actor.Role == domain.RoleAdmin {
		return s.repo.ListReplenishmentQuotes(ctx, "", limit)
	}
	return s.repo.ListReplenishmentQuotes(ctx, actor.ClientID, limit)
}

// UpdateReplenishmentQuoteStatus walks a quote through its lifecycle.
// Admins send suggested quotes out or resolve them directly; the client
// accepts or declines their own, and acceptance turns the quote into a
// shop order.
func (s *Service) UpdateReplenishmentQuoteStatus(ctx context.Context, quoteID string, status string) (domain.ReplenishmentQuote, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return domain.ReplenishmentQuote{}, fmt.Errorf("authentication required")
	}

	quote, err := s.repo.GetReplenishmentQuoteByID(ctx, quoteID)
	if err != nil {
		return domain.ReplenishmentQuote{}, err
	}

	switch actor.Role {
	case domain.RoleAdmin:
	case domain.RoleClient:
		if quote.ClientID != actor.ClientID {
			return domain.ReplenishmentQuote{}, store.ErrNotFound
		}
		if status != domain.QuoteStatusApproved && status != domain.QuoteStatusRejected {
			return domain.ReplenishmentQuote{}, fmt.Errorf("admin role required")
		}
	default:
		return domain.ReplenishmentQuote{}, fmt.Errorf("authentication required")
	}

	if !replenishment.NextStatus(quote.Status, status) {
		return domain.ReplenishmentQuote{}, store.ErrInvalidInput
	}

	updated, err := s.repo.UpdateReplenishmentQuoteStatus(ctx, quoteID, status, time.Now().UTC())
	if err != nil {
		return domain.ReplenishmentQuote{}, err
	}

	if status == domain.QuoteStatusApproved {
		order := domain.Order{
			ID:         xid.New("ord"),
			ClientID:   updated.ClientID,
			ClientName: updated.ClientName,
			Items:      updated.Items,
			TotalCents: updated.TotalCents,
			Status:     domain.OrderStatusPending,
			CreatedAt:  time.Now().UTC(),
		}
		if _, err := s.repo.CreateOrder(ctx, order); err != nil {
			log.Printf("[service] WARN: failed to create order from quote %s: %v", quoteID, err)
		} else {
			for _, item := range updated.Items {
				if _, err := s.repo.AdjustProductStock(ctx, item.ProductID, -item.Quantity); err != nil {
					log.Printf("[service] WARN: failed to decrement stock product=%s quote=%s: %v", item.ProductID, quoteID, err)
				}
			}
		}
	}

	s.logAudit(ctx, "replenishment_status", "replenishment_quote", quoteID, status)
	return *updated, nil
}

func (s *Service) ReportOverview(ctx context.Context) (domain.ReportOverview, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.ReportOverview{}, fmt.Errorf("admin role required")
	}

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	clients, err := s.repo.ListClients(ctx)
	if err != nil {
		return domain.ReportOverview{}, err
	}
	budgets, err := s.repo.ListPreBudgets(ctx, "", 0)
	if err != nil {
		return domain.ReportOverview{}, err
	}
	orders, err := s.repo.ListOrders(ctx, "", 0)
	if err != nil {
		return domain.ReportOverview{}, err
	}
	quotes, err := s.repo.ListReplenishmentQuotes(ctx, "", 0)
	if err != nil {
		return domain.ReportOverview{}, err
	}

	overview := domain.ReportOverview{GeneratedAt: now.Format(time.RFC3339)}
	for _, client := range clients {
		if client.ClientStatus != domain.ClientStatusActive {
			continue
		}
		overview.ActiveClients++
		overview.MonthlyRevenueCents += client.Payment.MonthlyFeeCents
		if client.Payment.Status != domain.PaymentStatusPaid {
			overview.PendingPaymentClients = append(overview.PendingPaymentClients, client)
		}
	}
	for _, budget := range budgets {
		if !budget.CreatedAt.Before(monthStart) {
			overview.NewBudgetsThisMonth++
		}
	}

	unitsByProduct := map[string]int{}
	nameByProduct := map[string]string{}
	for _, order := range orders {
		if !order.CreatedAt.Before(monthStart) {
			overview.OrdersThisMonth++
		}
		for _, item := range order.Items {
			unitsByProduct[item.ProductID] += item.Quantity
			nameByProduct[item.ProductID] = item.Name
		}
	}
	overview.TopProducts = make([]domain.ProductSales, 0, len(unitsByProduct))
	for id, units := range unitsByProduct {
		overview.TopProducts = append(overview.TopProducts, domain.ProductSales{ProductID: id, Name: nameByProduct[id], UnitsSold: units})
	}
	sort.Slice(overview.TopProducts, func(i, j int) bool {
		if overview.TopProducts[i].UnitsSold == overview.TopProducts[j].UnitsSold {
			return overview.TopProducts[i].ProductID < overview.TopProducts[j].ProductID
		}
		return overview.TopProducts[i].UnitsSold > overview.TopProducts[j].UnitsSold
	})
	if len(overview.TopProducts) > 5 {
		overview.TopProducts = overview.TopProducts[:5]
	}

	for _, quote := range quotes {
		if quote.Status == domain.QuoteStatusSuggested || quote.Status == domain.QuoteStatusSent {
			overview.PendingReplenishments++
		}
	}

	return overview, nil
}

func (s *Service) ClientDashboard(ctx context.Context) (domain.ClientDashboard, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleClient || actor.ClientID == "" {
		return domain.ClientDashboard{}, fmt.Errorf("client role required")
	}

	client, err := s.repo.GetClientByID(ctx, actor.ClientID)
	if err != nil {
		return domain.ClientDashboard{}, err
	}
	settings, err := s.Settings(ctx)
	if err != nil {
		return domain.ClientDashboard{}, err
	}
	routes, err := s.repo.GetRoutes(ctx)
	if err != nil {
		return domain.ClientDashboard{}, err
	}
	orders, err := s.repo.ListOrders(ctx, client.ID, 50)
	if err != nil {
		return domain.ClientDashboard{}, err
	}
	quotes, err := s.repo.ListReplenishmentQuotes(ctx, client.ID, 50)
	if err != nil {
		return domain.ClientDashboard{}, err
	}

	dashboard := domain.ClientDashboard{
		Client: *client,
		Orders: orders,
		Quotes: quotes,
		PixKey: settings.PixKey,
	}
	if client.PixKey != "" {
		dashboard.PixKey = client.PixKey
	}

	for _, day := range domain.WeekDays {
		route := routes[day]
		if !route.Active {
			continue
		}
		for _, id := range route.ClientIDs {
			if id == client.ID {
				dashboard.NextVisitDay = day
				break
			}
		}
		if dashboard.NextVisitDay != "" {
			break
		}
	}

	threshold := settings.Automation.ReplenishmentStockThreshold
	for _, item := range client.Stock {
		if item.Quantity <= threshold {
			dashboard.LowStockItems = append(dashboard.LowStockItems, item)
		}
	}

	return dashboard, nil
}

func (s *Service) SetupStatus(ctx context.Context) (domain.SetupStatusResponse, error) {
	count, err := s.repo.CountUsersByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return domain.SetupStatusResponse{}, err
	}
	return domain.SetupStatusResponse{NeedsSetup: count == 0}, nil
}

// CreateInitialAdmin is open only while the portal has no admin account.
func (s *Service) CreateInitialAdmin(ctx context.Context, req domain.SetupAdminRequest) error {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") || len(req.Password) < 8 {
		return store.ErrInvalidInput
	}

	count, err := s.repo.CountUsersByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("setup already completed")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.CreateUser(ctx, domain.UserAccount{
		ID:        xid.New("usr"),
		Email:     req.Email,
		Password:  string(hash),
		Role:      domain.RoleAdmin,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	})
}

func (s *Service) ChangePassword(ctx context.Context, req domain.PasswordChangeRequest) error {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return fmt.Errorf("authentication required")
	}
	if len(req.NewPassword) < 8 {
		return store.ErrInvalidInput
	}

	user, err := s.repo.GetUserByEmail(ctx, actor.Email)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)) != nil {
		return fmt.Errorf("current password mismatch")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateUserPassword(ctx, user.Email, string(hash)); err != nil {
		return err
	}
	s.logAudit(ctx, "password_change", "user", user.Email, "")
	return nil
}

// ResetData wipes operational data. The manager PIN gate lives in the
// HTTP layer; this only enforces the admin role.
func (s *Service) ResetData(ctx context.Context, scope string) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return fmt.Errorf("admin role required")
	}
	if scope != domain.ResetScopeAll && scope != domain.ResetScopeReports {
		return store.ErrInvalidInput
	}

	if err := s.repo.ResetData(ctx, scope); err != nil {
		return err
	}
	s.logAudit(ctx, "data_reset", "system", scope, "")
	return nil
}

func (s *Service) ListAuditLogs(ctx context.Context, date string, limit int) ([]domain.AuditLog, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("admin role required")
	}
	if limit < 1 {
		limit = 100
	}

	var from time.Time
	if strings.TrimSpace(date) == "" {
		from = time.Now().UTC().Add(-24 * time.Hour)
	} else {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, store.ErrInvalidInput
		}
		from = parsed.UTC()
	}
	to := from.Add(24 * time.Hour)

	return s.repo.ListAuditLogs(ctx, from, to, limit)
}

func (s *Service) buildOrderItems(ctx context.Context, reqItems []domain.OrderItemRequest) ([]domain.QuoteItem, int64, error) {
	if len(reqItems) == 0 {
		return nil, 0, store.ErrInvalidInput
	}

	aggregated := make(map[string]int, len(reqItems))
	ids := make([]string, 0, len(reqItems))
	for _, item := range reqItems {
		id := strings.TrimSpace(item.ProductID)
		if id == "" || item.Quantity < 1 {
			return nil, 0, store.ErrInvalidInput
		}
		if _, seen := aggregated[id]; !seen {
			ids = append(ids, id)
		}
		aggregated[id] += item.Quantity
	}

	products, err := s.repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	items := make([]domain.QuoteItem, 0, len(ids))
	var total int64
	for _, id := range ids {
		product, exists := products[id]
		if !exists {
			return nil, 0, store.ErrInvalidInput
		}
		qty := aggregated[id]
		if product.Stock < qty {
			return nil, 0, store.ErrInsufficientStock
		}
		items = append(items, domain.QuoteItem{
			ProductID:  product.ID,
			Name:       product.Name,
			PriceCents: product.PriceCents,
			Quantity:   qty,
		})
		total += product.PriceCents * int64(qty)
	}
	return items, total, nil
}

func (s *Service) logAudit(ctx context.Context, action string, entityType string, entityID string, detail string) {
	actor, _ := ActorFromContext(ctx)
	entry := domain.AuditLog{
		ID:         xid.New("audit"),
		ActorEmail: actor.Email,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.CreateAuditLog(ctx, entry); err != nil {
		log.Printf("[service] WARN: failed to write audit log action=%s: %v", action, err)
	}
}

func validatePricing(p domain.PricingSettings) error {
	if len(p.VolumeTiers) == 0 {
		return store.ErrInvalidInput
	}
	if p.WellWaterFeeCents < 0 || p.ProductsFeeCents < 0 || p.PerKmCents < 0 {
		return store.ErrInvalidInput
	}
	if p.VIPDiscountPercent < 0 || p.VIPDiscountPercent > 100 {
		return store.ErrInvalidInput
	}
	seen := make(map[float64]bool, len(p.VolumeTiers))
	for _, tier := range p.VolumeTiers {
		if tier.UpToLiters <= 0 || tier.PriceCents < 1 {
			return store.ErrInvalidInput
		}
		if seen[tier.UpToLiters] {
			return store.ErrInvalidInput
		}
		seen[tier.UpToLiters] = true
	}
	return nil
}

func normalizePlan(plan string) string {
	if strings.EqualFold(strings.TrimSpace(plan), domain.PlanVIP) {
		return domain.PlanVIP
	}
	return domain.PlanSimple
}

func isWeekDay(day string) bool {
	for _, candidate := range domain.WeekDays {
		if candidate == day {
			return true
		}
	}
	return false
}
