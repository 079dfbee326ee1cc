package domain

import "time"

type VolumeTier struct {
	UpToLiters float64 `json:"up_to_liters"`
	PriceCents int64   `json:"price_cents"`
}

type PricingSettings struct {
	PerKmCents         int64        `json:"per_km_cents"`
	WellWaterFeeCents  int64        `json:"well_water_fee_cents"`
	ProductsFeeCents   int64        `json:"products_fee_cents"`
	VIPDiscountPercent float64      `json:"vip_discount_percent"`
	VolumeTiers        []VolumeTier `json:"volume_tiers"`
}

type PlanInfo struct {
	Title    string   `json:"title"`
	Benefits []string `json:"benefits"`
}

type PlanSettings struct {
	Simple PlanInfo `json:"simple"`
	VIP    PlanInfo `json:"vip"`
}

type FeatureFlags struct {
	VIPPlanEnabled            bool `json:"vip_plan_enabled"`
	StoreEnabled              bool `json:"store_enabled"`
	AdvancePaymentPlanEnabled bool `json:"advance_payment_plan_enabled"`
}

type AutomationSettings struct {
	ReplenishmentStockThreshold int `json:"replenishment_stock_threshold"`
}

type Settings struct {
	CompanyName  string             `json:"company_name"`
	MainTitle    string             `json:"main_title"`
	MainSubtitle string             `json:"main_subtitle"`
	BaseAddress  string             `json:"base_address"`
	PixKey       string             `json:"pix_key"`
	Pricing      PricingSettings    `json:"pricing"`
	Plans        PlanSettings       `json:"plans"`
	Features     FeatureFlags       `json:"features"`
	Automation   AutomationSettings `json:"automation"`
}

// PublicSettings is the subset the unauthenticated budget page needs.
type PublicSettings struct {
	CompanyName  string       `json:"company_name"`
	MainTitle    string       `json:"main_title"`
	MainSubtitle string       `json:"main_subtitle"`
	Plans        PlanSettings `json:"plans"`
	Features     FeatureFlags `json:"features"`
}

type PoolDimensions struct {
	WidthMeters  float64 `json:"width_meters"`
	LengthMeters float64 `json:"length_meters"`
	DepthMeters  float64 `json:"depth_meters"`
}

type PoolStatus struct {
	PH         float64 `json:"ph"`
	Chlorine   float64 `json:"chlorine"`
	Alkalinity float64 `json:"alkalinity"`
	Usage      string  `json:"usage"`
}

type PaymentInfo struct {
	Status          string    `json:"status"`
	DueDate         time.Time `json:"due_date"`
	MonthlyFeeCents int64     `json:"monthly_fee_cents"`
}

type ClientProduct struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

type Client struct {
	ID              string          `json:"id"`
	UID             string          `json:"uid"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	Address         string          `json:"address"`
	PoolDimensions  PoolDimensions  `json:"pool_dimensions"`
	PoolVolume      float64         `json:"pool_volume_liters"`
	HasWellWater    bool            `json:"has_well_water"`
	IncludeProducts bool            `json:"include_products"`
	Plan            string          `json:"plan"`
	ClientStatus    string          `json:"client_status"`
	PoolStatus      PoolStatus      `json:"pool_status"`
	Payment         PaymentInfo     `json:"payment"`
	Stock           []ClientProduct `json:"stock"`
	PixKey          string          `json:"pix_key,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

type ClientUpdateRequest struct {
	Name         *string     `json:"name,omitempty"`
	Phone        *string     `json:"phone,omitempty"`
	Address      *string     `json:"address,omitempty"`
	Plan         *string     `json:"plan,omitempty"`
	ClientStatus *string     `json:"client_status,omitempty"`
	PoolStatus   *PoolStatus `json:"pool_status,omitempty"`
	PixKey       *string     `json:"pix_key,omitempty"`
}

type PreBudget struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Email           string         `json:"email"`
	Phone           string         `json:"phone"`
	Address         string         `json:"address"`
	PoolDimensions  PoolDimensions `json:"pool_dimensions"`
	PoolVolume      float64        `json:"pool_volume_liters"`
	HasWellWater    bool           `json:"has_well_water"`
	IncludeProducts bool           `json:"include_products"`
	Plan            string         `json:"plan"`
	MonthlyFeeCents int64          `json:"monthly_fee_cents"`
	Status          string         `json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
}

// PreBudgetCreateRequest carries dimensions as raw form strings so that
// both comma and point decimal separators are accepted.
type PreBudgetCreateRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	Width           string `json:"width"`
	Length          string `json:"length"`
	Depth           string `json:"depth"`
	HasWellWater    bool   `json:"has_well_water"`
	IncludeProducts bool   `json:"include_products"`
	Plan            string `json:"plan"`
}

type QuotePreviewRequest struct {
	Width           string `json:"width"`
	Length          string `json:"length"`
	Depth           string `json:"depth"`
	HasWellWater    bool   `json:"has_well_water"`
	IncludeProducts bool   `json:"include_products"`
	Plan            string `json:"plan"`
}

type QuotePreviewResponse struct {
	VolumeLiters    float64 `json:"volume_liters"`
	MonthlyFeeCents int64   `json:"monthly_fee_cents"`
	Valid           bool    `json:"valid"`
}

type ApproveBudgetRequest struct {
	Password string `json:"password"`
}

type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	Stock       int    `json:"stock"`
	ImageURL    string `json:"image_url,omitempty"`
}

type ProductSaveRequest struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	Stock       int    `json:"stock"`
	ImageURL    string `json:"image_url,omitempty"`
}

type QuoteItem struct {
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
}

type Order struct {
	ID         string      `json:"id"`
	ClientID   string      `json:"client_id"`
	ClientName string      `json:"client_name"`
	Items      []QuoteItem `json:"items"`
	TotalCents int64       `json:"total_cents"`
	Status     string      `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
}

type OrderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type OrderCreateRequest struct {
	Items []OrderItemRequest `json:"items"`
}

type ReplenishmentQuote struct {
	ID         string      `json:"id"`
	ClientID   string      `json:"client_id"`
	ClientName string      `json:"client_name"`
	Items      []QuoteItem `json:"items"`
	TotalCents int64       `json:"total_cents"`
	Status     string      `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

type ReplenishmentRunResponse struct {
	RunDate        string `json:"run_date"`
	AlreadyRan     bool   `json:"already_ran"`
	LastRunAt      string `json:"last_run_at,omitempty"`
	QuotesCreated  int    `json:"quotes_created"`
	ClientsChecked int    `json:"clients_checked"`
}

type RouteDay struct {
	Day       string   `json:"day"`
	ClientIDs []string `json:"client_ids"`
	Active    bool     `json:"active"`
}

type RouteClient struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

type RouteDayView struct {
	Day     string        `json:"day"`
	Active  bool          `json:"active"`
	Clients []RouteClient `json:"clients"`
}

type RoutesResponse struct {
	Days        []RouteDayView `json:"days"`
	Unscheduled []RouteClient  `json:"unscheduled"`
}

type ProductSales struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitsSold int    `json:"units_sold"`
}

type ReportOverview struct {
	ActiveClients         int            `json:"active_clients"`
	MonthlyRevenueCents   int64          `json:"monthly_revenue_cents"`
	NewBudgetsThisMonth   int            `json:"new_budgets_this_month"`
	OrdersThisMonth       int            `json:"orders_this_month"`
	TopProducts           []ProductSales `json:"top_products"`
	PendingPaymentClients []Client       `json:"pending_payment_clients"`
	PendingReplenishments int            `json:"pending_replenishments"`
	GeneratedAt           string         `json:"generated_at"`
}

type ClientDashboard struct {
	Client        Client               `json:"client"`
	NextVisitDay  string               `json:"next_visit_day,omitempty"`
	Orders        []Order              `json:"orders"`
	Quotes        []ReplenishmentQuote `json:"quotes"`
	LowStockItems []ClientProduct      `json:"low_stock_items"`
	PixKey        string               `json:"pix_key"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ClientID    string `json:"client_id,omitempty"`
	ExpiresAt   string `json:"expires_at"`
}

type SetupStatusResponse struct {
	NeedsSetup bool `json:"needs_setup"`
}

type SetupAdminRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type ResetDataRequest struct {
	ManagerPIN string `json:"manager_pin"`
	Scope      string `json:"scope"`
}

type Actor struct {
	Email string
	Role  string
	// ClientID is set for client-role actors and scopes their reads.
	ClientID string
}

// UserAccount is an internal persistence model for auth credentials.
type UserAccount struct {
	ID        string
	Email     string
	Password  string
	Role      string
	ClientID  string
	Active    bool
	CreatedAt time.Time
}

type AuditLog struct {
	ID         string    `json:"id"`
	ActorEmail string    `json:"actor_email"`
	ActorRole  string    `json:"actor_role"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Detail     string    `json:"detail"`
	CreatedAt  time.Time `json:"created_at"`
}

const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

const (
	PlanSimple = "Simples"
	PlanVIP    = "VIP"
)

const (
	ClientStatusActive  = "Ativo"
	ClientStatusPending = "Pendente"
)

const (
	PaymentStatusPaid    = "Pago"
	PaymentStatusPending = "Pendente"
	PaymentStatusOverdue = "Atrasado"
)

const (
	PoolUsageFree      = "Livre para uso"
	PoolUsageTreatment = "Em tratamento"
)

const (
	PreBudgetStatusPending  = "pending"
	PreBudgetStatusApproved = "approved"
	PreBudgetStatusRejected = "rejected"
)

const (
	OrderStatusPending   = "Pendente"
	OrderStatusShipped   = "Enviado"
	OrderStatusDelivered = "Entregue"
)

const (
	QuoteStatusSuggested = "suggested"
	QuoteStatusSent      = "sent"
	QuoteStatusApproved  = "approved"
	QuoteStatusRejected  = "rejected"
)

const (
	ResetScopeAll     = "all"
	ResetScopeReports = "reports"
)

// WeekDays is the scheduling week, Monday through Friday.
var WeekDays = []string{"Segunda", "Terça", "Quarta", "Quinta", "Sexta"}
