package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)

const (
	LineTypeItem    = "item"
	LineTypeService = "service"
)

// SettingCashierSharePct is the app_settings key holding the configured
// cashier profit-share percentage.
const SettingCashierSharePct = "cashier_share_pct"

type Profile struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserAccount is an internal persistence model for auth credentials.
type UserAccount struct {
	ID        uuid.UUID
	Username  string
	FullName  string
	Password  string
	Role      string
	Active    bool
	CreatedAt time.Time
}

type Item struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	CostPrice decimal.Decimal `json:"cost_price"`
	StockQty  int             `json:"stock_qty"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
}

type Service struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
}

type ItemCreateRequest struct {
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	CostPrice decimal.Decimal `json:"cost_price"`
	StockQty  int             `json:"stock_qty"`
}

type ItemUpdateRequest struct {
	Name      *string          `json:"name,omitempty"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	CostPrice *decimal.Decimal `json:"cost_price,omitempty"`
	StockQty  *int             `json:"stock_qty,omitempty"`
	Active    *bool            `json:"active,omitempty"`
}

type ServiceCreateRequest struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type ServiceUpdateRequest struct {
	Name   *string          `json:"name,omitempty"`
	Price  *decimal.Decimal `json:"price,omitempty"`
	Active *bool            `json:"active,omitempty"`
}

type CatalogResponse struct {
	Items    []Item    `json:"items"`
	Services []Service `json:"services"`
}

// Bill is a completed sale. SharePct is the profit-share percentage snapshot
// taken at sale time; zero means "not stored" and the effective percentage is
// resolved from the seller's role and the configured setting.
type Bill struct {
	ID        uuid.UUID       `json:"id"`
	CreatedBy uuid.UUID       `json:"created_by"`
	Total     decimal.Decimal `json:"total"`
	Discount  decimal.Decimal `json:"discount"`
	SharePct  decimal.Decimal `json:"share_pct"`
	CreatedAt time.Time       `json:"created_at"`
}

type BillLine struct {
	ID        uuid.UUID       `json:"id"`
	BillID    uuid.UUID       `json:"bill_id"`
	RefID     uuid.UUID       `json:"ref_id"`
	LineType  string          `json:"line_type"`
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	CostPrice decimal.Decimal `json:"cost_price"`
	Total     decimal.Decimal `json:"total"`
}

type BillLineRequest struct {
	LineType string    `json:"line_type"`
	RefID    uuid.UUID `json:"ref_id"`
	Qty      int       `json:"qty"`
}

type BillCreateRequest struct {
	Discount decimal.Decimal   `json:"discount"`
	Lines    []BillLineRequest `json:"lines"`
}

type BillResponse struct {
	Bill  Bill       `json:"bill"`
	Lines []BillLine `json:"lines"`
}

type BillWithCashier struct {
	Bill
	CashierUsername string `json:"cashier_username"`
	CashierName     string `json:"cashier_name"`
	CashierRole     string `json:"cashier_role"`
}

type TodayBillsResponse struct {
	Bills      []BillWithCashier `json:"bills"`
	TodayTotal decimal.Decimal   `json:"today_total"`
	From       time.Time         `json:"from"`
	To         time.Time         `json:"to"`
}

type PocketExpense struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	Reason    string          `json:"reason"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type PocketExpenseCreateRequest struct {
	UserID uuid.UUID       `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason"`
	Note   string          `json:"note"`
}

type PocketExpenseListResponse struct {
	Expenses      []PocketExpense               `json:"expenses"`
	Total         decimal.Decimal               `json:"total"`
	WeekNetByUser map[uuid.UUID]decimal.Decimal `json:"week_net_by_user"`
}

// WeekStats is the cashier's own current-week summary, matching the figures
// shown on the cashier screen.
type WeekStats struct {
	WeekStart  time.Time       `json:"week_start"`
	WeekEnd    time.Time       `json:"week_end"`
	Gross      decimal.Decimal `json:"gross"`
	BaseNet    decimal.Decimal `json:"base_net"`
	ShareNet   decimal.Decimal `json:"share_net"`
	Pocket     decimal.Decimal `json:"pocket"`
	Net        decimal.Decimal `json:"net"`
	ShareLabel string          `json:"share_label"`
	BillCount  int             `json:"bill_count"`
}

// DashboardTotals is the admin dashboard summary: gross bill totals per
// window with that window's pocket expenses already deducted.
type DashboardTotals struct {
	TodayTotal  decimal.Decimal `json:"today_total"`
	WeekTotal   decimal.Decimal `json:"week_total"`
	MonthTotal  decimal.Decimal `json:"month_total"`
	YearTotal   decimal.Decimal `json:"year_total"`
	PocketToday decimal.Decimal `json:"pocket_today"`
	PocketWeek  decimal.Decimal `json:"pocket_week"`
	PocketMonth decimal.Decimal `json:"pocket_month"`
	PocketYear  decimal.Decimal `json:"pocket_year"`
	GeneratedAt time.Time       `json:"generated_at"`
}

type CashierStat struct {
	CashierID  uuid.UUID       `json:"cashier_id"`
	Name       string          `json:"name"`
	TodayGross decimal.Decimal `json:"today_gross"`
	TodayNet   decimal.Decimal `json:"today_net"`
	WeekGross  decimal.Decimal `json:"week_gross"`
	WeekNet    decimal.Decimal `json:"week_net"`
	MonthGross decimal.Decimal `json:"month_gross"`
	MonthNet   decimal.Decimal `json:"month_net"`
}

type CashierProfitsResponse struct {
	Stats     []CashierStat `json:"stats"`
	WeekStart time.Time     `json:"week_start"`
	WeekEnd   time.Time     `json:"week_end"`
}

type RangeReportRow struct {
	Bill             BillWithCashier `json:"bill"`
	EffectiveShare   decimal.Decimal `json:"effective_share_pct"`
	ShareAdjustedNet decimal.Decimal `json:"share_adjusted_net"`
}

type RangeReport struct {
	From       string           `json:"from"`
	To         string           `json:"to"`
	Rows       []RangeReportRow `json:"rows"`
	GrossTotal decimal.Decimal  `json:"gross_total"`
	ShareTotal decimal.Decimal  `json:"share_total"`
}

type ShareSettingResponse struct {
	CashierSharePct decimal.Decimal `json:"cashier_share_pct"`
}

type ShareSettingUpdateRequest struct {
	CashierSharePct decimal.Decimal `json:"cashier_share_pct"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	FullName    string `json:"full_name"`
	ExpiresAt   string `json:"expires_at"`
}

type Actor struct {
	ID       uuid.UUID
	Username string
	Role     string
}

type CashierCreateRequest struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

type CashierUser struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
