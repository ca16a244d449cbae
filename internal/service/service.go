package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/MahdyMohammedFathy/BarberShopCashier/internal/cache"
	"github.com/MahdyMohammedFathy/BarberShopCashier/internal/calendar"
	"github.com/MahdyMohammedFathy/BarberShopCashier/internal/domain"
	"github.com/MahdyMohammedFathy/BarberShopCashier/internal/report"
	"github.com/MahdyMohammedFathy/BarberShopCashier/internal/store"
)

var (
	ErrForbidden       = errors.New("admin role required")
	ErrNoActor         = errors.New("authentication required")
	ErrExpenseExceeded = errors.New("pocket expense exceeds current week net")
)

const (
	dashboardCacheKey = "dashboard:totals"
	dashboardCacheTTL = 30 * time.Second

	defaultCashierShare  = "40"
	defaultExpenseReason = "مصروف شخصي"
	adminOverdrawReason  = "بضاعة محل او امور اخرى"

	maxBillLines  = 50
	maxLineQty    = 100
	dateLayout    = "2006-01-02"
	maxRangeDays  = 366
	rangeEndOfDay = 24*time.Hour - time.Millisecond
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
	st   store.Store
	dash cache.DashboardCache
	loc  *time.Location
	now  func() time.Time

	// ungroupedPolicy decides whether bills whose creator was deleted show
	// up as an "unattributed" row in the per-cashier report or are dropped.
	ungroupedPolicy report.MissingActorPolicy
}

func New(st store.Store, dash cache.DashboardCache, loc *time.Location) *Service {
	if dash == nil {
		dash = cache.NoopDashboardCache{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		st:              st,
		dash:            dash,
		loc:             loc,
		now:             func() time.Time { return time.Now().UTC() },
		ungroupedPolicy: report.CountUngrouped,
	}
}

func requireActor(ctx context.Context) (domain.Actor, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return domain.Actor{}, ErrNoActor
	}
	return actor, nil
}

func requireAdmin(ctx context.Context) (domain.Actor, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return domain.Actor{}, err
	}
	if actor.Role != domain.RoleAdmin {
		return domain.Actor{}, ErrForbidden
	}
	return actor, nil
}

func (s *Service) Catalog(ctx context.Context) (domain.CatalogResponse, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return domain.CatalogResponse{}, err
	}
	includeInactive := actor.Role == domain.RoleAdmin

	items, err := s.st.ListItems(ctx, includeInactive)
	if err != nil {
		return domain.CatalogResponse{}, err
	}
	services, err := s.st.ListServices(ctx, includeInactive)
	if err != nil {
		return domain.CatalogResponse{}, err
	}
	return domain.CatalogResponse{Items: items, Services: services}, nil
}

func (s *Service) CreateItem(ctx context.Context, req domain.ItemCreateRequest) (domain.Item, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return domain.Item{}, err
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Price.LessThanOrEqual(decimal.Zero) || req.CostPrice.LessThan(decimal.Zero) || req.StockQty < 0 {
		return domain.Item{}, store.ErrInvalidInput
	}
	return s.st.CreateItem(ctx, domain.Item{
		Name:      req.Name,
		Price:     req.Price,
		CostPrice: req.CostPrice,
		StockQty:  req.StockQty,
	})
}

func (s *Service) UpdateItem(ctx context.Context, id uuid.UUID, req domain.ItemUpdateRequest) (domain.Item, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return domain.Item{}, err
	}
	return s.st.UpdateItem(ctx, id, req)
}

func (s *Service) CreateService(ctx context.Context, req domain.ServiceCreateRequest) (domain.Service, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return domain.Service{}, err
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Price.LessThanOrEqual(decimal.Zero) {
		return domain.Service{}, store.ErrInvalidInput
	}
	return s.st.CreateService(ctx, domain.Service{Name: req.Name, Price: req.Price})
}

func (s *Service) UpdateService(ctx context.Context, id uuid.UUID, req domain.ServiceUpdateRequest) (domain.Service, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return domain.Service{}, err
	}
	return s.st.UpdateService(ctx, id, req)
}

// DeleteItem retires an item from the catalog. Bills keep their snapshots, so
// this is a deactivation rather than a row delete.
func (s *Service) DeleteItem(ctx context.Context, id uuid.UUID) (domain.Item, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return domain.Item{}, err
	}
	inactive := false
	return s.st.UpdateItem(ctx, id, domain.ItemUpdateRequest{Active: &inactive})
}

func (s *Service) DeleteService(ctx context.Context, id uuid.UUID) (domain.Service, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return domain.Service{}, err
	}
	inactive := false
	return s.st.UpdateService(ctx, id, domain.ServiceUpdateRequest{Active: &inactive})
}

// SoldOutItems lists active items with no stock left, for the restock screen.
// Externally provisioned rows may carry negative stock, so the cutoff is <= 0.
func (s *Service) SoldOutItems(ctx context.Context) ([]domain.Item, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	items, err := s.st.ListItems(ctx, false)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Item, 0, len(items))
	for _, it := range items {
		if it.StockQty <= 0 {
			out = append(out, it)
		}
	}
	return out, nil
}

// CreateBill resolves the requested lines against the current catalog,
// snapshots unit prices, cost prices and the seller's share percentage, and
// persists the bill with an atomic stock decrement.
func (s *Service) CreateBill(ctx context.Context, req domain.BillCreateRequest) (domain.BillResponse, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return domain.BillResponse{}, err
	}
	if len(req.Lines) == 0 || len(req.Lines) > maxBillLines {
		return domain.BillResponse{}, store.ErrInvalidInput
	}
	if req.Discount.LessThan(decimal.Zero) {
		return domain.BillResponse{}, store.ErrInvalidInput
	}

	lines := make([]domain.BillLine, 0, len(req.Lines))
	subtotal := decimal.Zero
	for _, lr := range req.Lines {
		if lr.Qty < 1 || lr.Qty > maxLineQty {
			return domain.BillResponse{}, store.ErrInvalidInput
		}
		line := domain.BillLine{RefID: lr.RefID, Qty: lr.Qty}
		switch lr.LineType {
		case domain.LineTypeItem:
			it, err := s.st.ItemByID(ctx, lr.RefID)
			if err != nil {
				return domain.BillResponse{}, err
			}
			if !it.Active {
				return domain.BillResponse{}, store.ErrNotFound
			}
			line.LineType = domain.LineTypeItem
			line.Name = it.Name
			line.UnitPrice = it.Price
			line.CostPrice = it.CostPrice
		case domain.LineTypeService:
			sv, err := s.st.ServiceByID(ctx, lr.RefID)
			if err != nil {
				return domain.BillResponse{}, err
			}
			if !sv.Active {
				return domain.BillResponse{}, store.ErrNotFound
			}
			line.LineType = domain.LineTypeService
			line.Name = sv.Name
			line.UnitPrice = sv.Price
		default:
			return domain.BillResponse{}, store.ErrInvalidInput
		}
		line.Total = line.UnitPrice.Mul(decimal.NewFromInt(int64(lr.Qty)))
		subtotal = subtotal.Add(line.Total)
		lines = append(lines, line)
	}

	if req.Discount.GreaterThan(subtotal) {
		return domain.BillResponse{}, store.ErrInvalidInput
	}

	sharePct, err := s.sharePctForActor(ctx, actor)
	if err != nil {
		return domain.BillResponse{}, err
	}

	bill := domain.Bill{
		CreatedBy: actor.ID,
		Total:     subtotal.Sub(req.Discount),
		Discount:  req.Discount,
		SharePct:  sharePct,
		CreatedAt: s.now(),
	}
	created, savedLines, err := s.st.CreateBill(ctx, bill, lines)
	if err != nil {
		return domain.BillResponse{}, err
	}
	return domain.BillResponse{Bill: created, Lines: savedLines}, nil
}

func (s *Service) sharePctForActor(ctx context.Context, actor domain.Actor) (decimal.Decimal, error) {
	if actor.Role == domain.RoleAdmin {
		return decimal.NewFromInt(100), nil
	}
	return s.CashierSharePct(ctx)
}

// TodayBills lists the current trading day's bills. Admins see everyone,
// cashiers only their own.
func (s *Service) TodayBills(ctx context.Context) (domain.TodayBillsResponse, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return domain.TodayBillsResponse{}, err
	}

	from, to := calendar.BusinessDayRange(s.now(), s.loc)
	bills, err := s.st.BillsBetween(ctx, from, to)
	if err != nil {
		return domain.TodayBillsResponse{}, err
	}

	out := domain.TodayBillsResponse{Bills: make([]domain.BillWithCashier, 0, len(bills)), From: from, To: to}
	for _, b := range bills {
		if actor.Role != domain.RoleAdmin && b.CreatedBy != actor.ID {
			continue
		}
		out.Bills = append(out.Bills, b)
		out.TodayTotal = out.TodayTotal.Add(b.Total)
	}
	return out, nil
}

// BillLines returns one bill's line detail. Cashiers can only inspect their
// own bills.
func (s *Service) BillLines(ctx context.Context, billID uuid.UUID) (domain.BillResponse, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return domain.BillResponse{}, err
	}
	bill, err := s.st.BillByID(ctx, billID)
	if err != nil {
		return domain.BillResponse{}, err
	}
	// Hide other sellers' bills from cashiers rather than confirming they exist.
	if actor.Role != domain.RoleAdmin && bill.CreatedBy != actor.ID {
		return domain.BillResponse{}, store.ErrNotFound
	}
	lines, err := s.st.BillLines(ctx, []uuid.UUID{billID})
	if err != nil {
		return domain.BillResponse{}, err
	}
	return domain.BillResponse{Bill: bill.Bill, Lines: lines[billID]}, nil
}

func (s *Service) reportInput(ctx context.Context, since time.Time, b calendar.Boundaries) (report.Input, error) {
	bills, err := s.st.BillsSince(ctx, since)
	if err != nil {
		return report.Input{}, err
	}
	ids := make([]uuid.UUID, 0, len(bills))
	for _, bill := range bills {
		ids = append(ids, bill.ID)
	}
	lines, err := s.st.BillLines(ctx, ids)
	if err != nil {
		return report.Input{}, err
	}
	catalog, err := s.costCatalog(ctx)
	if err != nil {
		return report.Input{}, err
	}
	expenses, err := s.st.PocketExpensesSince(ctx, since)
	if err != nil {
		return report.Input{}, err
	}
	configured, err := s.CashierSharePct(ctx)
	if err != nil {
		return report.Input{}, err
	}
	return report.Input{
		Bills:              bills,
		Lines:              lines,
		Expenses:           expenses,
		Catalog:            catalog,
		ConfiguredSharePct: configured,
		Boundaries:         b,
	}, nil
}

func (s *Service) costCatalog(ctx context.Context) (report.CostCatalog, error) {
	items, err := s.st.ListItems(ctx, true)
	if err != nil {
		return nil, err
	}
	catalog := make(report.CostCatalog, len(items))
	for _, it := range items {
		catalog[it.ID] = it.CostPrice
	}
	return catalog, nil
}

// MyWeekStats returns the calling seller's numbers for the running week.
func (s *Service) MyWeekStats(ctx context.Context) (domain.WeekStats, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return domain.WeekStats{}, err
	}
	return s.weekStatsFor(ctx, actor.ID)
}

func (s *Service) weekStatsFor(ctx context.Context, userID uuid.UUID) (domain.WeekStats, error) {
	b := calendar.PeriodBoundaries(s.now(), s.loc)
	in, err := s.reportInput(ctx, b.StartOfWeek, b)
	if err != nil {
		return domain.WeekStats{}, err
	}
	return report.WeekStats(in, userID), nil
}

// Dashboard returns the shop-wide totals, cached briefly since the admin
// screen polls it.
func (s *Service) Dashboard(ctx context.Context) (domain.DashboardTotals, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return domain.DashboardTotals{}, err
	}

	if cached, ok, err := s.dash.Get(ctx, dashboardCacheKey); err != nil {
		log.Printf("[service] WARN: dashboard cache read failed: %v", err)
	} else if ok {
		return *cached, nil
	}

	b := calendar.PeriodBoundaries(s.now(), s.loc)
	since := b.StartOfYear
	if b.StartOfWeek.Before(since) {
		since = b.StartOfWeek
	}
	in, err := s.reportInput(ctx, since, b)
	if err != nil {
		return domain.DashboardTotals{}, err
	}

	totals := report.Dashboard(in)
	totals.GeneratedAt = s.now()
	if err := s.dash.Set(ctx, dashboardCacheKey, &totals, dashboardCacheTTL); err != nil {
		log.Printf("[service] WARN: dashboard cache write failed: %v", err)
	}
	return totals, nil
}

// CashierProfits breaks the takings down per seller for the admin screen.
func (s *Service) CashierProfits(ctx context.Context) (domain.CashierProfitsResponse, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return domain.CashierProfitsResponse{}, err
	}

	b := calendar.PeriodBoundaries(s.now(), s.loc)
	since := b.StartOfMonth
	if b.StartOfWeek.Before(since) {
		since = b.StartOfWeek
	}
	in, err := s.reportInput(ctx, since, b)
	if err != nil {
		return domain.CashierProfitsResponse{}, err
	}
	return domain.CashierProfitsResponse{
		Stats:     report.CashierProfits(in, s.ungroupedPolicy),
		WeekStart: b.StartOfWeek,
		WeekEnd:   b.EndOfWeek,
	}, nil
}

// CreatePocketExpense records cash taken out of the drawer. Cashiers may
// only draw against their own week net; admins are exempt and may record an
// expense for anyone.
func (s *Service) CreatePocketExpense(ctx context.Context, req domain.PocketExpenseCreateRequest) (domain.PocketExpense, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return domain.PocketExpense{}, err
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return domain.PocketExpense{}, store.ErrInvalidInput
	}
	req.Reason = strings.TrimSpace(req.Reason)
	if req.Reason == "" {
		req.Reason = defaultExpenseReason
	}

	if actor.Role != domain.RoleAdmin {
		req.UserID = actor.ID
		stats, err := s.weekStatsFor(ctx, actor.ID)
		if err != nil {
			return domain.PocketExpense{}, err
		}
		if req.Amount.GreaterThan(stats.Net) {
			return domain.PocketExpense{}, ErrExpenseExceeded
		}
	} else {
		if req.UserID == uuid.Nil {
			req.UserID = actor.ID
		}
		// Admins may overdraw a seller's week net, but the expense is then
		// recorded under the shop-purchase label instead of the stated reason.
		stats, err := s.weekStatsFor(ctx, req.UserID)
		if err != nil {
			return domain.PocketExpense{}, err
		}
		if req.Amount.GreaterThan(stats.Net) {
			req.Reason = adminOverdrawReason
		}
	}

	return s.st.CreatePocketExpense(ctx, domain.PocketExpense{
		UserID:    req.UserID,
		Amount:    req.Amount,
		Reason:    req.Reason,
		Note:      strings.TrimSpace(req.Note),
		CreatedAt: s.now(),
	})
}

// ListPocketExpenses shows drawer expenses with each seller's remaining week
// net for context. By default it covers the running week; an optional
// from/to civil date range overrides the listing window.
func (s *Service) ListPocketExpenses(ctx context.Context, fromStr, toStr string) (domain.PocketExpenseListResponse, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return domain.PocketExpenseListResponse{}, err
	}

	b := calendar.PeriodBoundaries(s.now(), s.loc)
	in, err := s.reportInput(ctx, b.StartOfWeek, b)
	if err != nil {
		return domain.PocketExpenseListResponse{}, err
	}

	listed := in.Expenses
	if fromStr != "" || toStr != "" {
		from, to, err := s.parseDateRange(fromStr, toStr)
		if err != nil {
			return domain.PocketExpenseListResponse{}, err
		}
		ranged, err := s.st.PocketExpensesSince(ctx, from)
		if err != nil {
			return domain.PocketExpenseListResponse{}, err
		}
		listed = make([]domain.PocketExpense, 0, len(ranged))
		for _, e := range ranged {
			if !e.CreatedAt.After(to) {
				listed = append(listed, e)
			}
		}
	}

	out := domain.PocketExpenseListResponse{
		Expenses:      listed,
		WeekNetByUser: make(map[uuid.UUID]decimal.Decimal),
	}
	for _, e := range listed {
		out.Total = out.Total.Add(e.Amount)
	}
	for _, stat := range report.CashierProfits(in, report.DropUnattributed) {
		out.WeekNetByUser[stat.CashierID] = stat.WeekNet
	}
	return out, nil
}

// CashierSharePct reads the configured share percentage, falling back to the
// default when the setting is missing or unparsable.
func (s *Service) CashierSharePct(ctx context.Context) (decimal.Decimal, error) {
	raw, err := s.st.Setting(ctx, domain.SettingCashierSharePct)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			raw = defaultCashierShare
		} else {
			return decimal.Decimal{}, err
		}
	}
	pct, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		log.Printf("[service] WARN: invalid %s setting %q, using default", domain.SettingCashierSharePct, raw)
		pct, _ = decimal.NewFromString(defaultCashierShare)
	}
	return clampPct(pct), nil
}

func (s *Service) UpdateCashierShare(ctx context.Context, req domain.ShareSettingUpdateRequest) (domain.ShareSettingResponse, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return domain.ShareSettingResponse{}, err
	}
	pct := clampPct(req.CashierSharePct)
	if err := s.st.SetSetting(ctx, domain.SettingCashierSharePct, pct.String()); err != nil {
		return domain.ShareSettingResponse{}, err
	}
	return domain.ShareSettingResponse{CashierSharePct: pct}, nil
}

func clampPct(pct decimal.Decimal) decimal.Decimal {
	if pct.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	if pct.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.NewFromInt(100)
	}
	return pct.Round(2)
}

// RangeReport builds the admin report for an inclusive civil date range in
// the shop timezone. A preset (today/week/month/year) can stand in for the
// explicit dates.
func (s *Service) RangeReport(ctx context.Context, fromStr, toStr, preset string) (domain.RangeReport, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return domain.RangeReport{}, err
	}

	var from, to time.Time
	if preset != "" {
		var err error
		from, to, err = s.presetRange(preset)
		if err != nil {
			return domain.RangeReport{}, err
		}
		fromStr = from.In(s.loc).Format(dateLayout)
		toStr = to.In(s.loc).Format(dateLayout)
	} else {
		var err error
		from, to, err = s.parseDateRange(fromStr, toStr)
		if err != nil {
			return domain.RangeReport{}, err
		}
	}

	bills, err := s.st.BillsBetween(ctx, from, to)
	if err != nil {
		return domain.RangeReport{}, err
	}
	ids := make([]uuid.UUID, 0, len(bills))
	for _, b := range bills {
		ids = append(ids, b.ID)
	}
	lines, err := s.st.BillLines(ctx, ids)
	if err != nil {
		return domain.RangeReport{}, err
	}
	catalog, err := s.costCatalog(ctx)
	if err != nil {
		return domain.RangeReport{}, err
	}
	configured, err := s.CashierSharePct(ctx)
	if err != nil {
		return domain.RangeReport{}, err
	}
	return report.Range(fromStr, toStr, bills, lines, catalog, configured), nil
}

// presetRange maps a named period onto the matching boundary pair.
func (s *Service) presetRange(preset string) (time.Time, time.Time, error) {
	now := s.now()
	b := calendar.PeriodBoundaries(now, s.loc)
	switch strings.ToLower(preset) {
	case "today":
		from, to := calendar.BusinessDayRange(now, s.loc)
		return from, to, nil
	case "week":
		return b.StartOfWeek, b.EndOfWeek, nil
	case "month":
		return b.StartOfMonth, now, nil
	case "year":
		return b.StartOfYear, now, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: unknown preset", store.ErrInvalidInput)
	}
}

// parseDateRange turns an inclusive civil date pair into UTC instants in the
// shop timezone, with the end pushed to the last moment of its day.
func (s *Service) parseDateRange(fromStr, toStr string) (time.Time, time.Time, error) {
	fromDate, err := time.Parse(dateLayout, fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: from date", store.ErrInvalidInput)
	}
	toDate, err := time.Parse(dateLayout, toStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: to date", store.ErrInvalidInput)
	}
	if toDate.Before(fromDate) || toDate.Sub(fromDate) > maxRangeDays*24*time.Hour {
		return time.Time{}, time.Time{}, store.ErrInvalidInput
	}

	y, m, d := fromDate.Date()
	from := calendar.CivilInstant(calendar.CivilDate{Year: y, Month: m, Day: d}, 0, 0, 0, s.loc)
	y, m, d = toDate.Date()
	to := calendar.CivilInstant(calendar.CivilDate{Year: y, Month: m, Day: d}, 0, 0, 0, s.loc).Add(rangeEndOfDay)
	return from, to, nil
}

func (s *Service) CreateCashier(ctx context.Context, req domain.CashierCreateRequest) (domain.CashierUser, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return domain.CashierUser{}, err
	}
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	req.FullName = strings.TrimSpace(req.FullName)
	if len(req.Username) < 3 || req.FullName == "" || len(req.Password) < 8 {
		return domain.CashierUser{}, store.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.CashierUser{}, err
	}
	created, err := s.st.CreateUser(ctx, domain.UserAccount{
		Username: req.Username,
		FullName: req.FullName,
		Password: string(hash),
		Role:     domain.RoleCashier,
	})
	if err != nil {
		return domain.CashierUser{}, err
	}
	return domain.CashierUser{
		ID:        created.ID,
		Username:  created.Username,
		FullName:  created.FullName,
		Role:      created.Role,
		Active:    created.Active,
		CreatedAt: created.CreatedAt,
	}, nil
}

func (s *Service) ListCashiers(ctx context.Context) ([]domain.CashierUser, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.st.ListUsers(ctx)
}

func (s *Service) SetCashierActive(ctx context.Context, id uuid.UUID, active bool) error {
	actor, err := requireAdmin(ctx)
	if err != nil {
		return err
	}
	if id == actor.ID {
		return store.ErrInvalidInput
	}
	return s.st.SetUserActive(ctx, id, active)
}
