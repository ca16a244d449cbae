package memory

import (
	"context"
	"log"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/MahdyMohammedFathy/BarberShopCashier/internal/domain"
	"github.com/MahdyMohammedFathy/BarberShopCashier/internal/store"
)

type Store struct {
	mu              sync.RWMutex
	usersByID       map[uuid.UUID]domain.UserAccount
	usersByUsername map[string]uuid.UUID
	items           map[uuid.UUID]domain.Item
	services        map[uuid.UUID]domain.Service
	billsByID       map[uuid.UUID]domain.Bill
	linesByBillID   map[uuid.UUID][]domain.BillLine
	expensesByID    map[uuid.UUID]domain.PocketExpense
	settings        map[string]string
}

// seedUsers builds the initial in-memory accounts for dev/demo mode.
// Credentials come from SEED_ADMIN_PASSWORD and SEED_CASHIER_PASSWORD; if
// unset, hardcoded dev defaults are used with a warning. Production runs
// use PostgreSQL (DATABASE_URL set) and never hit this path.
func seedUsers() []domain.UserAccount {
	adminPwd := envOr("SEED_ADMIN_PASSWORD", "admin123")
	cashierPwd := envOr("SEED_CASHIER_PASSWORD", "cashier123")
	if os.Getenv("SEED_ADMIN_PASSWORD") == "" || os.Getenv("SEED_CASHIER_PASSWORD") == "" {
		log.Println("[memory-store] WARNING: using default dev credentials. Set SEED_ADMIN_PASSWORD and SEED_CASHIER_PASSWORD to override.")
	}

	now := time.Now().UTC()
	users := make([]domain.UserAccount, 0, 2)
	for _, u := range []struct {
		username string
		fullName string
		password string
		role     string
	}{
		{"admin", "Mahdy", adminPwd, domain.RoleAdmin},
		{"cashier", "Karim", cashierPwd, domain.RoleCashier},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("[memory-store] failed to hash seed password for %s: %v", u.username, err)
		}
		users = append(users, domain.UserAccount{
			ID:        uuid.New(),
			Username:  u.username,
			FullName:  u.fullName,
			Password:  string(hash),
			Role:      u.role,
			Active:    true,
			CreatedAt: now,
		})
	}
	return users
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func NewSeeded() *Store {
	now := time.Now().UTC()
	items := []domain.Item{
		{Name: "جل شعر", Price: dec("60"), CostPrice: dec("35"), StockQty: 24, Active: true},
		{Name: "واكس", Price: dec("80"), CostPrice: dec("48"), StockQty: 18, Active: true},
		{Name: "شامبو", Price: dec("95"), CostPrice: dec("60"), StockQty: 12, Active: true},
		{Name: "أمواس", Price: dec("25"), CostPrice: dec("12"), StockQty: 60, Active: true},
		{Name: "بخاخ معطر", Price: dec("70"), CostPrice: dec("40"), StockQty: 15, Active: true},
	}
	services := []domain.Service{
		{Name: "حلاقة شعر", Price: dec("100"), Active: true},
		{Name: "حلاقة ذقن", Price: dec("60"), Active: true},
		{Name: "شعر + ذقن", Price: dec("140"), Active: true},
		{Name: "سشوار", Price: dec("40"), Active: true},
		{Name: "ماسك بشرة", Price: dec("120"), Active: true},
	}

	s := &Store{
		usersByID:       make(map[uuid.UUID]domain.UserAccount),
		usersByUsername: make(map[string]uuid.UUID),
		items:           make(map[uuid.UUID]domain.Item, len(items)),
		services:        make(map[uuid.UUID]domain.Service, len(services)),
		billsByID:       make(map[uuid.UUID]domain.Bill),
		linesByBillID:   make(map[uuid.UUID][]domain.BillLine),
		expensesByID:    make(map[uuid.UUID]domain.PocketExpense),
		settings:        map[string]string{domain.SettingCashierSharePct: "40"},
	}
	for _, it := range items {
		it.ID = uuid.New()
		it.CreatedAt = now
		s.items[it.ID] = it
	}
	for _, sv := range services {
		sv.ID = uuid.New()
		sv.CreatedAt = now
		s.services[sv.ID] = sv
	}
	for _, u := range seedUsers() {
		s.usersByID[u.ID] = u
		s.usersByUsername[u.Username] = u.ID
	}
	return s
}

// NewEmpty returns a store with no seed data, used by tests.
func NewEmpty() *Store {
	return &Store{
		usersByID:       make(map[uuid.UUID]domain.UserAccount),
		usersByUsername: make(map[string]uuid.UUID),
		items:           make(map[uuid.UUID]domain.Item),
		services:        make(map[uuid.UUID]domain.Service),
		billsByID:       make(map[uuid.UUID]domain.Bill),
		linesByBillID:   make(map[uuid.UUID][]domain.BillLine),
		expensesByID:    make(map[uuid.UUID]domain.PocketExpense),
		settings:        make(map[string]string),
	}
}

func (s *Store) UserByUsername(_ context.Context, username string) (domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByUsername[strings.ToLower(strings.TrimSpace(username))]
	if !ok {
		return domain.UserAccount{}, store.ErrNotFound
	}
	return s.usersByID[id], nil
}

func (s *Store) UserByID(_ context.Context, id uuid.UUID) (domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.usersByID[id]
	if !ok {
		return domain.UserAccount{}, store.ErrNotFound
	}
	return u, nil
}

func (s *Store) CreateUser(_ context.Context, u domain.UserAccount) (domain.UserAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u.Username = strings.ToLower(strings.TrimSpace(u.Username))
	if u.Username == "" || strings.TrimSpace(u.Password) == "" {
		return domain.UserAccount{}, store.ErrInvalidInput
	}
	if _, exists := s.usersByUsername[u.Username]; exists {
		return domain.UserAccount{}, store.ErrConflict
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = domain.RoleCashier
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	u.Active = true
	s.usersByID[u.ID] = u
	s.usersByUsername[u.Username] = u.ID
	return u, nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.CashierUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.CashierUser, 0, len(s.usersByID))
	for _, u := range s.usersByID {
		users = append(users, domain.CashierUser{
			ID:        u.ID,
			Username:  u.Username,
			FullName:  u.FullName,
			Role:      u.Role,
			Active:    u.Active,
			CreatedAt: u.CreatedAt,
		})
	}
	slices.SortFunc(users, func(a, b domain.CashierUser) int {
		return strings.Compare(a.Username, b.Username)
	})
	return users, nil
}

func (s *Store) SetUserActive(_ context.Context, id uuid.UUID, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.usersByID[id]
	if !ok {
		return store.ErrNotFound
	}
	u.Active = active
	s.usersByID[id] = u
	return nil
}

func (s *Store) ListItems(_ context.Context, includeInactive bool) ([]domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.Item, 0, len(s.items))
	for _, it := range s.items {
		if !includeInactive && !it.Active {
			continue
		}
		items = append(items, it)
	}
	slices.SortFunc(items, func(a, b domain.Item) int {
		return strings.Compare(a.Name, b.Name)
	})
	return items, nil
}

func (s *Store) ItemByID(_ context.Context, id uuid.UUID) (domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[id]
	if !ok {
		return domain.Item{}, store.ErrNotFound
	}
	return it, nil
}

func (s *Store) CreateItem(_ context.Context, it domain.Item) (domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(it.Name) == "" || it.Price.LessThanOrEqual(decimal.Zero) || it.StockQty < 0 {
		return domain.Item{}, store.ErrInvalidInput
	}
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	if it.CreatedAt.IsZero() {
		it.CreatedAt = time.Now().UTC()
	}
	it.Active = true
	s.items[it.ID] = it
	return it, nil
}

func (s *Store) UpdateItem(_ context.Context, id uuid.UUID, req domain.ItemUpdateRequest) (domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[id]
	if !ok {
		return domain.Item{}, store.ErrNotFound
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return domain.Item{}, store.ErrInvalidInput
		}
		it.Name = *req.Name
	}
	if req.Price != nil {
		if req.Price.LessThanOrEqual(decimal.Zero) {
			return domain.Item{}, store.ErrInvalidInput
		}
		it.Price = *req.Price
	}
	if req.CostPrice != nil {
		if req.CostPrice.LessThan(decimal.Zero) {
			return domain.Item{}, store.ErrInvalidInput
		}
		it.CostPrice = *req.CostPrice
	}
	if req.StockQty != nil {
		if *req.StockQty < 0 {
			return domain.Item{}, store.ErrInvalidInput
		}
		it.StockQty = *req.StockQty
	}
	if req.Active != nil {
		it.Active = *req.Active
	}
	s.items[id] = it
	return it, nil
}

func (s *Store) ListServices(_ context.Context, includeInactive bool) ([]domain.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	services := make([]domain.Service, 0, len(s.services))
	for _, sv := range s.services {
		if !includeInactive && !sv.Active {
			continue
		}
		services = append(services, sv)
	}
	slices.SortFunc(services, func(a, b domain.Service) int {
		return strings.Compare(a.Name, b.Name)
	})
	return services, nil
}

func (s *Store) ServiceByID(_ context.Context, id uuid.UUID) (domain.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sv, ok := s.services[id]
	if !ok {
		return domain.Service{}, store.ErrNotFound
	}
	return sv, nil
}

func (s *Store) CreateService(_ context.Context, sv domain.Service) (domain.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(sv.Name) == "" || sv.Price.LessThanOrEqual(decimal.Zero) {
		return domain.Service{}, store.ErrInvalidInput
	}
	if sv.ID == uuid.Nil {
		sv.ID = uuid.New()
	}
	if sv.CreatedAt.IsZero() {
		sv.CreatedAt = time.Now().UTC()
	}
	sv.Active = true
	s.services[sv.ID] = sv
	return sv, nil
}

func (s *Store) UpdateService(_ context.Context, id uuid.UUID, req domain.ServiceUpdateRequest) (domain.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sv, ok := s.services[id]
	if !ok {
		return domain.Service{}, store.ErrNotFound
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return domain.Service{}, store.ErrInvalidInput
		}
		sv.Name = *req.Name
	}
	if req.Price != nil {
		if req.Price.LessThanOrEqual(decimal.Zero) {
			return domain.Service{}, store.ErrInvalidInput
		}
		sv.Price = *req.Price
	}
	if req.Active != nil {
		sv.Active = *req.Active
	}
	s.services[id] = sv
	return sv, nil
}

func (s *Store) CreateBill(_ context.Context, b domain.Bill, lines []domain.BillLine) (domain.Bill, []domain.BillLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(lines) == 0 {
		return domain.Bill{}, nil, store.ErrInvalidInput
	}
	// Check all stock before touching anything.
	for _, l := range lines {
		if l.Qty < 1 {
			return domain.Bill{}, nil, store.ErrInvalidInput
		}
		if l.LineType != domain.LineTypeItem {
			continue
		}
		it, ok := s.items[l.RefID]
		if !ok || !it.Active {
			return domain.Bill{}, nil, store.ErrNotFound
		}
		if it.StockQty < l.Qty {
			return domain.Bill{}, nil, store.ErrInsufficientStock
		}
	}

	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	saved := make([]domain.BillLine, 0, len(lines))
	for _, l := range lines {
		if l.ID == uuid.Nil {
			l.ID = uuid.New()
		}
		l.BillID = b.ID
		if l.LineType == domain.LineTypeItem {
			it := s.items[l.RefID]
			it.StockQty -= l.Qty
			s.items[l.RefID] = it
		}
		saved = append(saved, l)
	}
	s.billsByID[b.ID] = b
	s.linesByBillID[b.ID] = saved
	out := make([]domain.BillLine, len(saved))
	copy(out, saved)
	return b, out, nil
}

func (s *Store) BillByID(_ context.Context, id uuid.UUID) (domain.BillWithCashier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.billsByID[id]
	if !ok {
		return domain.BillWithCashier{}, store.ErrNotFound
	}
	return s.billWithCashier(b), nil
}

func (s *Store) billWithCashier(b domain.Bill) domain.BillWithCashier {
	out := domain.BillWithCashier{Bill: b}
	if u, ok := s.usersByID[b.CreatedBy]; ok {
		out.CashierUsername = u.Username
		out.CashierName = u.FullName
		out.CashierRole = u.Role
	}
	return out
}

func (s *Store) listBills(filter func(domain.Bill) bool) []domain.BillWithCashier {
	result := make([]domain.BillWithCashier, 0, len(s.billsByID))
	for _, b := range s.billsByID {
		if !filter(b) {
			continue
		}
		result = append(result, s.billWithCashier(b))
	}
	slices.SortFunc(result, func(a, b domain.BillWithCashier) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return strings.Compare(b.ID.String(), a.ID.String())
		}
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	})
	return result
}

func (s *Store) BillsBetween(_ context.Context, from, to time.Time) ([]domain.BillWithCashier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listBills(func(b domain.Bill) bool {
		return !b.CreatedAt.Before(from) && !b.CreatedAt.After(to)
	}), nil
}

func (s *Store) BillsSince(_ context.Context, since time.Time) ([]domain.BillWithCashier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listBills(func(b domain.Bill) bool {
		return !b.CreatedAt.Before(since)
	}), nil
}

func (s *Store) BillLines(_ context.Context, billIDs []uuid.UUID) (map[uuid.UUID][]domain.BillLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[uuid.UUID][]domain.BillLine, len(billIDs))
	for _, id := range billIDs {
		lines, ok := s.linesByBillID[id]
		if !ok {
			continue
		}
		dup := make([]domain.BillLine, len(lines))
		copy(dup, lines)
		result[id] = dup
	}
	return result, nil
}

func (s *Store) CreatePocketExpense(_ context.Context, e domain.PocketExpense) (domain.PocketExpense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.UserID == uuid.Nil || e.Amount.LessThanOrEqual(decimal.Zero) {
		return domain.PocketExpense{}, store.ErrInvalidInput
	}
	if _, ok := s.usersByID[e.UserID]; !ok {
		return domain.PocketExpense{}, store.ErrNotFound
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	s.expensesByID[e.ID] = e
	return e, nil
}

func (s *Store) PocketExpensesSince(_ context.Context, since time.Time) ([]domain.PocketExpense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.PocketExpense, 0, len(s.expensesByID))
	for _, e := range s.expensesByID {
		if e.CreatedAt.Before(since) {
			continue
		}
		result = append(result, e)
	}
	slices.SortFunc(result, func(a, b domain.PocketExpense) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return strings.Compare(b.ID.String(), a.ID.String())
		}
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	})
	return result, nil
}

func (s *Store) Setting(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.settings[key]
	if !ok {
		return "", store.ErrNotFound
	}
	return v, nil
}

func (s *Store) SetSetting(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(key) == "" {
		return store.ErrInvalidInput
	}
	s.settings[key] = value
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }
