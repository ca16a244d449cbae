package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"

	"github.com/MahdyMohammedFathy/BarberShopCashier/internal/domain"
	"github.com/MahdyMohammedFathy/BarberShopCashier/internal/store"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) UserByUsername(ctx context.Context, username string) (domain.UserAccount, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, username, full_name, password_hash, role, active, created_at
		FROM profiles
		WHERE username = $1
	`, strings.ToLower(strings.TrimSpace(username))))
}

func (s *Store) UserByID(ctx context.Context, id uuid.UUID) (domain.UserAccount, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, username, full_name, password_hash, role, active, created_at
		FROM profiles
		WHERE id = $1
	`, id))
}

func (s *Store) scanUser(row *sql.Row) (domain.UserAccount, error) {
	var u domain.UserAccount
	err := row.Scan(&u.ID, &u.Username, &u.FullName, &u.Password, &u.Role, &u.Active, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.UserAccount{}, store.ErrNotFound
		}
		return domain.UserAccount{}, err
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, u domain.UserAccount) (domain.UserAccount, error) {
	u.Username = strings.ToLower(strings.TrimSpace(u.Username))
	if u.Username == "" || strings.TrimSpace(u.Password) == "" {
		return domain.UserAccount{}, store.ErrInvalidInput
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

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, username, full_name, password_hash, role, active, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, u.ID, u.Username, u.FullName, u.Password, u.Role, u.Active, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.UserAccount{}, store.ErrConflict
		}
		return domain.UserAccount{}, err
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.CashierUser, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, full_name, role, active, created_at
		FROM profiles
		ORDER BY username
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.CashierUser, 0, 16)
	for rows.Next() {
		var u domain.CashierUser
		if err := rows.Scan(&u.ID, &u.Username, &u.FullName, &u.Role, &u.Active, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.CreatedAt = u.CreatedAt.UTC()
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) SetUserActive(ctx context.Context, id uuid.UUID, active bool) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE profiles SET active = $2 WHERE id = $1
	`, id, active)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListItems(ctx context.Context, includeInactive bool) ([]domain.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, price, cost_price, stock_qty, active, created_at
		FROM items
		WHERE ($1 OR active = true)
		ORDER BY name
	`, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Item, 0, 64)
	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Price, &it.CostPrice, &it.StockQty, &it.Active, &it.CreatedAt); err != nil {
			return nil, err
		}
		it.CreatedAt = it.CreatedAt.UTC()
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ItemByID(ctx context.Context, id uuid.UUID) (domain.Item, error) {
	var it domain.Item
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, price, cost_price, stock_qty, active, created_at
		FROM items
		WHERE id = $1
	`, id).Scan(&it.ID, &it.Name, &it.Price, &it.CostPrice, &it.StockQty, &it.Active, &it.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Item{}, store.ErrNotFound
		}
		return domain.Item{}, err
	}
	it.CreatedAt = it.CreatedAt.UTC()
	return it, nil
}

func (s *Store) CreateItem(ctx context.Context, it domain.Item) (domain.Item, error) {
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

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO items (id, name, price, cost_price, stock_qty, active, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, it.ID, it.Name, it.Price, it.CostPrice, it.StockQty, it.Active, it.CreatedAt)
	if err != nil {
		return domain.Item{}, err
	}
	return it, nil
}

func (s *Store) UpdateItem(ctx context.Context, id uuid.UUID, req domain.ItemUpdateRequest) (domain.Item, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return domain.Item{}, store.ErrInvalidInput
	}
	if req.Price != nil && req.Price.LessThanOrEqual(decimal.Zero) {
		return domain.Item{}, store.ErrInvalidInput
	}
	if req.CostPrice != nil && req.CostPrice.LessThan(decimal.Zero) {
		return domain.Item{}, store.ErrInvalidInput
	}
	if req.StockQty != nil && *req.StockQty < 0 {
		return domain.Item{}, store.ErrInvalidInput
	}

	var it domain.Item
	err := s.db.QueryRowContext(ctx, `
		UPDATE items
		SET name = COALESCE($2, name),
			price = COALESCE($3, price),
			cost_price = COALESCE($4, cost_price),
			stock_qty = COALESCE($5, stock_qty),
			active = COALESCE($6, active)
		WHERE id = $1
		RETURNING id, name, price, cost_price, stock_qty, active, created_at
	`, id, req.Name, req.Price, req.CostPrice, req.StockQty, req.Active).
		Scan(&it.ID, &it.Name, &it.Price, &it.CostPrice, &it.StockQty, &it.Active, &it.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Item{}, store.ErrNotFound
		}
		return domain.Item{}, err
	}
	it.CreatedAt = it.CreatedAt.UTC()
	return it, nil
}

func (s *Store) ListServices(ctx context.Context, includeInactive bool) ([]domain.Service, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, price, active, created_at
		FROM services
		WHERE ($1 OR active = true)
		ORDER BY name
	`, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	services := make([]domain.Service, 0, 32)
	for rows.Next() {
		var sv domain.Service
		if err := rows.Scan(&sv.ID, &sv.Name, &sv.Price, &sv.Active, &sv.CreatedAt); err != nil {
			return nil, err
		}
		sv.CreatedAt = sv.CreatedAt.UTC()
		services = append(services, sv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return services, nil
}

func (s *Store) ServiceByID(ctx context.Context, id uuid.UUID) (domain.Service, error) {
	var sv domain.Service
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, price, active, created_at
		FROM services
		WHERE id = $1
	`, id).Scan(&sv.ID, &sv.Name, &sv.Price, &sv.Active, &sv.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Service{}, store.ErrNotFound
		}
		return domain.Service{}, err
	}
	sv.CreatedAt = sv.CreatedAt.UTC()
	return sv, nil
}

func (s *Store) CreateService(ctx context.Context, sv domain.Service) (domain.Service, error) {
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

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO services (id, name, price, active, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, sv.ID, sv.Name, sv.Price, sv.Active, sv.CreatedAt)
	if err != nil {
		return domain.Service{}, err
	}
	return sv, nil
}

func (s *Store) UpdateService(ctx context.Context, id uuid.UUID, req domain.ServiceUpdateRequest) (domain.Service, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return domain.Service{}, store.ErrInvalidInput
	}
	if req.Price != nil && req.Price.LessThanOrEqual(decimal.Zero) {
		return domain.Service{}, store.ErrInvalidInput
	}

	var sv domain.Service
	err := s.db.QueryRowContext(ctx, `
		UPDATE services
		SET name = COALESCE($2, name),
			price = COALESCE($3, price),
			active = COALESCE($4, active)
		WHERE id = $1
		RETURNING id, name, price, active, created_at
	`, id, req.Name, req.Price, req.Active).
		Scan(&sv.ID, &sv.Name, &sv.Price, &sv.Active, &sv.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Service{}, store.ErrNotFound
		}
		return domain.Service{}, err
	}
	sv.CreatedAt = sv.CreatedAt.UTC()
	return sv, nil
}

func (s *Store) CreateBill(ctx context.Context, b domain.Bill, lines []domain.BillLine) (domain.Bill, []domain.BillLine, error) {
	if len(lines) == 0 {
		return domain.Bill{}, nil, store.ErrInvalidInput
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return domain.Bill{}, nil, err
	}
	defer func() { _ = tx.Rollback() }()

	// Decrement stock first so the serializable transaction fails fast on a
	// sold-out item.
	for _, l := range lines {
		if l.Qty < 1 {
			return domain.Bill{}, nil, store.ErrInvalidInput
		}
		if l.LineType != domain.LineTypeItem {
			continue
		}
		res, err := tx.ExecContext(ctx, `
			UPDATE items
			SET stock_qty = stock_qty - $2
			WHERE id = $1 AND active = true AND stock_qty >= $2
		`, l.RefID, l.Qty)
		if err != nil {
			return domain.Bill{}, nil, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return domain.Bill{}, nil, err
		}
		if affected == 0 {
			return domain.Bill{}, nil, store.ErrInsufficientStock
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bills (id, created_by, total, discount, share_pct, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, b.ID, b.CreatedBy, b.Total, b.Discount, b.SharePct, b.CreatedAt)
	if err != nil {
		return domain.Bill{}, nil, err
	}

	saved := make([]domain.BillLine, 0, len(lines))
	for _, l := range lines {
		if l.ID == uuid.Nil {
			l.ID = uuid.New()
		}
		l.BillID = b.ID
		_, err = tx.ExecContext(ctx, `
			INSERT INTO bill_lines (id, bill_id, ref_id, line_type, name, qty, unit_price, cost_price, total)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		`, l.ID, l.BillID, l.RefID, l.LineType, l.Name, l.Qty, l.UnitPrice, l.CostPrice, l.Total)
		if err != nil {
			return domain.Bill{}, nil, err
		}
		saved = append(saved, l)
	}

	if err := tx.Commit(); err != nil {
		return domain.Bill{}, nil, err
	}
	return b, saved, nil
}

const billSelect = `
	SELECT b.id, b.created_by, b.total, b.discount, b.share_pct, b.created_at,
		COALESCE(p.username, ''), COALESCE(p.full_name, ''), COALESCE(p.role, '')
	FROM bills b
	LEFT JOIN profiles p ON p.id = b.created_by
`

func (s *Store) scanBills(rows *sql.Rows) ([]domain.BillWithCashier, error) {
	defer rows.Close()

	bills := make([]domain.BillWithCashier, 0, 128)
	for rows.Next() {
		var b domain.BillWithCashier
		var createdBy uuid.NullUUID
		if err := rows.Scan(&b.ID, &createdBy, &b.Total, &b.Discount, &b.SharePct, &b.CreatedAt,
			&b.CashierUsername, &b.CashierName, &b.CashierRole); err != nil {
			return nil, err
		}
		if createdBy.Valid {
			b.CreatedBy = createdBy.UUID
		}
		b.CreatedAt = b.CreatedAt.UTC()
		bills = append(bills, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bills, nil
}

func (s *Store) BillByID(ctx context.Context, id uuid.UUID) (domain.BillWithCashier, error) {
	rows, err := s.db.QueryContext(ctx, billSelect+`
		WHERE b.id = $1
	`, id)
	if err != nil {
		return domain.BillWithCashier{}, err
	}
	bills, err := s.scanBills(rows)
	if err != nil {
		return domain.BillWithCashier{}, err
	}
	if len(bills) == 0 {
		return domain.BillWithCashier{}, store.ErrNotFound
	}
	return bills[0], nil
}

func (s *Store) BillsBetween(ctx context.Context, from, to time.Time) ([]domain.BillWithCashier, error) {
	rows, err := s.db.QueryContext(ctx, billSelect+`
		WHERE b.created_at >= $1 AND b.created_at <= $2
		ORDER BY b.created_at DESC
	`, from, to)
	if err != nil {
		return nil, err
	}
	return s.scanBills(rows)
}

func (s *Store) BillsSince(ctx context.Context, since time.Time) ([]domain.BillWithCashier, error) {
	rows, err := s.db.QueryContext(ctx, billSelect+`
		WHERE b.created_at >= $1
		ORDER BY b.created_at DESC
	`, since)
	if err != nil {
		return nil, err
	}
	return s.scanBills(rows)
}

func (s *Store) BillLines(ctx context.Context, billIDs []uuid.UUID) (map[uuid.UUID][]domain.BillLine, error) {
	result := make(map[uuid.UUID][]domain.BillLine, len(billIDs))
	if len(billIDs) == 0 {
		return result, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, bill_id, ref_id, line_type, name, qty, unit_price, cost_price, total
		FROM bill_lines
		WHERE bill_id = ANY($1)
	`, billIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var l domain.BillLine
		if err := rows.Scan(&l.ID, &l.BillID, &l.RefID, &l.LineType, &l.Name, &l.Qty, &l.UnitPrice, &l.CostPrice, &l.Total); err != nil {
			return nil, err
		}
		result[l.BillID] = append(result[l.BillID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) CreatePocketExpense(ctx context.Context, e domain.PocketExpense) (domain.PocketExpense, error) {
	if e.UserID == uuid.Nil || e.Amount.LessThanOrEqual(decimal.Zero) {
		return domain.PocketExpense{}, store.ErrInvalidInput
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pocket_expenses (id, user_id, amount, reason, note, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, e.ID, e.UserID, e.Amount, e.Reason, e.Note, e.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.PocketExpense{}, store.ErrNotFound
		}
		return domain.PocketExpense{}, err
	}
	return e, nil
}

func (s *Store) PocketExpensesSince(ctx context.Context, since time.Time) ([]domain.PocketExpense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, amount, reason, note, created_at
		FROM pocket_expenses
		WHERE created_at >= $1
		ORDER BY created_at DESC
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := make([]domain.PocketExpense, 0, 64)
	for rows.Next() {
		var e domain.PocketExpense
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Reason, &e.Note, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.CreatedAt = e.CreatedAt.UTC()
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return expenses, nil
}

func (s *Store) Setting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM app_settings WHERE key = $1
	`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", store.ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return store.ErrInvalidInput
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_settings (key, value, updated_at)
		VALUES ($1,$2,now())
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, key, value)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
