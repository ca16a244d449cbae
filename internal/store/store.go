// Package store defines the persistence contract shared by the in-memory
// and Postgres implementations.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MahdyMohammedFathy/BarberShopCashier/internal/domain"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrConflict          = errors.New("conflict")
)

// Store is the persistence boundary. Implementations must be safe for
// concurrent use.
type Store interface {
	// Users.
	UserByUsername(ctx context.Context, username string) (domain.UserAccount, error)
	UserByID(ctx context.Context, id uuid.UUID) (domain.UserAccount, error)
	CreateUser(ctx context.Context, u domain.UserAccount) (domain.UserAccount, error)
	ListUsers(ctx context.Context) ([]domain.CashierUser, error)
	SetUserActive(ctx context.Context, id uuid.UUID, active bool) error

	// Catalog.
	ListItems(ctx context.Context, includeInactive bool) ([]domain.Item, error)
	ItemByID(ctx context.Context, id uuid.UUID) (domain.Item, error)
	CreateItem(ctx context.Context, it domain.Item) (domain.Item, error)
	UpdateItem(ctx context.Context, id uuid.UUID, req domain.ItemUpdateRequest) (domain.Item, error)
	ListServices(ctx context.Context, includeInactive bool) ([]domain.Service, error)
	ServiceByID(ctx context.Context, id uuid.UUID) (domain.Service, error)
	CreateService(ctx context.Context, s domain.Service) (domain.Service, error)
	UpdateService(ctx context.Context, id uuid.UUID, req domain.ServiceUpdateRequest) (domain.Service, error)

	// Bills. CreateBill persists the bill with its lines and decrements
	// item stock atomically; it fails with ErrInsufficientStock when any
	// line asks for more units than are left.
	CreateBill(ctx context.Context, b domain.Bill, lines []domain.BillLine) (domain.Bill, []domain.BillLine, error)
	BillByID(ctx context.Context, id uuid.UUID) (domain.BillWithCashier, error)
	BillsBetween(ctx context.Context, from, to time.Time) ([]domain.BillWithCashier, error)
	BillsSince(ctx context.Context, since time.Time) ([]domain.BillWithCashier, error)
	BillLines(ctx context.Context, billIDs []uuid.UUID) (map[uuid.UUID][]domain.BillLine, error)

	// Pocket expenses.
	CreatePocketExpense(ctx context.Context, e domain.PocketExpense) (domain.PocketExpense, error)
	PocketExpensesSince(ctx context.Context, since time.Time) ([]domain.PocketExpense, error)

	// Settings.
	Setting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error

	Ping(ctx context.Context) error
	Close() error
}
