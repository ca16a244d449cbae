package cache

import (
	"context"
	"time"

	"github.com/MahdyMohammedFathy/BarberShopCashier/internal/domain"
)

// DashboardCache keeps the admin dashboard totals hot so every page load
// does not re-scan a year of bills.
type DashboardCache interface {
	Get(ctx context.Context, key string) (*domain.DashboardTotals, bool, error)
	Set(ctx context.Context, key string, value *domain.DashboardTotals, ttl time.Duration) error
}

type NoopDashboardCache struct{}

func (NoopDashboardCache) Get(_ context.Context, _ string) (*domain.DashboardTotals, bool, error) {
	return nil, false, nil
}

func (NoopDashboardCache) Set(_ context.Context, _ string, _ *domain.DashboardTotals, _ time.Duration) error {
	return nil
}
