package report

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MahdyMohammedFathy/BarberShopCashier/internal/calendar"
	"github.com/MahdyMohammedFathy/BarberShopCashier/internal/domain"
)

var (
	eet = time.FixedZone("EET", 2*3600)
	// Wednesday 2026-01-14 15:00 EET.
	testNow        = time.Date(2026, time.January, 14, 13, 0, 0, 0, time.UTC)
	testBoundaries = calendar.PeriodBoundaries(testNow, eet)
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testBill(by uuid.UUID, role string, total, sharePct string, at time.Time) domain.BillWithCashier {
	return domain.BillWithCashier{
		Bill: domain.Bill{
			ID:        uuid.New(),
			CreatedBy: by,
			Total:     dec(total),
			SharePct:  dec(sharePct),
			CreatedAt: at,
		},
		CashierRole: role,
	}
}

func TestLineCostServiceIsZero(t *testing.T) {
	line := domain.BillLine{LineType: domain.LineTypeService, Qty: 3, CostPrice: dec("50")}
	if got := LineCost(line, nil); !got.IsZero() {
		t.Fatalf("service line cost must be zero, got %s", got)
	}
}

func TestLineCostStoredSnapshotWins(t *testing.T) {
	ref := uuid.New()
	catalog := CostCatalog{ref: dec("9999")}
	line := domain.BillLine{LineType: domain.LineTypeItem, RefID: ref, Qty: 2, CostPrice: dec("15")}
	if got := LineCost(line, catalog); !got.Equal(dec("30")) {
		t.Fatalf("expected 30, got %s", got)
	}
}

func TestLineCostCatalogFallback(t *testing.T) {
	ref := uuid.New()
	catalog := CostCatalog{ref: dec("5")}
	line := domain.BillLine{LineType: domain.LineTypeItem, RefID: ref, Qty: 3}
	if got := LineCost(line, catalog); !got.Equal(dec("15")) {
		t.Fatalf("expected 15, got %s", got)
	}
	// Unknown item costs nothing.
	line.RefID = uuid.New()
	if got := LineCost(line, catalog); !got.IsZero() {
		t.Fatalf("unknown item must cost zero, got %s", got)
	}
}

func TestEffectiveSharePct(t *testing.T) {
	cases := []struct {
		stored, configured string
		role               string
		want               string
	}{
		{"40", "35", domain.RoleCashier, "40"},
		{"0", "35", domain.RoleAdmin, "100"},
		{"0", "35", domain.RoleCashier, "35"},
		{"150", "35", domain.RoleCashier, "100"},
		{"0", "-5", domain.RoleCashier, "0"},
		{"33.333", "35", domain.RoleCashier, "33.33"},
	}
	for _, c := range cases {
		got := EffectiveSharePct(dec(c.stored), c.role, dec(c.configured))
		if !got.Equal(dec(c.want)) {
			t.Fatalf("stored=%s role=%s configured=%s: expected %s, got %s",
				c.stored, c.role, c.configured, c.want, got)
		}
	}
}

func TestWeekStats(t *testing.T) {
	cashier := uuid.New()
	in := Input{
		Bills: []domain.BillWithCashier{
			testBill(cashier, domain.RoleCashier, "100", "50", testNow),
		},
		Expenses: []domain.PocketExpense{
			{UserID: cashier, Amount: dec("20"), CreatedAt: testNow},
		},
		ConfiguredSharePct: dec("35"),
		Boundaries:         testBoundaries,
	}
	got := WeekStats(in, cashier)
	if !got.Gross.Equal(dec("100")) {
		t.Fatalf("gross: expected 100, got %s", got.Gross)
	}
	if !got.BaseNet.Equal(dec("100")) {
		t.Fatalf("base net: expected 100, got %s", got.BaseNet)
	}
	if !got.ShareNet.Equal(dec("50")) {
		t.Fatalf("share net: expected 50, got %s", got.ShareNet)
	}
	if !got.Net.Equal(dec("30")) {
		t.Fatalf("net after pocket: expected 30, got %s", got.Net)
	}
	if got.ShareLabel != "50%" {
		t.Fatalf("share label: expected 50%%, got %q", got.ShareLabel)
	}
	if got.BillCount != 1 {
		t.Fatalf("bill count: expected 1, got %d", got.BillCount)
	}
}

func TestWeekStatsShareLabelRange(t *testing.T) {
	cashier := uuid.New()
	in := Input{
		Bills: []domain.BillWithCashier{
			testBill(cashier, domain.RoleCashier, "100", "30", testNow),
			testBill(cashier, domain.RoleCashier, "100", "50", testNow),
		},
		Boundaries: testBoundaries,
	}
	got := WeekStats(in, cashier)
	if got.ShareLabel != "30% - 50%" {
		t.Fatalf("share label: expected range, got %q", got.ShareLabel)
	}
}

func TestDashboardIdempotent(t *testing.T) {
	cashier := uuid.New()
	in := Input{
		Bills: []domain.BillWithCashier{
			testBill(cashier, domain.RoleCashier, "100", "0", testNow),
			// Earlier in the same month, outside the current week.
			testBill(cashier, domain.RoleCashier, "40", "0", testNow.Add(-12*24*time.Hour)),
		},
		Expenses: []domain.PocketExpense{
			{UserID: cashier, Amount: dec("10"), CreatedAt: testNow},
		},
		ConfiguredSharePct: dec("35"),
		Boundaries:         testBoundaries,
	}
	first := Dashboard(in)
	second := Dashboard(in)
	if !first.TodayTotal.Equal(dec("100")) || !first.WeekTotal.Equal(dec("100")) {
		t.Fatalf("unexpected today/week totals: %s / %s", first.TodayTotal, first.WeekTotal)
	}
	if !first.YearTotal.Equal(dec("140")) {
		t.Fatalf("year total: expected 140, got %s", first.YearTotal)
	}
	if !first.PocketWeek.Equal(dec("10")) {
		t.Fatalf("pocket week: expected 10, got %s", first.PocketWeek)
	}
	if !first.TodayTotal.Equal(second.TodayTotal) || !first.YearTotal.Equal(second.YearTotal) {
		t.Fatalf("aggregation is not idempotent: %+v vs %+v", first, second)
	}
}

func TestCashierProfitsExpenseIsolation(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	bills := []domain.BillWithCashier{
		testBill(a, domain.RoleCashier, "100", "50", testNow),
		testBill(b, domain.RoleCashier, "100", "50", testNow),
	}
	bills[0].CashierName = "a"
	bills[1].CashierName = "b"
	in := Input{
		Bills: bills,
		Expenses: []domain.PocketExpense{
			{UserID: a, Amount: dec("20"), CreatedAt: testNow},
		},
		Boundaries: testBoundaries,
	}
	stats := CashierProfits(in, DropUnattributed)
	if len(stats) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(stats))
	}
	byID := map[uuid.UUID]domain.CashierStat{}
	for _, s := range stats {
		byID[s.CashierID] = s
	}
	if !byID[a].WeekNet.Equal(dec("30")) {
		t.Fatalf("seller a week net: expected 30, got %s", byID[a].WeekNet)
	}
	if !byID[b].WeekNet.Equal(dec("50")) {
		t.Fatalf("seller b week net must be untouched by a's expense, got %s", byID[b].WeekNet)
	}
}

func TestCashierProfitsMissingActorPolicy(t *testing.T) {
	in := Input{
		Bills: []domain.BillWithCashier{
			testBill(uuid.Nil, "", "100", "0", testNow),
		},
		ConfiguredSharePct: dec("35"),
		Boundaries:         testBoundaries,
	}
	if stats := CashierProfits(in, DropUnattributed); len(stats) != 0 {
		t.Fatalf("expected unattributed bill to be dropped, got %d rows", len(stats))
	}
	stats := CashierProfits(in, CountUngrouped)
	if len(stats) != 1 || stats[0].Name != "unattributed" {
		t.Fatalf("expected one unattributed row, got %+v", stats)
	}
	if !stats[0].WeekGross.Equal(dec("100")) {
		t.Fatalf("unattributed week gross: expected 100, got %s", stats[0].WeekGross)
	}
}

func TestRangeTotals(t *testing.T) {
	cashier := uuid.New()
	b1 := testBill(cashier, domain.RoleCashier, "200", "50", testNow)
	b2 := testBill(uuid.Nil, domain.RoleAdmin, "100", "0", testNow)
	lines := map[uuid.UUID][]domain.BillLine{
		b1.ID: {{LineType: domain.LineTypeItem, Qty: 1, CostPrice: dec("40")}},
	}
	got := Range("2026-01-01", "2026-01-31", []domain.BillWithCashier{b1, b2}, lines, nil, dec("35"))
	if !got.GrossTotal.Equal(dec("300")) {
		t.Fatalf("gross total: expected 300, got %s", got.GrossTotal)
	}
	// b1: (200-40)*50% = 80; b2: 100*100% = 100.
	if !got.ShareTotal.Equal(dec("180")) {
		t.Fatalf("share total: expected 180, got %s", got.ShareTotal)
	}
	if len(got.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got.Rows))
	}
}
