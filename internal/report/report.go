// Package report computes financial aggregates over bills, bill lines and
// pocket expenses. Every function here is pure: it never touches the clock,
// the store or the network, and it never fails. Malformed numeric input is
// treated as zero so a single bad row cannot take down a report.
package report

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MahdyMohammedFathy/BarberShopCashier/internal/calendar"
	"github.com/MahdyMohammedFathy/BarberShopCashier/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Window selects which reporting period a bill or expense is counted in.
type Window int

const (
	// WindowToday is the current trading day, noon through 06:00 next day,
	// end inclusive.
	WindowToday Window = iota
	// WindowWeek is Monday noon through the following Monday 06:00, both
	// ends inclusive.
	WindowWeek
	// WindowMonth is everything since the first of the month at midnight.
	WindowMonth
	// WindowYear is everything since January 1st at midnight.
	WindowYear
)

// Contains reports whether instant t falls inside the window resolved by b.
func (w Window) Contains(t time.Time, b calendar.Boundaries) bool {
	switch w {
	case WindowToday:
		return !t.Before(b.BusinessDayStart) && !t.After(b.BusinessDayEnd)
	case WindowWeek:
		return !t.Before(b.StartOfWeek) && !t.After(b.EndOfWeek)
	case WindowMonth:
		return !t.Before(b.StartOfMonth)
	case WindowYear:
		return !t.Before(b.StartOfYear)
	}
	return false
}

// MissingActorPolicy controls what a grouped aggregation does with bills
// whose creator is unknown.
type MissingActorPolicy int

const (
	// DropUnattributed skips bills with no creator entirely.
	DropUnattributed MissingActorPolicy = iota
	// CountUngrouped folds bills with no creator into a synthetic
	// "unattributed" row so grand totals still add up.
	CountUngrouped
)

// CostCatalog maps item IDs to their current cost price, used as a fallback
// for bill lines recorded before cost snapshots were stored.
type CostCatalog map[uuid.UUID]decimal.Decimal

// LineCost returns the cost of goods for one bill line. Service lines carry
// no cost. The cost price snapshot on the line wins; lines without one fall
// back to the catalog, and unknown items cost zero.
func LineCost(l domain.BillLine, catalog CostCatalog) decimal.Decimal {
	if l.LineType != domain.LineTypeItem {
		return decimal.Zero
	}
	cost := l.CostPrice
	if cost.LessThanOrEqual(decimal.Zero) {
		cost = catalog[l.RefID]
	}
	if cost.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return cost.Mul(decimal.NewFromInt(int64(l.Qty)))
}

// BillCost sums LineCost over all lines of one bill.
func BillCost(lines []domain.BillLine, catalog CostCatalog) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(LineCost(l, catalog))
	}
	return total
}

// EffectiveSharePct resolves the profit-share percentage for a bill. A
// positive stored snapshot wins; otherwise admins keep the full net and
// cashiers get the configured percentage. The result is clamped to [0, 100]
// and rounded to two decimal places.
func EffectiveSharePct(stored decimal.Decimal, role string, configured decimal.Decimal) decimal.Decimal {
	pct := stored
	if pct.LessThanOrEqual(decimal.Zero) {
		if role == domain.RoleAdmin {
			pct = hundred
		} else {
			pct = configured
		}
	}
	if pct.LessThan(decimal.Zero) {
		pct = decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		pct = hundred
	}
	return pct.Round(2)
}

// ShareAdjustedNet is the seller's cut of one bill: (total - cost) scaled by
// the effective share percentage.
func ShareAdjustedNet(total, cost, pct decimal.Decimal) decimal.Decimal {
	return total.Sub(cost).Mul(pct).Div(hundred)
}

// Input bundles everything the aggregations read. Lines is keyed by bill ID.
type Input struct {
	Bills              []domain.BillWithCashier
	Lines              map[uuid.UUID][]domain.BillLine
	Expenses           []domain.PocketExpense
	Catalog            CostCatalog
	ConfiguredSharePct decimal.Decimal
	Boundaries         calendar.Boundaries
}

func (in Input) billCost(b domain.BillWithCashier) decimal.Decimal {
	return BillCost(in.Lines[b.ID], in.Catalog)
}

func (in Input) sharePct(b domain.BillWithCashier) decimal.Decimal {
	return EffectiveSharePct(b.SharePct, b.CashierRole, in.ConfiguredSharePct)
}

// expenseTotal sums expenses for one user inside a window. A zero user ID
// matches every expense.
func (in Input) expenseTotal(userID uuid.UUID, w Window) decimal.Decimal {
	total := decimal.Zero
	for _, e := range in.Expenses {
		if userID != uuid.Nil && e.UserID != userID {
			continue
		}
		if !w.Contains(e.CreatedAt, in.Boundaries) {
			continue
		}
		total = total.Add(e.Amount)
	}
	return total
}

// Dashboard produces the shop-wide totals per window. GeneratedAt is left
// zero for the caller to stamp.
func Dashboard(in Input) domain.DashboardTotals {
	var out domain.DashboardTotals
	for _, b := range in.Bills {
		for _, w := range []Window{WindowToday, WindowWeek, WindowMonth, WindowYear} {
			if !w.Contains(b.CreatedAt, in.Boundaries) {
				continue
			}
			switch w {
			case WindowToday:
				out.TodayTotal = out.TodayTotal.Add(b.Total)
			case WindowWeek:
				out.WeekTotal = out.WeekTotal.Add(b.Total)
			case WindowMonth:
				out.MonthTotal = out.MonthTotal.Add(b.Total)
			case WindowYear:
				out.YearTotal = out.YearTotal.Add(b.Total)
			}
		}
	}
	out.PocketToday = in.expenseTotal(uuid.Nil, WindowToday)
	out.PocketWeek = in.expenseTotal(uuid.Nil, WindowWeek)
	out.PocketMonth = in.expenseTotal(uuid.Nil, WindowMonth)
	out.PocketYear = in.expenseTotal(uuid.Nil, WindowYear)
	return out
}

// WeekStats computes one seller's current-week figures as shown on the
// cashier screen: gross takings, net after cost of goods, the seller's
// share of that net, and the payout after pocket expenses.
func WeekStats(in Input, userID uuid.UUID) domain.WeekStats {
	out := domain.WeekStats{
		WeekStart: in.Boundaries.StartOfWeek,
		WeekEnd:   in.Boundaries.EndOfWeek,
	}
	var minPct, maxPct decimal.Decimal
	cost := decimal.Zero
	for _, b := range in.Bills {
		if b.CreatedBy != userID || !WindowWeek.Contains(b.CreatedAt, in.Boundaries) {
			continue
		}
		c := in.billCost(b)
		pct := in.sharePct(b)
		out.Gross = out.Gross.Add(b.Total)
		cost = cost.Add(c)
		out.ShareNet = out.ShareNet.Add(ShareAdjustedNet(b.Total, c, pct))
		if out.BillCount == 0 || pct.LessThan(minPct) {
			minPct = pct
		}
		if out.BillCount == 0 || pct.GreaterThan(maxPct) {
			maxPct = pct
		}
		out.BillCount++
	}
	out.BaseNet = out.Gross.Sub(cost)
	out.Pocket = in.expenseTotal(userID, WindowWeek)
	out.Net = out.ShareNet.Sub(out.Pocket)
	out.ShareLabel = shareLabel(out.BillCount, minPct, maxPct)
	return out
}

func shareLabel(billCount int, minPct, maxPct decimal.Decimal) string {
	if billCount == 0 {
		return "-"
	}
	if minPct.Equal(maxPct) {
		return minPct.String() + "%"
	}
	return minPct.String() + "% - " + maxPct.String() + "%"
}

// CashierProfits groups share-adjusted nets per seller over the daily,
// weekly and monthly windows. The daily window here is the plain calendar
// day starting at midnight, matching the admin per-seller screen. Pocket
// expenses are deducted from the matching window's net.
func CashierProfits(in Input, policy MissingActorPolicy) []domain.CashierStat {
	stats := make(map[uuid.UUID]*domain.CashierStat)
	for _, b := range in.Bills {
		id := b.CreatedBy
		name := b.CashierName
		if id == uuid.Nil {
			if policy == DropUnattributed {
				continue
			}
			name = "unattributed"
		}
		s, ok := stats[id]
		if !ok {
			s = &domain.CashierStat{CashierID: id, Name: name}
			stats[id] = s
		}
		cost := in.billCost(b)
		share := ShareAdjustedNet(b.Total, cost, in.sharePct(b))
		if !b.CreatedAt.Before(in.Boundaries.StartOfToday) {
			s.TodayGross = s.TodayGross.Add(b.Total)
			s.TodayNet = s.TodayNet.Add(share)
		}
		if WindowWeek.Contains(b.CreatedAt, in.Boundaries) {
			s.WeekGross = s.WeekGross.Add(b.Total)
			s.WeekNet = s.WeekNet.Add(share)
		}
		if WindowMonth.Contains(b.CreatedAt, in.Boundaries) {
			s.MonthGross = s.MonthGross.Add(b.Total)
			s.MonthNet = s.MonthNet.Add(share)
		}
	}
	for id, s := range stats {
		if id == uuid.Nil {
			continue
		}
		s.WeekNet = s.WeekNet.Sub(in.expenseTotal(id, WindowWeek))
		s.MonthNet = s.MonthNet.Sub(in.expenseTotal(id, WindowMonth))
	}
	out := make([]domain.CashierStat, 0, len(stats))
	for _, s := range stats {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].WeekGross.Equal(out[j].WeekGross) {
			return out[i].WeekGross.GreaterThan(out[j].WeekGross)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Range builds the admin date-range report: one row per bill with its
// effective share percentage and share-adjusted net, plus grand totals.
func Range(from, to string, bills []domain.BillWithCashier, lines map[uuid.UUID][]domain.BillLine, catalog CostCatalog, configured decimal.Decimal) domain.RangeReport {
	in := Input{Lines: lines, Catalog: catalog, ConfiguredSharePct: configured}
	out := domain.RangeReport{From: from, To: to, Rows: make([]domain.RangeReportRow, 0, len(bills))}
	for _, b := range bills {
		pct := in.sharePct(b)
		share := ShareAdjustedNet(b.Total, in.billCost(b), pct)
		out.Rows = append(out.Rows, domain.RangeReportRow{
			Bill:             b,
			EffectiveShare:   pct,
			ShareAdjustedNet: share,
		})
		out.GrossTotal = out.GrossTotal.Add(b.Total)
		out.ShareTotal = out.ShareTotal.Add(share)
	}
	return out
}
