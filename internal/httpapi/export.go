package httpapi

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/MahdyMohammedFathy/BarberShopCashier/internal/domain"
)

// buildWeekStatementPDF renders the per-seller week statement handed out on
// payday.
func buildWeekStatementPDF(profits domain.CashierProfitsResponse) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Weekly Payout Statement", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Week %s through %s",
		profits.WeekStart.Format("2006-01-02 15:04"),
		profits.WeekEnd.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	colWidths := []float64{50, 35, 35, 35, 35}
	headers := []string{"Seller", "Today Gross", "Week Gross", "Week Net", "Month Net"}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, s := range profits.Stats {
		pdf.CellFormat(colWidths[0], 7, s.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 7, s.TodayGross.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[2], 7, s.WeekGross.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[3], 7, s.WeekNet.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[4], 7, s.MonthNet.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// buildRangeReportXLSX exports the date-range report as a spreadsheet, one
// row per bill plus a totals row.
func buildRangeReportXLSX(rep domain.RangeReport) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Report"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Date", "Seller", "Total", "Discount", "Share %", "Share Net"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for rowIdx, row := range rep.Rows {
		values := []any{
			row.Bill.CreatedAt.Format("2006-01-02 15:04"),
			row.Bill.CashierName,
			row.Bill.Total.InexactFloat64(),
			row.Bill.Discount.InexactFloat64(),
			row.EffectiveShare.InexactFloat64(),
			row.ShareAdjustedNet.InexactFloat64(),
		}
		for colIdx, v := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	totalsRow := len(rep.Rows) + 2
	for colIdx, v := range []any{
		fmt.Sprintf("Totals %s to %s", rep.From, rep.To), "",
		rep.GrossTotal.InexactFloat64(), "", "",
		rep.ShareTotal.InexactFloat64(),
	} {
		if v == "" {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(colIdx+1, totalsRow)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
