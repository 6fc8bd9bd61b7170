package services

import (
	"bytes"
	"fmt"

	"backoffice/internal/domain"
	"backoffice/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// StatementService renders financial and settlement statements to PDF. It
// consumes only the computed output shapes, never the store, so it can sit
// beside the engine without becoming a dependency of it.
type StatementService struct {
	RequestID string
}

// FinancialStatement renders a package's day-by-day breakdown.
func (s StatementService) FinancialStatement(sum domain.PackageFinancialSummary) ([]byte, string, error) {
	utils.LogEvent(s.RequestID, "statement", "financial", fmt.Sprintf("package=%d", sum.PackageID))

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Financial Statement", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Financial Statement - Package #%d", sum.PackageID))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Agency #%d   Period: %s to %s", sum.AgencyID, sum.Period.Start, sum.Period.End))
	pdf.Ln(10)

	headers := []string{"Date", "Daily Rate", "NET Total", "Driver Cost", "Expenses", "Revenue", "Cost", "Margin"}
	widths := []float64{28, 32, 32, 32, 32, 34, 34, 34}

	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, d := range sum.Daily {
		cells := []string{
			d.Date,
			utils.FormatBRL(d.DailyServiceRate),
			utils.FormatBRL(d.TotalNet),
			utils.FormatBRL(d.DriverDailyCost),
			utils.FormatBRL(d.TotalVehicleExpenses),
			utils.FormatBRL(d.DailyRevenue),
			utils.FormatBRL(d.DailyCost),
			utils.FormatBRL(d.DailyMargin),
		}
		for i, c := range cells {
			align := "R"
			if i == 0 {
				align = "C"
			}
			pdf.CellFormat(widths[i], 7, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	totals := []string{
		fmt.Sprintf("Total revenue: %s", utils.FormatBRL(sum.TotalRevenue)),
		fmt.Sprintf("Total costs: %s", utils.FormatBRL(sum.TotalCosts)),
		fmt.Sprintf("Gross margin: %s (%s%%)", utils.FormatBRL(sum.GrossMargin), sum.MarginPercentage.StringFixed(1)),
	}
	for _, line := range totals {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", domain.InternalError{Msg: "failed to render financial statement", Err: err}
	}
	filename := fmt.Sprintf("financial-statement-package-%d.pdf", sum.PackageID)
	return buf.Bytes(), filename, nil
}

// SettlementStatement renders an agency's settlement view.
func (s StatementService) SettlementStatement(view domain.AgencySettlementView) ([]byte, string, error) {
	utils.LogEvent(s.RequestID, "statement", "settlement", fmt.Sprintf("agency=%d", view.AgencyID))

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Settlement Statement", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Settlement Statement - Agency #%d", view.AgencyID))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Period: %s to %s   Status: %s", view.Period.Start, view.Period.End, view.Status))
	pdf.Ln(10)

	headers := []string{"Date", "Charged", "Paid"}
	widths := []float64{40, 60, 60}

	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, d := range view.Daily {
		pdf.CellFormat(widths[0], 7, d.Date, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 7, utils.FormatBRL(d.TotalValue), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, utils.FormatBRL(d.PaidValue), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Total to pay: %s", utils.FormatBRL(view.TotalValueToPay)))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Total paid: %s", utils.FormatBRL(view.TotalValuePaid)))
	pdf.Ln(7)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", domain.InternalError{Msg: "failed to render settlement statement", Err: err}
	}
	filename := fmt.Sprintf("settlement-agency-%d-%s.pdf", view.AgencyID, view.Period.Start)
	return buf.Bytes(), filename, nil
}
