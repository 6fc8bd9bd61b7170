package services

import (
	"bytes"
	"testing"

	"backoffice/internal/domain"
)

func TestFinancialStatementRendersPDF(t *testing.T) {
	svc := StatementService{}
	sum := domain.PackageFinancialSummary{
		PackageID: 10,
		AgencyID:  3,
		Period:    domain.DateRange{Start: "2024-10-01", End: "2024-10-02"},
		Daily: []domain.DailyFinancialBreakdown{
			{Date: "2024-10-01", DailyRevenue: money("100"), DailyCost: money("125"), DailyMargin: money("-25")},
			{Date: "2024-10-02", DailyRevenue: money("100"), DailyCost: money("50"), DailyMargin: money("50")},
		},
		TotalRevenue: money("200"),
		TotalCosts:   money("175"),
		GrossMargin:  money("25"),
	}

	pdf, filename, err := svc.FinancialStatement(sum)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
	if filename != "financial-statement-package-10.pdf" {
		t.Fatalf("filename = %q", filename)
	}
}

func TestSettlementStatementRendersPDF(t *testing.T) {
	svc := StatementService{}
	view := domain.AgencySettlementView{
		AgencyID: 9,
		Period:   domain.DateRange{Start: "2024-10-01", End: "2024-10-31"},
		Status:   domain.SettlementParcial,
		Daily: []domain.AgencyChargeDay{
			{Date: "2024-10-01", TotalValue: money("100"), PaidValue: money("100")},
			{Date: "2024-10-02", TotalValue: money("100")},
		},
		TotalValueToPay: money("200"),
		TotalValuePaid:  money("100"),
	}

	pdf, filename, err := svc.SettlementStatement(view)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
	if filename != "settlement-agency-9-2024-10-01.pdf" {
		t.Fatalf("filename = %q", filename)
	}
}
