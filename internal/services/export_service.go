package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// ExportService renders borrower data as downloadable reports
type ExportService struct {
	borrowerSvc *BorrowerService
}

// NewExportService creates the export service
func NewExportService(borrowerSvc *BorrowerService) *ExportService {
	return &ExportService{borrowerSvc: borrowerSvc}
}

// BorrowersCSV exports the whole portfolio as CSV
func (s *ExportService) BorrowersCSV(ctx context.Context) ([]byte, string, error) {
	borrowers, err := s.borrowerSvc.List(ctx)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write([]string{"ID", "Name", "Contact", "Address", "Loan Amount", "Term", "Interest Rate", "Interest Type", "Payments", "Total Penalties", "Remaining Balance", "Created At"})

	for _, b := range borrowers {
		record := []string{
			b.ID,
			b.Name,
			b.Contact,
			b.Address,
			fmt.Sprintf("%.2f", b.LoanAmount),
			fmt.Sprintf("%d", b.Term),
			fmt.Sprintf("%.2f", b.InterestRate),
			b.InterestType,
			fmt.Sprintf("%d", len(b.Payments)),
			fmt.Sprintf("%.2f", b.TotalPenalties),
			fmt.Sprintf("%.2f", b.RemainingBalance),
			b.CreatedAt.Format("2006-01-02"),
		}
		if err := writer.Write(record); err != nil {
			return nil, "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("borrowers_%s.csv", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// BorrowersXLSX exports the whole portfolio as a spreadsheet
func (s *ExportService) BorrowersXLSX(ctx context.Context) ([]byte, string, error) {
	borrowers, err := s.borrowerSvc.List(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Borrowers"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	headers := []string{"ID", "Name", "Contact", "Loan Amount", "Term", "Interest Rate", "Interest Type", "Payments", "Total Penalties", "Remaining Balance", "Created At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for row, b := range borrowers {
		values := []interface{}{
			b.ID, b.Name, b.Contact, b.LoanAmount, b.Term, b.InterestRate,
			b.InterestType, len(b.Payments), b.TotalPenalties,
			b.RemainingBalance, b.CreatedAt.Format("2006-01-02"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to build spreadsheet: %w", err)
	}

	filename := fmt.Sprintf("borrowers_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// StatementPDF renders a single borrower's loan statement
func (s *ExportService) StatementPDF(ctx context.Context, id string) ([]byte, string, error) {
	b, err := s.borrowerSvc.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Loan Statement")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 8, "Borrower")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	writeKV(pdf, "Name:", b.Name)
	writeKV(pdf, "Contact:", b.Contact)
	writeKV(pdf, "Address:", b.Address)
	writeKV(pdf, "Since:", b.CreatedAt.Format("2006-01-02"))
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 8, "Loan Terms")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	writeKV(pdf, "Loan Amount:", fmt.Sprintf("%.2f", b.LoanAmount))
	writeKV(pdf, "Term:", fmt.Sprintf("%d periods", b.Term))
	writeKV(pdf, "Interest Rate:", fmt.Sprintf("%.2f%% (%s)", b.InterestRate, b.InterestType))
	if b.NextDueDate != "" {
		writeKV(pdf, "Next Due Date:", b.NextDueDate)
	}
	pdf.Ln(4)

	if len(b.Payments) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(40, 8, "Payments")
		pdf.Ln(8)

		pdf.SetFont("Arial", "", 10)
		for _, p := range b.Payments {
			line := fmt.Sprintf("%s  %.2f", p.Date.Format("2006-01-02"), p.Amount)
			if p.Note != "" {
				line += "  " + p.Note
			}
			pdf.Cell(100, 6, line)
			pdf.Ln(6)
		}
		pdf.Ln(4)
	}

	if len(b.Penalties) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(40, 8, "Penalties")
		pdf.Ln(8)

		pdf.SetFont("Arial", "", 10)
		for _, p := range b.Penalties {
			pdf.Cell(100, 6, fmt.Sprintf("%s  %.2f  %s", p.Date.Format("2006-01-02"), p.Amount, p.Reason))
			pdf.Ln(6)
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Arial", "B", 12)
	writeKV(pdf, "Total Penalties:", fmt.Sprintf("%.2f", b.TotalPenalties))
	writeKV(pdf, "Remaining Balance:", fmt.Sprintf("%.2f", b.RemainingBalance))

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", fmt.Errorf("failed to render statement: %w", err)
	}

	filename := fmt.Sprintf("statement_%s_%s.pdf", b.ID, time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func writeKV(pdf *gofpdf.Fpdf, key, value string) {
	pdf.Cell(45, 6, key)
	pdf.Cell(80, 6, value)
	pdf.Ln(6)
}
