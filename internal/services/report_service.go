package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/sjperalta/dairydash-api/internal/models"
	"github.com/xuri/excelize/v2"
)

// Export formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ReportService renders bill documents and summary exports
type ReportService struct {
	billingSvc *BillingService
}

func NewReportService(billingSvc *BillingService) *ReportService {
	return &ReportService{billingSvc: billingSvc}
}

// BillDocument is everything printed on a monthly bill
type BillDocument struct {
	VendorName   string
	VendorPhone  string
	Customer     *models.Customer
	Month        time.Time
	Summary      models.BillingSummary
	PaidAmount   decimal.Decimal
	SkippedDates []string
}

// Balance is the bill total minus what was paid in the month
func (d BillDocument) Balance() decimal.Decimal {
	return d.Summary.CalculatedBill.Sub(d.PaidAmount)
}

var summaryHeader = []string{
	"Customer", "Phone", "Start Date", "From", "To", "Rate/L", "Daily L",
	"Total Days", "Delivered Days", "Skipped Days", "Delivered L", "Bill", "Outstanding",
}

func summaryRow(s models.BillingSummary) []string {
	r := s.ToResponse()
	return []string{
		s.Name,
		s.Phone,
		r.StartDate,
		r.RangeStart,
		r.RangeEnd,
		s.RatePerLiter.StringFixed(2),
		s.DailyLiters.String(),
		strconv.Itoa(s.TotalDays),
		strconv.Itoa(s.DeliveredDays),
		strconv.Itoa(s.SkippedDays),
		s.DeliveredLiters.String(),
		s.CalculatedBill.StringFixed(2),
		s.OutstandingAmount.StringFixed(2),
	}
}

// ExportSummaries renders the vendor's current billing summaries in format
// and returns the file content and name
func (s *ReportService) ExportSummaries(ctx context.Context, vendorID, format string) ([]byte, string, error) {
	summaries, err := s.billingSvc.AllSummaries(ctx, vendorID)
	if err != nil {
		return nil, "", err
	}
	stamp := s.billingSvc.Today().Format(models.DateLayout)

	switch format {
	case FormatCSV, "":
		data, err := SummariesCSV(summaries)
		return data, fmt.Sprintf("billing_summaries_%s.csv", stamp), err
	case FormatXLSX:
		data, err := SummariesXLSX(summaries)
		return data, fmt.Sprintf("billing_summaries_%s.xlsx", stamp), err
	default:
		return nil, "", validationError("format must be csv or xlsx")
	}
}

// SummariesCSV writes one row per summary under a header row
func SummariesCSV(summaries []models.BillingSummary) ([]byte, error) {
	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	if err := w.Write(summaryHeader); err != nil {
		return nil, err
	}
	for _, sm := range summaries {
		if err := w.Write(summaryRow(sm)); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// SummariesXLSX writes the summaries to a single-sheet workbook with a
// totals row
func SummariesXLSX(summaries []models.BillingSummary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Billing"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, h := range summaryHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	lastCol, _ := excelize.CoordinatesToCellName(len(summaryHeader), 1)
	_ = f.SetCellStyle(sheet, "A1", lastCol, headerStyle)

	total := decimal.Zero
	outstanding := decimal.Zero
	for r, sm := range summaries {
		resp := sm.ToResponse()
		row := []interface{}{
			sm.Name, sm.Phone, resp.StartDate, resp.RangeStart, resp.RangeEnd,
			sm.RatePerLiter.InexactFloat64(), sm.DailyLiters.InexactFloat64(),
			sm.TotalDays, sm.DeliveredDays, sm.SkippedDays,
			sm.DeliveredLiters.InexactFloat64(), sm.CalculatedBill.InexactFloat64(),
			sm.OutstandingAmount.InexactFloat64(),
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
		total = total.Add(sm.CalculatedBill)
		outstanding = outstanding.Add(sm.OutstandingAmount)
	}

	totalsRow := len(summaries) + 2
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", totalsRow), "Total")
	_ = f.SetCellValue(sheet, fmt.Sprintf("L%d", totalsRow), total.InexactFloat64())
	_ = f.SetCellValue(sheet, fmt.Sprintf("M%d", totalsRow), outstanding.InexactFloat64())
	_ = f.SetCellStyle(sheet, fmt.Sprintf("A%d", totalsRow), fmt.Sprintf("M%d", totalsRow), headerStyle)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BillPDF renders a one-page monthly bill
func (s *ReportService) BillPDF(doc BillDocument) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Milk Bill "+doc.Month.Format("January 2006"), false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 10, tr(doc.VendorName), "", 1, "C", false, 0, "")
	if doc.VendorPhone != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, "Phone: "+doc.VendorPhone, "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, "Milk Bill - "+doc.Month.Format("January 2006"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	sm := doc.Summary
	resp := sm.ToResponse()
	pdf.SetFont("Arial", "", 11)
	line := func(label, value string) {
		pdf.CellFormat(60, 7, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, tr(value), "", 1, "L", false, 0, "")
	}
	line("Customer:", doc.Customer.Name)
	if doc.Customer.Phone != "" {
		line("Phone:", doc.Customer.Phone)
	}
	line("Milk type:", doc.Customer.MilkType)
	line("Period:", fmt.Sprintf("%s to %s", resp.RangeStart, resp.RangeEnd))
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(224, 224, 224)
	pdf.CellFormat(120, 8, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(60, 8, "Value", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	row := func(label, value string) {
		pdf.CellFormat(120, 8, label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 8, value, "1", 1, "R", false, 0, "")
	}
	row("Total days", strconv.Itoa(sm.TotalDays))
	row("Delivered days", strconv.Itoa(sm.DeliveredDays))
	row("Skipped days", strconv.Itoa(sm.SkippedDays))
	row("Daily quantity (L)", sm.DailyLiters.String())
	row("Total quantity (L)", sm.DeliveredLiters.String())
	row("Rate per liter (Rs)", sm.RatePerLiter.StringFixed(2))

	pdf.SetFont("Arial", "B", 11)
	row("Bill amount (Rs)", sm.CalculatedBill.StringFixed(2))
	pdf.SetFont("Arial", "", 11)
	row("Paid this month (Rs)", doc.PaidAmount.StringFixed(2))
	pdf.SetFont("Arial", "B", 11)
	row("Balance (Rs)", doc.Balance().StringFixed(2))

	if len(doc.SkippedDates) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 6, "Skipped on: "+strings.Join(doc.SkippedDates, ", "), "", "L", false)
	}

	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(0, 6, "Outstanding balance on account: Rs "+sm.OutstandingAmount.StringFixed(2), "", 1, "L", false, 0, "")

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("%w: failed to render bill: %s", ErrExternalService, err.Error())
	}
	return buf.Bytes(), nil
}
