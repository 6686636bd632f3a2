package ledger

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// BuildLedgerPDF renders a delivery ledger report for one operator.
func BuildLedgerPDF(operator string, summaries map[string]SalesSummary, events []DeliveryEvent, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Water Delivery Ledger")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Operator: %s", operator))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", generatedAt.Format(time.RFC3339)))
	pdf.Ln(8)

	// Per-station summary table
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(40, 6, "Station", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Daily", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Weekly", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Monthly", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Yearly", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, station := range sortedStations(summaries) {
		summary := summaries[station]
		pdf.CellFormat(40, 6, station, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%d", summary.Daily), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%d", summary.Weekly), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%d", summary.Monthly), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%d", summary.Yearly), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(40, 6, "Date", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Station", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Bottles Delivered", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, event := range events {
		pdf.CellFormat(40, 6, event.Date.Format(DateLayout), "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 6, event.Station, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%d", event.Bottles), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildLedgerXLSX renders a delivery ledger workbook for one operator.
func BuildLedgerXLSX(operator string, summaries map[string]SalesSummary, events []DeliveryEvent, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	eventsSheet := "deliveries"
	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(eventsSheet)

	_ = f.SetCellValue(summarySheet, "A1", "Water Delivery Ledger")
	_ = f.SetCellValue(summarySheet, "A2", "Operator")
	_ = f.SetCellValue(summarySheet, "B2", operator)
	_ = f.SetCellValue(summarySheet, "A3", "Generated")
	_ = f.SetCellValue(summarySheet, "B3", generatedAt.Format(time.RFC3339))

	_ = f.SetCellValue(summarySheet, "A5", "Station")
	_ = f.SetCellValue(summarySheet, "B5", "Daily")
	_ = f.SetCellValue(summarySheet, "C5", "Weekly")
	_ = f.SetCellValue(summarySheet, "D5", "Monthly")
	_ = f.SetCellValue(summarySheet, "E5", "Yearly")
	for i, station := range sortedStations(summaries) {
		row := i + 6
		summary := summaries[station]
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), station)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), summary.Daily)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("C%d", row), summary.Weekly)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("D%d", row), summary.Monthly)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("E%d", row), summary.Yearly)
	}

	_ = f.SetCellValue(eventsSheet, "A1", "Date")
	_ = f.SetCellValue(eventsSheet, "B1", "Station")
	_ = f.SetCellValue(eventsSheet, "C1", "Bottles Delivered")
	for i, event := range events {
		row := i + 2
		_ = f.SetCellValue(eventsSheet, fmt.Sprintf("A%d", row), event.Date.Format(DateLayout))
		_ = f.SetCellValue(eventsSheet, fmt.Sprintf("B%d", row), event.Station)
		_ = f.SetCellValue(eventsSheet, fmt.Sprintf("C%d", row), event.Bottles)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sortedStations(summaries map[string]SalesSummary) []string {
	stations := make([]string, 0, len(summaries))
	for station := range summaries {
		stations = append(stations, station)
	}
	sort.Strings(stations)
	return stations
}
