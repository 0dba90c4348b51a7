// Package export renders an administrator's pump list as downloadable documents.
package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/xuri/excelize/v2"

	"fueltracker/backend/services/pumps-service/internal/models"
)

const (
	sheetName  = "Pumps"
	timeLayout = "2006-01-02 15:04"
)

var columns = []string{
	"ID", "Name", "District", "Address", "Latitude", "Longitude",
	"Petrol Price", "Petrol Available", "Diesel Price", "Diesel Available",
	"Premium Price", "Premium Available", "CNG Price", "CNG Available",
	"Card", "UPI", "Last Updated",
}

// PumpsPDF writes one block per pump.
func PumpsPDF(pumps []models.PumpRecord, generated time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("My Fuel Pumps", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "My Fuel Pumps")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s - %d pumps", generated.UTC().Format(timeLayout), len(pumps)))
	pdf.Ln(10)

	for _, p := range pumps {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 7, p.Name)
		pdf.Ln(7)

		pdf.SetFont("Helvetica", "", 11)
		for _, line := range pdfLines(p) {
			pdf.MultiCell(0, 6, line, "", "", false)
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("export: pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func pdfLines(p models.PumpRecord) []string {
	lines := []string{
		"District: " + p.District,
		"Address: " + p.Address,
		fmt.Sprintf("Petrol: Rs %s/L (%s)", p.PetrolPrice, availableText(p.PetrolAvailable)),
		fmt.Sprintf("Diesel: Rs %s/L (%s)", p.DieselPrice, availableText(p.DieselAvailable)),
	}
	if offer, ok := p.PremiumPetrol.Get(); ok {
		lines = append(lines, fmt.Sprintf("Premium Petrol: Rs %s/L (%s)", offer.Price, availableText(offer.Available)))
	}
	if offer, ok := p.CNG.Get(); ok {
		lines = append(lines, fmt.Sprintf("CNG: Rs %s/kg (%s)", offer.Price, availableText(offer.Available)))
	}
	lines = append(lines, "Payment Methods: "+payments(p))
	if !p.LastUpdated.IsZero() {
		lines = append(lines, "Last Updated: "+p.LastUpdated.UTC().Format(timeLayout))
	}
	return lines
}

// PumpsXLSX writes a header row and one row per pump; absent optionals stay blank.
func PumpsXLSX(pumps []models.PumpRecord, generated time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("export: xlsx: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"28A745"}, Pattern: 1},
	})

	for i, label := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, label); err != nil {
			return nil, fmt.Errorf("export: xlsx: %w", err)
		}
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(columns))
	_ = f.SetColWidth(sheetName, "A", lastCol, 18)

	for r, p := range pumps {
		for c, value := range xlsxRow(p) {
			if value == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("export: xlsx: %w", err)
			}
		}
	}

	_ = f.SetDocProps(&excelize.DocProperties{
		Title:   "My Fuel Pumps",
		Created: generated.UTC().Format(time.RFC3339),
	})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func xlsxRow(p models.PumpRecord) []interface{} {
	row := []interface{}{
		p.ID, p.Name, p.District, p.Address, p.Lat, p.Lng,
		p.PetrolPrice.InexactFloat64(), yesNo(p.PetrolAvailable),
		p.DieselPrice.InexactFloat64(), yesNo(p.DieselAvailable),
		nil, nil, nil, nil, nil, nil, nil,
	}
	if offer, ok := p.PremiumPetrol.Get(); ok {
		row[10], row[11] = offer.Price.InexactFloat64(), yesNo(offer.Available)
	}
	if offer, ok := p.CNG.Get(); ok {
		row[12], row[13] = offer.Price.InexactFloat64(), yesNo(offer.Available)
	}
	if v, ok := p.CardPayment.Get(); ok {
		row[14] = yesNo(v)
	}
	if v, ok := p.UPIPayment.Get(); ok {
		row[15] = yesNo(v)
	}
	if !p.LastUpdated.IsZero() {
		row[16] = p.LastUpdated.UTC().Format(timeLayout)
	}
	return row
}

func availableText(v bool) string {
	if v {
		return "available"
	}
	return "unavailable"
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func payments(p models.PumpRecord) string {
	var methods []string
	if p.CardPayment.OrElse(false) {
		methods = append(methods, "Card")
	}
	if p.UPIPayment.OrElse(false) {
		methods = append(methods, "UPI")
	}
	if len(methods) == 0 {
		return "None"
	}
	return strings.Join(methods, ", ")
}
