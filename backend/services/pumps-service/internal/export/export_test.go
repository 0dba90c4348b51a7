package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"fueltracker/backend/services/pumps-service/internal/models"
)

func samplePumps() []models.PumpRecord {
	return []models.PumpRecord{
		{
			ID:              "p1",
			Name:            "Indian Oil",
			Address:         "MG Road",
			District:        "Ernakulam",
			Lat:             9.98,
			Lng:             76.28,
			PetrolPrice:     decimal.RequireFromString("105.4"),
			DieselPrice:     decimal.RequireFromString("94.2"),
			PetrolAvailable: true,
			CNG:             models.Some(models.FuelOffer{Price: decimal.RequireFromString("88"), Available: true}),
			CardPayment:     models.Some(true),
			LastUpdated:     time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			ID:          "p2",
			Name:        "HP",
			Address:     "Beach Road",
			District:    "Kozhikode",
			PetrolPrice: decimal.RequireFromString("106"),
			DieselPrice: decimal.RequireFromString("95"),
		},
	}
}

func TestPumpsPDF(t *testing.T) {
	data, err := PumpsPDF(samplePumps(), time.Now())
	if err != nil {
		t.Fatalf("pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("expected PDF header, got %q", data[:8])
	}
}

func TestPumpsXLSX(t *testing.T) {
	data, err := PumpsXLSX(samplePumps(), time.Now())
	if err != nil {
		t.Fatalf("xlsx: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][1] != "Name" || rows[1][1] != "Indian Oil" || rows[2][2] != "Kozhikode" {
		t.Fatalf("unexpected cells %v", rows)
	}

	cng, _ := f.GetCellValue(sheetName, "M2")
	premium, _ := f.GetCellValue(sheetName, "K2")
	if cng != "88" || premium != "" {
		t.Fatalf("expected cng 88 and blank premium, got %q %q", cng, premium)
	}
	card, _ := f.GetCellValue(sheetName, "O2")
	upi, _ := f.GetCellValue(sheetName, "P2")
	if card != "Yes" || upi != "" {
		t.Fatalf("expected card Yes and blank upi, got %q %q", card, upi)
	}
}

func TestPayments(t *testing.T) {
	p := samplePumps()[1]
	if got := payments(p); got != "None" {
		t.Fatalf("expected None, got %q", got)
	}
	p.CardPayment = models.Some(true)
	p.UPIPayment = models.Some(true)
	if got := payments(p); got != "Card, UPI" {
		t.Fatalf("expected both methods, got %q", got)
	}
}
