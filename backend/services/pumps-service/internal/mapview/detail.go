package mapview

import (
	"bytes"
	"html/template"
	"strings"

	"fueltracker/backend/services/pumps-service/internal/models"
)

const lastUpdatedLayout = "02 Jan 2006, 15:04 MST"

var detailTemplate = template.Must(template.New("detail").Parse(`<div class="pump-popup">
<h3>{{.Name}}</h3>
<p><strong>Address:</strong> {{.Address}}</p>
<p><strong>District:</strong> {{.District}}</p>
<p><strong>Petrol Price:</strong> ₹{{.PetrolPrice}}/L</p>
<p><strong>Diesel Price:</strong> ₹{{.DieselPrice}}/L</p>
{{- with .PremiumPrice}}
<p><strong>Premium Petrol Price:</strong> ₹{{.}}/L</p>
{{- end}}
{{- with .CNGPrice}}
<p><strong>CNG Price:</strong> ₹{{.}}/kg</p>
{{- end}}
{{- range .Availability}}
<p><strong>{{.Label}} Available:</strong> <span class="{{.Class}}">{{.Text}}</span></p>
{{- end}}
{{- with .Payment}}
<p><strong>Payment Methods:</strong> {{.}}</p>
{{- end}}
<p><strong>Last Updated:</strong> {{.LastUpdated}}</p>
</div>`))

type availabilityRow struct {
	Label string
	Class string
	Text  string
}

type detailData struct {
	Name         string
	Address      string
	District     string
	PetrolPrice  string
	DieselPrice  string
	PremiumPrice string
	CNGPrice     string
	Availability []availabilityRow
	Payment      string
	LastUpdated  string
}

// AttachDetail builds the popup panel for a pump. Optional rows appear only when the pump
// defines them.
func AttachDetail(p models.PumpRecord) string {
	data := detailData{
		Name:        p.Name,
		Address:     p.Address,
		District:    p.District,
		PetrolPrice: p.PetrolPrice.String(),
		DieselPrice: p.DieselPrice.String(),
		Availability: []availabilityRow{
			availability("Petrol", p.PetrolAvailable),
			availability("Diesel", p.DieselAvailable),
		},
		Payment:     paymentMethods(p),
		LastUpdated: "Unknown",
	}
	if offer, ok := p.PremiumPetrol.Get(); ok {
		data.PremiumPrice = offer.Price.String()
		data.Availability = append(data.Availability, availability("Premium Petrol", offer.Available))
	}
	if offer, ok := p.CNG.Get(); ok {
		data.CNGPrice = offer.Price.String()
		data.Availability = append(data.Availability, availability("CNG", offer.Available))
	}
	if !p.LastUpdated.IsZero() {
		data.LastUpdated = p.LastUpdated.UTC().Format(lastUpdatedLayout)
	}

	var buf bytes.Buffer
	if err := detailTemplate.Execute(&buf, data); err != nil {
		return template.HTMLEscapeString(p.Name)
	}
	return buf.String()
}

func availability(label string, v bool) availabilityRow {
	if v {
		return availabilityRow{Label: label, Class: "available", Text: "Yes"}
	}
	return availabilityRow{Label: label, Class: "unavailable", Text: "No"}
}

// paymentMethods is empty when the pump defines neither card nor UPI.
func paymentMethods(p models.PumpRecord) string {
	card, cardSet := p.CardPayment.Get()
	upi, upiSet := p.UPIPayment.Get()
	if !cardSet && !upiSet {
		return ""
	}
	var methods []string
	if card {
		methods = append(methods, "Card")
	}
	if upi {
		methods = append(methods, "UPI")
	}
	if len(methods) == 0 {
		return "None"
	}
	return strings.Join(methods, ", ")
}
