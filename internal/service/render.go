package service

import (
	"bytes"
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"html/template"
	"math"
	"strings"
	"time"

	"haul/internal/domain"
)

// Display rounding: miles to one decimal, gallons to three, currency to two.
// Totals rows sum the rounded per-row values, not the raw aggregates, so the
// displayed total always reconciles with the displayed line items.

func roundMiles(v float64) float64 {
	return math.Round(v*10) / 10
}

func roundGallons(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func miles(v float64) string {
	return fmt.Sprintf("%.1f", roundMiles(v))
}

func gallons(v float64) string {
	return fmt.Sprintf("%.3f", roundGallons(v))
}

func currency(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// displayTotals accumulates the rounded values of every displayed row.
type displayTotals struct {
	TotalMiles     float64
	TaxableMiles   float64
	TaxPaidGallons float64
	TaxableGallons float64
	NetGallons     float64
}

func (d *displayTotals) add(t *domain.JurisdictionTotal) {
	d.TotalMiles += roundMiles(t.TotalMiles)
	d.TaxableMiles += roundMiles(t.TaxableMiles)
	d.TaxPaidGallons += roundGallons(t.TaxPaidGallons)
	d.TaxableGallons += roundGallons(t.TaxableGallons)
	d.NetGallons += roundGallons(t.NetTaxableGallons())
}

// renderCSV produces the delimited summary table.
func renderCSV(summary *Summary) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"Jurisdiction", "Total Miles", "Taxable Miles",
		"Tax Paid Gallons", "Taxable Gallons", "Net Taxable Gallons",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	var totals displayTotals
	for _, t := range summary.Totals {
		totals.add(t)
		row := []string{
			t.Jurisdiction,
			miles(t.TotalMiles),
			miles(t.TaxableMiles),
			gallons(t.TaxPaidGallons),
			gallons(t.TaxableGallons),
			gallons(t.NetTaxableGallons()),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	totalRow := []string{
		"TOTAL",
		miles(totals.TotalMiles),
		miles(totals.TaxableMiles),
		gallons(totals.TaxPaidGallons),
		gallons(totals.TaxableGallons),
		gallons(totals.NetGallons),
	}
	if err := w.Write(totalRow); err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Attribute-tagged hierarchical document types.
type xmlJurisdiction struct {
	Code              string `xml:"code,attr"`
	TotalMiles        string `xml:"totalMiles,attr"`
	TaxableMiles      string `xml:"taxableMiles,attr"`
	TaxPaidGallons    string `xml:"taxPaidGallons,attr"`
	TaxableGallons    string `xml:"taxableGallons,attr"`
	NetTaxableGallons string `xml:"netTaxableGallons,attr"`
}

type xmlTrip struct {
	ID                string `xml:"id,attr"`
	VehicleID         string `xml:"vehicleId,attr"`
	StartDate         string `xml:"startDate,attr"`
	EndDate           string `xml:"endDate,attr"`
	StartJurisdiction string `xml:"startJurisdiction,attr,omitempty"`
	EndJurisdiction   string `xml:"endJurisdiction,attr,omitempty"`
	Miles             string `xml:"miles,attr"`
	Gallons           string `xml:"gallons,attr"`
	FuelCost          string `xml:"fuelCost,attr"`
	Origin            string `xml:"origin,attr"`
}

type xmlTotals struct {
	TotalMiles        string `xml:"totalMiles,attr"`
	TaxableMiles      string `xml:"taxableMiles,attr"`
	TaxPaidGallons    string `xml:"taxPaidGallons,attr"`
	TaxableGallons    string `xml:"taxableGallons,attr"`
	NetTaxableGallons string `xml:"netTaxableGallons,attr"`
}

type xmlReport struct {
	XMLName       xml.Name          `xml:"iftaReport"`
	Quarter       string            `xml:"quarter,attr"`
	Scope         string            `xml:"scope,attr"`
	FleetEconomy  string            `xml:"fleetEconomyMpg,attr"`
	GeneratedAt   string            `xml:"generatedAt,attr"`
	Jurisdictions []xmlJurisdiction `xml:"jurisdictions>jurisdiction"`
	Totals        xmlTotals         `xml:"jurisdictions>totals"`
	Trips         []xmlTrip         `xml:"trips>trip"`
}

// renderXML produces the attribute-tagged hierarchical document, including
// raw trip detail.
func renderXML(summary *Summary, snapshot *Snapshot) ([]byte, error) {
	report := xmlReport{
		Quarter:      summary.Quarter.String(),
		Scope:        scopeLabel(summary.VehicleID),
		FleetEconomy: fmt.Sprintf("%.2f", summary.FleetEconomy),
		GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
	}

	var totals displayTotals
	for _, t := range summary.Totals {
		totals.add(t)
		report.Jurisdictions = append(report.Jurisdictions, xmlJurisdiction{
			Code:              t.Jurisdiction,
			TotalMiles:        miles(t.TotalMiles),
			TaxableMiles:      miles(t.TaxableMiles),
			TaxPaidGallons:    gallons(t.TaxPaidGallons),
			TaxableGallons:    gallons(t.TaxableGallons),
			NetTaxableGallons: gallons(t.NetTaxableGallons()),
		})
	}
	report.Totals = xmlTotals{
		TotalMiles:        miles(totals.TotalMiles),
		TaxableMiles:      miles(totals.TaxableMiles),
		TaxPaidGallons:    gallons(totals.TaxPaidGallons),
		TaxableGallons:    gallons(totals.TaxableGallons),
		NetTaxableGallons: gallons(totals.NetGallons),
	}

	for _, trip := range snapshot.Trips {
		report.Trips = append(report.Trips, xmlTrip{
			ID:                trip.ID,
			VehicleID:         trip.VehicleID,
			StartDate:         trip.StartDate.Format("2006-01-02"),
			EndDate:           trip.EndDate.Format("2006-01-02"),
			StartJurisdiction: trip.StartJurisdiction,
			EndJurisdiction:   trip.EndJurisdiction,
			Miles:             miles(trip.Miles),
			Gallons:           gallons(trip.Gallons),
			FuelCost:          currency(trip.FuelCost),
			Origin:            string(trip.Origin),
		})
	}

	data, err := xml.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, err
	}

	return append([]byte(xml.Header), data...), nil
}

var htmlReportTemplate = template.Must(template.New("ifta").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>IFTA Summary {{.Quarter}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 2em; }
th, td { border: 1px solid #999; padding: 4px 10px; text-align: right; }
th:first-child, td:first-child { text-align: left; }
tr.totals td { font-weight: bold; background: #eee; }
</style>
</head>
<body>
<h1>IFTA Summary &mdash; {{.Quarter}} ({{.Scope}})</h1>
<p>Trips: {{.TripCount}} &middot; Fuel purchases: {{.FuelCount}} &middot; Fleet economy: {{.FleetEconomy}} mpg</p>
<h2>Jurisdictions</h2>
<table>
<tr><th>Jurisdiction</th><th>Total Miles</th><th>Taxable Miles</th><th>Tax Paid Gal</th><th>Taxable Gal</th><th>Net Taxable Gal</th></tr>
{{range .Rows}}<tr><td>{{.Code}}</td><td>{{.TotalMiles}}</td><td>{{.TaxableMiles}}</td><td>{{.TaxPaidGallons}}</td><td>{{.TaxableGallons}}</td><td>{{.NetGallons}}</td></tr>
{{end}}<tr class="totals"><td>TOTAL</td><td>{{.Totals.TotalMiles}}</td><td>{{.Totals.TaxableMiles}}</td><td>{{.Totals.TaxPaidGallons}}</td><td>{{.Totals.TaxableGallons}}</td><td>{{.Totals.NetGallons}}</td></tr>
</table>
<h2>Trips</h2>
<table>
<tr><th>Vehicle</th><th>Start</th><th>End</th><th>From</th><th>To</th><th>Miles</th><th>Gallons</th><th>Origin</th></tr>
{{range .Trips}}<tr><td>{{.VehicleID}}</td><td>{{.StartDate}}</td><td>{{.EndDate}}</td><td>{{.From}}</td><td>{{.To}}</td><td>{{.Miles}}</td><td>{{.Gallons}}</td><td>{{.Origin}}</td></tr>
{{end}}</table>
</body>
</html>
`))

type htmlRow struct {
	Code           string
	TotalMiles     string
	TaxableMiles   string
	TaxPaidGallons string
	TaxableGallons string
	NetGallons     string
}

type htmlTripRow struct {
	VehicleID string
	StartDate string
	EndDate   string
	From      string
	To        string
	Miles     string
	Gallons   string
	Origin    string
}

// renderHTML produces the whole-document tagged markup rendering.
func renderHTML(summary *Summary, snapshot *Snapshot) ([]byte, error) {
	data := struct {
		Quarter      string
		Scope        string
		TripCount    int
		FuelCount    int
		FleetEconomy string
		Rows         []htmlRow
		Totals       htmlRow
		Trips        []htmlTripRow
	}{
		Quarter:      summary.Quarter.String(),
		Scope:        scopeLabel(summary.VehicleID),
		TripCount:    summary.TripCount,
		FuelCount:    summary.FuelCount,
		FleetEconomy: fmt.Sprintf("%.2f", summary.FleetEconomy),
	}

	var totals displayTotals
	for _, t := range summary.Totals {
		totals.add(t)
		data.Rows = append(data.Rows, htmlRow{
			Code:           t.Jurisdiction,
			TotalMiles:     miles(t.TotalMiles),
			TaxableMiles:   miles(t.TaxableMiles),
			TaxPaidGallons: gallons(t.TaxPaidGallons),
			TaxableGallons: gallons(t.TaxableGallons),
			NetGallons:     gallons(t.NetTaxableGallons()),
		})
	}
	data.Totals = htmlRow{
		TotalMiles:     miles(totals.TotalMiles),
		TaxableMiles:   miles(totals.TaxableMiles),
		TaxPaidGallons: gallons(totals.TaxPaidGallons),
		TaxableGallons: gallons(totals.TaxableGallons),
		NetGallons:     gallons(totals.NetGallons),
	}

	for _, trip := range snapshot.Trips {
		data.Trips = append(data.Trips, htmlTripRow{
			VehicleID: trip.VehicleID,
			StartDate: trip.StartDate.Format("2006-01-02"),
			EndDate:   trip.EndDate.Format("2006-01-02"),
			From:      trip.StartJurisdiction,
			To:        trip.EndJurisdiction,
			Miles:     miles(trip.Miles),
			Gallons:   gallons(trip.Gallons),
			Origin:    string(trip.Origin),
		})
	}

	var buf bytes.Buffer
	if err := htmlReportTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// renderReport produces the printable plain-text report: branding header,
// summary statistics box, and a jurisdiction table with a highlighted totals
// row. Purchase totals are summarized as whole gallons here.
func renderReport(summary *Summary, companyName string) ([]byte, error) {
	if companyName == "" {
		companyName = "IFTA Quarterly Report"
	}

	var b strings.Builder

	rule := strings.Repeat("=", 72)
	thin := strings.Repeat("-", 72)

	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "%s\n", center(companyName, 72))
	fmt.Fprintf(&b, "%s\n", center("IFTA Jurisdiction Summary", 72))
	fmt.Fprintf(&b, "%s\n\n", rule)

	fmt.Fprintf(&b, "Quarter:        %s\n", summary.Quarter)
	fmt.Fprintf(&b, "Scope:          %s\n", scopeLabel(summary.VehicleID))
	fmt.Fprintf(&b, "Generated:      %s\n\n", time.Now().Format("Jan 02, 2006 3:04 PM"))

	fmt.Fprintf(&b, "%s\n", thin)
	fmt.Fprintf(&b, "SUMMARY\n")
	fmt.Fprintf(&b, "%s\n", thin)
	fmt.Fprintf(&b, "Trip records:        %d\n", summary.TripCount)
	fmt.Fprintf(&b, "Fuel purchases:      %d\n", summary.FuelCount)
	fmt.Fprintf(&b, "Fleet miles:         %s\n", miles(summary.FleetMiles))
	fmt.Fprintf(&b, "Fuel purchased:      %.0f gal\n", summary.FleetGallons)
	fmt.Fprintf(&b, "Fuel spend:          $%s\n", currency(summary.FuelSpend))
	fmt.Fprintf(&b, "Fleet economy:       %.2f mpg\n\n", summary.FleetEconomy)

	fmt.Fprintf(&b, "%s\n", thin)
	fmt.Fprintf(&b, "%-6s %12s %12s %12s %12s %12s\n",
		"JURIS", "TOT MILES", "TAX MILES", "PAID GAL", "TAX GAL", "NET GAL")
	fmt.Fprintf(&b, "%s\n", thin)

	// This table shows paid gallons as whole numbers, so the totals-row
	// convention applies to the whole-gallon values: accumulate what each
	// row displays, not the raw aggregate.
	var totals displayTotals
	var paidWhole float64
	for _, t := range summary.Totals {
		totals.add(t)
		rowPaid := math.Round(roundGallons(t.TaxPaidGallons))
		paidWhole += rowPaid
		fmt.Fprintf(&b, "%-6s %12s %12s %12.0f %12s %12s\n",
			t.Jurisdiction,
			miles(t.TotalMiles),
			miles(t.TaxableMiles),
			rowPaid,
			gallons(t.TaxableGallons),
			gallons(t.NetTaxableGallons()),
		)
	}

	fmt.Fprintf(&b, "%s\n", thin)
	fmt.Fprintf(&b, "%-6s %12s %12s %12.0f %12s %12s\n",
		"TOTAL",
		miles(totals.TotalMiles),
		miles(totals.TaxableMiles),
		paidWhole,
		gallons(totals.TaxableGallons),
		gallons(totals.NetGallons),
	)
	fmt.Fprintf(&b, "%s\n", rule)

	return []byte(b.String()), nil
}

func scopeLabel(vehicleID string) string {
	if vehicleID == "" {
		return "all vehicles"
	}
	return "vehicle " + vehicleID
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	pad := (width - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}
