package tests

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/xml"
	"errors"
	"strconv"
	"strings"
	"testing"

	"haul/internal/domain"
	"haul/internal/service"
)

// ──────────────────────────────────────────────
// 3. EXPORT GENERATION
// ──────────────────────────────────────────────

func newExportEnv(t *testing.T, quarter domain.Quarter) (*MockTripRecordRepository, *MockFuelPurchaseRepository, *service.ExportService) {
	t.Helper()

	tripRepo := NewMockTripRecordRepository()
	fuelRepo := NewMockFuelPurchaseRepository()
	reconciliation := newReconciliation(tripRepo, fuelRepo, nil)
	export := service.NewExportService(reconciliation, service.NewNotificationService(), "Rig & Route Logistics")
	return tripRepo, fuelRepo, export
}

func TestExport_FilenameConvention(t *testing.T) {
	t.Parallel()

	quarter := mustQuarter(t, "2024-Q1")
	_, _, export := newExportEnv(t, quarter)
	ctx := context.Background()

	cases := []struct {
		format    service.ExportFormat
		vehicleID string
		want      string
	}{
		{service.FormatCSV, "", "ifta_summary_2024_Q1_all_vehicles.csv"},
		{service.FormatCSV, "truck-12", "ifta_summary_2024_Q1_vehicle_truck-12.csv"},
		{service.FormatXML, "", "ifta_detail_2024_Q1_all_vehicles.xml"},
		{service.FormatHTML, "", "ifta_summary_2024_Q1_all_vehicles.html"},
		{service.FormatReport, "", "ifta_report_2024_Q1_all_vehicles.txt"},
	}

	for _, tc := range cases {
		result, err := export.Export(ctx, service.ExportRequest{
			Scope:  service.ScopeRequest{UserID: "user-1", Quarter: quarter, VehicleID: tc.vehicleID},
			Format: tc.format,
		})
		if err != nil {
			t.Fatalf("%s export: %v", tc.format, err)
		}
		if result.Filename != tc.want {
			t.Errorf("%s export: expected filename %q, got %q", tc.format, tc.want, result.Filename)
		}
	}
}

func TestExport_UnsupportedFormatRejected(t *testing.T) {
	t.Parallel()

	quarter := mustQuarter(t, "2024-Q1")
	_, _, export := newExportEnv(t, quarter)

	_, err := export.Export(context.Background(), service.ExportRequest{
		Scope:  service.ScopeRequest{UserID: "user-1", Quarter: quarter},
		Format: "pdf",
	})
	if !errors.Is(err, service.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExport_CSVTotalsRowSumsDisplayedRows(t *testing.T) {
	t.Parallel()

	quarter := mustQuarter(t, "2024-Q1")
	tripRepo, fuelRepo, export := newExportEnv(t, quarter)

	// Odd mileage forces per-row rounding so the totals convention shows.
	tripRepo.AddTrip(&domain.TripRecord{
		ID:                "trip-1",
		UserID:            "user-1",
		Quarter:           quarter,
		VehicleID:         "truck-1",
		StartJurisdiction: "CA",
		EndJurisdiction:   "NV",
		Miles:             333.33,
		Gallons:           47.777,
		Origin:            domain.TripOriginManual,
	})
	fuelRepo.AddEntry(&domain.FuelPurchaseEntry{
		ID:           "fuel-1",
		UserID:       "user-1",
		VehicleID:    "truck-1",
		Quarter:      quarter,
		Date:         quarter.Start(),
		Jurisdiction: "CA",
		Gallons:      40.004,
		Amount:       160,
	})

	result, err := export.Export(context.Background(), service.ExportRequest{
		Scope:  service.ScopeRequest{UserID: "user-1", Quarter: quarter},
		Format: service.FormatCSV,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ContentType != "text/csv" {
		t.Errorf("expected text/csv, got %s", result.ContentType)
	}

	rows, err := csv.NewReader(bytes.NewReader(result.Data)).ReadAll()
	if err != nil {
		t.Fatalf("parsing csv: %v", err)
	}

	// Header, one row per jurisdiction, totals row.
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	last := rows[len(rows)-1]
	if last[0] != "TOTAL" {
		t.Fatalf("expected TOTAL row last, got %q", last[0])
	}

	// The total of each column equals the sum of the displayed row values.
	for col := 1; col < len(last); col++ {
		var sum float64
		for _, row := range rows[1 : len(rows)-1] {
			v, err := strconv.ParseFloat(row[col], 64)
			if err != nil {
				t.Fatalf("parsing %q: %v", row[col], err)
			}
			sum += v
		}
		got, err := strconv.ParseFloat(last[col], 64)
		if err != nil {
			t.Fatalf("parsing total %q: %v", last[col], err)
		}
		if diff := got - sum; diff > 0.0005 || diff < -0.0005 {
			t.Errorf("column %d: totals row %f does not match displayed sum %f", col, got, sum)
		}
	}
}

func TestExport_XMLCarriesSummaryAndTripDetail(t *testing.T) {
	t.Parallel()

	quarter := mustQuarter(t, "2024-Q2")
	tripRepo, _, export := newExportEnv(t, quarter)

	tripRepo.AddTrip(&domain.TripRecord{
		ID:                "trip-1",
		UserID:            "user-1",
		Quarter:           quarter,
		VehicleID:         "truck-4",
		StartDate:         quarter.Start(),
		EndDate:           quarter.Start(),
		StartJurisdiction: "TX",
		EndJurisdiction:   "OK",
		Miles:             180,
		Gallons:           25,
		FuelCost:          98.5,
		Origin:            domain.TripOriginLoadImport,
	})

	result, err := export.Export(context.Background(), service.ExportRequest{
		Scope:  service.ScopeRequest{UserID: "user-1", Quarter: quarter},
		Format: service.FormatXML,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var doc struct {
		XMLName       xml.Name `xml:"iftaReport"`
		Quarter       string   `xml:"quarter,attr"`
		Jurisdictions []struct {
			Code       string `xml:"code,attr"`
			TotalMiles string `xml:"totalMiles,attr"`
		} `xml:"jurisdictions>jurisdiction"`
		Trips []struct {
			VehicleID string `xml:"vehicleId,attr"`
			Origin    string `xml:"origin,attr"`
		} `xml:"trips>trip"`
	}
	if err := xml.Unmarshal(result.Data, &doc); err != nil {
		t.Fatalf("parsing xml: %v", err)
	}

	if doc.Quarter != "2024-Q2" {
		t.Errorf("expected quarter attr 2024-Q2, got %s", doc.Quarter)
	}
	if len(doc.Jurisdictions) != 2 {
		t.Errorf("expected 2 jurisdiction elements, got %d", len(doc.Jurisdictions))
	}
	if len(doc.Trips) != 1 || doc.Trips[0].VehicleID != "truck-4" {
		t.Fatalf("expected raw trip detail, got %+v", doc.Trips)
	}
	if doc.Trips[0].Origin != string(domain.TripOriginLoadImport) {
		t.Errorf("expected origin attr, got %s", doc.Trips[0].Origin)
	}
}

func TestExport_HTMLIsWholeDocumentWithTotalsRow(t *testing.T) {
	t.Parallel()

	quarter := mustQuarter(t, "2024-Q3")
	tripRepo, _, export := newExportEnv(t, quarter)

	tripRepo.AddTrip(&domain.TripRecord{
		ID:                "trip-1",
		UserID:            "user-1",
		Quarter:           quarter,
		VehicleID:         "truck-1",
		StartJurisdiction: "GA",
		EndJurisdiction:   "GA",
		Miles:             120,
		Origin:            domain.TripOriginManual,
	})

	result, err := export.Export(context.Background(), service.ExportRequest{
		Scope:  service.ScopeRequest{UserID: "user-1", Quarter: quarter},
		Format: service.FormatHTML,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	html := string(result.Data)
	if !strings.HasPrefix(html, "<!DOCTYPE html>") {
		t.Error("expected a whole document, not a fragment")
	}
	for _, want := range []string{"2024-Q3", "GA", `class="totals"`, "TOTAL"} {
		if !strings.Contains(html, want) {
			t.Errorf("expected html to contain %q", want)
		}
	}
}

func TestExport_ReportCarriesBrandingAndSummaryBox(t *testing.T) {
	t.Parallel()

	quarter := mustQuarter(t, "2024-Q4")
	tripRepo, fuelRepo, export := newExportEnv(t, quarter)

	tripRepo.AddTrip(&domain.TripRecord{
		ID:                "trip-1",
		UserID:            "user-1",
		Quarter:           quarter,
		VehicleID:         "truck-1",
		StartJurisdiction: "FL",
		EndJurisdiction:   "FL",
		Miles:             250,
		Gallons:           40,
		Origin:            domain.TripOriginManual,
	})
	fuelRepo.AddEntry(&domain.FuelPurchaseEntry{
		ID:           "fuel-1",
		UserID:       "user-1",
		VehicleID:    "truck-1",
		Quarter:      quarter,
		Date:         quarter.Start(),
		Jurisdiction: "FL",
		Gallons:      40,
		Amount:       155.6,
	})

	result, err := export.Export(context.Background(), service.ExportRequest{
		Scope:  service.ScopeRequest{UserID: "user-1", Quarter: quarter},
		Format: service.FormatReport,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report := string(result.Data)
	for _, want := range []string{
		"Rig & Route Logistics",
		"IFTA Jurisdiction Summary",
		"Quarter:        2024-Q4",
		"Trip records:        1",
		"Fuel spend:          $155.60",
		"TOTAL",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("expected report to contain %q", want)
		}
	}
}

func TestExport_ReportTotalsRowSumsDisplayedWholeGallons(t *testing.T) {
	t.Parallel()

	quarter := mustQuarter(t, "2024-Q2")
	_, fuelRepo, export := newExportEnv(t, quarter)

	// 10.4 gallons per jurisdiction displays as whole "10" in the report
	// table; the TOTAL must sum the displayed rows (20), not round the raw
	// aggregate (20.8 would show 21).
	for _, jurisdiction := range []string{"CA", "NV"} {
		fuelRepo.AddEntry(&domain.FuelPurchaseEntry{
			ID:           "fuel-" + jurisdiction,
			UserID:       "user-1",
			VehicleID:    "truck-1",
			Quarter:      quarter,
			Date:         quarter.Start(),
			Jurisdiction: jurisdiction,
			Gallons:      10.4,
			Amount:       41.6,
		})
	}

	result, err := export.Export(context.Background(), service.ExportRequest{
		Scope:  service.ScopeRequest{UserID: "user-1", Quarter: quarter},
		Format: service.FormatReport,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var rowPaidSum float64
	var totalPaid float64
	for _, line := range strings.Split(string(result.Data), "\n") {
		fields := strings.Fields(line)
		if len(fields) != 6 {
			continue
		}
		switch fields[0] {
		case "CA", "NV":
			v, err := strconv.ParseFloat(fields[3], 64)
			if err != nil {
				t.Fatalf("parsing row paid gallons %q: %v", fields[3], err)
			}
			if v != 10 {
				t.Errorf("%s row: expected displayed paid gallons 10, got %s", fields[0], fields[3])
			}
			rowPaidSum += v
		case "TOTAL":
			v, err := strconv.ParseFloat(fields[3], 64)
			if err != nil {
				t.Fatalf("parsing total paid gallons %q: %v", fields[3], err)
			}
			totalPaid = v
		}
	}

	if rowPaidSum != 20 {
		t.Fatalf("expected two displayed rows summing to 20, got %f", rowPaidSum)
	}
	if totalPaid != rowPaidSum {
		t.Errorf("totals row shows %f paid gallons but the sum of displayed rows is %f", totalPaid, rowPaidSum)
	}
}

func TestExport_ListFailureSurfacesError(t *testing.T) {
	t.Parallel()

	quarter := mustQuarter(t, "2024-Q1")
	tripRepo, _, export := newExportEnv(t, quarter)
	tripRepo.ListError = errors.New("pq: relation does not exist")

	_, err := export.Export(context.Background(), service.ExportRequest{
		Scope:  service.ScopeRequest{UserID: "user-1", Quarter: quarter},
		Format: service.FormatCSV,
	})
	if err == nil {
		t.Fatal("expected error when snapshot fetch fails")
	}
}
