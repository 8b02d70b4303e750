package service

import (
	"context"
	"fmt"
	"strings"
)

// ExportFormat identifies one supported export encoding.
type ExportFormat string

const (
	// FormatCSV is delimited tabular text for spreadsheet import.
	FormatCSV ExportFormat = "csv"

	// FormatXML is an attribute-tagged hierarchical document with both
	// summary and raw trip detail.
	FormatXML ExportFormat = "xml"

	// FormatHTML is a whole-document tagged markup rendering.
	FormatHTML ExportFormat = "html"

	// FormatReport is a printable plain-text report with a branding
	// header, summary box and totals-highlighted jurisdiction table.
	FormatReport ExportFormat = "report"
)

// Export is one rendered export: a byte stream plus the filename downstream
// filing workflows expect.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportRequest contains the parameters for generating an export.
type ExportRequest struct {
	Scope  ScopeRequest
	Format ExportFormat
}

// ExportService renders aggregated and raw reconciliation data into one of
// the supported encodings. A failure is localized to the requested format:
// the caller may retry or pick another encoding.
type ExportService struct {
	reconciliation *ReconciliationService
	notifications  *NotificationService
	companyName    string
}

// NewExportService creates a new ExportService. companyName appears in the
// printable report's branding header.
func NewExportService(reconciliation *ReconciliationService, notifications *NotificationService, companyName string) *ExportService {
	return &ExportService{
		reconciliation: reconciliation,
		notifications:  notifications,
		companyName:    companyName,
	}
}

// Export fetches the scope's snapshot once and renders it in the requested
// format.
func (s *ExportService) Export(ctx context.Context, req ExportRequest) (*Export, error) {
	if err := req.Scope.validate(); err != nil {
		return nil, err
	}

	var (
		prefix      string
		ext         string
		contentType string
	)
	switch req.Format {
	case FormatCSV:
		prefix, ext, contentType = "ifta_summary", "csv", "text/csv"
	case FormatXML:
		prefix, ext, contentType = "ifta_detail", "xml", "application/xml"
	case FormatHTML:
		prefix, ext, contentType = "ifta_summary", "html", "text/html; charset=utf-8"
	case FormatReport:
		prefix, ext, contentType = "ifta_report", "txt", "text/plain; charset=utf-8"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, req.Format)
	}

	snapshot, err := s.reconciliation.FetchSnapshot(ctx, req.Scope)
	if err != nil {
		return nil, err
	}
	summary := s.reconciliation.SummarizeSnapshot(req.Scope, snapshot)

	var data []byte
	switch req.Format {
	case FormatCSV:
		data, err = renderCSV(summary)
	case FormatXML:
		data, err = renderXML(summary, snapshot)
	case FormatHTML:
		data, err = renderHTML(summary, snapshot)
	case FormatReport:
		data, err = renderReport(summary, s.companyName)
	}
	if err != nil {
		return nil, fmt.Errorf("rendering %s export: %w", req.Format, err)
	}

	export := &Export{
		Filename:    exportFilename(prefix, req.Scope, ext),
		ContentType: contentType,
		Data:        data,
	}

	if s.notifications != nil {
		_ = s.notifications.NotifyExportReady(ctx, req.Scope.UserID, req.Scope.Quarter, export.Filename)
	}

	return export, nil
}

// exportFilename builds the <prefix>_<quarter>_<scope>.<ext> name that
// downstream filing workflows depend on, e.g.
// "ifta_summary_2024_Q1_all_vehicles.csv".
func exportFilename(prefix string, scope ScopeRequest, ext string) string {
	label := "all_vehicles"
	if scope.VehicleID != "" {
		label = "vehicle_" + sanitizeLabel(scope.VehicleID)
	}
	return fmt.Sprintf("%s_%s_%s.%s", prefix, scope.Quarter.Underscore(), label, ext)
}

// sanitizeLabel keeps filenames safe for every filesystem the export may
// land on.
func sanitizeLabel(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
