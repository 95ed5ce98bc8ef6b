package web

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/petereliason/green-button-web/internal/espi"
	"github.com/petereliason/green-button-web/internal/history"
	"github.com/petereliason/green-button-web/internal/logging"
	"github.com/petereliason/green-button-web/internal/parser"
	"github.com/petereliason/green-button-web/internal/tabular"
	"github.com/petereliason/green-button-web/internal/web/templates"
)

// handleIndex renders the upload page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Index().Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render index", "error", err)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// parseResponse is the JSON body returned by the parse endpoint.
type parseResponse struct {
	Feed       espi.FeedMetadata        `json:"feed"`
	Resources  map[string]int           `json:"resources"`
	Preview    tabular.PreviewResult    `json:"preview"`
	Validation tabular.ValidationReport `json:"validation"`
	Summary    tabular.Summary          `json:"summary"`
}

// handleParse parses an uploaded feed and returns a JSON inspection of it:
// feed metadata, per-resource counts, a bounded row preview, the validation
// report, and summary statistics. Nothing is persisted.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	xmlText, _, err := s.readFeedUpload(w, r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	doc, err := parser.Parse(xmlText)
	if err != nil {
		s.respondError(w, r, err, http.StatusUnprocessableEntity)
		return
	}

	rows := tabular.Records(parser.Flatten(doc))

	writeJSON(w, parseResponse{
		Feed: doc.Feed,
		Resources: map[string]int{
			"usagePoints":         doc.UsagePoints.Len(),
			"meterReadings":       doc.MeterReadings.Len(),
			"readingTypes":        doc.ReadingTypes.Len(),
			"intervalBlocks":      doc.IntervalBlocks.Len(),
			"localTimeParameters": doc.LocalTimes.Len(),
			"usageSummaries":      doc.UsageSummaries.Len(),
		},
		Preview:    tabular.Preview(rows, s.cfg.Export.PreviewRows),
		Validation: tabular.Validate(rows),
		Summary:    tabular.Summarize(rows),
	})
}

// handleExport converts an uploaded feed and returns the CSV as a download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	xmlText, _, err := s.readFeedUpload(w, r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	doc, err := parser.Parse(xmlText)
	if err != nil {
		s.respondError(w, r, err, http.StatusUnprocessableEntity)
		return
	}

	result := tabular.Export(doc, tabular.ExportOptions{
		IncludeMetadataComments: r.FormValue("comments") == "true",
	})
	if !result.Success {
		s.respondError(w, r, fmt.Errorf("%s", result.Error), http.StatusUnprocessableEntity)
		return
	}

	s.recordExport(r, doc, result, time.Since(started))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, result.Filename))
	io.WriteString(w, result.CSV)
}

// recordExport stores a history record when the store is enabled. Failures
// are logged, never surfaced: the client already has a usable export.
func (s *Server) recordExport(r *http.Request, doc *espi.Document, result tabular.ExportResult, took time.Duration) {
	if s.history == nil {
		return
	}

	rec := history.Record{
		Filename:  result.Filename,
		FeedID:    doc.Feed.ID,
		FeedTitle: doc.Feed.Title,
		Rows:      result.RowCount,
		Bytes:     result.ByteSize,
		Duration:  took,
		ClientIP:  clientIP(r),
	}
	if err := s.history.Insert(r.Context(), rec); err != nil {
		logging.FromContext(r.Context()).Error("record export history",
			"error", err, "filename", rec.Filename)
	}
}

// handleHistory lists recent exports, newest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	records, err := s.history.Recent(r.Context(), s.cfg.Export.HistoryLimit)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{
		"enabled": s.history != nil,
		"exports": records,
	})
}

// readFeedUpload extracts the XML text from the request: either a
// multipart form with a "file" field, or a raw XML body. Size is capped by
// the configured upload limit.
func (s *Server) readFeedUpload(w http.ResponseWriter, r *http.Request) (xmlText, filename string, err error) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxSize); err != nil {
			return "", "", fmt.Errorf("file too large or invalid form: %w", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return "", "", fmt.Errorf("no file provided: %w", err)
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return "", "", fmt.Errorf("read upload: %w", err)
		}
		return string(data), header.Filename, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", "", fmt.Errorf("read request body: %w", err)
	}
	if len(data) == 0 {
		return "", "", fmt.Errorf("no file provided: empty request body")
	}
	return string(data), "", nil
}

// clientIP returns the best-known client address for history records.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}
