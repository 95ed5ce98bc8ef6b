package web

// errors.go provides unified error response handling for the web layer.
//
// Technical errors are logged server-side with the request ID; clients get
// a user-friendly message with a support code, as JSON or HTML depending on
// what the request asked for. Pipeline errors are matched by type first
// (errors.Is/As on the parser and encoder error kinds), then by message
// pattern for everything else.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/petereliason/green-button-web/internal/parser"
	"github.com/petereliason/green-button-web/internal/tabular"
	"github.com/petereliason/green-button-web/internal/web/templates"
)

// UserMessage provides user-friendly error information with a support code.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// MapError translates a pipeline error into a UserMessage.
//
// Codes:
//
//	GB001 - feed text is not well-formed XML
//	GB002 - XML is well-formed but has no feed root
//	GB003 - any other parse failure
//	GB004 - export produced zero rows
//	GB005 - row data failed validation before encoding
//	FILE001 - uploaded file too large
//	FILE002 - no file in the request
func MapError(err error) UserMessage {
	var malformed *parser.MalformedXMLError
	switch {
	case errors.As(err, &malformed):
		return UserMessage{
			Message: "The file is not well-formed XML",
			Action:  "Re-download the Green Button export from your utility and try again",
			Code:    "GB001",
		}
	case errors.Is(err, parser.ErrInvalidFeed):
		return UserMessage{
			Message: "The XML document is not an Atom feed",
			Action:  "Upload the Green Button feed file, not a different XML document",
			Code:    "GB002",
		}
	case errors.Is(err, tabular.ErrEmptyData):
		return UserMessage{
			Message: "The feed contains no interval readings to export",
			Action:  "Check that the export covers a period with usage data",
			Code:    "GB004",
		}
	}

	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		return UserMessage{
			Message: "The feed could not be parsed",
			Action:  "Verify the file is an unmodified Green Button export",
			Code:    "GB003",
		}
	}

	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "request body too large"),
		strings.Contains(lower, "file too large"):
		return UserMessage{
			Message: "The uploaded file exceeds the size limit",
			Action:  "Export a shorter date range from your utility",
			Code:    "FILE001",
		}
	case strings.Contains(lower, "no file"),
		strings.Contains(lower, "missing form"):
		return UserMessage{
			Message: "No feed file was provided",
			Action:  "Attach the XML file under the 'file' form field",
			Code:    "FILE002",
		}
	case strings.Contains(lower, "export aborted"),
		strings.Contains(lower, "validation"):
		return UserMessage{
			Message: "The flattened data failed validation",
			Action:  "Contact support with the error code and the feed file",
			Code:    "GB005",
		}
	}

	return UserMessage{
		Message: "An unexpected error occurred",
		Action:  "Please try again; contact support if the problem persists",
		Code:    "GEN001",
	}
}

// respondError logs the technical error and writes a client-appropriate
// response.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := MapError(err)
	requestID := middleware.GetReqID(r.Context())

	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
		"request_id", requestID,
	)

	if wantsJSON(r) {
		respondErrorJSON(w, userMsg, statusCode)
		return
	}
	respondErrorHTML(w, r, userMsg, statusCode)
}

func respondErrorJSON(w http.ResponseWriter, msg UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

func respondErrorHTML(w http.ResponseWriter, r *http.Request, msg UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	templates.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(r.Context(), w)
}

// wantsJSON checks if the client prefers a JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/api/")
}

// writeJSON writes a JSON success response.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
