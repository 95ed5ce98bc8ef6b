package web

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/petereliason/green-button-web/internal/parser"
	"github.com/petereliason/green-button-web/internal/tabular"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{
			name:     "malformed xml",
			err:      &parser.ParseError{Cause: &parser.MalformedXMLError{Cause: errors.New("unexpected EOF")}},
			wantCode: "GB001",
		},
		{
			name:     "invalid feed",
			err:      &parser.ParseError{Cause: parser.ErrInvalidFeed},
			wantCode: "GB002",
		},
		{
			name:     "other parse failure",
			err:      &parser.ParseError{Cause: errors.New("something else")},
			wantCode: "GB003",
		},
		{
			name:     "empty data",
			err:      fmt.Errorf("encode: %w", tabular.ErrEmptyData),
			wantCode: "GB004",
		},
		{
			name:     "export aborted",
			err:      errors.New("export aborted: data contains no rows"),
			wantCode: "GB005",
		},
		{
			name:     "body too large",
			err:      errors.New("http: request body too large"),
			wantCode: "FILE001",
		},
		{
			name:     "missing file",
			err:      errors.New("no file provided: empty request body"),
			wantCode: "FILE002",
		},
		{
			name:     "unknown",
			err:      errors.New("dial tcp: connection refused"),
			wantCode: "GEN001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := MapError(tt.err)
			if msg.Code != tt.wantCode {
				t.Errorf("MapError(%v).Code = %q, want %q", tt.err, msg.Code, tt.wantCode)
			}
			if msg.Message == "" || msg.Action == "" {
				t.Errorf("MapError(%v) = %+v, want message and action", tt.err, msg)
			}
		})
	}
}

func TestWantsJSON(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		accept      string
		contentType string
		want        bool
	}{
		{"api path", "/api/export", "", "", true},
		{"accept json", "/", "application/json", "", true},
		{"content type json", "/", "", "application/json", true},
		{"browser form post", "/", "text/html", "multipart/form-data", false},
		{"plain page", "/", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", tt.path, nil)
			if tt.accept != "" {
				r.Header.Set("Accept", tt.accept)
			}
			if tt.contentType != "" {
				r.Header.Set("Content-Type", tt.contentType)
			}
			if got := wantsJSON(r); got != tt.want {
				t.Errorf("wantsJSON() = %v, want %v", got, tt.want)
			}
		})
	}
}
