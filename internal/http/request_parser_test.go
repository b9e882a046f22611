package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ledger/internal/core"
)

func newParser(body, contentType string) *RequestBodyParser {
	req := httptest.NewRequest(http.MethodPost, "/records", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return NewRequestBodyParser(httptest.NewRecorder(), req)
}

func TestRequestBodyParser_JSON(t *testing.T) {
	parser := newParser(`{"description": " Bus ", "amount": 1250, "flagged": true}`, "application/json")
	if err := parser.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if !parser.IsJSON() {
		t.Error("Expected IsJSON() to be true")
	}
	if got := parser.Get("description"); got != "Bus" {
		t.Errorf("Get('description') = %q, want 'Bus'", got)
	}
	if got := parser.Get("amount"); got != "1250" {
		t.Errorf("Get('amount') = %q, want '1250'", got)
	}
	if got := parser.Get("flagged"); got != "true" {
		t.Errorf("Get('flagged') = %q, want 'true'", got)
	}
}

func TestRequestBodyParser_LargeNumbersKeepDigits(t *testing.T) {
	parser := newParser(`{"amount": 12345678901234567}`, "application/json")
	if err := parser.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := parser.Get("amount"); got != "12345678901234567" {
		t.Errorf("Get('amount') = %q", got)
	}
}

func TestRequestBodyParser_JSONAmountMustBeInteger(t *testing.T) {
	tests := []struct {
		body    string
		want    string
		wantErr error
	}{
		{`{"amount": 1250}`, "1250", nil},
		{`{"amount": 0}`, "0", nil},
		{`{"amount": "12a50"}`, "12a50", nil},
		{`{"amount": 12.5}`, "", core.ErrInvalidAmount},
		{`{"amount": 1e3}`, "", core.ErrInvalidAmount},
		{`{"amount": 99999999999999999999}`, "", core.ErrInvalidAmount},
		{`{"amount": -5}`, "", core.ErrNegativeAmount},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			parser := newParser(tt.body, "application/json")
			if err := parser.Parse(); err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			d, err := parser.Draft()
			_, perr := parser.Patch()
			if tt.wantErr != nil {
				var verr *core.ValidationError
				if !errors.As(err, &verr) || verr.Field != "amount" || !errors.Is(err, tt.wantErr) {
					t.Fatalf("Draft() error = %v, want amount %v", err, tt.wantErr)
				}
				if !errors.Is(perr, tt.wantErr) {
					t.Fatalf("Patch() error = %v, want %v", perr, tt.wantErr)
				}
				return
			}
			if err != nil || perr != nil {
				t.Fatalf("Draft() error = %v, Patch() error = %v", err, perr)
			}
			if d.Amount != tt.want {
				t.Errorf("Draft().Amount = %q, want %q", d.Amount, tt.want)
			}
		})
	}
}

func TestRequestBodyParser_FormData(t *testing.T) {
	parser := newParser("description=Taxi+ride&category=TRANSPORT&amount=30", "application/x-www-form-urlencoded")
	if err := parser.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if parser.IsJSON() {
		t.Error("Expected IsJSON() to be false for form data")
	}
	if got := parser.Get("description"); got != "Taxi ride" {
		t.Errorf("Get('description') = %q, want 'Taxi ride'", got)
	}
	d, err := parser.Draft()
	if err != nil {
		t.Fatalf("Draft() error = %v", err)
	}
	if d.Category != "TRANSPORT" || d.Amount != "30" || d.Date != "" {
		t.Errorf("Draft() = %+v", d)
	}
}

func TestRequestBodyParser_EmptyBody(t *testing.T) {
	parser := newParser("", "")
	if err := parser.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if val := parser.Get("nonexistent"); val != "" {
		t.Errorf("Get('nonexistent') = %q, want empty string", val)
	}
	if p, err := parser.Patch(); err != nil || !p.IsEmpty() {
		t.Error("empty body should produce an empty patch")
	}
}

func TestRequestBodyParser_MalformedJSON(t *testing.T) {
	parser := newParser(`{"description":`, "application/json")
	err := parser.Parse()
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("Parse() error = %v, want ErrBadRequest", err)
	}
	// cached
	if err2 := parser.Parse(); err2 != err {
		t.Errorf("second Parse() = %v, want cached %v", err2, err)
	}
}

func TestRequestBodyParser_TooLarge(t *testing.T) {
	body := `{"description":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	parser := newParser(body, "application/json")
	if err := parser.Parse(); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("Parse() error = %v, want ErrBadRequest", err)
	}
}

func TestRequestBodyParser_PatchOnlyPresentFields(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		wantDesc    *string
		wantAmount  *string
	}{
		{
			name:        "json amount only",
			body:        `{"amount":"500"}`,
			contentType: "application/json",
			wantAmount:  strPtr("500"),
		},
		{
			name:        "json empty description is present",
			body:        `{"description":""}`,
			contentType: "application/json",
			wantDesc:    strPtr(""),
		},
		{
			name:        "form description",
			body:        "description=Rent",
			contentType: "application/x-www-form-urlencoded",
			wantDesc:    strPtr("Rent"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := newParser(tt.body, tt.contentType)
			if err := parser.Parse(); err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			p, err := parser.Patch()
			if err != nil {
				t.Fatalf("Patch() error = %v", err)
			}
			if !equalPtr(p.Description, tt.wantDesc) {
				t.Errorf("Description = %v, want %v", deref(p.Description), deref(tt.wantDesc))
			}
			if !equalPtr(p.Amount, tt.wantAmount) {
				t.Errorf("Amount = %v, want %v", deref(p.Amount), deref(tt.wantAmount))
			}
			if p.Category != nil || p.Date != nil {
				t.Errorf("unexpected fields in patch: %+v", p)
			}
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput("  a\x00b\tc\x07 "); got != "ab\tc" {
		t.Errorf("sanitizeInput() = %q", got)
	}
}

func strPtr(s string) *string { return &s }

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}
