package http

// Request body parsing shared by the record handlers. Bodies may be JSON
// objects or form-encoded; values are read back as trimmed strings so the
// domain parsers see the same input regardless of encoding.

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"ledger/internal/core"
)

// maxBodyBytes caps request bodies read by the parser.
const maxBodyBytes = 64 << 10

// ErrBadRequest marks input the server could not decode at all.
var ErrBadRequest = errors.New("malformed request")

// RequestBodyParser handles different content types for request body parsing.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser reads the body once, up to maxBodyBytes.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	if r.Body == nil {
		return p
	}
	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if p.err != nil {
		p.err = fmt.Errorf("%w: read body: %v", ErrBadRequest, p.err)
	}
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	trimmed := bytes.TrimSpace(p.body)
	if len(trimmed) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if trimmed[0] == '{' || strings.HasPrefix(p.contentType, "application/json") {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		data := make(map[string]any)
		if err := dec.Decode(&data); err != nil {
			p.err = fmt.Errorf("%w: decode json: %v", ErrBadRequest, err)
			return p.err
		}
		p.jsonData = data
		return nil
	}

	formData, err := url.ParseQuery(string(trimmed))
	if err != nil {
		p.err = fmt.Errorf("%w: decode form: %v", ErrBadRequest, err)
		return p.err
	}
	p.formData = formData
	return nil
}

// Has reports whether the body carried the key at all, even with an empty value.
func (p *RequestBodyParser) Has(key string) bool {
	if p.jsonData != nil {
		_, ok := p.jsonData[key]
		return ok
	}
	if p.formData != nil {
		_, ok := p.formData[key]
		return ok
	}
	return false
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// Draft collects the create-record fields.
func (p *RequestBodyParser) Draft() (core.Draft, error) {
	amount, err := p.amount()
	if err != nil {
		return core.Draft{}, err
	}
	return core.Draft{
		Description: p.Get("description"),
		Category:    p.Get("category"),
		Amount:      amount,
		Date:        p.Get("date"),
	}, nil
}

// Patch collects only the fields present in the body.
func (p *RequestBodyParser) Patch() (core.Patch, error) {
	var patch core.Patch
	field := func(key string) *string {
		if !p.Has(key) {
			return nil
		}
		v := p.Get(key)
		return &v
	}
	patch.Description = field("description")
	patch.Category = field("category")
	patch.Date = field("date")
	if p.Has("amount") {
		amount, err := p.amount()
		if err != nil {
			return core.Patch{}, err
		}
		patch.Amount = &amount
	}
	return patch, nil
}

// amount returns the amount as text for core.ParseAmount. A JSON number must
// already be a non-negative integer; only text input gets digit stripping.
func (p *RequestBodyParser) amount() (string, error) {
	if n, ok := p.jsonData["amount"].(json.Number); ok {
		v, err := n.Int64()
		if err != nil {
			return "", &core.ValidationError{Field: "amount", Err: core.ErrInvalidAmount}
		}
		if v < 0 {
			return "", &core.ValidationError{Field: "amount", Err: core.ErrNegativeAmount}
		}
		return strconv.FormatInt(v, 10), nil
	}
	return p.Get("amount"), nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}
