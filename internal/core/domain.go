// Package core holds the expense record model, input parsing and report types.
package core

import (
	"encoding/json"
	"strings"
	"time"
)

// DateLayout is the wire and display format for record dates.
const DateLayout = "2006-01-02"

const (
	Health    Category = "HEALTH"
	Common    Category = "COMMON"
	Transport Category = "TRANSPORT"
	Personal  Category = "PERSONAL"
)

type (
	Category string

	Date struct {
		time.Time
	}

	// Record is a single expense owned by the ledger.
	Record struct {
		ID          int64    `json:"id"`
		Description string   `json:"description"`
		Category    Category `json:"category"`
		Amount      int64    `json:"amount"`
		Date        Date     `json:"date"`
		Flagged     bool     `json:"flagged"`
	}

	// Draft carries raw form input for a new record.
	Draft struct {
		Description string
		Category    string
		Amount      string
		Date        string
	}

	// Patch carries the fields to replace on an existing record. Nil fields are kept.
	Patch struct {
		Description *string
		Category    *string
		Amount      *string
		Date        *string
	}
)

// Categories lists the fixed category set in display order.
func Categories() []Category {
	return []Category{Health, Common, Transport, Personal}
}

var categoryLabels = map[Category]string{
	Health:    "Health",
	Common:    "Common expenses",
	Transport: "Transport",
	Personal:  "Personal/other",
}

// Label returns the human readable name of the category.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

func (c Category) String() string {
	return string(c)
}

func (c Category) IsValid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// ParseCategory accepts the enum name or the label, case-insensitively.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", &ValidationError{Field: "category", Err: ErrUnknownCategory}
	}
	for _, c := range Categories() {
		if strings.EqualFold(s, string(c)) || strings.EqualFold(s, c.Label()) {
			return c, nil
		}
	}
	return "", &ValidationError{Field: "category", Err: ErrUnknownCategory}
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, &ValidationError{Field: "date", Err: ErrInvalidDate}
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON overrides the embedded time.Time encoding with YYYY-MM-DD.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return &ValidationError{Field: "date", Err: ErrInvalidDate}
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return &ValidationError{Field: "date", Err: ErrInvalidDate}
	}
	return nil
}

// validateDescription returns s unchanged; only blank input is rejected.
func validateDescription(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", &ValidationError{Field: "description", Err: ErrEmptyDescription}
	}
	return s, nil
}

// Validate checks a record as it would be stored. Loaded snapshots go through here.
func (r Record) Validate() error {
	if r.ID <= 0 {
		return &ValidationError{Field: "id", Err: ErrInvalidID}
	}
	if _, err := validateDescription(r.Description); err != nil {
		return err
	}
	if !r.Category.IsValid() {
		return &ValidationError{Field: "category", Err: ErrUnknownCategory}
	}
	if r.Amount < 0 {
		return &ValidationError{Field: "amount", Err: ErrNegativeAmount}
	}
	return r.Date.Validate()
}

// Build validates the draft and returns a record without an ID.
func (d Draft) Build() (Record, error) {
	desc, err := validateDescription(d.Description)
	if err != nil {
		return Record{}, err
	}
	cat, err := ParseCategory(d.Category)
	if err != nil {
		return Record{}, err
	}
	amount, err := ParseAmount(d.Amount)
	if err != nil {
		return Record{}, err
	}
	date, err := ParseDate(d.Date)
	if err != nil {
		return Record{}, err
	}
	return Record{
		Description: desc,
		Category:    cat,
		Amount:      amount,
		Date:        date,
	}, nil
}

// Apply returns a copy of r with the patch fields replaced. Every field is
// validated before anything is applied.
func (p Patch) Apply(r Record) (Record, error) {
	out := r
	if p.Description != nil {
		desc, err := validateDescription(*p.Description)
		if err != nil {
			return r, err
		}
		out.Description = desc
	}
	if p.Category != nil {
		cat, err := ParseCategory(*p.Category)
		if err != nil {
			return r, err
		}
		out.Category = cat
	}
	if p.Amount != nil {
		amount, err := ParseAmount(*p.Amount)
		if err != nil {
			return r, err
		}
		out.Amount = amount
	}
	if p.Date != nil {
		date, err := ParseDate(*p.Date)
		if err != nil {
			return r, err
		}
		out.Date = date
	}
	return out, nil
}

// IsEmpty reports whether the patch replaces nothing.
func (p Patch) IsEmpty() bool {
	return p.Description == nil && p.Category == nil && p.Amount == nil && p.Date == nil
}
