package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseCategory(t *testing.T) {
	cases := []struct {
		in  string
		out Category
		ok  bool
	}{
		{"HEALTH", Health, true},
		{"transport", Transport, true},
		{" Common ", Common, true},
		{"Common expenses", Common, true},
		{"personal/other", Personal, true},
		{"", "", false},
		{"FOOD", "", false},
	}
	for _, tc := range cases {
		got, err := ParseCategory(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
			continue
		}
		if !errors.Is(err, ErrValidation) || !errors.Is(err, ErrUnknownCategory) {
			t.Fatalf("%q expected unknown category validation error, got %v", tc.in, err)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-02")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d != NewDate(2024, 1, 2) {
		t.Fatalf("unexpected date %v", d)
	}
	for _, bad := range []string{"", "2024-13-01", "02/01/2024", "yesterday"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q expected invalid date, got %v", bad, err)
		}
	}
}

func TestDateJSON(t *testing.T) {
	b, err := json.Marshal(NewDate(2024, 3, 9))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-03-09"` {
		t.Fatalf("unexpected encoding %s", b)
	}
	var d Date
	if err := json.Unmarshal([]byte(`"2024-03-09"`), &d); err != nil || d != NewDate(2024, 3, 9) {
		t.Fatalf("unexpected decode %v (err=%v)", d, err)
	}
	if err := json.Unmarshal([]byte(`"not a date"`), &d); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestDraftBuild(t *testing.T) {
	good := Draft{Description: " Bus ", Category: "TRANSPORT", Amount: "5000", Date: "2024-01-01"}
	r, err := good.Build()
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if r.Description != " Bus " || r.Category != Transport || r.Amount != 5000 || r.Date != NewDate(2024, 1, 1) || r.Flagged {
		t.Fatalf("unexpected record %+v", r)
	}

	bads := []struct {
		d     Draft
		field string
	}{
		{Draft{Description: "", Category: "HEALTH", Amount: "1", Date: "2024-01-01"}, "description"},
		{Draft{Description: "   ", Category: "HEALTH", Amount: "1", Date: "2024-01-01"}, "description"},
		{Draft{Description: "a", Category: "nope", Amount: "1", Date: "2024-01-01"}, "category"},
		{Draft{Description: "a", Category: "HEALTH", Amount: "abc", Date: "2024-01-01"}, "amount"},
		{Draft{Description: "a", Category: "HEALTH", Amount: "-3", Date: "2024-01-01"}, "amount"},
		{Draft{Description: "a", Category: "HEALTH", Amount: "1", Date: ""}, "date"},
	}
	for i, tc := range bads {
		_, err := tc.d.Build()
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("case %d expected validation error, got %v", i, err)
		}
		if verr.Field != tc.field {
			t.Fatalf("case %d expected field %s, got %s", i, tc.field, verr.Field)
		}
	}
}

func TestPatchApply(t *testing.T) {
	base := Record{ID: 7, Description: "Bus", Category: Transport, Amount: 5000, Date: NewDate(2024, 1, 1), Flagged: true}

	amount := "7a0"
	desc := "Taxi"
	got, err := Patch{Description: &desc, Amount: &amount}.Apply(base)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if got.ID != 7 || !got.Flagged || got.Description != "Taxi" || got.Amount != 70 || got.Category != Transport {
		t.Fatalf("unexpected patched record %+v", got)
	}

	badCat := "FOOD"
	got, err = Patch{Description: &desc, Category: &badCat}.Apply(base)
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected unknown category, got %v", err)
	}
	if got != base {
		t.Fatalf("failed patch must return the original record, got %+v", got)
	}

	if !(Patch{}).IsEmpty() {
		t.Fatalf("zero patch should be empty")
	}
}

func TestRecordValidate(t *testing.T) {
	good := Record{ID: 1, Description: "ok", Category: Health, Amount: 0, Date: NewDate(2024, 1, 1)}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	long := good
	long.Description = strings.Repeat("x", 5000)
	if err := long.Validate(); err != nil {
		t.Fatalf("long description rejected: %v", err)
	}

	bads := []struct {
		r     Record
		field string
	}{
		{Record{ID: 1, Description: "", Category: Health, Amount: 1, Date: NewDate(2024, 1, 1)}, "description"},
		{Record{ID: 1, Description: "a", Category: "FOOD", Amount: 1, Date: NewDate(2024, 1, 1)}, "category"},
		{Record{ID: 1, Description: "a", Category: Health, Amount: -1, Date: NewDate(2024, 1, 1)}, "amount"},
		{Record{ID: 1, Description: "a", Category: Health, Amount: 1}, "date"},
		{Record{ID: 0, Description: "a", Category: Health, Amount: 1, Date: NewDate(2024, 1, 1)}, "id"},
		{Record{ID: -7, Description: "a", Category: Health, Amount: 1, Date: NewDate(2024, 1, 1)}, "id"},
	}
	for i, tc := range bads {
		var verr *ValidationError
		if err := tc.r.Validate(); !errors.As(err, &verr) || verr.Field != tc.field {
			t.Fatalf("case %d expected %s validation error, got %v", i, tc.field, err)
		}
	}
}

func TestErrorTaxonomy(t *testing.T) {
	var err error = &NotFoundError{ID: 42}
	if !errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) {
		t.Fatalf("not found error misclassified: %v", err)
	}
	if err.Error() != "record 42 not found" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	err = &ValidationError{Field: "amount", Err: ErrInvalidAmount}
	if !errors.Is(err, ErrValidation) || !errors.Is(err, ErrInvalidAmount) || errors.Is(err, ErrNotFound) {
		t.Fatalf("validation error misclassified: %v", err)
	}
}
