package domain

import (
	"errors"
	"testing"
)

func TestNormalizeDepartment(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", ""},
		{"canonical", "Cutting", "Cutting"},
		{"trimmed", "  Stitching  ", "Stitching"},
		{"alias FGWH", "FGWH", "FG WH"},
		{"alias RawMaterial", "RawMaterial", "Raw Material"},
		{"alias ACC", "ACC", "ACC Market"},
		{"alias PL", "PL", "P&L Market"},
		{"alias SubMaterial", "SubMaterial", "Sub Material"},
		{"alias BottomMarket", "BottomMarket", "Bottom Market"},
		{"first line LF", "Plant Production\n(Outsole degreasing)", "Plant Production"},
		{"first line CRLF", "FGWH\r\nShipping", "FG WH"},
		{"first line CR", "Outsole\rdegreasing", "Outsole"},
		{"unknown", "Laser Lab", "Laser Lab"},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDepartment(tt.raw); got != tt.want {
				t.Errorf("NormalizeDepartment(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeDepartmentIdempotent(t *testing.T) {
	inputs := []string{"FGWH", "Plant Production\nline 2", " HR ", "P&L Market", ""}
	for _, in := range inputs {
		once := NormalizeDepartment(in)
		if twice := NormalizeDepartment(once); twice != once {
			t.Errorf("NormalizeDepartment not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestPositionField(t *testing.T) {
	p := Position{
		ID:          "p1",
		Department:  "CE",
		Level:       LevelTM,
		Title:       "Operator",
		Subtitle:    "Mixing",
		ProcessType: "mixing",
		Source:      "page1",
	}

	tests := []struct {
		field string
		want  string
		ok    bool
	}{
		{"department", "CE", true},
		{"Level", "TM", true},
		{"title", "Operator", true},
		{"subtitle", "Mixing", true},
		{"processType", "mixing", true},
		{"process_type", "mixing", true},
		{"source", "page1", true},
		{"id", "p1", true},
		{"salary", "", false},
	}

	for _, tt := range tests {
		got, ok := p.Field(tt.field)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Field(%q) = %q, %v; want %q, %v", tt.field, got, ok, tt.want, tt.ok)
		}
	}
}

func TestPositionNormalized(t *testing.T) {
	p := Position{Department: "FGWH\nShipping", Level: LevelTM}
	n := p.Normalized()

	if n.Department != "FG WH" {
		t.Errorf("Normalized().Department = %q, want FG WH", n.Department)
	}
	if p.Department != "FGWH\nShipping" {
		t.Error("Normalized() should not modify the receiver")
	}
}

func TestPositionLabel(t *testing.T) {
	tests := []struct {
		pos  Position
		want string
	}{
		{Position{Department: "CE", Level: LevelTM}, "CE / TM"},
		{Position{Department: "CE", Level: LevelTM, Subtitle: "Mixing"}, "CE / TM (Mixing)"},
		{Position{Department: "FG WH", Level: LevelTM, Title: "Shipping Clerk"}, "FG WH / TM Shipping Clerk"},
		{Position{Department: "CE", Level: LevelTM, Subtitle: "Mixing", Title: "Mixing"}, "CE / TM (Mixing)"},
	}

	for _, tt := range tests {
		if got := tt.pos.Label(); got != tt.want {
			t.Errorf("Label() = %q, want %q", got, tt.want)
		}
	}
}

func TestNewCrossPagePosition(t *testing.T) {
	if _, err := NewCrossPagePosition(Position{Department: "HR", Level: LevelGL}); !errors.Is(err, ErrMissingSource) {
		t.Errorf("NewCrossPagePosition without source = %v, want ErrMissingSource", err)
	}
	if _, err := NewCrossPagePosition(Position{Department: "HR", Source: "  "}); !errors.Is(err, ErrMissingSource) {
		t.Errorf("NewCrossPagePosition with blank source = %v, want ErrMissingSource", err)
	}

	cp, err := NewCrossPagePosition(Position{Department: "HR", Level: LevelGL, Source: "page1"})
	if err != nil {
		t.Fatalf("NewCrossPagePosition() error: %v", err)
	}
	if cp.Source != "page1" || cp.Department != "HR" {
		t.Errorf("unexpected position: %+v", cp)
	}
}

func TestPositionSetWithSource(t *testing.T) {
	set := NewPositionSet("page1")
	set.Add(Position{Department: "HR", Level: LevelGL})
	set.Add(Position{Department: "CE", Level: LevelTM, Source: "page9"})

	got := set.WithSource()
	if got[0].Source != "page1" {
		t.Errorf("unsourced position got %q, want page1", got[0].Source)
	}
	if got[1].Source != "page9" {
		t.Errorf("sourced position got %q, want page9", got[1].Source)
	}
	if set.Positions[0].Source != "" {
		t.Error("WithSource() should not modify the set")
	}
}
