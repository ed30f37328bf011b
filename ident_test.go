package main

import (
	"reflect"
	"testing"
)

func TestNormalizeIdent(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"users", "users"},
		{"Users", "users"},
		{"2nd Floor!!", "c_2nd_floor"},
		{"Name", "name"},
		{"name ", "name"},
		{"  spaced out  ", "spaced_out"},
		{"a--b..c", "a_b_c"},
		{"___x___", "x"},
		{"a___b", "a_b"},
		{"", "col"},
		{"!!!", "col"},
		{"ñ", "col"},
		{"año_2024", "a_o_2024"},
		{"42", "c_42"},
		{"_leading", "leading"},
		{"trailing_", "trailing"},
		{"UPPER_CASE", "upper_case"},
		{"mixed-Case Name!", "mixed_case_name"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := normalizeIdent(tt.raw); got != tt.want {
				t.Errorf("normalizeIdent(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdent_Idempotent(t *testing.T) {
	inputs := []string{"2nd Floor!!", "Name", "", "a--b..c", "already_normal", "42"}
	for _, raw := range inputs {
		once := normalizeIdent(raw)
		twice := normalizeIdent(once)
		if once != twice {
			t.Errorf("normalizeIdent not idempotent for %q: %q → %q", raw, once, twice)
		}
	}
}

func TestDedupeIdents(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"no duplicates", []string{"a", "b", "c"}, []string{"a", "b", "c"}},
		{"one duplicate", []string{"name", "name"}, []string{"name", "name_1"}},
		{"three duplicates", []string{"x", "x", "x"}, []string{"x", "x_1", "x_2"}},
		{"interleaved", []string{"a", "b", "a", "b"}, []string{"a", "b", "a_1", "b_1"}},
		{"suffix collision", []string{"name", "name", "name_1"}, []string{"name", "name_1", "name_1_1"}},
		{"empty", nil, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dedupeIdents(tt.in)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("dedupeIdents(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDedupeIdents_AlwaysUnique(t *testing.T) {
	in := []string{"name", "name", "name", "name_1", "name_2", "name", "col", "col"}
	got := dedupeIdents(in)
	seen := make(map[string]bool)
	for _, id := range got {
		if seen[id] {
			t.Fatalf("dedupeIdents produced duplicate %q in %v", id, got)
		}
		seen[id] = true
	}
}

func TestPGIdent(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"users", "users"},
		{"user", `"user"`},      // reserved word
		{"order", `"order"`},    // reserved word
		{"has space", `"has space"`},
		{"col_1", "col_1"},
	}
	for _, tt := range tests {
		if got := pgIdent(tt.name); got != tt.want {
			t.Errorf("pgIdent(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestPGLiteral(t *testing.T) {
	if got := pgLiteral("it's"); got != "'it''s'" {
		t.Errorf("pgLiteral = %q", got)
	}
}
