package core

import (
	"testing"
)

func TestRunIDFromRecords(t *testing.T) {
	tests := []struct {
		name string
		a    []string
		b    []string
		same bool
	}{
		{
			name: "same set produces same ID",
			a:    []string{"1", "2", "3"},
			b:    []string{"1", "2", "3"},
			same: true,
		},
		{
			name: "order does not matter",
			a:    []string{"3", "1", "2"},
			b:    []string{"1", "2", "3"},
			same: true,
		},
		{
			name: "empty set",
			a:    nil,
			b:    []string{},
			same: true,
		},
		{
			name: "different sets",
			a:    []string{"1", "2"},
			b:    []string{"1", "3"},
			same: false,
		},
		{
			name: "separator is not ambiguous",
			a:    []string{"12", "3"},
			b:    []string{"1", "23"},
			same: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := RunIDFromRecords(tt.a)
			id2 := RunIDFromRecords(tt.b)
			if tt.same && id1 != id2 {
				t.Errorf("RunIDFromRecords() produced different IDs: %d vs %d", id1, id2)
			}
			if !tt.same && id1 == id2 {
				t.Errorf("RunIDFromRecords() produced same ID for different sets")
			}
		})
	}
}

func TestRunIDFromRecords_DoesNotMutateInput(t *testing.T) {
	ids := []string{"3", "1", "2"}
	RunIDFromRecords(ids)
	if ids[0] != "3" || ids[1] != "1" || ids[2] != "2" {
		t.Errorf("RunIDFromRecords() reordered its input: %v", ids)
	}
}

func TestTokenUsage_Add(t *testing.T) {
	total := TokenUsage{InputTokens: 10, OutputTokens: 5}.Add(TokenUsage{InputTokens: 3, OutputTokens: 7})
	if total.InputTokens != 13 || total.OutputTokens != 12 {
		t.Errorf("Add() = %+v, want {13 12}", total)
	}
}

func TestDigestResult_IDs(t *testing.T) {
	d := &DigestResult{Records: []EnrichedRecord{
		{Record: Record{ID: "b"}},
		{Record: Record{ID: "a"}},
	}}
	ids := d.IDs()
	if len(ids) != 2 || ids[0] != "b" || ids[1] != "a" {
		t.Errorf("IDs() = %v, want [b a]", ids)
	}
}

func TestParseOutcome(t *testing.T) {
	ok := Parsed(Record{ID: "1"})
	if !ok.Ok() {
		t.Errorf("Parsed().Ok() = false")
	}
	if ok.Record.ID != "1" {
		t.Errorf("Parsed().Record.ID = %q", ok.Record.ID)
	}

	skipped := Skipped("missing identifier")
	if skipped.Ok() {
		t.Errorf("Skipped().Ok() = true")
	}
	if skipped.SkipReason != "missing identifier" {
		t.Errorf("SkipReason = %q", skipped.SkipReason)
	}

	if Skipped("").Ok() {
		t.Errorf("Skipped(\"\") must not be Ok")
	}
}
