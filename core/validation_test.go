package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateRecord(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name    string
		record  *Record
		wantErr error
	}{
		{
			name: "valid record",
			record: &Record{
				ID:             "1234",
				Text:           "hello",
				AuthorUsername: "someone",
				CreatedAt:      &created,
				LikeCount:      3,
			},
			wantErr: nil,
		},
		{
			name:    "valid record with empty text",
			record:  &Record{ID: "1"},
			wantErr: nil,
		},
		{
			name:    "nil record",
			record:  nil,
			wantErr: ErrInvalidRecord,
		},
		{
			name:    "empty identifier",
			record:  &Record{ID: ""},
			wantErr: ErrEmptyID,
		},
		{
			name:    "whitespace identifier",
			record:  &Record{ID: "  "},
			wantErr: ErrEmptyID,
		},
		{
			name:    "negative likes",
			record:  &Record{ID: "1", LikeCount: -1},
			wantErr: ErrNegativeCounter,
		},
		{
			name:    "negative replies",
			record:  &Record{ID: "1", ReplyCount: -4},
			wantErr: ErrNegativeCounter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecord(tt.record)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateRecord() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateRecord() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidRecord) {
				t.Errorf("ValidateRecord() error = %v, want wrapped ErrInvalidRecord", err)
			}
		})
	}
}

func TestValidateTier(t *testing.T) {
	for _, tier := range Tiers {
		if err := ValidateTier(tier); err != nil {
			t.Errorf("ValidateTier(%q) unexpected error = %v", tier, err)
		}
	}
	if err := ValidateTier("urgent"); !errors.Is(err, ErrInvalidTier) {
		t.Errorf("ValidateTier(urgent) error = %v, want ErrInvalidTier", err)
	}
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		raw  string
		want Category
	}{
		{"AI & Tech", CategoryTech},
		{"  business ", CategoryBusiness},
		{"NEWS & SOCIETY", CategoryNews},
		{"Other", CategoryOther},
		{"Cooking", CategoryOther},
		{"", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := NormalizeCategory(tt.raw); got != tt.want {
				t.Errorf("NormalizeCategory(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
