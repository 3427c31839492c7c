// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

import (
	"fmt"
	"slices"
	"strings"
)

// ValidateRecord validates a Record according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - LikeCount, RetweetCount and ReplyCount must not be negative
//
// NOT validated (optional in exports):
//   - Text, AuthorName, URL, CreatedAt
func ValidateRecord(record *Record) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}

	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyID)
	}

	if record.LikeCount < 0 || record.RetweetCount < 0 || record.ReplyCount < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrNegativeCounter)
	}

	return nil
}

// ValidateTier validates that a Tier has a valid value.
func ValidateTier(tier Tier) error {
	if !slices.Contains(Tiers, tier) {
		return fmt.Errorf("%w: value %q", ErrInvalidTier, tier)
	}
	return nil
}

// NormalizeCategory maps free-form model output onto the closed category set.
// Matching ignores case and surrounding whitespace; anything else becomes CategoryOther.
func NormalizeCategory(raw string) Category {
	raw = strings.TrimSpace(raw)
	for _, c := range Categories {
		if strings.EqualFold(raw, string(c)) {
			return c
		}
	}
	return CategoryOther
}
