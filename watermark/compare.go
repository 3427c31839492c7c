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

package watermark

import (
	"cmp"
	"slices"
	"strings"
)

// CompareIDs orders identifiers by numeric value, so "10" sorts above "9".
// Non-numeric identifiers sort below every numeric one and compare
// lexicographically among themselves.
func CompareIDs(a, b string) int {
	return compareKeys(keyOf(a), keyOf(b))
}

// SortDescending sorts ids in place, numerically largest first.
func SortDescending(ids []string) {
	keys := make([]idKey, len(ids))
	for i, id := range ids {
		keys[i] = keyOf(id)
	}
	slices.SortStableFunc(keys, func(a, b idKey) int {
		return compareKeys(b, a)
	})
	for i, k := range keys {
		ids[i] = k.id
	}
}

// Truncate returns at most ceiling identifiers, keeping the numerically
// largest, sorted descending. A ceiling <= 0 means unbounded.
func Truncate(ids []string, ceiling int) []string {
	out := slices.Clone(ids)
	SortDescending(out)
	if ceiling > 0 && len(out) > ceiling {
		out = out[:ceiling]
	}
	return out
}

// idKey is an identifier parsed once for ordering.
type idKey struct {
	id      string
	digits  string // decimal value without leading zeros
	numeric bool
}

func keyOf(id string) idKey {
	if id == "" {
		return idKey{id: id}
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return idKey{id: id}
		}
	}
	return idKey{id: id, digits: strings.TrimLeft(id, "0"), numeric: true}
}

// compareKeys compares canonical numerals by length, then digit by digit.
func compareKeys(a, b idKey) int {
	switch {
	case a.numeric && b.numeric:
		if c := cmp.Compare(len(a.digits), len(b.digits)); c != 0 {
			return c
		}
		return strings.Compare(a.digits, b.digits)
	case a.numeric:
		return 1
	case b.numeric:
		return -1
	default:
		return strings.Compare(a.id, b.id)
	}
}
