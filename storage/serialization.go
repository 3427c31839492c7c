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

package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/poiesic/bookdigest/core"
)

// MarshalRunID serializes a RunID to 8 big-endian bytes.
func MarshalRunID(id core.RunID) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(id))
	return buf
}

// UnmarshalRunID deserializes a RunID from bytes.
func UnmarshalRunID(data []byte) (core.RunID, error) {
	if len(data) < 8 {
		return 0, fmt.Errorf("%w: run id needs 8 bytes, got %d", ErrTruncatedData, len(data))
	}
	return core.RunID(binary.BigEndian.Uint64(data)), nil
}

// MarshalDigest serializes a DigestResult to bytes.
func MarshalDigest(digest *core.DigestResult) ([]byte, error) {
	data, err := json.Marshal(digest)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalDigest deserializes a DigestResult from bytes.
func UnmarshalDigest(data []byte) (*core.DigestResult, error) {
	var digest core.DigestResult
	if err := json.Unmarshal(data, &digest); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &digest, nil
}
