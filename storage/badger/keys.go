package badger

import (
	"encoding/binary"
	"time"

	"github.com/poiesic/bookdigest/core"
)

// Key prefixes for different data types
const (
	digestPrefix     = "digrun"
	digestDatePrefix = "digdate"
	digestLatestKey  = "diglatest"
)

// makeDigestKey generates a key for a digest by run ID.
// Format: prefix:runID
func makeDigestKey(id core.RunID) []byte {
	prefix := []byte(digestPrefix + ":")
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeDigestDateKey generates a composite key for the date index.
// Format: prefix:timestamp:runID
func makeDigestDateKey(date time.Time, id core.RunID) []byte {
	prefix := []byte(digestDatePrefix + ":")
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(date.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialDigestDateKey generates a partial key for date range queries.
// Format: prefix:timestamp
func makePartialDigestDateKey(date time.Time) []byte {
	prefix := []byte(digestDatePrefix + ":")
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(date.UnixMicro()))
	return buf
}
