package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ComputeFingerprint derives the content hash that identifies "the same
// logical event" across imports. It covers exactly the identifying fields:
// date (day granularity), signed amount, description, method, direction and
// raw category. Memo, the excluded flag and the row id are deliberately not
// part of the hash.
func (t *Transaction) ComputeFingerprint() string {
	key := strings.Join([]string{
		t.Date(),
		t.Amount.String(),
		strings.TrimSpace(t.Description),
		strings.TrimSpace(t.Method),
		string(t.Direction),
		strings.TrimSpace(t.RawCategory),
	}, "|")
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
