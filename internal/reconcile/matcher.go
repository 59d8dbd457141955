package reconcile

import (
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/ledger"
)

// keyFunc extracts one fallback key from a transaction. The cascade tries
// each level in order, most specific first.
type keyFunc func(t *ledger.Transaction) string

// The three cascade levels. Level 3 drops the amount so a row whose amount
// itself was edited can still be recognized.
var fallbackLevels = []keyFunc{
	func(t *ledger.Transaction) string {
		return joinKey(t.Date(), t.Amount.String(), string(t.Direction), t.Method)
	},
	func(t *ledger.Transaction) string {
		return joinKey(t.Date(), t.Amount.String(), string(t.Direction))
	},
	func(t *ledger.Transaction) string {
		return joinKey(t.Date(), t.Description, string(t.Direction), t.Method)
	},
}

func joinKey(parts ...string) string {
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, "\x1f")
}

// Matcher holds the per-batch view of stored rows: the set of known
// fingerprints plus one candidate map per cascade level. It is built once at
// the start of a batch and updated in place as rows are inserted, so later
// rows in the same file can match against earlier ones.
type Matcher struct {
	fingerprints map[string]bool
	levels       []map[string][]uuid.UUID
}

// NewMatcher indexes the currently stored rows.
func NewMatcher(existing []*ledger.Transaction) *Matcher {
	m := &Matcher{
		fingerprints: make(map[string]bool, len(existing)),
		levels:       make([]map[string][]uuid.UUID, len(fallbackLevels)),
	}
	for i := range m.levels {
		m.levels[i] = make(map[string][]uuid.UUID, len(existing))
	}
	for _, t := range existing {
		if fp := strings.TrimSpace(t.Fingerprint); fp != "" {
			m.fingerprints[fp] = true
		}
		m.register(t)
	}
	return m
}

// HasFingerprint reports whether fp already exists in the store.
func (m *Matcher) HasFingerprint(fp string) bool {
	return m.fingerprints[fp]
}

// RegisterFingerprint marks fp as present for the rest of the batch.
func (m *Matcher) RegisterFingerprint(fp string) {
	m.fingerprints[fp] = true
}

// Register adds a freshly inserted row to every fallback map.
func (m *Matcher) Register(t *ledger.Transaction) {
	m.register(t)
}

func (m *Matcher) register(t *ledger.Transaction) {
	for i, level := range fallbackLevels {
		key := level(t)
		m.levels[i][key] = append(m.levels[i][key], t.ID)
	}
}

// Resolve runs the cascade for a candidate whose fingerprint is absent. A
// level resolves only when it yields exactly one stored row; zero candidates
// and ambiguous levels both fall through to the next, and a candidate that
// exhausts the cascade is genuinely new. Ambiguity is never broken by
// guessing.
func (m *Matcher) Resolve(t *ledger.Transaction) (uuid.UUID, bool) {
	for i, level := range fallbackLevels {
		ids := m.levels[i][level(t)]
		if len(ids) == 1 {
			return ids[0], true
		}
	}
	return uuid.Nil, false
}
