package alert

import (
	"sync"

	"IndexSentinel/internal/logger"
	"IndexSentinel/internal/model"
)

func severityRank(s model.Severity) int {
	switch s {
	case model.SeverityCritical:
		return 2
	case model.SeverityWarning:
		return 1
	default:
		return 0
	}
}

// Tracker suppresses alerts that were already delivered, so a condition
// lasting several days is reported once and again only when it escalates.
type Tracker struct {
	mu       sync.Mutex
	state    *TrackerState
	filePath string
}

// NewTracker loads the tracker state from filePath; an empty path keeps it in memory.
func NewTracker(filePath string) (*Tracker, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}
	return &Tracker{state: state, filePath: filePath}, nil
}

func key(symbol string, kind model.AlertKind) string { return symbol + "|" + string(kind) }

// Filter returns the alerts of symbol that are new or more severe than what
// was last delivered. Rules that no longer fire are forgotten so they can
// fire again later.
func (t *Tracker) Filter(symbol string, alerts []model.Alert) []model.Alert {
	t.mu.Lock()
	defer t.mu.Unlock()

	firing := make(map[string]bool, len(alerts))
	var out []model.Alert
	for _, a := range alerts {
		k := key(symbol, a.Kind)
		firing[k] = true
		if prev, ok := t.state.Sent[k]; ok && severityRank(prev) >= severityRank(a.Severity) {
			continue
		}
		t.state.Sent[k] = a.Severity
		out = append(out, a)
	}
	for k := range t.state.Sent {
		if len(k) > len(symbol) && k[:len(symbol)+1] == symbol+"|" && !firing[k] {
			delete(t.state.Sent, k)
		}
	}

	if err := t.save(); err != nil {
		logger.Error("failed to save alert state: %v", err)
	}
	return out
}

// Reset forgets every delivered alert (called every Monday).
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state.Sent = map[string]model.Severity{}
	if err := t.save(); err != nil {
		logger.Error("failed to save alert state after reset: %v", err)
	}
}

func (t *Tracker) save() error {
	return SaveState(t.filePath, t.state)
}
