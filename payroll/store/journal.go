package store

import (
	"context"
	"sync"

	"github.com/warp/payroll/payroll"
)

// MemoryJournal keeps audit entries in recording order.
type MemoryJournal struct {
	mu      sync.RWMutex
	entries []payroll.AuditEntry
}

var _ payroll.Journal = (*MemoryJournal)(nil)

func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{}
}

// Record appends a copy of entry.
func (j *MemoryJournal) Record(_ context.Context, entry payroll.AuditEntry) error {
	payload := make(map[string]string, len(entry.Payload))
	for k, v := range entry.Payload {
		payload[k] = v
	}
	entry.Payload = payload

	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, entry)
	return nil
}

// Entries returns matching entries oldest first. Limit keeps the newest ones.
func (j *MemoryJournal) Entries(_ context.Context, filter payroll.JournalFilter) ([]payroll.AuditEntry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var result []payroll.AuditEntry
	for _, e := range j.entries {
		if filter.Matches(e) {
			result = append(result, e)
		}
	}
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[len(result)-filter.Limit:]
	}
	return result, nil
}
