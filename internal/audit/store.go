package audit

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps snapshots in process memory
type MemoryStore struct {
	mu        sync.Mutex
	snapshots map[string]DailySnapshot // YYYY-MM-DD → snapshot
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string]DailySnapshot)}
}

// SaveSnapshot inserts or replaces the snapshot for its date
func (s *MemoryStore) SaveSnapshot(ctx context.Context, snapshot *DailySnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots[dayKey(snapshot.Date)] = *snapshot
	return nil
}

// GetPreviousSnapshot returns the latest snapshot before date
func (s *MemoryStore) GetPreviousSnapshot(ctx context.Context, date time.Time) (*DailySnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := dayKey(date)
	var prev *DailySnapshot
	for k, snap := range s.snapshots {
		if k >= key {
			continue
		}
		if prev == nil || k > dayKey(prev.Date) {
			snap := snap
			prev = &snap
		}
	}
	return prev, nil
}

// GetSnapshotHistory returns snapshots in [start, end], oldest first
func (s *MemoryStore) GetSnapshotHistory(ctx context.Context, start, end time.Time) ([]DailySnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	from, to := dayKey(start), dayKey(end)
	out := make([]DailySnapshot, 0)
	for k, snap := range s.snapshots {
		if k >= from && k <= to {
			out = append(out, snap)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
