// Package history records the outcome of concluded battles.
package history

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNoRecords is returned by Last when nothing has been recorded.
var ErrNoRecords = errors.New("no battles recorded")

// Record is one concluded battle.
type Record struct {
	ID       uuid.UUID
	Victory  bool
	Turns    int
	Heroes   []string
	Enemies  []string
	FoughtAt time.Time
}

// NewRecord builds a Record with a fresh ID.
//
// Postcondition: the returned Record passes Validate when turns >= 1 and
// heroes is non-empty.
func NewRecord(victory bool, turns int, heroes, enemies []string, at time.Time) Record {
	return Record{
		ID:       uuid.New(),
		Victory:  victory,
		Turns:    turns,
		Heroes:   append([]string(nil), heroes...),
		Enemies:  append([]string(nil), enemies...),
		FoughtAt: at.UTC(),
	}
}

// Validate checks that the Record can be stored.
//
// Postcondition: returns nil iff all fields are valid.
func (r Record) Validate() error {
	var errs []error
	if r.ID == uuid.Nil {
		errs = append(errs, errors.New("ID must be set"))
	}
	if r.Turns < 1 {
		errs = append(errs, fmt.Errorf("turns must be >= 1, got %d", r.Turns))
	}
	if len(r.Heroes) == 0 {
		errs = append(errs, errors.New("at least one hero is required"))
	}
	if r.FoughtAt.IsZero() {
		errs = append(errs, errors.New("FoughtAt must be set"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("history record validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// Result renders "victory" or "defeat".
func (r Record) Result() string {
	if r.Victory {
		return "victory"
	}
	return "defeat"
}

// String renders one line for listings.
func (r Record) String() string {
	return fmt.Sprintf("%s  %-7s  %3d turns  %s vs %s",
		r.FoughtAt.Format(time.DateTime), r.Result(), r.Turns,
		strings.Join(r.Heroes, ", "), strings.Join(r.Enemies, ", "))
}

// Store persists Records.
type Store interface {
	// Append stores r.
	Append(ctx context.Context, r Record) error
	// List returns at most limit records, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]Record, error)
	// Last returns the newest record or ErrNoRecords.
	Last(ctx context.Context) (Record, error)
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu      sync.Mutex
	records []Record
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append implements Store.
func (s *MemoryStore) Append(_ context.Context, r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
	return nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context, limit int) ([]Record, error) {
	s.mu.Lock()
	out := append([]Record(nil), s.records...)
	s.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].FoughtAt.After(out[j].FoughtAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Last implements Store.
func (s *MemoryStore) Last(ctx context.Context) (Record, error) {
	rs, _ := s.List(ctx, 1)
	if len(rs) == 0 {
		return Record{}, ErrNoRecords
	}
	return rs[0], nil
}

// Summary aggregates a set of Records.
type Summary struct {
	Battles      int
	Victories    int
	Defeats      int
	AverageTurns float64
}

// Summarize aggregates records.
//
// Postcondition: Victories + Defeats == Battles; AverageTurns is 0 for no records.
func Summarize(records []Record) Summary {
	var s Summary
	total := 0
	for _, r := range records {
		s.Battles++
		if r.Victory {
			s.Victories++
		} else {
			s.Defeats++
		}
		total += r.Turns
	}
	if s.Battles > 0 {
		s.AverageTurns = float64(total) / float64(s.Battles)
	}
	return s
}

// String renders the summary on one line.
func (s Summary) String() string {
	return fmt.Sprintf("%d battles, %d victories, %d defeats, %.1f turns on average",
		s.Battles, s.Victories, s.Defeats, s.AverageTurns)
}
