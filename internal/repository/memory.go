package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"skincare-tracker/internal/model"
)

// MemoryStore keeps JSON copies of records in process. Records handed in or
// out never alias stored state.
type MemoryStore[T any, P Record[T]] struct {
	mu   sync.RWMutex
	docs map[string][]byte
	seq  []string // insertion order
	now  func() time.Time
}

func NewMemoryStore[T any, P Record[T]]() *MemoryStore[T, P] {
	return &MemoryStore[T, P]{
		docs: make(map[string][]byte),
		now:  time.Now,
	}
}

// NewMemoryStores returns an in-process Stores.
func NewMemoryStores() Stores {
	return Stores{
		Products:   NewMemoryStore[model.Product](),
		Routines:   NewMemoryStore[model.Routine](),
		Tasks:      NewMemoryStore[model.Task](),
		Reviews:    NewMemoryStore[model.Review](),
		Activities: NewMemoryStore[model.Activity](),
	}
}

func (s *MemoryStore[T, P]) Find(ctx context.Context, f Filter) ([]*T, error) {
	if f.SortBy != "" && !fieldName.MatchString(f.SortBy) {
		return nil, fmt.Errorf("invalid sort field %q", f.SortBy)
	}
	match, err := normalize(f.Match)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type row struct {
		rec *T
		doc map[string]any
	}
	var rows []row
	for _, id := range s.seq {
		raw := s.docs[id]
		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
		if f.UserID != "" && doc["userId"] != f.UserID {
			continue
		}
		if match != nil && !contains(doc, match) {
			continue
		}
		rec := new(T)
		if err := json.Unmarshal(raw, rec); err != nil {
			return nil, err
		}
		rows = append(rows, row{rec: rec, doc: doc})
	}

	if f.SortBy != "" {
		sort.SliceStable(rows, func(i, j int) bool {
			c := compareValues(rows[i].doc[f.SortBy], rows[j].doc[f.SortBy])
			if f.Desc {
				return c > 0
			}
			return c < 0
		})
	}

	out := make([]*T, 0, len(rows))
	for _, r := range rows {
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
		out = append(out, r.rec)
	}
	return out, nil
}

func (s *MemoryStore[T, P]) FindByID(ctx context.Context, id string) (*T, error) {
	s.mu.RLock()
	raw, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	rec := new(T)
	if err := json.Unmarshal(raw, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *MemoryStore[T, P]) Count(ctx context.Context, f Filter) (int, error) {
	f.Limit = 0
	f.SortBy = ""
	recs, err := s.Find(ctx, f)
	if err != nil {
		return 0, err
	}
	return len(recs), nil
}

func (s *MemoryStore[T, P]) Insert(ctx context.Context, rec *T) (*T, error) {
	doc := P(rec).Doc()
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	now := s.now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.docs[doc.ID]; exists {
		return nil, fmt.Errorf("duplicate id %s", doc.ID)
	}
	s.docs[doc.ID] = raw
	s.seq = append(s.seq, doc.ID)
	return rec, nil
}

func (s *MemoryStore[T, P]) Save(ctx context.Context, rec *T) (*T, error) {
	doc := P(rec).Doc()
	doc.UpdatedAt = s.now().UTC()

	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[doc.ID]; !ok {
		return nil, ErrNotFound
	}
	s.docs[doc.ID] = raw
	return rec, nil
}

func (s *MemoryStore[T, P]) Delete(ctx context.Context, rec *T) error {
	id := P(rec).Doc().ID

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return ErrNotFound
	}
	delete(s.docs, id)
	for i, v := range s.seq {
		if v == id {
			s.seq = append(s.seq[:i], s.seq[i+1:]...)
			break
		}
	}
	return nil
}

// normalize round-trips a filter through JSON so its values compare equal
// to decoded documents (numbers become float64 and so on).
func normalize(match map[string]any) (map[string]any, error) {
	if len(match) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(match)
	if err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// contains mirrors jsonb @> for decoded JSON values.
func contains(doc, want any) bool {
	switch w := want.(type) {
	case map[string]any:
		d, ok := doc.(map[string]any)
		if !ok {
			return false
		}
		for k, wv := range w {
			dv, ok := d[k]
			if !ok || !contains(dv, wv) {
				return false
			}
		}
		return true
	case []any:
		d, ok := doc.([]any)
		if !ok {
			return false
		}
		for _, wv := range w {
			found := false
			for _, dv := range d {
				if contains(dv, wv) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	default:
		return doc == want
	}
}

// compareValues orders decoded JSON scalars; missing values sort last.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	if av, ok := a.(float64); ok {
		if bv, ok := b.(float64); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	}
	as, bs := fmt.Sprint(a), fmt.Sprint(b)
	// RFC 3339 strings with trimmed fractions do not order lexically
	if at, err := time.Parse(time.RFC3339Nano, as); err == nil {
		if bt, err := time.Parse(time.RFC3339Nano, bs); err == nil {
			return at.Compare(bt)
		}
	}
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	}
	return 0
}
