package agenda

import (
	"sort"

	"skincare-tracker/internal/model"
)

// Merge projects items onto day and orders them by time label. Entries
// without a time go last; ties keep their input order.
func Merge(day model.Day, items []Item) []Entry {
	entries := make([]Entry, 0, len(items))
	for _, it := range items {
		entries = append(entries, it.Entry(day))
	}
	SortByTime(entries)
	return entries
}

func SortByTime(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return timeLess(entries[i].Time, entries[j].Time)
	})
}

func timeLess(a, b string) bool {
	switch {
	case a == "":
		return false
	case b == "":
		return true
	}
	return a < b
}

// Summary returns at most limit leading entries. A non-positive limit
// returns none.
func Summary(entries []Entry, limit int) []Entry {
	if limit <= 0 {
		return []Entry{}
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}
