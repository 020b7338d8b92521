package fixture

import (
	"slices"
	"sync"
	"time"

	"github.com/jinzhu/copier"

	"github.com/abhisek/sportsmind/internal/catalog"
)

var periodDays = map[string]int{
	"1month":  30,
	"3months": 90,
	"6months": 180,
}

// historyFilter is a parsed history query.
type historyFilter struct {
	Limit, Offset int
	SortBy        string
	Period        string
	UserID        string
	AthleteTypes  []string
	ScoreMin      *float64
	ScoreMax      *float64
}

// totalScore is the history ranking score: self esteem total plus the five
// sportsmanship scores.
func totalScore(r catalog.Result) float64 {
	s := r.SelfEsteemTotal
	for _, k := range sportsmanshipKeys {
		s += r.Scores.ByKey()[k]
	}
	return s
}

// resultStore keeps scored results in memory. Results leave the store as
// deep copies so callers can not mutate stored slices and maps.
type resultStore struct {
	mu      sync.RWMutex
	results []catalog.Result
}

func (s *resultStore) add(r catalog.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
}

func (s *resultStore) get(id string) (catalog.Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.results {
		if r.ResultID == id {
			return clone(r), true
		}
	}
	return catalog.Result{}, false
}

func (s *resultStore) query(f historyFilter, now time.Time) ([]catalog.Result, int) {
	s.mu.RLock()
	matched := make([]catalog.Result, 0, len(s.results))
	for _, r := range s.results {
		if f.matches(r, now) {
			matched = append(matched, clone(r))
		}
	}
	s.mu.RUnlock()

	if f.SortBy == "score" {
		slices.SortStableFunc(matched, func(a, b catalog.Result) int {
			sa, sb := totalScore(a), totalScore(b)
			switch {
			case sa > sb:
				return -1
			case sa < sb:
				return 1
			}
			return 0
		})
	} else {
		slices.SortStableFunc(matched, func(a, b catalog.Result) int {
			return b.TestDate.Compare(a.TestDate)
		})
	}

	total := len(matched)
	start := min(f.Offset, total)
	end := min(start+f.Limit, total)
	return matched[start:end], total
}

func (f historyFilter) matches(r catalog.Result, now time.Time) bool {
	if f.UserID != "" && r.UserID != f.UserID {
		return false
	}
	if days, ok := periodDays[f.Period]; ok && r.TestDate.Before(now.AddDate(0, 0, -days)) {
		return false
	}
	if len(f.AthleteTypes) > 0 && !slices.Contains(f.AthleteTypes, r.AthleteType) {
		return false
	}
	score := totalScore(r)
	if f.ScoreMin != nil && score < *f.ScoreMin {
		return false
	}
	if f.ScoreMax != nil && score > *f.ScoreMax {
		return false
	}
	return true
}

func clone(r catalog.Result) catalog.Result {
	var out catalog.Result
	if err := copier.CopyWithOption(&out, &r, copier.Option{DeepCopy: true}); err != nil {
		return r
	}
	return out
}
