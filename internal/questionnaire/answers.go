package questionnaire

import "sort"

// AnswerStore maps a question's display number to its score. It has a single
// write path, Set, and never removes an entry.
type AnswerStore struct {
	values map[int]float64
}

// NewAnswerStore returns an empty store.
func NewAnswerStore() *AnswerStore {
	return &AnswerStore{values: make(map[int]float64)}
}

// Set records value for the question, overwriting any previous score.
// Range is not checked here; the submission pipeline rejects bad values.
func (s *AnswerStore) Set(number int, value float64) {
	s.values[number] = value
}

// Get returns the score for number. ok is false when unanswered.
func (s *AnswerStore) Get(number int) (value float64, ok bool) {
	value, ok = s.values[number]
	return value, ok
}

// Has reports whether the question has been answered.
func (s *AnswerStore) Has(number int) bool {
	_, ok := s.values[number]
	return ok
}

// Len returns the number of answered questions.
func (s *AnswerStore) Len() int {
	return len(s.values)
}

// Keys returns the answered display numbers in ascending order.
func (s *AnswerStore) Keys() []int {
	keys := make([]int, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Snapshot returns a copy of the stored answers.
func (s *AnswerStore) Snapshot() map[int]float64 {
	out := make(map[int]float64, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Load upserts every entry of answers, as when resuming a draft.
func (s *AnswerStore) Load(answers map[int]float64) {
	for k, v := range answers {
		s.Set(k, v)
	}
}
