package questionnaire

import (
	"fmt"
	"sort"
	"strings"

	"github.com/abhisek/sportsmind/internal/battery"
)

// Answers is the read side of the answer store used by the progress engine.
type Answers interface {
	Has(number int) bool
	Len() int
}

// SectionInfo is the derived state of one subcategory.
type SectionInfo struct {
	Category          string
	CategoryIndex     int
	Section           string
	SectionIndex      int
	Title             string
	Description       string
	TotalQuestions    int
	AnsweredQuestions int
	Percentage        float64
	Completed         bool
	Questions         []battery.Question
}

// Position returns the navigation position of the section.
func (s SectionInfo) Position() Position {
	return Position{CategoryIndex: s.CategoryIndex, SectionIndex: s.SectionIndex}
}

// CategoryInfo aggregates the sections of one category.
type CategoryInfo struct {
	Key               string
	Title             string
	Index             int
	TotalSections     int
	CompletedSections int
	TotalQuestions    int
	AnsweredQuestions int
	Completed         bool
}

// OverallProgress aggregates every section.
type OverallProgress struct {
	TotalSections     int
	CompletedSections int
	TotalQuestions    int
	// AnsweredQuestions is the answer store size. It can exceed the sum of
	// per-section answered counts when orphaned answers exist.
	AnsweredQuestions int
	Percentage        float64
	Completed         bool
}

// Progress is the full derived completion state.
type Progress struct {
	Sections   []SectionInfo
	Categories []CategoryInfo
	Overall    OverallProgress
}

// Compute derives completion state from the questions and answers. Sections
// follow the index order; questions whose subcategory is not indexed are
// dropped, and subcategories with no questions are not applicable and are
// left out entirely.
func Compute(questions []battery.Question, answers Answers, index battery.Index) Progress {
	type key struct{ cat, sub string }
	grouped := make(map[key][]battery.Question)
	for _, q := range questions {
		k := key{q.Category, q.Subcategory}
		grouped[k] = append(grouped[k], q)
	}

	var p Progress
	for idx, cat := range index.Categories {
		ci := CategoryInfo{Key: cat.Key, Title: cat.Title, Index: idx}
		for si, sec := range cat.Sections {
			qs := grouped[key{cat.Key, sec.Key}]
			if len(qs) == 0 {
				continue
			}
			sorted := make([]battery.Question, len(qs))
			copy(sorted, qs)
			battery.SortByNumber(sorted)

			answered := 0
			for _, q := range sorted {
				if answers.Has(q.Number) {
					answered++
				}
			}

			info := SectionInfo{
				Category:          cat.Key,
				CategoryIndex:     idx,
				Section:           sec.Key,
				SectionIndex:      si,
				Title:             sec.Title,
				Description:       sec.Description,
				TotalQuestions:    len(sorted),
				AnsweredQuestions: answered,
				Percentage:        percentage(answered, len(sorted)),
				Completed:         len(sorted) > 0 && answered == len(sorted),
				Questions:         sorted,
			}
			p.Sections = append(p.Sections, info)

			ci.TotalSections++
			ci.TotalQuestions += info.TotalQuestions
			ci.AnsweredQuestions += info.AnsweredQuestions
			if info.Completed {
				ci.CompletedSections++
			}
		}
		ci.Completed = ci.TotalSections > 0 && ci.CompletedSections == ci.TotalSections
		p.Categories = append(p.Categories, ci)

		p.Overall.TotalSections += ci.TotalSections
		p.Overall.CompletedSections += ci.CompletedSections
		p.Overall.TotalQuestions += ci.TotalQuestions
	}

	p.Overall.AnsweredQuestions = answers.Len()
	p.Overall.Percentage = percentage(p.Overall.AnsweredQuestions, p.Overall.TotalQuestions)
	p.Overall.Completed = p.Overall.TotalSections > 0 &&
		p.Overall.CompletedSections == p.Overall.TotalSections
	return p
}

func percentage(answered, total int) float64 {
	if total == 0 {
		return 0
	}
	pct := float64(answered) / float64(total) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

// Find returns the flattened index of the section at pos.
func (p Progress) Find(pos Position) (int, bool) {
	for i, s := range p.Sections {
		if s.CategoryIndex == pos.CategoryIndex && s.SectionIndex == pos.SectionIndex {
			return i, true
		}
	}
	return -1, false
}

// Section returns the section at pos.
func (p Progress) Section(pos Position) (SectionInfo, bool) {
	i, ok := p.Find(pos)
	if !ok {
		return SectionInfo{}, false
	}
	return p.Sections[i], true
}

// FirstIncomplete returns the first section that is not complete.
func (p Progress) FirstIncomplete() (SectionInfo, bool) {
	for _, s := range p.Sections {
		if !s.Completed {
			return s, true
		}
	}
	return SectionInfo{}, false
}

// SectionAnsweredSum sums the per-section answered counts.
func (p Progress) SectionAnsweredSum() int {
	n := 0
	for _, s := range p.Sections {
		n += s.AnsweredQuestions
	}
	return n
}

// IntegrityError reports answer keys that match no indexed question.
type IntegrityError struct {
	Orphans []int
}

func (e *IntegrityError) Error() string {
	parts := make([]string, len(e.Orphans))
	for i, n := range e.Orphans {
		parts[i] = fmt.Sprint(n)
	}
	return fmt.Sprintf("answers without an indexed question: %s", strings.Join(parts, ", "))
}

// CheckIntegrity verifies that every answered key belongs to a question in
// one of the derived sections. When it returns nil the overall answered
// count equals the per-section sum.
func CheckIntegrity(p Progress, answered []int) error {
	known := make(map[int]bool, p.Overall.TotalQuestions)
	for _, s := range p.Sections {
		for _, q := range s.Questions {
			known[q.Number] = true
		}
	}
	var orphans []int
	for _, n := range answered {
		if !known[n] {
			orphans = append(orphans, n)
		}
	}
	if len(orphans) == 0 {
		return nil
	}
	sort.Ints(orphans)
	return &IntegrityError{Orphans: orphans}
}
