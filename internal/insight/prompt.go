package insight

import (
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/sportsmind/internal/battery"
	"github.com/abhisek/sportsmind/internal/catalog"
)

const systemPrompt = `You are a sports psychologist writing a short, practical note for an athlete and the people around them. You receive scores from a psychology battery (each subcategory on a 0-50 scale, self esteem total on 0-200). Be concrete and encouraging. Never diagnose.`

func buildUserMessage(r catalog.Result, role battery.Role) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Answered by: %s\n", role.DisplayName())
	fmt.Fprintf(&b, "Athlete type: %s\n", r.AthleteType)
	if r.AthleteTypeDescription != "" {
		fmt.Fprintf(&b, "Type description: %s\n", r.AthleteTypeDescription)
	}
	fmt.Fprintf(&b, "Self esteem total: %.1f\n", r.SelfEsteemTotal)

	idx := battery.DefaultIndex()
	scores := r.Scores.ByKey()
	for _, cat := range idx.Categories {
		fmt.Fprintf(&b, "\n%s:\n", cat.Title)
		for _, sec := range cat.Sections {
			fmt.Fprintf(&b, "- %s: %.1f\n", sec.Title, scores[sec.Key])
		}
	}

	if len(r.Strengths) > 0 {
		fmt.Fprintf(&b, "\nTop traits: %s\n", strings.Join(r.Strengths, ", "))
	}
	if len(r.Weaknesses) > 0 {
		fmt.Fprintf(&b, "Lowest traits: %s\n", strings.Join(r.Weaknesses, ", "))
	}

	b.WriteString(`
Instructions:
1. Write a one sentence headline describing this athlete.
2. Name up to three strengths worth leaning on, grounded in the highest scores.
3. Name up to three focus areas, grounded in the lowest scores.
4. Suggest up to three drills the athlete can practise before the next test.
Address the athlete directly unless the answers came from a parent or coach.`)
	return b.String()
}

// lowest returns the n lowest-scoring subcategory keys, ascending.
func lowest(r catalog.Result, n int) []string {
	scores := r.Scores.ByKey()
	keys := make([]string, 0, len(scores))
	for k := range scores {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if scores[a] != scores[b] {
			if scores[a] < scores[b] {
				return -1
			}
			return 1
		}
		return strings.Compare(a, b)
	})
	return keys[:min(n, len(keys))]
}

func sectionTitle(key string) string {
	for _, cat := range battery.DefaultIndex().Categories {
		if sec, _, ok := battery.DefaultIndex().Section(cat.Key, key); ok {
			return sec.Title
		}
	}
	return key
}
