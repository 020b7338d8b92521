package fixture

import (
	"fmt"
	"math"
	"slices"

	"github.com/abhisek/sportsmind/internal/battery"
	"github.com/abhisek/sportsmind/internal/catalog"
)

// Athlete types in tie-break order.
const (
	TypeStriker   = "Striker"
	TypeAttacker  = "Attacker"
	TypeGameMaker = "Game Maker"
	TypeAnchor    = "Anchor"
	TypeDefender  = "Defender"
)

var athleteTypes = []struct {
	name   string
	traits [3]string
	desc   string
}{
	{TypeStriker, [3]string{"result", "assertion", "comparison"},
		"Chases outcomes and acts fast. Sets clear goals and puts the result first."},
	{TypeAttacker, [3]string{"result", "assertion", "intuition"},
		"Aggressive and result driven. Opens up situations and fights on the front line."},
	{TypeGameMaker, [3]string{"steadiness", "introspection", "devotion"},
		"Reads the whole team and makes sound calls as the playmaker. Balanced, analytical and flexible."},
	{TypeAnchor, [3]string{"steadiness", "devotion", "introspection"},
		"The team's foundation. Stays calm in hard moments and supports others."},
	{TypeDefender, [3]string{"steadiness", "devotion", "sensitivity"},
		"Keeps the team stable at the back and heads off danger. Reliable and cooperative."},
}

// qualityOrder is the tie-break order for strengths and weaknesses.
var qualityOrder = []string{
	"commitment", "result", "steadiness", "devotion", "self_control",
	"assertion", "sensitivity", "intuition", "introspection", "comparison",
}

var selfEsteemKeys = []string{"self_efficacy", "self_determination", "self_acceptance", "self_worth"}

var sportsmanshipKeys = []string{"courage", "resilience", "cooperation", "natural_acceptance", "non_rationality"}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Score averages the answers per subcategory, reversing flagged items, and
// normalizes each mean to 50. Answers to unknown questions are skipped.
func Score(bank *Bank, answers []catalog.Answer) catalog.Scores {
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, a := range answers {
		q, ok := bank.Lookup(a.QuestionID)
		if !ok {
			continue
		}
		v := float64(a.AnswerValue)
		if q.ReverseScored {
			v = 10 - v
		}
		sums[q.Subcategory] += v
		counts[q.Subcategory]++
	}

	var s catalog.Scores
	for key, n := range counts {
		s.SetByKey(key, round1(sums[key]/float64(n)/10*50))
	}
	return s
}

// Analyze fills the derived fields of a scored result.
func Analyze(r *catalog.Result) {
	scores := r.Scores.ByKey()

	total := 0.0
	for _, k := range selfEsteemKeys {
		total += scores[k]
	}
	r.SelfEsteemTotal = round1(total)

	r.AthleteType, r.AthleteTypeDescription, r.AthleteTypePercentages = athleteType(scores)
	r.Strengths, r.Weaknesses = strengthsWeaknesses(scores)
	r.SelfEsteemAnalysis = selfEsteemAnalysis(scores, r.SelfEsteemTotal)
	r.SelfEsteemImprovements = selfEsteemImprovements(scores)
	r.SportsmanshipBalance = sportsmanshipBalance(scores)
}

func athleteType(scores map[string]float64) (string, string, map[string]float64) {
	values := make([]float64, len(athleteTypes))
	best, sum := 0, 0.0
	for i, t := range athleteTypes {
		values[i] = (scores[t.traits[0]] + scores[t.traits[1]] + scores[t.traits[2]]) / 3
		sum += values[i]
		if values[i] > values[best] {
			best = i
		}
	}
	pct := make(map[string]float64, len(athleteTypes))
	for i, t := range athleteTypes {
		if sum > 0 {
			pct[t.name] = round1(values[i] / sum * 100)
		} else {
			pct[t.name] = 0
		}
	}
	return athleteTypes[best].name, athleteTypes[best].desc, pct
}

func strengthsWeaknesses(scores map[string]float64) (strengths, weaknesses []string) {
	keys := slices.Clone(qualityOrder)
	slices.SortStableFunc(keys, func(a, b string) int {
		switch {
		case scores[a] > scores[b]:
			return -1
		case scores[a] < scores[b]:
			return 1
		}
		return 0
	})
	for _, k := range keys[:5] {
		strengths = append(strengths, title(k))
	}
	for _, k := range keys[len(keys)-5:] {
		weaknesses = append(weaknesses, title(k))
	}
	return strengths, weaknesses
}

func selfEsteemAnalysis(scores map[string]float64, total float64) string {
	level := "needs attention"
	switch {
	case total >= 160:
		level = "very healthy"
	case total >= 140:
		level = "healthy"
	case total >= 120:
		level = "average"
	}
	hi, lo := extremes(scores, selfEsteemKeys)
	return fmt.Sprintf("Your self esteem is %s. %s is a clear strength (%.1f points), while %s (%.1f points) has the most room to grow. "+
		"Keep the overall balance and build up the weaker side to keep developing.",
		level, title(hi), scores[hi], title(lo), scores[lo])
}

func selfEsteemImprovements(scores map[string]float64) []string {
	var out []string
	if scores["self_efficacy"] < 30 {
		out = append(out, "Set small goals and stack up successes to build confidence.")
	}
	if scores["self_determination"] < 30 {
		out = append(out, "Make small everyday choices yourself to grow ownership.")
	}
	if scores["self_acceptance"] < 30 {
		out = append(out, "Look at your strengths and weaknesses objectively and practise accepting yourself as you are.")
	}
	if scores["self_worth"] < 30 {
		out = append(out, "Notice how you contribute to others and the role you play.")
	}
	out = append(out,
		"Set aside regular time to reflect on yourself.",
		"Focus on your own growth rather than comparing with others.",
		"Treat failures as chances to learn.",
	)
	return out[:min(5, len(out))]
}

func sportsmanshipBalance(scores map[string]float64) string {
	sum := 0.0
	for _, k := range sportsmanshipKeys {
		sum += scores[k]
	}
	avg := sum / float64(len(sportsmanshipKeys))

	level := "has room to become more balanced"
	switch {
	case avg >= 40:
		level = "is very well balanced"
	case avg >= 35:
		level = "is well balanced"
	case avg >= 30:
		level = "is mostly balanced"
	}
	hi, lo := extremes(scores, sportsmanshipKeys)
	return fmt.Sprintf("Your sportsmanship %s. %s stands out (%.1f points), while %s (%.1f points) has room to grow. "+
		"Working on %s deliberately will round out your sportsmanship.",
		level, title(hi), scores[hi], title(lo), scores[lo], title(lo))
}

// extremes returns the first highest and first lowest key.
func extremes(scores map[string]float64, keys []string) (hi, lo string) {
	hi, lo = keys[0], keys[0]
	for _, k := range keys[1:] {
		if scores[k] > scores[hi] {
			hi = k
		}
		if scores[k] < scores[lo] {
			lo = k
		}
	}
	return hi, lo
}

func title(key string) string {
	idx := battery.DefaultIndex()
	for _, cat := range idx.Categories {
		if sec, _, ok := idx.Section(cat.Key, key); ok {
			return sec.Title
		}
	}
	return key
}
