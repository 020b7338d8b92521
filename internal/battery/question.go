package battery

import (
	"fmt"
	"sort"
	"strings"
)

// BatterySize is the number of questions in one complete test for a role.
const BatterySize = 99

// Role identifies the respondent a question is written for.
type Role string

const (
	RolePlayer Role = "player"
	RoleFather Role = "father"
	RoleMother Role = "mother"
	RoleCoach  Role = "coach"
	RoleAdult  Role = "adult"

	// TargetAll marks a question shared by every role.
	TargetAll Role = "all"
)

// Roles returns the respondent roles in display order.
func Roles() []Role {
	return []Role{RolePlayer, RoleCoach, RoleMother, RoleFather, RoleAdult}
}

// DisplayName returns a human-readable role label.
func (r Role) DisplayName() string {
	switch r {
	case RolePlayer:
		return "Player"
	case RoleFather:
		return "Father"
	case RoleMother:
		return "Mother"
	case RoleCoach:
		return "Coach"
	case RoleAdult:
		return "Adult"
	case TargetAll:
		return "Everyone"
	default:
		return string(r)
	}
}

// ParseRole validates a respondent role tag. The wildcard target is not a
// respondent role and is rejected.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Roles() {
		if r == known {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Question is a single scored item as delivered by the question catalog.
type Question struct {
	ID            string
	Number        int
	Text          string
	Category      string
	Subcategory   string
	Target        Role
	Active        bool
	ReverseScored bool
}

// ForRole keeps the active questions a respondent of the given role answers.
// Sportsmanship questions are common to every role; the other categories are
// role specific.
func ForRole(questions []Question, role Role) []Question {
	out := make([]Question, 0, len(questions))
	for _, q := range questions {
		if !q.Active {
			continue
		}
		if q.Category == CategorySportsmanship || q.Target == role || q.Target == TargetAll {
			out = append(out, q)
		}
	}
	return out
}

// InferRole guesses the respondent role from a role-filtered catalog.
func InferRole(questions []Question) Role {
	for _, q := range questions {
		if q.Category != CategorySportsmanship && q.Target != TargetAll && q.Target != "" {
			return q.Target
		}
	}
	if len(questions) > 0 && questions[0].Target != "" && questions[0].Target != TargetAll {
		return questions[0].Target
	}
	return RolePlayer
}

// SortByNumber orders questions by display number in place.
func SortByNumber(questions []Question) {
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].Number < questions[j].Number
	})
}

// ByNumber indexes questions by display number.
func ByNumber(questions []Question) map[int]Question {
	m := make(map[int]Question, len(questions))
	for _, q := range questions {
		m[q.Number] = q
	}
	return m
}
