package fixture

import (
	_ "embed"
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/sportsmind/internal/battery"
	"github.com/abhisek/sportsmind/internal/catalog"
)

//go:embed bank.yaml
var bankYAML []byte

// questionNamespace seeds the deterministic question ids so a restarted
// server accepts answers keyed by ids it issued earlier.
var questionNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("sportsmind:question"))

type bankFile struct {
	Voices   map[string]string `yaml:"voices"`
	Sections []struct {
		Category    string `yaml:"category"`
		Subcategory string `yaml:"subcategory"`
		Items       []struct {
			Text    string `yaml:"text"`
			Reverse bool   `yaml:"reverse"`
		} `yaml:"items"`
	} `yaml:"sections"`
}

// Bank is the full question bank across every role.
type Bank struct {
	questions []battery.Question
	byID      map[string]battery.Question
}

// DefaultBank parses the embedded bank.
func DefaultBank() (*Bank, error) {
	return LoadBank(bankYAML)
}

// LoadBank parses a YAML bank. Sportsmanship items are issued once with
// target "all"; every other item is issued once per respondent role.
func LoadBank(data []byte) (*Bank, error) {
	var f bankFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}

	idx := battery.DefaultIndex()
	b := &Bank{byID: make(map[string]battery.Question)}
	add := func(q battery.Question) {
		q.ID = uuid.NewSHA1(questionNamespace, []byte(fmt.Sprintf("%s/%d", q.Target, q.Number))).String()
		q.Active = true
		b.questions = append(b.questions, q)
		b.byID[q.ID] = q
	}

	number := 0
	for _, sec := range f.Sections {
		if !idx.Contains(sec.Category, sec.Subcategory) {
			return nil, fmt.Errorf("question bank: unknown section %s/%s", sec.Category, sec.Subcategory)
		}
		for _, item := range sec.Items {
			number++
			q := battery.Question{
				Number:        number,
				Text:          item.Text,
				Category:      sec.Category,
				Subcategory:   sec.Subcategory,
				ReverseScored: item.Reverse,
			}
			if sec.Category == battery.CategorySportsmanship {
				q.Target = battery.TargetAll
				add(q)
				continue
			}
			for _, role := range battery.Roles() {
				rq := q
				rq.Target = role
				rq.Text = f.Voices[string(role)] + item.Text
				add(rq)
			}
		}
	}
	if number != battery.BatterySize {
		return nil, fmt.Errorf("question bank: %d questions per role, want %d", number, battery.BatterySize)
	}
	return b, nil
}

// ForRole returns the questions a respondent of role answers, by number.
func (b *Bank) ForRole(role battery.Role) []battery.Question {
	qs := battery.ForRole(b.questions, role)
	battery.SortByNumber(qs)
	return qs
}

// Lookup finds a question by id.
func (b *Bank) Lookup(id string) (battery.Question, bool) {
	q, ok := b.byID[id]
	return q, ok
}

// RoleOf infers the respondent role from the role-specific questions
// answered. Submissions with only shared questions score as player.
func (b *Bank) RoleOf(answers []catalog.Answer) battery.Role {
	for _, a := range answers {
		if q, ok := b.byID[a.QuestionID]; ok && q.Target != battery.TargetAll {
			return q.Target
		}
	}
	return battery.RolePlayer
}
