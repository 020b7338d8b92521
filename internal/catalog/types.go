package catalog

import (
	"time"

	"github.com/abhisek/sportsmind/internal/battery"
)

// QuestionDTO is a question as served by the scoring service.
type QuestionDTO struct {
	QuestionID     string `json:"question_id" yaml:"id"`
	QuestionNumber int    `json:"question_number" yaml:"number"`
	QuestionText   string `json:"question_text" yaml:"text"`
	Category       string `json:"category" yaml:"category"`
	Subcategory    string `json:"subcategory" yaml:"subcategory"`
	Target         string `json:"target" yaml:"target"`
	IsReverseScore bool   `json:"is_reverse_score" yaml:"reverse"`
	IsActive       bool   `json:"is_active" yaml:"active"`
}

// Question converts the DTO to the battery model.
func (d QuestionDTO) Question() battery.Question {
	return battery.Question{
		ID:            d.QuestionID,
		Number:        d.QuestionNumber,
		Text:          d.QuestionText,
		Category:      d.Category,
		Subcategory:   d.Subcategory,
		Target:        battery.Role(d.Target),
		Active:        d.IsActive,
		ReverseScored: d.IsReverseScore,
	}
}

// QuestionDTOFrom converts a battery question to its wire form.
func QuestionDTOFrom(q battery.Question) QuestionDTO {
	return QuestionDTO{
		QuestionID:     q.ID,
		QuestionNumber: q.Number,
		QuestionText:   q.Text,
		Category:       q.Category,
		Subcategory:    q.Subcategory,
		Target:         string(q.Target),
		IsReverseScore: q.ReverseScored,
		IsActive:       q.Active,
	}
}

// QuestionList is the payload of the per-role question endpoint.
type QuestionList struct {
	Questions  []QuestionDTO `json:"questions"`
	TotalCount int           `json:"total_count"`
}

// Answer is one resolved answer on the wire.
type Answer struct {
	QuestionID  string `json:"question_id"`
	AnswerValue int    `json:"answer_value"`
}

// Submission is the body of a test submission.
type Submission struct {
	UserID   string    `json:"user_id"`
	TestDate time.Time `json:"test_date"`
	Answers  []Answer  `json:"answers"`
}

// Scores holds the per-subcategory scores, each normalized to 50.
type Scores struct {
	SelfDetermination float64 `json:"self_determination" yaml:"self_determination"`
	SelfAcceptance    float64 `json:"self_acceptance" yaml:"self_acceptance"`
	SelfWorth         float64 `json:"self_worth" yaml:"self_worth"`
	SelfEfficacy      float64 `json:"self_efficacy" yaml:"self_efficacy"`

	Introspection float64 `json:"introspection" yaml:"introspection"`
	SelfControl   float64 `json:"self_control" yaml:"self_control"`
	Devotion      float64 `json:"devotion" yaml:"devotion"`
	Intuition     float64 `json:"intuition" yaml:"intuition"`
	Sensitivity   float64 `json:"sensitivity" yaml:"sensitivity"`
	Steadiness    float64 `json:"steadiness" yaml:"steadiness"`
	Comparison    float64 `json:"comparison" yaml:"comparison"`
	Result        float64 `json:"result" yaml:"result"`
	Assertion     float64 `json:"assertion" yaml:"assertion"`
	Commitment    float64 `json:"commitment" yaml:"commitment"`

	Courage           float64 `json:"courage" yaml:"courage"`
	Resilience        float64 `json:"resilience" yaml:"resilience"`
	Cooperation       float64 `json:"cooperation" yaml:"cooperation"`
	NaturalAcceptance float64 `json:"natural_acceptance" yaml:"natural_acceptance"`
	NonRationality    float64 `json:"non_rationality" yaml:"non_rationality"`
}

// ByKey returns the scores keyed by subcategory.
func (s Scores) ByKey() map[string]float64 {
	return map[string]float64{
		"self_determination": s.SelfDetermination,
		"self_acceptance":    s.SelfAcceptance,
		"self_worth":         s.SelfWorth,
		"self_efficacy":      s.SelfEfficacy,
		"introspection":      s.Introspection,
		"self_control":       s.SelfControl,
		"devotion":           s.Devotion,
		"intuition":          s.Intuition,
		"sensitivity":        s.Sensitivity,
		"steadiness":         s.Steadiness,
		"comparison":         s.Comparison,
		"result":             s.Result,
		"assertion":          s.Assertion,
		"commitment":         s.Commitment,
		"courage":            s.Courage,
		"resilience":         s.Resilience,
		"cooperation":        s.Cooperation,
		"natural_acceptance": s.NaturalAcceptance,
		"non_rationality":    s.NonRationality,
	}
}

// SetByKey assigns the score for a subcategory. Unknown keys are ignored.
func (s *Scores) SetByKey(key string, v float64) {
	switch key {
	case "self_determination":
		s.SelfDetermination = v
	case "self_acceptance":
		s.SelfAcceptance = v
	case "self_worth":
		s.SelfWorth = v
	case "self_efficacy":
		s.SelfEfficacy = v
	case "introspection":
		s.Introspection = v
	case "self_control":
		s.SelfControl = v
	case "devotion":
		s.Devotion = v
	case "intuition":
		s.Intuition = v
	case "sensitivity":
		s.Sensitivity = v
	case "steadiness":
		s.Steadiness = v
	case "comparison":
		s.Comparison = v
	case "result":
		s.Result = v
	case "assertion":
		s.Assertion = v
	case "commitment":
		s.Commitment = v
	case "courage":
		s.Courage = v
	case "resilience":
		s.Resilience = v
	case "cooperation":
		s.Cooperation = v
	case "natural_acceptance":
		s.NaturalAcceptance = v
	case "non_rationality":
		s.NonRationality = v
	}
}

// Result is a scored test with its analysis.
type Result struct {
	ResultID        string    `json:"result_id" yaml:"result_id"`
	UserID          string    `json:"user_id" yaml:"user_id"`
	TargetSelection string    `json:"target_selection" yaml:"target_selection"`
	TestDate        time.Time `json:"test_date" yaml:"test_date"`

	Scores `yaml:",inline"`

	SelfEsteemTotal        float64            `json:"self_esteem_total" yaml:"self_esteem_total"`
	SelfEsteemAnalysis     string             `json:"self_esteem_analysis" yaml:"self_esteem_analysis"`
	SelfEsteemImprovements []string           `json:"self_esteem_improvements" yaml:"self_esteem_improvements"`
	AthleteType            string             `json:"athlete_type" yaml:"athlete_type"`
	AthleteTypeDescription string             `json:"athlete_type_description" yaml:"athlete_type_description"`
	AthleteTypePercentages map[string]float64 `json:"athlete_type_percentages" yaml:"athlete_type_percentages"`
	Strengths              []string           `json:"strengths" yaml:"strengths"`
	Weaknesses             []string           `json:"weaknesses" yaml:"weaknesses"`
	SportsmanshipBalance   string             `json:"sportsmanship_balance" yaml:"sportsmanship_balance"`
}

// History is a page of past results.
type History struct {
	Results    []Result `json:"results"`
	TotalCount int      `json:"total_count"`
}

// HistoryQuery selects a page of history.
type HistoryQuery struct {
	Limit  int
	Offset int
	// SortBy is "date" or "score".
	SortBy string
	// Period is "all", "1month", "3months" or "6months".
	Period string
}
