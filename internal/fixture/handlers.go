package fixture

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/abhisek/sportsmind/internal/battery"
	"github.com/abhisek/sportsmind/internal/catalog"
	"github.com/abhisek/sportsmind/pkg/logger"
)

// detail is one validation failure in the service's error envelope.
type detail struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

func unprocessable(c *gin.Context, details ...detail) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"detail": details})
}

func newResultID() string {
	return uuid.NewString()
}

func (s *Server) questionsForUser(c *gin.Context) {
	role, err := battery.ParseRole(c.Param("role"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": err.Error()})
		return
	}

	qs := s.bank.ForRole(role)
	list := catalog.QuestionList{Questions: make([]catalog.QuestionDTO, 0, len(qs)), TotalCount: len(qs)}
	for _, q := range qs {
		list.Questions = append(list.Questions, catalog.QuestionDTOFrom(q))
	}
	c.JSON(http.StatusOK, list)
}

// validateSubmission applies the service's request checks.
func validateSubmission(sub catalog.Submission) []detail {
	var out []detail
	if _, err := uuid.Parse(sub.UserID); err != nil {
		out = append(out, detail{Loc: []any{"body", "user_id"}, Msg: fmt.Sprintf("Invalid UUID format: %s", sub.UserID)})
	}
	if len(sub.Answers) != battery.BatterySize {
		out = append(out, detail{Loc: []any{"body", "answers"},
			Msg: fmt.Sprintf("exactly %d answers are required, got %d", battery.BatterySize, len(sub.Answers))})
	}
	for i, a := range sub.Answers {
		if _, err := uuid.Parse(a.QuestionID); err != nil {
			out = append(out, detail{Loc: []any{"body", "answers", i, "question_id"}, Msg: fmt.Sprintf("Invalid UUID format: %s", a.QuestionID)})
		}
		if a.AnswerValue < 0 || a.AnswerValue > 10 {
			out = append(out, detail{Loc: []any{"body", "answers", i, "answer_value"}, Msg: "answer value must be between 0 and 10"})
		}
	}
	return out
}

func (s *Server) submit(c *gin.Context) {
	var sub catalog.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		unprocessable(c, detail{Loc: []any{"body"}, Msg: err.Error()})
		return
	}
	if details := validateSubmission(sub); len(details) > 0 {
		s.log.Warn(c.Request.Context(), "submission rejected", logger.Int("issues", len(details)))
		unprocessable(c, details...)
		return
	}

	testDate := sub.TestDate
	if testDate.IsZero() {
		testDate = s.now()
	}
	res := catalog.Result{
		ResultID:        s.newID(),
		UserID:          sub.UserID,
		TargetSelection: string(s.bank.RoleOf(sub.Answers)),
		TestDate:        testDate,
		Scores:          Score(s.bank, sub.Answers),
	}
	Analyze(&res)
	s.results.add(res)

	s.log.Info(c.Request.Context(), "submission scored",
		logger.String("result_id", res.ResultID),
		logger.String("athlete_type", res.AthleteType))
	c.JSON(http.StatusOK, res)
}

func (s *Server) history(c *gin.Context) {
	f, details := parseHistory(c)
	if len(details) > 0 {
		unprocessable(c, details...)
		return
	}
	page, total := s.results.query(f, s.now())
	c.JSON(http.StatusOK, catalog.History{Results: page, TotalCount: total})
}

func parseHistory(c *gin.Context) (historyFilter, []detail) {
	f := historyFilter{
		SortBy: c.DefaultQuery("sort_by", "date"),
		Period: c.DefaultQuery("filter_period", "all"),
		UserID: c.Query("user_id"),
	}
	var details []detail
	intParam := func(name string, def int) int {
		raw := c.Query(name)
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			details = append(details, detail{Loc: []any{"query", name}, Msg: "value is not a valid non-negative integer"})
			return def
		}
		return v
	}
	floatParam := func(name string) *float64 {
		raw := c.Query(name)
		if raw == "" {
			return nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			details = append(details, detail{Loc: []any{"query", name}, Msg: "value is not a valid number"})
			return nil
		}
		return &v
	}

	f.Limit = intParam("limit", 10)
	f.Offset = intParam("offset", 0)
	f.ScoreMin = floatParam("score_min")
	f.ScoreMax = floatParam("score_max")
	if types := c.Query("athlete_types"); types != "" {
		for _, t := range strings.Split(types, ",") {
			f.AthleteTypes = append(f.AthleteTypes, strings.TrimSpace(t))
		}
	}
	return f, details
}

func (s *Server) result(c *gin.Context) {
	res, ok := s.results.get(c.Param("id"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": "result not found"})
		return
	}
	c.JSON(http.StatusOK, res)
}
