package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/sportsmind/internal/battery"
)

func TestQuestions_SortsAndConverts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/questions/for-user/coach", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(QuestionList{
			Questions: []QuestionDTO{
				{QuestionID: "b", QuestionNumber: 2, Category: "self_esteem", Subcategory: "self_worth", Target: "coach", IsActive: true},
				{QuestionID: "a", QuestionNumber: 1, Category: "sportsmanship", Subcategory: "courage", Target: "all", IsActive: true, IsReverseScore: true},
			},
			TotalCount: 2,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("secret"))
	qs, err := c.Questions(context.Background(), battery.RoleCoach)
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, 1, qs[0].Number)
	assert.Equal(t, "a", qs[0].ID)
	assert.True(t, qs[0].ReverseScored)
	assert.Equal(t, battery.RoleCoach, qs[1].Target)
}

func TestQuestions_EmptyIsDataUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"questions":[],"total_count":0}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Questions(context.Background(), battery.RolePlayer)
	var du *DataUnavailableError
	require.ErrorAs(t, err, &du)
	assert.Equal(t, battery.RolePlayer, du.Role)
	assert.Nil(t, du.Err)
}

func TestQuestions_ServerErrorIsDataUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"database down"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Questions(context.Background(), battery.RolePlayer)
	var du *DataUnavailableError
	require.ErrorAs(t, err, &du)

	var re *RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusInternalServerError, re.Status)
	assert.Equal(t, "database down", re.Message)
}

func TestSubmit_SendsEnvelope(t *testing.T) {
	when := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/tests/submit", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Equal(t, "2026-03-01T10:00:00Z", raw["test_date"])
		answers := raw["answers"].([]any)
		assert.Len(t, answers, 1)

		json.NewEncoder(w).Encode(Result{ResultID: "r-1", AthleteType: "Anchor", Scores: Scores{Courage: 35}})
	}))
	defer srv.Close()

	res, err := New(srv.URL).Submit(context.Background(), Submission{
		UserID:   "u",
		TestDate: when,
		Answers:  []Answer{{QuestionID: "q", AnswerValue: 7}},
	})
	require.NoError(t, err)
	assert.Equal(t, "r-1", res.ResultID)
	assert.Equal(t, 35.0, res.Courage)
}

func TestSubmit_ValidationDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":[
			{"loc":["body","answers",3,"answer_value"],"msg":"Answer value must be between 0 and 10"},
			{"msg":"Must submit exactly 99 answers, got 98"}
		]}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Submit(context.Background(), Submission{})
	var re *RemoteError
	require.ErrorAs(t, err, &re)
	assert.False(t, re.Network)
	assert.Equal(t, http.StatusUnprocessableEntity, re.Status)
	require.Len(t, re.Fields, 2)
	assert.Equal(t, "body.answers.3.answer_value: Answer value must be between 0 and 10", re.Fields[0].String())
	assert.Equal(t, "unknown field", re.Fields[1].Field)
}

func TestSubmit_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	_, err := New(addr, WithTimeout(time.Second)).Submit(context.Background(), Submission{})
	var re *RemoteError
	require.ErrorAs(t, err, &re)
	assert.True(t, re.Network)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestParseErrorBody_PlainText(t *testing.T) {
	re := parseErrorBody(http.StatusBadGateway, "Bad Gateway", []byte("upstream timeout"))
	assert.Equal(t, "upstream timeout", re.Message)
	assert.Contains(t, re.Error(), "HTTP 502")
}

func TestHistory_Query(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/api/v1/tests/history", r.URL.Path)
		assert.Equal(t, "5", q.Get("limit"))
		assert.Equal(t, "10", q.Get("offset"))
		assert.Equal(t, "score", q.Get("sort_by"))
		assert.Equal(t, "3months", q.Get("filter_period"))
		json.NewEncoder(w).Encode(History{Results: []Result{{ResultID: "x"}}, TotalCount: 11})
	}))
	defer srv.Close()

	h, err := New(srv.URL).History(context.Background(), HistoryQuery{Limit: 5, Offset: 10, SortBy: "score", Period: "3months"})
	require.NoError(t, err)
	assert.Equal(t, 11, h.TotalCount)
	require.Len(t, h.Results, 1)
}

func TestResult_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/tests/results/abc", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"result not found"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Result(context.Background(), "abc")
	var re *RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusNotFound, re.Status)
	assert.Equal(t, "result not found", re.Message)
}

func TestScores_ByKeyRoundTrip(t *testing.T) {
	var s Scores
	for _, cat := range battery.DefaultIndex().Categories {
		for i, sec := range cat.Sections {
			s.SetByKey(sec.Key, float64(i+1))
		}
	}
	m := s.ByKey()
	assert.Len(t, m, 19)
	assert.Equal(t, 10.0, m["commitment"])
	assert.Equal(t, 4.0, m["self_efficacy"])
}
