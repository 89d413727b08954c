package routes

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbolis/quick-brief/httpx"
	"github.com/mbolis/quick-brief/model"
)

type patchBody struct {
	Answers []map[string]any `json:"answers"`
}

func TestGetForm(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/forms/brief", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[formResponse](t, rec)
	assert.Equal(t, "brief", body.Form.Slug)
	assert.Equal(t, "Project brief", body.Form.Title)
	require.Len(t, body.Questions, 4)
	for i, text := range []string{"Q1", "Q2", "Q3", "Q4"} {
		assert.Equal(t, text, body.Questions[i].Text)
	}

	rec = f.do(t, http.MethodGet, "/api/forms/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateDraftErrors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		body any
		want int
	}{
		{"unknown form", map[string]string{"formSlug": "nope"}, http.StatusNotFound},
		{"missing slug", map[string]string{}, http.StatusBadRequest},
		{"not json", "{", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/submissions", tt.body, nil)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestSubmissionLifecycle(t *testing.T) {
	f := newFixture(t)
	id := f.draft(t)
	path := "/api/submissions/" + id

	rec := f.do(t, http.MethodPatch, path, patchBody{Answers: []map[string]any{
		f.answer(f.q["Q1"], `false`),
		f.answer(f.q["Q3"], `"   "`),
	}}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	rec = f.do(t, http.MethodPost, path+"/submit", nil, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	missing := decode[httpx.ErrorBody](t, rec)
	assert.Equal(t, []int64{f.q["Q2"], f.q["Q3"]}, missing.MissingQuestionIDs)

	rec = f.do(t, http.MethodPatch, path, patchBody{Answers: []map[string]any{
		f.answer(f.q["Q2"], `"2024-02-29"`),
		f.answer(f.q["Q3"], `"hello"`),
	}}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, path, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resumed := decode[struct {
		Submission model.Submission `json:"submission"`
		Answers    []model.Answer   `json:"answers"`
	}](t, rec)
	assert.Equal(t, model.Draft, resumed.Submission.Status)
	assert.Len(t, resumed.Answers, 3)

	rec = f.do(t, http.MethodPost, path+"/submit", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	done := decode[struct {
		OK         bool             `json:"ok"`
		Submission model.Submission `json:"submission"`
	}](t, rec)
	assert.True(t, done.OK)
	assert.Equal(t, model.Submitted, done.Submission.Status)
	assert.NotNil(t, done.Submission.SubmittedAt)

	rec = f.do(t, http.MethodPatch, path, patchBody{Answers: []map[string]any{
		f.answer(f.q["Q4"], `"late"`),
	}}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodPost, path+"/submit", nil, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPatchSubmissionRejects(t *testing.T) {
	f := newFixture(t)
	id := f.draft(t)
	path := "/api/submissions/" + id

	t.Run("answers not an array", func(t *testing.T) {
		rec := f.do(t, http.MethodPatch, path, `{"answers":{"questionId":1}}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "answers must be an array", decode[httpx.ErrorBody](t, rec).Error)
	})

	t.Run("answers missing", func(t *testing.T) {
		rec := f.do(t, http.MethodPatch, path, `{}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("impossible date", func(t *testing.T) {
		rec := f.do(t, http.MethodPatch, path, patchBody{Answers: []map[string]any{
			f.answer(f.q["Q1"], `true`),
			f.answer(f.q["Q2"], `"2024-13-40"`),
		}}, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, []int64{f.q["Q2"]}, decode[httpx.ErrorBody](t, rec).QuestionIDs)

		rec = f.do(t, http.MethodGet, path, nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, string(decode[map[string]json.RawMessage](t, rec)["answers"]))
	})

	t.Run("unknown submission", func(t *testing.T) {
		rec := f.do(t, http.MethodPatch, "/api/submissions/does-not-exist", patchBody{Answers: []map[string]any{}}, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
