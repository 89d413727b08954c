package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbolis/quick-brief/model"
)

func (f *fixture) admin(t *testing.T) int64 {
	t.Helper()
	id, err := f.SaveAdmin(context.Background(), "admin@example.com", []byte("hash"))
	require.NoError(t, err)
	return id
}

func TestListSubmissionsFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	adminID := f.admin(t)

	first := f.draft(t)
	second := f.draft(t)
	third := f.draft(t)

	_, err := f.db.Exec(`UPDATE submissions SET status = 'submitted' WHERE id = ?`, second.ID)
	require.NoError(t, err)
	_, err = f.ToggleReview(ctx, third.ID, adminID)
	require.NoError(t, err)

	ids := func(items []model.Submission) (out []string) {
		for _, s := range items {
			out = append(out, s.ID)
		}
		return
	}
	draft, submitted := model.Draft, model.Submitted
	yes, no := true, false

	tests := []struct {
		name   string
		filter model.SubmissionFilter
		want   []string
	}{
		{"all newest first", model.SubmissionFilter{}, []string{third.ID, second.ID, first.ID}},
		{"drafts", model.SubmissionFilter{Status: &draft}, []string{third.ID, first.ID}},
		{"submitted", model.SubmissionFilter{Status: &submitted}, []string{second.ID}},
		{"reviewed", model.SubmissionFilter{Reviewed: &yes}, []string{third.ID}},
		{"unreviewed drafts", model.SubmissionFilter{Status: &draft, Reviewed: &no}, []string{first.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := f.ListSubmissions(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(items))
		})
	}

	items, err := f.ListSubmissions(ctx, model.SubmissionFilter{})
	require.NoError(t, err)
	assert.Equal(t, "Project brief", items[0].FormTitle)
	assert.Equal(t, "brief", items[0].FormSlug)
}

func TestListSubmissionsCapped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < ListLimit+5; i++ {
		f.draft(t)
	}
	items, err := f.ListSubmissions(ctx, model.SubmissionFilter{})
	require.NoError(t, err)
	assert.Len(t, items, ListLimit)
}

func TestSubmissionDetails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.draft(t)
	require.NoError(t, f.PatchAnswers(ctx, sub.ID, []model.AnswerInput{
		f.answer(f.q["Q2"], `"2025-02-03"`),
	}))

	got, qa, err := f.SubmissionDetails(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, got.ID)
	assert.Equal(t, "Project brief", got.FormTitle)

	require.Len(t, qa, 4, "active questions only")
	assert.Equal(t, f.q["Q1"], qa[0].QuestionID)
	assert.True(t, qa[0].Required)
	assert.True(t, qa[0].Value.IsEmpty())
	assert.Nil(t, qa[0].AnswerUpdatedAt)

	assert.Equal(t, f.q["Q2"], qa[1].QuestionID)
	require.NotNil(t, qa[1].Date)
	assert.Equal(t, "2025-02-03", *qa[1].Date)
	assert.NotNil(t, qa[1].AnswerUpdatedAt)

	_, _, err = f.SubmissionDetails(ctx, "missing")
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestToggleReviewTwiceRestores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	adminID := f.admin(t)
	sub := f.draft(t)

	reviewed, err := f.ToggleReview(ctx, sub.ID, adminID)
	require.NoError(t, err)
	assert.NotNil(t, reviewed.ReviewedAt)
	require.NotNil(t, reviewed.ReviewedBy)
	assert.Equal(t, adminID, *reviewed.ReviewedBy)
	assert.Equal(t, model.Draft, reviewed.Status, "review is independent of status")

	restored, err := f.ToggleReview(ctx, sub.ID, adminID)
	require.NoError(t, err)
	assert.Nil(t, restored.ReviewedAt)

	_, err = f.ToggleReview(ctx, "missing", adminID)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestDeleteSubmission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.draft(t)
	keep := f.draft(t)
	batch := []model.AnswerInput{f.answer(f.q["Q3"], `"x"`), f.answer(f.q["Q1"], `true`)}
	require.NoError(t, f.PatchAnswers(ctx, sub.ID, batch))
	require.NoError(t, f.PatchAnswers(ctx, keep.ID, batch))

	require.NoError(t, f.DeleteSubmission(ctx, sub.ID))
	assert.Zero(t, f.countAnswers(t, sub.ID))
	assert.Equal(t, 2, f.countAnswers(t, keep.ID))

	_, _, err := f.SubmissionDetails(ctx, sub.ID)
	assert.True(t, errors.Is(err, model.ErrNotFound))

	err = f.DeleteSubmission(ctx, sub.ID)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}
