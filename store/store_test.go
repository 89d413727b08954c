package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mbolis/quick-brief/config"
	"github.com/mbolis/quick-brief/database"
	"github.com/mbolis/quick-brief/model"
)

// fixture is a migrated database holding the "brief" form:
//
//	Q1 checkbox required (sort 1), Q2 date required (sort 2),
//	Q3 text required (sort 3), Q4 text optional (sort 4), Q5 inactive text (sort 5)
//
// and an inactive "old" form with one question of its own.
type fixture struct {
	*Store
	formID int64
	q      map[string]int64
	other  int64

	mu    sync.Mutex
	clock time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.Open(config.Config{DBUrl: filepath.Join(t.TempDir(), "test.sqlite")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		Store: New(db),
		q:     map[string]int64{},
		clock: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	f.Store.now = func() time.Time {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.clock = f.clock.Add(time.Second)
		return f.clock
	}

	ctx := context.Background()
	f.formID, _, err = f.SeedForm(ctx, "brief", "Project brief", []model.Question{
		{Text: "Q1", QType: model.QTypeCheckbox, Required: true, SortOrder: 1},
		{Text: "Q2", QType: model.QTypeDate, Required: true, SortOrder: 2},
		{Text: "Q3", QType: model.QTypeText, Required: true, SortOrder: 3},
		{Text: "Q4", QType: model.QTypeText, SortOrder: 4},
		{Text: "Q5", QType: model.QTypeText, Required: true, SortOrder: 5},
	})
	require.NoError(t, err)

	rows, err := db.Query(`SELECT id, question_text FROM questions WHERE form_id = ?`, f.formID)
	require.NoError(t, err)
	for rows.Next() {
		var id int64
		var text string
		require.NoError(t, rows.Scan(&id, &text))
		f.q[text] = id
	}
	require.NoError(t, rows.Close())

	_, err = db.Exec(`UPDATE questions SET is_active = 0 WHERE id = ?`, f.q["Q5"])
	require.NoError(t, err)

	oldID, _, err := f.SeedForm(ctx, "old", "Old form", []model.Question{{Text: "legacy", SortOrder: 1}})
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE forms SET is_active = 0 WHERE id = ?`, oldID)
	require.NoError(t, err)
	require.NoError(t, db.QueryRow(`SELECT id FROM questions WHERE form_id = ?`, oldID).Scan(&f.other))

	return f
}

func (f *fixture) draft(t *testing.T) model.Submission {
	t.Helper()
	sub, err := f.CreateDraft(context.Background(), "brief")
	require.NoError(t, err)
	return sub
}

func (f *fixture) answer(id int64, value string) model.AnswerInput {
	in := model.AnswerInput{QuestionID: id}
	if value != "" {
		in.Value = json.RawMessage(value)
	}
	return in
}

func (f *fixture) countAnswers(t *testing.T, submissionID string) (n int) {
	t.Helper()
	require.NoError(t, f.db.QueryRow(`SELECT COUNT(*) FROM answers WHERE submission_id = ?`, submissionID).Scan(&n))
	return
}
