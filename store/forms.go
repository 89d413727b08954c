package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/mbolis/quick-brief/model"
)

// FormBySlug returns the active form published under slug.
func (s *Store) FormBySlug(ctx context.Context, slug string) (model.Form, error) {
	return formBySlug(ctx, s.db, slug)
}

// ActiveQuestions returns the active questions of a form by ascending sort order.
func (s *Store) ActiveQuestions(ctx context.Context, formID int64) ([]model.Question, error) {
	return activeQuestions(ctx, s.db, formID)
}

func formBySlug(ctx context.Context, q querier, slug string) (form model.Form, err error) {
	err = q.QueryRowContext(ctx, `
		SELECT id, slug, title, is_active
		FROM forms
		WHERE slug = ?
			AND is_active = 1`,
		slug,
	).Scan(&form.ID, &form.Slug, &form.Title, &form.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return form, &model.NotFoundError{What: "form", ID: slug}
	}
	if err != nil {
		return form, errors.Wrap(err, "db.get_form")
	}
	return form, nil
}

func activeQuestions(ctx context.Context, q querier, formID int64) ([]model.Question, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, form_id, section, question_text, qtype, required, sort_order, is_active
		FROM questions
		WHERE form_id = ?
			AND is_active = 1
		ORDER BY sort_order ASC, id ASC`,
		formID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "db.get_questions")
	}
	defer rows.Close()

	questions := []model.Question{}
	for rows.Next() {
		var qn model.Question
		err = rows.Scan(
			&qn.ID, &qn.FormID, &qn.Section, &qn.Text, &qn.QType,
			&qn.Required, &qn.SortOrder, &qn.IsActive,
		)
		if err != nil {
			return nil, errors.Wrap(err, "db.get_questions.scan")
		}
		questions = append(questions, qn)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "db.get_questions.rows")
	}
	return questions, nil
}
