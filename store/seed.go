package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/mbolis/quick-brief/model"
)

// SeedForm makes sure the form published under slug exists and holds the given
// questions. A missing form is created only when title is set. Questions already
// present with the same sort order and text are skipped, so seeding is repeatable.
func (s *Store) SeedForm(ctx context.Context, slug, title string, questions []model.Question) (formID int64, inserted int, err error) {
	err = s.withTx(ctx, "db.seed", func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `SELECT id FROM forms WHERE slug = ?`, slug).Scan(&formID)
		switch {
		case errors.Is(err, sql.ErrNoRows) && title == "":
			return &model.NotFoundError{What: "form", ID: slug}
		case errors.Is(err, sql.ErrNoRows):
			res, err := tx.ExecContext(ctx, `
				INSERT INTO forms (slug, title, is_active, created_at)
				VALUES (?, ?, 1, ?)`,
				slug, title, s.now(),
			)
			if err != nil {
				return errors.Wrap(err, "db.seed.insert_form")
			}
			if formID, err = res.LastInsertId(); err != nil {
				return errors.Wrap(err, "db.seed.insert_form.id")
			}
		case err != nil:
			return errors.Wrap(err, "db.seed.get_form")
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO questions (form_id, section, question_text, qtype, required, sort_order, is_active, created_at)
			SELECT ?, ?, ?, ?, ?, ?, 1, ?
			WHERE NOT EXISTS (
				SELECT 1 FROM questions
				WHERE form_id = ?
					AND sort_order = ?
					AND question_text = ?
			)`)
		if err != nil {
			return errors.Wrap(err, "db.seed.questions.prepare")
		}
		defer stmt.Close()

		now := s.now()
		for _, q := range questions {
			qtype := q.QType
			if qtype == "" {
				qtype = model.QTypeText
			}
			res, err := stmt.ExecContext(ctx,
				formID, q.Section, q.Text, qtype, q.Required, q.SortOrder, now,
				formID, q.SortOrder, q.Text,
			)
			if err != nil {
				return errors.Wrap(err, "db.seed.questions.insert")
			}
			n, err := res.RowsAffected()
			if err != nil {
				return errors.Wrap(err, "db.seed.questions.verify")
			}
			inserted += int(n)
		}
		return nil
	})
	return
}
