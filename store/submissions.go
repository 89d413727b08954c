package store

import (
	"context"
	"database/sql"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"

	"github.com/mbolis/quick-brief/answers"
	"github.com/mbolis/quick-brief/log"
	"github.com/mbolis/quick-brief/model"
)

// CreateDraft opens a new draft submission on the active form published under formSlug.
func (s *Store) CreateDraft(ctx context.Context, formSlug string) (model.Submission, error) {
	if formSlug == "" {
		return model.Submission{}, &model.ValidationError{Message: "formSlug required"}
	}

	form, err := formBySlug(ctx, s.db, formSlug)
	if err != nil {
		return model.Submission{}, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return model.Submission{}, errors.Wrap(err, "db.insert_submission.id")
	}

	now := s.now()
	sub := model.Submission{
		ID:        id.String(),
		FormID:    form.ID,
		FormSlug:  form.Slug,
		FormTitle: form.Title,
		Status:    model.Draft,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO submissions (id, form_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		sub.ID, sub.FormID, sub.Status, sub.CreatedAt, sub.UpdatedAt,
	)
	if err != nil {
		return model.Submission{}, errors.Wrap(err, "db.insert_submission")
	}

	log.WithFields(log.Fields{"submission": sub.ID, "form": form.Slug}).Debug("draft created")
	return sub, nil
}

// Submission returns a submission with the answers saved so far.
func (s *Store) Submission(ctx context.Context, id string) (sub model.Submission, saved []model.Answer, err error) {
	err = s.withTx(ctx, "db.get_submission", func(tx *sql.Tx) error {
		sub, err = getSubmission(ctx, tx, id)
		if err != nil {
			return err
		}
		saved, err = savedAnswers(ctx, tx, id)
		return err
	})
	return
}

// PatchAnswers upserts a batch of answers into a draft submission. The batch
// is all or nothing: any invalid entry rejects the whole batch.
func (s *Store) PatchAnswers(ctx context.Context, id string, batch []model.AnswerInput) error {
	return s.withTx(ctx, "db.patch_answers", func(tx *sql.Tx) error {
		sub, err := getSubmission(ctx, tx, id)
		if err != nil {
			return err
		}
		if err = sub.Status.CanEdit(); err != nil {
			return err
		}

		questions, err := activeQuestions(ctx, tx, sub.FormID)
		if err != nil {
			return err
		}
		byID := make(map[int64]model.Question, len(questions))
		for _, q := range questions {
			byID[q.ID] = q
		}

		writes, err := answers.Resolve(byID, batch)
		if err != nil {
			return err
		}

		now := s.now()
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO answers (submission_id, question_id, value_text, value_bool, value_date, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (submission_id, question_id) DO UPDATE SET
				value_text = excluded.value_text,
				value_bool = excluded.value_bool,
				value_date = excluded.value_date,
				updated_at = excluded.updated_at`)
		if err != nil {
			return errors.Wrap(err, "db.patch_answers.prepare")
		}
		defer stmt.Close()

		for _, w := range writes {
			_, err = stmt.ExecContext(ctx, id, w.QuestionID, w.Value.Text, w.Value.Bool, w.Value.Date, now)
			if err != nil {
				return errors.Wrap(err, "db.patch_answers.upsert")
			}
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE submissions
			SET updated_at = ?
			WHERE id = ?
				AND status = ?`,
			now, id, model.Draft,
		)
		if err != nil {
			return errors.Wrap(err, "db.patch_answers.touch")
		}
		return expectOne(res, "db.patch_answers.touch", func() error {
			return &model.ConflictError{Message: "only draft submissions can be edited"}
		})
	})
}

// Finalize moves a draft to submitted once every required question has a
// satisfying answer. On failure the submission stays a draft.
func (s *Store) Finalize(ctx context.Context, id string) (sub model.Submission, err error) {
	err = s.withTx(ctx, "db.finalize", func(tx *sql.Tx) error {
		sub, err = getSubmission(ctx, tx, id)
		if err != nil {
			return err
		}
		next, err := sub.Status.Finalize()
		if err != nil {
			return err
		}

		questions, err := activeQuestions(ctx, tx, sub.FormID)
		if err != nil {
			return err
		}
		saved, err := savedAnswers(ctx, tx, id)
		if err != nil {
			return err
		}
		recorded := make(map[int64]model.Value, len(saved))
		for _, a := range saved {
			recorded[a.QuestionID] = a.Value
		}

		if missing := answers.Missing(questions, recorded); len(missing) > 0 {
			return &model.ValidationError{
				Message:            "required questions are missing",
				MissingQuestionIDs: missing,
			}
		}

		now := s.now()
		res, err := tx.ExecContext(ctx, `
			UPDATE submissions
			SET status = ?,
				submitted_at = ?,
				updated_at = ?
			WHERE id = ?
				AND status = ?`,
			next, now, now, id, model.Draft,
		)
		if err != nil {
			return errors.Wrap(err, "db.finalize.update")
		}
		err = expectOne(res, "db.finalize.update", func() error {
			return &model.ConflictError{Message: "submission already submitted"}
		})
		if err != nil {
			return err
		}

		sub.Status = next
		sub.SubmittedAt = &now
		sub.UpdatedAt = now
		return nil
	})
	if err == nil {
		log.WithFields(log.Fields{"submission": id, "form": sub.FormSlug}).Info("submission finalized")
	}
	return
}

func savedAnswers(ctx context.Context, q querier, submissionID string) ([]model.Answer, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT question_id, value_text, value_bool, value_date, updated_at
		FROM answers
		WHERE submission_id = ?
		ORDER BY question_id`,
		submissionID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "db.get_answers")
	}
	defer rows.Close()

	saved := []model.Answer{}
	for rows.Next() {
		var a model.Answer
		var v nullValue
		dest := append([]any{&a.QuestionID}, v.targets()...)
		dest = append(dest, &a.UpdatedAt)
		if err = rows.Scan(dest...); err != nil {
			return nil, errors.Wrap(err, "db.get_answers.scan")
		}
		a.Value = v.value()
		saved = append(saved, a)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "db.get_answers.rows")
	}
	return saved, nil
}

// expectOne turns a compare-and-swap update that matched no row into the error built by miss.
func expectOne(res sql.Result, code string, miss func() error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, code+".verify")
	}
	if n < 1 {
		return miss()
	}
	return nil
}
