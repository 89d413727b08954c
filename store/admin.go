package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/mbolis/quick-brief/log"
	"github.com/mbolis/quick-brief/model"
)

// ListLimit caps ListSubmissions. There is no paging past it.
const ListLimit = 200

// ListSubmissions returns submissions newest first, optionally filtered by
// status and by whether an admin has reviewed them.
func (s *Store) ListSubmissions(ctx context.Context, filter model.SubmissionFilter) ([]model.Submission, error) {
	var where []string
	var args []any
	if filter.Status != nil {
		where = append(where, "s.status = ?")
		args = append(args, *filter.Status)
	}
	if filter.Reviewed != nil {
		if *filter.Reviewed {
			where = append(where, "s.reviewed_at IS NOT NULL")
		} else {
			where = append(where, "s.reviewed_at IS NULL")
		}
	}

	query := `SELECT` + submissionColumns + submissionFrom
	if len(where) > 0 {
		query += "\n\tWHERE " + strings.Join(where, " AND ")
	}
	query += "\n\tORDER BY s.created_at DESC, s.rowid DESC\n\tLIMIT ?"
	args = append(args, ListLimit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "db.list_submissions")
	}
	defer rows.Close()

	items := []model.Submission{}
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, errors.Wrap(err, "db.list_submissions.scan")
		}
		items = append(items, sub)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "db.list_submissions.rows")
	}
	return items, nil
}

// SubmissionDetails returns a submission and every active question of its
// form, joined with the answer recorded for it when there is one.
func (s *Store) SubmissionDetails(ctx context.Context, id string) (sub model.Submission, qa []model.QA, err error) {
	err = s.withTx(ctx, "db.submission_details", func(tx *sql.Tx) error {
		sub, err = getSubmission(ctx, tx, id)
		if err != nil {
			return err
		}

		rows, err := tx.QueryContext(ctx, `
			SELECT
				q.id, q.section, q.question_text, q.qtype, q.required, q.sort_order,
				a.value_text, a.value_bool, a.value_date, a.updated_at
			FROM questions q
			LEFT OUTER JOIN answers a ON (a.question_id = q.id AND a.submission_id = ?)
			WHERE q.form_id = ?
				AND q.is_active = 1
			ORDER BY q.sort_order ASC, q.id ASC`,
			id, sub.FormID,
		)
		if err != nil {
			return errors.Wrap(err, "db.submission_details.qa")
		}
		defer rows.Close()

		qa = []model.QA{}
		for rows.Next() {
			var item model.QA
			var v nullValue
			var answeredAt sql.NullTime
			dest := []any{
				&item.QuestionID, &item.Section, &item.QuestionText, &item.QType, &item.Required, &item.SortOrder,
			}
			dest = append(dest, v.targets()...)
			dest = append(dest, &answeredAt)
			if err = rows.Scan(dest...); err != nil {
				return errors.Wrap(err, "db.submission_details.qa.scan")
			}
			item.Value = v.value()
			if answeredAt.Valid {
				item.AnswerUpdatedAt = &answeredAt.Time
			}
			qa = append(qa, item)
		}
		return errors.Wrap(rows.Err(), "db.submission_details.qa.rows")
	})
	return
}

// ToggleReview flips the reviewed marker: an unreviewed submission becomes
// reviewed now, a reviewed one becomes unreviewed. reviewed_by always records
// the admin who toggled last.
func (s *Store) ToggleReview(ctx context.Context, id string, reviewerID int64) (sub model.Submission, err error) {
	err = s.withTx(ctx, "db.toggle_review", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE submissions
			SET reviewed_at = CASE WHEN reviewed_at IS NULL THEN ? ELSE NULL END,
				reviewed_by = ?
			WHERE id = ?`,
			s.now(), reviewerID, id,
		)
		if err != nil {
			return errors.Wrap(err, "db.toggle_review.update")
		}
		err = expectOne(res, "db.toggle_review.update", func() error {
			return &model.NotFoundError{What: "submission", ID: id}
		})
		if err != nil {
			return err
		}

		sub, err = getSubmission(ctx, tx, id)
		return err
	})
	if err == nil {
		log.WithFields(log.Fields{
			"submission": id,
			"reviewer":   reviewerID,
			"reviewed":   sub.ReviewedAt != nil,
		}).Info("review toggled")
	}
	return
}

// DeleteSubmission removes a submission and its answers together.
func (s *Store) DeleteSubmission(ctx context.Context, id string) error {
	return s.withTx(ctx, "db.delete_submission", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			DELETE FROM answers
			WHERE submission_id = ?`,
			id,
		)
		if err != nil {
			return errors.Wrap(err, "db.delete_submission.answers")
		}

		res, err := tx.ExecContext(ctx, `
			DELETE FROM submissions
			WHERE id = ?`,
			id,
		)
		if err != nil {
			return errors.Wrap(err, "db.delete_submission")
		}
		return expectOne(res, "db.delete_submission", func() error {
			return &model.NotFoundError{What: "submission", ID: id}
		})
	})
}
