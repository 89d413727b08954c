// Package store is the relational side of the form service. A Store wraps
// one pooled *sql.DB; every operation acquires what it needs from the pool
// and releases it before returning, and multi-statement mutations run in a
// single transaction.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"github.com/mbolis/quick-brief/model"
)

type Store struct {
	db  *sql.DB
	now func() time.Time
}

func New(db *sql.DB) *Store {
	return &Store{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withTx runs fn in a transaction, committing only if fn returns nil.
func (s *Store) withTx(ctx context.Context, code string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, code+".begin_tx")
	}
	defer tx.Rollback()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, code+".commit")
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

const submissionColumns = `
	s.id, s.form_id, f.slug, f.title, s.status,
	s.created_at, s.updated_at, s.submitted_at, s.reviewed_at, s.reviewed_by`

const submissionFrom = `
	FROM submissions s
	INNER JOIN forms f ON (f.id = s.form_id)`

func scanSubmission(row scanner) (sub model.Submission, err error) {
	var submittedAt, reviewedAt sql.NullTime
	var reviewedBy sql.NullInt64
	err = row.Scan(
		&sub.ID, &sub.FormID, &sub.FormSlug, &sub.FormTitle, &sub.Status,
		&sub.CreatedAt, &sub.UpdatedAt, &submittedAt, &reviewedAt, &reviewedBy,
	)
	if err != nil {
		return
	}
	if submittedAt.Valid {
		sub.SubmittedAt = &submittedAt.Time
	}
	if reviewedAt.Valid {
		sub.ReviewedAt = &reviewedAt.Time
	}
	if reviewedBy.Valid {
		sub.ReviewedBy = &reviewedBy.Int64
	}
	return
}

func getSubmission(ctx context.Context, q querier, id string) (model.Submission, error) {
	sub, err := scanSubmission(q.QueryRowContext(ctx,
		`SELECT`+submissionColumns+submissionFrom+`
		WHERE s.id = ?`,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return sub, &model.NotFoundError{What: "submission", ID: id}
	}
	if err != nil {
		return sub, errors.Wrap(err, "db.get_submission")
	}
	return sub, nil
}

// nullValue scans the three nullable answer slots.
type nullValue struct {
	text sql.NullString
	b    sql.NullBool
	date sql.NullString
}

func (v *nullValue) targets() []any {
	return []any{&v.text, &v.b, &v.date}
}

func (v *nullValue) value() (out model.Value) {
	if v.text.Valid {
		out.Text = &v.text.String
	}
	if v.b.Valid {
		out.Bool = &v.b.Bool
	}
	if v.date.Valid {
		out.Date = &v.date.String
	}
	return
}
