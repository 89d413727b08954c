// Package answers maps raw answer input onto typed value slots and decides
// whether recorded answers satisfy required questions. Nothing here touches
// storage.
package answers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/mbolis/quick-brief/model"
)

const DateLayout = "2006-01-02"

var (
	ErrNotBoolean = errors.New("checkbox value must be boolean")
	ErrNotDate    = errors.New("date value must be YYYY-MM-DD")
	ErrNotString  = errors.New("text value must be string")
)

// Coerce converts raw into the slot selected by qtype. Null, absent and
// empty-string input clear every slot regardless of qtype.
func Coerce(qtype model.QType, raw json.RawMessage) (model.Value, error) {
	raw = bytes.TrimSpace(raw)
	if isEmpty(raw) {
		return model.Value{}, nil
	}

	switch qtype {
	case model.QTypeCheckbox:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return model.Value{}, ErrNotBoolean
		}
		return model.Value{Bool: &b}, nil

	case model.QTypeDate:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return model.Value{}, ErrNotDate
		}
		d, err := time.Parse(DateLayout, s)
		if err != nil {
			return model.Value{}, ErrNotDate
		}
		s = d.Format(DateLayout)
		return model.Value{Date: &s}, nil

	default:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return model.Value{}, ErrNotString
		}
		return model.Value{Text: &s}, nil
	}
}

func isEmpty(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null" || string(raw) == `""`
}

// Write is one resolved upsert of a patch batch.
type Write struct {
	QuestionID int64
	Value      model.Value
}

// Resolve checks a whole batch against the questions a submission may answer
// (the active questions of its form, by id). Either every entry is valid and
// the writes come back in first-appearance order with later duplicates
// replacing earlier ones, or nothing is returned and the error lists every
// problem found.
func Resolve(questions map[int64]model.Question, batch []model.AnswerInput) ([]Write, error) {
	var (
		problems *multierror.Error
		bad      []int64
		writes   []Write
		index    = make(map[int64]int, len(batch))
	)

	for i, in := range batch {
		if in.QuestionID == 0 {
			problems = multierror.Append(problems, fmt.Errorf("answers[%d]: questionId is required", i))
			continue
		}

		q, ok := questions[in.QuestionID]
		if !ok {
			bad = append(bad, in.QuestionID)
			problems = multierror.Append(problems, fmt.Errorf("invalid questionId: %d", in.QuestionID))
			continue
		}

		v, err := Coerce(q.QType, in.Value)
		if err != nil {
			bad = append(bad, in.QuestionID)
			problems = multierror.Append(problems, fmt.Errorf("%w (%d)", err, in.QuestionID))
			continue
		}

		if at, seen := index[in.QuestionID]; seen {
			writes[at].Value = v
			continue
		}
		index[in.QuestionID] = len(writes)
		writes = append(writes, Write{QuestionID: in.QuestionID, Value: v})
	}

	if problems != nil {
		problems.ErrorFormat = joinErrors
		return nil, &model.ValidationError{
			Message:     "invalid answers",
			QuestionIDs: bad,
			Err:         problems,
		}
	}
	return writes, nil
}

func joinErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}
