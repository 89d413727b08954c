package answers

import (
	"sort"
	"strings"

	"github.com/mbolis/quick-brief/model"
)

// Satisfied reports whether v counts as an answer for a question of kind qtype.
// A checkbox needs an explicit choice, true or false; unset is not enough.
func Satisfied(qtype model.QType, v model.Value) bool {
	switch qtype {
	case model.QTypeCheckbox:
		return v.Bool != nil
	case model.QTypeDate:
		return v.Date != nil
	default:
		return v.Text != nil && strings.TrimSpace(*v.Text) != ""
	}
}

// Missing returns the ids of the required questions that have no satisfying
// answer, ordered by sort order. questions must be the active questions of
// the form.
func Missing(questions []model.Question, recorded map[int64]model.Value) []int64 {
	ordered := make([]model.Question, len(questions))
	copy(ordered, questions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SortOrder < ordered[j].SortOrder
	})

	var missing []int64
	for _, q := range ordered {
		if !q.Required {
			continue
		}
		if !Satisfied(q.QType, recorded[q.ID]) {
			missing = append(missing, q.ID)
		}
	}
	return missing
}
