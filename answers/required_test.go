package answers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mbolis/quick-brief/model"
)

func TestSatisfied(t *testing.T) {
	assert.True(t, Satisfied(model.QTypeCheckbox, model.Value{Bool: ptr(false)}))
	assert.True(t, Satisfied(model.QTypeCheckbox, model.Value{Bool: ptr(true)}))
	assert.False(t, Satisfied(model.QTypeCheckbox, model.Value{}))

	assert.True(t, Satisfied(model.QTypeDate, model.Value{Date: ptr("2024-01-01")}))
	assert.False(t, Satisfied(model.QTypeDate, model.Value{Text: ptr("2024-01-01")}))

	assert.True(t, Satisfied(model.QTypeText, model.Value{Text: ptr(" ok ")}))
	assert.False(t, Satisfied(model.QTypeText, model.Value{Text: ptr(" \t\n")}))
	assert.False(t, Satisfied(model.QTypeText, model.Value{}))
}

func TestMissing(t *testing.T) {
	questions := []model.Question{
		{ID: 10, QType: model.QTypeText, Required: true, SortOrder: 3},
		{ID: 11, QType: model.QTypeCheckbox, Required: true, SortOrder: 1},
		{ID: 12, QType: model.QTypeDate, Required: false, SortOrder: 2},
		{ID: 13, QType: model.QTypeDate, Required: true, SortOrder: 2},
	}

	t.Run("nothing answered", func(t *testing.T) {
		assert.Equal(t, []int64{11, 13, 10}, Missing(questions, nil))
	})

	t.Run("all satisfied", func(t *testing.T) {
		recorded := map[int64]model.Value{
			10: {Text: ptr("brief")},
			11: {Bool: ptr(false)},
			13: {Date: ptr("2025-05-01")},
		}
		assert.Empty(t, Missing(questions, recorded))
	})

	t.Run("blank text and cleared checkbox", func(t *testing.T) {
		recorded := map[int64]model.Value{
			10: {Text: ptr("   ")},
			11: {},
			13: {Date: ptr("2025-05-01")},
		}
		assert.Equal(t, []int64{11, 10}, Missing(questions, recorded))
	})

	t.Run("input order untouched", func(t *testing.T) {
		Missing(questions, nil)
		assert.Equal(t, int64(10), questions[0].ID)
	})
}
