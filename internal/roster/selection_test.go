package roster

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSelectionTransitions(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	tests := []struct {
		name string
		from Selection
		to   func(Selection) Selection
		want Selection
	}{
		{"create from none", None(), Selection.Create, Creating()},
		{"create from viewing", Viewing(a), Selection.Create, Creating()},
		{"view from editing", Editing(a), func(s Selection) Selection { return s.View(b) }, Viewing(b)},
		{"edit from viewing", Viewing(a), func(s Selection) Selection { return s.Edit(a) }, Editing(a)},
		{"edit from none", None(), func(s Selection) Selection { return s.Edit(b) }, Editing(b)},
		{"cancel new", Creating(), Selection.Cancel, None()},
		{"cancel editing", Editing(a), Selection.Cancel, None()},
		{"deleted same id", Viewing(a), func(s Selection) Selection { return s.Deleted(a) }, None()},
		{"deleted editing same id", Editing(a), func(s Selection) Selection { return s.Deleted(a) }, None()},
		{"deleted other id", Viewing(a), func(s Selection) Selection { return s.Deleted(b) }, Viewing(a)},
		{"deleted while creating", Creating(), func(s Selection) Selection { return s.Deleted(a) }, Creating()},
		{"saved new", Creating(), func(s Selection) Selection { return s.Saved(b) }, Viewing(b)},
		{"saved editing", Editing(a), func(s Selection) Selection { return s.Saved(a) }, Viewing(a)},
		{"saved while viewing", Viewing(a), func(s Selection) Selection { return s.Saved(b) }, Viewing(a)},
		{"saved while none", None(), func(s Selection) Selection { return s.Saved(b) }, None()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.to(tt.from))
		})
	}
}

func TestSelectionAccessors(t *testing.T) {
	id := uuid.New()

	assert.Equal(t, SelectionNone, Selection{}.Kind(), "zero value is None")

	_, ok := Creating().ID()
	assert.False(t, ok)

	got, ok := Editing(id).ID()
	assert.True(t, ok)
	assert.Equal(t, id, got)

	assert.True(t, Viewing(id).Refers(id))
	assert.False(t, Creating().Refers(uuid.Nil))
	assert.True(t, Creating().IsForm())
	assert.True(t, Editing(id).IsForm())
	assert.False(t, Viewing(id).IsForm())

	assert.Equal(t, "none", None().String())
	assert.Equal(t, "viewing("+id.String()+")", Viewing(id).String())
}
