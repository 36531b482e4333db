package roster

import (
	"fmt"

	"github.com/google/uuid"
)

// SelectionKind tells which variant a Selection holds
type SelectionKind int

const (
	SelectionNone SelectionKind = iota
	SelectionNew
	SelectionViewing
	SelectionEditing
)

func (k SelectionKind) String() string {
	switch k {
	case SelectionNew:
		return "new"
	case SelectionViewing:
		return "viewing"
	case SelectionEditing:
		return "editing"
	default:
		return "none"
	}
}

// Selection is what a panel currently shows for one entity kind:
// nothing, a blank form, a record, or a record's edit form.
// The zero value is None. Viewing and Editing carry the record id only;
// the record itself is resolved against the Store at render time.
type Selection struct {
	kind SelectionKind
	id   uuid.UUID
}

// None returns the empty selection
func None() Selection { return Selection{} }

// Creating returns the selection of a blank create form
func Creating() Selection { return Selection{kind: SelectionNew} }

// Viewing returns the selection showing record id
func Viewing(id uuid.UUID) Selection { return Selection{kind: SelectionViewing, id: id} }

// Editing returns the selection editing record id
func Editing(id uuid.UUID) Selection { return Selection{kind: SelectionEditing, id: id} }

// Kind returns the variant
func (s Selection) Kind() SelectionKind { return s.kind }

// ID returns the referenced record id for Viewing and Editing
func (s Selection) ID() (uuid.UUID, bool) {
	if s.kind == SelectionViewing || s.kind == SelectionEditing {
		return s.id, true
	}
	return uuid.Nil, false
}

// Refers reports whether the selection points at record id
func (s Selection) Refers(id uuid.UUID) bool {
	ref, ok := s.ID()
	return ok && ref == id
}

// IsForm reports whether the selection shows an editor
func (s Selection) IsForm() bool {
	return s.kind == SelectionNew || s.kind == SelectionEditing
}

// Create opens a blank form
func (s Selection) Create() Selection { return Creating() }

// View shows record id
func (s Selection) View(id uuid.UUID) Selection { return Viewing(id) }

// Edit opens the edit form of record id. Authorization is checked by the caller.
func (s Selection) Edit(id uuid.UUID) Selection { return Editing(id) }

// Cancel closes the panel
func (s Selection) Cancel() Selection { return None() }

// Deleted closes the panel if it refers to the deleted record id
func (s Selection) Deleted(id uuid.UUID) Selection {
	if s.Refers(id) {
		return None()
	}
	return s
}

// Saved moves a form to viewing the stored record
func (s Selection) Saved(id uuid.UUID) Selection {
	if s.IsForm() {
		return Viewing(id)
	}
	return s
}

func (s Selection) String() string {
	if id, ok := s.ID(); ok {
		return fmt.Sprintf("%s(%s)", s.kind, id)
	}
	return s.kind.String()
}
