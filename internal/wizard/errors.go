package wizard

import (
	"errors"
	"sort"

	"github.com/google/uuid"
)

var (
	// ErrUnknownItem is returned when an item operation names an identity
	// that is not in the sequence.
	ErrUnknownItem = errors.New("unknown line item")
	// ErrInvalidValue is returned when an edit carries a value of the wrong
	// type for the target field.
	ErrInvalidValue = errors.New("invalid field value")
	// ErrBadResetToken is returned when ConfirmReset is called without a
	// matching pending reset request.
	ErrBadResetToken = errors.New("invalid reset confirmation token")
)

// FieldRef identifies one form field: a step plus field name, with the item
// identity set for line-item fields.
type FieldRef struct {
	Step   Step
	Field  string
	ItemID uuid.UUID
}

// FieldErrors maps field identifiers to their current validation message.
type FieldErrors map[FieldRef]string

// FieldError is the wire form of one entry.
type FieldError struct {
	Step    int    `json:"step"`
	Field   string `json:"field"`
	ItemID  string `json:"itemId,omitempty"`
	Message string `json:"message"`
}

func (fe FieldErrors) merge(other FieldErrors) {
	for ref, msg := range other {
		fe[ref] = msg
	}
}

// clearStep drops every error belonging to the given step, item-level
// entries included.
func (fe FieldErrors) clearStep(step Step) {
	for ref := range fe {
		if ref.Step == step {
			delete(fe, ref)
		}
	}
}

// clearItem drops every error attached to one line item, so a fresh item at
// the same position never inherits stale state.
func (fe FieldErrors) clearItem(id uuid.UUID) {
	for ref := range fe {
		if ref.ItemID == id {
			delete(fe, ref)
		}
	}
}

// List returns the entries in a stable order for transport.
func (fe FieldErrors) List() []FieldError {
	out := make([]FieldError, 0, len(fe))
	for ref, msg := range fe {
		item := FieldError{Step: int(ref.Step), Field: ref.Field, Message: msg}
		if ref.ItemID != uuid.Nil {
			item.ItemID = ref.ItemID.String()
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Step != out[j].Step {
			return out[i].Step < out[j].Step
		}
		if out[i].ItemID != out[j].ItemID {
			return out[i].ItemID < out[j].ItemID
		}
		return out[i].Field < out[j].Field
	})
	return out
}
