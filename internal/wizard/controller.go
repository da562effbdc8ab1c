// Package wizard implements the 3-step proposal creation flow: per-step
// schema validation, line-item editing with write-time subtotal derivation,
// and a two-phase reset. Validation failures never leave this package as Go
// errors; they are data attached to typed field identifiers.
package wizard

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/nurpe/proposal-builder/internal/calc"
	"github.com/nurpe/proposal-builder/internal/model"
	"github.com/nurpe/proposal-builder/internal/store"
)

// ItemField names an editable line-item field.
type ItemField string

const (
	ItemFieldServiceName  ItemField = "serviceName"
	ItemFieldDescription  ItemField = "description"
	ItemFieldRate         ItemField = "rate"
	ItemFieldHours        ItemField = "hours"
	ItemFieldIsFixedPrice ItemField = "isFixedPrice"
)

// StepErrorNoItems gates the components step as a whole, distinct from
// per-item field errors.
const StepErrorNoItems = "Please add at least one billing component"

// AdvanceInput carries the payload for the current step. Only the member
// matching the current step is consulted.
type AdvanceInput struct {
	Proposer *ProposerForm
	Client   *ClientForm
	Currency string
}

// AdvanceResult reports the outcome of one Advance call.
type AdvanceResult struct {
	OK              bool
	Step            Step
	ReadyForPreview bool
	FieldErrors     []FieldError
	StepError       string
}

// Controller drives one session's wizard. Form state lives here until a
// successful transition merges it into the store; the store is never touched
// by a failed validation.
type Controller struct {
	mu    sync.Mutex
	store *store.Store
	val   *Validator

	step     Step
	proposer ProposerForm
	client   ClientForm
	items    []model.LineItem
	currency string

	fieldErrs  FieldErrors
	stepErr    string
	resetToken *uuid.UUID
}

// NewController seeds the working forms from the store's draft, so a
// rehydrated session resumes with its previous values at step 0.
func NewController(s *store.Store, val *Validator, defaultCurrency string) *Controller {
	draft := s.Get()
	currencyCode := draft.Currency
	if currencyCode == "" {
		currencyCode = defaultCurrency
	}
	return &Controller{
		store: s,
		val:   val,
		step:  StepProposer,
		proposer: ProposerForm{
			CompanyName:    draft.CompanyName,
			CompanyAddress: draft.CompanyAddress,
			CompanyEmail:   draft.CompanyEmail,
			CompanyPhone:   draft.CompanyPhone,
			BusinessRegNo:  draft.BusinessRegNo,
		},
		client: ClientForm{
			ClientName:    draft.ClientName,
			ClientCompany: draft.ClientCompany,
			ClientAddress: draft.ClientAddress,
			ProjectName:   draft.ProjectName,
		},
		items:     draft.Components,
		currency:  currencyCode,
		fieldErrs: make(FieldErrors),
	}
}

// Step returns the current step.
func (c *Controller) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Items returns a copy of the working line-item sequence.
func (c *Controller) Items() []model.LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.CloneItems(c.items)
}

// Currency returns the working currency code.
func (c *Controller) Currency() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currency
}

// FieldErrors returns the current typed error entries in stable order.
func (c *Controller) FieldErrors() []FieldError {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fieldErrs.List()
}

// StepError returns the current whole-step error, empty when none.
func (c *Controller) StepError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stepErr
}

// Advance validates the current step and, on success, merges the validated
// values into the store and moves forward. At the components step a
// successful advance signals readiness for preview instead of changing
// steps. On failure nothing is merged and the field errors are surfaced.
func (c *Controller) Advance(ctx context.Context, in AdvanceInput) AdvanceResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.step {
	case StepProposer:
		if in.Proposer != nil {
			c.proposer = *in.Proposer
		}
		c.fieldErrs.clearStep(StepProposer)
		if errs := c.val.Proposer(c.proposer); len(errs) > 0 {
			c.fieldErrs.merge(errs)
			return c.result(false, false)
		}
		c.store.MergeProposer(ctx, model.ProposerDetails{
			CompanyName:    c.proposer.CompanyName,
			CompanyAddress: c.proposer.CompanyAddress,
			CompanyEmail:   c.proposer.CompanyEmail,
			CompanyPhone:   c.proposer.CompanyPhone,
			BusinessRegNo:  c.proposer.BusinessRegNo,
		})
		c.step = StepClient
		return c.result(true, false)

	case StepClient:
		if in.Client != nil {
			c.client = *in.Client
		}
		c.fieldErrs.clearStep(StepClient)
		if errs := c.val.Client(c.client); len(errs) > 0 {
			c.fieldErrs.merge(errs)
			return c.result(false, false)
		}
		c.store.MergeClient(ctx, model.ClientDetails{
			ClientName:    c.client.ClientName,
			ClientCompany: c.client.ClientCompany,
			ClientAddress: c.client.ClientAddress,
			ProjectName:   c.client.ProjectName,
		})
		c.step = StepComponents
		return c.result(true, false)

	default: // StepComponents, terminal
		if in.Currency != "" {
			c.currency = in.Currency
		}
		if len(c.items) == 0 {
			c.stepErr = StepErrorNoItems
			return c.result(false, false)
		}
		c.stepErr = ""
		c.fieldErrs.clearStep(StepComponents)
		valid := true
		for _, item := range c.items {
			if errs := c.val.Item(item); len(errs) > 0 {
				c.fieldErrs.merge(errs)
				valid = false
			}
		}
		if !valid {
			return c.result(false, false)
		}
		c.store.SetLineItems(ctx, c.items, c.currency)
		return c.result(true, true)
	}
}

// Retreat moves one step back without validation; a no-op at the first step.
func (c *Controller) Retreat() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step > StepProposer {
		c.step--
	}
	return c.step
}

// AddLineItem appends a fresh item with a new identity. When the sequence is
// non-empty the last item is revalidated first and an invalid tail refuses
// the add, so invalid items cannot pile up.
func (c *Controller) AddLineItem(ctx context.Context) (model.LineItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n := len(c.items); n > 0 {
		last := c.items[n-1]
		if errs := c.val.Item(last); len(errs) > 0 {
			c.fieldErrs.clearItem(last.ID)
			c.fieldErrs.merge(errs)
			return model.LineItem{}, false
		}
		c.fieldErrs.clearItem(last.ID)
	}

	item := model.LineItem{ID: uuid.New()}
	c.fieldErrs.clearItem(item.ID)
	c.items = append(c.items, item)
	c.stepErr = ""
	c.store.SetLineItems(ctx, c.items, c.currency)
	return item, true
}

// RemoveLineItem removes the item with the given identity and clears any
// errors attached to it.
func (c *Controller) RemoveLineItem(ctx context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return ErrUnknownItem
	}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	c.fieldErrs.clearItem(id)
	c.store.SetLineItems(ctx, c.items, c.currency)
	return nil
}

// EditLineItemField updates one field of one item. Edits to rate, hours, or
// the pricing mode recompute the subtotal in the same update; switching from
// hourly to fixed clears the stored hours. The edited field is revalidated
// and its error entry set or cleared accordingly.
func (c *Controller) EditLineItemField(ctx context.Context, id uuid.UUID, field ItemField, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return ErrUnknownItem
	}
	item := &c.items[idx]

	switch field {
	case ItemFieldServiceName:
		s, ok := value.(string)
		if !ok {
			return ErrInvalidValue
		}
		item.ServiceName = s
	case ItemFieldDescription:
		s, ok := value.(string)
		if !ok {
			return ErrInvalidValue
		}
		item.Description = s
	case ItemFieldRate:
		n, ok := numberOrNil(value)
		if !ok {
			return ErrInvalidValue
		}
		item.Rate = n
	case ItemFieldHours:
		n, ok := numberOrNil(value)
		if !ok {
			return ErrInvalidValue
		}
		item.Hours = n
	case ItemFieldIsFixedPrice:
		b, ok := value.(bool)
		if !ok {
			return ErrInvalidValue
		}
		item.IsFixedPrice = b
		if b {
			// Hours are meaningless for fixed pricing.
			item.Hours = nil
		}
	default:
		return ErrInvalidValue
	}

	if field == ItemFieldRate || field == ItemFieldHours || field == ItemFieldIsFixedPrice {
		item.Subtotal = calc.Subtotal(*item)
	}

	c.revalidateField(*item, field)
	return nil
}

// SetCurrency updates the working currency and persists it with the current
// sequence.
func (c *Controller) SetCurrency(ctx context.Context, code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currency = code
	c.store.SetLineItems(ctx, c.items, c.currency)
}

// RequestReset starts a reset without mutating anything and returns the
// confirmation token the caller must echo back.
func (c *Controller) RequestReset() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	token := uuid.New()
	c.resetToken = &token
	return token
}

// ConfirmReset performs the reset if the token matches the pending request:
// the store is cleared, all form state returns to empty defaults, and the
// wizard returns to the first step.
func (c *Controller) ConfirmReset(ctx context.Context, token uuid.UUID, defaultCurrency string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.resetToken == nil || *c.resetToken != token {
		return ErrBadResetToken
	}
	c.resetToken = nil
	c.store.Reset(ctx)
	c.step = StepProposer
	c.proposer = ProposerForm{}
	c.client = ClientForm{}
	c.items = []model.LineItem{}
	c.currency = defaultCurrency
	c.fieldErrs = make(FieldErrors)
	c.stepErr = ""
	return nil
}

// CancelReset discards a pending reset request, if any.
func (c *Controller) CancelReset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetToken = nil
}

func (c *Controller) indexOf(id uuid.UUID) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

// revalidateField re-checks one edited field and updates only its error
// entry, so errors clear as soon as the field becomes valid again.
func (c *Controller) revalidateField(item model.LineItem, field ItemField) {
	ref := FieldRef{Step: StepComponents, Field: string(field), ItemID: item.ID}
	errs := c.val.Item(item)
	if msg, ok := errs[ref]; ok {
		c.fieldErrs[ref] = msg
		return
	}
	delete(c.fieldErrs, ref)
}

func (c *Controller) result(ok, ready bool) AdvanceResult {
	return AdvanceResult{
		OK:              ok,
		Step:            c.step,
		ReadyForPreview: ready,
		FieldErrors:     c.fieldErrs.List(),
		StepError:       c.stepErr,
	}
}

func numberOrNil(value any) (*float64, bool) {
	switch v := value.(type) {
	case nil:
		return nil, true
	case float64:
		return &v, true
	case float32:
		f := float64(v)
		return &f, true
	case int:
		f := float64(v)
		return &f, true
	default:
		return nil, false
	}
}
