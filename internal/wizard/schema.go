package wizard

import (
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/nurpe/proposal-builder/internal/model"
)

// ProposerForm is the proposer step payload.
type ProposerForm struct {
	CompanyName    string `json:"companyName" validate:"min=2"`
	CompanyAddress string `json:"companyAddress" validate:"min=10"`
	CompanyEmail   string `json:"companyEmail" validate:"required,email"`
	CompanyPhone   string `json:"companyPhone" validate:"required,phone"`
	BusinessRegNo  string `json:"businessRegNo"`
}

// ClientForm is the client step payload.
type ClientForm struct {
	ClientName    string `json:"clientName" validate:"min=2"`
	ClientCompany string `json:"clientCompany" validate:"min=2"`
	ClientAddress string `json:"clientAddress" validate:"min=10"`
	ProjectName   string `json:"projectName" validate:"min=3"`
}

// itemSchema mirrors model.LineItem for validation purposes only.
type itemSchema struct {
	ServiceName string   `validate:"min=2"`
	Description string   `validate:"min=10"`
	Rate        *float64 `validate:"omitempty,gt=0"`
	Subtotal    float64  `validate:"gte=0"`
}

// International-friendly phone shape, optional country code.
var phonePattern = regexp.MustCompile(`^\+?(\d{1,3})?[-.\s]?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}$`)

var proposerMessages = map[string]string{
	"CompanyName":    "Proposer name must be at least 2 characters",
	"CompanyAddress": "Please provide a complete address",
	"CompanyEmail":   "Please provide a valid email address",
	"CompanyPhone":   "Please provide a valid phone number",
}

var clientMessages = map[string]string{
	"ClientName":    "Client name must be at least 2 characters",
	"ClientCompany": "Client company must be at least 2 characters",
	"ClientAddress": "Please provide a complete address",
	"ProjectName":   "Project name must be at least 3 characters",
}

var itemMessages = map[string]string{
	"ServiceName": "Service name is required",
	"Description": "Please provide a detailed description (min 10 chars)",
	"Rate":        "Rate must be greater than 0",
	"Subtotal":    "Subtotal cannot be negative",
}

var wireNames = map[string]string{
	"CompanyName":    "companyName",
	"CompanyAddress": "companyAddress",
	"CompanyEmail":   "companyEmail",
	"CompanyPhone":   "companyPhone",
	"BusinessRegNo":  "businessRegNo",
	"ClientName":     "clientName",
	"ClientCompany":  "clientCompany",
	"ClientAddress":  "clientAddress",
	"ProjectName":    "projectName",
	"ServiceName":    "serviceName",
	"Description":    "description",
	"Rate":           "rate",
	"Hours":          "hours",
	"Subtotal":       "subtotal",
}

// Validator checks step payloads against their schemas and turns failures
// into typed field errors.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return &Validator{v: v}
}

// Proposer validates the proposer step. Returns nil when the form is valid.
func (val *Validator) Proposer(form ProposerForm) FieldErrors {
	return val.collect(val.v.Struct(form), StepProposer, uuid.Nil, proposerMessages)
}

// Client validates the client step.
func (val *Validator) Client(form ClientForm) FieldErrors {
	return val.collect(val.v.Struct(form), StepClient, uuid.Nil, clientMessages)
}

// Item validates one line item; errors are keyed by the item's identity.
func (val *Validator) Item(item model.LineItem) FieldErrors {
	schema := itemSchema{
		ServiceName: item.ServiceName,
		Description: item.Description,
		Rate:        item.Rate,
		Subtotal:    item.Subtotal,
	}
	return val.collect(val.v.Struct(schema), StepComponents, item.ID, itemMessages)
}

func (val *Validator) collect(err error, step Step, itemID uuid.UUID, messages map[string]string) FieldErrors {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return FieldErrors{{Step: step, Field: "_", ItemID: itemID}: err.Error()}
	}
	out := make(FieldErrors, len(verrs))
	for _, e := range verrs {
		field := wireNames[e.StructField()]
		if field == "" {
			field = e.StructField()
		}
		msg := messages[e.StructField()]
		if msg == "" {
			msg = "Invalid value"
		}
		out[FieldRef{Step: step, Field: field, ItemID: itemID}] = msg
	}
	return out
}
