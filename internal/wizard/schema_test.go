package wizard_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/nurpe/proposal-builder/internal/model"
	"github.com/nurpe/proposal-builder/internal/wizard"
)

func TestProposerSchemaMessages(t *testing.T) {
	val := wizard.NewValidator()
	errs := val.Proposer(wizard.ProposerForm{
		CompanyName:    "A",
		CompanyAddress: "short",
		CompanyEmail:   "nope",
		CompanyPhone:   "abc",
	})

	want := map[string]string{
		"companyName":    "Proposer name must be at least 2 characters",
		"companyAddress": "Please provide a complete address",
		"companyEmail":   "Please provide a valid email address",
		"companyPhone":   "Please provide a valid phone number",
	}
	got := map[string]string{}
	for ref, msg := range errs {
		got[ref.Field] = msg
		if ref.Step != wizard.StepProposer {
			t.Errorf("wrong step on %s: %v", ref.Field, ref.Step)
		}
	}
	for field, msg := range want {
		if got[field] != msg {
			t.Errorf("%s: expected %q, got %q", field, msg, got[field])
		}
	}
}

func TestProposerRegNoOptional(t *testing.T) {
	val := wizard.NewValidator()
	form := wizard.ProposerForm{
		CompanyName:    "Cipher Labs",
		CompanyAddress: "Cipher Labs, MG Road, Kochi",
		CompanyEmail:   "hello@cipherlabs.dev",
		CompanyPhone:   "+91 484 555 0199",
	}
	if errs := val.Proposer(form); len(errs) != 0 {
		t.Errorf("form without reg no must be valid, got %+v", errs)
	}
	form.BusinessRegNo = "U72900KL2020PTC000000"
	if errs := val.Proposer(form); len(errs) != 0 {
		t.Errorf("form with reg no must be valid, got %+v", errs)
	}
}

func TestPhonePatternShapes(t *testing.T) {
	val := wizard.NewValidator()
	base := wizard.ProposerForm{
		CompanyName:    "Cipher Labs",
		CompanyAddress: "Cipher Labs, MG Road, Kochi",
		CompanyEmail:   "hello@cipherlabs.dev",
	}
	valid := []string{
		"+1 (555) 123-4567",
		"555-123-4567",
		"5551234567",
		"+91 484 555 0199",
	}
	for _, phone := range valid {
		base.CompanyPhone = phone
		if errs := val.Proposer(base); len(errs) != 0 {
			t.Errorf("%q should be accepted: %+v", phone, errs)
		}
	}
	invalid := []string{"", "12", "phone", "12345678901234567"}
	for _, phone := range invalid {
		base.CompanyPhone = phone
		if errs := val.Proposer(base); len(errs) == 0 {
			t.Errorf("%q should be rejected", phone)
		}
	}
}

func TestClientSchema(t *testing.T) {
	val := wizard.NewValidator()
	errs := val.Client(wizard.ClientForm{ProjectName: "ab"})
	fields := map[string]bool{}
	for ref := range errs {
		fields[ref.Field] = true
	}
	for _, f := range []string{"clientName", "clientCompany", "clientAddress", "projectName"} {
		if !fields[f] {
			t.Errorf("expected error on %s, got %+v", f, errs)
		}
	}
}

func TestItemSchemaRateOptionalButPositive(t *testing.T) {
	val := wizard.NewValidator()
	item := model.LineItem{
		ID:          uuid.New(),
		ServiceName: "Frontend Design",
		Description: "Mockup designs using Figma and React frontend",
	}
	if errs := val.Item(item); len(errs) != 0 {
		t.Errorf("absent rate must be legal while editing, got %+v", errs)
	}

	zero := 0.0
	item.Rate = &zero
	errs := val.Item(item)
	ref := wizard.FieldRef{Step: wizard.StepComponents, Field: "rate", ItemID: item.ID}
	if errs[ref] != "Rate must be greater than 0" {
		t.Errorf("expected rate error, got %+v", errs)
	}
}
