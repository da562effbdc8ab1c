package pdf_test

import (
	"bytes"
	"testing"

	"github.com/google/uuid"

	"github.com/nurpe/proposal-builder/internal/model"
	"github.com/nurpe/proposal-builder/internal/pdf"
)

func TestGenerateProducesPDF(t *testing.T) {
	rate := 50.0
	hours := 3.0
	p := model.Proposal{
		CompanyName:    "Cipher Labs",
		CompanyAddress: "Cipher Labs, MG Road, Kochi",
		CompanyEmail:   "hello@cipherlabs.dev",
		CompanyPhone:   "+91 484 555 0199",
		BusinessRegNo:  "U72900KL2020PTC000000",
		ClientName:     "CEO",
		ClientCompany:  "Sunrise Inc.",
		ClientAddress:  "MG Road, Kochi",
		ProjectName:    "Product Landing Website",
		Currency:       "USD",
		Components: []model.LineItem{
			{
				ID:          uuid.New(),
				ServiceName: "Frontend Design",
				Description: "Mockup designs using Figma and React frontend",
				Rate:        &rate,
				Hours:       &hours,
				Subtotal:    150,
			},
			{
				ID:           uuid.New(),
				ServiceName:  "Deployment",
				Description:  "Production rollout and DNS configuration",
				IsFixedPrice: true,
				Rate:         &rate,
				Subtotal:     50,
			},
		},
	}

	content, err := pdf.NewGenerator().Generate(p)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(content, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
	if len(content) < 1000 {
		t.Errorf("suspiciously small document: %d bytes", len(content))
	}
}

func TestGenerateHandlesSparseItems(t *testing.T) {
	// Items straight from the wizard may carry nil rate/hours; the renderer
	// must not panic on them.
	p := model.Proposal{
		CompanyName: "Cipher Labs",
		ProjectName: "Draft",
		Currency:    "USD",
		Components: []model.LineItem{
			{ID: uuid.New(), ServiceName: "TBD", Description: "Scope to be confirmed later"},
		},
	}
	if _, err := pdf.NewGenerator().Generate(p); err != nil {
		t.Fatal(err)
	}
}
