// Package gate decides whether a draft is ready for document generation.
package gate

import "github.com/nurpe/proposal-builder/internal/model"

// IsComplete reports whether every required proposer field, every client
// field, the currency, and at least one line item are present. The business
// registration number is the only optional field.
func IsComplete(p model.Proposal) bool {
	return p.CompanyName != "" &&
		p.CompanyAddress != "" &&
		p.CompanyEmail != "" &&
		p.CompanyPhone != "" &&
		p.ClientName != "" &&
		p.ClientCompany != "" &&
		p.ClientAddress != "" &&
		p.ProjectName != "" &&
		p.Currency != "" &&
		len(p.Components) > 0
}
