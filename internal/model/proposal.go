package model

import "github.com/google/uuid"

// LineItem is one billable component of a proposal. Rate and Hours stay nil
// until the user supplies them; Subtotal is derived at write time and is
// always non-negative.
type LineItem struct {
	ID           uuid.UUID `json:"id"`
	ServiceName  string    `json:"serviceName"`
	Description  string    `json:"description"`
	Rate         *float64  `json:"rate,omitempty"`
	Hours        *float64  `json:"hours,omitempty"`
	IsFixedPrice bool      `json:"isFixedPrice"`
	Subtotal     float64   `json:"subtotal"`
}

// Proposal is the working draft assembled by the wizard. The JSON field names
// are the durable snapshot layout and must stay stable across releases.
type Proposal struct {
	CompanyName    string     `json:"companyName"`
	CompanyAddress string     `json:"companyAddress"`
	CompanyEmail   string     `json:"companyEmail"`
	CompanyPhone   string     `json:"companyPhone"`
	BusinessRegNo  string     `json:"businessRegNo,omitempty"`
	ClientName     string     `json:"clientName"`
	ClientCompany  string     `json:"clientCompany"`
	ClientAddress  string     `json:"clientAddress"`
	ProjectName    string     `json:"projectName"`
	Currency       string     `json:"currency"`
	Components     []LineItem `json:"components"`
}

// ProposerDetails carries the validated values of the proposer step.
type ProposerDetails struct {
	CompanyName    string `json:"companyName"`
	CompanyAddress string `json:"companyAddress"`
	CompanyEmail   string `json:"companyEmail"`
	CompanyPhone   string `json:"companyPhone"`
	BusinessRegNo  string `json:"businessRegNo"`
}

// ClientDetails carries the validated values of the client step.
type ClientDetails struct {
	ClientName    string `json:"clientName"`
	ClientCompany string `json:"clientCompany"`
	ClientAddress string `json:"clientAddress"`
	ProjectName   string `json:"projectName"`
}

// Empty returns the canonical empty draft: no fields set, zero components.
func Empty() Proposal {
	return Proposal{Components: []LineItem{}}
}

// Clone returns a deep copy so callers cannot mutate the stored draft
// through the Components slice.
func (p Proposal) Clone() Proposal {
	out := p
	out.Components = CloneItems(p.Components)
	return out
}

// CloneItems deep-copies a line-item sequence, preserving order.
func CloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for i, item := range items {
		out[i] = item
		if item.Rate != nil {
			v := *item.Rate
			out[i].Rate = &v
		}
		if item.Hours != nil {
			v := *item.Hours
			out[i].Hours = &v
		}
	}
	return out
}
