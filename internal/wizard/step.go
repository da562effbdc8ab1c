package wizard

// Step enumerates the wizard screens in their only legal order.
type Step int

const (
	StepProposer Step = iota
	StepClient
	StepComponents
)

const stepCount = 3

func (s Step) String() string {
	switch s {
	case StepProposer:
		return "proposer"
	case StepClient:
		return "client"
	case StepComponents:
		return "components"
	default:
		return "unknown"
	}
}

// Label returns the human-readable step title shown in the progress header.
func (s Step) Label() string {
	switch s {
	case StepProposer:
		return "Proposer Details"
	case StepClient:
		return "Client Information"
	case StepComponents:
		return "Project Billing Components"
	default:
		return ""
	}
}
