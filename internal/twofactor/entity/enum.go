package entity

// Outcome labels the result of a sign or verify call in metrics and logs.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeSuccess
	OutcomeRejected
	OutcomeReplayed
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRejected:
		return "rejected"
	case OutcomeReplayed:
		return "replayed"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}
