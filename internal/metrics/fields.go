package metrics

// Common metric attribute keys to keep telemetry consistent/searchable.
const (
	AttrMethod  = "method"
	AttrPath    = "path"
	AttrStatus  = "status"
	AttrEntity  = "entity"
	AttrOp      = "op"
	AttrOutcome = "outcome"
)

// Outcome values for AttrOutcome.
const (
	OutcomeOK        = "ok"
	OutcomeInvalid   = "invalid"
	OutcomeForbidden = "forbidden"
	OutcomeNotFound  = "not_found"
	OutcomeError     = "error"
	OutcomeMatched   = "matched"
	OutcomeNoMatch   = "no_match"
	OutcomeAmbiguous = "ambiguous"
)
