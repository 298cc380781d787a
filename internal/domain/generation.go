package domain

// ResultState is the acceptance state of a generation attempt sequence.
type ResultState string

const (
	ResultAccepted ResultState = "accepted"
	ResultRepaired ResultState = "repaired"
	ResultRejected ResultState = "rejected"
)

// RejectReason is the caller-facing reason code for a rejected outcome.
type RejectReason string

const (
	ReasonQuotaExceeded         RejectReason = "QUOTA_EXCEEDED"
	ReasonUnauthorized          RejectReason = "UNAUTHORIZED"
	ReasonMalformedOutput       RejectReason = "MALFORMED_OUTPUT"
	ReasonIncompleteParts       RejectReason = "INCOMPLETE_PARTS"
	ReasonLanguageMismatch      RejectReason = "LANGUAGE_MISMATCH"
	ReasonStyleViolation        RejectReason = "STYLE_VIOLATION"
	ReasonInternalInconsistency RejectReason = "INTERNAL_INCONSISTENCY"
	ReasonEngineTimeout         RejectReason = "ENGINE_TIMEOUT"
)

// Content holds the validated parts of an accepted generation. Only the
// requested parts are populated.
type Content struct {
	Hook    string `json:"hook,omitempty"`
	Outline string `json:"outline,omitempty"`
	Script  string `json:"script,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// PartValue returns the value stored for the given part.
func (c Content) PartValue(p Part) string {
	switch p {
	case PartHook:
		return c.Hook
	case PartOutline:
		return c.Outline
	case PartScript:
		return c.Script
	case PartCaption:
		return c.Caption
	}
	return ""
}
