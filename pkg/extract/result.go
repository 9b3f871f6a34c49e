package extract

// Status tags the provenance of an extraction result.
type Status string

const (
	// StatusValid means the completion parsed and validated without the
	// adapter having to change anything.
	StatusValid Status = "valid"
	// StatusRecovered means the value validates but the adapter renamed,
	// coerced or defaulted at least one field along the way.
	StatusRecovered Status = "recovered"
	// StatusFallback means no amount of repair or adaptation produced a
	// validatable value and a synthetic minimal instance was built instead.
	StatusFallback Status = "fallback"
)

// Reason identifies why a fallback result was built.
type Reason string

const (
	ReasonEmptyInput     Reason = "empty_input"
	ReasonUnparsable     Reason = "unparsable"
	ReasonSchemaMismatch Reason = "schema_mismatch"
	ReasonUnknownSchema  Reason = "unknown_schema"
	ReasonInternal       Reason = "internal_error"
)

// RepairAttempt records a single repair rule that changed the text, with
// truncated before/after snippets. The log exists for diagnostics only and is
// never required for correctness.
type RepairAttempt struct {
	Rule   string `json:"rule" msgpack:"rule"`
	Before string `json:"before" msgpack:"before"`
	After  string `json:"after" msgpack:"after"`
}

// Result is the tagged union every extraction terminates in. Exactly one
// Result is produced per call and every Result carries a schema-valid Value.
// Fallback results keep the Reason code plus the underlying parse or
// validation error text in Detail; the same text is embedded in the value's
// error marker.
type Result struct {
	Status   Status          `json:"status" msgpack:"status"`
	Schema   string          `json:"schema" msgpack:"schema"`
	Value    map[string]any  `json:"value" msgpack:"value"`
	Warnings []string        `json:"warnings,omitempty" msgpack:"warnings,omitempty"`
	Reason   Reason          `json:"reason,omitempty" msgpack:"reason,omitempty"`
	Detail   string          `json:"detail,omitempty" msgpack:"detail,omitempty"`
	Attempts []RepairAttempt `json:"repair_attempts,omitempty" msgpack:"repair_attempts,omitempty"`
}

// IsFallback reports whether the result carries a synthetic fallback value.
func (r *Result) IsFallback() bool {
	return r.Status == StatusFallback
}
