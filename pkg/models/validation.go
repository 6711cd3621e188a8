package models

// IssueSeverity of a single validation finding
type IssueSeverity string

const (
	IssueSeverityError   IssueSeverity = "error"
	IssueSeverityWarning IssueSeverity = "warning"
)

// Issue codes emitted by the channel validator
const (
	IssueCodeFieldRequired    = "field_required"
	IssueCodeFieldRecommended = "field_recommended"
	IssueCodeScoreBelowMin    = "score_below_minimum"
	IssueCodeNoRulesInScope   = "completeness_rules_missing"
)

// FieldIssue is one finding against one field of a product snapshot
type FieldIssue struct {
	Field    string        `json:"field"`
	Code     string        `json:"code"`
	Severity IssueSeverity `json:"severity"`
	Message  string        `json:"message"`
}

// ChannelValidationResult is the outcome of validating one product against one
// channel. Derived value: recomputed on demand, never persisted.
type ChannelValidationResult struct {
	ChannelCode       ChannelCode  `json:"channel_code"`
	ChannelName       string       `json:"channel_name"`
	IsValid           bool         `json:"is_valid"`
	Score             int          `json:"score"`
	MinScore          int          `json:"min_score"`
	Errors            []FieldIssue `json:"errors"`
	Warnings          []FieldIssue `json:"warnings"`
	MissingFields     []string     `json:"missing_fields"`
	RecommendedFields []string     `json:"recommended_fields"`
}
