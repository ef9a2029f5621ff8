package models

// Decision is a moderator's verdict on one intake entry
type Decision string

const (
	DecisionIgnore  Decision = "ignore"
	DecisionApprove Decision = "approve"
	DecisionDelete  Decision = "delete"
)

// ValidDecisions defines accepted decision tokens
var ValidDecisions = map[Decision]bool{
	DecisionIgnore:  true,
	DecisionApprove: true,
	DecisionDelete:  true,
}

// ModerationResult summarizes an applied batch
type ModerationResult struct {
	Published map[string][]PublishedComment `json:"published"`
	Approved  int                           `json:"approved"`
	Ignored   int                           `json:"ignored"`
	Deleted   int                           `json:"deleted"`
	Remaining int                           `json:"remaining"`
}
