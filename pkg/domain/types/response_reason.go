package types

// ResponseReason explains why the assistant decided to reply (or stay silent)
// in a group conversation
type ResponseReason string

const (
	ResponseReasonDirectMention       ResponseReason = "direct_mention"
	ResponseReasonQuestion            ResponseReason = "question"
	ResponseReasonExplicitKeyword     ResponseReason = "explicit_mention_or_keyword"
	ResponseReasonHelpRequest         ResponseReason = "help_request"
	ResponseReasonPlanningContext     ResponseReason = "planning_context"
	ResponseReasonPeriodicCheckin     ResponseReason = "periodic_checkin"
	ResponseReasonEarlyPlanning       ResponseReason = "early_planning_session"
	ResponseReasonProactiveEngagement ResponseReason = "proactive_engagement"
	ResponseReasonCasualConversation  ResponseReason = "casual_conversation"
)

// String returns the string representation of the response reason
func (r ResponseReason) String() string {
	return string(r)
}
