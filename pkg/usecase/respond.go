package usecase

import (
	"regexp"
	"strings"

	"github.com/jeetu-ai/jeetu/pkg/domain/model"
	"github.com/jeetu-ai/jeetu/pkg/domain/types"
)

const (
	checkinWindow       = 5
	earlySessionSize    = 10
	acknowledgementSize = 5
)

var (
	questionWordPattern = regexp.MustCompile(`(?i)^(what|how|why|when|where|who|which|can|could|should|would|is|are|do|does)[\s']`)
	helpPattern         = regexp.MustCompile(`(?i)\b(help|advice|suggest\w*|recommend\w*|opinion|thoughts?|ideas?|what do you think)\b`)
	planningPattern     = regexp.MustCompile(`(?i)\b(plan\w*|schedule\w*|deadlines?|tasks?|action items?|next steps?|let'?s decide|finali[sz]e\w*|summar\w*)\b`)
)

// respondInput is what every rule sees
type respondInput struct {
	text   string
	lower  string
	recent []model.GroupMessage
}

// respondRule is one row of the decision table
type respondRule struct {
	reason  types.ResponseReason
	respond bool
	match   func(in respondInput) bool
}

// ResponseHeuristic decides whether the assistant should reply to a group
// message. Rules are evaluated in order and the first match decides; the
// table is biased toward replying.
type ResponseHeuristic struct {
	rules []respondRule
}

// NewResponseHeuristic builds the rule table for an assistant called name
func NewResponseHeuristic(name string) *ResponseHeuristic {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultPolicy().AssistantName
	}

	namePattern := regexp.MustCompile(`(?i)(^|[^\w@])@?(` + regexp.QuoteMeta(name) + `|ai|assistant)\b`)

	return &ResponseHeuristic{
		rules: []respondRule{
			{
				reason:  types.ResponseReasonDirectMention,
				respond: true,
				match:   func(in respondInput) bool { return namePattern.MatchString(in.text) },
			},
			{
				reason:  types.ResponseReasonQuestion,
				respond: true,
				match: func(in respondInput) bool {
					return strings.Contains(in.text, "?") || questionWordPattern.MatchString(in.text)
				},
			},
			{
				reason:  types.ResponseReasonExplicitKeyword,
				respond: true,
				match: func(in respondInput) bool {
					return strings.Contains(in.lower, name) ||
						strings.Contains(in.lower, "suggest") ||
						strings.Contains(in.lower, "help")
				},
			},
			{
				reason:  types.ResponseReasonHelpRequest,
				respond: true,
				match:   func(in respondInput) bool { return helpPattern.MatchString(in.text) },
			},
			{
				reason:  types.ResponseReasonPlanningContext,
				respond: true,
				match:   func(in respondInput) bool { return planningPattern.MatchString(in.text) },
			},
			{
				reason:  types.ResponseReasonPeriodicCheckin,
				respond: true,
				match:   assistantQuiet,
			},
			{
				reason:  types.ResponseReasonEarlyPlanning,
				respond: true,
				match:   func(in respondInput) bool { return len(in.recent) < earlySessionSize },
			},
			{
				reason:  types.ResponseReasonProactiveEngagement,
				respond: true,
				match:   func(in respondInput) bool { return len([]rune(in.text)) > acknowledgementSize },
			},
		},
	}
}

// assistantQuiet is true when the session has some history and none of the
// latest messages came from the assistant
func assistantQuiet(in respondInput) bool {
	if len(in.recent) < checkinWindow {
		return false
	}
	for _, m := range in.recent[len(in.recent)-checkinWindow:] {
		if m.IsAssistant {
			return false
		}
	}
	return true
}

// Decide classifies message given the recent messages of the session, oldest
// first, not including message itself
func (h *ResponseHeuristic) Decide(message string, recent []model.GroupMessage) model.ResponseDecision {
	text := strings.TrimSpace(message)
	in := respondInput{
		text:   text,
		lower:  strings.ToLower(text),
		recent: recent,
	}

	for _, r := range h.rules {
		if r.match(in) {
			return model.ResponseDecision{Respond: r.respond, Reason: r.reason}
		}
	}
	return model.ResponseDecision{Respond: false, Reason: types.ResponseReasonCasualConversation}
}

var defaultHeuristic = NewResponseHeuristic("")

// ShouldRespond applies the default heuristic for an assistant named "jeetu"
func ShouldRespond(message string, recent []model.GroupMessage) model.ResponseDecision {
	return defaultHeuristic.Decide(message, recent)
}
