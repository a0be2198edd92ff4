package usecase

import (
	"encoding/json"
	"strings"
)

// ExtractionParseKind discriminates the outcome of ParseExtraction
type ExtractionParseKind int

const (
	// ExtractionEmpty means the text held no usable action
	ExtractionEmpty ExtractionParseKind = iota
	// ExtractionParsed means at least one candidate action was found
	ExtractionParsed
)

// ExtractedAction is one candidate as written by the language model. Fields
// are unvalidated strings.
type ExtractedAction struct {
	Type        string
	Title       string
	Description string
	Due         string
	Priority    string
}

// ExtractionParse is the result of ParseExtraction
type ExtractionParse struct {
	Kind    ExtractionParseKind
	Actions []ExtractedAction
}

// maxParseAttempts bounds how many JSON start positions are tried in noisy text
const maxParseAttempts = 16

// ParseExtraction reads the language model answer. It accepts an object with
// an "actions" array, a bare array, or a single action object, optionally
// wrapped in code fences or surrounded by prose. It never fails: anything it
// cannot read yields ExtractionEmpty.
func ParseExtraction(text string) ExtractionParse {
	text = stripCodeFence(strings.TrimSpace(text))

	for attempts, offset := 0, 0; attempts < maxParseAttempts && offset < len(text); attempts++ {
		idx := strings.IndexAny(text[offset:], "{[")
		if idx < 0 {
			break
		}
		start := offset + idx

		var v any
		dec := json.NewDecoder(strings.NewReader(text[start:]))
		if err := dec.Decode(&v); err == nil {
			if actions, ok := actionsFrom(v); ok {
				if len(actions) == 0 {
					return ExtractionParse{Kind: ExtractionEmpty}
				}
				return ExtractionParse{Kind: ExtractionParsed, Actions: actions}
			}
		}
		offset = start + 1
	}

	return ExtractionParse{Kind: ExtractionEmpty}
}

func stripCodeFence(text string) string {
	open := strings.Index(text, "```")
	if open < 0 {
		return text
	}
	body := text[open+3:]
	// Drop the language tag line, e.g. ```json
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	}
	if end := strings.Index(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// actionsFrom interprets a decoded JSON value. ok is false when the value has
// no recognizable shape, so that the caller may keep scanning.
func actionsFrom(v any) ([]ExtractedAction, bool) {
	switch t := v.(type) {
	case []any:
		return collectActions(t), true

	case map[string]any:
		for _, key := range []string{"actions", "action_requests", "items"} {
			if list, ok := t[key].([]any); ok {
				return collectActions(list), true
			}
		}
		if a, ok := actionFrom(t); ok {
			return []ExtractedAction{a}, true
		}
	}
	return nil, false
}

func collectActions(list []any) []ExtractedAction {
	actions := make([]ExtractedAction, 0, len(list))
	for _, elem := range list {
		m, ok := elem.(map[string]any)
		if !ok {
			continue
		}
		if a, ok := actionFrom(m); ok {
			actions = append(actions, a)
		}
	}
	return actions
}

func actionFrom(m map[string]any) (ExtractedAction, bool) {
	a := ExtractedAction{
		Type:        stringField(m, "type", "kind"),
		Title:       stringField(m, "title", "name"),
		Description: stringField(m, "description", "details"),
		Due:         stringField(m, "due", "due_time", "dueTime", "time"),
		Priority:    stringField(m, "priority"),
	}
	if a.Type == "" || a.Title == "" {
		return ExtractedAction{}, false
	}
	return a, true
}

func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}
