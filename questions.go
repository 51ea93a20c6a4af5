package main

import (
	"fmt"
	"regexp"
	"strings"
)

type QuestionKind int

const (
	KindSelect QuestionKind = iota
	KindInput
	KindMultiline
	KindConfirm
)

// Choice is one selectable value of a KindSelect question.
type Choice struct {
	Value string
	Desc  string
}

// Question describes one prompt of the commit flow.
type Question struct {
	Key      string
	Prompt   string
	Kind     QuestionKind
	Choices  []Choice
	Required bool
}

// Questions returns the prompt sequence, in the order it is asked.
// The "breaking" question is only asked when "is_breaking" was answered yes.
func Questions(rule *Rule) []Question {
	choices := make([]Choice, 0, len(rule.Types.Keys()))
	for _, k := range rule.Types.Keys() {
		if strings.HasPrefix(k, "#") {
			continue
		}
		ct, ok := rule.Types.Get(k)
		if !ok || ct.Desc == "" {
			continue
		}
		choices = append(choices, Choice{
			Value: k,
			Desc:  strings.TrimSpace(emojiUnicodeOf(rule, k) + " " + ct.Desc),
		})
	}

	return []Question{
		{Key: "type", Prompt: "Select the type of change you are committing", Kind: KindSelect, Choices: choices, Required: rule.DenyEmptyType},
		{Key: "scope", Prompt: "Scope. Could be anything specifying place of the commit change (users, db, poll)", Kind: KindInput},
		{Key: "subject", Prompt: "Write a short and imperative summary of the code changes", Kind: KindInput, Required: true},
		{Key: "body", Prompt: "Provide additional contextual information about the code changes", Kind: KindMultiline},
		{Key: "is_breaking", Prompt: "Is this a BREAKING CHANGE?", Kind: KindConfirm},
		{Key: "breaking", Prompt: "Describe the breaking change", Kind: KindInput},
		{Key: "footer", Prompt: "Footer. Information about reference issues that this commit closes", Kind: KindInput},
	}
}

var scopePattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Validate normalizes a raw answer for key, or reports a ValidationError.
func (r *Rule) Validate(key, raw string) (string, error) {
	switch key {
	case "type":
		typ := strings.TrimSpace(raw)
		if typ == "" {
			if r.DenyEmptyType {
				return "", &ValidationError{Field: "type", Msg: "type is required"}
			}
			return "", nil
		}
		if r.DenyAdlibType {
			if _, found := r.Types.Get(typ); !found {
				return "", &ValidationError{Field: "type", Msg: "ad-lib type is not allowed"}
			}
		}
		return typ, nil

	case "scope":
		scope := strings.TrimSpace(raw)
		if scope == "" {
			return "", nil
		}
		if strings.ContainsAny(scope, " \t") {
			return "", &ValidationError{Field: "scope", Msg: "scope must not contain whitespace"}
		}
		if !scopePattern.MatchString(scope) {
			return "", &ValidationError{Field: "scope", Msg: "scope must be lowercase alphanumeric/hyphen"}
		}
		return scope, nil

	case "subject":
		subject := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(raw), "."))
		if subject == "" {
			return "", &ValidationError{Field: "subject", Msg: "subject is required"}
		}
		if limit := r.subjectLimit(); len([]rune(subject)) > limit {
			return "", &ValidationError{Field: "subject", Msg: fmt.Sprintf("subject must be %d characters or less", limit)}
		}
		return subject, nil

	case "is_breaking":
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "y", "yes", "true":
			return "true", nil
		case "", "n", "no", "false":
			return "false", nil
		}
		return "", &ValidationError{Field: "is_breaking", Msg: "answer y or n"}

	case "body", "breaking", "footer":
		return strings.TrimSpace(raw), nil
	}

	return "", &ValidationError{Field: key, Msg: "unknown field"}
}

const defaultSubjectLimit = 72

func (r *Rule) subjectLimit() int {
	if r.SubjectLimit > 0 {
		return r.SubjectLimit
	}
	return defaultSubjectLimit
}

// NormalizeScope joins whitespace-separated words with hyphens and lowercases
// the result, so that "Data Base" becomes "data-base" before validation.
func NormalizeScope(raw string) string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(strings.Join(fields, "-"))
}
