package main

import (
	"errors"
	"strings"
	"testing"
)

func TestQuestionsAreOrdered(t *testing.T) {
	qs := Questions(testRule())

	want := []string{"type", "scope", "subject", "body", "is_breaking", "breaking", "footer"}
	if len(qs) != len(want) {
		t.Fatalf("expected %d questions, got %d", len(want), len(qs))
	}
	for i, q := range qs {
		if q.Key != want[i] {
			t.Fatalf("question %d: want key %q, got %q", i, want[i], q.Key)
		}
	}
}

func TestQuestionsTypeChoices(t *testing.T) {
	qs := Questions(testRule())

	if qs[0].Kind != KindSelect {
		t.Fatalf("type question should be a select, got %v", qs[0].Kind)
	}
	if len(qs[0].Choices) != 3 {
		t.Fatalf("expected 3 choices, got %+v", qs[0].Choices)
	}
	if qs[0].Choices[0].Value != "feat" || !strings.Contains(qs[0].Choices[0].Desc, "A new feature") {
		t.Fatalf("unexpected first choice: %+v", qs[0].Choices[0])
	}
}

func TestValidateSubjectRequired(t *testing.T) {
	for _, raw := range []string{"", "   ", "...", " . "} {
		_, err := testRule().Validate("subject", raw)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("raw %q: expected ValidationError, got %v", raw, err)
		}
		if verr.Field != "subject" {
			t.Fatalf("error names field %q, want subject", verr.Field)
		}
	}
}

func TestValidateSubjectStripsTrailingPeriod(t *testing.T) {
	got, err := testRule().Validate("subject", "add login endpoint.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "add login endpoint" {
		t.Fatalf("trailing period not stripped: %q", got)
	}
}

func TestValidateSubjectLengthLimit(t *testing.T) {
	rule := testRule()
	rule.SubjectLimit = 10

	_, err := rule.Validate("subject", "this subject is longer than ten characters")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(verr.Msg, "10") {
		t.Fatalf("error does not name the limit: %v", verr)
	}

	if _, err := rule.Validate("subject", "short one_"); err != nil {
		t.Fatalf("subject at the limit rejected: %v", err)
	}
}

func TestValidateScope(t *testing.T) {
	rule := testRule()

	if got, err := rule.Validate("scope", "api"); err != nil || got != "api" {
		t.Fatalf("valid scope rejected: %q, %v", got, err)
	}
	if got, err := rule.Validate("scope", ""); err != nil || got != "" {
		t.Fatalf("empty scope should pass through: %q, %v", got, err)
	}

	for _, raw := range []string{"has space", "UPPER", "semi;colon", "tab\there"} {
		_, err := rule.Validate("scope", raw)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("raw %q: expected ValidationError, got %v", raw, err)
		}
		if verr.Field != "scope" {
			t.Fatalf("error names field %q, want scope", verr.Field)
		}
	}
}

func TestNormalizeScope(t *testing.T) {
	for raw, want := range map[string]string{
		"":           "",
		"  ":         "",
		"api":        "api",
		"Data Base":  "data-base",
		" users db ": "users-db",
	} {
		if got := NormalizeScope(raw); got != want {
			t.Fatalf("NormalizeScope(%q): want %q, got %q", raw, want, got)
		}
	}
}

func TestValidateType(t *testing.T) {
	rule := testRule()

	if got, err := rule.Validate("type", "feat"); err != nil || got != "feat" {
		t.Fatalf("known type rejected: %q, %v", got, err)
	}
	if got, err := rule.Validate("type", "adlib"); err != nil || got != "adlib" {
		t.Fatalf("ad-lib type should pass by default: %q, %v", got, err)
	}

	rule.DenyAdlibType = true
	if _, err := rule.Validate("type", "adlib"); err == nil {
		t.Fatal("ad-lib type accepted despite denyAdlibType")
	}

	rule.DenyEmptyType = true
	if _, err := rule.Validate("type", ""); err == nil {
		t.Fatal("empty type accepted despite denyEmptyType")
	}
}

func TestValidateIsBreaking(t *testing.T) {
	rule := testRule()

	for raw, want := range map[string]string{"y": "true", "YES": "true", "": "false", "n": "false", "No": "false"} {
		got, err := rule.Validate("is_breaking", raw)
		if err != nil || got != want {
			t.Fatalf("raw %q: want %q, got %q, %v", raw, want, got, err)
		}
	}

	if _, err := rule.Validate("is_breaking", "maybe"); err == nil {
		t.Fatal("nonsense confirm answer accepted")
	}
}

func TestValidateUnknownKey(t *testing.T) {
	_, err := testRule().Validate("nope", "x")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
