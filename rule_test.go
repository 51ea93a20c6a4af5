package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultRule(t *testing.T) {
	rule := defaultRule(true)

	feat, ok := rule.Types.Get("feat")
	if !ok {
		t.Fatal("default rule has no feat type")
	}
	if feat.Emoji == "" || feat.Title != "Feat" {
		t.Fatalf("unexpected feat definition: %+v", feat)
	}

	chore, ok := rule.Types.Get("chore")
	if !ok {
		t.Fatal("default rule has no chore type")
	}
	if chore.Title != "" {
		t.Fatalf("chore should not have a changelog section, got %q", chore.Title)
	}

	if rule.HeaderFormat == "" || rule.Uncategorized != UncategorizedSkip {
		t.Fatalf("unexpected defaults: %+v", rule)
	}

	plain := defaultRule(false)
	fix, _ := plain.Types.Get("fix")
	if fix.Emoji != "" {
		t.Fatalf("emoji=false should leave emoji empty, got %q", fix.Emoji)
	}
}

func TestTryReadRuleFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rule.json")
	content := `{
		"headerFormat": "{{.type}}: {{.description}}",
		"types": {
			"feat": {"description": "A new feature", "title": "Feat"},
			"fix": {"description": "A bug fix", "emoji": ":bug:", "title": "Fix"}
		},
		"github": {"org": "acme", "repo": "widget"},
		"uncategorized": "section"
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write rule file: %v", err)
	}

	rule, err := tryReadRuleFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	keys := []string{}
	for _, k := range rule.Types.Keys() {
		keys = append(keys, k)
	}
	if len(keys) != 2 || keys[0] != "feat" || keys[1] != "fix" {
		t.Fatalf("type order lost: %v", keys)
	}
	if rule.Github.Org != "acme" || rule.Github.Repo != "widget" {
		t.Fatalf("github config lost: %+v", rule.Github)
	}
	if rule.Uncategorized != UncategorizedSection {
		t.Fatalf("uncategorized policy lost: %q", rule.Uncategorized)
	}
}

func TestTryReadRuleFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rule.yaml")
	content := `headerformat: "{{.type}}: {{.description}}"
types:
  feat:
    desc: A new feature
    title: Feat
github:
  org: acme
  repo: widget
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write rule file: %v", err)
	}

	rule, err := tryReadRuleFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	feat, ok := rule.Types.Get("feat")
	if !ok || feat.Title != "Feat" {
		t.Fatalf("feat definition lost: %+v, %v", feat, ok)
	}
	if rule.Github.Org != "acme" {
		t.Fatalf("github config lost: %+v", rule.Github)
	}
}

func TestTryReadRuleFileMissing(t *testing.T) {
	if _, err := tryReadRuleFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestTryReadScopesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scopes.yaml")
	content := `api: 2026-08-01T10:00:00Z
db: 2026-07-15T09:30:00Z
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write scopes file: %v", err)
	}

	scopes, err := tryReadScopesFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scopes) != 2 {
		t.Fatalf("expected 2 scopes, got %+v", scopes)
	}
	if _, ok := scopes["api"]; !ok {
		t.Fatalf("scope api lost: %+v", scopes)
	}
}
