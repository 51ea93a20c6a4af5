package main

import (
	"regexp"
	"time"

	"github.com/shu-go/orderedmap"
)

// CommitType describes one entry of the commit-type table.
// Title, when set, is the changelog section the type is listed under;
// types without a Title never appear in a generated changelog.
type CommitType struct {
	Desc  string `json:"description,omitempty"`
	Emoji string `json:"emoji,omitempty"`
	Title string `json:"title,omitempty"`
}

type Rule struct {
	HeaderFormat     string `json:"headerFormat"`
	HeaderFormatHint string `json:"headerFormatHint"`

	Types *orderedmap.OrderedMap[string, CommitType] `json:"types"` //map[string]CommitType

	DenyEmptyType bool `json:"denyEmptyType"`
	DenyAdlibType bool `json:"denyAdlibType"`

	UseBreakingChange bool `json:"useBreakingChange"`

	SubjectLimit int `json:"subjectLimit"`

	Github    ChangelogConfig `json:"github"`
	TagFormat string          `json:"tagFormat"`

	// Uncategorized decides what happens to a commit whose header has no
	// recognizable type prefix: "skip", "section" or "error".
	Uncategorized string `json:"uncategorized"`

	pattern *regexp.Regexp
}

// ChangelogConfig identifies the GitHub repository commit links point at.
type ChangelogConfig struct {
	Org  string `json:"org"`
	Repo string `json:"repo"`
}

// Answers is one complete set of replies to Questions.
type Answers struct {
	Type         string
	Scope        string
	Subject      string
	Body         string
	IsBreaking   bool
	BreakingBody string
	Footer       string
}

// ParsedCommit is one commit ready to be rendered as a changelog line.
type ParsedCommit struct {
	Type    string
	Scope   string
	Subject string
	Hash    string
}

func (c ParsedCommit) ShortHash() string {
	if len(c.Hash) < 7 {
		return c.Hash
	}
	return c.Hash[:7]
}

// ParsedHeader is the result of matching a commit header against the rule.
type ParsedHeader struct {
	Type        string
	Scope       string
	Description string
	Breaking    bool
}

type Scopes map[string]time.Time
