package main

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

const (
	UncategorizedSkip    = "skip"
	UncategorizedSection = "section"
	UncategorizedError   = "error"

	uncategorizedTitle = "Uncategorized"
)

// headerPattern compiles the rule's type table into the header grammar
// `type(scope)?!?: description`. Compiled once per rule.
func (r *Rule) headerPattern() *regexp.Regexp {
	if r.pattern != nil {
		return r.pattern
	}

	alts := make([]string, 0, len(r.Types.Keys()))
	for _, k := range r.Types.Keys() {
		if strings.HasPrefix(k, "#") {
			continue
		}
		alts = append(alts, regexp.QuoteMeta(k))
	}
	// longer alternatives first, so a type does not shadow its extensions
	sort.Slice(alts, func(i, j int) bool { return len(alts[i]) > len(alts[j]) })
	if len(alts) == 0 {
		alts = []string{`[a-z][a-z0-9]*`}
	}

	r.pattern = regexp.MustCompile(`^(` + strings.Join(alts, "|") + `)(\(([^()]+)\))?(!)?:\s+(.*)$`)
	return r.pattern
}

// ParseHeader matches a commit header line against the rule's grammar and
// recovers type, scope and description. A leading emoji belonging to the
// type is stripped from the description.
func ParseHeader(rule *Rule, header string) (ParsedHeader, error) {
	m := rule.headerPattern().FindStringSubmatch(strings.TrimSpace(header))
	if m == nil {
		return ParsedHeader{}, &MalformedCommitError{Header: header}
	}

	ph := ParsedHeader{
		Type:        m[1],
		Scope:       m[3],
		Breaking:    m[4] == "!",
		Description: strings.TrimSpace(m[5]),
	}
	if em := emojiUnicodeOf(rule, ph.Type); em != "" {
		ph.Description = strings.TrimSpace(strings.TrimPrefix(ph.Description, em))
	}
	return ph, nil
}

// FormatChangelogLine renders one commit as a changelog bullet with a link
// to the commit on GitHub.
func FormatChangelogLine(c ParsedCommit, cfg ChangelogConfig) (string, error) {
	if cfg.Org == "" {
		return "", &ConfigurationError{Key: "github.org"}
	}
	if cfg.Repo == "" {
		return "", &ConfigurationError{Key: "github.repo"}
	}

	link := fmt.Sprintf("[%s](https://github.com/%s/%s/commit/%s)", c.ShortHash(), cfg.Org, cfg.Repo, c.Hash)
	if c.Scope != "" {
		return fmt.Sprintf("- **%s**: %s (%s)", c.Scope, c.Subject, link), nil
	}
	return fmt.Sprintf("- %s (%s)", c.Subject, link), nil
}

// commitRecord is the raw material of one changelog entry.
type commitRecord struct {
	Header string
	Hash   string
}

// buildChangelog groups records into sections following the order of the
// rule's type table and renders one markdown block for the release.
// Records are expected oldest first.
func buildChangelog(rule *Rule, version, date string, records []commitRecord) (string, error) {
	if version == "" {
		version = "Unreleased"
	}

	titles := []string{}
	seen := map[string]bool{}
	for _, k := range rule.Types.Keys() {
		ct, ok := rule.Types.Get(k)
		if !ok || ct.Title == "" || seen[ct.Title] {
			continue
		}
		seen[ct.Title] = true
		titles = append(titles, ct.Title)
	}

	sections := map[string][]string{}
	for _, rec := range records {
		ph, err := ParseHeader(rule, rec.Header)
		if err != nil {
			var mal *MalformedCommitError
			if !errors.As(err, &mal) {
				return "", err
			}
			switch rule.Uncategorized {
			case UncategorizedError:
				return "", err
			case UncategorizedSection:
				line, err := FormatChangelogLine(ParsedCommit{Subject: rec.Header, Hash: rec.Hash}, rule.Github)
				if err != nil {
					return "", err
				}
				sections[uncategorizedTitle] = append(sections[uncategorizedTitle], line)
			}
			continue
		}

		ct, ok := rule.Types.Get(ph.Type)
		if !ok || ct.Title == "" {
			continue
		}

		line, err := FormatChangelogLine(ParsedCommit{
			Type:    ph.Type,
			Scope:   ph.Scope,
			Subject: ph.Description,
			Hash:    rec.Hash,
		}, rule.Github)
		if err != nil {
			return "", err
		}
		sections[ct.Title] = append(sections[ct.Title], line)
	}
	if len(sections[uncategorizedTitle]) > 0 {
		titles = append(titles, uncategorizedTitle)
	}

	sb := strings.Builder{}
	fmt.Fprintf(&sb, "## %s (%s)\n", version, date)
	for _, title := range titles {
		lines := sections[title]
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n### %s\n\n", title)
		for _, line := range lines {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

// tagMatches reports whether a tag name fits the rule's tag format.
// The format is a literal with a "{version}" placeholder, e.g. "v{version}".
func tagMatches(format, name string) bool {
	if format == "" || format == "{version}" {
		return true
	}
	pat := "^" + strings.ReplaceAll(regexp.QuoteMeta(format), regexp.QuoteMeta("{version}"), `.+`) + "$"
	re, err := regexp.Compile(pat)
	if err != nil {
		return true
	}
	return re.MatchString(name)
}
