package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

type changelogCmd struct {
	Out     string `cli:"out,o" help:"write to a file instead of stdout"`
	Since   string `cli:"since" help:"start revision (exclusive); defaults to the most recent tag"`
	Version string `cli:"version,v" help:"version heading; defaults to the tag at HEAD, or Unreleased"`
}

func (c changelogCmd) Run(g globalCmd, args []string) error {
	repos, err := git.PlainOpenWithOptions(".", &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return err
	}

	rule, _ := readRuleFile(repos)

	records, headTag, err := c.collectRecords(repos, rule)
	if err != nil {
		return err
	}

	version := c.Version
	if version == "" {
		version = headTag
	}

	out, err := buildChangelog(rule, version, time.Now().Format("2006-01-02"), records)
	if err != nil {
		return err
	}

	if c.Out == "" {
		fmt.Print(out)
		return nil
	}

	file, err := os.Create(c.Out)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := file.WriteString(out); err != nil {
		return fmt.Errorf("write changelog: %w", err)
	}
	return nil
}

// collectRecords walks history from HEAD back to the previous release
// boundary and returns headers oldest first. headTag is the matching tag
// at HEAD itself, if any.
func (c changelogCmd) collectRecords(repos *git.Repository, rule *Rule) (records []commitRecord, headTag string, err error) {
	head, err := repos.Head()
	if err != nil {
		return nil, "", err
	}

	tagged, err := taggedCommits(repos, rule.TagFormat)
	if err != nil {
		return nil, "", err
	}
	headTag = tagged[head.Hash()]

	var stop plumbing.Hash
	haveStop := false
	if c.Since != "" {
		h, err := repos.ResolveRevision(plumbing.Revision(c.Since))
		if err != nil {
			return nil, "", fmt.Errorf("resolving %s: %w", c.Since, err)
		}
		stop = *h
		haveStop = true
	}

	cIter, err := repos.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, "", err
	}

	err = cIter.ForEach(func(cm *object.Commit) error {
		if haveStop {
			if cm.Hash == stop {
				return storer.ErrStop
			}
		} else if cm.Hash != head.Hash() {
			if _, ok := tagged[cm.Hash]; ok {
				return storer.ErrStop
			}
		}

		header, _, _ := strings.Cut(cm.Message, "\n")
		records = append(records, commitRecord{
			Header: strings.TrimSpace(header),
			Hash:   cm.Hash.String(),
		})
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	// oldest first within the release
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}

	return records, headTag, nil
}

// taggedCommits maps commit hashes to the tag names matching tagFormat.
// Annotated tags are peeled to their target commit.
func taggedCommits(repos *git.Repository, tagFormat string) (map[plumbing.Hash]string, error) {
	tagged := map[plumbing.Hash]string{}

	iter, err := repos.Tags()
	if err != nil {
		return nil, err
	}
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		if !tagMatches(tagFormat, name) {
			return nil
		}
		h := ref.Hash()
		if obj, err := repos.TagObject(h); err == nil {
			h = obj.Target
		}
		tagged[h] = name
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tagged, nil
}
