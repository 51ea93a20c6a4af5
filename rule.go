package main

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/plumbing/format/config"

	"github.com/shu-go/findcfg"
	"github.com/shu-go/orderedmap"
	"gopkg.in/yaml.v3"
)

const (
	userConfigFolder = "git-cz"

	defaultRuleFileName   = ".cz"
	defaultScopesFileName = ".scope-history"

	configSection      = "cz"
	configRule         = "rule"
	configScopeHistory = "scopes"
	configGithub       = "github"
)

func defaultRule(emoji bool) Rule {
	iif := func(cond bool, t, f string) string {
		if cond {
			return t
		}
		return f
	}

	ct := orderedmap.New[string, CommitType]()
	ct.Set("# comment1", CommitType{
		Desc: "comment starts with #",
	})
	ct.Set("fix", CommitType{
		Desc:  "A bug fix. Correlates with PATCH in SemVer",
		Emoji: iif(emoji, ":bug:", ""),
		Title: "Fix",
	})
	ct.Set("feat", CommitType{
		Desc:  "A new feature. Correlates with MINOR in SemVer",
		Emoji: iif(emoji, ":tada:", ""),
		Title: "Feat",
	})
	ct.Set("docs", CommitType{
		Desc:  "Documentation only changes",
		Emoji: iif(emoji, ":scroll:", ""),
	})
	ct.Set("style", CommitType{
		Desc:  "Changes that do not affect the meaning of the code (white-space, formatting, missing semi-colons, etc)",
		Emoji: iif(emoji, ":sunglasses:", ""),
	})
	ct.Set("refactor", CommitType{
		Desc:  "A code change that neither fixes a bug nor adds a feature",
		Emoji: iif(emoji, ":wrench:", ""),
		Title: "Refactor",
	})
	ct.Set("perf", CommitType{
		Desc:  "A code change that improves performance",
		Emoji: iif(emoji, ":rocket:", ""),
		Title: "Perf",
	})
	ct.Set("test", CommitType{
		Desc:  "Adding missing or correcting existing tests",
		Emoji: iif(emoji, ":vertical_traffic_light:", ""),
	})
	ct.Set("build", CommitType{
		Desc:  "Changes that affect the build system or external dependencies (example scopes: pip, docker, npm)",
		Emoji: iif(emoji, ":construction:", ""),
	})
	ct.Set("ci", CommitType{
		Desc:  "Changes to our CI configuration files and scripts",
		Emoji: iif(emoji, ":flying_saucer:", ""),
	})
	ct.Set("chore", CommitType{
		Desc: "Other changes that don't modify src or test files",
	})
	ct.Set("revert", CommitType{
		Desc:  "Reverts a previous commit",
		Emoji: iif(emoji, ":rewind:", ""),
	})

	return Rule{
		Types:             ct,
		DenyEmptyType:     false,
		DenyAdlibType:     false,
		UseBreakingChange: true,
		SubjectLimit:      defaultSubjectLimit,
		TagFormat:         "{version}",
		Uncategorized:     UncategorizedSkip,
		HeaderFormat:      "{{.type}}{{.scope_with_parens}}{{.bang}}: {{.emoji_unicode}}{{.description}}",
		HeaderFormatHint:  ".type, .scope, .scope_with_parens, .bang(if BREAKING CHANGE), .emoji, .emoji_unicode, .description",
	}
}

func readRuleFile(repos *git.Repository) (*Rule, string) {
	var rootDir string
	if wt, err := repos.Worktree(); err == nil {
		rootDir = wt.Filesystem.Root()
	}

	var exactPath string
	if rootDir != "" {
		// config
		if cfg := getGitConfig(repos, configRule); cfg != nil {
			exactPath = filepath.Join(rootDir, *cfg)
		}
	}

	finder := findcfg.New(
		findcfg.Name(defaultRuleFileName),
		findcfg.ExactPath(exactPath),
		findcfg.YAML(),
		findcfg.JSON(),
		findcfg.Dir(rootDir),
		findcfg.UserConfigDir(userConfigFolder),
		findcfg.ExecutableDir(),
	)
	found := finder.Find()
	if found != nil {
		if r, err := tryReadRuleFile(found.Path); err == nil {
			applyGitConfigGithub(repos, r)
			return r, found.Path
		}
	}

	r := defaultRule(true)
	applyGitConfigGithub(repos, &r)
	return &r, finder.FallbackPath()
}

func tryReadRuleFile(filename string) (*Rule, error) {
	if s, err := os.Stat(filename); err != nil || s.IsDir() {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	r := Rule{
		Types: orderedmap.New[string, CommitType](),
	}

	if in(filepath.Ext(filename), ".yaml", ".yml") {
		if err := yaml.Unmarshal(content, &r); err != nil {
			return nil, err
		}
		return &r, nil
	}
	if in(filepath.Ext(filename), ".json") {
		if err := json.Unmarshal(content, &r); err != nil {
			return nil, err
		}
		return &r, nil
	}
	if err := yaml.Unmarshal(content, &r); err != nil {
		if err := json.Unmarshal(content, &r); err != nil {
			return nil, err
		}
		return &r, nil
	}
	return &r, nil
}

// applyGitConfigGithub fills in org/repo from gitconfig ([cz] github=org/repo)
// when the rule file leaves them empty.
func applyGitConfigGithub(repos *git.Repository, r *Rule) {
	if r.Github.Org != "" && r.Github.Repo != "" {
		return
	}
	cfg := getGitConfig(repos, configGithub)
	if cfg == nil {
		return
	}
	org, repo, ok := strings.Cut(*cfg, "/")
	if !ok {
		return
	}
	if r.Github.Org == "" {
		r.Github.Org = org
	}
	if r.Github.Repo == "" {
		r.Github.Repo = repo
	}
}

func readScopesFile(repos *git.Repository) (scopes Scopes, fileName string) {
	var rootDir string
	if wt, err := repos.Worktree(); err == nil {
		rootDir = wt.Filesystem.Root()
	}

	var exactPath string
	if rootDir != "" {
		// config
		if cfg := getGitConfig(repos, configScopeHistory); cfg != nil {
			exactPath = filepath.Join(rootDir, *cfg)
		}
	}

	finder := findcfg.New(
		findcfg.Name(defaultScopesFileName),
		findcfg.ExactPath(exactPath),
		findcfg.YAML(),
		findcfg.JSON(),
		findcfg.Dir(rootDir),
		findcfg.UserConfigDir(userConfigFolder),
		findcfg.ExecutableDir(),
	)
	found := finder.Find()
	if found != nil {
		if sc, err := tryReadScopesFile(found.Path); err == nil {
			return sc, exactPath
		}
		return nil, finder.FallbackPath()
	}

	return nil, finder.FallbackPath()
}

func tryReadScopesFile(filename string) (Scopes, error) {
	if s, err := os.Stat(filename); err != nil || s.IsDir() {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	sc := make(Scopes)

	if in(filepath.Ext(filename), ".yaml", ".yml") {
		if err = yaml.Unmarshal(content, &sc); err != nil {
			return nil, err
		}
		return sc, nil
	}
	if in(filepath.Ext(filename), ".json") {
		if err = json.Unmarshal(content, &sc); err != nil {
			return nil, err
		}
		return sc, nil
	}
	if err = yaml.Unmarshal(content, &sc); err != nil {
		if err = json.Unmarshal(content, &sc); err != nil {
			return nil, err
		}
		return sc, nil
	}
	return sc, nil
}

func getGitConfig(repos *git.Repository, key string) *string {
	config, err := repos.Config()
	if err != nil {
		return nil
	}

	var ss *gitconfig.Section
	var found bool
	for _, s := range config.Raw.Sections {
		if s.Name == configSection {
			found = true
			ss = s
		}
	}
	if !found {
		return nil
	}

	if ctp := ss.Options.Get(key); ctp != "" {
		return &ctp
	}
	return nil
}
