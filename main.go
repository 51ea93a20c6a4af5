package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	prompt "github.com/elk-language/go-prompt"
	pstrings "github.com/elk-language/go-prompt/strings"

	git "github.com/go-git/go-git/v5"

	"github.com/shu-go/gli"
	"github.com/shu-go/orderedmap"
	"gopkg.in/yaml.v3"
)

type globalCmd struct {
	repository *git.Repository

	rule *Rule

	scopesFileName string
	scopes         Scopes

	All bool `cli:"all,a" help:"commit all changed files"`

	Debug bool `cli:"debug" default:"false" help:"do not commit, do output to stdout"`

	Gen       genCmd       `cli:"generate,gen" help:"generate rule file"`
	Changelog changelogCmd `cli:"changelog,log" help:"generate changelog entries for a release"`
}

func (c globalCmd) Run() error {
	repos, err := git.PlainOpenWithOptions(".", &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return err
	}
	c.repository = repos

	wt, err := repos.Worktree()
	if err != nil {
		return err
	}

	if !c.Debug && c.All {
		st, err := wt.Status()
		if err != nil {
			return err
		}
		for f, s := range st {
			switch s.Worktree {
			case git.Modified, git.Added, git.Deleted, git.Renamed, git.Copied, git.UpdatedButUnmerged:
				if _, err := wt.Add(f); err != nil {
					return fmt.Errorf("adding %s: %w", f, err)
				}
			default:
				//nop
			}
		}
	}

	st, err := wt.Status()
	if err != nil {
		return err
	}
	staged := false
	for _, s := range st {
		staged = staged || (s.Staging != git.Unmodified && s.Staging != git.Untracked)
	}
	if !staged {
		fmt.Fprintln(os.Stderr, "no changes")

		if !c.Debug {
			return nil
		}
	}

	if err := c.prepare(repos); err != nil {
		return err
	}

	msg := c.buildupCommitMessage()

	if c.Debug {
		fmt.Println("----------")
		fmt.Println(msg)
		return nil
	}

	f, err := os.CreateTemp("", "")
	if err != nil {
		return err
	}
	_, err = f.WriteString(msg)
	if err != nil {
		f.Close()
		return err
	}
	f.Close()

	cmd := exec.Command("git", "commit", "-F", f.Name())
	err = cmd.Run()
	os.Remove(f.Name())
	if err != nil {
		return err
	}

	return nil
}

func (c *globalCmd) prepare(repos *git.Repository) error {
	c.rule, _ = readRuleFile(repos)

	// scope history

	c.scopes, c.scopesFileName = readScopesFile(repos)
	if c.scopes == nil {
		c.scopes = make(Scopes)
	}

	return nil
}

func (c globalCmd) buildupCommitMessage() string {
	answers := Answers{}

	for _, q := range Questions(c.rule) {
		switch q.Key {
		case "type":
			answers.Type = c.promptType(q)
		case "scope":
			answers.Scope = c.promptScope(q)
		case "subject":
			answers.Subject = c.promptInput(q, "Description: ")
		case "body":
			answers.Body = c.promptBody(q)
		case "is_breaking":
			if c.rule.UseBreakingChange {
				answers.IsBreaking = c.promptConfirm(q)
			}
		case "breaking":
			if answers.IsBreaking {
				answers.BreakingBody = c.promptInput(q, "BREAKING CHANGE: ")
			}
		case "footer":
			answers.Footer = c.promptInput(q, "Footer: ")
		}
	}

	c.writeBackScopes(answers.Scope)

	return Compose(c.rule, answers)
}

func (c globalCmd) writeBackScopes(scope string) {
	if scope == "" || c.scopesFileName == "" {
		return
	}

	c.scopes[scope] = time.Now()

	type tmpscope struct {
		scope string
		ts    time.Time
	}
	sclist := []tmpscope{}
	for k, v := range c.scopes {
		sclist = append(sclist, tmpscope{
			scope: k,
			ts:    v,
		})
	}
	sort.Slice(sclist, func(i, j int) bool {
		return sclist[i].ts.After(sclist[j].ts)
	})

	outscope := orderedmap.New[string, time.Time]()
	for _, s := range sclist {
		outscope.Set(s.scope, s.ts)
	}

	var content []byte
	if in(filepath.Ext(c.scopesFileName), ".json") {
		content, _ = json.MarshalIndent(outscope, "", "  ")
	} else {
		content, _ = yaml.Marshal(outscope)
	}

	if file, err := os.Create(c.scopesFileName); err == nil {
		_, err = file.WriteString(string(content))
		if err != nil {
			fmt.Fprintf(os.Stderr, "WARNING: write scopes: %v\n", err)
		}
		file.Close()
	}
}

func (c globalCmd) promptType(q Question) string {
	items := make([]prompt.Suggest, 0, len(q.Choices))
	for _, ch := range q.Choices {
		items = append(items, prompt.Suggest{
			Text:        ch.Value,
			Description: ch.Desc,
		})
	}

	typeCompleter := func(in prompt.Document) ([]prompt.Suggest, pstrings.RuneNumber, pstrings.RuneNumber) {
		endIndex := in.CurrentRuneIndex()
		w := in.GetWordBeforeCursor()
		startIndex := endIndex - pstrings.RuneCountInString(w)

		return prompt.FilterHasPrefix(items, w, true), startIndex, endIndex
	}

	for {
		in := prompt.Input(prompt.WithPrefix("Type: "), prompt.WithCompleter(typeCompleter), prompt.WithShowCompletionAtStart())
		typ, err := c.rule.Validate(q.Key, in)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if typ == "" && q.Required {
			fmt.Fprintln(os.Stderr, "type is required")
			continue
		}
		return typ
	}
}

func (c globalCmd) promptScope(q Question) string {
	items := make([]prompt.Suggest, 0, 8)

	for s, t := range c.scopes {
		item := prompt.Suggest{
			Text:        s,
			Description: t.Local().Format(time.RFC3339),
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Description > items[j].Description
	})
	// timestamps are not shown
	for i := range items {
		items[i].Description = ""
	}
	scopeCompleter := func(in prompt.Document) ([]prompt.Suggest, pstrings.RuneNumber, pstrings.RuneNumber) {
		endIndex := in.CurrentRuneIndex()
		w := in.GetWordBeforeCursor()
		startIndex := endIndex - pstrings.RuneCountInString(w)

		return prompt.FilterHasPrefix(items, w, true), startIndex, endIndex
	}

	for {
		in := prompt.Input(
			prompt.WithPrefix("Scope: "),
			prompt.WithCompleter(scopeCompleter),
			prompt.WithShowCompletionAtStart(),
		)
		scope, err := c.rule.Validate(q.Key, NormalizeScope(in))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		return scope
	}
}

func (c globalCmd) promptInput(q Question, prefix string) string {
	noCompleter := func(in prompt.Document) ([]prompt.Suggest, pstrings.RuneNumber, pstrings.RuneNumber) {
		endIndex := in.CurrentRuneIndex()
		w := in.GetWordBeforeCursor()
		startIndex := endIndex - pstrings.RuneCountInString(w)

		return prompt.FilterHasPrefix(nil, w, true), startIndex, endIndex
	}

	for {
		in := prompt.Input(prompt.WithPrefix(prefix), prompt.WithCompleter(noCompleter))
		v, err := c.rule.Validate(q.Key, in)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		return v
	}
}

func (c globalCmd) promptConfirm(q Question) bool {
	buf := bufio.NewReader(os.Stdin)
	for {
		fmt.Printf("%s [y/N]: ", q.Prompt)
		line, err := buf.ReadString('\n')
		if err != nil {
			return false
		}
		v, verr := c.rule.Validate(q.Key, strings.TrimSpace(line))
		if verr != nil {
			fmt.Fprintln(os.Stderr, verr)
			continue
		}
		return v == "true"
	}
}

func (c globalCmd) promptBody(q Question) string {
	var body string

	fmt.Println(q.Prompt + ": (Enter 2 empty lines to finish)")

	prevEmpty := false
	buf := bufio.NewReader(os.Stdin)
	for {
		linebyte, _, err := buf.ReadLine()
		if err != nil {
			break
		}

		line := strings.TrimSpace(string(linebyte))

		if line == "" {
			if prevEmpty {
				break
			}
			prevEmpty = true
			//continue
		} else {
			prevEmpty = false
		}

		if body != "" {
			body += "\n"
		}
		body += line
	}

	body, _ = c.rule.Validate(q.Key, body)
	return body
}

// Version is app version
var Version string

func main() {
	rule, scope := getPathToHelp()
	if rule != "" {
		rule = "\nrule: " + rule + "\n"
	}
	if scope != "" {
		scope = "scope: " + scope + "\n"
	}

	app := gli.NewWith(&globalCmd{})
	app.Name = "git-cz"
	app.Desc = "A conventional commits and changelog tool"
	app.Version = Version
	app.Usage = `
# prepare
# Put git-cz to PATH.

# basic usage
git cz

# customize
git cz gen
(edit .cz.yaml, set github org/repo)
git cz

# changelog for the current release
git cz changelog -v 1.2.3
` + rule + scope + `

# record and complete scope history
(gitconfig: [cz] scopes=.scopes.yaml)

# point commit links at GitHub
(gitconfig: [cz] github=org/repo)`
	app.Copyright = "(C) 2025 Shuhei Kubota"
	app.SuppressErrorOutput = true
	if err := app.Run(os.Args); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func getPathToHelp() (rule string, scope string) {
	repos, err := git.PlainOpenWithOptions(".", &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", ""
	}

	_, rule = readRuleFile(repos)
	_, scope = readScopesFile(repos)

	return rule, scope
}

func in(s string, choices ...string) bool {
	if len(choices) == 0 {
		return false
	}

	for i := 0; i < len(choices); i++ {
		if strings.EqualFold(s, choices[i]) {
			return true
		}
	}

	return false
}
