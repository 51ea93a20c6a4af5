package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/kyokomi/emoji/v2"
)

// Compose renders the full commit message for one set of answers.
// Same input, same output: no clocks, no IO.
func Compose(rule *Rule, a Answers) string {
	msg := composeHeader(rule, a)

	if a.Body != "" {
		msg += "\n\n" + a.Body
	}
	if a.IsBreaking {
		msg += "\n\nBREAKING CHANGE: " + a.BreakingBody
	}
	if a.Footer != "" {
		msg += "\n\n" + a.Footer
	}

	return msg
}

func composeHeader(rule *Rule, a Answers) string {
	var scopeWithParens string
	if a.Scope != "" {
		scopeWithParens = "(" + a.Scope + ")"
	}

	var bang string
	if a.IsBreaking {
		bang = "!"
	}

	emojiUnicode := emojiUnicodeOf(rule, a.Type)
	if emojiUnicode != "" {
		emojiUnicode += " "
	}

	templ, err := template.New("").Parse(rule.HeaderFormat)
	buf := bytes.Buffer{}
	if err == nil {
		err = templ.Execute(&buf, map[string]string{
			"type":              a.Type,
			"scope":             a.Scope,
			"scope_with_parens": scopeWithParens,
			"bang":              bang,
			"emoji":             emojiOf(rule, a.Type),
			"emoji_unicode":     emojiUnicode,
			"description":       a.Subject,
		})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v: %q\n", err, rule.HeaderFormat)
		buf.Reset()
		buf.WriteString(a.Type)
		buf.WriteString(scopeWithParens)
		buf.WriteString(bang)
		buf.WriteString(": ")
		buf.WriteString(emojiUnicode)
		buf.WriteString(a.Subject)
	}
	return buf.String()
}

// emojiOf returns the emoji code of a type as written in the rule file.
func emojiOf(rule *Rule, typ string) string {
	if ct, found := rule.Types.Get(typ); found {
		return ct.Emoji
	}
	return ""
}

// emojiUnicodeOf returns the emojized form, e.g. ":bug:" -> "🐛".
func emojiUnicodeOf(rule *Rule, typ string) string {
	e := emojiOf(rule, typ)
	if e == "" {
		return ""
	}
	return strings.TrimSpace(emoji.Emojize(e))
}
