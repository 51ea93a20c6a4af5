package main

import "fmt"

// ValidationError reports a prompt answer that failed its validator.
// The caller is expected to re-prompt.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// ConfigurationError reports a missing setting that formatting depends on.
type ConfigurationError struct {
	Key string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing configuration: %s (add it to the rule file or gitconfig)", e.Key)
}

// MalformedCommitError reports a commit header with no recognizable type prefix.
type MalformedCommitError struct {
	Header string
}

func (e *MalformedCommitError) Error() string {
	return fmt.Sprintf("no recognizable commit type: %q", e.Header)
}
