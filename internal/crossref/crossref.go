// Package crossref finds Jira issue keys mentioned in free text, such as
// branch names, commit messages or the output of another command piped in.
package crossref

import (
	"bufio"
	"fmt"
	"io"
	"regexp"

	"github.com/nhle/jira-skills/internal/validate"
)

// issueKeyPattern matches issue keys on word boundaries (PROJ-123, AB_2-7).
var issueKeyPattern = regexp.MustCompile(`\b(` + validate.IssueKeyPattern + `)\b`)

// ExtractIssueKeys returns the issue keys found in text, deduplicated in
// order of first occurrence.
func ExtractIssueKeys(text string) []string {
	return appendKeys(nil, map[string]bool{}, text)
}

// ScanIssueKeys reads r line by line and collects every issue key in it.
func ScanIssueKeys(r io.Reader) ([]string, error) {
	var keys []string
	seen := map[string]bool{}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		keys = appendKeys(keys, seen, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return keys, fmt.Errorf("reading issue keys: %w", err)
	}
	return keys, nil
}

func appendKeys(keys []string, seen map[string]bool, text string) []string {
	for _, m := range issueKeyPattern.FindAllString(text, -1) {
		if seen[m] {
			continue
		}
		seen[m] = true
		keys = append(keys, m)
	}
	return keys
}
