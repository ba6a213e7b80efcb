package app

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/nhle/jira-skills/internal/crossref"
	"github.com/nhle/jira-skills/internal/domain"
)

// StdinIssueKeys collects the issue keys mentioned anywhere in stdin, so
// the output of another command can be piped into a bulk operation.
func (a *App) StdinIssueKeys() ([]string, error) {
	keys, err := crossref.ScanIssueKeys(a.Stdin)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, domain.NewValidationError("no issue keys found on stdin")
	}
	return keys, nil
}

// readLine returns the first line of r without its line ending.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("empty input")
	}
	return line, nil
}
