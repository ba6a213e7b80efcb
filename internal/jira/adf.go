package jira

import (
	"encoding/json"
	"strings"
)

// TextToADF converts plain text to an Atlassian Document Format document,
// one paragraph per line. Empty text yields nil.
func TextToADF(text string) json.RawMessage {
	if text == "" {
		return nil
	}

	var content []any
	for _, para := range strings.Split(text, "\n") {
		if para == "" {
			content = append(content, map[string]any{
				"type":    "paragraph",
				"content": []any{},
			})
			continue
		}
		content = append(content, map[string]any{
			"type": "paragraph",
			"content": []any{
				map[string]any{"type": "text", "text": para},
			},
		})
	}

	doc := map[string]any{
		"type":    "doc",
		"version": 1,
		"content": content,
	}

	data, _ := json.Marshal(doc)
	return data
}

type adfNode struct {
	Type    string    `json:"type"`
	Text    string    `json:"text,omitempty"`
	Content []adfNode `json:"content,omitempty"`
}

// ADFToText extracts plain text from an ADF document. Plain JSON strings
// (API v2 bodies) are returned as-is.
func ADFToText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var doc adfNode
	if err := json.Unmarshal(raw, &doc); err != nil || doc.Type != "doc" {
		return string(raw)
	}

	var lines []string
	for _, block := range doc.Content {
		lines = append(lines, inlineText(block))
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

func inlineText(n adfNode) string {
	if n.Type == "text" {
		return n.Text
	}
	if n.Type == "hardBreak" {
		return "\n"
	}
	var b strings.Builder
	for _, c := range n.Content {
		b.WriteString(inlineText(c))
	}
	return b.String()
}
