package model

import "strings"

// Link direction constants, relative to the issue the link was read from.
const (
	LinkOutward = "outward"
	LinkInward  = "inward"
)

// Link is an issue link as seen from one of its two issues.
type Link struct {
	ID string `json:"id" yaml:"id"`

	// Type is the link type name (e.g., "Blocks", "Cloners").
	Type string `json:"type" yaml:"type"`

	// Direction is LinkOutward or LinkInward.
	Direction string `json:"direction" yaml:"direction"`

	// Description is the phrase for Direction (e.g., "blocks", "is blocked by").
	Description string `json:"description" yaml:"description"`

	// OtherKey is the key of the issue on the other end.
	OtherKey string `json:"other_key" yaml:"other_key"`
}

// LinksTo reports whether any of links joins to key with the given type
// name. An empty typeName matches any type.
func LinksTo(links []Link, key, typeName string) bool {
	for _, l := range links {
		if l.OtherKey != key {
			continue
		}
		if typeName == "" || strings.EqualFold(l.Type, typeName) {
			return true
		}
	}
	return false
}
