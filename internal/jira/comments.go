package jira

import (
	"context"
	"fmt"
	"net/url"
)

// AddComment posts a new ADF comment to an issue. A nil visibility makes
// the comment public.
func (c *Client) AddComment(
	ctx context.Context,
	key string,
	body string,
	visibility *Visibility,
) (*Comment, error) {
	path := fmt.Sprintf("/rest/api/3/issue/%s/comment", url.PathEscape(key))
	payload := Comment{
		Body:       TextToADF(body),
		Visibility: visibility,
	}

	var result Comment
	if err := c.Post(ctx, path, payload, &result); err != nil {
		return nil, fmt.Errorf("commenting on %s: %w", key, err)
	}
	return &result, nil
}
