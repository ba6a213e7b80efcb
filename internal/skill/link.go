package skill

import (
	"context"
	"strings"

	"github.com/nhle/jira-skills/internal/bulk"
	"github.com/nhle/jira-skills/internal/domain"
	"github.com/nhle/jira-skills/internal/model"
	"github.com/nhle/jira-skills/internal/validate"
)

// BulkLinkRequest links every source issue to one target issue.
type BulkLinkRequest struct {
	Sources  []string
	Target   string
	LinkType string
	// SkipExisting leaves sources alone that already have a link of
	// LinkType to Target.
	SkipExisting bool
	BulkOptions
}

// BulkLink creates "source <type> target" links, one per source. Sources
// that fail with a business error are reported and the rest still run.
func BulkLink(ctx context.Context, c LinkClient, req BulkLinkRequest) (*bulk.Summary, error) {
	target, err := validate.IssueKey(req.Target)
	if err != nil {
		return nil, err
	}
	linkType := strings.TrimSpace(req.LinkType)
	if linkType == "" {
		return nil, domain.NewValidationError("link type is required")
	}
	sources, err := validate.IssueKeys(req.Sources)
	if err != nil {
		return nil, err
	}
	for _, s := range sources {
		if s == target {
			return nil, domain.NewValidationError("cannot link %s to itself", s)
		}
	}

	opts := req.runOptions()
	if req.SkipExisting {
		opts.SkipExisting = true
		opts.Exists = func(ctx context.Context, source string) (bool, error) {
			links, err := c.GetIssueLinks(ctx, source)
			if err != nil {
				return false, err
			}
			return model.LinksTo(links, target, linkType), nil
		}
	}

	link := func(ctx context.Context, source string) error {
		return c.CreateLink(ctx, linkType, source, target, "")
	}
	return bulk.Run(ctx, sources, link, opts)
}
