// Package media resolves the icon URLs attached to reminder notifications.
package media

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// IDPlaceholder is replaced by the animal id in a PathIcons template.
const IDPlaceholder = "{id}"

// IconResolver returns a URL of the icon image of an animal.
type IconResolver interface {
	IconURL(ctx context.Context, animalID string) (string, error)
}

// IconKey is the object key of an animal icon in the media bucket.
func IconKey(animalID string) string {
	return fmt.Sprintf("animals/%s/icon", animalID)
}

// PathIcons renders icon URLs from a static template such as
// "https://cdn.example.com/animals/{id}/icon.png".
type PathIcons struct {
	Template string
}

func NewPathIcons(template string) *PathIcons {
	return &PathIcons{Template: template}
}

func (p *PathIcons) IconURL(_ context.Context, animalID string) (string, error) {
	if p.Template == "" {
		return "", nil
	}
	return strings.ReplaceAll(p.Template, IDPlaceholder, url.PathEscape(animalID)), nil
}
