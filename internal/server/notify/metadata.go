package notify

import (
	"context"

	"github.com/dmitrijs2005/vivarium/internal/logging"
	"github.com/dmitrijs2005/vivarium/internal/server/media"
)

// AnimalLink is the client route of an animal's page.
func AnimalLink(animalID string) string {
	return "/animals/" + animalID
}

// MetadataBuilder derives notification metadata from a reminder's animal.
type MetadataBuilder struct {
	icons  media.IconResolver
	logger logging.Logger
}

// NewMetadataBuilder accepts a nil resolver, in which case icons stay empty.
func NewMetadataBuilder(icons media.IconResolver, logger logging.Logger) *MetadataBuilder {
	return &MetadataBuilder{icons: icons, logger: logger}
}

// Build never fails: a missing animal gives empty metadata and an icon
// lookup error only drops the icon.
func (b *MetadataBuilder) Build(ctx context.Context, animalID *string) Metadata {
	if animalID == nil || *animalID == "" {
		return Metadata{}
	}
	meta := Metadata{Link: AnimalLink(*animalID)}
	if b.icons == nil {
		return meta
	}
	icon, err := b.icons.IconURL(ctx, *animalID)
	if err != nil {
		b.logger.Warn(ctx, "icon lookup failed", "animal_id", *animalID, "error", err)
		return meta
	}
	meta.Icon = icon
	return meta
}
