package cleanerRepo

import (
	"context"

	"sparkclean/models"
)

// CleanerRepository defines the data access methods used by the availability index and ranker.
type CleanerRepository interface {
	// AreaExists reports whether a service area with areaID is known.
	AreaExists(ctx context.Context, areaID string) (bool, error)
	// FindCovering returns active, available cleaners with a coverage entry for areaID,
	// working windows included.
	FindCovering(ctx context.Context, areaID string) ([]models.Cleaner, error)
	// GetByIDs returns the cleaners with the given ids. Unknown ids are skipped.
	GetByIDs(ctx context.Context, ids []string) ([]models.Cleaner, error)
	// Save inserts or replaces a cleaner together with its coverage and windows.
	Save(ctx context.Context, cleaner *models.Cleaner) error
	// SaveArea inserts or replaces a service area.
	SaveArea(ctx context.Context, area *models.ServiceArea) error
}
