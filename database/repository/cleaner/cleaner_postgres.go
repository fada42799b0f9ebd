package cleanerRepo

import (
	"context"
	"fmt"
	"time"

	"sparkclean/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresCleanerRepo implements CleanerRepository on gorm.
type PostgresCleanerRepo struct {
	db *gorm.DB
}

func NewPostgresCleanerRepo(db *gorm.DB) *PostgresCleanerRepo {
	return &PostgresCleanerRepo{db: db}
}

func (r *PostgresCleanerRepo) AreaExists(ctx context.Context, areaID string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.ServiceArea{}).Where("id = ?", areaID).Count(&n).Error; err != nil {
		return false, fmt.Errorf("error checking area %s: %w", areaID, err)
	}
	return n > 0, nil
}

func (r *PostgresCleanerRepo) FindCovering(ctx context.Context, areaID string) ([]models.Cleaner, error) {
	var cleaners []models.Cleaner
	err := r.db.WithContext(ctx).
		Preload("WorkingWindows").
		Joins("JOIN cleaner_areas ON cleaner_areas.cleaner_id = cleaners.id").
		Where("cleaner_areas.area_id = ? AND cleaners.active = ? AND cleaners.available = ?", areaID, true, true).
		Find(&cleaners).Error
	if err != nil {
		return nil, fmt.Errorf("error finding cleaners for area %s: %w", areaID, err)
	}
	if err := r.loadAreas(ctx, cleaners); err != nil {
		return nil, err
	}
	return cleaners, nil
}

func (r *PostgresCleanerRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Cleaner, error) {
	if len(ids) == 0 {
		return []models.Cleaner{}, nil
	}
	var cleaners []models.Cleaner
	if err := r.db.WithContext(ctx).Preload("WorkingWindows").Where("id IN ?", ids).Find(&cleaners).Error; err != nil {
		return nil, fmt.Errorf("error fetching cleaners: %w", err)
	}
	if err := r.loadAreas(ctx, cleaners); err != nil {
		return nil, err
	}
	return cleaners, nil
}

// loadAreas fills AreaIDs from the join table.
func (r *PostgresCleanerRepo) loadAreas(ctx context.Context, cleaners []models.Cleaner) error {
	if len(cleaners) == 0 {
		return nil
	}
	ids := make([]string, len(cleaners))
	for i, c := range cleaners {
		ids[i] = c.ID
	}
	var rows []models.CleanerArea
	if err := r.db.WithContext(ctx).Where("cleaner_id IN ?", ids).Find(&rows).Error; err != nil {
		return fmt.Errorf("error loading cleaner coverage: %w", err)
	}
	byCleaner := make(map[string][]string, len(cleaners))
	for _, row := range rows {
		byCleaner[row.CleanerID] = append(byCleaner[row.CleanerID], row.AreaID)
	}
	for i := range cleaners {
		cleaners[i].AreaIDs = byCleaner[cleaners[i].ID]
	}
	return nil
}

func (r *PostgresCleanerRepo) Save(ctx context.Context, cleaner *models.Cleaner) error {
	if err := cleaner.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC()
	if cleaner.CreatedAt.IsZero() {
		cleaner.CreatedAt = now
	}
	cleaner.UpdatedAt = now

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(cleaner).Error; err != nil {
			return fmt.Errorf("error saving cleaner %s: %w", cleaner.ID, err)
		}

		// Windows and coverage are replaced wholesale.
		if err := tx.Where("cleaner_id = ?", cleaner.ID).Delete(&models.WorkingWindow{}).Error; err != nil {
			return fmt.Errorf("error clearing windows: %w", err)
		}
		if len(cleaner.WorkingWindows) > 0 {
			windows := make([]models.WorkingWindow, len(cleaner.WorkingWindows))
			for i, w := range cleaner.WorkingWindows {
				w.ID = 0
				w.CleanerID = cleaner.ID
				windows[i] = w
			}
			if err := tx.Create(&windows).Error; err != nil {
				return fmt.Errorf("error saving windows: %w", err)
			}
			cleaner.WorkingWindows = windows
		}

		if err := tx.Where("cleaner_id = ?", cleaner.ID).Delete(&models.CleanerArea{}).Error; err != nil {
			return fmt.Errorf("error clearing coverage: %w", err)
		}
		if len(cleaner.AreaIDs) > 0 {
			rows := make([]models.CleanerArea, len(cleaner.AreaIDs))
			for i, areaID := range cleaner.AreaIDs {
				rows[i] = models.CleanerArea{CleanerID: cleaner.ID, AreaID: areaID}
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
				return fmt.Errorf("error saving coverage: %w", err)
			}
		}
		return nil
	})
}

func (r *PostgresCleanerRepo) SaveArea(ctx context.Context, area *models.ServiceArea) error {
	if area.CreatedAt.IsZero() {
		area.CreatedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Save(area).Error; err != nil {
		return fmt.Errorf("error saving area %s: %w", area.ID, err)
	}
	return nil
}
