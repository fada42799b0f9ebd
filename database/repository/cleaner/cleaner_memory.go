package cleanerRepo

import (
	"context"
	"sync"
	"time"

	"sparkclean/models"
)

// MemoryCleanerRepo keeps cleaners and areas in process memory.
type MemoryCleanerRepo struct {
	mu       sync.RWMutex
	cleaners map[string]models.Cleaner
	areas    map[string]models.ServiceArea
}

func NewMemoryCleanerRepo() *MemoryCleanerRepo {
	return &MemoryCleanerRepo{
		cleaners: make(map[string]models.Cleaner),
		areas:    make(map[string]models.ServiceArea),
	}
}

func (r *MemoryCleanerRepo) AreaExists(ctx context.Context, areaID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.areas[areaID]
	return ok, nil
}

func (r *MemoryCleanerRepo) FindCovering(ctx context.Context, areaID string) ([]models.Cleaner, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Cleaner
	for _, c := range r.cleaners {
		if c.Active && c.Available && c.CoversArea(areaID) {
			out = append(out, cloneCleaner(c))
		}
	}
	return out, nil
}

func (r *MemoryCleanerRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Cleaner, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Cleaner, 0, len(ids))
	for _, id := range ids {
		if c, ok := r.cleaners[id]; ok {
			out = append(out, cloneCleaner(c))
		}
	}
	return out, nil
}

func (r *MemoryCleanerRepo) Save(ctx context.Context, cleaner *models.Cleaner) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := cleaner.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC()
	if cleaner.CreatedAt.IsZero() {
		cleaner.CreatedAt = now
	}
	cleaner.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()
	r.cleaners[cleaner.ID] = cloneCleaner(*cleaner)
	return nil
}

func (r *MemoryCleanerRepo) SaveArea(ctx context.Context, area *models.ServiceArea) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if area.CreatedAt.IsZero() {
		area.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.areas[area.ID] = *area
	return nil
}

// HasCleaner lets the memory booking store check cleaner existence on assignment.
func (r *MemoryCleanerRepo) HasCleaner(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.cleaners[id]
	return ok
}

func cloneCleaner(c models.Cleaner) models.Cleaner {
	c.AreaIDs = append([]string(nil), c.AreaIDs...)
	c.WorkingWindows = append([]models.WorkingWindow(nil), c.WorkingWindows...)
	if c.HourlyRate != nil {
		rate := *c.HourlyRate
		c.HourlyRate = &rate
	}
	return c
}
