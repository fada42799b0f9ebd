package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sparkclean/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresBookingRepo implements BookingRepository on gorm.
type PostgresBookingRepo struct {
	db *gorm.DB
}

func NewPostgresBookingRepo(db *gorm.DB) *PostgresBookingRepo {
	return &PostgresBookingRepo{db: db}
}

func (r *PostgresBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching booking with id %s: %w", id, err)
	}
	return &b, nil
}

func (r *PostgresBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		return fmt.Errorf("error creating booking: %w", err)
	}
	return nil
}

func (r *PostgresBookingRepo) FindBlocking(ctx context.Context, q BlockingQuery) ([]models.Booking, error) {
	if len(q.CleanerIDs) == 0 {
		return []models.Booking{}, nil
	}
	var out []models.Booking
	if err := r.db.WithContext(ctx).Scopes(blockingScope(q)).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("error finding overlapping bookings: %w", err)
	}
	return out, nil
}

// blockingScope narrows to blocking bookings with start < q.End AND end > q.Start.
func blockingScope(q BlockingQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("cleaner_id IN ? AND booking_date = ? AND status IN ?",
			q.CleanerIDs, q.Date, statusStrings(models.BlockingStatuses)).
			Where("start_minute < ? AND end_minute > ?", q.End, q.Start)
		if q.ExcludeBookingID != "" {
			db = db.Where("id <> ?", q.ExcludeBookingID)
		}
		return db
	}
}

// AssignCleaner locks the cleaner row, then the booking row, so concurrent
// assignments of one cleaner serialize and see each other's committed bookings.
func (r *PostgresBookingRepo) AssignCleaner(ctx context.Context, p AssignParams) (*models.Booking, error) {
	var out models.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cleaner models.Cleaner
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Take(&cleaner, "id = ?", p.CleanerID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCleanerNotFound
		}
		if err != nil {
			return fmt.Errorf("lock cleaner failed: %w", err)
		}

		var booking models.Booking
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).Take(&booking, "id = ?", p.BookingID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock booking failed: %w", err)
		}

		var overlapping int64
		err = tx.Model(&models.Booking{}).Scopes(blockingScope(BlockingQuery{
			CleanerIDs:       []string{p.CleanerID},
			Date:             booking.Date,
			Start:            booking.Start,
			End:              booking.End,
			ExcludeBookingID: booking.ID,
		})).Count(&overlapping).Error
		if err != nil {
			return fmt.Errorf("overlap check failed: %w", err)
		}
		if overlapping > 0 {
			return ErrCleanerBusy
		}

		q := tx.Model(&models.Booking{}).
			Where("id = ? AND status NOT IN ?", p.BookingID, statusStrings(models.TerminalStatuses))
		if p.ExpectedCleanerID == nil {
			q = q.Where("cleaner_id IS NULL")
		} else {
			q = q.Where("cleaner_id = ?", *p.ExpectedCleanerID)
		}
		now := time.Now().UTC()
		res := q.Updates(map[string]interface{}{
			"cleaner_id": p.CleanerID,
			"status":     string(p.Status),
			"updated_at": now,
		})
		if res.Error != nil {
			return fmt.Errorf("conditional assign failed: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrStaleBooking
		}

		cleanerID := p.CleanerID
		booking.CleanerID = &cleanerID
		booking.Status = p.Status
		booking.UpdatedAt = now
		out = booking
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
