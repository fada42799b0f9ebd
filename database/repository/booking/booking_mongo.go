package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sparkclean/models"
	"sparkclean/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	bookingColl *mongo.Collection
	cleanerColl *mongo.Collection
}

// NewMongoBookingRepo constructs a MongoBookingRepo on db and ensures its indexes.
// AssignCleaner needs a replica set, as multi-document transactions do.
func NewMongoBookingRepo(db *mongo.Database) (*MongoBookingRepo, error) {
	repo := &MongoBookingRepo{
		bookingColl: db.Collection("bookings"),
		cleanerColl: db.Collection("cleaners"),
	}
	if err := repo.ensureIndexes(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *MongoBookingRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		// Overlap lookups: one cleaner, one day, then the time range.
		{Keys: bson.D{
			{Key: "cleanerId", Value: 1},
			{Key: "date", Value: 1},
			{Key: "status", Value: 1},
			{Key: "start", Value: 1},
		}},
		{Keys: bson.D{{Key: "customerId", Value: 1}}},
	}
	if _, err := r.bookingColl.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.StoreTimeout)
	defer cancel()

	var booking models.Booking
	if err := r.bookingColl.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching booking with id %s: %w", id, err)
	}
	return &booking, nil
}

// Create inserts a new booking document.
func (r *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, utils.StoreTimeout)
	defer cancel()

	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	booking.CreatedAt, booking.UpdatedAt = now, now
	if _, err := r.bookingColl.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("error creating booking: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) FindBlocking(ctx context.Context, q BlockingQuery) ([]models.Booking, error) {
	if len(q.CleanerIDs) == 0 {
		return []models.Booking{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, utils.StoreTimeout)
	defer cancel()

	cursor, err := r.bookingColl.Find(ctx, blockingFilter(q))
	if err != nil {
		return nil, fmt.Errorf("error finding overlapping bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding booking: %w", err)
	}
	return bookings, nil
}

// blockingFilter matches the half-open overlap start < q.End && end > q.Start.
func blockingFilter(q BlockingQuery) bson.M {
	filter := bson.M{
		"cleanerId": bson.M{"$in": q.CleanerIDs},
		"date":      q.Date,
		"status":    bson.M{"$in": statusStrings(models.BlockingStatuses)},
		"start":     bson.M{"$lt": q.End},
		"end":       bson.M{"$gt": q.Start},
	}
	if q.ExcludeBookingID != "" {
		filter["id"] = bson.M{"$ne": q.ExcludeBookingID}
	}
	return filter
}

// AssignCleaner runs the overlap check and the conditional update in one
// transaction. Every assignment to a cleaner also bumps that cleaner's
// assignmentSeq, so two transactions racing for the same cleaner write-conflict
// and one of them is retried against the other's committed booking.
func (r *MongoBookingRepo) AssignCleaner(ctx context.Context, p AssignParams) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*utils.StoreTimeout)
	defer cancel()

	sess, err := r.bookingColl.Database().Client().StartSession()
	if err != nil {
		return nil, fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	result, err := sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var booking models.Booking
		if err := r.bookingColl.FindOne(sc, bson.M{"id": p.BookingID}).Decode(&booking); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("load booking failed: %w", err)
		}

		fence, err := r.cleanerColl.UpdateOne(sc,
			bson.M{"id": p.CleanerID},
			bson.M{"$inc": bson.M{"assignmentSeq": 1}},
		)
		if err != nil {
			return nil, fmt.Errorf("cleaner write fence failed: %w", err)
		}
		if fence.MatchedCount == 0 {
			return nil, ErrCleanerNotFound
		}

		overlapping, err := r.bookingColl.CountDocuments(sc, blockingFilter(BlockingQuery{
			CleanerIDs:       []string{p.CleanerID},
			Date:             booking.Date,
			Start:            booking.Start,
			End:              booking.End,
			ExcludeBookingID: booking.ID,
		}))
		if err != nil {
			return nil, fmt.Errorf("overlap check failed: %w", err)
		}
		if overlapping > 0 {
			return nil, ErrCleanerBusy
		}

		filter := bson.M{
			"id":     p.BookingID,
			"status": bson.M{"$nin": statusStrings(models.TerminalStatuses)},
		}
		if p.ExpectedCleanerID == nil {
			filter["cleanerId"] = nil
		} else {
			filter["cleanerId"] = *p.ExpectedCleanerID
		}
		now := time.Now().UTC()
		update := bson.M{"$set": bson.M{
			"cleanerId": p.CleanerID,
			"status":    p.Status,
			"updatedAt": now,
		}}
		res, err := r.bookingColl.UpdateOne(sc, filter, update)
		if err != nil {
			return nil, fmt.Errorf("conditional assign failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return nil, ErrStaleBooking
		}

		cleanerID := p.CleanerID
		booking.CleanerID = &cleanerID
		booking.Status = p.Status
		booking.UpdatedAt = now
		return &booking, nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrStaleBooking) ||
			errors.Is(err, ErrCleanerBusy) || errors.Is(err, ErrCleanerNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("assignment transaction failed: %w", err)
	}
	return result.(*models.Booking), nil
}
