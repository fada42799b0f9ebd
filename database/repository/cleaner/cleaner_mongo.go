package cleanerRepo

import (
	"context"
	"fmt"
	"time"

	"sparkclean/models"
	"sparkclean/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCleanerRepo implements CleanerRepository using MongoDB.
type MongoCleanerRepo struct {
	cleanerColl *mongo.Collection
	areaColl    *mongo.Collection
}

// NewMongoCleanerRepo constructs a MongoCleanerRepo on db and ensures its indexes.
func NewMongoCleanerRepo(db *mongo.Database) (*MongoCleanerRepo, error) {
	repo := &MongoCleanerRepo{
		cleanerColl: db.Collection("cleaners"),
		areaColl:    db.Collection("service_areas"),
	}
	if err := repo.ensureIndexes(); err != nil {
		return nil, err
	}
	return repo, nil
}

// ensureIndexes creates indexes for the coverage lookup.
func (r *MongoCleanerRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cleanerIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{
			{Key: "areaIds", Value: 1},
			{Key: "active", Value: 1},
			{Key: "available", Value: 1},
		}},
	}
	if _, err := r.cleanerColl.Indexes().CreateMany(ctx, cleanerIdx); err != nil {
		return fmt.Errorf("failed to create cleaner indexes: %w", err)
	}
	areaIdx := mongo.IndexModel{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)}
	if _, err := r.areaColl.Indexes().CreateOne(ctx, areaIdx); err != nil {
		return fmt.Errorf("failed to create area indexes: %w", err)
	}
	return nil
}

func (r *MongoCleanerRepo) AreaExists(ctx context.Context, areaID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.StoreTimeout)
	defer cancel()

	n, err := r.areaColl.CountDocuments(ctx, bson.M{"id": areaID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("error checking area %s: %w", areaID, err)
	}
	return n > 0, nil
}

func (r *MongoCleanerRepo) FindCovering(ctx context.Context, areaID string) ([]models.Cleaner, error) {
	filter := bson.M{"areaIds": areaID, "active": true, "available": true}
	return r.find(ctx, filter)
}

func (r *MongoCleanerRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Cleaner, error) {
	if len(ids) == 0 {
		return []models.Cleaner{}, nil
	}
	return r.find(ctx, bson.M{"id": bson.M{"$in": ids}})
}

func (r *MongoCleanerRepo) find(ctx context.Context, filter bson.M) ([]models.Cleaner, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.StoreTimeout)
	defer cancel()

	cursor, err := r.cleanerColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error finding cleaners: %w", err)
	}
	defer cursor.Close(ctx)

	var cleaners []models.Cleaner
	if err := cursor.All(ctx, &cleaners); err != nil {
		return nil, fmt.Errorf("error decoding cleaners: %w", err)
	}
	return cleaners, nil
}

func (r *MongoCleanerRepo) Save(ctx context.Context, cleaner *models.Cleaner) error {
	if err := cleaner.Validate(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, utils.StoreTimeout)
	defer cancel()

	now := time.Now().UTC()
	if cleaner.CreatedAt.IsZero() {
		cleaner.CreatedAt = now
	}
	cleaner.UpdatedAt = now
	if cleaner.AreaIDs == nil {
		cleaner.AreaIDs = []string{}
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := r.cleanerColl.ReplaceOne(ctx, bson.M{"id": cleaner.ID}, cleaner, opts); err != nil {
		return fmt.Errorf("error saving cleaner %s: %w", cleaner.ID, err)
	}
	return nil
}

func (r *MongoCleanerRepo) SaveArea(ctx context.Context, area *models.ServiceArea) error {
	ctx, cancel := context.WithTimeout(ctx, utils.StoreTimeout)
	defer cancel()

	if area.CreatedAt.IsZero() {
		area.CreatedAt = time.Now().UTC()
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.areaColl.ReplaceOne(ctx, bson.M{"id": area.ID}, area, opts); err != nil {
		return fmt.Errorf("error saving area %s: %w", area.ID, err)
	}
	return nil
}
