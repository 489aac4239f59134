package experienceRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roamly/database"
	"roamly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrExperienceNotFound is returned when no catalog entry matches the id.
var ErrExperienceNotFound = errors.New("experience not found")

// MongoExperienceRepo implements ExperienceRepository using MongoDB.
type MongoExperienceRepo struct {
	coll  *mongo.Collection
	avail *mongo.Collection
}

// NewMongoExperienceRepo creates a new instance of ExperienceRepository using MongoDB.
func NewMongoExperienceRepo() ExperienceRepository {
	db := database.MongoClient.Database("roamly")
	repo := &MongoExperienceRepo{
		coll:  db.Collection("experiences"),
		avail: db.Collection("provider_availability"),
	}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoExperienceRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	if _, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("failed to create experience index: %w", err)
	}

	if _, err := r.avail.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "experience_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("failed to create availability index: %w", err)
	}
	return nil
}

// GetByID retrieves an experience by its unique ID.
func (r *MongoExperienceRepo) GetByID(id string) (*models.Experience, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var exp models.Experience
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&exp)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrExperienceNotFound
		}
		return nil, fmt.Errorf("failed to fetch experience %s: %w", id, err)
	}
	return &exp, nil
}

// GetAvailability retrieves the weekday pattern for an experience. A missing
// document means the provider accepts bookings on every weekday.
func (r *MongoExperienceRepo) GetAvailability(experienceID string) (*models.ProviderAvailability, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var pa models.ProviderAvailability
	err := r.avail.FindOne(ctx, bson.M{"experience_id": experienceID}).Decode(&pa)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &models.ProviderAvailability{ExperienceID: experienceID}, nil
		}
		return nil, fmt.Errorf("failed to fetch availability for %s: %w", experienceID, err)
	}
	return &pa, nil
}
