package store

import (
	"context"

	"results-portal/models"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const resultsCollection = "results"

// MongoStore keeps each result as one document with embedded subjects.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore ensures the unique roll number index exists.
func NewMongoStore(ctx context.Context, db *mongo.Database) (*MongoStore, error) {
	coll := db.Collection(resultsCollection)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "rollNumber", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uq_roll_number"),
	})
	if err != nil {
		return nil, errors.Wrap(err, "create roll number index")
	}
	return &MongoStore{coll: coll}, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}

func (s *MongoStore) FindByRollNumber(ctx context.Context, rollNumber string) (*models.Result, error) {
	return s.findOne(ctx, bson.M{"rollNumber": rollNumber})
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (*models.Result, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M) (*models.Result, error) {
	var r models.Result
	err := s.coll.FindOne(ctx, filter).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find result")
	}
	if r.Subjects == nil {
		r.Subjects = []models.Subject{}
	}
	return &r, nil
}

func (s *MongoStore) Insert(ctx context.Context, r *models.Result) error {
	if _, err := s.coll.InsertOne(ctx, r); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return errors.Wrap(err, "insert result")
	}
	return nil
}

func (s *MongoStore) Replace(ctx context.Context, r *models.Result) error {
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": r.ID}, r)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return errors.Wrap(err, "replace result")
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "delete result")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
