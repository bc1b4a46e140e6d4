package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"foodsnap/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names match the documents written by earlier versions of
// the service.
const (
	collUsers       = "users"
	collMeals       = "meals"
	collIngredients = "user_ingredients"
	collAttempts    = "analysis_attempts"
	collDevices     = "user_devices"
)

type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// OpenMongo connects, pings, and makes sure the lookup indexes exist.
func OpenMongo(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	s := &MongoStore{client: client, db: client.Database(dbName)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	specs := map[string][]mongo.IndexModel{
		collUsers: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collMeals: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "timestamp", Value: -1}}},
		},
		collIngredients: {
			{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collAttempts: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: 1}}},
		},
		collDevices: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "tokenHash", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}
	for coll, idx := range specs {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create %s indexes: %w", coll, err)
		}
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) CreateUser(ctx context.Context, u *models.User) error {
	_, err := s.db.Collection(collUsers).InsertOne(ctx, u)
	return err
}

func (s *MongoStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := s.db.Collection(collUsers).FindOne(ctx, bson.M{"id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *MongoStore) SetUserGoals(ctx context.Context, id string, goals models.UserGoals) error {
	return s.updateUser(ctx, id, bson.M{"goals": goals})
}

func (s *MongoStore) SetPremium(ctx context.Context, id string, premium bool) error {
	return s.updateUser(ctx, id, bson.M{"isPremium": premium})
}

func (s *MongoStore) updateUser(ctx context.Context, id string, set bson.M) error {
	res, err := s.db.Collection(collUsers).UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) InsertMeal(ctx context.Context, m *models.Meal) error {
	_, err := s.db.Collection(collMeals).InsertOne(ctx, m)
	return err
}

func (s *MongoStore) ListMeals(ctx context.Context, userID string, limit int) ([]models.Meal, error) {
	if limit <= 0 {
		limit = DefaultMealLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))
	return s.findMeals(ctx, bson.M{"userId": userID}, opts)
}

func (s *MongoStore) MealsBetween(ctx context.Context, userID string, fromMs, toMs int64) ([]models.Meal, error) {
	return s.findMeals(ctx, mealRange(userID, fromMs, toMs), options.Find())
}

func (s *MongoStore) CountMealsBetween(ctx context.Context, userID string, fromMs, toMs int64) (int64, error) {
	return s.db.Collection(collMeals).CountDocuments(ctx, mealRange(userID, fromMs, toMs))
}

func (s *MongoStore) findMeals(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Meal, error) {
	cur, err := s.db.Collection(collMeals).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	meals := []models.Meal{}
	if err := cur.All(ctx, &meals); err != nil {
		return nil, err
	}
	return meals, nil
}

func mealRange(userID string, fromMs, toMs int64) bson.M {
	return bson.M{
		"userId":    userID,
		"timestamp": bson.M{"$gte": fromMs, "$lte": toMs},
	}
}

func (s *MongoStore) DeleteMeal(ctx context.Context, id string) (*models.Meal, error) {
	var m models.Meal
	err := s.db.Collection(collMeals).FindOneAndDelete(ctx, bson.M{"id": id}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *MongoStore) GetIngredients(ctx context.Context, userID string) (*models.UserIngredients, error) {
	var doc models.UserIngredients
	err := s.db.Collection(collIngredients).FindOne(ctx, bson.M{"userId": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *MongoStore) SaveIngredients(ctx context.Context, doc models.UserIngredients) error {
	if doc.Ingredients == nil {
		doc.Ingredients = []string{}
	}
	_, err := s.db.Collection(collIngredients).UpdateOne(ctx,
		bson.M{"userId": doc.UserID},
		bson.M{"$set": bson.M{
			"userId":      doc.UserID,
			"ingredients": doc.Ingredients,
			"lastUpdated": doc.LastUpdated,
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (s *MongoStore) RemoveIngredients(ctx context.Context, userID string, items []string) error {
	_, err := s.db.Collection(collIngredients).UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$pull": bson.M{"ingredients": bson.M{"$in": items}}},
	)
	return err
}

func (s *MongoStore) InsertAttempt(ctx context.Context, a models.AnalysisAttempt) error {
	_, err := s.db.Collection(collAttempts).InsertOne(ctx, a)
	return err
}

func (s *MongoStore) CountAttempts(ctx context.Context, userID string, from, to time.Time) (int64, error) {
	return s.db.Collection(collAttempts).CountDocuments(ctx, bson.M{
		"user_id":   userID,
		"timestamp": bson.M{"$gte": from, "$lte": to},
	})
}

func (s *MongoStore) UpsertDevice(ctx context.Context, d *models.UserDevice) error {
	_, err := s.db.Collection(collDevices).UpdateOne(ctx,
		bson.M{"userId": d.UserID, "tokenHash": d.TokenHash},
		bson.M{
			"$set": bson.M{
				"platform":    d.Platform,
				"endpointArn": d.EndpointARN,
				"language":    d.Language,
				"enabled":     d.Enabled,
				"updatedAt":   d.UpdatedAt,
			},
			"$setOnInsert": bson.M{"createdAt": d.CreatedAt},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (s *MongoStore) ListDevices(ctx context.Context, userID string) ([]models.UserDevice, error) {
	cur, err := s.db.Collection(collDevices).Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	var out []models.UserDevice
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) SetDevicesEnabled(ctx context.Context, userID string, enabled bool) error {
	_, err := s.db.Collection(collDevices).UpdateMany(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"enabled": enabled, "updatedAt": time.Now()}},
	)
	return err
}

func (s *MongoStore) UsersWithDevices(ctx context.Context) ([]string, error) {
	raw, err := s.db.Collection(collDevices).Distinct(ctx, "userId", bson.M{"enabled": true})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(string); ok {
			out = append(out, id)
		}
	}
	return out, nil
}
