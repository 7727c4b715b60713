package database

import (
	"context"
	"errors"
	"time"

	"food-reels-server/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *MongoStore) CreateFeed(ctx context.Context, feed *models.FoodFeed) error {
	if feed.ID.IsZero() {
		feed.ID = primitive.NewObjectID()
	}
	_, err := s.feeds.InsertOne(ctx, feed)
	return mapErr(err)
}

func (s *MongoStore) FindFeedByID(ctx context.Context, id primitive.ObjectID) (*models.FoodFeed, error) {
	var feed models.FoodFeed
	if err := s.feeds.FindOne(ctx, bson.M{"_id": id}).Decode(&feed); err != nil {
		return nil, mapErr(err)
	}
	return &feed, nil
}

func feedQuery(f models.FeedFilter) bson.M {
	query := bson.M{}
	if f.Category != "" {
		query["category"] = f.Category
	}
	if f.Cuisine != "" {
		query["cuisine"] = f.Cuisine
	}
	if f.Difficulty != "" {
		query["difficulty"] = f.Difficulty
	}
	if f.IsVegetarian != nil {
		query["isVegetarian"] = *f.IsVegetarian
	}
	if f.Owner != nil {
		query["owner"] = *f.Owner
	}
	return query
}

func feedSort(sort models.FeedSort) bson.D {
	switch sort {
	case models.SortLatest:
		return bson.D{{Key: "createdAt", Value: -1}}
	case models.SortPopular:
		return bson.D{{Key: "likes", Value: -1}}
	case models.SortViews:
		return bson.D{{Key: "views", Value: -1}}
	}
	return nil
}

func (s *MongoStore) ListFeeds(ctx context.Context, filter models.FeedFilter, sort models.FeedSort, skip, limit int64) ([]models.FoodFeed, error) {
	opts := options.Find().SetSkip(skip).SetLimit(limit)
	if order := feedSort(sort); order != nil {
		opts.SetSort(order)
	}
	cursor, err := s.feeds.Find(ctx, feedQuery(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	feeds := []models.FoodFeed{}
	if err := cursor.All(ctx, &feeds); err != nil {
		return nil, err
	}
	return feeds, nil
}

func (s *MongoStore) CountFeeds(ctx context.Context, filter models.FeedFilter) (int64, error) {
	return s.feeds.CountDocuments(ctx, feedQuery(filter))
}

// IncrementLikes moves the like counter by delta and returns the new value.
// A decrement never takes the counter below zero.
func (s *MongoStore) IncrementLikes(ctx context.Context, id primitive.ObjectID, delta int64) (int64, error) {
	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["likes"] = bson.M{"$gte": -delta}
	}
	feed, err := s.incrementCounter(ctx, filter, "likes", delta)
	if errors.Is(err, ErrNotFound) && delta < 0 {
		current, ferr := s.FindFeedByID(ctx, id)
		if ferr != nil {
			return 0, ferr
		}
		return current.Likes, nil
	}
	if err != nil {
		return 0, err
	}
	return feed.Likes, nil
}

func (s *MongoStore) IncrementViews(ctx context.Context, id primitive.ObjectID) (int64, error) {
	feed, err := s.incrementCounter(ctx, bson.M{"_id": id}, "views", 1)
	if err != nil {
		return 0, err
	}
	return feed.Views, nil
}

func (s *MongoStore) incrementCounter(ctx context.Context, filter bson.M, field string, delta int64) (*models.FoodFeed, error) {
	var feed models.FoodFeed
	err := s.feeds.FindOneAndUpdate(ctx, filter,
		bson.M{"$inc": bson.M{field: delta}, "$set": bson.M{"updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(bson.M{"likes": 1, "views": 1}),
	).Decode(&feed)
	if err != nil {
		return nil, mapErr(err)
	}
	return &feed, nil
}

func (s *MongoStore) AddComment(ctx context.Context, feedID primitive.ObjectID, comment models.Comment) error {
	res, err := s.feeds.UpdateOne(ctx, bson.M{"_id": feedID}, bson.M{
		"$push": bson.M{"comments": comment},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) FeedStatsByOwner(ctx context.Context, ownerID primitive.ObjectID) (models.FeedStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"owner": ownerID}}},
		{{Key: "$group", Value: bson.M{
			"_id":         nil,
			"totalVideos": bson.M{"$sum": 1},
			"totalLikes":  bson.M{"$sum": "$likes"},
		}}},
	}
	cursor, err := s.feeds.Aggregate(ctx, pipeline)
	if err != nil {
		return models.FeedStats{}, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		TotalVideos int64 `bson:"totalVideos"`
		TotalLikes  int64 `bson:"totalLikes"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return models.FeedStats{}, err
	}
	if len(rows) == 0 {
		return models.FeedStats{}, nil
	}
	return models.FeedStats{TotalVideos: rows[0].TotalVideos, TotalLikes: rows[0].TotalLikes}, nil
}

func (s *MongoStore) RecentFeedsByOwner(ctx context.Context, ownerID primitive.ObjectID, n int64) ([]models.FoodFeed, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(n).
		SetProjection(bson.M{"title": 1, "thumbnail": 1, "likes": 1, "createdAt": 1, "videoUrl": 1})
	cursor, err := s.feeds.Find(ctx, bson.M{"owner": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	feeds := []models.FoodFeed{}
	if err := cursor.All(ctx, &feeds); err != nil {
		return nil, err
	}
	return feeds, nil
}
