package database

import (
	"context"
	"time"

	"food-reels-server/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (s *MongoStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	_, err := s.users.InsertOne(ctx, user)
	return mapErr(err)
}

func (s *MongoStore) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func (s *MongoStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func (s *MongoStore) FindUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *MongoStore) HasLikedReel(ctx context.Context, userID, feedID primitive.ObjectID) (bool, error) {
	n, err := s.users.CountDocuments(ctx, bson.M{"_id": userID, "likedReels": feedID})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *MongoStore) AddLikedReel(ctx context.Context, userID, feedID primitive.ObjectID) (bool, error) {
	return s.updateUserSet(ctx, userID, "$addToSet", "likedReels", feedID)
}

func (s *MongoStore) RemoveLikedReel(ctx context.Context, userID, feedID primitive.ObjectID) (bool, error) {
	return s.updateUserSet(ctx, userID, "$pull", "likedReels", feedID)
}

func (s *MongoStore) AddFollowing(ctx context.Context, userID, partnerID primitive.ObjectID) (bool, error) {
	return s.updateUserSet(ctx, userID, "$addToSet", "following", partnerID)
}

func (s *MongoStore) RemoveFollowing(ctx context.Context, userID, partnerID primitive.ObjectID) (bool, error) {
	return s.updateUserSet(ctx, userID, "$pull", "following", partnerID)
}

// updateUserSet applies op to a set field and reports whether the set changed.
// The membership test sits in the filter so a no-op update matches nothing.
func (s *MongoStore) updateUserSet(ctx context.Context, userID primitive.ObjectID, op, field string, value primitive.ObjectID) (bool, error) {
	res, err := s.users.UpdateOne(ctx, membershipFilter(userID, op, field, value), bson.M{
		op:     bson.M{field: value},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return false, err
	}
	if res.MatchedCount > 0 {
		return true, nil
	}
	n, err := s.users.CountDocuments(ctx, bson.M{"_id": userID})
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, ErrNotFound
	}
	return false, nil
}
