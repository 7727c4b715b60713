package database

import (
	"context"
	"time"

	"food-reels-server/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *MongoStore) CreatePartner(ctx context.Context, partner *models.FoodPartner) error {
	if partner.ID.IsZero() {
		partner.ID = primitive.NewObjectID()
	}
	_, err := s.partners.InsertOne(ctx, partner)
	return mapErr(err)
}

func (s *MongoStore) FindPartnerByID(ctx context.Context, id primitive.ObjectID) (*models.FoodPartner, error) {
	var partner models.FoodPartner
	if err := s.partners.FindOne(ctx, bson.M{"_id": id}).Decode(&partner); err != nil {
		return nil, mapErr(err)
	}
	return &partner, nil
}

func (s *MongoStore) FindPartnerByEmail(ctx context.Context, email string) (*models.FoodPartner, error) {
	var partner models.FoodPartner
	if err := s.partners.FindOne(ctx, bson.M{"businessEmail": email}).Decode(&partner); err != nil {
		return nil, mapErr(err)
	}
	return &partner, nil
}

func (s *MongoStore) FindPartnersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.FoodPartner, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := s.partners.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var partners []models.FoodPartner
	if err := cursor.All(ctx, &partners); err != nil {
		return nil, err
	}
	return partners, nil
}

func (s *MongoStore) UpdatePartner(ctx context.Context, id primitive.ObjectID, update models.PartnerUpdate) (*models.FoodPartner, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.BusinessDescription != nil {
		set["businessDescription"] = *update.BusinessDescription
	}
	if update.Specialties != nil {
		set["specialties"] = update.Specialties
	}
	if update.CuisineTypes != nil {
		set["cuisineTypes"] = update.CuisineTypes
	}
	if update.ProfileImage != nil {
		set["profileImage"] = *update.ProfileImage
	}
	if update.CoverImage != nil {
		set["coverImage"] = *update.CoverImage
	}

	var partner models.FoodPartner
	err := s.partners.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&partner)
	if err != nil {
		return nil, mapErr(err)
	}
	return &partner, nil
}

func (s *MongoStore) AddFollower(ctx context.Context, partnerID, userID primitive.ObjectID) (bool, error) {
	return s.updateFollowers(ctx, partnerID, "$addToSet", userID)
}

func (s *MongoStore) RemoveFollower(ctx context.Context, partnerID, userID primitive.ObjectID) (bool, error) {
	return s.updateFollowers(ctx, partnerID, "$pull", userID)
}

func (s *MongoStore) updateFollowers(ctx context.Context, partnerID primitive.ObjectID, op string, userID primitive.ObjectID) (bool, error) {
	res, err := s.partners.UpdateOne(ctx, membershipFilter(partnerID, op, "followers", userID), bson.M{
		op:     bson.M{"followers": userID},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return false, err
	}
	if res.MatchedCount > 0 {
		return true, nil
	}
	n, err := s.partners.CountDocuments(ctx, bson.M{"_id": partnerID})
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, ErrNotFound
	}
	return false, nil
}
