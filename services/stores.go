package services

import (
	"context"
	"time"

	"food-reels-server/models"
	"food-reels-server/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Set mutations (Add*/Remove*) report whether membership actually changed.

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	HasLikedReel(ctx context.Context, userID, feedID primitive.ObjectID) (bool, error)
	AddLikedReel(ctx context.Context, userID, feedID primitive.ObjectID) (bool, error)
	RemoveLikedReel(ctx context.Context, userID, feedID primitive.ObjectID) (bool, error)
	AddFollowing(ctx context.Context, userID, partnerID primitive.ObjectID) (bool, error)
	RemoveFollowing(ctx context.Context, userID, partnerID primitive.ObjectID) (bool, error)
}

type PartnerStore interface {
	CreatePartner(ctx context.Context, partner *models.FoodPartner) error
	FindPartnerByID(ctx context.Context, id primitive.ObjectID) (*models.FoodPartner, error)
	FindPartnerByEmail(ctx context.Context, email string) (*models.FoodPartner, error)
	FindPartnersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.FoodPartner, error)
	UpdatePartner(ctx context.Context, id primitive.ObjectID, update models.PartnerUpdate) (*models.FoodPartner, error)
	AddFollower(ctx context.Context, partnerID, userID primitive.ObjectID) (bool, error)
	RemoveFollower(ctx context.Context, partnerID, userID primitive.ObjectID) (bool, error)
}

type FeedStore interface {
	CreateFeed(ctx context.Context, feed *models.FoodFeed) error
	FindFeedByID(ctx context.Context, id primitive.ObjectID) (*models.FoodFeed, error)
	ListFeeds(ctx context.Context, filter models.FeedFilter, sort models.FeedSort, skip, limit int64) ([]models.FoodFeed, error)
	CountFeeds(ctx context.Context, filter models.FeedFilter) (int64, error)
	IncrementLikes(ctx context.Context, id primitive.ObjectID, delta int64) (int64, error)
	IncrementViews(ctx context.Context, id primitive.ObjectID) (int64, error)
	AddComment(ctx context.Context, feedID primitive.ObjectID, comment models.Comment) error
	FeedStatsByOwner(ctx context.Context, ownerID primitive.ObjectID) (models.FeedStats, error)
	RecentFeedsByOwner(ctx context.Context, ownerID primitive.ObjectID, n int64) ([]models.FoodFeed, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// ObjectStore uploads a payload and returns where it can be fetched publicly.
type ObjectStore interface {
	Upload(ctx context.Context, data []byte, fileName, mimeType string) (*storage.Result, error)
}

// UploadFile is one file taken from a multipart request.
type UploadFile struct {
	Data     []byte
	FileName string
	MimeType string
}
