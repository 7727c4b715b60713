package services

import (
	"context"
	stderrors "errors"
	"time"

	"food-reels-server/database"
	"food-reels-server/models"
	"food-reels-server/utils/errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func userKey(id primitive.ObjectID) string    { return "user:" + id.Hex() }
func partnerKey(id primitive.ObjectID) string { return "partner:" + id.Hex() }

// PrincipalService loads authenticated principals through the cache.
// Entries live as long as a session token; every write to a principal
// document drops its entry.
type PrincipalService struct {
	users    UserStore
	partners PartnerStore
	cache    Cache
	ttl      time.Duration
	log      *zap.Logger
}

func NewPrincipalService(users UserStore, partners PartnerStore, cache Cache, ttl time.Duration, log *zap.Logger) *PrincipalService {
	return &PrincipalService{users: users, partners: partners, cache: cache, ttl: ttl, log: log}
}

// GetUser retrieves a user from the cache or the store
func (s *PrincipalService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if hit, err := s.cache.Get(ctx, userKey(id), &user); err != nil {
		s.log.Warn("User cache read failed", zap.String("user_id", id.Hex()), zap.Error(err))
	} else if hit {
		return &user, nil
	}

	found, err := s.users.FindUserByID(ctx, id)
	if stderrors.Is(err, database.ErrNotFound) {
		return nil, errors.NotFound("User not found")
	}
	if err != nil {
		return nil, errors.Internal("Failed to load user", err)
	}
	if err := s.cache.Set(ctx, userKey(id), found, s.ttl); err != nil {
		s.log.Warn("User cache write failed", zap.String("user_id", id.Hex()), zap.Error(err))
	}
	return found, nil
}

// GetPartner retrieves a food partner from the cache or the store
func (s *PrincipalService) GetPartner(ctx context.Context, id primitive.ObjectID) (*models.FoodPartner, error) {
	var partner models.FoodPartner
	if hit, err := s.cache.Get(ctx, partnerKey(id), &partner); err != nil {
		s.log.Warn("Partner cache read failed", zap.String("partner_id", id.Hex()), zap.Error(err))
	} else if hit {
		return &partner, nil
	}

	found, err := s.partners.FindPartnerByID(ctx, id)
	if stderrors.Is(err, database.ErrNotFound) {
		return nil, errors.NotFound("Food partner not found")
	}
	if err != nil {
		return nil, errors.Internal("Failed to load food partner", err)
	}
	if err := s.cache.Set(ctx, partnerKey(id), found, s.ttl); err != nil {
		s.log.Warn("Partner cache write failed", zap.String("partner_id", id.Hex()), zap.Error(err))
	}
	return found, nil
}

func (s *PrincipalService) InvalidateUser(ctx context.Context, id primitive.ObjectID) {
	if err := s.cache.Delete(ctx, userKey(id)); err != nil {
		s.log.Warn("User cache invalidation failed", zap.String("user_id", id.Hex()), zap.Error(err))
	}
}

func (s *PrincipalService) InvalidatePartner(ctx context.Context, id primitive.ObjectID) {
	if err := s.cache.Delete(ctx, partnerKey(id)); err != nil {
		s.log.Warn("Partner cache invalidation failed", zap.String("partner_id", id.Hex()), zap.Error(err))
	}
}
