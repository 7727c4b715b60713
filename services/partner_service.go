package services

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"food-reels-server/database"
	"food-reels-server/models"
	"food-reels-server/utils/errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const recentUploadsLimit = 6

// RecentUpload is the thumbnail view of a reel on the owner's profile.
type RecentUpload struct {
	ID        primitive.ObjectID `json:"_id"`
	Title     string             `json:"title"`
	Thumbnail string             `json:"thumbnail"`
	Likes     int64              `json:"likes"`
	CreatedAt time.Time          `json:"createdAt"`
	VideoURL  string             `json:"videoUrl"`
}

// Profile is what a partner sees about itself.
type Profile struct {
	ID                  primitive.ObjectID   `json:"_id"`
	BusinessName        string               `json:"businessName"`
	Owner               string               `json:"owner"`
	BusinessEmail       string               `json:"businessEmail"`
	PhoneNumber         string               `json:"phoneNumber"`
	Address             string               `json:"address"`
	ProfileImage        string               `json:"profileImage"`
	CoverImage          string               `json:"coverImage"`
	BusinessDescription string               `json:"businessDescription"`
	Specialties         []string             `json:"specialties"`
	CuisineTypes        []string             `json:"cuisineTypes"`
	Followers           []models.UserSummary `json:"followers"`
	Rating              float64              `json:"rating"`
	IsVerified          bool                 `json:"isVerified"`
	TotalVideos         int64                `json:"totalVideos"`
	TotalLikes          int64                `json:"totalLikes"`
	RecentUploads       []RecentUpload       `json:"recentUploads"`
}

// PublicProfile is what anyone can see about a partner.
type PublicProfile struct {
	ID                  primitive.ObjectID   `json:"_id"`
	BusinessName        string               `json:"businessName"`
	Owner               string               `json:"owner"`
	BusinessEmail       string               `json:"businessEmail"`
	PhoneNumber         string               `json:"phoneNumber"`
	Address             models.Address       `json:"address"`
	ProfileImage        string               `json:"profileImage"`
	BusinessDescription string               `json:"businessDescription"`
	Specialties         []string             `json:"specialties"`
	Followers           []models.UserSummary `json:"followers"`
	Rating              float64              `json:"rating"`
	IsVerified          bool                 `json:"isVerified"`
	TotalVideos         int64                `json:"totalVideos"`
	TotalLikes          int64                `json:"totalLikes"`
}

// UpdateProfileInput carries the optional parts of a profile edit. List
// fields are raw form values: a JSON array or a comma-separated list.
type UpdateProfileInput struct {
	BusinessDescription *string
	Specialties         *string
	CuisineTypes        *string
	ProfileImage        *UploadFile
	CoverImage          *UploadFile
}

type FollowResult struct {
	IsFollowing    bool
	FollowersCount int
}

type PartnerService struct {
	partners   PartnerStore
	users      UserStore
	feeds      FeedStore
	principals *PrincipalService
	uploads    *UploadService
	log        *zap.Logger
}

func NewPartnerService(partners PartnerStore, users UserStore, feeds FeedStore, principals *PrincipalService, uploads *UploadService, log *zap.Logger) *PartnerService {
	return &PartnerService{
		partners:   partners,
		users:      users,
		feeds:      feeds,
		principals: principals,
		uploads:    uploads,
		log:        log,
	}
}

func (s *PartnerService) findPartner(ctx context.Context, id primitive.ObjectID) (*models.FoodPartner, error) {
	partner, err := s.partners.FindPartnerByID(ctx, id)
	if stderrors.Is(err, database.ErrNotFound) {
		return nil, errors.NotFound("Food partner not found")
	}
	if err != nil {
		return nil, errors.Internal("Failed to load food partner", err)
	}
	return partner, nil
}

func (s *PartnerService) followerSummaries(ctx context.Context, ids []primitive.ObjectID) ([]models.UserSummary, error) {
	out := []models.UserSummary{}
	if len(ids) == 0 {
		return out, nil
	}
	users, err := s.users.FindUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range users {
		out = append(out, users[i].Summary())
	}
	return out, nil
}

// GetProfile assembles the authenticated partner's profile. The document,
// followers, stats and recent uploads are read concurrently.
func (s *PartnerService) GetProfile(ctx context.Context, current *models.FoodPartner) (*Profile, error) {
	var (
		partner   *models.FoodPartner
		followers []models.UserSummary
		stats     models.FeedStats
		recent    []models.FoodFeed
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		partner, err = s.findPartner(gctx, current.ID)
		return err
	})
	g.Go(func() (err error) {
		followers, err = s.followerSummaries(gctx, current.Followers)
		return err
	})
	g.Go(func() (err error) {
		stats, err = s.feeds.FeedStatsByOwner(gctx, current.ID)
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.feeds.RecentFeedsByOwner(gctx, current.ID, recentUploadsLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "Failed to fetch profile", http.StatusInternalServerError)
	}

	uploads := make([]RecentUpload, 0, len(recent))
	for _, f := range recent {
		uploads = append(uploads, RecentUpload{
			ID:        f.ID,
			Title:     f.Title,
			Thumbnail: f.Thumbnail,
			Likes:     f.Likes,
			CreatedAt: f.CreatedAt,
			VideoURL:  f.VideoURL,
		})
	}
	return &Profile{
		ID:                  partner.ID,
		BusinessName:        partner.BusinessName,
		Owner:               partner.Owner,
		BusinessEmail:       partner.BusinessEmail,
		PhoneNumber:         partner.PhoneNumber,
		Address:             partner.Address.String(),
		ProfileImage:        partner.ProfileImage,
		CoverImage:          partner.CoverImage,
		BusinessDescription: partner.BusinessDescription,
		Specialties:         nonNil(partner.Specialties),
		CuisineTypes:        nonNil(partner.CuisineTypes),
		Followers:           followers,
		Rating:              partner.Rating,
		IsVerified:          partner.IsVerified,
		TotalVideos:         stats.TotalVideos,
		TotalLikes:          stats.TotalLikes,
		RecentUploads:       uploads,
	}, nil
}

// UpdateProfile applies a partial edit. Image uploads run concurrently and
// any failed upload aborts the whole edit.
func (s *PartnerService) UpdateProfile(ctx context.Context, partnerID primitive.ObjectID, in UpdateProfileInput) (*models.FoodPartner, error) {
	update := models.PartnerUpdate{BusinessDescription: in.BusinessDescription}
	if in.Specialties != nil {
		update.Specialties = parseStringList(*in.Specialties)
	}
	if in.CuisineTypes != nil {
		update.CuisineTypes = parseStringList(*in.CuisineTypes)
	}

	g, gctx := errgroup.WithContext(ctx)
	if in.ProfileImage != nil {
		g.Go(func() error {
			url, err := s.uploads.Upload(gctx, *in.ProfileImage, "profile_"+partnerID.Hex())
			update.ProfileImage = &url
			return err
		})
	}
	if in.CoverImage != nil {
		g.Go(func() error {
			url, err := s.uploads.Upload(gctx, *in.CoverImage, "cover_"+partnerID.Hex())
			update.CoverImage = &url
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if update.Empty() {
		return s.findPartner(ctx, partnerID)
	}
	partner, err := s.partners.UpdatePartner(ctx, partnerID, update)
	if stderrors.Is(err, database.ErrNotFound) {
		return nil, errors.NotFound("Food partner not found")
	}
	if err != nil {
		return nil, errors.Internal("Failed to update profile", err)
	}
	s.principals.InvalidatePartner(ctx, partnerID)
	return partner, nil
}

func (s *PartnerService) GetPublicProfile(ctx context.Context, partnerID primitive.ObjectID) (*PublicProfile, error) {
	partner, err := s.findPartner(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	var (
		followers []models.UserSummary
		stats     models.FeedStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		followers, err = s.followerSummaries(gctx, partner.Followers)
		return err
	})
	g.Go(func() (err error) {
		stats, err = s.feeds.FeedStatsByOwner(gctx, partner.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errors.Internal("Failed to fetch public profile", err)
	}

	return &PublicProfile{
		ID:                  partner.ID,
		BusinessName:        partner.BusinessName,
		Owner:               partner.Owner,
		BusinessEmail:       partner.BusinessEmail,
		PhoneNumber:         partner.PhoneNumber,
		Address:             partner.Address,
		ProfileImage:        partner.ProfileImage,
		BusinessDescription: partner.BusinessDescription,
		Specialties:         nonNil(partner.Specialties),
		Followers:           followers,
		Rating:              partner.Rating,
		IsVerified:          partner.IsVerified,
		TotalVideos:         stats.TotalVideos,
		TotalLikes:          stats.TotalLikes,
	}, nil
}

// ToggleFollow adds or removes userID from the partner's followers and keeps
// the user's following list in step.
func (s *PartnerService) ToggleFollow(ctx context.Context, userID, partnerID primitive.ObjectID) (*FollowResult, error) {
	partner, err := s.findPartner(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	following := partner.HasFollower(userID)
	if following {
		_, err = s.partners.RemoveFollower(ctx, partnerID, userID)
		if err == nil {
			_, err = s.users.RemoveFollowing(ctx, userID, partnerID)
		}
	} else {
		_, err = s.partners.AddFollower(ctx, partnerID, userID)
		if err == nil {
			_, err = s.users.AddFollowing(ctx, userID, partnerID)
		}
	}
	if err != nil {
		return nil, errors.Internal("Failed to toggle follow", err)
	}
	s.principals.InvalidatePartner(ctx, partnerID)
	s.principals.InvalidateUser(ctx, userID)

	updated, err := s.findPartner(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	return &FollowResult{IsFollowing: !following, FollowersCount: len(updated.Followers)}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
