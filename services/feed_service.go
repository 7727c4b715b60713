package services

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"food-reels-server/database"
	"food-reels-server/models"
	"food-reels-server/utils/errors"
	"food-reels-server/worker"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// CreateFeedInput holds the raw multipart form values of a new reel.
type CreateFeedInput struct {
	Title           string
	Description     string
	Category        string
	Cuisine         string
	PreparationTime string
	Difficulty      string
	Ingredients     string
	Steps           string
	Hashtags        string
	IsVegetarian    string
	NutritionInfo   string
	Video           *UploadFile
}

// FeedView is a feed with its owner and comment authors populated.
type FeedView struct {
	models.FoodFeed
	Owner    *models.PartnerSummary `json:"owner"`
	Comments []CommentView          `json:"comments"`
}

type CommentView struct {
	ID        primitive.ObjectID  `json:"_id"`
	User      *models.UserSummary `json:"user"`
	Text      string              `json:"text"`
	CreatedAt time.Time           `json:"createdAt"`
}

type ListQuery struct {
	Page   int64
	Limit  int64
	Filter models.FeedFilter
	Sort   models.FeedSort
}

type FeedPage struct {
	Feeds       []FeedView
	TotalPages  int64
	CurrentPage int64
	Total       int64
}

type LikeResult struct {
	Likes   int64
	IsLiked bool
}

type FeedService struct {
	feeds      FeedStore
	users      UserStore
	partners   PartnerStore
	principals *PrincipalService
	uploads    *UploadService
	runner     *worker.Runner
	log        *zap.Logger
}

func NewFeedService(feeds FeedStore, users UserStore, partners PartnerStore, principals *PrincipalService, uploads *UploadService, runner *worker.Runner, log *zap.Logger) *FeedService {
	return &FeedService{
		feeds:      feeds,
		users:      users,
		partners:   partners,
		principals: principals,
		uploads:    uploads,
		runner:     runner,
		log:        log,
	}
}

// Prepare validates a new reel, uploads its video and returns the document
// ready to be stored. Nothing is uploaded when validation fails.
func (s *FeedService) Prepare(ctx context.Context, owner primitive.ObjectID, in CreateFeedInput) (*models.FoodFeed, error) {
	if in.Video == nil || len(in.Video.Data) == 0 {
		return nil, errors.Validation("Video file is required")
	}
	required := []struct{ name, value string }{
		{"title", in.Title},
		{"description", in.Description},
		{"category", in.Category},
		{"cuisine", in.Cuisine},
		{"preparationTime", in.PreparationTime},
		{"ingredients", in.Ingredients},
		{"steps", in.Steps},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return nil, errors.Validation(f.name + " is required")
		}
	}

	category := strings.TrimSpace(in.Category)
	if !oneOf(category, models.Categories) {
		return nil, errors.Validation("Invalid category", "allowed: "+strings.Join(models.Categories, ", "))
	}
	difficulty := strings.TrimSpace(in.Difficulty)
	if difficulty == "" {
		difficulty = models.DefaultDifficulty
	}
	if !oneOf(difficulty, models.Difficulties) {
		return nil, errors.Validation("Invalid difficulty", "allowed: "+strings.Join(models.Difficulties, ", "))
	}
	prepTime, err := strconv.Atoi(strings.TrimSpace(in.PreparationTime))
	if err != nil || prepTime < 0 {
		return nil, errors.Validation("preparationTime must be a non-negative integer")
	}
	var steps []string
	if err := json.Unmarshal([]byte(in.Steps), &steps); err != nil {
		return nil, errors.Validation("steps must be a JSON array of strings")
	}

	videoURL, err := s.uploads.Upload(ctx, *in.Video, randomName(in.Video.FileName))
	if err != nil {
		return nil, err
	}

	ingredients, err := NormalizeIngredients(in.Ingredients)
	if err != nil {
		s.log.Warn("Malformed ingredients, storing none", zap.Error(err))
		ingredients = []models.Ingredient{}
	}

	hashtags := []string{}
	if raw := strings.TrimSpace(in.Hashtags); raw != "" {
		if err := json.Unmarshal([]byte(raw), &hashtags); err != nil {
			s.log.Warn("Malformed hashtags, storing none", zap.Error(err))
			hashtags = []string{}
		}
	}

	var nutrition *models.NutritionInfo
	if raw := strings.TrimSpace(in.NutritionInfo); raw != "" {
		nutrition = &models.NutritionInfo{}
		if err := json.Unmarshal([]byte(raw), nutrition); err != nil {
			s.log.Warn("Malformed nutritionInfo, ignoring", zap.Error(err))
			nutrition = nil
		}
	}

	now := time.Now().UTC()
	return &models.FoodFeed{
		Title:           strings.TrimSpace(in.Title),
		Description:     strings.TrimSpace(in.Description),
		VideoURL:        videoURL,
		Thumbnail:       videoURL,
		Category:        category,
		Cuisine:         strings.TrimSpace(in.Cuisine),
		PreparationTime: prepTime,
		Difficulty:      difficulty,
		Ingredients:     ingredients,
		Steps:           steps,
		Owner:           owner,
		Hashtags:        hashtags,
		IsVegetarian:    in.IsVegetarian == "true",
		NutritionInfo:   nutrition,
		Comments:        []models.Comment{},
		IsPublished:     true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// SaveInBackground hands the insert to the background runner. The caller has
// already answered the client; failures are only logged.
func (s *FeedService) SaveInBackground(feed *models.FoodFeed) {
	err := s.runner.Submit(worker.Task{
		Name: "create-food-feed",
		Run: func(ctx context.Context) error {
			if err := s.feeds.CreateFeed(ctx, feed); err != nil {
				return err
			}
			s.log.Info("Food feed saved in background",
				zap.String("feed_id", feed.ID.Hex()),
				zap.String("owner", feed.Owner.Hex()))
			return nil
		},
	})
	if err != nil {
		s.log.Error("Background save of food feed not scheduled",
			zap.String("video_url", feed.VideoURL),
			zap.Error(err))
	}
}

// ParseListQuery reads paging, filters and ordering from the query string.
// Out-of-range paging values fall back to defaults.
func ParseListQuery(q url.Values) (ListQuery, error) {
	lq := ListQuery{Page: 1, Limit: DefaultPageSize}
	if p, err := strconv.ParseInt(q.Get("page"), 10, 64); err == nil && p > 0 {
		lq.Page = p
	}
	if l, err := strconv.ParseInt(q.Get("limit"), 10, 64); err == nil && l > 0 {
		lq.Limit = min(l, MaxPageSize)
	}
	lq.Filter.Category = q.Get("category")
	lq.Filter.Cuisine = q.Get("cuisine")
	lq.Filter.Difficulty = q.Get("difficulty")
	// values other than true/false leave the filter unset
	switch q.Get("isVegetarian") {
	case "true":
		v := true
		lq.Filter.IsVegetarian = &v
	case "false":
		v := false
		lq.Filter.IsVegetarian = &v
	}
	if raw := q.Get("owner"); raw != "" {
		owner, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return ListQuery{}, errors.Validation("invalid owner")
		}
		lq.Filter.Owner = &owner
	}
	lq.Sort = models.ParseFeedSort(q.Get("sortBy"))
	return lq, nil
}

// List returns one page of feeds with owners and comment authors populated.
func (s *FeedService) List(ctx context.Context, q ListQuery) (*FeedPage, error) {
	feeds, err := s.feeds.ListFeeds(ctx, q.Filter, q.Sort, (q.Page-1)*q.Limit, q.Limit)
	if err != nil {
		return nil, errors.Internal("Failed to fetch food feeds", err)
	}
	total, err := s.feeds.CountFeeds(ctx, q.Filter)
	if err != nil {
		return nil, errors.Internal("Failed to fetch food feeds", err)
	}

	views, err := s.populate(ctx, feeds)
	if err != nil {
		return nil, errors.Internal("Failed to fetch food feeds", err)
	}
	return &FeedPage{
		Feeds:       views,
		TotalPages:  int64(math.Ceil(float64(total) / float64(q.Limit))),
		CurrentPage: q.Page,
		Total:       total,
	}, nil
}

func (s *FeedService) populate(ctx context.Context, feeds []models.FoodFeed) ([]FeedView, error) {
	ownerIDs := make([]primitive.ObjectID, 0, len(feeds))
	var authorIDs []primitive.ObjectID
	for _, f := range feeds {
		ownerIDs = append(ownerIDs, f.Owner)
		for _, c := range f.Comments {
			authorIDs = append(authorIDs, c.User)
		}
	}

	owners := map[primitive.ObjectID]models.PartnerSummary{}
	authors := map[primitive.ObjectID]models.UserSummary{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		partners, err := s.partners.FindPartnersByIDs(gctx, ownerIDs)
		for i := range partners {
			owners[partners[i].ID] = partners[i].Summary()
		}
		return err
	})
	if len(authorIDs) > 0 {
		g.Go(func() error {
			users, err := s.users.FindUsersByIDs(gctx, authorIDs)
			for i := range users {
				authors[users[i].ID] = users[i].Summary()
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	views := make([]FeedView, 0, len(feeds))
	for _, f := range feeds {
		v := FeedView{FoodFeed: f, Comments: make([]CommentView, 0, len(f.Comments))}
		if o, ok := owners[f.Owner]; ok {
			v.Owner = &o
		}
		for _, c := range f.Comments {
			cv := CommentView{ID: c.ID, Text: c.Text, CreatedAt: c.CreatedAt}
			if a, ok := authors[c.User]; ok {
				cv.User = &a
			}
			v.Comments = append(v.Comments, cv)
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *FeedService) findFeed(ctx context.Context, id primitive.ObjectID) (*models.FoodFeed, error) {
	feed, err := s.feeds.FindFeedByID(ctx, id)
	if stderrors.Is(err, database.ErrNotFound) {
		return nil, errors.NotFound("Food feed not found")
	}
	if err != nil {
		return nil, errors.Internal("Failed to load food feed", err)
	}
	return feed, nil
}

// ToggleLike flips the user's like on a feed. The counter only moves when
// the user's likedReels set actually changed.
func (s *FeedService) ToggleLike(ctx context.Context, userID, feedID primitive.ObjectID) (*LikeResult, error) {
	feed, err := s.findFeed(ctx, feedID)
	if err != nil {
		return nil, err
	}
	liked, err := s.users.HasLikedReel(ctx, userID, feedID)
	if err != nil {
		return nil, errors.Internal("Failed to toggle like", err)
	}

	var changed bool
	delta := int64(1)
	if liked {
		changed, err = s.users.RemoveLikedReel(ctx, userID, feedID)
		delta = -1
	} else {
		changed, err = s.users.AddLikedReel(ctx, userID, feedID)
	}
	if stderrors.Is(err, database.ErrNotFound) {
		return nil, errors.NotFound("User not found")
	}
	if err != nil {
		return nil, errors.Internal("Failed to toggle like", err)
	}

	likes := feed.Likes
	if changed {
		s.principals.InvalidateUser(ctx, userID)
		// no transaction spans the user and feed writes; a failure here leaves them apart
		likes, err = s.feeds.IncrementLikes(ctx, feedID, delta)
		if err != nil {
			return nil, errors.Internal("Failed to toggle like", err)
		}
	}
	return &LikeResult{Likes: likes, IsLiked: !liked}, nil
}

// AddComment appends a comment authored by user and returns it with the author populated.
func (s *FeedService) AddComment(ctx context.Context, user *models.User, feedID primitive.ObjectID, text string) (*CommentView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.Validation("Comment text is required")
	}
	if _, err := s.findFeed(ctx, feedID); err != nil {
		return nil, err
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		User:      user.ID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	err := s.feeds.AddComment(ctx, feedID, comment)
	if stderrors.Is(err, database.ErrNotFound) {
		return nil, errors.NotFound("Food feed not found")
	}
	if err != nil {
		return nil, errors.Internal("Failed to add comment", err)
	}
	author := user.Summary()
	return &CommentView{ID: comment.ID, User: &author, Text: comment.Text, CreatedAt: comment.CreatedAt}, nil
}

func (s *FeedService) IncrementViews(ctx context.Context, feedID primitive.ObjectID) (int64, error) {
	views, err := s.feeds.IncrementViews(ctx, feedID)
	if stderrors.Is(err, database.ErrNotFound) {
		return 0, errors.NotFound("Food feed not found")
	}
	if err != nil {
		return 0, errors.Internal("Failed to update views", err)
	}
	return views, nil
}
