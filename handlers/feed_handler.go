package handlers

import (
	"net/http"

	"food-reels-server/middleware"
	"food-reels-server/services"
	"food-reels-server/utils/errors"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type FeedHandler struct {
	feedService   *services.FeedService
	maxUploadSize int64
	log           *zap.Logger
}

func NewFeedHandler(feedService *services.FeedService, maxUploadSize int64, log *zap.Logger) *FeedHandler {
	return &FeedHandler{feedService: feedService, maxUploadSize: maxUploadSize, log: log}
}

func pathObjectID(r *http.Request, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)[name])
	if err != nil {
		return primitive.NilObjectID, errors.Validation("invalid " + name)
	}
	return id, nil
}

// CreateFeed answers as soon as the video is stored; the document itself is
// written in the background after the response has been flushed.
func (h *FeedHandler) CreateFeed(w http.ResponseWriter, r *http.Request) {
	partner, ok := middleware.PartnerFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, errors.Forbidden("Only food partners can create reels"))
		return
	}
	if err := parseMultipart(w, r, h.maxUploadSize); err != nil {
		middleware.WriteError(w, err)
		return
	}
	video, err := formFile(r, "video")
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	input := services.CreateFeedInput{
		Title:           r.FormValue("title"),
		Description:     r.FormValue("description"),
		Category:        r.FormValue("category"),
		Cuisine:         r.FormValue("cuisine"),
		PreparationTime: r.FormValue("preparationTime"),
		Difficulty:      r.FormValue("difficulty"),
		Ingredients:     r.FormValue("ingredients"),
		Steps:           r.FormValue("steps"),
		Hashtags:        r.FormValue("hashtags"),
		IsVegetarian:    r.FormValue("isVegetarian"),
		NutritionInfo:   r.FormValue("nutritionInfo"),
		Video:           video,
	}
	feed, err := h.feedService.Prepare(r.Context(), partner.ID, input)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]string{
		"message": "File uploaded to storage, saving to database in background",
		"url":     feed.VideoURL,
	})
	if err := http.NewResponseController(w).Flush(); err != nil {
		h.log.Debug("Response flush unsupported", zap.Error(err))
	}
	h.feedService.SaveInBackground(feed)
}

func (h *FeedHandler) ListFeeds(w http.ResponseWriter, r *http.Request) {
	query, err := services.ParseListQuery(r.URL.Query())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	page, err := h.feedService.List(r.Context(), query)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"message":     "Food items fetched successfully",
		"foodFeeds":   page.Feeds,
		"totalPages":  page.TotalPages,
		"currentPage": page.CurrentPage,
		"total":       page.Total,
	})
}

func (h *FeedHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}
	feedID, err := pathObjectID(r, "feedId")
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	res, err := h.feedService.ToggleLike(r.Context(), user.ID, feedID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	message := "Removed from favorites"
	if res.IsLiked {
		message = "Added to favorites"
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"message": message,
		"likes":   res.Likes,
		"isLiked": res.IsLiked,
	})
}

func (h *FeedHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}
	feedID, err := pathObjectID(r, "feedId")
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	var input struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(r, &input); err != nil {
		middleware.WriteError(w, errors.Validation("Comment text is required"))
		return
	}

	comment, err := h.feedService.AddComment(r.Context(), user, feedID, input.Text)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "Comment added successfully",
		"comment": comment,
	})
}

func (h *FeedHandler) IncrementViews(w http.ResponseWriter, r *http.Request) {
	feedID, err := pathObjectID(r, "feedId")
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	views, err := h.feedService.IncrementViews(r.Context(), feedID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "View count updated",
		"views":   views,
	})
}
