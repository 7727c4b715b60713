package handlers

import (
	"net/http"

	"food-reels-server/middleware"
	"food-reels-server/services"
	"food-reels-server/utils/errors"
)

type PartnerHandler struct {
	partnerService *services.PartnerService
	maxUploadSize  int64
}

func NewPartnerHandler(partnerService *services.PartnerService, maxUploadSize int64) *PartnerHandler {
	return &PartnerHandler{partnerService: partnerService, maxUploadSize: maxUploadSize}
}

// GetProfile responds with the profile fields and aggregates at the top level.
func (h *PartnerHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	partner, ok := middleware.PartnerFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}
	profile, err := h.partnerService.GetProfile(r.Context(), partner)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, profile)
}

func (h *PartnerHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	partner, ok := middleware.PartnerFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}
	if err := parseMultipart(w, r, h.maxUploadSize); err != nil {
		middleware.WriteError(w, err)
		return
	}

	input := services.UpdateProfileInput{
		BusinessDescription: optionalValue(r, "businessDescription"),
		Specialties:         optionalValue(r, "specialties"),
		CuisineTypes:        optionalValue(r, "cuisineTypes"),
	}
	var err error
	if input.ProfileImage, err = formFile(r, "profileImage"); err != nil {
		middleware.WriteError(w, err)
		return
	}
	if input.CoverImage, err = formFile(r, "coverImage"); err != nil {
		middleware.WriteError(w, err)
		return
	}

	updated, err := h.partnerService.UpdateProfile(r.Context(), partner.ID, input)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Profile updated",
		"profile": updated,
	})
}

func (h *PartnerHandler) GetPublicProfile(w http.ResponseWriter, r *http.Request) {
	partnerID, err := pathObjectID(r, "partnerId")
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	profile, err := h.partnerService.GetPublicProfile(r.Context(), partnerID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"profile": profile})
}

func (h *PartnerHandler) ToggleFollow(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}
	partnerID, err := pathObjectID(r, "partnerId")
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	res, err := h.partnerService.ToggleFollow(r.Context(), user.ID, partnerID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	message := "Unfollowed"
	if res.IsFollowing {
		message = "Followed"
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"message":        message,
		"isFollowing":    res.IsFollowing,
		"followersCount": res.FollowersCount,
	})
}
