package handlers

import (
	"encoding/json"
	"net/http"

	"food-reels-server/middleware"
	"food-reels-server/models"
	"food-reels-server/services"
	"food-reels-server/utils/errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuthHandler struct {
	authService  *services.AuthService
	tokenService *services.TokenService
	secureCookie bool
}

func NewAuthHandler(authService *services.AuthService, tokenService *services.TokenService, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, tokenService: tokenService, secureCookie: secureCookie}
}

type userBody struct {
	ID       primitive.ObjectID `json:"_id"`
	FullName string             `json:"fullName"`
	Email    string             `json:"email"`
}

type partnerBody struct {
	ID    primitive.ObjectID `json:"_id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
}

func userResponse(message string, u *models.User) map[string]any {
	return map[string]any{
		"message": message,
		"user":    userBody{ID: u.ID, FullName: u.FullName, Email: u.Email},
	}
}

func partnerResponse(message string, p *models.FoodPartner) map[string]any {
	return map[string]any{
		"message":         message,
		"foodPartnerUser": partnerBody{ID: p.ID, Name: p.BusinessName, Email: p.BusinessEmail},
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.Validation("All fields are required", "request body must be a JSON object")
	}
	return nil
}

func (h *AuthHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterUserInput
	if err := decodeJSON(r, &input); err != nil {
		middleware.WriteError(w, err)
		return
	}

	user, token, err := h.authService.RegisterUser(r.Context(), input)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.SetTokenCookie(w, token, h.tokenService.TTL(), h.secureCookie)
	middleware.WriteJSON(w, http.StatusCreated, userResponse("User registered successfully", user))
}

func (h *AuthHandler) LoginUser(w http.ResponseWriter, r *http.Request) {
	var input services.LoginUserInput
	if err := decodeJSON(r, &input); err != nil {
		middleware.WriteError(w, err)
		return
	}
	user, token, err := h.authService.LoginUser(r.Context(), input)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.SetTokenCookie(w, token, h.tokenService.TTL(), h.secureCookie)
	middleware.WriteJSON(w, http.StatusOK, userResponse("Login successfully", user))
}

func (h *AuthHandler) RegisterPartner(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterPartnerInput
	if err := decodeJSON(r, &input); err != nil {
		middleware.WriteError(w, err)
		return
	}

	partner, token, err := h.authService.RegisterPartner(r.Context(), input)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.SetTokenCookie(w, token, h.tokenService.TTL(), h.secureCookie)
	middleware.WriteJSON(w, http.StatusCreated, partnerResponse("Registered successfully", partner))
}

func (h *AuthHandler) LoginPartner(w http.ResponseWriter, r *http.Request) {
	var input services.LoginPartnerInput
	if err := decodeJSON(r, &input); err != nil {
		middleware.WriteError(w, err)
		return
	}
	partner, token, err := h.authService.LoginPartner(r.Context(), input)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.SetTokenCookie(w, token, h.tokenService.TTL(), h.secureCookie)
	middleware.WriteJSON(w, http.StatusOK, partnerResponse("Login successfully", partner))
}

// Logout always succeeds, with or without a session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearTokenCookie(w, h.secureCookie)
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logout successfully"})
}
