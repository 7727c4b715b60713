// Package routes assembles the HTTP surface of the API.
package routes

import (
	"net/http"

	"food-reels-server/handlers"
	"food-reels-server/middleware"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Deps struct {
	Auth           *middleware.Auth
	AuthHandler    *handlers.AuthHandler
	FeedHandler    *handlers.FeedHandler
	PartnerHandler *handlers.PartnerHandler
	HealthHandler  *handlers.HealthHandler
	AllowedOrigins []string
	Log            *zap.Logger
}

func New(d Deps) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.ErrorMiddleware(d.Log))
	// CORS middleware
	r.Use(middleware.CORSMiddleware(d.AllowedOrigins))

	r.HandleFunc("/healthz", d.HealthHandler.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// Auth routes
	authRouter := api.PathPrefix("/auth").Subrouter()
	authRouter.HandleFunc("/user/register", d.AuthHandler.RegisterUser).Methods("POST", "OPTIONS")
	authRouter.HandleFunc("/user/login", d.AuthHandler.LoginUser).Methods("POST", "OPTIONS")
	authRouter.HandleFunc("/user/logout", d.AuthHandler.Logout).Methods("GET", "OPTIONS")
	authRouter.HandleFunc("/food-partner/register", d.AuthHandler.RegisterPartner).Methods("POST", "OPTIONS")
	authRouter.HandleFunc("/food-partner/login", d.AuthHandler.LoginPartner).Methods("POST", "OPTIONS")
	authRouter.HandleFunc("/food-partner/logout", d.AuthHandler.Logout).Methods("GET", "OPTIONS")

	// Feed routes
	food := api.PathPrefix("/food").Subrouter()
	food.Handle("/create", d.Auth.RequirePartner(http.HandlerFunc(d.FeedHandler.CreateFeed))).Methods("POST", "OPTIONS")
	food.Handle("", d.Auth.RequireUser(http.HandlerFunc(d.FeedHandler.ListFeeds))).Methods("GET", "OPTIONS")
	food.HandleFunc("/public", d.FeedHandler.ListFeeds).Methods("GET", "OPTIONS")
	food.Handle("/{feedId}/like", d.Auth.RequireUser(http.HandlerFunc(d.FeedHandler.ToggleLike))).Methods("POST", "OPTIONS")
	food.Handle("/{feedId}/comment", d.Auth.RequireUser(http.HandlerFunc(d.FeedHandler.AddComment))).Methods("POST", "OPTIONS")
	food.HandleFunc("/{feedId}/view", d.FeedHandler.IncrementViews).Methods("POST", "OPTIONS")

	// Partner routes
	partner := api.PathPrefix("/foodpartner").Subrouter()
	partner.Handle("/profile", d.Auth.RequirePartner(http.HandlerFunc(d.PartnerHandler.GetProfile))).Methods("GET", "OPTIONS")
	partner.Handle("/profile", d.Auth.RequirePartner(http.HandlerFunc(d.PartnerHandler.UpdateProfile))).Methods("PUT", "OPTIONS")
	partner.HandleFunc("/public/{partnerId}", d.PartnerHandler.GetPublicProfile).Methods("GET", "OPTIONS")
	partner.Handle("/public/{partnerId}/follow", d.Auth.RequireUser(http.HandlerFunc(d.PartnerHandler.ToggleFollow))).Methods("POST", "OPTIONS")

	return r
}
