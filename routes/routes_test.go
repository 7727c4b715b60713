package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"food-reels-server/cache"
	"food-reels-server/database"
	"food-reels-server/handlers"
	"food-reels-server/middleware"
	"food-reels-server/models"
	"food-reels-server/services"
	"food-reels-server/storage"
	"food-reels-server/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type countingUploader struct {
	mu    sync.Mutex
	count int
}

func (u *countingUploader) Upload(_ context.Context, _ []byte, fileName, _ string) (*storage.Result, error) {
	u.mu.Lock()
	u.count++
	u.mu.Unlock()
	return &storage.Result{Name: fileName, URL: "https://ik.test/" + fileName}, nil
}

func (u *countingUploader) uploads() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.count
}

type server struct {
	router   http.Handler
	store    *database.MemoryStore
	uploader *countingUploader
	runner   *worker.Runner
}

func newServer(t *testing.T) *server {
	t.Helper()
	log := zap.NewNop()
	store := database.NewMemoryStore()
	uploader := &countingUploader{}
	runner := worker.NewRunner(2, 16, time.Second, log)
	t.Cleanup(func() { _ = runner.Shutdown(context.Background()) })

	tokens := services.NewTokenService("route-secret", time.Hour)
	principals := services.NewPrincipalService(store, store, cache.Noop{}, time.Hour, log)
	uploads := services.NewUploadService(uploader, time.Second, log)
	authService, err := services.NewAuthService(store, store, tokens, bcrypt.MinCost, log)
	require.NoError(t, err)
	feedService := services.NewFeedService(store, store, store, principals, uploads, runner, log)
	partnerService := services.NewPartnerService(store, store, store, principals, uploads, log)

	router := New(Deps{
		Auth:           middleware.NewAuth(tokens, principals),
		AuthHandler:    handlers.NewAuthHandler(authService, tokens, false),
		FeedHandler:    handlers.NewFeedHandler(feedService, 10<<20, log),
		PartnerHandler: handlers.NewPartnerHandler(partnerService, 10<<20),
		HealthHandler:  handlers.NewHealthHandler(store),
		AllowedOrigins: []string{"http://localhost:5173"},
		Log:            log,
	})
	return &server{router: router, store: store, uploader: uploader, runner: runner}
}

func (s *server) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *server) multipart(t *testing.T, method, path string, fields map[string]string, files map[string]string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for field, name := range files {
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = fw.Write([]byte("binary-" + name))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func tokenCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.TokenCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie set", middleware.TokenCookie)
	return nil
}

var partnerRegistration = map[string]any{
	"businessName":  "Spice Route",
	"owner":         "Ravi Kulkarni",
	"businessEmail": "Orders@SpiceRoute.in",
	"phoneNumber":   "+91 98765 43210",
	"address":       map[string]string{"street": "1 MG Road", "city": "Pune", "state": "MH", "pincode": "411001"},
	"password":      "s3cret",
}

func registerUser(t *testing.T, s *server, email string) *http.Cookie {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/user/register",
		map[string]string{"fullName": "Asha Rao", "email": email, "password": "pw"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return tokenCookie(t, rec)
}

func registerPartner(t *testing.T, s *server) (*http.Cookie, string) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/food-partner/register", partnerRegistration, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	id := body["foodPartnerUser"].(map[string]any)["_id"].(string)
	return tokenCookie(t, rec), id
}

func validFeedFields() map[string]string {
	return map[string]string{
		"title":           "Misal Pav",
		"description":     "Fiery sprout curry",
		"category":        "street-food",
		"cuisine":         "Maharashtrian",
		"preparationTime": "40",
		"ingredients":     `[{"item":"moth beans","quantity":"1 cup"}]`,
		"steps":           `["sprout","cook","serve"]`,
		"isVegetarian":    "true",
	}
}

func seedFeeds(t *testing.T, s *server, owner primitive.ObjectID, n int) []*models.FoodFeed {
	t.Helper()
	var out []*models.FoodFeed
	for i := 0; i < n; i++ {
		f := &models.FoodFeed{Title: "Reel " + strconv.Itoa(i), Owner: owner, Category: "snack", CreatedAt: time.Now().UTC()}
		require.NoError(t, s.store.CreateFeed(context.Background(), f))
		out = append(out, f)
	}
	return out
}

func TestDuplicateRegistration(t *testing.T) {
	s := newServer(t)
	registerUser(t, s, "asha@example.com")
	registerPartner(t, s)

	rec := s.do(t, http.MethodPost, "/api/auth/user/register",
		map[string]string{"fullName": "Other", "email": "ASHA@example.com", "password": "x"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["message"], "already exists")

	rec = s.do(t, http.MethodPost, "/api/auth/food-partner/register", partnerRegistration, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["message"], "already exists")
}

func TestRegisterOverlongPasswordIsBadRequest(t *testing.T) {
	s := newServer(t)
	long := strings.Repeat("p", 80)

	rec := s.do(t, http.MethodPost, "/api/auth/user/register",
		map[string]string{"fullName": "Asha", "email": "asha@example.com", "password": long}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, rec)["code"])

	body := map[string]any{}
	for k, v := range partnerRegistration {
		body[k] = v
	}
	body["password"] = long
	rec = s.do(t, http.MethodPost, "/api/auth/food-partner/register", body, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, rec)["code"])
}

func TestLoginFailuresLookIdentical(t *testing.T) {
	s := newServer(t)
	registerUser(t, s, "asha@example.com")

	wrong := s.do(t, http.MethodPost, "/api/auth/user/login", map[string]string{"email": "asha@example.com", "password": "nope"}, nil)
	unknown := s.do(t, http.MethodPost, "/api/auth/user/login", map[string]string{"email": "ghost@example.com", "password": "pw"}, nil)

	assert.Equal(t, http.StatusBadRequest, wrong.Code)
	assert.Equal(t, wrong.Code, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())

	ok := s.do(t, http.MethodPost, "/api/auth/user/login", map[string]string{"email": "asha@example.com", "password": "pw"}, nil)
	assert.Equal(t, http.StatusOK, ok.Code)
	cookie := tokenCookie(t, ok)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
}

func TestLogoutClearsCookie(t *testing.T) {
	s := newServer(t)
	rec := s.do(t, http.MethodGet, "/api/auth/user/logout", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logout successfully", decode(t, rec)["message"])
	assert.Equal(t, -1, tokenCookie(t, rec).MaxAge)
}

func TestRegisterThenProfileRoundTrip(t *testing.T) {
	s := newServer(t)
	cookie, id := registerPartner(t, s)

	rec := s.do(t, http.MethodGet, "/api/foodpartner/profile", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	profile := decode(t, rec)
	assert.Equal(t, id, profile["_id"])
	assert.Equal(t, "Spice Route", profile["businessName"])
	assert.Equal(t, "Ravi Kulkarni", profile["owner"])
	assert.Equal(t, "orders@spiceroute.in", profile["businessEmail"])
	assert.Equal(t, "+91 98765 43210", profile["phoneNumber"])
	assert.Equal(t, "1 MG Road, Pune, MH - 411001", profile["address"])
	assert.EqualValues(t, 0, profile["totalVideos"])
	assert.Empty(t, profile["recentUploads"])
}

func TestAuthErrors(t *testing.T) {
	s := newServer(t)
	userCookie := registerUser(t, s, "asha@example.com")

	rec := s.do(t, http.MethodGet, "/api/food", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized: No token Provided", decode(t, rec)["message"])

	rec = s.do(t, http.MethodGet, "/api/food", nil, &http.Cookie{Name: middleware.TokenCookie, Value: "forged"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized: Invalid or expired token", decode(t, rec)["message"])

	rec = s.do(t, http.MethodGet, "/api/foodpartner/profile", nil, userCookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized, Partner not found", decode(t, rec)["message"])
}

func TestCreateFeedRespondsThenPersists(t *testing.T) {
	s := newServer(t)
	cookie, partnerID := registerPartner(t, s)

	rec := s.multipart(t, http.MethodPost, "/api/food/create", validFeedFields(), map[string]string{"video": "misal.mp4"}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "File uploaded to storage, saving to database in background", body["message"])
	assert.True(t, strings.HasPrefix(body["url"].(string), "https://ik.test/"))

	require.NoError(t, s.runner.Shutdown(context.Background()))

	list := s.do(t, http.MethodGet, "/api/food/public?owner="+partnerID, nil, nil)
	require.Equal(t, http.StatusOK, list.Code)
	page := decode(t, list)
	assert.EqualValues(t, 1, page["total"])
	feed := page["foodFeeds"].([]any)[0].(map[string]any)
	assert.Equal(t, body["url"], feed["videoUrl"])
	assert.Equal(t, feed["videoUrl"], feed["thumbnail"])
	assert.Equal(t, "medium", feed["difficulty"])
	assert.Equal(t, "Spice Route", feed["owner"].(map[string]any)["businessName"])
	assert.Equal(t, "moth beans", feed["ingredients"].([]any)[0].(map[string]any)["name"])
}

func TestCreateFeedMissingFieldSkipsUpload(t *testing.T) {
	s := newServer(t)
	cookie, _ := registerPartner(t, s)
	fields := validFeedFields()
	delete(fields, "cuisine")

	rec := s.multipart(t, http.MethodPost, "/api/food/create", fields, map[string]string{"video": "misal.mp4"}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["message"], "cuisine")
	assert.Zero(t, s.uploader.uploads())

	rec = s.multipart(t, http.MethodPost, "/api/food/create", validFeedFields(), nil, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Video file is required", decode(t, rec)["message"])
	assert.Zero(t, s.uploader.uploads())
}

func TestListingPagination(t *testing.T) {
	s := newServer(t)
	seedFeeds(t, s, primitive.NewObjectID(), 12)

	rec := s.do(t, http.MethodGet, "/api/food/public?page=2&limit=5", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode(t, rec)
	assert.Len(t, page["foodFeeds"], 5)
	assert.EqualValues(t, 3, page["totalPages"])
	assert.EqualValues(t, 2, page["currentPage"])
	assert.EqualValues(t, 12, page["total"])
	assert.Equal(t, "Food items fetched successfully", page["message"])

	rec = s.do(t, http.MethodGet, "/api/food/public?owner=xyz", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLikeToggleRoundTrip(t *testing.T) {
	s := newServer(t)
	cookie := registerUser(t, s, "asha@example.com")
	feed := seedFeeds(t, s, primitive.NewObjectID(), 1)[0]
	path := "/api/food/" + feed.ID.Hex() + "/like"

	rec := s.do(t, http.MethodPost, path, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Added to favorites", body["message"])
	assert.EqualValues(t, 1, body["likes"])

	rec = s.do(t, http.MethodPost, path, nil, cookie)
	body = decode(t, rec)
	assert.Equal(t, "Removed from favorites", body["message"])
	assert.EqualValues(t, 0, body["likes"])

	rec = s.do(t, http.MethodPost, "/api/food/"+primitive.NewObjectID().Hex()+"/like", nil, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/food/not-an-id/like", nil, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCommentFlow(t *testing.T) {
	s := newServer(t)
	cookie := registerUser(t, s, "asha@example.com")
	feed := seedFeeds(t, s, primitive.NewObjectID(), 1)[0]
	path := "/api/food/" + feed.ID.Hex() + "/comment"

	rec := s.do(t, http.MethodPost, path, map[string]string{"text": ""}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Comment text is required", decode(t, rec)["message"])

	rec = s.do(t, http.MethodPost, path, map[string]string{"text": "Yum"}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	comment := decode(t, rec)["comment"].(map[string]any)
	assert.Equal(t, "Yum", comment["text"])
	assert.Equal(t, "Asha Rao", comment["user"].(map[string]any)["fullName"])
}

func TestViewsNeedNoAuth(t *testing.T) {
	s := newServer(t)
	feed := seedFeeds(t, s, primitive.NewObjectID(), 1)[0]

	const n = 5
	var rec *httptest.ResponseRecorder
	for i := 0; i < n; i++ {
		rec = s.do(t, http.MethodPost, "/api/food/"+feed.ID.Hex()+"/view", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.EqualValues(t, n, decode(t, rec)["views"])
}

func TestFollowAndPublicProfile(t *testing.T) {
	s := newServer(t)
	_, partnerID := registerPartner(t, s)
	userCookie := registerUser(t, s, "fan@example.com")

	rec := s.do(t, http.MethodPost, "/api/foodpartner/public/"+partnerID+"/follow", nil, userCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Followed", body["message"])
	assert.Equal(t, true, body["isFollowing"])
	assert.EqualValues(t, 1, body["followersCount"])

	rec = s.do(t, http.MethodGet, "/api/foodpartner/public/"+partnerID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decode(t, rec)["profile"].(map[string]any)
	assert.Equal(t, "Pune", profile["address"].(map[string]any)["city"])
	assert.NotContains(t, profile, "coverImage")
	assert.Len(t, profile["followers"], 1)

	rec = s.do(t, http.MethodPost, "/api/foodpartner/public/"+partnerID+"/follow", nil, userCookie)
	body = decode(t, rec)
	assert.Equal(t, "Unfollowed", body["message"])
	assert.EqualValues(t, 0, body["followersCount"])

	rec = s.do(t, http.MethodGet, "/api/foodpartner/public/"+primitive.NewObjectID().Hex(), nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateProfile(t *testing.T) {
	s := newServer(t)
	cookie, _ := registerPartner(t, s)

	rec := s.multipart(t, http.MethodPut, "/api/foodpartner/profile",
		map[string]string{"businessDescription": "Street food since 1990", "specialties": "misal, vada pav"},
		map[string]string{"profileImage": "me.png"}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "Profile updated", body["message"])
	profile := body["profile"].(map[string]any)
	assert.Equal(t, "Street food since 1990", profile["businessDescription"])
	assert.Equal(t, []any{"misal", "vada pav"}, profile["specialties"])
	assert.True(t, strings.HasPrefix(profile["profileImage"].(string), "https://ik.test/profile_"))
	assert.NotContains(t, profile, "password")
}

func TestHealthAndPreflight(t *testing.T) {
	s := newServer(t)
	rec := s.do(t, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])

	req := httptest.NewRequest(http.MethodOptions, "/api/food/create", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	pre := httptest.NewRecorder()
	s.router.ServeHTTP(pre, req)
	assert.Equal(t, http.StatusNoContent, pre.Code)
	assert.Equal(t, "true", pre.Header().Get("Access-Control-Allow-Credentials"))
}
