package middleware

import (
	"context"
	"net/http"
	"time"

	"food-reels-server/models"
	"food-reels-server/services"
	"food-reels-server/utils/errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const TokenCookie = "token"

const (
	msgUserNotFound    = "user not found or not authenticated"
	msgPartnerNotFound = "unauthorized, Partner not found"
)

type ctxKey int

const (
	userKey ctxKey = iota
	partnerKey
)

type TokenParser interface {
	Parse(token string) (*services.TokenClaims, error)
}

type PrincipalLoader interface {
	GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetPartner(ctx context.Context, id primitive.ObjectID) (*models.FoodPartner, error)
}

// Auth guards routes with the session cookie.
type Auth struct {
	tokens     TokenParser
	principals PrincipalLoader
}

func NewAuth(tokens TokenParser, principals PrincipalLoader) *Auth {
	return &Auth{tokens: tokens, principals: principals}
}

func (a *Auth) claims(r *http.Request) (*services.TokenClaims, error) {
	cookie, err := r.Cookie(TokenCookie)
	if err != nil || cookie.Value == "" {
		return nil, errors.Unauthorized(services.MsgTokenMissing)
	}
	return a.tokens.Parse(cookie.Value)
}

// notFoundAs reports a missing principal as 401 and passes other failures through.
func notFoundAs(err error, message string) error {
	if apiErr, ok := errors.As(err); ok && apiErr.Code == errors.CodeNotFound {
		return errors.Unauthorized(message)
	}
	return err
}

// RequireUser admits requests carrying a valid user session.
func (a *Auth) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.claims(r)
		if err != nil {
			WriteError(w, err)
			return
		}
		if claims.Role != "" && claims.Role != services.RoleUser {
			WriteError(w, errors.Unauthorized(msgUserNotFound))
			return
		}
		user, err := a.principals.GetUser(r.Context(), claims.PrincipalID)
		if err != nil {
			WriteError(w, notFoundAs(err, msgUserNotFound))
			return
		}
		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePartner admits requests carrying a valid food partner session.
func (a *Auth) RequirePartner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.claims(r)
		if err != nil {
			WriteError(w, err)
			return
		}
		if claims.Role != "" && claims.Role != services.RolePartner {
			WriteError(w, errors.Unauthorized(msgPartnerNotFound))
			return
		}
		partner, err := a.principals.GetPartner(r.Context(), claims.PrincipalID)
		if err != nil {
			WriteError(w, notFoundAs(err, msgPartnerNotFound))
			return
		}
		ctx := context.WithValue(r.Context(), partnerKey, partner)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}

func PartnerFromContext(ctx context.Context) (*models.FoodPartner, bool) {
	partner, ok := ctx.Value(partnerKey).(*models.FoodPartner)
	return partner, ok
}

// SetTokenCookie stores a freshly issued session token.
func SetTokenCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func ClearTokenCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}
