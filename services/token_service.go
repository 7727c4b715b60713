package services

import (
	"fmt"
	"time"

	"food-reels-server/utils/errors"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser    = "user"
	RolePartner = "foodPartner"
)

const (
	MsgTokenMissing = "Unauthorized: No token Provided"
	MsgTokenInvalid = "unauthorized: Invalid or expired token"
)

// TokenClaims is the canonical session payload, whatever shape the token carried.
type TokenClaims struct {
	PrincipalID primitive.ObjectID
	Role        string
}

type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs {_id, role, exp} with HS256.
func (s *TokenService) Issue(id primitive.ObjectID, role string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"_id":  id.Hex(),
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Internal("Failed to generate token", err)
	}
	return signed, nil
}

// Parse verifies signature and expiry and decodes the principal id. Older
// tokens carry the id under "id" instead of "_id"; both are accepted.
func (s *TokenService) Parse(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, errors.Unauthorized(MsgTokenInvalid)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.Unauthorized(MsgTokenInvalid)
	}

	rawID, _ := claims["_id"].(string)
	if rawID == "" {
		rawID, _ = claims["id"].(string)
	}
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return nil, errors.Unauthorized(MsgTokenInvalid)
	}
	role, _ := claims["role"].(string)
	return &TokenClaims{PrincipalID: id, Role: role}, nil
}
