package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"food-reels-server/database"
	"food-reels-server/models"
	"food-reels-server/utils/errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// errInvalidCredentials is shared by "no such account" and "wrong password".
var errInvalidCredentials = errors.NewAPIError("INVALID_CREDENTIALS", "Invalid credentials", http.StatusBadRequest)

type RegisterUserInput struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginUserInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterPartnerInput struct {
	BusinessName  string         `json:"businessName" validate:"required"`
	Owner         string         `json:"owner" validate:"required"`
	BusinessEmail string         `json:"businessEmail" validate:"required"`
	PhoneNumber   string         `json:"phoneNumber" validate:"required"`
	Address       models.Address `json:"address" validate:"required"`
	Password      string         `json:"password" validate:"required"`
}

type LoginPartnerInput struct {
	BusinessEmail string `json:"businessEmail" validate:"required"`
	Password      string `json:"password" validate:"required"`
}

type AuthService struct {
	users    UserStore
	partners PartnerStore
	tokens   *TokenService
	cost     int
	log      *zap.Logger
	// compared against when an account is missing so both failures cost a bcrypt round
	dummyHash []byte
}

func NewAuthService(users UserStore, partners PartnerStore, tokens *TokenService, bcryptCost int, log *zap.Logger) (*AuthService, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("bcrypt cost %d: %w", bcryptCost, err)
	}
	return &AuthService{
		users:     users,
		partners:  partners,
		tokens:    tokens,
		cost:      bcryptCost,
		log:       log,
		dummyHash: dummy,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if stderrors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", errors.Validation("Password must be at most 72 bytes")
	}
	if err != nil {
		return "", errors.Internal("Failed to hash password", err)
	}
	return string(hashed), nil
}

// RegisterUser creates a new user and returns it with a session token
func (s *AuthService) RegisterUser(ctx context.Context, in RegisterUserInput) (*models.User, string, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = normalizeEmail(in.Email)
	if err := requireFields(in); err != nil {
		return nil, "", err
	}

	_, err := s.users.FindUserByEmail(ctx, in.Email)
	if err == nil {
		return nil, "", errors.Validation("User already exists")
	}
	if !stderrors.Is(err, database.ErrNotFound) {
		return nil, "", errors.Internal("Registration failed", err)
	}

	hashed, err := s.hash(in.Password)
	if err != nil {
		return nil, "", err
	}
	user := models.NewUser(in.FullName, in.Email, hashed)
	if err := s.users.CreateUser(ctx, user); err != nil {
		if stderrors.Is(err, database.ErrDuplicate) {
			return nil, "", errors.Validation("User already exists")
		}
		return nil, "", errors.Internal("Registration failed", err)
	}

	token, err := s.tokens.Issue(user.ID, RoleUser)
	if err != nil {
		return nil, "", err
	}
	s.log.Info("User registered", zap.String("user_id", user.ID.Hex()))
	return user, token, nil
}

// LoginUser authenticates a user and returns a session token
func (s *AuthService) LoginUser(ctx context.Context, in LoginUserInput) (*models.User, string, error) {
	in.Email = normalizeEmail(in.Email)
	if err := requireFields(in); err != nil {
		return nil, "", err
	}

	user, err := s.users.FindUserByEmail(ctx, in.Email)
	if err != nil && !stderrors.Is(err, database.ErrNotFound) {
		return nil, "", errors.Internal("Login failed", err)
	}
	hash := s.dummyHash
	if user != nil {
		hash = []byte(user.Password)
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(in.Password)) != nil || user == nil {
		return nil, "", errInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, RoleUser)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) RegisterPartner(ctx context.Context, in RegisterPartnerInput) (*models.FoodPartner, string, error) {
	in.BusinessName = strings.TrimSpace(in.BusinessName)
	in.Owner = strings.TrimSpace(in.Owner)
	in.BusinessEmail = normalizeEmail(in.BusinessEmail)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.Address = models.Address{
		Street:  strings.TrimSpace(in.Address.Street),
		City:    strings.TrimSpace(in.Address.City),
		State:   strings.TrimSpace(in.Address.State),
		Pincode: strings.TrimSpace(in.Address.Pincode),
	}
	if err := requireFields(in); err != nil {
		return nil, "", err
	}

	_, err := s.partners.FindPartnerByEmail(ctx, in.BusinessEmail)
	if err == nil {
		return nil, "", errors.Validation("Food partner already exists")
	}
	if !stderrors.Is(err, database.ErrNotFound) {
		return nil, "", errors.Internal("Registration failed", err)
	}

	hashed, err := s.hash(in.Password)
	if err != nil {
		return nil, "", err
	}
	partner := models.NewFoodPartner(in.BusinessName, in.Owner, in.BusinessEmail, in.PhoneNumber, in.Address, hashed)
	if err := s.partners.CreatePartner(ctx, partner); err != nil {
		if stderrors.Is(err, database.ErrDuplicate) {
			return nil, "", errors.Validation("Food partner already exists")
		}
		return nil, "", errors.Internal("Registration failed", err)
	}

	token, err := s.tokens.Issue(partner.ID, RolePartner)
	if err != nil {
		return nil, "", err
	}
	s.log.Info("Food partner registered", zap.String("partner_id", partner.ID.Hex()))
	return partner, token, nil
}

func (s *AuthService) LoginPartner(ctx context.Context, in LoginPartnerInput) (*models.FoodPartner, string, error) {
	in.BusinessEmail = normalizeEmail(in.BusinessEmail)
	if err := requireFields(in); err != nil {
		return nil, "", err
	}

	partner, err := s.partners.FindPartnerByEmail(ctx, in.BusinessEmail)
	if err != nil && !stderrors.Is(err, database.ErrNotFound) {
		return nil, "", errors.Internal("Login failed", err)
	}
	hash := s.dummyHash
	if partner != nil {
		hash = []byte(partner.Password)
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(in.Password)) != nil || partner == nil {
		return nil, "", errInvalidCredentials
	}

	token, err := s.tokens.Issue(partner.ID, RolePartner)
	if err != nil {
		return nil, "", err
	}
	return partner, token, nil
}
