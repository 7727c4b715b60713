package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultProfileImage = "https://via.placeholder.com/150"
	DefaultCoverImage   = "https://via.placeholder.com/1200x300"
)

type Address struct {
	Street  string `json:"street" bson:"street" validate:"required"`
	City    string `json:"city" bson:"city" validate:"required"`
	State   string `json:"state" bson:"state" validate:"required"`
	Pincode string `json:"pincode" bson:"pincode" validate:"required"`
}

func (a Address) String() string {
	return fmt.Sprintf("%s, %s, %s - %s", a.Street, a.City, a.State, a.Pincode)
}

type BusinessHours struct {
	Open  string `json:"open,omitempty" bson:"open,omitempty"`
	Close string `json:"close,omitempty" bson:"close,omitempty"`
}

type SocialMedia struct {
	Instagram string `json:"instagram,omitempty" bson:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty" bson:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty" bson:"twitter,omitempty"`
	Youtube   string `json:"youtube,omitempty" bson:"youtube,omitempty"`
}

type Certificate struct {
	Name      string     `json:"name" bson:"name"`
	ImageURL  string     `json:"imageUrl" bson:"imageUrl"`
	IssueDate *time.Time `json:"issueDate,omitempty" bson:"issueDate,omitempty"`
}

type FoodPartner struct {
	ID                  primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	BusinessName        string               `json:"businessName" bson:"businessName"`
	Owner               string               `json:"owner" bson:"owner"`
	PhoneNumber         string               `json:"phoneNumber" bson:"phoneNumber"`
	Address             Address              `json:"address" bson:"address"`
	BusinessEmail       string               `json:"businessEmail" bson:"businessEmail"`
	Password            string               `json:"-" bson:"password"`
	ProfileImage        string               `json:"profileImage" bson:"profileImage"`
	CoverImage          string               `json:"coverImage" bson:"coverImage"`
	BusinessDescription string               `json:"businessDescription" bson:"businessDescription"`
	BusinessHours       BusinessHours        `json:"businessHours" bson:"businessHours"`
	Specialties         []string             `json:"specialties" bson:"specialties"`
	CuisineTypes        []string             `json:"cuisineTypes" bson:"cuisineTypes"`
	Followers           []primitive.ObjectID `json:"followers" bson:"followers"`
	Rating              float64              `json:"rating" bson:"rating"`
	TotalReviews        int                  `json:"totalReviews" bson:"totalReviews"`
	IsVerified          bool                 `json:"isVerified" bson:"isVerified"`
	SocialMedia         SocialMedia          `json:"socialMedia" bson:"socialMedia"`
	Certificates        []Certificate        `json:"certificates" bson:"certificates"`
	CreatedAt           time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time            `json:"updatedAt" bson:"updatedAt"`
}

func NewFoodPartner(businessName, owner, businessEmail, phoneNumber string, address Address, passwordHash string) *FoodPartner {
	now := time.Now().UTC()
	return &FoodPartner{
		BusinessName:  businessName,
		Owner:         owner,
		BusinessEmail: businessEmail,
		PhoneNumber:   phoneNumber,
		Address:       address,
		Password:      passwordHash,
		ProfileImage:  DefaultProfileImage,
		CoverImage:    DefaultCoverImage,
		Specialties:   []string{},
		CuisineTypes:  []string{},
		Followers:     []primitive.ObjectID{},
		Certificates:  []Certificate{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (p *FoodPartner) HasFollower(userID primitive.ObjectID) bool {
	for _, id := range p.Followers {
		if id == userID {
			return true
		}
	}
	return false
}

// PartnerSummary is the owner view embedded in feed listings.
type PartnerSummary struct {
	ID           primitive.ObjectID `json:"_id"`
	BusinessName string             `json:"businessName"`
	ProfileImage string             `json:"profileImage"`
	Rating       float64            `json:"rating"`
}

func (p *FoodPartner) Summary() PartnerSummary {
	return PartnerSummary{ID: p.ID, BusinessName: p.BusinessName, ProfileImage: p.ProfileImage, Rating: p.Rating}
}

// PartnerUpdate carries the partial profile update. Nil fields are left untouched.
type PartnerUpdate struct {
	BusinessDescription *string
	Specialties         []string
	CuisineTypes        []string
	ProfileImage        *string
	CoverImage          *string
}

func (u PartnerUpdate) Empty() bool {
	return u.BusinessDescription == nil && u.Specialties == nil && u.CuisineTypes == nil &&
		u.ProfileImage == nil && u.CoverImage == nil
}
