package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultAvatar = "https://via.placeholder.com/150"

type User struct {
	ID         primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	FullName   string               `json:"fullName" bson:"fullName"`
	Email      string               `json:"email" bson:"email"`
	Password   string               `json:"-" bson:"password"`
	Avatar     string               `json:"avatar" bson:"avatar"`
	Following  []primitive.ObjectID `json:"following" bson:"following"`
	LikedReels []primitive.ObjectID `json:"likedReels" bson:"likedReels"`
	SavedReels []primitive.ObjectID `json:"savedReels" bson:"savedReels"`
	IsActive   bool                 `json:"isActive" bson:"isActive"`
	CreatedAt  time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// NewUser returns a user with schema defaults applied. Set fields start
// empty rather than nil so $addToSet/$pull always target an array.
func NewUser(fullName, email, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		FullName:   fullName,
		Email:      email,
		Password:   passwordHash,
		Avatar:     DefaultAvatar,
		Following:  []primitive.ObjectID{},
		LikedReels: []primitive.ObjectID{},
		SavedReels: []primitive.ObjectID{},
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// UserSummary is the author/follower view of a user.
type UserSummary struct {
	ID       primitive.ObjectID `json:"_id"`
	FullName string             `json:"fullName"`
	Avatar   string             `json:"avatar"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, FullName: u.FullName, Avatar: u.Avatar}
}
