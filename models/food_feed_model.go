package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var Categories = []string{"appetizer", "main-course", "dessert", "beverage", "snack", "breakfast", "street-food"}

var Difficulties = []string{"easy", "medium", "hard"}

const DefaultDifficulty = "medium"

type Ingredient struct {
	Name     string `json:"name" bson:"name"`
	Quantity string `json:"quantity" bson:"quantity"`
}

type NutritionInfo struct {
	Calories      float64 `json:"calories,omitempty" bson:"calories,omitempty"`
	Protein       float64 `json:"protein,omitempty" bson:"protein,omitempty"`
	Carbohydrates float64 `json:"carbohydrates,omitempty" bson:"carbohydrates,omitempty"`
	Fats          float64 `json:"fats,omitempty" bson:"fats,omitempty"`
	ServingSize   string  `json:"servingSize,omitempty" bson:"servingSize,omitempty"`
}

type Comment struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	Text      string             `json:"text" bson:"text"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

type FoodFeed struct {
	ID              primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Title           string             `json:"title" bson:"title"`
	Description     string             `json:"description" bson:"description"`
	VideoURL        string             `json:"videoUrl" bson:"videoUrl"`
	Thumbnail       string             `json:"thumbnail" bson:"thumbnail"`
	Category        string             `json:"category" bson:"category"`
	Cuisine         string             `json:"cuisine" bson:"cuisine"`
	PreparationTime int                `json:"preparationTime" bson:"preparationTime"`
	Difficulty      string             `json:"difficulty" bson:"difficulty"`
	Ingredients     []Ingredient       `json:"ingredients" bson:"ingredients"`
	Steps           []string           `json:"steps" bson:"steps"`
	Owner           primitive.ObjectID `json:"owner" bson:"owner"`
	Likes           int64              `json:"likes" bson:"likes"`
	Views           int64              `json:"views" bson:"views"`
	Hashtags        []string           `json:"hashtags" bson:"hashtags"`
	IsVegetarian    bool               `json:"isVegetarian" bson:"isVegetarian"`
	NutritionInfo   *NutritionInfo     `json:"nutritionInfo,omitempty" bson:"nutritionInfo,omitempty"`
	Comments        []Comment          `json:"comments" bson:"comments"`
	IsPublished     bool               `json:"isPublished" bson:"isPublished"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// FeedFilter holds the AND-combined listing filters. Zero values mean "any".
type FeedFilter struct {
	Category     string
	Cuisine      string
	Difficulty   string
	IsVegetarian *bool
	Owner        *primitive.ObjectID
}

type FeedSort string

const (
	SortNone    FeedSort = ""
	SortLatest  FeedSort = "latest"
	SortPopular FeedSort = "popular"
	SortViews   FeedSort = "views"
)

// ParseFeedSort maps the sortBy query value; unknown values fall back to insertion order.
func ParseFeedSort(s string) FeedSort {
	switch FeedSort(s) {
	case SortLatest, SortPopular, SortViews:
		return FeedSort(s)
	}
	return SortNone
}

type FeedStats struct {
	TotalVideos int64 `json:"totalVideos"`
	TotalLikes  int64 `json:"totalLikes"`
}
