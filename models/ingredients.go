package models

import "time"

// UserIngredients is the set of ingredients a user has at home.
type UserIngredients struct {
	UserID      string    `bson:"userId" json:"userId"`
	Ingredients []string  `bson:"ingredients" json:"ingredients"`
	LastUpdated time.Time `bson:"lastUpdated" json:"lastUpdated"`
}
