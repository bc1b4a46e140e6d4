package models

import "time"

// User is an anonymous, device-created account. Goals is nil until the
// user submits their profile.
type User struct {
	ID        string     `bson:"id" json:"id"`
	Email     *string    `bson:"email,omitempty" json:"email,omitempty"`
	IsPremium bool       `bson:"isPremium" json:"isPremium"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	Goals     *UserGoals `bson:"goals,omitempty" json:"goals,omitempty"`
}

// UserGoals holds each user's daily nutrient targets together with the
// profile inputs they were computed from.
type UserGoals struct {
	Age           int     `bson:"age" json:"age"`
	Height        float64 `bson:"height" json:"height"` // cm
	Weight        float64 `bson:"weight" json:"weight"` // kg
	ActivityLevel string  `bson:"activityLevel" json:"activityLevel"`
	Goal          string  `bson:"goal" json:"goal"` // lose | maintain | gain
	Gender        string  `bson:"gender" json:"gender"`

	DailyCalories int `bson:"dailyCalories" json:"dailyCalories"`
	DailyProtein  int `bson:"dailyProtein" json:"dailyProtein"`
	DailyCarbs    int `bson:"dailyCarbs" json:"dailyCarbs"`
	DailyFats     int `bson:"dailyFats" json:"dailyFats"`
}
