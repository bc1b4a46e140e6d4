package models

import "time"

type UserDevice struct {
	UserID      string    `bson:"userId" json:"userId"`
	Platform    string    `bson:"platform" json:"platform"` // "android" | "ios"
	TokenHash   string    `bson:"tokenHash" json:"-"`
	EndpointARN string    `bson:"endpointArn" json:"endpointArn"`
	Language    string    `bson:"language" json:"language"`
	Enabled     bool      `bson:"enabled" json:"enabled"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}
