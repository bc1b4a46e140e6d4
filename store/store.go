// Package store is the persistence gateway for users, meals, pantry
// ingredients, analysis attempts and push devices.
package store

import (
	"context"
	"errors"
	"time"

	"foodsnap/models"
)

// ErrNotFound is returned when a lookup by id/userId matches nothing.
var ErrNotFound = errors.New("record not found")

type UserRepository interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	SetUserGoals(ctx context.Context, id string, goals models.UserGoals) error
	SetPremium(ctx context.Context, id string, premium bool) error
}

// MealRepository ranges are inclusive on both ends, in Unix milliseconds.
// DeleteMeal hands back the removed document.
type MealRepository interface {
	InsertMeal(ctx context.Context, m *models.Meal) error
	ListMeals(ctx context.Context, userID string, limit int) ([]models.Meal, error)
	MealsBetween(ctx context.Context, userID string, fromMs, toMs int64) ([]models.Meal, error)
	CountMealsBetween(ctx context.Context, userID string, fromMs, toMs int64) (int64, error)
	DeleteMeal(ctx context.Context, id string) (*models.Meal, error)
}

// IngredientRepository writes are last-writer-wins: there is no version
// check between a read and the following save.
type IngredientRepository interface {
	GetIngredients(ctx context.Context, userID string) (*models.UserIngredients, error)
	SaveIngredients(ctx context.Context, doc models.UserIngredients) error
	RemoveIngredients(ctx context.Context, userID string, items []string) error
}

type AttemptRepository interface {
	InsertAttempt(ctx context.Context, a models.AnalysisAttempt) error
	CountAttempts(ctx context.Context, userID string, from, to time.Time) (int64, error)
}

type DeviceRepository interface {
	UpsertDevice(ctx context.Context, d *models.UserDevice) error
	ListDevices(ctx context.Context, userID string) ([]models.UserDevice, error)
	SetDevicesEnabled(ctx context.Context, userID string, enabled bool) error
	UsersWithDevices(ctx context.Context) ([]string, error)
}

// Store is the full gateway a driver has to provide.
type Store interface {
	UserRepository
	MealRepository
	IngredientRepository
	AttemptRepository
	DeviceRepository
	Close(ctx context.Context) error
}

// DefaultMealLimit caps meal history when the caller gives no limit.
const DefaultMealLimit = 50
