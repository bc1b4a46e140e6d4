package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"foodsnap/models"
	"foodsnap/store"
	"foodsnap/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PhotoUploader archives a meal photo and returns where it lives.
type PhotoUploader interface {
	Upload(ctx context.Context, base64Data, userID, name string) (string, error)
}

// TotalsEvent is pushed to live subscribers whenever a user's day changes.
type TotalsEvent struct {
	Kind   string             `json:"kind"`
	Totals models.DailyTotals `json:"totals"`
}

const eventTotalsUpdated = "totals.updated"

type MealService struct {
	meals   store.MealRepository
	summary *SummaryService
	photos  PhotoUploader
	hub     *RealtimeHub
	log     *zap.Logger
	now     func() time.Time
	newID   func() string
}

func NewMealService(meals store.MealRepository, summary *SummaryService, log *zap.Logger) *MealService {
	return &MealService{meals: meals, summary: summary, log: log, now: time.Now, newID: uuid.NewString}
}

// WithPhotoArchive uploads each saved photo and records its URL.
func (s *MealService) WithPhotoArchive(p PhotoUploader) *MealService {
	s.photos = p
	return s
}

// WithHub pushes fresh daily totals to live subscribers after each change.
func (s *MealService) WithHub(h *RealtimeHub) *MealService {
	s.hub = h
	return s
}

type SaveMealInput struct {
	UserID      string   `json:"userId" binding:"required"`
	PhotoBase64 string   `json:"photoBase64"`
	DishName    string   `json:"dishName"`
	Ingredients []string `json:"ingredients"`
	Calories    float64  `json:"calories"`
	Protein     float64  `json:"protein"`
	Carbs       float64  `json:"carbs"`
	Fats        float64  `json:"fats"`
	PortionSize string   `json:"portionSize"`
	Warnings    []string `json:"warnings"`
	Timestamp   *int64   `json:"timestamp"` // Unix ms; server time when absent
}

func (s *MealService) SaveMeal(ctx context.Context, in SaveMealInput) (*models.Meal, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return nil, InvalidInputError("userId is required")
	}
	if in.Calories < 0 || in.Protein < 0 || in.Carbs < 0 || in.Fats < 0 {
		return nil, InvalidInputError("calories, protein, carbs and fats must be non-negative")
	}

	ts := s.now().UnixMilli()
	if in.Timestamp != nil && *in.Timestamp > 0 {
		ts = *in.Timestamp
	}
	meal := &models.Meal{
		ID:          s.newID(),
		UserID:      in.UserID,
		Timestamp:   ts,
		PhotoBase64: in.PhotoBase64,
		DishName:    in.DishName,
		Ingredients: nonNil(in.Ingredients),
		Calories:    in.Calories,
		Protein:     in.Protein,
		Carbs:       in.Carbs,
		Fats:        in.Fats,
		PortionSize: in.PortionSize,
		Warnings:    nonNil(in.Warnings),
	}
	if meal.PortionSize == "" {
		meal.PortionSize = "medium"
	}

	if s.photos != nil && meal.PhotoBase64 != "" {
		url, err := s.photos.Upload(ctx, meal.PhotoBase64, meal.UserID, meal.ID)
		if err != nil {
			s.log.Warn("photo archive failed", zap.String("meal_id", meal.ID), zap.Error(err))
		} else {
			meal.PhotoURL = url
		}
	}

	if err := s.meals.InsertMeal(ctx, meal); err != nil {
		return nil, fmt.Errorf("insert meal: %w", err)
	}
	s.publishTotals(ctx, meal.UserID)
	return meal, nil
}

func (s *MealService) ListMeals(ctx context.Context, userID string, limit int) ([]models.Meal, error) {
	if limit <= 0 {
		limit = store.DefaultMealLimit
	}
	meals, err := s.meals.ListMeals(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if meals == nil {
		meals = []models.Meal{}
	}
	return meals, nil
}

func (s *MealService) CountToday(ctx context.Context, userID string) (int64, error) {
	from, to := utils.DayBoundsMillis(s.now())
	return s.meals.CountMealsBetween(ctx, userID, from, to)
}

func (s *MealService) DeleteMeal(ctx context.Context, mealID string) error {
	meal, err := s.meals.DeleteMeal(ctx, mealID)
	if errors.Is(err, store.ErrNotFound) {
		return NotFoundError("Meal not found")
	}
	if err != nil {
		return err
	}
	s.publishTotals(ctx, meal.UserID)
	return nil
}

// publishTotals never fails the caller; live updates are best effort.
func (s *MealService) publishTotals(ctx context.Context, userID string) {
	if s.hub == nil || s.summary == nil || s.hub.Subscribers(userID) == 0 {
		return
	}
	totals, err := s.summary.DailyTotals(ctx, userID)
	if err != nil {
		s.log.Warn("live totals skipped", zap.String("user_id", userID), zap.Error(err))
		return
	}
	s.hub.Broadcast(userID, TotalsEvent{Kind: eventTotalsUpdated, Totals: totals})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
