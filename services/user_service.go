package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"foodsnap/models"
	"foodsnap/store"
	"foodsnap/utils"

	"github.com/google/uuid"
)

type UserService struct {
	users    store.UserRepository
	attempts store.AttemptRepository
	now      func() time.Time
	newID    func() string
}

func NewUserService(users store.UserRepository, attempts store.AttemptRepository) *UserService {
	return &UserService{users: users, attempts: attempts, now: time.Now, newID: uuid.NewString}
}

// GoalsInput is the profile a user submits to get daily targets.
type GoalsInput struct {
	Age           int     `json:"age"`
	Height        float64 `json:"height"`
	Weight        float64 `json:"weight"`
	ActivityLevel string  `json:"activityLevel"`
	Goal          string  `json:"goal"`
	Gender        string  `json:"gender"`
}

// CreateUser registers a new anonymous user.
func (s *UserService) CreateUser(ctx context.Context) (*models.User, error) {
	u := &models.User{
		ID:        s.newID(),
		IsPremium: false,
		CreatedAt: s.now().UTC(),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	u, err := s.users.GetUser(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFoundError("User not found")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// SetGoals computes daily targets from the profile and stores both.
func (s *UserService) SetGoals(ctx context.Context, id string, in GoalsInput) (*models.UserGoals, error) {
	if in.Age <= 0 || in.Height <= 0 || in.Weight <= 0 {
		return nil, InvalidInputError("age, height and weight must be positive")
	}
	gender := in.Gender
	if gender == "" {
		gender = "male"
	}

	needs := utils.CalculateDailyNeeds(in.Age, in.Height, in.Weight, in.ActivityLevel, in.Goal, gender)
	goals := models.UserGoals{
		Age:           in.Age,
		Height:        in.Height,
		Weight:        in.Weight,
		ActivityLevel: in.ActivityLevel,
		Goal:          in.Goal,
		Gender:        gender,
		DailyCalories: needs.Calories,
		DailyProtein:  needs.Protein,
		DailyCarbs:    needs.Carbs,
		DailyFats:     needs.Fats,
	}

	err := s.users.SetUserGoals(ctx, id, goals)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFoundError("User not found")
	}
	if err != nil {
		return nil, err
	}
	return &goals, nil
}

func (s *UserService) SetPremium(ctx context.Context, id string, premium bool) error {
	err := s.users.SetPremium(ctx, id, premium)
	if errors.Is(err, store.ErrNotFound) {
		return NotFoundError("User not found")
	}
	return err
}

// AnalysisCountToday counts today's photo analyses, the basis of the
// free-tier quota.
func (s *UserService) AnalysisCountToday(ctx context.Context, userID string) (int64, error) {
	from, to := utils.DayBounds(s.now())
	return s.attempts.CountAttempts(ctx, userID, from.UTC(), to.UTC())
}
