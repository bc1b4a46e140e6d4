package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"foodsnap/models"
	"foodsnap/store"
)

// IngredientService manages the pantry list of each user. Merges are a
// read followed by a write, so two concurrent appends can lose one
// another's items.
type IngredientService struct {
	repo store.IngredientRepository
	now  func() time.Time
}

func NewIngredientService(repo store.IngredientRepository) *IngredientService {
	return &IngredientService{repo: repo, now: time.Now}
}

type SaveIngredientsInput struct {
	UserID      string   `json:"userId"`
	Ingredients []string `json:"ingredients"`
	Append      *bool    `json:"append"`
}

// Save appends (set union) or replaces the pantry and returns the
// resulting list.
func (s *IngredientService) Save(ctx context.Context, userID string, items []string, appendMode bool) ([]string, error) {
	next := dedupe(items)
	if appendMode {
		existing, err := s.repo.GetIngredients(ctx, userID)
		switch {
		case err == nil:
			next = dedupe(append(append([]string{}, existing.Ingredients...), items...))
		case !errors.Is(err, store.ErrNotFound):
			return nil, fmt.Errorf("load ingredients: %w", err)
		}
	}

	doc := models.UserIngredients{UserID: userID, Ingredients: next, LastUpdated: s.now().UTC()}
	if err := s.repo.SaveIngredients(ctx, doc); err != nil {
		return nil, fmt.Errorf("save ingredients: %w", err)
	}
	return next, nil
}

// Get returns the saved pantry, or an empty one with a zero LastUpdated.
func (s *IngredientService) Get(ctx context.Context, userID string) (*models.UserIngredients, error) {
	doc, err := s.repo.GetIngredients(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return &models.UserIngredients{UserID: userID, Ingredients: []string{}}, nil
	}
	if err != nil {
		return nil, err
	}
	if doc.Ingredients == nil {
		doc.Ingredients = []string{}
	}
	return doc, nil
}

// Clear empties the pantry, or removes just the given items when any
// are passed.
func (s *IngredientService) Clear(ctx context.Context, userID string, items []string) error {
	if len(items) > 0 {
		return s.repo.RemoveIngredients(ctx, userID, items)
	}
	return s.repo.SaveIngredients(ctx, models.UserIngredients{
		UserID:      userID,
		Ingredients: []string{},
		LastUpdated: s.now().UTC(),
	})
}

// dedupe keeps the first occurrence of each exact string.
func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}
