package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"foodsnap/models"
)

// Memory keeps everything in process. It backs tests and the "memory"
// driver for local runs.
type Memory struct {
	mu          sync.RWMutex
	users       map[string]models.User
	meals       []models.Meal
	ingredients map[string]models.UserIngredients
	attempts    []models.AnalysisAttempt
	devices     []models.UserDevice
}

func NewMemory() *Memory {
	return &Memory{
		users:       make(map[string]models.User),
		ingredients: make(map[string]models.UserIngredients),
	}
}

func (m *Memory) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = cloneUser(*u)
	return nil
}

func (m *Memory) GetUser(_ context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneUser(u)
	return &out, nil
}

func (m *Memory) SetUserGoals(_ context.Context, id string, goals models.UserGoals) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	g := goals
	u.Goals = &g
	m.users[id] = u
	return nil
}

func (m *Memory) SetPremium(_ context.Context, id string, premium bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.IsPremium = premium
	m.users[id] = u
	return nil
}

func (m *Memory) InsertMeal(_ context.Context, meal *models.Meal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.meals = append(m.meals, cloneMeal(*meal))
	return nil
}

func (m *Memory) ListMeals(_ context.Context, userID string, limit int) ([]models.Meal, error) {
	if limit <= 0 {
		limit = DefaultMealLimit
	}
	m.mu.RLock()
	var out []models.Meal
	for _, meal := range m.meals {
		if meal.UserID == userID {
			out = append(out, cloneMeal(meal))
		}
	}
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) MealsBetween(_ context.Context, userID string, fromMs, toMs int64) ([]models.Meal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Meal
	for _, meal := range m.meals {
		if meal.UserID == userID && meal.Timestamp >= fromMs && meal.Timestamp <= toMs {
			out = append(out, cloneMeal(meal))
		}
	}
	return out, nil
}

func (m *Memory) CountMealsBetween(ctx context.Context, userID string, fromMs, toMs int64) (int64, error) {
	meals, err := m.MealsBetween(ctx, userID, fromMs, toMs)
	return int64(len(meals)), err
}

func (m *Memory) DeleteMeal(_ context.Context, id string) (*models.Meal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, meal := range m.meals {
		if meal.ID == id {
			m.meals = append(m.meals[:i], m.meals[i+1:]...)
			return &meal, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) GetIngredients(_ context.Context, userID string) (*models.UserIngredients, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.ingredients[userID]
	if !ok {
		return nil, ErrNotFound
	}
	doc.Ingredients = append([]string(nil), doc.Ingredients...)
	return &doc, nil
}

func (m *Memory) SaveIngredients(_ context.Context, doc models.UserIngredients) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc.Ingredients = append([]string{}, doc.Ingredients...)
	m.ingredients[doc.UserID] = doc
	return nil
}

func (m *Memory) RemoveIngredients(_ context.Context, userID string, items []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.ingredients[userID]
	if !ok {
		return nil
	}
	doc.Ingredients = without(doc.Ingredients, items)
	m.ingredients[userID] = doc
	return nil
}

func (m *Memory) InsertAttempt(_ context.Context, a models.AnalysisAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts = append(m.attempts, a)
	return nil
}

func (m *Memory) CountAttempts(_ context.Context, userID string, from, to time.Time) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, a := range m.attempts {
		if a.UserID == userID && !a.Timestamp.Before(from) && !a.Timestamp.After(to) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) UpsertDevice(_ context.Context, d *models.UserDevice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.devices {
		if existing.UserID == d.UserID && existing.TokenHash == d.TokenHash {
			d.CreatedAt = existing.CreatedAt
			m.devices[i] = *d
			return nil
		}
	}
	m.devices = append(m.devices, *d)
	return nil
}

func (m *Memory) ListDevices(_ context.Context, userID string) ([]models.UserDevice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.UserDevice
	for _, d := range m.devices {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *Memory) SetDevicesEnabled(_ context.Context, userID string, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.devices {
		if m.devices[i].UserID == userID {
			m.devices[i].Enabled = enabled
		}
	}
	return nil
}

func (m *Memory) UsersWithDevices(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, d := range m.devices {
		if d.Enabled && !seen[d.UserID] {
			seen[d.UserID] = true
			out = append(out, d.UserID)
		}
	}
	return out, nil
}

func (m *Memory) Close(context.Context) error { return nil }

func cloneUser(u models.User) models.User {
	if u.Goals != nil {
		g := *u.Goals
		u.Goals = &g
	}
	return u
}

func cloneMeal(m models.Meal) models.Meal {
	m.Ingredients = append([]string{}, m.Ingredients...)
	m.Warnings = append([]string{}, m.Warnings...)
	return m
}

// without drops every entry of items from list, keeping order.
func without(list, items []string) []string {
	drop := make(map[string]bool, len(items))
	for _, it := range items {
		drop[it] = true
	}
	out := make([]string, 0, len(list))
	for _, it := range list {
		if !drop[it] {
			out = append(out, it)
		}
	}
	return out
}
