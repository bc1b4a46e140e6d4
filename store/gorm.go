package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"foodsnap/models"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Row types for the relational driver. List and goal fields live in JSON
// columns so the rows keep the document shape.

type userRow struct {
	ID        string  `gorm:"primaryKey;size:36"`
	Email     *string `gorm:"size:255"`
	IsPremium bool
	CreatedAt time.Time
	Goals     datatypes.JSON
}

func (userRow) TableName() string { return "users" }

type mealRow struct {
	ID          string `gorm:"primaryKey;size:36"`
	UserID      string `gorm:"index:idx_meal_user_ts;size:36;not null"`
	Timestamp   int64  `gorm:"index:idx_meal_user_ts;not null"`
	PhotoBase64 string `gorm:"type:text"`
	PhotoURL    string
	DishName    string
	Ingredients datatypes.JSONSlice[string]
	Calories    float64
	Protein     float64
	Carbs       float64
	Fats        float64
	PortionSize string
	Warnings    datatypes.JSONSlice[string]
}

func (mealRow) TableName() string { return "meals" }

type ingredientRow struct {
	UserID      string `gorm:"primaryKey;size:36"`
	Ingredients datatypes.JSONSlice[string]
	LastUpdated time.Time
}

func (ingredientRow) TableName() string { return "user_ingredients" }

type attemptRow struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    string    `gorm:"index:idx_attempt_user_ts;size:36;not null"`
	Timestamp time.Time `gorm:"index:idx_attempt_user_ts;not null"`
	Type      string    `gorm:"size:20"`
}

func (attemptRow) TableName() string { return "analysis_attempts" }

type deviceRow struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      string `gorm:"uniqueIndex:idx_device_user_token;size:36"`
	TokenHash   string `gorm:"uniqueIndex:idx_device_user_token;size:64"`
	Platform    string `gorm:"size:16"`
	EndpointARN string `gorm:"size:256"`
	Language    string `gorm:"size:8"`
	Enabled     bool   `gorm:"default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (deviceRow) TableName() string { return "user_devices" }

type GormStore struct {
	db *gorm.DB
}

// OpenPostgres opens the relational driver and migrates its tables.
func OpenPostgres(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return NewGorm(db)
}

func NewGorm(db *gorm.DB) (*GormStore, error) {
	err := db.AutoMigrate(
		&userRow{},
		&mealRow{},
		&ingredientRow{},
		&attemptRow{},
		&deviceRow{},
	)
	if err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStore) CreateUser(ctx context.Context, u *models.User) error {
	row := userRow{ID: u.ID, Email: u.Email, IsPremium: u.IsPremium, CreatedAt: u.CreatedAt}
	if u.Goals != nil {
		b, err := json.Marshal(u.Goals)
		if err != nil {
			return err
		}
		row.Goals = b
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

func (s *GormStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var row userRow
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, notFound(err)
	}
	u := &models.User{ID: row.ID, Email: row.Email, IsPremium: row.IsPremium, CreatedAt: row.CreatedAt}
	if len(row.Goals) > 0 && string(row.Goals) != "null" {
		var g models.UserGoals
		if err := json.Unmarshal(row.Goals, &g); err != nil {
			return nil, fmt.Errorf("decode goals: %w", err)
		}
		u.Goals = &g
	}
	return u, nil
}

func (s *GormStore) SetUserGoals(ctx context.Context, id string, goals models.UserGoals) error {
	b, err := json.Marshal(goals)
	if err != nil {
		return err
	}
	return s.updateUser(ctx, id, "goals", datatypes.JSON(b))
}

func (s *GormStore) SetPremium(ctx context.Context, id string, premium bool) error {
	return s.updateUser(ctx, id, "is_premium", premium)
}

func (s *GormStore) updateUser(ctx context.Context, id, column string, value any) error {
	res := s.db.WithContext(ctx).Model(&userRow{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) InsertMeal(ctx context.Context, m *models.Meal) error {
	row := mealRow{
		ID:          m.ID,
		UserID:      m.UserID,
		Timestamp:   m.Timestamp,
		PhotoBase64: m.PhotoBase64,
		PhotoURL:    m.PhotoURL,
		DishName:    m.DishName,
		Ingredients: m.Ingredients,
		Calories:    m.Calories,
		Protein:     m.Protein,
		Carbs:       m.Carbs,
		Fats:        m.Fats,
		PortionSize: m.PortionSize,
		Warnings:    m.Warnings,
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

func (s *GormStore) ListMeals(ctx context.Context, userID string, limit int) ([]models.Meal, error) {
	if limit <= 0 {
		limit = DefaultMealLimit
	}
	var rows []mealRow
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&rows).Error
	return toMeals(rows), err
}

func (s *GormStore) MealsBetween(ctx context.Context, userID string, fromMs, toMs int64) ([]models.Meal, error) {
	var rows []mealRow
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND timestamp >= ? AND timestamp <= ?", userID, fromMs, toMs).
		Find(&rows).Error
	return toMeals(rows), err
}

func (s *GormStore) CountMealsBetween(ctx context.Context, userID string, fromMs, toMs int64) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&mealRow{}).
		Where("user_id = ? AND timestamp >= ? AND timestamp <= ?", userID, fromMs, toMs).
		Count(&n).Error
	return n, err
}

func (s *GormStore) DeleteMeal(ctx context.Context, id string) (*models.Meal, error) {
	var row mealRow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&row).Error; err != nil {
			return notFound(err)
		}
		return tx.Delete(&row).Error
	})
	if err != nil {
		return nil, err
	}
	return &toMeals([]mealRow{row})[0], nil
}

func toMeals(rows []mealRow) []models.Meal {
	out := make([]models.Meal, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.Meal{
			ID:          r.ID,
			UserID:      r.UserID,
			Timestamp:   r.Timestamp,
			PhotoBase64: r.PhotoBase64,
			PhotoURL:    r.PhotoURL,
			DishName:    r.DishName,
			Ingredients: r.Ingredients,
			Calories:    r.Calories,
			Protein:     r.Protein,
			Carbs:       r.Carbs,
			Fats:        r.Fats,
			PortionSize: r.PortionSize,
			Warnings:    r.Warnings,
		})
	}
	return out
}

func (s *GormStore) GetIngredients(ctx context.Context, userID string) (*models.UserIngredients, error) {
	var row ingredientRow
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error; err != nil {
		return nil, notFound(err)
	}
	return &models.UserIngredients{
		UserID:      row.UserID,
		Ingredients: row.Ingredients,
		LastUpdated: row.LastUpdated,
	}, nil
}

func (s *GormStore) SaveIngredients(ctx context.Context, doc models.UserIngredients) error {
	if doc.Ingredients == nil {
		doc.Ingredients = []string{}
	}
	row := ingredientRow{UserID: doc.UserID, Ingredients: doc.Ingredients, LastUpdated: doc.LastUpdated}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
}

// RemoveIngredients is a read-modify-write; concurrent writers can lose
// updates.
func (s *GormStore) RemoveIngredients(ctx context.Context, userID string, items []string) error {
	doc, err := s.GetIngredients(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(&ingredientRow{}).
		Where("user_id = ?", userID).
		Update("ingredients", datatypes.JSONSlice[string](without(doc.Ingredients, items))).Error
}

func (s *GormStore) InsertAttempt(ctx context.Context, a models.AnalysisAttempt) error {
	row := attemptRow{UserID: a.UserID, Timestamp: a.Timestamp, Type: a.Type}
	return s.db.WithContext(ctx).Create(&row).Error
}

func (s *GormStore) CountAttempts(ctx context.Context, userID string, from, to time.Time) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&attemptRow{}).
		Where("user_id = ? AND timestamp BETWEEN ? AND ?", userID, from, to).
		Count(&n).Error
	return n, err
}

func (s *GormStore) UpsertDevice(ctx context.Context, d *models.UserDevice) error {
	row := deviceRow{
		UserID:      d.UserID,
		TokenHash:   d.TokenHash,
		Platform:    d.Platform,
		EndpointARN: d.EndpointARN,
		Language:    d.Language,
		Enabled:     d.Enabled,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "token_hash"}},
		DoUpdates: clause.AssignmentColumns([]string{"platform", "endpoint_arn", "language", "enabled", "updated_at"}),
	}).Create(&row).Error
}

func (s *GormStore) ListDevices(ctx context.Context, userID string) ([]models.UserDevice, error) {
	var rows []deviceRow
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.UserDevice, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.UserDevice{
			UserID:      r.UserID,
			Platform:    r.Platform,
			TokenHash:   r.TokenHash,
			EndpointARN: r.EndpointARN,
			Language:    r.Language,
			Enabled:     r.Enabled,
			CreatedAt:   r.CreatedAt,
			UpdatedAt:   r.UpdatedAt,
		})
	}
	return out, nil
}

func (s *GormStore) SetDevicesEnabled(ctx context.Context, userID string, enabled bool) error {
	return s.db.WithContext(ctx).Model(&deviceRow{}).
		Where("user_id = ?", userID).
		Update("enabled", enabled).Error
}

func (s *GormStore) UsersWithDevices(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&deviceRow{}).
		Where("enabled = ?", true).
		Distinct().
		Pluck("user_id", &ids).Error
	return ids, err
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
