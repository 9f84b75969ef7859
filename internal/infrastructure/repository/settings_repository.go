package repository

import (
	"context"

	"github.com/sangkips/cafe-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/cafe-pos/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) domainRepo.SettingsRepository {
	return &settingsRepository{db: db}
}

// Get retrieves a setting by key
func (r *settingsRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var s entity.Setting
	res := conn(ctx, r.db).Where("key = ?", key).Limit(1).Find(&s)
	if res.Error != nil {
		return "", false, res.Error
	}
	if res.RowsAffected == 0 {
		return "", false, nil
	}
	return s.Value, true, nil
}

// Put inserts or replaces a setting
func (r *settingsRepository) Put(ctx context.Context, key, value string) error {
	return conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entity.Setting{Key: key, Value: value}).Error
}

// Delete removes a setting; deleting a missing key is not an error
func (r *settingsRepository) Delete(ctx context.Context, key string) error {
	return conn(ctx, r.db).Where("key = ?", key).Delete(&entity.Setting{}).Error
}

// All returns every setting
func (r *settingsRepository) All(ctx context.Context) (map[string]string, error) {
	var rows []entity.Setting
	if err := conn(ctx, r.db).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, s := range rows {
		out[s.Key] = s.Value
	}
	return out, nil
}
