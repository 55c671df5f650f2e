package repository

import (
	"github.com/RenCostamagna/comidita-backend/internal/app/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AchievementRepository repositorio de logros
type AchievementRepository interface {
	GetAll() ([]model.Achievement, error)
	GetByCategory(category model.Category) ([]model.Achievement, error)
	GetByID(id uint) (*model.Achievement, error)
	// Grant otorga un logro. Devuelve true solo si la fila se insertó ahora;
	// si el usuario ya lo tenía no hace nada.
	Grant(userAchievement *model.UserAchievement) (bool, error)
	GetUserAchievements(userID uint) ([]model.UserAchievement, error)
	GetUnlockedIDs(userID uint) (map[uint]bool, error)
}

type achievementRepository struct {
	db *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) GetAll() ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := r.db.Order("category ASC, level ASC").Find(&achievements).Error
	if err != nil {
		return nil, err
	}
	return achievements, nil
}

func (r *achievementRepository) GetByCategory(category model.Category) ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := r.db.Where("category = ?", category).
		Order("level ASC").
		Find(&achievements).Error
	if err != nil {
		return nil, err
	}
	return achievements, nil
}

func (r *achievementRepository) GetByID(id uint) (*model.Achievement, error) {
	var achievement model.Achievement
	if err := r.db.First(&achievement, id).Error; err != nil {
		return nil, err
	}
	return &achievement, nil
}

func (r *achievementRepository) Grant(userAchievement *model.UserAchievement) (bool, error) {
	// ON CONFLICT DO NOTHING sobre (user_id, achievement_id): otorgar dos
	// veces es un no-op, RowsAffected dice si fue un desbloqueo nuevo
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
		DoNothing: true,
	}).Create(userAchievement)

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *achievementRepository) GetUserAchievements(userID uint) ([]model.UserAchievement, error) {
	var unlocked []model.UserAchievement
	err := r.db.Preload("Achievement").
		Where("user_id = ?", userID).
		Order("unlocked_at DESC").
		Find(&unlocked).Error
	if err != nil {
		return nil, err
	}
	return unlocked, nil
}

func (r *achievementRepository) GetUnlockedIDs(userID uint) (map[uint]bool, error) {
	var ids []uint
	err := r.db.Model(&model.UserAchievement{}).
		Where("user_id = ?", userID).
		Pluck("achievement_id", &ids).Error
	if err != nil {
		return nil, err
	}

	unlocked := make(map[uint]bool, len(ids))
	for _, id := range ids {
		unlocked[id] = true
	}
	return unlocked, nil
}
