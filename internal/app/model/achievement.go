package model

import (
	"time"
)

// Achievement definición de logro. Datos de referencia, solo lectura:
// se siembran en la migración y nunca se editan por API.
type Achievement struct {
	ID              uint     `gorm:"primarykey" json:"id"`
	Category        Category `gorm:"type:varchar(30);not null;index;uniqueIndex:idx_achievements_category_level" json:"category"`
	Level           int      `gorm:"not null;uniqueIndex:idx_achievements_category_level" json:"level"` // nivel dentro de la categoría
	Name            string   `gorm:"not null" json:"name"`
	Description     string   `gorm:"type:text" json:"description"`
	RequiredReviews int      `gorm:"not null" json:"required_reviews"` // reseñas necesarias en la categoría
	PointsReward    int      `gorm:"not null" json:"points_reward"`    // puntos que otorga al desbloquear
}

func (Achievement) TableName() string {
	return "achievements"
}

// UserAchievement logro otorgado a un usuario.
// El índice único (user_id, achievement_id) hace idempotente el
// otorgamiento: el upsert que no inserta fila no vuelve a emitir el logro.
type UserAchievement struct {
	ID            uint         `gorm:"primarykey" json:"id"`
	UserID        uint         `gorm:"not null;uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementID uint         `gorm:"not null;uniqueIndex:idx_user_achievement" json:"achievement_id"`
	Achievement   *Achievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
	UnlockedAt    time.Time    `json:"unlocked_at"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}

// AchievementProgress avance de un usuario sobre una definición.
// Derivado, nunca se persiste.
type AchievementProgress struct {
	Achievement        Achievement `json:"achievement"`
	CurrentProgress    int         `json:"current_progress"`
	ProgressPercentage float64     `json:"progress_percentage"`
	IsUnlocked         bool        `json:"is_unlocked"`
}
