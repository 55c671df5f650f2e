package model

import (
	"time"

	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeAchievementUnlocked NotificationType = "achievement_unlocked"
	NotificationTypeReviewPublished     NotificationType = "review_published"
	NotificationTypeLevelUp             NotificationType = "level_up"
	NotificationTypePointsEarned        NotificationType = "points_earned"
)

// Notification notificación persistida por usuario.
type Notification struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Usuario que recibe la notificación
	UserID uint  `gorm:"not null;index" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Type NotificationType `gorm:"type:varchar(50);not null;index" json:"type"`

	Title   string `gorm:"type:text;not null" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`
	Link    string `gorm:"type:text" json:"link"`

	IsRead bool `gorm:"default:false;index" json:"is_read"`

	// Datos relacionados (nullable)
	RelatedPlaceID       *uint `gorm:"index" json:"related_place_id,omitempty"`
	RelatedReviewID      *uint `gorm:"index" json:"related_review_id,omitempty"`
	RelatedAchievementID *uint `gorm:"index" json:"related_achievement_id,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}
