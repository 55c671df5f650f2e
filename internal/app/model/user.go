package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string // rol del usuario

const (
	RoleUser  UserRole = "user"  // usuario común
	RoleAdmin UserRole = "admin" // administrador
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                        // ID del usuario
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`           // email
	PasswordHash string         `gorm:"not null" json:"-"`                           // hash de la contraseña
	Name         string         `gorm:"not null" json:"name"`                        // nombre
	AvatarURL    string         `json:"avatar_url"`                                  // foto de perfil
	Role         UserRole       `gorm:"type:varchar(20);default:'user'" json:"role"` // rol
	Points       int            `gorm:"not null;default:0" json:"points"`            // puntos acumulados
	Level        int            `gorm:"not null;default:1" json:"level"`             // nivel actual (derivado de los puntos)
	ReviewCount  int            `gorm:"not null;default:0" json:"review_count"`      // cantidad de reseñas publicadas
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}
