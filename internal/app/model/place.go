package model

import (
	"time"

	"gorm.io/gorm"
)

// Place lugar canónico interno.
// Se crea la primera vez que alguien lo referencia desde Google Places;
// rating y total_reviews solo los mueve el ciclo de vida de las reseñas.
type Place struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Identificador externo estable (Google Places)
	GooglePlaceID string `gorm:"type:varchar(255);uniqueIndex;not null" json:"google_place_id"`

	// Datos descriptivos, sembrados desde el candidato externo
	Name      string  `gorm:"not null" json:"name"`              // nombre
	Address   string  `gorm:"not null" json:"address"`           // dirección
	Latitude  float64 `gorm:"type:decimal(10,8)" json:"latitude"`
	Longitude float64 `gorm:"type:decimal(11,8)" json:"longitude"`
	Phone     string  `gorm:"type:varchar(30)" json:"phone"`
	Website   string  `gorm:"type:text" json:"website"`

	// Curado localmente, nunca pisado por datos externos
	Category Category `gorm:"type:varchar(30);index" json:"category"` // vacía hasta la primera reseña

	// Agregados de reseñas
	Rating       float64 `gorm:"not null;default:0" json:"rating"`        // promedio 1-10
	TotalReviews int     `gorm:"not null;default:0" json:"total_reviews"` // cantidad de reseñas
}

func (Place) TableName() string {
	return "places"
}

// PlaceCandidate descriptor externo de un lugar, tal como llega de la
// búsqueda. Todavía no tiene fila propia.
type PlaceCandidate struct {
	GooglePlaceID string  `json:"google_place_id" binding:"required"`
	Name          string  `json:"name" binding:"required"`
	Address       string  `json:"address"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Phone         string  `json:"phone"`
	Website       string  `json:"website"`
}
