package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// MaxReviewPhotos tope de fotos por reseña.
const MaxReviewPhotos = 6

// DetailedReview reseña con nueve puntajes de 1 a 10.
// Regla dura: una sola reseña por (usuario, lugar), respaldada por el
// índice único idx_reviews_user_place además del chequeo previo en el
// servicio.
type DetailedReview struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID  uint   `gorm:"not null;uniqueIndex:idx_reviews_user_place" json:"user_id"`
	User    *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PlaceID uint   `gorm:"not null;uniqueIndex:idx_reviews_user_place" json:"place_id"`
	Place   *Place `gorm:"foreignKey:PlaceID" json:"place,omitempty"`

	DishName *string `gorm:"type:varchar(120)" json:"dish_name,omitempty"` // plato recomendado

	// Puntajes 1-10
	FoodTaste        int `gorm:"not null" json:"food_taste"`        // sabor de la comida
	Presentation     int `gorm:"not null" json:"presentation"`      // presentación de los platos
	PortionSize      int `gorm:"not null" json:"portion_size"`      // tamaño de las porciones
	DrinksVariety    int `gorm:"not null" json:"drinks_variety"`    // variedad de bebidas
	VeggieOptions    int `gorm:"not null" json:"veggie_options"`    // opciones vegetarianas
	MusicAcoustics   int `gorm:"not null" json:"music_acoustics"`   // música y acústica
	Ambiance         int `gorm:"not null" json:"ambiance"`          // ambiente
	FurnitureComfort int `gorm:"not null" json:"furniture_comfort"` // comodidad del mobiliario
	Service          int `gorm:"not null" json:"service"`           // atención

	PriceRange PriceRange `gorm:"type:varchar(30);not null" json:"price_range"` // franja de precio por persona
	Category   Category   `gorm:"type:varchar(30);not null;index" json:"category"`
	Comment    string     `gorm:"type:text" json:"comment"`

	PhotoURLs pq.StringArray `gorm:"type:text[]" json:"photo_urls,omitempty"`

	PointsAwarded int `gorm:"not null;default:0" json:"points_awarded"` // total otorgado al publicar
}

func (DetailedReview) TableName() string {
	return "detailed_reviews"
}

// AverageRating promedio simple de los nueve puntajes.
func (r *DetailedReview) AverageRating() float64 {
	sum := r.FoodTaste + r.Presentation + r.PortionSize + r.DrinksVariety +
		r.VeggieOptions + r.MusicAcoustics + r.Ambiance + r.FurnitureComfort + r.Service
	return float64(sum) / 9.0
}

// SubRatings devuelve los puntajes en orden estable, útil para validar.
func (r *DetailedReview) SubRatings() []int {
	return []int{
		r.FoodTaste, r.Presentation, r.PortionSize, r.DrinksVariety,
		r.VeggieOptions, r.MusicAcoustics, r.Ambiance, r.FurnitureComfort, r.Service,
	}
}
