package service

// Puntos otorgados por reseña. El bono por primera reseña depende de lo
// que decida la transacción de inserción, nunca de lo que vio el cliente.
const (
	PointsBase        = 100 // por publicar la reseña
	PointsFirstReview = 500 // bono por la primera reseña del lugar
	PointsPhotoBonus  = 50  // por adjuntar al menos una foto
	PointsLongComment = 50  // por comentario extenso

	// LongCommentMinLength largo mínimo del comentario para el bono
	LongCommentMinLength = 300
)

// PointsBreakdown detalle de los puntos de una reseña
type PointsBreakdown struct {
	Base        int  `json:"base"`
	FirstReview int  `json:"first_review"`
	PhotoBonus  int  `json:"photo_bonus"`
	LongComment int  `json:"long_comment"`
	Total       int  `json:"total"`
	IsFirst     bool `json:"is_first"`
}

// ComputePoints calcula los puntos de una reseña. Es una función pura:
// misma entrada, mismo resultado.
func ComputePoints(isFirst, hasPhotos bool, commentLen int) PointsBreakdown {
	breakdown := PointsBreakdown{
		Base:    PointsBase,
		IsFirst: isFirst,
	}

	if isFirst {
		breakdown.FirstReview = PointsFirstReview
	}
	if hasPhotos {
		breakdown.PhotoBonus = PointsPhotoBonus
	}
	if commentLen >= LongCommentMinLength {
		breakdown.LongComment = PointsLongComment
	}

	breakdown.Total = breakdown.Base + breakdown.FirstReview + breakdown.PhotoBonus + breakdown.LongComment
	return breakdown
}

// levelThresholds puntos acumulados necesarios para cada nivel
var levelThresholds = []int{
	0,     // nivel 1
	500,   // nivel 2
	1500,  // nivel 3
	3000,  // nivel 4
	5000,  // nivel 5
	8000,  // nivel 6
	12000, // nivel 7
	17000, // nivel 8
	23000, // nivel 9
	30000, // nivel 10
}

// LevelForPoints devuelve el nivel que corresponde a un total de puntos
func LevelForPoints(points int) int {
	level := 1
	for i, threshold := range levelThresholds {
		if points >= threshold {
			level = i + 1
		}
	}
	return level
}
