package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo código + mensaje listos para responder
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError traduce errores de gorm/Postgres a códigos y mensajes para
// el usuario sin filtrar detalles internos. El context orienta el mensaje
// cuando el error no trae suficiente información.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Ocurrió un error en el servidor",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. Errores básicos de GORM
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// 2. Errores de PostgreSQL

	// 2-1. Unique constraint (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr)
	}

	// 2-2. Foreign key (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStr)
	}

	// 2-3. Not null (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "Faltan datos obligatorios",
		}
	}

	// 2-4. Check constraint (23514)
	if strings.Contains(errStrLower, "check constraint") {
		if strings.Contains(errStrLower, "rating") {
			return ErrorInfo{
				Code:    ReviewInvalidRating,
				Message: "Los puntajes tienen que estar entre 1 y 10",
			}
		}
		return ErrorInfo{
			Code:    ValidationInvalidInput,
			Message: "Los datos enviados no son válidos",
		}
	}

	// 3. Errores de red / servicios externos
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") ||
		strings.Contains(errStrLower, "deadline exceeded") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "No pudimos conectar con un servicio externo. Probá de nuevo en unos minutos",
		}
	}

	// 4. Error interno por defecto
	return ErrorInfo{
		Code:    InternalServerError,
		Message: "Ocurrió un error. Probá de nuevo en unos minutos",
	}
}

// parseDuplicateKeyError violaciones de índices únicos
func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	// Una reseña por (usuario, lugar): también cubre la carrera de dos
	// envíos simultáneos que pasaron el chequeo previo
	if strings.Contains(errLower, "idx_reviews_user_place") {
		return ErrorInfo{
			Code:    ReviewAlreadyExists,
			Message: "Ya publicaste una reseña de este lugar",
		}
	}

	// Lugar duplicado por google_place_id: otra request lo creó primero
	if strings.Contains(errLower, "google_place_id") || strings.Contains(errLower, "idx_places_google_place_id") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "El lugar ya estaba registrado",
		}
	}

	// Logro ya otorgado
	if strings.Contains(errLower, "idx_user_achievement") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "El logro ya estaba desbloqueado",
		}
	}

	// Email duplicado
	if strings.Contains(errLower, "email") || strings.Contains(errLower, "idx_users_email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "Ese email ya está en uso",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "El dato ya existe",
	}
}

// parseForeignKeyError referencias inexistentes
func parseForeignKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "place_id") || strings.Contains(errLower, "fk_places") {
		return ErrorInfo{
			Code:    PlaceNotFound,
			Message: "El lugar no existe",
		}
	}
	if strings.Contains(errLower, "user_id") || strings.Contains(errLower, "fk_users") {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "El usuario no existe",
		}
	}
	if strings.Contains(errLower, "achievement_id") {
		return ErrorInfo{
			Code:    AchievementNotFound,
			Message: "El logro no existe",
		}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "No encontramos el dato referenciado",
	}
}

// ParseAndRespond parsea el error y responde en un solo paso
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}

// getNotFoundMessage mensaje de Not Found según el contexto
func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "place") || strings.Contains(contextLower, "lugar") {
		return "No encontramos el lugar"
	}
	if strings.Contains(contextLower, "review") || strings.Contains(contextLower, "reseña") {
		return "No encontramos la reseña"
	}
	if strings.Contains(contextLower, "achievement") || strings.Contains(contextLower, "logro") {
		return "No encontramos el logro"
	}
	if strings.Contains(contextLower, "notification") || strings.Contains(contextLower, "notificación") {
		return "No encontramos la notificación"
	}
	if strings.Contains(contextLower, "user") || strings.Contains(contextLower, "usuario") {
		return "No encontramos el usuario"
	}

	return "No encontramos lo que buscabas"
}
