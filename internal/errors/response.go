package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse estructura estándar de respuesta de error
type ErrorResponse struct {
	Error   string `json:"error"`   // código de error (para mapear en el frontend)
	Message string `json:"message"` // mensaje legible para el usuario
}

// RespondWithError helper de respuesta de error
// statusCode: código HTTP
// errorCode: constante de codes.go
// message: mensaje que ve el usuario
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// Atajos para los errores más comunes

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Tenés que iniciar sesión"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "No tenés permiso para hacer eso"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Ocurrió un error. Probá de nuevo en unos minutos"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}
