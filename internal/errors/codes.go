package errors

// Códigos de error
// Formato: CATEGORIA_DETALLE
// El frontend mapea mensajes a partir de estos códigos

const (
	// ==================== Autenticación (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // requiere sesión
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // email/contraseña incorrectos
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // token vencido
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // token inválido
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // token revocado (logout)
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // email duplicado

	// ==================== Permisos (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN" // sin permiso
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"

	// ==================== Validación (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE" // puntaje fuera de 1-10
	ValidationRequired      = "VALIDATION_REQUIRED"
	ValidationTooManyPhotos = "VALIDATION_TOO_MANY_PHOTOS"

	// ==================== Recursos (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"

	// ==================== Lugares (PLACE_) ====================
	PlaceNotFound         = "PLACE_NOT_FOUND"          // lugar inexistente
	PlaceIncompleteData   = "PLACE_INCOMPLETE_DATA"    // candidato sin google_place_id
	PlaceResolutionFailed = "PLACE_RESOLUTION_FAILED"  // no se pudo crear/resolver
	PlaceInvalidCategory  = "PLACE_INVALID_CATEGORY"   // categoría fuera del catálogo
	PlaceSearchFailed     = "PLACE_SEARCH_UNAVAILABLE" // Google Places caído

	// ==================== Reseñas (REVIEW_) ====================
	ReviewNotFound      = "REVIEW_NOT_FOUND"
	ReviewAlreadyExists = "REVIEW_ALREADY_EXISTS" // ya reseñó este lugar
	ReviewInvalidRating = "REVIEW_INVALID_RATING"
	ReviewInsertFailed  = "REVIEW_INSERT_FAILED"

	// ==================== Logros (ACHIEVEMENT_) ====================
	AchievementNotFound         = "ACHIEVEMENT_NOT_FOUND"
	AchievementEvaluationFailed = "ACHIEVEMENT_EVALUATION_FAILED" // no fatal, solo log

	// ==================== Notificaciones (NOTIFICATION_) ====================
	NotificationNotFound = "NOTIFICATION_NOT_FOUND"

	// ==================== Subidas (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Errores internos (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API" // Google Places / OpenAI
)
