package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/RenCostamagna/comidita-backend/internal/app/model"
	"github.com/RenCostamagna/comidita-backend/internal/app/service"
	apperrors "github.com/RenCostamagna/comidita-backend/internal/errors"
	"github.com/RenCostamagna/comidita-backend/internal/middleware"
	ws "github.com/RenCostamagna/comidita-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"https://comidita.app":    true,
			"http://localhost:5173":   true, // entorno de desarrollo
			"http://localhost:3000":   true, // entorno de desarrollo
		}
		return allowedOrigins[origin]
	},
}

type NotificationController struct {
	notifService service.NotificationService
	hub          *ws.Hub
}

func NewNotificationController(notifService service.NotificationService, hub *ws.Hub) *NotificationController {
	return &NotificationController{
		notifService: notifService,
		hub:          hub,
	}
}

// GetNotifications lists the current user's notifications
// GET /api/v1/notifications?type=&is_read=&limit=&offset=
func (ctrl *NotificationController) GetNotifications(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Tenés que iniciar sesión")
		return
	}

	var notifType *model.NotificationType
	if raw := c.Query("type"); raw != "" {
		t := model.NotificationType(raw)
		notifType = &t
	}

	var isRead *bool
	if raw := c.Query("is_read"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			isRead = &v
		}
	}

	limit, offset := parsePagination(c, 20)

	notifications, total, err := ctrl.notifService.GetNotifications(userID, notifType, isRead, limit, offset)
	if err != nil {
		log.Error("Failed to list notifications", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"total":         total,
		"limit":         limit,
		"offset":        offset,
	})
}

// GetUnreadCount returns how many notifications are unread
// GET /api/v1/notifications/unread-count
func (ctrl *NotificationController) GetUnreadCount(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Tenés que iniciar sesión")
		return
	}

	count, err := ctrl.notifService.GetUnreadCount(userID)
	if err != nil {
		log.Error("Failed to count unread notifications", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "count notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"unread_count": count,
	})
}

// MarkAsRead marks one notification as read
// PUT /api/v1/notifications/:id/read
func (ctrl *NotificationController) MarkAsRead(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Tenés que iniciar sesión")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El ID no es válido")
		return
	}

	if err := ctrl.notifService.MarkAsRead(userID, uint(id)); err != nil {
		switch {
		case errors.Is(err, service.ErrNotificationNotFound):
			apperrors.NotFound(c, apperrors.NotificationNotFound, "No encontramos la notificación")
		case errors.Is(err, service.ErrNotNotificationOwner):
			apperrors.Forbidden(c, "La notificación no es tuya")
		default:
			log.Error("Failed to mark notification as read", err, map[string]interface{}{
				"notification_id": id,
				"user_id":         userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "mark notification")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Notification marked as read",
	})
}

// MarkAllAsRead marks every unread notification as read
// PUT /api/v1/notifications/read-all
func (ctrl *NotificationController) MarkAllAsRead(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Tenés que iniciar sesión")
		return
	}

	if err := ctrl.notifService.MarkAllAsRead(userID); err != nil {
		log.Error("Failed to mark all notifications as read", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "mark notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "All notifications marked as read",
	})
}

// DeleteNotification deletes one of the user's notifications
// DELETE /api/v1/notifications/:id
func (ctrl *NotificationController) DeleteNotification(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Tenés que iniciar sesión")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El ID no es válido")
		return
	}

	if err := ctrl.notifService.DeleteNotification(userID, uint(id)); err != nil {
		switch {
		case errors.Is(err, service.ErrNotificationNotFound):
			apperrors.NotFound(c, apperrors.NotificationNotFound, "No encontramos la notificación")
		case errors.Is(err, service.ErrNotNotificationOwner):
			apperrors.Forbidden(c, "La notificación no es tuya")
		default:
			log.Error("Failed to delete notification", err, map[string]interface{}{
				"notification_id": id,
				"user_id":         userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete notification")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Notification deleted",
	})
}

// WebSocketHandler upgrades the connection to push notifications in real time
// GET /api/v1/ws
// El token llega por query param pero nunca se loguea
func (ctrl *NotificationController) WebSocketHandler(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	// El middleware ya autenticó
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Tenés que iniciar sesión")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := &ws.Client{
		Hub:           ctrl.hub,
		Conn:          &ws.Conn{Conn: conn},
		UserID:        userID,
		Send:          make(chan []byte, 2048),
		LastResetTime: time.Now(),
	}

	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("WebSocket connection established", map[string]interface{}{
		"user_id": userID,
	})
}
