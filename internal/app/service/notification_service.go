package service

import (
	"errors"
	"fmt"

	"github.com/RenCostamagna/comidita-backend/internal/app/model"
	"github.com/RenCostamagna/comidita-backend/internal/app/repository"
	"github.com/RenCostamagna/comidita-backend/internal/websocket"
	"github.com/RenCostamagna/comidita-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotNotificationOwner = errors.New("notification belongs to another user")
)

// NotificationService crea, empuja y administra notificaciones
type NotificationService interface {
	NotifyReviewPublished(userID uint, review *model.DetailedReview, points int)
	NotifyAchievementUnlocked(userID uint, achievement *model.Achievement)
	NotifyLevelUp(userID uint, level int)
	NotifyPointsEarned(userID uint, points int, reason string)

	GetNotifications(userID uint, notifType *model.NotificationType, isRead *bool, limit, offset int) ([]model.Notification, int64, error)
	GetUnreadCount(userID uint) (int64, error)
	MarkAsRead(userID, notificationID uint) error
	MarkAllAsRead(userID uint) error
	DeleteNotification(userID, notificationID uint) error
}

type notificationService struct {
	notifRepo repository.NotificationRepository
	hub       *websocket.Hub
}

// NewNotificationService constructor. El hub puede ser nil (por ejemplo
// en tests); en ese caso las notificaciones solo se persisten.
func NewNotificationService(notifRepo repository.NotificationRepository, hub *websocket.Hub) NotificationService {
	return &notificationService{
		notifRepo: notifRepo,
		hub:       hub,
	}
}

// create persiste la notificación y la empuja por WebSocket.
// Las notificaciones nunca voltean la operación que las originó.
func (s *notificationService) create(notification *model.Notification) {
	if err := s.notifRepo.CreateNotification(notification); err != nil {
		logger.Error("Failed to persist notification", err, map[string]interface{}{
			"user_id": notification.UserID,
			"type":    string(notification.Type),
		})
		return
	}

	if s.hub != nil {
		if err := s.hub.SendToUser(notification.UserID, map[string]interface{}{
			"type":         "notification",
			"notification": notification,
		}); err != nil {
			logger.Warn("Failed to push notification over WebSocket", map[string]interface{}{
				"user_id": notification.UserID,
				"error":   err.Error(),
			})
		}
	}
}

func (s *notificationService) NotifyReviewPublished(userID uint, review *model.DetailedReview, points int) {
	placeName := "el lugar"
	if review.Place != nil && review.Place.Name != "" {
		placeName = review.Place.Name
	}

	s.create(&model.Notification{
		UserID:          userID,
		Type:            model.NotificationTypeReviewPublished,
		Title:           "¡Reseña publicada!",
		Content:         fmt.Sprintf("Tu reseña de %s ya está publicada. Ganaste %d puntos.", placeName, points),
		Link:            fmt.Sprintf("/reviews/%d", review.ID),
		RelatedPlaceID:  &review.PlaceID,
		RelatedReviewID: &review.ID,
	})
}

func (s *notificationService) NotifyAchievementUnlocked(userID uint, achievement *model.Achievement) {
	s.create(&model.Notification{
		UserID:               userID,
		Type:                 model.NotificationTypeAchievementUnlocked,
		Title:                "¡Logro desbloqueado!",
		Content:              fmt.Sprintf("Desbloqueaste \"%s\" y ganaste %d puntos.", achievement.Name, achievement.PointsReward),
		Link:                 "/achievements",
		RelatedAchievementID: &achievement.ID,
	})
}

func (s *notificationService) NotifyLevelUp(userID uint, level int) {
	s.create(&model.Notification{
		UserID:  userID,
		Type:    model.NotificationTypeLevelUp,
		Title:   "¡Subiste de nivel!",
		Content: fmt.Sprintf("Llegaste al nivel %d. Seguí reseñando para subir más.", level),
		Link:    "/profile",
	})
}

// NotifyPointsEarned avisa puntos ganados fuera de la publicación de una
// reseña, por ejemplo la recompensa de un logro
func (s *notificationService) NotifyPointsEarned(userID uint, points int, reason string) {
	s.create(&model.Notification{
		UserID:  userID,
		Type:    model.NotificationTypePointsEarned,
		Title:   "¡Sumaste puntos!",
		Content: fmt.Sprintf("Ganaste %d puntos por %s.", points, reason),
		Link:    "/profile",
	})
}

func (s *notificationService) GetNotifications(
	userID uint,
	notifType *model.NotificationType,
	isRead *bool,
	limit, offset int,
) ([]model.Notification, int64, error) {
	return s.notifRepo.GetNotifications(userID, notifType, isRead, limit, offset)
}

func (s *notificationService) GetUnreadCount(userID uint) (int64, error) {
	return s.notifRepo.GetUnreadCount(userID)
}

func (s *notificationService) MarkAsRead(userID, notificationID uint) error {
	notification, err := s.notifRepo.GetNotificationByID(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	if notification.UserID != userID {
		return ErrNotNotificationOwner
	}
	return s.notifRepo.MarkAsRead(notificationID)
}

func (s *notificationService) MarkAllAsRead(userID uint) error {
	return s.notifRepo.MarkAllAsRead(userID)
}

func (s *notificationService) DeleteNotification(userID, notificationID uint) error {
	notification, err := s.notifRepo.GetNotificationByID(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	if notification.UserID != userID {
		return ErrNotNotificationOwner
	}
	return s.notifRepo.DeleteNotification(notificationID)
}
