package dto

import (
	"time"

	"github.com/sweeply/marketplace-be/internal/domain"
)

type RegisterRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Role     string `json:"role" binding:"required,oneof=client worker"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"_id"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Role        string `json:"role"`
}

type ProfileResponse struct {
	UserID   string `json:"_id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type NotificationDTO struct {
	NotificationID string  `json:"notificationId"`
	Message        string  `json:"message"`
	JobID          string  `json:"jobId"`
	WorkerID       *string `json:"workerId,omitempty"`
	Type           string  `json:"type"`
	CreatedAt      string  `json:"createdAt"`
}

// FromNotifications maps inbox entries to their wire form, preserving
// append order.
func FromNotifications(notifications []domain.Notification) []NotificationDTO {
	out := make([]NotificationDTO, len(notifications))
	for i, n := range notifications {
		var workerID *string
		if n.WorkerID.Valid {
			id := n.WorkerID.String
			workerID = &id
		}
		out[i] = NotificationDTO{
			NotificationID: n.NotificationID,
			Message:        n.Message,
			JobID:          n.JobID,
			WorkerID:       workerID,
			Type:           n.Type,
			CreatedAt:      n.CreatedAt.Format(time.RFC3339),
		}
	}
	return out
}
