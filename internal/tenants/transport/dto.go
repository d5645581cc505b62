// Package transport defines the tenants module's request/response DTOs.
package transport

import "github.com/google/uuid"

type UpdateProfileRequest struct {
	BusinessName      string  `json:"businessName" validate:"required,min=1,max=200"`
	ContactPhone      *string `json:"contactPhone" validate:"omitempty,max=32"`
	NotificationEmail *string `json:"notificationEmail" validate:"omitempty,email"`
	BusinessHours     *string `json:"businessHours" validate:"omitempty,max=500"`
}

type ProfileResponse struct {
	TenantID          uuid.UUID `json:"tenantId"`
	BusinessName      string    `json:"businessName"`
	ContactPhone      *string   `json:"contactPhone,omitempty"`
	NotificationEmail *string   `json:"notificationEmail,omitempty"`
	BusinessHours     *string   `json:"businessHours,omitempty"`
}
