package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/warungkita/warung-pos-backend/pkg/db/models"
	"github.com/warungkita/warung-pos-backend/pkg/enums"
)

// UserDTO is the user payload returned to clients; it never carries the hash.
type UserDTO struct {
	ID          uuid.UUID        `json:"id"`
	Email       string           `json:"email"`
	FullName    string           `json:"full_name"`
	Phone       *string          `json:"phone,omitempty"`
	Role        enums.MemberRole `json:"role"`
	StoreID     uuid.UUID        `json:"store_id"`
	IsActive    bool             `json:"is_active"`
	LastLoginAt *time.Time       `json:"last_login_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// FromModel maps the persisted user into its response shape.
func FromModel(user *models.User) *UserDTO {
	return &UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
		Phone:       user.Phone,
		Role:        user.Role,
		StoreID:     user.StoreID,
		IsActive:    user.IsActive,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}

// CreateUserDTO captures the fields needed to insert a user row. ID may be
// pre-assigned when the caller needs the value before the insert, as the
// registration transaction does.
type CreateUserDTO struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FullName     string
	Phone        *string
	Role         enums.MemberRole
	StoreID      uuid.UUID
}

// ToModel converts the DTO into a persistable model.
func (d CreateUserDTO) ToModel() *models.User {
	id := d.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	return &models.User{
		ID:           id,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		FullName:     d.FullName,
		Phone:        d.Phone,
		Role:         d.Role,
		StoreID:      d.StoreID,
		IsActive:     true,
	}
}
