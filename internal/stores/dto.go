package stores

import (
	"time"

	"github.com/google/uuid"
	"github.com/warungkita/warung-pos-backend/pkg/db/models"
)

// StoreDTO is the store payload returned to clients.
type StoreDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   *string   `json:"address,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	OwnerID   uuid.UUID `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateStoreDTO captures the fields required to insert a store row. ID may
// be pre-assigned when the caller needs the value before the insert.
type CreateStoreDTO struct {
	ID      uuid.UUID
	Name    string
	Address *string
	Phone   *string
	Email   *string
	OwnerID uuid.UUID
}

// FromModel maps the persisted store into its response shape.
func FromModel(store *models.Store) *StoreDTO {
	return &StoreDTO{
		ID:        store.ID,
		Name:      store.Name,
		Address:   store.Address,
		Phone:     store.Phone,
		Email:     store.Email,
		OwnerID:   store.OwnerID,
		CreatedAt: store.CreatedAt,
		UpdatedAt: store.UpdatedAt,
	}
}
