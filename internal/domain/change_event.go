package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChangeAction string

const (
	ChangeActionCreate ChangeAction = "create"
	ChangeActionUpdate ChangeAction = "update"
	ChangeActionDelete ChangeAction = "delete"
)

// ChangeEvent records a single accepted contact mutation. The payload holds
// the written fields as JSON; delete events carry no payload.
type ChangeEvent struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OwnerID   uuid.UUID      `json:"ownerId" gorm:"type:uuid;not null;index"`
	ContactID uuid.UUID      `json:"contactId" gorm:"type:uuid;not null"`
	Action    ChangeAction   `json:"action" gorm:"not null"`
	Payload   datatypes.JSON `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}
