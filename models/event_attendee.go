package models

import (
	"time"

	"gorm.io/datatypes"
)

// Event attendee roles.
const (
	RoleHost        = "host"
	RoleModerator   = "moderator"
	RoleSpeaker     = "speaker"
	RoleParticipant = "participant"
	RoleGuest       = "guest"
)

// PermManageEvent is the permission that gates moderator privilege in the
// event's chat room. Host/moderator roles normally carry it.
const PermManageEvent = "manage-event"

type EventAttendee struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID uint   `gorm:"not null;uniqueIndex:idx_event_user" json:"event_id"`
	UserID  uint   `gorm:"not null;uniqueIndex:idx_event_user" json:"user_id"`
	Role    string `gorm:"size:50;not null;default:'participant'" json:"role"`

	// Permissions is a JSON array of permission names attached to the role
	// record (e.g. ["manage-event"]).
	Permissions datatypes.JSON `gorm:"type:jsonb" json:"permissions"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (EventAttendee) TableName() string {
	return "event_attendees"
}
