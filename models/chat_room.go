package models

import "time"

// ChatRoom is the canonical record mapping an event or group to its Matrix
// room. Exactly one of EventID/GroupID is set. The unique indexes on those
// columns are what prevents duplicate records when two ensure-room calls
// race on the same entity.
type ChatRoom struct {
	ID    string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name  string `gorm:"size:255;not null" json:"name"`
	Topic string `gorm:"type:text" json:"topic"`

	// MatrixRoomID can transiently point at a room the homeserver no longer
	// has (deleted out-of-band). Ensure-room verifies it on every call and
	// recreates when it is stale or empty.
	MatrixRoomID string `gorm:"column:matrix_room_id;size:255" json:"matrix_room_id"`

	EventID  *uint  `gorm:"uniqueIndex" json:"event_id"`
	GroupID  *uint  `gorm:"uniqueIndex" json:"group_id"`
	TenantID string `gorm:"size:64;not null;index" json:"tenant_id"`

	Visibility string           `gorm:"size:20;not null;default:'public'" json:"visibility"`
	Settings   ChatRoomSettings `gorm:"embedded;embeddedPrefix:settings_" json:"settings"`

	// Members is the application's intended membership for the room. The
	// homeserver's own member list may lag behind; the next reconciliation
	// pass re-invites.
	Members []User `gorm:"many2many:chat_room_members" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ChatRoomSettings is the room policy bag, set once at creation from the
// entity's visibility and not reconciled afterwards.
type ChatRoomSettings struct {
	HistoryVisibility string `gorm:"size:32;default:'shared'" json:"history_visibility"`
	GuestAccess       bool   `gorm:"not null;default:false" json:"guest_access"`
	RequireInvite     bool   `gorm:"not null;default:false" json:"require_invite"`
	Encrypted         bool   `gorm:"not null;default:false" json:"encrypted"`
}

func (ChatRoom) TableName() string {
	return "chat_rooms"
}
