package models

import "time"

const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

type Event struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Slug        string  `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Name        string  `gorm:"size:255;not null" json:"name"`
	Description *string `gorm:"type:text" json:"description"`
	Visibility  string  `gorm:"size:20;not null;default:'public'" json:"visibility"` // public | private

	// MatrixRoomID is the denormalized reference to the event's chat room
	// on the homeserver. Cleared when the room is recreated or deleted;
	// the chat_rooms table is the canonical mapping.
	MatrixRoomID string `gorm:"column:matrix_room_id;size:255" json:"matrix_room_id"`

	CreatorID *uint     `gorm:"column:creator_id" json:"creator_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Attendees []EventAttendee `gorm:"foreignKey:EventID" json:"-"`
}

func (Event) TableName() string {
	return "events"
}
