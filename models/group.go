package models

import "time"

type Group struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Slug        string  `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Name        string  `gorm:"size:255;not null" json:"name"`
	Description *string `gorm:"type:text" json:"description"`
	Visibility  string  `gorm:"size:20;not null;default:'public'" json:"visibility"` // public | private

	// MatrixRoomID mirrors Event.MatrixRoomID: a denormalized back-reference
	// to the group's chat room, not the canonical record.
	MatrixRoomID string `gorm:"column:matrix_room_id;size:255" json:"matrix_room_id"`

	CreatorID *uint     `gorm:"column:creator_id" json:"creator_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Members []GroupMember `gorm:"foreignKey:GroupID" json:"-"`
}

func (Group) TableName() string {
	return "groups"
}
