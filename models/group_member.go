package models

import "time"

// Group member roles.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type GroupMember struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	GroupID uint   `gorm:"not null;uniqueIndex:idx_group_user" json:"group_id"`
	UserID  uint   `gorm:"not null;uniqueIndex:idx_group_user" json:"user_id"`
	Role    string `gorm:"size:50;not null;default:'member'" json:"role"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (GroupMember) TableName() string {
	return "group_members"
}
