package models

import "time"

type User struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Email    string `gorm:"size:100;unique;not null" json:"email"`
	Password string `gorm:"size:255" json:"-"` // hash only, hidden from JSON

	// MatrixUserID is the fully-qualified chat identity
	// (e.g. "@u_17:matrix.openmeet.net"). Empty until the user has been
	// provisioned on the homeserver; membership operations require it.
	MatrixUserID string `gorm:"column:matrix_user_id;size:255" json:"matrix_user_id"`

	IsAdmin   bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
