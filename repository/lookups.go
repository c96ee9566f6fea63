package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/OpenMeet-Team/openmeet-api-sub011/models"
	"github.com/OpenMeet-Team/openmeet-api-sub011/services"
)

// EventLookup implements services.EventLookup over the events tables.
type EventLookup struct {
	db *gorm.DB
}

func NewEventLookup(db *gorm.DB) *EventLookup {
	return &EventLookup{db: db}
}

func (l *EventLookup) BySlug(ctx context.Context, tenantID, slug string) (*models.Event, error) {
	var event models.Event
	err := l.db.WithContext(ctx).Where("slug = ?", slug).First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("event %q", slug)
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (l *EventLookup) Attendee(ctx context.Context, eventID, userID uint) (*models.EventAttendee, error) {
	var attendee models.EventAttendee
	err := l.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&attendee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// No role record: projection treats this as no privilege.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &attendee, nil
}

func (l *EventLookup) SetRoomRef(ctx context.Context, eventID uint, matrixRoomID string) error {
	return l.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ?", eventID).
		Update("matrix_room_id", matrixRoomID).Error
}

var _ services.EventLookup = (*EventLookup)(nil)

// GroupLookup implements services.GroupLookup over the groups tables.
type GroupLookup struct {
	db *gorm.DB
}

func NewGroupLookup(db *gorm.DB) *GroupLookup {
	return &GroupLookup{db: db}
}

func (l *GroupLookup) BySlug(ctx context.Context, tenantID, slug string) (*models.Group, error) {
	var group models.Group
	err := l.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("group %q", slug)
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (l *GroupLookup) Member(ctx context.Context, groupID, userID uint) (*models.GroupMember, error) {
	var member models.GroupMember
	err := l.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (l *GroupLookup) SetRoomRef(ctx context.Context, groupID uint, matrixRoomID string) error {
	return l.db.WithContext(ctx).
		Model(&models.Group{}).
		Where("id = ?", groupID).
		Update("matrix_room_id", matrixRoomID).Error
}

var _ services.GroupLookup = (*GroupLookup)(nil)

// UserLookup implements services.UserLookup over the users table.
type UserLookup struct {
	db *gorm.DB
}

func NewUserLookup(db *gorm.DB) *UserLookup {
	return &UserLookup{db: db}
}

func (l *UserLookup) ByID(ctx context.Context, tenantID string, id uint) (*models.User, error) {
	var user models.User
	err := l.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("user %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

var _ services.UserLookup = (*UserLookup)(nil)
