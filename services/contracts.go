package services

import (
	"context"

	"github.com/OpenMeet-Team/openmeet-api-sub011/matrix"
	"github.com/OpenMeet-Team/openmeet-api-sub011/models"
)

// EntityType distinguishes the two kinds of room-owning entities.
type EntityType string

const (
	EntityEvent EntityType = "event"
	EntityGroup EntityType = "group"
)

// RoomClient is the contract over the chat backend the reconciler consumes.
// *matrix.AdminSession is the production implementation; tests use a fake.
// All calls are remote and can fail transiently or semantically; the
// semantic categories are recognized via matrix.IsAlreadyInRoom,
// matrix.IsNotInRoom and matrix.IsRoomGone.
type RoomClient interface {
	AdminUserID(ctx context.Context, tenantID string) (string, error)
	CreateRoom(ctx context.Context, tenantID string, request matrix.CreateRoomRequest) (string, error)
	InviteUser(ctx context.Context, tenantID, roomID, userID string) error
	RemoveUser(ctx context.Context, tenantID, roomID, userID string) error
	SetPowerLevel(ctx context.Context, tenantID, roomID, userID string, level int) error
	DeleteRoom(ctx context.Context, tenantID, roomID string) (bool, error)
	RoomExists(ctx context.Context, tenantID, roomID string) (bool, error)
}

// ChatRoomRepository is the registry of room records. Find methods return
// (nil, nil) when no record exists. Membership is eager-loaded on finds.
type ChatRoomRepository interface {
	FindByEntity(ctx context.Context, tenantID string, kind EntityType, entityID uint) (*models.ChatRoom, error)
	FindAllByEntity(ctx context.Context, tenantID string, kind EntityType, entityID uint) ([]models.ChatRoom, error)
	Create(ctx context.Context, room *models.ChatRoom) error
	Delete(ctx context.Context, id string) error
	AddMember(ctx context.Context, roomID string, userID uint) error
	RemoveMember(ctx context.Context, roomID string, userID uint) error
}

// EventLookup resolves events and attendee role records, tenant-scoped.
type EventLookup interface {
	BySlug(ctx context.Context, tenantID, slug string) (*models.Event, error)
	Attendee(ctx context.Context, eventID, userID uint) (*models.EventAttendee, error)
	SetRoomRef(ctx context.Context, eventID uint, matrixRoomID string) error
}

// GroupLookup resolves groups and member role records, tenant-scoped.
type GroupLookup interface {
	BySlug(ctx context.Context, tenantID, slug string) (*models.Group, error)
	Member(ctx context.Context, groupID, userID uint) (*models.GroupMember, error)
	SetRoomRef(ctx context.Context, groupID uint, matrixRoomID string) error
}

// UserLookup resolves users, tenant-scoped.
type UserLookup interface {
	ByID(ctx context.Context, tenantID string, id uint) (*models.User, error)
}
