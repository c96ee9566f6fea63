// Package repository holds the GORM-backed implementations of the lookup and
// registry contracts the chat room service consumes.
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/OpenMeet-Team/openmeet-api-sub011/models"
	"github.com/OpenMeet-Team/openmeet-api-sub011/services"
)

// ChatRoomRepository implements services.ChatRoomRepository on PostgreSQL.
type ChatRoomRepository struct {
	db *gorm.DB
}

func NewChatRoomRepository(db *gorm.DB) *ChatRoomRepository {
	return &ChatRoomRepository{db: db}
}

func (r *ChatRoomRepository) FindByEntity(ctx context.Context, tenantID string, kind services.EntityType, entityID uint) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := r.entityQuery(ctx, tenantID, kind, entityID).
		Preload("Members").
		First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *ChatRoomRepository) FindAllByEntity(ctx context.Context, tenantID string, kind services.EntityType, entityID uint) ([]models.ChatRoom, error) {
	var rooms []models.ChatRoom
	err := r.entityQuery(ctx, tenantID, kind, entityID).
		Preload("Members").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *ChatRoomRepository) Create(ctx context.Context, room *models.ChatRoom) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *ChatRoomRepository) Delete(ctx context.Context, id string) error {
	room := models.ChatRoom{ID: id}
	// Clear the join rows first; the record delete does not cascade them.
	if err := r.db.WithContext(ctx).Model(&room).Association("Members").Clear(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&room).Error
}

func (r *ChatRoomRepository) AddMember(ctx context.Context, roomID string, userID uint) error {
	room := models.ChatRoom{ID: roomID}
	// Append on a many2many association upserts the join row, so repeated
	// adds stay idempotent.
	return r.db.WithContext(ctx).Model(&room).Association("Members").Append(&models.User{ID: userID})
}

func (r *ChatRoomRepository) RemoveMember(ctx context.Context, roomID string, userID uint) error {
	room := models.ChatRoom{ID: roomID}
	return r.db.WithContext(ctx).Model(&room).Association("Members").Delete(&models.User{ID: userID})
}

func (r *ChatRoomRepository) entityQuery(ctx context.Context, tenantID string, kind services.EntityType, entityID uint) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.ChatRoom{}).Where("tenant_id = ?", tenantID)
	if kind == services.EntityGroup {
		return query.Where("group_id = ?", entityID)
	}
	return query.Where("event_id = ?", entityID)
}

var _ services.ChatRoomRepository = (*ChatRoomRepository)(nil)

// notFound wraps services.ErrNotFound with a description.
func notFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", services.ErrNotFound, fmt.Sprintf(format, args...))
}
