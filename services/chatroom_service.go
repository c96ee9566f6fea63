package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/OpenMeet-Team/openmeet-api-sub011/config"
	"github.com/OpenMeet-Team/openmeet-api-sub011/matrix"
	"github.com/OpenMeet-Team/openmeet-api-sub011/models"
)

// ChatRoomService reconciles chat rooms on the Matrix homeserver with the
// relational record: exactly one durable room per event or group, membership
// and power levels derived from the application's own attendance records.
//
// Remote calls come first in every workflow; the registry is only written
// after the homeserver side succeeded or was confirmed already satisfied.
// Safe for concurrent use across different (entity, user) pairs. Concurrent
// ensure-room calls for the same entity are not mutually excluded; the
// unique entity index on chat_rooms plus re-verification on every ensure
// converge racing creators, with a narrow duplicate-creation window.
type ChatRoomService struct {
	rooms  ChatRoomRepository
	events EventLookup
	groups GroupLookup
	users  UserLookup
	client RoomClient
	cfg    config.MatrixConfig
	logger *slog.Logger
}

func NewChatRoomService(
	rooms ChatRoomRepository,
	events EventLookup,
	groups GroupLookup,
	users UserLookup,
	client RoomClient,
	cfg config.MatrixConfig,
	logger *slog.Logger,
) *ChatRoomService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatRoomService{
		rooms:  rooms,
		events: events,
		groups: groups,
		users:  users,
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// roomEntity is the engine's view of a room-owning entity.
type roomEntity struct {
	kind        EntityType
	id          uint
	slug        string
	description string
	visibility  string
}

// EnsureEventRoom guarantees the event has a usable chat room, creating or
// recreating it as needed, and returns the room record.
func (s *ChatRoomService) EnsureEventRoom(ctx context.Context, tenantID, eventSlug string, creatorID uint) (*models.ChatRoom, error) {
	tenantID = s.tenant(tenantID)
	ent, err := s.resolveEvent(ctx, tenantID, eventSlug)
	if err != nil {
		return nil, err
	}
	creator, err := s.users.ByID(ctx, tenantID, creatorID)
	if err != nil {
		return nil, err
	}
	return s.ensureRoom(ctx, tenantID, ent, creator)
}

// EnsureGroupRoom is EnsureEventRoom for groups.
func (s *ChatRoomService) EnsureGroupRoom(ctx context.Context, tenantID, groupSlug string, creatorID uint) (*models.ChatRoom, error) {
	tenantID = s.tenant(tenantID)
	ent, err := s.resolveGroup(ctx, tenantID, groupSlug)
	if err != nil {
		return nil, err
	}
	creator, err := s.users.ByID(ctx, tenantID, creatorID)
	if err != nil {
		return nil, err
	}
	return s.ensureRoom(ctx, tenantID, ent, creator)
}

// AddMemberToEventRoom invites the user to the event's room and syncs their
// power level from their attendee role.
func (s *ChatRoomService) AddMemberToEventRoom(ctx context.Context, tenantID, eventSlug string, userID uint) error {
	tenantID = s.tenant(tenantID)
	ent, err := s.resolveEvent(ctx, tenantID, eventSlug)
	if err != nil {
		return err
	}
	return s.addMember(ctx, tenantID, ent, userID)
}

// AddMemberToGroupRoom is AddMemberToEventRoom for groups.
func (s *ChatRoomService) AddMemberToGroupRoom(ctx context.Context, tenantID, groupSlug string, userID uint) error {
	tenantID = s.tenant(tenantID)
	ent, err := s.resolveGroup(ctx, tenantID, groupSlug)
	if err != nil {
		return err
	}
	return s.addMember(ctx, tenantID, ent, userID)
}

// RemoveMemberFromEventRoom kicks the user from the event's room and drops
// them from the registry membership.
func (s *ChatRoomService) RemoveMemberFromEventRoom(ctx context.Context, tenantID, eventSlug string, userID uint) error {
	tenantID = s.tenant(tenantID)
	ent, err := s.resolveEvent(ctx, tenantID, eventSlug)
	if err != nil {
		return err
	}
	return s.removeMember(ctx, tenantID, ent, userID)
}

// RemoveMemberFromGroupRoom is RemoveMemberFromEventRoom for groups.
func (s *ChatRoomService) RemoveMemberFromGroupRoom(ctx context.Context, tenantID, groupSlug string, userID uint) error {
	tenantID = s.tenant(tenantID)
	ent, err := s.resolveGroup(ctx, tenantID, groupSlug)
	if err != nil {
		return err
	}
	return s.removeMember(ctx, tenantID, ent, userID)
}

// DeleteEventRooms deletes every room record for the event, best-effort
// deleting the remote rooms, and clears the event's room reference.
func (s *ChatRoomService) DeleteEventRooms(ctx context.Context, tenantID, eventSlug string) error {
	tenantID = s.tenant(tenantID)
	ent, err := s.resolveEvent(ctx, tenantID, eventSlug)
	if err != nil {
		return err
	}
	return s.deleteRooms(ctx, tenantID, ent)
}

// DeleteGroupRooms is DeleteEventRooms for groups.
func (s *ChatRoomService) DeleteGroupRooms(ctx context.Context, tenantID, groupSlug string) error {
	tenantID = s.tenant(tenantID)
	ent, err := s.resolveGroup(ctx, tenantID, groupSlug)
	if err != nil {
		return err
	}
	return s.deleteRooms(ctx, tenantID, ent)
}

// ensureRoom implements verify-and-heal. A local record alone is not
// trusted: the remote room is probed on every call, because rooms can be
// deleted out-of-band (admin action, retention, manual cleanup). A stale
// record is dropped and the room recreated. Delete-then-recreate is not one
// cross-system transaction; the brief window with neither room is accepted
// in favor of eventual convergence.
func (s *ChatRoomService) ensureRoom(ctx context.Context, tenantID string, ent roomEntity, creator *models.User) (*models.ChatRoom, error) {
	room, err := s.rooms.FindByEntity(ctx, tenantID, ent.kind, ent.id)
	if err != nil {
		return nil, fmt.Errorf("look up chat room for %s %q: %w", ent.kind, ent.slug, err)
	}

	if room != nil {
		if room.MatrixRoomID != "" {
			exists, err := s.client.RoomExists(ctx, tenantID, room.MatrixRoomID)
			if err != nil {
				return nil, fmt.Errorf("%w: verify room %q: %v", ErrRemoteUnavailable, room.MatrixRoomID, err)
			}
			if exists {
				return room, nil
			}
		}

		s.logger.Warn("chat room record is stale, recreating",
			"entity", string(ent.kind),
			"slug", ent.slug,
			"matrix_room_id", room.MatrixRoomID,
		)
		if err := s.dropRoomRecord(ctx, ent, room); err != nil {
			return nil, err
		}
	}

	return s.createRoom(ctx, tenantID, ent, creator)
}

// createRoom provisions the remote room and persists the record. The
// automation identity gets admin and the creator moderator in the creation
// call itself, so the room never briefly lacks a privileged occupant.
func (s *ChatRoomService) createRoom(ctx context.Context, tenantID string, ent roomEntity, creator *models.User) (*models.ChatRoom, error) {
	adminID, err := s.client.AdminUserID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	name := roomName(ent.kind, ent.slug, tenantID)
	private := ent.visibility == models.VisibilityPrivate
	settings := settingsForVisibility(private)

	request := matrix.CreateRoomRequest{
		Name:         name,
		Topic:        ent.description,
		Visibility:   "public",
		Preset:       "public_chat",
		InitialState: initialState(settings),
	}
	if private {
		request.Visibility = "private"
		request.Preset = "private_chat"
	}

	powerUsers := map[string]any{adminID: matrix.PowerLevelAdmin}
	if creator != nil && creator.MatrixUserID != "" {
		request.Invite = []string{creator.MatrixUserID}
		powerUsers[creator.MatrixUserID] = matrix.PowerLevelModerator
	}
	request.PowerLevelContentOverride = map[string]any{"users": powerUsers}

	matrixRoomID, err := s.client.CreateRoom(ctx, tenantID, request)
	if err != nil {
		return nil, fmt.Errorf("%w: create room for %s %q: %v", ErrRemoteUnavailable, ent.kind, ent.slug, err)
	}

	room := &models.ChatRoom{
		ID:           uuid.NewString(),
		Name:         name,
		Topic:        ent.description,
		MatrixRoomID: matrixRoomID,
		TenantID:     tenantID,
		Visibility:   ent.visibility,
		Settings:     settings,
	}
	switch ent.kind {
	case EntityEvent:
		id := ent.id
		room.EventID = &id
	case EntityGroup:
		id := ent.id
		room.GroupID = &id
	}

	// Both local writes must land, or the caller sees a failure and re-runs
	// ensure, which re-verifies and adopts or recreates.
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("persist chat room record for %s %q: %w", ent.kind, ent.slug, err)
	}
	if err := s.setRoomRef(ctx, ent, matrixRoomID); err != nil {
		return nil, fmt.Errorf("update %s %q room reference: %w", ent.kind, ent.slug, err)
	}

	s.logger.Info("provisioned chat room",
		"entity", string(ent.kind),
		"slug", ent.slug,
		"tenant_id", tenantID,
		"matrix_room_id", matrixRoomID,
	)
	return room, nil
}

// addMember runs the invite workflow. Requires a provisioned Matrix
// identity; the operation fails loudly rather than fabricating one, since an
// invitation to a made-up identifier can never be accepted.
func (s *ChatRoomService) addMember(ctx context.Context, tenantID string, ent roomEntity, userID uint) error {
	user, err := s.users.ByID(ctx, tenantID, userID)
	if err != nil {
		return err
	}

	room, err := s.ensureRoom(ctx, tenantID, ent, user)
	if err != nil {
		return err
	}

	if user.MatrixUserID == "" {
		return fmt.Errorf("%w: user %d has no chat identity provisioned", ErrPreconditionFailed, user.ID)
	}

	inviteErr := s.client.InviteUser(ctx, tenantID, room.MatrixRoomID, user.MatrixUserID)
	switch {
	case inviteErr == nil, matrix.IsAlreadyInRoom(inviteErr):
		// Redundant invites are successes.
	case matrix.IsRoomGone(inviteErr):
		// The room vanished between verification and invite. Heal once
		// and retry against the fresh room.
		s.logger.Warn("room vanished during invite, recreating",
			"entity", string(ent.kind),
			"slug", ent.slug,
			"matrix_room_id", room.MatrixRoomID,
		)
		if err := s.dropRoomRecord(ctx, ent, room); err != nil {
			return err
		}
		room, err = s.ensureRoom(ctx, tenantID, ent, user)
		if err != nil {
			return err
		}
		retryErr := s.client.InviteUser(ctx, tenantID, room.MatrixRoomID, user.MatrixUserID)
		if retryErr != nil && !matrix.IsAlreadyInRoom(retryErr) {
			return fmt.Errorf("%w: invite %q after recreating room: %v", ErrRemoteUnavailable, user.MatrixUserID, retryErr)
		}
	default:
		return fmt.Errorf("%w: invite %q to %q: %v", ErrRemoteUnavailable, user.MatrixUserID, room.MatrixRoomID, inviteErr)
	}

	// Moderator sync is best-effort: membership matters more than privilege,
	// so a failure here degrades but never fails the add.
	if level := s.memberPowerLevel(ctx, ent, user.ID); level > matrix.PowerLevelDefault {
		if err := s.client.SetPowerLevel(ctx, tenantID, room.MatrixRoomID, user.MatrixUserID, level); err != nil {
			s.logger.Warn("failed to sync moderator power level",
				"entity", string(ent.kind),
				"slug", ent.slug,
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	// Registry bookkeeping runs last. The invite already landed remotely,
	// so a failure here is logged and left for the next pass to converge.
	if err := s.rooms.AddMember(ctx, room.ID, user.ID); err != nil {
		s.logger.Warn("failed to record room membership",
			"room_id", room.ID,
			"user_id", user.ID,
			"error", err,
		)
	}
	return nil
}

// removeMember kicks the user remotely and drops the registry membership.
// A user who was never provisioned on the homeserver was never really in
// the room, so only the local removal runs and the call succeeds.
func (s *ChatRoomService) removeMember(ctx context.Context, tenantID string, ent roomEntity, userID uint) error {
	user, err := s.users.ByID(ctx, tenantID, userID)
	if err != nil {
		return err
	}

	room, err := s.rooms.FindByEntity(ctx, tenantID, ent.kind, ent.id)
	if err != nil {
		return fmt.Errorf("look up chat room for %s %q: %w", ent.kind, ent.slug, err)
	}
	if room == nil {
		return nil
	}

	if user.MatrixUserID != "" && room.MatrixRoomID != "" {
		removeErr := s.client.RemoveUser(ctx, tenantID, room.MatrixRoomID, user.MatrixUserID)
		if removeErr != nil && !matrix.IsNotInRoom(removeErr) && !matrix.IsRoomGone(removeErr) {
			return fmt.Errorf("%w: remove %q from %q: %v", ErrRemoteUnavailable, user.MatrixUserID, room.MatrixRoomID, removeErr)
		}
	}

	if err := s.rooms.RemoveMember(ctx, room.ID, user.ID); err != nil {
		return fmt.Errorf("drop room membership for user %d: %w", user.ID, err)
	}
	return nil
}

// deleteRooms removes every room record for the entity. Remote deletion is
// best-effort and each room's failure is isolated; only enumeration failure
// fails the call.
func (s *ChatRoomService) deleteRooms(ctx context.Context, tenantID string, ent roomEntity) error {
	list, err := s.rooms.FindAllByEntity(ctx, tenantID, ent.kind, ent.id)
	if err != nil {
		return fmt.Errorf("enumerate chat rooms for %s %q: %w", ent.kind, ent.slug, err)
	}

	for _, room := range list {
		if room.MatrixRoomID != "" {
			if _, err := s.client.DeleteRoom(ctx, tenantID, room.MatrixRoomID); err != nil {
				s.logger.Warn("failed to delete matrix room",
					"matrix_room_id", room.MatrixRoomID,
					"error", err,
				)
			}
		}
		if err := s.rooms.Delete(ctx, room.ID); err != nil {
			s.logger.Warn("failed to delete chat room record",
				"room_id", room.ID,
				"error", err,
			)
		}
	}

	if err := s.setRoomRef(ctx, ent, ""); err != nil {
		s.logger.Warn("failed to clear entity room reference",
			"entity", string(ent.kind),
			"slug", ent.slug,
			"error", err,
		)
	}
	return nil
}

// dropRoomRecord clears the entity's denormalized reference and deletes the
// stale record, preparing for recreation.
func (s *ChatRoomService) dropRoomRecord(ctx context.Context, ent roomEntity, room *models.ChatRoom) error {
	if err := s.setRoomRef(ctx, ent, ""); err != nil {
		return fmt.Errorf("clear %s %q room reference: %w", ent.kind, ent.slug, err)
	}
	if err := s.rooms.Delete(ctx, room.ID); err != nil {
		return fmt.Errorf("delete stale chat room record %q: %w", room.ID, err)
	}
	return nil
}

// memberPowerLevel projects the user's current application role onto a room
// power level. Always recomputed from the live role record, never stored.
func (s *ChatRoomService) memberPowerLevel(ctx context.Context, ent roomEntity, userID uint) int {
	switch ent.kind {
	case EntityEvent:
		attendee, err := s.events.Attendee(ctx, ent.id, userID)
		if err != nil {
			s.logger.Warn("failed to load attendee role", "event_id", ent.id, "user_id", userID, "error", err)
			return matrix.PowerLevelDefault
		}
		return PowerLevelForEvent(attendee)
	case EntityGroup:
		member, err := s.groups.Member(ctx, ent.id, userID)
		if err != nil {
			s.logger.Warn("failed to load group member role", "group_id", ent.id, "user_id", userID, "error", err)
			return matrix.PowerLevelDefault
		}
		return PowerLevelForGroup(member)
	}
	return matrix.PowerLevelDefault
}

func (s *ChatRoomService) resolveEvent(ctx context.Context, tenantID, slug string) (roomEntity, error) {
	event, err := s.events.BySlug(ctx, tenantID, slug)
	if err != nil {
		return roomEntity{}, err
	}
	ent := roomEntity{
		kind:       EntityEvent,
		id:         event.ID,
		slug:       event.Slug,
		visibility: event.Visibility,
	}
	if event.Description != nil {
		ent.description = *event.Description
	}
	return ent, nil
}

func (s *ChatRoomService) resolveGroup(ctx context.Context, tenantID, slug string) (roomEntity, error) {
	group, err := s.groups.BySlug(ctx, tenantID, slug)
	if err != nil {
		return roomEntity{}, err
	}
	ent := roomEntity{
		kind:       EntityGroup,
		id:         group.ID,
		slug:       group.Slug,
		visibility: group.Visibility,
	}
	if group.Description != nil {
		ent.description = *group.Description
	}
	return ent, nil
}

func (s *ChatRoomService) setRoomRef(ctx context.Context, ent roomEntity, matrixRoomID string) error {
	switch ent.kind {
	case EntityEvent:
		return s.events.SetRoomRef(ctx, ent.id, matrixRoomID)
	case EntityGroup:
		return s.groups.SetRoomRef(ctx, ent.id, matrixRoomID)
	}
	return fmt.Errorf("unknown entity type %q", ent.kind)
}

func (s *ChatRoomService) tenant(tenantID string) string {
	if tenantID == "" {
		return s.cfg.DefaultTenantID
	}
	return tenantID
}

// roomName derives the deterministic room name. The same entity always
// yields the same name, across recreations included.
func roomName(kind EntityType, slug, tenantID string) string {
	return fmt.Sprintf("%s-%s-%s", kind, slug, tenantID)
}

func settingsForVisibility(private bool) models.ChatRoomSettings {
	if private {
		return models.ChatRoomSettings{
			HistoryVisibility: "invited",
			GuestAccess:       false,
			RequireInvite:     true,
		}
	}
	return models.ChatRoomSettings{
		HistoryVisibility: "shared",
		GuestAccess:       true,
		RequireInvite:     false,
	}
}

func initialState(settings models.ChatRoomSettings) []matrix.StateEvent {
	guestAccess := "forbidden"
	if settings.GuestAccess {
		guestAccess = "can_join"
	}
	state := []matrix.StateEvent{
		{
			Type:    "m.room.history_visibility",
			Content: map[string]any{"history_visibility": settings.HistoryVisibility},
		},
		{
			Type:    "m.room.guest_access",
			Content: map[string]any{"guest_access": guestAccess},
		},
	}
	if settings.Encrypted {
		state = append(state, matrix.StateEvent{
			Type:    "m.room.encryption",
			Content: map[string]any{"algorithm": "m.megolm.v1.aes-sha2"},
		})
	}
	return state
}
