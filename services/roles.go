package services

import (
	"encoding/json"

	"github.com/OpenMeet-Team/openmeet-api-sub011/matrix"
	"github.com/OpenMeet-Team/openmeet-api-sub011/models"
)

// PowerLevelForEvent projects an event attendee role onto a room power
// level. Moderator requires both a hosting role and the manage-event
// permission on the role record. A missing role record yields the default
// level; projection never fails.
func PowerLevelForEvent(attendee *models.EventAttendee) int {
	if attendee == nil {
		return matrix.PowerLevelDefault
	}
	if attendee.Role != models.RoleHost && attendee.Role != models.RoleModerator {
		return matrix.PowerLevelDefault
	}
	if !hasPermission([]byte(attendee.Permissions), models.PermManageEvent) {
		return matrix.PowerLevelDefault
	}
	return matrix.PowerLevelModerator
}

// PowerLevelForGroup projects a group member role onto a room power level.
// Group projection goes by role name alone; the permission check is folded
// into the role (owner/admin/moderator always moderate their room).
func PowerLevelForGroup(member *models.GroupMember) int {
	if member == nil {
		return matrix.PowerLevelDefault
	}
	switch member.Role {
	case models.RoleOwner, models.RoleAdmin, models.RoleModerator:
		return matrix.PowerLevelModerator
	}
	return matrix.PowerLevelDefault
}

func hasPermission(raw []byte, name string) bool {
	if len(raw) == 0 {
		return false
	}
	var permissions []string
	if err := json.Unmarshal(raw, &permissions); err != nil {
		return false
	}
	for _, p := range permissions {
		if p == name {
			return true
		}
	}
	return false
}
