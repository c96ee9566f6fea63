package services

import (
	"testing"

	"gorm.io/datatypes"

	"github.com/OpenMeet-Team/openmeet-api-sub011/matrix"
	"github.com/OpenMeet-Team/openmeet-api-sub011/models"
)

func TestPowerLevelForEvent(t *testing.T) {
	manage := datatypes.JSON(`["manage-event"]`)

	cases := []struct {
		name     string
		attendee *models.EventAttendee
		want     int
	}{
		{"no role record", nil, matrix.PowerLevelDefault},
		{"host with manage permission", &models.EventAttendee{Role: models.RoleHost, Permissions: manage}, matrix.PowerLevelModerator},
		{"moderator with manage permission", &models.EventAttendee{Role: models.RoleModerator, Permissions: manage}, matrix.PowerLevelModerator},
		{"host without permission", &models.EventAttendee{Role: models.RoleHost, Permissions: datatypes.JSON(`[]`)}, matrix.PowerLevelDefault},
		{"host with unrelated permission", &models.EventAttendee{Role: models.RoleHost, Permissions: datatypes.JSON(`["edit-event"]`)}, matrix.PowerLevelDefault},
		{"participant with manage permission", &models.EventAttendee{Role: models.RoleParticipant, Permissions: manage}, matrix.PowerLevelDefault},
		{"speaker", &models.EventAttendee{Role: models.RoleSpeaker, Permissions: manage}, matrix.PowerLevelDefault},
		{"host with empty permissions blob", &models.EventAttendee{Role: models.RoleHost}, matrix.PowerLevelDefault},
		{"host with malformed permissions", &models.EventAttendee{Role: models.RoleHost, Permissions: datatypes.JSON(`{"oops":`)}, matrix.PowerLevelDefault},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PowerLevelForEvent(tc.attendee); got != tc.want {
				t.Errorf("PowerLevelForEvent = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestPowerLevelForGroup(t *testing.T) {
	cases := []struct {
		name   string
		member *models.GroupMember
		want   int
	}{
		{"no role record", nil, matrix.PowerLevelDefault},
		{"owner", &models.GroupMember{Role: models.RoleOwner}, matrix.PowerLevelModerator},
		{"admin", &models.GroupMember{Role: models.RoleAdmin}, matrix.PowerLevelModerator},
		{"moderator", &models.GroupMember{Role: models.RoleModerator}, matrix.PowerLevelModerator},
		{"member", &models.GroupMember{Role: models.RoleMember}, matrix.PowerLevelDefault},
		{"unknown role", &models.GroupMember{Role: "lurker"}, matrix.PowerLevelDefault},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PowerLevelForGroup(tc.member); got != tc.want {
				t.Errorf("PowerLevelForGroup = %d, want %d", got, tc.want)
			}
		})
	}
}
