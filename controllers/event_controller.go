package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/OpenMeet-Team/openmeet-api-sub011/config"
	"github.com/OpenMeet-Team/openmeet-api-sub011/middleware"
	"github.com/OpenMeet-Team/openmeet-api-sub011/models"
)

type CreateEventReq struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	Visibility  string  `json:"visibility"`
}

func CreateEvent(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	var req CreateEventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	visibility := req.Visibility
	if visibility != models.VisibilityPrivate {
		visibility = models.VisibilityPublic
	}

	event := models.Event{
		Slug:        slugify(req.Name),
		Name:        req.Name,
		Description: req.Description,
		Visibility:  visibility,
		CreatorID:   &u.ID,
	}

	if err := config.DB.Create(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create event"})
		return
	}

	// The creator hosts their own event.
	attendee := models.EventAttendee{
		EventID:     event.ID,
		UserID:      u.ID,
		Role:        models.RoleHost,
		Permissions: datatypes.JSON(`["` + models.PermManageEvent + `"]`),
	}
	if err := config.DB.Create(&attendee).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not record host attendee"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": event})
}

func GetEvent(c *gin.Context) {
	var event models.Event
	if err := config.DB.Where("slug = ?", c.Param("slug")).First(&event).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": event})
}

type AttendReq struct {
	UserID      uint     `json:"user_id" binding:"required"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// AddEventAttendee records (or updates) an attendee role for the event.
func AddEventAttendee(c *gin.Context) {
	var event models.Event
	if err := config.DB.Where("slug = ?", c.Param("slug")).First(&event).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
		return
	}

	var req AttendReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}
	if req.Role == "" {
		req.Role = models.RoleParticipant
	}

	permissions := datatypes.JSON(`[]`)
	if len(req.Permissions) > 0 {
		quoted := make([]string, len(req.Permissions))
		for i, p := range req.Permissions {
			quoted[i] = `"` + p + `"`
		}
		permissions = datatypes.JSON(`[` + strings.Join(quoted, ",") + `]`)
	}

	attendee := models.EventAttendee{
		EventID:     event.ID,
		UserID:      req.UserID,
		Role:        req.Role,
		Permissions: permissions,
	}
	err := config.DB.
		Where("event_id = ? AND user_id = ?", event.ID, req.UserID).
		Assign(map[string]any{"role": req.Role, "permissions": permissions}).
		FirstOrCreate(&attendee).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not record attendee"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": attendee})
}

// slugify derives a URL-safe slug with a random suffix so names need not be
// unique.
func slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '-'
		}
		return -1
	}, s)
	s = strings.Trim(s, "-")
	if s == "" {
		s = "item"
	}
	return s + "-" + uuid.NewString()[:8]
}
