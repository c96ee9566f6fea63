package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OpenMeet-Team/openmeet-api-sub011/config"
	"github.com/OpenMeet-Team/openmeet-api-sub011/models"
)

const (
	CtxEvent = "eventObj"
	CtxGroup = "groupObj"
)

// CheckEventOwner loads the event by slug into the context and verifies the
// current user owns it.
func CheckEventOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := c.MustGet(CtxUser).(models.User)

		slug := c.Param("slug")
		if slug == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Missing event slug"})
			return
		}

		var event models.Event
		if err := config.DB.Where("slug = ?", slug).First(&event).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Event not found"})
			return
		}

		if event.CreatorID == nil || *event.CreatorID != u.ID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "You do not own this event"})
			return
		}

		c.Set(CtxEvent, event)
		c.Next()
	}
}

// CheckGroupOwner loads the group by slug into the context and verifies the
// current user owns it.
func CheckGroupOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := c.MustGet(CtxUser).(models.User)

		slug := c.Param("slug")
		if slug == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Missing group slug"})
			return
		}

		var group models.Group
		if err := config.DB.Where("slug = ?", slug).First(&group).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Group not found"})
			return
		}

		if group.CreatorID == nil || *group.CreatorID != u.ID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "You do not own this group"})
			return
		}

		c.Set(CtxGroup, group)
		c.Next()
	}
}
