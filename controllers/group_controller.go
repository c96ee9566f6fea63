package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OpenMeet-Team/openmeet-api-sub011/config"
	"github.com/OpenMeet-Team/openmeet-api-sub011/middleware"
	"github.com/OpenMeet-Team/openmeet-api-sub011/models"
)

type CreateGroupReq struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	Visibility  string  `json:"visibility"`
}

func CreateGroup(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	var req CreateGroupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	visibility := req.Visibility
	if visibility != models.VisibilityPrivate {
		visibility = models.VisibilityPublic
	}

	group := models.Group{
		Slug:        slugify(req.Name),
		Name:        req.Name,
		Description: req.Description,
		Visibility:  visibility,
		CreatorID:   &u.ID,
	}

	if err := config.DB.Create(&group).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create group"})
		return
	}

	member := models.GroupMember{
		GroupID: group.ID,
		UserID:  u.ID,
		Role:    models.RoleOwner,
	}
	if err := config.DB.Create(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not record owner membership"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": group})
}

func GetGroup(c *gin.Context) {
	var group models.Group
	if err := config.DB.Where("slug = ?", c.Param("slug")).First(&group).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Group not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": group})
}

type JoinGroupReq struct {
	UserID uint   `json:"user_id" binding:"required"`
	Role   string `json:"role"`
}

// AddGroupMember records (or updates) a member role for the group.
func AddGroupMember(c *gin.Context) {
	var group models.Group
	if err := config.DB.Where("slug = ?", c.Param("slug")).First(&group).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Group not found"})
		return
	}

	var req JoinGroupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}
	if req.Role == "" {
		req.Role = models.RoleMember
	}

	member := models.GroupMember{
		GroupID: group.ID,
		UserID:  req.UserID,
		Role:    req.Role,
	}
	err := config.DB.
		Where("group_id = ? AND user_id = ?", group.ID, req.UserID).
		Assign(map[string]any{"role": req.Role}).
		FirstOrCreate(&member).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not record member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": member})
}
