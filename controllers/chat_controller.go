package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/OpenMeet-Team/openmeet-api-sub011/middleware"
	"github.com/OpenMeet-Team/openmeet-api-sub011/models"
	"github.com/OpenMeet-Team/openmeet-api-sub011/services"
)

var chatRooms *services.ChatRoomService

// InitChat wires the chat room service into the controllers. Called once
// from main before the routes are served.
func InitChat(service *services.ChatRoomService) {
	chatRooms = service
}

func chatErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrPreconditionFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrRemoteUnavailable):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// EnsureEventRoom provisions (or heals) the event's chat room.
func EnsureEventRoom(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)
	tenantID := middleware.TenantID(c)

	room, err := chatRooms.EnsureEventRoom(c.Request.Context(), tenantID, c.Param("slug"), u.ID)
	if err != nil {
		c.JSON(chatErrorStatus(err), gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": room})
}

// EnsureGroupRoom provisions (or heals) the group's chat room.
func EnsureGroupRoom(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)
	tenantID := middleware.TenantID(c)

	room, err := chatRooms.EnsureGroupRoom(c.Request.Context(), tenantID, c.Param("slug"), u.ID)
	if err != nil {
		c.JSON(chatErrorStatus(err), gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": room})
}

func memberParam(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("userId"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user id"})
		return 0, false
	}
	return uint(id), true
}

// AddEventRoomMember invites a user to the event's chat room.
func AddEventRoomMember(c *gin.Context) {
	tenantID := middleware.TenantID(c)
	userID, ok := memberParam(c)
	if !ok {
		return
	}

	if err := chatRooms.AddMemberToEventRoom(c.Request.Context(), tenantID, c.Param("slug"), userID); err != nil {
		c.JSON(chatErrorStatus(err), gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member added to event room"})
}

// AddGroupRoomMember invites a user to the group's chat room.
func AddGroupRoomMember(c *gin.Context) {
	tenantID := middleware.TenantID(c)
	userID, ok := memberParam(c)
	if !ok {
		return
	}

	if err := chatRooms.AddMemberToGroupRoom(c.Request.Context(), tenantID, c.Param("slug"), userID); err != nil {
		c.JSON(chatErrorStatus(err), gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member added to group room"})
}

// RemoveEventRoomMember removes a user from the event's chat room.
func RemoveEventRoomMember(c *gin.Context) {
	tenantID := middleware.TenantID(c)
	userID, ok := memberParam(c)
	if !ok {
		return
	}

	if err := chatRooms.RemoveMemberFromEventRoom(c.Request.Context(), tenantID, c.Param("slug"), userID); err != nil {
		c.JSON(chatErrorStatus(err), gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member removed from event room"})
}

// RemoveGroupRoomMember removes a user from the group's chat room.
func RemoveGroupRoomMember(c *gin.Context) {
	tenantID := middleware.TenantID(c)
	userID, ok := memberParam(c)
	if !ok {
		return
	}

	if err := chatRooms.RemoveMemberFromGroupRoom(c.Request.Context(), tenantID, c.Param("slug"), userID); err != nil {
		c.JSON(chatErrorStatus(err), gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member removed from group room"})
}

// DeleteEventRooms tears down all chat rooms for the event.
func DeleteEventRooms(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	if err := chatRooms.DeleteEventRooms(c.Request.Context(), tenantID, c.Param("slug")); err != nil {
		c.JSON(chatErrorStatus(err), gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event rooms deleted"})
}

// DeleteGroupRooms tears down all chat rooms for the group.
func DeleteGroupRooms(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	if err := chatRooms.DeleteGroupRooms(c.Request.Context(), tenantID, c.Param("slug")); err != nil {
		c.JSON(chatErrorStatus(err), gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Group rooms deleted"})
}
