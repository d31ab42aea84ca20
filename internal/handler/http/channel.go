package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/JBSiena/PulseChat/internal/domain"
	"github.com/JBSiena/PulseChat/internal/service"
)

// ChannelHandler serves channel lifecycle and membership routes.
type ChannelHandler struct {
	channelService *service.ChannelService
}

// NewChannelHandler creates a ChannelHandler.
func NewChannelHandler(channelService *service.ChannelService) *ChannelHandler {
	return &ChannelHandler{channelService: channelService}
}

// channelIDParam parses the :id path segment.
func channelIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid channel id")
		return 0, false
	}
	return uint(id), true
}

type CreateChannelRequest struct {
	Title      string `json:"title" binding:"required,min=1,max=100"`
	Visibility string `json:"visibility" binding:"omitempty,oneof=public private"`
}

type CreateChannelResponse struct {
	Message   string `json:"message"`
	ChannelID uint   `json:"channel_id"`
	RoomKey   string `json:"room_key"`
}

// CreateChannel creates a channel with the caller as owner.
func (h *ChannelHandler) CreateChannel(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.CreateChannel: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: title is required")
		return
	}
	visibility := domain.VisibilityPublic
	if req.Visibility == string(domain.VisibilityPrivate) {
		visibility = domain.VisibilityPrivate
	}

	channel, err := h.channelService.CreateChannel(c.Request.Context(), userID, req.Title, visibility)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{"user_id": userID, "channel_id": channel.ID}).Info("Handler.CreateChannel: Channel created")
	SuccessResponse(c, http.StatusOK, CreateChannelResponse{
		Message:   "Channel created successfully",
		ChannelID: channel.ID,
		RoomKey:   channel.RoomKey(),
	})
}

// ListChannels returns the channels the caller belongs to.
func (h *ChannelHandler) ListChannels(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	channels, err := h.channelService.ListChannels(c.Request.Context(), userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"channels": channels})
}

type MemberRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

// Invite adds a user to the channel. Owner only; inviting an existing member
// changes nothing.
func (h *ChannelHandler) Invite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	channelID, ok := channelIDParam(c)
	if !ok {
		return
	}

	var req MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: user_id is required")
		return
	}

	if err := h.channelService.Invite(c.Request.Context(), userID, channelID, req.UserID); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Member invited"})
}

// RemoveMember kicks a member out. Owner only; the owner cannot be removed.
func (h *ChannelHandler) RemoveMember(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	channelID, ok := channelIDParam(c)
	if !ok {
		return
	}

	targetID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil || targetID == 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	if err := h.channelService.RemoveMember(c.Request.Context(), userID, channelID, uint(targetID)); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Member removed"})
}

type ChangeRoleRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required,oneof=member moderator"`
}

// ChangeRole promotes or demotes a member. Owner only; the owner role itself
// is not assignable.
func (h *ChannelHandler) ChangeRole(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	channelID, ok := channelIDParam(c)
	if !ok {
		return
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: user_id and role (member|moderator) required")
		return
	}

	if err := h.channelService.ChangeRole(c.Request.Context(), userID, channelID, req.UserID, domain.ChannelRole(req.Role)); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Role updated"})
}

// Leave removes the caller from the channel. The owner cannot leave, only
// delete.
func (h *ChannelHandler) Leave(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	channelID, ok := channelIDParam(c)
	if !ok {
		return
	}

	if err := h.channelService.Leave(c.Request.Context(), userID, channelID); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Left channel"})
}

// DeleteChannel removes the channel with its messages, reactions,
// attachments and watermarks. Owner only.
func (h *ChannelHandler) DeleteChannel(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	channelID, ok := channelIDParam(c)
	if !ok {
		return
	}

	if err := h.channelService.DeleteChannel(c.Request.Context(), userID, channelID); err != nil {
		HandleServiceError(c, err)
		return
	}
	logrus.WithFields(logrus.Fields{"user_id": userID, "channel_id": channelID}).Info("Handler.DeleteChannel: Channel deleted")
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Channel deleted"})
}

// ListMembers returns the channel roster with roles. Members only.
func (h *ChannelHandler) ListMembers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	channelID, ok := channelIDParam(c)
	if !ok {
		return
	}

	members, err := h.channelService.ListMembers(c.Request.Context(), userID, channelID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"members": members})
}
