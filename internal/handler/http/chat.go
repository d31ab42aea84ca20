package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/JBSiena/PulseChat/internal/repository"
	"github.com/JBSiena/PulseChat/internal/service"
)

// ChatHandler serves the read side of the message plane: history, unread
// totals, attachment staging and room presence.
type ChatHandler struct {
	chatService    *service.ChatService
	readService    *service.ReadService
	channelService *service.ChannelService
	presenceRepo   repository.PresenceRepository
}

// NewChatHandler creates a ChatHandler.
func NewChatHandler(
	chatService *service.ChatService,
	readService *service.ReadService,
	channelService *service.ChannelService,
	presenceRepo repository.PresenceRepository,
) *ChatHandler {
	return &ChatHandler{
		chatService:    chatService,
		readService:    readService,
		channelService: channelService,
		presenceRepo:   presenceRepo,
	}
}

// History returns the most recent messages of a room in ascending id order,
// with reactions, attachments and per-user read receipts aggregated in.
func (h *ChatHandler) History(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roomKey := c.Param("key")
	if roomKey == "" {
		ErrorResponse(c, http.StatusBadRequest, "Room key is required")
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			ErrorResponse(c, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	result, err := h.chatService.History(c.Request.Context(), userID, roomKey, limit)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, result)
}

// UnreadSummary returns per-room unread and mention counts for every room
// the caller participates in.
func (h *ChatHandler) UnreadSummary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	unread, mentions, err := h.readService.UnreadSummary(c.Request.Context(), userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{
		"unread_counts":         unread,
		"mention_unread_counts": mentions,
	})
}

type StageAttachmentsRequest struct {
	Files []StagedFileRequest `json:"files" binding:"required,min=1,max=10,dive"`
}

type StagedFileRequest struct {
	FileName string `json:"file_name" binding:"required,max=255"`
	MimeType string `json:"mime_type" binding:"max=100"`
	Size     int64  `json:"size" binding:"min=0"`
}

// StageAttachments records pending upload metadata and returns the created
// attachment ids for a later chat_message to bind. Dropped uploads are swept
// by a background task, never by this endpoint.
func (h *ChatHandler) StageAttachments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req StageAttachmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.StageAttachments: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: at least one file entry required")
		return
	}

	files := make([]service.StagedFile, 0, len(req.Files))
	for _, f := range req.Files {
		files = append(files, service.StagedFile{
			FileName: f.FileName,
			MimeType: f.MimeType,
			Size:     f.Size,
		})
	}

	attachments, err := h.chatService.StageAttachments(c.Request.Context(), userID, files)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"attachments": attachments})
}

// Online returns the ids of users currently connected to the room. Members
// only; presence is live connection state, not persisted.
func (h *ChatHandler) Online(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roomKey := c.Param("key")
	if roomKey == "" {
		ErrorResponse(c, http.StatusBadRequest, "Room key is required")
		return
	}

	if err := h.channelService.AuthorizeRoom(c.Request.Context(), roomKey, userID); err != nil {
		HandleServiceError(c, err)
		return
	}

	online, err := h.presenceRepo.Online(c.Request.Context(), roomKey)
	if err != nil {
		logrus.WithError(err).WithField("room", roomKey).Error("Handler.Online: Failed to read presence")
		ErrorResponse(c, http.StatusInternalServerError, "Failed to read presence")
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"room": roomKey, "online": online})
}
