package hub

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/JBSiena/PulseChat/internal/dto"
)

const dispatchTimeout = 10 * time.Second

// dispatchEvent decodes one inbound frame and routes it. Failures are logged
// and the frame is dropped; the protocol carries no error frames, clients
// learn about rejected actions by the absence of the echo.
func (h *Hub) dispatchEvent(client *Client, raw []byte) {
	var envelope dto.Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		logrus.WithError(err).WithField("user_id", client.UserID()).Warn("Failed to decode event envelope")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	switch envelope.Type {
	case dto.EventJoinRoom:
		h.handleJoinRoom(ctx, client, raw)
	case dto.EventChatMessage:
		h.handleChatMessage(ctx, client, raw)
	case dto.EventEditMessage:
		h.handleEditMessage(ctx, client, raw)
	case dto.EventDeleteMessage:
		h.handleDeleteMessage(ctx, client, raw)
	case dto.EventMarkRead:
		h.handleMarkRead(ctx, client, raw)
	case dto.EventAddReaction:
		h.handleReaction(ctx, client, raw, true)
	case dto.EventRemoveReaction:
		h.handleReaction(ctx, client, raw, false)
	case dto.EventTyping:
		h.handleTyping(ctx, client, raw)
	default:
		logrus.WithFields(logrus.Fields{
			"user_id": client.UserID(),
			"type":    envelope.Type,
		}).Warn("Received unknown event type")
	}
}

// handleJoinRoom subscribes the client to a room after an access check and
// announces the arrival to the room's other subscribers. Joining twice is a
// no-op and announces nothing.
func (h *Hub) handleJoinRoom(ctx context.Context, client *Client, raw []byte) {
	var payload dto.JoinRoomIn
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Room == "" {
		logrus.WithField("user_id", client.UserID()).Warn("Invalid join_room payload")
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{"user_id": client.UserID(), "room": payload.Room})

	if err := h.channelService.AuthorizeRoom(ctx, payload.Room, client.UserID()); err != nil {
		logCtx.WithError(err).Warn("join_room rejected")
		return
	}
	if !h.subscribe(client, payload.Room) {
		return
	}

	if err := h.presenceRepo.Join(ctx, payload.Room, client.UserID()); err != nil {
		logCtx.WithError(err).Warn("Failed to record presence")
	}

	out, err := json.Marshal(dto.UserJoinedOut{
		Type:        dto.EventUserJoined,
		Room:        payload.Room,
		UserID:      client.UserID(),
		DisplayName: client.Session().DisplayName,
	})
	if err != nil {
		logCtx.WithError(err).Error("Failed to marshal user_joined")
		return
	}
	h.broadcast(payload.Room, out, client, nil)
	logCtx.Info("Client joined room")
}

// handleChatMessage persists the message first, then fans it out. The sender
// receives the echo even when it never subscribed to the room, which is how
// it learns the assigned message id.
func (h *Hub) handleChatMessage(ctx context.Context, client *Client, raw []byte) {
	var payload dto.ChatMessageIn
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Room == "" {
		logrus.WithField("user_id", client.UserID()).Warn("Invalid chat_message payload")
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{"user_id": client.UserID(), "room": payload.Room})

	message, attachments, err := h.chatService.SendMessage(
		ctx, client.UserID(), payload.Room, payload.Message,
		payload.ReplyToMessageID, payload.AttachmentIDs,
	)
	if err != nil {
		logCtx.WithError(err).Warn("chat_message rejected")
		return
	}

	out, err := json.Marshal(dto.ChatMessageOut{
		Type:             dto.EventChatMessage,
		Room:             payload.Room,
		Message:          message.Body,
		User:             client.Session().DisplayName,
		UserID:           client.UserID(),
		Timestamp:        message.CreatedAt,
		MessageID:        message.ID,
		ReplyToMessageID: message.ReplyToID,
		Attachments:      attachments,
	})
	if err != nil {
		logCtx.WithError(err).Error("Failed to marshal chat_message")
		return
	}
	h.broadcast(payload.Room, out, nil, client)
}

func (h *Hub) handleEditMessage(ctx context.Context, client *Client, raw []byte) {
	var payload dto.EditMessageIn
	if err := json.Unmarshal(raw, &payload); err != nil || payload.MessageID == 0 {
		logrus.WithField("user_id", client.UserID()).Warn("Invalid edit_message payload")
		return
	}

	message, err := h.chatService.EditMessage(ctx, client.UserID(), payload.MessageID, payload.NewContent)
	if err != nil {
		logrus.WithError(err).WithField("user_id", client.UserID()).Warn("edit_message rejected")
		return
	}
	if message == nil {
		// Not the author, or the message is gone. Nothing to announce.
		return
	}

	out, err := json.Marshal(dto.MessageEditedOut{
		Type:      dto.EventMessageEdited,
		MessageID: message.ID,
		Room:      message.RoomKey,
		Message:   message.Body,
		EditedAt:  *message.EditedAt,
	})
	if err != nil {
		logrus.WithError(err).Error("Failed to marshal message_edited")
		return
	}
	h.broadcast(message.RoomKey, out, nil, client)
}

func (h *Hub) handleDeleteMessage(ctx context.Context, client *Client, raw []byte) {
	var payload dto.DeleteMessageIn
	if err := json.Unmarshal(raw, &payload); err != nil || payload.MessageID == 0 {
		logrus.WithField("user_id", client.UserID()).Warn("Invalid delete_message payload")
		return
	}

	message, err := h.chatService.DeleteMessage(ctx, client.UserID(), payload.MessageID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", client.UserID()).Warn("delete_message rejected")
		return
	}
	if message == nil {
		return
	}

	out, err := json.Marshal(dto.MessageDeletedOut{
		Type:      dto.EventMessageDeleted,
		MessageID: message.ID,
		Room:      message.RoomKey,
		DeletedAt: *message.DeletedAt,
	})
	if err != nil {
		logrus.WithError(err).Error("Failed to marshal message_deleted")
		return
	}
	h.broadcast(message.RoomKey, out, nil, client)
}

// handleMarkRead advances the caller's watermark, announces the new receipt
// to the room, and privately pushes the caller's refreshed unread totals.
func (h *Hub) handleMarkRead(ctx context.Context, client *Client, raw []byte) {
	var payload dto.MarkReadIn
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Room == "" {
		logrus.WithField("user_id", client.UserID()).Warn("Invalid mark_read payload")
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{"user_id": client.UserID(), "room": payload.Room})

	watermark, err := h.readService.MarkRead(ctx, client.UserID(), payload.Room, payload.MessageID)
	if err != nil {
		logCtx.WithError(err).Warn("mark_read rejected")
		return
	}

	receipt, err := json.Marshal(dto.ReadReceiptUpdatedOut{
		Type:              dto.EventReadReceiptUpdated,
		Room:              payload.Room,
		UserID:            client.UserID(),
		LastReadMessageID: watermark.LastReadMessageID,
		UpdatedAt:         watermark.UpdatedAt,
	})
	if err != nil {
		logCtx.WithError(err).Error("Failed to marshal read_receipt_updated")
		return
	}
	h.broadcast(payload.Room, receipt, nil, client)

	unread, mentions, err := h.readService.UnreadSummary(ctx, client.UserID())
	if err != nil {
		logCtx.WithError(err).Warn("Failed to compute unread summary")
		return
	}
	counts, err := json.Marshal(dto.UnreadCountsOut{
		Type:                dto.EventUnreadCounts,
		UnreadCounts:        unread,
		MentionUnreadCounts: mentions,
	})
	if err != nil {
		logCtx.WithError(err).Error("Failed to marshal unread_counts")
		return
	}
	h.sendTo(client, counts)
}

func (h *Hub) handleReaction(ctx context.Context, client *Client, raw []byte, add bool) {
	var payload dto.ReactionIn
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Room == "" || payload.MessageID == 0 {
		logrus.WithField("user_id", client.UserID()).Warn("Invalid reaction payload")
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{
		"user_id":    client.UserID(),
		"room":       payload.Room,
		"message_id": payload.MessageID,
	})

	var err error
	changeType := "added"
	if add {
		err = h.chatService.AddReaction(ctx, client.UserID(), payload.Room, payload.MessageID, payload.Emoji)
	} else {
		changeType = "removed"
		err = h.chatService.RemoveReaction(ctx, client.UserID(), payload.Room, payload.MessageID, payload.Emoji)
	}
	if err != nil {
		logCtx.WithError(err).Warn("Reaction rejected")
		return
	}

	out, err := json.Marshal(dto.ReactionUpdatedOut{
		Type:       dto.EventReactionUpdated,
		MessageID:  payload.MessageID,
		Emoji:      payload.Emoji,
		UserID:     client.UserID(),
		ChangeType: changeType,
	})
	if err != nil {
		logCtx.WithError(err).Error("Failed to marshal reaction_updated")
		return
	}
	h.broadcast(payload.Room, out, nil, client)
}

// handleTyping relays a transient typing indicator to the room's other
// subscribers. Nothing is persisted.
func (h *Hub) handleTyping(ctx context.Context, client *Client, raw []byte) {
	var payload dto.TypingIn
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Room == "" {
		return
	}
	if err := h.channelService.AuthorizeRoom(ctx, payload.Room, client.UserID()); err != nil {
		return
	}

	out, err := json.Marshal(dto.TypingOut{
		Type:     dto.EventTyping,
		Room:     payload.Room,
		User:     client.Session().DisplayName,
		UserID:   client.UserID(),
		IsTyping: payload.IsTyping,
	})
	if err != nil {
		return
	}
	h.broadcast(payload.Room, out, client, nil)
}
