package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/farm-market/internal/middleware"
	"github.com/iliyamo/farm-market/internal/service"
)

// ChatHandler serves messaging for any authenticated user.
type ChatHandler struct {
	Messaging *service.MessagingService
}

type sendMessageReq struct {
	RecipientID string `json:"recipientId"`
	Content     string `json:"content"`
}

func (h *ChatHandler) Send(c echo.Context) error {
	var req sendMessageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	me := caller(c)
	req.RecipientID = strings.TrimSpace(req.RecipientID)
	if req.RecipientID == "" || req.RecipientID == me.ID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "recipientId must name another user", "fields": []string{"recipientId"}})
	}
	if strings.TrimSpace(req.Content) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "message is empty", "fields": []string{"content"}})
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	m, sent, err := h.Messaging.Send(ctx, me, req.RecipientID, req.Content)
	if err != nil {
		return fail(c, err)
	}
	if !sent {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "message is empty"})
	}
	return c.JSON(http.StatusCreated, m)
}

// Conversations lists the caller's chats.
func (h *ChatHandler) Conversations(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	list, err := h.Messaging.Conversations(ctx, middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// Conversation returns one chat in stored order. Only its participants may
// read it.
func (h *ChatHandler) Conversation(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	msgs, err := h.Messaging.Conversation(ctx, c.Param("chatId"))
	if err != nil {
		return fail(c, err)
	}
	me := middleware.UserID(c)
	for _, m := range msgs {
		if !m.Involves(me) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	}
	return c.JSON(http.StatusOK, msgs)
}
