package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xinyuew3S2024/NewsByMood/session"
	"github.com/xinyuew3S2024/NewsByMood/session/session_models"
	"github.com/xinyuew3S2024/NewsByMood/session/session_object"
)

// TurnHandler is the orchestrator surface the chat endpoint needs.
type TurnHandler interface {
	HandleTurn(ctx context.Context, utterance string, conv *session_object.Conversation) (string, error)
}

type ChatHandler struct {
	Store        session.Store
	Orchestrator TurnHandler
	SessionTTL   time.Duration
}

func (h *ChatHandler) Register(g *echo.Group) {
	g.POST("", h.chat)
	g.GET("/:id/history", h.history)
}

// chat runs one conversation turn. A missing session_id starts a new session.
func (h *ChatHandler) chat(c echo.Context) error {
	var req struct {
		SessionID string `json:"session_id"`
		Message   string `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message required")
	}

	conv, err := h.Store.EnsureConversation(req.SessionID, h.SessionTTL)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	reply, err := h.Orchestrator.HandleTurn(c.Request().Context(), req.Message, conv)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"session_id": conv.ID(),
		"reply":      reply,
	})
}

// history returns the conversation log without the seed system message.
func (h *ChatHandler) history(c echo.Context) error {
	conv, err := h.Store.GetConversation(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if conv == nil {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}

	messages := conv.Messages()
	visible := make([]session_models.Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == session_models.RoleSystem {
			continue
		}
		visible = append(visible, m)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"session_id": conv.ID(),
		"messages":   visible,
	})
}
