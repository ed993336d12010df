package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rohithvarma444/amEx-sub001/internal/middleware"
	"github.com/rohithvarma444/amEx-sub001/internal/model"
	"github.com/rohithvarma444/amEx-sub001/internal/server"
	"github.com/rohithvarma444/amEx-sub001/internal/service"
	"github.com/rohithvarma444/amEx-sub001/internal/validation"
)

// ChatHandler serves chat endpoints, including the SSE message stream.
type ChatHandler struct {
	Handler
	services *service.Services
}

// NewChatHandler constructs a ChatHandler.
func NewChatHandler(s *server.Server, services *service.Services) *ChatHandler {
	return &ChatHandler{
		Handler:  NewHandler(s),
		services: services,
	}
}

// InitiateChatRequest opens a conversation about a post. Post owners pass
// with_user_id to pick which interested user to talk to; everyone else chats
// with the owner.
type InitiateChatRequest struct {
	PostID     string `json:"post_id" validate:"required,uuid"`
	WithUserID string `json:"with_user_id" validate:"omitempty,max=64"`
}

// Validate implements validation.Validatable.
func (r *InitiateChatRequest) Validate() error {
	return validation.Struct(r)
}

// Initiate opens or returns the chat for (post, caller).
func (h *ChatHandler) Initiate(c echo.Context, req *InitiateChatRequest) (*model.Chat, error) {
	return h.services.Chat.Initiate(
		c.Request().Context(),
		middleware.GetUserID(c),
		uuid.MustParse(req.PostID),
		req.WithUserID,
	)
}

// List returns the caller's chats, most recently active first.
func (h *ChatHandler) List(c echo.Context, req *EmptyRequest) ([]*model.Chat, error) {
	return h.services.Chat.List(c.Request().Context(), middleware.GetUserID(c))
}

// ListMessagesRequest pages through a chat's history.
type ListMessagesRequest struct {
	ChatID string `param:"id" validate:"required,uuid"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=200"`
	Offset int    `query:"offset" validate:"omitempty,min=0"`
}

// Validate implements validation.Validatable.
func (r *ListMessagesRequest) Validate() error {
	return validation.Struct(r)
}

// ListMessages returns a page of the chat's messages, oldest first.
func (h *ChatHandler) ListMessages(c echo.Context, req *ListMessagesRequest) ([]*model.Message, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}

	return h.services.Chat.Messages(
		c.Request().Context(),
		middleware.GetUserID(c),
		uuid.MustParse(req.ChatID),
		limit,
		req.Offset,
	)
}

// SendMessageRequest posts a message into a chat.
type SendMessageRequest struct {
	ChatID  string `param:"id" validate:"required,uuid"`
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

// Validate implements validation.Validatable.
func (r *SendMessageRequest) Validate() error {
	return validation.Struct(r)
}

// SendMessage persists a message and fans it out to stream subscribers.
func (h *ChatHandler) SendMessage(c echo.Context, req *SendMessageRequest) (*model.Message, error) {
	return h.services.Chat.SendMessage(
		c.Request().Context(),
		middleware.GetUserID(c),
		uuid.MustParse(req.ChatID),
		req.Content,
	)
}

// Stream is the SSE endpoint for live chat events. It bypasses the generic
// pipeline because the response is long-lived: after the membership check it
// subscribes to the chat's channel and writes events until the client
// disconnects. Periodic comment lines keep intermediaries from timing the
// connection out.
func (h *ChatHandler) Stream(c echo.Context) error {
	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid chat id")
	}

	ctx := c.Request().Context()
	userID := middleware.GetUserID(c)

	if _, err := h.services.Chat.GetForUser(ctx, userID, chatID); err != nil {
		return err
	}

	events, cancel, err := h.server.Realtime.Subscribe(ctx, chatID.String())
	if err != nil {
		return err
	}
	defer cancel()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	logger := middleware.GetLogger(c)
	logger.Info().Str("chat_id", chatID.String()).Msg("chat stream opened")

	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Str("chat_id", chatID.String()).Msg("chat stream closed")
			return nil

		case env, ok := <-events:
			if !ok {
				return nil
			}
			if _, err := fmt.Fprintf(res, "event: %s\ndata: %s\n\n", env.Event, env.Data); err != nil {
				return nil
			}
			res.Flush()

		case <-keepalive.C:
			if _, err := fmt.Fprint(res, ": keepalive\n\n"); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}
