package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/rohithvarma444/amEx-sub001/internal/errs"
	"github.com/rohithvarma444/amEx-sub001/internal/model"
	"github.com/rohithvarma444/amEx-sub001/internal/realtime"
	"github.com/rohithvarma444/amEx-sub001/internal/repository"
	"github.com/rohithvarma444/amEx-sub001/internal/server"
)

// chatStore is the slice of the chat repository the service depends on.
type chatStore interface {
	FindOrCreate(ctx context.Context, postID uuid.UUID, ownerID, participantID string) (*model.Chat, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Chat, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Chat, error)
	CreateMessage(ctx context.Context, chatID uuid.UUID, senderID, content string) (*model.Message, error)
	ListMessages(ctx context.Context, chatID uuid.UUID, limit, offset int) ([]*model.Message, error)
}

// eventPublisher is the realtime surface the service needs: publish through
// Redis for cross-instance fanout, deliver locally when Redis is down.
type eventPublisher interface {
	Publish(ctx context.Context, chatID, event string, data any) error
	Deliver(chatID string, env realtime.Envelope)
}

// ChatService manages post-scoped conversations and their realtime fanout.
type ChatService struct {
	server   *server.Server
	chats    chatStore
	posts    postGetter
	realtime eventPublisher
}

// NewChatService constructs a ChatService.
func NewChatService(s *server.Server, repos *repository.Repositories) *ChatService {
	return &ChatService{
		server:   s,
		chats:    repos.Chats,
		posts:    repos.Posts,
		realtime: s.Realtime,
	}
}

// Initiate opens (or returns the existing) chat between the caller and the
// post owner. Owners start chats from the interest list instead, by passing
// the interested user's id.
func (s *ChatService) Initiate(ctx context.Context, callerID string, postID uuid.UUID, withUserID string) (*model.Chat, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	participantID := callerID
	if callerID == post.UserID {
		if withUserID == "" || withUserID == callerID {
			return nil, errs.NewBadRequestError("Specify the user to chat with about your post", false, nil, nil, nil)
		}
		participantID = withUserID
	}

	return s.chats.FindOrCreate(ctx, postID, post.UserID, participantID)
}

// List returns the caller's chats, most recently active first.
func (s *ChatService) List(ctx context.Context, userID string) ([]*model.Chat, error) {
	return s.chats.ListByUser(ctx, userID)
}

// GetForUser returns a chat after checking the caller is one of its two
// parties.
func (s *ChatService) GetForUser(ctx context.Context, callerID string, chatID uuid.UUID) (*model.Chat, error) {
	chat, err := s.chats.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasMember(callerID) {
		return nil, errs.NewForbiddenError("You are not a member of this chat", false)
	}
	return chat, nil
}

// Messages returns a page of a chat's messages, oldest first. Members only.
func (s *ChatService) Messages(ctx context.Context, callerID string, chatID uuid.UUID, limit, offset int) ([]*model.Message, error) {
	if _, err := s.GetForUser(ctx, callerID, chatID); err != nil {
		return nil, err
	}
	return s.chats.ListMessages(ctx, chatID, limit, offset)
}

// SendMessage persists a message and fans it out to stream subscribers. The
// message is durable once the insert commits; a failed Redis publish falls
// back to delivering to this instance's own subscribers so single-node
// deployments keep streaming through an outage.
func (s *ChatService) SendMessage(ctx context.Context, callerID string, chatID uuid.UUID, content string) (*model.Message, error) {
	if _, err := s.GetForUser(ctx, callerID, chatID); err != nil {
		return nil, err
	}

	message, err := s.chats.CreateMessage(ctx, chatID, callerID, content)
	if err != nil {
		return nil, err
	}

	if err := s.realtime.Publish(ctx, chatID.String(), realtime.EventNewMessage, message); err != nil {
		s.server.Logger.Error().Err(err).Str("chat_id", chatID.String()).Msg("failed to publish message event, delivering locally")
		if data, mErr := json.Marshal(message); mErr == nil {
			s.realtime.Deliver(chatID.String(), realtime.Envelope{Event: realtime.EventNewMessage, Data: data})
		}
	}

	return message, nil
}
