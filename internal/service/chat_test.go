package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohithvarma444/amEx-sub001/internal/model"
	"github.com/rohithvarma444/amEx-sub001/internal/realtime"
	"github.com/rohithvarma444/amEx-sub001/internal/server"
)

type chatRepoStub struct {
	chat *model.Chat

	messageCalls int
}

func (s *chatRepoStub) FindOrCreate(_ context.Context, postID uuid.UUID, ownerID, participantID string) (*model.Chat, error) {
	return &model.Chat{ID: uuid.New(), PostID: postID, OwnerID: ownerID, ParticipantID: participantID}, nil
}

func (s *chatRepoStub) GetByID(_ context.Context, _ uuid.UUID) (*model.Chat, error) {
	return s.chat, nil
}

func (s *chatRepoStub) ListByUser(_ context.Context, _ string) ([]*model.Chat, error) {
	return []*model.Chat{s.chat}, nil
}

func (s *chatRepoStub) CreateMessage(_ context.Context, chatID uuid.UUID, senderID, content string) (*model.Message, error) {
	s.messageCalls++
	return &model.Message{
		ID:        uuid.New(),
		ChatID:    chatID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: time.Now(),
	}, nil
}

func (s *chatRepoStub) ListMessages(_ context.Context, _ uuid.UUID, _, _ int) ([]*model.Message, error) {
	return []*model.Message{}, nil
}

type hubStub struct {
	publishErr error

	published   int
	delivered   []realtime.Envelope
	deliveredTo string
}

func (h *hubStub) Publish(_ context.Context, _ string, _ string, _ any) error {
	h.published++
	return h.publishErr
}

func (h *hubStub) Deliver(chatID string, env realtime.Envelope) {
	h.deliveredTo = chatID
	h.delivered = append(h.delivered, env)
}

func chatFixture() *model.Chat {
	return &model.Chat{
		ID:            uuid.New(),
		PostID:        uuid.New(),
		OwnerID:       ownerID,
		ParticipantID: selectedID,
	}
}

func newTestChatService(chat *model.Chat, hub *hubStub) (*ChatService, *chatRepoStub) {
	log := zerolog.Nop()
	repo := &chatRepoStub{chat: chat}
	svc := &ChatService{
		server:   &server.Server{Logger: &log},
		chats:    repo,
		posts:    &postRepoStub{post: &model.Post{ID: chat.PostID, UserID: ownerID, Status: model.PostStatusActive}},
		realtime: hub,
	}
	return svc, repo
}

func TestSendMessagePublishesThroughRedis(t *testing.T) {
	chat := chatFixture()
	hub := &hubStub{}
	svc, repo := newTestChatService(chat, hub)

	message, err := svc.SendMessage(context.Background(), selectedID, chat.ID, "is this still available?")

	require.NoError(t, err)
	assert.Equal(t, 1, repo.messageCalls)
	assert.Equal(t, 1, hub.published)
	assert.Empty(t, hub.delivered)
	assert.Equal(t, "is this still available?", message.Content)
}

func TestSendMessageFallsBackToLocalDelivery(t *testing.T) {
	chat := chatFixture()
	hub := &hubStub{publishErr: errors.New("redis: connection refused")}
	svc, repo := newTestChatService(chat, hub)

	message, err := svc.SendMessage(context.Background(), ownerID, chat.ID, "hello")

	// The message is durable regardless of fanout, and local subscribers
	// still hear about it.
	require.NoError(t, err)
	assert.Equal(t, 1, repo.messageCalls)
	require.Len(t, hub.delivered, 1)
	assert.Equal(t, chat.ID.String(), hub.deliveredTo)
	assert.Equal(t, realtime.EventNewMessage, hub.delivered[0].Event)

	var delivered model.Message
	require.NoError(t, json.Unmarshal(hub.delivered[0].Data, &delivered))
	assert.Equal(t, message.ID, delivered.ID)
	assert.Equal(t, "hello", delivered.Content)
}

func TestSendMessageRejectsNonMember(t *testing.T) {
	chat := chatFixture()
	hub := &hubStub{}
	svc, repo := newTestChatService(chat, hub)

	_, err := svc.SendMessage(context.Background(), "user_stranger", chat.ID, "hi")

	requireHTTPStatus(t, err, http.StatusForbidden)
	assert.Zero(t, repo.messageCalls)
	assert.Zero(t, hub.published)
}

func TestInitiateRequiresTargetWhenOwnerStarts(t *testing.T) {
	chat := chatFixture()
	svc, _ := newTestChatService(chat, &hubStub{})

	_, err := svc.Initiate(context.Background(), ownerID, chat.PostID, "")
	requireHTTPStatus(t, err, http.StatusBadRequest)

	_, err = svc.Initiate(context.Background(), ownerID, chat.PostID, ownerID)
	requireHTTPStatus(t, err, http.StatusBadRequest)
}

func TestInitiateUsesCallerAsParticipant(t *testing.T) {
	chat := chatFixture()
	svc, _ := newTestChatService(chat, &hubStub{})

	created, err := svc.Initiate(context.Background(), selectedID, chat.PostID, "")

	require.NoError(t, err)
	assert.Equal(t, ownerID, created.OwnerID)
	assert.Equal(t, selectedID, created.ParticipantID)
}
