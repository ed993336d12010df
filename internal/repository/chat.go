package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/rohithvarma444/amEx-sub001/internal/model"
)

// ChatRepository persists chats and their messages.
type ChatRepository struct {
	pool *pgxpool.Pool
}

const chatColumns = `id, post_id, owner_id, participant_id, created_at, updated_at`

func scanChat(row pgx.Row) (*model.Chat, error) {
	var c model.Chat
	err := row.Scan(&c.ID, &c.PostID, &c.OwnerID, &c.ParticipantID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("table:chats: %w", err)
		}
		return nil, err
	}
	return &c, nil
}

// FindOrCreate returns the chat for (post, participant), creating it on first
// contact. The conflict clause turns a concurrent duplicate initiate into a
// touch of the existing row, so both callers get the same chat back.
func (r *ChatRepository) FindOrCreate(ctx context.Context, postID uuid.UUID, ownerID, participantID string) (*model.Chat, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO chats (post_id, owner_id, participant_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (post_id, participant_id) DO UPDATE SET updated_at = now()
		RETURNING `+chatColumns,
		postID, ownerID, participantID,
	)
	return scanChat(row)
}

// GetByID fetches one chat.
func (r *ChatRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Chat, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+chatColumns+` FROM chats WHERE id = $1`, id)
	return scanChat(row)
}

// ListByUser returns the chats the user belongs to, most recently active
// first.
func (r *ChatRepository) ListByUser(ctx context.Context, userID string) ([]*model.Chat, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+chatColumns+` FROM chats
		WHERE owner_id = $1 OR participant_id = $1
		ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chats := make([]*model.Chat, 0)
	for rows.Next() {
		c, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

// CreateMessage appends a message and bumps the chat's updated_at so the chat
// list sorts by recent activity.
func (r *ChatRepository) CreateMessage(ctx context.Context, chatID uuid.UUID, senderID, content string) (*model.Message, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var m model.Message
	err = tx.QueryRow(ctx, `
		INSERT INTO messages (chat_id, sender_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, chat_id, sender_id, content, created_at`,
		chatID, senderID, content,
	).Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Content, &m.CreatedAt)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE chats SET updated_at = now() WHERE id = $1`, chatID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMessages returns a chat's messages oldest first.
func (r *ChatRepository) ListMessages(ctx context.Context, chatID uuid.UUID, limit, offset int) ([]*model.Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, chat_id, sender_id, content, created_at
		FROM messages
		WHERE chat_id = $1
		ORDER BY created_at
		LIMIT $2 OFFSET $3`,
		chatID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]*model.Message, 0)
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}
