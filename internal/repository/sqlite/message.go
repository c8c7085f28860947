package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/sakif/message-board/internal/apperror"
	"github.com/sakif/message-board/internal/model"
	"github.com/sakif/message-board/internal/repository"
)

var _ repository.MessageRepository = (*DB)(nil)

// notFound builds the error every owner-scoped lookup returns on a miss.
// A row owned by another user produces exactly the same error as a missing one.
func notFound(id int64) error {
	return apperror.NotFound("message", strconv.FormatInt(id, 10))
}

// ListMessages returns every message owned by userID in insertion order.
// The result is never nil, so it always encodes as a JSON array.
func (db *DB) ListMessages(ctx context.Context, userID int64) ([]model.Message, error) {
	messages := []model.Message{}
	err := db.conn.SelectContext(ctx, &messages,
		`SELECT id, user_id, message, done FROM messages WHERE user_id = ? ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing messages for user %d: %w", userID, err)
	}
	return messages, nil
}

// GetMessage fetches one message, scoped to its owner.
func (db *DB) GetMessage(ctx context.Context, userID, id int64) (*model.Message, error) {
	var m model.Message
	err := db.conn.GetContext(ctx, &m,
		`SELECT id, user_id, message, done FROM messages WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("sqlite: getting message %d: %w", id, err)
	}
	return &m, nil
}

// CreateMessage inserts msg and sets msg.ID from the autoincrement key.
func (db *DB) CreateMessage(ctx context.Context, msg *model.Message) error {
	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO messages (user_id, message, done) VALUES (?, ?, ?)`,
		msg.UserID,
		msg.Text,
		boolToInt(msg.Done),
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new message id: %w", err)
	}
	msg.ID = id
	return nil
}

// UpdateMessage overwrites text and done on the row matching (msg.ID, msg.UserID)
// and refreshes msg with the stored post-update row.
//
// The ownership filter and the write are one UPDATE ... RETURNING statement:
// there is no gap between "does it exist?" and "change it" for a concurrent
// delete to slip into. No returned row means nothing matched.
func (db *DB) UpdateMessage(ctx context.Context, msg *model.Message) error {
	err := db.conn.GetContext(ctx, msg,
		`UPDATE messages SET message = ?, done = ?
		 WHERE id = ? AND user_id = ?
		 RETURNING id, user_id, message, done`,
		msg.Text,
		boolToInt(msg.Done),
		msg.ID,
		msg.UserID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound(msg.ID)
		}
		return fmt.Errorf("sqlite: updating message %d: %w", msg.ID, err)
	}
	return nil
}

// SetMessageDone flips only the done flag. RowsAffected tells us whether the
// owner-scoped WHERE clause matched anything.
func (db *DB) SetMessageDone(ctx context.Context, userID, id int64, done bool) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE messages SET done = ? WHERE id = ? AND user_id = ?`,
		boolToInt(done), id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: patching message %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound(id)
	}
	return nil
}

// DeleteMessage removes one message and returns the row as it was just
// before deletion. DELETE ... RETURNING hands back the snapshot atomically.
func (db *DB) DeleteMessage(ctx context.Context, userID, id int64) (*model.Message, error) {
	var m model.Message
	err := db.conn.GetContext(ctx, &m,
		`DELETE FROM messages WHERE id = ? AND user_id = ?
		 RETURNING id, user_id, message, done`,
		id, userID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("sqlite: deleting message %d: %w", id, err)
	}
	return &m, nil
}

// DeleteAllMessages removes every message owned by userID and reports how
// many rows went. Zero is not an error here; the service decides what it means.
func (db *DB) DeleteAllMessages(ctx context.Context, userID int64) (int64, error) {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM messages WHERE user_id = ?`,
		userID,
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite: deleting messages for user %d: %w", userID, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	return n, nil
}
