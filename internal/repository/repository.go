// Package repository declares the storage contracts used by the service layer.
//
// Every MessageRepository method takes the owner's user ID. Implementations
// must filter on it in the same statement that reads or mutates the row, so a
// caller can never observe or change another user's data.
package repository

import (
	"context"

	"github.com/sakif/message-board/internal/model"
)

type UserRepository interface {
	// CreateUser inserts the user unless the username is already taken, in
	// which case it returns apperror.ErrConflict. The check and the insert
	// are a single atomic statement.
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
}

type MessageRepository interface {
	ListMessages(ctx context.Context, userID int64) ([]model.Message, error)
	GetMessage(ctx context.Context, userID, id int64) (*model.Message, error)
	CreateMessage(ctx context.Context, msg *model.Message) error
	UpdateMessage(ctx context.Context, msg *model.Message) error
	SetMessageDone(ctx context.Context, userID, id int64, done bool) error
	DeleteMessage(ctx context.Context, userID, id int64) (*model.Message, error)
	DeleteAllMessages(ctx context.Context, userID int64) (int64, error)
}

// Pinger is satisfied by storage backends that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}
