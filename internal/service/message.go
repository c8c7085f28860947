package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/message-board/internal/apperror"
	"github.com/sakif/message-board/internal/model"
	"github.com/sakif/message-board/internal/repository"
)

// MaxMessageLength caps a single message body.
const MaxMessageLength = 10000

// MessageService holds the rules for the messages resource.
//
// Every method takes the caller's user ID as its scope. The ID always comes
// from a verified token (see auth.RequireAuth), never from the request body.
type MessageService struct {
	repo   repository.MessageRepository
	logger *slog.Logger
}

func NewMessageService(repo repository.MessageRepository, logger *slog.Logger) *MessageService {
	return &MessageService{
		repo:   repo,
		logger: logger,
	}
}

func validateText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperror.ValidationFailed("message", MsgEmptyFields)
	}
	if len(text) > MaxMessageLength {
		return "", apperror.ValidationFailed("message",
			fmt.Sprintf("message must be %d characters or less", MaxMessageLength))
	}
	return text, nil
}

// List returns every message the user owns.
func (s *MessageService) List(ctx context.Context, userID int64) ([]model.Message, error) {
	messages, err := s.repo.ListMessages(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	return messages, nil
}

// Get returns one message if the user owns it.
func (s *MessageService) Get(ctx context.Context, userID, id int64) (*model.Message, error) {
	msg, err := s.repo.GetMessage(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("getting message: %w", err)
	}
	return msg, nil
}

// Create validates and stores a new message owned by userID.
func (s *MessageService) Create(ctx context.Context, userID int64, text string, done bool) (*model.Message, error) {
	text, err := validateText(text)
	if err != nil {
		return nil, err
	}

	msg := &model.Message{UserID: userID, Text: text, Done: done}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		s.logger.Error("failed to create message",
			slog.Int64("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating message: %w", err)
	}

	s.logger.Info("message created",
		slog.Int64("id", msg.ID),
		slog.Int64("userID", userID),
	)
	return msg, nil
}

// Update overwrites text and done and returns the stored row.
// A message the user doesn't own comes back as apperror.ErrNotFound.
func (s *MessageService) Update(ctx context.Context, userID, id int64, text string, done bool) (*model.Message, error) {
	text, err := validateText(text)
	if err != nil {
		return nil, err
	}

	msg := &model.Message{ID: id, UserID: userID, Text: text, Done: done}
	if err := s.repo.UpdateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("updating message: %w", err)
	}

	s.logger.Info("message updated", slog.Int64("id", id), slog.Int64("userID", userID))
	return msg, nil
}

// PatchDone changes only the done flag.
func (s *MessageService) PatchDone(ctx context.Context, userID, id int64, done bool) error {
	if err := s.repo.SetMessageDone(ctx, userID, id, done); err != nil {
		return fmt.Errorf("patching message: %w", err)
	}

	s.logger.Info("message done flag set",
		slog.Int64("id", id),
		slog.Int64("userID", userID),
		slog.Bool("done", done),
	)
	return nil
}

// Delete removes one message and returns what it looked like before.
func (s *MessageService) Delete(ctx context.Context, userID, id int64) (*model.Message, error) {
	msg, err := s.repo.DeleteMessage(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("deleting message: %w", err)
	}

	s.logger.Info("message deleted", slog.Int64("id", id), slog.Int64("userID", userID))
	return msg, nil
}

// DeleteAll removes all of the user's messages. Having none is reported as
// apperror.ErrEmpty rather than a silent success.
func (s *MessageService) DeleteAll(ctx context.Context, userID int64) (int64, error) {
	n, err := s.repo.DeleteAllMessages(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("deleting all messages: %w", err)
	}
	if n == 0 {
		return 0, apperror.Empty("messages")
	}

	s.logger.Info("messages cleared", slog.Int64("userID", userID), slog.Int64("count", n))
	return n, nil
}
