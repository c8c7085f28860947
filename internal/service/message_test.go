package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/sakif/message-board/internal/apperror"
	"github.com/sakif/message-board/internal/model"
)

// =========================================================================
// MOCK REPOSITORY
// =========================================================================

// mockMessageRepo stores messages in a map and applies the same owner
// filter the SQL does, so service tests see realistic scoping.
type mockMessageRepo struct {
	messages map[int64]*model.Message
	order    []int64
	nextID   int64
	err      error
}

func newMockMessageRepo() *mockMessageRepo {
	return &mockMessageRepo{messages: make(map[int64]*model.Message)}
}

func (m *mockMessageRepo) owned(userID, id int64) (*model.Message, error) {
	msg, ok := m.messages[id]
	if !ok || msg.UserID != userID {
		return nil, apperror.NotFound("message", strconv.FormatInt(id, 10))
	}
	return msg, nil
}

func (m *mockMessageRepo) ListMessages(_ context.Context, userID int64) ([]model.Message, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []model.Message{}
	for _, id := range m.order {
		if msg, ok := m.messages[id]; ok && msg.UserID == userID {
			out = append(out, *msg)
		}
	}
	return out, nil
}

func (m *mockMessageRepo) GetMessage(_ context.Context, userID, id int64) (*model.Message, error) {
	msg, err := m.owned(userID, id)
	if err != nil {
		return nil, err
	}
	copied := *msg
	return &copied, nil
}

func (m *mockMessageRepo) CreateMessage(_ context.Context, msg *model.Message) error {
	if m.err != nil {
		return m.err
	}
	m.nextID++
	msg.ID = m.nextID
	stored := *msg
	m.messages[msg.ID] = &stored
	m.order = append(m.order, msg.ID)
	return nil
}

func (m *mockMessageRepo) UpdateMessage(_ context.Context, msg *model.Message) error {
	stored, err := m.owned(msg.UserID, msg.ID)
	if err != nil {
		return err
	}
	stored.Text = msg.Text
	stored.Done = msg.Done
	*msg = *stored
	return nil
}

func (m *mockMessageRepo) SetMessageDone(_ context.Context, userID, id int64, done bool) error {
	stored, err := m.owned(userID, id)
	if err != nil {
		return err
	}
	stored.Done = done
	return nil
}

func (m *mockMessageRepo) DeleteMessage(_ context.Context, userID, id int64) (*model.Message, error) {
	stored, err := m.owned(userID, id)
	if err != nil {
		return nil, err
	}
	delete(m.messages, id)
	return stored, nil
}

func (m *mockMessageRepo) DeleteAllMessages(_ context.Context, userID int64) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	var n int64
	for id, msg := range m.messages {
		if msg.UserID == userID {
			delete(m.messages, id)
			n++
		}
	}
	return n, nil
}

const (
	aliceID int64 = 1
	bobID   int64 = 2
)

func newTestMessageService() (*MessageService, *mockMessageRepo) {
	repo := newMockMessageRepo()
	return NewMessageService(repo, testLogger()), repo
}

// =========================================================================
// CREATE / LIST
// =========================================================================

func TestMessageCreate_ThenList(t *testing.T) {
	svc, _ := newTestMessageService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, aliceID, "X", false); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	list, err := svc.List(ctx, aliceID)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 || list[0].Text != "X" || list[0].Done {
		t.Errorf("List() = %+v, want one entry text=X done=false", list)
	}
}

func TestMessageCreate_Validation(t *testing.T) {
	svc, _ := newTestMessageService()

	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"whitespace", "   \t"},
		{"too long", strings.Repeat("a", MaxMessageLength+1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), aliceID, tt.text, false)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Create() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestMessageCreate_TrimsText(t *testing.T) {
	svc, _ := newTestMessageService()

	msg, err := svc.Create(context.Background(), aliceID, "  buy milk  ", true)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if msg.Text != "buy milk" || !msg.Done || msg.UserID != aliceID {
		t.Errorf("Create() = %+v", msg)
	}
}

func TestMessageCreate_RepositoryError(t *testing.T) {
	svc, repo := newTestMessageService()
	repo.err = errors.New("disk full")

	_, err := svc.Create(context.Background(), aliceID, "x", false)
	if err == nil {
		t.Fatal("Create() should propagate repository errors")
	}
}

// =========================================================================
// UPDATE / PATCH / DELETE
// =========================================================================

func TestMessageUpdate(t *testing.T) {
	svc, _ := newTestMessageService()
	ctx := context.Background()
	created, _ := svc.Create(ctx, aliceID, "X", false)

	updated, err := svc.Update(ctx, aliceID, created.ID, "Y", true)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Text != "Y" || !updated.Done {
		t.Errorf("Update() = %+v, want text=Y done=true", updated)
	}

	got, _ := svc.Get(ctx, aliceID, created.ID)
	if got.Text != "Y" || !got.Done {
		t.Errorf("Get() after update = %+v", got)
	}
}

func TestMessageUpdate_EmptyTextRejectedBeforeLookup(t *testing.T) {
	svc, _ := newTestMessageService()

	_, err := svc.Update(context.Background(), aliceID, 999, "", true)
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Update() error = %v, want ErrValidation", err)
	}
}

func TestMessagePatchDone(t *testing.T) {
	svc, _ := newTestMessageService()
	ctx := context.Background()
	created, _ := svc.Create(ctx, aliceID, "X", false)

	if err := svc.PatchDone(ctx, aliceID, created.ID, true); err != nil {
		t.Fatalf("PatchDone() error = %v", err)
	}
	got, _ := svc.Get(ctx, aliceID, created.ID)
	if !got.Done || got.Text != "X" {
		t.Errorf("after PatchDone = %+v", got)
	}
}

func TestMessageDelete_ReturnsSnapshot(t *testing.T) {
	svc, _ := newTestMessageService()
	ctx := context.Background()
	created, _ := svc.Create(ctx, aliceID, "X", true)

	deleted, err := svc.Delete(ctx, aliceID, created.ID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if deleted.ID != created.ID || deleted.Text != "X" {
		t.Errorf("Delete() = %+v, want the removed row", deleted)
	}
	if _, err := svc.Get(ctx, aliceID, created.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
}

func TestMessageNotFound(t *testing.T) {
	svc, _ := newTestMessageService()
	ctx := context.Background()

	ops := map[string]func() error{
		"get":    func() error { _, err := svc.Get(ctx, aliceID, 404); return err },
		"update": func() error { _, err := svc.Update(ctx, aliceID, 404, "Y", true); return err },
		"patch":  func() error { return svc.PatchDone(ctx, aliceID, 404, true) },
		"delete": func() error { _, err := svc.Delete(ctx, aliceID, 404); return err },
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			if err := op(); !errors.Is(err, apperror.ErrNotFound) {
				t.Errorf("error = %v, want ErrNotFound", err)
			}
		})
	}
}

// Messages created by alice must be invisible to bob through every operation.
func TestMessageOwnershipIsolation(t *testing.T) {
	svc, _ := newTestMessageService()
	ctx := context.Background()
	created, _ := svc.Create(ctx, aliceID, "alice only", false)

	list, _ := svc.List(ctx, bobID)
	if len(list) != 0 {
		t.Errorf("bob lists %d messages, want 0", len(list))
	}

	ops := map[string]func() error{
		"get":    func() error { _, err := svc.Get(ctx, bobID, created.ID); return err },
		"update": func() error { _, err := svc.Update(ctx, bobID, created.ID, "Y", true); return err },
		"patch":  func() error { return svc.PatchDone(ctx, bobID, created.ID, true) },
		"delete": func() error { _, err := svc.Delete(ctx, bobID, created.ID); return err },
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			if err := op(); !errors.Is(err, apperror.ErrNotFound) {
				t.Errorf("error = %v, want ErrNotFound", err)
			}
		})
	}

	got, err := svc.Get(ctx, aliceID, created.ID)
	if err != nil || got.Text != "alice only" || got.Done {
		t.Errorf("alice's message was touched: %+v, %v", got, err)
	}
}

// =========================================================================
// DELETE ALL
// =========================================================================

func TestMessageDeleteAll(t *testing.T) {
	svc, _ := newTestMessageService()
	ctx := context.Background()

	// Nothing to delete yet.
	if _, err := svc.DeleteAll(ctx, aliceID); !errors.Is(err, apperror.ErrEmpty) {
		t.Fatalf("DeleteAll() on empty error = %v, want ErrEmpty", err)
	}

	svc.Create(ctx, aliceID, "one", false)
	svc.Create(ctx, aliceID, "two", true)
	svc.Create(ctx, bobID, "bob's", false)

	n, err := svc.DeleteAll(ctx, aliceID)
	if err != nil {
		t.Fatalf("DeleteAll() error = %v", err)
	}
	if n != 2 {
		t.Errorf("DeleteAll() = %d, want 2", n)
	}

	list, _ := svc.List(ctx, aliceID)
	if len(list) != 0 {
		t.Errorf("List() after DeleteAll = %d entries, want 0", len(list))
	}
	bobs, _ := svc.List(ctx, bobID)
	if len(bobs) != 1 {
		t.Errorf("bob's messages = %d, want 1", len(bobs))
	}
}
